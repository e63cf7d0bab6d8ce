package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/xxxserxxx/dialtop/gauge"
	"github.com/xxxserxxx/dialtop/render"
	"github.com/xxxserxxx/dialtop/web/views"
)

// ReadingResponse is the JSON form of the current reading. Angle is where
// the animated needle is right now; Target is where it is heading.
type ReadingResponse struct {
	Value  float64 `json:"value"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Angle  float64 `json:"angle"`
	Target float64 `json:"target"`
}

func (s *Server) HandlePage(w http.ResponseWriter, r *http.Request) {
	rng := s.reading.Range()
	data := views.NewPageData(
		s.Title,
		gauge.FormatValue(rng.Min),
		gauge.FormatValue(rng.Max),
		gauge.FormatValue(s.reading.Value()),
		PageDialSize,
		s.conf.FrameInterval,
		s.conf.ShowInput,
	)
	var buf bytes.Buffer
	if err := views.RenderPage(&buf, data); err != nil {
		slog.Error("render page", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// HandleDial renders the current animation frame. With ?value= it renders
// that value as a still frame instead and leaves the animation alone.
func (s *Server) HandleDial(w http.ResponseWriter, r *http.Request) {
	dial := s.conf.Dial()
	q := r.URL.Query()
	if raw := q.Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxDialSize {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid 'size' (expected 1..%d)", maxDialSize))
			return
		}
		dial.Size = float64(n)
	}

	var scene gauge.Scene
	var angle float64
	if raw := q.Get("value"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid 'value' (expected number)")
			return
		}
		dial.Range = s.reading.Range()
		scene = dial.Scene(v)
		angle = scene.Target
	} else {
		scene, angle = s.frame(dial)
	}

	var buf bytes.Buffer
	if err := render.SVG(&buf, scene, angle); err != nil {
		slog.Error("render dial", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render dial")
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// frame lays out the dial for the current reading and advances the shared
// needle animation to now.
func (s *Server) frame(dial gauge.Dial) (gauge.Scene, float64) {
	dial.Range = s.reading.Range()
	scene := dial.Scene(s.reading.Value())
	s.anim.Retarget(scene.Target)
	return scene, s.anim.Advance(s.now())
}

func (s *Server) HandleReading(w http.ResponseWriter, r *http.Request) {
	scene, angle := s.frame(s.conf.Dial())
	rng := s.reading.Range()
	writeJSON(w, http.StatusOK, ReadingResponse{
		Value:  scene.Value,
		Min:    rng.Min,
		Max:    rng.Max,
		Angle:  angle,
		Target: scene.Target,
	})
}

// HandleSetReading is the manual input path. Input that is not a number is
// dropped without complaint, so the response is the same either way.
func (s *Server) HandleSetReading(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	if !s.reading.SetFromInput(r.FormValue("value")) {
		slog.Debug("manual input ignored", "value", r.FormValue("value"))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to write JSON", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error":   http.StatusText(status),
		"message": msg,
	})
}
