// Package web serves the dial to browsers: the host page, animated SVG
// frames and a small JSON API over the current reading.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"github.com/xxxserxxx/dialtop"
	"github.com/xxxserxxx/dialtop/devices"
	"github.com/xxxserxxx/dialtop/gauge"
	"github.com/xxxserxxx/dialtop/web/views"
)

// PageDialSize is the size the host page asks for.
const PageDialSize = 400

const maxDialSize = 4000

type Server struct {
	// Title heads the page; the range is appended.
	Title string

	conf    dialtop.Config
	reading *devices.Reading
	anim    *gauge.Animator
	now     func() time.Time
}

func New(c dialtop.Config, reading *devices.Reading) *Server {
	return &Server{
		Title:   "Temperature",
		conf:    c,
		reading: reading,
		anim:    gauge.NewAnimator(),
		now:     time.Now,
	}
}

func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.HandlePage)
	mux.HandleFunc("GET /dial.svg", s.HandleDial)
	mux.HandleFunc("GET /api/reading", s.HandleReading)
	mux.HandleFunc("POST /api/reading", s.HandleSetReading)
	mux.HandleFunc("GET /healthz", s.HandleHealthz)
	return mux
}

func NewHTTPServer(addr string, mux *http.ServeMux) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           requestLogger(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// MetricsHandler writes s in Prometheus text format.
func MetricsHandler(s *metrics.Set) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		s.WritePrometheus(w)
	})
}

// Run serves the dial on c.ServeAddr until ctx is done, then shuts down
// gracefully.
func Run(ctx context.Context, c dialtop.Config, reading *devices.Reading) error {
	if err := views.LoadTemplates(); err != nil {
		return err
	}
	s := New(c, reading)
	s.Title = c.Tr.Value("page.title")
	srv := NewHTTPServer(c.ServeAddr, s.Mux())
	return serve(ctx, srv)
}

func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	slog.Info("http shutting down", "addr", srv.Addr)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err := <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// RunMetrics exports m on addr until ctx is done.
func RunMetrics(ctx context.Context, addr string, m *metrics.Set) error {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", MetricsHandler(m))
	return serve(ctx, NewHTTPServer(addr, mux))
}
