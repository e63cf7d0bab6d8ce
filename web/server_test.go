package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxxserxxx/dialtop"
	"github.com/xxxserxxx/dialtop/devices"
	"github.com/xxxserxxx/dialtop/web/views"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestServer(t *testing.T) (*httptest.Server, *devices.Reading, *fakeClock) {
	t.Helper()
	require.NoError(t, views.LoadTemplates())

	c := dialtop.NewConfig()
	reading := devices.NewReading(c.Range(), c.Value)
	s := New(c, reading)
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s.now = clock.now
	ts := httptest.NewServer(requestLogger(s.Mux()))
	t.Cleanup(ts.Close)
	return ts, reading, clock
}

func getReading(t *testing.T, ts *httptest.Server) ReadingResponse {
	t.Helper()
	resp, err := ts.Client().Get(ts.URL + "/api/reading")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rr ReadingResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rr))
	return rr
}

func getBody(t *testing.T, ts *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := ts.Client().Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestInitialReadingNeedleAngle(t *testing.T) {
	ts, _, _ := newTestServer(t)
	rr := getReading(t, ts)
	assert.Equal(t, 130.0, rr.Value)
	assert.Equal(t, 0.0, rr.Min)
	assert.Equal(t, 180.0, rr.Max)
	assert.InDelta(t, 60, rr.Target, 1e-9)
	assert.InDelta(t, 60, rr.Angle, 1e-9, "first frame snaps to the target")
}

func TestNeedleEasesToNewReading(t *testing.T) {
	ts, reading, clock := newTestServer(t)
	getReading(t, ts)

	reading.Set(0)
	clock.t = clock.t.Add(100 * time.Millisecond)
	rr := getReading(t, ts)
	assert.InDelta(t, -135, rr.Target, 1e-9)
	assert.Less(t, rr.Angle, 60.0)
	assert.Greater(t, rr.Angle, -135.0)

	clock.t = clock.t.Add(10 * time.Second)
	rr = getReading(t, ts)
	assert.InDelta(t, -135, rr.Angle, 1e-9)
}

func TestSetReading(t *testing.T) {
	ts, reading, _ := newTestServer(t)
	tests := []struct {
		raw  string
		want float64
	}{
		{"abc", 130},
		{"500", 180},
		{"-3", 0},
		{"77", 77},
	}
	for _, tt := range tests {
		resp, err := ts.Client().PostForm(ts.URL+"/api/reading", url.Values{"value": {tt.raw}})
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode, tt.raw)
		assert.Equal(t, tt.want, reading.Value(), tt.raw)
	}
}

func TestDialSVG(t *testing.T) {
	ts, _, _ := newTestServer(t)
	resp, body := getBody(t, ts, "/dial.svg")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Contains(t, body, `width="300"`)

	resp, body = getBody(t, ts, "/dial.svg?size=400&value=90")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `width="400"`)
	assert.Contains(t, body, `x2="3400" y2="2000"`)
}

func TestDialSVGBadQuery(t *testing.T) {
	ts, _, _ := newTestServer(t)
	for _, q := range []string{"?size=0", "?size=big", "?size=100000", "?value=hot"} {
		resp, _ := getBody(t, ts, "/dial.svg"+q)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestPage(t *testing.T) {
	ts, _, _ := newTestServer(t)
	resp, body := getBody(t, ts, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
	assert.Contains(t, body, "Temperature  (0-180)")
	assert.Contains(t, body, `/dial.svg?size=400`)

	resp, _ = getBody(t, ts, "/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts, _, _ := newTestServer(t)
	resp, body := getBody(t, ts, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestMetricsHandler(t *testing.T) {
	s := metrics.NewSet()
	s.NewGauge("dial_reading_random", func() float64 { return 42 })
	rec := httptest.NewRecorder()
	MetricsHandler(s).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "dial_reading_random 42")
}
