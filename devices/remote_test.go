package devices

import (
	"bufio"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/VictoriaMetrics/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxxserxxx/dialtop/gauge"
)

func TestProcess(t *testing.T) {
	tests := []struct {
		in  string
		exp float64
		err bool
	}{
		{"dial_reading_random 42\ndial_updates_random_total 7\n", 42, false},
		{"# HELP x\ndial_updates_feed_total 3\ndial_reading_feed 21.5\n", 21.5, false},
		{"dial_reading_feed\ndial_reading_feed nope\ndial_reading_self 9\n", 9, false},
		{"go_goroutines 12\n", 0, true},
		{"", 0, true},
	}
	for _, tc := range tests {
		v, err := process(bufio.NewScanner(strings.NewReader(tc.in)))
		if tc.err {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.exp, v, tc.in)
	}
}

func TestRemoteFollowsExport(t *testing.T) {
	src := NewReading(gauge.Range{Min: 0, Max: 180}, 77)
	set := metrics.NewSet()
	enableReadingMetrics(set, "random", src)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		set.WritePrometheus(w)
	}))
	defer ts.Close()

	dst := NewReading(gauge.Range{Min: 0, Max: 100}, 0)
	rm, err := NewRemote(ts.URL, dst)
	require.NoError(t, err)
	require.NoError(t, rm.Update())
	assert.Equal(t, 77.0, dst.Value())

	// clamped to the local range
	src.Set(150)
	require.NoError(t, rm.Update())
	assert.Equal(t, 100.0, dst.Value())
}

func TestRemoteErrors(t *testing.T) {
	_, err := NewRemote("not a url", NewReading(gauge.Range{Min: 0, Max: 1}, 0))
	assert.Error(t, err)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer ts.Close()
	rm, err := NewRemote(ts.URL, NewReading(gauge.Range{Min: 0, Max: 1}, 0))
	require.NoError(t, err)
	err = rm.Update()
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprint(http.StatusServiceUnavailable))
}
