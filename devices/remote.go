package devices

import (
	"bufio"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

var readingPrefix = makeName("dial", "reading", "")

// Remote follows the reading of another dialtop by pulling its metrics
// export, so one instance can mirror another.
type Remote struct {
	URL     string
	client  *http.Client
	reading *Reading
}

func NewRemote(u string, r *Reading) (*Remote, error) {
	pu, err := url.Parse(u)
	if err != nil || pu.Scheme == "" || pu.Host == "" {
		return nil, fmt.Errorf("bad remote URL %q", u)
	}
	return &Remote{
		URL:     u,
		client:  &http.Client{Timeout: 5 * time.Second},
		reading: r,
	}, nil
}

func (rm *Remote) Update() error {
	res, err := rm.client.Get(rm.URL)
	if err != nil {
		return fmt.Errorf("error pulling remote dialtop: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unsuccessful connection to %s: http status %s", rm.URL, res.Status)
	}
	v, err := process(bufio.NewScanner(res.Body))
	if err != nil {
		return fmt.Errorf("%s: %w", rm.URL, err)
	}
	rm.reading.Set(v)
	return nil
}

// process finds the first dial_reading_* gauge in Prometheus text output.
func process(data *bufio.Scanner) (float64, error) {
	for data.Scan() {
		line := data.Text()
		if !strings.HasPrefix(line, readingPrefix) {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			slog.Warn("bad data; not enough columns", "line", line)
			continue
		}
		val, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			slog.Warn("bad data", "line", line, "error", err)
			continue
		}
		return val, nil
	}
	if err := data.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("no %s* metric found", readingPrefix)
}

func (rm *Remote) EnableMetrics(s *metrics.Set) {
	enableReadingMetrics(s, "remote", rm.reading)
}
