package devices

import (
	"fmt"
	"strings"

	"github.com/VictoriaMetrics/metrics"
)

// makeName creates a prometheus metric name in the dial space. It is only
// called when metrics are enabled, so it does not need to be quick.
func makeName(parts ...interface{}) string {
	args := make([]string, len(parts))
	for i, v := range parts {
		args[i] = fmt.Sprintf("%v", v)
	}
	rv := strings.Join(args, "_")
	rv = strings.ReplaceAll(rv, "-", ":")
	rv = strings.ReplaceAll(rv, " ", ":")
	return rv
}

func enableReadingMetrics(s *metrics.Set, source string, r *Reading) {
	s.NewGauge(makeName("dial", "reading", source), func() float64 {
		return r.Value()
	})
	s.NewGauge(makeName("dial", "updates", source, "total"), func() float64 {
		return float64(r.Updates())
	})
}
