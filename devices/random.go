package devices

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// Random replaces the reading with a uniformly random integer in range
// every time it is updated.
type Random struct {
	name    string
	reading *Reading
	mu      sync.Mutex
	rnd     *rand.Rand
}

func NewRandom(name string, r *Reading, seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{
		name:    name,
		reading: r,
		rnd:     rand.New(rand.NewSource(seed)),
	}
}

// Update performs one tick.
func (d *Random) Update() error {
	d.reading.Set(d.Sample())
	return nil
}

// Sample draws floor(rand*(max-min+1)) + min. Both ends are reachable; for
// non-integer bounds the result is clamped by the Reading.
func (d *Random) Sample() float64 {
	rng := d.reading.Range()
	d.mu.Lock()
	f := d.rnd.Float64()
	d.mu.Unlock()
	return math.Floor(f*(rng.Max-rng.Min+1)) + rng.Min
}

func (d *Random) Reading() *Reading {
	return d.reading
}

func (d *Random) EnableMetrics(s *metrics.Set) {
	enableReadingMetrics(s, d.name, d.reading)
}
