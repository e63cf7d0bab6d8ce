package devices

import (
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/xxxserxxx/dialtop/gauge"
)

// Reading is the value shown on the dial. It is always inside its range.
type Reading struct {
	mu      sync.RWMutex
	rng     gauge.Range
	value   float64
	updates uint64
}

func NewReading(r gauge.Range, initial float64) *Reading {
	return &Reading{rng: r, value: r.Clamp(initial)}
}

func (r *Reading) Value() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

func (r *Reading) Range() gauge.Range {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rng
}

// Updates counts how many times the value has been replaced.
func (r *Reading) Updates() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.updates
}

// Set stores v, clamped to the range, and returns what was stored.
func (r *Reading) Set(v float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = r.rng.Clamp(v)
	r.updates++
	return r.value
}

// SetFromInput parses raw as an integer and stores it clamped. Input that
// does not start with a number is ignored and false is returned; this is
// not an error.
func (r *Reading) SetFromInput(raw string) bool {
	n, ok := parseLeadingInt(raw)
	if !ok {
		return false
	}
	r.Set(float64(n))
	return true
}

// parseLeadingInt reads an optionally signed run of digits at the start of
// s, ignoring surrounding space and anything after the digits, so "42°C"
// reads as 42.
func parseLeadingInt(s string) (int64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		// only overflow gets here; saturate so clamping still applies
		if s[0] == '-' {
			return -1 << 63, true
		}
		return 1<<63 - 1, true
	}
	return n, true
}
