// Package gauge computes the geometry of an analog dial: ring radii, tick
// placement, labels and the needle angle. Everything here is a pure function
// of its inputs; nothing is cached between renders.
package gauge

import (
	"fmt"
	"math"
)

const (
	// StartAngle is where Min sits on the dial, in degrees. 0° points right
	// and angles grow clockwise because SVG and terminal y axes point down.
	StartAngle = -135.0
	// Sweep is the arc covered between Min and Max.
	Sweep = 270.0
)

// Range is the inclusive span of values a dial can show.
type Range struct {
	Min float64
	Max float64
}

// MaxTicks bounds how many marks a valid range may produce.
const MaxTicks = 1000

func (r Range) Validate() error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return fmt.Errorf("range bounds must be finite numbers, got %v..%v", r.Min, r.Max)
	}
	if r.Min >= r.Max {
		return fmt.Errorf("range min (%v) must be less than max (%v)", r.Min, r.Max)
	}
	if (r.Max-r.Min)/MajorInterval > MaxTicks {
		return fmt.Errorf("range %v..%v is too wide; at most %d ticks of %v fit", r.Min, r.Max, MaxTicks, MajorInterval)
	}
	return nil
}

// Clamp bounds v to [min, max]. NaN collapses to min.
func Clamp(v, min, max float64) float64 {
	if math.IsNaN(v) || v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func (r Range) Clamp(v float64) float64 {
	return Clamp(v, r.Min, r.Max)
}

// Fraction is how far v (clamped) sits between Min and Max, in [0, 1].
func (r Range) Fraction(v float64) float64 {
	return (r.Clamp(v) - r.Min) / (r.Max - r.Min)
}

// Angle maps v linearly onto the dial sweep: Min is -135°, Max is +135°.
func (r Range) Angle(v float64) float64 {
	return r.Fraction(v)*Sweep + StartAngle
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", FormatValue(r.Min), FormatValue(r.Max))
}

// FormatValue prints whole numbers without a fraction, everything else with
// one decimal.
func FormatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
