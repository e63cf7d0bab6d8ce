package gauge

import "math"

const (
	// MajorInterval is the value distance between graduation marks.
	MajorInterval = 20.0
	// DefaultWarnAbove is the value above which ticks use the warning color.
	// It is absolute and does not scale with the range.
	DefaultWarnAbove = 120.0

	tickOuter  = 0.38
	tickLength = 0.08
	labelRing  = 0.32
)

// Point is a position in surface pixels.
type Point struct {
	X, Y float64
}

// Polar projects a point at radius r and angle deg (degrees) around c.
func Polar(c Point, r, deg float64) Point {
	t := radians(deg)
	return Point{X: c.X + r*math.Cos(t), Y: c.Y + r*math.Sin(t)}
}

// Tick is one graduation mark. Ticks are recomputed on each render.
type Tick struct {
	Value   float64
	Angle   float64
	Outer   Point
	Inner   Point
	Label   Point
	Text    string
	Major   bool
	Warning bool
}

// Ticks places a mark every MajorInterval from r.Min up to r.Max on a dial
// of the given pixel size. If the range is not a multiple of the interval a
// final mark is added at exactly r.Max, so the end of the scale is always
// labelled.
func Ticks(r Range, size, warnAbove float64) []Tick {
	if r.Validate() != nil {
		return nil
	}
	c := Point{X: size / 2, Y: size / 2}
	steps := int(math.Floor((r.Max - r.Min) / MajorInterval))
	ticks := make([]Tick, 0, steps+2)
	for i := 0; i <= steps; i++ {
		ticks = append(ticks, newTick(r, c, size, warnAbove, r.Min+float64(i)*MajorInterval))
	}
	if last := ticks[len(ticks)-1].Value; last < r.Max {
		ticks = append(ticks, newTick(r, c, size, warnAbove, r.Max))
	}
	return ticks
}

func newTick(r Range, c Point, size, warnAbove, v float64) Tick {
	a := r.Angle(v)
	return Tick{
		Value: v,
		Angle: a,
		Outer: Polar(c, size*tickOuter, a),
		Inner: Polar(c, size*(tickOuter-tickLength), a),
		Label: Polar(c, size*labelRing, a),
		Text:  FormatValue(v),
		// interval and label spacing coincide, so every mark is major
		Major:   true,
		Warning: v > warnAbove,
	}
}
