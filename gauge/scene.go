package gauge

import "fmt"

// Ring radii and stroke sizes as fractions of the dial size.
const (
	OuterRing    = 0.48
	InnerRing    = 0.44
	Face         = 0.40
	Hub          = 0.10
	HubCore      = 0.07
	NeedleCap    = 0.025
	NeedleLength = 0.35
	NeedleWidth  = 0.015
	LabelSize    = 0.04
)

const (
	DefaultSize        = 300
	DefaultNeedleColor = "#ff3b30"
	WarningColor       = "#ff3b30"
	TickColor          = "#ffffff"
)

// Dial holds everything about a gauge that does not change from one reading
// to the next.
type Dial struct {
	Range       Range
	Size        float64
	NeedleColor string
	ShowNeedle  bool
	WarnAbove   float64
}

func NewDial(r Range) Dial {
	return Dial{
		Range:       r,
		Size:        DefaultSize,
		NeedleColor: DefaultNeedleColor,
		ShowNeedle:  true,
		WarnAbove:   DefaultWarnAbove,
	}
}

func (d Dial) Validate() error {
	if err := d.Range.Validate(); err != nil {
		return err
	}
	if d.Size <= 0 {
		return fmt.Errorf("dial size must be positive, got %v", d.Size)
	}
	return nil
}

// Ring is a filled circle around the dial center.
type Ring struct {
	Name   string
	Radius float64
}

// Needle is the pointer segment from the center to Tip.
type Needle struct {
	Angle float64
	Base  Point
	Tip   Point
	Width float64
	Cap   float64
	Color string
}

// Scene is everything needed to draw one frame.
type Scene struct {
	Dial   Dial
	Value  float64
	Target float64
	Center Point
	Rings  []Ring
	Ticks  []Tick
}

// Scene lays out the dial for value. The needle is not placed here because
// its angle is animated separately; see Needle.
func (d Dial) Scene(value float64) Scene {
	c := Point{X: d.Size / 2, Y: d.Size / 2}
	v := d.Range.Clamp(value)
	return Scene{
		Dial:   d,
		Value:  v,
		Target: d.Range.Angle(v),
		Center: c,
		Rings: []Ring{
			{Name: "outer", Radius: d.Size * OuterRing},
			{Name: "inner", Radius: d.Size * InnerRing},
			{Name: "face", Radius: d.Size * Face},
			{Name: "hub", Radius: d.Size * Hub},
			{Name: "hubcore", Radius: d.Size * HubCore},
		},
		Ticks: Ticks(d.Range, d.Size, d.WarnAbove),
	}
}

// Needle places the pointer at angle, which is usually an animated value
// somewhere between the previous and current Target.
func (s Scene) Needle(angle float64) Needle {
	return Needle{
		Angle: angle,
		Base:  s.Center,
		Tip:   Polar(s.Center, s.Dial.Size*NeedleLength, angle),
		Width: s.Dial.Size * NeedleWidth,
		Cap:   s.Dial.Size * NeedleCap,
		Color: s.Dial.NeedleColor,
	}
}
