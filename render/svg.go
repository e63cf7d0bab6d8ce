// Package render draws a gauge.Scene as a standalone SVG document.
package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/xxxserxxx/dialtop/gauge"
)

// unit is how many viewBox units make one pixel. svgo works in integers, so
// geometry is scaled up to keep sub-pixel tick positions.
const unit = 10

const (
	outerGradient  = "outerRingGradient"
	innerGradient  = "innerRingGradient"
	faceGradient   = "innerBlackGradient"
	hubGradient    = "centerCircleGradient"
	shadowFilter   = "shadow"
	ringStroke     = "#2a2a2a"
	hubCoreFill    = "#111111"
	tickStrokeSize = 0.1
	shadowOpacity  = 0.7
)

// CSS shadow lengths are in user space, so they scale with the viewBox.
var (
	labelShadow  = fmt.Sprintf("text-shadow:0px %dpx %dpx rgba(0,0,0,0.8)", 1*unit, 2*unit)
	needleShadow = fmt.Sprintf("filter:drop-shadow(0px 0px %dpx rgba(0,0,0,0.7))", 3*unit)
)

// SVG writes the scene with the needle at angle. angle is normally the
// animated value; pass s.Target for a still frame.
func SVG(w io.Writer, s gauge.Scene, angle float64) error {
	ew := &errWriter{w: w}
	size := int(math.Round(s.Dial.Size))
	canvas := svg.New(ew)
	canvas.Startview(size, size, 0, 0, size*unit, size*unit)
	canvas.Title(fmt.Sprintf("%s (%s)", gauge.FormatValue(s.Value), s.Dial.Range))
	defs(canvas)

	cx, cy := scale(s.Center.X), scale(s.Center.Y)
	for _, r := range s.Rings {
		switch r.Name {
		case "outer":
			canvas.Circle(cx, cy, scale(r.Radius), fmt.Sprintf("fill:url(#%s);stroke:%s;stroke-width:%d;filter:url(#%s)", outerGradient, ringStroke, unit, shadowFilter))
		case "inner":
			canvas.Circle(cx, cy, scale(r.Radius), fmt.Sprintf("fill:url(#%s);stroke:%s;stroke-width:%d", innerGradient, ringStroke, unit))
		case "face":
			canvas.Circle(cx, cy, scale(r.Radius), fmt.Sprintf("fill:url(#%s)", faceGradient))
		}
	}

	ticks(canvas, s)

	// hub sits above the ticks and below the needle
	for _, r := range s.Rings {
		switch r.Name {
		case "hub":
			canvas.Circle(cx, cy, scale(r.Radius), fmt.Sprintf("fill:url(#%s);stroke:%s;stroke-width:%d", hubGradient, ringStroke, unit))
		case "hubcore":
			canvas.Circle(cx, cy, scale(r.Radius), "fill:"+hubCoreFill)
		}
	}

	if s.Dial.ShowNeedle {
		n := s.Needle(angle)
		canvas.Line(scale(n.Base.X), scale(n.Base.Y), scale(n.Tip.X), scale(n.Tip.Y),
			fmt.Sprintf("stroke:%s;stroke-width:%d;stroke-linecap:round;%s", n.Color, scale(n.Width), needleShadow))
		canvas.Circle(cx, cy, scale(n.Cap), "fill:"+n.Color)
	}
	canvas.End()
	return ew.err
}

func defs(canvas *svg.SVG) {
	canvas.Def()
	canvas.LinearGradient(outerGradient, 0, 0, 0, 100, []svg.Offcolor{
		{Offset: 0, Color: "#b0b0b0", Opacity: 1},
		{Offset: 50, Color: "#d0d0d0", Opacity: 1},
		{Offset: 100, Color: "#808080", Opacity: 1},
	})
	canvas.LinearGradient(innerGradient, 0, 0, 0, 100, []svg.Offcolor{
		{Offset: 0, Color: "#505050", Opacity: 1},
		{Offset: 100, Color: "#303030", Opacity: 1},
	})
	canvas.RadialGradient(faceGradient, 50, 50, 50, 50, 50, []svg.Offcolor{
		{Offset: 0, Color: "#202020", Opacity: 1},
		{Offset: 80, Color: "#101010", Opacity: 1},
		{Offset: 100, Color: "#000000", Opacity: 1},
	})
	canvas.LinearGradient(hubGradient, 0, 0, 0, 100, []svg.Offcolor{
		{Offset: 0, Color: "#606060", Opacity: 1},
		{Offset: 50, Color: "#808080", Opacity: 1},
		{Offset: 100, Color: "#404040", Opacity: 1},
	})
	canvas.Filter(shadowFilter, `x="-20%" y="-20%" width="140%" height="140%"`)
	canvas.FeGaussianBlur(svg.Filterspec{In: "SourceAlpha", Result: "blur"}, 5*unit, 5*unit)
	canvas.FeOffset(svg.Filterspec{In: "blur", Result: "offsetblur"}, 0, 0)
	fmt.Fprintln(canvas.Writer, `<feComponentTransfer in="offsetblur" result="fadedblur">`)
	canvas.FeFuncLinear("A", shadowOpacity, 0)
	canvas.FeCompEnd()
	canvas.FeMerge([]string{"fadedblur", "SourceGraphic"})
	canvas.Fend()
	canvas.DefEnd()
}

func ticks(canvas *svg.SVG, s gauge.Scene) {
	font := scale(s.Dial.Size * gauge.LabelSize)
	for _, t := range s.Ticks {
		color := gauge.TickColor
		if t.Warning {
			color = gauge.WarningColor
		}
		opacity := 1.0
		if !t.Major {
			opacity = 0.6
		}
		canvas.Line(scale(t.Outer.X), scale(t.Outer.Y), scale(t.Inner.X), scale(t.Inner.Y),
			fmt.Sprintf("stroke:%s;stroke-width:%d;opacity:%g", color, scale(tickStrokeSize), opacity))
		if t.Major {
			canvas.Text(scale(t.Label.X), scale(t.Label.Y), t.Text,
				fmt.Sprintf("fill:%s;font-size:%dpx;font-weight:bold;text-anchor:middle;dominant-baseline:middle;%s", color, font, labelShadow))
		}
	}
}

func scale(v float64) int {
	return int(math.Round(v * unit))
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
