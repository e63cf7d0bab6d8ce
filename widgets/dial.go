package widgets

import (
	"image"
	"time"

	"github.com/gizak/termui/v3"
	"github.com/mattn/go-runewidth"

	"github.com/xxxserxxx/dialtop/devices"
	"github.com/xxxserxxx/dialtop/gauge"
)

// Braille cells hold 2x4 dots, which makes dots roughly square.
const (
	dotsX = 2
	dotsY = 4

	// below this many dots across, labels would overlap the ticks
	minLabelledSize = 48
)

// DialWidget draws the gauge with braille dots. The needle is eased by its
// own Animator, so it moves smoothly between the once-a-second updates.
type DialWidget struct {
	*termui.Block
	RingColor termui.Color
	TickColor termui.Color
	WarnColor termui.Color

	dial    gauge.Dial
	reading *devices.Reading
	anim    *gauge.Animator
	now     func() time.Time
	value   float64
}

func NewDialWidget(title string, d gauge.Dial, r *devices.Reading) *DialWidget {
	self := &DialWidget{
		Block:     termui.NewBlock(),
		dial:      d,
		reading:   r,
		anim:      gauge.NewAnimator(),
		now:       time.Now,
		RingColor: termui.ColorWhite,
		TickColor: termui.ColorWhite,
		WarnColor: termui.ColorRed,
	}
	self.Title = title
	self.Update()
	return self
}

func (self *DialWidget) Update() {
	self.value = self.reading.Value()
	self.anim.Retarget(self.dial.Range.Angle(self.value))
}

// Value is the reading as of the last Update.
func (self *DialWidget) Value() float64 {
	return self.value
}

// Animating reports whether the needle is still moving.
func (self *DialWidget) Animating() bool {
	return !self.anim.Settled()
}

// scene lays the dial out in dot coordinates for the current inner area and
// returns the dot offset of its top-left corner.
func (self *DialWidget) scene() (gauge.Scene, image.Point) {
	w, h := self.Inner.Dx()*dotsX, self.Inner.Dy()*dotsY
	size := w
	if h < size {
		size = h
	}
	d := self.dial
	d.Size = float64(size)
	off := image.Pt(self.Inner.Min.X*dotsX+(w-size)/2, self.Inner.Min.Y*dotsY+(h-size)/2)
	return d.Scene(self.value), off
}

func (self *DialWidget) Draw(buf *termui.Buffer) {
	self.Block.Draw(buf)
	angle := self.anim.Advance(self.now())
	s, off := self.scene()
	if s.Dial.Size < 4 {
		return
	}
	dot := func(p gauge.Point) image.Point {
		return image.Pt(off.X+int(p.X+0.5), off.Y+int(p.Y+0.5))
	}

	cv := termui.NewCanvas()
	cv.Rectangle = self.Inner
	for _, r := range s.Rings {
		if r.Name != "outer" && r.Name != "hub" {
			continue
		}
		// one dot per degree is plenty at terminal resolution
		for deg := 0.0; deg < 360; deg++ {
			cv.SetPoint(dot(gauge.Polar(s.Center, r.Radius, deg)), self.RingColor)
		}
	}
	for _, t := range s.Ticks {
		c := self.TickColor
		if t.Warning {
			c = self.WarnColor
		}
		cv.SetLine(dot(t.Outer), dot(t.Inner), c)
	}
	if s.Dial.ShowNeedle {
		n := s.Needle(angle)
		cv.SetLine(dot(n.Base), dot(n.Tip), TermColor(n.Color))
	}
	cv.Draw(buf)

	if s.Dial.Size < minLabelledSize {
		return
	}
	for _, t := range s.Ticks {
		st := termui.NewStyle(self.TickColor)
		if t.Warning {
			st = termui.NewStyle(self.WarnColor)
		}
		p := dot(t.Label)
		cell := image.Pt(p.X/dotsX-runewidth.StringWidth(t.Text)/2, p.Y/dotsY)
		if cell.In(self.Inner) {
			buf.SetString(t.Text, st, cell)
		}
	}
}
