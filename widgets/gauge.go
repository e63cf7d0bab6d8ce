package widgets

import (
	"fmt"

	"github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/xxxserxxx/dialtop/devices"
	"github.com/xxxserxxx/dialtop/gauge"
)

// BarWidget shows the reading as a horizontal bar, for terminals too small
// for the dial to be legible.
type BarWidget struct {
	*widgets.Gauge
	NormalColor termui.Color
	WarnColor   termui.Color
	Unit        string
	warnAbove   float64
	reading     *devices.Reading
}

func NewBarWidget(title string, warnAbove float64, r *devices.Reading) *BarWidget {
	self := &BarWidget{
		Gauge:       widgets.NewGauge(),
		NormalColor: termui.ColorCyan,
		WarnColor:   termui.ColorRed,
		warnAbove:   warnAbove,
		reading:     r,
	}
	self.Title = title
	self.Update()
	return self
}

func (self *BarWidget) Update() {
	v := self.reading.Value()
	f := self.reading.Range().Fraction(v)
	self.Percent = int(f*100 + 0.5)
	self.Label = fmt.Sprintf("%s%s (%d%%)", gauge.FormatValue(v), self.Unit, self.Percent)
	if v > self.warnAbove {
		self.BarColor = self.WarnColor
	} else {
		self.BarColor = self.NormalColor
	}
}
