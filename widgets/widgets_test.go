package widgets

import (
	"image"
	"strings"
	"testing"
	"time"

	"github.com/gizak/termui/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxxserxxx/dialtop/devices"
	"github.com/xxxserxxx/dialtop/gauge"
)

func render(d termui.Drawable) *termui.Buffer {
	buf := termui.NewBuffer(d.GetRect())
	d.Draw(buf)
	return buf
}

func row(buf *termui.Buffer, y int) string {
	var sb strings.Builder
	for x := buf.Min.X; x < buf.Max.X; x++ {
		sb.WriteRune(buf.GetCell(image.Pt(x, y)).Rune)
	}
	return sb.String()
}

func screen(buf *termui.Buffer) string {
	var sb strings.Builder
	for y := buf.Min.Y; y < buf.Max.Y; y++ {
		sb.WriteString(row(buf, y))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func isBraille(r rune) bool {
	return r > 0x2800 && r <= 0x28ff
}

func TestTermColor(t *testing.T) {
	tests := []struct {
		in  string
		exp termui.Color
	}{
		{"#ff3b30", termui.ColorRed},
		{"#ffffff", termui.ColorWhite},
		{"#000", termui.ColorBlack},
		{"#0000cc", termui.ColorBlue},
		{"00ff00", termui.ColorGreen},
		{"#ffd700", termui.ColorYellow},
		{"nonsense", termui.ColorWhite},
		{"", termui.ColorWhite},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.exp, TermColor(tc.in), tc.in)
	}
}

func TestDialWidgetDraw(t *testing.T) {
	r := devices.NewReading(gauge.Range{Min: 0, Max: 180}, 90)
	w := NewDialWidget("Dial", gauge.NewDial(r.Range()), r)
	w.SetRect(0, 0, 42, 22)
	buf := render(w)

	out := screen(buf)
	assert.Contains(t, out, "Dial")
	for _, label := range []string{"0", "100", "180"} {
		assert.Contains(t, out, label)
	}

	// 90 points the needle straight right from the center cell (21, 11)
	c := buf.GetCell(image.Pt(28, 11))
	assert.True(t, isBraille(c.Rune), "%q", c.Rune)
	assert.Equal(t, termui.ColorRed, c.Style.Fg)
	assert.Equal(t, 90.0, w.Value())
}

func TestDialWidgetWarningTicks(t *testing.T) {
	r := devices.NewReading(gauge.Range{Min: 0, Max: 180}, 0)
	d := gauge.NewDial(r.Range())
	d.ShowNeedle = false
	w := NewDialWidget("", d, r)
	w.WarnColor = termui.ColorMagenta
	w.SetRect(0, 0, 42, 22)
	buf := render(w)

	warn := 0
	for y := buf.Min.Y; y < buf.Max.Y; y++ {
		for x := buf.Min.X; x < buf.Max.X; x++ {
			if buf.GetCell(image.Pt(x, y)).Style.Fg == termui.ColorMagenta {
				warn++
			}
		}
	}
	// the 140, 160 and 180 marks and their labels
	assert.Greater(t, warn, 6)
}

func TestDialWidgetSmallHidesLabels(t *testing.T) {
	r := devices.NewReading(gauge.Range{Min: 0, Max: 180}, 0)
	w := NewDialWidget("", gauge.NewDial(r.Range()), r)
	w.SetRect(0, 0, 12, 7)
	out := screen(render(w))
	assert.NotContains(t, out, "180")
}

func TestDialWidgetAnimates(t *testing.T) {
	r := devices.NewReading(gauge.Range{Min: 0, Max: 180}, 0)
	w := NewDialWidget("", gauge.NewDial(r.Range()), r)
	now := time.Unix(1000, 0)
	w.now = func() time.Time { return now }
	w.SetRect(0, 0, 42, 22)
	render(w)
	assert.False(t, w.Animating())

	r.Set(180)
	w.Update()
	assert.True(t, w.Animating())
	for i := 0; i < 600; i++ {
		now = now.Add(20 * time.Millisecond)
		render(w)
	}
	assert.False(t, w.Animating())
}

func TestBarWidget(t *testing.T) {
	r := devices.NewReading(gauge.Range{Min: 0, Max: 180}, 135)
	w := NewBarWidget("Bar", gauge.DefaultWarnAbove, r)
	assert.Equal(t, 75, w.Percent)
	assert.Equal(t, "135 (75%)", w.Label)
	assert.Equal(t, w.WarnColor, w.BarColor)

	r.Set(60)
	w.Unit = "°"
	w.Update()
	assert.Equal(t, 33, w.Percent)
	assert.Equal(t, "60° (33%)", w.Label)
	assert.Equal(t, w.NormalColor, w.BarColor)

	// exactly at the threshold is not a warning
	r.Set(120)
	w.Update()
	assert.Equal(t, w.NormalColor, w.BarColor)
}

func TestStatusBar(t *testing.T) {
	r := devices.NewReading(gauge.Range{Min: 0, Max: 180}, 100)
	sb := NewStatusBar("dialtop", r)
	sb.now = func() time.Time { return time.Date(2024, 1, 2, 13, 14, 15, 0, time.UTC) }
	for i := 0; i < 5; i++ {
		sb.Update()
	}
	assert.InDelta(t, 100, sb.Average(), 1e-9)

	sb.SetRect(0, 0, 60, 1)
	out := row(render(sb), 0)
	assert.Contains(t, out, "13:14:15")
	assert.True(t, strings.HasSuffix(strings.TrimRight(out, " "), "~100.0 dialtop"), out)
}

func TestHelpMenu(t *testing.T) {
	h := NewHelpMenu("Help", "q: quit\n?: toggle help\n")
	h.Resize(80, 24)
	rect := h.GetRect()
	assert.Equal(t, 15, rect.Dx())
	assert.Equal(t, 4, rect.Dy())
	assert.Equal(t, (80-15)/2, rect.Min.X)

	buf := render(h)
	assert.Contains(t, screen(buf), "?: toggle help")
}

func TestInputLine(t *testing.T) {
	r := devices.NewReading(gauge.Range{Min: 0, Max: 180}, 0)
	in := NewInputLine("Set", "> ", r)

	for _, k := range []string{"4", "x", "2", "<Enter>", "-"} {
		in.Type(k)
	}
	assert.Equal(t, "42", in.Text())
	in.Backspace()
	assert.Equal(t, "4", in.Text())
	in.Type("7")
	require.True(t, in.Submit())
	assert.Equal(t, 47.0, r.Value())
	assert.Empty(t, in.Text())

	assert.True(t, in.Type("-"))
	in.Type("5")
	require.True(t, in.Submit())
	assert.Equal(t, 0.0, r.Value())

	assert.False(t, in.Submit())
	assert.Equal(t, 0.0, r.Value())
}
