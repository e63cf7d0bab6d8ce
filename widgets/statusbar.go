package widgets

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/VividCortex/ewma"
	"github.com/gizak/termui/v3"

	"github.com/xxxserxxx/dialtop/devices"
)

// StatusBar shows the host, the clock and a moving average of the reading.
type StatusBar struct {
	termui.Block
	Name    string
	reading *devices.Reading
	mu      sync.Mutex
	avg     ewma.MovingAverage
	now     func() time.Time
}

func NewStatusBar(name string, r *devices.Reading) *StatusBar {
	self := &StatusBar{
		Block:   *termui.NewBlock(),
		Name:    name,
		reading: r,
		avg:     ewma.NewMovingAverage(),
		now:     time.Now,
	}
	self.Border = false
	return self
}

func (sb *StatusBar) Update() {
	sb.mu.Lock()
	sb.avg.Add(sb.reading.Value())
	sb.mu.Unlock()
}

// Average is the smoothed reading.
func (sb *StatusBar) Average() float64 {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.avg.Value()
}

func (sb *StatusBar) Draw(buf *termui.Buffer) {
	sb.Block.Draw(buf)
	// borderless, so draw over the whole rect rather than Inner
	y := sb.Min.Y + (sb.Dy() / 2)

	hostname, err := os.Hostname()
	if err != nil {
		slog.Debug("no hostname", "error", err)
		hostname = "?"
	}
	buf.SetString(hostname, termui.Theme.Default, image.Pt(sb.Min.X, y))

	formattedTime := sb.now().Format("15:04:05")
	buf.SetString(
		formattedTime,
		termui.Theme.Default,
		image.Pt(sb.Min.X+(sb.Dx()/2)-len(formattedTime)/2, y),
	)

	right := fmt.Sprintf("~%.1f %s", sb.Average(), sb.Name)
	buf.SetString(right, termui.Theme.Default, image.Pt(sb.Max.X-len(right), y))
}
