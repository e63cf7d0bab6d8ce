package widgets

import (
	"image"
	"strings"

	"github.com/gizak/termui/v3"
	"github.com/mattn/go-runewidth"
)

// HelpMenu is a centered box listing the key bindings.
type HelpMenu struct {
	termui.Block
	lines []string
}

func NewHelpMenu(title, text string) *HelpMenu {
	self := &HelpMenu{
		Block: *termui.NewBlock(),
		lines: strings.Split(strings.TrimRight(text, "\n"), "\n"),
	}
	self.Title = title
	return self
}

// Resize centers the menu on a termWidth x termHeight screen.
func (help *HelpMenu) Resize(termWidth, termHeight int) {
	textWidth := 0
	for _, line := range help.lines {
		if w := runewidth.StringWidth(line); w > textWidth {
			textWidth = w
		}
	}
	textWidth += 2
	textHeight := len(help.lines) + 2
	x := (termWidth - textWidth) / 2
	y := (termHeight - textHeight) / 2
	help.Block.SetRect(x, y, textWidth+x, textHeight+y)
}

func (help *HelpMenu) Draw(buf *termui.Buffer) {
	help.Block.Draw(buf)
	for y, line := range help.lines {
		p := image.Pt(help.Inner.Min.X, help.Inner.Min.Y+y)
		if !p.In(help.Inner) {
			break
		}
		buf.SetString(line, termui.Theme.Default, p)
	}
}
