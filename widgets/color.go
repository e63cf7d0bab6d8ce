package widgets

import (
	"strconv"
	"strings"

	"github.com/gizak/termui/v3"
)

var basicColors = []struct {
	r, g, b int
	c       termui.Color
}{
	{0, 0, 0, termui.ColorBlack},
	{255, 0, 0, termui.ColorRed},
	{0, 255, 0, termui.ColorGreen},
	{255, 255, 0, termui.ColorYellow},
	{0, 0, 255, termui.ColorBlue},
	{255, 0, 255, termui.ColorMagenta},
	{0, 255, 255, termui.ColorCyan},
	{255, 255, 255, termui.ColorWhite},
}

// TermColor maps a #rrggbb (or #rgb) color to the nearest of the eight
// basic terminal colors. Anything unparseable is white.
func TermColor(hex string) termui.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return termui.ColorWhite
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return termui.ColorWhite
	}
	r, g, b := int(n>>16&0xff), int(n>>8&0xff), int(n&0xff)
	best, bestDist := termui.ColorWhite, -1
	for _, bc := range basicColors {
		d := (r-bc.r)*(r-bc.r) + (g-bc.g)*(g-bc.g) + (b-bc.b)*(b-bc.b)
		if bestDist < 0 || d < bestDist {
			best, bestDist = bc.c, d
		}
	}
	return best
}
