package layout

import (
	"fmt"
	"strings"

	"github.com/gizak/termui/v3"

	"github.com/xxxserxxx/dialtop"
	"github.com/xxxserxxx/dialtop/devices"
	"github.com/xxxserxxx/dialtop/gauge"
	"github.com/xxxserxxx/dialtop/widgets"
)

type Layout struct {
	Rows [][]widgetRule
}

type widgetRule struct {
	Widget string
	Weight float64
	Height int
}

// Labels are the widget titles, already translated.
type Labels struct {
	Dial   string
	Bar    string
	Input  string
	Prompt string
}

type Screen struct {
	*termui.Grid
	Dial    *widgets.DialWidget
	Input   *widgets.InputLine
	Widgets widgets.Widgets
}

var widgetNames = []string{"dial", "bar", "input"}

// NewLayout builds the grid for wl. Every widget reads from r.
func NewLayout(wl Layout, c dialtop.Config, r *devices.Reading, labels Labels) (*Screen, error) {
	for _, row := range wl.Rows {
		for _, w := range row {
			if !known(w.Widget) {
				return nil, fmt.Errorf("unknown widget %q; must be one of %s", w.Widget, strings.Join(widgetNames, ", "))
			}
		}
	}
	dial := c.Dial()
	if err := dial.Validate(); err != nil {
		return nil, err
	}
	rowDefs := wl.Rows
	uiRows := make([][]interface{}, 0)
	maxHeight := 0
	heights := make([]int, 0)
	grid := &Screen{Grid: termui.NewGrid()}
	mk := func(wr widgetRule) termui.Drawable {
		return makeWidget(grid, dial, r, labels, wr)
	}
	for len(rowDefs) > 0 {
		var h int
		var uiRow []interface{}
		h, uiRow, rowDefs = processRow(mk, rowDefs)
		maxHeight += h
		uiRows = append(uiRows, uiRow)
		heights = append(heights, h)
	}
	rgs := make([]interface{}, 0)
	for i, ur := range uiRows {
		rh := float64(heights[i]) / float64(maxHeight)
		rgs = append(rgs, termui.NewRow(rh, ur...))
	}
	grid.Set(rgs...)
	return grid, nil
}

func known(name string) bool {
	for _, n := range widgetNames {
		if n == name {
			return true
		}
	}
	return false
}

// processRow eats a single row from the input list of rows and returns a UI
// row (GridItem) representation of the layout rows, along with a slice
// without that row.
//
// If a widget in the row spans several rows, as many rows are consumed as
// the largest span and they are laid out together as columns.
func processRow(mk func(widgetRule) termui.Drawable, rowDefs [][]widgetRule) (int, []interface{}, [][]widgetRule) {
	if len(rowDefs) < 1 {
		return 0, nil, nil
	}
	maxHeight := countMaxHeight([][]widgetRule{rowDefs[0]})
	var processing [][]widgetRule
	if maxHeight < len(rowDefs) {
		processing = rowDefs[0:maxHeight]
		rowDefs = rowDefs[maxHeight:]
	} else {
		processing = rowDefs[0:]
		rowDefs = [][]widgetRule{}
	}
	var colWeights []float64
	var columns [][]interface{}
	numCols := len(processing[0])
	if numCols < 1 {
		numCols = 1
	}
	for _, rd := range processing[0] {
		colWeights = append(colWeights, rd.Weight)
		columns = append(columns, make([]interface{}, 0))
	}
	colHeights := make([]int, numCols)
outer:
	for i, row := range processing {
		// The columns can fill before every row is consumed, e.g.
		// "2:dial 2:bar" followed by "input". The leftover rows go back
		// on the remainder.
		full := true
		for _, ch := range colHeights {
			if ch < maxHeight {
				full = false
				break
			}
		}
		if full {
			rowDefs = append(processing[i:], rowDefs...)
			break
		}
		for w, widg := range row {
			placed := false
			for k := w; k < len(colHeights); k++ {
				if colHeights[k]+widg.Height <= maxHeight {
					columns[k] = append(columns[k], termui.NewRow(float64(widg.Height)/float64(maxHeight), mk(widg)))
					colHeights[k] += widg.Height
					placed = true
					break
				}
			}
			if !placed {
				rowDefs = append(processing[i:], rowDefs...)
				break outer
			}
		}
	}
	var uiColumns []interface{}
	for i, ws := range columns {
		if len(ws) > 0 {
			uiColumns = append(uiColumns, termui.NewCol(colWeights[i], ws...))
		}
	}
	return maxHeight, uiColumns, rowDefs
}

func makeWidget(s *Screen, d gauge.Dial, r *devices.Reading, labels Labels, wr widgetRule) termui.Drawable {
	switch wr.Widget {
	case "dial":
		w := widgets.NewDialWidget(labels.Dial, d, r)
		if s.Dial == nil {
			s.Dial = w
		}
		s.Widgets = append(s.Widgets, w)
		return w
	case "bar":
		w := widgets.NewBarWidget(labels.Bar, d.WarnAbove, r)
		s.Widgets = append(s.Widgets, w)
		return w
	default:
		w := widgets.NewInputLine(labels.Input, labels.Prompt, r)
		if s.Input == nil {
			s.Input = w
		}
		return w
	}
}

// countMaxHeight counts the height of the window so rows can be
// proportionally scaled.
func countMaxHeight(rs [][]widgetRule) int {
	var ttl int
	for len(rs) > 0 {
		line := rs[0]
		h := 1
		for _, c := range line {
			if c.Height > h {
				h = c.Height
			}
		}
		ttl += h
		if h < len(rs) {
			rs = rs[h:]
		} else {
			break
		}
	}
	return ttl
}
