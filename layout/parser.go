package layout

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseLayout reads a layout description. Each line is a row of widgets
// separated by spaces. A widget may carry a row span prefix and a column
// weight suffix, as in "2:dial/3". Blank lines and lines starting with # are
// skipped.
func ParseLayout(i io.Reader) (Layout, error) {
	r := bufio.NewScanner(i)
	rv := Layout{Rows: make([][]widgetRule, 0)}
	lineNo := 0
	for r.Scan() {
		lineNo++
		l := strings.TrimSpace(r.Text())
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}
		row := make([]widgetRule, 0)
		for _, ws := range strings.Fields(l) {
			wr, err := parseRule(ws)
			if err != nil {
				return rv, fmt.Errorf("line %d: %w", lineNo, err)
			}
			row = append(row, wr)
		}
		rv.Rows = append(rv.Rows, row)
	}
	if err := r.Err(); err != nil {
		return rv, err
	}
	if len(rv.Rows) == 0 {
		return rv, fmt.Errorf("empty layout")
	}
	return rv, nil
}

func parseRule(ws string) (widgetRule, error) {
	wr := widgetRule{Weight: 1, Height: 1}
	if h, rest, ok := strings.Cut(ws, ":"); ok {
		n, err := strconv.Atoi(h)
		if err != nil || n < 1 {
			return wr, fmt.Errorf("bad row span %q in %q", h, ws)
		}
		wr.Height = n
		ws = rest
	}
	if name, w, ok := strings.Cut(ws, "/"); ok {
		n, err := strconv.ParseFloat(w, 64)
		if err != nil || n <= 0 {
			return wr, fmt.Errorf("bad weight %q in %q", w, ws)
		}
		wr.Weight = n
		ws = name
	}
	wr.Widget = strings.ToLower(ws)
	if wr.Widget == "" {
		return wr, fmt.Errorf("missing widget name")
	}
	return wr, nil
}
