// Package views renders the host page that embeds the dial.
package views

import (
	"errors"
	"html/template"
	"io"
	"io/fs"
	"time"
)

var pageTmpl *template.Template

// loadTemplatesFromFS loads page templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	pageTmpl, err = template.ParseFS(sub, "*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads the embedded page templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// PageData is the view model for the dial page.
type PageData struct {
	Title     string
	Min       string
	Max       string
	Size      int
	Value     string
	FrameMS   int64
	ShowInput bool
}

func NewPageData(title, min, max, value string, size int, frame time.Duration, showInput bool) *PageData {
	return &PageData{
		Title:     title,
		Min:       min,
		Max:       max,
		Size:      size,
		Value:     value,
		FrameMS:   frame.Milliseconds(),
		ShowInput: showInput,
	}
}

func RenderPage(w io.Writer, data *PageData) error {
	if pageTmpl == nil {
		return errors.New("page template not loaded: call views.LoadTemplates during startup")
	}
	return pageTmpl.ExecuteTemplate(w, "page.html", data)
}
