package widgets

import (
	"image"

	"github.com/gizak/termui/v3"

	"github.com/xxxserxxx/dialtop/devices"
)

const maxInput = 12

// InputLine collects a typed value and applies it to the reading on Submit.
type InputLine struct {
	termui.Block
	Prompt  string
	text    []rune
	reading *devices.Reading
}

func NewInputLine(title, prompt string, r *devices.Reading) *InputLine {
	self := &InputLine{
		Block:   *termui.NewBlock(),
		Prompt:  prompt,
		reading: r,
	}
	self.Title = title
	return self
}

func (in *InputLine) Text() string {
	return string(in.text)
}

// Type appends a key press. Only digits and a leading minus are taken, the
// rest is dropped.
func (in *InputLine) Type(key string) bool {
	r := []rune(key)
	if len(r) != 1 || len(in.text) >= maxInput {
		return false
	}
	switch {
	case r[0] >= '0' && r[0] <= '9':
	case r[0] == '-' && len(in.text) == 0:
	default:
		return false
	}
	in.text = append(in.text, r[0])
	return true
}

func (in *InputLine) Backspace() {
	if len(in.text) > 0 {
		in.text = in.text[:len(in.text)-1]
	}
}

func (in *InputLine) Clear() {
	in.text = in.text[:0]
}

// Submit hands the typed text to the reading and clears the line. It
// reports whether the text parsed.
func (in *InputLine) Submit() bool {
	ok := in.reading.SetFromInput(in.Text())
	in.Clear()
	return ok
}

func (in *InputLine) Draw(buf *termui.Buffer) {
	in.Block.Draw(buf)
	p := image.Pt(in.Inner.Min.X, in.Inner.Min.Y+in.Inner.Dy()/2)
	buf.SetString(in.Prompt+in.Text()+"_", termui.Theme.Default, p)
}
