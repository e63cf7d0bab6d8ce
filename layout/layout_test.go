package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxxserxxx/dialtop"
	"github.com/xxxserxxx/dialtop/devices"
)

func TestParseLayout(t *testing.T) {
	tests := []struct {
		in  string
		exp [][]widgetRule
	}{
		{"dial", [][]widgetRule{{{"dial", 1, 1}}}},
		{"3:dial/2 bar\n\n# comment\ninput", [][]widgetRule{
			{{"dial", 2, 3}, {"bar", 1, 1}},
			{{"input", 1, 1}},
		}},
		{"  DIAL/1.5  ", [][]widgetRule{{{"dial", 1.5, 1}}}},
	}
	for _, tc := range tests {
		l, err := ParseLayout(strings.NewReader(tc.in))
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.exp, l.Rows, tc.in)
	}
}

func TestParseLayoutErrors(t *testing.T) {
	for _, in := range []string{"", "# nothing\n", "x:dial", "0:dial", "dial/0", "dial/x", "2:", "dial\n2:bar/-1"} {
		_, err := ParseLayout(strings.NewReader(in))
		assert.Error(t, err, "%q", in)
	}
	_, err := ParseLayout(strings.NewReader("dial\nbar/q"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestCountMaxHeight(t *testing.T) {
	l, err := ParseLayout(strings.NewReader("2:dial bar\ninput\nbar"))
	require.NoError(t, err)
	assert.Equal(t, 3, countMaxHeight(l.Rows))
}

func TestNewLayout(t *testing.T) {
	c := dialtop.NewConfig()
	r := devices.NewReading(c.Range(), 42)
	labels := Labels{Dial: "Dial", Bar: "Bar", Input: "Set", Prompt: "> "}

	l, err := ParseLayout(strings.NewReader("3:dial/2 bar\ninput\ninput"))
	require.NoError(t, err)
	s, err := NewLayout(l, c, r, labels)
	require.NoError(t, err)
	require.NotNil(t, s.Dial)
	require.NotNil(t, s.Input)
	// the input line is not refreshed from the reading
	assert.Len(t, s.Widgets, 2)
	assert.Equal(t, 42.0, s.Dial.Value())
	assert.Equal(t, "Dial", s.Dial.Title)
	assert.Equal(t, "> ", s.Input.Prompt)

	r.Set(99)
	s.Widgets.Update()
	assert.Equal(t, 99.0, s.Dial.Value())
}

func TestNewLayoutRejectsUnknownWidget(t *testing.T) {
	c := dialtop.NewConfig()
	l, err := ParseLayout(strings.NewReader("dial procs"))
	require.NoError(t, err)
	_, err = NewLayout(l, c, devices.NewReading(c.Range(), 0), Labels{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "procs")
}

func TestNewLayoutBadRange(t *testing.T) {
	c := dialtop.NewConfig()
	c.Min, c.Max = 10, 10
	l, err := ParseLayout(strings.NewReader("dial"))
	require.NoError(t, err)
	_, err = NewLayout(l, c, devices.NewReading(c.Range(), 0), Labels{})
	assert.Error(t, err)
}
