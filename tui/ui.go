package tui

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gizak/termui/v3"
	"github.com/shibukawa/configdir"

	"github.com/xxxserxxx/dialtop"
	"github.com/xxxserxxx/dialtop/devices"
	"github.com/xxxserxxx/dialtop/layout"
	"github.com/xxxserxxx/dialtop/widgets"
)

const (
	defaultUI = "4:dial\nbar"
	minimalUI = "dial"
	wideUI    = "2:dial/2 bar/1\n2:bar/1"
	barUI     = "bar"
	inputRow  = "\ninput"
)

// Layouts are the built in layout names.
var Layouts = []string{"default", "minimal", "wide", "bar"}

var (
	help *widgets.HelpMenu
	bar  *widgets.StatusBar
)

type TUI struct {
	conf    dialtop.Config
	reading *devices.Reading
}

func New(conf dialtop.Config, r *devices.Reading) (TUI, error) {
	return TUI{conf, r}, termui.Init()
}

func (t TUI) ShutdownUI() {
	termui.Close()
}

func (t TUI) LoopUI() error {
	lstream, err := getLayout(t.conf)
	if err != nil {
		return err
	}
	ly, err := layout.ParseLayout(lstream)
	if err != nil {
		return err
	}
	tr := t.conf.Tr
	help = widgets.NewHelpMenu(tr.Value("widget.label.help"), tr.Value("help.help"))
	if t.conf.Statusbar {
		bar = widgets.NewStatusBar("dialtop", t.reading)
	}
	grid, err := layout.NewLayout(ly, t.conf, t.reading, layout.Labels{
		Dial:   tr.Value("widget.label.dial"),
		Bar:    tr.Value("widget.label.bar"),
		Input:  tr.Value("widget.label.input"),
		Prompt: "> ",
	})
	if err != nil {
		return err
	}

	termWidth, termHeight := termui.TerminalDimensions()
	resize(t.conf, grid, termWidth, termHeight)

	termui.Render(grid)
	if t.conf.Statusbar {
		termui.Render(bar)
	}
	eventLoop(t.conf, grid)
	return nil
}

func resize(c dialtop.Config, grid *layout.Screen, termWidth, termHeight int) {
	if c.Statusbar {
		grid.SetRect(0, 0, termWidth, termHeight-1)
		bar.SetRect(0, termHeight-1, termWidth, termHeight)
	} else {
		grid.SetRect(0, 0, termWidth, termHeight)
	}
	help.Resize(termWidth, termHeight)
}

func eventLoop(c dialtop.Config, grid *layout.Screen) {
	drawTicker := time.NewTicker(c.UpdateInterval)
	defer drawTicker.Stop()
	frameTicker := time.NewTicker(c.FrameInterval)
	defer frameTicker.Stop()

	// handles kill signal sent to dialtop
	sigTerm := make(chan os.Signal, 2)
	signal.Notify(sigTerm, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigTerm)

	uiEvents := termui.PollEvents()

	redraw := func() {
		grid.Widgets.Update()
		termui.Render(grid)
		if c.Statusbar {
			bar.Update()
			termui.Render(bar)
		}
	}

	for {
		select {
		case <-sigTerm:
			return
		case <-drawTicker.C:
			if !c.HelpVisible {
				redraw()
			}
		case <-frameTicker.C:
			if !c.HelpVisible && grid.Dial != nil && grid.Dial.Animating() {
				termui.Render(grid.Dial)
			}
		case e := <-uiEvents:
			switch e.ID {
			case "q", "<C-c>":
				return
			case "?":
				c.HelpVisible = !c.HelpVisible
			case "<Resize>":
				payload := e.Payload.(termui.Resize)
				resize(c, grid, payload.Width, payload.Height)
				termui.Clear()
			}

			if c.HelpVisible {
				switch e.ID {
				case "?":
					termui.Clear()
					termui.Render(help)
				case "<Escape>":
					c.HelpVisible = false
					termui.Clear()
					redraw()
				case "<Resize>":
					termui.Render(help)
				}
				break
			}
			switch e.ID {
			case "?":
				termui.Clear()
				redraw()
			case "<Resize>":
				redraw()
			case "<Enter>":
				if grid.Input != nil {
					grid.Input.Submit()
					redraw()
				}
			case "<Backspace>", "<C-<Backspace>>":
				if grid.Input != nil {
					grid.Input.Backspace()
					termui.Render(grid.Input)
				}
			case "<Escape>":
				if grid.Input != nil {
					grid.Input.Clear()
					termui.Render(grid.Input)
				}
			default:
				if grid.Input != nil && grid.Input.Type(e.ID) {
					termui.Render(grid.Input)
				}
			}
		}
	}
}

func getLayout(conf dialtop.Config) (io.Reader, error) {
	var ui string
	switch conf.Layout {
	case "-":
		return os.Stdin, nil
	case "default":
		ui = defaultUI
	case "minimal":
		ui = minimalUI
	case "wide":
		ui = wideUI
	case "bar":
		ui = barUI
	default:
		folder := conf.ConfigDir.QueryFolderContainsFile(conf.Layout)
		if folder == nil {
			paths := make([]string, 0)
			for _, d := range conf.ConfigDir.QueryFolders(configdir.Existing) {
				paths = append(paths, d.Path)
			}
			return nil, fmt.Errorf("unable to find layout file %s in %s", conf.Layout, strings.Join(paths, ", "))
		}
		lo, err := folder.ReadFile(conf.Layout)
		if err != nil {
			return nil, err
		}
		return strings.NewReader(string(lo)), nil
	}
	if conf.ShowInput {
		ui += inputRow
	}
	return strings.NewReader(ui), nil
}
