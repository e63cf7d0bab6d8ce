package dialtop

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/shibukawa/configdir"
	"github.com/xxxserxxx/lingo/v2"

	"github.com/xxxserxxx/dialtop/gauge"
)

//go:embed "dicts/*.toml"
var Dicts embed.FS

// CONFFILE is the name of the default config file
const CONFFILE = "dialtop.conf"

type Config struct {
	ConfigDir  configdir.ConfigDir
	ConfigFile string

	// Dial
	Min         float64
	Max         float64
	Value       float64
	Size        int
	ShowNeedle  bool
	NeedleColor string
	WarnAbove   float64

	// Value source
	Source         string
	Sensor         string
	Broker         string
	Station        string
	Remote         string
	TempScale      TempScale
	UpdateInterval time.Duration

	// Self-randomizing renderer, off by default
	Randomize      bool
	RandomInterval time.Duration

	// Surfaces
	FrameInterval time.Duration
	Layout        string
	Statusbar     bool
	HelpVisible   bool
	ShowInput     bool
	Headless      bool
	ServeAddr     string
	ExportPort    string

	MaxLogSize int64
	LogLevel   slog.Level
	Metrics    *metrics.Set
	Tr         lingo.Translations
}

type TempScale rune

const (
	Celsius    TempScale = 'C'
	Fahrenheit TempScale = 'F'
)

func NewConfig() Config {
	cd := configdir.New("", "dialtop")
	cd.LocalPath, _ = filepath.Abs(".")
	conf := Config{
		ConfigDir:      cd,
		Min:            0,
		Max:            180,
		Value:          130,
		Size:           gauge.DefaultSize,
		ShowNeedle:     true,
		NeedleColor:    gauge.DefaultNeedleColor,
		WarnAbove:      gauge.DefaultWarnAbove,
		Source:         "random",
		Broker:         "tcp://localhost:1883",
		TempScale:      Celsius,
		UpdateInterval: time.Second,
		Randomize:      false,
		RandomInterval: time.Second,
		FrameInterval:  50 * time.Millisecond,
		Layout:         "default",
		MaxLogSize:     5000000,
		LogLevel:       slog.LevelInfo,
		Metrics:        metrics.NewSet(),
	}
	folder := conf.ConfigDir.QueryFolderContainsFile(CONFFILE)
	if folder != nil {
		conf.ConfigFile = filepath.Join(folder.Path, CONFFILE)
	}
	return conf
}

func (conf Config) Range() gauge.Range {
	return gauge.Range{Min: conf.Min, Max: conf.Max}
}

// Dial is the renderer configuration at the configured size.
func (conf Config) Dial() gauge.Dial {
	return gauge.Dial{
		Range:       conf.Range(),
		Size:        float64(conf.Size),
		NeedleColor: conf.NeedleColor,
		ShowNeedle:  conf.ShowNeedle,
		WarnAbove:   conf.WarnAbove,
	}
}

// Validate checks the settings that the rest of the program relies on.
func (conf Config) Validate() error {
	if err := conf.Dial().Validate(); err != nil {
		return err
	}
	if conf.UpdateInterval <= 0 {
		return fmt.Errorf("%s must be positive, got %s", updateinterval, conf.UpdateInterval)
	}
	if conf.FrameInterval <= 0 {
		return fmt.Errorf("%s must be positive, got %s", frameinterval, conf.FrameInterval)
	}
	if conf.Randomize && conf.RandomInterval <= 0 {
		return fmt.Errorf("%s must be positive, got %s", randominterval, conf.RandomInterval)
	}
	return nil
}

func (conf *Config) Load() error {
	var in []byte
	if conf.ConfigFile == "" {
		return nil
	}
	var err error
	if _, err = os.Stat(conf.ConfigFile); os.IsNotExist(err) {
		// Check for the file in the usual suspects
		folder := conf.ConfigDir.QueryFolderContainsFile(conf.ConfigFile)
		if folder == nil {
			return nil
		}
		conf.ConfigFile = filepath.Join(folder.Path, conf.ConfigFile)
	}
	if in, err = os.ReadFile(conf.ConfigFile); err != nil {
		return err
	}
	if err = load(bytes.NewReader(in), conf); err != nil {
		return err
	}
	return conf.Validate()
}

func load(in io.Reader, conf *Config) error {
	r := bufio.NewScanner(in)
	var lineNo int
	for r.Scan() {
		lineNo++
		l := strings.TrimSpace(r.Text())
		if len(l) == 0 {
			continue
		}
		if l[0] == '#' {
			continue
		}
		kv := strings.SplitN(l, "=", 2)
		if len(kv) != 2 {
			return fmt.Errorf("line %d: bad config syntax %q, expected key=value", lineNo, l)
		}
		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])
		if err := set(conf, key, val); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return r.Err()
}

func set(conf *Config, key, val string) error {
	var err error
	switch key {
	default:
		slog.Warn("unknown config key, ignoring", "key", key)
	case minimum:
		conf.Min, err = strconv.ParseFloat(val, 64)
	case maximum:
		conf.Max, err = strconv.ParseFloat(val, 64)
	case value:
		conf.Value, err = strconv.ParseFloat(val, 64)
	case size:
		conf.Size, err = strconv.Atoi(val)
	case showneedle:
		conf.ShowNeedle, err = strconv.ParseBool(val)
	case needlecolor:
		conf.NeedleColor = val
	case warnabove:
		conf.WarnAbove, err = strconv.ParseFloat(val, 64)
	case source:
		conf.Source = val
	case sensor:
		conf.Sensor = val
	case broker:
		conf.Broker = val
	case station:
		conf.Station = val
	case remote:
		conf.Remote = val
	case tempscale:
		switch val {
		case "C":
			conf.TempScale = Celsius
		case "F":
			conf.TempScale = Fahrenheit
		default:
			conf.TempScale = Celsius
			err = fmt.Errorf("invalid temperature scale %q (allowed: C, F)", val)
		}
	case updateinterval:
		conf.UpdateInterval, err = time.ParseDuration(val)
	case randomize:
		conf.Randomize, err = strconv.ParseBool(val)
	case randominterval:
		conf.RandomInterval, err = time.ParseDuration(val)
	case frameinterval:
		conf.FrameInterval, err = time.ParseDuration(val)
	case layout:
		conf.Layout = val
	case statusbar:
		conf.Statusbar, err = strconv.ParseBool(val)
	case helpvisible:
		conf.HelpVisible, err = strconv.ParseBool(val)
	case showinput:
		conf.ShowInput, err = strconv.ParseBool(val)
	case headless:
		conf.Headless, err = strconv.ParseBool(val)
	case serve:
		conf.ServeAddr = val
	case export:
		conf.ExportPort = val
	case maxlogsize:
		conf.MaxLogSize, err = strconv.ParseInt(val, 10, 64)
	case loglevel:
		conf.LogLevel, err = ParseLogLevel(val)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// ParseLogLevel accepts debug, info, warn(ing) and error, in any case.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q (allowed: debug, info, warn, error)", s)
	}
}

// Write serializes the configuration to a file.
// The configuration written is based on the loaded configuration, plus any
// command-line changes, so it can be used to update an existing configuration
// file.  The file will be written to the specificed `-C` argument file,
// if one is set; otherwise, it'll create one in the user's config directory.
func (conf *Config) Write() (string, error) {
	var dir *configdir.Config
	var file string = CONFFILE
	if conf.ConfigFile == "" {
		ds := conf.ConfigDir.QueryFolders(configdir.Global)
		if len(ds) == 0 {
			ds = conf.ConfigDir.QueryFolders(configdir.Local)
			if len(ds) == 0 {
				return "", fmt.Errorf("error locating config folders")
			}
		}
		ds[0].CreateParentDir(CONFFILE)
		dir = ds[0]
	} else {
		dir = &configdir.Config{}
		dir.Path = filepath.Dir(conf.ConfigFile)
		file = filepath.Base(conf.ConfigFile)
	}
	marshalled := marshal(conf)
	err := dir.WriteFile(file, marshalled)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir.Path, file), nil
}

func marshal(c *Config) []byte {
	buff := bytes.NewBuffer(nil)
	fmt.Fprintln(buff, "# Dial range. min must be less than max.")
	fmt.Fprintf(buff, "%s=%s\n", minimum, gauge.FormatValue(c.Min))
	fmt.Fprintf(buff, "%s=%s\n", maximum, gauge.FormatValue(c.Max))
	fmt.Fprintln(buff, "# Reading shown before the first update")
	fmt.Fprintf(buff, "%s=%s\n", value, gauge.FormatValue(c.Value))
	fmt.Fprintln(buff, "# Dial size in pixels for the SVG surface")
	fmt.Fprintf(buff, "%s=%d\n", size, c.Size)
	fmt.Fprintf(buff, "%s=%t\n", showneedle, c.ShowNeedle)
	fmt.Fprintf(buff, "%s=%s\n", needlecolor, c.NeedleColor)
	fmt.Fprintln(buff, "# Ticks above this value use the warning color")
	fmt.Fprintf(buff, "%s=%s\n", warnabove, gauge.FormatValue(c.WarnAbove))
	fmt.Fprintln(buff, "# Where readings come from: random, sensor, feed, remote.  See `--list sources`")
	fmt.Fprintf(buff, "%s=%s\n", source, c.Source)
	fmt.Fprintln(buff, "# Thermal sensor for source=sensor; empty picks the first.  See `--list sensors`")
	if c.Sensor == "" {
		fmt.Fprint(buff, "#")
	}
	fmt.Fprintf(buff, "%s=%s\n", sensor, c.Sensor)
	fmt.Fprintln(buff, "# MQTT broker and optional station for source=feed")
	fmt.Fprintf(buff, "%s=%s\n", broker, c.Broker)
	if c.Station == "" {
		fmt.Fprint(buff, "#")
	}
	fmt.Fprintf(buff, "%s=%s\n", station, c.Station)
	fmt.Fprintln(buff, "# Metrics URL of another dialtop for source=remote, e.g. http://host:2112/metrics")
	if c.Remote == "" {
		fmt.Fprint(buff, "#")
	}
	fmt.Fprintf(buff, "%s=%s\n", remote, c.Remote)
	fmt.Fprintln(buff, "# Temperature units for sensor and feed sources. C for Celsius, F for Fahrenheit")
	fmt.Fprintf(buff, "%s=%c\n", tempscale, c.TempScale)
	fmt.Fprintln(buff, "# How often the source replaces the reading")
	fmt.Fprintf(buff, "%s=%s\n", updateinterval, c.UpdateInterval)
	fmt.Fprintln(buff, "# If true, the dial also randomizes itself every randominterval")
	fmt.Fprintf(buff, "%s=%t\n", randomize, c.Randomize)
	fmt.Fprintf(buff, "%s=%s\n", randominterval, c.RandomInterval)
	fmt.Fprintln(buff, "# How often the needle animation is redrawn")
	fmt.Fprintf(buff, "%s=%s\n", frameinterval, c.FrameInterval)
	fmt.Fprintln(buff, "# A layout name. See `--list layouts`")
	fmt.Fprintf(buff, "%s=%s\n", layout, c.Layout)
	fmt.Fprintln(buff, "# If true, display a status bar")
	fmt.Fprintf(buff, "%s=%t\n", statusbar, c.Statusbar)
	fmt.Fprintln(buff, "# If true, start the UI with the help visible")
	fmt.Fprintf(buff, "%s=%t\n", helpvisible, c.HelpVisible)
	fmt.Fprintln(buff, "# If true, the web page shows the manual input form")
	fmt.Fprintf(buff, "%s=%t\n", showinput, c.ShowInput)
	fmt.Fprintln(buff, "# Set headless to true to disable the TUI; requires serve or export")
	fmt.Fprintf(buff, "%s=%t\n", headless, c.Headless)
	fmt.Fprintln(buff, "# If set, serve the dial page on the interface:port, e.g. `:8080`")
	if c.ServeAddr == "" {
		fmt.Fprint(buff, "#")
	}
	fmt.Fprintf(buff, "%s=%s\n", serve, c.ServeAddr)
	fmt.Fprintln(buff, "# If set, export the reading as Prometheus metrics on the interface:port")
	if c.ExportPort == "" {
		fmt.Fprint(buff, "#")
	}
	fmt.Fprintf(buff, "%s=%s\n", export, c.ExportPort)
	fmt.Fprintln(buff, "# The maximum log file size, in bytes")
	fmt.Fprintf(buff, "%s=%d\n", maxlogsize, c.MaxLogSize)
	fmt.Fprintln(buff, "# debug, info, warn or error")
	fmt.Fprintf(buff, "%s=%s\n", loglevel, strings.ToLower(c.LogLevel.String()))
	return buff.Bytes()
}

const (
	minimum        = "min"
	maximum        = "max"
	value          = "value"
	size           = "size"
	showneedle     = "showneedle"
	needlecolor    = "needlecolor"
	warnabove      = "warnabove"
	source         = "source"
	sensor         = "sensor"
	broker         = "broker"
	station        = "station"
	remote         = "remote"
	tempscale      = "tempscale"
	updateinterval = "updateinterval"
	randomize      = "randomize"
	randominterval = "randominterval"
	frameinterval  = "frameinterval"
	layout         = "layout"
	statusbar      = "statusbar"
	helpvisible    = "helpvisible"
	showinput      = "showinput"
	headless       = "headless"
	serve          = "serve"
	export         = "metricsexportport"
	maxlogsize     = "maxlogsize"
	loglevel       = "loglevel"
)
