package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/cloudfoundry-attic/jibber_jabber"
	"github.com/shibukawa/configdir"
	"github.com/xxxserxxx/lingo/v2"
	"github.com/xxxserxxx/opflag"

	"github.com/xxxserxxx/dialtop"
	"github.com/xxxserxxx/dialtop/devices"
	"github.com/xxxserxxx/dialtop/logging"
	"github.com/xxxserxxx/dialtop/tui"
	"github.com/xxxserxxx/dialtop/web"
)

var (
	// Version of the program; set during build from git tags
	Version = "0.0.0"
	// BuildDate when the program was compiled; set during build
	BuildDate    = "Hadean"
	conf         dialtop.Config
	stderrLogger = log.New(os.Stderr, "", 0)
	tr           lingo.Translations
)

func parseArgs() error {
	help := opflag.BoolP("help", "h", false, tr.Value("args.help"))
	version := opflag.BoolP("version", "v", false, tr.Value("args.version"))
	versioN := opflag.BoolP("", "V", false, tr.Value("args.version"))
	opflag.StringP("", "C", "", tr.Value("args.conffile"))
	opflag.Float64VarP(&conf.Min, "min", "", conf.Min, tr.Value("args.min"))
	opflag.Float64VarP(&conf.Max, "max", "", conf.Max, tr.Value("args.max"))
	opflag.Float64VarP(&conf.Value, "value", "", conf.Value, tr.Value("args.value"))
	opflag.Float64VarP(&conf.WarnAbove, "warn", "w", conf.WarnAbove, tr.Value("args.warn"))
	opflag.StringVarP(&conf.NeedleColor, "needle", "n", conf.NeedleColor, tr.Value("args.needle"))
	noNeedle := opflag.BoolP("no-needle", "", !conf.ShowNeedle, tr.Value("args.noneedle"))
	opflag.StringVarP(&conf.Source, "source", "S", conf.Source, tr.Value("args.source"))
	opflag.StringVarP(&conf.Sensor, "sensor", "", conf.Sensor, tr.Value("args.sensor"))
	opflag.StringVarP(&conf.Broker, "broker", "", conf.Broker, tr.Value("args.broker"))
	opflag.StringVarP(&conf.Station, "station", "", conf.Station, tr.Value("args.station"))
	opflag.StringVarP(&conf.Remote, "remote", "", conf.Remote, tr.Value("args.remote"))
	fahrenheit := opflag.BoolP("fahrenheit", "f", conf.TempScale == dialtop.Fahrenheit, tr.Value("args.temp"))
	opflag.DurationVarP(&conf.UpdateInterval, "rate", "r", conf.UpdateInterval, tr.Value("args.rate"))
	opflag.BoolVarP(&conf.Randomize, "randomize", "R", conf.Randomize, tr.Value("args.randomize"))
	opflag.DurationVarP(&conf.RandomInterval, "random-rate", "", conf.RandomInterval, tr.Value("args.randomrate"))
	opflag.DurationVarP(&conf.FrameInterval, "frame", "", conf.FrameInterval, tr.Value("args.frame"))
	opflag.StringVarP(&conf.Layout, "layout", "l", conf.Layout, tr.Value("args.layout"))
	opflag.BoolVarP(&conf.Statusbar, "statusbar", "s", conf.Statusbar, tr.Value("args.statusbar"))
	opflag.BoolVarP(&conf.ShowInput, "input", "i", conf.ShowInput, tr.Value("args.input"))
	opflag.IntVarP(&conf.Size, "size", "", conf.Size, tr.Value("args.size"))
	opflag.StringVarP(&conf.ServeAddr, "serve", "", conf.ServeAddr, tr.Value("args.serve"))
	opflag.StringVarP(&conf.ExportPort, "export", "x", conf.ExportPort, tr.Value("args.export"))
	opflag.BoolVarP(&conf.Headless, "headless", "", conf.Headless, tr.Value("args.headless"))
	logLevel := opflag.String("loglevel", conf.LogLevel.String(), tr.Value("args.loglevel"))
	list := opflag.String("list", "", tr.Value("args.list"))
	wc := opflag.Bool("write-config", false, tr.Value("args.write"))
	opflag.SortFlags = false
	opflag.Usage = func() {
		fmt.Fprint(os.Stderr, tr.Value("usage", os.Args[0]))
		opflag.PrintDefaults()
	}
	opflag.Parse()
	if *version || *versioN {
		fmt.Printf("dialtop %s (%s)\n", Version, BuildDate)
		os.Exit(0)
	}
	if *help {
		opflag.Usage()
		os.Exit(0)
	}
	conf.ShowNeedle = !*noNeedle
	if *fahrenheit {
		conf.TempScale = dialtop.Fahrenheit
	} else {
		conf.TempScale = dialtop.Celsius
	}
	lvl, err := dialtop.ParseLogLevel(*logLevel)
	if err != nil {
		return err
	}
	conf.LogLevel = lvl
	if *list != "" {
		if err := listThings(*list); err != nil {
			return err
		}
		os.Exit(0)
	}
	if *wc {
		path, err := conf.Write()
		if err != nil {
			fmt.Println(tr.Value("error.writefail", err.Error()))
			os.Exit(1)
		}
		fmt.Println(tr.Value("help.written", path))
		os.Exit(0)
	}
	return conf.Validate()
}

func listThings(what string) error {
	switch what {
	case "layouts":
		fmt.Println(tr.Value("help.layouts"))
		fmt.Println(strings.Join(tui.Layouts, "\n"))
	case "sources":
		fmt.Println(strings.Join(devices.Sources(), "\n"))
	case "sensors":
		fmt.Println(strings.Join(devices.SensorNames(), "\n"))
	case "paths":
		fmt.Println(tr.Value("help.paths"))
		paths := make([]string, 0)
		for _, d := range conf.ConfigDir.QueryFolders(configdir.All) {
			paths = append(paths, d.Path)
		}
		fmt.Println(strings.Join(paths, "\n"))
		fmt.Println()
		fmt.Println(tr.Value("help.log", filepath.Join(conf.ConfigDir.QueryCacheFolder().Path, logging.LOGFILE)))
	case "keys":
		fmt.Println(tr.Value("help.help"))
	case "langs":
		return fs.WalkDir(dialtop.Dicts, ".", func(pth string, info fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			if fileName := info.Name(); strings.HasSuffix(fileName, ".toml") {
				fmt.Println(strings.TrimSuffix(fileName, ".toml"))
			}
			return nil
		})
	default:
		fmt.Print(tr.Value("error.unknownopt", what))
		os.Exit(1)
	}
	return nil
}

func main() {
	var ec int
	defer func() {
		if ec > 0 {
			if ec < 2 && !conf.Headless {
				logpath := filepath.Join(conf.ConfigDir.QueryCacheFolder().Path, logging.LOGFILE)
				fmt.Println(tr.Value("error.checklog", logpath))
				bs, _ := os.ReadFile(logpath)
				fmt.Println(string(bs))
			}
		}
		os.Exit(ec)
	}()

	ling, err := lingo.New("en_US", ".", dialtop.Dicts)
	if err != nil {
		fmt.Printf("failed to load language files: %s\n", err)
		ec = 2
		return
	}
	lang, err := jibber_jabber.DetectIETF()
	if err != nil {
		lang = "en_US"
	}
	lang = strings.Replace(lang, "-", "_", -1)
	// Get the locale from the os
	tr = ling.TranslationsForLocale(lang)
	conf = dialtop.NewConfig()
	conf.Tr = tr
	// Find the config file; look in (1) local, (2) user, (3) global
	// Check the last argument first
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	cfg := fs.String("C", "", tr.Value("configfile"))
	fs.SetOutput(bufio.NewWriter(nil))
	fs.Parse(os.Args[1:])
	if *cfg != "" {
		conf.ConfigFile = *cfg
	}
	err = conf.Load()
	if err != nil {
		fmt.Println(tr.Value("error.configparse", err.Error()))
		ec = 2
		return
	}
	// Override with command line arguments
	err = parseArgs()
	if err != nil {
		fmt.Println(tr.Value("error.cliparse", err.Error()))
		ec = 2
		return
	}

	logfile, err := logging.New(conf)
	if err != nil {
		fmt.Println(tr.Value("logsetup", err.Error()))
		ec = 2
		return
	}
	defer logfile.Close()

	if conf.Headless && conf.ServeAddr == "" && conf.ExportPort == "" {
		fmt.Fprintln(os.Stdout, tr.Value("error.headless"))
		ec = 1
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reading, devs, errs := devices.Startup(ctx, conf)
	if len(errs) > 0 {
		for _, err := range errs {
			stderrLogger.Print(err)
		}
		ec = 1
		return
	}
	unmount := devices.Spawn(devs, conf)
	defer unmount()
	defer devices.SpawnRandomizer(reading, conf)()

	if conf.ExportPort != "" {
		go func() {
			if err := web.RunMetrics(ctx, conf.ExportPort, conf.Metrics); err != nil {
				slog.Error("metrics export stopped", "error", err)
			}
		}()
	}
	if conf.ServeAddr != "" {
		go func() {
			if err := web.Run(ctx, conf, reading); err != nil {
				slog.Error("web server stopped", "error", err)
			}
		}()
	}

	if conf.Headless {
		// No TUI; just wait for user to interrupt
		fmt.Println(tr.Value("help.running"))
		<-ctx.Done()
	} else {
		ui, err := tui.New(conf, reading)
		if err != nil {
			stderrLogger.Print(err)
			ec = 1
			return
		}
		defer ui.ShutdownUI()
		err = ui.LoopUI()
		if err != nil {
			stderrLogger.Print(err)
			ec = 1
			return
		}
	}
}
