package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"

	"github.com/xxxserxxx/dialtop"
)

const LOGFILE = "errors.log"

// New installs the default slog logger. The TUI owns the terminal, so in
// that mode records (and stderr, so panics are kept) go to LOGFILE in the
// cache folder. Headless runs log to stdout. The returned Closer releases
// the log file.
func New(c dialtop.Config) (io.Closer, error) {
	if c.Headless {
		slog.SetDefault(slog.New(newHandler(os.Stdout, c.LogLevel, true)))
		return io.NopCloser(nil), nil
	}
	cache := c.ConfigDir.QueryCacheFolder()
	if err := os.MkdirAll(cache.Path, 0o755); err != nil {
		return nil, fmt.Errorf("creating log folder: %w", err)
	}
	logpath := filepath.Join(cache.Path, LOGFILE)
	if err := rotate(logpath, c.MaxLogSize); err != nil {
		return nil, err
	}
	logfile, err := os.OpenFile(logpath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	stderrToLogfile(logfile)
	slog.SetDefault(slog.New(newHandler(logfile, c.LogLevel, false)))
	return logfile, nil
}

func newHandler(w io.Writer, level slog.Leveler, color bool) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    !color,
	})
}

// rotate moves the log aside once it outgrows max bytes, keeping one
// previous generation.
func rotate(logpath string, max int64) error {
	fi, err := os.Stat(logpath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if max <= 0 || fi.Size() < max {
		return nil
	}
	if err := os.Rename(logpath, logpath+".1"); err != nil {
		return fmt.Errorf("rotating log file: %w", err)
	}
	return nil
}
