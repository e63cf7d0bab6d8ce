//go:build !darwin && !freebsd && !openbsd && !linux

package logging

import "os"

// stderr cannot be redirected here; panics still reach the terminal.
func stderrToLogfile(logfile *os.File) {}
