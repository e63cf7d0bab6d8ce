//go:build darwin || freebsd || openbsd || (linux && !arm64 && !loong64 && !riscv64)

package logging

import (
	"os"
	"syscall"
)

func stderrToLogfile(logfile *os.File) {
	syscall.Dup2(int(logfile.Fd()), 2)
}
