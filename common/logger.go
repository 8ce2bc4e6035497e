package common

import (
	"fmt"
	"os"

	"github.com/OpenNHP/opennhp/nhp/log"
)

// InitLogger creates the process logger writing daily files under logsDir and
// installs it as the global logger used by the package-level log functions.
func InitLogger(logsDir string, level int) *log.Logger {
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "create logs dir %s fail: %v\n", logsDir, err)
	}
	l := log.NewLogger(AppName, level, logsDir, "wintoolbox")
	log.SetGlobalLogger(l)
	return l
}

// LogLevel maps the console_log setting onto a logger level.
func LogLevel(verbose bool) int {
	if verbose {
		return LogLevelDebug
	}
	return LogLevelInfo
}

// RunWithTestLogger is shared by the TestMain functions of every package.
func RunWithTestLogger(run func() int) int {
	dir, err := os.MkdirTemp("", "wintoolbox-log-")
	if err != nil {
		return run()
	}
	InitLogger(dir, LogLevelDebug)
	code := run()
	log.Close()
	_ = os.RemoveAll(dir)
	return code
}
