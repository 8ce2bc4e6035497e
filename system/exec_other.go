//go:build !windows

package system

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
	"syscall"
)

// hideWindow is a no-op; only Windows opens a console per child process.
func hideWindow(*exec.Cmd) {}

func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func shellCommand(argv []string) (string, []string) {
	return "sh", []string{"-c", strings.Join(argv, " ")}
}

func fileManager(dir string) (string, []string) {
	if runtime.GOOS == "darwin" {
		return "open", []string{dir}
	}
	return "xdg-open", []string{dir}
}

func urlOpener(url string) (string, []string) {
	return fileManager(url)
}

func consoleEncoding() string {
	return "utf-8"
}

func IsAdmin() bool {
	return os.Geteuid() == 0
}
