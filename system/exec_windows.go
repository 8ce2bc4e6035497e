//go:build windows

package system

import (
	"os/exec"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/YongboStudio/WinToolbox/common"
)

// hideWindow keeps the child from flashing a console window.
func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}

func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW | windows.CREATE_NEW_PROCESS_GROUP,
	}
}

func shellCommand(argv []string) (string, []string) {
	return "cmd", []string{"/C", strings.Join(argv, " ")}
}

func fileManager(dir string) (string, []string) {
	return "explorer", []string{dir}
}

func urlOpener(url string) (string, []string) {
	return "rundll32", []string{"url.dll,FileProtocolHandler", url}
}

// consoleEncoding asks the console for its output codepage; ipconfig and
// route print write in this codepage.
func consoleEncoding() string {
	cmd := exec.Command("powershell", "-Command", "[Console]::OutputEncoding.CodePage")
	hideWindow(cmd)
	output, err := cmd.Output()
	if err != nil {
		return common.DefaultEncoding
	}
	cp, err := strconv.ParseUint(strings.TrimSpace(string(output)), 10, 32)
	if err != nil {
		return common.DefaultEncoding
	}
	return "cp" + strconv.FormatUint(cp, 10)
}

// IsAdmin reports whether the process token is elevated.
func IsAdmin() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
