package tools

import (
	"os"
	"path/filepath"
)

// ToolInfo describes a third-party tool that is installed by unpacking a zip
// archive into its own folder under the tools directory.
type ToolInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DownloadURL string `json:"download_url"`
	ExeName     string `json:"exe_name"`
	FolderName  string `json:"folder_name"`
	Homepage    string `json:"homepage"`
}

func (t ToolInfo) InstallDir(base string) string {
	return filepath.Join(base, t.FolderName)
}

func (t ToolInfo) ExePath(base string) string {
	return filepath.Join(t.InstallDir(base), t.ExeName)
}

func (t ToolInfo) IsInstalled(base string) bool {
	info, err := os.Stat(t.ExePath(base))
	return err == nil && !info.IsDir()
}

const (
	GeekUninstaller = "geek_uninstaller"
	Sysinternals    = "sysinternals"
)

var builtinTools = map[string]ToolInfo{
	GeekUninstaller: {
		ID:          GeekUninstaller,
		Name:        "Geek Uninstaller",
		Description: "Uninstalls programs and removes their leftovers",
		DownloadURL: "https://geekuninstaller.com/geek.zip",
		ExeName:     "geek.exe",
		FolderName:  "geek_uninstaller",
		Homepage:    "https://geekuninstaller.com/",
	},
	Sysinternals: {
		ID:          Sysinternals,
		Name:        "Sysinternals Suite",
		Description: "Microsoft system utilities (Process Monitor, TCPView, Autoruns and more)",
		DownloadURL: "https://download.sysinternals.com/files/SysinternalsSuite.zip",
		ExeName:     "procmon.exe",
		FolderName:  "sysinternals",
		Homepage:    "https://learn.microsoft.com/sysinternals/",
	},
}

// Builtin returns the default definition of a tool.
func Builtin(id string) (ToolInfo, bool) {
	t, ok := builtinTools[id]
	return t, ok
}

func builtinCopy() map[string]ToolInfo {
	tools := make(map[string]ToolInfo, len(builtinTools))
	for id, t := range builtinTools {
		tools[id] = t
	}
	return tools
}
