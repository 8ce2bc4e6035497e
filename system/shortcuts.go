package system

import (
	"github.com/OpenNHP/opennhp/nhp/log"

	"github.com/YongboStudio/WinToolbox/common"
)

// Shortcut is a built-in Windows administration panel.
type Shortcut struct {
	Name        string
	Title       string
	Category    string
	Description string
	Command     []string
	// Shell starts Command through the shell, needed for .cpl and .msc files.
	Shell bool
}

var shortcuts = []Shortcut{
	{"env", "Environment Variables", "System settings", "Edit system and user environment variables",
		[]string{"rundll32.exe", "sysdm.cpl,EditEnvironmentVariables"}, false},
	{"ncpa", "Network Connections", "System settings", "Configure adapter IP addresses",
		[]string{"ncpa.cpl"}, true},
	{"control", "Control Panel", "System settings", "Open the classic Control Panel",
		[]string{"control"}, false},
	{"adapters", "Network Adapter Settings", "Network", "Advanced network adapter options",
		[]string{"control", "ncpa.cpl"}, false},
	{"firewall", "Windows Firewall", "Network", "Configure firewall rules",
		[]string{"wf.msc"}, true},
	{"resmon", "Resource Monitor", "Network", "Inspect network resource usage",
		[]string{"resmon"}, false},
	{"devmgmt", "Device Manager", "System tools", "Manage hardware devices",
		[]string{"devmgmt.msc"}, true},
	{"services", "Services", "System tools", "Manage Windows services",
		[]string{"services.msc"}, true},
	{"taskmgr", "Task Manager", "System tools", "View processes and performance",
		[]string{"taskmgr"}, false},
}

// Shortcuts returns the shortcut catalog in display order.
func Shortcuts() []Shortcut {
	return append([]Shortcut(nil), shortcuts...)
}

func FindShortcut(name string) (Shortcut, bool) {
	for _, s := range shortcuts {
		if s.Name == name {
			return s, true
		}
	}
	return Shortcut{}, false
}

// OpenShortcut starts the named panel without waiting for it.
func OpenShortcut(e Executor, name string) common.Result {
	s, ok := FindShortcut(name)
	if !ok {
		log.Warning("unknown shortcut: %s", name)
		return common.Invalid("shortcut not found: " + name)
	}
	cmd, args := s.Command[0], s.Command[1:]
	if s.Shell {
		cmd, args = shellCommand(s.Command)
	}
	log.Info("open shortcut: %s", s.Title)
	if err := e.Start(cmd, args...); err != nil {
		log.Error("open shortcut fail: %s, error: %v", s.Title, err)
		return common.Fail("open "+s.Title+" failed", err)
	}
	return common.OK("opened " + s.Title)
}

// OpenURL shows url in the default browser.
func OpenURL(e Executor, url string) error {
	name, args := urlOpener(url)
	return e.Start(name, args...)
}
