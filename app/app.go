package app

import (
	"path/filepath"

	"github.com/OpenNHP/opennhp/nhp/log"

	"github.com/YongboStudio/WinToolbox/common"
	"github.com/YongboStudio/WinToolbox/hosts"
	"github.com/YongboStudio/WinToolbox/network"
	"github.com/YongboStudio/WinToolbox/settings"
	"github.com/YongboStudio/WinToolbox/system"
	"github.com/YongboStudio/WinToolbox/tools"
)

// App owns every service for the lifetime of the process.
type App struct {
	Settings *settings.Store
	Runner   system.Executor
	Network  *network.Service
	Resolver *network.Resolver
	Hosts    *hosts.Accessor
	Tools    *tools.Registry

	logger *log.Logger
}

type Options struct {
	// ConfigDir defaults to ~/.wintoolbox.
	ConfigDir string
	// Executor defaults to a Runner using the console codepage.
	Executor system.Executor
	// HostsPath defaults to the system hosts file.
	HostsPath string
}

func New(opts Options) *App {
	if opts.ConfigDir == "" {
		opts.ConfigDir = settings.DefaultConfigDir()
	}
	if opts.Executor == nil {
		opts.Executor = system.NewRunner()
	}
	if opts.HostsPath == "" {
		opts.HostsPath = common.HostsPath
	}

	a := &App{
		Settings: settings.NewStore(opts.ConfigDir),
		Runner:   opts.Executor,
		Resolver: network.NewResolver(),
		Hosts:    hosts.NewAccessorAt(opts.HostsPath),
	}

	conf := a.Settings.Get()
	a.logger = common.InitLogger(a.Settings.LogsDir(), common.LogLevel(conf.ConsoleLog))
	log.Info("==================================================")
	log.Info("=============== WinToolbox started ===============")
	log.Info("==================================================")

	a.Network = network.NewService(a.Runner)
	a.Network.WatchMarkers(filepath.Join(opts.ConfigDir, common.MarkersFile))

	a.Tools = tools.NewRegistry(filepath.Join(opts.ConfigDir, common.ToolsFile), a.Settings.ToolsDir, a.Runner)
	a.Tools.WatchOverrides()
	return a
}

// SaveSettings persists conf and applies the log verbosity immediately.
func (a *App) SaveSettings(conf settings.AppSettings) error {
	conf = a.Settings.Normalize(conf)
	if err := a.Settings.Save(conf); err != nil {
		return err
	}
	a.logger.SetLogLevel(common.LogLevel(conf.ConsoleLog))
	return nil
}

func (a *App) Close() {
	a.Network.Close()
	a.Tools.Close()
	log.Info("WinToolbox exited")
	log.Close()
}
