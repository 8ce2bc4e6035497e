package common

const (
	AppName      = "WinToolbox"
	Version      = "0.1"
	ConfigDir    = ".wintoolbox"
	SettingsFile = "settings.json"
	ToolsFile    = "tools.json"
	MarkersFile  = "markers.toml"
	ToolsSubDir  = "tools"
	LogsSubDir   = "logs"

	HostsPath = `C:\Windows\System32\drivers\etc\hosts`

	// legacy console codepage used when the real one cannot be detected
	DefaultEncoding = "gbk"
)

const (
	LogLevelInfo  = 4
	LogLevelDebug = 6
)

const DefaultUpstreamDNS = "8.8.8.8"
