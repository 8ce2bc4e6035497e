package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/OpenNHP/opennhp/nhp/log"

	"github.com/YongboStudio/WinToolbox/common"
)

type AppSettings struct {
	FontSize     int    `json:"font_size"`
	ConsoleLog   bool   `json:"console_log"`
	WindowWidth  int    `json:"window_width"`
	WindowHeight int    `json:"window_height"`
	ToolsDir     string `json:"tools_dir"`
	LogsDir      string `json:"logs_dir"`
}

func Default() AppSettings {
	return AppSettings{
		FontSize:     10,
		ConsoleLog:   false,
		WindowWidth:  900,
		WindowHeight: 650,
	}
}

// Set assigns a field by its JSON key.
func (s *AppSettings) Set(key, value string) error {
	var err error
	switch key {
	case "font_size":
		s.FontSize, err = strconv.Atoi(value)
	case "console_log":
		s.ConsoleLog, err = strconv.ParseBool(value)
	case "window_width":
		s.WindowWidth, err = strconv.Atoi(value)
	case "window_height":
		s.WindowHeight, err = strconv.Atoi(value)
	case "tools_dir":
		s.ToolsDir = value
	case "logs_dir":
		s.LogsDir = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

// DefaultConfigDir is ~/.wintoolbox.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, common.ConfigDir)
}

// Store caches the settings of one config directory.
type Store struct {
	mu       sync.Mutex
	dir      string
	settings *AppSettings
}

func NewStore(configDir string) *Store {
	return &Store{dir: configDir}
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) File() string {
	return filepath.Join(s.dir, common.SettingsFile)
}

// Get loads the settings file on first use. A missing or corrupt file yields
// the defaults.
func (s *Store) Get() AppSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		loaded := s.load()
		s.settings = &loaded
	}
	return *s.settings
}

func (s *Store) load() AppSettings {
	conf := Default()
	content, err := os.ReadFile(s.File())
	if err != nil {
		return conf
	}
	if err := json.Unmarshal(content, &conf); err != nil {
		return Default()
	}
	return conf
}

// Save replaces the cached settings and overwrites the file in place.
func (s *Store) Save(conf AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &conf

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		log.Error("create config dir fail: %v", err)
		return err
	}
	content, err := json.MarshalIndent(conf, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.File(), content, 0644); err != nil {
		log.Error("save settings fail: %v", err)
		return err
	}
	log.Info("settings saved to %s", s.File())
	return nil
}

func (s *Store) DefaultToolsDir() string {
	return filepath.Join(s.dir, common.ToolsSubDir)
}

func (s *Store) DefaultLogsDir() string {
	return filepath.Join(s.dir, common.LogsSubDir)
}

func (s *Store) ToolsDir() string {
	if dir := s.Get().ToolsDir; dir != "" {
		return dir
	}
	return s.DefaultToolsDir()
}

func (s *Store) LogsDir() string {
	if dir := s.Get().LogsDir; dir != "" {
		return dir
	}
	return s.DefaultLogsDir()
}

// Normalize blanks directory overrides that equal the defaults so the file
// keeps following the defaults if they ever move.
func (s *Store) Normalize(conf AppSettings) AppSettings {
	if filepath.Clean(conf.ToolsDir) == s.DefaultToolsDir() {
		conf.ToolsDir = ""
	}
	if filepath.Clean(conf.LogsDir) == s.DefaultLogsDir() {
		conf.LogsDir = ""
	}
	return conf
}
