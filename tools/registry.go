package tools

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/OpenNHP/opennhp/nhp/log"
	"github.com/OpenNHP/opennhp/nhp/utils"
	"golang.org/x/sync/singleflight"

	"github.com/YongboStudio/WinToolbox/system"
)

// override is one entry of the tools.json file. Only fields that differ from
// the built-in definition are written.
type override struct {
	DownloadURL *string `json:"download_url,omitempty"`
	Homepage    *string `json:"homepage,omitempty"`
}

// Registry owns the tool catalog and installs, removes and launches tools.
type Registry struct {
	mu            sync.Mutex
	tools         map[string]ToolInfo
	overridesFile string
	baseDir       func() string

	exec   system.Executor
	client *http.Client

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
	flight  singleflight.Group

	watch io.Closer
}

// NewRegistry creates a registry whose overrides live in overridesFile and
// whose tools are installed under baseDir().
func NewRegistry(overridesFile string, baseDir func() string, exec system.Executor) *Registry {
	return &Registry{
		overridesFile: overridesFile,
		baseDir:       baseDir,
		exec:          exec,
		client:        &http.Client{},
		locks:         make(map[string]*sync.Mutex),
	}
}

// SetHTTPClient replaces the client used for downloads.
func (r *Registry) SetHTTPClient(c *http.Client) {
	r.client = c
}

func (r *Registry) BaseDir() string {
	return r.baseDir()
}

// WatchOverrides drops the cached catalog whenever the override file is
// edited outside the program.
func (r *Registry) WatchOverrides() {
	if _, err := os.Stat(r.overridesFile); err != nil {
		return
	}
	r.watch = utils.WatchFile(r.overridesFile, func() {
		log.Info("tool config: %s has been updated", r.overridesFile)
		r.mu.Lock()
		r.tools = nil
		r.mu.Unlock()
	})
}

func (r *Registry) Close() {
	if r.watch != nil {
		r.watch.Close()
	}
}

// catalog must be called with r.mu held.
func (r *Registry) catalog() map[string]ToolInfo {
	if r.tools == nil {
		r.tools = r.load()
	}
	return r.tools
}

func (r *Registry) load() map[string]ToolInfo {
	tools := builtinCopy()

	content, err := os.ReadFile(r.overridesFile)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Error("load tool config fail: %v", err)
		}
		return tools
	}
	var custom map[string]override
	if err := json.Unmarshal(content, &custom); err != nil {
		log.Error("load tool config fail: %v", err)
		return tools
	}
	for id, o := range custom {
		t, ok := tools[id]
		if !ok {
			continue
		}
		if o.DownloadURL != nil {
			t.DownloadURL = *o.DownloadURL
		}
		if o.Homepage != nil {
			t.Homepage = *o.Homepage
		}
		tools[id] = t
	}
	return tools
}

// save must be called with r.mu held.
func (r *Registry) save() {
	if r.tools == nil {
		return
	}
	custom := make(map[string]override)
	for id, t := range r.tools {
		def, ok := builtinTools[id]
		if !ok {
			continue
		}
		var o override
		if t.DownloadURL != def.DownloadURL {
			url := t.DownloadURL
			o.DownloadURL = &url
		}
		if t.Homepage != def.Homepage {
			homepage := t.Homepage
			o.Homepage = &homepage
		}
		if o.DownloadURL != nil || o.Homepage != nil {
			custom[id] = o
		}
	}

	if err := os.MkdirAll(filepath.Dir(r.overridesFile), 0755); err != nil {
		log.Error("save tool config fail: %v", err)
		return
	}
	content, err := json.MarshalIndent(custom, "", "  ")
	if err != nil {
		log.Error("save tool config fail: %v", err)
		return
	}
	if err := os.WriteFile(r.overridesFile, content, 0644); err != nil {
		log.Error("save tool config fail: %v", err)
		return
	}
	log.Info("tool config saved")
}

func (r *Registry) Get(id string) (ToolInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.catalog()[id]
	return t, ok
}

// All returns a copy of the catalog.
func (r *Registry) All() map[string]ToolInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	tools := make(map[string]ToolInfo, len(r.catalog()))
	for id, t := range r.catalog() {
		tools[id] = t
	}
	return tools
}

func (r *Registry) update(id string, apply func(*ToolInfo)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	tools := r.catalog()
	t, ok := tools[id]
	if !ok {
		return false
	}
	apply(&t)
	tools[id] = t
	r.save()
	return true
}

func (r *Registry) UpdateURL(id, url string) bool {
	ok := r.update(id, func(t *ToolInfo) { t.DownloadURL = url })
	if ok {
		log.Info("tool %s download url updated: %s", id, url)
	}
	return ok
}

func (r *Registry) UpdateHomepage(id, homepage string) bool {
	ok := r.update(id, func(t *ToolInfo) { t.Homepage = homepage })
	if ok {
		log.Info("tool %s homepage updated: %s", id, homepage)
	}
	return ok
}

// Reset restores the built-in url and homepage of a tool.
func (r *Registry) Reset(id string) bool {
	def, ok := builtinTools[id]
	if !ok {
		return false
	}
	ok = r.update(id, func(t *ToolInfo) {
		t.DownloadURL = def.DownloadURL
		t.Homepage = def.Homepage
	})
	if ok {
		log.Info("tool %s config reset", id)
	}
	return ok
}

func (r *Registry) IsInstalled(id string) bool {
	t, ok := r.Get(id)
	return ok && t.IsInstalled(r.baseDir())
}

func (r *Registry) lockFor(id string) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()
	l, ok := r.locks[id]
	if !ok {
		l = &sync.Mutex{}
		r.locks[id] = l
	}
	return l
}
