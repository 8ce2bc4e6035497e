package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/OpenNHP/opennhp/nhp/log"
	"github.com/OpenNHP/opennhp/nhp/utils"

	"github.com/YongboStudio/WinToolbox/common"
	"github.com/YongboStudio/WinToolbox/system"
)

// ProgressFunc receives the cumulative downloaded bytes and the total size.
// It is only called when the total size is known.
type ProgressFunc func(downloaded, total int64)

type progressWriter struct {
	downloaded int64
	total      int64
	fn         ProgressFunc
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.downloaded += int64(len(p))
	if w.fn != nil && w.total > 0 {
		w.fn(w.downloaded, w.total)
	}
	return len(p), nil
}

func errToolNotFound(id string) error {
	return fmt.Errorf("tool not found: %s", id)
}

func unknownTool(id string) common.Result {
	log.Warning("unknown tool: %s", id)
	return common.Invalid("tool not found: " + id)
}

// Download fetches the tool archive, unpacks it and checks that the
// executable is present. Concurrent calls for the same tool share one
// transfer; only the first caller's progress function is used.
func (r *Registry) Download(ctx context.Context, id string, progress ProgressFunc) common.Result {
	tool, ok := r.Get(id)
	if !ok {
		return unknownTool(id)
	}
	v, _, _ := r.flight.Do(id, func() (interface{}, error) {
		lock := r.lockFor(id)
		lock.Lock()
		defer lock.Unlock()
		return r.download(ctx, tool, progress), nil
	})
	return v.(common.Result)
}

// download unpacks into a staging directory next to the install directory
// and swaps it in only after the executable is verified, so a failed update
// leaves the previous installation untouched.
func (r *Registry) download(ctx context.Context, tool ToolInfo, progress ProgressFunc) (res common.Result) {
	defer utils.CatchPanicThenRun(func() {
		log.Error("download tool fail: %s, unexpected panic", tool.Name)
		res = common.Fail("download failed", fmt.Errorf("unexpected error while installing %s", tool.Name))
	})

	base := r.baseDir()
	installDir := tool.InstallDir(base)
	log.Info("start download tool: %s, url: %s", tool.Name, tool.DownloadURL)

	if err := os.MkdirAll(base, 0755); err != nil {
		log.Error("create tools dir fail: %v", err)
		return common.Fail("download failed", err)
	}
	staging, err := os.MkdirTemp(base, tool.FolderName+".staging-")
	if err != nil {
		log.Error("create staging dir fail: %v", err)
		return common.Fail("download failed", err)
	}
	defer os.RemoveAll(staging)

	zipPath := filepath.Join(staging, "download.zip")
	log.Debug("download file to: %s", zipPath)
	if err := r.fetch(ctx, tool.DownloadURL, zipPath, progress); err != nil {
		log.Error("download tool fail: %s, error: %v", tool.Name, err)
		return common.Fail("download failed", err)
	}

	content := filepath.Join(staging, "content")
	log.Debug("extract file: %s", zipPath)
	if err := extractZip(zipPath, content); err != nil {
		log.Error("extract tool fail: %s, error: %v", tool.Name, err)
		return common.Fail("download failed", err)
	}
	if err := os.Remove(zipPath); err != nil {
		log.Warning("remove archive fail: %v", err)
	}

	if _, err := os.Stat(filepath.Join(content, tool.ExeName)); err != nil {
		err = &common.ArchiveError{Path: tool.DownloadURL, Err: fmt.Errorf("%s not found in archive", tool.ExeName)}
		log.Error("install tool fail: %s, %v", tool.Name, err)
		return common.Fail("install failed", err)
	}

	if err := replaceDir(content, installDir); err != nil {
		log.Error("install tool fail: %s, error: %v", tool.Name, err)
		return common.Fail("install failed", err)
	}

	if !tool.IsInstalled(base) {
		log.Error("install tool fail: %s, executable not found", tool.Name)
		return common.Fail("install failed", &common.ArchiveError{Path: installDir, Err: fmt.Errorf("%s not found", tool.ExeName)})
	}
	log.Info("install tool success: %s", tool.Name)
	return common.OK("installed " + tool.Name)
}

func (r *Registry) fetch(ctx context.Context, url, dst string, progress ProgressFunc) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &common.NetworkError{URL: url, Err: err}
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return &common.NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &common.NetworkError{URL: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	w := &progressWriter{total: resp.ContentLength, fn: progress}
	if _, err := io.Copy(f, io.TeeReader(resp.Body, w)); err != nil {
		f.Close()
		return &common.NetworkError{URL: url, Err: err}
	}
	return f.Close()
}

// replaceDir moves src to dst, keeping the old dst aside until the move succeeds.
func replaceDir(src, dst string) error {
	backup := ""
	if _, err := os.Stat(dst); err == nil {
		backup = dst + ".old"
		_ = os.RemoveAll(backup)
		if err := os.Rename(dst, backup); err != nil {
			return fmt.Errorf("move old installation aside: %w", err)
		}
	}
	if err := os.Rename(src, dst); err != nil {
		if backup != "" {
			_ = os.Rename(backup, dst)
		}
		return err
	}
	if backup != "" {
		if err := os.RemoveAll(backup); err != nil {
			log.Warning("remove old installation fail: %v", err)
		}
	}
	return nil
}

func (r *Registry) Uninstall(id string) common.Result {
	tool, ok := r.Get(id)
	if !ok {
		return unknownTool(id)
	}
	lock := r.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	base := r.baseDir()
	if !tool.IsInstalled(base) {
		log.Warning("uninstall tool that is not installed: %s", tool.Name)
		return common.Invalid("tool not installed: " + tool.Name)
	}

	log.Info("start uninstall tool: %s", tool.Name)
	if err := os.RemoveAll(tool.InstallDir(base)); err != nil {
		log.Error("uninstall tool fail: %s, error: %v", tool.Name, err)
		return common.Fail("uninstall failed", err)
	}
	log.Info("uninstall tool success: %s", tool.Name)
	return common.OK("uninstalled " + tool.Name)
}

func (r *Registry) Launch(id string) common.Result {
	tool, ok := r.Get(id)
	if !ok {
		return unknownTool(id)
	}
	base := r.baseDir()
	if !tool.IsInstalled(base) {
		log.Warning("launch tool that is not installed: %s", tool.Name)
		return common.Invalid("tool not installed: " + tool.Name)
	}
	return r.start(tool.Name, tool.ExePath(base))
}

// LaunchMember starts one executable shipped inside a suite, such as
// tcpview.exe from Sysinternals.
func (r *Registry) LaunchMember(id, exeName string) common.Result {
	tool, ok := r.Get(id)
	if !ok {
		return unknownTool(id)
	}
	if exeName == "" || filepath.Base(exeName) != exeName {
		return common.Invalid("invalid executable name: " + exeName)
	}
	base := r.baseDir()
	if !tool.IsInstalled(base) {
		log.Warning("launch member of tool that is not installed: %s", tool.Name)
		return common.Invalid("tool not installed: " + tool.Name)
	}
	path := filepath.Join(tool.InstallDir(base), exeName)
	if _, err := os.Stat(path); err != nil {
		log.Warning("tool file not found: %s", path)
		return common.Invalid("tool file not found: " + exeName)
	}
	return r.start(exeName, path)
}

func (r *Registry) start(name, path string) common.Result {
	log.Info("launch tool: %s, path: %s", name, path)
	if err := r.exec.Start(path); err != nil {
		log.Error("launch tool fail: %s, error: %v", name, err)
		return common.Fail("launch failed", err)
	}
	return common.OK("launched " + name)
}

// OpenHomepage shows the tool's homepage in the default browser.
func (r *Registry) OpenHomepage(id string) common.Result {
	tool, ok := r.Get(id)
	if !ok {
		return unknownTool(id)
	}
	if tool.Homepage == "" {
		return common.Invalid("no homepage for " + tool.Name)
	}
	log.Info("open tool homepage: %s, url: %s", tool.Name, tool.Homepage)
	if err := system.OpenURL(r.exec, tool.Homepage); err != nil {
		log.Error("open tool homepage fail: %s, error: %v", tool.Name, err)
		return common.Fail("open homepage failed", err)
	}
	return common.OK("opened " + tool.Homepage)
}

// Members lists the executables inside an installed tool directory.
func (r *Registry) Members(id string) ([]string, error) {
	tool, ok := r.Get(id)
	if !ok {
		return nil, errToolNotFound(id)
	}
	entries, err := os.ReadDir(tool.InstallDir(r.baseDir()))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".exe") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
