package tools

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YongboStudio/WinToolbox/common"
	"github.com/YongboStudio/WinToolbox/system"
)

func makeZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func serveFiles(t *testing.T, files map[string][]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

type fixture struct {
	reg  *Registry
	base string
	exec *system.MockExecutor
	srv  *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	base := filepath.Join(dir, "tools")
	mock := system.NewMockExecutor()
	srv := serveFiles(t, map[string][]byte{
		"/geek.zip":    makeZip(t, map[string]string{"geek.exe": "MZ-geek", "readme.txt": "hi"}),
		"/suite.zip":   makeZip(t, map[string]string{"procmon.exe": "MZ", "tcpview.exe": "MZ", "Eula.txt": "eula", "docs/": ""}),
		"/noexe.zip":   makeZip(t, map[string]string{"other.exe": "MZ"}),
		"/corrupt.zip": []byte("this is not a zip archive"),
		"/slip.zip":    makeZip(t, map[string]string{"../escape.exe": "MZ"}),
	})
	reg := NewRegistry(filepath.Join(dir, "tools.json"), func() string { return base }, mock)
	reg.SetHTTPClient(srv.Client())
	require.True(t, reg.UpdateURL(GeekUninstaller, srv.URL+"/geek.zip"))
	require.True(t, reg.UpdateURL(Sysinternals, srv.URL+"/suite.zip"))
	return &fixture{reg: reg, base: base, exec: mock, srv: srv}
}

func TestDownloadInstallsTool(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.reg.IsInstalled(GeekUninstaller))

	var calls []Progress
	res := f.reg.Download(context.Background(), GeekUninstaller, func(downloaded, total int64) {
		calls = append(calls, Progress{downloaded, total})
	})
	require.True(t, res.Success, res.Message)
	assert.True(t, f.reg.IsInstalled(GeekUninstaller))

	require.NotEmpty(t, calls)
	last := calls[len(calls)-1]
	assert.Equal(t, last.Total, last.Downloaded)

	tool, _ := f.reg.Get(GeekUninstaller)
	exe, err := os.ReadFile(tool.ExePath(f.base))
	require.NoError(t, err)
	assert.Equal(t, "MZ-geek", string(exe))

	entries, err := os.ReadDir(f.base)
	require.NoError(t, err)
	require.Len(t, entries, 1, "staging directory must be cleaned up")
	_, err = os.Stat(filepath.Join(tool.InstallDir(f.base), "download.zip"))
	assert.True(t, os.IsNotExist(err))
}

func TestDownloadUnknownTool(t *testing.T) {
	f := newFixture(t)
	res := f.reg.Download(context.Background(), "nope", nil)
	assert.False(t, res.Success)
	assert.Equal(t, common.KindValidation, res.Kind)
}

func TestDownloadHTTPError(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.reg.UpdateURL(GeekUninstaller, f.srv.URL+"/missing.zip"))

	res := f.reg.Download(context.Background(), GeekUninstaller, nil)
	assert.False(t, res.Success)
	assert.Equal(t, common.KindNetwork, res.Kind)
	assert.Contains(t, res.Message, "download failed: ")
	assert.Contains(t, res.Message, "404")
	assert.False(t, f.reg.IsInstalled(GeekUninstaller))
}

func TestDownloadCorruptArchive(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.reg.UpdateURL(GeekUninstaller, f.srv.URL+"/corrupt.zip"))

	res := f.reg.Download(context.Background(), GeekUninstaller, nil)
	assert.False(t, res.Success)
	assert.Equal(t, common.KindArchive, res.Kind)

	tool, _ := f.reg.Get(GeekUninstaller)
	_, err := os.Stat(tool.InstallDir(f.base))
	assert.True(t, os.IsNotExist(err), "failed install must not leave a partial directory")
}

func TestDownloadRejectsPathTraversal(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.reg.UpdateURL(GeekUninstaller, f.srv.URL+"/slip.zip"))

	res := f.reg.Download(context.Background(), GeekUninstaller, nil)
	assert.False(t, res.Success)
	assert.Equal(t, common.KindArchive, res.Kind)
	_, err := os.Stat(filepath.Join(f.base, "escape.exe"))
	assert.True(t, os.IsNotExist(err))
}

func TestFailedUpdateKeepsPreviousInstall(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.reg.Download(context.Background(), GeekUninstaller, nil).Success)

	require.True(t, f.reg.UpdateURL(GeekUninstaller, f.srv.URL+"/noexe.zip"))
	res := f.reg.Download(context.Background(), GeekUninstaller, nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "install failed: ")
	assert.True(t, f.reg.IsInstalled(GeekUninstaller))
}

func TestReinstallReplacesContent(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.reg.Download(context.Background(), Sysinternals, nil).Success)
	tool, _ := f.reg.Get(Sysinternals)
	stale := filepath.Join(tool.InstallDir(f.base), "stale.exe")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0644))

	require.True(t, f.reg.Download(context.Background(), Sysinternals, nil).Success)
	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(tool.InstallDir(f.base) + ".old")
	assert.True(t, os.IsNotExist(err))
}

func TestUninstall(t *testing.T) {
	f := newFixture(t)

	res := f.reg.Uninstall(GeekUninstaller)
	assert.False(t, res.Success)
	assert.Equal(t, common.KindValidation, res.Kind)

	require.True(t, f.reg.Download(context.Background(), GeekUninstaller, nil).Success)
	res = f.reg.Uninstall(GeekUninstaller)
	require.True(t, res.Success, res.Message)
	assert.False(t, f.reg.IsInstalled(GeekUninstaller))

	tool, _ := f.reg.Get(GeekUninstaller)
	_, err := os.Stat(tool.InstallDir(f.base))
	assert.True(t, os.IsNotExist(err))
}

func TestUninstallChecksStateUnderToolLock(t *testing.T) {
	f := newFixture(t)
	tool, _ := f.reg.Get(GeekUninstaller)

	// Hold the tool lock as a running download would, and finish the
	// install only after Uninstall is already waiting for it.
	lock := f.reg.lockFor(GeekUninstaller)
	lock.Lock()
	done := make(chan common.Result)
	go func() { done <- f.reg.Uninstall(GeekUninstaller) }()
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.MkdirAll(tool.InstallDir(f.base), 0755))
	require.NoError(t, os.WriteFile(tool.ExePath(f.base), []byte("MZ"), 0755))
	lock.Unlock()

	res := <-done
	require.True(t, res.Success, res.Message)
	assert.False(t, f.reg.IsInstalled(GeekUninstaller))
}

func TestOpenHomepage(t *testing.T) {
	f := newFixture(t)

	res := f.reg.OpenHomepage(Sysinternals)
	require.True(t, res.Success, res.Message)
	require.Len(t, f.exec.Started, 1)
	assert.True(t, strings.HasSuffix(f.exec.Started[0], "https://learn.microsoft.com/sysinternals/"))

	require.True(t, f.reg.UpdateHomepage(GeekUninstaller, ""))
	res = f.reg.OpenHomepage(GeekUninstaller)
	assert.False(t, res.Success)
	assert.Equal(t, common.KindValidation, res.Kind)

	assert.False(t, f.reg.OpenHomepage("nope").Success)
	assert.Len(t, f.exec.Started, 1)
}

func TestLaunch(t *testing.T) {
	f := newFixture(t)

	res := f.reg.Launch(GeekUninstaller)
	assert.False(t, res.Success)
	assert.Empty(t, f.exec.Started)

	res = f.reg.Launch("nope")
	assert.False(t, res.Success)

	require.True(t, f.reg.Download(context.Background(), GeekUninstaller, nil).Success)
	res = f.reg.Launch(GeekUninstaller)
	require.True(t, res.Success, res.Message)
	tool, _ := f.reg.Get(GeekUninstaller)
	assert.Equal(t, []string{tool.ExePath(f.base)}, f.exec.Started)

	f.exec.StartErr = &common.SpawnError{Name: "geek.exe", Err: os.ErrPermission}
	res = f.reg.Launch(GeekUninstaller)
	assert.False(t, res.Success)
	assert.Equal(t, common.KindSpawn, res.Kind)
	assert.Contains(t, res.Message, "launch failed: ")
}

func TestLaunchMemberAndMembers(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.reg.Download(context.Background(), Sysinternals, nil).Success)

	members, err := f.reg.Members(Sysinternals)
	require.NoError(t, err)
	assert.Equal(t, []string{"procmon.exe", "tcpview.exe"}, members)

	res := f.reg.LaunchMember(Sysinternals, "tcpview.exe")
	require.True(t, res.Success, res.Message)

	res = f.reg.LaunchMember(Sysinternals, "autoruns.exe")
	assert.False(t, res.Success)
	assert.Equal(t, common.KindValidation, res.Kind)

	res = f.reg.LaunchMember(Sysinternals, "../geek_uninstaller/geek.exe")
	assert.False(t, res.Success)
}

func TestMemberCatalog(t *testing.T) {
	f := newFixture(t)

	members, err := f.reg.MemberCatalog(Sysinternals, "")
	require.NoError(t, err)
	assert.Len(t, members, len(sysinternalsMembers))
	for _, m := range members {
		assert.False(t, m.Installed, m.Exe)
	}

	require.True(t, f.reg.Download(context.Background(), Sysinternals, nil).Success)
	members, err = f.reg.MemberCatalog(Sysinternals, "TCP")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, Member{Exe: "tcpview.exe", Name: "TCPView", Description: "All TCP and UDP endpoints", Installed: true}, members[0])

	members, err = f.reg.MemberCatalog(Sysinternals, "registry")
	require.NoError(t, err)
	installed := make(map[string]bool)
	for _, m := range members {
		installed[m.Name] = m.Installed
	}
	assert.Equal(t, map[string]bool{"Process Monitor": true, "RegDelNull": false, "Registry Usage": false}, installed)

	require.True(t, f.reg.Download(context.Background(), GeekUninstaller, nil).Success)
	members, err = f.reg.MemberCatalog(GeekUninstaller, "")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Geek Uninstaller", members[0].Name)

	_, err = f.reg.MemberCatalog("nope", "")
	assert.Error(t, err)
}

func TestInstallTaskStreamsProgress(t *testing.T) {
	f := newFixture(t)

	task := f.reg.Install(context.Background(), Sysinternals)
	var last Progress
	for p := range task.Progress() {
		last = p
	}
	res := task.Wait()
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 1.0, last.Percent())
	assert.True(t, f.reg.IsInstalled(Sysinternals))
}

func TestInstallAll(t *testing.T) {
	f := newFixture(t)

	results := f.reg.InstallAll(context.Background(), []string{GeekUninstaller, Sysinternals, "nope"})
	assert.True(t, results[GeekUninstaller].Success)
	assert.True(t, results[Sysinternals].Success)
	assert.False(t, results["nope"].Success)
}

func TestConcurrentDownloadAndUninstall(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.reg.Download(context.Background(), GeekUninstaller, nil).Success)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			f.reg.Download(context.Background(), GeekUninstaller, nil)
		}()
		go func() {
			defer wg.Done()
			f.reg.Uninstall(GeekUninstaller)
		}()
	}
	wg.Wait()

	// Whatever the interleaving, the tool is either fully present or absent.
	tool, _ := f.reg.Get(GeekUninstaller)
	if _, err := os.Stat(tool.InstallDir(f.base)); err == nil {
		assert.True(t, f.reg.IsInstalled(GeekUninstaller))
	}
}
