package system

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YongboStudio/WinToolbox/common"
)

func TestShortcutCatalog(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range Shortcuts() {
		assert.False(t, seen[s.Name], "duplicate shortcut %s", s.Name)
		seen[s.Name] = true
		assert.NotEmpty(t, s.Command, s.Name)
		assert.NotEmpty(t, s.Title, s.Name)
	}
	for _, name := range []string{"env", "ncpa", "control", "firewall", "resmon", "devmgmt", "services", "taskmgr"} {
		assert.True(t, seen[name], name)
	}
}

func TestOpenShortcutDirect(t *testing.T) {
	mock := NewMockExecutor()
	res := OpenShortcut(mock, "env")
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "opened Environment Variables", res.Message)
	assert.Equal(t, []string{"rundll32.exe sysdm.cpl,EditEnvironmentVariables"}, mock.Started)
	assert.Empty(t, mock.Calls)
}

func TestOpenShortcutThroughShell(t *testing.T) {
	mock := NewMockExecutor()
	res := OpenShortcut(mock, "services")
	require.True(t, res.Success, res.Message)

	name, args := shellCommand([]string{"services.msc"})
	assert.Equal(t, []string{name + " " + strings.Join(args, " ")}, mock.Started)
}

func TestOpenShortcutFailures(t *testing.T) {
	mock := NewMockExecutor()
	res := OpenShortcut(mock, "regedit2")
	assert.False(t, res.Success)
	assert.Equal(t, common.KindValidation, res.Kind)
	assert.Empty(t, mock.Started)

	mock.StartErr = &common.SpawnError{Name: "taskmgr", Err: errors.New("access denied")}
	res = OpenShortcut(mock, "taskmgr")
	assert.False(t, res.Success)
	assert.Equal(t, common.KindSpawn, res.Kind)
	assert.Contains(t, res.Message, "open Task Manager failed")
}

func TestOpenURL(t *testing.T) {
	mock := NewMockExecutor()
	require.NoError(t, OpenURL(mock, "https://example.com/"))
	require.Len(t, mock.Started, 1)
	assert.True(t, strings.HasSuffix(mock.Started[0], "https://example.com/"))
}
