package hosts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YongboStudio/WinToolbox/common"
)

const sampleHosts = `# Copyright (c) 1993-2009 Microsoft Corp.
#
#	127.0.0.1       localhost
127.0.0.1	localhost
10.0.0.5	intranet.test	wiki.test # office
`

func newTestAccessor(t *testing.T, content string) *Accessor {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hosts")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return NewAccessorAt(path)
}

func TestFormatEntry(t *testing.T) {
	assert.Equal(t, "\n10.0.0.1\texample.test", FormatEntry("10.0.0.1", "example.test"))
}

func TestReadWrite(t *testing.T) {
	a := newTestAccessor(t, sampleHosts)

	content, err := a.Read()
	require.NoError(t, err)
	assert.Equal(t, sampleHosts, content)

	require.NoError(t, a.Write("127.0.0.1\tlocalhost\n# 中文注释\n"))
	content, err = a.Read()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1\tlocalhost\n# 中文注释\n", content)
}

func TestReadMissing(t *testing.T) {
	a := NewAccessorAt(filepath.Join(t.TempDir(), "missing"))
	_, err := a.Read()
	assert.Error(t, err)
}

func TestAppend(t *testing.T) {
	a := newTestAccessor(t, "127.0.0.1\tlocalhost")

	res := a.Append(Entry{IP: "10.0.0.1", Domain: "example.test"})
	require.True(t, res.Success, res.Message)

	content, err := a.Read()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1\tlocalhost\n10.0.0.1\texample.test", content)
}

func TestAppendValidation(t *testing.T) {
	a := newTestAccessor(t, "")

	res := a.Append(Entry{IP: "", Domain: "example.test"})
	assert.False(t, res.Success)
	assert.Equal(t, common.KindValidation, res.Kind)

	res = a.Append(Entry{IP: "10.0.0.1", Domain: "  "})
	assert.Equal(t, "domain is required", res.Message)
}

func TestAppendMissingFile(t *testing.T) {
	a := NewAccessorAt(filepath.Join(t.TempDir(), "missing"))
	res := a.Append(Entry{IP: "10.0.0.1", Domain: "example.test"})
	assert.False(t, res.Success)
	assert.Equal(t, common.KindIO, res.Kind)
	assert.Contains(t, res.Message, "read hosts failed: ")
}

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{"10.0.0.5"}, Lookup(sampleHosts, "WIKI.test"))
	assert.Equal(t, []string{"127.0.0.1"}, Lookup(sampleHosts, "localhost"))
	assert.Empty(t, Lookup(sampleHosts, "office"))
}
