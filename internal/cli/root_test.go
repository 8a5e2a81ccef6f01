package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootRequiresPath(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	assert.Error(t, cmd.Execute())
}

func TestRootRunsREPL(t *testing.T) {
	home := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "root.db")

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs([]string{dbPath, "--home", home, "--log-level", "debug"})
	cmd.SetIn(strings.NewReader("insert 1 alice a@x.com\nselect\n.exit\n"))
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "(1, alice, a@x.com)")

	logData, err := os.ReadFile(filepath.Join(home, "log", "rowstore.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "[DEBUG]")
	assert.Contains(t, string(logData), "table: closed with 1 rows")
}

func TestRootUsesConfigPrompt(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte("prompt: \"rows> \"\n"), 0o644))

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "prompt.db"), "--home", home})
	cmd.SetIn(strings.NewReader(".exit\n"))
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "rows> ", out.String())
}

func TestRootOpenFailure(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte("create_if_missing: false\n"), 0o644))

	cmd := NewRootCommand()
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.db"), "--home", home})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to open Database")
}

func TestRootBadLogLevel(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "x.db"), "--home", t.TempDir(), "--log-level", "loud"})
	cmd.SetOut(&bytes.Buffer{})

	assert.Error(t, cmd.Execute())
}
