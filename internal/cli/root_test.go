package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_InvalidFormat(t *testing.T) {
	path := writeDump(t, t.TempDir(), "0120.zdump", 120, 2.5e-14)
	_, err := execute(NewRootCommand(), "--format", "xml", "info", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRoot_Config(t *testing.T) {
	dir := t.TempDir()
	path := writeDump(t, dir, "0120.zdump", 120, 2.5e-14)
	outdir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outdir, 0o755))
	cfg := filepath.Join(dir, "gopic.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("project: cfgproj\noutdir: "+outdir+"\nwidth: 4\nheight: 3\n"), 0o644))

	_, err := execute(NewRootCommand(), "--config", cfg, "plot", path, "--field", "Ex")
	require.NoError(t, err)
	matches, err := filepath.Glob(filepath.Join(outdir, "cfgproj_*.png"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestRoot_BadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeDump(t, dir, "0120.zdump", 120, 2.5e-14)
	cfg := filepath.Join(dir, "gopic.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("colour: red\n"), 0o644))

	_, err := execute(NewRootCommand(), "--config", cfg, "info", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, ExitCode(exitError(ExitCommandError, "bad", nil)))
	wrapped := exitError(ExitFailure, "outer", errors.New("inner"))
	assert.Equal(t, "outer: inner", wrapped.Error())
	assert.Equal(t, "inner", errors.Unwrap(wrapped).Error())
}
