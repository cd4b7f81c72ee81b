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

func TestPlot(t *testing.T) {
	dir := t.TempDir()
	path := writeDump(t, dir, "0120.zdump", 120, 2.5e-14)
	outdir := filepath.Join(dir, "plots")
	require.NoError(t, os.Mkdir(outdir, 0o755))

	out, err := execute(NewPlotCommand(&RootOptions{Format: "text"}),
		path, "--field", "Ex", "--key", "Particles/Px/electron", "--derived", "--outdir", outdir, "--project", "laser")
	require.NoError(t, err)

	files := strings.Fields(out)
	require.Len(t, files, 3)
	for _, f := range files {
		assert.FileExists(t, f)
		assert.True(t, strings.HasPrefix(filepath.Base(f), "laser_0120.zdump_"), f)
	}
}

func TestPlot_BadComponent(t *testing.T) {
	path := writeDump(t, t.TempDir(), "0120.zdump", 120, 2.5e-14)

	_, err := execute(NewPlotCommand(&RootOptions{Format: "text"}), path, "--field", "Qx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeFormat)
}

func TestPlot_Nothing(t *testing.T) {
	path := writeDump(t, t.TempDir(), "0120.zdump", 120, 2.5e-14)

	_, err := execute(NewPlotCommand(&RootOptions{Format: "text"}), path)
	require.Error(t, err)
}

func TestParseComponent(t *testing.T) {
	magnetic, ax, err := parseComponent("bz")
	require.NoError(t, err)
	assert.True(t, magnetic)
	assert.Equal(t, "z", ax.String())

	magnetic, ax, err = parseComponent("Ey")
	require.NoError(t, err)
	assert.False(t, magnetic)
	assert.Equal(t, "y", ax.String())

	for _, bad := range []string{"", "E", "Ew", "Exx"} {
		_, _, err := parseComponent(bad)
		assert.Error(t, err, bad)
	}
}

func TestPlot_Options(t *testing.T) {
	dir := t.TempDir()
	path := writeDump(t, dir, "0120.zdump", 120, 2.5e-14)

	out, err := execute(NewPlotCommand(&RootOptions{Format: "text"}),
		path, "--field", "Ex", "--outdir", dir, "--lineout-x", "--lineout-y",
		"--xlim", "0,2", "--clim=-1,1", "--contour", "0,2", "--csv")
	require.NoError(t, err)

	files := strings.Fields(out)
	require.Len(t, files, 2)
	assert.True(t, strings.HasSuffix(files[0], ".png"), files[0])
	assert.True(t, strings.HasSuffix(files[1], ".csv"), files[1])
	data, err := os.ReadFile(files[1])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "x [m],y [m],Ex [V/m]\n"), string(data))
}

func TestPlot_BadLimits(t *testing.T) {
	path := writeDump(t, t.TempDir(), "0120.zdump", 120, 2.5e-14)

	for _, bad := range [][]string{{"--xlim", "1"}, {"--ylim", "2,1"}, {"--clim", "1,2,3"}} {
		args := append([]string{path, "--field", "Ex"}, bad...)
		out, err := execute(NewPlotCommand(&RootOptions{Format: "text"}), args...)
		require.Error(t, err, bad)
		assert.Contains(t, out, ErrCodeFormat)
	}
}

func TestPlot_Verbose(t *testing.T) {
	dir := t.TempDir()
	path := writeDump(t, dir, "0120.zdump", 120, 2.5e-14)

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"plot", path, "--field", "Ex", "--outdir", dir})
	require.NoError(t, cmd.Execute())
	assert.NotContains(t, stderr.String(), "file saved")

	cmd = NewRootCommand()
	stdout.Reset()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"-v", "plot", path, "--field", "Ex", "--outdir", dir})
	require.NoError(t, cmd.Execute())
	file := strings.TrimSpace(stdout.String())
	assert.Contains(t, stderr.String(), "file saved")
	assert.Contains(t, stderr.String(), file)
}
