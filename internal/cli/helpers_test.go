package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	pic "github.com/rmera/gopic"
	"github.com/rmera/gopic/zdump"
)

// writeDump writes a small 2D zdump at dir/name and returns its path.
func writeDump(t *testing.T, dir, name string, step int64, time float64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	w, err := zdump.NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteInt(pic.StepKey, step))
	require.NoError(t, w.WriteScalar(pic.TimeKey, time))
	require.NoError(t, w.WriteString(pic.CodeNameKey, "Epoch2d"))
	require.NoError(t, w.WriteArray("Electric Field/Ex", []int{3, 2}, []float64{-1, 2, -3, 4, 5, -6}))
	require.NoError(t, w.WriteArray("Grid/Grid/X", nil, []float64{0, 1, 2, 3}))
	require.NoError(t, w.WriteArray("Grid/Grid/Y", nil, []float64{0, 1, 2}))
	require.NoError(t, w.WriteArray("Particles/Px/electron", nil, []float64{1, 2, 3}))
	require.NoError(t, w.WriteArray("Derived/Number_Density", []int{3, 2}, []float64{1, 10, 100, 2, 1, 1}))
	require.NoError(t, w.Close())
	return path
}

// writeManifest writes a manifest listing n dumps, all in dir, and the dumps themselves.
func writeManifest(t *testing.T, dir string, n int) string {
	t.Helper()
	var lines []string
	for i := 0; i < n; i++ {
		name := filepath.Join("dumps", string(rune('a'+i))+".zdump")
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "dumps"), 0o755))
		writeDump(t, dir, name, int64(100*i), float64(i)*1e-15)
		lines = append(lines, name)
	}
	manifest := filepath.Join(dir, "run.visit")
	require.NoError(t, os.WriteFile(manifest, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return manifest
}

// execute runs cmd with args and returns its standard output.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func removeFile(path string) error { return os.Remove(path) }
