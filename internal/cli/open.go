package cli

import (
	"path/filepath"
	"strings"

	pic "github.com/rmera/gopic"
	"github.com/rmera/gopic/h5"
	"github.com/rmera/gopic/zdump"
)

// OpenDump opens the dump at path, choosing the format by its extension:
// ".h5" and ".hdf5" files are read as HDF5, everything else as zdump.
func OpenDump(path string) (*pic.Reader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".h5", ".hdf5":
		return h5.New(path)
	}
	return zdump.New(path)
}
