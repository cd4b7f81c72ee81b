package pic

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Sequence is an ordered series of dumps, listed in a manifest file (one
// path per line, relative to the manifest's directory). The order of the
// manifest is taken to be the time order, and it is not changed.
// A Sequence holds no open files, only paths.
type Sequence[R DumpReader] struct {
	manifest string
	open     func(string) (R, error)
	dumps    []string
}

// NewSequence reads the manifest file and returns the Sequence it describes.
// open is used to build the reader of each dump.
func NewSequence[R DumpReader](manifest string, open func(string) (R, error)) (*Sequence[R], error) {
	f, err := os.Open(manifest)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, NewError(ErrFileNotFound, manifest, "NewSequence", "manifest doesn't exist")
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	S := &Sequence[R]{manifest: manifest, open: open}
	dir := filepath.Dir(manifest)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !filepath.IsAbs(line) {
			line = filepath.Join(dir, line)
		}
		S.dumps = append(S.dumps, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, NewError(ErrFormat, manifest, "NewSequence", "can't read manifest: %v", err)
	}
	return S, nil
}

// Len returns the number of dumps in the sequence.
func (S *Sequence[R]) Len() int { return len(S.dumps) }

// Manifest returns the path of the manifest file.
func (S *Sequence[R]) Manifest() string { return S.manifest }

func (S *Sequence[R]) String() string {
	return fmt.Sprintf("<pic.Sequence at %q>", S.manifest)
}

// Paths returns a copy of the dump paths, in order.
func (S *Sequence[R]) Paths() []string {
	return append([]string(nil), S.dumps...)
}

// Path returns the path of the dump at index.
func (S *Sequence[R]) Path(index int) (string, error) {
	if index < 0 || index >= len(S.dumps) {
		return "", NewError(ErrIndexOutOfRange, S.manifest, "Path", "index %d, sequence has %d dumps", index, len(S.dumps))
	}
	return S.dumps[index], nil
}

// DumpReader opens and returns the reader for the dump at index. Every call
// opens the dump again, readers are not cached. The caller owns the returned
// reader and must close it.
func (S *Sequence[R]) DumpReader(index int) (R, error) {
	var zero R
	p, err := S.Path(index)
	if err != nil {
		return zero, errDecorate(err, "DumpReader")
	}
	r, err := S.open(p)
	if err != nil {
		return zero, errDecorate(err, "DumpReader")
	}
	return r, nil
}

// Visit opens every dump in order, calls fn with its index and reader and closes
// it again. It stops at the first error.
func (S *Sequence[R]) Visit(fn func(int, R) error) error {
	for i := range S.dumps {
		r, err := S.DumpReader(i)
		if err != nil {
			return err
		}
		err = fn(i, r)
		cerr := r.Close()
		if err != nil {
			return err
		}
		if cerr != nil {
			return cerr
		}
	}
	return nil
}
