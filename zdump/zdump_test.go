package zdump

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/klauspost/compress/zstd"
	pic "github.com/rmera/gopic"
)

// writeTestDump writes a small two-dimensional dump with every kind of value.
func writeTestDump(Te *testing.T, name string) {
	Te.Helper()
	W, err := NewWriter(name)
	if err != nil {
		Te.Fatal(err)
	}
	steps := []error{
		W.WriteInt(pic.StepKey, 42),
		W.WriteScalar(pic.TimeKey, 1.5e-14),
		W.WriteString(pic.CodeNameKey, "Epoch2d"),
		W.WriteArray("Electric Field/Ex", []int{2, 3}, []float64{1, 2, 3, 4, 5, 6}),
		W.WriteArray(pic.GridKey(pic.X), nil, []float64{0, 1, 2}),
		W.WriteArray(pic.GridKey(pic.Y), nil, []float64{0, 1, 2, 3}),
		W.WriteArray("Particles/Px/electron", nil, []float64{0.5, math.NaN(), math.Inf(-1)}),
		W.WriteArray("Particles/Px/ghost", []int{0}, nil),
		W.Write("Derived/Charge_Density", [][]float32{{1, 2, 3}, {4, 5, 6}}),
	}
	for i, err := range steps {
		if err != nil {
			Te.Fatalf("write %d: %v", i, err)
		}
	}
	if W.Len() != len(steps) {
		Te.Errorf("writer counted %d keys, want %d", W.Len(), len(steps))
	}
	if err := W.Close(); err != nil {
		Te.Fatal(err)
	}
	if err := W.Close(); err != nil {
		Te.Errorf("second Close: %v", err)
	}
}

func TestZdumpWriteRead(Te *testing.T) {
	for _, ext := range []string{".zdump", ".zdump.gz"} {
		name := filepath.Join(Te.TempDir(), "dump0001"+ext)
		writeTestDump(Te, name)
		r, err := New(name)
		if err != nil {
			Te.Fatal(err)
		}
		fmt.Println(r, r.Keys())
		if len(r.Keys()) != 9 {
			Te.Errorf("%s: got %d keys", ext, len(r.Keys()))
		}
		if s, err := r.Timestep(); err != nil || s != 42 {
			Te.Errorf("%s: step %d %v", ext, s, err)
		}
		if t, err := r.Time(); err != nil || t != 1.5e-14 {
			Te.Errorf("%s: time %g %v", ext, t, err)
		}
		if d, err := r.SimDimensions(); err != nil || d != 2 {
			Te.Errorf("%s: dimensions %d %v", ext, d, err)
		}
		ex, err := r.DataE(pic.X)
		if err != nil {
			Te.Fatal(err)
		}
		if !reflect.DeepEqual(ex.Shape, []int{2, 3}) || ex.Data[5] != 6 {
			Te.Errorf("%s: Ex %v %v", ext, ex.Shape, ex.Data)
		}
		px, err := r.GetSpecies("electron", pic.AttribPx)
		if err != nil {
			Te.Fatal(err)
		}
		if px.Data[0] != 0.5 || !math.IsNaN(px.Data[1]) || !math.IsInf(px.Data[2], -1) {
			Te.Errorf("%s: non-finite values lost: %v", ext, px.Data)
		}
		ghost, err := r.GetSpecies("ghost", pic.AttribPx)
		if err != nil || !ghost.Recorded || ghost.Len() != 0 {
			Te.Errorf("%s: empty array: %v %v", ext, ghost, err)
		}
		d, err := r.Get("Derived/Charge_Density")
		if err != nil {
			Te.Fatal(err)
		}
		if a := d.(*pic.Array); !reflect.DeepEqual(a.Shape, []int{2, 3}) {
			Te.Errorf("%s: derived shape %v", ext, a.Shape)
		}
		if !reflect.DeepEqual(r.ListSpecies(), []string{"electron", "ghost"}) {
			Te.Errorf("%s: species %v", ext, r.ListSpecies())
		}
		r.Close()
	}
}

func TestZdumpWriterErrors(Te *testing.T) {
	W, err := NewWriter(filepath.Join(Te.TempDir(), "bad.zdump"))
	if err != nil {
		Te.Fatal(err)
	}
	defer W.Close()
	if err := W.WriteInt("a", 1); err != nil {
		Te.Fatal(err)
	}
	if err := W.WriteInt("a", 2); !errors.Is(err, pic.ErrFormat) {
		Te.Errorf("repeated key: expected ErrFormat, got %v", err)
	}
	if err := W.WriteArray("b", []int{2, 2}, []float64{1}); !errors.Is(err, pic.ErrFormat) {
		Te.Errorf("bad shape: expected ErrFormat, got %v", err)
	}
	if err := W.WriteString("", "x"); !errors.Is(err, pic.ErrFormat) {
		Te.Errorf("empty key: expected ErrFormat, got %v", err)
	}
	if err := W.Write("c", []string{"x", "y"}); !errors.Is(err, pic.ErrFormat) {
		Te.Errorf("string slice: expected ErrFormat, got %v", err)
	}
	W.Close()
	if err := W.WriteInt("d", 1); !errors.Is(err, pic.ErrFormat) {
		Te.Errorf("closed writer: expected ErrFormat, got %v", err)
	}
}

// writeRaw compresses content into a new zdump file and returns its name.
func writeRaw(Te *testing.T, content string) string {
	Te.Helper()
	name := filepath.Join(Te.TempDir(), "raw.zdump")
	f, err := os.Create(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer f.Close()
	z, err := zstd.NewWriter(f)
	if err != nil {
		Te.Fatal(err)
	}
	if _, err := z.Write([]byte(content)); err != nil {
		Te.Fatal(err)
	}
	if err := z.Close(); err != nil {
		Te.Fatal(err)
	}
	return name
}

func TestZdumpRead(Te *testing.T) {
	//hand-written files, as another program would produce them.
	good := "zdump 1\n" +
		`{"key":"Header/step","int":3}` + "\n\n" +
		`{"key":"Grid/Grid/X","shape":[2],"data":[0,"+Inf"]}` + "\n" +
		`{"key":"Header/code_name","str":"Epoch1d"}`
	s, err := Open(writeRaw(Te, good))
	if err != nil {
		Te.Fatal(err)
	}
	if s.Len() != 3 {
		Te.Errorf("got %d keys", s.Len())
	}
	v, _ := s.Get("Grid/Grid/X")
	if a := v.(*pic.Array); !math.IsInf(a.Data[1], 1) {
		Te.Errorf("unexpected grid %v", a.Data)
	}
	bad := map[string]string{
		"header":   "pdump 1\n",
		"version":  "zdump 7\n",
		"json":     "zdump 1\n{\"key\":\n",
		"twice":    "zdump 1\n{\"key\":\"a\",\"int\":1}\n{\"key\":\"a\",\"int\":1}\n",
		"novalue":  "zdump 1\n{\"key\":\"a\"}\n",
		"twovalue": "zdump 1\n{\"key\":\"a\",\"int\":1,\"str\":\"b\"}\n",
		"shape":    "zdump 1\n{\"key\":\"a\",\"shape\":[3],\"data\":[1]}\n",
		"nokey":    "zdump 1\n{\"int\":1}\n",
	}
	for k, content := range bad {
		if _, err := Open(writeRaw(Te, content)); !errors.Is(err, pic.ErrFormat) {
			Te.Errorf("%s: expected ErrFormat, got %v", k, err)
		}
	}
}

func TestZdumpMissing(Te *testing.T) {
	_, err := New(filepath.Join(Te.TempDir(), "nope.zdump"))
	if !errors.Is(err, pic.ErrFileNotFound) {
		Te.Errorf("expected ErrFileNotFound, got %v", err)
	}
	var fe pic.FileError
	if !errors.As(err, &fe) || fe.FileName() == "" {
		Te.Errorf("the error should carry the file name: %v", err)
	}
}

func TestZdumpCopyStore(Te *testing.T) {
	src := pic.NewMemStore("mem", map[string]interface{}{
		pic.StepKey:         int64(9),
		"Electric Field/Ey": &pic.Array{Shape: []int{2}, Data: []float64{1, 2}},
		"Header/time":       float64(3),
	})
	name := filepath.Join(Te.TempDir(), "copy.zdump")
	W, err := NewWriter(name, 3)
	if err != nil {
		Te.Fatal(err)
	}
	n, err := W.CopyStore(src)
	if err != nil || n != 3 {
		Te.Fatalf("copied %d keys: %v", n, err)
	}
	W.Close()
	dst, err := Open(name)
	if err != nil {
		Te.Fatal(err)
	}
	if !reflect.DeepEqual(dst.Keys(), src.Keys()) {
		Te.Errorf("keys %v, want %v", dst.Keys(), src.Keys())
	}
	if v, _ := dst.Get(pic.StepKey); v != int64(9) {
		Te.Errorf("step %v", v)
	}
}
