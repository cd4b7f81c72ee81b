package pic

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestNewFieldInvariants(Te *testing.T) {
	a := &Array{Shape: []int{2, 3}, Data: []float64{1, 2, 3, 4, 5, 6}}
	x := FieldAxis{Name: "x", Grid: []float64{0, 1}}
	y := FieldAxis{Name: "y", Grid: []float64{0, 1, 2}}
	f, err := NewField("f", a, x, y)
	if err != nil {
		Te.Fatal(err)
	}
	if f.Dims() != 2 || f.At(1, 2) != 6 || f.At(0, 1) != 2 {
		Te.Errorf("unexpected field %v", f)
	}
	if _, err := NewField("f", a, x); !errors.Is(err, ErrFormat) {
		Te.Errorf("missing axis: expected ErrFormat, got %v", err)
	}
	if _, err := NewField("f", a, y, x); !errors.Is(err, ErrFormat) {
		Te.Errorf("swapped axes: expected ErrFormat, got %v", err)
	}
	bad := &Array{Shape: []int{2, 2}, Data: []float64{1, 2, 3}}
	if _, err := NewField("f", bad, x, x); !errors.Is(err, ErrFormat) {
		Te.Errorf("short data: expected ErrFormat, got %v", err)
	}
}

func TestFieldFromReader(Te *testing.T) {
	r := testReader()
	defer r.Close()
	fa := NewFieldAnalyzer(r)
	ex, err := fa.EField(X)
	if err != nil {
		Te.Fatal(err)
	}
	//node grids of 3 and 4 points become 2 and 3 cell centres.
	if !reflect.DeepEqual(ex.Axes[0].Grid, []float64{0.5, 1.5}) || !reflect.DeepEqual(ex.Axes[1].Grid, []float64{0.5, 1.5, 2.5}) {
		Te.Errorf("unexpected grids %v %v", ex.Axes[0].Grid, ex.Axes[1].Grid)
	}
	if ex.Label != "Ex [V/m]" {
		Te.Errorf("unexpected label %s", ex.Label)
	}
	if !reflect.DeepEqual(ex.Extent(), []float64{0.5, 1.5, 0.5, 2.5}) {
		Te.Errorf("unexpected extent %v", ex.Extent())
	}
	if !ex.IsLinear() {
		Te.Errorf("the grid should be linear")
	}
	eya, err := fa.EField(Y, true)
	if err != nil || eya.Name != "Ey_average" {
		Te.Errorf("averaged field: %v %v", eya, err)
	}
	if _, err := fa.BField(X); !errors.Is(err, ErrKeyNotFound) {
		Te.Errorf("expected ErrKeyNotFound, got %v", err)
	}
	fields, err := fa.Derived()
	if err != nil {
		Te.Fatal(err)
	}
	if len(fields) != 2 || fields[1].Name != "electron" || fields[1].InfoString() != "Derived/Number_Density/electron" {
		Te.Errorf("unexpected derived fields %v", fields)
	}
	S := testStore()
	S.Set("Grid/Grid/X", []float64{0, 1, 2, 3, 4})
	fa2 := NewFieldAnalyzer(NewReader("bad", S))
	if _, err := fa2.EField(X); !errors.Is(err, ErrFormat) {
		Te.Errorf("mismatched grid: expected ErrFormat, got %v", err)
	}
}

func TestFieldMean(Te *testing.T) {
	a := &Array{Shape: []int{2, 3}, Data: []float64{1, 2, 3, 4, 5, 6}}
	f, _ := NewField("f", a, FieldAxis{Name: "x", Grid: []float64{0, 1}}, FieldAxis{Name: "y", Grid: []float64{0, 1, 2}})
	m0, err := f.Mean(0)
	if err != nil {
		Te.Fatal(err)
	}
	if !reflect.DeepEqual(m0.Data, []float64{2.5, 3.5, 4.5}) || m0.Axes[0].Name != "y" {
		Te.Errorf("mean over x: %v", m0.Data)
	}
	m1, _ := f.Mean(1)
	if !reflect.DeepEqual(m1.Data, []float64{2, 5}) || m1.Dims() != 1 {
		Te.Errorf("mean over y: %v", m1.Data)
	}
	if _, err := f.Mean(2); !errors.Is(err, ErrIndexOutOfRange) {
		Te.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if f.Data[0] != 1 {
		Te.Errorf("Mean modified the original field")
	}
}

func TestFieldAutoreduce(Te *testing.T) {
	n := 9
	grid := floats.Span(make([]float64, n), 0, 8)
	data := make([]float64, n)
	copy(data, grid)
	f, _ := NewField("f", &Array{Shape: []int{n}, Data: data}, FieldAxis{Name: "x", Grid: grid})
	r := f.Autoreduce(3)
	if r.Shape[0] != 2 || len(r.Axes[0].Grid) != 2 {
		Te.Fatalf("unexpected reduced shape %v", r.Shape)
	}
	//9 -> 4 (0.5, 2.5, 4.5, 6.5) -> 2 (1.5, 5.5)
	if !reflect.DeepEqual(r.Data, []float64{1.5, 5.5}) || !reflect.DeepEqual(r.Axes[0].Grid, []float64{1.5, 5.5}) {
		Te.Errorf("unexpected reduced data %v %v", r.Data, r.Axes[0].Grid)
	}
	if same := f.Autoreduce(100); same != f {
		Te.Errorf("a small field should not be reduced")
	}
	if f.Shape[0] != n {
		Te.Errorf("Autoreduce modified the original field")
	}
}

func TestFieldMisc(Te *testing.T) {
	a := &Array{Shape: []int{1, 3}, Data: []float64{1, 10, 100}}
	f, _ := NewField("f", a, FieldAxis{Name: "x", Grid: []float64{0}}, FieldAxis{Name: "y", Grid: []float64{0, 1, 3}})
	if f.IsLinear() {
		Te.Errorf("grid 0, 1, 3 is not linear")
	}
	s := f.Squeeze()
	if s.Dims() != 1 || s.Axes[0].Name != "y" {
		Te.Errorf("Squeeze: %v", s)
	}
	l := s.Log10()
	if !floats.EqualApprox(l.Data, []float64{0, 1, 2}, 1e-12) || l.Label != "log10(f)" {
		Te.Errorf("Log10: %v %s", l.Data, l.Label)
	}
	if !f.Positive() {
		Te.Errorf("field should be positive")
	}
	if _, err := s.Dense(); !errors.Is(err, ErrUnsupportedDimensionality) {
		Te.Errorf("Dense of a 1D field: expected ErrUnsupportedDimensionality, got %v", err)
	}
	d, err := f.Dense()
	if err != nil {
		Te.Fatal(err)
	}
	if r, c := d.Dims(); r != 1 || c != 3 || d.At(0, 2) != 100 {
		Te.Errorf("Dense: %v", d)
	}
	neg, _ := NewField("n", &Array{Shape: []int{2}, Data: []float64{-1, 1}}, FieldAxis{Grid: []float64{0, 1}})
	if neg.Positive() || math.IsNaN(neg.Min()) {
		Te.Errorf("field with negative values is not positive")
	}
}

func TestFieldWriteCSV(Te *testing.T) {
	a := &Array{Shape: []int{2, 3}, Data: []float64{1, 2, 3, 4, 5, 0.25}}
	x := FieldAxis{Name: "x", Label: "x [m]", Grid: []float64{0, 1}}
	y := FieldAxis{Name: "y", Grid: []float64{-1, 0, 1}}
	f, err := NewField("rho", a, x, y)
	if err != nil {
		Te.Fatal(err)
	}
	var b bytes.Buffer
	if err := f.WriteCSV(&b); err != nil {
		Te.Fatal(err)
	}
	want := "x [m],y,rho\n0,-1,1\n0,0,2\n0,1,3\n1,-1,4\n1,0,5\n1,1,0.25\n"
	if b.String() != want {
		Te.Errorf("got\n%s\nwant\n%s", b.String(), want)
	}
	b.Reset()
	s, _ := NewField("s", &Array{Shape: []int{}, Data: []float64{3}})
	if err := s.WriteCSV(&b); err != nil || b.String() != "s\n3\n" {
		Te.Errorf("scalar field: %q %v", b.String(), err)
	}
}
