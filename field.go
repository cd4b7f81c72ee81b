package pic

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const linearTol = 1e-6

// FieldAxis is one axis of a Field: a name, a label for plots and the
// coordinates of the grid points.
type FieldAxis struct {
	Name  string
	Label string
	Grid  []float64
}

// Len returns the number of grid points of the axis.
func (A FieldAxis) Len() int { return len(A.Grid) }

// Field is a scalar quantity sampled on a grid. Data is row-major with
// Shape[i] == len(Axes[i].Grid) for every axis.
type Field struct {
	Name  string
	Label string
	Unit  string
	Axes  []FieldAxis
	Shape []int
	Data  []float64
	Infos []string
}

// NewField returns a field named name with the values in a, laid on the given axes.
// There must be one axis per dimension of a, each with as many grid points as a
// has elements along that dimension.
func NewField(name string, a *Array, axes ...FieldAxis) (*Field, error) {
	if a == nil {
		return nil, NewError(ErrFormat, "", "NewField", "nil data for field %s", name)
	}
	if prod(a.Shape) != len(a.Data) {
		return nil, NewError(ErrFormat, "", "NewField", "field %s: shape %v doesn't match %d values", name, a.Shape, len(a.Data))
	}
	if len(axes) != len(a.Shape) {
		return nil, NewError(ErrFormat, "", "NewField", "field %s has %d dimensions but %d axes were given", name, len(a.Shape), len(axes))
	}
	for i, v := range axes {
		if v.Len() != a.Shape[i] {
			return nil, NewError(ErrFormat, "", "NewField", "field %s: axis %d has %d grid points, data has %d", name, i, v.Len(), a.Shape[i])
		}
	}
	return &Field{
		Name:  name,
		Label: name,
		Axes:  axes,
		Shape: append([]int(nil), a.Shape...),
		Data:  a.Data,
	}, nil
}

// Dims returns the number of dimensions of the field.
func (F *Field) Dims() int { return len(F.Shape) }

func (F *Field) String() string {
	return fmt.Sprintf("<Field %s %v>", F.Name, F.Shape)
}

// InfoString joins the free-text infos of the field.
func (F *Field) InfoString() string {
	return strings.Join(F.Infos, ", ")
}

// Extent returns the minimum and maximum coordinate of every axis, in
// the order [min0, max0, min1, max1...].
func (F *Field) Extent() []float64 {
	ret := make([]float64, 0, 2*len(F.Axes))
	for _, v := range F.Axes {
		if v.Len() == 0 {
			ret = append(ret, 0, 0)
			continue
		}
		ret = append(ret, floats.Min(v.Grid), floats.Max(v.Grid))
	}
	return ret
}

// IsLinear returns true if every axis has evenly spaced grid points.
func (F *Field) IsLinear() bool {
	for _, v := range F.Axes {
		if v.Len() < 3 {
			continue
		}
		d0 := v.Grid[1] - v.Grid[0]
		tol := math.Abs(d0) * linearTol
		for i := 2; i < v.Len(); i++ {
			if !scalar.EqualWithinAbs(v.Grid[i]-v.Grid[i-1], d0, tol) {
				return false
			}
		}
	}
	return true
}

func (F *Field) index(idx []int) int {
	if len(idx) != len(F.Shape) {
		panic(fmt.Sprintf("pic.Field: %d indexes for a %d-dimensional field", len(idx), len(F.Shape)))
	}
	n := 0
	for i, v := range idx {
		if v < 0 || v >= F.Shape[i] {
			panic(fmt.Sprintf("pic.Field: index %d out of range for axis %d of length %d", v, i, F.Shape[i]))
		}
		n = n*F.Shape[i] + v
	}
	return n
}

// At returns the value at the given indexes. It panics if they are out of range.
func (F *Field) At(idx ...int) float64 {
	return F.Data[F.index(idx)]
}

// Min returns the smallest value of the field.
func (F *Field) Min() float64 { return floats.Min(F.Data) }

// Max returns the largest value of the field.
func (F *Field) Max() float64 { return floats.Max(F.Data) }

// Positive returns true if no value is negative and at least one is larger than zero,
// i.e. if the field can be shown in a logarithmic scale.
func (F *Field) Positive() bool {
	if len(F.Data) == 0 {
		return false
	}
	return F.Min() >= 0 && F.Max() > 0
}

// Dense returns a 2-dimensional field as a gonum matrix, with one row per
// point of the first axis. The data is copied.
func (F *Field) Dense() (*mat.Dense, error) {
	if F.Dims() != 2 {
		return nil, NewError(ErrUnsupportedDimensionality, "", "Dense", "field %s has %d dimensions, 2 needed", F.Name, F.Dims())
	}
	d := make([]float64, len(F.Data))
	copy(d, F.Data)
	return mat.NewDense(F.Shape[0], F.Shape[1], d), nil
}

// copyMeta returns a field with the metadata of F and the given data, shape and axes.
func (F *Field) copyMeta(data []float64, shape []int, axes []FieldAxis) *Field {
	return &Field{
		Name:  F.Name,
		Label: F.Label,
		Unit:  F.Unit,
		Axes:  axes,
		Shape: shape,
		Data:  data,
		Infos: append([]string(nil), F.Infos...),
	}
}

// strides returns the number of points before, along and after axis.
func strides(shape []int, axis int) (outer, n, inner int) {
	return prod(shape[:axis]), shape[axis], prod(shape[axis+1:])
}

// Mean returns a field with the mean of F along axis, which has one dimension less.
// It is used to produce lineouts of 2D fields.
func (F *Field) Mean(axis int) (*Field, error) {
	if axis < 0 || axis >= F.Dims() {
		return nil, NewError(ErrIndexOutOfRange, "", "Mean", "field %s has no axis %d", F.Name, axis)
	}
	outer, n, inner := strides(F.Shape, axis)
	data := make([]float64, outer*inner)
	line := make([]float64, n)
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			for j := 0; j < n; j++ {
				line[j] = F.Data[(o*n+j)*inner+i]
			}
			data[o*inner+i] = stat.Mean(line, nil)
		}
	}
	shape := append(append([]int(nil), F.Shape[:axis]...), F.Shape[axis+1:]...)
	axes := append(append([]FieldAxis(nil), F.Axes[:axis]...), F.Axes[axis+1:]...)
	ret := F.copyMeta(data, shape, axes)
	ret.Infos = append(ret.Infos, "mean over "+F.Axes[axis].Name)
	return ret, nil
}

// Log10 returns a field with the decimal logarithm of the values of F.
func (F *Field) Log10() *Field {
	data := make([]float64, len(F.Data))
	for i, v := range F.Data {
		data[i] = math.Log10(v)
	}
	ret := F.copyMeta(data, append([]int(nil), F.Shape...), F.Axes)
	ret.Label = "log10(" + F.Label + ")"
	return ret
}

// halve averages neighbouring pairs of points along axis. A trailing odd point is dropped.
func (F *Field) halve(axis int) *Field {
	outer, n, inner := strides(F.Shape, axis)
	m := n / 2
	data := make([]float64, outer*m*inner)
	for o := 0; o < outer; o++ {
		for j := 0; j < m; j++ {
			for i := 0; i < inner; i++ {
				a := F.Data[(o*n+2*j)*inner+i]
				b := F.Data[(o*n+2*j+1)*inner+i]
				data[(o*m+j)*inner+i] = (a + b) / 2
			}
		}
	}
	grid := make([]float64, m)
	g := F.Axes[axis].Grid
	for j := range grid {
		grid[j] = (g[2*j] + g[2*j+1]) / 2
	}
	axes := append([]FieldAxis(nil), F.Axes...)
	axes[axis].Grid = grid
	shape := append([]int(nil), F.Shape...)
	shape[axis] = m
	return F.copyMeta(data, shape, axes)
}

// Autoreduce halves the resolution of the field along every axis with more
// than maxlen points, until none is left. A maxlen smaller than 2 leaves
// the field unchanged.
func (F *Field) Autoreduce(maxlen int) *Field {
	ret := F
	if maxlen < 2 {
		return ret
	}
	for i := range F.Shape {
		for ret.Shape[i] > maxlen {
			ret = ret.halve(i)
		}
	}
	return ret
}

// Squeeze returns a field without the axes that have a single grid point.
func (F *Field) Squeeze() *Field {
	shape := make([]int, 0, len(F.Shape))
	axes := make([]FieldAxis, 0, len(F.Axes))
	for i, v := range F.Shape {
		if v == 1 {
			continue
		}
		shape = append(shape, v)
		axes = append(axes, F.Axes[i])
	}
	return F.copyMeta(F.Data, shape, axes)
}

// WriteCSV writes F to w as comma-separated values, one row per point, with
// the coordinates of the point followed by its value. The first row holds
// the axis and field labels.
func (F *Field) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	row := make([]string, 0, F.Dims()+1)
	for _, a := range F.Axes {
		if a.Label != "" {
			row = append(row, a.Label)
		} else {
			row = append(row, a.Name)
		}
	}
	row = append(row, F.Label)
	if err := cw.Write(row); err != nil {
		return err
	}
	idx := make([]int, F.Dims())
	for n, v := range F.Data {
		row = row[:0]
		for i, j := range idx {
			row = append(row, strconv.FormatFloat(F.Axes[i].Grid[j], 'g', -1, 64))
		}
		row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		if err := cw.Write(row); err != nil {
			return err
		}
		if n == len(F.Data)-1 {
			break
		}
		//next row-major index
		for i := len(idx) - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < F.Shape[i] {
				break
			}
			idx[i] = 0
		}
	}
	cw.Flush()
	return cw.Error()
}
