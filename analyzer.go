package pic

import "strings"

// FieldAnalyzer builds Fields out of the data of a dump.
type FieldAnalyzer struct {
	r DumpReader
}

// NewFieldAnalyzer returns a FieldAnalyzer reading from r. It doesn't take
// ownership of r.
func NewFieldAnalyzer(r DumpReader) *FieldAnalyzer {
	return &FieldAnalyzer{r: r}
}

// Reader returns the dump the analyzer reads from.
func (F *FieldAnalyzer) Reader() DumpReader { return F.r }

// axes returns the axes for an array with the given shape, taking the grids
// from the dump. A grid with one point more than the data holds the cell
// boundaries, and is turned into cell centres.
func (F *FieldAnalyzer) axes(shape []int) ([]FieldAxis, error) {
	if len(shape) > 3 {
		return nil, NewError(ErrUnsupportedDimensionality, F.r.Name(), "axes", "%d dimensions", len(shape))
	}
	ret := make([]FieldAxis, len(shape))
	for i, n := range shape {
		ax := Axis(i)
		g, err := F.r.Grid(ax)
		if err != nil {
			return nil, errDecorate(err, "axes")
		}
		switch len(g) {
		case n:
		case n + 1:
			c := make([]float64, n)
			for j := range c {
				c[j] = (g[j] + g[j+1]) / 2
			}
			g = c
		default:
			return nil, NewError(ErrFormat, F.r.Name(), "axes", "grid %s has %d points, data has %d", ax, len(g), n)
		}
		ret[i] = FieldAxis{Name: ax.String(), Label: ax.String() + " [m]", Grid: g}
	}
	return ret, nil
}

func (F *FieldAnalyzer) field(name, unit string, a *Array) (*Field, error) {
	axes, err := F.axes(a.Shape)
	if err != nil {
		return nil, err
	}
	f, err := NewField(name, a, axes...)
	if err != nil {
		return nil, errDecorate(err, "field")
	}
	f.Unit = unit
	if unit != "" {
		f.Label = name + " [" + unit + "]"
	}
	return f, nil
}

// EField returns the component ax of the electric field (time-averaged if average is true).
func (F *FieldAnalyzer) EField(ax Axis, average ...bool) (*Field, error) {
	a, err := F.r.DataE(ax, average...)
	if err != nil {
		return nil, errDecorate(err, "EField")
	}
	name := "E" + ax.String()
	if len(average) > 0 && average[0] {
		name += "_average"
	}
	return F.field(name, "V/m", a)
}

// BField returns the component ax of the magnetic field (time-averaged if average is true).
func (F *FieldAnalyzer) BField(ax Axis, average ...bool) (*Field, error) {
	a, err := F.r.DataB(ax, average...)
	if err != nil {
		return nil, errDecorate(err, "BField")
	}
	name := "B" + ax.String()
	if len(average) > 0 && average[0] {
		name += "_average"
	}
	return F.field(name, "T", a)
}

// FieldFromKey returns a field with the array stored under key. The field is named
// after the last element of the key.
func (F *FieldAnalyzer) FieldFromKey(key string) (*Field, error) {
	v, err := F.r.Get(key)
	if err != nil {
		return nil, errDecorate(err, "FieldFromKey")
	}
	a, err := AsArray(v)
	if err != nil {
		return nil, NewError(ErrFormat, F.r.Name(), "FieldFromKey", "%s: %v", key, err)
	}
	name := key
	if i := strings.LastIndex(key, "/"); i >= 0 {
		name = key[i+1:]
	}
	f, err := F.field(name, "", a)
	if err != nil {
		return nil, err
	}
	f.Infos = append(f.Infos, key)
	return f, nil
}

// CreateFieldsFromKeys returns one field per key, in the given order.
func (F *FieldAnalyzer) CreateFieldsFromKeys(keys ...string) ([]*Field, error) {
	ret := make([]*Field, 0, len(keys))
	for _, k := range keys {
		f, err := F.FieldFromKey(k)
		if err != nil {
			return nil, errDecorate(err, "CreateFieldsFromKeys")
		}
		ret = append(ret, f)
	}
	return ret, nil
}

// Derived returns a field for each derived quantity in the dump.
func (F *FieldAnalyzer) Derived() ([]*Field, error) {
	return F.CreateFieldsFromKeys(F.r.GetDerived()...)
}
