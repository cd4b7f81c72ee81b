package picplot

import (
	"image/color"
	"math"

	pic "github.com/rmera/gopic"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const paletteColors = 255

// fieldGrid presents a 2D field to gonum's heat maps. Columns run along
// the first axis of the field, rows along the second.
type fieldGrid struct {
	f *pic.Field
}

func (g fieldGrid) Dims() (c, r int) { return g.f.Shape[0], g.f.Shape[1] }

func (g fieldGrid) Z(c, r int) float64 { return g.f.Data[c*g.f.Shape[1]+r] }

func (g fieldGrid) X(c int) float64 { return g.f.Axes[0].Grid[c] }

func (g fieldGrid) Y(r int) float64 { return g.f.Axes[1].Grid[r] }

func axisLabel(a pic.FieldAxis) string {
	if a.Label != "" {
		return a.Label
	}
	return a.Name
}

// strictlyPositive returns true if every value of every field is larger than 0.
func strictlyPositive(fields ...*pic.Field) bool {
	for _, f := range fields {
		for _, v := range f.Data {
			if !(v > 0) {
				return false
			}
		}
	}
	return true
}

// finiteRange returns the smallest and largest finite values in data.
func finiteRange(data []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, lo <= hi
}

// PlotFields1D plots one-dimensional fields as lines on the same axes.
// Fields with other dimensionalities are ignored. The y axis is
// logarithmic if every value is positive and the Plotter uses log10.
func (P *Plotter) PlotFields1D(fields ...*pic.Field) (*plot.Plot, error) {
	var used []*pic.Field
	for _, f := range fields {
		if f != nil && f.Dims() == 1 && len(f.Data) > 0 {
			used = append(used, f)
		}
	}
	if len(used) == 0 {
		return P.skipPlot("none")
	}
	p := plot.New()
	//infos are only shown if all the fields share them
	info := used[0].InfoString()
	for _, f := range used[1:] {
		if f.InfoString() != info {
			info = ""
			break
		}
	}
	last := used[len(used)-1]
	p.Title.Text = P.Annotation(last.Label, info)
	p.X.Label.Text = axisLabel(used[0].Axes[0])
	if len(used) == 1 {
		p.Y.Label.Text = last.Label
	}
	if P.log10 && strictlyPositive(used...) {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	p.Add(plotter.NewGrid())
	for i, f := range used {
		pts := make(plotter.XYs, len(f.Data))
		for j, v := range f.Data {
			pts[j].X = f.Axes[0].Grid[j]
			pts[j].Y = v
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, pic.NewError(pic.ErrFormat, P.dumpName(), "PlotFields1D", "field %s: %v", f.Name, err)
		}
		l.Color = plotutil.Color(i)
		p.Add(l)
		p.Legend.Add(f.Label, l)
	}
	return P.finalize(p, used[0].Name, used...)
}

// plotField2D plots f as a heat map. Positive fields are shown as their
// decimal logarithm if the Plotter uses log10, other fields with a
// palette symmetric around 0. Contours and lineouts are drawn over the map
// if the Plotter asks for them.
func (P *Plotter) plotField2D(f *pic.Field) (*plot.Plot, error) {
	raw := f
	p := plot.New()
	p.Title.Text = P.Annotation(f.Label, f.InfoString())
	p.X.Label.Text = axisLabel(f.Axes[0])
	p.Y.Label.Text = axisLabel(f.Axes[1])
	var pal palette.Palette
	logplot := P.log10 && f.Positive()
	if logplot {
		f = f.Log10()
		p.Title.Text = P.Annotation(f.Label, f.InfoString())
		pal = palette.Heat(paletteColors, 1)
	} else {
		cm := moreland.SmoothBlueRed()
		cm.SetMin(0)
		cm.SetMax(1)
		pal = cm.Palette(paletteColors)
	}
	lo, hi := P.colorRange(f.Data, logplot)
	h := plotter.NewHeatMap(fieldGrid{f}, pal)
	h.Min = lo
	h.Max = hi
	//values outside the range take the colours of its ends
	cols := pal.Colors()
	h.Underflow, h.Overflow = cols[0], cols[len(cols)-1]
	p.Add(h)
	if len(P.contours) > 0 {
		c := plotter.NewContour(fieldGrid{raw}, P.contours, palette.Heat(paletteColors, 1))
		p.Add(c)
	}
	if P.lineoutX {
		if err := P.addLineout(p, raw, 1, logplot); err != nil {
			return nil, err
		}
	}
	if P.lineoutY {
		if err := P.addLineout(p, raw, 0, logplot); err != nil {
			return nil, err
		}
	}
	return P.finalize(p, f.Name, raw)
}

// colorRange returns the range of values the palette of a 2D plot of data
// spans. Logarithmic plots span the data, other plots a range symmetric
// around 0. The Plotter's CLim replaces the range of the data.
func (P *Plotter) colorRange(data []float64, logplot bool) (lo, hi float64) {
	lo, hi, ok := finiteRange(data)
	if P.clim != nil {
		lo, hi, ok = P.clim.lo, P.clim.hi, true
	}
	if logplot {
		if !ok {
			lo, hi = 0, 1
		}
	} else {
		bound := 1.0
		if ok {
			bound = math.Max(math.Abs(lo), math.Abs(hi))
		}
		if bound == 0 {
			bound = 1
		}
		lo, hi = -bound, bound
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	return lo, hi
}

// addLineout draws the lineout of f over axis as a black line.
func (P *Plotter) addLineout(p *plot.Plot, f *pic.Field, axis int, logplot bool) error {
	pts, err := lineout(f, axis, logplot)
	if err != nil {
		return pic.NewError(pic.ErrFormat, P.dumpName(), "addLineout", "field %s: %v", f.Name, err)
	}
	if len(pts) == 0 {
		return nil
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return pic.NewError(pic.ErrFormat, P.dumpName(), "addLineout", "field %s: %v", f.Name, err)
	}
	l.Color = color.Black
	l.Width = vg.Points(1)
	p.Add(l)
	return nil
}

// lineout returns the mean of the 2D field f over axis, in decimal
// logarithm if logplot is true, against the other axis. The values are
// scaled to span the grid of the averaged axis, as they share the plot
// with the map. Non-finite means are left out.
func lineout(f *pic.Field, axis int, logplot bool) (plotter.XYs, error) {
	m, err := f.Mean(axis)
	if err != nil {
		return nil, err
	}
	if logplot {
		m = m.Log10()
	}
	tlo, thi, _ := finiteRange(f.Axes[axis].Grid)
	vlo, vhi, ok := finiteRange(m.Data)
	pts := make(plotter.XYs, 0, len(m.Data))
	for i, v := range m.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		s := (tlo + thi) / 2
		if ok && vhi > vlo {
			s = tlo + (v-vlo)/(vhi-vlo)*(thi-tlo)
		}
		g := m.Axes[0].Grid[i]
		if axis == 1 {
			pts = append(pts, plotter.XY{X: g, Y: s})
		} else {
			pts = append(pts, plotter.XY{X: s, Y: g})
		}
	}
	return pts, nil
}
