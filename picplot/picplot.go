/*
 * picplot.go, part of gopic.
 *
 * Copyright 2024 The gopic authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package picplot renders fields from simulation dumps as PNG images,
//annotated with the time and step of the dump they come from.
package picplot

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	pic "github.com/rmera/gopic"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// DefaultMaxLen is the largest number of points per axis a field is plotted with,
// unless the Plotter is told otherwise.
const DefaultMaxLen = 6000

// Plotter builds and, optionally, saves plots of the fields of one dump.
type Plotter struct {
	reader   pic.DumpReader
	outdir   string
	project  string
	autosave bool
	log10    bool
	maxlen   int
	width    vg.Length
	height   vg.Length
	used     []string
	usedset  map[string]bool
	saved    []string

	lineoutX bool
	lineoutY bool
	xlim     *span
	ylim     *span
	clim     *span
	contours []float64
	savecsv  bool
}

// span is a closed range of values.
type span struct {
	lo, hi float64
}

// Option configures a Plotter.
type Option func(*Plotter)

// OutDir sets the directory where plots are saved.
func OutDir(dir string) Option { return func(P *Plotter) { P.outdir = dir } }

// Project sets the project name, which is used in save names and annotations.
func Project(name string) Option { return func(P *Plotter) { P.project = name } }

// AutoSave makes every plot be saved as soon as it is built.
func AutoSave(b bool) Option { return func(P *Plotter) { P.autosave = b } }

// Log10 sets whether positive data is plotted in a logarithmic scale. It is on by default.
func Log10(b bool) Option { return func(P *Plotter) { P.log10 = b } }

// MaxLen sets the largest number of points per axis. Larger fields are
// reduced before plotting. 0 disables the reduction.
func MaxLen(n int) Option { return func(P *Plotter) { P.maxlen = n } }

// Size sets the size of the saved images.
func Size(width, height vg.Length) Option {
	return func(P *Plotter) {
		P.width = width
		P.height = height
	}
}

// Lineouts adds to 2D plots the mean of the field over y, as a function
// of x, and the mean over x, as a function of y. Lineouts are drawn in
// black and scaled to span the plot.
func Lineouts(x, y bool) Option {
	return func(P *Plotter) {
		P.lineoutX = x
		P.lineoutY = y
	}
}

// XLim fixes the range of the x axis.
func XLim(lo, hi float64) Option { return func(P *Plotter) { P.xlim = &span{lo, hi} } }

// YLim fixes the range of the y axis.
func YLim(lo, hi float64) Option { return func(P *Plotter) { P.ylim = &span{lo, hi} } }

// CLim fixes the range of the colour scale of 2D plots. For logarithmic
// plots the limits are decimal logarithms. Other 2D plots keep their
// palette symmetric around 0, so the largest absolute limit is used.
func CLim(lo, hi float64) Option { return func(P *Plotter) { P.clim = &span{lo, hi} } }

// Contours draws contour lines at the given levels over 2D plots. Levels
// are values of the field, never logarithms. Repeated levels are drawn once.
func Contours(levels ...float64) Option {
	return func(P *Plotter) {
		l := append([]float64(nil), levels...)
		slices.Sort(l)
		P.contours = slices.Compact(l)
	}
}

// SaveCSV makes the Plotter write the data of every plotted field to a
// CSV file named after the plot.
func SaveCSV(b bool) Option { return func(P *Plotter) { P.savecsv = b } }

// New returns a Plotter for the fields of reader, which can be nil if the
// fields don't come from a dump.
func New(reader pic.DumpReader, opts ...Option) *Plotter {
	P := &Plotter{
		reader:  reader,
		outdir:  ".",
		log10:   true,
		maxlen:  DefaultMaxLen,
		width:   9 * vg.Inch,
		height:  7 * vg.Inch,
		usedset: make(map[string]bool),
	}
	for _, o := range opts {
		o(P)
	}
	return P
}

// Len returns the number of save names produced so far.
func (P *Plotter) Len() int { return len(P.used) }

// Project returns the project name of the plotter.
func (P *Plotter) Project() string { return P.project }

func (P *Plotter) dumpName() string {
	if P.reader == nil {
		return ""
	}
	return filepath.Base(P.reader.Name())
}

// SaveName returns a new file name for a plot of key. Names are never
// repeated within a Plotter.
func (P *Plotter) SaveName(key string) string {
	name := fileSafe(fmt.Sprintf("%s_%s_%d_%s", P.project, P.dumpName(), len(P.used), key))
	name = filepath.Join(P.outdir, name)
	candidate := name
	for i := 1; P.usedset[candidate]; i++ {
		candidate = fmt.Sprintf("%s_%d", name, i)
	}
	P.used = append(P.used, candidate)
	P.usedset[candidate] = true
	return candidate + ".png"
}

// LastSaveName returns the last name given by SaveName, or a new one if
// there was none.
func (P *Plotter) LastSaveName() string {
	if len(P.used) == 0 {
		return P.SaveName("lastsavename")
	}
	return P.used[len(P.used)-1] + ".png"
}

// Save writes p to a new file named after key, and returns the file name.
func (P *Plotter) Save(p *plot.Plot, key string) (string, error) {
	name := P.SaveName(key)
	if err := p.Save(P.width, P.height, name); err != nil {
		return "", fmt.Errorf("picplot: saving %s: %w", name, err)
	}
	P.saved = append(P.saved, name)
	return name, nil
}

// Saved returns the files written so far, in order.
func (P *Plotter) Saved() []string {
	return append([]string(nil), P.saved...)
}

// finalize applies the axis limits to p and saves it, with the data of
// fields, if the Plotter is told to.
func (P *Plotter) finalize(p *plot.Plot, key string, fields ...*pic.Field) (*plot.Plot, error) {
	if P.xlim != nil {
		p.X.Min, p.X.Max = P.xlim.lo, P.xlim.hi
	}
	if P.ylim != nil {
		p.Y.Min, p.Y.Max = P.ylim.lo, P.ylim.hi
	}
	var name string
	if P.autosave {
		var err error
		if name, err = P.Save(p, key); err != nil {
			return nil, err
		}
	}
	if P.savecsv && len(fields) > 0 {
		if name == "" {
			name = P.SaveName(key)
		}
		if err := P.saveCSV(strings.TrimSuffix(name, ".png"), fields); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// saveCSV writes each field to base_<label>.csv.
func (P *Plotter) saveCSV(base string, fields []*pic.Field) error {
	for _, f := range fields {
		if f.Dims() == 0 {
			continue
		}
		name := base + "_" + fileSafe(f.Label) + ".csv"
		fout, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("picplot: saving %s: %w", name, err)
		}
		err = f.WriteCSV(fout)
		if cerr := fout.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("picplot: saving %s: %w", name, err)
		}
		P.saved = append(P.saved, name)
	}
	return nil
}

// fileSafe removes from s what doesn't belong in a file name.
func fileSafe(s string) string {
	s = strings.ReplaceAll(s, "/", "_")
	return strings.ReplaceAll(s, " ", "")
}

// Annotation returns the text placed over every plot: the title, then
// the project, dump, time and step, if known, then info.
func (P *Plotter) Annotation(title, info string) string {
	lines := []string{}
	if title != "" {
		lines = append(lines, title)
	}
	meta := []string{}
	if P.project != "" {
		meta = append(meta, P.project)
	}
	if d := P.dumpName(); d != "" {
		meta = append(meta, d)
	}
	if ts := P.timeString(); ts != "" {
		meta = append(meta, ts)
	}
	if len(meta) > 0 {
		lines = append(lines, strings.Join(meta, "   "))
	}
	if info != "" {
		lines = append(lines, info)
	}
	return strings.Join(lines, "\n")
}

// timeString formats the time and step of the dump. Zero values are left out.
func (P *Plotter) timeString() string {
	if P.reader == nil {
		return ""
	}
	var s []string
	if t, err := P.reader.Time(); err == nil && t != 0 {
		s = append(s, fmt.Sprintf("%.1f fs", 1e15*t))
	}
	if st, err := P.reader.Timestep(); err == nil && st != 0 {
		s = append(s, fmt.Sprintf("step: %6d", st))
	}
	return strings.Join(s, ", ")
}

// PlotField plots f according to its dimensionality, after reducing it to at
// most the Plotter's MaxLen points per axis. Fields without data give a
// placeholder plot. Fields with more than 2 dimensions can't be plotted.
func (P *Plotter) PlotField(f *pic.Field) (*plot.Plot, error) {
	if f == nil {
		return P.skipPlot("none")
	}
	if P.maxlen > 0 {
		f = f.Autoreduce(P.maxlen)
	}
	if f.Dims() > 1 {
		f = f.Squeeze()
	}
	switch {
	case f.Dims() == 0 || len(f.Data) == 0:
		return P.skipPlot(f.Name)
	case f.Dims() == 1:
		return P.PlotFields1D(f)
	case f.Dims() == 2:
		return P.plotField2D(f)
	}
	return nil, pic.NewError(pic.ErrUnsupportedDimensionality, P.dumpName(), "PlotField", "field %s has %d dimensions", f.Name, f.Dims())
}

// PlotFields plots every field on its own. It stops at the first error.
func (P *Plotter) PlotFields(fields ...*pic.Field) ([]*plot.Plot, error) {
	ret := make([]*plot.Plot, 0, len(fields))
	for _, f := range fields {
		p, err := P.PlotField(f)
		if err != nil {
			return ret, err
		}
		ret = append(ret, p)
	}
	return ret, nil
}

// PlotAllDerived plots every derived quantity in r. If r is nil, the
// Plotter's reader is used.
func (P *Plotter) PlotAllDerived(r pic.DumpReader) ([]*plot.Plot, error) {
	if r == nil {
		r = P.reader
	}
	if r == nil {
		return nil, nil
	}
	fa := pic.NewFieldAnalyzer(r)
	fields, err := fa.CreateFieldsFromKeys(r.GetDerived()...)
	if err != nil {
		return nil, err
	}
	return P.PlotFields(fields...)
}

func (P *Plotter) skipPlot(key string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = P.Annotation("No data available.", "")
	p.HideAxes()
	log.Printf("Skipped plot %s", key)
	return P.finalize(p, key)
}
