package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	pic "github.com/rmera/gopic"
	"github.com/rmera/gopic/picplot"
)

// PlotOptions holds flags for the plot command.
type PlotOptions struct {
	*RootOptions
	Fields  []string
	Keys    []string
	Average bool
	Derived bool
	OutDir  string
	Project string
	NoLog   bool

	LineoutX bool
	LineoutY bool
	XLim     []float64
	YLim     []float64
	CLim     []float64
	Contours []float64
	CSV      bool
}

// options returns the picplot options given by the flags.
func (o *PlotOptions) options() ([]picplot.Option, error) {
	ret := []picplot.Option{picplot.Lineouts(o.LineoutX, o.LineoutY), picplot.SaveCSV(o.CSV)}
	for _, l := range []struct {
		flag string
		v    []float64
		opt  func(lo, hi float64) picplot.Option
	}{
		{"xlim", o.XLim, picplot.XLim},
		{"ylim", o.YLim, picplot.YLim},
		{"clim", o.CLim, picplot.CLim},
	} {
		switch {
		case l.v == nil:
		case len(l.v) != 2 || !(l.v[0] < l.v[1]):
			return nil, pic.NewError(pic.ErrFormat, "", "plot", "--%s needs two increasing values, got %v", l.flag, l.v)
		default:
			ret = append(ret, l.opt(l.v[0], l.v[1]))
		}
	}
	if len(o.Contours) > 0 {
		ret = append(ret, picplot.Contours(o.Contours...))
	}
	return ret, nil
}

// PlotResult lists the images written by the plot command.
type PlotResult struct {
	Dump  string   `json:"dump"`
	Files []string `json:"files"`
}

func (p PlotResult) String() string {
	var b strings.Builder
	for _, f := range p.Files {
		fmt.Fprintln(&b, f)
	}
	return b.String()
}

// NewPlotCommand creates the plot command.
func NewPlotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plot <dump>",
		Short: "Plot fields of a dump as PNG images",
		Long: `Plot electromagnetic field components, arbitrary keys and derived
quantities of a dump. Every plot is saved to its own PNG file and the
file names are printed.

Field components are given as E or B followed by the axis, e.g. Ex or Bz.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Fields, "field", nil, "field components to plot (Ex, Ey, Ez, Bx, By, Bz)")
	cmd.Flags().StringSliceVar(&opts.Keys, "key", nil, "dump keys to plot")
	cmd.Flags().BoolVar(&opts.Average, "average", false, "plot the time-averaged field components")
	cmd.Flags().BoolVar(&opts.Derived, "derived", false, "plot every derived quantity")
	cmd.Flags().StringVar(&opts.OutDir, "outdir", "", "directory for the images (overrides the config)")
	cmd.Flags().StringVar(&opts.Project, "project", "", "project name used in file names and titles (overrides the config)")
	cmd.Flags().BoolVar(&opts.NoLog, "no-log", false, "never use logarithmic scales")
	cmd.Flags().BoolVar(&opts.LineoutX, "lineout-x", false, "draw the mean over y of 2D fields")
	cmd.Flags().BoolVar(&opts.LineoutY, "lineout-y", false, "draw the mean over x of 2D fields")
	cmd.Flags().Float64SliceVar(&opts.XLim, "xlim", nil, "range of the x axis, as min,max")
	cmd.Flags().Float64SliceVar(&opts.YLim, "ylim", nil, "range of the y axis, as min,max")
	cmd.Flags().Float64SliceVar(&opts.CLim, "clim", nil, "range of the colour scale of 2D plots, as min,max")
	cmd.Flags().Float64SliceVar(&opts.Contours, "contour", nil, "levels of contour lines over 2D plots")
	cmd.Flags().BoolVar(&opts.CSV, "csv", false, "also save the plotted data as CSV")

	return cmd
}

// parseComponent turns "Ex" or "bz" into a field kind and axis.
func parseComponent(s string) (magnetic bool, ax pic.Axis, err error) {
	if len(s) != 2 {
		return false, pic.X, pic.NewError(pic.ErrFormat, "", "parseComponent", "bad field component %q", s)
	}
	switch s[0] {
	case 'E', 'e':
	case 'B', 'b':
		magnetic = true
	default:
		return false, pic.X, pic.NewError(pic.ErrFormat, "", "parseComponent", "bad field component %q", s)
	}
	ax, err = pic.AxisFromName(s[1:])
	return magnetic, ax, err
}

func runPlot(opts *PlotOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	log := opts.logger()
	cfg := *opts.config()
	if cmd.Flags().Changed("outdir") {
		cfg.OutDir = opts.OutDir
	}
	if cmd.Flags().Changed("project") {
		cfg.Project = opts.Project
	}
	if opts.NoLog {
		cfg.Log10 = false
	}
	if len(opts.Fields) == 0 && len(opts.Keys) == 0 && !opts.Derived {
		return fail(formatter, "nothing to plot", pic.NewError(pic.ErrFormat, path, "plot", "give --field, --key or --derived"))
	}
	popts, err := opts.options()
	if err != nil {
		return fail(formatter, "bad plot flags", err)
	}

	r, err := OpenDump(path)
	if err != nil {
		return fail(formatter, "failed to open dump", err)
	}
	defer r.Close()

	fa := pic.NewFieldAnalyzer(r)
	var fields []*pic.Field
	for _, c := range opts.Fields {
		magnetic, ax, err := parseComponent(c)
		if err != nil {
			return fail(formatter, "failed to parse --field", err)
		}
		var f *pic.Field
		if magnetic {
			f, err = fa.BField(ax, opts.Average)
		} else {
			f, err = fa.EField(ax, opts.Average)
		}
		if err != nil {
			return fail(formatter, "failed to read field "+c, err)
		}
		fields = append(fields, f)
	}
	if len(opts.Keys) > 0 {
		kf, err := fa.CreateFieldsFromKeys(opts.Keys...)
		if err != nil {
			return fail(formatter, "failed to read keys", err)
		}
		fields = append(fields, kf...)
	}

	popts = append(append(cfg.PlotOptions(), picplot.AutoSave(true)), popts...)
	P := picplot.New(r, popts...)
	if _, err := P.PlotFields(fields...); err != nil {
		return fail(formatter, "failed to plot", err)
	}
	if opts.Derived {
		if _, err := P.PlotAllDerived(nil); err != nil {
			return fail(formatter, "failed to plot derived quantities", err)
		}
	}
	for _, f := range P.Saved() {
		log.Debug("file saved", "file", f)
	}
	log.Debug("plots saved", "dump", path, "count", len(P.Saved()), "outdir", cfg.OutDir)
	return formatter.Success(PlotResult{Dump: r.Name(), Files: nonNil(P.Saved())})
}
