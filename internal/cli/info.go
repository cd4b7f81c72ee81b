package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	pic "github.com/rmera/gopic"
)

// DumpInfo summarizes one dump.
type DumpInfo struct {
	Position   int      `json:"position"`
	Dump       string   `json:"dump"`
	Step       int      `json:"step"`
	Time       float64  `json:"time"`
	Dimensions int      `json:"dimensions,omitempty"` // 0 if unknown
	Species    []string `json:"species"`
	Derived    []string `json:"derived"`
	Keys       int      `json:"keys"`
}

func (d DumpInfo) String() string {
	dims := "unknown"
	if d.Dimensions > 0 {
		dims = fmt.Sprintf("%dD", d.Dimensions)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "dump:       %s\n", d.Dump)
	fmt.Fprintf(&b, "step:       %d\n", d.Step)
	fmt.Fprintf(&b, "time:       %g s\n", d.Time)
	fmt.Fprintf(&b, "dimensions: %s\n", dims)
	fmt.Fprintf(&b, "keys:       %d\n", d.Keys)
	fmt.Fprintf(&b, "species:    %s\n", listOrNone(d.Species))
	fmt.Fprintf(&b, "derived:    %s\n", listOrNone(d.Derived))
	return b.String()
}

func listOrNone(s []string) string {
	if len(s) == 0 {
		return "none"
	}
	return strings.Join(s, ", ")
}

// dumpInfo collects the summary of r. A code name that can't be
// interpreted leaves the dimensions unknown.
func dumpInfo(r pic.DumpReader) (DumpInfo, error) {
	d := DumpInfo{
		Dump:    r.Name(),
		Species: nonNil(r.ListSpecies()),
		Derived: nonNil(r.GetDerived()),
		Keys:    len(r.Keys()),
	}
	var err error
	if d.Step, err = r.Timestep(); err != nil {
		return d, err
	}
	if d.Time, err = r.Time(); err != nil {
		return d, err
	}
	if d.Dimensions, err = r.SimDimensions(); err != nil {
		if !errors.Is(err, pic.ErrFormat) && !errors.Is(err, pic.ErrKeyNotFound) {
			return d, err
		}
		d.Dimensions = 0
	}
	return d, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <dump>",
		Short: "Show the step, time, species and derived quantities of a dump",
		Long: `Show the header information of a single dump.

HDF5 dumps (.h5, .hdf5) and zdump files (.zdump, .zdump.gz) are supported.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runInfo(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	log := opts.logger()

	r, err := OpenDump(path)
	if err != nil {
		return fail(formatter, "failed to open dump", err)
	}
	defer r.Close()
	log.Debug("dump opened", "path", path, "keys", len(r.Keys()))

	info, err := dumpInfo(r)
	if err != nil {
		return fail(formatter, "failed to read dump", err)
	}
	return formatter.Success(info)
}
