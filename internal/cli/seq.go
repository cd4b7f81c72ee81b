package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	pic "github.com/rmera/gopic"
)

// SeqResult lists the dumps of a manifest.
type SeqResult struct {
	Manifest string     `json:"manifest"`
	Dumps    []DumpInfo `json:"dumps"`
}

func (s SeqResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d dumps\n", s.Manifest, len(s.Dumps))
	for _, d := range s.Dumps {
		dims := "?"
		if d.Dimensions > 0 {
			dims = fmt.Sprintf("%dD", d.Dimensions)
		}
		fmt.Fprintf(&b, "%4d  step %8d  time %-12.4g %-3s  %s\n", d.Position, d.Step, d.Time, dims, d.Dump)
	}
	return b.String()
}

// NewSeqCommand creates the seq command.
func NewSeqCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seq <manifest>",
		Short: "List the dumps of a simulation run",
		Long: `List every dump named in a manifest file, with its step and time.

The manifest has one dump path per line. Relative paths are taken from
the directory of the manifest.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeq(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runSeq(opts *RootOptions, manifest string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	log := opts.logger()

	seq, err := pic.NewSequence(manifest, OpenDump)
	if err != nil {
		return fail(formatter, "failed to read manifest", err)
	}
	log.Debug("manifest read", "manifest", manifest, "dumps", seq.Len())

	res := SeqResult{Manifest: seq.Manifest(), Dumps: make([]DumpInfo, 0, seq.Len())}
	err = seq.Visit(func(i int, r *pic.Reader) error {
		d, err := dumpInfo(r)
		if err != nil {
			return err
		}
		d.Position = i
		res.Dumps = append(res.Dumps, d)
		log.Debug("dump read", "position", i, "step", d.Step)
		return nil
	})
	if err != nil {
		return fail(formatter, "failed to read sequence", err)
	}
	return formatter.Success(res)
}
