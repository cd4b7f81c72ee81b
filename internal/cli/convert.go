package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmera/gopic/zdump"
)

// ConvertResult describes a converted dump.
type ConvertResult struct {
	Input  string `json:"input"`
	Output string `json:"output"`
	Keys   int    `json:"keys"`
}

func (c ConvertResult) String() string {
	return fmt.Sprintf("wrote %d keys from %s to %s\n", c.Keys, c.Input, c.Output)
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <dump> <out.zdump>",
		Short: "Convert a dump to the zdump format",
		Long: `Copy every key of a dump into a zdump file. The output is compressed
with zstd, or gzip if its name ends in .gz.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runConvert(opts *RootOptions, in, out string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	log := opts.logger()

	r, err := OpenDump(in)
	if err != nil {
		return fail(formatter, "failed to open dump", err)
	}
	defer r.Close()

	w, err := zdump.NewWriter(out)
	if err != nil {
		return fail(formatter, "failed to create output", err)
	}
	n, err := w.CopyStore(r)
	if err != nil {
		w.Close()
		return fail(formatter, "failed to copy dump", err)
	}
	if err := w.Close(); err != nil {
		return fail(formatter, "failed to write output", err)
	}
	log.Debug("dump converted", "in", in, "out", out, "keys", n)
	return formatter.Success(ConvertResult{Input: in, Output: out, Keys: n})
}
