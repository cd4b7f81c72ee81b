package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	pic "github.com/rmera/gopic"
	"github.com/rmera/gopic/catalog"
)

// IndexOptions holds flags for the index command.
type IndexOptions struct {
	*RootOptions
	DB string
}

// IndexResult describes a run recorded in the catalog.
type IndexResult struct {
	RunID    string `json:"run_id"`
	Manifest string `json:"manifest"`
	Dumps    int    `json:"dumps"`
}

func (r IndexResult) String() string {
	return fmt.Sprintf("indexed %d dumps of %s as run %s\n", r.Dumps, r.Manifest, r.RunID)
}

// NewIndexCommand creates the index command.
func NewIndexCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IndexOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "index <manifest>",
		Short: "Record the dumps of a run in a catalog",
		Long: `Read every dump of a manifest and record its step, time, dimensionality,
species and derived quantities in a SQLite catalog. Each invocation
records a new run. Nothing is recorded if any dump can't be read.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "catalog database file (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runIndex(opts *IndexOptions, manifest string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	log := opts.logger()

	seq, err := pic.NewSequence(manifest, OpenDump)
	if err != nil {
		return fail(formatter, "failed to read manifest", err)
	}
	c, err := catalog.Open(opts.DB)
	if err != nil {
		return fail(formatter, "failed to open catalog", err)
	}
	defer c.Close()

	runID, err := catalog.Index(cmd.Context(), c, seq)
	if err != nil {
		return fail(formatter, "failed to index", err)
	}
	log.Debug("run indexed", "run", runID, "db", opts.DB)
	return formatter.Success(IndexResult{RunID: runID, Manifest: seq.Manifest(), Dumps: seq.Len()})
}
