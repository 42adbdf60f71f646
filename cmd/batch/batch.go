// Package batch runs many scenarios concurrently
package batch

import (
	"context"
	"fmt"
	"path/filepath"

	cmdcommon "fjacquet/levpartflip/cmd/common"
	"fjacquet/levpartflip/cmd/root"
	"fjacquet/levpartflip/internal/batch"
	"fjacquet/levpartflip/internal/common"
	"fjacquet/levpartflip/internal/container"
	"fjacquet/levpartflip/internal/fileutils"
	"fjacquet/levpartflip/internal/logging"
	"fjacquet/levpartflip/internal/scenario"

	"github.com/spf13/cobra"
)

// SummaryFile is the name of the sweep summary written to the output directory.
const SummaryFile = "summary.csv"

// Options select what a batch run evaluates.
type Options struct {
	Input  string    // scenario directory, or a single scenario file with Vary
	Output string    // output directory
	Vary   string    // parameter key to sweep
	Values []float64 // values for Vary
}

var flags Options

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Run every scenario in a directory, or sweep one parameter",
	Long: `Batch runs scenarios concurrently on the configured number of workers
and writes each scenario's ledger and report plus a summary.csv with one
row per scenario.

With -i pointing at a directory, every .yaml/.yml file directly inside it is
run. With -i pointing at a single scenario file, --vary and --values run it
once per value of the named parameter.

Examples:
  levpartflip batch -i scenarios/ -o out/
  levpartflip batch -i 10mw.yaml -o out/ --vary ppa_price --values 8,10,12`,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().StringVar(&flags.Vary, "vary", "", "Parameter to sweep over --values (single scenario input)")
	Cmd.Flags().Float64SliceVar(&flags.Values, "values", nil, "Values for --vary")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	opts := flags
	opts.Input = root.SharedFlags.Input
	opts.Output = root.SharedFlags.Output

	records, err := Execute(cmd.Context(), c, opts)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range records {
		if r.Status == batch.StatusFailed {
			failed++
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d scenarios, %d failed, summary: %s\n",
		len(records), failed, filepath.Join(opts.Output, SummaryFile))
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(records))
	}
	return nil
}

// Execute runs the batch described by opts and writes its outputs.
func Execute(ctx context.Context, c *container.Container, opts Options) ([]batch.SummaryRecord, error) {
	if opts.Input == "" || opts.Output == "" {
		return nil, fmt.Errorf("input and output must be specified")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := c.GetLogger()

	jobs, failures, err := collect(c, opts)
	if err != nil {
		return nil, err
	}

	results := c.GetSweeper().Sweep(ctx, jobs)
	for i, r := range results {
		if r.Err != nil {
			continue
		}
		if _, err := cmdcommon.WriteOutputs(c, r.Name, r.Outcome, opts.Output); err != nil {
			results[i].Err = err
			results[i].Outcome = nil
		}
	}
	results = append(results, failures...)

	records := c.GetAggregator().Summarize(results)
	summary := filepath.Join(opts.Output, SummaryFile)
	if err := common.WriteCSVFile(summary, records, logger); err != nil {
		return nil, err
	}
	logger.Info("Batch completed",
		logging.F(logging.FieldCount, len(records)),
		logging.F(logging.FieldOutputFile, summary))
	return records, nil
}

// collect builds the jobs to sweep. Scenario files that fail to load are
// returned as failed results so they still appear in the summary.
func collect(c *container.Container, opts Options) ([]batch.Job, []batch.Result, error) {
	if opts.Vary != "" {
		if len(opts.Values) == 0 {
			return nil, nil, fmt.Errorf("--vary %s needs --values", opts.Vary)
		}
		if !fileutils.FileExists(opts.Input) {
			return nil, nil, fmt.Errorf("--vary needs a single scenario file, got %s", opts.Input)
		}
		sc, err := c.GetLoader().Load(opts.Input)
		if err != nil {
			return nil, nil, err
		}
		jobs, err := batch.Vary(sc.Name, sc.Values, sc.Energy, opts.Vary, opts.Values)
		return jobs, nil, err
	}

	files, err := fileutils.ListScenarioFiles(opts.Input)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no scenario files in %s", opts.Input)
	}

	var loaded []*scenario.Scenario
	var failures []batch.Result
	for _, f := range files {
		sc, err := c.GetLoader().Load(f)
		if err != nil {
			c.GetLogger().WithError(err).Warn("Skipping scenario", logging.F(logging.FieldInputFile, f))
			failures = append(failures, batch.Result{Index: -1, Name: filepath.Base(f), Err: err})
			continue
		}
		loaded = append(loaded, sc)
	}
	return batch.FromScenarios(loaded), failures, nil
}
