// Package run evaluates a single scenario file.
package run

import (
	"fmt"

	"fjacquet/levpartflip/cmd/common"
	"fjacquet/levpartflip/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the run command
var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Run one scenario and write its ledger and report",
	Long: `Run loads a scenario file, builds its cash-flow ledger, solves the PPA
price when the scenario asks for it, and writes two files to the output
directory: <name>_ledger.csv and <name>_report.json (or .yaml).

Example:
  levpartflip run -i scenarios/10mw.yaml -o out/`,
	RunE: runFunc,
}

func runFunc(cmd *cobra.Command, args []string) error {
	input := root.SharedFlags.Input
	if input == "" && len(args) > 0 {
		input = args[0]
	}
	if input == "" {
		return fmt.Errorf("an input scenario file is required (-i)")
	}

	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("container not initialized")
	}

	out, written, err := common.ProcessScenario(c, input, root.SharedFlags.Output)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), common.Headline(written.Name, out))
	fmt.Fprintf(cmd.OutOrStdout(), "ledger: %s\nreport: %s\n", written.Ledger, written.Report)
	return nil
}
