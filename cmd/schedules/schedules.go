// Package schedules exports the depreciation tables.
package schedules

import (
	"fmt"
	"path/filepath"

	"fjacquet/levpartflip/cmd/root"
	"fjacquet/levpartflip/internal/common"
	"fjacquet/levpartflip/internal/depreciation"

	"github.com/spf13/cobra"
)

var (
	years   int
	classes []string
)

// Cmd represents the schedules command
var Cmd = &cobra.Command{
	Use:   "schedules",
	Short: "Write the depreciation schedules as CSV",
	Long: `Schedules writes the annual fraction of basis recovered by each
depreciation class (MACRS 5 and 15, straight line 5, 15, 20 and 39 years)
to <output>/depreciation_schedules.csv.

With --class the file lists only the named classes, one row per class and
year. Classes are named by key (macrs_5, sl_39) or host code (0 to 5).

Examples:
  levpartflip schedules -o out/ --years 25
  levpartflip schedules -o out/ --class macrs_5,sl_39`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("container not initialized")
		}
		if years < 0 {
			return fmt.Errorf("--years must not be negative, got %d", years)
		}
		n := years
		if n == 0 {
			for _, class := range depreciation.Classes() {
				n = max(n, depreciation.NaturalLength(class))
			}
		}
		path := filepath.Join(root.SharedFlags.Output, "depreciation_schedules.csv")
		if len(classes) > 0 {
			selected := make([]depreciation.Class, 0, len(classes))
			for _, name := range classes {
				class, err := depreciation.ParseClass(name)
				if err != nil {
					return err
				}
				selected = append(selected, class)
			}
			if err := common.WriteCSVFile(path, common.ClassFactorRecords(selected, n), c.GetLogger()); err != nil {
				return err
			}
		} else if err := common.WriteCSVFile(path, common.ScheduleRecords(n), c.GetLogger()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	Cmd.Flags().IntVar(&years, "years", 0, "Number of years to tabulate (0: through the longest schedule)")
	Cmd.Flags().StringSliceVar(&classes, "class", nil, "Only write these classes (key or host code)")
}
