// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/levpartflip/internal/common"
	"fjacquet/levpartflip/internal/config"
	"fjacquet/levpartflip/internal/container"
	"fjacquet/levpartflip/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input        string
	Output       string
	Config       string
	LogLevel     string
	LogFormat    string
	CSVDelimiter string
	Format       string
}

var (
	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "levpartflip",
		Short: "Cash-flow engine for leveraged partnership-flip renewable projects.",
		Long: `levpartflip builds the annual cash-flow ledger of a leveraged
partnership-flip project: costs, debt sized to a DSCR target, incentives,
depreciation, taxes and the tax investor flip. It can solve for the PPA
price that meets the investor's target return in a given year.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	// SharedFlags holds the values of the persistent flags.
	SharedFlags = CommonFlags{}

	// Log is the logrus instance shared by every command. It logs at info
	// until the configuration is loaded.
	Log = logrus.New()

	appContainer *container.Container
)

// Init initializes the root command and all flags
func Init() {
	flags := Cmd.PersistentFlags()
	flags.StringVarP(&SharedFlags.Input, "input", "i", "", "Input scenario file or directory")
	flags.StringVarP(&SharedFlags.Output, "output", "o", ".", "Output directory")
	flags.StringVar(&SharedFlags.Config, "config", "", "Configuration file (default: config.yaml in $HOME/.levpartflip, .levpartflip or .)")
	flags.StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text or json)")
	flags.StringVar(&SharedFlags.CSVDelimiter, "csv-delimiter", "", "CSV delimiter for ledger and summary files")
	flags.StringVar(&SharedFlags.Format, "format", "", "Report format (json or yaml)")
}

// setup loads configuration, applies flag overrides and wires the container.
func setup(cmd *cobra.Command, args []string) error {
	config.LoadEnv(logging.NewLogrusAdapterFromLogger(Log))

	cfg, err := config.Load(SharedFlags.Config)
	if err != nil {
		return err
	}
	applyOverrides(cfg, SharedFlags)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	common.SetDelimiter(cfg.Delimiter())
	c, err := container.NewContainerWithLogger(cfg, config.ConfigureLogging(Log, cfg))
	if err != nil {
		return err
	}
	SetContainer(c)
	c.GetLogger().Debug("Configuration loaded",
		logging.F(logging.FieldDelimiter, cfg.CSV.Delimiter),
		logging.F(logging.FieldFormat, cfg.Output.Format))
	return nil
}

func applyOverrides(cfg *config.Config, f CommonFlags) {
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFormat != "" {
		cfg.Log.Format = f.LogFormat
	}
	if f.CSVDelimiter != "" {
		cfg.CSV.Delimiter = f.CSVDelimiter
	}
	if f.Format != "" {
		cfg.Output.Format = f.Format
	}
}

// GetContainer returns the container wired by the root command.
func GetContainer() *container.Container {
	return appContainer
}

// SetContainer replaces the wired container.
func SetContainer(c *container.Container) {
	appContainer = c
}
