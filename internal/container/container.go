// Package container provides dependency injection for the levpartflip application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/levpartflip/internal/batch"
	"fjacquet/levpartflip/internal/config"
	"fjacquet/levpartflip/internal/engine"
	"fjacquet/levpartflip/internal/logging"
	"fjacquet/levpartflip/internal/report"
	"fjacquet/levpartflip/internal/scenario"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation: all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	engine     *engine.Engine
	loader     *scenario.Loader
	reports    *report.Generator
	sweeper    *batch.Sweeper
	aggregator *batch.Aggregator
}

// NewContainerWithLogger creates and wires all application dependencies
// around logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	eng := engine.New(logger, engine.WithBounds(cfg.Bounds()))
	c := &Container{
		logger:     logger,
		config:     cfg,
		engine:     eng,
		loader:     scenario.NewLoader(logger),
		reports:    report.NewGenerator(logger),
		sweeper:    batch.NewSweeper(logger, eng, cfg.Batch.Workers),
		aggregator: batch.NewAggregator(logger),
	}

	logger.Debug("Container initialized",
		logging.F(logging.FieldWorker, cfg.Batch.Workers),
		logging.F(logging.FieldFormat, cfg.Output.Format))
	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetEngine returns the engine configured with the solver bounds.
func (c *Container) GetEngine() *engine.Engine {
	return c.engine
}

// GetLoader returns the scenario loader.
func (c *Container) GetLoader() *scenario.Loader {
	return c.loader
}

// GetReportGenerator returns the report generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.reports
}

// GetSweeper returns the batch sweeper sharing the container's engine.
func (c *Container) GetSweeper() *batch.Sweeper {
	return c.sweeper
}

// GetAggregator returns the batch result aggregator.
func (c *Container) GetAggregator() *batch.Aggregator {
	return c.aggregator
}

// ReportOptions returns the report settings from the configuration.
func (c *Container) ReportOptions() report.Options {
	return report.Options{
		Precision:     c.config.Output.Precision,
		IncludeArrays: c.config.Output.IncludeArrays,
	}
}
