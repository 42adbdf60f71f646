// Package common contains shared functionality for command handlers
package common

import (
	"fmt"

	"fjacquet/levpartflip/internal/common"
	"fjacquet/levpartflip/internal/container"
	"fjacquet/levpartflip/internal/engine"
	"fjacquet/levpartflip/internal/fileutils"
	"fjacquet/levpartflip/internal/logging"
	"fjacquet/levpartflip/internal/models"
	"fjacquet/levpartflip/internal/report"
)

// Written lists the files produced for one scenario.
type Written struct {
	Name   string
	Ledger string
	Report string
}

// ProcessScenario loads the scenario at path, runs it and writes its ledger
// and report into outDir.
func ProcessScenario(c *container.Container, path, outDir string) (*engine.Outcome, Written, error) {
	sc, err := c.GetLoader().Load(path)
	if err != nil {
		return nil, Written{}, err
	}
	out, err := c.GetEngine().Run(sc.Params, sc.Energy)
	if err != nil {
		return nil, Written{}, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	written, err := WriteOutputs(c, sc.Name, out, outDir)
	return out, written, err
}

// WriteOutputs writes the ledger CSV and the summary report of one outcome.
func WriteOutputs(c *container.Container, name string, out *engine.Outcome, outDir string) (Written, error) {
	logger := c.GetLogger().WithField(logging.FieldScenario, name)
	res := out.Results()
	format := c.GetConfig().Output.Format

	w := Written{
		Name:   name,
		Ledger: fileutils.OutputPath(outDir, name, "ledger", ".csv"),
		Report: fileutils.OutputPath(outDir, name, "report", report.Extension(format)),
	}
	if err := common.WriteLedgerFile(w.Ledger, res, logger); err != nil {
		return Written{}, err
	}

	r := report.Build(name, models.ModeName(out.Params.PPA), res, c.ReportOptions())
	data, err := c.GetReportGenerator().Generate(r, format)
	if err != nil {
		return Written{}, err
	}
	if err := fileutils.WriteFile(w.Report, data); err != nil {
		return Written{}, err
	}

	logger.Info("Scenario written",
		logging.F(logging.FieldOutputFile, w.Report),
		logging.F(logging.FieldPPAPrice, out.Price),
		logging.F(logging.FieldFlipYear, out.Flip.Year))
	return w, nil
}

// Headline renders the one-line result printed after a run.
func Headline(name string, out *engine.Outcome) string {
	flipText := "not reached"
	if out.Flip.Reached {
		flipText = fmt.Sprintf("year %d", out.Flip.Year)
	}
	return fmt.Sprintf("%s: PPA price %.4f c/kWh, debt %.0f, equity %.0f, flip %s",
		name, out.Price, out.Summary.Debt.Principal, out.Summary.Equity, flipText)
}
