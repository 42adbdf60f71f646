package batch

import (
	"fjacquet/levpartflip/internal/logging"
)

// Summary statuses.
const (
	StatusOK     = "ok"
	StatusNoFlip = "no_flip"
	StatusFailed = "failed"
)

// SummaryRecord is one row of the sweep summary CSV.
type SummaryRecord struct {
	Scenario       string  `csv:"scenario"`
	Status         string  `csv:"status"`
	PPAPrice       float64 `csv:"ppa_price"`
	FlipYear       int     `csv:"flip_year"`
	TaxInvestorIRR float64 `csv:"tax_investor_irr"`
	SponsorIRR     float64 `csv:"sponsor_irr"`
	SponsorNPV     float64 `csv:"sponsor_npv"`
	SizeOfDebt     float64 `csv:"size_of_debt"`
	SizeOfEquity   float64 `csv:"size_of_equity"`
	MinDSCR        float64 `csv:"dscr_min"`
	AfterTaxNPV    float64 `csv:"after_tax_npv"`
	LCOENominal    float64 `csv:"lcoe_nom"`
	LCOEReal       float64 `csv:"lcoe_real"`
	Error          string  `csv:"error"`
}

// Aggregator condenses sweep results into summary records.
type Aggregator struct {
	logger logging.Logger
}

// NewAggregator creates an Aggregator. A nil logger discards output.
func NewAggregator(logger logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Aggregator{logger: logger}
}

// Summarize returns one record per result, in result order.
func (a *Aggregator) Summarize(results []Result) []SummaryRecord {
	records := make([]SummaryRecord, 0, len(results))
	counts := map[string]int{}
	for _, r := range results {
		rec := summarize(r)
		counts[rec.Status]++
		records = append(records, rec)
	}

	a.logger.Info("Aggregated sweep results",
		logging.F(logging.FieldCount, len(results)),
		logging.F(StatusOK, counts[StatusOK]),
		logging.F(StatusNoFlip, counts[StatusNoFlip]),
		logging.F(StatusFailed, counts[StatusFailed]))
	return records
}

func summarize(r Result) SummaryRecord {
	rec := SummaryRecord{Scenario: r.Name}
	if r.Err != nil || r.Outcome == nil {
		rec.Status = StatusFailed
		if r.Err != nil {
			rec.Error = r.Err.Error()
		}
		return rec
	}

	s := r.Outcome.Results().Scalars
	rec.Status = StatusOK
	if s["flip_reached"] == 0 {
		rec.Status = StatusNoFlip
	}
	rec.PPAPrice = s["ppa_price"]
	rec.FlipYear = int(s["flip_year"])
	rec.TaxInvestorIRR = s["tax_investor_irr"]
	rec.SponsorIRR = s["sponsor_irr"]
	rec.SponsorNPV = s["sponsor_npv"]
	rec.SizeOfDebt = s["size_of_debt"]
	rec.SizeOfEquity = s["size_of_equity"]
	rec.MinDSCR = s["dscr_min"]
	rec.AfterTaxNPV = s["after_tax_npv"]
	rec.LCOENominal = s["lcoe_nom"]
	rec.LCOEReal = s["lcoe_real"]
	return rec
}
