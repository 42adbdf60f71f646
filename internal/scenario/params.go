package scenario

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"fjacquet/levpartflip/internal/depreciation"
	"fjacquet/levpartflip/internal/modelerror"
	"fjacquet/levpartflip/internal/models"
)

// PPA solution modes accepted in ppa_soln_mode.
const (
	SolveMode     = 0
	SpecifiedMode = 1
)

// Merge overlays values onto the defaults.
func Merge(values map[string]float64) map[string]float64 {
	out := Defaults()
	for k, v := range values {
		out[k] = v
	}
	return out
}

// FromMap validates flat host parameters and builds models.Params. Missing
// keys take their default; unknown keys are rejected so typos do not go
// unnoticed.
func FromMap(values map[string]float64) (models.Params, error) {
	var unknown []string
	for k := range values {
		if !known(k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return models.Params{}, fmt.Errorf("unknown parameters: %s", strings.Join(unknown, ", "))
	}
	for _, r := range required {
		if _, ok := values[r]; !ok {
			return models.Params{}, fmt.Errorf("missing required parameter %s", r)
		}
	}

	v := Merge(values)
	for k, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return models.Params{}, &modelerror.DegenerateInputError{Field: k, Value: x, Reason: "not a finite number"}
		}
		if intKeys[k] && x != math.Trunc(x) {
			return models.Params{}, &modelerror.DegenerateInputError{Field: k, Value: x, Reason: "must be a whole number"}
		}
	}
	if n := v["analysis_years"]; n < 1 || n > 40 {
		return models.Params{}, &modelerror.DegenerateInputError{Field: "analysis_years", Value: n, Reason: "must be between 1 and 40"}
	}

	p := models.Params{
		AnalysisYears: int(v["analysis_years"]),
		Nameplate:     v["system_nameplate"],
		Inflation:     v["inflation"],
		DiscountReal:  v["discount_real"],
		SalesTaxRate:  v["sales_tax_rate"],
		Costs: models.CostInputs{
			GenEquip:       v["cost_gen_equip"],
			BOP:            v["cost_bop"],
			Network:        v["cost_network"],
			ContingencyPct: v["percent_contingency"],
			Developer:      v["cost_developer"],
			LandImprove:    v["cost_land_improve"],
			Other:          v["cost_other"],
			PercentTaxable: v["percent_taxable"],
		},
		Operations: models.Operations{
			FixedAnnual:            v["om_fixed"],
			ProductionPerMWh:       v["om_production"],
			CapacityPerKW:          v["om_capacity"],
			FuelAnnual:             v["om_fuel_cost"],
			Escalation:             v["om_escalation"],
			InsuranceRate:          v["insurance_rate"],
			PropertyTaxRate:        v["property_tax_rate"],
			PropTaxCostAssessed:    v["prop_tax_cost_assessed"],
			PropTaxAssessedDecline: v["prop_tax_assessed_decline"],
			ReservesInterest:       v["reserves_interest"],
		},
		Construction: models.Construction{
			PeriodMonths: int(v["constr_period"]),
			InterestRate: v["constr_int_rate"],
			UpfrontFee:   v["constr_upfront_fee"],
		},
		Term: models.TermDebt{
			Tenor:         int(v["term_tenor"]),
			InterestRate:  v["term_int_rate"],
			DSCR:          v["dscr"],
			ReserveMonths: int(v["dscr_reserve"]),
		},
		Closing: models.Closing{
			DebtClosing:    v["cost_debt_closing"],
			EquityClosing:  v["cost_equity_closing"],
			WorkingReserve: v["cost_working_reserve"],
		},
		Equity: models.EquityStructure{
			TaxInvestorEquity: v["equity_tax_investor"],
			PreFlipShare:      v["preflip_sharing_tax_investor"],
			PostFlipShare:     v["postflip_sharing_tax_investor"],
			ReturnTarget:      v["return_target"],
			ReturnTargetYear:  int(v["return_target_year"]),
		},
		Tax: models.TaxRates{
			FederalRate: v["federal_tax_rate"],
			StateRate:   v["state_tax_rate"],
		},
	}

	var err error
	if p.Reserves, err = reserves(v); err != nil {
		return models.Params{}, err
	}
	p.Depreciation = depreciationTerms(v)
	p.Incentives = incentiveTerms(v)
	if p.PPA, err = ppa(v); err != nil {
		return models.Params{}, err
	}
	return p, nil
}

func reserves(v map[string]float64) (models.EquipmentReserves, error) {
	r := models.EquipmentReserves{Depreciation: make(map[models.Jurisdiction]depreciation.Class)}
	for i := range r.Accounts {
		prefix := fmt.Sprintf("equip_reserve%d_", i+1)
		r.Accounts[i] = models.EquipmentReserve{
			CostPerWatt: v[prefix+"cost"],
			Frequency:   int(v[prefix+"freq"]),
		}
	}
	for _, j := range models.Jurisdictions() {
		key := "equip_reserve_depr_" + string(j)
		c := depreciation.Class(int(v[key]))
		if !c.Valid() {
			return r, &modelerror.DegenerateInputError{Field: key, Value: v[key], Reason: "unknown depreciation class"}
		}
		r.Depreciation[j] = c
	}
	return r, nil
}

func depreciationTerms(v map[string]float64) models.DepreciationTerms {
	t := models.DepreciationTerms{
		Allocation: make(map[depreciation.Class]float64),
		Bonus:      make(map[models.Jurisdiction]float64),
		Treatment:  make(map[depreciation.Class]models.ClassTreatment),
	}
	for _, j := range models.Jurisdictions() {
		t.Bonus[j] = v["depr_bonus_"+string(j)]
	}
	for _, c := range depreciation.Classes() {
		t.Allocation[c] = v["depr_alloc_"+c.String()]
		capability := func(j models.Jurisdiction) models.Capability {
			return models.Capability{
				Bonus: v["depr_bonus_"+string(j)+"_"+c.String()] != 0,
				ITC:   v["depr_itc_"+string(j)+"_"+c.String()] != 0,
			}
		}
		t.Treatment[c] = models.ClassTreatment{
			State:   capability(models.State),
			Federal: capability(models.Federal),
		}
	}
	return t
}

func incentiveTerms(v map[string]float64) models.Incentives {
	in := models.Incentives{
		IBI: make(map[models.Source]models.InvestmentIncentive),
		CBI: make(map[models.Source]models.CapacityIncentive),
		PBI: make(map[models.Source]models.ProductionIncentive),
		PTC: make(map[models.Jurisdiction]models.ProductionCredit),
		ITC: make(map[models.Jurisdiction]models.InvestmentCredit),
	}
	taxable := func(prefix string) models.Taxable {
		return models.Taxable{Federal: v[prefix+"_tax_fed"] != 0, State: v[prefix+"_tax_sta"] != 0}
	}
	for _, s := range models.Sources() {
		ibi, cbi, pbi := "ibi_"+string(s), "cbi_"+string(s), "pbi_"+string(s)
		in.IBI[s] = models.InvestmentIncentive{
			Amount:  v[ibi+"_amount"],
			Percent: v[ibi+"_percent"],
			Max:     v[ibi+"_percent_maxvalue"],
			Taxable: taxable(ibi),
		}
		in.CBI[s] = models.CapacityIncentive{
			PerWatt: v[cbi+"_amount"],
			Max:     v[cbi+"_maxvalue"],
			Taxable: taxable(cbi),
		}
		in.PBI[s] = models.ProductionIncentive{
			PerKWh:     v[pbi+"_amount"],
			Term:       int(v[pbi+"_term"]),
			Escalation: v[pbi+"_escal"],
			Taxable:    taxable(pbi),
		}
	}
	for _, j := range models.Jurisdictions() {
		ptc, itc := "ptc_"+string(j), "itc_"+string(j)
		in.PTC[j] = models.ProductionCredit{
			PerKWh:     v[ptc+"_amount"],
			Term:       int(v[ptc+"_term"]),
			Escalation: v[ptc+"_escal"],
		}
		in.ITC[j] = models.InvestmentCredit{
			Amount:  v[itc+"_amount"],
			Percent: v[itc+"_percent"],
			Max:     v[itc+"_percent_maxvalue"],
		}
	}
	return in
}

func ppa(v map[string]float64) (models.PPA, error) {
	switch mode := v["ppa_soln_mode"]; mode {
	case SolveMode:
		return models.PPASolved{
			TargetYear:   int(v["return_target_year"]),
			TargetReturn: v["return_target"],
			Escalation:   v["ppa_escalation"],
		}, nil
	case SpecifiedMode:
		return models.PPASpecified{
			Price:      v["ppa_price"],
			Escalation: v["ppa_escalation"],
		}, nil
	default:
		return nil, &modelerror.DegenerateInputError{Field: "ppa_soln_mode", Value: mode, Reason: "must be 0 (solve) or 1 (specified)"}
	}
}
