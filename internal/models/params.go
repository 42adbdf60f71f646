// Package models contains the immutable inputs of a partnership-flip run and
// the named result table handed back to the host.
package models

import (
	"fjacquet/levpartflip/internal/depreciation"
)

// Jurisdiction distinguishes state from federal tax treatment.
type Jurisdiction string

const (
	State   Jurisdiction = "sta"
	Federal Jurisdiction = "fed"
)

// Jurisdictions lists both tax jurisdictions in computation order; state
// taxes are deductible federally, so state always comes first.
func Jurisdictions() []Jurisdiction {
	return []Jurisdiction{State, Federal}
}

// Params is the complete, already-validated input of one run.
// Percent fields hold percents (0-100) as supplied by the host.
type Params struct {
	AnalysisYears int
	Nameplate     float64 // kW
	Inflation     float64
	DiscountReal  float64
	SalesTaxRate  float64

	Costs        CostInputs
	Operations   Operations
	Reserves     EquipmentReserves
	Construction Construction
	Term         TermDebt
	Closing      Closing
	Equity       EquityStructure
	Tax          TaxRates
	Depreciation DepreciationTerms
	Incentives   Incentives

	PPA PPA
}

// CostInputs are the pre-financing capital cost components.
type CostInputs struct {
	GenEquip       float64
	BOP            float64
	Network        float64
	ContingencyPct float64
	Developer      float64
	LandImprove    float64
	Other          float64
	PercentTaxable float64
}

// Operations holds annual operating cost drivers.
type Operations struct {
	FixedAnnual      float64 // $/yr
	ProductionPerMWh float64 // $/MWh
	CapacityPerKW    float64 // $/kW-yr
	FuelAnnual       float64 // $/yr
	Escalation       float64 // % above inflation

	InsuranceRate          float64 // % of installed cost
	PropertyTaxRate        float64
	PropTaxCostAssessed    float64 // % of installed cost
	PropTaxAssessedDecline float64 // % per year
	ReservesInterest       float64
}

// EquipmentReserve is a major-equipment replacement reserve funded evenly
// between replacements.
type EquipmentReserve struct {
	CostPerWatt float64 // $/Wdc
	Frequency   int     // years between replacements; 0 disables
}

// EquipmentReserves groups the three reserve accounts and the schedules used
// to depreciate replacement spending.
type EquipmentReserves struct {
	Accounts     [3]EquipmentReserve
	Depreciation map[Jurisdiction]depreciation.Class
}

// Construction describes the construction-period financing.
type Construction struct {
	PeriodMonths int
	InterestRate float64
	UpfrontFee   float64
}

// TermDebt describes the term loan sized against DSCR.
type TermDebt struct {
	Tenor         int
	InterestRate  float64
	DSCR          float64
	ReserveMonths int
}

// Closing holds fixed up-front financing costs.
type Closing struct {
	DebtClosing    float64
	EquityClosing  float64
	WorkingReserve float64
}

// EquityStructure describes the partnership between tax investor and sponsor.
type EquityStructure struct {
	TaxInvestorEquity float64
	PreFlipShare      float64
	PostFlipShare     float64
	ReturnTarget      float64
	ReturnTargetYear  int
}

// TaxRates are the marginal income tax rates.
type TaxRates struct {
	FederalRate float64
	StateRate   float64
}

// Capability says what a jurisdiction allows for one schedule class.
type Capability struct {
	Bonus bool
	ITC   bool
}

// ClassTreatment pairs the state and federal capabilities of a class.
type ClassTreatment struct {
	State   Capability
	Federal Capability
}

// For returns the capability record of j.
func (t ClassTreatment) For(j Jurisdiction) Capability {
	if j == State {
		return t.State
	}
	return t.Federal
}

// DepreciationTerms allocates depreciable basis across classes.
type DepreciationTerms struct {
	Allocation map[depreciation.Class]float64 // % of basis
	Bonus      map[Jurisdiction]float64       // % of eligible basis
	Treatment  map[depreciation.Class]ClassTreatment
}

// Taxable marks which jurisdictions tax an incentive payment.
type Taxable struct {
	Federal bool
	State   bool
}

// In reports whether the incentive is taxable in j.
func (t Taxable) In(j Jurisdiction) bool {
	if j == State {
		return t.State
	}
	return t.Federal
}

// Source identifies who pays an incentive.
type Source string

const (
	SourceFederal Source = "fed"
	SourceState   Source = "sta"
	SourceUtility Source = "uti"
	SourceOther   Source = "oth"
)

// Sources lists incentive payers in ledger order.
func Sources() []Source {
	return []Source{SourceFederal, SourceState, SourceUtility, SourceOther}
}

// InvestmentIncentive is an up-front payment: a fixed amount plus a percent
// of installed cost limited by Max (Max <= 0 means no limit).
type InvestmentIncentive struct {
	Amount  float64
	Percent float64
	Max     float64
	Taxable Taxable
}

// CapacityIncentive pays a rate per watt of nameplate.
type CapacityIncentive struct {
	PerWatt float64
	Max     float64
	Taxable Taxable
}

// ProductionIncentive pays per kWh for Term years with escalation.
type ProductionIncentive struct {
	PerKWh     float64
	Term       int
	Escalation float64
	Taxable    Taxable
}

// ProductionCredit is a per-kWh tax credit.
type ProductionCredit struct {
	PerKWh     float64
	Term       int
	Escalation float64
}

// InvestmentCredit is an ITC: a fixed amount plus a percent of eligible basis.
type InvestmentCredit struct {
	Amount  float64
	Percent float64
	Max     float64
}

// Incentives collects all incentive and credit terms.
type Incentives struct {
	IBI map[Source]InvestmentIncentive
	CBI map[Source]CapacityIncentive
	PBI map[Source]ProductionIncentive
	PTC map[Jurisdiction]ProductionCredit
	ITC map[Jurisdiction]InvestmentCredit
}
