package cashflow

import (
	"fmt"

	"fjacquet/levpartflip/internal/models"
)

// Row identifies one line item of the ledger.
type Row int

// Rows are declared in reporting order. The build order is defined by the
// pipeline stages, not by these values.
const (
	RowEnergyNet Row = iota
	RowPPAPrice
	RowEnergyValue

	RowOMFixedExpense
	RowOMProductionExpense
	RowOMCapacityExpense
	RowOMFuelExpense
	RowPropertyTaxAssessedValue
	RowPropertyTaxExpense
	RowInsuranceExpense
	RowOperatingExpenses
	RowDeductibleExpenses

	RowReserveEquipFunding
	RowReserveEquipRelease
	RowReserveEquipBalance
	RowCashAvailableForDebt

	RowDebtBalance
	RowDebtPaymentInterest
	RowDebtPaymentPrincipal
	RowDebtPaymentTotal
	RowDSCR
	RowReserveDebtFunding
	RowReserveDebtDraw
	RowReserveDebtRelease
	RowReserveDebtBalance
	RowReserveOMBalance
	RowReserveOMRelease
	RowReserveInterest

	RowIBIFedAmt
	RowIBIStaAmt
	RowIBIUtiAmt
	RowIBIOthAmt
	RowIBIFedPer
	RowIBIStaPer
	RowIBIUtiPer
	RowIBIOthPer
	RowIBITotal

	RowCBIFed
	RowCBISta
	RowCBIUti
	RowCBIOth
	RowCBITotal

	RowPBIFed
	RowPBISta
	RowPBIUti
	RowPBIOth
	RowPBITotal

	RowPTCFed
	RowPTCSta

	RowITCFedAmt
	RowITCFedPer
	RowITCFedTotal
	RowITCStaAmt
	RowITCStaPer
	RowITCStaTotal

	RowStaDeprSched
	RowStaDepreciation
	RowStaTaxableIncomeLessDeductions
	RowStaIncentiveIncomeLessDeductions
	RowStaTaxSavings

	RowFedDeprSched
	RowFedDepreciation
	RowFedTaxableIncomeLessDeductions
	RowFedIncentiveIncomeLessDeductions
	RowFedTaxSavings

	RowStaAndFedTaxSavings
	RowPretaxCashFlow
	RowAfterTaxCashFlow
	RowAfterTaxNetEquityCostFlow

	RowPaybackWithExpenses
	RowCumulativePaybackWithExpenses
	RowPaybackWithoutExpenses
	RowCumulativePaybackWithoutExpenses
	RowDiscountedCumulativePayback

	RowTaxInvestorShare
	RowTaxInvestorAfterTaxCashFlow
	RowTaxInvestorCumulativeNPV
	RowTaxInvestorCumulativeIRR
	RowSponsorAfterTaxCashFlow

	rowCount
)

var rowNames = [rowCount]string{
	RowEnergyNet:   "energy_net",
	RowPPAPrice:    "ppa_price",
	RowEnergyValue: "energy_value",

	RowOMFixedExpense:           "om_fixed_expense",
	RowOMProductionExpense:      "om_production_expense",
	RowOMCapacityExpense:        "om_capacity_expense",
	RowOMFuelExpense:            "om_fuel_expense",
	RowPropertyTaxAssessedValue: "property_tax_assessed_value",
	RowPropertyTaxExpense:       "property_tax_expense",
	RowInsuranceExpense:         "insurance_expense",
	RowOperatingExpenses:        "operating_expenses",
	RowDeductibleExpenses:       "deductible_expenses",

	RowReserveEquipFunding:  "reserve_equip_funding",
	RowReserveEquipRelease:  "reserve_equip_release",
	RowReserveEquipBalance:  "reserve_equip_balance",
	RowCashAvailableForDebt: "cash_available_for_debt",

	RowDebtBalance:          "debt_balance",
	RowDebtPaymentInterest:  "debt_payment_interest",
	RowDebtPaymentPrincipal: "debt_payment_principal",
	RowDebtPaymentTotal:     "debt_payment_total",
	RowDSCR:                 "dscr",
	RowReserveDebtFunding:   "reserve_debt_funding",
	RowReserveDebtDraw:      "reserve_debt_draw",
	RowReserveDebtRelease:   "reserve_debt_release",
	RowReserveDebtBalance:   "reserve_debt_balance",
	RowReserveOMBalance:     "reserve_om_balance",
	RowReserveOMRelease:     "reserve_om_release",
	RowReserveInterest:      "reserve_interest",

	RowIBIFedAmt: "ibi_fed_amt",
	RowIBIStaAmt: "ibi_sta_amt",
	RowIBIUtiAmt: "ibi_uti_amt",
	RowIBIOthAmt: "ibi_oth_amt",
	RowIBIFedPer: "ibi_fed_per",
	RowIBIStaPer: "ibi_sta_per",
	RowIBIUtiPer: "ibi_uti_per",
	RowIBIOthPer: "ibi_oth_per",
	RowIBITotal:  "ibi_total",

	RowCBIFed:   "cbi_fed",
	RowCBISta:   "cbi_sta",
	RowCBIUti:   "cbi_uti",
	RowCBIOth:   "cbi_oth",
	RowCBITotal: "cbi_total",

	RowPBIFed:   "pbi_fed",
	RowPBISta:   "pbi_sta",
	RowPBIUti:   "pbi_uti",
	RowPBIOth:   "pbi_oth",
	RowPBITotal: "pbi_total",

	RowPTCFed: "ptc_fed",
	RowPTCSta: "ptc_sta",

	RowITCFedAmt:   "itc_fed_amt",
	RowITCFedPer:   "itc_fed_per",
	RowITCFedTotal: "itc_fed_total",
	RowITCStaAmt:   "itc_sta_amt",
	RowITCStaPer:   "itc_sta_per",
	RowITCStaTotal: "itc_sta_total",

	RowStaDeprSched:                     "sta_depr_sched",
	RowStaDepreciation:                  "sta_depreciation",
	RowStaTaxableIncomeLessDeductions:   "sta_taxable_income_less_deductions",
	RowStaIncentiveIncomeLessDeductions: "sta_incentive_income_less_deductions",
	RowStaTaxSavings:                    "sta_tax_savings",

	RowFedDeprSched:                     "fed_depr_sched",
	RowFedDepreciation:                  "fed_depreciation",
	RowFedTaxableIncomeLessDeductions:   "fed_taxable_income_less_deductions",
	RowFedIncentiveIncomeLessDeductions: "fed_incentive_income_less_deductions",
	RowFedTaxSavings:                    "fed_tax_savings",

	RowStaAndFedTaxSavings:       "sta_and_fed_tax_savings",
	RowPretaxCashFlow:            "pretax_cash_flow",
	RowAfterTaxCashFlow:          "after_tax_cash_flow",
	RowAfterTaxNetEquityCostFlow: "after_tax_net_equity_cost_flow",

	RowPaybackWithExpenses:              "payback_with_expenses",
	RowCumulativePaybackWithExpenses:    "cumulative_payback_with_expenses",
	RowPaybackWithoutExpenses:           "payback_without_expenses",
	RowCumulativePaybackWithoutExpenses: "cumulative_payback_without_expenses",
	RowDiscountedCumulativePayback:      "discounted_cumulative_payback",

	RowTaxInvestorShare:            "tax_investor_share",
	RowTaxInvestorAfterTaxCashFlow: "tax_investor_after_tax_cash_flow",
	RowTaxInvestorCumulativeNPV:    "tax_investor_cumulative_npv",
	RowTaxInvestorCumulativeIRR:    "tax_investor_cumulative_irr",
	RowSponsorAfterTaxCashFlow:     "sponsor_after_tax_cash_flow",
}

func (r Row) String() string {
	if r < 0 || r >= rowCount {
		return fmt.Sprintf("row(%d)", int(r))
	}
	return rowNames[r]
}

// ArrayName is the result-table key of the row.
func (r Row) ArrayName() string {
	return "cf_" + r.String()
}

// AllRows returns every row in reporting order.
func AllRows() []Row {
	rows := make([]Row, rowCount)
	for i := range rows {
		rows[i] = Row(i)
	}
	return rows
}

var (
	ibiAmtRows = map[models.Source]Row{
		models.SourceFederal: RowIBIFedAmt, models.SourceState: RowIBIStaAmt,
		models.SourceUtility: RowIBIUtiAmt, models.SourceOther: RowIBIOthAmt,
	}
	ibiPerRows = map[models.Source]Row{
		models.SourceFederal: RowIBIFedPer, models.SourceState: RowIBIStaPer,
		models.SourceUtility: RowIBIUtiPer, models.SourceOther: RowIBIOthPer,
	}
	cbiRows = map[models.Source]Row{
		models.SourceFederal: RowCBIFed, models.SourceState: RowCBISta,
		models.SourceUtility: RowCBIUti, models.SourceOther: RowCBIOth,
	}
	pbiRows = map[models.Source]Row{
		models.SourceFederal: RowPBIFed, models.SourceState: RowPBISta,
		models.SourceUtility: RowPBIUti, models.SourceOther: RowPBIOth,
	}
)

// taxRows groups the per-jurisdiction rows.
type taxRows struct {
	PTC, ITCAmt, ITCPer, ITCTotal                                   Row
	DeprSched, Depreciation, TaxableIncome, IncentiveIncome, Savings Row
}

var jurisdictionRows = map[models.Jurisdiction]taxRows{
	models.State: {
		PTC: RowPTCSta, ITCAmt: RowITCStaAmt, ITCPer: RowITCStaPer, ITCTotal: RowITCStaTotal,
		DeprSched: RowStaDeprSched, Depreciation: RowStaDepreciation,
		TaxableIncome:   RowStaTaxableIncomeLessDeductions,
		IncentiveIncome: RowStaIncentiveIncomeLessDeductions,
		Savings:         RowStaTaxSavings,
	},
	models.Federal: {
		PTC: RowPTCFed, ITCAmt: RowITCFedAmt, ITCPer: RowITCFedPer, ITCTotal: RowITCFedTotal,
		DeprSched: RowFedDeprSched, Depreciation: RowFedDepreciation,
		TaxableIncome:   RowFedTaxableIncomeLessDeductions,
		IncentiveIncome: RowFedIncentiveIncomeLessDeductions,
		Savings:         RowFedTaxSavings,
	},
}
