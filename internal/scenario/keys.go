// Package scenario maps flat named host parameters onto models.Params and
// loads scenario files that carry those parameters with an energy series.
package scenario

import (
	"sort"

	"fjacquet/levpartflip/internal/depreciation"
	"fjacquet/levpartflip/internal/models"
)

// Required keys have no default.
var required = []string{"system_nameplate"}

// intKeys must hold whole numbers.
var intKeys = map[string]bool{
	"analysis_years":         true,
	"constr_period":          true,
	"term_tenor":             true,
	"dscr_reserve":           true,
	"return_target_year":     true,
	"ppa_soln_mode":          true,
	"equip_reserve1_freq":    true,
	"equip_reserve2_freq":    true,
	"equip_reserve3_freq":    true,
	"equip_reserve_depr_sta": true,
	"equip_reserve_depr_fed": true,
}

var defaults = buildDefaults()

func buildDefaults() map[string]float64 {
	d := map[string]float64{
		"analysis_years": 30,
		"inflation":      2.5,
		"discount_real":  7,
		"sales_tax_rate": 5,

		"cost_gen_equip":      24_000_000,
		"cost_bop":            8_000_000,
		"cost_network":        3_500_000,
		"percent_contingency": 1,
		"cost_developer":      2_000_000,
		"cost_land_improve":   200_000,
		"cost_other":          75_000,
		"percent_taxable":     100,

		"om_fixed":                  0,
		"om_production":             0,
		"om_capacity":               20,
		"om_fuel_cost":              0,
		"om_escalation":             0,
		"insurance_rate":            0.5,
		"property_tax_rate":         1,
		"prop_tax_cost_assessed":    95,
		"prop_tax_assessed_decline": 5,
		"reserves_interest":         1.75,

		"equip_reserve1_cost":    0.25,
		"equip_reserve1_freq":    12,
		"equip_reserve2_cost":    0,
		"equip_reserve2_freq":    15,
		"equip_reserve3_cost":    0,
		"equip_reserve3_freq":    20,
		"equip_reserve_depr_sta": float64(depreciation.MACRS5),
		"equip_reserve_depr_fed": float64(depreciation.MACRS5),

		"constr_period":      10,
		"constr_int_rate":    4,
		"constr_upfront_fee": 1,

		"term_tenor":    10,
		"term_int_rate": 8.5,
		"dscr":          1.5,
		"dscr_reserve":  6,

		"cost_debt_closing":    250_000,
		"cost_equity_closing":  100_000,
		"cost_working_reserve": 150_000,

		"equity_tax_investor":           98,
		"preflip_sharing_tax_investor":  98,
		"postflip_sharing_tax_investor": 15,
		"return_target":                 11,
		"return_target_year":            11,

		"federal_tax_rate": 35,
		"state_tax_rate":   7,

		"depr_alloc_macrs_5":  89,
		"depr_alloc_macrs_15": 1.5,
		"depr_alloc_sl_5":     0,
		"depr_alloc_sl_15":    3,
		"depr_alloc_sl_20":    3,
		"depr_alloc_sl_39":    0.5,
		"depr_bonus_sta":      0,
		"depr_bonus_fed":      0,

		"ppa_soln_mode":  0,
		"ppa_price":      10,
		"ppa_escalation": 0,
	}

	for _, c := range depreciation.Classes() {
		flag := 0.0
		if c == depreciation.MACRS5 {
			flag = 1
		}
		for _, j := range models.Jurisdictions() {
			d["depr_bonus_"+string(j)+"_"+c.String()] = flag
			d["depr_itc_"+string(j)+"_"+c.String()] = flag
		}
	}

	for _, s := range models.Sources() {
		p := string(s)
		d["ibi_"+p+"_amount"] = 0
		d["ibi_"+p+"_percent"] = 0
		d["ibi_"+p+"_percent_maxvalue"] = 0
		d["cbi_"+p+"_amount"] = 0
		d["cbi_"+p+"_maxvalue"] = 0
		d["pbi_"+p+"_amount"] = 0
		d["pbi_"+p+"_term"] = 0
		d["pbi_"+p+"_escal"] = 0
		for _, kind := range []string{"ibi", "cbi", "pbi"} {
			d[kind+"_"+p+"_tax_fed"] = 1
			d[kind+"_"+p+"_tax_sta"] = 1
		}
		intKeys["pbi_"+p+"_term"] = true
	}

	for _, j := range models.Jurisdictions() {
		p := string(j)
		d["ptc_"+p+"_amount"] = 0
		d["ptc_"+p+"_term"] = 10
		d["ptc_"+p+"_escal"] = 0
		d["itc_"+p+"_amount"] = 0
		d["itc_"+p+"_percent"] = 0
		d["itc_"+p+"_percent_maxvalue"] = 0
		intKeys["ptc_"+p+"_term"] = true
	}
	d["itc_fed_percent"] = 30
	return d
}

// Defaults returns a copy of every defaulted parameter.
func Defaults() map[string]float64 {
	out := make(map[string]float64, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	return out
}

// Keys lists every accepted parameter name in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults)+len(required))
	for k := range defaults {
		keys = append(keys, k)
	}
	keys = append(keys, required...)
	sort.Strings(keys)
	return keys
}

func known(key string) bool {
	if _, ok := defaults[key]; ok {
		return true
	}
	for _, r := range required {
		if r == key {
			return true
		}
	}
	return false
}
