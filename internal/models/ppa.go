package models

import "fmt"

// PPA selects how the energy price is determined. It is a closed union:
// PPASpecified or PPASolved.
type PPA interface {
	// PriceEscalation is the annual escalation of the price, in percent.
	PriceEscalation() float64
	isPPA()
}

// PPASpecified fixes the first-year price; the flip year is found by scanning.
type PPASpecified struct {
	Price      float64 // cents/kWh
	Escalation float64
}

// PPASolved asks for the first-year price at which the tax investor reaches
// TargetReturn exactly in TargetYear.
type PPASolved struct {
	TargetYear   int
	TargetReturn float64
	Escalation   float64
}

func (p PPASpecified) PriceEscalation() float64 { return p.Escalation }
func (p PPASolved) PriceEscalation() float64    { return p.Escalation }

func (PPASpecified) isPPA() {}
func (PPASolved) isPPA()    {}

// Describe renders the PPA mode for logs.
func Describe(p PPA) string {
	switch v := p.(type) {
	case PPASpecified:
		return fmt.Sprintf("specified price %.4f c/kWh, escalation %g%%", v.Price, v.Escalation)
	case PPASolved:
		return fmt.Sprintf("solve for %g%% return in year %d, escalation %g%%", v.TargetReturn, v.TargetYear, v.Escalation)
	default:
		return "unset"
	}
}

// ModeName is the short name of the PPA mode used in reports.
func ModeName(p PPA) string {
	switch p.(type) {
	case PPASpecified:
		return "specified"
	case PPASolved:
		return "solve"
	default:
		return "unset"
	}
}
