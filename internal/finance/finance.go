package finance

import "math"

// Breakdown splits an amount into its net, VAT and gross parts
type Breakdown struct {
	NetAmount   float64 `json:"net_amount"`
	VATAmount   float64 `json:"vat_amount"`
	GrossAmount float64 `json:"gross_amount"`
}

// CalculateVAT applies a VAT rate to a net amount
func CalculateVAT(netAmount, rate float64) Breakdown {
	vatAmount := netAmount * rate
	return Breakdown{
		NetAmount:   netAmount,
		VATAmount:   vatAmount,
		GrossAmount: netAmount + vatAmount,
	}
}

// GrowthRate returns the percentage change from previous to current.
// A zero previous value returns 0 so ratios stay finite downstream.
func GrowthRate(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// ProfitMargin returns profit as a percentage of revenue. Zero revenue
// returns 0.
func ProfitMargin(revenue, cost float64) float64 {
	if revenue == 0 {
		return 0
	}
	return (revenue - cost) / revenue * 100
}

// PaybackPeriod returns how many years of annual cash flow repay an
// investment. Zero annual cash flow returns +Inf rather than 0; payback
// has no stable finite fallback.
func PaybackPeriod(investment, annualCashFlow float64) float64 {
	if annualCashFlow == 0 {
		return math.Inf(1)
	}
	return investment / annualCashFlow
}
