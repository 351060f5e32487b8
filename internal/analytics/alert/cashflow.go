package alert

import (
	"fmt"

	"github.com/fincast/fincast/internal/analytics"
)

// CheckCashFlow raises at most one alert per series: a below-minimum latest
// value takes precedence over a declining trend.
func (e *Evaluator) CheckCashFlow(cashFlow analytics.Series) []Alert {
	if len(cashFlow) == 0 {
		return nil
	}

	latest := cashFlow[len(cashFlow)-1].Value
	if latest < e.thresholds.MinCashFlow {
		severity := SeverityHigh
		if latest < cashFlowCriticalLevel {
			severity = SeverityCritical
		}

		a := e.newAlert(TypeCashFlow, severity,
			"Cash flow below minimum",
			fmt.Sprintf("Latest net cash flow %.2f is below the %.2f minimum",
				latest, e.thresholds.MinCashFlow))
		a.Value = latest
		return []Alert{a}
	}

	if decliningTrend(cashFlow) {
		a := e.newAlert(TypeCashFlow, SeverityMedium,
			"Declining cash flow",
			"Net cash flow declined for three consecutive periods")
		a.Value = latest
		return []Alert{a}
	}

	return nil
}

// decliningTrend reports whether the last three values strictly decrease
func decliningTrend(series analytics.Series) bool {
	n := len(series)
	if n < 3 {
		return false
	}
	return series[n-3].Value > series[n-2].Value && series[n-2].Value > series[n-1].Value
}
