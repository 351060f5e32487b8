package alert

import (
	"fmt"

	"github.com/fincast/fincast/internal/analytics"
	"github.com/fincast/fincast/internal/finance"
)

// CheckRevenueDrop scans every consecutive revenue pair for growth at or
// below the drop threshold and raises one alert per drop.
func (e *Evaluator) CheckRevenueDrop(revenue analytics.Series) []Alert {
	var alerts []Alert
	for i := 1; i < len(revenue); i++ {
		previous := revenue[i-1].Value
		current := revenue[i].Value
		growth := finance.GrowthRate(current, previous)
		if growth > e.thresholds.RevenueDropPercent {
			continue
		}

		severity := SeverityHigh
		if growth <= revenueCriticalPercent {
			severity = SeverityCritical
		}

		a := e.newAlert(TypeRevenueDrop, severity,
			"Revenue drop",
			fmt.Sprintf("Revenue fell %.1f%% in %s", -growth, revenue[i].Period.Format("2006-01")))
		a.Previous = previous
		a.Current = current
		a.ChangePercent = growth
		alerts = append(alerts, a)
	}
	return alerts
}
