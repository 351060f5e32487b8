package alert

import (
	"fmt"

	"github.com/fincast/fincast/internal/finance"
)

// CheckCostIncreases compares each category's latest period against the
// one before it and flags growth at or above the increase threshold.
// Earlier history is ignored; only the newest movement matters here.
func (e *Evaluator) CheckCostIncreases(costs []CategorySeries) []Alert {
	var alerts []Alert
	for _, cost := range costs {
		n := len(cost.Series)
		if n < 2 {
			continue
		}

		previous := cost.Series[n-2].Value
		current := cost.Series[n-1].Value
		growth := finance.GrowthRate(current, previous)
		if growth < e.thresholds.CostIncreasePercent {
			continue
		}

		severity := SeverityHigh
		if growth >= costCriticalPercent {
			severity = SeverityCritical
		}

		a := e.newAlert(TypeCostIncrease, severity,
			fmt.Sprintf("Cost increase: %s", cost.Category),
			fmt.Sprintf("%s costs rose %.1f%% against the previous period", cost.Category, growth))
		a.Category = cost.Category
		a.Previous = previous
		a.Current = current
		a.ChangePercent = growth
		alerts = append(alerts, a)
	}
	return alerts
}
