package alert

import (
	"fmt"

	"github.com/fincast/fincast/internal/finance"
)

// CheckBudgetOverruns flags every budget line whose actual spend exceeds
// its budget. Severity follows the variance percentage; a zero budget
// yields a zero variance percentage and stays MEDIUM.
func (e *Evaluator) CheckBudgetOverruns(lines []BudgetLine) []Alert {
	var alerts []Alert
	for _, line := range lines {
		if line.Actual <= line.Budgeted {
			continue
		}

		variance := line.Actual - line.Budgeted
		variancePercent := finance.GrowthRate(line.Actual, line.Budgeted)

		severity := SeverityMedium
		switch {
		case variancePercent >= e.thresholds.BudgetCriticalPercent:
			severity = SeverityCritical
		case variancePercent >= e.thresholds.BudgetWarningPercent:
			severity = SeverityHigh
		}

		a := e.newAlert(TypeBudgetOverrun, severity,
			fmt.Sprintf("Budget overrun: %s", line.Category),
			fmt.Sprintf("%s spend %.2f exceeds budget %.2f by %.1f%%",
				line.Category, line.Actual, line.Budgeted, variancePercent))
		a.Category = line.Category
		a.Budgeted = line.Budgeted
		a.Actual = line.Actual
		a.Variance = variance
		a.VariancePercent = variancePercent
		alerts = append(alerts, a)
	}
	return alerts
}
