package alert

import (
	"fmt"

	"github.com/fincast/fincast/internal/analytics"
)

// CheckMarginDeterioration scans every consecutive margin pair for drops at
// or below the threshold. Margins are percentages already, so changes are
// point differences rather than growth rates.
func (e *Evaluator) CheckMarginDeterioration(margins analytics.Series) []Alert {
	var alerts []Alert
	for i := 1; i < len(margins); i++ {
		previous := margins[i-1].Value
		current := margins[i].Value
		change := current - previous
		if change > e.thresholds.MarginDropPoints {
			continue
		}

		severity := SeverityHigh
		if change <= marginCriticalPoints {
			severity = SeverityCritical
		}

		a := e.newAlert(TypeMarginDeterioration, severity,
			"Margin deterioration",
			fmt.Sprintf("Profit margin fell %.1f points in %s", -change, margins[i].Period.Format("2006-01")))
		a.Previous = previous
		a.Current = current
		a.ChangePoints = change
		alerts = append(alerts, a)
	}
	return alerts
}
