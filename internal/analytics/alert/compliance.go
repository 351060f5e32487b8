package alert

import (
	"fmt"
	"time"
)

// CheckVATCompliance evaluates the registration and filing state as of the
// given time. Charging VAT while unregistered and an overdue return are
// independent findings.
func (e *Evaluator) CheckVATCompliance(status VATStatus, asOf time.Time) []Alert {
	var alerts []Alert

	if !status.Registered && status.ChargeableAmount > 0 {
		a := e.newAlert(TypeVATCompliance, SeverityCritical,
			"VAT charged while unregistered",
			fmt.Sprintf("%.2f of chargeable VAT with no active registration", status.ChargeableAmount))
		a.Value = status.ChargeableAmount
		alerts = append(alerts, a)
	}

	if status.ReturnDueDate != nil && asOf.After(*status.ReturnDueDate) {
		a := e.newAlert(TypeVATCompliance, SeverityHigh,
			"VAT return overdue",
			fmt.Sprintf("Return was due %s", status.ReturnDueDate.Format("2006-01-02")))
		a.DueDate = status.ReturnDueDate
		alerts = append(alerts, a)
	}

	return alerts
}
