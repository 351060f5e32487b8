package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fincast/fincast/internal/analytics"
)

// Severity ranks how urgent an alert is
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// severityRanks orders severities for threshold comparisons
var severityRanks = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank returns the numeric order of a severity, 0 for unknown values
func (s Severity) Rank() int {
	return severityRanks[s]
}

// AtLeast reports whether s is at least as urgent as min
func (s Severity) AtLeast(min Severity) bool {
	return s.Rank() >= min.Rank()
}

// ParseSeverity maps a case-insensitive severity name to its constant
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CRITICAL":
		return SeverityCritical, nil
	case "HIGH":
		return SeverityHigh, nil
	case "MEDIUM":
		return SeverityMedium, nil
	case "LOW":
		return SeverityLow, nil
	default:
		return "", fmt.Errorf("unknown severity: %q", s)
	}
}

// Type identifies which rule raised an alert
type Type string

const (
	TypeBudgetOverrun       Type = "budget_overrun"
	TypeRevenueDrop         Type = "revenue_drop"
	TypeCostIncrease        Type = "cost_increase"
	TypeCashFlow            Type = "cash_flow"
	TypeMarginDeterioration Type = "margin_deterioration"
	TypeUnusualTransactions Type = "unusual_transactions"
	TypeVATCompliance       Type = "vat_compliance"
)

// Alert represents a single detected deviation. Rules populate only the
// numeric fields that apply to them.
type Alert struct {
	ID              string     `json:"id"`
	Type            Type       `json:"type"`
	Severity        Severity   `json:"severity"`
	Title           string     `json:"title"`
	Message         string     `json:"message"`
	Category        string     `json:"category,omitempty"`
	Budgeted        float64    `json:"budgeted,omitempty"`
	Actual          float64    `json:"actual,omitempty"`
	Variance        float64    `json:"variance,omitempty"`
	VariancePercent float64    `json:"variance_percent,omitempty"`
	Previous        float64    `json:"previous,omitempty"`
	Current         float64    `json:"current,omitempty"`
	ChangePercent   float64    `json:"change_percent,omitempty"`
	ChangePoints    float64    `json:"change_points,omitempty"`
	Value           float64    `json:"value,omitempty"`
	OutlierCount    int        `json:"outlier_count,omitempty"`
	Outliers        []float64  `json:"outliers,omitempty"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// BudgetLine pairs a category's budgeted and actual spend
type BudgetLine struct {
	Category string  `json:"category"`
	Budgeted float64 `json:"budgeted"`
	Actual   float64 `json:"actual"`
}

// CategorySeries is a named cost series
type CategorySeries struct {
	Category string           `json:"category"`
	Series   analytics.Series `json:"series"`
}

// VATStatus describes the registration and filing state scanned by the
// compliance rule
type VATStatus struct {
	Registered       bool       `json:"registered"`
	ChargeableAmount float64    `json:"chargeable_amount"`
	ReturnDueDate    *time.Time `json:"return_due_date,omitempty"`
}

// Bundle carries everything EvaluateAll scans
type Bundle struct {
	BudgetLines  []BudgetLine     `json:"budget_lines,omitempty"`
	Revenue      analytics.Series `json:"revenue,omitempty"`
	Costs        []CategorySeries `json:"costs,omitempty"`
	CashFlow     analytics.Series `json:"cash_flow,omitempty"`
	Margins      analytics.Series `json:"margins,omitempty"`
	Transactions []float64        `json:"transactions,omitempty"`
	VAT          *VATStatus       `json:"vat,omitempty"`
}

// Thresholds holds the tunable trigger levels for the alert rules
type Thresholds struct {
	BudgetWarningPercent  float64 // budget variance percent for HIGH
	BudgetCriticalPercent float64 // budget variance percent for CRITICAL
	RevenueDropPercent    float64 // period growth at or below triggers (negative)
	CostIncreasePercent   float64 // period growth at or above triggers
	MinCashFlow           float64 // latest net cash flow below this triggers
	MarginDropPoints      float64 // margin change at or below triggers (negative)
	OutlierStdDevs        float64 // deviations beyond this many std devs are outliers
}

// DefaultThresholds returns the standard rule thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		BudgetWarningPercent:  10,
		BudgetCriticalPercent: 20,
		RevenueDropPercent:    -10,
		CostIncreasePercent:   15,
		MinCashFlow:           0,
		MarginDropPoints:      -5,
		OutlierStdDevs:        2,
	}
}

// Severity escalation cutoffs, fixed independently of the tunable thresholds.
const (
	revenueCriticalPercent = -25.0
	costCriticalPercent    = 40.0
	cashFlowCriticalLevel  = -10000.0
	marginCriticalPoints   = -15.0
)

// Summary aggregates the alerts of one evaluation pass
type Summary struct {
	Alerts      []Alert          `json:"alerts"`
	Counts      map[Severity]int `json:"counts"`
	MostUrgent  *Alert           `json:"most_urgent,omitempty"`
	Trend       string           `json:"trend"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// Evaluator runs the alert rules with a fixed set of thresholds
type Evaluator struct {
	thresholds Thresholds
	now        func() time.Time
}

// NewEvaluator creates an evaluator with the given thresholds
func NewEvaluator(thresholds Thresholds) *Evaluator {
	return &Evaluator{
		thresholds: thresholds,
		now:        time.Now,
	}
}

// NewDefaultEvaluator creates an evaluator with DefaultThresholds
func NewDefaultEvaluator() *Evaluator {
	return NewEvaluator(DefaultThresholds())
}

// WithClock overrides the evaluator's time source. Used by the compliance
// rule and for alert timestamps.
func (e *Evaluator) WithClock(now func() time.Time) *Evaluator {
	e.now = now
	return e
}

// newAlert stamps identity and creation time onto a fresh alert
func (e *Evaluator) newAlert(alertType Type, severity Severity, title, message string) Alert {
	return Alert{
		ID:        uuid.NewString(),
		Type:      alertType,
		Severity:  severity,
		Title:     title,
		Message:   message,
		CreatedAt: e.now(),
	}
}

// EvaluateAll runs every rule over the bundle in a fixed order and
// aggregates the results. The transaction rule is skipped when the bundle
// holds too few samples; the remaining rules still run.
func (e *Evaluator) EvaluateAll(bundle Bundle) Summary {
	var alerts []Alert

	alerts = append(alerts, e.CheckBudgetOverruns(bundle.BudgetLines)...)
	alerts = append(alerts, e.CheckRevenueDrop(bundle.Revenue)...)
	alerts = append(alerts, e.CheckCostIncreases(bundle.Costs)...)
	alerts = append(alerts, e.CheckCashFlow(bundle.CashFlow)...)
	alerts = append(alerts, e.CheckMarginDeterioration(bundle.Margins)...)

	if txAlerts, err := e.CheckUnusualTransactions(bundle.Transactions); err == nil {
		alerts = append(alerts, txAlerts...)
	}

	if bundle.VAT != nil {
		alerts = append(alerts, e.CheckVATCompliance(*bundle.VAT, e.now())...)
	}

	return e.Summarize(alerts)
}

// Summarize groups alerts by severity, picks the most urgent one and labels
// a trend bucket. The trend comes from the alert count alone, not from any
// historical comparison.
func (e *Evaluator) Summarize(alerts []Alert) Summary {
	counts := map[Severity]int{
		SeverityCritical: 0,
		SeverityHigh:     0,
		SeverityMedium:   0,
		SeverityLow:      0,
	}
	for _, a := range alerts {
		counts[a.Severity]++
	}

	var mostUrgent *Alert
	for i := range alerts {
		if alerts[i].Severity == SeverityCritical {
			urgent := alerts[i]
			mostUrgent = &urgent
			break
		}
	}
	if mostUrgent == nil && len(alerts) > 0 {
		urgent := alerts[0]
		mostUrgent = &urgent
	}

	trend := "stable"
	switch {
	case len(alerts) > 10:
		trend = "increasing"
	case len(alerts) > 5:
		trend = "moderate"
	case len(alerts) > 0:
		trend = "low"
	}

	return Summary{
		Alerts:      alerts,
		Counts:      counts,
		MostUrgent:  mostUrgent,
		Trend:       trend,
		GeneratedAt: e.now(),
	}
}
