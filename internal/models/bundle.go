package models

import (
	"fmt"

	"github.com/fincast/fincast/internal/analytics/alert"
	"github.com/fincast/fincast/internal/utils"
)

// BudgetLineDocument pairs a category's budgeted and actual spend
type BudgetLineDocument struct {
	Category string  `json:"category"`
	Budgeted float64 `json:"budgeted"`
	Actual   float64 `json:"actual"`
}

// CategorySeriesDocument is a named cost series. Order matters: alerts are
// raised in document order.
type CategorySeriesDocument struct {
	Category string         `json:"category"`
	Series   SeriesDocument `json:"series"`
}

// VATStatusDocument describes the VAT registration and filing state
type VATStatusDocument struct {
	Registered       bool    `json:"registered"`
	ChargeableAmount float64 `json:"chargeable_amount"`
	ReturnDueDate    string  `json:"return_due_date,omitempty"`
}

// BundleDocument is the export feed's evaluation input, mirroring
// alert.Bundle with string periods and untyped numerics. All sections are
// optional; absent sections are simply not evaluated.
type BundleDocument struct {
	BudgetLines  []BudgetLineDocument     `json:"budget_lines,omitempty"`
	Revenue      *SeriesDocument          `json:"revenue,omitempty"`
	Costs        []CategorySeriesDocument `json:"costs,omitempty"`
	CashFlow     *SeriesDocument          `json:"cash_flow,omitempty"`
	Margins      *SeriesDocument          `json:"margins,omitempty"`
	Transactions []interface{}            `json:"transactions,omitempty"`
	VAT          *VATStatusDocument       `json:"vat,omitempty"`
}

// Validate checks the document without building the bundle
func (d *BundleDocument) Validate() error {
	_, err := d.ToBundle()
	return err
}

// IsEmpty reports whether the document carries nothing to evaluate
func (d *BundleDocument) IsEmpty() bool {
	return len(d.BudgetLines) == 0 &&
		d.Revenue == nil &&
		len(d.Costs) == 0 &&
		d.CashFlow == nil &&
		d.Margins == nil &&
		len(d.Transactions) == 0 &&
		d.VAT == nil
}

// ToBundle validates and converts the document into engine types
func (d *BundleDocument) ToBundle() (alert.Bundle, error) {
	var bundle alert.Bundle

	for i, line := range d.BudgetLines {
		if line.Category == "" {
			return alert.Bundle{}, &ValidationError{
				Field:   fmt.Sprintf("budget_lines[%d].category", i),
				Message: "category is required",
			}
		}
		bundle.BudgetLines = append(bundle.BudgetLines, alert.BudgetLine{
			Category: line.Category,
			Budgeted: line.Budgeted,
			Actual:   line.Actual,
		})
	}

	if d.Revenue != nil {
		series, err := d.Revenue.ToSeries()
		if err != nil {
			return alert.Bundle{}, fmt.Errorf("revenue: %w", err)
		}
		bundle.Revenue = series
	}

	for i, cost := range d.Costs {
		if cost.Category == "" {
			return alert.Bundle{}, &ValidationError{
				Field:   fmt.Sprintf("costs[%d].category", i),
				Message: "category is required",
			}
		}
		series, err := cost.Series.ToSeries()
		if err != nil {
			return alert.Bundle{}, fmt.Errorf("costs[%d]: %w", i, err)
		}
		bundle.Costs = append(bundle.Costs, alert.CategorySeries{
			Category: cost.Category,
			Series:   series,
		})
	}

	if d.CashFlow != nil {
		series, err := d.CashFlow.ToSeries()
		if err != nil {
			return alert.Bundle{}, fmt.Errorf("cash_flow: %w", err)
		}
		bundle.CashFlow = series
	}

	if d.Margins != nil {
		series, err := d.Margins.ToSeries()
		if err != nil {
			return alert.Bundle{}, fmt.Errorf("margins: %w", err)
		}
		bundle.Margins = series
	}

	for i, tx := range d.Transactions {
		value, ok := utils.ToFloat64(tx)
		if !ok {
			return alert.Bundle{}, &ValidationError{
				Field:   fmt.Sprintf("transactions[%d]", i),
				Message: fmt.Sprintf("not a numeric value: %v", tx),
			}
		}
		bundle.Transactions = append(bundle.Transactions, value)
	}

	if d.VAT != nil {
		status := alert.VATStatus{
			Registered:       d.VAT.Registered,
			ChargeableAmount: d.VAT.ChargeableAmount,
		}
		if d.VAT.ReturnDueDate != "" {
			due, err := utils.ParsePeriod(d.VAT.ReturnDueDate)
			if err != nil {
				return alert.Bundle{}, &ValidationError{
					Field:   "vat.return_due_date",
					Message: err.Error(),
				}
			}
			status.ReturnDueDate = &due
		}
		bundle.VAT = &status
	}

	return bundle, nil
}
