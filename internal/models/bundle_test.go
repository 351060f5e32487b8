package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fincast/fincast/internal/analytics/alert"
)

func TestBundleDocument_ToBundle_Full(t *testing.T) {
	raw := `{
		"budget_lines": [
			{"category": "marketing", "budgeted": 5000, "actual": 6200}
		],
		"revenue": {
			"points": [
				{"period": "2025-01", "value": 12000},
				{"period": "2025-02", "value": 10000}
			]
		},
		"costs": [
			{"category": "payroll", "series": {"points": [
				{"period": "2025-01", "value": 8000},
				{"period": "2025-02", "value": 8100}
			]}},
			{"category": "hosting", "series": {"points": [
				{"period": "2025-01", "value": 400},
				{"period": "2025-02", "value": 620}
			]}}
		],
		"cash_flow": {
			"points": [{"period": "2025-02", "value": -1500}]
		},
		"margins": {
			"points": [
				{"period": "2025-01", "value": 33.3},
				{"period": "2025-02", "value": 19.0}
			]
		},
		"transactions": [100, 102.5, 98, 2500],
		"vat": {
			"registered": true,
			"chargeable_amount": 600,
			"return_due_date": "2025-03-31"
		}
	}`

	var doc BundleDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("Failed to unmarshal document: %v", err)
	}

	bundle, err := doc.ToBundle()
	assert.NoError(t, err)

	assert.Len(t, bundle.BudgetLines, 1)
	assert.Equal(t, "marketing", bundle.BudgetLines[0].Category)
	assert.Equal(t, 6200.0, bundle.BudgetLines[0].Actual)

	assert.Len(t, bundle.Revenue, 2)
	assert.Equal(t, 12000.0, bundle.Revenue[0].Value)

	// Cost categories keep document order.
	assert.Len(t, bundle.Costs, 2)
	assert.Equal(t, "payroll", bundle.Costs[0].Category)
	assert.Equal(t, "hosting", bundle.Costs[1].Category)

	assert.Len(t, bundle.CashFlow, 1)
	assert.Equal(t, -1500.0, bundle.CashFlow[0].Value)

	assert.Equal(t, []float64{100, 102.5, 98, 2500}, bundle.Transactions)

	if assert.NotNil(t, bundle.VAT) {
		assert.True(t, bundle.VAT.Registered)
		assert.Equal(t, 600.0, bundle.VAT.ChargeableAmount)
		if assert.NotNil(t, bundle.VAT.ReturnDueDate) {
			assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), *bundle.VAT.ReturnDueDate)
		}
	}
}

func TestBundleDocument_ToBundle_Empty(t *testing.T) {
	var doc BundleDocument

	assert.True(t, doc.IsEmpty())

	bundle, err := doc.ToBundle()
	assert.NoError(t, err)
	assert.Empty(t, bundle.BudgetLines)
	assert.Empty(t, bundle.Revenue)
	assert.Nil(t, bundle.VAT)
}

func TestBundleDocument_VATWithoutDueDate(t *testing.T) {
	doc := BundleDocument{
		VAT: &VATStatusDocument{Registered: false, ChargeableAmount: 150},
	}

	bundle, err := doc.ToBundle()
	assert.NoError(t, err)
	if assert.NotNil(t, bundle.VAT) {
		assert.Nil(t, bundle.VAT.ReturnDueDate)
		assert.Equal(t, 150.0, bundle.VAT.ChargeableAmount)
	}
}

func TestBundleDocument_Validate(t *testing.T) {
	tests := []struct {
		name          string
		doc           BundleDocument
		errorContains string
	}{
		{
			name: "missing budget category",
			doc: BundleDocument{
				BudgetLines: []BudgetLineDocument{{Budgeted: 100, Actual: 120}},
			},
			errorContains: "budget_lines[0].category",
		},
		{
			name: "empty revenue series",
			doc: BundleDocument{
				Revenue: &SeriesDocument{},
			},
			errorContains: "revenue:",
		},
		{
			name: "missing cost category",
			doc: BundleDocument{
				Costs: []CategorySeriesDocument{{
					Series: SeriesDocument{Points: []PointDocument{{Period: "2025-01", Value: 1}}},
				}},
			},
			errorContains: "costs[0].category",
		},
		{
			name: "bad cost series",
			doc: BundleDocument{
				Costs: []CategorySeriesDocument{{
					Category: "payroll",
					Series:   SeriesDocument{Points: []PointDocument{{Period: "bad", Value: 1}}},
				}},
			},
			errorContains: "costs[0]:",
		},
		{
			name: "non-numeric transaction",
			doc: BundleDocument{
				Transactions: []interface{}{100, "refund", 200},
			},
			errorContains: "transactions[1]",
		},
		{
			name: "bad vat due date",
			doc: BundleDocument{
				VAT: &VATStatusDocument{Registered: true, ReturnDueDate: "end of March"},
			},
			errorContains: "vat.return_due_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.errorContains)
			}
		})
	}
}

func TestBundleDocument_ValidationErrorSurvivesWrapping(t *testing.T) {
	doc := BundleDocument{
		Revenue: &SeriesDocument{Points: []PointDocument{{Period: "2025-01", Value: "oops"}}},
	}

	err := doc.Validate()
	assert.Error(t, err)

	var vErr *ValidationError
	if assert.True(t, errors.As(err, &vErr)) {
		assert.Equal(t, "points[0].value", vErr.Field)
	}
}

func TestBundleDocument_FeedsEvaluator(t *testing.T) {
	doc := BundleDocument{
		Revenue: &SeriesDocument{Points: []PointDocument{
			{Period: "2025-01", Value: 10000},
			{Period: "2025-02", Value: 7000},
		}},
	}

	bundle, err := doc.ToBundle()
	assert.NoError(t, err)

	summary := alert.NewDefaultEvaluator().EvaluateAll(bundle)
	if assert.Len(t, summary.Alerts, 1) {
		assert.Equal(t, alert.TypeRevenueDrop, summary.Alerts[0].Type)
		assert.Equal(t, alert.SeverityCritical, summary.Alerts[0].Severity)
	}
}
