package models

import (
	"fmt"

	"github.com/fincast/fincast/internal/analytics"
	"github.com/fincast/fincast/internal/utils"
)

// ValidationError describes why a document failed validation
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PointDocument is one period-value pair from the export feed. The value
// stays untyped because the feed mixes integers and decimals freely.
type PointDocument struct {
	Period string      `json:"period"`
	Value  interface{} `json:"value"`
}

// SeriesDocument is a named time series from the export feed
type SeriesDocument struct {
	Name   string          `json:"name,omitempty"`
	Points []PointDocument `json:"points"`
}

// Validate checks the document without building the series
func (d *SeriesDocument) Validate() error {
	_, err := d.ToSeries()
	return err
}

// ToSeries validates and converts the document into an engine series.
// Periods accept monthly ("2006-01"), daily ("2006-01-02") and RFC3339
// forms; they must be strictly ascending. Values must be JSON numerics.
func (d *SeriesDocument) ToSeries() (analytics.Series, error) {
	if len(d.Points) == 0 {
		return nil, &ValidationError{Field: "points", Message: "at least one point is required"}
	}

	series := make(analytics.Series, 0, len(d.Points))
	for i, p := range d.Points {
		period, err := utils.ParsePeriod(p.Period)
		if err != nil {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("points[%d].period", i),
				Message: err.Error(),
			}
		}

		value, ok := utils.ToFloat64(p.Value)
		if !ok {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("points[%d].value", i),
				Message: fmt.Sprintf("not a numeric value: %v", p.Value),
			}
		}

		if i > 0 {
			prev := series[i-1].Period
			if period.Equal(prev) {
				return nil, &ValidationError{
					Field:   fmt.Sprintf("points[%d].period", i),
					Message: fmt.Sprintf("duplicate period %s", p.Period),
				}
			}
			if period.Before(prev) {
				return nil, &ValidationError{
					Field:   fmt.Sprintf("points[%d].period", i),
					Message: fmt.Sprintf("periods must be ascending, %s comes before %s", p.Period, utils.FormatPeriod(prev)),
				}
			}
		}

		series = append(series, analytics.Point{Period: period, Value: value})
	}

	return series, nil
}
