// Package analytics provides the shared types and error taxonomy for the
// financial analytics packages (stats, forecast, alert).
package analytics

import (
	"time"

	"github.com/fincast/fincast/internal/analytics/stats"
)

// Point represents a single financial observation: the period it belongs to
// and its value. This is the common type consumed by every analytics package.
type Point struct {
	Period time.Time `json:"period"`
	Value  float64   `json:"value"`
}

// Series is an ordered collection of points, ascending by period with no
// duplicates. Series are owned by the caller and never mutated by the engine.
type Series []Point

// Values extracts just the values from the series
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value
	}
	return values
}

// Periods extracts just the periods from the series
func (s Series) Periods() []time.Time {
	periods := make([]time.Time, len(s))
	for i, p := range s {
		periods[i] = p.Period
	}
	return periods
}

// Len returns the number of observations
func (s Series) Len() int {
	return len(s)
}

// Mean calculates the mean of all values
func (s Series) Mean() float64 {
	return stats.Mean(s.Values())
}

// StdDev calculates the population standard deviation of all values
func (s Series) StdDev() float64 {
	return stats.StdDev(s.Values())
}
