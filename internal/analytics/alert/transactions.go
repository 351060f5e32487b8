package alert

import (
	"fmt"
	"math"

	"github.com/fincast/fincast/internal/analytics"
	"github.com/fincast/fincast/internal/analytics/stats"
)

const (
	// minTransactions is the smallest sample that supports the outlier
	// estimate.
	minTransactions = 10

	// maxOutlierSamples bounds how many example amounts one alert carries.
	maxOutlierSamples = 5
)

// CheckUnusualTransactions flags amounts deviating more than the configured
// number of population standard deviations from the mean. Fewer than ten
// transactions return an InsufficientDataError.
func (e *Evaluator) CheckUnusualTransactions(amounts []float64) ([]Alert, error) {
	if len(amounts) < minTransactions {
		return nil, &analytics.InsufficientDataError{Required: minTransactions, Actual: len(amounts)}
	}

	mean := stats.Mean(amounts)
	stdDev := stats.StdDev(amounts)
	limit := e.thresholds.OutlierStdDevs * stdDev

	var outliers []float64
	for _, amount := range amounts {
		if math.Abs(amount-mean) > limit {
			outliers = append(outliers, amount)
		}
	}
	if len(outliers) == 0 {
		return nil, nil
	}

	samples := outliers
	if len(samples) > maxOutlierSamples {
		samples = samples[:maxOutlierSamples]
	}

	a := e.newAlert(TypeUnusualTransactions, SeverityMedium,
		"Unusual transactions",
		fmt.Sprintf("%d transaction(s) deviate more than %.0f standard deviations from the mean",
			len(outliers), e.thresholds.OutlierStdDevs))
	a.OutlierCount = len(outliers)
	a.Outliers = samples
	return []Alert{a}, nil
}
