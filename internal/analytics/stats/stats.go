package stats

import "math"

// Mean calculates the arithmetic mean of values. Empty input returns 0.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev calculates the population standard deviation (denominator N, not
// N-1). Every consumer in this module depends on the population form.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// LinearTrend fits y = intercept + slope*x by ordinary least squares using
// the normal-equation closed form. When the fit is degenerate (empty input,
// mismatched lengths, or all x identical) both results are NaN; callers
// guard their inputs.
func LinearTrend(x, y []float64) (slope, intercept float64) {
	if len(x) == 0 || len(x) != len(y) {
		return math.NaN(), math.NaN()
	}

	n := float64(len(x))
	sumX := 0.0
	sumY := 0.0
	sumXY := 0.0
	sumX2 := 0.0

	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
	}

	denominator := n*sumX2 - sumX*sumX
	if denominator == 0 {
		return math.NaN(), math.NaN()
	}

	slope = (n*sumXY - sumX*sumY) / denominator
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// Correlation calculates the Pearson correlation coefficient between x and y.
// Empty input, mismatched lengths, or a zero denominator return 0 rather
// than an error.
func Correlation(x, y []float64) float64 {
	if len(x) == 0 || len(x) != len(y) {
		return 0
	}

	meanX := Mean(x)
	meanY := Mean(y)

	cov := 0.0
	varX := 0.0
	varY := 0.0
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	denominator := math.Sqrt(varX * varY)
	if denominator == 0 {
		return 0
	}
	return cov / denominator
}
