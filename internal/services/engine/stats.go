package engine

import "math"

// linearFit holds the closed-form OLS solution for y = slope*x + intercept.
type linearFit struct {
	Slope     float64
	Intercept float64
	R2        float64
}

// fitLine computes an ordinary-least-squares line over (xs, ys).
// Returns (fit, false) when the fit is degenerate: fewer than 2 points,
// mismatched lengths, or all x values identical.
func fitLine(xs, ys []float64) (linearFit, bool) {
	n := float64(len(xs))
	if len(xs) < 2 || len(xs) != len(ys) {
		return linearFit{}, false
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumX2 += xs[i] * xs[i]
	}

	denom := n*sumX2 - sumX*sumX
	if math.Abs(denom) < 1e-10 {
		return linearFit{}, false
	}

	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	// R² = 1 - SSres/SStot; a flat series has SStot = 0 and fits perfectly.
	meanY := sumY / n
	var ssRes, ssTot float64
	for i := range xs {
		pred := slope*xs[i] + intercept
		ssRes += (ys[i] - pred) * (ys[i] - pred)
		ssTot += (ys[i] - meanY) * (ys[i] - meanY)
	}
	r2 := 1.0
	if ssTot > 1e-10 {
		r2 = 1 - ssRes/ssTot
	}
	if r2 < 0 {
		r2 = 0
	}

	return linearFit{Slope: slope, Intercept: intercept, R2: r2}, true
}

// At evaluates the fitted line at x.
func (f linearFit) At(x float64) float64 {
	return f.Slope*x + f.Intercept
}

// mean computes the arithmetic mean; 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStddev computes sample standard deviation (n-1 denominator).
func sampleStddev(xs []float64, m float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// coefficientOfVariation is stddev/mean; 0 when the mean is 0.
func coefficientOfVariation(xs []float64) float64 {
	m := mean(xs)
	if m == 0 {
		return 0
	}
	return sampleStddev(xs, m) / m
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round2 rounds to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
