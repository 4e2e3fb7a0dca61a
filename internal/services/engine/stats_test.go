package engine

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFitLineKnownValues(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{1, 3, 5, 7} // y = 2x + 1
	fit, ok := fitLine(xs, ys)
	if !ok {
		t.Fatalf("expected fit")
	}
	if !almostEqual(fit.Slope, 2) {
		t.Fatalf("slope = %v, want 2", fit.Slope)
	}
	if !almostEqual(fit.Intercept, 1) {
		t.Fatalf("intercept = %v, want 1", fit.Intercept)
	}
	if !almostEqual(fit.R2, 1) {
		t.Fatalf("r2 = %v, want 1", fit.R2)
	}
	if !almostEqual(fit.At(10), 21) {
		t.Fatalf("At(10) = %v, want 21", fit.At(10))
	}
}

func TestFitLineNoisyR2(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}
	ys := []float64{1, 4, 2, 6, 3}
	fit, ok := fitLine(xs, ys)
	if !ok {
		t.Fatalf("expected fit")
	}
	if fit.R2 < 0 || fit.R2 > 1 {
		t.Fatalf("r2 out of range: %v", fit.R2)
	}
	if fit.R2 >= 0.99 {
		t.Fatalf("noisy series should not fit perfectly, r2=%v", fit.R2)
	}
}

func TestFitLineDegenerate(t *testing.T) {
	if _, ok := fitLine([]float64{1}, []float64{1}); ok {
		t.Fatalf("single point should not fit")
	}
	if _, ok := fitLine([]float64{2, 2, 2}, []float64{1, 2, 3}); ok {
		t.Fatalf("identical x values should not fit")
	}
	if _, ok := fitLine([]float64{1, 2}, []float64{1}); ok {
		t.Fatalf("mismatched lengths should not fit")
	}
}

func TestMeanAndStddev(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	m := mean(xs)
	if !almostEqual(m, 5) {
		t.Fatalf("mean = %v, want 5", m)
	}
	sd := sampleStddev(xs, m)
	if math.Abs(sd-2.138) > 0.001 {
		t.Fatalf("stddev = %v, want ~2.138", sd)
	}
	if mean(nil) != 0 {
		t.Fatalf("mean of empty should be 0")
	}
	if sampleStddev([]float64{1}, 1) != 0 {
		t.Fatalf("stddev of single sample should be 0")
	}
}

func TestCoefficientOfVariation(t *testing.T) {
	if cv := coefficientOfVariation([]float64{5, 5, 5, 5}); !almostEqual(cv, 0) {
		t.Fatalf("constant series cv = %v, want 0", cv)
	}
	if cv := coefficientOfVariation([]float64{0, 0, 0}); cv != 0 {
		t.Fatalf("zero-mean cv = %v, want 0 guard", cv)
	}
	cv := coefficientOfVariation([]float64{1, 9})
	if cv <= 0 {
		t.Fatalf("variable series should have positive cv, got %v", cv)
	}
}

func TestClamp(t *testing.T) {
	if clamp(5, 0, 1) != 1 {
		t.Fatalf("clamp above")
	}
	if clamp(-5, 0, 1) != 0 {
		t.Fatalf("clamp below")
	}
	if clamp(0.3, 0, 1) != 0.3 {
		t.Fatalf("clamp inside")
	}
}
