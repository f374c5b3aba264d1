package dist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoissonPMFSumsToOne(t *testing.T) {
	for _, lambda := range []float64{0.5, 1.3, 2.8, 5.0} {
		sum := 0.0
		for k := 0; k <= 60; k++ {
			sum += PoissonPMF(k, lambda)
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "lambda=%v", lambda)
	}
}

func TestPoissonPMFEdgeCases(t *testing.T) {
	assert.Equal(t, 0.0, PoissonPMF(-1, 1.5))
	assert.Equal(t, 1.0, PoissonPMF(0, 0))
	assert.Equal(t, 0.0, PoissonPMF(3, 0))
}

func TestPoissonCDFMatchesPMFSum(t *testing.T) {
	lambda := 2.5
	sum := 0.0
	for k := 0; k <= 4; k++ {
		sum += PoissonPMF(k, lambda)
	}
	assert.InDelta(t, sum, PoissonCDF(4, lambda), 1e-9)
}

func TestNegBinomParams(t *testing.T) {
	r, p := NegBinomParams(10, 2.5)
	assert.InDelta(t, 0.2, p, 1e-9)
	// Mean of NB(r, p) with this parameterisation is r(1-p)/p.
	assert.InDelta(t, 10.0, r*(1-p)/p, 1e-9)
}

func TestNegBinomPMFSumsToOne(t *testing.T) {
	r, p := NegBinomParams(9.5, 2.5)
	sum := 0.0
	for k := 0; k <= 300; k++ {
		sum += NegBinomPMF(k, r, p)
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestNegBinomOverdispersed(t *testing.T) {
	// Variance r(1-p)/p^2 must exceed the mean.
	r, p := NegBinomParams(10, 2.5)
	variance := r * (1 - p) / (p * p)
	assert.Greater(t, variance, 10.0)
}

func TestOverProbMonotonicInLine(t *testing.T) {
	assert.Greater(t, OverProbPoisson(2.5, 3.0), OverProbPoisson(3.5, 3.0))
	assert.Greater(t, OverProbNegBinom(8.5, 10, 2.5), OverProbNegBinom(10.5, 10, 2.5))
}

func TestOverProbMonotonicInMean(t *testing.T) {
	assert.Greater(t, OverProbPoisson(2.5, 3.5), OverProbPoisson(2.5, 2.0))
	assert.Greater(t, OverProbNegBinom(9.5, 12, 2.5), OverProbNegBinom(9.5, 8, 2.5))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 2.0, Clamp(1.0, 2, 9))
	assert.Equal(t, 9.0, Clamp(12.0, 2, 9))
	assert.Equal(t, 5.0, Clamp(5.0, 2, 9))
}
