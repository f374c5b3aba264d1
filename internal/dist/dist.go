// Package dist provides the count distributions shared by the goal and
// secondary-market models.
package dist

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// PoissonPMF returns P(X = k) for X ~ Poisson(lambda).
func PoissonPMF(k int, lambda float64) float64 {
	if k < 0 || lambda <= 0 {
		if k == 0 && lambda == 0 {
			return 1
		}
		return 0
	}
	return distuv.Poisson{Lambda: lambda}.Prob(float64(k))
}

// PoissonCDF returns P(X <= k) for X ~ Poisson(lambda).
func PoissonCDF(k int, lambda float64) float64 {
	if k < 0 {
		return 0
	}
	return distuv.Poisson{Lambda: lambda}.CDF(float64(k))
}

// NegBinomParams converts a mean and dispersion alpha into the (r, p)
// parameterisation. Lower alpha means more overdispersion.
func NegBinomParams(mean, alpha float64) (r, p float64) {
	p = alpha / (alpha + mean)
	r = mean * p / (1 - p)
	return r, p
}

// NegBinomPMF returns P(X = k) for a negative binomial with r successes of
// probability p. Non-integer r is supported via the gamma function.
func NegBinomPMF(k int, r, p float64) float64 {
	if k < 0 || r <= 0 || p <= 0 || p >= 1 {
		return 0
	}
	lg1, _ := math.Lgamma(float64(k) + r)
	lg2, _ := math.Lgamma(float64(k) + 1)
	lg3, _ := math.Lgamma(r)
	logProb := lg1 - lg2 - lg3 + r*math.Log(p) + float64(k)*math.Log(1-p)
	return math.Exp(logProb)
}

// NegBinomCDF returns P(X <= k) by direct summation.
func NegBinomCDF(k int, r, p float64) float64 {
	if k < 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i <= k; i++ {
		sum += NegBinomPMF(i, r, p)
	}
	if sum > 1 {
		return 1
	}
	return sum
}

// OverProbPoisson returns P(X > line) for a half-goal line such as 2.5.
func OverProbPoisson(line, lambda float64) float64 {
	k := int(math.Floor(line))
	return 1 - PoissonCDF(k, lambda)
}

// OverProbNegBinom returns P(X > line) under a negative binomial with the
// given mean and dispersion.
func OverProbNegBinom(line, mean, alpha float64) float64 {
	r, p := NegBinomParams(mean, alpha)
	k := int(math.Floor(line))
	return 1 - NegBinomCDF(k, r, p)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
