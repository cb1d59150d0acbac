package zeta

import (
	"math"
	"math/cmplx"
)

// seriesState is the per-call accumulator for the eta sum.
type seriesState struct {
	sum      complex128
	k        int
	lastTerm float64
}

// etaSum adds (-1)^(k-1) k^(-s) for k = 1.. until maxTerms terms have been
// summed or a term's magnitude drops below tolerance.
func etaSum(s complex128, maxTerms int, tolerance float64) seriesState {
	var st seriesState
	sign := 1.0

	for st.k < maxTerms {
		st.k++
		// k^(-s) = exp(-s ln k); ln k is real for k >= 1.
		term := complex(sign, 0) * cmplx.Exp(-s*complex(math.Log(float64(st.k)), 0))
		st.sum += term
		st.lastTerm = cmplx.Abs(term)
		if st.lastTerm < tolerance {
			break
		}
		sign = -sign
	}

	return st
}

// SeriesEvaluator approximates zeta through the Dirichlet eta series and
// ζ(s) = η(s) / (1 - 2^(1-s)).
type SeriesEvaluator struct {
	maxTerms    int
	tolerance   float64
	poleEpsilon float64
}

// NewSeriesEvaluator builds an evaluator from p. Zero fields in p take the defaults.
func NewSeriesEvaluator(p Params) SeriesEvaluator {
	p = p.withDefaults()
	return SeriesEvaluator{
		maxTerms:    p.MaxTerms,
		tolerance:   p.Tolerance,
		poleEpsilon: p.PoleEpsilon,
	}
}

// Evaluate returns ζ(s) or a pole / undefined sentinel. It never fails.
func (e SeriesEvaluator) Evaluate(s complex128) Result {
	if s == 1 {
		return pole(MethodSeries)
	}

	st := etaSum(s, e.maxTerms, e.tolerance)

	denom := 1 - cmplx.Exp((1-s)*math.Ln2)
	if cmplx.Abs(denom) < e.poleEpsilon {
		r := pole(MethodSeries)
		r.terms, r.lastTerm = st.k, st.lastTerm
		return r
	}

	v := st.sum / denom
	r := finite(v, MethodSeries)
	if isBad(v) {
		r.kind = Undefined
		r.value = 0
	}
	r.terms, r.lastTerm = st.k, st.lastTerm
	return r
}
