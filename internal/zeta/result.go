package zeta

import (
	"math"
	"math/cmplx"
)

// Kind tags what a Result holds.
type Kind int

const (
	// Finite results carry a usable complex value.
	Finite Kind = iota
	// Pole marks s = 1 or a continuation denominator indistinguishable from zero.
	Pole
	// Undefined marks a series that overflowed to NaN or Inf.
	Undefined
)

func (k Kind) String() string {
	switch k {
	case Finite:
		return "finite"
	case Pole:
		return "pole"
	case Undefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// Method names the branch that produced a Result.
type Method string

const (
	MethodExact  Method = "exact"
	MethodSeries Method = "series"
)

// Result is the outcome of one zeta evaluation.
// The complex value is only reachable through Value so a pole cannot be used as a number.
type Result struct {
	kind   Kind
	value  complex128
	method Method

	// Series bookkeeping, zero for exact results.
	terms    int
	lastTerm float64
}

func finite(v complex128, m Method) Result {
	return Result{kind: Finite, value: v, method: m}
}

func pole(m Method) Result {
	return Result{kind: Pole, method: m}
}

// Kind reports which variant the result holds.
func (r Result) Kind() Kind { return r.kind }

// IsPole reports whether the result is the pole sentinel.
func (r Result) IsPole() bool { return r.kind == Pole }

// IsFinite reports whether Value returns a number.
func (r Result) IsFinite() bool { return r.kind == Finite }

// Value returns the complex value and true for finite results.
func (r Result) Value() (complex128, bool) {
	if r.kind != Finite {
		return 0, false
	}
	return r.value, true
}

// Method reports whether the value came from the Bernoulli table or the eta series.
func (r Result) Method() Method { return r.method }

// Terms is the number of eta-series terms summed.
func (r Result) Terms() int { return r.terms }

// LastTermMagnitude is |term| of the final series term summed.
func (r Result) LastTermMagnitude() float64 { return r.lastTerm }

func isBad(z complex128) bool {
	return cmplx.IsNaN(z) || math.IsInf(real(z), 0) || math.IsInf(imag(z), 0)
}
