package zeta

import "math"

// Beyond 2^53 a float64 no longer distinguishes neighbouring integers, and
// n cannot be converted to int safely.
const maxExactMagnitude = 1 << 53

// ExactResolver returns closed-form values of zeta at s = 0 and the negative
// integers, using ζ(-m) = -B_{m+1}/(m+1).
type ExactResolver struct {
	table   BernoulliTable
	epsilon float64
}

// NewExactResolver builds a resolver over table. epsilon bounds both the
// imaginary part and the distance of the real part from an integer.
func NewExactResolver(table BernoulliTable, epsilon float64) ExactResolver {
	return ExactResolver{table: table, epsilon: epsilon}
}

// ExactValue reports the exact ζ(s) when s is a non-positive integer on the
// real axis. It declines (ok == false) for every other input and for negative
// odd integers whose Bernoulli number is outside the table.
func (r ExactResolver) ExactValue(s complex128) (complex128, bool) {
	// Written as !(a < b) so NaN components decline.
	if !(math.Abs(imag(s)) < r.epsilon) {
		return 0, false
	}

	x := real(s)
	rounded := math.Round(x)
	if !(math.Abs(x-rounded) < r.epsilon) || rounded > 0 {
		return 0, false
	}
	if rounded < -maxExactMagnitude {
		// Every float64 this far out is an even integer: a trivial zero.
		return 0, true
	}

	n := int(rounded)
	if n == 0 {
		return complex(-0.5, 0), true
	}

	m := -n
	idx := m + 1
	if idx%2 == 1 {
		// B_idx = 0 for odd idx > 1, so zeta vanishes at the negative even integers.
		return 0, true
	}
	if idx > r.table.maxIndex() {
		return 0, false
	}

	b, ok := r.table.Lookup(idx)
	if !ok {
		return 0, false
	}
	// -B/(m+1) kept rational until the final division.
	return complex(float64(-b.Num)/float64(b.Den*int64(idx)), 0), true
}
