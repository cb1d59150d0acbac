// Package zeta evaluates the Riemann zeta function for complex arguments.
//
// Non-positive integers are answered exactly from a Bernoulli-number table.
// Everything else goes through the Dirichlet eta series
//
//	η(s) = Σ (-1)^(k-1) k^(-s)
//
// and the continuation ζ(s) = η(s) / (1 - 2^(1-s)). The series converges for
// Re(s) > 0; for negative non-integers it is summed up to MaxTerms anyway and
// the result is of limited accuracy.
//
// Evaluation is pure: identical arguments give bit-identical results and calls
// may run concurrently.
package zeta

// Defaults used when a Params field is left at zero.
const (
	DefaultMaxTerms    = 200000
	DefaultTolerance   = 1e-12
	DefaultRealEpsilon = 1e-12
	DefaultPoleEpsilon = 1e-16
)

// Params controls one evaluation.
type Params struct {
	// MaxTerms caps the number of eta-series terms.
	MaxTerms int `json:"max_terms" yaml:"max_terms"`
	// Tolerance stops the series once |term| falls below it.
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`
	// RealEpsilon decides whether s sits on the real axis at an integer.
	RealEpsilon float64 `json:"real_epsilon" yaml:"real_epsilon"`
	// PoleEpsilon is the floor on |1 - 2^(1-s)| below which s is treated as the pole.
	PoleEpsilon float64 `json:"pole_epsilon" yaml:"pole_epsilon"`
}

// DefaultParams returns the documented defaults.
func DefaultParams() Params {
	return Params{
		MaxTerms:    DefaultMaxTerms,
		Tolerance:   DefaultTolerance,
		RealEpsilon: DefaultRealEpsilon,
		PoleEpsilon: DefaultPoleEpsilon,
	}
}

func (p Params) withDefaults() Params {
	if p.MaxTerms <= 0 {
		p.MaxTerms = DefaultMaxTerms
	}
	if p.Tolerance <= 0 {
		p.Tolerance = DefaultTolerance
	}
	if p.RealEpsilon <= 0 {
		p.RealEpsilon = DefaultRealEpsilon
	}
	if p.PoleEpsilon <= 0 {
		p.PoleEpsilon = DefaultPoleEpsilon
	}
	return p
}

// Evaluate returns ζ(s) using the built-in Bernoulli table.
func Evaluate(s complex128, p Params) Result {
	return EvaluateWith(DefaultBernoulli(), s, p)
}

// EvaluateWith is Evaluate against a caller-supplied Bernoulli table.
func EvaluateWith(table BernoulliTable, s complex128, p Params) Result {
	p = p.withDefaults()

	if v, ok := NewExactResolver(table, p.RealEpsilon).ExactValue(s); ok {
		return finite(v, MethodExact)
	}

	return NewSeriesEvaluator(p).Evaluate(s)
}
