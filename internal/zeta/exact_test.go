package zeta

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBernoulliTable_Default(t *testing.T) {
	table := DefaultBernoulli()

	assert.Equal(t, 12, table.Len())
	assert.Equal(t, 20, table.maxIndex())

	b, ok := table.Lookup(12)
	assert.True(t, ok)
	assert.Equal(t, Rational{-691, 2730}, b)
	assert.InDelta(t, -0.253113553113553, float64(b.Num)/float64(b.Den), 1e-15)

	_, ok = table.Lookup(3)
	assert.False(t, ok, "odd indices above 1 are not stored")

	_, ok = table.Lookup(22)
	assert.False(t, ok)
}

func TestBernoulliTable_ZeroValue(t *testing.T) {
	var table BernoulliTable
	_, ok := table.Lookup(0)
	assert.False(t, ok)
	assert.Zero(t, table.Len())
}

func TestExactResolver_ExactValue(t *testing.T) {
	r := NewExactResolver(DefaultBernoulli(), 1e-12)

	tests := []struct {
		name   string
		s      complex128
		want   complex128
		wantOK bool
	}{
		{"zero", 0, -0.5, true},
		{"negative zero", complex(math.Copysign(0, -1), 0), -0.5, true},
		{"minus one", -1, complex(-1.0/12.0, 0), true},
		{"minus two", -2, 0, true},
		{"minus nineteen", -19, complex(174611.0/6600.0, 0), true},
		{"real part within epsilon", complex(-1+1e-13, 0), complex(-1.0/12.0, 0), true},
		{"imag below epsilon", complex(-1, 5e-13), complex(-1.0/12.0, 0), true},
		{"imag exactly epsilon", complex(-1, 1e-12), 0, false},
		{"imag above epsilon", complex(-1, 1e-6), 0, false},
		{"positive integer", 2, 0, false},
		{"negative non-integer", -1.5, 0, false},
		{"even index beyond table", -21, 0, false},
		{"odd index beyond table", -100, 0, true},
		{"minus two to the 53", -(1 << 53), 0, true},
		{"minus two to the 54", -(1 << 54), 0, true},
		{"minus 1e20", -1e20, 0, true},
		{"huge magnitude", -1e300, 0, true},
		{"huge magnitude off axis", complex(-1e20, 1e-6), 0, false},
		{"nan", complex(math.NaN(), 0), 0, false},
		{"nan imaginary", complex(-1, math.NaN()), 0, false},
		{"negative infinity", complex(math.Inf(-1), 0), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.ExactValue(tt.s)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExactResolver_EmptyTable(t *testing.T) {
	r := NewExactResolver(BernoulliTable{}, 1e-12)

	v, ok := r.ExactValue(-4)
	assert.True(t, ok, "trivial zeros need no table")
	assert.Equal(t, complex(0, 0), v)

	_, ok = r.ExactValue(-1)
	assert.False(t, ok)
}

func TestExactResolver_EpsilonIsConfigurable(t *testing.T) {
	loose := NewExactResolver(DefaultBernoulli(), 1e-3)
	v, ok := loose.ExactValue(complex(-1.0001, 1e-4))
	assert.True(t, ok)
	assert.Equal(t, complex(-1.0/12.0, 0), v)

	strict := NewExactResolver(DefaultBernoulli(), 1e-15)
	_, ok = strict.ExactValue(complex(-1+1e-13, 0))
	assert.False(t, ok)
}
