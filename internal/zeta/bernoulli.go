package zeta

// Rational is an exact fraction Num/Den with Den > 0.
type Rational struct {
	Num int64
	Den int64
}

// BernoulliTable maps an index n to the Bernoulli number B_n.
// It holds B_0, B_1 and the nonzero even-indexed values; every odd index above 1 is zero.
// The zero value is an empty table. Tables are read-only once built.
type BernoulliTable struct {
	values map[int]Rational
	max    int
}

func newBernoulliTable(entries map[int]Rational) BernoulliTable {
	values := make(map[int]Rational, len(entries))
	max := 0
	for n, r := range entries {
		values[n] = r
		if n > max {
			max = n
		}
	}
	return BernoulliTable{values: values, max: max}
}

// B_0 .. B_20 (B_n with odd n > 1 omitted, they are zero).
var defaultBernoulli = newBernoulliTable(map[int]Rational{
	0:  {1, 1},
	1:  {-1, 2},
	2:  {1, 6},
	4:  {-1, 30},
	6:  {1, 42},
	8:  {-1, 30},
	10: {5, 66},
	12: {-691, 2730},
	14: {7, 6},
	16: {-3617, 510},
	18: {43867, 798},
	20: {-174611, 330},
})

// DefaultBernoulli returns the built-in table covering B_0 through B_20.
func DefaultBernoulli() BernoulliTable {
	return defaultBernoulli
}

// Lookup returns B_n if n is tabulated.
func (t BernoulliTable) Lookup(n int) (Rational, bool) {
	r, ok := t.values[n]
	return r, ok
}

// maxIndex is the largest tabulated index.
func (t BernoulliTable) maxIndex() int {
	return t.max
}

// Len reports how many entries are tabulated.
func (t BernoulliTable) Len() int {
	return len(t.values)
}
