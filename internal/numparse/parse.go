// Package numparse converts between text and complex128 for the command line.
// It accepts both the j suffix ("0.5+14j") and the i suffix ("0.5+14i").
package numparse

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrSyntax is wrapped by every parse failure.
var ErrSyntax = errors.New("not a real or complex number")

// Parse reads a real or complex number.
func Parse(raw string) (complex128, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" {
		return 0, fmt.Errorf("%w: empty input", ErrSyntax)
	}

	s = strings.NewReplacer("j", "i", "J", "i", "I", "i").Replace(s)

	// A bare unit imaginary ("j", "1+j", "-j") has no coefficient.
	if strings.HasSuffix(s, "i") {
		head := s[:len(s)-1]
		if head == "" || strings.HasSuffix(head, "+") || strings.HasSuffix(head, "-") {
			s = head + "1i"
		}
	}

	z, err := strconv.ParseComplex(s, 128)
	if err != nil {
		return 0, fmt.Errorf("%w: cannot parse %q", ErrSyntax, raw)
	}
	return z, nil
}

// ParseAll parses every token, skipping stray "&" left over from pasted shell lines.
func ParseAll(tokens []string) ([]complex128, error) {
	values := make([]complex128, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "&" {
			continue
		}
		z, err := Parse(tok)
		if err != nil {
			return nil, err
		}
		values = append(values, z)
	}
	return values, nil
}

// Format renders z with the given significant digits, omitting a zero
// imaginary part.
func Format(z complex128, digits int) string {
	re := strconv.FormatFloat(real(z), 'g', digits, 64)
	im := imag(z)
	if im == 0 {
		return re
	}

	sign := "+"
	if math.Signbit(im) {
		sign = "-"
		im = -im
	}
	return re + sign + strconv.FormatFloat(im, 'g', digits, 64) + "i"
}
