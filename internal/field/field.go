// Package field implements arithmetic over GF(257), the smallest prime
// field large enough to hold every byte value 0-255 as an element.
package field

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// Prime is the field order. One field value (256) has no single-byte
// representation; it can appear in share evaluations but never in a
// secret.
const Prime = 257

// ErrZeroInverse is returned when the inverse of zero is requested.
// Every x-coordinate in use is nonzero and distinct, so hitting this
// indicates a logic defect rather than bad user input.
var ErrZeroInverse = errors.New("field: zero has no multiplicative inverse")

// Add returns (a + b) mod 257.
func Add(a, b int) int {
	return (a + b) % Prime
}

// Sub returns (a - b) mod 257, always in [0, 256].
func Sub(a, b int) int {
	return (a - b + Prime) % Prime
}

// Mul returns (a * b) mod 257.
func Mul(a, b int) int {
	return a * b % Prime
}

// Inverse returns the multiplicative inverse of a modulo 257 using the
// extended Euclidean algorithm.
func Inverse(a int) (int, error) {
	a = (a%Prime + Prime) % Prime
	if a == 0 {
		return 0, ErrZeroInverse
	}

	// Track only the Bezout coefficient of a.
	t, newT := 0, 1
	r, newR := Prime, a
	for newR != 0 {
		q := r / newR
		t, newT = newT, t-q*newT
		r, newR = newR, r-q*newR
	}

	if t < 0 {
		t += Prime
	}
	return t, nil
}

// RandomElement returns a uniformly random field element in [0, 256].
// It always draws from crypto/rand: predictable coefficients break the
// information-theoretic secrecy guarantee, so a weaker source is never
// acceptable here.
func RandomElement() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(Prime))
	if err != nil {
		return 0, fmt.Errorf("reading random element: %w", err)
	}
	return int(n.Int64()), nil
}
