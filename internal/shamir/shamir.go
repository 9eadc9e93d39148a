// Package shamir implements byte-wise Shamir's Secret Sharing over
// GF(257).
//
// Each byte of the secret gets its own random polynomial of degree k-1
// whose constant term is the byte value. A share is the vector of
// polynomial evaluations at one nonzero x-coordinate, so any k shares
// recover every byte via Lagrange interpolation at x=0 while fewer
// than k reveal nothing.
//
// Split and Recover hold no state between calls and are safe to invoke
// concurrently. Shares carry no record of which split they came from:
// combining shares from different splits produces a well-formed but
// wrong secret without error. Callers that need to detect that must
// verify the result externally (see the sharefile and project
// packages).
package shamir

import (
	"fmt"

	"github.com/eljojo/byteshard/internal/field"
)

const (
	// MinThreshold is the smallest meaningful threshold; a threshold
	// of 1 would make every share the secret itself.
	MinThreshold = 2

	// MaxShares is the number of distinct nonzero x-coordinates
	// available in GF(257).
	MaxShares = field.Prime - 1
)

// Split divides a secret into n shares such that any k of them
// reconstruct it exactly. Two calls with the same inputs produce
// unrelated share sets: the polynomial coefficients are drawn fresh
// from the secure source every time.
func Split(secret []byte, n, k int) ([]Share, error) {
	if k < MinThreshold || k > n || n > MaxShares {
		return nil, fmt.Errorf("%w: got n=%d, k=%d", ErrInvalidParameters, n, k)
	}

	shares := make([]Share, n)
	for i := range shares {
		shares[i] = Share{X: i + 1, Y: make([]uint16, len(secret))}
	}

	// One polynomial per byte position; only its evaluations survive.
	for j, b := range secret {
		coeffs, err := randomPolynomial(int(b), k)
		if err != nil {
			return nil, err
		}
		for i := range shares {
			shares[i].Y[j] = uint16(evaluate(coeffs, shares[i].X))
		}
	}

	return shares, nil
}

// SplitText splits a secret entered as text. The surrounding contract
// restricts text secrets to ASCII, so non-ASCII input is rejected with
// ErrInvalidSecret before any shares are produced.
func SplitText(secret string, n, k int) ([]Share, error) {
	if err := ValidateSecret(secret); err != nil {
		return nil, err
	}
	return Split([]byte(secret), n, k)
}

// ValidateSecret checks that a text secret stays within the supported
// ASCII alphabet. The error reports the offending position but never
// the byte value itself.
func ValidateSecret(secret string) error {
	for i := 0; i < len(secret); i++ {
		if secret[i] > 0x7f {
			return fmt.Errorf("%w: non-ASCII byte at position %d", ErrInvalidSecret, i)
		}
	}
	return nil
}

// Recover reconstructs the secret from the supplied shares. It needs
// at least 2 shares with equal payload lengths and distinct indices;
// whether that many shares are actually enough depends on the k used
// at split time, which the shares do not carry. Given any k or more
// shares from one split, the result equals the original secret
// exactly, regardless of which k were chosen.
func Recover(shares []Share) ([]byte, error) {
	if len(shares) < MinThreshold {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientShares, len(shares))
	}

	length := len(shares[0].Y)
	seen := make(map[int]bool, len(shares))
	for _, s := range shares {
		if len(s.Y) != length {
			return nil, fmt.Errorf("%w: payload lengths differ", ErrInconsistentShares)
		}
		if s.X < 1 || s.X > MaxShares {
			return nil, fmt.Errorf("%w: index %d out of range", ErrInconsistentShares, s.X)
		}
		if seen[s.X] {
			return nil, fmt.Errorf("%w: duplicate index %d", ErrInconsistentShares, s.X)
		}
		seen[s.X] = true
	}

	xs := make([]int, len(shares))
	for i, s := range shares {
		xs[i] = s.X
	}

	secret := make([]byte, length)
	ys := make([]int, len(shares))
	for j := 0; j < length; j++ {
		for i, s := range shares {
			ys[i] = int(s.Y[j])
		}
		v, err := interpolateZero(xs, ys)
		if err != nil {
			return nil, err
		}
		// 256 is a valid field element but not a byte; a secret byte
		// can never interpolate to it, so the share set was bad.
		if v > 0xff {
			return nil, fmt.Errorf("%w: position %d", ErrReconstruction, j)
		}
		secret[j] = byte(v)
	}

	return secret, nil
}

// RecoverText recovers a secret that was split from text. A non-ASCII
// result means the shares were mismatched or too few, and is rejected
// with ErrInvalidSecret.
func RecoverText(shares []Share) (string, error) {
	secret, err := Recover(shares)
	if err != nil {
		return "", err
	}
	if err := ValidateSecret(string(secret)); err != nil {
		return "", err
	}
	return string(secret), nil
}
