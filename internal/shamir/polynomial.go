package shamir

import (
	"fmt"

	"github.com/eljojo/byteshard/internal/field"
)

// randomPolynomial returns the coefficient vector of a degree-(k-1)
// polynomial with the given constant term. The k-1 remaining
// coefficients are drawn fresh from the secure source on every call;
// coefficients are never reused across byte positions or calls.
func randomPolynomial(constant, k int) ([]int, error) {
	coeffs := make([]int, k)
	coeffs[0] = constant
	for i := 1; i < k; i++ {
		c, err := field.RandomElement()
		if err != nil {
			return nil, fmt.Errorf("drawing coefficient: %w", err)
		}
		coeffs[i] = c
	}
	return coeffs, nil
}

// evaluate computes the polynomial at x using Horner's method.
func evaluate(coeffs []int, x int) int {
	if len(coeffs) == 0 {
		return 0
	}
	result := coeffs[len(coeffs)-1]
	for i := len(coeffs) - 2; i >= 0; i-- {
		result = field.Add(field.Mul(result, x), coeffs[i])
	}
	return result
}

// interpolateZero recovers f(0) from the points (xs[i], ys[i]) via
// Lagrange interpolation:
//
//	f(0) = sum_i y_i * prod_{j!=i} (0 - x_j) / (x_i - x_j)
//
// The xs must be distinct and nonzero; Recover validates that before
// calling.
func interpolateZero(xs, ys []int) (int, error) {
	total := 0
	for i := range xs {
		num, den := 1, 1
		for j := range xs {
			if i == j {
				continue
			}
			num = field.Mul(num, field.Sub(0, xs[j]))
			den = field.Mul(den, field.Sub(xs[i], xs[j]))
		}
		inv, err := field.Inverse(den)
		if err != nil {
			return 0, err
		}
		total = field.Add(total, field.Mul(ys[i], field.Mul(num, inv)))
	}
	return total, nil
}
