package shamir

import "testing"

func TestEvaluate(t *testing.T) {
	// f(x) = 42 + 3x + 2x^2
	coeffs := []int{42, 3, 2}

	tests := []struct {
		x    int
		want int
	}{
		{0, 42},
		{1, 47},
		{2, 56},
		{3, 69},
		{256, (42 + 3*256 + 2*256*256) % 257},
	}

	for _, tt := range tests {
		if got := evaluate(coeffs, tt.x); got != tt.want {
			t.Errorf("evaluate(f, %d) = %d, want %d", tt.x, got, tt.want)
		}
	}

	if got := evaluate(nil, 5); got != 0 {
		t.Errorf("evaluate(empty, 5) = %d, want 0", got)
	}
}

func TestInterpolateZero(t *testing.T) {
	// Points from f(x) = 42 + 3x + 2x^2; three points pin down a
	// degree-2 polynomial exactly.
	xs := []int{1, 2, 3}
	ys := []int{47, 56, 69}

	got, err := interpolateZero(xs, ys)
	if err != nil {
		t.Fatalf("interpolateZero: %v", err)
	}
	if got != 42 {
		t.Errorf("f(0) = %d, want 42", got)
	}
}

func TestRandomPolynomialShape(t *testing.T) {
	coeffs, err := randomPolynomial(65, 4)
	if err != nil {
		t.Fatalf("randomPolynomial: %v", err)
	}
	if len(coeffs) != 4 {
		t.Fatalf("got %d coefficients, want 4", len(coeffs))
	}
	if coeffs[0] != 65 {
		t.Errorf("constant term = %d, want 65", coeffs[0])
	}
}
