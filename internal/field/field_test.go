package field

import (
	"errors"
	"testing"
)

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   func(a, b int) int
		a, b int
		want int
	}{
		{"add simple", Add, 100, 100, 200},
		{"add wraps", Add, 256, 1, 0},
		{"add wraps twice", Add, 256, 256, 255},
		{"sub simple", Sub, 200, 100, 100},
		{"sub wraps", Sub, 0, 1, 256},
		{"sub zero", Sub, 42, 42, 0},
		{"mul simple", Mul, 2, 100, 200},
		{"mul wraps", Mul, 16, 16, 256},
		{"mul by zero", Mul, 0, 256, 0},
		{"mul max", Mul, 256, 256, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op(tt.a, tt.b); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInverse(t *testing.T) {
	// Every nonzero element of a prime field has an inverse.
	for a := 1; a < Prime; a++ {
		inv, err := Inverse(a)
		if err != nil {
			t.Fatalf("Inverse(%d): %v", a, err)
		}
		if inv < 0 || inv >= Prime {
			t.Fatalf("Inverse(%d) = %d, outside [0,%d)", a, inv, Prime)
		}
		if got := Mul(a, inv); got != 1 {
			t.Errorf("%d * %d = %d, want 1", a, inv, got)
		}
	}
}

func TestInverseOfZero(t *testing.T) {
	if _, err := Inverse(0); !errors.Is(err, ErrZeroInverse) {
		t.Errorf("Inverse(0) = %v, want ErrZeroInverse", err)
	}
}

func TestRandomElement(t *testing.T) {
	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		v, err := RandomElement()
		if err != nil {
			t.Fatalf("RandomElement: %v", err)
		}
		if v < 0 || v >= Prime {
			t.Fatalf("RandomElement = %d, outside [0,%d)", v, Prime)
		}
		seen[v] = true
	}

	// 2000 uniform draws from 257 values miss a given value with
	// probability (256/257)^2000 ~ 4e-4; seeing under half the field
	// would mean the source is badly skewed.
	if len(seen) < Prime/2 {
		t.Errorf("only %d distinct values in 2000 draws", len(seen))
	}
}
