package service

import (
	"math"
	"testing"
)

func TestCeilDiv(t *testing.T) {
	tests := []struct {
		name string
		n, d float64
		want int
	}{
		{"exact", 9, 3, 3},
		{"rounds up", 10, 3, 4},
		{"float noise", 3, 0.3, 10},
		{"zero denominator", 5, 0, 0},
		{"negative denominator", 5, -1, 0},
		{"zero numerator", 0, 2, 0},
		{"tiny denominator saturates", 10, 1e-18, maxCeilQuotient},
		{"huge quotient saturates", math.MaxFloat64, 0.5, maxCeilQuotient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ceilDiv(tt.n, tt.d); got != tt.want {
				t.Errorf("ceilDiv(%g, %g) = %d, want %d", tt.n, tt.d, got, tt.want)
			}
		})
	}
}
