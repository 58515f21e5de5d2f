package utils

import (
	"math"
	"testing"
)

func TestRatio(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"zelda", "ZELDA", 1},
		{"abc", "xyz", 0},
		{"abcd", "bcde", 0.75},
		{"relaxing", "relax", 2 * 5.0 / 13.0},
		{"perché", "perche", 2 * 5.0 / 12.0},
	}
	for _, tc := range cases {
		got := Ratio(tc.a, tc.b)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("Ratio(%q, %q) = %f, want %f", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestRatioSymmetricThreshold(t *testing.T) {
	if Ratio("super mario odyssey", "super mario odysey") <= 0.8 {
		t.Fatalf("expected near-identical titles above 0.8")
	}
	if Ratio("kirby", "metroid dread") > 0.5 {
		t.Fatalf("expected unrelated titles below 0.5")
	}
}
