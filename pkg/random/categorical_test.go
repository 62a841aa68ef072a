package random

import (
	"testing"
)

func TestCategorical_NeverReturnsZeroWeight(t *testing.T) {
	c, err := NewCategorical(40, 0, 60)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	src := NewSource(11)
	counts := make([]int, c.Len())
	const n = 10000
	for i := 0; i < n; i++ {
		counts[c.Sample(src)]++
	}

	if counts[1] != 0 {
		t.Errorf("Expected zero-weight category never drawn, got %d", counts[1])
	}
	if frac := float64(counts[0]) / n; frac < 0.37 || frac > 0.43 {
		t.Errorf("Expected about 40%% for category 0, got %f", frac)
	}
}

func TestCategorical_Index(t *testing.T) {
	c, _ := NewCategorical(1, 0, 1, 0)
	tests := []struct {
		u        float64
		expected int
	}{
		{0.0, 0},
		{0.49, 0},
		{0.5, 2},
		{0.999, 2},
		{1.0, 2},
	}
	for _, tt := range tests {
		if got := c.Index(tt.u); got != tt.expected {
			t.Errorf("Index(%v): expected %d, got %d", tt.u, tt.expected, got)
		}
	}
}

func TestCategorical_InvalidWeights(t *testing.T) {
	if _, err := NewCategorical(0, 0); err != ErrNoWeight {
		t.Errorf("Expected ErrNoWeight, got %v", err)
	}
	if _, err := NewCategorical(1, -1); err == nil {
		t.Errorf("Expected error for negative weight")
	}
}

func TestBernoulli_ConsumesOneDraw(t *testing.T) {
	seq := NewSequence(NewSource(12))
	Bernoulli(0.5, seq)
	if _, n := seq.Len(); n != 1 {
		t.Errorf("Expected 1 draw consumed, got %d", n)
	}
}
