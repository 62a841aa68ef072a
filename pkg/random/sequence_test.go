package random

import (
	"testing"
)

func drawN(s *Sequence, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = s.Next()
	}
	return out
}

func TestSequence_ReplayDeterminism(t *testing.T) {
	seq := NewSequence(NewSource(1))

	// Three phases separated by marks, as during path construction
	first := [][]float64{drawN(seq, 2)}
	seq.Mark()
	first = append(first, drawN(seq, 5))
	seq.Mark()
	first = append(first, drawN(seq, 3))

	seq.Reset()
	for phase, expected := range first {
		if phase > 0 {
			seq.Mark()
		}
		got := drawN(seq, len(expected))
		for i := range expected {
			if got[i] != expected[i] {
				t.Fatalf("Phase %d draw %d: expected %v, got %v", phase, i, expected[i], got[i])
			}
		}
	}
}

func TestSequence_ReplayExtendsWithFreshDraws(t *testing.T) {
	seq := NewSequence(NewSource(2))
	a := drawN(seq, 2)

	seq.Reset()
	b := drawN(seq, 4)

	if a[0] != b[0] || a[1] != b[1] {
		t.Errorf("Expected replayed prefix %v, got %v", a, b[:2])
	}
	if _, n := seq.Len(); n != 4 {
		t.Errorf("Expected 4 stored draws, got %d", n)
	}
}

func TestSequence_CloneIndependence(t *testing.T) {
	seq := NewSequence(NewSource(3))
	original := [][]float64{drawN(seq, 4)}
	seq.Mark()
	original = append(original, drawN(seq, 4))

	clone := seq.Clone()
	clone.Reset()
	clone.Mutate(0.5)
	clone.Mark()
	clone.Mutate(0.5)

	seq.Reset()
	for phase, expected := range original {
		if phase > 0 {
			seq.Mark()
		}
		got := drawN(seq, len(expected))
		for i := range expected {
			if got[i] != expected[i] {
				t.Fatalf("Original changed at phase %d draw %d: expected %v, got %v", phase, i, expected[i], got[i])
			}
		}
	}

	clone.Reset()
	mutated := drawN(clone, 4)
	changed := false
	for i := range mutated {
		if mutated[i] != original[0][i] {
			changed = true
		}
	}
	if !changed {
		t.Errorf("Expected clone draws to be perturbed")
	}
}

func TestSequence_MutateStaysInUnitInterval(t *testing.T) {
	seq := NewSequence(NewSource(4))
	drawN(seq, 1000)

	for round := 0; round < 20; round++ {
		seq.Reset()
		seq.Mutate(0.22)
	}

	seq.Reset()
	for i, x := range drawN(seq, 1000) {
		if x < 0 || x >= 1 {
			t.Fatalf("Draw %d out of range: %v", i, x)
		}
	}
}

func TestSequence_MutateOnlyFromPosition(t *testing.T) {
	seq := NewSequence(NewSource(5))
	before := drawN(seq, 6)

	seq.Reset()
	seq.Next()
	seq.Next()
	seq.Mutate(0.22)

	seq.Reset()
	after := drawN(seq, 6)

	tests := []struct {
		index   int
		changed bool
	}{
		{0, false}, {1, false}, {2, true}, {3, true}, {4, true}, {5, true},
	}
	for _, tt := range tests {
		if got := after[tt.index] != before[tt.index]; got != tt.changed {
			t.Errorf("Draw %d: expected changed=%v, got %v", tt.index, tt.changed, got)
		}
	}
}

func TestSequence_FreshIsEmpty(t *testing.T) {
	seq := NewSequence(NewSource(7))
	drawN(seq, 5)

	fresh := seq.Fresh()
	if subs, n := fresh.Len(); subs != 1 || n != 0 {
		t.Errorf("Expected empty fresh sequence, got %d and %d", subs, n)
	}
}
