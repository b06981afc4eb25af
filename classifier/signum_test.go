package classifier

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSignumLabel(t *testing.T) {
	X := mat.NewDense(4, 3, []float64{
		1, 2, 3, // positive sum
		-1, -2, 0, // negative sum
		1, -1, 0, // exactly zero
		0, 0, 0, // exactly zero
	})

	s := NewSignum()
	labels, err := s.Label(X)
	if err != nil {
		t.Fatalf("Label failed: %v", err)
	}

	want := []float64{1, -1, 0, 0}
	for i, w := range want {
		if labels[i] != w {
			t.Errorf("row %d: expected %v, got %v", i, w, labels[i])
		}
	}
}
