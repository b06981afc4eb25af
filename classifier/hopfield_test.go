package classifier

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/gomlkit/classify/pkg/errors"
)

// storedPattern is the bipolar pattern [1,1,-1,-1] expressed as booleans.
var storedPattern = []float64{1, 1, 0, 0}

func trainHopfieldFixture(t *testing.T, options ...HopfieldOption) *DiscreteHopfield {
	t.Helper()
	h := NewDiscreteHopfield(options...)
	if err := h.Train(mat.NewDense(1, 4, storedPattern)); err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if err := h.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	return h
}

// TestHopfieldRecall stores one pattern and recalls it exactly from a
// one-bit-corrupted query.
func TestHopfieldRecall(t *testing.T) {
	h := trainHopfieldFixture(t, WithHopfieldRandomState(1))

	corrupted := mat.NewDense(1, 4, []float64{0, 1, 0, 0}) // bit 0 flipped
	recalled, err := h.Label(corrupted)
	if err != nil {
		t.Fatalf("Label failed: %v", err)
	}

	for j, want := range storedPattern {
		if got := recalled.At(0, j); got != want {
			t.Errorf("unit %d: expected %v, got %v", j, want, got)
		}
	}
}

// TestHopfieldRecallAnySeed checks that one-bit recovery of a single stored
// pattern does not depend on the shuffled visit order.
func TestHopfieldRecallAnySeed(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		h := trainHopfieldFixture(t, WithHopfieldRandomState(seed))

		recalled, err := h.Label(mat.NewDense(1, 4, []float64{1, 0, 0, 0})) // bit 1 flipped
		if err != nil {
			t.Fatalf("seed %d: Label failed: %v", seed, err)
		}
		for j, want := range storedPattern {
			if got := recalled.At(0, j); got != want {
				t.Errorf("seed %d: unit %d: expected %v, got %v", seed, j, want, got)
			}
		}
	}
}

func TestHopfieldSequentialUpdateDeterministic(t *testing.T) {
	h := trainHopfieldFixture(t, WithHopfieldShuffledUpdate(false))

	query := mat.NewDense(1, 4, []float64{1, 1, 1, 0})
	first, err := h.Label(query)
	if err != nil {
		t.Fatalf("Label failed: %v", err)
	}
	second, err := h.Label(query)
	if err != nil {
		t.Fatalf("Label failed: %v", err)
	}
	if !mat.Equal(first, second) {
		t.Errorf("sequential update should be deterministic: %v vs %v",
			mat.Formatted(first), mat.Formatted(second))
	}
}

func TestHopfieldDiagnostics(t *testing.T) {
	h := trainHopfieldFixture(t)

	if h.MemorySize() != 4 {
		t.Errorf("expected memory size 4, got %d", h.MemorySize())
	}
	if lp := h.LoadParameter(); lp != 0.25 {
		t.Errorf("expected load parameter 0.25, got %v", lp)
	}
}

func TestHopfieldBinaryEnforcement(t *testing.T) {
	h := NewDiscreteHopfield()

	err := h.Train(mat.NewDense(1, 4, []float64{1, 0, 0.5, 0}))
	if err == nil {
		t.Fatal("expected UnsupportedTypeError for element 0.5")
	}
	var typeErr *errors.UnsupportedTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected UnsupportedTypeError, got %T: %v", err, err)
	}

	// The rejected batch must not count as training state.
	if _, err := h.Label(mat.NewDense(1, 4, storedPattern)); err == nil {
		t.Error("expected NotTrainedError after rejected training call")
	}
}

// TestHopfieldIdempotentFinalize verifies that finalizing twice yields
// inference results identical to finalizing once.
func TestHopfieldIdempotentFinalize(t *testing.T) {
	query := mat.NewDense(1, 4, []float64{0, 1, 0, 0})

	once := trainHopfieldFixture(t, WithHopfieldRandomState(3))
	wantMat, err := once.Label(query)
	if err != nil {
		t.Fatalf("Label failed: %v", err)
	}

	twice := trainHopfieldFixture(t, WithHopfieldRandomState(3))
	if err := twice.Finalize(); err != nil {
		t.Fatalf("second Finalize failed: %v", err)
	}
	gotMat, err := twice.Label(query)
	if err != nil {
		t.Fatalf("Label failed: %v", err)
	}

	if !mat.Equal(wantMat, gotMat) {
		t.Errorf("double finalize changed recall: %v vs %v",
			mat.Formatted(wantMat), mat.Formatted(gotMat))
	}
}

func TestHopfieldUntrained(t *testing.T) {
	h := NewDiscreteHopfield()

	if err := h.Finalize(); err == nil {
		t.Error("expected error finalizing an untrained memory")
	}
	if _, err := h.Label(mat.NewDense(1, 4, storedPattern)); err == nil {
		t.Error("expected NotTrainedError labeling an untrained memory")
	}
}

func TestHopfieldTrainAfterFinalize(t *testing.T) {
	h := trainHopfieldFixture(t)
	if err := h.Train(mat.NewDense(1, 4, storedPattern)); err == nil {
		t.Error("expected error training after Finalize")
	}
}

// TestHopfieldThreshold checks that a large uniform threshold drives every
// unit toward -1 (binary 0): with threshold above any attainable activation,
// all units settle at zero.
func TestHopfieldThreshold(t *testing.T) {
	h := trainHopfieldFixture(t, WithHopfieldThreshold(10), WithHopfieldRandomState(7))

	recalled, err := h.Label(mat.NewDense(1, 4, storedPattern))
	if err != nil {
		t.Fatalf("Label failed: %v", err)
	}
	for j := 0; j < 4; j++ {
		if got := recalled.At(0, j); got != 0 {
			t.Errorf("unit %d: expected 0 under a dominating threshold, got %v", j, got)
		}
	}
}
