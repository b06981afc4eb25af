package classifier

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/gomlkit/classify/pkg/errors"
)

// twoClusters holds two well-separated 2-point clusters around (0.5, 0.5)
// and (10.5, 10.5).
var twoClusters = mat.NewDense(4, 2, []float64{
	0, 0,
	1, 1,
	10, 10,
	11, 11,
})

// TestKMeansSeparation checks that the two-cluster fixture converges to the
// true cluster means for every seed tried, independent of the random
// initialization.
func TestKMeansSeparation(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		k := NewKMeans(2, WithKMeansRandomState(seed))
		if err := k.Train(twoClusters); err != nil {
			t.Fatalf("seed %d: Train failed: %v", seed, err)
		}
		if err := k.Finalize(); err != nil {
			t.Fatalf("seed %d: Finalize failed: %v", seed, err)
		}
		if !k.Converged() {
			t.Errorf("seed %d: expected convergence", seed)
		}

		centroids := k.Centroids()
		if !containsCentroid(centroids, []float64{0.5, 0.5}) ||
			!containsCentroid(centroids, []float64{10.5, 10.5}) {
			t.Errorf("seed %d: unexpected centroids %v", seed, centroids)
		}

		// The assignment must partition the two groups correctly.
		labels, err := k.Label(twoClusters)
		if err != nil {
			t.Fatalf("seed %d: Label failed: %v", seed, err)
		}
		if labels[0] != labels[1] || labels[2] != labels[3] || labels[0] == labels[2] {
			t.Errorf("seed %d: bad partition %v", seed, labels)
		}
	}
}

func containsCentroid(centroids [][]float64, want []float64) bool {
	for _, c := range centroids {
		if math.Abs(c[0]-want[0]) < 1e-9 && math.Abs(c[1]-want[1]) < 1e-9 {
			return true
		}
	}
	return false
}

func TestKMeansIncrementalTraining(t *testing.T) {
	k := NewKMeans(2, WithKMeansRandomState(42))
	// Samples may arrive over multiple Train calls.
	if err := k.Train(twoClusters.Slice(0, 2, 0, 2)); err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if err := k.Train(twoClusters.Slice(2, 4, 0, 2)); err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if err := k.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	labels, err := k.Label(twoClusters)
	if err != nil {
		t.Fatalf("Label failed: %v", err)
	}
	if labels[0] != labels[1] || labels[0] == labels[2] {
		t.Errorf("bad partition %v", labels)
	}
}

// TestKMeansIdempotentFinalize verifies that a second Finalize call leaves
// the inference state untouched.
func TestKMeansIdempotentFinalize(t *testing.T) {
	k := NewKMeans(2, WithKMeansRandomState(5))
	if err := k.Train(twoClusters); err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if err := k.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	want := k.Centroids()

	if err := k.Finalize(); err != nil {
		t.Fatalf("second Finalize failed: %v", err)
	}
	got := k.Centroids()

	for c := range want {
		for j := range want[c] {
			if want[c][j] != got[c][j] {
				t.Fatalf("double finalize changed centroids: %v vs %v", want, got)
			}
		}
	}
}

func TestKMeansPreSeededCentroids(t *testing.T) {
	k := NewKMeans(2, WithKMeansInitialCentroids([][]float64{
		{0, 0},
		{10, 10},
	}))
	if err := k.Train(twoClusters); err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if err := k.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	centroids := k.Centroids()
	// Seed order is preserved, so cluster 0 is the low cluster.
	if math.Abs(centroids[0][0]-0.5) > 1e-9 || math.Abs(centroids[1][0]-10.5) > 1e-9 {
		t.Errorf("unexpected centroids %v", centroids)
	}
}

// TestKMeansEmptyClusterRetainsCentroid pre-seeds one centroid far from all
// samples; the empty cluster must keep its previous centroid instead of
// dividing by zero.
func TestKMeansEmptyClusterRetainsCentroid(t *testing.T) {
	k := NewKMeans(2, WithKMeansInitialCentroids([][]float64{
		{0.5, 0.5},
		{1000, 1000},
	}))
	if err := k.Train(twoClusters.Slice(0, 2, 0, 2)); err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if err := k.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	centroids := k.Centroids()
	if centroids[1][0] != 1000 || centroids[1][1] != 1000 {
		t.Errorf("empty cluster should retain its centroid, got %v", centroids[1])
	}
}

func TestKMeansLabelBeforeFinalize(t *testing.T) {
	k := NewKMeans(2)
	if err := k.Train(twoClusters); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	_, err := k.Label(twoClusters)
	if err == nil {
		t.Fatal("expected NotTrainedError before Finalize")
	}
	var notTrained *errors.NotTrainedError
	if !errors.As(err, &notTrained) {
		t.Errorf("expected NotTrainedError, got %T: %v", err, err)
	}
}

func TestKMeansMoreClustersThanSamples(t *testing.T) {
	k := NewKMeans(5)
	if err := k.Train(twoClusters); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	err := k.Finalize()
	if err == nil {
		t.Fatal("expected ValidationError for 5 clusters on 4 samples")
	}
	var valErr *errors.ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("expected ValidationError, got %T: %v", err, err)
	}
}

func TestKMeansConvergenceWarning(t *testing.T) {
	var warned error
	errors.SetZerologWarnFunc(nil)
	errors.SetWarningHandler(func(w error) { warned = w })
	defer errors.SetWarningHandler(nil)

	// One iteration cannot reach centroid equality from a bad seed.
	k := NewKMeans(2,
		WithKMeansMaxIter(1),
		WithKMeansInitialCentroids([][]float64{
			{0, 0},
			{1, 1},
		}))
	if err := k.Train(twoClusters); err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if err := k.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	if k.Converged() {
		t.Error("expected non-convergence with maxIter=1")
	}
	var convWarn *errors.ConvergenceWarning
	if warned == nil || !errors.As(warned, &convWarn) {
		t.Errorf("expected a ConvergenceWarning, got %v", warned)
	}
}
