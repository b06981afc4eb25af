package classifier

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/gomlkit/classify/core/model"
	"github.com/gomlkit/classify/core/parallel"
	"github.com/gomlkit/classify/pkg/errors"
	"github.com/gomlkit/classify/pkg/log"
)

// KMeans clusters the accumulated training samples into a fixed number of
// centroids with Lloyd's algorithm. Train only buffers rows; all clustering
// happens in Finalize. After Finalize the centroids are the only inference
// state and Label returns, per row, the index of the nearest centroid as an
// integer cluster id rather than a domain label.
//
// Convergence is tested by exact equality of the centroid array between
// iterations, matching the reference behaviour. On noisy floating data this
// can oscillate below any epsilon, which is why maxIter exists; hitting the
// cap emits a ConvergenceWarning and keeps the last centroids.
type KMeans struct {
	state  *model.StateManager
	logger log.Logger

	// Hyperparameters
	numClusters int
	maxIter     int
	seeds       [][]float64 // optional pre-seeded initial centroids

	// Training accumulator: the samples themselves, nothing derived.
	samples_ [][]float64

	// Inference state, fixed by Finalize.
	centroids_ [][]float64
	nIter_     int
	converged_ bool

	mu  sync.RWMutex
	rng *rand.Rand
}

// KMeansOption configures a KMeans.
type KMeansOption func(*KMeans)

// WithKMeansMaxIter caps the number of Lloyd iterations (default 10000).
func WithKMeansMaxIter(maxIter int) KMeansOption {
	return func(k *KMeans) {
		k.maxIter = maxIter
	}
}

// WithKMeansRandomState seeds the centroid initialization, making Finalize
// deterministic for tests.
func WithKMeansRandomState(seed int64) KMeansOption {
	return func(k *KMeans) {
		k.rng = rand.New(rand.NewSource(seed))
	}
}

// WithKMeansInitialCentroids pre-seeds the initial centroids, bypassing
// random initialization. The slice length must equal numClusters and each
// centroid must match the input dimension.
func WithKMeansInitialCentroids(centroids [][]float64) KMeansOption {
	return func(k *KMeans) {
		k.seeds = make([][]float64, len(centroids))
		for i, c := range centroids {
			k.seeds[i] = append([]float64(nil), c...)
		}
	}
}

// NewKMeans creates a KMeans classifier with the given fixed cluster count.
func NewKMeans(numClusters int, options ...KMeansOption) *KMeans {
	k := &KMeans{
		state:       model.NewStateManager("KMeans"),
		logger:      log.GetLoggerWithName("classifier"),
		numClusters: numClusters,
		maxIter:     10000,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range options {
		opt(k)
	}
	return k
}

// Train appends the rows of X to the sample buffer. No clustering happens
// until Finalize.
func (k *KMeans) Train(X mat.Matrix) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	const op = "KMeans.Train"
	if k.state.IsFinalized() {
		return errors.Newf("classify: %s: cannot train after Finalize", op)
	}
	rows, cols := X.Dims()
	if err := k.state.LockInputDim(op, cols); err != nil {
		return err
	}

	for i := 0; i < rows; i++ {
		k.samples_ = append(k.samples_, mat.Row(nil, i, X))
	}

	k.state.SetTrained(rows)
	return nil
}

// Finalize runs Lloyd's algorithm over the accumulated samples: initial
// centroids are numClusters distinct samples drawn uniformly without
// replacement (unless pre-seeded); each iteration assigns every sample to
// its nearest centroid (ties to the lowest index) and recomputes centroids
// as the mean of their assignments, with a cluster that received no samples
// retaining its previous centroid. Iteration stops when the centroid array
// repeats exactly or maxIter is reached. Idempotent: a second call is a
// no-op.
func (k *KMeans) Finalize() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	const op = "KMeans.Finalize"
	if k.state.IsFinalized() {
		return nil
	}
	if err := k.state.RequireTrained("Finalize"); err != nil {
		return err
	}
	if k.numClusters < 1 {
		return errors.NewValidationError("numClusters", "must be at least 1", k.numClusters)
	}
	if len(k.samples_) < k.numClusters {
		return errors.NewValidationError("numClusters",
			"more clusters than accumulated training samples", k.numClusters)
	}

	dim := k.state.InputDim()
	centroids, err := k.initialCentroids(op, dim)
	if err != nil {
		return err
	}

	sums := make([][]float64, k.numClusters)
	counts := make([]int, k.numClusters)
	for c := range sums {
		sums[c] = make([]float64, dim)
	}

	k.converged_ = false
	for step := 0; step < k.maxIter; step++ {
		k.nIter_ = step + 1
		for c := range sums {
			for j := range sums[c] {
				sums[c][j] = 0
			}
			counts[c] = 0
		}

		for _, sample := range k.samples_ {
			idx := nearestCentroid(sample, centroids)
			for j, v := range sample {
				sums[idx][j] += v
			}
			counts[idx]++
		}

		next := make([][]float64, k.numClusters)
		for c := range next {
			next[c] = make([]float64, dim)
			if counts[c] == 0 {
				// Degenerate but defined: an empty cluster keeps its
				// previous centroid.
				copy(next[c], centroids[c])
				continue
			}
			for j := range next[c] {
				next[c][j] = sums[c][j] / float64(counts[c])
			}
		}

		if centroidsEqual(centroids, next) {
			k.converged_ = true
			break
		}
		centroids = next
	}

	if !k.converged_ {
		errors.Warn(errors.NewConvergenceWarning(
			"KMeans", k.maxIter,
			"centroids did not repeat exactly; keeping the last refinement",
		))
	}

	k.centroids_ = centroids
	k.samples_ = nil // only the centroids are read during inference
	k.state.SetFinalized()

	k.logger.Info("kmeans finalized",
		log.ModelNameKey, k.state.ModelName(),
		log.OperationKey, "finalize",
		log.SamplesKey, k.state.NSamples(),
		log.IterationKey, k.nIter_,
		log.ConvergedKey, k.converged_,
	)
	return nil
}

// initialCentroids returns the starting centroids: a copy of the pre-seeded
// ones when given, otherwise numClusters distinct samples chosen uniformly
// at random without replacement.
func (k *KMeans) initialCentroids(op string, dim int) ([][]float64, error) {
	centroids := make([][]float64, k.numClusters)
	if k.seeds != nil {
		if len(k.seeds) != k.numClusters {
			return nil, errors.NewDimensionError(op, k.numClusters, len(k.seeds), 0)
		}
		for i, seed := range k.seeds {
			if len(seed) != dim {
				return nil, errors.NewDimensionError(op, dim, len(seed), 1)
			}
			centroids[i] = append([]float64(nil), seed...)
		}
		return centroids, nil
	}

	for i, idx := range k.rng.Perm(len(k.samples_))[:k.numClusters] {
		centroids[i] = append([]float64(nil), k.samples_[idx]...)
	}
	return centroids, nil
}

// Label returns, per row of X, the index of the nearest centroid by
// Euclidean norm. Requires Finalize. Rows are labeled in parallel for large
// batches; the centroid state is read-only.
func (k *KMeans) Label(X mat.Matrix) ([]int, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	const op = "KMeans.Label"
	if err := k.state.RequireFinalized("Label"); err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	if err := checkInputDim(op, k.state.InputDim(), cols); err != nil {
		return nil, err
	}

	out := make([]int, rows)
	parallel.ForEachRow(rows, inferenceThreshold, func(i int) {
		out[i] = nearestCentroid(mat.Row(nil, i, X), k.centroids_)
	})
	return out, nil
}

// Centroids returns a copy of the finalized centroids.
func (k *KMeans) Centroids() [][]float64 {
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := make([][]float64, len(k.centroids_))
	for i, c := range k.centroids_ {
		out[i] = append([]float64(nil), c...)
	}
	return out
}

// NIterations returns the number of Lloyd iterations Finalize executed.
func (k *KMeans) NIterations() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.nIter_
}

// Converged reports whether Finalize stopped on centroid equality rather
// than the iteration cap.
func (k *KMeans) Converged() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.converged_
}

// nearestCentroid returns the index of the centroid closest to sample by
// Euclidean norm, breaking ties toward the lowest index.
func nearestCentroid(sample []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := euclideanDistance(sample, centroid); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func centroidsEqual(a, b [][]float64) bool {
	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}
