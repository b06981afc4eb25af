package classifier

import (
	"cmp"
	"math"
	"slices"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/gomlkit/classify/core/model"
	"github.com/gomlkit/classify/core/parallel"
	"github.com/gomlkit/classify/pkg/errors"
	"github.com/gomlkit/classify/pkg/log"
)

// Gaussian performs supervised classification by fitting one multivariate
// Gaussian density per class. Training streams batches into per-label
// covariance accumulators; labels are discovered incrementally, so different
// calls may contribute different label subsets. Finalize freezes the label
// set into a canonical sorted order and derives the inference state: per
// label the mean, the inverse covariance, the square root of the covariance
// determinant and the prior (class frequency), with priors normalized to sum
// to 1. The raw accumulators are discarded.
//
// Probabilities returns the posterior p(label|x) per row, normalized across
// labels; Label applies the Maximum A-Posteriori rule.
type Gaussian[L cmp.Ordered] struct {
	state  *model.StateManager
	logger log.Logger

	// Training accumulators, discarded by Finalize.
	covs map[L]*covAccumulator

	// Inference state, fixed by Finalize. labels_ is the canonical index
	// space for every other slice.
	labels_   []L
	means_    [][]float64
	invCovs_  []*mat.Dense
	sqrtDets_ []float64
	priors_   []float64

	mu sync.RWMutex
}

// NewGaussian creates a new Gaussian classifier.
func NewGaussian[L cmp.Ordered]() *Gaussian[L] {
	return &Gaussian[L]{
		state:  model.NewStateManager("Gaussian"),
		logger: log.GetLoggerWithName("classifier"),
		covs:   make(map[L]*covAccumulator),
	}
}

// Train partitions the batch by the distinct labels observed in this call
// and streams each partition into that label's covariance accumulator,
// creating accumulators for labels seen for the first time. A single label
// broadcasts the whole batch into one accumulator. Validation of shape and
// label count precedes any accumulation.
func (g *Gaussian[L]) Train(X mat.Matrix, labels []L) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	const op = "Gaussian.Train"
	if g.state.IsFinalized() {
		return errors.Newf("classify: %s: cannot train after Finalize", op)
	}
	rows, cols := X.Dims()
	if err := checkLabels(op, rows, labels); err != nil {
		return err
	}
	if err := g.state.LockInputDim(op, cols); err != nil {
		return err
	}

	for i := 0; i < rows; i++ {
		lbl := labelAt(labels, i)
		acc, ok := g.covs[lbl]
		if !ok {
			acc = newCovAccumulator(cols)
			g.covs[lbl] = acc
		}
		acc.observe(mat.Row(nil, i, X))
	}

	g.state.SetTrained(rows)
	g.logger.Debug("gaussian batch trained",
		log.ModelNameKey, g.state.ModelName(),
		log.OperationKey, "train",
		log.SamplesKey, rows,
		log.ClassesKey, len(g.covs),
	)
	return nil
}

// Finalize sorts the discovered labels into the canonical order, derives
// mean, inverse covariance, determinant root and prior per label, normalizes
// the priors, and discards the accumulators. Idempotent: a second call is a
// no-op.
func (g *Gaussian[L]) Finalize() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	const op = "Gaussian.Finalize"
	if g.state.IsFinalized() {
		return nil
	}
	if err := g.state.RequireTrained("Finalize"); err != nil {
		return err
	}

	labels := make([]L, 0, len(g.covs))
	for lbl := range g.covs {
		labels = append(labels, lbl)
	}
	slices.Sort(labels)

	n := len(labels)
	means := make([][]float64, n)
	invCovs := make([]*mat.Dense, n)
	sqrtDets := make([]float64, n)
	priors := make([]float64, n)

	total := 0
	for i, lbl := range labels {
		mean, cov, count, err := g.covs[lbl].finalize()
		if err != nil {
			return errors.Wrapf(err, "%s: label %v", op, lbl)
		}

		det := mat.Det(cov)
		if det <= 0 {
			return errors.Wrapf(errors.ErrSingularMatrix, "%s: label %v", op, lbl)
		}
		inv := mat.NewDense(g.state.InputDim(), g.state.InputDim(), nil)
		if err := inv.Inverse(cov); err != nil {
			return errors.Wrapf(errors.ErrSingularMatrix, "%s: label %v: %v", op, lbl, err)
		}

		means[i] = mean
		invCovs[i] = inv
		sqrtDets[i] = math.Sqrt(det)
		priors[i] = float64(count)
		total += count
	}
	for i := range priors {
		priors[i] /= float64(total)
	}

	g.labels_ = labels
	g.means_ = means
	g.invCovs_ = invCovs
	g.sqrtDets_ = sqrtDets
	g.priors_ = priors
	g.covs = nil // inference reads only the derived arrays
	g.state.SetFinalized()

	g.logger.Info("gaussian finalized",
		log.ModelNameKey, g.state.ModelName(),
		log.OperationKey, "finalize",
		log.SamplesKey, total,
		log.ClassesKey, n,
	)
	return nil
}

// Probabilities returns, per row of X, the posterior probability of every
// class given the row: the Gaussian density at the row times the class
// prior, normalized across classes to sum to 1. Requires Finalize. Rows are
// evaluated in parallel for large batches.
func (g *Gaussian[L]) Probabilities(X mat.Matrix) ([]map[L]float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	posterior, rows, err := g.posterior(X, "Gaussian.Probabilities")
	if err != nil {
		return nil, err
	}

	out := make([]map[L]float64, rows)
	for i := 0; i < rows; i++ {
		probs := make(map[L]float64, len(g.labels_))
		for c, lbl := range g.labels_ {
			probs[lbl] = posterior[i][c]
		}
		out[i] = probs
	}
	return out, nil
}

// Label classifies every row of X with the Maximum A-Posteriori rule: the
// label whose posterior probability is largest, ties resolving to the
// smallest label in canonical order.
func (g *Gaussian[L]) Label(X mat.Matrix) ([]L, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	posterior, rows, err := g.posterior(X, "Gaussian.Label")
	if err != nil {
		return nil, err
	}

	out := make([]L, rows)
	for i := 0; i < rows; i++ {
		winner := 0
		for c := 1; c < len(g.labels_); c++ {
			if posterior[i][c] > posterior[i][winner] {
				winner = c
			}
		}
		out[i] = g.labels_[winner]
	}
	return out, nil
}

// posterior computes the normalized posterior matrix, one row per query row
// and one column per label in canonical order. Caller must hold the read
// lock.
func (g *Gaussian[L]) posterior(X mat.Matrix, op string) ([][]float64, int, error) {
	if err := g.state.RequireFinalized(op[len("Gaussian."):]); err != nil {
		return nil, 0, err
	}
	rows, cols := X.Dims()
	if err := checkInputDim(op, g.state.InputDim(), cols); err != nil {
		return nil, 0, err
	}

	dim := float64(cols)
	out := make([][]float64, rows)
	parallel.ForEachRow(rows, inferenceThreshold, func(i int) {
		x := mat.Row(nil, i, X)
		probs := make([]float64, len(g.labels_))

		var total float64
		for c := range g.labels_ {
			probs[c] = g.density(x, c, dim) * g.priors_[c]
			total += probs[c]
		}
		if total > 0 {
			for c := range probs {
				probs[c] /= total
			}
		}
		out[i] = probs
	})
	return out, rows, nil
}

// density evaluates the multivariate Gaussian density of class index c at x:
// exp(-0.5 * (x-mean)^T invCov (x-mean)) / ((2*pi)^(dim/2) * sqrt(det)).
func (g *Gaussian[L]) density(x []float64, c int, dim float64) float64 {
	mean := g.means_[c]
	invCov := g.invCovs_[c]

	diff := make([]float64, len(x))
	for j := range x {
		diff[j] = x[j] - mean[j]
	}

	var exponent float64
	for j := range diff {
		var dot float64
		for l := range diff {
			dot += invCov.At(j, l) * diff[l]
		}
		exponent += diff[j] * dot
	}

	constant := math.Pow(2*math.Pi, -dim/2) / g.sqrtDets_[c]
	return constant * math.Exp(-0.5*exponent)
}

// Classes returns the canonical sorted label order fixed by Finalize.
func (g *Gaussian[L]) Classes() []L {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]L(nil), g.labels_...)
}

// Priors returns the normalized class priors in canonical label order.
func (g *Gaussian[L]) Priors() []float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]float64(nil), g.priors_...)
}

// Means returns a copy of the class means in canonical label order.
func (g *Gaussian[L]) Means() [][]float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([][]float64, len(g.means_))
	for i, m := range g.means_ {
		out[i] = append([]float64(nil), m...)
	}
	return out
}
