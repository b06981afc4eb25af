package classifier

import (
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/gomlkit/classify/core/model"
	"github.com/gomlkit/classify/pkg/errors"
	"github.com/gomlkit/classify/pkg/log"
)

// DiscreteHopfield is a binary associative memory. Training accumulates
// Hebbian outer products of bipolar-encoded patterns into a symmetric weight
// matrix; Finalize removes self-feedback by zeroing the diagonal. Labeling
// retrieves the stored pattern nearest to a (possibly corrupted) query via
// asynchronous relaxation.
//
// Inputs are strictly binary: every element must be exactly 0 or 1. Booleans
// map to bipolar values at the state boundary (0 -> -1, 1 -> +1).
//
// Labeling before Finalize is permitted but approximate, since the diagonal
// self-feedback is still present.
type DiscreteHopfield struct {
	state  *model.StateManager
	logger log.Logger

	// Hyperparameters
	shuffledUpdate bool      // randomize the unit-visit order each sweep
	threshold      []float64 // per-unit firing threshold; nil means all zero
	maxSweeps      int       // relaxation sweep cap

	// Learned parameters
	weights_      *mat.SymDense // symmetric, zero diagonal after Finalize
	patternCount_ int

	mu  sync.Mutex
	rng *rand.Rand
}

// HopfieldOption configures a DiscreteHopfield.
type HopfieldOption func(*DiscreteHopfield)

// WithHopfieldShuffledUpdate controls whether the unit-visit order is
// randomized on every relaxation sweep (default true).
func WithHopfieldShuffledUpdate(shuffled bool) HopfieldOption {
	return func(h *DiscreteHopfield) {
		h.shuffledUpdate = shuffled
	}
}

// WithHopfieldRandomState seeds the permutation source used for shuffled
// updates, making relaxation deterministic for tests.
func WithHopfieldRandomState(seed int64) HopfieldOption {
	return func(h *DiscreteHopfield) {
		h.rng = rand.New(rand.NewSource(seed))
	}
}

// WithHopfieldThreshold sets one firing threshold shared by every unit
// (default 0).
func WithHopfieldThreshold(threshold float64) HopfieldOption {
	return func(h *DiscreteHopfield) {
		h.threshold = []float64{threshold}
	}
}

// WithHopfieldThresholdVector sets a per-unit firing threshold vector. Its
// length must equal the input dimension at labeling time.
func WithHopfieldThresholdVector(threshold []float64) HopfieldOption {
	return func(h *DiscreteHopfield) {
		h.threshold = append([]float64(nil), threshold...)
	}
}

// WithHopfieldMaxSweeps caps the number of full relaxation sweeps per query
// (default 1000). Symmetric zero-diagonal weights guarantee convergence
// under asynchronous update, so the cap only matters pre-Finalize or under
// numerical pathologies; hitting it emits a ConvergenceWarning.
func WithHopfieldMaxSweeps(n int) HopfieldOption {
	return func(h *DiscreteHopfield) {
		h.maxSweeps = n
	}
}

// NewDiscreteHopfield creates a new DiscreteHopfield classifier.
func NewDiscreteHopfield(options ...HopfieldOption) *DiscreteHopfield {
	h := &DiscreteHopfield{
		state:          model.NewStateManager("DiscreteHopfield"),
		logger:         log.GetLoggerWithName("classifier"),
		shuffledUpdate: true,
		maxSweeps:      1000,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range options {
		opt(h)
	}
	return h
}

// Train stores the rows of X as memory patterns, accumulating
// outer(p, p) / inputDim into the weight matrix for each bipolar-encoded
// pattern p. Validation of the whole batch precedes any accumulation.
func (h *DiscreteHopfield) Train(X mat.Matrix) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	const op = "DiscreteHopfield.Train"
	if h.state.IsFinalized() {
		return errors.Newf("classify: %s: cannot train after Finalize", op)
	}
	rows, cols := X.Dims()
	if err := checkBinary(op, X); err != nil {
		return err
	}
	if err := h.state.LockInputDim(op, cols); err != nil {
		return err
	}

	if h.weights_ == nil {
		h.weights_ = mat.NewSymDense(cols, nil)
	}
	scale := 1 / float64(cols)
	for i := 0; i < rows; i++ {
		pattern := bipolar(mat.Row(nil, i, X))
		h.weights_.SymRankOne(h.weights_, scale, mat.NewVecDense(cols, pattern))
		h.patternCount_++
	}

	h.state.SetTrained(rows)
	h.logger.Debug("hopfield patterns stored",
		log.ModelNameKey, h.state.ModelName(),
		log.OperationKey, "train",
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
	)
	return nil
}

// Finalize removes self-feedback by zeroing the weight matrix diagonal.
// Idempotent.
func (h *DiscreteHopfield) Finalize() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.state.RequireTrained("Finalize"); err != nil {
		return err
	}
	if h.state.IsFinalized() {
		return nil
	}

	n := h.state.InputDim()
	for i := 0; i < n; i++ {
		h.weights_.SetSym(i, i, 0)
	}
	h.state.SetFinalized()
	return nil
}

// MemorySize returns the memory size of the net, i.e. the input dimension.
func (h *DiscreteHopfield) MemorySize() int {
	return h.state.InputDim()
}

// LoadParameter returns the ratio of stored patterns to memory size. Recall
// quality empirically breaks down when this exceeds about 0.14; the value is
// informational only and never enforced.
func (h *DiscreteHopfield) LoadParameter() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return float64(h.patternCount_) / float64(h.state.InputDim())
}

// Label retrieves, per row of X, the stored pattern the query relaxes to.
// Each query is bipolar-encoded and relaxed by asynchronous update until a
// full sweep produces no unit flips; the fixed point is mapped back to
// binary values in the returned matrix.
func (h *DiscreteHopfield) Label(X mat.Matrix) (*mat.Dense, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	const op = "DiscreteHopfield.Label"
	if err := h.state.RequireTrained("Label"); err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	if err := checkInputDim(op, h.state.InputDim(), cols); err != nil {
		return nil, err
	}
	if err := checkBinary(op, X); err != nil {
		return nil, err
	}
	threshold, err := h.thresholdVector(op, cols)
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		pattern := bipolar(mat.Row(nil, i, X))
		h.relax(pattern, threshold)
		out.SetRow(i, toBinary(pattern))
	}
	return out, nil
}

// relax runs asynchronous relaxation to a fixed point, mutating pattern in
// place. A unit whose activation is exactly zero is left unchanged.
func (h *DiscreteHopfield) relax(pattern, threshold []float64) {
	n := len(pattern)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	for sweep := 0; sweep < h.maxSweeps; sweep++ {
		converged := true
		if h.shuffledUpdate {
			h.rng.Shuffle(n, func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
		}
		for _, row := range order {
			var activation float64
			for j := 0; j < n; j++ {
				activation += h.weights_.At(row, j) * pattern[j]
			}
			next := sign(activation - threshold[row])
			if next == 0 {
				// A zero activation leaves the unit as it is.
				continue
			}
			if pattern[row] != next {
				pattern[row] = next
				converged = false
			}
		}
		if converged {
			return
		}
	}

	errors.Warn(errors.NewConvergenceWarning(
		"DiscreteHopfield", h.maxSweeps,
		"relaxation did not reach a fixed point; returning the current pattern",
	))
}

func (h *DiscreteHopfield) thresholdVector(op string, cols int) ([]float64, error) {
	switch len(h.threshold) {
	case 0:
		return make([]float64, cols), nil
	case 1:
		t := make([]float64, cols)
		for i := range t {
			t[i] = h.threshold[0]
		}
		return t, nil
	case cols:
		return h.threshold, nil
	default:
		return nil, errors.NewDimensionError(op, cols, len(h.threshold), 1)
	}
}

// bipolar maps binary {0,1} values to {-1,+1}.
func bipolar(row []float64) []float64 {
	out := make([]float64, len(row))
	for i, v := range row {
		if v == 1 {
			out[i] = 1
		} else {
			out[i] = -1
		}
	}
	return out
}

// toBinary maps bipolar {-1,+1} values back to {0,1}.
func toBinary(pattern []float64) []float64 {
	out := make([]float64, len(pattern))
	for i, v := range pattern {
		if v > 0 {
			out[i] = 1
		}
	}
	return out
}
