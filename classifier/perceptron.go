package classifier

import (
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/gomlkit/classify/core/model"
	"github.com/gomlkit/classify/pkg/errors"
	"github.com/gomlkit/classify/pkg/log"
)

// Perceptron is an online linear-threshold learner with a bias term.
// Labels must be exactly +1 or -1. Training is a per-sample gradient step:
// the order of rows within a batch is the order of weight updates, so
// training is not commutative across row permutations.
//
// There is no distinct finalize step; training and labeling may be freely
// interleaved.
type Perceptron struct {
	state  *model.StateManager
	logger log.Logger

	// Hyperparameters
	learningRate float64

	// Learned parameters
	weights_ []float64 // lazily initialized to all ones on first Train
	bias_    float64

	mu sync.RWMutex
}

// PerceptronOption configures a Perceptron.
type PerceptronOption func(*Perceptron)

// WithPerceptronLearningRate sets the constant learning rate (default 0.1).
func WithPerceptronLearningRate(lr float64) PerceptronOption {
	return func(p *Perceptron) {
		p.learningRate = lr
	}
}

// NewPerceptron creates a new Perceptron classifier.
func NewPerceptron(options ...PerceptronOption) *Perceptron {
	p := &Perceptron{
		state:        model.NewStateManager("Perceptron"),
		logger:       log.GetLoggerWithName("classifier"),
		learningRate: 0.1,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Train updates the weights with one online pass over the batch. labels must
// contain only +1 and -1, with one label per row or a single broadcast
// label. All validation happens before the first weight update.
func (p *Perceptron) Train(X mat.Matrix, labels []float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	const op = "Perceptron.Train"
	rows, cols := X.Dims()
	if err := checkLabels(op, rows, labels); err != nil {
		return err
	}
	for _, l := range labels {
		if l != 1 && l != -1 {
			return errors.NewInvalidLabelError(op, l, "perceptron labels must be either -1 or 1")
		}
	}
	if err := p.state.LockInputDim(op, cols); err != nil {
		return err
	}

	if p.weights_ == nil {
		p.weights_ = make([]float64, cols)
		for j := range p.weights_ {
			p.weights_[j] = 1
		}
	}

	for i := 0; i < rows; i++ {
		xi := mat.Row(nil, i, X)
		// Read-then-write per sample: the prediction uses the weights as
		// they stand before this sample's update.
		pred := sign(floats.Dot(p.weights_, xi) + p.bias_)
		rate := p.learningRate * (labelAt(labels, i) - pred)
		floats.AddScaled(p.weights_, rate, xi)
		// The bias corresponds to a unit whose input is always 1.
		p.bias_ += rate
	}

	p.state.SetTrained(rows)
	p.logger.Debug("perceptron batch trained",
		log.ModelNameKey, p.state.ModelName(),
		log.OperationKey, "train",
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
	)
	return nil
}

// Finalize is a no-op: the perceptron has no distinct finalize step.
func (p *Perceptron) Finalize() error {
	return nil
}

// Label returns sign(w.x + bias) for every row of X.
func (p *Perceptron) Label(X mat.Matrix) ([]float64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	const op = "Perceptron.Label"
	if err := p.state.RequireTrained("Label"); err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	if err := checkInputDim(op, p.state.InputDim(), cols); err != nil {
		return nil, err
	}

	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = sign(floats.Dot(p.weights_, mat.Row(nil, i, X)) + p.bias_)
	}
	return out, nil
}

// Weights returns a copy of the learned weight vector.
func (p *Perceptron) Weights() []float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]float64, len(p.weights_))
	copy(out, p.weights_)
	return out
}

// Bias returns the learned bias term.
func (p *Perceptron) Bias() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bias_
}
