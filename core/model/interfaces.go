package model

import (
	"gonum.org/v1/gonum/mat"
)

// Trainer is the interface for supervised classifiers. labels may be:
//   - length == rows: one label per batch row,
//   - length == 1: broadcast across the whole batch,
//   - any other length: a DimensionError, raised before any mutation.
//
// Training batches may be supplied incrementally across multiple calls.
type Trainer[L comparable] interface {
	Train(X mat.Matrix, labels []L) error
}

// PatternTrainer is the interface for unsupervised classifiers that consume
// raw batches without labels (Hopfield pattern storage, K-means sample
// accumulation).
type PatternTrainer interface {
	Train(X mat.Matrix) error
}

// Finalizer derives the read-only inference state from the training
// accumulators. Finalize is idempotent; calling it twice is equivalent to
// calling it once. Classifiers without a distinct finalize step satisfy the
// interface with a no-op.
type Finalizer interface {
	Finalize() error
}

// Labeler produces one discrete label per batch row.
type Labeler[L comparable] interface {
	Label(X mat.Matrix) ([]L, error)
}

// Prober produces, per batch row, a mapping from class label to
// class-conditional probability. An empty map signals "no information"
// rather than an error.
type Prober[L comparable] interface {
	Probabilities(X mat.Matrix) ([]map[L]float64, error)
}

// Classifier is the full supervised contract: train, finalize, label.
type Classifier[L comparable] interface {
	Trainer[L]
	Finalizer
	Labeler[L]
}

// ProbabilisticClassifier additionally exposes class-conditional
// probabilities (Markov, Gaussian).
type ProbabilisticClassifier[L comparable] interface {
	Classifier[L]
	Prober[L]
}
