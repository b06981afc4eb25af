// Package model defines the shared training/inference contract implemented
// by every classifier: the train -> finalize -> label/probabilities
// lifecycle, and a thread-safe state manager tracking where in that
// lifecycle a classifier instance is.
package model

import (
	"sync"

	"github.com/gomlkit/classify/pkg/errors"
)

// StateManager tracks a classifier's position in the training lifecycle in a
// thread-safe manner. Classifiers hold it by composition.
type StateManager struct {
	mu sync.RWMutex

	modelName string
	trained   bool
	finalized bool

	inputDim int // 0 until fixed by construction or the first batch
	nSamples int
}

// NewStateManager creates a StateManager for the named classifier.
func NewStateManager(modelName string) *StateManager {
	return &StateManager{modelName: modelName}
}

// ModelName returns the classifier name used in error messages.
func (s *StateManager) ModelName() string {
	return s.modelName
}

// IsTrained reports whether the classifier has seen any training data.
func (s *StateManager) IsTrained() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trained
}

// IsFinalized reports whether Finalize has completed.
func (s *StateManager) IsFinalized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.finalized
}

// SetTrained marks the classifier as having accumulated training state and
// records the samples seen by this batch.
func (s *StateManager) SetTrained(nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trained = true
	s.nSamples += nSamples
}

// SetFinalized marks the classifier read-only for inference.
func (s *StateManager) SetFinalized() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalized = true
}

// NSamples returns the total number of training samples seen.
func (s *StateManager) NSamples() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nSamples
}

// InputDim returns the fixed input dimension, or 0 if not yet fixed.
func (s *StateManager) InputDim() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inputDim
}

// LockInputDim fixes the input dimension on first use and validates every
// later batch against it. The dimension is invariant for the classifier's
// lifetime once set.
func (s *StateManager) LockInputDim(op string, dim int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inputDim == 0 {
		s.inputDim = dim
		return nil
	}
	if dim != s.inputDim {
		return errors.NewDimensionError(op, s.inputDim, dim, 1)
	}
	return nil
}

// RequireTrained returns a NotTrainedError unless training state exists.
func (s *StateManager) RequireTrained(method string) error {
	if !s.IsTrained() {
		return errors.NewNotTrainedError(s.modelName, method)
	}
	return nil
}

// RequireFinalized returns a NotTrainedError unless Finalize has completed.
// Classifiers whose inference state only exists after finalization (K-means
// centroids, Gaussian inverse covariances) guard inference with this.
func (s *StateManager) RequireFinalized(method string) error {
	if !s.IsFinalized() {
		return errors.NewNotTrainedError(s.modelName, method)
	}
	return nil
}

// Reset returns the lifecycle to its initial state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trained = false
	s.finalized = false
	s.inputDim = 0
	s.nSamples = 0
}
