package classifier

import (
	"cmp"
	"slices"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/gomlkit/classify/core/model"
	"github.com/gomlkit/classify/pkg/log"
)

// joint keys the co-occurrence counter of a feature tuple with a label.
type joint[L cmp.Ordered] struct {
	feature string
	label   L
}

// SimpleMarkov estimates conditional label probabilities from frequency
// tables over discrete feature tuples. All counters grow monotonically
// during training; probabilities are computable incrementally at any time,
// so there is no distinct finalize step.
//
// Feature tuples are keyed by a canonical byte encoding of the row, giving
// deterministic equality and hashing across platforms.
type SimpleMarkov[L cmp.Ordered] struct {
	state  *model.StateManager
	logger log.Logger

	featureCounts     map[string]int
	labelCounts       map[L]int
	jointCounts       map[joint[L]]int
	totalObservations int

	mu sync.RWMutex
}

// NewSimpleMarkov creates a new SimpleMarkov classifier.
func NewSimpleMarkov[L cmp.Ordered]() *SimpleMarkov[L] {
	return &SimpleMarkov[L]{
		state:         model.NewStateManager("SimpleMarkov"),
		logger:        log.GetLoggerWithName("classifier"),
		featureCounts: make(map[string]int),
		labelCounts:   make(map[L]int),
		jointCounts:   make(map[joint[L]]int),
	}
}

// Train increments the feature, label and joint counters for every
// (row, label) pair of the batch. A single label broadcasts across all rows.
func (m *SimpleMarkov[L]) Train(X mat.Matrix, labels []L) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	const op = "SimpleMarkov.Train"
	rows, cols := X.Dims()
	if err := checkLabels(op, rows, labels); err != nil {
		return err
	}
	if err := m.state.LockInputDim(op, cols); err != nil {
		return err
	}

	for i := 0; i < rows; i++ {
		m.learn(featureKey(mat.Row(nil, i, X)), labelAt(labels, i))
	}

	m.state.SetTrained(rows)
	m.logger.Debug("markov batch trained",
		log.ModelNameKey, m.state.ModelName(),
		log.OperationKey, "train",
		log.SamplesKey, rows,
		log.ClassesKey, len(m.labelCounts),
	)
	return nil
}

func (m *SimpleMarkov[L]) learn(feature string, label L) {
	m.totalObservations++
	m.labelCounts[label]++
	m.featureCounts[feature]++
	m.jointCounts[joint[L]{feature: feature, label: label}]++
}

// Finalize is a no-op: the frequency tables stay incrementally usable.
func (m *SimpleMarkov[L]) Finalize() error {
	return nil
}

// Probabilities returns, per row, a mapping from every label observed so far
// to p(label|feature) computed via Bayes' rule from the frequency tables.
// A feature tuple never seen during training yields an empty map: this is a
// deliberate "no information" signal, not an error, since normalizing by a
// zero feature count would divide by zero. The returned probabilities are
// not renormalized and may not sum to 1 when counts are sparse.
func (m *SimpleMarkov[L]) Probabilities(X mat.Matrix) ([]map[L]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	const op = "SimpleMarkov.Probabilities"
	if err := m.state.RequireTrained("Probabilities"); err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	if err := checkInputDim(op, m.state.InputDim(), cols); err != nil {
		return nil, err
	}

	out := make([]map[L]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = m.probOne(featureKey(mat.Row(nil, i, X)))
	}
	return out, nil
}

func (m *SimpleMarkov[L]) probOne(feature string) map[L]float64 {
	nFeature, seen := m.featureCounts[feature]
	if !seen {
		return map[L]float64{}
	}

	total := float64(m.totalObservations)
	pFeature := float64(nFeature) / total

	probs := make(map[L]float64, len(m.labelCounts))
	for label, nLabel := range m.labelCounts {
		nJoint := m.jointCounts[joint[L]{feature: feature, label: label}]
		pFeatureGivenLabel := float64(nJoint) / float64(nLabel)
		pLabel := float64(nLabel) / total
		probs[label] = pFeatureGivenLabel * pLabel / pFeature
	}
	return probs
}

// Label returns the arg-max label of Probabilities for every row, the
// derivation the probability surface prescribes for callers. Ties resolve to
// the smallest label in sorted order. A row whose feature tuple was never
// observed gets the zero value of L; inspect Probabilities when the
// distinction matters.
func (m *SimpleMarkov[L]) Label(X mat.Matrix) ([]L, error) {
	probs, err := m.Probabilities(X)
	if err != nil {
		return nil, err
	}

	out := make([]L, len(probs))
	for i, rowProbs := range probs {
		labels := make([]L, 0, len(rowProbs))
		for label := range rowProbs {
			labels = append(labels, label)
		}
		slices.Sort(labels)

		best := 0.0
		for _, label := range labels {
			if p := rowProbs[label]; p > best {
				best = p
				out[i] = label
			}
		}
		if len(labels) > 0 && best == 0 {
			out[i] = labels[0]
		}
	}
	return out, nil
}

// TotalObservations returns the number of (feature, label) pairs learned.
func (m *SimpleMarkov[L]) TotalObservations() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalObservations
}
