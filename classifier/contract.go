package classifier

import (
	"github.com/gomlkit/classify/core/model"
)

// The classifier variants are a closed set; these assertions pin each one to
// the piece of the shared contract it implements.
var (
	_ model.Labeler[float64] = (*Signum)(nil)

	_ model.Classifier[float64] = (*Perceptron)(nil)

	_ model.ProbabilisticClassifier[string] = (*SimpleMarkov[string])(nil)

	_ model.PatternTrainer = (*DiscreteHopfield)(nil)
	_ model.Finalizer      = (*DiscreteHopfield)(nil)

	_ model.PatternTrainer = (*KMeans)(nil)
	_ model.Finalizer      = (*KMeans)(nil)
	_ model.Labeler[int]   = (*KMeans)(nil)

	_ model.ProbabilisticClassifier[string] = (*Gaussian[string])(nil)
)
