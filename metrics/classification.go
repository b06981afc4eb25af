// Package metrics provides evaluation helpers for classifier output.
package metrics

import (
	"github.com/gomlkit/classify/pkg/errors"
)

// Accuracy returns the fraction of predictions equal to the true labels.
func Accuracy[L comparable](yTrue, yPred []L) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, errors.NewDimensionError("Accuracy", len(yTrue), len(yPred), 0)
	}
	if len(yTrue) == 0 {
		return 0, errors.WithStack(errors.ErrEmptyData)
	}

	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}

// ConfusionMatrix returns counts[true][predicted] over the paired labels.
// Only label pairs that occur are present in the nested maps.
func ConfusionMatrix[L comparable](yTrue, yPred []L) (map[L]map[L]int, error) {
	if len(yTrue) != len(yPred) {
		return nil, errors.NewDimensionError("ConfusionMatrix", len(yTrue), len(yPred), 0)
	}

	counts := make(map[L]map[L]int)
	for i := range yTrue {
		row, ok := counts[yTrue[i]]
		if !ok {
			row = make(map[L]int)
			counts[yTrue[i]] = row
		}
		row[yPred[i]]++
	}
	return counts, nil
}
