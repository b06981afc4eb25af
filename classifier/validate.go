package classifier

import (
	"encoding/binary"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/gomlkit/classify/pkg/errors"
)

// inferenceThreshold is the batch row count above which read-only inference
// fans out across CPU cores.
const inferenceThreshold = 256

// sign returns -1, 0 or +1. Zero is preserved, never forced to +-1; this is
// the sign convention used by every classifier in this package.
func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// checkLabels validates the label sequence against the batch row count
// before any state is mutated. A length-1 sequence broadcasts across the
// whole batch; any other mismatch is a DimensionError on axis 0.
func checkLabels[L comparable](op string, rows int, labels []L) error {
	if len(labels) == rows || len(labels) == 1 {
		return nil
	}
	return errors.NewDimensionError(op, rows, len(labels), 0)
}

// labelAt pairs row i with its label under the stretched-zip rule: a
// shorter label sequence repeats its last element to fill.
func labelAt[L comparable](labels []L, i int) L {
	if i >= len(labels) {
		return labels[len(labels)-1]
	}
	return labels[i]
}

// checkInputDim validates an inference batch against the fixed input
// dimension.
func checkInputDim(op string, expected, got int) error {
	if got != expected {
		return errors.NewDimensionError(op, expected, got, 1)
	}
	return nil
}

// checkBinary verifies that every element of X is exactly 0 or 1. Non-binary
// values are rejected, not coerced.
func checkBinary(op string, X mat.Matrix) error {
	rows, cols := X.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := X.At(i, j); v != 0 && v != 1 {
				return errors.NewUnsupportedTypeError(op, "binary value 0 or 1", v)
			}
		}
	}
	return nil
}

// featureKey canonically encodes a feature row so it can key a counter map
// with deterministic equality and hashing across platforms. The encoding is
// the big-endian IEEE-754 bit pattern of each element.
func featureKey(row []float64) string {
	buf := make([]byte, 8*len(row))
	for i, v := range row {
		binary.BigEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return string(buf)
}

// euclideanDistance returns the Euclidean distance between two vectors of
// equal length.
func euclideanDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
