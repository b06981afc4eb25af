package classifier

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Signum is the stateless baseline classifier. Each row is labeled with the
// sign of its element sum: +1 if positive, -1 if negative, 0 if the sum is
// exactly zero. It carries no training state and needs no finalization.
type Signum struct{}

// NewSignum creates a new Signum classifier.
func NewSignum() *Signum {
	return &Signum{}
}

// Label returns sign(sum(row)) for every row of X.
func (s *Signum) Label(X mat.Matrix) ([]float64, error) {
	rows, _ := X.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = sign(floats.Sum(mat.Row(nil, i, X)))
	}
	return out, nil
}
