package classifier

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/gomlkit/classify/pkg/errors"
)

// covAccumulator keeps the running sufficient statistics of one class:
// the vector sum, the sum of outer products and the observation count.
// They are enough to derive mean and covariance incrementally without
// storing the samples themselves.
type covAccumulator struct {
	dim      int
	sum      []float64
	sumOuter *mat.SymDense
	count    int
}

func newCovAccumulator(dim int) *covAccumulator {
	return &covAccumulator{
		dim:      dim,
		sum:      make([]float64, dim),
		sumOuter: mat.NewSymDense(dim, nil),
	}
}

// observe streams one sample into the statistics.
func (c *covAccumulator) observe(row []float64) {
	floats.Add(c.sum, row)
	c.sumOuter.SymRankOne(c.sumOuter, 1, mat.NewVecDense(c.dim, row))
	c.count++
}

// finalize derives the mean and the unbiased covariance
// (S - n*mean*mean^T) / (n-1) from the accumulated statistics.
func (c *covAccumulator) finalize() (mean []float64, cov *mat.SymDense, count int, err error) {
	if c.count < 2 {
		return nil, nil, 0, errors.Wrapf(errors.ErrEmptyData,
			"covariance needs at least two observations, got %d", c.count)
	}

	n := float64(c.count)
	mean = make([]float64, c.dim)
	for i, s := range c.sum {
		mean[i] = s / n
	}

	cov = mat.NewSymDense(c.dim, nil)
	for i := 0; i < c.dim; i++ {
		for j := i; j < c.dim; j++ {
			v := (c.sumOuter.At(i, j) - n*mean[i]*mean[j]) / (n - 1)
			cov.SetSym(i, j, v)
		}
	}
	return mean, cov, c.count, nil
}
