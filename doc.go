// Package classify provides a small family of supervised and unsupervised
// statistical classifiers sharing one training/inference contract: consume
// fixed-width numeric feature batches, accumulate per-classifier statistical
// state, and produce discrete class labels or class-conditional
// probabilities.
//
// # Classifiers
//
//   - classifier.Signum: stateless sign-of-sum baseline
//   - classifier.Perceptron: online linear-threshold learner
//   - classifier.SimpleMarkov: frequency-table conditional probabilities
//   - classifier.DiscreteHopfield: binary associative memory
//   - classifier.KMeans: Lloyd's-algorithm clustering
//   - classifier.Gaussian: per-class multivariate Gaussian densities
//
// # Quick start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/gomlkit/classify/classifier"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 2, []float64{
//	        2, 2,
//	        3, 2,
//	        -2, -1,
//	        -3, -2,
//	    })
//	    y := []float64{1, 1, -1, -1}
//
//	    p := classifier.NewPerceptron()
//	    for epoch := 0; epoch < 10; epoch++ {
//	        if err := p.Train(X, y); err != nil {
//	            log.Fatal(err)
//	        }
//	    }
//
//	    labels, err := p.Label(X)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(labels)
//	}
//
// All dense numeric work is built on gonum; errors carry stack traces via
// cockroachdb/errors (pkg/errors) and structured logs go through zerolog
// (pkg/log).
package classify
