// Package classifier implements a small family of statistical classifiers
// sharing one training/inference lifecycle: train on fixed-width numeric
// feature batches, optionally finalize the accumulated state, then produce
// discrete labels or class-conditional probabilities.
//
// The variants are a closed set:
//
//   - Signum: stateless sign-of-sum baseline
//   - Perceptron: online linear-threshold learner with bias term
//   - SimpleMarkov: frequency-table conditional probability estimator
//   - DiscreteHopfield: binary associative memory with asynchronous relaxation
//   - KMeans: Lloyd's-algorithm clustering
//   - Gaussian: per-class multivariate Gaussian density estimation
//
// Perceptron and SimpleMarkov learn incrementally and need no finalize step.
// DiscreteHopfield permits interleaved training and recall, but recall is
// only approximate until Finalize removes self-feedback. KMeans and Gaussian
// forbid inference before Finalize. After Finalize every classifier is
// read-only and safe for concurrent inference.
package classifier
