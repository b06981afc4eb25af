// Package errors provides the error handling and warning system for the
// classify library. It exposes structured error types for the classifier
// training/inference lifecycle and thin wrappers around cockroachdb/errors
// so that call sites get stack traces for free.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("classify-warning: %v\n", w)
	}
	// zerolog warn hook, injected lazily by pkg/log to avoid an import cycle.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler sets the library-wide warning handler. Convergence
// problems are reported through this handler rather than as hard errors.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // drop all warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs a zerolog-backed warning sink. Used by pkg/log.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning. A configured zerolog sink takes precedence over the
// plain handler.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warning types
//
// ===========================================================================

// ConvergenceWarning is emitted when an iterative procedure (K-means
// centroid refinement, Hopfield relaxation) hits its iteration cap without
// stabilizing. The classifier keeps the best state found so far, so this is
// reported as a warning rather than an error.
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s failed to converge after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
	}
	return fmt.Sprintf("%s failed to converge after %d iterations. Consider increasing the iteration cap.", w.Algorithm, w.Iterations)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning creates a new ConvergenceWarning.
func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// NotTrainedError is returned when Label or Probabilities is called before
// the classifier holds the state those operations need (training data for
// the incremental classifiers, a completed Finalize for the batch ones).
type NotTrainedError struct {
	ModelName string
	Method    string
}

func (e *NotTrainedError) Error() string {
	return fmt.Sprintf("classify: %s: classifier is not trained yet. Train (and Finalize where required) before calling %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotTrainedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotTrainedError")
}

// NewNotTrainedError creates a new NotTrainedError with a stack trace.
func NewNotTrainedError(modelName, method string) error {
	err := &NotTrainedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError is returned when an input batch does not match the expected
// shape: feature length != input dimension (axis 1), or label count != batch
// row count (axis 0). It is raised before any classifier state is mutated.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows/labels, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("classify: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a new DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// InvalidLabelError is returned when a training label falls outside the
// label domain a classifier accepts (the perceptron requires exactly +1/-1).
type InvalidLabelError struct {
	Op     string
	Label  interface{}
	Reason string
}

func (e *InvalidLabelError) Error() string {
	return fmt.Sprintf("classify: %s: invalid label %v: %s", e.Op, e.Label, e.Reason)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *InvalidLabelError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Interface("label", e.Label).
		Str("reason", e.Reason).
		Str("type", "InvalidLabelError")
}

// NewInvalidLabelError creates a new InvalidLabelError with a stack trace.
func NewInvalidLabelError(op string, label interface{}, reason string) error {
	err := &InvalidLabelError{Op: op, Label: label, Reason: reason}
	return errors.WithStack(err)
}

// UnsupportedTypeError is returned when batch elements fall outside a
// classifier's supported value domain, e.g. non-binary input to the discrete
// Hopfield memory. Values outside the domain are never silently coerced.
type UnsupportedTypeError struct {
	Op       string
	Expected string
	Got      interface{}
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("classify: %s: unsupported element %v, expected %s", e.Op, e.Got, e.Expected)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *UnsupportedTypeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("expected", e.Expected).
		Interface("got", e.Got).
		Str("type", "UnsupportedTypeError")
}

// NewUnsupportedTypeError creates a new UnsupportedTypeError with a stack trace.
func NewUnsupportedTypeError(op, expected string, got interface{}) error {
	err := &UnsupportedTypeError{Op: op, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// ValidationError is returned when a constructor or option parameter fails
// validation, e.g. a non-positive cluster count.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("classify: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a new ValidationError with a stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches the target error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As reports whether err can be assigned to target's type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an existing error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an existing error with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates an error with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common sentinel errors
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an operation receives no data.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when a covariance matrix cannot be
	// inverted during Gaussian finalization.
	ErrSingularMatrix = New("singular matrix")
)
