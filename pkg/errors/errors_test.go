package errors

import (
	"strings"
	"testing"
)

func TestNotTrainedError(t *testing.T) {
	err := NewNotTrainedError("KMeans", "Label")

	var notTrained *NotTrainedError
	if !As(err, &notTrained) {
		t.Fatalf("expected NotTrainedError, got %T", err)
	}
	if notTrained.ModelName != "KMeans" || notTrained.Method != "Label" {
		t.Errorf("unexpected fields: %+v", notTrained)
	}
	if !strings.Contains(err.Error(), "KMeans") || !strings.Contains(err.Error(), "Label()") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestDimensionErrorAxisNames(t *testing.T) {
	tests := []struct {
		name string
		axis int
		want string
	}{
		{"feature axis", 1, "features"},
		{"row axis", 0, "rows"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDimensionError("Perceptron.Train", 3, 5, tt.axis)

			var dimErr *DimensionError
			if !As(err, &dimErr) {
				t.Fatalf("expected DimensionError, got %T", err)
			}
			if dimErr.Expected != 3 || dimErr.Got != 5 || dimErr.Axis != tt.axis {
				t.Errorf("unexpected fields: %+v", dimErr)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("message %q should name axis %q", err.Error(), tt.want)
			}
		})
	}
}

func TestInvalidLabelError(t *testing.T) {
	err := NewInvalidLabelError("Perceptron.Train", 2.0, "labels must be +1 or -1")

	var labelErr *InvalidLabelError
	if !As(err, &labelErr) {
		t.Fatalf("expected InvalidLabelError, got %T", err)
	}
	if labelErr.Label != 2.0 {
		t.Errorf("unexpected label: %v", labelErr.Label)
	}
	if !strings.Contains(err.Error(), "+1 or -1") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("numClusters", "must be positive", 0)

	var valErr *ValidationError
	if !As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if valErr.ParamName != "numClusters" || valErr.Value != 0 {
		t.Errorf("unexpected fields: %+v", valErr)
	}
}

func TestSentinelWrapping(t *testing.T) {
	err := Wrapf(ErrSingularMatrix, "Gaussian.Finalize: label %v", "a")
	if !Is(err, ErrSingularMatrix) {
		t.Errorf("wrapped error should match ErrSingularMatrix")
	}
	if !strings.Contains(err.Error(), "Gaussian.Finalize") {
		t.Errorf("wrap context missing: %s", err.Error())
	}
}

func TestConvergenceWarningMessage(t *testing.T) {
	w := NewConvergenceWarning("kmeans", 10000, "")
	if !strings.Contains(w.Error(), "kmeans failed to converge after 10000 iterations") {
		t.Errorf("unexpected message: %s", w.Error())
	}

	w = NewConvergenceWarning("hopfield", 1000, "pattern did not stabilize")
	if !strings.Contains(w.Error(), "pattern did not stabilize") {
		t.Errorf("unexpected message: %s", w.Error())
	}
}

func TestWarnHandlerPrecedence(t *testing.T) {
	defer SetWarningHandler(nil)
	defer SetZerologWarnFunc(nil)

	var viaHandler, viaZerolog error
	SetWarningHandler(func(w error) { viaHandler = w })
	SetZerologWarnFunc(nil)

	warning := NewConvergenceWarning("kmeans", 3, "")
	Warn(warning)
	if viaHandler != warning {
		t.Fatalf("plain handler should receive the warning")
	}

	// A zerolog sink takes precedence over the plain handler.
	viaHandler = nil
	SetZerologWarnFunc(func(w error) { viaZerolog = w })
	Warn(warning)
	if viaZerolog != warning {
		t.Fatalf("zerolog sink should receive the warning")
	}
	if viaHandler != nil {
		t.Fatalf("plain handler should be bypassed when a zerolog sink is set")
	}
}
