// Standard attribute keys for classifier log records. Using these keys keeps
// log output uniform across classifiers and easy to filter.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the classifier type.
	// Examples: "Perceptron", "DiscreteHopfield", "KMeans"
	ModelNameKey = "model.name"

	// OperationKey names the lifecycle operation being performed.
	// Standard values: "train", "finalize", "label", "probabilities"
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	ComponentKey = "ml.component"
)

// Data shape.
const (
	// SamplesKey is the number of rows in the batch being processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the input dimension of the batch.
	FeaturesKey = "data.features"

	// ClassesKey is the number of distinct labels discovered so far.
	ClassesKey = "data.classes"
)

// Training progress.
const (
	// IterationKey is the iteration/sweep count of an iterative procedure.
	IterationKey = "training.iteration"

	// ConvergedKey records whether an iterative procedure stabilized.
	ConvergedKey = "training.converged"
)

// Error context.
const (
	// ErrAttrKey is the key under which error values are logged.
	ErrAttrKey = "error"
)
