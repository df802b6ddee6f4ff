// Standard attribute keys for forecasting and inventory operations.
//
// Keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") to make structured log analysis and filtering easy.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model or transformer.
	// Examples: "Forecaster", "RandomForestRegressor", "OneHotEncoder"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "forecast"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) after encoding.
	FeaturesKey = "data.features"

	// ColumnKey names a dataset column involved in the operation.
	ColumnKey = "data.column"

	// TargetKey names the column used as regression target.
	TargetKey = "data.target"

	// PathKey records the file a dataset was loaded from or a chart was written to.
	PathKey = "data.path"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// R2ScoreKey records R² coefficient of determination for regression.
	R2ScoreKey = "metrics.r2_score"

	// MAEKey records the mean absolute error on the evaluation partition.
	MAEKey = "metrics.mae"

	// TrainSizeKey and TestSizeKey record the split partition sizes.
	TrainSizeKey = "split.train_size"
	TestSizeKey  = "split.test_size"
)

// Prediction and Output Context
const (
	// PredsKey indicates the number of predictions made.
	PredsKey = "preds.count"

	// HorizonKey records the number of future steps requested.
	HorizonKey = "preds.horizon"
)

// Error Context
const (
	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	StacktraceKey = "error.stacktrace"
)

// Hyperparameters and Configuration
const (
	// EstimatorsKey records the ensemble size.
	EstimatorsKey = "hyperparams.n_estimators"

	// MinSamplesLeafKey records the minimum leaf sample count.
	MinSamplesLeafKey = "hyperparams.min_samples_leaf"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationTransform = "transform"
	OperationForecast  = "forecast"
	OperationLoad      = "load"

	PhaseTraining      = "training"
	PhaseValidation    = "validation"
	PhaseInference     = "inference"
	PhasePreprocessing = "preprocessing"
)
