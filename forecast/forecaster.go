package forecast

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stockcast/core/model"
	"github.com/YuminosukeSato/stockcast/metrics"
	"github.com/YuminosukeSato/stockcast/pkg/errors"
	"github.com/YuminosukeSato/stockcast/pkg/log"
	"github.com/YuminosukeSato/stockcast/preprocessing"
	"github.com/YuminosukeSato/stockcast/sklearn/ensemble"
	"github.com/YuminosukeSato/stockcast/sklearn/model_selection"
)

const modelName = "Forecaster"

// FeatureScore is one entry of the feature-importance ranking.
type FeatureScore struct {
	Name  string
	Score float64
}

// TrainingResult is returned by Train. The metrics are computed on the
// held-out evaluation partition.
type TrainingResult struct {
	R2Score           float64
	MAE               float64
	FeatureImportance []FeatureScore // sorted by Score, descending
}

// Forecaster is the demand model: a one-hot encoder for the categorical
// columns in front of a random-forest regressor.
//
// A Forecaster is Untrained until Train succeeds; each Train replaces the
// previous fit entirely. It does no locking of its own: Train needs
// exclusive access, while Predict, ForecastFuture and FutureFrame may run
// concurrently with each other but not with Train.
type Forecaster struct {
	state *model.StateManager

	nEstimators    int
	minSamplesLeaf int
	randomState    int64
	testSize       float64
	logger         log.Logger

	fit *fitted
}

// fitted is everything a successful Train produces.
type fitted struct {
	numeric      []string
	categorical  []string
	encoder      *preprocessing.OneHotEncoder
	regressor    *ensemble.RandomForestRegressor
	featureNames []string
	importance   []FeatureScore
	maxDayIndex  float64
	hasDayIndex  bool
	modes        map[string]string
}

// Option configures a Forecaster.
type Option func(*Forecaster)

// WithNEstimators sets the number of trees (default 100).
func WithNEstimators(n int) Option { return func(f *Forecaster) { f.nEstimators = n } }

// WithMinSamplesLeaf sets the minimum leaf size of every tree (default 5).
func WithMinSamplesLeaf(n int) Option { return func(f *Forecaster) { f.minSamplesLeaf = n } }

// WithRandomState seeds the split and the forest (default 42).
func WithRandomState(seed int64) Option { return func(f *Forecaster) { f.randomState = seed } }

// WithTestSize sets the evaluation fraction (default 0.2).
func WithTestSize(size float64) Option { return func(f *Forecaster) { f.testSize = size } }

// WithLogger replaces the component logger.
func WithLogger(l log.Logger) Option { return func(f *Forecaster) { f.logger = l } }

// NewForecaster returns an untrained Forecaster.
func NewForecaster(opts ...Option) *Forecaster {
	f := &Forecaster{
		state:          model.NewStateManager(),
		nEstimators:    100,
		minSamplesLeaf: 5,
		randomState:    42,
		testSize:       0.2,
	}
	for _, o := range opts {
		o(f)
	}
	if f.logger == nil {
		f.logger = log.GetLoggerWithName("forecast")
	}
	f.logger = f.logger.With(log.ModelNameKey, modelName)
	return f
}

// Train fits the encoder and the forest and evaluates on a held-out split.
//
// Categorical columns are one-hot encoded on the full frame before the
// split; the design matrix holds the numeric columns first, then the
// indicator columns. With a single row the model is trained and evaluated
// on that row. A failed Train leaves the previous fit in place.
func (f *Forecaster) Train(X *Frame, y []float64) (res TrainingResult, err error) {
	defer errors.Recover(&err, "Forecaster.Train")

	n := X.Len()
	if n == 0 {
		return TrainingResult{}, errors.NewEmptyTrainingSetError(modelName)
	}
	if len(y) != n {
		return TrainingResult{}, errors.NewDimensionError("Forecaster.Train", n, len(y), 0)
	}
	if err := errors.CheckFinite("Forecaster.Train[target]", y); err != nil {
		return TrainingResult{}, err
	}

	start := time.Now()
	fit := &fitted{
		numeric:     X.NumericNames(),
		categorical: X.CategoricalNames(),
		encoder:     preprocessing.NewOneHotEncoder(),
		modes:       make(map[string]string),
	}

	numericValues := make([][]float64, len(fit.numeric))
	for j, name := range fit.numeric {
		numericValues[j], _ = X.Numeric(name)
		if err := errors.CheckFinite("Forecaster.Train["+name+"]", numericValues[j]); err != nil {
			return TrainingResult{}, err
		}
		if name == DayIndex {
			fit.hasDayIndex = true
			fit.maxDayIndex = maxOf(numericValues[j])
		}
	}

	catValues := make([][]string, len(fit.categorical))
	batch := make(map[string][]string, len(fit.categorical))
	for j, name := range fit.categorical {
		catValues[j], _ = X.Categorical(name)
		batch[name] = catValues[j]
		fit.modes[name] = mode(catValues[j])
	}
	if err := fit.encoder.Fit(fit.categorical, catValues); err != nil {
		return TrainingResult{}, err
	}
	encoded, err := fit.encoder.Transform(batch, n)
	if err != nil {
		return TrainingResult{}, err
	}

	fit.featureNames = append(append([]string(nil), fit.numeric...), fit.encoder.FeatureNamesOut()...)
	if len(fit.featureNames) == 0 {
		return TrainingResult{}, errors.NewValidationError("X", "frame has no feature columns", X.Names())
	}
	design := assemble(numericValues, encoded, n, len(fit.featureNames))

	trainIdx, testIdx, err := model_selection.TrainTestSplit(n, f.testSize, f.randomState)
	if err != nil {
		return TrainingResult{}, err
	}

	fit.regressor = ensemble.NewRandomForestRegressor(
		ensemble.WithNEstimators(f.nEstimators),
		ensemble.WithMinSamplesLeaf(f.minSamplesLeaf),
		ensemble.WithRandomState(f.randomState),
		ensemble.WithLogger(f.logger),
	)
	if err := fit.regressor.Fit(selectRows(design, trainIdx), mat.NewDense(len(trainIdx), 1, pick(y, trainIdx))); err != nil {
		return TrainingResult{}, errors.Wrap(err, "fitting forest")
	}

	pred, err := fit.regressor.Predict(selectRows(design, testIdx))
	if err != nil {
		return TrainingResult{}, err
	}
	yTest := mat.NewVecDense(len(testIdx), pick(y, testIdx))
	yPred := mat.NewVecDense(len(testIdx), mat.Col(nil, 0, pred))

	r2, err := metrics.R2Score(yTest, yPred)
	if err != nil {
		return TrainingResult{}, err
	}
	mae, err := metrics.MAE(yTest, yPred)
	if err != nil {
		return TrainingResult{}, err
	}

	importances, err := fit.regressor.FeatureImportances()
	if err != nil {
		return TrainingResult{}, err
	}
	fit.importance = rank(fit.featureNames, importances)

	f.fit = fit
	f.state.SetFitted(len(fit.featureNames), n)

	f.logger.Info("Forecaster trained",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, n,
		log.FeaturesKey, len(fit.featureNames),
		log.TrainSizeKey, len(trainIdx),
		log.TestSizeKey, len(testIdx),
		log.R2ScoreKey, r2,
		log.MAEKey, mae,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return TrainingResult{
		R2Score:           r2,
		MAE:               mae,
		FeatureImportance: copyScores(fit.importance),
	}, nil
}

// Predict returns one prediction per row of X.
//
// X is aligned to the training features: a missing numeric column is read
// as 0, a missing categorical column yields all-zero indicators, unseen
// categories yield all-zero indicators and columns not seen in training are
// dropped. An empty X gives an empty result.
func (f *Forecaster) Predict(X *Frame) ([]float64, error) {
	if !f.state.IsFitted() {
		return nil, errors.NewModelNotTrainedError(modelName, "Predict")
	}
	fit := f.fit
	n := X.Len()
	if n == 0 {
		return []float64{}, nil
	}

	numericValues := make([][]float64, len(fit.numeric))
	for j, name := range fit.numeric {
		if v, ok := X.Numeric(name); ok {
			numericValues[j] = v
		} else {
			numericValues[j] = make([]float64, n)
		}
	}
	batch := make(map[string][]string, len(fit.categorical))
	for _, name := range fit.categorical {
		if v, ok := X.Categorical(name); ok {
			batch[name] = v
		}
	}
	if dropped := f.unknownColumns(X); len(dropped) > 0 {
		f.logger.Debug("Dropping columns not seen in training", log.ColumnKey, dropped)
	}

	encoded, err := fit.encoder.Transform(batch, n)
	if err != nil {
		return nil, err
	}
	design := assemble(numericValues, encoded, n, len(fit.featureNames))

	pred, err := fit.regressor.Predict(design)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("Forecaster predicted",
		log.OperationKey, log.OperationPredict,
		log.PredsKey, n,
	)
	return mat.Col(nil, 0, pred), nil
}

// ForecastFuture predicts synthetic future rows such as those built by
// FutureFrame. Unlike Predict it requires the categorical columns of X to
// match the training columns exactly and returns FeatureMismatchError
// otherwise, so the caller can retry with a reduced frame.
func (f *Forecaster) ForecastFuture(X *Frame) ([]float64, error) {
	if !f.state.IsFitted() {
		return nil, errors.NewModelNotTrainedError(modelName, "ForecastFuture")
	}

	trained := make(map[string]struct{}, len(f.fit.categorical))
	for _, c := range f.fit.categorical {
		trained[c] = struct{}{}
	}
	given := make(map[string]struct{})
	var unexpected []string
	for _, c := range X.CategoricalNames() {
		given[c] = struct{}{}
		if _, ok := trained[c]; !ok {
			unexpected = append(unexpected, c)
		}
	}
	var missing []string
	for _, c := range f.fit.categorical {
		if _, ok := given[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 || len(unexpected) > 0 {
		return nil, errors.NewFeatureMismatchError(missing, unexpected)
	}

	pred, err := f.Predict(X)
	if err != nil {
		return nil, err
	}
	f.logger.Info("Forecast generated",
		log.OperationKey, log.OperationForecast,
		log.HorizonKey, len(pred),
	)
	return pred, nil
}

// FutureFrame builds nSteps future rows continuing day_index after the
// largest training offset. With withCategory, every categorical training
// column is filled with its most frequent training value.
func (f *Forecaster) FutureFrame(nSteps int, withCategory bool) (*Frame, error) {
	if !f.state.IsFitted() {
		return nil, errors.NewModelNotTrainedError(modelName, "FutureFrame")
	}
	if nSteps <= 0 {
		return nil, errors.NewValidationError("nSteps", "must be positive", nSteps)
	}
	if !f.fit.hasDayIndex {
		return nil, errors.NewValueError("Forecaster.FutureFrame", "model was not trained with a "+DayIndex+" feature")
	}

	days := make([]float64, nSteps)
	for i := range days {
		days[i] = f.fit.maxDayIndex + float64(i+1)
	}
	frame, err := NewFrame().WithNumeric(DayIndex, days)
	if err != nil {
		return nil, err
	}
	if withCategory {
		for _, c := range f.fit.categorical {
			vals := make([]string, nSteps)
			for i := range vals {
				vals[i] = f.fit.modes[c]
			}
			if frame, err = frame.WithCategorical(c, vals); err != nil {
				return nil, err
			}
		}
	}
	return frame, nil
}

// FeatureImportance returns the ranking computed by the last Train.
func (f *Forecaster) FeatureImportance() ([]FeatureScore, error) {
	if !f.state.IsFitted() {
		return nil, errors.NewModelNotTrainedError(modelName, "FeatureImportance")
	}
	return copyScores(f.fit.importance), nil
}

// FeatureNames returns the frozen design-matrix column names; nil before
// training.
func (f *Forecaster) FeatureNames() []string {
	if !f.state.IsFitted() {
		return nil
	}
	return append([]string(nil), f.fit.featureNames...)
}

// CategoricalColumns returns the categorical columns the model was trained
// with; nil before training.
func (f *Forecaster) CategoricalColumns() []string {
	if !f.state.IsFitted() {
		return nil
	}
	return append([]string(nil), f.fit.categorical...)
}

// CategoryMode returns the most frequent training value of a categorical
// column.
func (f *Forecaster) CategoryMode(column string) (string, bool) {
	if !f.state.IsFitted() {
		return "", false
	}
	m, ok := f.fit.modes[column]
	return m, ok
}

// IsTrained reports whether Train has succeeded.
func (f *Forecaster) IsTrained() bool {
	return f.state.IsFitted()
}

func (f *Forecaster) unknownColumns(X *Frame) []string {
	known := make(map[string]struct{}, len(f.fit.numeric)+len(f.fit.categorical))
	for _, c := range f.fit.numeric {
		known[c] = struct{}{}
	}
	for _, c := range f.fit.categorical {
		known[c] = struct{}{}
	}
	var out []string
	for _, c := range X.Names() {
		if _, ok := known[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// assemble lays out numeric columns followed by the encoded indicators.
func assemble(numeric [][]float64, encoded *mat.Dense, n, width int) *mat.Dense {
	design := mat.NewDense(n, width, nil)
	for j, col := range numeric {
		design.SetCol(j, col)
	}
	if encoded != nil {
		_, c := encoded.Dims()
		design.Slice(0, n, len(numeric), len(numeric)+c).(*mat.Dense).Copy(encoded)
	}
	return design
}

func selectRows(m *mat.Dense, rows []int) *mat.Dense {
	_, c := m.Dims()
	out := mat.NewDense(len(rows), c, nil)
	for i, r := range rows {
		out.SetRow(i, m.RawRowView(r))
	}
	return out
}

func pick(v []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = v[j]
	}
	return out
}

// rank sorts features by importance, descending; ties keep feature order.
func rank(names []string, scores []float64) []FeatureScore {
	out := make([]FeatureScore, len(names))
	for i, name := range names {
		out[i] = FeatureScore{Name: name, Score: scores[i]}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	return out
}

func copyScores(s []FeatureScore) []FeatureScore {
	return append([]FeatureScore(nil), s...)
}

func maxOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// mode returns the most frequent value; ties go to the smallest value.
func mode(values []string) string {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	best, bestCount := "", -1
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best
}
