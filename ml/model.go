package ml

import (
	"errors"
	"fmt"

	"smart-pricing/models"
)

// MinTrainingListings is the fewest ranked comparables a model is trained on
const MinTrainingListings = 10

// ErrInsufficientData means there were too few comparables to fit and evaluate a model
var ErrInsufficientData = errors.New("ml: not enough comparables to train a pricing model")

// ModelKind identifies which regressor won model selection
type ModelKind int

const (
	KindLinear ModelKind = iota
	KindForest
)

func (k ModelKind) String() string {
	if k == KindForest {
		return "Random Forest"
	}
	return "Linear Regression"
}

// Options configures training
type Options struct {
	TopN         int
	TestFraction float64
	Seed         int64
	Forest       ForestConfig
}

// DefaultOptions returns the training settings used for pricing
func DefaultOptions() Options {
	return Options{
		TopN:         30,
		TestFraction: 0.3,
		Seed:         42,
		Forest:       DefaultForestConfig(),
	}
}

// Metrics are the held-out scores recorded during training
type Metrics struct {
	LinearR2  float64
	ForestR2  float64
	BestModel ModelKind
	BestR2    float64
	BestMAE   float64
}

// ToModel converts the metrics for reporting
func (m Metrics) ToModel() models.ModelMetrics {
	return models.ModelMetrics{
		LinearR2:  m.LinearR2,
		ForestR2:  m.ForestR2,
		BestModel: m.BestModel.String(),
		BestR2:    m.BestR2,
		BestMAE:   m.BestMAE,
	}
}

// TrainedModel is the immutable result of Train. Exactly one variant is set,
// matching Metrics.BestModel. A nil *TrainedModel stands for "not trained":
// every method answers it with no result.
type TrainedModel struct {
	kind    ModelKind
	linear  *linearVariant
	forest  *forestVariant
	metrics Metrics
}

type linearVariant struct {
	scaler *StandardScaler
	model  *LinearRegression
}

type forestVariant struct {
	model     *RandomForest
	explainer *TreeExplainer
}

// Train fits a linear model and a random forest on the top opts.TopN comparables,
// scores both on a seeded held-out split and keeps the one with the higher R².
// Ties keep the linear model.
func Train(ranked []models.RankedListing, target models.Listing, opts Options) (*TrainedModel, error) {
	if len(ranked) < MinTrainingListings {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientData, len(ranked), MinTrainingListings)
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultOptions().TopN
	}
	if opts.TestFraction <= 0 || opts.TestFraction >= 1 {
		opts.TestFraction = DefaultOptions().TestFraction
	}
	if opts.TopN < len(ranked) {
		ranked = ranked[:opts.TopN]
	}

	X, y := buildDataset(ranked, target)
	trainIdx, testIdx := trainTestSplit(len(X), opts.TestFraction, opts.Seed)
	xTrain, yTrain := selectRows(X, trainIdx), selectValues(y, trainIdx)
	xTest, yTest := selectRows(X, testIdx), selectValues(y, testIdx)

	// Linear regression on standardized features; the scaler only sees training rows
	scaler := FitStandardScaler(xTrain)
	linear, err := FitLinearRegression(scaler.TransformAll(xTrain), yTrain)
	if err != nil {
		return nil, fmt.Errorf("failed to fit linear model: %w", err)
	}
	linearPred := make([]float64, len(xTest))
	for i, row := range scaler.TransformAll(xTest) {
		linearPred[i] = linear.Predict(row)
	}

	// Random forest on raw features
	forest := FitRandomForest(xTrain, yTrain, opts.Forest)
	forestPred := make([]float64, len(xTest))
	for i, row := range xTest {
		forestPred[i] = forest.Predict(row)
	}

	metrics := Metrics{
		LinearR2: R2Score(yTest, linearPred),
		ForestR2: R2Score(yTest, forestPred),
	}

	if metrics.ForestR2 > metrics.LinearR2 {
		metrics.BestModel = KindForest
		metrics.BestR2 = metrics.ForestR2
		metrics.BestMAE = MeanAbsoluteError(yTest, forestPred)
		return &TrainedModel{
			kind:    KindForest,
			forest:  &forestVariant{model: forest, explainer: NewTreeExplainer(forest)},
			metrics: metrics,
		}, nil
	}

	metrics.BestModel = KindLinear
	metrics.BestR2 = metrics.LinearR2
	metrics.BestMAE = MeanAbsoluteError(yTest, linearPred)
	return &TrainedModel{
		kind:    KindLinear,
		linear:  &linearVariant{scaler: scaler, model: linear},
		metrics: metrics,
	}, nil
}

// Kind reports the selected model; an untrained model reports KindLinear
func (m *TrainedModel) Kind() ModelKind {
	if m == nil {
		return KindLinear
	}
	return m.kind
}

// Metrics returns the recorded held-out scores, or nil for an untrained model
func (m *TrainedModel) Metrics() *Metrics {
	if m == nil {
		return nil
	}
	metrics := m.metrics
	return &metrics
}

// Predict estimates the nightly price of listing, with features taken relative to target
func (m *TrainedModel) Predict(listing, target models.Listing) (float64, bool) {
	if m == nil {
		return 0, false
	}
	x := ExtractFeatures(listing, target)
	switch m.kind {
	case KindForest:
		return m.forest.model.Predict(x), true
	default:
		return m.linear.model.Predict(m.linear.scaler.Transform(x)), true
	}
}

// Explain attributes the forest's prediction for listing to each named feature.
// There is no attribution for the linear model.
func (m *TrainedModel) Explain(listing, target models.Listing) (map[string]float64, bool) {
	if m == nil || m.kind != KindForest {
		return nil, false
	}
	phi := m.forest.explainer.ShapValues(ExtractFeatures(listing, target))

	explanation := make(map[string]float64, NumFeatures)
	for i, name := range FeatureNames {
		explanation[name] = phi[i]
	}
	return explanation, true
}

// Baseline is the expected forest prediction that Explain's contributions start from
func (m *TrainedModel) Baseline() (float64, bool) {
	if m == nil || m.kind != KindForest {
		return 0, false
	}
	return m.forest.explainer.ExpectedValue(), true
}
