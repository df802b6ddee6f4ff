package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う（n×1 行列）
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// FeatureImporter は特徴量重要度を返せるモデルのインターフェース
type FeatureImporter interface {
	// FeatureImportances は合計1に正規化された重要度を特徴量の列順で返す
	FeatureImportances() ([]float64, error)
}

// Regressor は回帰モデルの組み合わせインターフェース
type Regressor interface {
	Fitter
	Predictor
	FeatureImporter
	IsFitted() bool
}
