package model

// EstimatorState はモデルの学習状態を表す
type EstimatorState int

const (
	// Untrained はモデルが未学習の状態
	Untrained EstimatorState = iota
	// Trained はモデルが学習済みの状態
	Trained
)

// String は状態名を返す
func (s EstimatorState) String() string {
	if s == Trained {
		return "trained"
	}
	return "untrained"
}

// BaseEstimator は単一ゴルーチンから使われる推定器の基底となる構造体
// 並行アクセスがある場合は StateManager を使う
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Trained
}

// SetFitted はモデルを学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.state = Trained
}

// Reset はモデルを初期状態にリセットする
func (e *BaseEstimator) Reset() {
	e.state = Untrained
}

// State は現在の状態を返す
func (e *BaseEstimator) State() EstimatorState {
	return e.state
}
