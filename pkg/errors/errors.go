// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 予測パイプラインの各段階（スキーマ判定、特徴量生成、学習、予測）が返す
// 型付きエラーと、処理を止めない警告を構造化された形で提供します。
package errors

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("stockcast-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nil を渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
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
//	警告型
//
// ===========================================================================

// DataConversionWarning はデータの型が暗黙的に変換された場合に発生する警告です。
// 例えば、日付が欠損している行の経過日数を0で埋めた場合など。
type DataConversionWarning struct {
	FromType string
	ToType   string
	Reason   string
}

func (w *DataConversionWarning) Error() string {
	return fmt.Sprintf("data converted from %s to %s. Reason: %s", w.FromType, w.ToType, w.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *DataConversionWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("from_type", w.FromType).
		Str("to_type", w.ToType).
		Str("reason", w.Reason).
		Str("type", "DataConversionWarning")
}

// NewDataConversionWarning は新しいDataConversionWarningを作成します。
func NewDataConversionWarning(from, to, reason string) *DataConversionWarning {
	return &DataConversionWarning{FromType: from, ToType: to, Reason: reason}
}

// UndefinedMetricWarning は評価指標が計算できない場合に発生する警告です。
// 例えば、評価用データが1行しかなくR²が定義できない場合など。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // この条件で返される値
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning は新しいUndefinedMetricWarningを作成します。
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// ModelNotTrainedError はモデルが未学習の状態で `Predict` などを呼び出した場合のエラーです。
type ModelNotTrainedError struct {
	ModelName string
	Method    string
}

func (e *ModelNotTrainedError) Error() string {
	return fmt.Sprintf("stockcast: %s: this model is not trained yet. Call Train() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ModelNotTrainedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "ModelNotTrainedError")
}

// NewModelNotTrainedError は新しいModelNotTrainedErrorを作成し、スタックトレースを付与します。
func NewModelNotTrainedError(modelName, method string) error {
	err := &ModelNotTrainedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("stockcast: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
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

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("stockcast: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("stockcast: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError は機械学習モデルに関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stockcast: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("stockcast: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ===========================================================================
//
//	予測パイプライン特有のエラー型
//
// ===========================================================================

// NoTargetError はデータセットに目的変数となる列（在庫数・販売数）が存在しない場合のエラーです。
type NoTargetError struct {
	Candidates []string // 探索した列名（優先順）
}

func (e *NoTargetError) Error() string {
	return fmt.Sprintf("stockcast: no target column found; expected one of [%s]", strings.Join(e.Candidates, ", "))
}

// NewNoTargetError は新しいNoTargetErrorを作成します。
func NewNoTargetError(candidates ...string) error {
	return errors.WithStack(&NoTargetError{Candidates: candidates})
}

// MissingTargetError は目的変数の列が存在しない、または数値でない値を含む場合のエラーです。
type MissingTargetError struct {
	Column string
	Row    int // 問題のある行。列自体が無い場合は -1
	Reason string
}

func (e *MissingTargetError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("stockcast: target column '%s' %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("stockcast: target column '%s' row %d: %s", e.Column, e.Row, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *MissingTargetError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("column", e.Column).
		Int("row", e.Row).
		Str("reason", e.Reason).
		Str("type", "MissingTargetError")
}

// NewMissingTargetError は新しいMissingTargetErrorを作成します。
func NewMissingTargetError(column string, row int, reason string) error {
	return errors.WithStack(&MissingTargetError{Column: column, Row: row, Reason: reason})
}

// EmptyInputError は0行のデータセットが渡された場合のエラーです。
type EmptyInputError struct {
	Op string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("stockcast: %s: dataset has no rows", e.Op)
}

// Unwrap は共通エラー変数 ErrEmptyData との比較を可能にします。
func (e *EmptyInputError) Unwrap() error { return ErrEmptyData }

// NewEmptyInputError は新しいEmptyInputErrorを作成します。
func NewEmptyInputError(op string) error {
	return errors.WithStack(&EmptyInputError{Op: op})
}

// EmptyTrainingSetError は学習データが0行の場合のエラーです。
type EmptyTrainingSetError struct {
	ModelName string
}

func (e *EmptyTrainingSetError) Error() string {
	return fmt.Sprintf("stockcast: %s: no features available for training", e.ModelName)
}

// Unwrap は共通エラー変数 ErrEmptyData との比較を可能にします。
func (e *EmptyTrainingSetError) Unwrap() error { return ErrEmptyData }

// NewEmptyTrainingSetError は新しいEmptyTrainingSetErrorを作成します。
func NewEmptyTrainingSetError(modelName string) error {
	return errors.WithStack(&EmptyTrainingSetError{ModelName: modelName})
}

// FeatureMismatchError は予測時の特徴量構成が学習時のエンコーディングと一致しない場合のエラーです。
// 呼び出し側はカテゴリ列を除いた特徴量で一度だけ再試行できます。
type FeatureMismatchError struct {
	Missing    []string // 学習時に存在したが入力に無い列
	Unexpected []string // 学習時にカテゴリとして扱われていない列
}

func (e *FeatureMismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing categorical columns [%s]", strings.Join(e.Missing, ", ")))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, fmt.Sprintf("categorical columns not seen in training [%s]", strings.Join(e.Unexpected, ", ")))
	}
	return fmt.Sprintf("stockcast: feature mismatch: %s", strings.Join(parts, "; "))
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *FeatureMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Strs("missing", e.Missing).
		Strs("unexpected", e.Unexpected).
		Str("type", "FeatureMismatchError")
}

// NewFeatureMismatchError は新しいFeatureMismatchErrorを作成します。
func NewFeatureMismatchError(missing, unexpected []string) error {
	return errors.WithStack(&FeatureMismatchError{Missing: missing, Unexpected: unexpected})
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrUnsupportedFormat は読み込めないファイル形式が指定された場合のエラーです。
	ErrUnsupportedFormat = New("unsupported file format")
)
