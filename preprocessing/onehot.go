// Package preprocessing はモデル入力の前処理（カテゴリ変数のエンコード）を提供する
package preprocessing

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/stockcast/core/model"
	"github.com/YuminosukeSato/stockcast/pkg/errors"
)

// OneHotEncoder はカテゴリ列を one-hot 指標列に変換する
//
// 学習時に観測したカテゴリごとに1列を割り当てる。語彙は Fit 後に固定され、
// 未知のカテゴリや入力に存在しない列はすべて0の指標行になる（エラーにしない）。
type OneHotEncoder struct {
	state *model.StateManager

	columns    []string
	categories [][]string
	index      []map[string]int
	offsets    []int
	nOutputs   int
}

// NewOneHotEncoder は未学習の OneHotEncoder を作成する
//
// 使用例:
//
//	enc := preprocessing.NewOneHotEncoder()
//	err := enc.Fit([]string{"Catagory"}, [][]string{{"Dairy", "Bakery", "Dairy"}})
//	X, err := enc.Transform(map[string][]string{"Catagory": {"Bakery", "Produce"}}, 2)
//	// X = [[1 0] [0 0]]
func NewOneHotEncoder() *OneHotEncoder {
	return &OneHotEncoder{state: model.NewStateManager()}
}

// Fit はカテゴリ列ごとの語彙を学習する
//
// パラメータ:
//   - columns: カテゴリ列名（出力列の並び順になる）
//   - values: values[j] が columns[j] の全行の値
//
// 戻り値:
//   - error: 学習済みエンコーダへの再Fit、列数や行数の不整合
func (e *OneHotEncoder) Fit(columns []string, values [][]string) error {
	if e.state.IsFitted() {
		return errors.NewModelError("OneHotEncoder.Fit", "encoder vocabulary is immutable once fitted", nil)
	}
	if len(columns) != len(values) {
		return errors.NewDimensionError("OneHotEncoder.Fit", len(columns), len(values), 1)
	}

	nRows := -1
	seenCols := make(map[string]struct{}, len(columns))
	for j, col := range columns {
		if _, dup := seenCols[col]; dup {
			return errors.NewValidationError("columns", "duplicate column", col)
		}
		seenCols[col] = struct{}{}
		if nRows == -1 {
			nRows = len(values[j])
		} else if len(values[j]) != nRows {
			return errors.NewDimensionError("OneHotEncoder.Fit", nRows, len(values[j]), 0)
		}
	}
	if nRows < 0 {
		nRows = 0
	} else if nRows == 0 {
		return errors.NewModelError("OneHotEncoder.Fit", "empty data", errors.ErrEmptyData)
	}

	e.columns = append([]string(nil), columns...)
	e.categories = make([][]string, len(columns))
	e.index = make([]map[string]int, len(columns))
	e.offsets = make([]int, len(columns))
	e.nOutputs = 0

	for j := range columns {
		distinct := make(map[string]struct{})
		for _, v := range values[j] {
			distinct[v] = struct{}{}
		}
		cats := make([]string, 0, len(distinct))
		for v := range distinct {
			cats = append(cats, v)
		}
		sort.Strings(cats)

		idx := make(map[string]int, len(cats))
		for k, c := range cats {
			idx[c] = k
		}
		e.categories[j] = cats
		e.index[j] = idx
		e.offsets[j] = e.nOutputs
		e.nOutputs += len(cats)
	}

	e.state.SetFitted(e.nOutputs, nRows)
	return nil
}

// Transform は学習済みの語彙で batch を指標行列に変換する
//
// batch に無い列や未知のカテゴリは0の指標になる。学習時に見ていない列は無視する。
// 出力列が0本、または nRows が0の場合は nil を返す。
func (e *OneHotEncoder) Transform(batch map[string][]string, nRows int) (*mat.Dense, error) {
	if !e.state.IsFitted() {
		return nil, errors.NewModelNotTrainedError("OneHotEncoder", "Transform")
	}
	for j, col := range e.columns {
		if vals, ok := batch[col]; ok && len(vals) != nRows {
			return nil, errors.NewDimensionError(fmt.Sprintf("OneHotEncoder.Transform[%s]", e.columns[j]), nRows, len(vals), 0)
		}
	}
	if e.nOutputs == 0 || nRows == 0 {
		return nil, nil
	}

	out := mat.NewDense(nRows, e.nOutputs, nil)
	for j, col := range e.columns {
		vals, ok := batch[col]
		if !ok {
			continue
		}
		for i, v := range vals {
			if k, known := e.index[j][v]; known {
				out.Set(i, e.offsets[j]+k, 1)
			}
		}
	}
	return out, nil
}

// FeatureNamesOut は出力列名を "<列名>_<カテゴリ>" の形式で返す
func (e *OneHotEncoder) FeatureNamesOut() []string {
	names := make([]string, 0, e.nOutputs)
	for j, col := range e.columns {
		for _, c := range e.categories[j] {
			names = append(names, col+"_"+c)
		}
	}
	return names
}

// Columns は学習に使ったカテゴリ列名のコピーを返す
func (e *OneHotEncoder) Columns() []string {
	return append([]string(nil), e.columns...)
}

// Categories は列 column の語彙（ソート済み）のコピーを返す
func (e *OneHotEncoder) Categories(column string) []string {
	for j, col := range e.columns {
		if col == column {
			return append([]string(nil), e.categories[j]...)
		}
	}
	return nil
}

// NOutputs は出力列数を返す
func (e *OneHotEncoder) NOutputs() int {
	return e.nOutputs
}

// IsFitted は学習済みかどうかを返す
func (e *OneHotEncoder) IsFitted() bool {
	return e.state.IsFitted()
}

// String はエンコーダの文字列表現を返す
func (e *OneHotEncoder) String() string {
	if !e.IsFitted() {
		return "OneHotEncoder(handle_unknown=ignore)"
	}
	return fmt.Sprintf("OneHotEncoder(handle_unknown=ignore, columns=%d, n_outputs=%d)", len(e.columns), e.nOutputs)
}
