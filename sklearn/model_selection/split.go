// Package model_selection provides deterministic data partitioning helpers.
package model_selection

import (
	"math"
	"math/rand"

	"github.com/YuminosukeSato/stockcast/pkg/errors"
)

// TrainTestSplit はサンプル番号 [0, nSamples) をシード付き順列で学習用と評価用に分割する
//
// 評価用の件数は ceil(testSize * nSamples) で、学習用に最低1件は残す。
// nSamples が1の場合は同じ1件を学習用と評価用の両方に返す。
// 同じ nSamples, testSize, seed に対して常に同じ分割を返す。
//
// 戻り値:
//   - train: 学習用のサンプル番号（順列順）
//   - test: 評価用のサンプル番号（順列順）
//   - error: nSamples <= 0 または testSize が (0, 1) の範囲外の場合
func TrainTestSplit(nSamples int, testSize float64, seed int64) (train, test []int, err error) {
	if nSamples <= 0 {
		return nil, nil, errors.NewEmptyInputError("TrainTestSplit")
	}
	if math.IsNaN(testSize) || testSize <= 0 || testSize >= 1 {
		return nil, nil, errors.NewValidationError("testSize", "must be in the open interval (0, 1)", testSize)
	}

	if nSamples == 1 {
		return []int{0}, []int{0}, nil
	}

	nTest := int(math.Ceil(testSize * float64(nSamples)))
	if nTest >= nSamples {
		nTest = nSamples - 1
	}

	perm := rand.New(rand.NewSource(seed)).Perm(nSamples)
	test = append([]int(nil), perm[:nTest]...)
	train = append([]int(nil), perm[nTest:]...)
	return train, test, nil
}
