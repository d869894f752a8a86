package transformer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/maximodanilo/llm-demo-app-sub000/utils"
)

// SelfAttention is single-head scaled dot-product attention with identity
// projections: A = softmax(X Xᵀ / sqrt(d)), C = A X. X has one row per
// position. With causal set, position t only attends to positions <= t.
func SelfAttention(vectors [][]float64, causal bool) (weights, context [][]float64, err error) {
	if len(vectors) == 0 {
		return [][]float64{}, [][]float64{}, nil
	}
	X, err := utils.RowsToDense(vectors)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	T, d := X.Dims()

	scores := mat.NewDense(T, T, nil)
	scores.Mul(X, X.T())
	scores.Scale(1/math.Sqrt(float64(d)), scores)

	var mask *mat.Dense
	if causal {
		mask = utils.CausalMask(T)
	}
	A := utils.RowSoftmax(scores, mask)

	C := mat.NewDense(T, d, nil)
	C.Mul(A, X)
	return utils.DenseToRows(A), utils.DenseToRows(C), nil
}
