package transformer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/maximodanilo/llm-demo-app-sub000/utils"
)

// PositionalEncoding returns the sinusoidal table, shape (seqLen x dim):
// PE[p,2i] = sin(p / 10000^(2i/dim)), PE[p,2i+1] = cos(same angle).
func PositionalEncoding(seqLen, dim int) (*mat.Dense, error) {
	if seqLen <= 0 || dim <= 0 {
		return nil, fmt.Errorf("%w: positional table %dx%d", ErrInvalidArgument, seqLen, dim)
	}
	pe := mat.NewDense(seqLen, dim, nil)
	for p := 0; p < seqLen; p++ {
		for j := 0; j < dim; j++ {
			angle := float64(p) / math.Pow(10000, float64(j-j%2)/float64(dim))
			if j%2 == 0 {
				pe.Set(p, j, math.Sin(angle))
			} else {
				pe.Set(p, j, math.Cos(angle))
			}
		}
	}
	return pe, nil
}

// AddPositional returns vectors[p] + PE[p] for every position.
func AddPositional(vectors [][]float64) ([][]float64, error) {
	if len(vectors) == 0 {
		return [][]float64{}, nil
	}
	x, err := utils.RowsToDense(vectors)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	T, d := x.Dims()
	pe, err := PositionalEncoding(T, d)
	if err != nil {
		return nil, err
	}
	x.Add(x, pe)
	return utils.DenseToRows(x), nil
}
