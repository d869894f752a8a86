package utils

import (
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/maximodanilo/llm-demo-app-sub000/params"
)

// RowSoftmax applies softmax independently to each row across columns.
// Entries of mask that are 0 are excluded (probability 0). mask may be nil.
func RowSoftmax(m mat.Matrix, mask *mat.Dense) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mx := math.Inf(-1)
		for j := 0; j < c; j++ {
			row[j] = m.At(i, j)
			if mask != nil && mask.At(i, j) == 0 {
				continue
			}
			if row[j] > mx {
				mx = row[j]
			}
		}
		sum := 0.0
		for j := 0; j < c; j++ {
			if mask != nil && mask.At(i, j) == 0 {
				row[j] = 0
				continue
			}
			row[j] = math.Exp(row[j] - mx)
			sum += row[j]
		}
		for j := 0; j < c; j++ {
			out.Set(i, j, row[j]/sum)
		}
	}
	return out
}

// CausalMask returns a (T x T) lower-triangular matrix of ones.
func CausalMask(T int) *mat.Dense {
	m := mat.NewDense(T, T, nil)
	for i := 0; i < T; i++ {
		for j := 0; j <= i; j++ {
			m.Set(i, j, 1)
		}
	}
	return m
}

// RowsToDense packs equal-length rows into a (len(rows) x dim) matrix.
func RowsToDense(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows")
	}
	d := len(rows[0])
	if d == 0 {
		return nil, fmt.Errorf("empty rows")
	}
	out := mat.NewDense(len(rows), d, nil)
	for i, r := range rows {
		if len(r) != d {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(r), d)
		}
		out.SetRow(i, r)
	}
	return out, nil
}

// DenseToRows copies every row of m into its own slice.
func DenseToRows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		out[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}

// DebugOutput receives Debugf lines.
var DebugOutput io.Writer = os.Stderr

func Debugf(format string, args ...any) {
	if !params.Debug {
		return
	}
	fmt.Fprintf(DebugOutput, "[debug] "+format+"\n", args...)
}
