package transformer

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/maximodanilo/llm-demo-app-sub000/utils"
)

// Strategy selects how Initialize fills the table.
type Strategy int

const (
	Zeros Strategy = iota
	Random
	Xavier
)

func (s Strategy) String() string {
	switch s {
	case Zeros:
		return "zeros"
	case Random:
		return "random"
	case Xavier:
		return "xavier"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "zeros":
		return Zeros, nil
	case "random":
		return Random, nil
	case "xavier":
		return Xavier, nil
	}
	return 0, fmt.Errorf("%w: unknown strategy %q", ErrInvalidArgument, name)
}

// EmbeddingLayer is a dense lookup table of token vectors.
// Shape: (|V| x dim), one row per token id.
type EmbeddingLayer struct {
	vocabSize int
	dim       int
	emb       *mat.Dense
	rng       *rand.Rand
}

// NewEmbeddingLayer returns an uninitialized layer. All random draws come
// from a source seeded with seed (wall clock when nil), so two layers built
// with the same seed and the same Initialize calls hold identical values.
func NewEmbeddingLayer(seed *int64) *EmbeddingLayer {
	return &EmbeddingLayer{rng: utils.NewRand(seed)}
}

// Initialize (re)allocates the table and fills it row by row.
func (e *EmbeddingLayer) Initialize(vocabSize, dim int, s Strategy) error {
	if vocabSize <= 0 || dim <= 0 {
		return fmt.Errorf("%w: embedding table %dx%d", ErrInvalidArgument, vocabSize, dim)
	}
	var data []float64
	switch s {
	case Zeros:
		data = make([]float64, vocabSize*dim)
	case Random:
		data = utils.RandomArray(e.rng, vocabSize*dim, 1)
	case Xavier:
		data = utils.RandomArray(e.rng, vocabSize*dim, math.Sqrt(2/float64(dim)))
	default:
		return fmt.Errorf("%w: unknown strategy %v", ErrInvalidArgument, s)
	}
	e.vocabSize = vocabSize
	e.dim = dim
	e.emb = mat.NewDense(vocabSize, dim, data)
	utils.Debugf("embeddings: initialized %dx%d (%v)", vocabSize, dim, s)
	return nil
}

func (e *EmbeddingLayer) Initialized() bool { return e.emb != nil }
func (e *EmbeddingLayer) VocabSize() int    { return e.vocabSize }
func (e *EmbeddingLayer) Dim() int          { return e.dim }

func (e *EmbeddingLayer) checkID(id int) error {
	if id < 0 || id >= e.vocabSize {
		return fmt.Errorf("%w: token id %d not in [0, %d)", ErrOutOfRange, id, e.vocabSize)
	}
	return nil
}

// row aliases the stored row; callers must not leak it.
func (e *EmbeddingLayer) row(id int) []float64 {
	return e.emb.RawRowView(id)
}

// Embedding returns a copy of the vector for id.
func (e *EmbeddingLayer) Embedding(id int) ([]float64, error) {
	if err := e.checkID(id); err != nil {
		return nil, err
	}
	return append([]float64(nil), e.row(id)...), nil
}

// Update applies one gradient descent step to the vector for id:
// e[i] -= gradient[i] * lr.
func (e *EmbeddingLayer) Update(id int, gradient []float64, lr float64) error {
	if err := e.checkID(id); err != nil {
		return err
	}
	if len(gradient) != e.dim {
		return fmt.Errorf("%w: gradient has %d values, expected %d", ErrInvalidArgument, len(gradient), e.dim)
	}
	row := e.row(id)
	for i, g := range gradient {
		row[i] -= g * lr
	}
	return nil
}

// Similarity returns the cosine similarity of two token vectors, or 0 when
// either vector has zero norm.
func (e *EmbeddingLayer) Similarity(id1, id2 int) (float64, error) {
	if err := e.checkID(id1); err != nil {
		return 0, err
	}
	if err := e.checkID(id2); err != nil {
		return 0, err
	}
	return cosine(e.row(id1), e.row(id2)), nil
}

func cosine(a, b []float64) float64 {
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

// Neighbor is one entry of a nearest-neighbour result.
type Neighbor struct {
	ID         int
	Similarity float64
}

// NearestNeighbors returns the k ids most similar to id, most similar first.
// id itself is never part of the result. Equal similarities keep id order.
func (e *EmbeddingLayer) NearestNeighbors(id, k int) ([]int, error) {
	ns, err := e.Neighbors(id, k)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(ns))
	for i, n := range ns {
		out[i] = n.ID
	}
	return out, nil
}

// Neighbors is NearestNeighbors with the similarity scores attached.
func (e *EmbeddingLayer) Neighbors(id, k int) ([]Neighbor, error) {
	if k <= 0 || k >= e.vocabSize {
		return nil, fmt.Errorf("%w: k=%d must be in [1, %d)", ErrInvalidArgument, k, e.vocabSize)
	}
	if err := e.checkID(id); err != nil {
		return nil, err
	}
	query := e.row(id)
	cands := make([]Neighbor, 0, e.vocabSize-1)
	for j := 0; j < e.vocabSize; j++ {
		if j == id {
			continue
		}
		cands = append(cands, Neighbor{ID: j, Similarity: cosine(query, e.row(j))})
	}
	sort.SliceStable(cands, func(a, b int) bool {
		return cands[a].Similarity > cands[b].Similarity
	})
	return cands[:k], nil
}

// Visualization returns the first dims components of the vector for id.
func (e *EmbeddingLayer) Visualization(id, dims int) ([]float64, error) {
	if dims <= 0 || dims > e.dim {
		return nil, fmt.Errorf("%w: dims=%d must be in [1, %d]", ErrInvalidArgument, dims, e.dim)
	}
	v, err := e.Embedding(id)
	if err != nil {
		return nil, err
	}
	return v[:dims:dims], nil
}

// Normalize rescales every row to unit L2 norm. Zero rows are left as is.
func (e *EmbeddingLayer) Normalize() {
	for i := 0; i < e.vocabSize; i++ {
		row := e.row(i)
		n := floats.Norm(row, 2)
		if n == 0 {
			continue
		}
		for j := range row {
			row[j] /= n
		}
	}
}

// All returns a deep copy of the table.
func (e *EmbeddingLayer) All() [][]float64 {
	if e.emb == nil {
		return [][]float64{}
	}
	return utils.DenseToRows(e.emb)
}

// Set overwrites the vector for id with a copy of vector.
func (e *EmbeddingLayer) Set(id int, vector []float64) error {
	if err := e.checkID(id); err != nil {
		return err
	}
	if len(vector) != e.dim {
		return fmt.Errorf("%w: vector has %d values, expected %d", ErrInvalidArgument, len(vector), e.dim)
	}
	e.emb.SetRow(id, vector)
	return nil
}

// Dense returns a copy of the table as a matrix, or nil when uninitialized.
func (e *EmbeddingLayer) Dense() *mat.Dense {
	if e.emb == nil {
		return nil
	}
	return mat.DenseCopyOf(e.emb)
}

// Load replaces the table with a copy of m, taking its shape.
func (e *EmbeddingLayer) Load(m *mat.Dense) error {
	if m == nil || m.IsEmpty() {
		return fmt.Errorf("%w: empty embedding matrix", ErrInvalidArgument)
	}
	e.vocabSize, e.dim = m.Dims()
	e.emb = mat.DenseCopyOf(m)
	return nil
}
