// Package pipeline composes the tokenizer, embedding table, attention and a
// feed-forward layer into one walk-through of the model stages.
package pipeline

import (
	"fmt"

	"github.com/maximodanilo/llm-demo-app-sub000/IO"
	"github.com/maximodanilo/llm-demo-app-sub000/params"
	"github.com/maximodanilo/llm-demo-app-sub000/transformer"
	"github.com/maximodanilo/llm-demo-app-sub000/utils"
)

// Session owns every stateful component of one walk-through. Sessions share
// nothing; two sessions built from the same seeded config behave the same.
type Session struct {
	Config      params.VizConfig
	Tokenizer   IO.Tokenizer
	Embeddings  *transformer.EmbeddingLayer
	FeedForward *transformer.NeuralLayer
}

// Trace records the output of every stage for one input text.
type Trace struct {
	Text        string
	Tokens      []string
	IDs         []int
	MockIDs     []int
	Embeddings  [][]float64
	Positioned  [][]float64
	Attention   [][]float64
	Context     [][]float64
	FeedForward [][]float64
}

func New(cfg params.VizConfig) (*Session, error) {
	tok, err := newTokenizer(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithTokenizer(cfg, tok)
}

// NewWithTokenizer builds a session around an existing tokenizer, e.g. one
// restored from an exported vocabulary.
func NewWithTokenizer(cfg params.VizConfig, tok IO.Tokenizer) (*Session, error) {
	strategy, err := transformer.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	act, err := transformer.ParseActivation(cfg.Activation)
	if err != nil {
		return nil, err
	}
	emb := transformer.NewEmbeddingLayer(cfg.Seed)
	if err := emb.Initialize(cfg.VocabSize, cfg.EmbeddingDim, strategy); err != nil {
		return nil, err
	}
	var ffnSeed *int64
	if cfg.Seed != nil {
		ffnSeed = params.SeedPtr(*cfg.Seed + 1)
	}
	ffn, err := transformer.NewNeuralLayer(cfg.HiddenSize, cfg.EmbeddingDim, act, ffnSeed)
	if err != nil {
		return nil, err
	}
	return &Session{Config: cfg, Tokenizer: tok, Embeddings: emb, FeedForward: ffn}, nil
}

func newTokenizer(cfg params.VizConfig) (IO.Tokenizer, error) {
	switch cfg.Tokenizer {
	case "", "word":
		return IO.NewWordTokenizer(), nil
	case "subword":
		return IO.NewSubwordTokenizer(), nil
	case "pretrained":
		return IO.LoadPretrained(cfg.TokenizerPath)
	}
	return nil, fmt.Errorf("unknown tokenizer %q", cfg.Tokenizer)
}

// EmbeddingID maps a vocabulary id onto a row of the embedding table. Ids
// beyond the table fold to [UNK].
func (s *Session) EmbeddingID(id int) int {
	if id < 0 || id >= s.Embeddings.VocabSize() {
		return 0
	}
	return id
}

// Run pushes text through every stage.
func (s *Session) Run(text string) (*Trace, error) {
	tr := &Trace{Text: text}
	tr.Tokens = s.Tokenizer.Encode(text)
	tr.IDs = s.Tokenizer.TokensToIDs(tr.Tokens)
	tr.MockIDs = make([]int, len(tr.Tokens))
	for i, t := range tr.Tokens {
		tr.MockIDs[i] = s.Tokenizer.MockTokenID(t)
	}

	tr.Embeddings = make([][]float64, len(tr.IDs))
	for i, id := range tr.IDs {
		v, err := s.Embeddings.Embedding(s.EmbeddingID(id))
		if err != nil {
			return nil, fmt.Errorf("embedding for %q: %w", tr.Tokens[i], err)
		}
		tr.Embeddings[i] = v
	}

	var err error
	if tr.Positioned, err = transformer.AddPositional(tr.Embeddings); err != nil {
		return nil, err
	}
	if tr.Attention, tr.Context, err = transformer.SelfAttention(tr.Positioned, s.Config.Causal); err != nil {
		return nil, err
	}

	tr.FeedForward = make([][]float64, len(tr.Context))
	for i, x := range tr.Context {
		out, err := s.FeedForward.Forward(x)
		if err != nil {
			return nil, fmt.Errorf("feed-forward at position %d: %w", i, err)
		}
		tr.FeedForward[i] = out
	}
	utils.Debugf("pipeline: %d tokens through %d-dim embeddings", len(tr.Tokens), s.Embeddings.Dim())
	return tr, nil
}

// NeighborToken is a nearest-neighbour hit resolved back to a token.
type NeighborToken struct {
	ID         int
	Token      string
	Similarity float64
}

// TokenRow resolves a single token, as produced by the tokenizer, to its row
// in the embedding table. The token is looked up as is; it is neither
// re-encoded nor added to the vocabulary, so unseen tokens land on [UNK].
func (s *Session) TokenRow(token string) (int, error) {
	if token == "" {
		return 0, fmt.Errorf("%w: empty token", transformer.ErrInvalidArgument)
	}
	return s.EmbeddingID(s.Tokenizer.TokensToIDs([]string{token})[0]), nil
}

// Neighbors returns the k rows of the embedding table closest to token.
func (s *Session) Neighbors(token string, k int) ([]NeighborToken, error) {
	id, err := s.TokenRow(token)
	if err != nil {
		return nil, err
	}
	ns, err := s.Embeddings.Neighbors(id, k)
	if err != nil {
		return nil, err
	}
	out := make([]NeighborToken, len(ns))
	for i, n := range ns {
		out[i] = NeighborToken{
			ID:         n.ID,
			Token:      s.Tokenizer.IDsToTokens([]int{n.ID})[0],
			Similarity: n.Similarity,
		}
	}
	return out, nil
}

// Learn nudges the embedding of token towards target and returns the squared
// error before the step. The gradient of 0.5*|e-target|^2 is e-target.
func (s *Session) Learn(token string, target []float64) (float64, error) {
	id, err := s.TokenRow(token)
	if err != nil {
		return 0, err
	}
	e, err := s.Embeddings.Embedding(id)
	if err != nil {
		return 0, err
	}
	if len(target) != len(e) {
		return 0, fmt.Errorf("%w: target has %d values, expected %d", transformer.ErrInvalidArgument, len(target), len(e))
	}
	grad := make([]float64, len(e))
	loss := 0.0
	for i := range e {
		grad[i] = e[i] - target[i]
		loss += 0.5 * grad[i] * grad[i]
	}
	return loss, s.Embeddings.Update(id, grad, s.Config.LearningRate)
}
