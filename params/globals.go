package params

// Special tokens kept at the start of every vocabulary, in this order.
const (
	UnkToken = "[UNK]"
	PadToken = "[PAD]"
	ClsToken = "[CLS]"
	SepToken = "[SEP]"
)

var SpecialTokens = []string{UnkToken, PadToken, ClsToken, SepToken}

// Debug enables utils.Debugf output.
var Debug = false

type VizConfig struct {
	// Tokenization
	Tokenizer     string // "word", "subword" or "pretrained"
	TokenizerPath string // tokenizer.json for the pretrained variant

	// Embedding table
	VocabSize    int    // rows of the embedding table
	EmbeddingDim int    // width of every embedding vector
	Strategy     string // "zeros", "random" or "xavier"
	Seed         *int64 // nil = seeded from the wall clock

	// Attention / feed-forward step
	Causal     bool   // mask future positions in attention
	HiddenSize int    // neurons in the feed-forward layer
	Activation string // "relu", "sigmoid", "tanh" or "linear"

	// Learning step
	LearningRate float64
	Neighbors    int // k for nearest-neighbour queries
	VisDims      int // components shown per embedding
}

var Defaults = VizConfig{
	Tokenizer: "word",

	VocabSize:    1000,
	EmbeddingDim: 8,
	Strategy:     "xavier",

	Causal:     false,
	HiddenSize: 4,
	Activation: "relu",

	LearningRate: 0.1,
	Neighbors:    3,
	VisDims:      2,
}

// SeedPtr is a helper for filling VizConfig.Seed from a literal.
func SeedPtr(s int64) *int64 {
	return &s
}
