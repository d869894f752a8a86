package IO

import (
	"strings"

	"github.com/maximodanilo/llm-demo-app-sub000/params"
)

// WordTokenizer splits on spaces after Preprocess; punctuation marks become
// tokens of their own. Every encoded token is added to its vocabulary.
type WordTokenizer struct {
	vocabTokenizer
}

func NewWordTokenizer() *WordTokenizer {
	return &WordTokenizer{vocabTokenizer{vocab: params.NewVocabulary()}}
}

// NewWordTokenizerFrom starts from a copy of an existing vocabulary.
func NewWordTokenizerFrom(v *params.Vocabulary) *WordTokenizer {
	return &WordTokenizer{vocabTokenizer{vocab: v.Clone()}}
}

func (t *WordTokenizer) Encode(text string) []string {
	if text == "" {
		return []string{}
	}
	out := []string{}
	for _, tok := range strings.Split(Preprocess(text), " ") {
		if tok == "" {
			continue
		}
		t.vocab.AddToken(tok)
		out = append(out, tok)
	}
	return out
}

// Decode joins tokens with single spaces. Case and original spacing are not
// restored.
func (t *WordTokenizer) Decode(tokens []string) string {
	return strings.Join(tokens, " ")
}
