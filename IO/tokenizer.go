package IO

import (
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/maximodanilo/llm-demo-app-sub000/params"
)

// Tokenizer turns raw text into tokens and tokens into vocabulary ids.
type Tokenizer interface {
	Encode(text string) []string
	Decode(tokens []string) string
	TokensToIDs(tokens []string) []int
	IDsToTokens(ids []int) []string
	MockTokenID(token string) int
	VocabSize() int
}

var (
	whitespaceRun = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)
	punctuation   = regexp.MustCompile(`([.,!?;:])`)
)

// Preprocess lowercases text, collapses any run of Unicode whitespace into a
// single space and pads . , ! ? ; : with spaces so they split off as their
// own tokens.
func Preprocess(text string) string {
	s := strings.ToLower(text)
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = punctuation.ReplaceAllString(s, " $1 ")
	return whitespaceRun.ReplaceAllString(s, " ")
}

// MockTokenID is a display-only id in [0, 10000) derived from the token text
// alone (FNV-1a). It never touches a vocabulary.
func MockTokenID(token string) int {
	h := fnv.New32a()
	h.Write([]byte(token))
	return int(h.Sum32() % 10000)
}

// vocabTokenizer holds the vocabulary shared by the word and subword
// tokenizers.
type vocabTokenizer struct {
	vocab *params.Vocabulary
}

func (t *vocabTokenizer) TokensToIDs(tokens []string) []int {
	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		ids[i] = t.vocab.TokenIndex(tok)
	}
	return ids
}

func (t *vocabTokenizer) IDsToTokens(ids []int) []string {
	toks := make([]string, len(ids))
	for i, id := range ids {
		toks[i] = t.vocab.TokenAt(id)
	}
	return toks
}

func (t *vocabTokenizer) MockTokenID(token string) int {
	return MockTokenID(token)
}

func (t *vocabTokenizer) VocabSize() int {
	return t.vocab.Size()
}

// Vocabulary returns a snapshot of the tokenizer's vocabulary.
func (t *vocabTokenizer) Vocabulary() *params.Vocabulary {
	return t.vocab.Clone()
}
