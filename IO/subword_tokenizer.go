package IO

import (
	"strings"

	"github.com/maximodanilo/llm-demo-app-sub000/params"
)

// Affixes seeded into every subword vocabulary, matched in this order.
var (
	commonPrefixes = []string{
		"un", "re", "in", "im", "dis", "pre", "post", "non", "anti", "auto",
		"bi", "co", "de", "en", "ex", "inter", "intra", "micro", "mid", "mis",
		"over", "pro", "semi", "sub", "super", "trans", "under",
	}
	commonSuffixes = []string{
		"ing", "ed", "er", "est", "ly", "ity", "ment", "ness", "tion", "sion",
		"ism", "ist", "ful", "able", "ible", "al", "ial", "ical", "ious", "ous",
		"ive", "less", "y",
	}
)

// SubwordTokenizer is a toy BPE-like splitter driven by fixed affix lists,
// not by merge frequencies.
type SubwordTokenizer struct {
	vocabTokenizer
}

func NewSubwordTokenizer() *SubwordTokenizer {
	v := params.NewVocabulary()
	for _, p := range commonPrefixes {
		v.AddToken(p)
	}
	for _, s := range commonSuffixes {
		v.AddToken(s)
	}
	return &SubwordTokenizer{vocabTokenizer{vocab: v}}
}

// NewSubwordTokenizerFrom starts from a copy of an existing vocabulary; the
// affixes are added if missing.
func NewSubwordTokenizerFrom(v *params.Vocabulary) *SubwordTokenizer {
	c := v.Clone()
	for _, p := range commonPrefixes {
		c.AddToken(p)
	}
	for _, s := range commonSuffixes {
		c.AddToken(s)
	}
	return &SubwordTokenizer{vocabTokenizer{vocab: c}}
}

func (t *SubwordTokenizer) Encode(text string) []string {
	if text == "" {
		return []string{}
	}
	out := []string{}
	for _, word := range strings.Fields(Preprocess(text)) {
		for _, piece := range SplitIntoSubwords(word) {
			t.vocab.AddToken(piece)
			out = append(out, piece)
		}
	}
	return out
}

// Decode joins with spaces and drops any " ##" continuation marker.
func (t *SubwordTokenizer) Decode(tokens []string) string {
	return strings.ReplaceAll(strings.Join(tokens, " "), " ##", "")
}

// SplitIntoSubwords applies, in order: keep words of <= 4 runes; split off
// the first matching prefix; split off the first matching suffix; halve
// words longer than 6 runes; otherwise keep the word. Remainders longer than
// 4 runes are split again.
func SplitIntoSubwords(word string) []string {
	n := len([]rune(word))
	if n <= 4 {
		return []string{word}
	}
	for _, p := range commonPrefixes {
		if len(word) > len(p) && strings.HasPrefix(word, p) {
			return append([]string{p}, splitRemainder(word[len(p):])...)
		}
	}
	for _, s := range commonSuffixes {
		if len(word) > len(s) && strings.HasSuffix(word, s) {
			return append(splitRemainder(word[:len(word)-len(s)]), s)
		}
	}
	if n > 6 {
		r := []rune(word)
		return []string{string(r[:n/2]), string(r[n/2:])}
	}
	return []string{word}
}

func splitRemainder(rest string) []string {
	if len([]rune(rest)) > 4 {
		return SplitIntoSubwords(rest)
	}
	return []string{rest}
}
