package params

import "maps"

// Vocabulary is a bidirectional token <-> index map. Indices are handed out
// sequentially from 0 and never reassigned; the special tokens always take
// 0..3.
type Vocabulary struct {
	TokenToID map[string]int
	IDToToken []string
}

// NewVocabulary returns a vocabulary holding only the special tokens.
func NewVocabulary() *Vocabulary {
	return NewVocabularyFrom(nil)
}

// NewVocabularyFrom rebuilds a vocabulary from an ordered token list. The
// special tokens are placed first; duplicates in tokens are skipped.
func NewVocabularyFrom(tokens []string) *Vocabulary {
	v := &Vocabulary{
		TokenToID: make(map[string]int, len(SpecialTokens)+len(tokens)),
		IDToToken: make([]string, 0, len(SpecialTokens)+len(tokens)),
	}
	for _, t := range SpecialTokens {
		v.AddToken(t)
	}
	for _, t := range tokens {
		v.AddToken(t)
	}
	return v
}

// AddToken returns the index of token, assigning the next free index if it
// has not been seen before.
func (v *Vocabulary) AddToken(token string) int {
	if id, ok := v.TokenToID[token]; ok {
		return id
	}
	id := len(v.IDToToken)
	v.TokenToID[token] = id
	v.IDToToken = append(v.IDToToken, token)
	return id
}

// TokenIndex returns the index of token, or the [UNK] index.
func (v *Vocabulary) TokenIndex(token string) int {
	if id, ok := v.TokenToID[token]; ok {
		return id
	}
	return v.TokenToID[UnkToken]
}

// TokenAt returns the token stored at index, or the literal [UNK].
func (v *Vocabulary) TokenAt(index int) string {
	if index < 0 || index >= len(v.IDToToken) {
		return UnkToken
	}
	return v.IDToToken[index]
}

func (v *Vocabulary) Size() int {
	return len(v.IDToToken)
}

func (v *Vocabulary) Contains(token string) bool {
	_, ok := v.TokenToID[token]
	return ok
}

// TokenMap returns a copy of the token -> index map.
func (v *Vocabulary) TokenMap() map[string]int {
	return maps.Clone(v.TokenToID)
}

// IndexMap returns a copy of the index -> token map.
func (v *Vocabulary) IndexMap() map[int]string {
	out := make(map[int]string, len(v.IDToToken))
	for i, t := range v.IDToToken {
		out[i] = t
	}
	return out
}

// Tokens returns the tokens in index order.
func (v *Vocabulary) Tokens() []string {
	return append([]string(nil), v.IDToToken...)
}

func (v *Vocabulary) Clone() *Vocabulary {
	return &Vocabulary{
		TokenToID: maps.Clone(v.TokenToID),
		IDToToken: v.Tokens(),
	}
}

// Equal reports whether both vocabularies hold the same forward and reverse
// mappings. Insertion history is not compared.
func (v *Vocabulary) Equal(o *Vocabulary) bool {
	if v == nil || o == nil {
		return v == o
	}
	return maps.Equal(v.TokenToID, o.TokenToID) && maps.Equal(v.IndexMap(), o.IndexMap())
}
