package IO

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/maximodanilo/llm-demo-app-sub000/params"
	"github.com/maximodanilo/llm-demo-app-sub000/transformer"
)

func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

type vocabFile struct {
	TokenToID map[string]int `json:"TokenToID"`
	IDToToken []string       `json:"IDToToken"`
}

// ExportVocabJSON writes v as {"TokenToID": {...}, "IDToToken": [...]}.
func ExportVocabJSON(path string, v *params.Vocabulary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(vocabFile{TokenToID: v.TokenToID, IDToToken: v.IDToToken})
}

// ImportVocabJSON loads a file written by ExportVocabJSON. The special tokens
// must come first and both maps must agree.
func ImportVocabJSON(path string) (*params.Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var data vocabFile
	if err := json.NewDecoder(f).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(data.IDToToken) < len(params.SpecialTokens) {
		return nil, fmt.Errorf("%s: vocabulary has %d tokens, special tokens missing", path, len(data.IDToToken))
	}
	for i, s := range params.SpecialTokens {
		if data.IDToToken[i] != s {
			return nil, fmt.Errorf("%s: index %d is %q, expected %q", path, i, data.IDToToken[i], s)
		}
	}
	v := params.NewVocabularyFrom(data.IDToToken[len(params.SpecialTokens):])
	if v.Size() != len(data.IDToToken) {
		return nil, fmt.Errorf("%s: duplicate tokens in IDToToken", path)
	}
	if data.TokenToID != nil {
		for tok, id := range data.TokenToID {
			if got, ok := v.TokenToID[tok]; !ok || got != id {
				return nil, fmt.Errorf("%s: TokenToID[%q]=%d disagrees with IDToToken", path, tok, id)
			}
		}
	}
	return v, nil
}

// SaveEmbeddings writes the table in gonum's binary matrix format.
func SaveEmbeddings(path string, e *transformer.EmbeddingLayer) error {
	m := e.Dense()
	if m == nil {
		return fmt.Errorf("embeddings are not initialized")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = m.MarshalBinaryTo(f)
	return err
}

// LoadEmbeddings replaces e's table with the one stored at path.
func LoadEmbeddings(path string, e *transformer.EmbeddingLayer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	var m mat.Dense
	if _, err := m.UnmarshalBinaryFrom(f); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return e.Load(&m)
}
