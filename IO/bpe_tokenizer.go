package IO

import (
	"fmt"
	"strings"

	tk "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"

	"github.com/maximodanilo/llm-demo-app-sub000/params"
	"github.com/maximodanilo/llm-demo-app-sub000/utils"
)

// PretrainedTokenizer wraps a HuggingFace tokenizer.json so a real subword
// tokenizer can be shown next to the toy ones. Its vocabulary is fixed at
// load time; Encode does not grow it.
type PretrainedTokenizer struct {
	tok   *tk.Tokenizer
	vocab map[string]int
	ids   map[int]string
	unkID int
}

// LoadPretrained reads a tokenizer.json from disk.
func LoadPretrained(tokPath string) (*PretrainedTokenizer, error) {
	if !FileExists(tokPath) {
		return nil, fmt.Errorf("tokenizer file %q not found", tokPath)
	}
	t, err := pretrained.FromFile(tokPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %q: %w", tokPath, err)
	}
	vocab := t.GetVocab(true)
	p := &PretrainedTokenizer{
		tok:   t,
		vocab: vocab,
		ids:   make(map[int]string, len(vocab)),
	}
	for tok, id := range vocab {
		p.ids[id] = tok
	}
	for _, unk := range []string{params.UnkToken, "<unk>", "<|endoftext|>"} {
		if id, ok := vocab[unk]; ok {
			p.unkID = id
			break
		}
	}
	return p, nil
}

func (p *PretrainedTokenizer) Encode(text string) []string {
	if text == "" {
		return []string{}
	}
	enc, err := p.tok.EncodeSingle(text, false)
	return encodedTokens(enc, err)
}

// encodedTokens copies the tokens out of enc. A failed encode yields no
// tokens; the reason goes to the debug log.
func encodedTokens(enc *tk.Encoding, err error) []string {
	if err != nil {
		utils.Debugf("pretrained encode failed: %v", err)
		return []string{}
	}
	if enc == nil {
		return []string{}
	}
	return append([]string{}, enc.Tokens...)
}

// Decode joins tokens with spaces; byte-level markers are left in place.
func (p *PretrainedTokenizer) Decode(tokens []string) string {
	return strings.Join(tokens, " ")
}

func (p *PretrainedTokenizer) TokensToIDs(tokens []string) []int {
	out := make([]int, len(tokens))
	for i, t := range tokens {
		id, ok := p.vocab[t]
		if !ok {
			id = p.unkID
		}
		out[i] = id
	}
	return out
}

func (p *PretrainedTokenizer) IDsToTokens(ids []int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		t, ok := p.ids[id]
		if !ok {
			t = params.UnkToken
		}
		out[i] = t
	}
	return out
}

func (p *PretrainedTokenizer) MockTokenID(token string) int {
	return MockTokenID(token)
}

func (p *PretrainedTokenizer) VocabSize() int {
	return len(p.vocab)
}
