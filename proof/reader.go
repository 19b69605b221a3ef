package proof

import (
	"errors"
	"fmt"

	"github.com/reyzin/scrypto/avltree"
)

// ErrMalformed is returned for any skeleton that cannot be parsed: a
// truncated token, an unrecognized token byte, or a LeafOmitKey token with
// no preceding leaf to infer a key from.
var ErrMalformed = errors.New("proof: malformed skeleton")

// DecodedToken is one token read off the skeleton, with its payload
// resolved to avltree types.
type DecodedToken struct {
	Kind    Token
	Label   avltree.Label // LabelOnly
	Key     avltree.Key   // LeafWithKey / LeafOmitKey
	Value   avltree.Value // LeafWithKey / LeafOmitKey
	Next    avltree.Key   // LeafWithKey / LeafOmitKey
	Balance avltree.Balance
}

// TokenReader parses the skeleton portion of a proof one token at a time,
// in the same post-order the encoder emitted them.
type TokenReader struct {
	data   []byte
	pos    int
	kl, vl int

	havePrevLeaf bool
	prevLeafNext avltree.Key
}

// NewTokenReader builds a reader over a full proof byte string; KL and VL
// are the declared key/value lengths needed to size leaf payloads.
func NewTokenReader(data []byte, kl, vl int) *TokenReader {
	return &TokenReader{data: data, kl: kl, vl: vl}
}

// Next reads and returns the next token. When it returns a Token of
// EndOfTree, Pos() gives the byte offset where the direction bitstream
// begins.
func (r *TokenReader) Next() (DecodedToken, error) {
	if r.pos >= len(r.data) {
		return DecodedToken{}, fmt.Errorf("proof: skeleton truncated before terminator: %w", ErrMalformed)
	}
	tok := Token(r.data[r.pos])
	r.pos++

	switch tok {
	case EndOfTree:
		return DecodedToken{Kind: EndOfTree}, nil

	case LabelOnly:
		label, err := r.take(avltree.Size)
		if err != nil {
			return DecodedToken{}, err
		}
		return DecodedToken{Kind: LabelOnly, Label: avltree.Label(label)}, nil

	case LeafWithKey, LeafOmitKey:
		var key avltree.Key
		if tok == LeafWithKey {
			raw, err := r.take(r.kl)
			if err != nil {
				return DecodedToken{}, err
			}
			key = avltree.Key(raw)
		} else {
			if !r.havePrevLeaf {
				return DecodedToken{}, fmt.Errorf("proof: leaf key omitted with no preceding leaf: %w", ErrMalformed)
			}
			key = r.prevLeafNext
		}
		nextRaw, err := r.take(r.kl)
		if err != nil {
			return DecodedToken{}, err
		}
		valueRaw, err := r.take(r.vl)
		if err != nil {
			return DecodedToken{}, err
		}
		next := avltree.Key(nextRaw)
		r.havePrevLeaf = true
		r.prevLeafNext = next
		return DecodedToken{Kind: tok, Key: key, Next: next, Value: avltree.Value(valueRaw)}, nil

	default:
		if bal, ok := balanceFromToken(tok); ok {
			return DecodedToken{Kind: tok, Balance: bal}, nil
		}
		return DecodedToken{}, fmt.Errorf("proof: unrecognized skeleton token %#x: %w", byte(tok), ErrMalformed)
	}
}

// Pos returns the current byte offset into the proof.
func (r *TokenReader) Pos() int {
	return r.pos
}

func (r *TokenReader) take(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("proof: skeleton payload truncated: %w", ErrMalformed)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}
