// Package lexer implements Borth's Token Stream: a character buffer with a
// single cursor that yields whitespace-delimited tokens on demand, and lets
// a primitive take over delimiting (e.g. to parse a quoted string).
package lexer

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"borth.dev/borth/internal/token"
)

// Item is one token read from the stream.
type Item struct {
	Kind  token.Kind
	Value string
}

// Stream is the runtime's source-of-truth cursor over the text currently
// being interpreted. It is owned by the runtime; each top-level Run call
// replaces it (spec.md §4.1).
type Stream struct {
	r      *bufio.Reader
	peeked *Item
}

// New wraps r in a Stream.
func New(r io.Reader) *Stream {
	return &Stream{r: bufio.NewReader(r)}
}

// NewFromString is a convenience constructor over a string reader.
func NewFromString(s string) *Stream {
	return New(strings.NewReader(s))
}

// Next returns the next whitespace-delimited token, classifying it via
// token.ClassifyWord. At EOF it returns a token.EOF item forever.
func (s *Stream) Next() (Item, error) {
	if s.peeked != nil {
		it := *s.peeked
		s.peeked = nil
		return it, nil
	}
	return s.readToken()
}

// Peek returns the next item without consuming it.
func (s *Stream) Peek() (Item, error) {
	if s.peeked != nil {
		return *s.peeked, nil
	}
	it, err := s.readToken()
	if err != nil {
		return it, err
	}
	s.peeked = &it
	return it, nil
}

func (s *Stream) readToken() (Item, error) {
	if err := s.skipSpace(); err != nil {
		if err == io.EOF {
			return Item{Kind: token.EOF}, nil
		}
		return Item{}, err
	}
	var sb strings.Builder
	for {
		r, _, err := s.r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Item{}, err
		}
		if unicode.IsSpace(r) {
			break
		}
		sb.WriteRune(r)
	}
	raw := sb.String()
	if raw == "" {
		return Item{Kind: token.EOF}, nil
	}
	return Item{Kind: token.ClassifyWord(raw), Value: raw}, nil
}

func (s *Stream) skipSpace() error {
	for {
		r, _, err := s.r.ReadRune()
		if err != nil {
			return err
		}
		if !unicode.IsSpace(r) {
			return s.r.UnreadRune()
		}
	}
}

// ParseWhileDelimiter consumes runes up to (and including) the rune for
// which stop returns true, or EOF, whichever comes first. It returns the
// consumed substring without the delimiter. A primitive uses this to take
// over parsing from the ordinary whitespace-delimited reader — e.g. a
// string literal reads until the next '"'.
//
// Any item buffered by a prior Peek is discarded: a primitive that calls
// ParseWhileDelimiter has already consumed the opening delimiter token
// itself and is asking the stream to read raw characters from here.
func (s *Stream) ParseWhileDelimiter(stop func(rune) bool) (string, error) {
	s.peeked = nil
	var sb strings.Builder
	for {
		r, _, err := s.r.ReadRune()
		if err == io.EOF {
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}
		if stop(r) {
			return sb.String(), nil
		}
		sb.WriteRune(r)
	}
}

// ReadToken consumes and returns exactly one more whitespace-delimited raw
// token as plain text, bypassing classification. Used by primitives (like
// ' and next) that want the literal next token regardless of its shape.
func (s *Stream) ReadToken() (string, error) {
	it, err := s.Next()
	if err != nil {
		return "", err
	}
	return it.Value, nil
}

// AtEOF reports whether the stream has no more tokens.
func (s *Stream) AtEOF() (bool, error) {
	it, err := s.Peek()
	if err != nil {
		return false, err
	}
	return it.Kind == token.EOF, nil
}
