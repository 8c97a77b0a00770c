// Package json tokenizes JSON input for the span engine using
// encoding/json. Byte offsets come from Decoder.InputOffset and mark the
// position just past each token.
package json

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	"github.com/go-spanned/spanned/internal/engine"
)

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

type jsonSource struct {
	dec        *json.Decoder
	stack      []frame
	lastOffset int64
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON.
func NewReader(r io.Reader) engine.TokenSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &jsonSource{dec: dec}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON.
func NewBytes(b []byte) engine.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *jsonSource) NextToken() (engine.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if err == io.EOF {
			return engine.Token{}, io.EOF
		}
		return engine.Token{}, err
	}
	s.lastOffset = s.dec.InputOffset()

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			s.push(frame{kind: kindObject, expectingKey: true})
			return s.token(engine.KindBeginObject), nil
		case '}':
			s.pop()
			return s.token(engine.KindEndObject), nil
		case '[':
			s.push(frame{kind: kindArray})
			return s.token(engine.KindBeginArray), nil
		case ']':
			s.pop()
			return s.token(engine.KindEndArray), nil
		}
	case string:
		if top := s.top(); top != nil && top.kind == kindObject && top.expectingKey {
			top.expectingKey = false
			t := s.token(engine.KindKey)
			t.String = v
			return t, nil
		}
		s.valueRead()
		t := s.token(engine.KindString)
		t.String = v
		return t, nil
	case bool:
		s.valueRead()
		t := s.token(engine.KindBool)
		t.Bool = v
		return t, nil
	case json.Number:
		s.valueRead()
		t := s.token(engine.KindNumber)
		t.Number = string(v)
		return t, nil
	case float64:
		s.valueRead()
		t := s.token(engine.KindNumber)
		t.Number = strconv.FormatFloat(v, 'g', -1, 64)
		return t, nil
	}
	// encoding/json yields nil for JSON null.
	s.valueRead()
	return s.token(engine.KindNull), nil
}

func (s *jsonSource) Location() int64 { return s.lastOffset }

func (s *jsonSource) token(k engine.Kind) engine.Token {
	return engine.Token{Kind: k, Offset: s.lastOffset}
}

func (s *jsonSource) push(f frame) { s.stack = append(s.stack, f) }

func (s *jsonSource) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.valueRead()
}

func (s *jsonSource) top() *frame {
	if n := len(s.stack); n > 0 {
		return &s.stack[n-1]
	}
	return nil
}

// valueRead flips the enclosing object back to expecting a key after a
// complete member value.
func (s *jsonSource) valueRead() {
	if top := s.top(); top != nil && top.kind == kindObject && !top.expectingKey {
		top.expectingKey = true
	}
}
