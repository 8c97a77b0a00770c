// Package gojson provides a JSON driver backed by goccy/go-json. It trades
// offset reporting for decode throughput: tokens carry no byte offsets, so
// it suits plain decoding rather than span decoding.
package gojson

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	spanned "github.com/go-spanned/spanned"
	"github.com/go-spanned/spanned/internal/engine"
)

// Driver returns a spanned.JSONDriver backed by goccy/go-json.
func Driver() spanned.JSONDriver { return driverGoJSON{} }

type driverGoJSON struct{}

func (driverGoJSON) NewReader(r io.Reader) spanned.Source {
	return spanned.SourceFromEngine(NewReader(r))
}
func (driverGoJSON) NewBytes(b []byte) spanned.Source {
	return spanned.SourceFromEngine(NewBytes(b))
}
func (driverGoJSON) Name() string { return "go-json" }

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

type source struct {
	dec   *j.Decoder
	stack []frame
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using
// go-json.
func NewReader(r io.Reader) engine.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using
// go-json.
func NewBytes(b []byte) engine.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (engine.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if err == io.EOF {
			return engine.Token{}, io.EOF
		}
		return engine.Token{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.push(frame{kind: kindObject, expectingKey: true})
			return engine.Token{Kind: engine.KindBeginObject, Offset: -1}, nil
		case '}':
			s.pop()
			return engine.Token{Kind: engine.KindEndObject, Offset: -1}, nil
		case '[':
			s.push(frame{kind: kindArray})
			return engine.Token{Kind: engine.KindBeginArray, Offset: -1}, nil
		case ']':
			s.pop()
			return engine.Token{Kind: engine.KindEndArray, Offset: -1}, nil
		}
	case string:
		if top := s.top(); top != nil && top.kind == kindObject && top.expectingKey {
			top.expectingKey = false
			return engine.Token{Kind: engine.KindKey, String: v, Offset: -1}, nil
		}
		s.valueRead()
		return engine.Token{Kind: engine.KindString, String: v, Offset: -1}, nil
	case bool:
		s.valueRead()
		return engine.Token{Kind: engine.KindBool, Bool: v, Offset: -1}, nil
	case j.Number:
		s.valueRead()
		return engine.Token{Kind: engine.KindNumber, Number: string(v), Offset: -1}, nil
	case float64:
		s.valueRead()
		return engine.Token{Kind: engine.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: -1}, nil
	}
	s.valueRead()
	return engine.Token{Kind: engine.KindNull, Offset: -1}, nil
}

func (s *source) Location() int64 { return -1 }

func (s *source) push(f frame) { s.stack = append(s.stack, f) }

func (s *source) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.valueRead()
}

func (s *source) top() *frame {
	if n := len(s.stack); n > 0 {
		return &s.stack[n-1]
	}
	return nil
}

func (s *source) valueRead() {
	if top := s.top(); top != nil && top.kind == kindObject && !top.expectingKey {
		top.expectingKey = true
	}
}
