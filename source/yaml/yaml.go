// Package yaml tokenizes YAML input for the span engine using gopkg.in/yaml.v3.
// The document is parsed into a node tree first; byte offsets are recovered
// from each node's line/column against the original input, so they are
// approximate for quoted and multi-line scalars.
package yaml

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/go-spanned/spanned/internal/engine"
	"github.com/go-spanned/spanned/internal/textpos"
)

type yamlSource struct {
	toks []engine.Token
	idx  int
	loc  int64
	err  error
}

// NewBytes tokenizes b into an engine.TokenSource for YAML. Parse errors are
// reported by the first NextToken call.
func NewBytes(b []byte) engine.TokenSource {
	var root yaml.Node
	if err := yaml.Unmarshal(b, &root); err != nil {
		return Failed(err)
	}
	w := &walker{ix: textpos.NewIndex(b)}
	node := &root
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		node = root.Content[0]
	}
	if root.Kind == 0 {
		// Empty document.
		return &yamlSource{}
	}
	if err := w.walk(node); err != nil {
		return Failed(err)
	}
	return &yamlSource{toks: w.toks}
}

// NewReader reads r in full and tokenizes it.
func NewReader(r io.Reader) engine.TokenSource {
	b, err := io.ReadAll(r)
	if err != nil {
		return Failed(err)
	}
	return NewBytes(b)
}

// Failed returns a source whose first NextToken reports err.
func Failed(err error) engine.TokenSource { return &yamlSource{err: err} }

func (s *yamlSource) NextToken() (engine.Token, error) {
	if s.err != nil {
		return engine.Token{}, s.err
	}
	if s.idx >= len(s.toks) {
		return engine.Token{}, io.EOF
	}
	t := s.toks[s.idx]
	s.idx++
	s.loc = t.Offset
	return t, nil
}

func (s *yamlSource) Location() int64 { return s.loc }

type walker struct {
	ix   *textpos.Index
	toks []engine.Token
	last int64
}

func (w *walker) emit(t engine.Token) {
	if t.Offset >= 0 {
		w.last = t.Offset
	} else {
		t.Offset = w.last
	}
	w.toks = append(w.toks, t)
}

func (w *walker) walk(n *yaml.Node) error {
	switch n.Kind {
	case yaml.AliasNode:
		return w.walk(n.Alias)
	case yaml.MappingNode:
		w.emit(engine.Token{Kind: engine.KindBeginObject, Offset: w.ix.Offset(n.Line, n.Column)})
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return fmt.Errorf("yaml: unsupported non-scalar mapping key at line %d", key.Line)
			}
			w.emit(engine.Token{Kind: engine.KindKey, String: key.Value, Offset: w.scalarEnd(key)})
			if err := w.walk(val); err != nil {
				return err
			}
		}
		w.emit(engine.Token{Kind: engine.KindEndObject, Offset: -1})
		return nil
	case yaml.SequenceNode:
		w.emit(engine.Token{Kind: engine.KindBeginArray, Offset: w.ix.Offset(n.Line, n.Column)})
		for _, c := range n.Content {
			if err := w.walk(c); err != nil {
				return err
			}
		}
		w.emit(engine.Token{Kind: engine.KindEndArray, Offset: -1})
		return nil
	case yaml.ScalarNode:
		w.emit(w.scalarToken(n))
		return nil
	}
	return fmt.Errorf("yaml: unsupported node kind %v at line %d", n.Kind, n.Line)
}

func (w *walker) scalarToken(n *yaml.Node) engine.Token {
	off := w.scalarEnd(n)
	switch n.Tag {
	case "!!null":
		return engine.Token{Kind: engine.KindNull, Offset: off}
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			b = n.Value == "true"
		}
		return engine.Token{Kind: engine.KindBool, Bool: b, Offset: off}
	case "!!int", "!!float":
		return engine.Token{Kind: engine.KindNumber, Number: n.Value, Offset: off}
	}
	return engine.Token{Kind: engine.KindString, String: n.Value, Offset: off}
}

// scalarEnd approximates the byte offset just past a scalar: its start plus
// the length of its resolved value.
func (w *walker) scalarEnd(n *yaml.Node) int64 {
	start := w.ix.Offset(n.Line, n.Column)
	if start < 0 {
		return -1
	}
	return start + int64(len(n.Value))
}
