// Package toml tokenizes TOML input for the span engine using
// pelletier/go-toml. The document is parsed into a tree first; byte offsets
// are recovered from key positions, so values report the offset of the key
// that introduced them.
package toml

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/pelletier/go-toml"

	"github.com/go-spanned/spanned/internal/engine"
	"github.com/go-spanned/spanned/internal/textpos"
)

type tomlSource struct {
	toks []engine.Token
	idx  int
	loc  int64
	err  error
}

// NewBytes tokenizes b into an engine.TokenSource for TOML. Parse errors are
// reported by the first NextToken call.
func NewBytes(b []byte) engine.TokenSource {
	tree, err := toml.LoadBytes(b)
	if err != nil {
		return Failed(err)
	}
	w := &walker{ix: textpos.NewIndex(b)}
	if err := w.walkTree(tree); err != nil {
		return Failed(err)
	}
	return &tomlSource{toks: w.toks}
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
func Failed(err error) engine.TokenSource { return &tomlSource{err: err} }

func (s *tomlSource) NextToken() (engine.Token, error) {
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

func (s *tomlSource) Location() int64 { return s.loc }

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

func (w *walker) walkTree(tree *toml.Tree) error {
	pos := tree.Position()
	w.emit(engine.Token{Kind: engine.KindBeginObject, Offset: w.ix.Offset(pos.Line, pos.Col)})

	keys := tree.Keys()
	sort.Slice(keys, func(i, j int) bool {
		a := tree.GetPositionPath([]string{keys[i]})
		b := tree.GetPositionPath([]string{keys[j]})
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
	for _, key := range keys {
		kp := tree.GetPositionPath([]string{key})
		off := w.ix.Offset(kp.Line, kp.Col)
		if off >= 0 {
			off += int64(len(key))
		}
		w.emit(engine.Token{Kind: engine.KindKey, String: key, Offset: off})
		if err := w.walkValue(tree.GetPath([]string{key})); err != nil {
			return err
		}
	}
	w.emit(engine.Token{Kind: engine.KindEndObject, Offset: -1})
	return nil
}

func (w *walker) walkValue(v any) error {
	switch x := v.(type) {
	case *toml.Tree:
		return w.walkTree(x)
	case []*toml.Tree:
		w.emit(engine.Token{Kind: engine.KindBeginArray, Offset: -1})
		for _, t := range x {
			if err := w.walkTree(t); err != nil {
				return err
			}
		}
		w.emit(engine.Token{Kind: engine.KindEndArray, Offset: -1})
		return nil
	case []any:
		w.emit(engine.Token{Kind: engine.KindBeginArray, Offset: -1})
		for _, e := range x {
			if err := w.walkValue(e); err != nil {
				return err
			}
		}
		w.emit(engine.Token{Kind: engine.KindEndArray, Offset: -1})
		return nil
	case nil:
		w.emit(engine.Token{Kind: engine.KindNull, Offset: -1})
		return nil
	case bool:
		w.emit(engine.Token{Kind: engine.KindBool, Bool: x, Offset: -1})
		return nil
	case string:
		w.emit(engine.Token{Kind: engine.KindString, String: x, Offset: -1})
		return nil
	case int64:
		w.emit(engine.Token{Kind: engine.KindNumber, Number: strconv.FormatInt(x, 10), Offset: -1})
		return nil
	case uint64:
		w.emit(engine.Token{Kind: engine.KindNumber, Number: strconv.FormatUint(x, 10), Offset: -1})
		return nil
	case float64:
		w.emit(engine.Token{Kind: engine.KindNumber, Number: strconv.FormatFloat(x, 'g', -1, 64), Offset: -1})
		return nil
	case time.Time:
		w.emit(engine.Token{Kind: engine.KindString, String: x.Format(time.RFC3339Nano), Offset: -1})
		return nil
	case fmt.Stringer:
		// toml.LocalDate, toml.LocalTime, toml.LocalDateTime.
		w.emit(engine.Token{Kind: engine.KindString, String: x.String(), Offset: -1})
		return nil
	}
	return fmt.Errorf("toml: unsupported value type %T", v)
}
