package json_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/go-spanned/spanned/internal/engine"
	jsonsrc "github.com/go-spanned/spanned/source/json"
)

func drain(t *testing.T, src engine.TokenSource) []engine.Token {
	t.Helper()
	var toks []engine.Token
	for {
		tok, err := src.NextToken()
		if errors.Is(err, io.EOF) {
			return toks
		}
		if err != nil {
			t.Fatalf("NextToken: %v", err)
		}
		if got := src.Location(); got != tok.Offset {
			t.Errorf("Location() = %d after token with offset %d", got, tok.Offset)
		}
		toks = append(toks, tok)
	}
}

func TestTokenSequenceWithOffsets(t *testing.T) {
	in := `{"a": 1, "b": [true, null]}`
	got := drain(t, jsonsrc.NewBytes([]byte(in)))
	want := []engine.Token{
		{Kind: engine.KindBeginObject, Offset: 1},
		{Kind: engine.KindKey, String: "a", Offset: 4},
		{Kind: engine.KindNumber, Number: "1", Offset: 7},
		{Kind: engine.KindKey, String: "b", Offset: 12},
		{Kind: engine.KindBeginArray, Offset: 15},
		{Kind: engine.KindBool, Bool: true, Offset: 19},
		{Kind: engine.KindNull, Offset: 25},
		{Kind: engine.KindEndArray, Offset: 26},
		{Kind: engine.KindEndObject, Offset: 27},
	}
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d\ngot: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestStringValueInsideObjectIsNotAKey(t *testing.T) {
	got := drain(t, jsonsrc.NewBytes([]byte(`{"k": "v"}`)))
	if len(got) != 4 {
		t.Fatalf("token count = %d, want 4", len(got))
	}
	if got[1].Kind != engine.KindKey || got[1].String != "k" {
		t.Errorf("token 1 = %+v, want key k", got[1])
	}
	if got[2].Kind != engine.KindString || got[2].String != "v" {
		t.Errorf("token 2 = %+v, want string v", got[2])
	}
}

func TestNumbersKeepTheirText(t *testing.T) {
	got := drain(t, jsonsrc.NewBytes([]byte(`[1e3, 0.50, 18446744073709551615]`)))
	wantNums := []string{"1e3", "0.50", "18446744073709551615"}
	if len(got) != 5 {
		t.Fatalf("token count = %d, want 5", len(got))
	}
	for i, want := range wantNums {
		tok := got[i+1]
		if tok.Kind != engine.KindNumber || tok.Number != want {
			t.Errorf("token %d = %+v, want number %q", i+1, tok, want)
		}
	}
}

func TestMalformedInput(t *testing.T) {
	src := jsonsrc.NewBytes([]byte(`{"a": }`))
	for {
		_, err := src.NextToken()
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			t.Fatal("malformed input drained without error")
		}
		if !strings.Contains(err.Error(), "invalid character") {
			t.Errorf("error = %q, want the parser's syntax error", err)
		}
		return
	}
}

func TestEmptyInputIsEOF(t *testing.T) {
	_, err := jsonsrc.NewBytes(nil).NextToken()
	if !errors.Is(err, io.EOF) {
		t.Errorf("NextToken on empty input = %v, want io.EOF", err)
	}
}
