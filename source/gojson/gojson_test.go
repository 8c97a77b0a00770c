package gojson_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	spanned "github.com/go-spanned/spanned"
	"github.com/go-spanned/spanned/source/gojson"
)

func TestDriverName(t *testing.T) {
	if got := gojson.Driver().Name(); got != "go-json" {
		t.Errorf("Name() = %q, want %q", got, "go-json")
	}
}

func TestPlainDecodeMatchesDefaultDriver(t *testing.T) {
	in := []byte(`{"a": 1, "b": [true, null], "c": "x"}`)

	want, err := spanned.Parse[any](spanned.JSONBytes(in))
	if err != nil {
		t.Fatalf("default driver: %v", err)
	}

	spanned.SetJSONDriver(gojson.Driver())
	defer spanned.UseDefaultJSONDriver()

	got, err := spanned.Parse[any](spanned.JSONBytes(in))
	if err != nil {
		t.Fatalf("go-json driver: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("drivers disagree (-default +go-json):\n%s", diff)
	}
}

func TestSpanDecodeRequiresOffsets(t *testing.T) {
	spanned.SetJSONDriver(gojson.Driver())
	defer spanned.UseDefaultJSONDriver()

	_, err := spanned.Parse[spanned.Spanned[string]](spanned.JSONBytes([]byte(`"hello"`)))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "does not report byte offsets") {
		t.Errorf("error = %q, want an offset capability message", err)
	}
}

func TestUseDefaultJSONDriverRestoresSpans(t *testing.T) {
	spanned.SetJSONDriver(gojson.Driver())
	spanned.UseDefaultJSONDriver()

	s, err := spanned.Parse[spanned.Spanned[string]](spanned.JSONBytes([]byte(`"hello"`)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if a, b := s.Span(); a != 0 || b != 7 {
		t.Errorf("Span() = (%d, %d), want (0, 7)", a, b)
	}
}
