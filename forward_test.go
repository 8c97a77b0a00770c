package spanned_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	spanned "github.com/go-spanned/spanned"
	"github.com/go-spanned/spanned/de"
)

// captureVisitor records whatever the deserializer hands it as a generic
// value tree, so decodes through different deserializer stacks can be
// compared structurally.
type captureVisitor struct {
	de.UnimplementedVisitor
	out *any
}

func (v *captureVisitor) VisitNil() error            { *v.out = nil; return nil }
func (v *captureVisitor) VisitBool(b bool) error     { *v.out = b; return nil }
func (v *captureVisitor) VisitInt(i int64) error     { *v.out = i; return nil }
func (v *captureVisitor) VisitUint(u uint64) error   { *v.out = u; return nil }
func (v *captureVisitor) VisitFloat(f float64) error { *v.out = f; return nil }
func (v *captureVisitor) VisitString(s string) error { *v.out = s; return nil }

func (v *captureVisitor) VisitBytes(b []byte) error {
	*v.out = append([]byte(nil), b...)
	return nil
}

func (v *captureVisitor) VisitSeq(a de.SeqAccess) error {
	out := []any{}
	for {
		ed, ok, err := a.NextElement()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		var elem any
		if err := spanned.DecodeInto(ed, &elem); err != nil {
			return err
		}
		out = append(out, elem)
	}
	*v.out = out
	return nil
}

func (v *captureVisitor) VisitMap(a de.MapAccess) error {
	out := map[string]any{}
	for {
		key, ok, err := a.NextKey()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		vd, err := a.NextValue()
		if err != nil {
			return err
		}
		var val any
		if err := spanned.DecodeInto(vd, &val); err != nil {
			return err
		}
		out[key] = val
	}
	*v.out = out
	return nil
}

func TestForwardingEquivalence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		op   func(d de.Deserializer, v de.Visitor) error
	}{
		{"Any", `{"a": 1, "b": [true, null]}`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeAny(v) }},
		{"Bool", `true`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeBool(v) }},
		{"Int8", `42`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeInt8(v) }},
		{"Int16", `-300`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeInt16(v) }},
		{"Int32", `70000`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeInt32(v) }},
		{"Int64", `-9007199254740993`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeInt64(v) }},
		{"Uint8", `255`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeUint8(v) }},
		{"Uint16", `65535`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeUint16(v) }},
		{"Uint32", `4294967295`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeUint32(v) }},
		{"Uint64", `18446744073709551615`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeUint64(v) }},
		{"Float32", `1.5`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeFloat32(v) }},
		{"Float64", `-2.25e3`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeFloat64(v) }},
		{"Rune", `"x"`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeRune(v) }},
		{"String", `"hello"`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeString(v) }},
		{"Bytes", `"abc"`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeBytes(v) }},
		{"ByteBuf", `"abc"`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeByteBuf(v) }},
		{"OptionalNull", `null`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeOptional(v) }},
		{"OptionalValue", `"v"`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeOptional(v) }},
		{"Nil", `null`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeNil(v) }},
		{"NamedNil", `null`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeNamedNil("unit", v) }},
		{"NamedValue", `"payload"`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeNamedValue("wrapper", v) }},
		{"Seq", `[1, "two", false]`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeSeq(v) }},
		{"FixedSeq", `[1, 2]`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeFixedSeq(2, v) }},
		{"NamedFixedSeq", `[1, 2, 3]`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeNamedFixedSeq("triple", 3, v) }},
		{"Map", `{"k": 1}`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeMap(v) }},
		{"Struct", `{"k": 1}`, func(d de.Deserializer, v de.Visitor) error {
			return d.DeserializeStruct("point", []string{"k"}, v)
		}},
		{"EnumString", `"variant"`, func(d de.Deserializer, v de.Visitor) error {
			return d.DeserializeEnum("kind", []string{"variant"}, v)
		}},
		{"EnumObject", `{"variant": {"a": 1}}`, func(d de.Deserializer, v de.Visitor) error {
			return d.DeserializeEnum("kind", []string{"variant"}, v)
		}},
		{"Identifier", `"id"`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeIdentifier(v) }},
		{"IgnoredAny", `[1, {"a": 2}]`, func(d de.Deserializer, v de.Visitor) error { return d.DeserializeIgnoredAny(v) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var direct any
			d := spanned.FromSource(spanned.JSONBytes([]byte(tc.in)))
			if err := tc.op(d, &captureVisitor{out: &direct}); err != nil {
				t.Fatalf("direct decode: %v", err)
			}

			var wrapped any
			w := spanned.NewDeserializer(spanned.FromSource(spanned.JSONBytes([]byte(tc.in))))
			if err := tc.op(w, &captureVisitor{out: &wrapped}); err != nil {
				t.Fatalf("wrapped decode: %v", err)
			}

			if diff := cmp.Diff(direct, wrapped); diff != "" {
				t.Errorf("wrapped decode differs (-direct +wrapped):\n%s", diff)
			}
		})
	}
}

func TestForwardingErrorsUnchanged(t *testing.T) {
	in := []byte(`"not a bool"`)

	d := spanned.FromSource(spanned.JSONBytes(in))
	var sink any
	directErr := d.DeserializeBool(&captureVisitor{out: &sink})
	if directErr == nil {
		t.Fatal("direct decode: expected error, got nil")
	}

	w := spanned.NewDeserializer(spanned.FromSource(spanned.JSONBytes(in)))
	wrappedErr := w.DeserializeBool(&captureVisitor{out: &sink})
	if wrappedErr == nil {
		t.Fatal("wrapped decode: expected error, got nil")
	}

	if directErr.Error() != wrappedErr.Error() {
		t.Errorf("errors differ: direct %q, wrapped %q", directErr, wrappedErr)
	}
	dd, _ := de.AsError(directErr)
	wd, ok := de.AsError(wrappedErr)
	if !ok || dd.Code != wd.Code || dd.Offset != wd.Offset {
		t.Errorf("error details differ: direct %+v, wrapped %+v", dd, wd)
	}
}

func TestOffsetForwardsThroughStack(t *testing.T) {
	in := []byte(`{"a": 1, "b": 2}`)
	d := spanned.FromSource(spanned.JSONBytes(in))
	w := spanned.NewDeserializer(spanned.NewDeserializer(d))

	if got, want := w.Offset(), d.Offset(); got != want {
		t.Errorf("initial Offset() = %d, inner reports %d", got, want)
	}

	var m map[string]any
	if err := spanned.DecodeInto(w, &m); err != nil {
		t.Fatalf("DecodeInto: %v", err)
	}
	if got, want := w.Offset(), d.Offset(); got != want {
		t.Errorf("final Offset() = %d, inner reports %d", got, want)
	}
	if got := w.Offset(); got != int64(len(in)) {
		t.Errorf("final Offset() = %d, want %d", got, len(in))
	}
}

func TestInnerReturnsWrapped(t *testing.T) {
	d := spanned.FromSource(spanned.JSONBytes([]byte(`1`)))
	w := spanned.NewDeserializer(d)
	if w.Inner() != d {
		t.Error("Inner() did not return the wrapped deserializer")
	}
}

func TestSpanDecodingThroughWrapper(t *testing.T) {
	in := []byte(`"hello"`)

	var direct spanned.Spanned[string]
	if err := spanned.DecodeInto(spanned.FromSource(spanned.JSONBytes(in)), &direct); err != nil {
		t.Fatalf("direct decode: %v", err)
	}

	var wrapped spanned.Spanned[string]
	w := spanned.NewDeserializer(spanned.NewDeserializer(spanned.FromSource(spanned.JSONBytes(in))))
	if err := spanned.DecodeInto(w, &wrapped); err != nil {
		t.Fatalf("wrapped decode: %v", err)
	}

	if direct.Value() != wrapped.Value() || direct.Start() != wrapped.Start() || direct.End() != wrapped.End() {
		t.Errorf("wrapped span decode = (%q, %d, %d), direct = (%q, %d, %d)",
			wrapped.Value(), wrapped.Start(), wrapped.End(),
			direct.Value(), direct.Start(), direct.End())
	}
}
