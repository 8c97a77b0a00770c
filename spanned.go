package spanned

import (
	"encoding/json"

	"github.com/go-spanned/spanned/de"
)

// Spanned pairs a decoded value with the half-open byte range [start, end)
// of the input text that produced it. Offsets come from whatever source
// decoded the value; start <= end is the producer's responsibility and is
// not validated here.
type Spanned[T any] struct {
	value T
	start int
	end   int
}

// New constructs a Spanned from an already-decoded value and its offsets.
func New[T any](value T, start, end int) Spanned[T] {
	return Spanned[T]{value: value, start: start, end: end}
}

// Start returns the byte offset where the span begins.
func (s Spanned[T]) Start() int { return s.start }

// End returns the byte offset where the span ends (exclusive).
func (s Spanned[T]) End() int { return s.end }

// Span returns the start and end offsets.
func (s Spanned[T]) Span() (start, end int) { return s.start, s.end }

// Len returns the length of the span in bytes.
func (s Spanned[T]) Len() int { return s.end - s.start }

// IsEmpty reports whether the span covers no bytes.
func (s Spanned[T]) IsEmpty() bool { return s.Len() == 0 }

// Value returns the inner value.
func (s Spanned[T]) Value() T { return s.value }

// ValueRef returns a pointer to the inner value for in-place mutation.
func (s *Spanned[T]) ValueRef() *T { return &s.value }

// MarshalJSON emits only the inner value. Spans are a decode-time
// annotation and are not persisted on the way out.
func (s Spanned[T]) MarshalJSON() ([]byte, error) { return json.Marshal(s.value) }

// MarshalYAML emits only the inner value.
func (s Spanned[T]) MarshalYAML() (any, error) { return s.value, nil }

// Fixed shape errors for the reserved three-key map. Inner decode errors
// are propagated verbatim and never replaced by these.
var (
	errStartKeyNotFound = &de.Error{Code: de.CodeMissingKey, Offset: -1, Message: "spanned start key not found"}
	errEndKeyNotFound   = &de.Error{Code: de.CodeMissingKey, Offset: -1, Message: "spanned end key not found"}
	errValueKeyNotFound = &de.Error{Code: de.CodeMissingKey, Offset: -1, Message: "spanned value key not found"}
)

// DeserializeFrom decodes the spanned value from d. On the wire a spanned
// value is a map with exactly three reserved keys in fixed order: start
// offset, end offset, then the payload, which decodes recursively as T.
func (s *Spanned[T]) DeserializeFrom(d de.Deserializer) error {
	return d.DeserializeStruct(de.SpannedName, de.SpannedFields(), &spannedVisitor[T]{out: s})
}

type spannedVisitor[T any] struct {
	de.UnimplementedVisitor
	out *Spanned[T]
}

func (v *spannedVisitor[T]) VisitMap(m de.MapAccess) error {
	start, err := spanOffset(m, de.SpannedStartKey, errStartKeyNotFound)
	if err != nil {
		return err
	}
	end, err := spanOffset(m, de.SpannedEndKey, errEndKeyNotFound)
	if err != nil {
		return err
	}
	key, ok, err := m.NextKey()
	if err != nil {
		return err
	}
	if !ok || key != de.SpannedValueKey {
		return errValueKeyNotFound
	}
	vd, err := m.NextValue()
	if err != nil {
		return err
	}
	var inner T
	if err := DecodeInto(vd, &inner); err != nil {
		return err
	}
	*v.out = Spanned[T]{value: inner, start: int(start), end: int(end)}
	return nil
}

// spanOffset consumes one key/value entry whose key must be want, decoding
// the value as an unsigned offset. Keys are matched positionally: a map with
// the reserved keys out of order fails on the first mismatch.
func spanOffset(m de.MapAccess, want string, missing error) (uint64, error) {
	key, ok, err := m.NextKey()
	if err != nil {
		return 0, err
	}
	if !ok || key != want {
		return 0, missing
	}
	vd, err := m.NextValue()
	if err != nil {
		return 0, err
	}
	var off uint64
	if err := DecodeInto(vd, &off); err != nil {
		return 0, err
	}
	return off, nil
}
