// Package de defines the format-agnostic decode protocol: a Deserializer
// drives a Visitor with typed values without either side knowing the
// underlying wire format. Format token sources plug in underneath (see the
// source subpackages); value types plug in on top by implementing
// Deserializable.
package de

// Reserved key names used to encode a spanned value as a three-entry map.
// They are an internal protocol detail: deserializers that can report byte
// offsets recognize SpannedName in DeserializeStruct and answer with a
// synthesized map shaped [start, end, value]. The names are namespaced so
// they are unlikely to collide with real keys in user data, and they are
// stripped on output (serializing a spanned value emits only the inner
// value).
const (
	SpannedName     = "$__spanned"
	SpannedStartKey = "$__spanned_start"
	SpannedEndKey   = "$__spanned_end"
	SpannedValueKey = "$__spanned_value"
)

// SpannedFields returns the reserved field names of the spanned map shape,
// in the order they must appear.
func SpannedFields() []string {
	return []string{SpannedStartKey, SpannedEndKey, SpannedValueKey}
}

// Visitor receives decoded values from a Deserializer. A visitor typically
// implements the one or two methods it expects and embeds
// UnimplementedVisitor to reject everything else.
type Visitor interface {
	VisitNil() error
	VisitBool(b bool) error
	VisitInt(i int64) error
	VisitUint(u uint64) error
	VisitFloat(f float64) error
	VisitString(s string) error
	VisitBytes(b []byte) error
	VisitSeq(a SeqAccess) error
	VisitMap(a MapAccess) error
}

// MapAccess iterates the entries of a map-like value during a VisitMap call.
// Keys and values must be consumed strictly alternating, in input order.
type MapAccess interface {
	// NextKey returns the next key, or ok=false when the map is exhausted.
	NextKey() (key string, ok bool, err error)
	// NextValue returns a Deserializer positioned at the value of the key
	// most recently returned by NextKey.
	NextValue() (Deserializer, error)
}

// SeqAccess iterates the elements of a sequence during a VisitSeq call.
type SeqAccess interface {
	// NextElement returns a Deserializer positioned at the next element, or
	// ok=false when the sequence is exhausted.
	NextElement() (d Deserializer, ok bool, err error)
}

// Deserializer is the decode protocol. Every operation hands a Visitor the
// requested value, or returns an error. Operations taking a name or field
// list carry schema hints; a format deserializer is free to ignore them,
// except that DeserializeStruct must recognize SpannedName (see the package
// comment).
type Deserializer interface {
	DeserializeAny(v Visitor) error
	DeserializeBool(v Visitor) error
	DeserializeInt8(v Visitor) error
	DeserializeInt16(v Visitor) error
	DeserializeInt32(v Visitor) error
	DeserializeInt64(v Visitor) error
	DeserializeUint8(v Visitor) error
	DeserializeUint16(v Visitor) error
	DeserializeUint32(v Visitor) error
	DeserializeUint64(v Visitor) error
	DeserializeFloat32(v Visitor) error
	DeserializeFloat64(v Visitor) error
	DeserializeRune(v Visitor) error
	DeserializeString(v Visitor) error
	// DeserializeBytes may hand the visitor a view aliasing internal
	// buffers; DeserializeByteBuf always hands it a private copy.
	DeserializeBytes(v Visitor) error
	DeserializeByteBuf(v Visitor) error
	// DeserializeOptional visits nil for an absent/null value and otherwise
	// decodes the present value as DeserializeAny would.
	DeserializeOptional(v Visitor) error
	DeserializeNil(v Visitor) error
	DeserializeNamedNil(name string, v Visitor) error
	// DeserializeNamedValue decodes a named single-value wrapper
	// transparently as its payload.
	DeserializeNamedValue(name string, v Visitor) error
	DeserializeSeq(v Visitor) error
	DeserializeFixedSeq(n int, v Visitor) error
	DeserializeNamedFixedSeq(name string, n int, v Visitor) error
	DeserializeMap(v Visitor) error
	DeserializeStruct(name string, fields []string, v Visitor) error
	DeserializeEnum(name string, variants []string, v Visitor) error
	DeserializeIdentifier(v Visitor) error
	// DeserializeIgnoredAny consumes and discards one value of any shape.
	DeserializeIgnoredAny(v Visitor) error
}

// Offset is the capability of reporting the current byte offset into the
// input stream. It is deliberately separate from Deserializer: format
// deserializers that cannot report offsets remain usable for everything
// except span decoding.
type Offset interface {
	// Offset reports the current byte offset into the input stream, or -1
	// if unknown.
	Offset() int64
}

// SpanDeserializer is a Deserializer that can report its input offset, which
// is what decoding a spanned value requires.
type SpanDeserializer interface {
	Deserializer
	Offset
}

// Deserializable is implemented by types that decode themselves from the
// protocol.
type Deserializable interface {
	DeserializeFrom(d Deserializer) error
}
