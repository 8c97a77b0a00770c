package spanned

import "github.com/go-spanned/spanned/de"

// Deserializer is a transparent wrapper around another deserializer. Every
// decode operation forwards to the inner deserializer with its arguments and
// result unchanged; the wrapper never originates, transforms, or recovers an
// error. Its one addition is carrying the offset-reporting capability
// through, so span decoding keeps working under an arbitrary stack of
// wrapper layers. Stacked wrappers are behavior-neutral in any order; Offset
// always reflects the innermost concrete deserializer's cursor.
type Deserializer[D de.SpanDeserializer] struct {
	inner D
}

// NewDeserializer wraps inner.
func NewDeserializer[D de.SpanDeserializer](inner D) *Deserializer[D] {
	return &Deserializer[D]{inner: inner}
}

// Inner returns the wrapped deserializer.
func (d *Deserializer[D]) Inner() D { return d.inner }

// Offset reports the inner deserializer's current byte offset.
func (d *Deserializer[D]) Offset() int64 { return d.inner.Offset() }

func (d *Deserializer[D]) DeserializeAny(v de.Visitor) error  { return d.inner.DeserializeAny(v) }
func (d *Deserializer[D]) DeserializeBool(v de.Visitor) error { return d.inner.DeserializeBool(v) }

func (d *Deserializer[D]) DeserializeInt8(v de.Visitor) error  { return d.inner.DeserializeInt8(v) }
func (d *Deserializer[D]) DeserializeInt16(v de.Visitor) error { return d.inner.DeserializeInt16(v) }
func (d *Deserializer[D]) DeserializeInt32(v de.Visitor) error { return d.inner.DeserializeInt32(v) }
func (d *Deserializer[D]) DeserializeInt64(v de.Visitor) error { return d.inner.DeserializeInt64(v) }

func (d *Deserializer[D]) DeserializeUint8(v de.Visitor) error  { return d.inner.DeserializeUint8(v) }
func (d *Deserializer[D]) DeserializeUint16(v de.Visitor) error { return d.inner.DeserializeUint16(v) }
func (d *Deserializer[D]) DeserializeUint32(v de.Visitor) error { return d.inner.DeserializeUint32(v) }
func (d *Deserializer[D]) DeserializeUint64(v de.Visitor) error { return d.inner.DeserializeUint64(v) }

func (d *Deserializer[D]) DeserializeFloat32(v de.Visitor) error {
	return d.inner.DeserializeFloat32(v)
}

func (d *Deserializer[D]) DeserializeFloat64(v de.Visitor) error {
	return d.inner.DeserializeFloat64(v)
}

func (d *Deserializer[D]) DeserializeRune(v de.Visitor) error { return d.inner.DeserializeRune(v) }

func (d *Deserializer[D]) DeserializeString(v de.Visitor) error {
	return d.inner.DeserializeString(v)
}

func (d *Deserializer[D]) DeserializeBytes(v de.Visitor) error { return d.inner.DeserializeBytes(v) }

func (d *Deserializer[D]) DeserializeByteBuf(v de.Visitor) error {
	return d.inner.DeserializeByteBuf(v)
}

func (d *Deserializer[D]) DeserializeOptional(v de.Visitor) error {
	return d.inner.DeserializeOptional(v)
}

func (d *Deserializer[D]) DeserializeNil(v de.Visitor) error { return d.inner.DeserializeNil(v) }

func (d *Deserializer[D]) DeserializeNamedNil(name string, v de.Visitor) error {
	return d.inner.DeserializeNamedNil(name, v)
}

func (d *Deserializer[D]) DeserializeNamedValue(name string, v de.Visitor) error {
	return d.inner.DeserializeNamedValue(name, v)
}

func (d *Deserializer[D]) DeserializeSeq(v de.Visitor) error { return d.inner.DeserializeSeq(v) }

func (d *Deserializer[D]) DeserializeFixedSeq(n int, v de.Visitor) error {
	return d.inner.DeserializeFixedSeq(n, v)
}

func (d *Deserializer[D]) DeserializeNamedFixedSeq(name string, n int, v de.Visitor) error {
	return d.inner.DeserializeNamedFixedSeq(name, n, v)
}

func (d *Deserializer[D]) DeserializeMap(v de.Visitor) error { return d.inner.DeserializeMap(v) }

func (d *Deserializer[D]) DeserializeStruct(name string, fields []string, v de.Visitor) error {
	return d.inner.DeserializeStruct(name, fields, v)
}

func (d *Deserializer[D]) DeserializeEnum(name string, variants []string, v de.Visitor) error {
	return d.inner.DeserializeEnum(name, variants, v)
}

func (d *Deserializer[D]) DeserializeIdentifier(v de.Visitor) error {
	return d.inner.DeserializeIdentifier(v)
}

func (d *Deserializer[D]) DeserializeIgnoredAny(v de.Visitor) error {
	return d.inner.DeserializeIgnoredAny(v)
}

var _ de.SpanDeserializer = (*Deserializer[de.SpanDeserializer])(nil)
