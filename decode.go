package spanned

import (
	"fmt"
	"math"

	"github.com/go-spanned/spanned/de"
)

// Decode decodes one value of type T from d. Types implementing
// de.Deserializable decode themselves; builtin scalars, []byte, any,
// map[string]any and []any are handled directly.
func Decode[T any](d de.Deserializer) (T, error) {
	var out T
	err := DecodeInto(d, &out)
	return out, err
}

// DecodeInto decodes one value from d into out, which must be a pointer.
func DecodeInto(d de.Deserializer, out any) error {
	switch t := out.(type) {
	case de.Deserializable:
		return t.DeserializeFrom(d)
	case *bool:
		return d.DeserializeBool(&boolVisitor{out: t})
	case *int:
		var i int64
		if err := d.DeserializeInt64(&intVisitor{out: &i}); err != nil {
			return err
		}
		*t = int(i)
		return nil
	case *int8:
		var i int64
		if err := d.DeserializeInt8(&intVisitor{out: &i}); err != nil {
			return err
		}
		*t = int8(i)
		return nil
	case *int16:
		var i int64
		if err := d.DeserializeInt16(&intVisitor{out: &i}); err != nil {
			return err
		}
		*t = int16(i)
		return nil
	case *int32:
		var i int64
		if err := d.DeserializeInt32(&intVisitor{out: &i}); err != nil {
			return err
		}
		*t = int32(i)
		return nil
	case *int64:
		return d.DeserializeInt64(&intVisitor{out: t})
	case *uint:
		var u uint64
		if err := d.DeserializeUint64(&uintVisitor{out: &u}); err != nil {
			return err
		}
		*t = uint(u)
		return nil
	case *uint8:
		var u uint64
		if err := d.DeserializeUint8(&uintVisitor{out: &u}); err != nil {
			return err
		}
		*t = uint8(u)
		return nil
	case *uint16:
		var u uint64
		if err := d.DeserializeUint16(&uintVisitor{out: &u}); err != nil {
			return err
		}
		*t = uint16(u)
		return nil
	case *uint32:
		var u uint64
		if err := d.DeserializeUint32(&uintVisitor{out: &u}); err != nil {
			return err
		}
		*t = uint32(u)
		return nil
	case *uint64:
		return d.DeserializeUint64(&uintVisitor{out: t})
	case *float32:
		var f float64
		if err := d.DeserializeFloat32(&floatVisitor{out: &f}); err != nil {
			return err
		}
		*t = float32(f)
		return nil
	case *float64:
		return d.DeserializeFloat64(&floatVisitor{out: t})
	case *string:
		return d.DeserializeString(&stringVisitor{out: t})
	case *[]byte:
		return d.DeserializeByteBuf(&bytesVisitor{out: t})
	case *any:
		return d.DeserializeAny(&anyVisitor{out: t})
	case *map[string]any:
		var v any
		if err := d.DeserializeMap(&anyVisitor{out: &v}); err != nil {
			return err
		}
		m, _ := v.(map[string]any)
		*t = m
		return nil
	case *[]any:
		var v any
		if err := d.DeserializeSeq(&anyVisitor{out: &v}); err != nil {
			return err
		}
		s, _ := v.([]any)
		*t = s
		return nil
	}
	return &de.Error{
		Code:    de.CodeInvalidType,
		Offset:  -1,
		Message: fmt.Sprintf("unsupported decode target %T; implement de.Deserializable", out),
	}
}

// ---- builtin visitors ----

type boolVisitor struct {
	de.UnimplementedVisitor
	out *bool
}

func (v *boolVisitor) VisitBool(b bool) error {
	*v.out = b
	return nil
}

type intVisitor struct {
	de.UnimplementedVisitor
	out *int64
}

func (v *intVisitor) VisitInt(i int64) error {
	*v.out = i
	return nil
}

func (v *intVisitor) VisitUint(u uint64) error {
	if u > math.MaxInt64 {
		return &de.Error{Code: de.CodeParseError, Offset: -1, Message: fmt.Sprintf("integer %d overflows int64", u)}
	}
	*v.out = int64(u)
	return nil
}

type uintVisitor struct {
	de.UnimplementedVisitor
	out *uint64
}

func (v *uintVisitor) VisitUint(u uint64) error {
	*v.out = u
	return nil
}

func (v *uintVisitor) VisitInt(i int64) error {
	if i < 0 {
		return &de.Error{Code: de.CodeParseError, Offset: -1, Message: fmt.Sprintf("integer %d is negative", i)}
	}
	*v.out = uint64(i)
	return nil
}

type floatVisitor struct {
	de.UnimplementedVisitor
	out *float64
}

func (v *floatVisitor) VisitFloat(f float64) error {
	*v.out = f
	return nil
}

func (v *floatVisitor) VisitInt(i int64) error {
	*v.out = float64(i)
	return nil
}

func (v *floatVisitor) VisitUint(u uint64) error {
	*v.out = float64(u)
	return nil
}

type stringVisitor struct {
	de.UnimplementedVisitor
	out *string
}

func (v *stringVisitor) VisitString(s string) error {
	*v.out = s
	return nil
}

type bytesVisitor struct {
	de.UnimplementedVisitor
	out *[]byte
}

func (v *bytesVisitor) VisitBytes(b []byte) error {
	*v.out = append([]byte(nil), b...)
	return nil
}

func (v *bytesVisitor) VisitString(s string) error {
	*v.out = []byte(s)
	return nil
}

// anyVisitor builds a generic value tree: map[string]any for maps, []any for
// sequences, int64/uint64/float64 for numbers.
type anyVisitor struct {
	de.UnimplementedVisitor
	out *any
}

func (v *anyVisitor) VisitNil() error {
	*v.out = nil
	return nil
}

func (v *anyVisitor) VisitBool(b bool) error {
	*v.out = b
	return nil
}

func (v *anyVisitor) VisitInt(i int64) error {
	*v.out = i
	return nil
}

func (v *anyVisitor) VisitUint(u uint64) error {
	*v.out = u
	return nil
}

func (v *anyVisitor) VisitFloat(f float64) error {
	*v.out = f
	return nil
}

func (v *anyVisitor) VisitString(s string) error {
	*v.out = s
	return nil
}

func (v *anyVisitor) VisitBytes(b []byte) error {
	*v.out = append([]byte(nil), b...)
	return nil
}

func (v *anyVisitor) VisitSeq(a de.SeqAccess) error {
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
		if err := DecodeInto(ed, &elem); err != nil {
			return err
		}
		out = append(out, elem)
	}
	*v.out = out
	return nil
}

func (v *anyVisitor) VisitMap(a de.MapAccess) error {
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
		if err := DecodeInto(vd, &val); err != nil {
			return err
		}
		out[key] = val
	}
	*v.out = out
	return nil
}
