package engine

import (
	"errors"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/go-spanned/spanned/de"
)

// Deserializer implements de.SpanDeserializer over any TokenSource. It keeps
// at most one token of lookahead; offsets reported through Offset always
// reflect the cursor as the caller observes it, with the lookahead hidden.
type Deserializer struct {
	src       TokenSource
	peeked    *Token
	locBefore int64
}

// New returns a Deserializer reading from src.
func New(src TokenSource) *Deserializer { return &Deserializer{src: src} }

var _ de.SpanDeserializer = (*Deserializer)(nil)

// Offset reports the current byte offset of the underlying source.
func (d *Deserializer) Offset() int64 { return d.location() }

func (d *Deserializer) next() (Token, error) {
	if d.peeked != nil {
		t := *d.peeked
		d.peeked = nil
		return t, nil
	}
	return d.src.NextToken()
}

func (d *Deserializer) peek() (Token, error) {
	if d.peeked == nil {
		d.locBefore = d.src.Location()
		t, err := d.src.NextToken()
		if err != nil {
			return Token{}, err
		}
		d.peeked = &t
	}
	return *d.peeked, nil
}

// location is the source cursor with any lookahead rolled back.
func (d *Deserializer) location() int64 {
	if d.peeked != nil {
		return d.locBefore
	}
	return d.src.Location()
}

func coerceEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return &de.Error{Code: de.CodeUnexpectedEOF, Offset: -1, Message: "unexpected end of input", Cause: err}
	}
	return err
}

func typeErr(want string, tok Token) error {
	return &de.Error{
		Code:    de.CodeInvalidType,
		Offset:  tok.Offset,
		Message: "expected " + want + ", got " + kindName(tok.Kind),
	}
}

func (d *Deserializer) scalar(kind Kind, want string) (Token, error) {
	tok, err := d.next()
	if err != nil {
		return Token{}, coerceEOF(err)
	}
	if tok.Kind != kind {
		return Token{}, typeErr(want, tok)
	}
	return tok, nil
}

// ---- protocol operations ----

func (d *Deserializer) DeserializeAny(v de.Visitor) error {
	tok, err := d.next()
	if err != nil {
		return coerceEOF(err)
	}
	switch tok.Kind {
	case KindNull:
		return v.VisitNil()
	case KindBool:
		return v.VisitBool(tok.Bool)
	case KindString:
		return v.VisitString(tok.String)
	case KindNumber:
		return visitNumber(tok, v)
	case KindBeginObject:
		return d.visitObject(v)
	case KindBeginArray:
		return d.visitArray(v)
	}
	return typeErr("value", tok)
}

func visitNumber(tok Token, v de.Visitor) error {
	if i, err := strconv.ParseInt(tok.Number, 10, 64); err == nil {
		return v.VisitInt(i)
	}
	if u, err := strconv.ParseUint(tok.Number, 10, 64); err == nil {
		return v.VisitUint(u)
	}
	f, err := strconv.ParseFloat(tok.Number, 64)
	if err != nil {
		return numberErr(tok, err)
	}
	return v.VisitFloat(f)
}

func numberErr(tok Token, cause error) error {
	return &de.Error{
		Code:    de.CodeParseError,
		Offset:  tok.Offset,
		Message: "invalid number " + strconv.Quote(tok.Number),
		Cause:   cause,
	}
}

func (d *Deserializer) DeserializeBool(v de.Visitor) error {
	tok, err := d.scalar(KindBool, "bool")
	if err != nil {
		return err
	}
	return v.VisitBool(tok.Bool)
}

func (d *Deserializer) DeserializeInt8(v de.Visitor) error  { return d.signed(v, 8) }
func (d *Deserializer) DeserializeInt16(v de.Visitor) error { return d.signed(v, 16) }
func (d *Deserializer) DeserializeInt32(v de.Visitor) error { return d.signed(v, 32) }
func (d *Deserializer) DeserializeInt64(v de.Visitor) error { return d.signed(v, 64) }

func (d *Deserializer) signed(v de.Visitor, bits int) error {
	tok, err := d.scalar(KindNumber, "number")
	if err != nil {
		return err
	}
	i, err := strconv.ParseInt(tok.Number, 10, bits)
	if err != nil {
		return numberErr(tok, err)
	}
	return v.VisitInt(i)
}

func (d *Deserializer) DeserializeUint8(v de.Visitor) error  { return d.unsigned(v, 8) }
func (d *Deserializer) DeserializeUint16(v de.Visitor) error { return d.unsigned(v, 16) }
func (d *Deserializer) DeserializeUint32(v de.Visitor) error { return d.unsigned(v, 32) }
func (d *Deserializer) DeserializeUint64(v de.Visitor) error { return d.unsigned(v, 64) }

func (d *Deserializer) unsigned(v de.Visitor, bits int) error {
	tok, err := d.scalar(KindNumber, "number")
	if err != nil {
		return err
	}
	u, err := strconv.ParseUint(tok.Number, 10, bits)
	if err != nil {
		return numberErr(tok, err)
	}
	return v.VisitUint(u)
}

func (d *Deserializer) DeserializeFloat32(v de.Visitor) error { return d.float(v, 32) }
func (d *Deserializer) DeserializeFloat64(v de.Visitor) error { return d.float(v, 64) }

func (d *Deserializer) float(v de.Visitor, bits int) error {
	tok, err := d.scalar(KindNumber, "number")
	if err != nil {
		return err
	}
	f, err := strconv.ParseFloat(tok.Number, bits)
	if err != nil {
		return numberErr(tok, err)
	}
	return v.VisitFloat(f)
}

func (d *Deserializer) DeserializeRune(v de.Visitor) error {
	tok, err := d.scalar(KindString, "single-character string")
	if err != nil {
		return err
	}
	if utf8.RuneCountInString(tok.String) != 1 {
		return &de.Error{
			Code:    de.CodeInvalidType,
			Offset:  tok.Offset,
			Message: "expected single-character string, got " + strconv.Quote(tok.String),
		}
	}
	return v.VisitString(tok.String)
}

func (d *Deserializer) DeserializeString(v de.Visitor) error {
	tok, err := d.scalar(KindString, "string")
	if err != nil {
		return err
	}
	return v.VisitString(tok.String)
}

func (d *Deserializer) DeserializeBytes(v de.Visitor) error {
	tok, err := d.scalar(KindString, "string")
	if err != nil {
		return err
	}
	return v.VisitBytes([]byte(tok.String))
}

func (d *Deserializer) DeserializeByteBuf(v de.Visitor) error { return d.DeserializeBytes(v) }

func (d *Deserializer) DeserializeOptional(v de.Visitor) error {
	tok, err := d.peek()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return v.VisitNil()
		}
		return err
	}
	if tok.Kind == KindNull {
		d.peeked = nil
		return v.VisitNil()
	}
	return d.DeserializeAny(v)
}

func (d *Deserializer) DeserializeNil(v de.Visitor) error {
	if _, err := d.scalar(KindNull, "null"); err != nil {
		return err
	}
	return v.VisitNil()
}

func (d *Deserializer) DeserializeNamedNil(name string, v de.Visitor) error {
	return d.DeserializeNil(v)
}

func (d *Deserializer) DeserializeNamedValue(name string, v de.Visitor) error {
	return d.DeserializeAny(v)
}

func (d *Deserializer) DeserializeSeq(v de.Visitor) error {
	tok, err := d.next()
	if err != nil {
		return coerceEOF(err)
	}
	if tok.Kind != KindBeginArray {
		return typeErr("array", tok)
	}
	return d.visitArray(v)
}

// DeserializeFixedSeq decodes a sequence; n is a schema hint and is not
// enforced against the input length.
func (d *Deserializer) DeserializeFixedSeq(n int, v de.Visitor) error { return d.DeserializeSeq(v) }

func (d *Deserializer) DeserializeNamedFixedSeq(name string, n int, v de.Visitor) error {
	return d.DeserializeSeq(v)
}

func (d *Deserializer) DeserializeMap(v de.Visitor) error {
	tok, err := d.next()
	if err != nil {
		return coerceEOF(err)
	}
	if tok.Kind != KindBeginObject {
		return typeErr("object", tok)
	}
	return d.visitObject(v)
}

// DeserializeStruct decodes a map-like value. The reserved name
// de.SpannedName switches to span synthesis: the payload's byte range is
// measured around its tokens and handed to the visitor as the fixed
// [start, end, value] map shape. Inputs that spell the marker keys out
// explicitly take the plain map path, so both wire shapes decode alike.
func (d *Deserializer) DeserializeStruct(name string, fields []string, v de.Visitor) error {
	if name == de.SpannedName {
		return d.deserializeSpanned(v)
	}
	return d.DeserializeMap(v)
}

func (d *Deserializer) deserializeSpanned(v de.Visitor) error {
	start := d.location()
	toks, err := d.recordValue()
	if err != nil {
		return err
	}
	end := d.location()
	if isSpannedMarkerObject(toks) {
		rd := New(newReplaySource(toks, start))
		return rd.DeserializeMap(v)
	}
	return v.VisitMap(&spanAccess{start: start, end: end, toks: toks})
}

// isSpannedMarkerObject reports whether the recorded value is an object that
// spells the reserved marker keys out explicitly. Any reserved key in first
// position takes the plain map path, so shape mistakes (keys out of order,
// keys missing) surface as the fixed shape errors instead of being decoded
// as a payload.
func isSpannedMarkerObject(toks []Token) bool {
	if len(toks) < 2 || toks[0].Kind != KindBeginObject || toks[1].Kind != KindKey {
		return false
	}
	switch toks[1].String {
	case de.SpannedStartKey, de.SpannedEndKey, de.SpannedValueKey:
		return true
	}
	return false
}

func (d *Deserializer) DeserializeEnum(name string, variants []string, v de.Visitor) error {
	tok, err := d.next()
	if err != nil {
		return coerceEOF(err)
	}
	switch tok.Kind {
	case KindString:
		return v.VisitString(tok.String)
	case KindBeginObject:
		return d.visitObject(v)
	}
	return typeErr("enum variant", tok)
}

func (d *Deserializer) DeserializeIdentifier(v de.Visitor) error {
	tok, err := d.next()
	if err != nil {
		return coerceEOF(err)
	}
	if tok.Kind != KindKey && tok.Kind != KindString {
		return typeErr("identifier", tok)
	}
	return v.VisitString(tok.String)
}

func (d *Deserializer) DeserializeIgnoredAny(v de.Visitor) error {
	if err := d.skipValue(); err != nil {
		return err
	}
	return v.VisitNil()
}

// ---- container plumbing ----

func (d *Deserializer) visitObject(v de.Visitor) error {
	ma := &mapAccess{d: d}
	if err := v.VisitMap(ma); err != nil {
		return err
	}
	return d.endObject(ma)
}

func (d *Deserializer) visitArray(v de.Visitor) error {
	sa := &seqAccess{d: d}
	if err := v.VisitSeq(sa); err != nil {
		return err
	}
	return d.endArray(sa)
}

// endObject requires the closing token once the visitor returns. Entries the
// visitor left unread are a decode error, not silently skipped.
func (d *Deserializer) endObject(ma *mapAccess) error {
	if ma.done {
		return nil
	}
	tok, err := d.next()
	if err != nil {
		return coerceEOF(err)
	}
	if tok.Kind != KindEndObject {
		return typeErr("end of object", tok)
	}
	return nil
}

func (d *Deserializer) endArray(sa *seqAccess) error {
	if sa.done {
		return nil
	}
	tok, err := d.next()
	if err != nil {
		return coerceEOF(err)
	}
	if tok.Kind != KindEndArray {
		return typeErr("end of array", tok)
	}
	return nil
}

type mapAccess struct {
	d    *Deserializer
	done bool
}

func (m *mapAccess) NextKey() (string, bool, error) {
	if m.done {
		return "", false, nil
	}
	tok, err := m.d.next()
	if err != nil {
		return "", false, coerceEOF(err)
	}
	if tok.Kind == KindEndObject {
		m.done = true
		return "", false, nil
	}
	if tok.Kind != KindKey {
		return "", false, typeErr("object key", tok)
	}
	return tok.String, true, nil
}

func (m *mapAccess) NextValue() (de.Deserializer, error) { return m.d, nil }

type seqAccess struct {
	d    *Deserializer
	done bool
}

func (s *seqAccess) NextElement() (de.Deserializer, bool, error) {
	if s.done {
		return nil, false, nil
	}
	tok, err := s.d.peek()
	if err != nil {
		return nil, false, coerceEOF(err)
	}
	if tok.Kind == KindEndArray {
		s.d.peeked = nil
		s.done = true
		return nil, false, nil
	}
	return s.d, true, nil
}

// skipValue consumes one balanced value of any shape.
func (d *Deserializer) skipValue() error {
	depth := 0
	for {
		tok, err := d.next()
		if err != nil {
			return coerceEOF(err)
		}
		switch tok.Kind {
		case KindBeginObject, KindBeginArray:
			depth++
		case KindEndObject, KindEndArray:
			depth--
			if depth < 0 {
				return typeErr("value", tok)
			}
		}
		if depth == 0 {
			return nil
		}
	}
}

// recordValue consumes one balanced value and returns its tokens for replay.
func (d *Deserializer) recordValue() ([]Token, error) {
	var toks []Token
	depth := 0
	for {
		tok, err := d.next()
		if err != nil {
			return nil, coerceEOF(err)
		}
		switch tok.Kind {
		case KindBeginObject, KindBeginArray:
			depth++
		case KindEndObject, KindEndArray:
			depth--
			if depth < 0 {
				return nil, typeErr("value", tok)
			}
		}
		toks = append(toks, tok)
		if depth == 0 {
			return toks, nil
		}
	}
}

// ---- span synthesis ----

// spanAccess serves the reserved three-entry map shape for a spanned value:
// the recorded start and end offsets as unsigned integers, then the buffered
// payload tokens replayed as the value.
type spanAccess struct {
	start, end int64
	toks       []Token
	state      int
}

func (a *spanAccess) NextKey() (string, bool, error) {
	switch a.state {
	case 0:
		a.state = 1
		return de.SpannedStartKey, true, nil
	case 2:
		a.state = 3
		return de.SpannedEndKey, true, nil
	case 4:
		a.state = 5
		return de.SpannedValueKey, true, nil
	}
	return "", false, nil
}

func (a *spanAccess) NextValue() (de.Deserializer, error) {
	switch a.state {
	case 1:
		a.state = 2
		return offsetDeserializer{off: a.start}, nil
	case 3:
		a.state = 4
		return offsetDeserializer{off: a.end}, nil
	case 5:
		a.state = 6
		return New(newReplaySource(a.toks, a.start)), nil
	}
	return nil, &de.Error{Code: de.CodeParseError, Offset: -1, Message: "no map value pending"}
}

// offsetDeserializer serves a single recorded offset as an unsigned integer.
type offsetDeserializer struct {
	de.UnimplementedDeserializer
	off int64
}

func (d offsetDeserializer) DeserializeUint64(v de.Visitor) error {
	if d.off < 0 {
		return &de.Error{Code: de.CodeParseError, Offset: -1, Message: "input source does not report byte offsets"}
	}
	return v.VisitUint(uint64(d.off))
}

func (d offsetDeserializer) DeserializeAny(v de.Visitor) error { return d.DeserializeUint64(v) }

// replaySource feeds previously recorded tokens back through the engine; the
// recorded per-token offsets keep nested span decoding meaningful.
type replaySource struct {
	toks []Token
	idx  int
	loc  int64
}

func newReplaySource(toks []Token, start int64) *replaySource {
	return &replaySource{toks: toks, loc: start}
}

func (r *replaySource) NextToken() (Token, error) {
	if r.idx >= len(r.toks) {
		return Token{}, io.EOF
	}
	t := r.toks[r.idx]
	r.idx++
	r.loc = t.Offset
	return t, nil
}

func (r *replaySource) Location() int64 { return r.loc }
