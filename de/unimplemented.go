package de

// UnimplementedVisitor rejects every value with an invalid-type error. Embed
// it in a Visitor implementation so only the expected Visit methods need to
// be written.
type UnimplementedVisitor struct{}

func (UnimplementedVisitor) VisitNil() error          { return unexpected("null") }
func (UnimplementedVisitor) VisitBool(bool) error     { return unexpected("bool") }
func (UnimplementedVisitor) VisitInt(int64) error     { return unexpected("integer") }
func (UnimplementedVisitor) VisitUint(uint64) error   { return unexpected("unsigned integer") }
func (UnimplementedVisitor) VisitFloat(float64) error { return unexpected("float") }
func (UnimplementedVisitor) VisitString(string) error { return unexpected("string") }
func (UnimplementedVisitor) VisitBytes([]byte) error  { return unexpected("bytes") }
func (UnimplementedVisitor) VisitSeq(SeqAccess) error { return unexpected("sequence") }
func (UnimplementedVisitor) VisitMap(MapAccess) error { return unexpected("map") }

func unexpected(what string) error {
	return &Error{Code: CodeInvalidType, Offset: -1, Message: "unexpected " + what}
}

// UnimplementedDeserializer fails every operation with a parse error. Embed
// it in narrow Deserializer implementations (for example literal-value
// deserializers) so only the supported operations need to be written.
type UnimplementedDeserializer struct{}

func (UnimplementedDeserializer) DeserializeAny(Visitor) error      { return unsupported("any") }
func (UnimplementedDeserializer) DeserializeBool(Visitor) error     { return unsupported("bool") }
func (UnimplementedDeserializer) DeserializeInt8(Visitor) error     { return unsupported("int8") }
func (UnimplementedDeserializer) DeserializeInt16(Visitor) error    { return unsupported("int16") }
func (UnimplementedDeserializer) DeserializeInt32(Visitor) error    { return unsupported("int32") }
func (UnimplementedDeserializer) DeserializeInt64(Visitor) error    { return unsupported("int64") }
func (UnimplementedDeserializer) DeserializeUint8(Visitor) error    { return unsupported("uint8") }
func (UnimplementedDeserializer) DeserializeUint16(Visitor) error   { return unsupported("uint16") }
func (UnimplementedDeserializer) DeserializeUint32(Visitor) error   { return unsupported("uint32") }
func (UnimplementedDeserializer) DeserializeUint64(Visitor) error   { return unsupported("uint64") }
func (UnimplementedDeserializer) DeserializeFloat32(Visitor) error  { return unsupported("float32") }
func (UnimplementedDeserializer) DeserializeFloat64(Visitor) error  { return unsupported("float64") }
func (UnimplementedDeserializer) DeserializeRune(Visitor) error     { return unsupported("rune") }
func (UnimplementedDeserializer) DeserializeString(Visitor) error   { return unsupported("string") }
func (UnimplementedDeserializer) DeserializeBytes(Visitor) error    { return unsupported("bytes") }
func (UnimplementedDeserializer) DeserializeByteBuf(Visitor) error  { return unsupported("bytes") }
func (UnimplementedDeserializer) DeserializeOptional(Visitor) error { return unsupported("optional") }
func (UnimplementedDeserializer) DeserializeNil(Visitor) error      { return unsupported("nil") }
func (UnimplementedDeserializer) DeserializeNamedNil(string, Visitor) error {
	return unsupported("named nil")
}
func (UnimplementedDeserializer) DeserializeNamedValue(string, Visitor) error {
	return unsupported("named value")
}
func (UnimplementedDeserializer) DeserializeSeq(Visitor) error { return unsupported("sequence") }
func (UnimplementedDeserializer) DeserializeFixedSeq(int, Visitor) error {
	return unsupported("fixed sequence")
}
func (UnimplementedDeserializer) DeserializeNamedFixedSeq(string, int, Visitor) error {
	return unsupported("fixed sequence")
}
func (UnimplementedDeserializer) DeserializeMap(Visitor) error { return unsupported("map") }
func (UnimplementedDeserializer) DeserializeStruct(string, []string, Visitor) error {
	return unsupported("struct")
}
func (UnimplementedDeserializer) DeserializeEnum(string, []string, Visitor) error {
	return unsupported("enum")
}
func (UnimplementedDeserializer) DeserializeIdentifier(Visitor) error {
	return unsupported("identifier")
}
func (UnimplementedDeserializer) DeserializeIgnoredAny(Visitor) error {
	return unsupported("ignored any")
}

func unsupported(op string) error {
	return &Error{Code: CodeParseError, Offset: -1, Message: "operation not supported here: deserialize " + op}
}
