package spanned

import (
	"io"
	"sync"

	"github.com/go-spanned/spanned/de"
	"github.com/go-spanned/spanned/internal/engine"
	jsonsrc "github.com/go-spanned/spanned/source/json"
	tomlsrc "github.com/go-spanned/spanned/source/toml"
	yamlsrc "github.com/go-spanned/spanned/source/yaml"
)

// tokenKind enumerates token kinds.
type tokenKind int

const (
	_tokenBeginObject tokenKind = iota
	_tokenEndObject
	_tokenBeginArray
	_tokenEndArray
	_tokenKey
	_tokenString
	_tokenNumber
	_tokenBool
	_tokenNull
)

// TokenKind aliases the internal kind so external token sources can branch
// on values such as spanned.TokenBeginObject without relying on unstable
// APIs.
type TokenKind = tokenKind

const (
	TokenBeginObject TokenKind = _tokenBeginObject
	TokenEndObject   TokenKind = _tokenEndObject
	TokenBeginArray  TokenKind = _tokenBeginArray
	TokenEndArray    TokenKind = _tokenEndArray
	TokenKey         TokenKind = _tokenKey
	TokenString      TokenKind = _tokenString
	TokenNumber      TokenKind = _tokenNumber
	TokenBool        TokenKind = _tokenBool
	TokenNull        TokenKind = _tokenNull
)

// Token describes a token in the input stream. Offset records the byte
// position just past the token when known (-1 otherwise).
type Token struct {
	Kind   tokenKind
	String string // Stored for key/string tokens.
	Number string // Stored as text; width is decided at decode time.
	Bool   bool
	Offset int64
}

// Source abstracts over polymorphic input sources.
type Source interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
}

// JSONDriver converts JSON input into a Source via a pluggable SPI. The
// default implementation is based on encoding/json and may be swapped with
// SetJSONDriver (see source/gojson for a goccy/go-json driver).
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = defaultJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the default encoding/json-backed driver.
func UseDefaultJSONDriver() {
	jsonDriverMu.Lock()
	currentJSONDriver = defaultJSONDriver{}
	jsonDriverMu.Unlock()
}

func getJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

// defaultJSONDriver wraps the encoding/json implementation.
type defaultJSONDriver struct{}

func (defaultJSONDriver) NewReader(r io.Reader) Source {
	return &engineSourceAdapter{inner: jsonsrc.NewReader(r)}
}
func (defaultJSONDriver) NewBytes(b []byte) Source {
	return &engineSourceAdapter{inner: jsonsrc.NewBytes(b)}
}
func (defaultJSONDriver) Name() string { return "encoding/json" }

// JSONReader wraps an io.Reader as a JSON Source.
func JSONReader(r io.Reader) Source { return getJSONDriver().NewReader(r) }

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return getJSONDriver().NewBytes(b) }

// YAMLBytes wraps a byte slice as a YAML Source.
func YAMLBytes(b []byte) Source {
	return &engineSourceAdapter{inner: yamlsrc.NewBytes(b)}
}

// YAMLReader wraps an io.Reader as a YAML Source. The input is read in full
// before tokenization so byte offsets can be computed.
func YAMLReader(r io.Reader) Source {
	b, err := io.ReadAll(r)
	if err != nil {
		return &engineSourceAdapter{inner: yamlsrc.Failed(err)}
	}
	return YAMLBytes(b)
}

// TOMLBytes wraps a byte slice as a TOML Source.
func TOMLBytes(b []byte) Source {
	return &engineSourceAdapter{inner: tomlsrc.NewBytes(b)}
}

// FromSource returns the span-aware deserializer reading from src. The
// result implements de.SpanDeserializer; its Offset tracks src.Location.
func FromSource(src Source) de.SpanDeserializer {
	// Fast-path: if src already wraps an engine.TokenSource, unwrap to avoid
	// a public<->engine adapter round-trip.
	if ea, ok := src.(*engineSourceAdapter); ok {
		return engine.New(ea.inner)
	}
	return engine.New(EngineTokenSource(src))
}

// Parse decodes one value of type T from src.
func Parse[T any](src Source) (T, error) {
	return Decode[T](FromSource(src))
}

// SourceFromEngine wraps an engine.TokenSource as a Source. External drivers
// built on the internal token engine use this to surface their tokens.
func SourceFromEngine(inner engine.TokenSource) Source {
	return &engineSourceAdapter{inner: inner}
}

// EngineTokenSource adapts a public Source to the internal engine contract.
func EngineTokenSource(s Source) engine.TokenSource {
	return &publicSourceAdapter{inner: s}
}

type engineSourceAdapter struct {
	inner engine.TokenSource
}

func (s *engineSourceAdapter) NextToken() (Token, error) {
	t, err := s.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	return Token{Kind: fromEngineKind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}

func (s *engineSourceAdapter) Location() int64 { return s.inner.Location() }

type publicSourceAdapter struct {
	inner Source
}

func (s *publicSourceAdapter) NextToken() (engine.Token, error) {
	t, err := s.inner.NextToken()
	if err != nil {
		return engine.Token{}, err
	}
	return engine.Token{Kind: toEngineKind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}

func (s *publicSourceAdapter) Location() int64 { return s.inner.Location() }

func fromEngineKind(k engine.Kind) tokenKind {
	switch k {
	case engine.KindBeginObject:
		return _tokenBeginObject
	case engine.KindEndObject:
		return _tokenEndObject
	case engine.KindBeginArray:
		return _tokenBeginArray
	case engine.KindEndArray:
		return _tokenEndArray
	case engine.KindKey:
		return _tokenKey
	case engine.KindString:
		return _tokenString
	case engine.KindNumber:
		return _tokenNumber
	case engine.KindBool:
		return _tokenBool
	default:
		return _tokenNull
	}
}

func toEngineKind(k tokenKind) engine.Kind {
	switch k {
	case _tokenBeginObject:
		return engine.KindBeginObject
	case _tokenEndObject:
		return engine.KindEndObject
	case _tokenBeginArray:
		return engine.KindBeginArray
	case _tokenEndArray:
		return engine.KindEndArray
	case _tokenKey:
		return engine.KindKey
	case _tokenString:
		return engine.KindString
	case _tokenNumber:
		return engine.KindNumber
	case _tokenBool:
		return engine.KindBool
	default:
		return engine.KindNull
	}
}
