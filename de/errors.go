package de

import (
	"errors"
	"fmt"
)

// Error codes (exported consts for IDE completion and type safety by
// convention).
const (
	CodeInvalidType   = "invalid_type"
	CodeParseError    = "parse_error"
	CodeMissingKey    = "missing_key"
	CodeUnexpectedEOF = "unexpected_eof"
)

// Error is the error type produced by this module's deserializers. Errors
// originating in an underlying format library are carried in Cause and
// surfaced by Unwrap; errors propagated from a caller's own decoding are
// never wrapped at all.
type Error struct {
	Code    string
	Message string
	Offset  int64 // byte offset in the input source (-1 when unknown)
	Cause   error // optional underlying error
}

func (e *Error) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at byte %d: %s", e.Code, e.Offset, e.Message)
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// AsError extracts an *Error from err using errors.As internally.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
