package toml

import (
	"errors"
	"fmt"
)

// Families: every decode-side error matches ErrParse, every encode-side error
// matches ErrSerialize.
var (
	ErrParse     = errors.New("toml: parse error")
	ErrSerialize = errors.New("toml: serialization error")
)

var (
	ErrSyntax             = errors.New("toml: syntax error")
	ErrDuplicateKey       = errors.New("toml: duplicate key")
	ErrInvalidDatetime    = errors.New("toml: invalid datetime")
	ErrUnserializableType = errors.New("toml: unserializable type")
	ErrUnserializableKey  = errors.New("toml: unserializable key")
	ErrDepthExceeded      = errors.New("toml: maximum nesting depth exceeded")
)

// SyntaxError is malformed TOML text as reported by the grammar parser.
// Line and Column are 1-based and zero when unknown.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("toml: %s", e.Msg)
	}
	return fmt.Sprintf("toml:%d:%d: %s", e.Line, e.Column, e.Msg)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax || target == ErrParse
}

// DuplicateKeyError reports the first repeated key of a table.
type DuplicateKeyError struct {
	Key    string
	Line   int
	Column int
}

func (e *DuplicateKeyError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("toml: duplicate key: `%s`", e.Key)
	}
	return fmt.Sprintf("toml:%d:%d: duplicate key: `%s`", e.Line, e.Column, e.Key)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey || target == ErrParse
}

// InvalidDatetimeError is a date-time literal that failed structural
// validation. Literals produced by the grammar parser only end up here when
// they name an impossible calendar value such as February 30th.
type InvalidDatetimeError struct {
	Literal string
	Reason  string
}

func (e *InvalidDatetimeError) Error() string {
	return fmt.Sprintf("toml: invalid datetime %q: %s", e.Literal, e.Reason)
}

func (e *InvalidDatetimeError) Is(target error) bool {
	return target == ErrInvalidDatetime || target == ErrParse
}

// UnserializableTypeError is a host value with no TOML representation.
type UnserializableTypeError struct {
	TypeName string
	Repr     string
	Reason   string
}

func (e *UnserializableTypeError) Error() string {
	var msg string
	if e.Repr == "" {
		msg = fmt.Sprintf("toml: %s is not serializable to TOML", e.TypeName)
	} else {
		msg = fmt.Sprintf("toml: %s (%s) is not serializable to TOML", e.Repr, e.TypeName)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *UnserializableTypeError) Is(target error) bool {
	return target == ErrUnserializableType || target == ErrSerialize
}

// UnserializableKeyError is a table key that cannot be reduced to a string.
type UnserializableKeyError struct {
	Repr string
}

func (e *UnserializableKeyError) Error() string {
	return fmt.Sprintf("toml: %s is not serializable as a TOML key", e.Repr)
}

func (e *UnserializableKeyError) Is(target error) bool {
	return target == ErrUnserializableKey || target == ErrSerialize
}

// DepthError stops a tree walk that nested deeper than Max levels.
type DepthError struct {
	Max    int
	Encode bool
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("toml: nesting deeper than %d levels", e.Max)
}

func (e *DepthError) Is(target error) bool {
	if target == ErrDepthExceeded {
		return true
	}
	if e.Encode {
		return target == ErrSerialize
	}
	return target == ErrParse
}
