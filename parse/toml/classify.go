package toml

import (
	"reflect"
	"sync"
	"time"
)

// Kind is the semantic kind of a host value, as seen by the Encoder.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindArray
	KindTable
	KindDatetime
	KindDate
	KindTime
)

var kindNames = [...]string{
	KindUnknown:  "unknown",
	KindNull:     "null",
	KindBool:     "bool",
	KindInt:      "int",
	KindFloat:    "float",
	KindString:   "string",
	KindBytes:    "bytes",
	KindArray:    "array",
	KindTable:    "table",
	KindDatetime: "datetime",
	KindDate:     "date",
	KindTime:     "time",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsTemporal reports whether k is one of the date/time kinds.
func (k Kind) IsTemporal() bool {
	return k == KindDatetime || k == KindDate || k == KindTime
}

// TypeClassifier maps an arbitrary host value to its Kind without any
// cooperation from the value itself.
type TypeClassifier interface {
	Classify(v any) Kind
}

// Binding ties a concrete host type to a Kind. The sample only provides the
// type; its value is never inspected.
type Binding struct {
	Sample any
	Kind   Kind
}

// Classifier is an immutable lookup table from dynamic type to Kind. It is
// safe for concurrent use.
type Classifier struct {
	types map[reflect.Type]Kind
}

var canonicalBindings = []Binding{
	{bool(false), KindBool},
	{int(0), KindInt},
	{int8(0), KindInt},
	{int16(0), KindInt},
	{int32(0), KindInt},
	{int64(0), KindInt},
	{uint(0), KindInt},
	{uint8(0), KindInt},
	{uint16(0), KindInt},
	{uint32(0), KindInt},
	{uint64(0), KindInt},
	{float32(0), KindFloat},
	{float64(0), KindFloat},
	{"", KindString},
	{[]byte(nil), KindBytes},
	{[]any(nil), KindArray},
	{Map(nil), KindTable},
	{map[string]any(nil), KindTable},
	{time.Time{}, KindDatetime},
	{LocalDateTime{}, KindDatetime},
	{LocalDate{}, KindDate},
	{LocalTime{}, KindTime},
}

// NewClassifier builds a classifier holding the canonical host types plus
// extra. Later bindings override earlier ones.
func NewClassifier(extra ...Binding) *Classifier {
	c := &Classifier{types: make(map[reflect.Type]Kind, len(canonicalBindings)+len(extra))}
	for _, b := range canonicalBindings {
		c.types[reflect.TypeOf(b.Sample)] = b.Kind
	}
	for _, b := range extra {
		if b.Sample == nil {
			continue
		}
		c.types[reflect.TypeOf(b.Sample)] = b.Kind
	}
	return c
}

var defaultClassifier = sync.OnceValue(func() *Classifier {
	return NewClassifier()
})

// DefaultClassifier is built on first use and shared by every caller.
func DefaultClassifier() *Classifier {
	return defaultClassifier()
}

// Classify returns the Kind of v. Exact types are resolved through the lookup
// table; named types fall back to their underlying reflect.Kind.
func (c *Classifier) Classify(v any) Kind {
	if v == nil {
		return KindNull
	}
	t := reflect.TypeOf(v)
	if k, ok := c.types[t]; ok {
		return k
	}
	return classifyUnderlying(t)
}

var mapItemType = reflect.TypeOf(MapItem{})

func classifyUnderlying(t reflect.Type) Kind {
	switch t.Kind() {
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInt
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.String:
		return KindString
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return KindBytes
		}
		if t.Elem() == mapItemType {
			return KindTable
		}
		return KindArray
	case reflect.Array:
		return KindArray
	case reflect.Map:
		return KindTable
	default:
		return KindUnknown
	}
}
