package toml

import (
	"strings"
)

// =========================
// Value Model
// =========================

type ValueKind string

var tomlValueKinds = struct {
	ValueNull     ValueKind
	ValueString   ValueKind
	ValueInt      ValueKind
	ValueFloat    ValueKind
	ValueBool     ValueKind
	ValueDatetime ValueKind
	ValueTable    ValueKind
	ValueArray    ValueKind
}{
	ValueNull:     "null",
	ValueString:   "string",
	ValueInt:      "int",
	ValueFloat:    "float",
	ValueBool:     "bool",
	ValueDatetime: "datetime",
	ValueTable:    "table",
	ValueArray:    "array",
}

// Kinds of the TOML value graph, exported for callers that switch on Node.Kind().
var (
	KindNullValue     = tomlValueKinds.ValueNull
	KindStringValue   = tomlValueKinds.ValueString
	KindIntValue      = tomlValueKinds.ValueInt
	KindFloatValue    = tomlValueKinds.ValueFloat
	KindBoolValue     = tomlValueKinds.ValueBool
	KindDatetimeValue = tomlValueKinds.ValueDatetime
	KindTableValue    = tomlValueKinds.ValueTable
	KindArrayValue    = tomlValueKinds.ValueArray
)

// Node is one vertex of the TOML value graph produced by Parse and Encoder.Encode.
type Node interface {
	Kind() ValueKind
	Value() any
}

// -------- Table --------

// Entry is a single key/value pair of a Table.
type Entry struct {
	Key  string
	Node Node
}

// Table keeps its entries in insertion order. Keys are unique when the table is
// built through Set.
type Table struct {
	Entries []Entry
	index   map[string]int
}

func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

func (*Table) Kind() ValueKind { return tomlValueKinds.ValueTable }

func (t *Table) Value() any { return t.Entries }

func (t *Table) Len() int { return len(t.Entries) }

func (t *Table) Keys() []string {
	keys := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		keys[i] = e.Key
	}
	return keys
}

// Get returns the node stored under key.
func (t *Table) Get(key string) (Node, bool) {
	if t.index == nil {
		for _, e := range t.Entries {
			if e.Key == key {
				return e.Node, true
			}
		}
		return nil, false
	}
	i, ok := t.index[key]
	if !ok {
		return nil, false
	}
	return t.Entries[i].Node, true
}

// Set appends key to the table. A key that is already present is rejected
// with a *DuplicateKeyError and the table is left untouched.
func (t *Table) Set(key string, n Node) error {
	if _, exists := t.Get(key); exists {
		return &DuplicateKeyError{Key: key}
	}
	if t.index == nil {
		t.index = make(map[string]int, len(t.Entries)+1)
		for i, e := range t.Entries {
			t.index[e.Key] = i
		}
	}
	t.index[key] = len(t.Entries)
	t.Entries = append(t.Entries, Entry{Key: key, Node: n})
	return nil
}

// -------- Array --------

type Array struct {
	Elems []Node
}

func (v *Array) Kind() ValueKind { return tomlValueKinds.ValueArray }

func (v *Array) Value() any { return v.Elems }

// -------- Value --------

type Value struct {
	Type ValueKind
	V    any
}

func (v *Value) Kind() ValueKind { return v.Type }

func (v *Value) Value() any { return v.V }

func NewNull() *Value { return &Value{Type: tomlValueKinds.ValueNull} }

func NewString(s string) *Value { return &Value{Type: tomlValueKinds.ValueString, V: s} }

func NewInt(i int64) *Value { return &Value{Type: tomlValueKinds.ValueInt, V: i} }

func NewFloat(f float64) *Value { return &Value{Type: tomlValueKinds.ValueFloat, V: f} }

func NewBool(b bool) *Value { return &Value{Type: tomlValueKinds.ValueBool, V: b} }

func NewDatetime(dt Datetime) *Value { return &Value{Type: tomlValueKinds.ValueDatetime, V: dt} }

// -------- Datetime marker --------

// DatetimeMarkerKey is the reserved key of a single-entry table that carries a
// date-time literal through the intermediate value graph.
const DatetimeMarkerKey = "$__toml_private_datetime"

func NewDatetimeMarker(literal string) *Table {
	t := NewTable()
	_ = t.Set(DatetimeMarkerKey, NewString(literal))
	return t
}

// DatetimeLiteral reports whether t is a datetime marker and returns its literal.
func DatetimeLiteral(t *Table) (string, bool) {
	if t == nil || len(t.Entries) != 1 || t.Entries[0].Key != DatetimeMarkerKey {
		return "", false
	}
	v, ok := t.Entries[0].Node.(*Value)
	if !ok || v.Type != tomlValueKinds.ValueString {
		return "", false
	}
	s, ok := v.V.(string)
	return s, ok
}

// =========================
// Safe Access Helpers
// =========================

// Get walks root along path. Empty path segments are skipped.
func Get(root *Table, path ...string) (Node, bool) {
	var cur Node = root
	for _, p := range path {
		if len(p) == 0 {
			continue
		}
		t, ok := cur.(*Table)
		if !ok {
			return nil, false
		}
		if _, marker := DatetimeLiteral(t); marker {
			return nil, false
		}
		cur, ok = t.Get(p)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// GetUntyped is Get followed by a decode of the node with default options.
func GetUntyped(root *Table, path ...string) (any, bool, error) {
	n, ok := Get(root, path...)
	if !ok {
		return nil, false, nil
	}
	v, err := NewDecoder().DecodeNode(n)
	if err != nil {
		return nil, true, err
	}
	return v, true, nil
}

// SplitPath splits a dotted lookup path such as `servers.alpha."ip.v4"`.
func SplitPath(s string) []string {
	var parts []string
	var cur strings.Builder
	inQuote := byte(0)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inQuote != 0 {
			if ch == inQuote {
				inQuote = 0
				continue
			}
			cur.WriteByte(ch)
			continue
		}
		switch ch {
		case '"', '\'':
			inQuote = ch
		case '.':
			parts = append(parts, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	if last := strings.TrimSpace(cur.String()); last != "" || len(parts) > 0 {
		parts = append(parts, last)
	}
	return parts
}

func MustString(n Node) string {
	v := n.(*Value)
	return v.V.(string)
}

func MustInt(n Node) int64 {
	v := n.(*Value)
	return v.V.(int64)
}

func describeNode(n Node) string {
	switch v := n.(type) {
	case *Table:
		if _, ok := DatetimeLiteral(v); ok {
			return "a datetime"
		}
		return "a table"
	case *Array:
		return "an array"
	case *Value:
		if v.Type == tomlValueKinds.ValueInt {
			return "an integer"
		}
		return "a " + string(v.Type)
	default:
		return "an unknown node"
	}
}
