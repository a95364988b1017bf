package toml

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"unicode/utf8"
)

// Encoder converts a host tree into a TOML value graph ready for Marshal.
type Encoder struct {
	opts Options
}

func NewEncoder(opts ...Option) *Encoder {
	return &Encoder{opts: newOptions(opts)}
}

// Encode converts v. A nil v with no null surrogate configured has no TOML
// form and is rejected; nested nils are dropped instead.
func (e *Encoder) Encode(v any) (Node, error) {
	n, keep, err := e.encode(v, 0)
	if err != nil {
		return nil, err
	}
	if !keep {
		return nil, &UnserializableTypeError{TypeName: "nil", Reason: "null needs a surrogate string"}
	}
	return n, nil
}

// encode returns keep=false for a null that should be left out.
func (e *Encoder) encode(v any, depth int) (Node, bool, error) {
	if depth > e.opts.MaxDepth {
		return nil, false, &DepthError{Max: e.opts.MaxDepth, Encode: true}
	}

	kind := e.opts.Classifier.Classify(v)
	if kind == KindNull {
		if e.opts.NullSurrogate == nil {
			return nil, false, nil
		}
		return NewString(*e.opts.NullSurrogate), true, nil
	}

	var (
		n   Node
		err error
	)
	switch kind {
	case KindBool:
		n, err = encodeBool(v)
	case KindInt:
		n, err = encodeInt(v)
	case KindFloat:
		n, err = encodeFloat(v)
	case KindString:
		n, err = encodeString(v)
	case KindBytes:
		n, err = encodeBytes(v)
	case KindArray:
		n, err = e.encodeArray(v, depth)
	case KindTable:
		n, err = e.encodeTable(v, depth)
	case KindDatetime, KindDate, KindTime:
		var dt Datetime
		dt, err = FromHost(v)
		n = NewDatetime(dt)
	default:
		err = unserializable(v, "")
	}
	if err != nil {
		return nil, false, err
	}
	return n, true, nil
}

func unserializable(v any, reason string) error {
	return &UnserializableTypeError{
		TypeName: reflect.TypeOf(v).String(),
		Repr:     fmt.Sprintf("%#v", v),
		Reason:   reason,
	}
}

// =========================
// Scalars
// =========================

func encodeBool(v any) (Node, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Bool {
		return nil, unserializable(v, "classified as bool")
	}
	return NewBool(rv.Bool()), nil
}

func encodeInt(v any) (Node, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, unserializable(v, "integer does not fit in 64-bit signed range")
		}
		return NewInt(int64(u)), nil
	default:
		return nil, unserializable(v, "classified as int")
	}
}

func encodeFloat(v any) (Node, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Float32 && rv.Kind() != reflect.Float64 {
		return nil, unserializable(v, "classified as float")
	}
	return NewFloat(rv.Float()), nil
}

func encodeString(v any) (Node, error) {
	var s string
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		s = rv.String()
	} else if st, ok := v.(fmt.Stringer); ok {
		s = st.String()
	} else {
		return nil, unserializable(v, "classified as string")
	}
	if !utf8.ValidString(s) {
		return nil, unserializable(v, "string is not valid UTF-8")
	}
	return NewString(s), nil
}

func encodeBytes(v any) (Node, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() != reflect.Uint8 {
		return nil, unserializable(v, "classified as bytes")
	}
	b := rv.Bytes()
	arr := &Array{Elems: make([]Node, len(b))}
	for i, c := range b {
		arr.Elems[i] = NewInt(int64(c))
	}
	return arr, nil
}

// =========================
// Arrays
// =========================

func (e *Encoder) encodeArray(v any, depth int) (Node, error) {
	var items []any
	if s, ok := v.([]any); ok {
		items = s
	} else {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, unserializable(v, "classified as array")
		}
		items = make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
	}

	arr := &Array{Elems: make([]Node, 0, len(items))}
	for _, item := range items {
		n, keep, err := e.encode(item, depth+1)
		if err != nil {
			return nil, err
		}
		if keep {
			arr.Elems = append(arr.Elems, n)
		}
	}
	return arr, nil
}

// =========================
// Tables
// =========================

func (e *Encoder) encodeTable(v any, depth int) (Node, error) {
	items, err := tableItems(v)
	if err != nil {
		return nil, err
	}

	// scalars first, then arrays, then tables
	var scalars, arrays, tables []Entry
	for _, item := range items {
		key, err := e.tableKey(item.Key)
		if err != nil {
			return nil, err
		}
		n, keep, err := e.encode(item.Value, depth+1)
		if err != nil {
			return nil, err
		}
		if !keep {
			continue
		}
		entry := Entry{Key: key, Node: n}
		// bytes 和日期时间与标量同组
		switch e.opts.Classifier.Classify(item.Value) {
		case KindTable:
			tables = append(tables, entry)
		case KindArray:
			arrays = append(arrays, entry)
		default:
			scalars = append(scalars, entry)
		}
	}

	t := NewTable()
	for _, bucket := range [][]Entry{scalars, arrays, tables} {
		for _, entry := range bucket {
			if err := t.Set(entry.Key, entry.Node); err != nil {
				return nil, &UnserializableKeyError{Repr: fmt.Sprintf("%q (collides with an earlier key)", entry.Key)}
			}
		}
	}
	// 单独的标记键会被当成日期时间输出
	if len(t.Entries) == 1 && t.Entries[0].Key == DatetimeMarkerKey {
		return nil, &UnserializableKeyError{Repr: fmt.Sprintf("%q (reserved for date-time values)", DatetimeMarkerKey)}
	}
	return t, nil
}

func (e *Encoder) tableKey(k any) (string, error) {
	if k == nil {
		if e.opts.NullSurrogate == nil {
			return "", &UnserializableKeyError{Repr: "nil"}
		}
		return *e.opts.NullSurrogate, nil
	}
	rv := reflect.ValueOf(k)
	switch rv.Kind() {
	case reflect.String:
		if !utf8.ValidString(rv.String()) {
			return "", &UnserializableKeyError{Repr: fmt.Sprintf("%q (not valid UTF-8)", rv.String())}
		}
		return rv.String(), nil
	case reflect.Bool:
		if rv.Bool() {
			return "true", nil
		}
		return "false", nil
	default:
		return "", &UnserializableKeyError{Repr: fmt.Sprintf("%#v", k)}
	}
}

// tableItems lists the entries of a table-like value. Go maps have no order,
// so their entries are sorted by key.
func tableItems(v any) ([]MapItem, error) {
	switch m := v.(type) {
	case Map:
		return m, nil
	case map[string]any:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		items := make([]MapItem, len(keys))
		for i, k := range keys {
			items[i] = MapItem{Key: k, Value: m[k]}
		}
		return items, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		items := make([]MapItem, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			items = append(items, MapItem{Key: iter.Key().Interface(), Value: iter.Value().Interface()})
		}
		sort.SliceStable(items, func(i, j int) bool {
			return sortKey(items[i].Key) < sortKey(items[j].Key)
		})
		return items, nil
	case reflect.Slice:
		// named Map types and other []MapItem shapes
		if rv.Type().Elem() == mapItemType {
			items := make([]MapItem, rv.Len())
			for i := range items {
				items[i] = rv.Index(i).Interface().(MapItem)
			}
			return items, nil
		}
	}
	return nil, unserializable(v, "classified as table")
}

func sortKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", k)
}
