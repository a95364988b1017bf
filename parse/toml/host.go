package toml

// MapItem is one entry of a Map.
type MapItem struct {
	Key   any
	Value any
}

// Map is the host-side table: an insertion-ordered list of entries. Decoded
// maps always have string keys; maps handed to the Encoder may also use bool
// or nil keys.
type Map []MapItem

// Get returns the value stored under key.
func (m Map) Get(key any) (any, bool) {
	for _, item := range m {
		if item.Key == key {
			return item.Value, true
		}
	}
	return nil, false
}

// Keys lists the keys in order.
func (m Map) Keys() []any {
	keys := make([]any, len(m))
	for i, item := range m {
		keys[i] = item.Key
	}
	return keys
}

// ToMap flattens m into a Go map with string keys, recursively. Order is lost.
func (m Map) ToMap() map[string]any {
	out := make(map[string]any, len(m))
	for _, item := range m {
		k, ok := item.Key.(string)
		if !ok {
			continue
		}
		out[k] = unorder(item.Value)
	}
	return out
}

func unorder(v any) any {
	switch t := v.(type) {
	case Map:
		return t.ToMap()
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = unorder(t[i])
		}
		return out
	default:
		return v
	}
}
