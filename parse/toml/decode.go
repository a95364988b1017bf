package toml

import "io"

// Decoder turns TOML text, or an already parsed value graph, into a host tree
// of nil, bool, int64, float64, string, []any, Map and the temporal shapes.
type Decoder struct {
	opts Options
}

func NewDecoder(opts ...Option) *Decoder {
	return &Decoder{opts: newOptions(opts)}
}

// Decode parses text and converts the whole document. The result is always a
// Map.
func (d *Decoder) Decode(text string) (any, error) {
	root, err := parseDocument([]byte(text), d.opts.MaxDepth)
	if err != nil {
		return nil, err
	}
	return d.DecodeNode(root)
}

// Parse reads a document from r into a value graph, honouring the decoder's
// depth limit.
func (d *Decoder) Parse(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseDocument(data, d.opts.MaxDepth)
}

// DecodeNode converts a value graph built by Parse or by hand.
func (d *Decoder) DecodeNode(n Node) (any, error) {
	return d.decode(n, 0)
}

func (d *Decoder) decode(n Node, depth int) (any, error) {
	if depth > d.opts.MaxDepth {
		return nil, &DepthError{Max: d.opts.MaxDepth}
	}

	switch v := n.(type) {
	case *Table:
		if literal, ok := DatetimeLiteral(v); ok {
			dt, err := ParseDatetime(literal)
			if err != nil {
				return nil, err
			}
			return ToHost(dt)
		}
		return d.decodeTable(v, depth)
	case *Array:
		out := make([]any, 0, len(v.Elems))
		for _, elem := range v.Elems {
			item, err := d.decode(elem, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil
	case *Value:
		return d.decodeValue(v)
	default:
		return nil, &SyntaxError{Msg: "unexpected node in value graph"}
	}
}

// decodeTable checks keys as it goes: a graph assembled by hand may repeat a
// key even though Table.Set never does.
func (d *Decoder) decodeTable(t *Table, depth int) (any, error) {
	m := make(Map, 0, len(t.Entries))
	seen := make(map[string]struct{}, len(t.Entries))
	for _, e := range t.Entries {
		if _, dup := seen[e.Key]; dup {
			return nil, &DuplicateKeyError{Key: e.Key}
		}
		seen[e.Key] = struct{}{}

		item, err := d.decode(e.Node, depth+1)
		if err != nil {
			return nil, err
		}
		m = append(m, MapItem{Key: e.Key, Value: item})
	}
	return m, nil
}

func (d *Decoder) decodeValue(v *Value) (any, error) {
	switch v.Type {
	case tomlValueKinds.ValueString:
		s, _ := v.V.(string)
		if d.opts.NullSurrogate != nil && s == *d.opts.NullSurrogate {
			return nil, nil
		}
		return s, nil
	case tomlValueKinds.ValueDatetime:
		dt, ok := v.V.(Datetime)
		if !ok {
			return nil, &InvalidDatetimeError{Reason: "datetime node without a Datetime payload"}
		}
		return ToHost(dt)
	case tomlValueKinds.ValueNull:
		return nil, nil
	default:
		return v.V, nil
	}
}
