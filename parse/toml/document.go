package toml

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2/unstable"
)

// Parse reads a TOML document from r and returns its root table.
func Parse(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseBytes(data)
}

// ParseBytes parses a TOML document held in memory.
//
// Date-time literals are not resolved here: each one becomes a single-entry
// marker table (see NewDatetimeMarker) that the Decoder turns into a host
// temporal value. The returned graph preserves document order.
func ParseBytes(data []byte) (*Table, error) {
	return parseDocument(data, DefaultMaxDepth)
}

// =========================
// Reader
// =========================

type reader struct {
	p        unstable.Parser
	data     []byte
	root     *Table
	cur      *Table
	maxDepth int

	explicit    map[*Table]bool // opened by a [header] or [[header]]
	dotted      map[*Table]bool // created by a dotted key
	sealed      map[*Table]bool // inline tables and datetime markers
	tableArrays map[*Array]bool // created by [[header]]
}

func parseDocument(data []byte, maxDepth int) (*Table, error) {
	root := NewTable()
	rd := &reader{
		data:        data,
		root:        root,
		cur:         root,
		maxDepth:    maxDepth,
		explicit:    map[*Table]bool{},
		dotted:      map[*Table]bool{},
		sealed:      map[*Table]bool{},
		tableArrays: map[*Array]bool{},
	}
	rd.p.Reset(data)

	for rd.p.NextExpression() {
		expr := rd.p.Expression()
		var err error
		switch expr.Kind {
		case unstable.Table:
			err = rd.tableHeader(expr)
		case unstable.ArrayTable:
			err = rd.arrayTableHeader(expr)
		case unstable.KeyValue:
			err = rd.keyValue(rd.cur, expr, 1)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := rd.p.Error(); err != nil {
		return nil, rd.syntaxError(err)
	}
	return root, nil
}

type keyPart struct {
	name string
	raw  unstable.Range
}

// key copies the parts of expr's key; node data does not outlive the next
// expression.
func (rd *reader) key(expr *unstable.Node) []keyPart {
	var parts []keyPart
	it := expr.Key()
	for it.Next() {
		n := it.Node()
		parts = append(parts, keyPart{name: string(n.Data), raw: n.Raw})
	}
	return parts
}

func (rd *reader) describe(n Node) string {
	if t, ok := n.(*Table); ok && rd.sealed[t] {
		if _, marker := DatetimeLiteral(t); !marker {
			return "an inline table"
		}
	}
	return describeNode(n)
}

func joinKey(parts []keyPart) string {
	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = p.name
	}
	return strings.Join(names, ".")
}

// =========================
// Tables
// =========================

func (rd *reader) tableHeader(expr *unstable.Node) error {
	parts := rd.key(expr)
	if len(parts)-1 > rd.maxDepth {
		return &DepthError{Max: rd.maxDepth}
	}
	t, err := rd.walkHeader(parts[:len(parts)-1])
	if err != nil {
		return err
	}

	last := parts[len(parts)-1]
	n, ok := t.Get(last.name)
	if !ok {
		next := NewTable()
		_ = t.Set(last.name, next)
		rd.explicit[next] = true
		rd.cur = next
		return nil
	}

	tbl, isTable := n.(*Table)
	switch {
	case !isTable:
		return rd.errorAt(last.raw, "key `%s` is already defined as %s", joinKey(parts), describeNode(n))
	case rd.sealed[tbl]:
		return rd.errorAt(last.raw, "key `%s` is already defined as %s", joinKey(parts), rd.describe(tbl))
	case rd.explicit[tbl] || rd.dotted[tbl]:
		return rd.errorAt(last.raw, "redefinition of table `%s`", joinKey(parts))
	}
	rd.explicit[tbl] = true
	rd.cur = tbl
	return nil
}

func (rd *reader) arrayTableHeader(expr *unstable.Node) error {
	parts := rd.key(expr)
	if len(parts) > rd.maxDepth {
		return &DepthError{Max: rd.maxDepth}
	}
	t, err := rd.walkHeader(parts[:len(parts)-1])
	if err != nil {
		return err
	}

	last := parts[len(parts)-1]
	var arr *Array
	if n, ok := t.Get(last.name); ok {
		a, isArray := n.(*Array)
		if !isArray || !rd.tableArrays[a] {
			return rd.errorAt(last.raw, "key `%s` is already defined as %s", joinKey(parts), describeNode(n))
		}
		arr = a
	} else {
		arr = &Array{}
		_ = t.Set(last.name, arr)
		rd.tableArrays[arr] = true
	}

	elem := NewTable()
	arr.Elems = append(arr.Elems, elem)
	rd.explicit[elem] = true
	rd.cur = elem
	return nil
}

// walkHeader resolves the leading parts of a header, creating implicit tables
// as needed. An array of tables resolves to its last element.
func (rd *reader) walkHeader(parts []keyPart) (*Table, error) {
	t := rd.root
	for i, part := range parts {
		n, ok := t.Get(part.name)
		if !ok {
			next := NewTable()
			_ = t.Set(part.name, next)
			t = next
			continue
		}
		switch v := n.(type) {
		case *Table:
			if rd.sealed[v] {
				return nil, rd.errorAt(part.raw, "cannot extend %s `%s`", rd.describe(v), joinKey(parts[:i+1]))
			}
			t = v
			continue
		case *Array:
			if rd.tableArrays[v] && len(v.Elems) > 0 {
				t = v.Elems[len(v.Elems)-1].(*Table)
				continue
			}
		}
		return nil, rd.errorAt(part.raw, "key `%s` is already defined as %s", joinKey(parts[:i+1]), describeNode(n))
	}
	return t, nil
}

// =========================
// Key/value pairs
// =========================

func (rd *reader) keyValue(t *Table, expr *unstable.Node, depth int) error {
	parts := rd.key(expr)
	if depth+len(parts)-1 > rd.maxDepth {
		return &DepthError{Max: rd.maxDepth}
	}

	for i, part := range parts[:len(parts)-1] {
		n, ok := t.Get(part.name)
		if !ok {
			next := NewTable()
			_ = t.Set(part.name, next)
			rd.dotted[next] = true
			t = next
			continue
		}
		next, isTable := n.(*Table)
		switch {
		case !isTable:
			return rd.errorAt(part.raw, "key `%s` is already defined as %s", joinKey(parts[:i+1]), describeNode(n))
		case rd.sealed[next]:
			return rd.errorAt(part.raw, "cannot extend %s `%s`", rd.describe(next), joinKey(parts[:i+1]))
		case !rd.dotted[next]:
			return rd.errorAt(part.raw, "cannot extend table `%s` with a dotted key", joinKey(parts[:i+1]))
		}
		t = next
	}

	last := parts[len(parts)-1]
	if _, exists := t.Get(last.name); exists {
		pos := rd.p.Shape(last.raw).Start
		return &DuplicateKeyError{Key: last.name, Line: pos.Line, Column: pos.Column}
	}

	v, err := rd.value(expr.Value(), depth+len(parts)-1)
	if err != nil {
		return err
	}
	_ = t.Set(last.name, v)
	return nil
}

func (rd *reader) value(n *unstable.Node, depth int) (Node, error) {
	if depth > rd.maxDepth {
		return nil, &DepthError{Max: rd.maxDepth}
	}

	switch n.Kind {
	case unstable.String:
		return NewString(string(n.Data)), nil
	case unstable.Bool:
		return NewBool(n.Data[0] == 't'), nil
	case unstable.Integer:
		i, err := parseIntToken(string(n.Data))
		if err != nil {
			return nil, rd.errorAt(n.Raw, "%s", err)
		}
		return NewInt(i), nil
	case unstable.Float:
		f, err := parseFloatToken(string(n.Data))
		if err != nil {
			return nil, rd.errorAt(n.Raw, "%s", err)
		}
		return NewFloat(f), nil
	case unstable.LocalDate, unstable.LocalTime, unstable.LocalDateTime, unstable.DateTime:
		marker := NewDatetimeMarker(string(n.Data))
		rd.sealed[marker] = true
		return marker, nil
	case unstable.Array:
		arr := &Array{}
		it := n.Children()
		for it.Next() {
			elem, err := rd.value(it.Node(), depth+1)
			if err != nil {
				return nil, err
			}
			arr.Elems = append(arr.Elems, elem)
		}
		return arr, nil
	case unstable.InlineTable:
		t := NewTable()
		it := n.Children()
		for it.Next() {
			if err := rd.keyValue(t, it.Node(), depth+1); err != nil {
				return nil, err
			}
		}
		rd.sealed[t] = true
		return t, nil
	default:
		return nil, rd.errorAt(n.Raw, "unexpected %s", n.Kind)
	}
}

// =========================
// Positions
// =========================

func (rd *reader) errorAt(r unstable.Range, format string, args ...any) error {
	pos := rd.p.Shape(r).Start
	return &SyntaxError{Line: pos.Line, Column: pos.Column, Msg: fmt.Sprintf(format, args...)}
}

// syntaxError locates a parser error. Highlight is a subslice of the input,
// so its offset falls out of the capacities.
func (rd *reader) syntaxError(err error) error {
	var perr *unstable.ParserError
	if !errors.As(err, &perr) {
		return &SyntaxError{Line: 1, Column: 1, Msg: err.Error()}
	}
	offset := cap(rd.data) - cap(perr.Highlight)
	if offset < 0 || offset > len(rd.data) {
		offset = len(rd.data)
	}
	pos := rd.p.Shape(unstable.Range{Offset: uint32(offset)}).Start
	return &SyntaxError{Line: pos.Line, Column: pos.Column, Msg: perr.Message}
}

// =========================
// Numbers
// =========================

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// stripUnderscores removes digit separators; each one must sit between two
// digits.
func stripUnderscores(s string, digit func(byte) bool) (string, error) {
	if strings.IndexByte(s, '_') < 0 {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			b.WriteByte(s[i])
			continue
		}
		if i == 0 || i == len(s)-1 || !digit(s[i-1]) || !digit(s[i+1]) {
			return "", fmt.Errorf("invalid underscore in number %q", s)
		}
	}
	return b.String(), nil
}

func parseIntToken(s string) (int64, error) {
	if len(s) > 1 && s[0] == '0' {
		switch s[1] {
		case 'x':
			return parseRadixInt(s, 16, isHexDigit)
		case 'o':
			return parseRadixInt(s, 8, func(c byte) bool { return c >= '0' && c <= '7' })
		case 'b':
			return parseRadixInt(s, 2, func(c byte) bool { return c == '0' || c == '1' })
		}
	}

	clean, err := stripUnderscores(s, isDigit)
	if err != nil {
		return 0, err
	}
	body := strings.TrimLeft(clean, "+-")
	if len(clean)-len(body) > 1 || body == "" {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	for i := 0; i < len(body); i++ {
		if !isDigit(body[i]) {
			return 0, fmt.Errorf("invalid integer %q", s)
		}
	}
	if len(body) > 1 && body[0] == '0' {
		return 0, fmt.Errorf("leading zeros are not allowed in integer %q", s)
	}
	i, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("integer %q out of range", s)
	}
	return i, nil
}

func parseRadixInt(s string, base int, digit func(byte) bool) (int64, error) {
	digits := s[2:]
	if digits == "" || digits[0] == '_' {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	clean, err := stripUnderscores(digits, digit)
	if err != nil {
		return 0, err
	}
	for i := 0; i < len(clean); i++ {
		if !digit(clean[i]) {
			return 0, fmt.Errorf("invalid digit %q in integer %q", clean[i], s)
		}
	}
	u, err := strconv.ParseUint(clean, base, 64)
	if err != nil || u > math.MaxInt64 {
		return 0, fmt.Errorf("integer %q out of range", s)
	}
	return int64(u), nil
}

func parseFloatToken(s string) (float64, error) {
	switch s {
	case "inf", "+inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	case "nan", "+nan", "-nan":
		return math.NaN(), nil
	}

	clean, err := stripUnderscores(s, isDigit)
	if err != nil {
		return 0, err
	}
	body := clean
	if body != "" && (body[0] == '+' || body[0] == '-') {
		body = body[1:]
	}

	i := 0
	for i < len(body) && isDigit(body[i]) {
		i++
	}
	if i == 0 {
		return 0, fmt.Errorf("float %q must start with a digit", s)
	}
	if i > 1 && body[0] == '0' {
		return 0, fmt.Errorf("leading zeros are not allowed in float %q", s)
	}
	rest := body[i:]

	if rest != "" && rest[0] == '.' {
		j := 1
		for j < len(rest) && isDigit(rest[j]) {
			j++
		}
		if j == 1 {
			return 0, fmt.Errorf("decimal point must be followed by a digit in float %q", s)
		}
		rest = rest[j:]
	}
	if rest != "" && (rest[0] == 'e' || rest[0] == 'E') {
		rest = rest[1:]
		if rest != "" && (rest[0] == '+' || rest[0] == '-') {
			rest = rest[1:]
		}
		j := 0
		for j < len(rest) && isDigit(rest[j]) {
			j++
		}
		if j == 0 {
			return 0, fmt.Errorf("exponent must have digits in float %q", s)
		}
		rest = rest[j:]
	}
	if rest != "" {
		return 0, fmt.Errorf("invalid float %q", s)
	}

	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("float %q out of range", s)
	}
	return f, nil
}
