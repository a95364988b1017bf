package toml

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Marshal renders a value graph as TOML text. A table is written as a
// document: its plain entries first, then one [section] or [[section]] per
// sub-table or array of tables. Any other node is written as a bare value.
//
// With pretty set, strings are written as literal strings where they can be
// and non-empty arrays are spread over several lines.
func Marshal(n Node, pretty bool) ([]byte, error) {
	p := &printer{pretty: pretty}
	var err error
	if t, ok := n.(*Table); ok && !isMarker(t) {
		err = p.document(nil, t, false)
	} else {
		err = p.value(n, 0)
	}
	if err != nil {
		return nil, err
	}
	return p.buf.Bytes(), nil
}

type printer struct {
	buf    bytes.Buffer
	pretty bool
}

func isMarker(t *Table) bool {
	_, ok := DatetimeLiteral(t)
	return ok
}

// isSection reports whether n is written under its own header.
func isSection(n Node) bool {
	switch v := n.(type) {
	case *Table:
		return !isMarker(v)
	case *Array:
		if len(v.Elems) == 0 {
			return false
		}
		for _, elem := range v.Elems {
			t, ok := elem.(*Table)
			if !ok || isMarker(t) {
				return false
			}
		}
		return true
	}
	return false
}

// =========================
// Document form
// =========================

func (p *printer) document(path []string, t *Table, arrayElem bool) error {
	var inline, sections []Entry
	for _, e := range t.Entries {
		if isSection(e.Node) {
			sections = append(sections, e)
		} else {
			inline = append(inline, e)
		}
	}

	if len(path) > 0 && (arrayElem || len(inline) > 0 || len(sections) == 0) {
		if p.buf.Len() > 0 {
			p.buf.WriteByte('\n')
		}
		if arrayElem {
			p.buf.WriteString("[[")
		} else {
			p.buf.WriteByte('[')
		}
		for i, k := range path {
			if i > 0 {
				p.buf.WriteByte('.')
			}
			p.key(k)
		}
		if arrayElem {
			p.buf.WriteString("]]")
		} else {
			p.buf.WriteByte(']')
		}
		p.buf.WriteByte('\n')
	}

	for _, e := range inline {
		p.key(e.Key)
		p.buf.WriteString(" = ")
		if err := p.value(e.Node, 0); err != nil {
			return err
		}
		p.buf.WriteByte('\n')
	}

	for _, e := range sections {
		sub := append(path[:len(path):len(path)], e.Key)
		switch v := e.Node.(type) {
		case *Table:
			if err := p.document(sub, v, false); err != nil {
				return err
			}
		case *Array:
			for _, elem := range v.Elems {
				if err := p.document(sub, elem.(*Table), true); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func isBareKey(k string) bool {
	if k == "" {
		return false
	}
	for i := 0; i < len(k); i++ {
		c := k[i]
		if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_' || c == '-') {
			return false
		}
	}
	return true
}

func (p *printer) key(k string) {
	if isBareKey(k) {
		p.buf.WriteString(k)
		return
	}
	p.basicString(k)
}

// =========================
// Values
// =========================

func (p *printer) value(n Node, level int) error {
	switch v := n.(type) {
	case *Table:
		if literal, ok := DatetimeLiteral(v); ok {
			dt, err := ParseDatetime(literal)
			if err != nil {
				return err
			}
			p.buf.WriteString(dt.String())
			return nil
		}
		return p.inlineTable(v, level)
	case *Array:
		return p.array(v, level)
	case *Value:
		return p.scalar(v)
	default:
		return &UnserializableTypeError{TypeName: fmt.Sprintf("%T", n), Reason: "unknown node"}
	}
}

func (p *printer) inlineTable(t *Table, level int) error {
	if len(t.Entries) == 0 {
		p.buf.WriteString("{}")
		return nil
	}
	p.buf.WriteString("{ ")
	for i, e := range t.Entries {
		if i > 0 {
			p.buf.WriteString(", ")
		}
		p.key(e.Key)
		p.buf.WriteString(" = ")
		if err := p.value(e.Node, level); err != nil {
			return err
		}
	}
	p.buf.WriteString(" }")
	return nil
}

const indent = "    "

func (p *printer) array(a *Array, level int) error {
	if len(a.Elems) == 0 {
		p.buf.WriteString("[]")
		return nil
	}
	if !p.pretty {
		p.buf.WriteByte('[')
		for i, elem := range a.Elems {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			if err := p.value(elem, level); err != nil {
				return err
			}
		}
		p.buf.WriteByte(']')
		return nil
	}

	p.buf.WriteString("[\n")
	for _, elem := range a.Elems {
		p.buf.WriteString(strings.Repeat(indent, level+1))
		if err := p.value(elem, level+1); err != nil {
			return err
		}
		p.buf.WriteString(",\n")
	}
	p.buf.WriteString(strings.Repeat(indent, level))
	p.buf.WriteByte(']')
	return nil
}

func (p *printer) scalar(v *Value) error {
	switch v.Type {
	case tomlValueKinds.ValueString:
		p.str(v.V.(string))
	case tomlValueKinds.ValueInt:
		p.buf.WriteString(strconv.FormatInt(v.V.(int64), 10))
	case tomlValueKinds.ValueFloat:
		p.buf.WriteString(formatFloat(v.V.(float64)))
	case tomlValueKinds.ValueBool:
		p.buf.WriteString(strconv.FormatBool(v.V.(bool)))
	case tomlValueKinds.ValueDatetime:
		dt := v.V.(Datetime)
		if err := dt.Validate(); err != nil {
			return err
		}
		p.buf.WriteString(dt.String())
	case tomlValueKinds.ValueNull:
		return &UnserializableTypeError{TypeName: "nil", Reason: "null has no TOML form"}
	default:
		return &UnserializableTypeError{TypeName: string(v.Type), Reason: "unknown value kind"}
	}
	return nil
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	format := byte('f')
	if a := math.Abs(f); a != 0 && (a < 1e-6 || a >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// =========================
// Strings
// =========================

func (p *printer) str(s string) {
	if p.pretty && utf8.ValidString(s) {
		if strings.Contains(s, "\n") && fitsMultilineLiteral(s) {
			p.buf.WriteString("'''\n")
			p.buf.WriteString(s)
			p.buf.WriteString("'''")
			return
		}
		if fitsLiteral(s) {
			p.buf.WriteByte('\'')
			p.buf.WriteString(s)
			p.buf.WriteByte('\'')
			return
		}
	}
	p.basicString(s)
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}

func fitsLiteral(s string) bool {
	for _, r := range s {
		if r == '\'' || (isControl(r) && r != '\t') {
			return false
		}
	}
	return true
}

func fitsMultilineLiteral(s string) bool {
	if strings.Contains(s, "'''") || strings.HasSuffix(s, "'") {
		return false
	}
	for _, r := range s {
		if isControl(r) && r != '\t' && r != '\n' {
			return false
		}
	}
	return true
}

func (p *printer) basicString(s string) {
	p.buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\b':
			p.buf.WriteString(`\b`)
		case '\t':
			p.buf.WriteString(`\t`)
		case '\n':
			p.buf.WriteString(`\n`)
		case '\f':
			p.buf.WriteString(`\f`)
		case '\r':
			p.buf.WriteString(`\r`)
		case '"':
			p.buf.WriteString(`\"`)
		case '\\':
			p.buf.WriteString(`\\`)
		default:
			if isControl(r) {
				fmt.Fprintf(&p.buf, `\u%04X`, r)
			} else {
				p.buf.WriteRune(r)
			}
		}
	}
	p.buf.WriteByte('"')
}
