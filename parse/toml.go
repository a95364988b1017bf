package parse

// parse 包负责 aq 命令行的格式转换：
// - 读取 TOML 并按点分路径查找子树
// - 读取 YAML / JSON（保持键顺序）
// - 将宿主值树输出为 TOML / YAML / JSON
//
// TOML 的解码与编码全部委托给 parse/toml。

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/dzjyyds666/aqtoml/parse/toml"
)

// =========================
// Formats
// =========================

type Format string

var formats = struct {
	Toml Format
	Yaml Format
	Json Format
}{
	Toml: "toml",
	Yaml: "yaml",
	Json: "json",
}

var (
	FormatToml = formats.Toml
	FormatYaml = formats.Yaml
	FormatJson = formats.Json
)

var (
	ErrUnknownFormat = errors.New("parse: unknown format")
	ErrKeyNotFound   = errors.New("parse: key not found")
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case formats.Toml, formats.Yaml, formats.Json:
		return f, nil
	case "yml":
		return formats.Yaml, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatOf picks a format from the file extension of path, or def when the
// extension says nothing.
func FormatOf(path string, def Format) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return def
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return def
	}
	return f
}

// =========================
// Reading
// =========================

// ReadToml parses TOML from r and decodes it. A non-empty find narrows the
// result to the value under that dotted path, e.g. `servers.alpha."ip.v4"`.
func ReadToml(r io.Reader, find string, opts ...toml.Option) (any, error) {
	dec := toml.NewDecoder(opts...)
	root, err := dec.Parse(r)
	if err != nil {
		return nil, err
	}
	var n toml.Node = root
	if find != "" {
		var ok bool
		n, ok = toml.Get(root, toml.SplitPath(find)...)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, find)
		}
	}
	return dec.DecodeNode(n)
}

// ReadStructured reads YAML or JSON from r. Mappings keep their order and come
// back as toml.Map so they can be handed to the TOML encoder unchanged.
func ReadStructured(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var v any
	if err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return fromYaml(v), nil
}

func fromYaml(v any) any {
	switch t := v.(type) {
	case yaml.MapSlice:
		m := make(toml.Map, len(t))
		for i, item := range t {
			m[i] = toml.MapItem{Key: item.Key, Value: fromYaml(item.Value)}
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = fromYaml(t[i])
		}
		return out
	default:
		return v
	}
}

// =========================
// Rendering
// =========================

// Render writes a host tree in format f. TOML output goes through the TOML
// encoder with opts; for YAML and JSON, date-time values are written as their
// TOML literals.
func Render(v any, f Format, pretty bool, opts ...toml.Option) ([]byte, error) {
	switch f {
	case formats.Toml:
		n, err := toml.NewEncoder(opts...).Encode(v)
		if err != nil {
			return nil, err
		}
		return toml.Marshal(n, pretty)
	case formats.Yaml:
		plain, err := toYaml(v, false)
		if err != nil {
			return nil, err
		}
		return yaml.MarshalWithOptions(plain, yaml.Indent(2), yaml.UseLiteralStyleIfMultiline(pretty))
	case formats.Json:
		plain, err := toYaml(v, true)
		if err != nil {
			return nil, err
		}
		b, err := yaml.MarshalWithOptions(plain, yaml.JSON())
		if err != nil || !pretty {
			return b, err
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, b, "", "  "); err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// toYaml converts the TOML-specific parts of a host tree into values the YAML
// encoder understands. JSON has no spelling for non-finite floats, so with
// jsonSafe they become the TOML words inf, -inf and nan.
func toYaml(v any, jsonSafe bool) (any, error) {
	switch t := v.(type) {
	case toml.Map:
		out := make(yaml.MapSlice, len(t))
		for i, item := range t {
			val, err := toYaml(item.Value, jsonSafe)
			if err != nil {
				return nil, err
			}
			out[i] = yaml.MapItem{Key: item.Key, Value: val}
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i := range t {
			val, err := toYaml(t[i], jsonSafe)
			if err != nil {
				return nil, err
			}
			out[i] = val
		}
		return out, nil
	case float64:
		switch {
		case !jsonSafe:
		case math.IsNaN(t):
			return "nan", nil
		case math.IsInf(t, 1):
			return "inf", nil
		case math.IsInf(t, -1):
			return "-inf", nil
		}
		return t, nil
	}

	if toml.DefaultClassifier().Classify(v).IsTemporal() {
		dt, err := toml.FromHost(v)
		if err != nil {
			return nil, err
		}
		return dt.String(), nil
	}
	return v, nil
}
