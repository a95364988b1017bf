package toml

// toml 包实现了 TOML 文本与宿主动态值之间的双向转换。
//
// 范围：
// - TOML v1.0.0 全部值类型，包括四种日期时间
// - 有序的中间值图（表 / 数组 / 值）
// - 可选的空值替代字符串（null surrogate）
// - 紧凑与美化两种输出
// - 确定性错误：语法、重复键、非法日期、不可序列化类型与键
//
// 非目标：
// - 注释保留
// - 格式化往返
// - 流式解码

import (
	"io"
	"os"
)

// Deserialize decodes a TOML document into a host tree rooted at a Map.
func Deserialize(text string, opts ...Option) (any, error) {
	return NewDecoder(opts...).Decode(text)
}

// Serialize encodes v as compact TOML.
func Serialize(v any, opts ...Option) (string, error) {
	b, err := marshalHost(v, false, opts)
	return string(b), err
}

// SerializePretty encodes v with literal strings and multi-line arrays.
func SerializePretty(v any, opts ...Option) (string, error) {
	b, err := marshalHost(v, true, opts)
	return string(b), err
}

func marshalHost(v any, pretty bool, opts []Option) ([]byte, error) {
	n, err := NewEncoder(opts...).Encode(v)
	if err != nil {
		return nil, err
	}
	return Marshal(n, pretty)
}

// =========================
// Streams
// =========================

// Load reads all of r and decodes it.
func Load(r io.Reader, opts ...Option) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Deserialize(string(data), opts...)
}

func LoadFile(path string, opts ...Option) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, opts...)
}

// Dump writes v to w and returns the number of bytes written.
func Dump(w io.Writer, v any, pretty bool, opts ...Option) (int, error) {
	b, err := marshalHost(v, pretty, opts)
	if err != nil {
		return 0, err
	}
	return w.Write(b)
}
