package toml

import (
	"errors"
	"math"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestSerializePretty(t *testing.T) {
	convey.Convey("multi-line literal strings", t, func() {
		s, err := SerializePretty(Map{{Key: "text", Value: "\nfoo\nbar\n"}})
		convey.So(err, convey.ShouldBeNil)
		convey.So(s, convey.ShouldEqual, "text = '''\n\nfoo\nbar\n'''\n")
	})

	convey.Convey("single-line literal strings", t, func() {
		s, err := SerializePretty(Map{{Key: "foo", Value: "bar"}})
		convey.So(err, convey.ShouldBeNil)
		convey.So(s, convey.ShouldEqual, "foo = 'bar'\n")
	})

	convey.Convey("strings that cannot be literal", t, func() {
		s, err := SerializePretty(Map{{Key: "q", Value: "it's"}, {Key: "c", Value: "a\x01b"}})
		convey.So(err, convey.ShouldBeNil)
		convey.So(s, convey.ShouldEqual, "q = \"it's\"\nc = \"a\\u0001b\"\n")
	})

	convey.Convey("multi-line arrays", t, func() {
		s, err := SerializePretty([]any{1, 2, 3})
		convey.So(err, convey.ShouldBeNil)
		convey.So(s, convey.ShouldEqual, "[\n    1,\n    2,\n    3,\n]")

		s, err = SerializePretty(Map{{Key: "m", Value: []any{[]any{1}, []any{}}}})
		convey.So(err, convey.ShouldBeNil)
		convey.So(s, convey.ShouldEqual, "m = [\n    [\n        1,\n    ],\n    [],\n]\n")
	})
}

func TestMarshal(t *testing.T) {
	convey.Convey("floats always look like floats", t, func() {
		cases := map[float64]string{
			1:       "1.0",
			-0.5:    "-0.5",
			1e21:    "1e+21",
			1.5e-7:  "1.5e-07",
			100:     "100.0",
			123.456: "123.456",
		}
		for f, want := range cases {
			convey.So(formatFloat(f), convey.ShouldEqual, want)
		}
		convey.So(formatFloat(math.NaN()), convey.ShouldEqual, "nan")
		convey.So(formatFloat(math.Inf(1)), convey.ShouldEqual, "inf")
		convey.So(formatFloat(math.Inf(-1)), convey.ShouldEqual, "-inf")
		convey.So(formatFloat(math.Copysign(0, -1)), convey.ShouldEqual, "-0.0")
	})

	convey.Convey("escapes in basic strings", t, func() {
		b, err := Marshal(NewString("tab\there \"q\" back\\slash\r\n\x7f"), false)
		convey.So(err, convey.ShouldBeNil)
		convey.So(string(b), convey.ShouldEqual, `"tab\there \"q\" back\\slash\r\n\u007F"`)
	})

	convey.Convey("inline tables inside arrays", t, func() {
		root := NewTable()
		inner := NewTable()
		_ = inner.Set("a", NewInt(1))
		_ = inner.Set("b", NewTable())
		_ = root.Set("mixed", &Array{Elems: []Node{NewInt(1), inner}})
		b, err := Marshal(root, false)
		convey.So(err, convey.ShouldBeNil)
		convey.So(string(b), convey.ShouldEqual, "mixed = [1, { a = 1, b = {} }]\n")
	})

	convey.Convey("headers are omitted for tables that only hold sections", t, func() {
		root := NewTable()
		a := NewTable()
		b := NewTable()
		_ = b.Set("c", NewInt(1))
		_ = a.Set("b", b)
		_ = root.Set("a", a)
		_ = root.Set("empty", NewTable())
		out, err := Marshal(root, false)
		convey.So(err, convey.ShouldBeNil)
		convey.So(string(out), convey.ShouldEqual, "[a.b]\nc = 1\n\n[empty]\n")
	})

	convey.Convey("quoted header keys", t, func() {
		root := NewTable()
		sub := NewTable()
		_ = sub.Set("k", NewBool(false))
		_ = root.Set("dotted.name", sub)
		out, err := Marshal(root, false)
		convey.So(err, convey.ShouldBeNil)
		convey.So(string(out), convey.ShouldEqual, "[\"dotted.name\"]\nk = false\n")
	})

	convey.Convey("datetime markers print their literal", t, func() {
		root := NewTable()
		_ = root.Set("when", NewDatetimeMarker("1979-05-27 07:32:00z"))
		out, err := Marshal(root, false)
		convey.So(err, convey.ShouldBeNil)
		convey.So(string(out), convey.ShouldEqual, "when = 1979-05-27T07:32:00Z\n")

		_, err = Marshal(NewDatetimeMarker("1979-02-30"), false)
		convey.So(errors.Is(err, ErrInvalidDatetime), convey.ShouldBeTrue)
	})

	convey.Convey("null nodes have no TOML form", t, func() {
		_, err := Marshal(&Array{Elems: []Node{NewNull()}}, false)
		convey.So(errors.Is(err, ErrUnserializableType), convey.ShouldBeTrue)
	})
}
