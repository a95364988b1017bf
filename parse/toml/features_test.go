package toml

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestArrayOfTables(t *testing.T) {
	convey.Convey("array of tables", t, func() {
		src := `
[[products]]
name = "Hammer"
sku = 738594937

[[products]]
name = "Nails"
sku = 284758393
count = 100
`
		root, err := Parse(strings.NewReader(src))
		convey.So(err, convey.ShouldBeNil)
		n, ok := Get(root, "products")
		convey.So(ok, convey.ShouldBeTrue)
		arr := n.(*Array)
		convey.So(len(arr.Elems), convey.ShouldEqual, 2)
		first := arr.Elems[0].(*Table)
		convey.So(MustString(entry(first, "name")), convey.ShouldEqual, "Hammer")
		convey.So(MustInt(entry(arr.Elems[1].(*Table), "count")), convey.ShouldEqual, 100)
	})
}

func TestInlineTable(t *testing.T) {
	convey.Convey("inline table", t, func() {
		src := `owner = { name = "Tom", dob = 1979-05-27T07:32:00Z }`
		root, err := Parse(strings.NewReader(src))
		convey.So(err, convey.ShouldBeNil)
		n, ok := Get(root, "owner")
		convey.So(ok, convey.ShouldBeTrue)
		tbl := n.(*Table)
		convey.So(MustString(entry(tbl, "name")), convey.ShouldEqual, "Tom")
		lit, ok := DatetimeLiteral(entry(tbl, "dob").(*Table))
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(lit, convey.ShouldEqual, "1979-05-27T07:32:00Z")
	})
}

func TestMultilineBasicString(t *testing.T) {
	convey.Convey("multiline basic string", t, func() {
		src := `desc = """first
second
third"""`
		root, err := Parse(strings.NewReader(src))
		convey.So(err, convey.ShouldBeNil)
		n, ok := Get(root, "desc")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(MustString(n), convey.ShouldEqual, "first\nsecond\nthird")
	})
}

func TestQuotedKeys(t *testing.T) {
	convey.Convey("quoted keys", t, func() {
		src := `"a.b" = 1
a.c = 2`
		root, err := Parse(strings.NewReader(src))
		convey.So(err, convey.ShouldBeNil)
		n, ok := Get(root, "a.b")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(MustInt(n), convey.ShouldEqual, 1)
		n2, ok2 := Get(root, "a", "c")
		convey.So(ok2, convey.ShouldBeTrue)
		convey.So(MustInt(n2), convey.ShouldEqual, 2)
	})
}

func TestSpecialFloatsAndInts(t *testing.T) {
	convey.Convey("floats and ints with underscores and bases", t, func() {
		src := `
f1 = +inf
f2 = -inf
f3 = nan
i1 = 1_000
hex = 0xDEADBEEF
oct = 0o755
bin = 0b1010
`
		root, err := Parse(strings.NewReader(src))
		convey.So(err, convey.ShouldBeNil)
		f1, _ := Get(root, "f1")
		convey.So(f1.(*Value).V.(float64), convey.ShouldEqual, math.Inf(+1))
		f2, _ := Get(root, "f2")
		convey.So(f2.(*Value).V.(float64), convey.ShouldEqual, math.Inf(-1))
		i1, _ := Get(root, "i1")
		convey.So(MustInt(i1), convey.ShouldEqual, 1000)
		hex, _ := Get(root, "hex")
		convey.So(MustInt(hex), convey.ShouldEqual, 0xDEADBEEF)
		oct, _ := Get(root, "oct")
		convey.So(MustInt(oct), convey.ShouldEqual, 0755)
		bin, _ := Get(root, "bin")
		convey.So(MustInt(bin), convey.ShouldEqual, 10)
	})
}

func TestMultilineArrayAndTrailingComma(t *testing.T) {
	convey.Convey("multiline array with trailing comma", t, func() {
		src := `
ports = [
  8001,
  8002,
]
`
		root, err := Parse(strings.NewReader(src))
		convey.So(err, convey.ShouldBeNil)
		n, ok, err := GetUntyped(root, "ports")
		convey.So(err, convey.ShouldBeNil)
		convey.So(ok, convey.ShouldBeTrue)
		arr := n.([]any)
		convey.So(len(arr), convey.ShouldEqual, 2)
		convey.So(arr[0], convey.ShouldEqual, int64(8001))
		convey.So(arr[1], convey.ShouldEqual, int64(8002))
		t.Logf("%v", n)
	})
}

func entry(t *Table, key string) Node {
	n, _ := t.Get(key)
	return n
}

func TestDocumentOrder(t *testing.T) {
	convey.Convey("entries keep document order", t, func() {
		src := `
zeta = 1
alpha = 2
[mid]
b = 1
a = 2
`
		root, err := ParseBytes([]byte(src))
		convey.So(err, convey.ShouldBeNil)
		convey.So(root.Keys(), convey.ShouldResemble, []string{"zeta", "alpha", "mid"})
		mid, _ := Get(root, "mid")
		convey.So(mid.(*Table).Keys(), convey.ShouldResemble, []string{"b", "a"})
	})
}

func TestTableSemantics(t *testing.T) {
	convey.Convey("implicit and dotted tables", t, func() {
		src := `
fruit.apple.color = "red"
fruit.apple.taste.sweet = true

[x.y.z]
w = 1

[x]
v = 2

[[a.b]]
c = 1
[a.b.d]
e = 1
[[a.b]]
c = 2
`
		root, err := ParseBytes([]byte(src))
		convey.So(err, convey.ShouldBeNil)
		sweet, ok := Get(root, SplitPath("fruit.apple.taste.sweet")...)
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(sweet.(*Value).V, convey.ShouldEqual, true)
		v, _ := Get(root, "x", "v")
		convey.So(MustInt(v), convey.ShouldEqual, 2)
		b, _ := Get(root, "a", "b")
		convey.So(len(b.(*Array).Elems), convey.ShouldEqual, 2)
		e, ok := Get(b.(*Array).Elems[0].(*Table), "d", "e")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(MustInt(e), convey.ShouldEqual, 1)
	})

	convey.Convey("rejected documents", t, func() {
		cases := []struct {
			name string
			src  string
		}{
			{"table redefined", "[a]\nb = 1\n[a]\nc = 2\n"},
			{"dotted table redefined by header", "[fruit]\napple.color = 'red'\n[fruit.apple]\n"},
			{"header extended by dotted key", "[a.b]\nc = 1\n[a]\nb.d = 2\n"},
			{"inline table extended by header", "a = { b = 1 }\n[a]\nc = 2\n"},
			{"inline table extended by dotted key", "a = { b = 1 }\na.c = 2\n"},
			{"static array extended", "a = [1, 2]\n[[a]]\n"},
			{"value used as table", "a = 1\n[a.b]\n"},
			{"datetime used as table", "a = 1979-05-27\na.b = 1\n"},
			{"leading zero", "a = 012\n"},
			{"double underscore", "a = 1__2\n"},
			{"trailing underscore", "a = 1_\n"},
			{"hex overflow", "a = 0xFFFFFFFFFFFFFFFF\n"},
			{"decimal overflow", "a = 9223372036854775808\n"},
			{"float with leading zero", "a = 03.14\n"},
			{"unterminated string", "a = \"abc\n"},
		}
		for _, c := range cases {
			_, err := ParseBytes([]byte(c.src))
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, ErrParse), convey.ShouldBeTrue)
		}
	})

	convey.Convey("duplicate keys are located", t, func() {
		_, err := ParseBytes([]byte("a = 1\nb = 2\n  a = 3\n"))
		var dup *DuplicateKeyError
		convey.So(errors.As(err, &dup), convey.ShouldBeTrue)
		convey.So(dup.Key, convey.ShouldEqual, "a")
		convey.So(dup.Line, convey.ShouldEqual, 3)
		convey.So(dup.Column, convey.ShouldEqual, 3)
		convey.So(errors.Is(err, ErrDuplicateKey), convey.ShouldBeTrue)
	})

	convey.Convey("syntax errors carry a line", t, func() {
		_, err := ParseBytes([]byte("a = 1\nb = = 2\n"))
		var se *SyntaxError
		convey.So(errors.As(err, &se), convey.ShouldBeTrue)
		convey.So(se.Line, convey.ShouldEqual, 2)
		convey.So(errors.Is(err, ErrSyntax), convey.ShouldBeTrue)
	})

	convey.Convey("nesting beyond the limit", t, func() {
		src := "a = " + strings.Repeat("[", 20) + strings.Repeat("]", 20)
		_, err := parseDocument([]byte(src), 10)
		convey.So(errors.Is(err, ErrDepthExceeded), convey.ShouldBeTrue)
		convey.So(errors.Is(err, ErrParse), convey.ShouldBeTrue)
	})
}

func TestNumberTokens(t *testing.T) {
	convey.Convey("integers", t, func() {
		cases := map[string]int64{
			"0":                    0,
			"+17":                  17,
			"-17":                  -17,
			"1_000_000":            1000000,
			"0xdead_beef":          0xdeadbeef,
			"0o01234567":           01234567,
			"0b1101_0101":          0xd5,
			"9223372036854775807":  math.MaxInt64,
			"-9223372036854775808": math.MinInt64,
		}
		for src, want := range cases {
			got, err := parseIntToken(src)
			convey.So(err, convey.ShouldBeNil)
			convey.So(got, convey.ShouldEqual, want)
		}
		for _, src := range []string{"01", "+0x1", "0x", "0x_1", "1__0", "_1", "0b102", "--1"} {
			_, err := parseIntToken(src)
			convey.So(err, convey.ShouldNotBeNil)
		}
	})

	convey.Convey("floats", t, func() {
		cases := map[string]float64{
			"1.0":             1.0,
			"-0.5":            -0.5,
			"5e+22":           5e22,
			"1e06":            1e6,
			"-2E-2":           -0.02,
			"6.626e-34":       6.626e-34,
			"224_617.445_991": 224617.445991,
		}
		for src, want := range cases {
			got, err := parseFloatToken(src)
			convey.So(err, convey.ShouldBeNil)
			convey.So(got, convey.ShouldEqual, want)
		}
		nan, err := parseFloatToken("-nan")
		convey.So(err, convey.ShouldBeNil)
		convey.So(math.IsNaN(nan), convey.ShouldBeTrue)
		for _, src := range []string{".7", "7.", "3.e+20", "1e", "1._5", "00.1", "1e1.5"} {
			_, err := parseFloatToken(src)
			convey.So(err, convey.ShouldNotBeNil)
		}
	})
}
