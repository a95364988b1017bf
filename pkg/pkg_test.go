package pkg

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestFileOperate(t *testing.T) {
	convey.Convey("CheckFileExist", t, func() {
		dir := t.TempDir()
		exist, err := CheckFileExist(filepath.Join(dir, "nope.toml"))
		convey.So(err, convey.ShouldBeNil)
		convey.So(exist, convey.ShouldBeFalse)

		path := filepath.Join(dir, "a.toml")
		convey.So(os.WriteFile(path, []byte("a = 1\n"), 0o644), convey.ShouldBeNil)
		exist, err = CheckFileExist(path)
		convey.So(err, convey.ShouldBeNil)
		convey.So(exist, convey.ShouldBeTrue)
	})

	convey.Convey("OpenInput", t, func() {
		rc, err := OpenInput("-", strings.NewReader("from stdin"))
		convey.So(err, convey.ShouldBeNil)
		b, _ := io.ReadAll(rc)
		convey.So(string(b), convey.ShouldEqual, "from stdin")

		_, err = OpenInput(filepath.Join(t.TempDir(), "missing"), nil)
		convey.So(errors.Is(err, os.ErrNotExist), convey.ShouldBeTrue)
	})

	convey.Convey("WriteOutput", t, func() {
		var buf bytes.Buffer
		convey.So(WriteOutput("", []byte("x"), &buf), convey.ShouldBeNil)
		convey.So(buf.String(), convey.ShouldEqual, "x")

		path := filepath.Join(t.TempDir(), "nested", "out.toml")
		convey.So(WriteOutput(path, []byte("a = 1\n"), nil), convey.ShouldBeNil)
		b, err := os.ReadFile(path)
		convey.So(err, convey.ShouldBeNil)
		convey.So(string(b), convey.ShouldEqual, "a = 1\n")
	})
}

func TestLogger(t *testing.T) {
	convey.Convey("loggers travel on the context", t, func() {
		var buf bytes.Buffer
		logger := NewLogger(&buf, true)
		ctx := WithLogger(context.Background(), logger)
		LoggerFrom(ctx).Debug("decoded", "bytes", 12)
		convey.So(buf.String(), convey.ShouldContainSubstring, "bytes=12")

		buf.Reset()
		NewLogger(&buf, false).Debug("hidden")
		convey.So(buf.Len(), convey.ShouldEqual, 0)

		convey.So(LoggerFrom(context.Background()), convey.ShouldNotBeNil)
	})
}
