package toml

import (
	"errors"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
)

func mustDatetime(literal string) Datetime {
	dt, err := ParseDatetime(literal)
	if err != nil {
		panic(err)
	}
	return dt
}

func TestToHost(t *testing.T) {
	convey.Convey("offset date-time becomes a zoned time.Time", t, func() {
		v, err := ToHost(mustDatetime("1979-05-27T00:32:00-07:00"))
		convey.So(err, convey.ShouldBeNil)
		tm := v.(time.Time)
		name, off := tm.Zone()
		convey.So(name, convey.ShouldEqual, "UTC-07:00")
		convey.So(off, convey.ShouldEqual, -7*3600)
		convey.So(tm.Equal(time.Date(1979, 5, 27, 7, 32, 0, 0, time.UTC)), convey.ShouldBeTrue)
	})

	convey.Convey("Z maps to time.UTC", t, func() {
		v, err := ToHost(mustDatetime("1979-05-27T07:32:00Z"))
		convey.So(err, convey.ShouldBeNil)
		convey.So(v.(time.Time).Location(), convey.ShouldEqual, time.UTC)
	})

	convey.Convey("naive shapes", t, func() {
		v, err := ToHost(mustDatetime("1979-05-27T07:32:00"))
		convey.So(err, convey.ShouldBeNil)
		convey.So(v, convey.ShouldHaveSameTypeAs, LocalDateTime{})

		v, err = ToHost(mustDatetime("1979-05-27"))
		convey.So(err, convey.ShouldBeNil)
		convey.So(v, convey.ShouldResemble, LocalDate{Year: 1979, Month: 5, Day: 27})

		v, err = ToHost(mustDatetime("07:32:00"))
		convey.So(err, convey.ShouldBeNil)
		convey.So(v, convey.ShouldResemble, LocalTime{Hour: 7, Minute: 32})
	})

	convey.Convey("fractions are truncated to microseconds", t, func() {
		v, err := ToHost(mustDatetime("00:00:00.123456789"))
		convey.So(err, convey.ShouldBeNil)
		lt := v.(LocalTime)
		convey.So(lt.Nanosecond, convey.ShouldEqual, 123456000)
		convey.So(lt.String(), convey.ShouldEqual, "00:00:00.123456")
	})

	convey.Convey("invalid combinations are refused", t, func() {
		tm := LocalTime{Hour: 1}
		_, err := ToHost(Datetime{Time: &tm, Offset: &Offset{Minutes: 60}})
		convey.So(errors.Is(err, ErrInvalidDatetime), convey.ShouldBeTrue)
	})
}

func TestFromHost(t *testing.T) {
	convey.Convey("zoned times", t, func() {
		dt, err := FromHost(time.Date(1979, 5, 27, 7, 32, 0, 0, time.UTC))
		convey.So(err, convey.ShouldBeNil)
		convey.So(dt.String(), convey.ShouldEqual, "1979-05-27T07:32:00Z")

		z, _ := NewZone(-8, 0)
		dt, err = FromHost(time.Date(1979, 5, 27, 7, 32, 0, 5000, z.Location()))
		convey.So(err, convey.ShouldBeNil)
		convey.So(dt.String(), convey.ShouldEqual, "1979-05-27T07:32:00.000005-08:00")
	})

	convey.Convey("naive values", t, func() {
		dt, err := FromHost(LocalTime{Hour: 12, Second: 59, Nanosecond: 23456000})
		convey.So(err, convey.ShouldBeNil)
		convey.So(dt.String(), convey.ShouldEqual, "12:00:59.023456")

		dt, err = FromHost(LocalDate{Year: 2024, Month: 2, Day: 29})
		convey.So(err, convey.ShouldBeNil)
		convey.So(dt.String(), convey.ShouldEqual, "2024-02-29")
	})

	convey.Convey("round trip through the host shape", t, func() {
		for _, literal := range []string{
			"1979-05-27T07:32:00Z",
			"1979-05-27T07:32:00.5+05:15",
			"1979-05-27T07:32:00",
			"1979-05-27",
			"07:32:00.25",
		} {
			host, err := ToHost(mustDatetime(literal))
			convey.So(err, convey.ShouldBeNil)
			dt, err := FromHost(host)
			convey.So(err, convey.ShouldBeNil)
			back, err := ToHost(dt)
			convey.So(err, convey.ShouldBeNil)
			convey.So(back, convey.ShouldResemble, host)
		}
	})

	convey.Convey("impossible host values", t, func() {
		_, err := FromHost(LocalDate{Year: 1979, Month: 2, Day: 30})
		convey.So(errors.Is(err, ErrUnserializableType), convey.ShouldBeTrue)
		_, err = FromHost("1979-05-27")
		convey.So(errors.Is(err, ErrUnserializableType), convey.ShouldBeTrue)

		odd := time.Date(1979, 5, 27, 7, 32, 0, 0, time.FixedZone("odd", 3630))
		_, err = FromHost(odd)
		convey.So(errors.Is(err, ErrUnserializableType), convey.ShouldBeTrue)
		_, err = Serialize(Map{{Key: "t", Value: odd}})
		convey.So(errors.Is(err, ErrUnserializableType), convey.ShouldBeTrue)
	})
}
