package toml

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// HostResolution is the finest fractional second kept on decoded temporal
// values. Finer digits are truncated, never rounded.
const HostResolution = time.Microsecond

const hostPrecision = 6 // digits of HostResolution

// ToHost converts dt to its host shape: time.Time for an offset date-time,
// LocalDateTime, LocalDate or LocalTime otherwise.
func ToHost(dt Datetime) (any, error) {
	if err := dt.Validate(); err != nil {
		return nil, err
	}
	switch {
	case dt.Date != nil && dt.Time != nil && dt.Offset != nil:
		t := truncateTime(*dt.Time)
		zone := Zone{minutes: dt.Offset.Minutes}
		if dt.Offset.Zulu {
			zone = Zone{}
		}
		return time.Date(dt.Date.Year, time.Month(dt.Date.Month), dt.Date.Day,
			t.Hour, t.Minute, t.Second, t.Nanosecond, zone.Location()), nil
	case dt.Date != nil && dt.Time != nil:
		return LocalDateTime{LocalDate: *dt.Date, LocalTime: truncateTime(*dt.Time)}, nil
	case dt.Date != nil:
		return *dt.Date, nil
	default:
		return truncateTime(*dt.Time), nil
	}
}

func truncateTime(t LocalTime) LocalTime {
	res := int(HostResolution)
	t.Nanosecond = t.Nanosecond / res * res
	if t.Precision > hostPrecision {
		t.Precision = hostPrecision
	}
	return t
}

// FromHost converts a host temporal value back to a Datetime by rendering its
// literal form and parsing it, so only public accessors of the host types are
// used. An offset of zero renders as `Z`.
func FromHost(v any) (Datetime, error) {
	var literal string
	switch t := v.(type) {
	case time.Time:
		if _, off := t.Zone(); off%60 != 0 {
			return Datetime{}, &UnserializableTypeError{
				TypeName: "time.Time",
				Repr:     t.String(),
				Reason:   "offset has a seconds part, TOML offsets are whole minutes",
			}
		}
		literal = formatHostTime(t)
	case LocalDateTime:
		literal = t.String()
	case LocalDate:
		literal = t.String()
	case LocalTime:
		literal = t.String()
	default:
		return Datetime{}, &UnserializableTypeError{
			TypeName: fmt.Sprintf("%T", v),
			Repr:     fmt.Sprintf("%#v", v),
			Reason:   "not a date or time",
		}
	}
	dt, err := ParseDatetime(literal)
	if err != nil {
		return Datetime{}, &UnserializableTypeError{
			TypeName: reflect.TypeOf(v).String(),
			Repr:     literal,
			Reason:   "unable to convert to a TOML datetime: " + err.Error(),
		}
	}
	return dt, nil
}

func formatHostTime(t time.Time) string {
	var b strings.Builder
	b.WriteString(t.Format("2006-01-02T15:04:05"))
	if ns := t.Nanosecond(); ns != 0 {
		if ns%int(HostResolution) == 0 {
			fmt.Fprintf(&b, ".%06d", ns/int(HostResolution))
		} else {
			fmt.Fprintf(&b, ".%09d", ns)
		}
	}
	b.WriteString(ZoneOf(t).Offset().String())
	return b.String()
}
