package toml

import (
	"fmt"
	"strings"
	"time"

	gotoml "github.com/pelletier/go-toml/v2"
)

// Host-side naive temporal shapes. They are go-toml's own types so values
// decoded here can be handed to go-toml based code unchanged.
type (
	LocalDate     = gotoml.LocalDate
	LocalTime     = gotoml.LocalTime
	LocalDateTime = gotoml.LocalDateTime
)

// =========================
// Datetime
// =========================

// Offset is the zone suffix of an offset date-time. Zulu is the literal `Z`;
// otherwise Minutes holds the signed distance from UTC.
type Offset struct {
	Zulu    bool
	Minutes int
}

func (o Offset) String() string {
	if o.Zulu {
		return "Z"
	}
	sign := '+'
	m := o.Minutes
	if m < 0 {
		sign = '-'
		m = -m
	}
	return fmt.Sprintf("%c%02d:%02d", sign, m/60, m%60)
}

// Datetime is the TOML side of a temporal value: any of date, time and offset
// may be present, subject to Validate.
type Datetime struct {
	Date   *LocalDate
	Time   *LocalTime
	Offset *Offset
}

// Validate checks that at least one of date and time is present and that an
// offset only accompanies a full date-time.
func (d Datetime) Validate() error {
	if d.Date == nil && d.Time == nil {
		return &InvalidDatetimeError{Literal: d.String(), Reason: "neither date nor time present"}
	}
	if d.Offset != nil && (d.Date == nil || d.Time == nil) {
		return &InvalidDatetimeError{Literal: d.String(), Reason: "offset requires both date and time"}
	}
	return nil
}

func (d Datetime) String() string {
	var b strings.Builder
	if d.Date != nil {
		b.WriteString(d.Date.String())
	}
	if d.Time != nil {
		if d.Date != nil {
			b.WriteByte('T')
		}
		b.WriteString(d.Time.String())
	}
	if d.Offset != nil {
		b.WriteString(d.Offset.String())
	}
	return b.String()
}

// ParseDatetime parses a TOML date-time literal: an offset date-time, a local
// date-time, a local date or a local time.
func ParseDatetime(literal string) (Datetime, error) {
	var dt Datetime
	invalid := func(err error) (Datetime, error) {
		return Datetime{}, &InvalidDatetimeError{Literal: literal, Reason: err.Error()}
	}

	s := literal
	if len(s) >= 10 && s[4] == '-' {
		var date LocalDate
		if err := date.UnmarshalText([]byte(s[:10])); err != nil {
			return invalid(err)
		}
		dt.Date = &date
		if len(s) == 10 {
			return dt, nil
		}
		if sep := s[10]; sep != 'T' && sep != 't' && sep != ' ' {
			return invalid(fmt.Errorf("unexpected separator %q between date and time", sep))
		}
		s = s[11:]

		if i := offsetIndex(s); i >= 0 {
			off, err := parseOffset(s[i:])
			if err != nil {
				return invalid(err)
			}
			dt.Offset = &off
			s = s[:i]
		}
	}

	var t LocalTime
	if err := t.UnmarshalText([]byte(s)); err != nil {
		return invalid(err)
	}
	dt.Time = &t
	return dt, nil
}

// offsetIndex finds the start of the zone suffix of a time component.
func offsetIndex(s string) int {
	const minTimeLen = 8 // HH:MM:SS
	for i := minTimeLen; i < len(s); i++ {
		switch s[i] {
		case 'Z', 'z', '+', '-':
			return i
		}
	}
	return -1
}

func parseOffset(s string) (Offset, error) {
	if s == "Z" || s == "z" {
		return Offset{Zulu: true}, nil
	}
	if len(s) != 6 || (s[0] != '+' && s[0] != '-') || s[3] != ':' {
		return Offset{}, fmt.Errorf("invalid offset %q, expected Z or ±HH:MM", s)
	}
	hours, ok1 := twoDigits(s[1:3])
	minutes, ok2 := twoDigits(s[4:6])
	if !ok1 || !ok2 {
		return Offset{}, fmt.Errorf("invalid offset %q, expected digits", s)
	}
	if hours > 23 {
		return Offset{}, fmt.Errorf("offset hours %d out of range", hours)
	}
	if minutes > 59 {
		return Offset{}, fmt.Errorf("offset minutes %d out of range", minutes)
	}
	total := hours*60 + minutes
	if s[0] == '-' {
		total = -total
	}
	return Offset{Minutes: total}, nil
}

func twoDigits(s string) (int, bool) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

// =========================
// Zone
// =========================

// Zone is a fixed UTC offset attached to decoded offset date-times. The zero
// value is UTC.
type Zone struct {
	minutes int
}

// NewZone builds a zone from signed hours and minutes in [0, 60). The sign of
// hours applies to the whole offset; use ZoneFromOffset for offsets between
// -1h and 0.
func NewZone(hours, minutes int) (Zone, error) {
	if minutes < 0 || minutes >= 60 {
		return Zone{}, fmt.Errorf("toml: zone minutes %d out of range [0, 60)", minutes)
	}
	if hours <= -24 || hours >= 24 {
		return Zone{}, fmt.Errorf("toml: zone hours %d out of range", hours)
	}
	total := hours*60 + minutes
	if hours < 0 {
		total = hours*60 - minutes
	}
	return Zone{minutes: total}, nil
}

// ZoneFromOffset builds a zone from an offset in seconds east of UTC. Seconds
// below a minute are dropped.
func ZoneFromOffset(seconds int) Zone {
	return Zone{minutes: seconds / 60}
}

// ZoneOf returns the zone of t's location at t.
func ZoneOf(t time.Time) Zone {
	_, off := t.Zone()
	return ZoneFromOffset(off)
}

// Hours is the signed hour part of the offset.
func (z Zone) Hours() int { return z.minutes / 60 }

// Minutes is the minute part of the offset, always in [0, 60).
func (z Zone) Minutes() int {
	m := z.minutes % 60
	if m < 0 {
		m = -m
	}
	return m
}

func (z Zone) OffsetSeconds() int { return z.minutes * 60 }

func (z Zone) IsUTC() bool { return z.minutes == 0 }

func (z Zone) String() string {
	if z.minutes == 0 {
		return "UTC"
	}
	sign := '+'
	if z.minutes < 0 {
		sign = '-'
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, abs(z.Hours()), z.Minutes())
}

// Location is a fixed time.Location named after String.
func (z Zone) Location() *time.Location {
	if z.minutes == 0 {
		return time.UTC
	}
	return time.FixedZone(z.String(), z.OffsetSeconds())
}

// Offset is the literal suffix for this zone, `Z` for UTC.
func (z Zone) Offset() Offset {
	if z.minutes == 0 {
		return Offset{Zulu: true}
	}
	return Offset{Minutes: z.minutes}
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
