package core

import (
	"bytes"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// ID is a backend primary key. The backend is not consistent about its JSON type,
// so both 42 and "42" are accepted; it is always written as a number.
type ID int

func ParseID(s string) (ID, error) {
	n, err := strconv.Atoi(CleanString(s))
	if err != nil || n <= 0 {
		return 0, errors.Errorf("invalid id %q", s)
	}
	return ID(n), nil
}

func (id ID) String() string { return strconv.Itoa(int(id)) }

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return errors.Wrapf(err, "decoding id %s", data)
	}
	*id = ID(n)
	return nil
}

const DateLayout = "2006-01-02"

// Date is a calendar date, encoded as YYYY-MM-DD. The zero Date encodes as null.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	s = CleanString(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		// datetimes are accepted too, only the date part is kept
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return Date{}, errors.Errorf("invalid date %q (want YYYY-MM-DD)", s)
		}
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Human formats d like "January 2, 2006".
func (d Date) Human() string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("January 2, 2006")
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(bytes.Trim(data, `"`)))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// naiveLayout is an ISO 8601 datetime without offset, as the backend writes generated_at.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// Timestamp is a point in time decoded from RFC 3339 or from an ISO datetime without offset.
// Datetimes without offset are read in local time. The zero Timestamp encodes as null.
type Timestamp struct {
	time.Time
}

func ParseTimestamp(s string) (Timestamp, error) {
	s = CleanString(s)
	if s == "" {
		return Timestamp{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Timestamp{t}, nil
	}
	t, err := time.ParseInLocation(naiveLayout, s, time.Local)
	if err != nil {
		return Timestamp{}, errors.Errorf("invalid timestamp %q", s)
	}
	return Timestamp{t}, nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + ts.Format(time.RFC3339Nano) + `"`), nil
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ts = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(string(bytes.Trim(data, `"`)))
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
