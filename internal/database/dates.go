package database

import (
	"database/sql"
	"time"
)

// Dates are stored as YYYY-MM-DD text so that range filters and overdue
// sweeps compare lexicographically. Timestamps are RFC 3339 in UTC.
const (
	DateLayout = "2006-01-02"
	TimeLayout = time.RFC3339
)

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Day is the calendar day of t as it reads back from a date column.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Timestamp is t as it will read back from the store: UTC, whole seconds.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

// NullableDate binds nil for a missing date.
func NullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return FormatDate(*t)
}

func NullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return FormatTime(*t)
}

func ScanNullDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := ParseDate(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func ScanNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := ParseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// NullableString binds nil for a nil pointer.
func NullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func ScanNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func NullableInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func ScanNullInt(i sql.NullInt64) *int {
	if !i.Valid {
		return nil
	}
	v := int(i.Int64)
	return &v
}
