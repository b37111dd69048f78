// Package datekey converts calendar days to and from their canonical
// YYYY-MM-DD keys.
package datekey

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	layoutISO     = "2006-01-02"
	layoutDisplay = "Monday, 2 January 2006"
)

// ErrInvalidKey is returned when a string is not a canonical key for a real day.
var ErrInvalidKey = errors.New("datekey: invalid key")

var keyPattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// Key is a zero-padded YYYY-MM-DD day identifier. Keys sort lexicographically
// in chronological order.
type Key string

// Encode builds the key for the given year, zero-based month and day.
func Encode(year, month, day int) (Key, error) {
	if year < 0 || year > 9999 {
		return "", fmt.Errorf("%w: year %d out of range", ErrInvalidKey, year)
	}
	if month < 0 || month > 11 {
		return "", fmt.Errorf("%w: month %d out of range", ErrInvalidKey, month)
	}
	if day < 1 || day > DaysIn(year, month) {
		return "", fmt.Errorf("%w: day %d out of range for %04d-%02d", ErrInvalidKey, day, year, month+1)
	}
	return Key(fmt.Sprintf("%04d-%02d-%02d", year, month+1, day)), nil
}

// MustEncode is Encode for callers that already hold a valid date.
func MustEncode(year, month, day int) Key {
	k, err := Encode(year, month, day)
	if err != nil {
		panic(err)
	}
	return k
}

// FromTime returns the key for the local calendar day of t.
func FromTime(t time.Time) Key {
	return Key(t.Format(layoutISO))
}

// Today is FromTime for the clock reading now.
func Today(now time.Time) Key {
	return FromTime(now)
}

// Parse validates s and returns it as a Key.
func Parse(s string) (Key, error) {
	m := keyPattern.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("%w: %q does not match YYYY-MM-DD", ErrInvalidKey, s)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if _, err := Encode(year, month-1, day); err != nil {
		return "", fmt.Errorf("%w: %q is not a calendar date", ErrInvalidKey, s)
	}
	return Key(s), nil
}

// Decode returns the year, zero-based month and day of k.
func (k Key) Decode() (year, month, day int, err error) {
	if _, err := Parse(string(k)); err != nil {
		return 0, 0, 0, err
	}
	s := string(k)
	year, _ = strconv.Atoi(s[0:4])
	month, _ = strconv.Atoi(s[5:7])
	day, _ = strconv.Atoi(s[8:10])
	return year, month - 1, day, nil
}

// Date returns midnight of the day in loc.
func (k Key) Date(loc *time.Location) (time.Time, error) {
	y, m, d, err := k.Decode()
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Date(y, time.Month(m+1), d, 0, 0, 0, 0, loc), nil
}

// Format renders k as "Monday, 5 February 2024". Invalid keys are returned
// unchanged.
func (k Key) Format() string {
	t, err := k.Date(time.UTC)
	if err != nil {
		return string(k)
	}
	return t.Format(layoutDisplay)
}

// After reports whether k is a later day than other.
func (k Key) After(other Key) bool {
	return k > other
}

// Month returns the year and zero-based month of k.
func (k Key) Month() (year, month int) {
	y, m, _, err := k.Decode()
	if err != nil {
		return 0, 0
	}
	return y, m
}

func (k Key) String() string {
	return string(k)
}

// IsLeap applies the Gregorian leap year rule.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysIn returns the number of days in the zero-based month of year.
func DaysIn(year, month int) int {
	if month < 0 || month > 11 {
		return 0
	}
	if month == 1 && IsLeap(year) {
		return 29
	}
	return monthDays[month]
}
