package entry

import (
	"encoding/json"
	"fmt"
	"time"
)

// layoutJSON matches the millisecond UTC form written by browsers'
// Date.toISOString.
const layoutJSON = "2006-01-02T15:04:05.000Z07:00"

func ParseTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(fmt.Sprintf("%q", FormatTime(t.Time))), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var timestamp string
	if err := json.Unmarshal(b, &timestamp); err != nil {
		return err
	}
	if timestamp == "" {
		t.Time = time.Time{}
		return nil
	}
	var err error
	t.Time, err = ParseTime(timestamp)
	return err
}

func (t Timestamp) String() string {
	return FormatTime(t.Time)
}

func FormatTime(v time.Time) string {
	return v.UTC().Format(layoutJSON)
}
