// Package entry holds the daily report record and its editable draft.
package entry

import (
	"fmt"
	"time"
)

// Entry is a saved report for one day.
type Entry struct {
	Company string    `json:"company"`
	Report  string    `json:"report"`
	SavedAt Timestamp `json:"savedAt"`
}

// New stamps the draft content with the save time, kept to the millisecond
// precision the stored form carries.
func New(d Draft, savedAt time.Time) Entry {
	return Entry{
		Company: d.Company,
		Report:  d.Report,
		SavedAt: Timestamp{Time: savedAt.Truncate(time.Millisecond)},
	}
}

// Draft returns the editable fields of e.
func (e Entry) Draft() Draft {
	return Draft{Company: e.Company, Report: e.Report}
}

// Equal compares content and save time.
func (e Entry) Equal(o Entry) bool {
	return e.Company == o.Company && e.Report == o.Report && e.SavedAt.Equal(o.SavedAt.Time)
}

func (e Entry) String() string {
	company := e.Company
	if company == "" {
		company = "—"
	}
	return fmt.Sprintf("%s (saved %s)", company, e.SavedAt.Local().Format("2006-01-02 15:04"))
}

// Draft is the unsaved, in-progress content for the selected day.
type Draft struct {
	Company string `json:"company"`
	Report  string `json:"report"`
}

// IsEmpty reports whether both fields are blank.
func (d Draft) IsEmpty() bool {
	return d.Company == "" && d.Report == ""
}
