package app

import (
	"tableflip.dev/dailyreport/pkg/datekey"
	"tableflip.dev/dailyreport/pkg/entry"
	"tableflip.dev/dailyreport/pkg/store"
)

// ReportDTO is a transport-friendly projection of a saved report.
type ReportDTO struct {
	Date    string `json:"date" yaml:"date"`
	Display string `json:"display" yaml:"display"`
	Company string `json:"company" yaml:"company"`
	Report  string `json:"report" yaml:"report"`
	SavedAt string `json:"savedAt,omitempty" yaml:"savedAt,omitempty"`
}

// NewReportDTO projects the entry saved for key.
func NewReportDTO(key datekey.Key, e entry.Entry) ReportDTO {
	dto := ReportDTO{
		Date:    string(key),
		Display: key.Format(),
		Company: e.Company,
		Report:  e.Report,
	}
	if !e.SavedAt.IsZero() {
		dto.SavedAt = entry.FormatTime(e.SavedAt.Time)
	}
	return dto
}

// ReportDTOs projects records, keeping their order.
func ReportDTOs(records []store.Record) []ReportDTO {
	out := make([]ReportDTO, 0, len(records))
	for _, r := range records {
		out = append(out, NewReportDTO(r.Key, r.Entry))
	}
	return out
}
