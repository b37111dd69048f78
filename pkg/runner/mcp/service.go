// Package mcp provides the Model Context Protocol server integration for
// dailyreport.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"tableflip.dev/dailyreport/pkg/app"
	"tableflip.dev/dailyreport/pkg/calendar"
	"tableflip.dev/dailyreport/pkg/datekey"
	"tableflip.dev/dailyreport/pkg/export"
	"tableflip.dev/dailyreport/pkg/store"
)

// Service coordinates store-backed operations shared by the MCP tools and
// resources. Mutations are serialized; each one runs through a fresh
// app.Controller so the same rules apply as in the TUI.
type Service struct {
	Reports  *store.Store
	Exporter app.Exporter
	Now      func() time.Time
	// OutDir is where export_report writes PDFs.
	OutDir string

	mu           sync.Mutex
	validateOnce sync.Once
	validate     *validator.Validate
}

// ErrReportNotFound is returned when no report is saved for a date.
var ErrReportNotFound = errors.New("report not found")

// DateArgs names a single day.
type DateArgs struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// MonthArgs optionally names a month; empty means the current month.
type MonthArgs struct {
	Month string `json:"month" validate:"omitempty,datetime=2006-01"`
}

// SaveArgs describe a save_report call. Nil fields keep saved values.
type SaveArgs struct {
	Date    string  `json:"date" validate:"required,datetime=2006-01-02"`
	Company *string `json:"company" validate:"omitempty,max=200"`
	Report  *string `json:"report" validate:"omitempty,max=20000"`
}

// ExportArgs optionally filter an export to one day.
type ExportArgs struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// ExportResult describes a written PDF.
type ExportResult struct {
	Path     string   `json:"path"`
	Filename string   `json:"filename"`
	Entries  []string `json:"entries"`
	Pages    int      `json:"pages"`
	Size     int      `json:"size"`
}

// CalendarDay is one day of a month view.
type CalendarDay struct {
	Day      int    `json:"day"`
	Date     string `json:"date"`
	HasEntry bool   `json:"hasEntry"`
	IsToday  bool   `json:"isToday"`
	IsFuture bool   `json:"isFuture"`
}

// CalendarDTO is a month view with Sunday-first padding.
type CalendarDTO struct {
	Title        string        `json:"title"`
	Month        string        `json:"month"`
	LeadingBlank int           `json:"leadingBlank"`
	Days         []CalendarDay `json:"days"`
	Saved        int           `json:"saved"`
	Total        int           `json:"total"`
}

// NewService builds a service over reports.
func NewService(reports *store.Store, exporter app.Exporter) *Service {
	return &Service{Reports: reports, Exporter: exporter}
}

func (s *Service) validator() *validator.Validate {
	s.validateOnce.Do(func() {
		s.validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return s.validate
}

// Validate checks tool arguments against their struct tags.
func (s *Service) Validate(args any) error {
	if err := s.validator().Struct(args); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s: failed %q check", strings.ToLower(fe.Field()), fe.Tag())
		}
		return err
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) controller() (*app.Controller, error) {
	if s.Reports == nil {
		return nil, errors.New("report store is not configured")
	}
	return app.New(s.Reports, app.WithClock(s.now), app.WithExporter(s.Exporter)), nil
}

// ListReports returns saved reports newest first, optionally for one month
// given as YYYY-MM.
func (s *Service) ListReports(ctx context.Context, args MonthArgs) ([]app.ReportDTO, error) {
	if err := s.Validate(args); err != nil {
		return nil, err
	}
	if s.Reports == nil {
		return nil, errors.New("report store is not configured")
	}
	records := s.Reports.List(store.Descending)
	if args.Month == "" {
		return app.ReportDTOs(records), nil
	}
	out := records[:0:0]
	for _, r := range records {
		if strings.HasPrefix(string(r.Key), args.Month+"-") {
			out = append(out, r)
		}
	}
	return app.ReportDTOs(out), nil
}

// GetReport returns the report saved for args.Date.
func (s *Service) GetReport(ctx context.Context, args DateArgs) (app.ReportDTO, error) {
	if err := s.Validate(args); err != nil {
		return app.ReportDTO{}, err
	}
	key, err := datekey.Parse(args.Date)
	if err != nil {
		return app.ReportDTO{}, err
	}
	if s.Reports == nil {
		return app.ReportDTO{}, errors.New("report store is not configured")
	}
	e, ok := s.Reports.Get(key)
	if !ok {
		return app.ReportDTO{}, fmt.Errorf("%w: %s", ErrReportNotFound, key)
	}
	return app.NewReportDTO(key, e), nil
}

// SaveReport upserts the report for a day that is not in the future.
// A persistence failure is returned alongside the saved DTO.
func (s *Service) SaveReport(ctx context.Context, args SaveArgs) (app.ReportDTO, error) {
	if err := s.Validate(args); err != nil {
		return app.ReportDTO{}, err
	}
	key, err := datekey.Parse(args.Date)
	if err != nil {
		return app.ReportDTO{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.controller()
	if err != nil {
		return app.ReportDTO{}, err
	}
	if err := c.SelectDate(key); err != nil {
		return app.ReportDTO{}, err
	}
	if args.Company != nil {
		c.SetCompany(*args.Company)
	}
	if args.Report != nil {
		c.SetReport(*args.Report)
	}
	e, err := c.SaveDraft()
	if err != nil && !store.IsPersistenceError(err) {
		return app.ReportDTO{}, err
	}
	return app.NewReportDTO(key, e), err
}

// DeleteReport removes the report for a day.
func (s *Service) DeleteReport(ctx context.Context, args DateArgs) error {
	if err := s.Validate(args); err != nil {
		return err
	}
	key, err := datekey.Parse(args.Date)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.controller()
	if err != nil {
		return err
	}
	if err := c.JumpToEntry(key); err != nil {
		return err
	}
	if err := c.DeleteEntry(); err != nil {
		if errors.Is(err, app.ErrNoEntry) {
			return fmt.Errorf("%w: %s", ErrReportNotFound, key)
		}
		return err
	}
	return nil
}

// Render produces the PDF for args without writing it.
func (s *Service) Render(ctx context.Context, args ExportArgs) (*export.Document, error) {
	if err := s.Validate(args); err != nil {
		return nil, err
	}
	c, err := s.controller()
	if err != nil {
		return nil, err
	}
	if args.Date == "" {
		return c.Export(nil)
	}
	key, err := datekey.Parse(args.Date)
	if err != nil {
		return nil, err
	}
	return c.Export(&key)
}

// ExportReport renders and writes the PDF into OutDir.
func (s *Service) ExportReport(ctx context.Context, args ExportArgs) (ExportResult, error) {
	doc, err := s.Render(ctx, args)
	if err != nil {
		return ExportResult{}, err
	}
	path, err := doc.Save(s.OutDir)
	if err != nil {
		return ExportResult{}, err
	}
	entries := make([]string, 0, len(doc.Plan.Entries))
	for _, k := range doc.Plan.Entries {
		entries = append(entries, string(k))
	}
	return ExportResult{
		Path:     path,
		Filename: doc.Filename,
		Entries:  entries,
		Pages:    len(doc.Plan.Pages),
		Size:     len(doc.Bytes()),
	}, nil
}

// Calendar returns the month view for args.Month, or the current month.
func (s *Service) Calendar(ctx context.Context, args MonthArgs) (CalendarDTO, error) {
	if err := s.Validate(args); err != nil {
		return CalendarDTO{}, err
	}
	c, err := s.controller()
	if err != nil {
		return CalendarDTO{}, err
	}
	if args.Month != "" {
		key, err := datekey.Parse(args.Month + "-01")
		if err != nil {
			return CalendarDTO{}, err
		}
		if err := c.JumpToEntry(key); err != nil {
			return CalendarDTO{}, err
		}
		c.ClearSelection()
	}

	v := c.View()
	dto := CalendarDTO{
		Title:        v.Title(),
		Month:        fmt.Sprintf("%04d-%02d", v.Year, v.Month+1),
		LeadingBlank: calendar.FirstWeekday(v.Year, v.Month),
		Total:        c.Total(),
	}
	for _, cell := range c.Grid() {
		if cell.Day == 0 {
			continue
		}
		if cell.Flags.HasEntry {
			dto.Saved++
		}
		dto.Days = append(dto.Days, CalendarDay{
			Day:      cell.Day,
			Date:     string(cell.Key),
			HasEntry: cell.Flags.HasEntry,
			IsToday:  cell.Flags.IsToday,
			IsFuture: cell.Flags.IsFuture,
		})
	}
	return dto, nil
}
