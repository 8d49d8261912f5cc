package reporter

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/winkeep/winkeep/internal/models"
	"github.com/winkeep/winkeep/internal/tracker"
	"github.com/winkeep/winkeep/pkg/utils"
)

// ErrInvalidPeriod is returned for a period other than day, week, month or all
var ErrInvalidPeriod = errors.New("invalid period type")

// EventSource provides journaled tracker events
type EventSource interface {
	GetEventsSince(since time.Time) ([]*models.TrackerEvent, error)
}

// Reporter handles report generation
type Reporter struct {
	title string
	repo  EventSource
	now   func() time.Time
}

// New creates a new reporter for the window with the given title
func New(title string, repo EventSource) *Reporter {
	return &Reporter{
		title: title,
		repo:  repo,
		now:   time.Now,
	}
}

// GenerateReport generates a report for the specified period
func (r *Reporter) GenerateReport(periodType string) (*models.Report, error) {
	period, err := r.getPeriod(periodType)
	if err != nil {
		return nil, err
	}

	events, err := r.repo.GetEventsSince(period.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracker events: %w", err)
	}

	report := &models.Report{
		Period:      *period,
		Title:       r.title,
		Sessions:    []models.Session{},
		GeneratedAt: r.now(),
	}

	var open *models.Session
	closeSession := func(end time.Time, stillOpen bool) {
		if open == nil {
			return
		}
		open.End = end
		open.Open = stillOpen
		open.Duration = int64(end.Sub(open.Start).Seconds())
		report.Sessions = append(report.Sessions, *open)
		open = nil
	}

	for _, e := range events {
		if e.Title != r.title || !e.Timestamp.Before(period.End) {
			continue
		}

		switch tracker.EventKind(e.Kind) {
		case tracker.EventFound:
			// A found without a closed means the process died mid-session.
			closeSession(e.Timestamp, false)
			report.Appearances++
			open = &models.Session{Start: e.Timestamp}
		case tracker.EventClosed, tracker.EventStopped:
			closeSession(e.Timestamp, false)
		case tracker.EventRestored:
			report.Restores++
		case tracker.EventQueryError, tracker.EventStoreError:
			report.Errors++
		case tracker.EventSample:
			ts := e.Timestamp
			report.LastGeometry = &models.Geometry{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
			report.LastGeometryAt = &ts
		}
	}

	end := r.now()
	if end.After(period.End) {
		end = period.End
	}
	closeSession(end, true)

	for _, s := range report.Sessions {
		report.TotalSeconds += s.Duration
		if s.Duration > report.LongestSeconds {
			report.LongestSeconds = s.Duration
		}
	}

	return report, nil
}

// getPeriod calculates the time range for the report
func (r *Reporter) getPeriod(periodType string) (*models.ReportPeriod, error) {
	now := r.now()
	var start, end time.Time

	switch periodType {
	case "day", "today":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end = start.Add(24 * time.Hour)

	case "week":
		// Start of week (Monday)
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday = 7
		}
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(weekday - 1))
		end = start.AddDate(0, 0, 7)

	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, 0)

	case "all":
		start = time.Time{}
		end = now.Add(time.Second)

	default:
		return nil, fmt.Errorf("%w: %s (valid: day, week, month, all)", ErrInvalidPeriod, periodType)
	}

	return &models.ReportPeriod{
		Start: start,
		End:   end,
		Type:  periodType,
	}, nil
}

// FormatReportText formats the report as human-readable text
func (r *Reporter) FormatReportText(report *models.Report) string {
	output := fmt.Sprintf("Window Report - '%s' (%s)\n", report.Title, report.Period.Type)
	if !report.Period.Start.IsZero() {
		output += fmt.Sprintf("Period: %s to %s\n",
			report.Period.Start.Format("2006-01-02 15:04"),
			report.Period.End.Format("2006-01-02 15:04"))
	}

	if report.Appearances == 0 {
		output += "\nWindow was not seen in this period.\n"
		return output
	}

	output += fmt.Sprintf("Appearances:   %d\n", report.Appearances)
	output += fmt.Sprintf("Visible Time:  %s\n", utils.FormatRoundedUnit(report.TotalSeconds))
	output += fmt.Sprintf("Longest:       %s\n", utils.FormatRoundedUnit(report.LongestSeconds))
	output += fmt.Sprintf("Restores:      %d\n", report.Restores)
	output += fmt.Sprintf("Errors:        %d\n", report.Errors)
	if g := report.LastGeometry; g != nil {
		output += fmt.Sprintf("Last Geometry: x=%d y=%d w=%d h=%d\n", g.X, g.Y, g.Width, g.Height)
	}

	output += fmt.Sprintf("\n%-20s %-20s %10s\n", "Shown", "Hidden", "Duration")
	output += fmt.Sprintf("%s\n", "----------------------------------------------------")

	for _, s := range report.Sessions {
		hidden := s.End.Format("2006-01-02 15:04:05")
		if s.Open {
			hidden = "(visible)"
		}
		output += fmt.Sprintf("%-20s %-20s %10s\n",
			s.Start.Format("2006-01-02 15:04:05"),
			hidden,
			utils.FormatRoundedUnit(s.Duration))
	}

	return output
}

// FormatReportJSON formats the report as JSON
func (r *Reporter) FormatReportJSON(report *models.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}
