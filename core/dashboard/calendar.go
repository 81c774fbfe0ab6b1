package dashboard

import (
	"sort"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/assignment"
)

const (
	daysPerWeek = 7
	gridRows    = 6
)

// Week is one Sunday-first row of the month grid.
type Week struct {
	Start core.Date   `json:"start"` // Sunday
	End   core.Date   `json:"end"`   // Saturday
	Days  []core.Date `json:"days"`
}

// Segment is the part of an assignment interval drawn on one week row.
// Columns are day offsets from the week start; ColumnEnd is exclusive.
type Segment struct {
	AssignmentID          string    `json:"assignment_id"`
	Subject               string    `json:"subject"`
	Title                 string    `json:"title"`
	Completed             bool      `json:"completed"`
	Start                 core.Date `json:"start"`
	End                   core.Date `json:"end"`
	ColumnStart           int       `json:"column_start"`
	ColumnEnd             int       `json:"column_end"`
	ContinuesFromPrevious bool      `json:"continues_from_previous"`
	ContinuesToNext       bool      `json:"continues_to_next"`
	RoundedLeft           bool      `json:"rounded_left"`
	RoundedRight          bool      `json:"rounded_right"`
}

type WeekRow struct {
	Week
	Segments []Segment `json:"segments"`
}

// MonthGrid returns the 6 week rows covering the month plus the leading and trailing days of adjacent months.
func MonthGrid(m core.Month) []Week {
	first := m.FirstDay()
	start := first.AddDays(-int(first.Weekday()))

	weeks := make([]Week, gridRows)
	for w := range weeks {
		ws := start.AddDays(w * daysPerWeek)
		days := make([]core.Date, daysPerWeek)
		for d := range days {
			days[d] = ws.AddDays(d)
		}
		weeks[w] = Week{Start: ws, End: days[daysPerWeek-1], Days: days}
	}
	return weeks
}

// ProjectAssignments clips every assignment interval to the week rows it intersects.
// All intersecting assignments are kept, ordered by start_date, then end_date, then id.
func ProjectAssignments(weeks []Week, assignments []assignment.Assignment) []WeekRow {
	sorted := make([]assignment.Assignment, 0, len(assignments))
	for _, a := range assignments {
		if a.StartDate.Valid() && a.EndDate.Valid() && a.StartDate <= a.EndDate {
			sorted = append(sorted, a)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.StartDate != b.StartDate {
			return a.StartDate < b.StartDate
		}
		if a.EndDate != b.EndDate {
			return a.EndDate < b.EndDate
		}
		return a.ID < b.ID
	})

	rows := make([]WeekRow, len(weeks))
	for i, w := range weeks {
		rows[i] = WeekRow{Week: w, Segments: []Segment{}}
		for _, a := range sorted {
			if seg, ok := projectOnWeek(w, a); ok {
				rows[i].Segments = append(rows[i].Segments, seg)
			}
		}
	}
	return rows
}

func projectOnWeek(w Week, a assignment.Assignment) (Segment, bool) {
	if !a.Intersects(w.Start, w.End) {
		return Segment{}, false
	}
	start, end := a.StartDate, a.EndDate
	fromPrev := start < w.Start
	toNext := end > w.End
	if fromPrev {
		start = w.Start
	}
	if toNext {
		end = w.End
	}
	return Segment{
		AssignmentID:          a.ID,
		Subject:               a.Subject,
		Title:                 a.Title,
		Completed:             a.Completed,
		Start:                 start,
		End:                   end,
		ColumnStart:           w.Start.DaysUntil(start),
		ColumnEnd:             w.Start.DaysUntil(end) + 1,
		ContinuesFromPrevious: fromPrev,
		ContinuesToNext:       toNext,
		RoundedLeft:           !fromPrev,
		RoundedRight:          !toNext,
	}, true
}
