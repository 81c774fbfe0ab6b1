package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/assignment"
	"github.com/trezcool/mentori/core/study"
	"github.com/trezcool/mentori/core/todo"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newAssignment(id string, start, end core.Date, completed bool, createdAt ...time.Time) assignment.Assignment {
	a := assignment.Assignment{ID: id, MenteeID: "m", Subject: core.SubjectMath, Title: "title " + id, StartDate: start, EndDate: end, Completed: completed, CreatedAt: t0}
	if len(createdAt) > 0 {
		a.CreatedAt = createdAt[0]
	}
	return a
}

func newTodo(id string, date core.Date, completed bool, createdAt time.Time) todo.Todo {
	return todo.Todo{ID: id, MenteeID: "m", Content: "todo " + id, Subject: null.StringFrom(core.SubjectKorean), TargetDate: date, Completed: completed, CreatedAt: createdAt}
}

func ids(items []Item) []string {
	res := make([]string, 0, len(items))
	for _, it := range items {
		res = append(res, string(it.Type)+":"+it.ID)
	}
	return res
}

func TestActiveItems(t *testing.T) {
	day := core.Date("2024-03-05")
	assignments := []assignment.Assignment{
		newAssignment("a1", "2024-03-01", "2024-03-10", false),
		newAssignment("a2", "2024-03-05", "2024-03-05", true), // single day
		newAssignment("a3", "2024-03-06", "2024-03-08", false), // future
		newAssignment("a4", "2024-02-20", "2024-03-04", false), // past
		newAssignment("a5", "2024-03-02", "2024-03-07", false),
		newAssignment("a2", "2024-03-05", "2024-03-05", true), // duplicate row
	}
	todos := []todo.Todo{
		newTodo("t2", day, true, t0.Add(2*time.Hour)),
		newTodo("t1", day, false, t0.Add(time.Hour)),
		newTodo("t3", "2024-03-06", false, t0),
	}

	items := ActiveItems(day, assignments, todos)
	assert.Equal(t, []string{"assignment:a2", "assignment:a5", "assignment:a1", "todo:t1", "todo:t2"}, ids(items))
	assert.Equal(t, Item{ID: "a2", Type: ItemAssignment, Subject: core.SubjectMath, Content: "title a2", Completed: true}, items[0])
	assert.Equal(t, Item{ID: "t1", Type: ItemTodo, Subject: core.SubjectKorean, Content: "todo t1"}, items[3])

	// single-day assignment is active for exactly that day
	assert.NotContains(t, ids(ActiveItems(day.AddDays(1), assignments, nil)), "assignment:a2")
	assert.NotContains(t, ids(ActiveItems(day.AddDays(-1), assignments, nil)), "assignment:a2")
}

func TestActiveItems_countProperty(t *testing.T) {
	var assignments []assignment.Assignment
	var todos []todo.Todo
	start := core.Date("2024-01-01")
	for i := 0; i < 20; i++ {
		s := start.AddDays(i % 7)
		assignments = append(assignments, newAssignment(string(rune('A'+i)), s, s.AddDays(i%4), i%2 == 0))
		todos = append(todos, newTodo(string(rune('a'+i)), start.AddDays(i%5), false, t0.Add(time.Duration(i)*time.Minute)))
	}

	for d := 0; d < 12; d++ {
		day := start.AddDays(d)
		var wantA, wantT int
		for _, a := range assignments {
			if a.StartDate <= day && day <= a.EndDate {
				wantA++
			}
		}
		for _, td := range todos {
			if td.TargetDate == day {
				wantT++
			}
		}
		items := ActiveItems(day, assignments, todos)
		assert.Len(t, items, wantA+wantT, day)

		seen := map[string]bool{}
		for _, k := range ids(items) {
			assert.False(t, seen[k], "duplicate %s", k)
			seen[k] = true
		}
	}
}

func TestProgress(t *testing.T) {
	mk := func(completed ...bool) []Item {
		items := make([]Item, 0, len(completed))
		for _, c := range completed {
			items = append(items, Item{Completed: c})
		}
		return items
	}
	tests := []struct {
		name  string
		items []Item
		want  int
	}{
		{name: "empty", items: nil, want: 0},
		{name: "none completed", items: mk(false, false), want: 0},
		{name: "3 of 4", items: mk(true, true, true, false), want: 75},
		{name: "1 of 3", items: mk(true, false, false), want: 33},
		{name: "2 of 3", items: mk(true, true, false), want: 67},
		{name: "1 of 8 rounds half up", items: mk(true, false, false, false, false, false, false, false), want: 13},
		{name: "all", items: mk(true, true), want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Progress(tt.items)
			assert.Equal(t, tt.want, got)
			assert.True(t, got >= 0 && got <= 100)
		})
	}
}

func TestStudyTime(t *testing.T) {
	today := core.Date("2024-03-10")
	sessions := []study.Session{
		{Subject: core.SubjectKorean, DurationSeconds: 600, SessionDate: today},
		{Subject: core.SubjectKorean, DurationSeconds: 60, SessionDate: today},
		{Subject: core.SubjectMath, DurationSeconds: 1200, SessionDate: "2024-03-01"}, // first day of window
		{Subject: "과학", DurationSeconds: 300, SessionDate: "2024-03-05"},
		{Subject: core.SubjectEnglish, DurationSeconds: 900, SessionDate: "2024-02-29"}, // out of window
		{Subject: core.SubjectEnglish, DurationSeconds: 100, SessionDate: "2024-03-11"}, // future
		{Subject: core.SubjectEnglish, DurationSeconds: -50, SessionDate: today},        // ignored
	}

	sum := StudyTime(today, DefaultStudyWindow, sessions)

	require.Len(t, sum.Days, 10)
	assert.Equal(t, core.Date("2024-03-01"), sum.From)
	assert.Equal(t, today, sum.To)
	assert.Equal(t, core.Date("2024-03-01"), sum.Days[0].Date)
	assert.Equal(t, today, sum.Days[9].Date)
	assert.EqualValues(t, 1200, sum.Days[0].Seconds)
	assert.EqualValues(t, 300, sum.Days[4].Seconds)
	assert.EqualValues(t, 660, sum.Days[9].Seconds)

	assert.Equal(t, []SubjectTotal{
		{Subject: core.SubjectKorean, Seconds: 660},
		{Subject: core.SubjectEnglish, Seconds: 0},
		{Subject: core.SubjectMath, Seconds: 1200},
		{Subject: core.SubjectOther, Seconds: 300},
	}, sum.Subjects)

	var daySum, subjSum int64
	for _, d := range sum.Days {
		assert.True(t, d.Seconds >= 0)
		daySum += d.Seconds
	}
	for _, s := range sum.Subjects {
		subjSum += s.Seconds
	}
	assert.EqualValues(t, 2160, sum.TotalSeconds)
	assert.Equal(t, sum.TotalSeconds, daySum)
	assert.Equal(t, sum.TotalSeconds, subjSum)
}

func TestStudyTime_defaultWindow(t *testing.T) {
	sum := StudyTime("2024-01-03", 0, nil)
	assert.Len(t, sum.Days, DefaultStudyWindow)
	assert.Equal(t, core.Date("2023-12-25"), sum.From)

	sum = StudyTime("2024-01-03", 1<<62, nil)
	assert.Len(t, sum.Days, MaxStudyWindow)
}

func TestMonthGrid(t *testing.T) {
	weeks := MonthGrid("2024-03")
	require.Len(t, weeks, 6)
	assert.Equal(t, core.Date("2024-02-25"), weeks[0].Start)
	assert.Equal(t, core.Date("2024-03-02"), weeks[0].End)
	assert.Equal(t, core.Date("2024-04-06"), weeks[5].End)
	for _, w := range weeks {
		assert.Equal(t, time.Sunday, w.Start.Weekday())
		assert.Len(t, w.Days, 7)
	}

	// month starting on a Sunday has no leading days
	weeks = MonthGrid("2024-09")
	assert.Equal(t, core.Date("2024-09-01"), weeks[0].Start)
}

func TestProjectAssignments(t *testing.T) {
	weeks := MonthGrid("2024-03")
	rows := ProjectAssignments(weeks, []assignment.Assignment{
		newAssignment("span", "2024-03-07", "2024-03-12", false), // Thu -> Tue
		newAssignment("single", "2024-03-04", "2024-03-05", true), // Mon -> Tue
		newAssignment("same", "2024-03-04", "2024-03-05", false),
		newAssignment("outside", "2024-05-01", "2024-05-02", false),
	})
	require.Len(t, rows, 6)

	week2 := rows[1].Segments // Mar 3 - Mar 9
	require.Len(t, week2, 3)
	assert.Equal(t, "same", week2[0].AssignmentID)
	assert.Equal(t, "single", week2[1].AssignmentID)
	assert.Equal(t, Segment{
		AssignmentID: "single", Subject: core.SubjectMath, Title: "title single", Completed: true,
		Start: "2024-03-04", End: "2024-03-05", ColumnStart: 1, ColumnEnd: 3,
		RoundedLeft: true, RoundedRight: true,
	}, week2[1])

	first := week2[2]
	assert.Equal(t, "span", first.AssignmentID)
	assert.Equal(t, 4, first.ColumnStart)
	assert.Equal(t, 7, first.ColumnEnd)
	assert.False(t, first.ContinuesFromPrevious)
	assert.True(t, first.ContinuesToNext)
	assert.True(t, first.RoundedLeft)
	assert.False(t, first.RoundedRight)

	week3 := rows[2].Segments // Mar 10 - Mar 16
	require.Len(t, week3, 1)
	second := week3[0]
	assert.Equal(t, core.Date("2024-03-10"), second.Start)
	assert.Equal(t, 0, second.ColumnStart)
	assert.Equal(t, 3, second.ColumnEnd)
	assert.True(t, second.ContinuesFromPrevious)
	assert.False(t, second.ContinuesToNext)
	assert.False(t, second.RoundedLeft)
	assert.True(t, second.RoundedRight)

	var spanSegments int
	for _, r := range rows {
		for _, s := range r.Segments {
			assert.NotEqual(t, "outside", s.AssignmentID)
			if s.AssignmentID == "span" {
				spanSegments++
			}
		}
	}
	assert.Equal(t, 2, spanSegments)
}
