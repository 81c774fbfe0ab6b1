package dashboard

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/assignment"
	"github.com/trezcool/mentori/core/report"
	"github.com/trezcool/mentori/core/study"
	"github.com/trezcool/mentori/core/todo"
)

var ErrItemNotFound = core.NewNotFoundError("item")

type (
	assignmentService interface {
		Get(ctx context.Context, id string) (assignment.Assignment, error)
		Query(ctx context.Context, filter assignment.QueryFilter) ([]assignment.Assignment, error)
		SetCompleted(ctx context.Context, a assignment.Assignment, completed bool) (assignment.Assignment, error)
		Delete(ctx context.Context, a assignment.Assignment) error
	}

	todoService interface {
		Get(ctx context.Context, id string) (todo.Todo, error)
		List(ctx context.Context, menteeID string, date core.Date) ([]todo.Todo, error)
		SetCompleted(ctx context.Context, t todo.Todo, completed bool) (todo.Todo, error)
		Delete(ctx context.Context, t todo.Todo) error
	}

	sessionLister interface {
		List(ctx context.Context, menteeID string, from, to core.Date) ([]study.Session, error)
	}

	reportIndexer interface {
		Index(ctx context.Context, menteeID string) (report.Index, error)
	}

	// Service fetches the rows of one scope and aggregates them.
	// Every view echoes its scope so clients can drop responses for a scope they left.
	Service struct {
		assignments assignmentService
		todos       todoService
		sessions    sessionLister
		reports     reportIndexer
	}
)

type (
	ItemsView struct {
		MenteeID  string    `json:"mentee_id"`
		Date      core.Date `json:"date"`
		Items     []Item    `json:"items"`
		Progress  int       `json:"progress"`
		Completed int       `json:"completed"`
		Total     int       `json:"total"`
	}

	ProgressView struct {
		MenteeID  string    `json:"mentee_id"`
		Date      core.Date `json:"date"`
		Progress  int       `json:"progress"`
		Completed int       `json:"completed"`
		Total     int       `json:"total"`
	}

	StudyView struct {
		MenteeID string    `json:"mentee_id"`
		Today    core.Date `json:"today"`
		StudySummary
	}

	CalendarView struct {
		MenteeID string     `json:"mentee_id"`
		Month    core.Month `json:"month"`
		Weeks    []WeekRow  `json:"weeks"`
	}

	ReportIndexView struct {
		MenteeID string              `json:"mentee_id"`
		Keys     []string            `json:"keys"`
		Reports  []report.IndexEntry `json:"reports"`
	}
)

func NewService(assignments assignmentService, todos todoService, sessions sessionLister, reports reportIndexer) *Service {
	return &Service{assignments: assignments, todos: todos, sessions: sessions, reports: reports}
}

func (svc *Service) activeItems(ctx context.Context, menteeID string, date core.Date) ([]Item, error) {
	assignments, err := svc.assignments.Query(ctx, assignment.QueryFilter{MenteeID: menteeID, ActiveOn: date})
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	todos, err := svc.todos.List(ctx, menteeID, date)
	if err != nil {
		return nil, errors.Wrap(err, "querying todos")
	}
	return ActiveItems(date, assignments, todos), nil
}

func (svc *Service) Items(ctx context.Context, menteeID string, date core.Date) (ItemsView, error) {
	items, err := svc.activeItems(ctx, menteeID, date)
	if err != nil {
		return ItemsView{}, err
	}
	completed, total := CountCompleted(items)
	return ItemsView{
		MenteeID:  menteeID,
		Date:      date,
		Items:     items,
		Progress:  Progress(items),
		Completed: completed,
		Total:     total,
	}, nil
}

func (svc *Service) Progress(ctx context.Context, menteeID string, date core.Date) (ProgressView, error) {
	items, err := svc.activeItems(ctx, menteeID, date)
	if err != nil {
		return ProgressView{}, err
	}
	completed, total := CountCompleted(items)
	return ProgressView{MenteeID: menteeID, Date: date, Progress: Progress(items), Completed: completed, Total: total}, nil
}

// StudyStats always recomputes from the stored sessions.
func (svc *Service) StudyStats(ctx context.Context, menteeID string, today core.Date, days int) (StudyView, error) {
	if days <= 0 {
		days = DefaultStudyWindow
	}
	sessions, err := svc.sessions.List(ctx, menteeID, today.AddDays(-(days - 1)), today)
	if err != nil {
		return StudyView{}, errors.Wrap(err, "querying study sessions")
	}
	return StudyView{MenteeID: menteeID, Today: today, StudySummary: StudyTime(today, days, sessions)}, nil
}

func (svc *Service) Calendar(ctx context.Context, menteeID string, month core.Month) (CalendarView, error) {
	weeks := MonthGrid(month)
	assignments, err := svc.assignments.Query(ctx, assignment.QueryFilter{
		MenteeID: menteeID,
		From:     weeks[0].Start,
		To:       weeks[len(weeks)-1].End,
	})
	if err != nil {
		return CalendarView{}, errors.Wrap(err, "querying assignments")
	}
	return CalendarView{MenteeID: menteeID, Month: month, Weeks: ProjectAssignments(weeks, assignments)}, nil
}

func (svc *Service) ReportIndex(ctx context.Context, menteeID string) (ReportIndexView, error) {
	idx, err := svc.reports.Index(ctx, menteeID)
	if err != nil {
		return ReportIndexView{}, errors.Wrap(err, "indexing reports")
	}
	return ReportIndexView{MenteeID: menteeID, Keys: idx.Keys(), Reports: idx.Entries()}, nil
}

// SetItemCompleted toggles the completion flag in the item's own table.
func (svc *Service) SetItemCompleted(ctx context.Context, menteeID string, typ ItemType, id string, completed bool) (Item, error) {
	switch typ {
	case ItemAssignment:
		a, err := svc.menteeAssignment(ctx, menteeID, id)
		if err != nil {
			return Item{}, err
		}
		if a, err = svc.assignments.SetCompleted(ctx, a, completed); err != nil {
			return Item{}, err
		}
		return fromAssignment(a), nil
	case ItemTodo:
		t, err := svc.menteeTodo(ctx, menteeID, id)
		if err != nil {
			return Item{}, err
		}
		if t, err = svc.todos.SetCompleted(ctx, t, completed); err != nil {
			return Item{}, err
		}
		return fromTodo(t), nil
	}
	return Item{}, ErrItemNotFound
}

// DeleteItem removes the item's underlying record.
func (svc *Service) DeleteItem(ctx context.Context, menteeID string, typ ItemType, id string) error {
	switch typ {
	case ItemAssignment:
		a, err := svc.menteeAssignment(ctx, menteeID, id)
		if err != nil {
			return err
		}
		return svc.assignments.Delete(ctx, a)
	case ItemTodo:
		t, err := svc.menteeTodo(ctx, menteeID, id)
		if err != nil {
			return err
		}
		return svc.todos.Delete(ctx, t)
	}
	return ErrItemNotFound
}

func (svc *Service) menteeAssignment(ctx context.Context, menteeID, id string) (assignment.Assignment, error) {
	a, err := svc.assignments.Get(ctx, id)
	if err != nil {
		return assignment.Assignment{}, err
	}
	if a.MenteeID != menteeID {
		return assignment.Assignment{}, ErrItemNotFound
	}
	return a, nil
}

func (svc *Service) menteeTodo(ctx context.Context, menteeID, id string) (todo.Todo, error) {
	t, err := svc.todos.Get(ctx, id)
	if err != nil {
		return todo.Todo{}, err
	}
	if t.MenteeID != menteeID {
		return todo.Todo{}, ErrItemNotFound
	}
	return t, nil
}
