package todo

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/events"
)

var ErrNotFound = core.NewNotFoundError("todo")

// Todo is a mentee's own task for one day.
type Todo struct {
	ID         string      `json:"id" db:"id"`
	MenteeID   string      `json:"mentee_id" db:"mentee_id"`
	Content    string      `json:"content" db:"content"`
	Subject    null.String `json:"subject" db:"subject"`
	TargetDate core.Date   `json:"target_date" db:"target_date"`
	Completed  bool        `json:"completed" db:"is_completed"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`
}

type NewTodo struct {
	Content    string    `json:"content" validate:"required"`
	Subject    string    `json:"subject" validate:"omitempty,subject"`
	TargetDate core.Date `json:"target_date" validate:"required,date"`
}

func (nt *NewTodo) Validate(validate *validator.Validate) error {
	nt.Content = core.CleanString(nt.Content)
	nt.Subject = core.CleanString(nt.Subject)
	return validate.Struct(nt)
}

type (
	Repository interface {
		CreateTodo(ctx context.Context, t Todo) (Todo, error)
		GetTodo(ctx context.Context, id string) (Todo, error)
		// QueryTodos returns the mentee's todos for the date ordered by created_at ascending.
		QueryTodos(ctx context.Context, menteeID string, date core.Date) ([]Todo, error)
		SetTodoCompleted(ctx context.Context, id string, completed bool, at time.Time) (Todo, error)
		DeleteTodo(ctx context.Context, id string) error
	}

	Service struct {
		repo   Repository
		events events.Publisher
	}
)

func NewService(repo Repository, pub events.Publisher) *Service {
	return &Service{repo: repo, events: pub}
}

func (svc *Service) publish(action events.Action, t Todo) {
	svc.events.Publish(events.Event{Entity: events.Todos, Action: action, MenteeID: t.MenteeID, RecordID: t.ID})
}

func (svc *Service) Create(ctx context.Context, menteeID string, nt NewTodo) (Todo, error) {
	now := core.NowFunc().UTC()
	t, err := svc.repo.CreateTodo(ctx, Todo{
		ID:         uuid.NewString(),
		MenteeID:   menteeID,
		Content:    nt.Content,
		Subject:    null.NewString(nt.Subject, nt.Subject != ""),
		TargetDate: nt.TargetDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return Todo{}, errors.Wrap(err, "creating todo")
	}
	svc.publish(events.Created, t)
	return t, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Todo, error) {
	return svc.repo.GetTodo(ctx, id)
}

func (svc *Service) List(ctx context.Context, menteeID string, date core.Date) ([]Todo, error) {
	return svc.repo.QueryTodos(ctx, menteeID, date)
}

func (svc *Service) SetCompleted(ctx context.Context, t Todo, completed bool) (Todo, error) {
	t, err := svc.repo.SetTodoCompleted(ctx, t.ID, completed, core.NowFunc().UTC())
	if err != nil {
		return Todo{}, errors.Wrap(err, "setting todo completion")
	}
	svc.publish(events.Updated, t)
	return t, nil
}

func (svc *Service) Delete(ctx context.Context, t Todo) error {
	if err := svc.repo.DeleteTodo(ctx, t.ID); err != nil {
		return errors.Wrap(err, "deleting todo")
	}
	svc.publish(events.Deleted, t)
	return nil
}
