package plan

import (
	"context"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/events"
)

const HoursPerDay = 24

var (
	ErrNotFound = core.NewNotFoundError("plan")

	startHourTag  = "planstart"
	startHourText = "start_hour must be between 0 and 24 (excluded)"

	endHourTag  = "planend"
	endHourText = "end_hour must be after start_hour and at most 24 hours later"
)

// Plan is a time-boxed block of one day. EndHour may roll past 24 for overnight blocks.
type Plan struct {
	ID        string      `json:"id" db:"id"`
	MenteeID  string      `json:"mentee_id" db:"mentee_id"`
	PlanDate  core.Date   `json:"plan_date" db:"plan_date"`
	Title     string      `json:"title" db:"title"`
	Subject   null.String `json:"subject" db:"subject"`
	StartHour float64     `json:"start_hour" db:"start_hour"`
	EndHour   float64     `json:"end_hour" db:"end_hour"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

// Duration is the length of the block in hours.
func (p Plan) Duration() float64 {
	return p.EndHour - p.StartHour
}

// Overnight reports whether the block ends on the next day.
func (p Plan) Overnight() bool {
	return p.EndHour > HoursPerDay
}

// NewPlan is used to create or replace a Plan.
type NewPlan struct {
	PlanDate  core.Date `json:"plan_date" validate:"required,date"`
	Title     string    `json:"title" validate:"required,max=255"`
	Subject   string    `json:"subject" validate:"omitempty,subject"`
	StartHour float64   `json:"start_hour"`
	EndHour   float64   `json:"end_hour"`
}

func (np *NewPlan) Validate(validate *validator.Validate) error {
	np.Title = core.CleanString(np.Title)
	np.Subject = core.CleanString(np.Subject)
	return validate.Struct(np)
}

// ValidHours reports whether 0 <= start < 24 and start < end <= start + 24.
func ValidHours(start, end float64) bool {
	return start >= 0 && start < HoursPerDay && end > start && end <= start+HoursPerDay
}

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(hoursValidation, NewPlan{})
	core.RegisterCustomTranslation(validate, translator, startHourTag, startHourText)
	core.RegisterCustomTranslation(validate, translator, endHourTag, endHourText)
}

func hoursValidation(sl validator.StructLevel) {
	np, ok := sl.Current().Interface().(NewPlan)
	if !ok {
		return
	}
	if np.StartHour < 0 || np.StartHour >= HoursPerDay {
		sl.ReportError(np.StartHour, "start_hour", "StartHour", startHourTag, "")
		return
	}
	if !ValidHours(np.StartHour, np.EndHour) {
		sl.ReportError(np.EndHour, "end_hour", "EndHour", endHourTag, "")
	}
}

type (
	Repository interface {
		CreatePlan(ctx context.Context, p Plan) (Plan, error)
		GetPlan(ctx context.Context, id string) (Plan, error)
		// QueryPlans returns the mentee's plans for the date ordered by start_hour ascending.
		QueryPlans(ctx context.Context, menteeID string, date core.Date) ([]Plan, error)
		UpdatePlan(ctx context.Context, p Plan) (Plan, error)
		DeletePlan(ctx context.Context, id string) error
	}

	Service struct {
		repo   Repository
		events events.Publisher
	}
)

func NewService(repo Repository, pub events.Publisher) *Service {
	return &Service{repo: repo, events: pub}
}

func (svc *Service) publish(action events.Action, p Plan) {
	svc.events.Publish(events.Event{Entity: events.Plans, Action: action, MenteeID: p.MenteeID, RecordID: p.ID})
}

func (svc *Service) Create(ctx context.Context, menteeID string, np NewPlan) (Plan, error) {
	now := core.NowFunc().UTC()
	p, err := svc.repo.CreatePlan(ctx, Plan{
		ID:        uuid.NewString(),
		MenteeID:  menteeID,
		PlanDate:  np.PlanDate,
		Title:     np.Title,
		Subject:   null.NewString(np.Subject, np.Subject != ""),
		StartHour: np.StartHour,
		EndHour:   np.EndHour,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return Plan{}, errors.Wrap(err, "creating plan")
	}
	svc.publish(events.Created, p)
	return p, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Plan, error) {
	return svc.repo.GetPlan(ctx, id)
}

func (svc *Service) List(ctx context.Context, menteeID string, date core.Date) ([]Plan, error) {
	return svc.repo.QueryPlans(ctx, menteeID, date)
}

func (svc *Service) Update(ctx context.Context, p Plan, np NewPlan) (Plan, error) {
	p.PlanDate = np.PlanDate
	p.Title = np.Title
	p.Subject = null.NewString(np.Subject, np.Subject != "")
	p.StartHour = np.StartHour
	p.EndHour = np.EndHour
	p.UpdatedAt = core.NowFunc().UTC()

	p, err := svc.repo.UpdatePlan(ctx, p)
	if err != nil {
		return Plan{}, errors.Wrap(err, "updating plan")
	}
	svc.publish(events.Updated, p)
	return p, nil
}

func (svc *Service) Delete(ctx context.Context, p Plan) error {
	if err := svc.repo.DeletePlan(ctx, p.ID); err != nil {
		return errors.Wrap(err, "deleting plan")
	}
	svc.publish(events.Deleted, p)
	return nil
}
