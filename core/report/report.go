package report

import (
	"context"
	"fmt"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/events"
	"github.com/trezcool/mentori/core/notification"
)

var (
	ErrNotFound = core.NewNotFoundError("learning report")

	reportTypeTag  = "report_type"
	reportTypeText = "{0} must be one of weekly, monthly"
)

// LearningReport is a mentor's evaluation keyed by (mentee, type, title).
type LearningReport struct {
	ID                string      `json:"id" db:"id"`
	MenteeID          string      `json:"mentee_id" db:"mentee_id"`
	MentorID          null.String `json:"mentor_id" db:"mentor_id"`
	Type              Type        `json:"type" db:"type"`
	Title             string      `json:"title" db:"title"`
	GeneralEvaluation string      `json:"general_evaluation" db:"general_evaluation"`
	Strengths         string      `json:"strengths" db:"strengths"`
	Improvements      string      `json:"improvements" db:"improvements"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at" db:"updated_at"`
}

func (r LearningReport) Key() string {
	return Key(r.Type, r.Title)
}

type SaveReport struct {
	GeneralEvaluation string `json:"general_evaluation"`
	Strengths         string `json:"strengths"`
	Improvements      string `json:"improvements"`
}

func (sr *SaveReport) Validate(validate *validator.Validate) error {
	sr.GeneralEvaluation = core.CleanString(sr.GeneralEvaluation)
	sr.Strengths = core.CleanString(sr.Strengths)
	sr.Improvements = core.CleanString(sr.Improvements)
	return validate.Struct(sr)
}

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(reportTypeTag, func(fl validator.FieldLevel) bool {
		_, ok := ParseType(fl.Field().String())
		return ok
	})
	core.RegisterCustomTranslation(validate, translator, reportTypeTag, reportTypeText)
}

type (
	Repository interface {
		// UpsertReport inserts or updates the report keyed by (mentee_id, type, title).
		UpsertReport(ctx context.Context, r LearningReport) (LearningReport, error)
		GetReport(ctx context.Context, id string) (LearningReport, error)
		GetReportByKey(ctx context.Context, menteeID string, typ Type, title string) (LearningReport, error)
		// QueryReports returns the mentee's reports ordered by type then created_at ascending.
		QueryReports(ctx context.Context, menteeID string, typ Type) ([]LearningReport, error)
	}

	Service struct {
		repo     Repository
		notifier notification.Notifier
		events   events.Publisher
		logger   core.Logger
	}
)

func NewService(repo Repository, notifier notification.Notifier, pub events.Publisher, logger core.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, events: pub, logger: logger}
}

// Upsert saves the report, never duplicating one (mentee, type, title).
func (svc *Service) Upsert(ctx context.Context, mentorID, menteeID string, typ Type, title string, sr SaveReport) (LearningReport, error) {
	title = core.CleanString(title)
	if title == "" {
		return LearningReport{}, core.NewValidationError(nil, core.FieldError{Field: "title", Error: "this field is required"})
	}

	now := core.NowFunc().UTC()
	r, err := svc.repo.UpsertReport(ctx, LearningReport{
		ID:                uuid.NewString(),
		MenteeID:          menteeID,
		MentorID:          null.NewString(mentorID, mentorID != ""),
		Type:              typ,
		Title:             title,
		GeneralEvaluation: sr.GeneralEvaluation,
		Strengths:         sr.Strengths,
		Improvements:      sr.Improvements,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		return LearningReport{}, errors.Wrap(err, "upserting learning report")
	}
	svc.events.Publish(events.Event{Entity: events.LearningReports, Action: events.Updated, MenteeID: menteeID, RecordID: r.ID})

	msg := fmt.Sprintf("%s report %s", typ, title)
	if _, err := svc.notifier.Notify(ctx, menteeID, notification.KindReportPublished, "New "+msg, r.GeneralEvaluation); err != nil {
		svc.logger.Error("notifying mentee of report", errors.Wrap(err, r.ID))
	}
	return r, nil
}

func (svc *Service) Get(ctx context.Context, id string) (LearningReport, error) {
	return svc.repo.GetReport(ctx, id)
}

// GetByRoute finds the report addressed by a route segment such as ("weekly", "2").
func (svc *Service) GetByRoute(ctx context.Context, menteeID string, typ Type, segment string) (LearningReport, error) {
	return svc.repo.GetReportByKey(ctx, menteeID, typ, TitleFromSegment(typ, segment))
}

// List returns the mentee's reports, of every type when typ is blank.
func (svc *Service) List(ctx context.Context, menteeID string, typ Type) ([]LearningReport, error) {
	return svc.repo.QueryReports(ctx, menteeID, typ)
}

// Index fetches the mentee's reports once and indexes them.
func (svc *Service) Index(ctx context.Context, menteeID string) (Index, error) {
	reports, err := svc.repo.QueryReports(ctx, menteeID, "")
	if err != nil {
		return Index{}, err
	}
	return NewIndex(reports), nil
}
