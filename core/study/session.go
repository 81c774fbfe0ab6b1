package study

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/events"
)

var errNegativeDuration = errors.New("duration_seconds must not be negative")

// Session is an immutable record of studied time.
type Session struct {
	ID              string    `json:"id" db:"id"`
	MenteeID        string    `json:"mentee_id" db:"mentee_id"`
	Subject         string    `json:"subject" db:"subject"`
	DurationSeconds int64     `json:"duration_seconds" db:"duration_seconds"`
	SessionDate     core.Date `json:"session_date" db:"session_date"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

type NewSession struct {
	Subject         string
	DurationSeconds int64
	SessionDate     core.Date
}

type (
	Repository interface {
		CreateSession(ctx context.Context, s Session) (Session, error)
		// QuerySessions returns the mentee's sessions dated within [from, to], ordered by session_date then created_at.
		// Blank bounds are open.
		QuerySessions(ctx context.Context, menteeID string, from, to core.Date) ([]Session, error)
	}

	Service struct {
		repo   Repository
		events events.Publisher
	}
)

func NewService(repo Repository, pub events.Publisher) *Service {
	return &Service{repo: repo, events: pub}
}

// Record appends a session. Sessions are never updated.
func (svc *Service) Record(ctx context.Context, menteeID string, ns NewSession) (Session, error) {
	if ns.DurationSeconds < 0 {
		return Session{}, core.NewValidationError(errNegativeDuration, core.FieldError{Field: "duration_seconds", Error: errNegativeDuration.Error()})
	}
	if !ns.SessionDate.Valid() {
		return Session{}, core.NewValidationError(core.ErrInvalidDate, core.FieldError{Field: "session_date", Error: core.ErrInvalidDate.Error()})
	}

	s, err := svc.repo.CreateSession(ctx, Session{
		ID:              uuid.NewString(),
		MenteeID:        menteeID,
		Subject:         ns.Subject,
		DurationSeconds: ns.DurationSeconds,
		SessionDate:     ns.SessionDate,
		CreatedAt:       core.NowFunc().UTC(),
	})
	if err != nil {
		return Session{}, errors.Wrap(err, "creating study session")
	}
	svc.events.Publish(events.Event{Entity: events.StudySessions, Action: events.Created, MenteeID: menteeID, RecordID: s.ID})
	return s, nil
}

func (svc *Service) List(ctx context.Context, menteeID string, from, to core.Date) ([]Session, error) {
	return svc.repo.QuerySessions(ctx, menteeID, from, to)
}
