package qna

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/events"
	"github.com/trezcool/mentori/core/notification"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("question")
	ErrAlreadyAnswered = core.NewConflictError("question already answered")
)

// Question is a mentee question. Answering is a one-way transition.
type Question struct {
	ID                  string      `json:"id" db:"id"`
	MenteeID            string      `json:"mentee_id" db:"mentee_id"`
	Title               string      `json:"title" db:"title"`
	Content             string      `json:"content" db:"content"`
	AttachmentURL       null.String `json:"attachment_url" db:"attachment_url"`
	Answer              null.String `json:"answer" db:"answer"`
	AnswerAttachmentURL null.String `json:"answer_attachment_url" db:"answer_attachment_url"`
	AnsweredBy          null.String `json:"answered_by" db:"answered_by"`
	AnsweredAt          null.Time   `json:"answered_at" db:"answered_at"`
	CreatedAt           time.Time   `json:"created_at" db:"created_at"`
}

func (q Question) Answered() bool {
	return q.AnsweredAt.Valid
}

type NewQuestion struct {
	Title         string `json:"title" validate:"required,max=255"`
	Content       string `json:"content" validate:"required"`
	AttachmentURL string `json:"attachment_url" validate:"omitempty,url"`
}

func (nq *NewQuestion) Validate(validate *validator.Validate) error {
	nq.Title = core.CleanString(nq.Title)
	nq.Content = core.CleanString(nq.Content)
	nq.AttachmentURL = core.CleanString(nq.AttachmentURL)
	return validate.Struct(nq)
}

type NewAnswer struct {
	Content       string `json:"content" validate:"required"`
	AttachmentURL string `json:"attachment_url" validate:"omitempty,url"`
}

func (na *NewAnswer) Validate(validate *validator.Validate) error {
	na.Content = core.CleanString(na.Content)
	na.AttachmentURL = core.CleanString(na.AttachmentURL)
	return validate.Struct(na)
}

type QueryFilter struct {
	MenteeID string
	Answered *bool
}

func (qf QueryFilter) Match(q Question) bool {
	if qf.MenteeID != "" && q.MenteeID != qf.MenteeID {
		return false
	}
	return qf.Answered == nil || q.Answered() == *qf.Answered
}

type (
	Repository interface {
		CreateQuestion(ctx context.Context, q Question) (Question, error)
		GetQuestion(ctx context.Context, id string) (Question, error)
		// QueryQuestions returns the matching questions, newest first.
		QueryQuestions(ctx context.Context, filter QueryFilter) ([]Question, error)
		// AnswerQuestion sets the answer only if the question is still unanswered, ErrAlreadyAnswered otherwise.
		AnswerQuestion(ctx context.Context, q Question) (Question, error)
		// DeleteQuestion deletes the question only if it is still unanswered, ErrAlreadyAnswered otherwise.
		DeleteQuestion(ctx context.Context, id string) error
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

func (svc *Service) publish(action events.Action, q Question) {
	svc.events.Publish(events.Event{Entity: events.QnA, Action: action, MenteeID: q.MenteeID, RecordID: q.ID})
}

func (svc *Service) Ask(ctx context.Context, menteeID string, nq NewQuestion) (Question, error) {
	q, err := svc.repo.CreateQuestion(ctx, Question{
		ID:            uuid.NewString(),
		MenteeID:      menteeID,
		Title:         nq.Title,
		Content:       nq.Content,
		AttachmentURL: null.NewString(nq.AttachmentURL, nq.AttachmentURL != ""),
		CreatedAt:     core.NowFunc().UTC(),
	})
	if err != nil {
		return Question{}, errors.Wrap(err, "creating question")
	}
	svc.publish(events.Created, q)
	return q, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Question, error) {
	return svc.repo.GetQuestion(ctx, id)
}

func (svc *Service) List(ctx context.Context, filter QueryFilter) ([]Question, error) {
	return svc.repo.QueryQuestions(ctx, filter)
}

// Answer answers the question once; later attempts fail with ErrAlreadyAnswered and leave the answer intact.
func (svc *Service) Answer(ctx context.Context, mentorID string, q Question, na NewAnswer) (Question, error) {
	if q.Answered() {
		return Question{}, ErrAlreadyAnswered
	}
	q.Answer = null.StringFrom(na.Content)
	q.AnswerAttachmentURL = null.NewString(na.AttachmentURL, na.AttachmentURL != "")
	q.AnsweredBy = null.StringFrom(mentorID)
	q.AnsweredAt = null.TimeFrom(core.NowFunc().UTC())

	q, err := svc.repo.AnswerQuestion(ctx, q)
	if err != nil {
		return Question{}, err
	}
	svc.publish(events.Updated, q)

	if _, err := svc.notifier.Notify(ctx, q.MenteeID, notification.KindQuestionAnswered, "Your question was answered: "+q.Title, q.Answer.String); err != nil {
		svc.logger.Error("notifying mentee of answer", errors.Wrap(err, q.ID))
	}
	return q, nil
}

// Delete removes an unanswered question.
func (svc *Service) Delete(ctx context.Context, q Question) error {
	if q.Answered() {
		return ErrAlreadyAnswered
	}
	if err := svc.repo.DeleteQuestion(ctx, q.ID); err != nil {
		return err
	}
	svc.publish(events.Deleted, q)
	return nil
}
