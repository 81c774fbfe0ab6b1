package notification

import (
	"bytes"
	"context"
	htmltmpl "html/template"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/events"
	"github.com/trezcool/mentori/core/user"
)

// Kinds
const (
	KindAssignmentCreated = "assignment_created"
	KindAssignmentDue     = "assignment_due"
	KindFeedbackSaved     = "feedback_saved"
	KindQuestionAnswered  = "question_answered"
	KindReportPublished   = "report_published"
)

const emailTemplate = "notification"

var (
	ErrNotFound = core.NewNotFoundError("notification")

	// raw HTML in bodies is escaped since WithUnsafe is not set
	mdRenderer = goldmark.New(
		goldmark.WithRendererOptions(
			goldmarkHTML.WithHardWraps(),
		),
	)
)

type Notification struct {
	ID          string    `json:"id" db:"id"`
	RecipientID string    `json:"recipient_id" db:"recipient_id"`
	Kind        string    `json:"kind" db:"kind"`
	Title       string    `json:"title" db:"title"`
	Body        string    `json:"body" db:"body"` // markdown
	ReadAt      null.Time `json:"read_at" db:"read_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type (
	Repository interface {
		CreateNotification(ctx context.Context, n Notification) (Notification, error)
		GetNotification(ctx context.Context, id string) (Notification, error)
		// QueryNotifications lists the recipient's notifications, newest first.
		QueryNotifications(ctx context.Context, recipientID string, unreadOnly bool) ([]Notification, error)
		MarkRead(ctx context.Context, id string, at time.Time) (Notification, error)
	}

	// Notifier is what other services use to notify a user.
	Notifier interface {
		Notify(ctx context.Context, recipientID, kind, title, body string) (Notification, error)
	}

	userGetter interface {
		GetByID(ctx context.Context, id string) (user.User, error)
	}

	Service struct {
		repo    Repository
		users   userGetter
		mailSvc core.EmailService
		events  events.Publisher
	}
)

var _ Notifier = (*Service)(nil)

func NewService(repo Repository, users userGetter, mailSvc core.EmailService, pub events.Publisher) *Service {
	return &Service{repo: repo, users: users, mailSvc: mailSvc, events: pub}
}

// Notify stores the notification, publishes it and emails the recipient.
func (svc *Service) Notify(ctx context.Context, recipientID, kind, title, body string) (Notification, error) {
	usr, err := svc.users.GetByID(ctx, recipientID)
	if err != nil {
		return Notification{}, errors.Wrap(err, "finding recipient")
	}

	n, err := svc.repo.CreateNotification(ctx, Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		Kind:        kind,
		Title:       title,
		Body:        body,
		CreatedAt:   core.NowFunc().UTC(),
	})
	if err != nil {
		return Notification{}, errors.Wrap(err, "creating notification")
	}
	svc.events.Publish(events.Event{Entity: events.Notifications, Action: events.Created, UserID: recipientID, RecordID: n.ID})

	if usr.Email != "" {
		svc.mailSvc.SendMessages(newEmailMessage(usr, n))
	}
	return n, nil
}

func (svc *Service) List(ctx context.Context, recipientID string, unreadOnly bool) ([]Notification, error) {
	return svc.repo.QueryNotifications(ctx, recipientID, unreadOnly)
}

func (svc *Service) Get(ctx context.Context, id string) (Notification, error) {
	return svc.repo.GetNotification(ctx, id)
}

func (svc *Service) MarkRead(ctx context.Context, n Notification) (Notification, error) {
	if n.ReadAt.Valid {
		return n, nil
	}
	n, err := svc.repo.MarkRead(ctx, n.ID, core.NowFunc().UTC())
	if err != nil {
		return Notification{}, err
	}
	svc.events.Publish(events.Event{Entity: events.Notifications, Action: events.Updated, UserID: n.RecipientID, RecordID: n.ID})
	return n, nil
}

type emailData struct {
	Nickname string
	Title    string
	Body     string
	HTMLBody htmltmpl.HTML
}

// RenderMarkdown converts a markdown body to HTML, falling back to the escaped text.
func RenderMarkdown(md string) htmltmpl.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return htmltmpl.HTML(htmltmpl.HTMLEscapeString(md))
	}
	return htmltmpl.HTML(buf.String())
}

func newEmailMessage(usr user.User, n Notification) *core.EmailMessage {
	return &core.EmailMessage{
		To:           []mail.Address{{Name: usr.Nickname, Address: usr.Email}},
		Subject:      n.Title,
		TemplateName: emailTemplate,
		TemplateData: emailData{
			Nickname: usr.Nickname,
			Title:    n.Title,
			Body:     n.Body,
			HTMLBody: RenderMarkdown(n.Body),
		},
	}
}
