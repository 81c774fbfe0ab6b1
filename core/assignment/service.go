package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/events"
	"github.com/trezcool/mentori/core/notification"
)

var (
	// errors
	ErrNotFound             = core.NewNotFoundError("assignment")
	ErrVerificationNotFound = core.NewNotFoundError("assignment verification")
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		GetAssignment(ctx context.Context, id string) (Assignment, error)
		// QueryAssignments returns the matching assignments ordered by end_date then created_at, ascending.
		QueryAssignments(ctx context.Context, filter QueryFilter) ([]Assignment, error)
		UpdateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		SetAssignmentCompleted(ctx context.Context, id string, completed bool, at time.Time) (Assignment, error)
		DeleteAssignment(ctx context.Context, id string) error

		CreateVerification(ctx context.Context, v Verification) (Verification, error)
		// QueryVerifications returns the assignment's verifications, oldest first.
		QueryVerifications(ctx context.Context, assignmentID string) ([]Verification, error)
		VerificationExists(ctx context.Context, assignmentID string) (bool, error)
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

func (svc *Service) publish(action events.Action, a Assignment) {
	svc.events.Publish(events.Event{Entity: events.Assignments, Action: action, MenteeID: a.MenteeID, RecordID: a.ID})
}

// Create stores a new assignment and notifies the mentee.
func (svc *Service) Create(ctx context.Context, mentorID, menteeID string, na NewAssignment) (Assignment, error) {
	now := core.NowFunc().UTC()
	a, err := svc.repo.CreateAssignment(ctx, Assignment{
		ID:            uuid.NewString(),
		MentorID:      mentorID,
		MenteeID:      menteeID,
		Subject:       na.Subject,
		Title:         na.Title,
		Content:       na.Content,
		StartDate:     na.StartDate,
		EndDate:       na.EndDate,
		AttachmentURL: null.NewString(na.AttachmentURL, na.AttachmentURL != ""),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return Assignment{}, errors.Wrap(err, "creating assignment")
	}
	svc.publish(events.Created, a)

	body := fmt.Sprintf("**[%s] %s**\n\n%s ~ %s\n\n%s", a.Subject, a.Title, a.StartDate, a.EndDate, a.Content)
	if _, err := svc.notifier.Notify(ctx, a.MenteeID, notification.KindAssignmentCreated, "New assignment: "+a.Title, body); err != nil {
		svc.logger.Error("notifying mentee of new assignment", errors.Wrap(err, a.ID))
	}
	return a, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Assignment, error) {
	return svc.repo.GetAssignment(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Assignment, error) {
	return svc.repo.QueryAssignments(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, orig Assignment, ua UpdateAssignment) (Assignment, error) {
	a := orig
	a.Subject = ua.Subject
	a.Title = ua.Title
	a.StartDate = ua.StartDate
	a.EndDate = ua.EndDate
	if ua.Content != nil {
		a.Content = *ua.Content
	}
	if ua.AttachmentURL != nil {
		a.AttachmentURL = null.NewString(*ua.AttachmentURL, *ua.AttachmentURL != "")
	}
	a.UpdatedAt = core.NowFunc().UTC()

	a, err := svc.repo.UpdateAssignment(ctx, a)
	if err != nil {
		return Assignment{}, errors.Wrap(err, "updating assignment")
	}
	svc.publish(events.Updated, a)
	return a, nil
}

// SetCompleted toggles the assignment's own completion flag.
func (svc *Service) SetCompleted(ctx context.Context, a Assignment, completed bool) (Assignment, error) {
	a, err := svc.repo.SetAssignmentCompleted(ctx, a.ID, completed, core.NowFunc().UTC())
	if err != nil {
		return Assignment{}, errors.Wrap(err, "setting assignment completion")
	}
	svc.publish(events.Updated, a)
	return a, nil
}

func (svc *Service) Delete(ctx context.Context, a Assignment) error {
	if err := svc.repo.DeleteAssignment(ctx, a.ID); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	svc.publish(events.Deleted, a)
	return nil
}

// Verify records the mentee's proof of study for the assignment.
func (svc *Service) Verify(ctx context.Context, a Assignment, nv NewVerification) (Verification, error) {
	v, err := svc.repo.CreateVerification(ctx, Verification{
		ID:            uuid.NewString(),
		AssignmentID:  a.ID,
		MenteeID:      a.MenteeID,
		Content:       nv.Content,
		AttachmentURL: null.NewString(nv.AttachmentURL, nv.AttachmentURL != ""),
		CreatedAt:     core.NowFunc().UTC(),
	})
	if err != nil {
		return Verification{}, errors.Wrap(err, "creating verification")
	}
	svc.publish(events.Updated, a)
	return v, nil
}

func (svc *Service) ListVerifications(ctx context.Context, a Assignment) ([]Verification, error) {
	return svc.repo.QueryVerifications(ctx, a.ID)
}

func (svc *Service) HasVerification(ctx context.Context, assignmentID string) (bool, error) {
	return svc.repo.VerificationExists(ctx, assignmentID)
}

// RemindDue notifies the mentees of every unfinished assignment ending on `day`.
// Returns the number of reminders sent.
func (svc *Service) RemindDue(ctx context.Context, day core.Date) (int, error) {
	pending := false
	due, err := svc.repo.QueryAssignments(ctx, QueryFilter{EndingOn: day, Completed: &pending})
	if err != nil {
		return 0, errors.Wrap(err, "querying due assignments")
	}

	var sent int
	for _, a := range due {
		body := fmt.Sprintf("**[%s] %s** ends on %s.", a.Subject, a.Title, a.EndDate)
		if _, err := svc.notifier.Notify(ctx, a.MenteeID, notification.KindAssignmentDue, "Assignment due: "+a.Title, body); err != nil {
			svc.logger.Error("reminding mentee of due assignment", errors.Wrap(err, a.ID))
			continue
		}
		sent++
	}
	return sent, nil
}
