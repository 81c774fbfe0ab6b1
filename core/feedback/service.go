package feedback

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/assignment"
	"github.com/trezcool/mentori/core/events"
	"github.com/trezcool/mentori/core/notification"
)

var (
	// errors
	ErrNotFound             = core.NewNotFoundError("feedback")
	ErrDetailNotFound       = core.NewNotFoundError("feedback detail")
	ErrVerificationRequired = errors.New("the assignment has not been verified by the mentee yet")
	ErrForeignAssignment    = errors.New("the assignment does not belong to this mentee")
)

type (
	Repository interface {
		// UpsertFeedback inserts or updates the feedback keyed by (mentee_id, feedback_date).
		UpsertFeedback(ctx context.Context, f Feedback) (Feedback, error)
		// EnsureFeedback inserts the feedback unless one exists for (mentee_id, feedback_date), and returns the stored row.
		EnsureFeedback(ctx context.Context, f Feedback) (Feedback, error)
		GetFeedback(ctx context.Context, menteeID string, date core.Date) (Feedback, error)
		// QueryDetails returns the feedback's details ordered by created_at ascending.
		QueryDetails(ctx context.Context, feedbackID string) ([]Detail, error)
		// UpsertDetail inserts or updates the detail keyed by (feedback_id, subject).
		UpsertDetail(ctx context.Context, d Detail) (Detail, error)
		DeleteDetail(ctx context.Context, feedbackID, subject string) error
	}

	assignmentGetter interface {
		Get(ctx context.Context, id string) (assignment.Assignment, error)
		HasVerification(ctx context.Context, assignmentID string) (bool, error)
	}

	Service struct {
		repo        Repository
		assignments assignmentGetter
		notifier    notification.Notifier
		events      events.Publisher
		logger      core.Logger
	}
)

func NewService(
	repo Repository,
	assignments assignmentGetter,
	notifier notification.Notifier,
	pub events.Publisher,
	logger core.Logger,
) *Service {
	return &Service{repo: repo, assignments: assignments, notifier: notifier, events: pub, logger: logger}
}

func (svc *Service) publish(action events.Action, f Feedback) {
	svc.events.Publish(events.Event{Entity: events.Feedback, Action: action, MenteeID: f.MenteeID, RecordID: f.ID})
}

// Get returns the mentee's feedback of the day along with its details.
func (svc *Service) Get(ctx context.Context, menteeID string, date core.Date) (Feedback, error) {
	f, err := svc.repo.GetFeedback(ctx, menteeID, date)
	if err != nil {
		return Feedback{}, err
	}
	if f.Details, err = svc.repo.QueryDetails(ctx, f.ID); err != nil {
		return Feedback{}, errors.Wrap(err, "querying feedback details")
	}
	return f, nil
}

// Save upserts the general comment of the day and notifies the mentee.
// Saving twice for the same (mentee, date) updates the same row.
func (svc *Service) Save(ctx context.Context, mentorID, menteeID string, date core.Date, sf SaveFeedback) (Feedback, error) {
	now := core.NowFunc().UTC()
	f, err := svc.repo.UpsertFeedback(ctx, Feedback{
		ID:             uuid.NewString(),
		MenteeID:       menteeID,
		MentorID:       null.NewString(mentorID, mentorID != ""),
		FeedbackDate:   date,
		GeneralComment: sf.GeneralComment,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return Feedback{}, errors.Wrap(err, "upserting feedback")
	}
	svc.publish(events.Updated, f)

	title := fmt.Sprintf("Feedback for %s", date)
	if _, err := svc.notifier.Notify(ctx, menteeID, notification.KindFeedbackSaved, title, f.GeneralComment); err != nil {
		svc.logger.Error("notifying mentee of feedback", errors.Wrap(err, f.ID))
	}

	if f.Details, err = svc.repo.QueryDetails(ctx, f.ID); err != nil {
		return Feedback{}, errors.Wrap(err, "querying feedback details")
	}
	return f, nil
}

// checkVerification enforces that a detail linked to an assignment only follows the mentee's verification of it.
func (svc *Service) checkVerification(ctx context.Context, menteeID, assignmentID string) error {
	a, err := svc.assignments.Get(ctx, assignmentID)
	if err != nil {
		if core.IsNotFound(err) {
			return core.NewValidationError(err, core.FieldError{Field: "assignment_id", Error: err.Error()})
		}
		return errors.Wrap(err, "finding assignment")
	}
	if a.MenteeID != menteeID {
		return core.NewValidationError(ErrForeignAssignment, core.FieldError{Field: "assignment_id", Error: ErrForeignAssignment.Error()})
	}

	verified, err := svc.assignments.HasVerification(ctx, assignmentID)
	if err != nil {
		return errors.Wrap(err, "checking assignment verification")
	}
	if !verified {
		return core.NewValidationError(ErrVerificationRequired, core.FieldError{Field: "assignment_id", Error: ErrVerificationRequired.Error()})
	}
	return nil
}

// SaveDetail upserts the subject detail of the day, creating the day's feedback when missing.
func (svc *Service) SaveDetail(ctx context.Context, mentorID, menteeID string, date core.Date, sd SaveDetail) (Detail, error) {
	if sd.AssignmentID != "" {
		if err := svc.checkVerification(ctx, menteeID, sd.AssignmentID); err != nil {
			return Detail{}, err
		}
	}

	now := core.NowFunc().UTC()
	f, err := svc.repo.EnsureFeedback(ctx, Feedback{
		ID:           uuid.NewString(),
		MenteeID:     menteeID,
		MentorID:     null.NewString(mentorID, mentorID != ""),
		FeedbackDate: date,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return Detail{}, errors.Wrap(err, "ensuring feedback")
	}

	d, err := svc.repo.UpsertDetail(ctx, Detail{
		ID:           uuid.NewString(),
		FeedbackID:   f.ID,
		Subject:      sd.Subject,
		Summary:      sd.Summary,
		Detail:       sd.Detail,
		Important:    sd.Important,
		AssignmentID: null.NewString(sd.AssignmentID, sd.AssignmentID != ""),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return Detail{}, errors.Wrap(err, "upserting feedback detail")
	}
	svc.publish(events.Updated, f)
	return d, nil
}

func (svc *Service) DeleteDetail(ctx context.Context, menteeID string, date core.Date, subject string) error {
	f, err := svc.repo.GetFeedback(ctx, menteeID, date)
	if err != nil {
		if core.IsNotFound(err) {
			return ErrDetailNotFound
		}
		return err
	}
	if err := svc.repo.DeleteDetail(ctx, f.ID, subject); err != nil {
		return err
	}
	svc.publish(events.Updated, f)
	return nil
}

