package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/feedback"
)

type feedbackRepository struct {
	db sqlx.ExtContext
}

var _ feedback.Repository = (*feedbackRepository)(nil) // interface compliance check

func NewFeedbackRepository(db sqlx.ExtContext) *feedbackRepository {
	return &feedbackRepository{db: db}
}

func (repo feedbackRepository) UpsertFeedback(ctx context.Context, f feedback.Feedback) (feedback.Feedback, error) {
	q := `INSERT INTO feedbacks (id, mentee_id, mentor_id, feedback_date, general_comment, created_at, updated_at)
		VALUES (:id, :mentee_id, :mentor_id, :feedback_date, :general_comment, :created_at, :updated_at)
		ON CONFLICT (mentee_id, feedback_date) DO UPDATE
		SET mentor_id = EXCLUDED.mentor_id, general_comment = EXCLUDED.general_comment, updated_at = EXCLUDED.updated_at
		RETURNING *`
	var saved feedback.Feedback
	if err := namedGet(ctx, repo.db, &saved, q, f); err != nil {
		return feedback.Feedback{}, errors.Wrap(err, "upserting feedback")
	}
	return saved, nil
}

func (repo feedbackRepository) EnsureFeedback(ctx context.Context, f feedback.Feedback) (feedback.Feedback, error) {
	// the no-op update makes RETURNING yield the existing row
	q := `INSERT INTO feedbacks (id, mentee_id, mentor_id, feedback_date, general_comment, created_at, updated_at)
		VALUES (:id, :mentee_id, :mentor_id, :feedback_date, :general_comment, :created_at, :updated_at)
		ON CONFLICT (mentee_id, feedback_date) DO UPDATE SET mentee_id = EXCLUDED.mentee_id
		RETURNING *`
	var saved feedback.Feedback
	if err := namedGet(ctx, repo.db, &saved, q, f); err != nil {
		return feedback.Feedback{}, errors.Wrap(err, "ensuring feedback")
	}
	return saved, nil
}

func (repo feedbackRepository) GetFeedback(ctx context.Context, menteeID string, date core.Date) (feedback.Feedback, error) {
	var f feedback.Feedback
	q := "SELECT * FROM feedbacks WHERE mentee_id = $1 AND feedback_date = $2"
	if err := sqlx.GetContext(ctx, repo.db, &f, q, menteeID, date); err != nil {
		return feedback.Feedback{}, trapNoRowsErr(err, feedback.ErrNotFound, "selecting feedback")
	}
	return f, nil
}

func (repo feedbackRepository) QueryDetails(ctx context.Context, feedbackID string) ([]feedback.Detail, error) {
	res := make([]feedback.Detail, 0)
	q := "SELECT * FROM feedback_details WHERE feedback_id = $1 ORDER BY created_at ASC"
	if err := sqlx.SelectContext(ctx, repo.db, &res, q, feedbackID); err != nil {
		return nil, errors.Wrap(err, "selecting feedback details")
	}
	return res, nil
}

func (repo feedbackRepository) UpsertDetail(ctx context.Context, d feedback.Detail) (feedback.Detail, error) {
	q := `INSERT INTO feedback_details (id, feedback_id, subject, summary, detail, is_important, assignment_id, created_at, updated_at)
		VALUES (:id, :feedback_id, :subject, :summary, :detail, :is_important, :assignment_id, :created_at, :updated_at)
		ON CONFLICT (feedback_id, subject) DO UPDATE
		SET summary = EXCLUDED.summary, detail = EXCLUDED.detail, is_important = EXCLUDED.is_important,
			assignment_id = EXCLUDED.assignment_id, updated_at = EXCLUDED.updated_at
		RETURNING *`
	var saved feedback.Detail
	if err := namedGet(ctx, repo.db, &saved, q, d); err != nil {
		return feedback.Detail{}, errors.Wrap(err, "upserting feedback detail")
	}
	return saved, nil
}

func (repo feedbackRepository) DeleteDetail(ctx context.Context, feedbackID, subject string) error {
	q := "DELETE FROM feedback_details WHERE feedback_id = $1 AND subject = $2"
	err := deleteOne(ctx, repo.db, feedback.ErrDetailNotFound, q, feedbackID, subject)
	if err != nil && err != feedback.ErrDetailNotFound {
		return errors.Wrap(err, "deleting feedback detail")
	}
	return err
}
