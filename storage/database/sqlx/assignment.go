package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core/assignment"
)

type assignmentRepository struct {
	db sqlx.ExtContext
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db sqlx.ExtContext) *assignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	q := `INSERT INTO assignments (id, mentor_id, mentee_id, subject, title, content, start_date, end_date, is_completed, attachment_url, created_at, updated_at)
		VALUES (:id, :mentor_id, :mentee_id, :subject, :title, :content, :start_date, :end_date, :is_completed, :attachment_url, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, a); err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return a, nil
}

func (repo assignmentRepository) GetAssignment(ctx context.Context, id string) (assignment.Assignment, error) {
	var a assignment.Assignment
	if err := sqlx.GetContext(ctx, repo.db, &a, "SELECT * FROM assignments WHERE id = $1", id); err != nil {
		return assignment.Assignment{}, trapNoRowsErr(err, assignment.ErrNotFound, "selecting assignment")
	}
	return a, nil
}

func (repo assignmentRepository) QueryAssignments(ctx context.Context, filter assignment.QueryFilter) ([]assignment.Assignment, error) {
	var w where
	if filter.MenteeID != "" {
		w.add("mentee_id = ?", filter.MenteeID)
	}
	if filter.ActiveOn != "" {
		w.add("start_date <= ? AND end_date >= ?", filter.ActiveOn, filter.ActiveOn)
	}
	if filter.From != "" {
		w.add("end_date >= ?", filter.From)
	}
	if filter.To != "" {
		w.add("start_date <= ?", filter.To)
	}
	if filter.EndingOn != "" {
		w.add("end_date = ?", filter.EndingOn)
	}
	if filter.Completed != nil {
		w.add("is_completed = ?", *filter.Completed)
	}

	res := make([]assignment.Assignment, 0)
	q := repo.db.Rebind("SELECT * FROM assignments" + w.String() + " ORDER BY end_date ASC, created_at ASC")
	if err := sqlx.SelectContext(ctx, repo.db, &res, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "selecting assignments")
	}
	return res, nil
}

func (repo assignmentRepository) UpdateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	q := `UPDATE assignments
		SET subject = :subject, title = :title, content = :content, start_date = :start_date, end_date = :end_date,
			attachment_url = :attachment_url, updated_at = :updated_at
		WHERE id = :id
		RETURNING *`
	var updated assignment.Assignment
	if err := namedGet(ctx, repo.db, &updated, q, a); err != nil {
		return assignment.Assignment{}, trapNoRowsErr(err, assignment.ErrNotFound, "updating assignment")
	}
	return updated, nil
}

func (repo assignmentRepository) SetAssignmentCompleted(ctx context.Context, id string, completed bool, at time.Time) (assignment.Assignment, error) {
	var a assignment.Assignment
	q := "UPDATE assignments SET is_completed = $2, updated_at = $3 WHERE id = $1 RETURNING *"
	if err := sqlx.GetContext(ctx, repo.db, &a, q, id, completed, at.UTC()); err != nil {
		return assignment.Assignment{}, trapNoRowsErr(err, assignment.ErrNotFound, "updating assignment completion")
	}
	return a, nil
}

func (repo assignmentRepository) DeleteAssignment(ctx context.Context, id string) error {
	err := deleteOne(ctx, repo.db, assignment.ErrNotFound, "DELETE FROM assignments WHERE id = $1", id)
	if err != nil && err != assignment.ErrNotFound {
		return errors.Wrap(err, "deleting assignment")
	}
	return err
}

func (repo assignmentRepository) CreateVerification(ctx context.Context, v assignment.Verification) (assignment.Verification, error) {
	q := `INSERT INTO assignment_verifications (id, assignment_id, mentee_id, content, attachment_url, created_at)
		VALUES (:id, :assignment_id, :mentee_id, :content, :attachment_url, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, v); err != nil {
		return assignment.Verification{}, errors.Wrap(err, "inserting verification")
	}
	return v, nil
}

func (repo assignmentRepository) QueryVerifications(ctx context.Context, assignmentID string) ([]assignment.Verification, error) {
	res := make([]assignment.Verification, 0)
	q := "SELECT * FROM assignment_verifications WHERE assignment_id = $1 ORDER BY created_at ASC"
	if err := sqlx.SelectContext(ctx, repo.db, &res, q, assignmentID); err != nil {
		return nil, errors.Wrap(err, "selecting verifications")
	}
	return res, nil
}

func (repo assignmentRepository) VerificationExists(ctx context.Context, assignmentID string) (bool, error) {
	var found bool
	q := "SELECT EXISTS (SELECT 1 FROM assignment_verifications WHERE assignment_id = $1)"
	if err := sqlx.GetContext(ctx, repo.db, &found, q, assignmentID); err != nil {
		return false, errors.Wrap(err, "checking verification")
	}
	return found, nil
}
