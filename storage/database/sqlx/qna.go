package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core/qna"
)

type qnaRepository struct {
	db sqlx.ExtContext
}

var _ qna.Repository = (*qnaRepository)(nil) // interface compliance check

func NewQnARepository(db sqlx.ExtContext) *qnaRepository {
	return &qnaRepository{db: db}
}

func (repo qnaRepository) CreateQuestion(ctx context.Context, q qna.Question) (qna.Question, error) {
	query := `INSERT INTO qna (id, mentee_id, title, content, attachment_url, answer, answer_attachment_url, answered_by, answered_at, created_at)
		VALUES (:id, :mentee_id, :title, :content, :attachment_url, :answer, :answer_attachment_url, :answered_by, :answered_at, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, query, q); err != nil {
		return qna.Question{}, errors.Wrap(err, "inserting question")
	}
	return q, nil
}

func (repo qnaRepository) GetQuestion(ctx context.Context, id string) (qna.Question, error) {
	var q qna.Question
	if err := sqlx.GetContext(ctx, repo.db, &q, "SELECT * FROM qna WHERE id = $1", id); err != nil {
		return qna.Question{}, trapNoRowsErr(err, qna.ErrNotFound, "selecting question")
	}
	return q, nil
}

func (repo qnaRepository) QueryQuestions(ctx context.Context, filter qna.QueryFilter) ([]qna.Question, error) {
	var w where
	if filter.MenteeID != "" {
		w.add("mentee_id = ?", filter.MenteeID)
	}
	if filter.Answered != nil {
		if *filter.Answered {
			w.add("answered_at IS NOT NULL")
		} else {
			w.add("answered_at IS NULL")
		}
	}

	res := make([]qna.Question, 0)
	query := repo.db.Rebind("SELECT * FROM qna" + w.String() + " ORDER BY created_at DESC")
	if err := sqlx.SelectContext(ctx, repo.db, &res, query, w.args...); err != nil {
		return nil, errors.Wrap(err, "selecting questions")
	}
	return res, nil
}

// settledErr tells apart a missing question from an answered one once a conditional write touched no row.
func (repo qnaRepository) settledErr(ctx context.Context, id string) error {
	var found bool
	err := sqlx.GetContext(ctx, repo.db, &found, "SELECT EXISTS (SELECT 1 FROM qna WHERE id = $1)", id)
	if err != nil {
		return errors.Wrap(err, "checking question")
	}
	if !found {
		return qna.ErrNotFound
	}
	return qna.ErrAlreadyAnswered
}

func (repo qnaRepository) AnswerQuestion(ctx context.Context, q qna.Question) (qna.Question, error) {
	query := `UPDATE qna
		SET answer = :answer, answer_attachment_url = :answer_attachment_url, answered_by = :answered_by, answered_at = :answered_at
		WHERE id = :id AND answered_at IS NULL
		RETURNING *`
	var answered qna.Question
	if err := namedGet(ctx, repo.db, &answered, query, q); err != nil {
		if err == sql.ErrNoRows {
			return qna.Question{}, repo.settledErr(ctx, q.ID)
		}
		return qna.Question{}, errors.Wrap(err, "answering question")
	}
	return answered, nil
}

func (repo qnaRepository) DeleteQuestion(ctx context.Context, id string) error {
	err := deleteOne(ctx, repo.db, sql.ErrNoRows, "DELETE FROM qna WHERE id = $1 AND answered_at IS NULL", id)
	switch {
	case err == sql.ErrNoRows:
		return repo.settledErr(ctx, id)
	case err != nil:
		return errors.Wrap(err, "deleting question")
	}
	return nil
}
