package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/study"
)

type sessionRepository struct {
	db sqlx.ExtContext
}

var _ study.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(db sqlx.ExtContext) *sessionRepository {
	return &sessionRepository{db: db}
}

func (repo sessionRepository) CreateSession(ctx context.Context, s study.Session) (study.Session, error) {
	q := `INSERT INTO study_sessions (id, mentee_id, subject, duration_seconds, session_date, created_at)
		VALUES (:id, :mentee_id, :subject, :duration_seconds, :session_date, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, s); err != nil {
		return study.Session{}, errors.Wrap(err, "inserting study session")
	}
	return s, nil
}

func (repo sessionRepository) QuerySessions(ctx context.Context, menteeID string, from, to core.Date) ([]study.Session, error) {
	var w where
	w.add("mentee_id = ?", menteeID)
	if from != "" {
		w.add("session_date >= ?", from)
	}
	if to != "" {
		w.add("session_date <= ?", to)
	}

	res := make([]study.Session, 0)
	q := repo.db.Rebind("SELECT * FROM study_sessions" + w.String() + " ORDER BY session_date ASC, created_at ASC")
	if err := sqlx.SelectContext(ctx, repo.db, &res, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "selecting study sessions")
	}
	return res, nil
}
