package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core/report"
)

type reportRepository struct {
	db sqlx.ExtContext
}

var _ report.Repository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(db sqlx.ExtContext) *reportRepository {
	return &reportRepository{db: db}
}

func (repo reportRepository) UpsertReport(ctx context.Context, r report.LearningReport) (report.LearningReport, error) {
	q := `INSERT INTO learning_reports (id, mentee_id, mentor_id, type, title, general_evaluation, strengths, improvements, created_at, updated_at)
		VALUES (:id, :mentee_id, :mentor_id, :type, :title, :general_evaluation, :strengths, :improvements, :created_at, :updated_at)
		ON CONFLICT (mentee_id, type, title) DO UPDATE
		SET mentor_id = EXCLUDED.mentor_id, general_evaluation = EXCLUDED.general_evaluation,
			strengths = EXCLUDED.strengths, improvements = EXCLUDED.improvements, updated_at = EXCLUDED.updated_at
		RETURNING *`
	var saved report.LearningReport
	if err := namedGet(ctx, repo.db, &saved, q, r); err != nil {
		return report.LearningReport{}, errors.Wrap(err, "upserting learning report")
	}
	return saved, nil
}

func (repo reportRepository) GetReport(ctx context.Context, id string) (report.LearningReport, error) {
	var r report.LearningReport
	if err := sqlx.GetContext(ctx, repo.db, &r, "SELECT * FROM learning_reports WHERE id = $1", id); err != nil {
		return report.LearningReport{}, trapNoRowsErr(err, report.ErrNotFound, "selecting learning report")
	}
	return r, nil
}

func (repo reportRepository) GetReportByKey(ctx context.Context, menteeID string, typ report.Type, title string) (report.LearningReport, error) {
	var r report.LearningReport
	q := "SELECT * FROM learning_reports WHERE mentee_id = $1 AND type = $2 AND title = $3"
	if err := sqlx.GetContext(ctx, repo.db, &r, q, menteeID, string(typ), title); err != nil {
		return report.LearningReport{}, trapNoRowsErr(err, report.ErrNotFound, "selecting learning report by key")
	}
	return r, nil
}

func (repo reportRepository) QueryReports(ctx context.Context, menteeID string, typ report.Type) ([]report.LearningReport, error) {
	var w where
	w.add("mentee_id = ?", menteeID)
	if typ != "" {
		w.add("type = ?", string(typ))
	}

	res := make([]report.LearningReport, 0)
	q := repo.db.Rebind("SELECT * FROM learning_reports" + w.String() + " ORDER BY type ASC, created_at ASC")
	if err := sqlx.SelectContext(ctx, repo.db, &res, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "selecting learning reports")
	}
	return res, nil
}
