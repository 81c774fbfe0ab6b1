package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/plan"
)

type planRepository struct {
	db sqlx.ExtContext
}

var _ plan.Repository = (*planRepository)(nil) // interface compliance check

func NewPlanRepository(db sqlx.ExtContext) *planRepository {
	return &planRepository{db: db}
}

func (repo planRepository) CreatePlan(ctx context.Context, p plan.Plan) (plan.Plan, error) {
	q := `INSERT INTO plans (id, mentee_id, plan_date, title, subject, start_hour, end_hour, created_at, updated_at)
		VALUES (:id, :mentee_id, :plan_date, :title, :subject, :start_hour, :end_hour, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, p); err != nil {
		return plan.Plan{}, errors.Wrap(err, "inserting plan")
	}
	return p, nil
}

func (repo planRepository) GetPlan(ctx context.Context, id string) (plan.Plan, error) {
	var p plan.Plan
	if err := sqlx.GetContext(ctx, repo.db, &p, "SELECT * FROM plans WHERE id = $1", id); err != nil {
		return plan.Plan{}, trapNoRowsErr(err, plan.ErrNotFound, "selecting plan")
	}
	return p, nil
}

func (repo planRepository) QueryPlans(ctx context.Context, menteeID string, date core.Date) ([]plan.Plan, error) {
	res := make([]plan.Plan, 0)
	q := "SELECT * FROM plans WHERE mentee_id = $1 AND plan_date = $2 ORDER BY start_hour ASC, created_at ASC"
	if err := sqlx.SelectContext(ctx, repo.db, &res, q, menteeID, date); err != nil {
		return nil, errors.Wrap(err, "selecting plans")
	}
	return res, nil
}

func (repo planRepository) UpdatePlan(ctx context.Context, p plan.Plan) (plan.Plan, error) {
	q := `UPDATE plans
		SET plan_date = :plan_date, title = :title, subject = :subject, start_hour = :start_hour, end_hour = :end_hour,
			updated_at = :updated_at
		WHERE id = :id
		RETURNING *`
	var updated plan.Plan
	if err := namedGet(ctx, repo.db, &updated, q, p); err != nil {
		return plan.Plan{}, trapNoRowsErr(err, plan.ErrNotFound, "updating plan")
	}
	return updated, nil
}

func (repo planRepository) DeletePlan(ctx context.Context, id string) error {
	err := deleteOne(ctx, repo.db, plan.ErrNotFound, "DELETE FROM plans WHERE id = $1", id)
	if err != nil && err != plan.ErrNotFound {
		return errors.Wrap(err, "deleting plan")
	}
	return err
}
