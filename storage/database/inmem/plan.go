package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/plan"
)

type planRepository struct {
	db *planTable
}

var _ plan.Repository = (*planRepository)(nil) // interface compliance check

func NewPlanRepository(db *DB) *planRepository {
	return &planRepository{db: db.plan}
}

func (repo *planRepository) CreatePlan(_ context.Context, p plan.Plan) (plan.Plan, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[p.ID] = &p
	return p, nil
}

func (repo *planRepository) GetPlan(_ context.Context, id string) (plan.Plan, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.table[id]; ok {
		return *p, nil
	}
	return plan.Plan{}, plan.ErrNotFound
}

func (repo *planRepository) QueryPlans(_ context.Context, menteeID string, date core.Date) ([]plan.Plan, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	res := make([]plan.Plan, 0)
	for _, p := range repo.db.table {
		if p.MenteeID == menteeID && p.PlanDate == date {
			res = append(res, *p)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].StartHour != res[j].StartHour {
			return res[i].StartHour < res[j].StartHour
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res, nil
}

func (repo *planRepository) UpdatePlan(_ context.Context, p plan.Plan) (plan.Plan, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[p.ID]
	if !ok {
		return plan.Plan{}, plan.ErrNotFound
	}
	p.CreatedAt = orig.CreatedAt
	repo.db.table[p.ID] = &p
	return p, nil
}

func (repo *planRepository) DeletePlan(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return plan.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
