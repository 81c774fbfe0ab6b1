package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/mentori/core/report"
)

type reportRepository struct {
	db *reportTable
}

var _ report.Repository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(db *DB) *reportRepository {
	return &reportRepository{db: db.report}
}

func (repo *reportRepository) find(menteeID string, typ report.Type, title string) *report.LearningReport {
	for _, r := range repo.db.table {
		if r.MenteeID == menteeID && r.Type == typ && r.Title == title {
			return r
		}
	}
	return nil
}

func (repo *reportRepository) UpsertReport(_ context.Context, r report.LearningReport) (report.LearningReport, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if orig := repo.find(r.MenteeID, r.Type, r.Title); orig != nil {
		orig.MentorID = r.MentorID
		orig.GeneralEvaluation = r.GeneralEvaluation
		orig.Strengths = r.Strengths
		orig.Improvements = r.Improvements
		orig.UpdatedAt = r.UpdatedAt
		return *orig, nil
	}
	repo.db.table[r.ID] = &r
	return r, nil
}

func (repo *reportRepository) GetReport(_ context.Context, id string) (report.LearningReport, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.db.table[id]; ok {
		return *r, nil
	}
	return report.LearningReport{}, report.ErrNotFound
}

func (repo *reportRepository) GetReportByKey(_ context.Context, menteeID string, typ report.Type, title string) (report.LearningReport, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r := repo.find(menteeID, typ, title); r != nil {
		return *r, nil
	}
	return report.LearningReport{}, report.ErrNotFound
}

func (repo *reportRepository) QueryReports(_ context.Context, menteeID string, typ report.Type) ([]report.LearningReport, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	res := make([]report.LearningReport, 0)
	for _, r := range repo.db.table {
		if r.MenteeID == menteeID && (typ == "" || r.Type == typ) {
			res = append(res, *r)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Type != res[j].Type {
			return res[i].Type < res[j].Type
		}
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.Before(res[j].CreatedAt)
		}
		return res[i].Title < res[j].Title
	})
	return res, nil
}
