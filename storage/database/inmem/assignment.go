package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/mentori/core/assignment"
)

type assignmentRepository struct {
	db *assignmentTable
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) *assignmentRepository {
	return &assignmentRepository{db: db.assignment}
}

func (repo *assignmentRepository) CreateAssignment(_ context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[a.ID] = &a
	return a, nil
}

func (repo *assignmentRepository) GetAssignment(_ context.Context, id string) (assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.table[id]; ok {
		return *a, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) QueryAssignments(_ context.Context, filter assignment.QueryFilter) ([]assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	res := make([]assignment.Assignment, 0)
	for _, a := range repo.db.table {
		if filter.Match(*a) {
			res = append(res, *a)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].EndDate != res[j].EndDate {
			return res[i].EndDate < res[j].EndDate
		}
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.Before(res[j].CreatedAt)
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (repo *assignmentRepository) UpdateAssignment(_ context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[a.ID]
	if !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	// completion has its own transition
	a.Completed = orig.Completed
	a.CreatedAt = orig.CreatedAt
	repo.db.table[a.ID] = &a
	return a, nil
}

func (repo *assignmentRepository) SetAssignmentCompleted(_ context.Context, id string, completed bool, at time.Time) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	a, ok := repo.db.table[id]
	if !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	a.Completed = completed
	a.UpdatedAt = at
	return *a, nil
}

func (repo *assignmentRepository) DeleteAssignment(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return assignment.ErrNotFound
	}
	delete(repo.db.table, id)
	for vid, v := range repo.db.verifications {
		if v.AssignmentID == id {
			delete(repo.db.verifications, vid)
		}
	}
	return nil
}

func (repo *assignmentRepository) CreateVerification(_ context.Context, v assignment.Verification) (assignment.Verification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[v.AssignmentID]; !ok {
		return assignment.Verification{}, assignment.ErrNotFound
	}
	repo.db.verifications[v.ID] = &v
	return v, nil
}

func (repo *assignmentRepository) QueryVerifications(_ context.Context, assignmentID string) ([]assignment.Verification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	res := make([]assignment.Verification, 0)
	for _, v := range repo.db.verifications {
		if v.AssignmentID == assignmentID {
			res = append(res, *v)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

func (repo *assignmentRepository) VerificationExists(_ context.Context, assignmentID string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, v := range repo.db.verifications {
		if v.AssignmentID == assignmentID {
			return true, nil
		}
	}
	return false, nil
}
