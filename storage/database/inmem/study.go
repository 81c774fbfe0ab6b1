package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/study"
)

type sessionRepository struct {
	db *sessionTable
}

var _ study.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(db *DB) *sessionRepository {
	return &sessionRepository{db: db.session}
}

func (repo *sessionRepository) CreateSession(_ context.Context, s study.Session) (study.Session, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table = append(repo.db.table, s)
	return s, nil
}

func (repo *sessionRepository) QuerySessions(_ context.Context, menteeID string, from, to core.Date) ([]study.Session, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	res := make([]study.Session, 0)
	for _, s := range repo.db.table {
		if s.MenteeID != menteeID || (from != "" && s.SessionDate < from) || (to != "" && s.SessionDate > to) {
			continue
		}
		res = append(res, s)
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].SessionDate != res[j].SessionDate {
			return res[i].SessionDate < res[j].SessionDate
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res, nil
}
