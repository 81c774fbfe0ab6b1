package inmemdb

import (
	"context"

	"github.com/trezcool/mentori/core/memo"
)

type memoRepository struct {
	db *memoTable
}

var _ memo.Repository = (*memoRepository)(nil) // interface compliance check

func NewMemoRepository(db *DB) *memoRepository {
	return &memoRepository{db: db.memo}
}

func (repo *memoRepository) GetMemo(_ context.Context, userID string) (memo.Memo, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if m, ok := repo.db.table[userID]; ok {
		return *m, nil
	}
	return memo.Memo{}, memo.ErrNotFound
}

func (repo *memoRepository) UpsertMemo(_ context.Context, m memo.Memo) (memo.Memo, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if orig, ok := repo.db.table[m.UserID]; ok {
		orig.Content = m.Content
		orig.UpdatedAt = m.UpdatedAt
		return *orig, nil
	}
	repo.db.table[m.UserID] = &m
	return m, nil
}
