package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core/memo"
)

type memoRepository struct {
	db sqlx.ExtContext
}

var _ memo.Repository = (*memoRepository)(nil) // interface compliance check

func NewMemoRepository(db sqlx.ExtContext) *memoRepository {
	return &memoRepository{db: db}
}

func (repo memoRepository) GetMemo(ctx context.Context, userID string) (memo.Memo, error) {
	var m memo.Memo
	if err := sqlx.GetContext(ctx, repo.db, &m, "SELECT * FROM memos WHERE user_id = $1", userID); err != nil {
		return memo.Memo{}, trapNoRowsErr(err, memo.ErrNotFound, "selecting memo")
	}
	return m, nil
}

func (repo memoRepository) UpsertMemo(ctx context.Context, m memo.Memo) (memo.Memo, error) {
	q := `INSERT INTO memos (id, user_id, content, updated_at)
		VALUES (:id, :user_id, :content, :updated_at)
		ON CONFLICT (user_id) DO UPDATE SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at
		RETURNING *`
	var saved memo.Memo
	if err := namedGet(ctx, repo.db, &saved, q, m); err != nil {
		return memo.Memo{}, errors.Wrap(err, "upserting memo")
	}
	return saved, nil
}
