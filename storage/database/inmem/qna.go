package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/mentori/core/qna"
)

type qnaRepository struct {
	db *qnaTable
}

var _ qna.Repository = (*qnaRepository)(nil) // interface compliance check

func NewQnARepository(db *DB) *qnaRepository {
	return &qnaRepository{db: db.qna}
}

func (repo *qnaRepository) CreateQuestion(_ context.Context, q qna.Question) (qna.Question, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[q.ID] = &q
	return q, nil
}

func (repo *qnaRepository) GetQuestion(_ context.Context, id string) (qna.Question, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if q, ok := repo.db.table[id]; ok {
		return *q, nil
	}
	return qna.Question{}, qna.ErrNotFound
}

func (repo *qnaRepository) QueryQuestions(_ context.Context, filter qna.QueryFilter) ([]qna.Question, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	res := make([]qna.Question, 0)
	for _, q := range repo.db.table {
		if filter.Match(*q) {
			res = append(res, *q)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID > res[j].ID
	})
	return res, nil
}

func (repo *qnaRepository) AnswerQuestion(_ context.Context, q qna.Question) (qna.Question, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[q.ID]
	if !ok {
		return qna.Question{}, qna.ErrNotFound
	}
	if orig.Answered() {
		return qna.Question{}, qna.ErrAlreadyAnswered
	}
	orig.Answer = q.Answer
	orig.AnswerAttachmentURL = q.AnswerAttachmentURL
	orig.AnsweredBy = q.AnsweredBy
	orig.AnsweredAt = q.AnsweredAt
	return *orig, nil
}

func (repo *qnaRepository) DeleteQuestion(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	q, ok := repo.db.table[id]
	if !ok {
		return qna.ErrNotFound
	}
	if q.Answered() {
		return qna.ErrAlreadyAnswered
	}
	delete(repo.db.table, id)
	return nil
}
