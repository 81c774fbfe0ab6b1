package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/todo"
)

type todoRepository struct {
	db *todoTable
}

var _ todo.Repository = (*todoRepository)(nil) // interface compliance check

func NewTodoRepository(db *DB) *todoRepository {
	return &todoRepository{db: db.todo}
}

func (repo *todoRepository) CreateTodo(_ context.Context, t todo.Todo) (todo.Todo, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[t.ID] = &t
	return t, nil
}

func (repo *todoRepository) GetTodo(_ context.Context, id string) (todo.Todo, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.table[id]; ok {
		return *t, nil
	}
	return todo.Todo{}, todo.ErrNotFound
}

func (repo *todoRepository) QueryTodos(_ context.Context, menteeID string, date core.Date) ([]todo.Todo, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	res := make([]todo.Todo, 0)
	for _, t := range repo.db.table {
		if t.MenteeID == menteeID && t.TargetDate == date {
			res = append(res, *t)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.Before(res[j].CreatedAt)
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (repo *todoRepository) SetTodoCompleted(_ context.Context, id string, completed bool, at time.Time) (todo.Todo, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	t, ok := repo.db.table[id]
	if !ok {
		return todo.Todo{}, todo.ErrNotFound
	}
	t.Completed = completed
	t.UpdatedAt = at
	return *t, nil
}

func (repo *todoRepository) DeleteTodo(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return todo.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
