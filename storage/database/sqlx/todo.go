package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/todo"
)

type todoRepository struct {
	db sqlx.ExtContext
}

var _ todo.Repository = (*todoRepository)(nil) // interface compliance check

func NewTodoRepository(db sqlx.ExtContext) *todoRepository {
	return &todoRepository{db: db}
}

func (repo todoRepository) CreateTodo(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	q := `INSERT INTO todos (id, mentee_id, content, subject, target_date, is_completed, created_at, updated_at)
		VALUES (:id, :mentee_id, :content, :subject, :target_date, :is_completed, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, t); err != nil {
		return todo.Todo{}, errors.Wrap(err, "inserting todo")
	}
	return t, nil
}

func (repo todoRepository) GetTodo(ctx context.Context, id string) (todo.Todo, error) {
	var t todo.Todo
	if err := sqlx.GetContext(ctx, repo.db, &t, "SELECT * FROM todos WHERE id = $1", id); err != nil {
		return todo.Todo{}, trapNoRowsErr(err, todo.ErrNotFound, "selecting todo")
	}
	return t, nil
}

func (repo todoRepository) QueryTodos(ctx context.Context, menteeID string, date core.Date) ([]todo.Todo, error) {
	res := make([]todo.Todo, 0)
	q := "SELECT * FROM todos WHERE mentee_id = $1 AND target_date = $2 ORDER BY created_at ASC"
	if err := sqlx.SelectContext(ctx, repo.db, &res, q, menteeID, date); err != nil {
		return nil, errors.Wrap(err, "selecting todos")
	}
	return res, nil
}

func (repo todoRepository) SetTodoCompleted(ctx context.Context, id string, completed bool, at time.Time) (todo.Todo, error) {
	var t todo.Todo
	q := "UPDATE todos SET is_completed = $2, updated_at = $3 WHERE id = $1 RETURNING *"
	if err := sqlx.GetContext(ctx, repo.db, &t, q, id, completed, at.UTC()); err != nil {
		return todo.Todo{}, trapNoRowsErr(err, todo.ErrNotFound, "updating todo completion")
	}
	return t, nil
}

func (repo todoRepository) DeleteTodo(ctx context.Context, id string) error {
	err := deleteOne(ctx, repo.db, todo.ErrNotFound, "DELETE FROM todos WHERE id = $1", id)
	if err != nil && err != todo.ErrNotFound {
		return errors.Wrap(err, "deleting todo")
	}
	return err
}
