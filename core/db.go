package core

import (
	"context"
	"database/sql"
)

type (
	DBExecutor interface {
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
		QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	}

	DB interface {
		DBExecutor

		BeginTx(context.Context, *sql.TxOptions) (*sql.Tx, error)
	}
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// FilterOrderings keeps the orderings whose field is one of `allowed`, preserving their order.
func FilterOrderings(ords []DBOrdering, allowed ...string) []DBOrdering {
	res := make([]DBOrdering, 0, len(ords))
	for _, ord := range ords {
		for _, a := range allowed {
			if ord.Field == a {
				res = append(res, ord)
				break
			}
		}
	}
	return res
}
