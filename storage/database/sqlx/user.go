package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/user"
)

var userOrderingFields = []string{"nickname", "email", "created_at", "last_login"}

type userRepository struct {
	db sqlx.ExtContext
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db sqlx.ExtContext) *userRepository {
	return &userRepository{db: db}
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := `INSERT INTO profiles (id, email, nickname, role, is_active, password_hash, created_at, updated_at, last_login)
		VALUES (:id, :email, :nickname, :role, :is_active, :password_hash, :created_at, :updated_at, :last_login)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, usr); err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var usr user.User
	if err := sqlx.GetContext(ctx, repo.db, &usr, "SELECT * FROM profiles WHERE id = $1", id); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "selecting user by id")
	}
	return usr, nil
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	if err := sqlx.GetContext(ctx, repo.db, &usr, "SELECT * FROM profiles WHERE email = $1", email); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "selecting user by email")
	}
	return usr, nil
}

func (repo userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter, ordering ...core.DBOrdering) ([]user.User, error) {
	var w where
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		w.add("(LOWER(nickname) LIKE ? OR LOWER(email) LIKE ?)", pattern, pattern)
	}
	if filter.Role != "" {
		w.add("role = ?", filter.Role)
	}
	if filter.IsActive != nil {
		w.add("is_active = ?", *filter.IsActive)
	}

	orderBy := "nickname ASC"
	if ords := core.FilterOrderings(ordering, userOrderingFields...); len(ords) > 0 {
		parts := make([]string, 0, len(ords))
		for _, ord := range ords {
			parts = append(parts, ord.String())
		}
		orderBy = strings.Join(parts, ", ")
	}

	users := make([]user.User, 0)
	q := repo.db.Rebind("SELECT * FROM profiles" + w.String() + " ORDER BY " + orderBy)
	if err := sqlx.SelectContext(ctx, repo.db, &users, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	return users, nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := `UPDATE profiles
		SET email = :email, nickname = :nickname, role = :role, is_active = :is_active,
			password_hash = :password_hash, updated_at = :updated_at, last_login = :last_login
		WHERE id = :id
		RETURNING *`
	var updated user.User
	if err := namedGet(ctx, repo.db, &updated, q, usr); err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "updating user")
	}
	return updated, nil
}

func (repo userRepository) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	q := "INSERT INTO revoked_tokens (jti, expires_at) VALUES ($1, $2) ON CONFLICT (jti) DO NOTHING"
	if _, err := repo.db.ExecContext(ctx, q, jti, expiresAt.UTC()); err != nil {
		return errors.Wrap(err, "revoking token")
	}
	return nil
}

func (repo userRepository) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	q := "SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)"
	if err := sqlx.GetContext(ctx, repo.db, &revoked, q, jti); err != nil {
		return false, errors.Wrap(err, "checking revoked token")
	}
	return revoked, nil
}

func (repo userRepository) PurgeRevokedTokens(ctx context.Context, before time.Time) (int64, error) {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM revoked_tokens WHERE expires_at < $1", before.UTC())
	if err != nil {
		return 0, errors.Wrap(err, "purging revoked tokens")
	}
	return res.RowsAffected()
}
