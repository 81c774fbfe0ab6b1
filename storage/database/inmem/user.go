package inmemdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.table))
	for _, u := range repo.db.table {
		users = append(users, *u)
	}
	return users
}

func (repo *userRepository) emailTaken(email, exceptID string) bool {
	for _, usr := range repo.db.table {
		if usr.Email == email && usr.ID != exceptID {
			return true
		}
	}
	return false
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.emailTaken(usr.Email, "") {
		return user.User{}, user.ErrEmailExists
	}
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if usr, ok := repo.db.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.db.table {
		if usr.Email == email {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) FilterUsers(_ context.Context, filter user.QueryFilter, ordering ...core.DBOrdering) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	search := strings.ToLower(filter.Search)
	users := make([]user.User, 0)
	for _, usr := range repo.query() {
		if search != "" && !strings.Contains(strings.ToLower(usr.Nickname), search) && !strings.Contains(strings.ToLower(usr.Email), search) {
			continue
		}
		if filter.Role != "" && usr.Role != filter.Role {
			continue
		}
		if filter.IsActive != nil && usr.IsActive != *filter.IsActive {
			continue
		}
		users = append(users, usr)
	}

	ords := core.FilterOrderings(ordering, "nickname", "email", "created_at", "last_login")
	if len(ords) == 0 {
		ords = []core.DBOrdering{{Field: "nickname", Ascending: true}}
	}
	sort.SliceStable(users, func(i, j int) bool {
		for _, ord := range ords {
			c := compareUsers(users[i], users[j], ord.Field)
			if c == 0 {
				continue
			}
			return (c < 0) == ord.Ascending
		}
		return false
	})
	return users, nil
}

func compareUsers(a, b user.User, field string) int {
	switch field {
	case "email":
		return strings.Compare(a.Email, b.Email)
	case "created_at":
		return compareTimes(a.CreatedAt, b.CreatedAt)
	case "last_login":
		return compareTimes(a.LastLogin.Time, b.LastLogin.Time)
	default:
		return strings.Compare(a.Nickname, b.Nickname)
	}
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[usr.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}
	if repo.emailTaken(usr.Email, usr.ID) {
		return user.User{}, user.ErrEmailExists
	}
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) RevokeToken(_ context.Context, jti string, expiresAt time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.revoked[jti] = expiresAt
	return nil
}

func (repo *userRepository) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	_, ok := repo.db.revoked[jti]
	return ok, nil
}

func (repo *userRepository) PurgeRevokedTokens(_ context.Context, before time.Time) (int64, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var n int64
	for jti, exp := range repo.db.revoked {
		if exp.Before(before) {
			delete(repo.db.revoked, jti)
			n++
		}
	}
	return n, nil
}
