package user

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mentori/core"
)

var (
	// errors
	ErrNotFound    = core.NewNotFoundError("user")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		// CreateUser returns ErrEmailExists when the email is taken.
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// FilterUsers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of User.Nickname or User.Email.
		FilterUsers(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)

		RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error
		IsTokenRevoked(ctx context.Context, jti string) (bool, error)
		// PurgeRevokedTokens drops revocations of tokens that expired before `before`.
		PurgeRevokedTokens(ctx context.Context, before time.Time) (int64, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckUniqueness(email string, exclUsers ...User) error {
	usr, err := svc.repo.GetUserByEmail(context.Background(), email)
	if err != nil {
		if core.IsNotFound(err) {
			return nil
		}
		return errors.Wrap(err, "finding user by email")
	}
	for _, excl := range exclUsers {
		if usr.ID == excl.ID {
			return nil
		}
	}
	return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	now := core.NowFunc().UTC()
	usr := User{
		ID:        uuid.NewString(),
		Email:     nu.Email,
		Nickname:  nu.Nickname,
		Role:      nu.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	usr, err := svc.repo.CreateUser(ctx, usr)
	if errors.Cause(err) == ErrEmailExists {
		return User{}, core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
	}
	return usr, err
}

// AddOrUpdate creates the user with the given email or resets its nickname, role and password.
func (svc *Service) AddOrUpdate(ctx context.Context, email, nickname, role, pwd string) (User, error) {
	email = core.CleanString(email, true /* lower */)
	usr, err := svc.repo.GetUserByEmail(ctx, email)
	if err != nil && !core.IsNotFound(err) {
		return User{}, errors.Wrap(err, "finding user by email")
	}
	if err != nil {
		return svc.Create(ctx, NewUser{Email: email, Nickname: core.CleanString(nickname), Role: role, Password: pwd})
	}

	usr.Nickname = core.CleanString(nickname)
	usr.Role = role
	usr.IsActive = true
	usr.UpdatedAt = core.NowFunc().UTC()
	if err := usr.SetPassword(pwd); err != nil {
		return User{}, err
	}
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

// GetMentee returns the mentee with the given id. Other roles are reported as not found.
func (svc *Service) GetMentee(ctx context.Context, id string) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if !usr.IsMentee() {
		return User{}, ErrNotFound
	}
	return usr, nil
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]User, error) {
	return svc.repo.FilterUsers(ctx, filter, ordering...)
}

func (svc *Service) ListMentees(ctx context.Context, search string, ordering ...core.DBOrdering) ([]User, error) {
	active := true
	return svc.repo.FilterUsers(ctx, QueryFilter{Search: search, Role: RoleMentee, IsActive: &active}, ordering...)
}

func (svc *Service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = null.TimeFrom(core.NowFunc().UTC())
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) SetPassword(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return User{}, err
	}
	usr.UpdatedAt = core.NowFunc().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	return svc.repo.RevokeToken(ctx, jti, expiresAt)
}

func (svc *Service) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	return svc.repo.IsTokenRevoked(ctx, jti)
}

func (svc *Service) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return svc.repo.PurgeRevokedTokens(ctx, core.NowFunc().UTC())
}
