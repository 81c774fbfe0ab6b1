package echoapi

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core/user"
)

var errObjNotFoundInCtx = errors.New("object not found in echo.Context")

func roleMiddleware(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			if usr.Role == role {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

var (
	mentorMiddleware = roleMiddleware(user.RoleMentor)
	menteeMiddleware = roleMiddleware(user.RoleMentee)
)

// canAccess reports whether usr may see the rows of the given mentee.
// Mentors see every mentee, mentees only themselves.
func canAccess(usr user.User, menteeID string) bool {
	return usr.IsMentor() || usr.ID == menteeID
}

// menteeScopeMiddleware resolves the `:mentee` path param into the mentee the request is about.
func (s *Server) menteeScopeMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		usr, err := getContextUser(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context user")
		}

		id := ctx.Param("mentee")
		if usr.IsMentee() {
			if id != usr.ID {
				return errHttpForbidden
			}
			ctx.Set(contextMenteeKey, usr)
			return next(ctx)
		}

		mentee, err := s.UserSvc.GetMentee(ctx.Request().Context(), id)
		if err != nil {
			return err
		}
		ctx.Set(contextMenteeKey, mentee)
		return next(ctx)
	}
}

func getContextMentee(ctx echo.Context) (user.User, error) {
	if mentee, ok := ctx.Get(contextMenteeKey).(user.User); ok {
		return mentee, nil
	}
	return user.User{}, errors.Wrap(errObjNotFoundInCtx, "retrieving mentee from context")
}

// objectMiddleware loads the `:id` object and checks that the context user may access its mentee's rows.
func objectMiddleware[T any](load func(context.Context, string) (T, error), menteeOf func(T) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			obj, err := load(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				return err
			}
			if !canAccess(usr, menteeOf(obj)) {
				return errHttpForbidden
			}
			ctx.Set(contextObjectKey, obj)
			return next(ctx)
		}
	}
}

func getContextObject[T any](ctx echo.Context) (T, error) {
	obj, ok := ctx.Get(contextObjectKey).(T)
	if !ok {
		return obj, errors.Wrap(errObjNotFoundInCtx, "retrieving object from context")
	}
	return obj, nil
}
