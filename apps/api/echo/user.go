package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/user"
)

func (s *Server) registerUserAPI(v1, authed *echo.Group) {
	ug := v1.Group("/users")

	// un-authed endpoints
	ug.POST("/signup", s.signup)
	ug.POST("/login", s.login)

	// authed endpoints
	ag := authed.Group("/users")
	ag.POST("/logout", s.logout)
	ag.POST("/token-refresh", s.tokenRefresh)
	ag.GET("/me", s.me)

	authed.GET("/mentees", s.queryMentees, mentorMiddleware)
}

// Handlers

func (s *Server) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(s.Validate, s.UserSvc); err != nil {
		return err
	}

	usr, err := s.UserSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (s *Server) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(s.Validate); err != nil {
		return err
	}

	claims, err := s.authenticate(ctx, data.Email, data.Password)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(s.Conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	usr, _ := getContextUser(ctx)
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: &usr})
}

func (s *Server) logout(ctx echo.Context) error {
	if err := s.revokeToken(ctx); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) tokenRefresh(ctx echo.Context) error {
	token, err := s.refreshToken(ctx)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (s *Server) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (s *Server) queryMentees(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx)

	mentees, err := s.UserSvc.ListMentees(ctx.Request().Context(), core.CleanString(ctx.QueryParam("search")), ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying mentees")
	}
	if mentees == nil {
		mentees = []user.User{}
	}
	return ctx.JSON(http.StatusOK, mentees)
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string     `json:"token"`
		User  *user.User `json:"user,omitempty"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}
