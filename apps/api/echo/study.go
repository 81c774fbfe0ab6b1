package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core/study"
)

func (s *Server) registerStudyAPI(authed *echo.Group) {
	mg := authed.Group("/mentees/:mentee/study-sessions", s.menteeScopeMiddleware)
	mg.GET("", s.queryStudySessions)

	// the timer is always the caller's own
	tg := authed.Group("/timer", menteeMiddleware)
	tg.GET("", s.timerStatus)
	tg.POST("/start", s.startTimer)
	tg.POST("/pause", s.timerAction((*study.Timer).Pause))
	tg.POST("/resume", s.timerAction((*study.Timer).Resume))
	tg.POST("/cancel", s.timerAction((*study.Timer).Cancel))
	tg.POST("/save", s.saveTimer)
}

type StartTimerRequest struct {
	Subject string `json:"subject" validate:"required"`
}

func (s *Server) contextTimer(ctx echo.Context) (*study.Timer, error) {
	usr, err := getContextUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.Timers.Get(usr.ID), nil
}

// Handlers

func (s *Server) queryStudySessions(ctx echo.Context) error {
	mentee, err := getContextMentee(ctx)
	if err != nil {
		return err
	}
	from, err := queryDate(ctx, "from", "")
	if err != nil {
		return err
	}
	to, err := queryDate(ctx, "to", "")
	if err != nil {
		return err
	}

	sessions, err := s.StudySvc.List(ctx.Request().Context(), mentee.ID, from, to)
	if err != nil {
		return errors.Wrap(err, "querying study sessions")
	}
	if sessions == nil {
		sessions = []study.Session{}
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (s *Server) timerStatus(ctx echo.Context) error {
	t, err := s.contextTimer(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t.Status())
}

func (s *Server) startTimer(ctx echo.Context) error {
	t, err := s.contextTimer(ctx)
	if err != nil {
		return err
	}

	var data StartTimerRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StartTimerRequest")
	}
	if err := s.Validate.Struct(data); err != nil {
		return err
	}

	status, err := t.Start(data.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, status)
}

func (s *Server) timerAction(action func(*study.Timer) (study.Status, error)) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		t, err := s.contextTimer(ctx)
		if err != nil {
			return err
		}
		status, err := action(t)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, status)
	}
}

func (s *Server) saveTimer(ctx echo.Context) error {
	t, err := s.contextTimer(ctx)
	if err != nil {
		return err
	}
	sess, err := t.Save(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sess)
}
