package echoapi

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/feedback"
)

func (s *Server) registerFeedbackAPI(authed *echo.Group) {
	g := authed.Group("/mentees/:mentee/feedback/:date", s.menteeScopeMiddleware)
	g.GET("", s.retrieveFeedback)
	g.PUT("", s.saveFeedback, mentorMiddleware)
	g.PUT("/details/:subject", s.saveFeedbackDetail, mentorMiddleware)
	g.DELETE("/details/:subject", s.destroyFeedbackDetail, mentorMiddleware)
}

func feedbackScope(ctx echo.Context) (menteeID string, date core.Date, err error) {
	mentee, err := getContextMentee(ctx)
	if err != nil {
		return "", "", err
	}
	if date, err = pathDate(ctx, "date"); err != nil {
		return "", "", err
	}
	return mentee.ID, date, nil
}

func pathSubject(ctx echo.Context) string {
	subject := ctx.Param("subject")
	if unescaped, err := url.PathUnescape(subject); err == nil {
		subject = unescaped
	}
	return subject
}

// Handlers

func (s *Server) retrieveFeedback(ctx echo.Context) error {
	menteeID, date, err := feedbackScope(ctx)
	if err != nil {
		return err
	}
	f, err := s.FeedbackSvc.Get(ctx.Request().Context(), menteeID, date)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, f)
}

func (s *Server) saveFeedback(ctx echo.Context) error {
	menteeID, date, err := feedbackScope(ctx)
	if err != nil {
		return err
	}
	mentor, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data feedback.SaveFeedback
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveFeedback")
	}
	if err := data.Validate(s.Validate); err != nil {
		return err
	}

	f, err := s.FeedbackSvc.Save(ctx.Request().Context(), mentor.ID, menteeID, date, data)
	if err != nil {
		return errors.Wrap(err, "saving feedback")
	}
	return ctx.JSON(http.StatusOK, f)
}

func (s *Server) saveFeedbackDetail(ctx echo.Context) error {
	menteeID, date, err := feedbackScope(ctx)
	if err != nil {
		return err
	}
	mentor, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data feedback.SaveDetail
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveDetail")
	}
	data.Subject = pathSubject(ctx)
	if err := data.Validate(s.Validate); err != nil {
		return err
	}

	d, err := s.FeedbackSvc.SaveDetail(ctx.Request().Context(), mentor.ID, menteeID, date, data)
	if err != nil {
		return errors.Wrap(err, "saving feedback detail")
	}
	return ctx.JSON(http.StatusOK, d)
}

func (s *Server) destroyFeedbackDetail(ctx echo.Context) error {
	menteeID, date, err := feedbackScope(ctx)
	if err != nil {
		return err
	}
	if err := s.FeedbackSvc.DeleteDetail(ctx.Request().Context(), menteeID, date, pathSubject(ctx)); err != nil {
		return errors.Wrap(err, "deleting feedback detail")
	}
	return ctx.NoContent(http.StatusNoContent)
}
