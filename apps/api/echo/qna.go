package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core/qna"
)

func (s *Server) registerQnAAPI(authed *echo.Group) {
	mg := authed.Group("/mentees/:mentee/questions", s.menteeScopeMiddleware)
	mg.GET("", s.queryQuestions)
	mg.POST("", s.askQuestion, menteeMiddleware)

	dg := authed.Group("/questions/:id", objectMiddleware(s.QnASvc.Get, func(q qna.Question) string { return q.MenteeID }))
	dg.GET("", s.retrieveQuestion)
	dg.DELETE("", s.destroyQuestion)
	dg.POST("/answer", s.answerQuestion, mentorMiddleware)
}

// Handlers

func (s *Server) queryQuestions(ctx echo.Context) error {
	mentee, err := getContextMentee(ctx)
	if err != nil {
		return err
	}
	filter := qna.QueryFilter{MenteeID: mentee.ID}
	if filter.Answered, err = queryBool(ctx, "answered"); err != nil {
		return err
	}

	questions, err := s.QnASvc.List(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying questions")
	}
	if questions == nil {
		questions = []qna.Question{}
	}
	return ctx.JSON(http.StatusOK, questions)
}

func (s *Server) askQuestion(ctx echo.Context) error {
	mentee, err := getContextMentee(ctx)
	if err != nil {
		return err
	}

	var data qna.NewQuestion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuestion")
	}
	if err := data.Validate(s.Validate); err != nil {
		return err
	}

	q, err := s.QnASvc.Ask(ctx.Request().Context(), mentee.ID, data)
	if err != nil {
		return errors.Wrap(err, "asking question")
	}
	return ctx.JSON(http.StatusCreated, q)
}

func (s *Server) retrieveQuestion(ctx echo.Context) error {
	q, err := getContextObject[qna.Question](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, q)
}

func (s *Server) answerQuestion(ctx echo.Context) error {
	q, err := getContextObject[qna.Question](ctx)
	if err != nil {
		return err
	}
	mentor, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data qna.NewAnswer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnswer")
	}
	if err := data.Validate(s.Validate); err != nil {
		return err
	}

	q, err = s.QnASvc.Answer(ctx.Request().Context(), mentor.ID, q, data)
	if err != nil {
		return errors.Wrap(err, "answering question")
	}
	return ctx.JSON(http.StatusOK, q)
}

func (s *Server) destroyQuestion(ctx echo.Context) error {
	q, err := getContextObject[qna.Question](ctx)
	if err != nil {
		return err
	}
	if err := s.QnASvc.Delete(ctx.Request().Context(), q); err != nil {
		return errors.Wrap(err, "deleting question")
	}
	return ctx.NoContent(http.StatusNoContent)
}
