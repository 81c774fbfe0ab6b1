package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core/todo"
)

func (s *Server) registerTodoAPI(authed *echo.Group) {
	mg := authed.Group("/mentees/:mentee/todos", s.menteeScopeMiddleware)
	mg.GET("", s.queryTodos)
	mg.POST("", s.createTodo, menteeMiddleware)

	dg := authed.Group("/todos/:id", objectMiddleware(s.TodoSvc.Get, func(t todo.Todo) string { return t.MenteeID }))
	dg.PATCH("", s.setTodoCompleted)
	dg.DELETE("", s.destroyTodo)
}

// Handlers

func (s *Server) queryTodos(ctx echo.Context) error {
	mentee, err := getContextMentee(ctx)
	if err != nil {
		return err
	}
	date, err := queryDate(ctx, "date", s.today())
	if err != nil {
		return err
	}

	todos, err := s.TodoSvc.List(ctx.Request().Context(), mentee.ID, date)
	if err != nil {
		return errors.Wrap(err, "querying todos")
	}
	if todos == nil {
		todos = []todo.Todo{}
	}
	return ctx.JSON(http.StatusOK, todos)
}

func (s *Server) createTodo(ctx echo.Context) error {
	mentee, err := getContextMentee(ctx)
	if err != nil {
		return err
	}

	var data todo.NewTodo
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTodo")
	}
	if data.TargetDate == "" {
		data.TargetDate = s.today()
	}
	if err := data.Validate(s.Validate); err != nil {
		return err
	}

	t, err := s.TodoSvc.Create(ctx.Request().Context(), mentee.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating todo")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (s *Server) setTodoCompleted(ctx echo.Context) error {
	t, err := getContextObject[todo.Todo](ctx)
	if err != nil {
		return err
	}

	var data CompletionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CompletionRequest")
	}
	if err := s.Validate.Struct(data); err != nil {
		return err
	}

	t, err = s.TodoSvc.SetCompleted(ctx.Request().Context(), t, *data.Completed)
	if err != nil {
		return errors.Wrap(err, "setting todo completion")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (s *Server) destroyTodo(ctx echo.Context) error {
	t, err := getContextObject[todo.Todo](ctx)
	if err != nil {
		return err
	}
	if err := s.TodoSvc.Delete(ctx.Request().Context(), t); err != nil {
		return errors.Wrap(err, "deleting todo")
	}
	return ctx.NoContent(http.StatusNoContent)
}
