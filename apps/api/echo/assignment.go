package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core/assignment"
)

func (s *Server) registerAssignmentAPI(authed *echo.Group) {
	mg := authed.Group("/mentees/:mentee/assignments", s.menteeScopeMiddleware)
	mg.GET("", s.queryAssignments)
	mg.POST("", s.createAssignment, mentorMiddleware)

	// detail endpoints
	dg := authed.Group("/assignments/:id", objectMiddleware(s.AssignmentSvc.Get, func(a assignment.Assignment) string { return a.MenteeID }))
	dg.GET("", s.retrieveAssignment)
	dg.PUT("", s.updateAssignment, mentorMiddleware)
	dg.PATCH("", s.setAssignmentCompleted)
	dg.DELETE("", s.destroyAssignment, mentorMiddleware)
	dg.GET("/verifications", s.queryVerifications)
	dg.POST("/verifications", s.createVerification, menteeMiddleware)
}

// Handlers

func (s *Server) queryAssignments(ctx echo.Context) error {
	mentee, err := getContextMentee(ctx)
	if err != nil {
		return err
	}
	filter := assignment.QueryFilter{MenteeID: mentee.ID}
	if filter.ActiveOn, err = queryDate(ctx, "date", ""); err != nil {
		return err
	}
	if filter.From, err = queryDate(ctx, "from", ""); err != nil {
		return err
	}
	if filter.To, err = queryDate(ctx, "to", ""); err != nil {
		return err
	}

	assignments, err := s.AssignmentSvc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if assignments == nil {
		assignments = []assignment.Assignment{}
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (s *Server) createAssignment(ctx echo.Context) error {
	mentee, err := getContextMentee(ctx)
	if err != nil {
		return err
	}
	mentor, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(s.Validate); err != nil {
		return err
	}

	a, err := s.AssignmentSvc.Create(ctx.Request().Context(), mentor.ID, mentee.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (s *Server) retrieveAssignment(ctx echo.Context) error {
	a, err := getContextObject[assignment.Assignment](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (s *Server) updateAssignment(ctx echo.Context) error {
	a, err := getContextObject[assignment.Assignment](ctx)
	if err != nil {
		return err
	}

	var data assignment.UpdateAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	if err := data.Validate(a, s.Validate); err != nil {
		return err
	}

	a, err = s.AssignmentSvc.Update(ctx.Request().Context(), a, data)
	if err != nil {
		return errors.Wrap(err, "updating assignment")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (s *Server) setAssignmentCompleted(ctx echo.Context) error {
	a, err := getContextObject[assignment.Assignment](ctx)
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

	a, err = s.AssignmentSvc.SetCompleted(ctx.Request().Context(), a, *data.Completed)
	if err != nil {
		return errors.Wrap(err, "setting assignment completion")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (s *Server) destroyAssignment(ctx echo.Context) error {
	a, err := getContextObject[assignment.Assignment](ctx)
	if err != nil {
		return err
	}
	if err := s.AssignmentSvc.Delete(ctx.Request().Context(), a); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) queryVerifications(ctx echo.Context) error {
	a, err := getContextObject[assignment.Assignment](ctx)
	if err != nil {
		return err
	}
	verifications, err := s.AssignmentSvc.ListVerifications(ctx.Request().Context(), a)
	if err != nil {
		return errors.Wrap(err, "querying verifications")
	}
	if verifications == nil {
		verifications = []assignment.Verification{}
	}
	return ctx.JSON(http.StatusOK, verifications)
}

func (s *Server) createVerification(ctx echo.Context) error {
	a, err := getContextObject[assignment.Assignment](ctx)
	if err != nil {
		return err
	}

	var data assignment.NewVerification
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewVerification")
	}
	if err := data.Validate(s.Validate); err != nil {
		return err
	}

	v, err := s.AssignmentSvc.Verify(ctx.Request().Context(), a, data)
	if err != nil {
		return errors.Wrap(err, "verifying assignment")
	}
	return ctx.JSON(http.StatusCreated, v)
}
