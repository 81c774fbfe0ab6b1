package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core/plan"
)

func (s *Server) registerPlanAPI(authed *echo.Group) {
	mg := authed.Group("/mentees/:mentee/plans", s.menteeScopeMiddleware)
	mg.GET("", s.queryPlans)
	mg.POST("", s.createPlan)

	dg := authed.Group("/plans/:id", objectMiddleware(s.PlanSvc.Get, func(p plan.Plan) string { return p.MenteeID }))
	dg.GET("", s.retrievePlan)
	dg.PUT("", s.updatePlan)
	dg.DELETE("", s.destroyPlan)
}

// Handlers

func (s *Server) queryPlans(ctx echo.Context) error {
	mentee, err := getContextMentee(ctx)
	if err != nil {
		return err
	}
	date, err := queryDate(ctx, "date", s.today())
	if err != nil {
		return err
	}

	plans, err := s.PlanSvc.List(ctx.Request().Context(), mentee.ID, date)
	if err != nil {
		return errors.Wrap(err, "querying plans")
	}
	if plans == nil {
		plans = []plan.Plan{}
	}
	return ctx.JSON(http.StatusOK, plans)
}

func (s *Server) createPlan(ctx echo.Context) error {
	mentee, err := getContextMentee(ctx)
	if err != nil {
		return err
	}

	var data plan.NewPlan
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPlan")
	}
	if err := data.Validate(s.Validate); err != nil {
		return err
	}

	p, err := s.PlanSvc.Create(ctx.Request().Context(), mentee.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating plan")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (s *Server) retrievePlan(ctx echo.Context) error {
	p, err := getContextObject[plan.Plan](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (s *Server) updatePlan(ctx echo.Context) error {
	p, err := getContextObject[plan.Plan](ctx)
	if err != nil {
		return err
	}

	var data plan.NewPlan
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPlan")
	}
	if err := data.Validate(s.Validate); err != nil {
		return err
	}

	p, err = s.PlanSvc.Update(ctx.Request().Context(), p, data)
	if err != nil {
		return errors.Wrap(err, "updating plan")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (s *Server) destroyPlan(ctx echo.Context) error {
	p, err := getContextObject[plan.Plan](ctx)
	if err != nil {
		return err
	}
	if err := s.PlanSvc.Delete(ctx.Request().Context(), p); err != nil {
		return errors.Wrap(err, "deleting plan")
	}
	return ctx.NoContent(http.StatusNoContent)
}
