package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/dashboard"
)

var (
	errInvalidItemType = errors.New("must be one of assignment, todo")
	errInvalidDays     = errors.Errorf("must be between 1 and %d", dashboard.MaxStudyWindow)
)

func (s *Server) registerDashboardAPI(authed *echo.Group) {
	g := authed.Group("/mentees/:mentee", s.menteeScopeMiddleware)
	g.GET("/items", s.dashboardItems)
	g.PATCH("/items/:type/:id", s.setItemCompleted)
	g.DELETE("/items/:type/:id", s.destroyItem)
	g.GET("/progress", s.dashboardProgress)
	g.GET("/study-stats", s.dashboardStudyStats)
	g.GET("/calendar", s.dashboardCalendar)
}

func pathItemType(ctx echo.Context) (dashboard.ItemType, error) {
	typ, ok := dashboard.ParseItemType(ctx.Param("type"))
	if !ok {
		return "", invalidParam("type", errInvalidItemType)
	}
	return typ, nil
}

// Handlers

func (s *Server) dashboardItems(ctx echo.Context) error {
	mentee, err := getContextMentee(ctx)
	if err != nil {
		return err
	}
	date, err := queryDate(ctx, "date", s.today())
	if err != nil {
		return err
	}

	view, err := s.DashboardSvc.Items(ctx.Request().Context(), mentee.ID, date)
	if err != nil {
		return errors.Wrap(err, "listing dashboard items")
	}
	if view.Items == nil {
		view.Items = []dashboard.Item{}
	}
	return ctx.JSON(http.StatusOK, view)
}

func (s *Server) setItemCompleted(ctx echo.Context) error {
	mentee, err := getContextMentee(ctx)
	if err != nil {
		return err
	}
	typ, err := pathItemType(ctx)
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

	item, err := s.DashboardSvc.SetItemCompleted(ctx.Request().Context(), mentee.ID, typ, ctx.Param("id"), *data.Completed)
	if err != nil {
		return errors.Wrap(err, "setting item completion")
	}
	return ctx.JSON(http.StatusOK, item)
}

func (s *Server) destroyItem(ctx echo.Context) error {
	mentee, err := getContextMentee(ctx)
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	typ, err := pathItemType(ctx)
	if err != nil {
		return err
	}
	// assignments are the mentor's to remove
	if typ == dashboard.ItemAssignment && !usr.IsMentor() {
		return errHttpForbidden
	}

	if err := s.DashboardSvc.DeleteItem(ctx.Request().Context(), mentee.ID, typ, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting item")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) dashboardProgress(ctx echo.Context) error {
	mentee, err := getContextMentee(ctx)
	if err != nil {
		return err
	}
	date, err := queryDate(ctx, "date", s.today())
	if err != nil {
		return err
	}

	view, err := s.DashboardSvc.Progress(ctx.Request().Context(), mentee.ID, date)
	if err != nil {
		return errors.Wrap(err, "computing progress")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (s *Server) dashboardStudyStats(ctx echo.Context) error {
	mentee, err := getContextMentee(ctx)
	if err != nil {
		return err
	}
	today, err := queryDate(ctx, "today", s.today())
	if err != nil {
		return err
	}
	days, err := queryInt(ctx, "days", dashboard.DefaultStudyWindow)
	if err != nil {
		return err
	}
	if days < 1 || days > dashboard.MaxStudyWindow {
		return invalidParam("days", errInvalidDays)
	}

	view, err := s.DashboardSvc.StudyStats(ctx.Request().Context(), mentee.ID, today, days)
	if err != nil {
		return errors.Wrap(err, "computing study stats")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (s *Server) dashboardCalendar(ctx echo.Context) error {
	mentee, err := getContextMentee(ctx)
	if err != nil {
		return err
	}
	month := s.today().Month()
	if val := ctx.QueryParam("month"); val != "" {
		if month, err = core.ParseMonth(val); err != nil {
			return invalidParam("month", err)
		}
	}

	view, err := s.DashboardSvc.Calendar(ctx.Request().Context(), mentee.ID, month)
	if err != nil {
		return errors.Wrap(err, "building calendar")
	}
	return ctx.JSON(http.StatusOK, view)
}
