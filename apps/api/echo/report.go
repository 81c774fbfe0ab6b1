package echoapi

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core/report"
)

var errInvalidReportType = errors.New("must be one of weekly, monthly")

func (s *Server) registerReportAPI(authed *echo.Group) {
	mg := authed.Group("/mentees/:mentee/reports", s.menteeScopeMiddleware)
	mg.GET("", s.queryReports)
	mg.GET("/index", s.reportIndex)
	mg.GET("/:type/:segment", s.retrieveReportByRoute)
	mg.PUT("/:type/:segment", s.saveReport, mentorMiddleware)

	authed.GET("/reports/:id", s.retrieveReport, objectMiddleware(s.ReportSvc.Get, func(r report.LearningReport) string { return r.MenteeID }))
}

func reportType(name, value string, optional bool) (report.Type, error) {
	if value == "" && optional {
		return "", nil
	}
	typ, ok := report.ParseType(value)
	if !ok {
		return "", invalidParam(name, errInvalidReportType)
	}
	return typ, nil
}

func reportRoute(ctx echo.Context) (report.Type, string, error) {
	typ, err := reportType("type", ctx.Param("type"), false)
	if err != nil {
		return "", "", err
	}
	segment := ctx.Param("segment")
	if unescaped, err := url.PathUnescape(segment); err == nil {
		segment = unescaped
	}
	return typ, segment, nil
}

// Handlers

func (s *Server) queryReports(ctx echo.Context) error {
	mentee, err := getContextMentee(ctx)
	if err != nil {
		return err
	}
	typ, err := reportType("type", ctx.QueryParam("type"), true)
	if err != nil {
		return err
	}

	reports, err := s.ReportSvc.List(ctx.Request().Context(), mentee.ID, typ)
	if err != nil {
		return errors.Wrap(err, "querying reports")
	}
	if reports == nil {
		reports = []report.LearningReport{}
	}
	return ctx.JSON(http.StatusOK, reports)
}

func (s *Server) reportIndex(ctx echo.Context) error {
	mentee, err := getContextMentee(ctx)
	if err != nil {
		return err
	}
	view, err := s.DashboardSvc.ReportIndex(ctx.Request().Context(), mentee.ID)
	if err != nil {
		return errors.Wrap(err, "indexing reports")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (s *Server) retrieveReportByRoute(ctx echo.Context) error {
	mentee, err := getContextMentee(ctx)
	if err != nil {
		return err
	}
	typ, segment, err := reportRoute(ctx)
	if err != nil {
		return err
	}

	r, err := s.ReportSvc.GetByRoute(ctx.Request().Context(), mentee.ID, typ, segment)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, r)
}

func (s *Server) saveReport(ctx echo.Context) error {
	mentee, err := getContextMentee(ctx)
	if err != nil {
		return err
	}
	mentor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	typ, segment, err := reportRoute(ctx)
	if err != nil {
		return err
	}

	var data report.SaveReport
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveReport")
	}
	if err := data.Validate(s.Validate); err != nil {
		return err
	}

	title := report.TitleFromSegment(typ, segment)
	r, err := s.ReportSvc.Upsert(ctx.Request().Context(), mentor.ID, mentee.ID, typ, title, data)
	if err != nil {
		return errors.Wrap(err, "saving report")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (s *Server) retrieveReport(ctx echo.Context) error {
	r, err := getContextObject[report.LearningReport](ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, r)
}
