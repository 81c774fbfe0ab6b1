package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core/memo"
)

func (s *Server) registerMemoAPI(authed *echo.Group) {
	authed.GET("/memo", s.retrieveMemo)
	authed.PUT("/memo", s.saveMemo)
}

// Handlers

func (s *Server) retrieveMemo(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	m, err := s.MemoSvc.Get(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "getting memo")
	}
	return ctx.JSON(http.StatusOK, m)
}

func (s *Server) saveMemo(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data memo.SaveMemo
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveMemo")
	}

	m, err := s.MemoSvc.Save(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "saving memo")
	}
	return ctx.JSON(http.StatusOK, m)
}
