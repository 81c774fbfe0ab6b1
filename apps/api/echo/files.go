package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core"
)

const uploadField = "file"

var errFileRequired = errors.New("this field is required")

func (s *Server) registerFileAPI(authed *echo.Group) {
	authed.POST("/files", s.uploadFile)
	authed.DELETE("/files/*", s.destroyFile)
}

// Handlers

func (s *Server) uploadFile(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	fh, err := ctx.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return core.NewValidationError(err, core.FieldError{Field: uploadField, Error: errFileRequired.Error()})
		}
		return errors.Wrap(err, "reading multipart file")
	}
	src, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening multipart file")
	}
	defer src.Close()

	f, err := s.FileSvc.Upload(ctx.Request().Context(), usr.ID, fh.Filename, src)
	if err != nil {
		return errors.Wrap(err, "uploading file")
	}
	return ctx.JSON(http.StatusCreated, f)
}

func (s *Server) destroyFile(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if err := s.FileSvc.Delete(ctx.Request().Context(), usr.ID, ctx.Param("*")); err != nil {
		return errors.Wrap(err, "deleting file")
	}
	return ctx.NoContent(http.StatusNoContent)
}
