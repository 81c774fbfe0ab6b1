package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core/notification"
)

func (s *Server) registerNotificationAPI(authed *echo.Group) {
	authed.GET("/notifications", s.queryNotifications)
	authed.POST("/notifications/:id/read", s.markNotificationRead)
}

// Handlers

func (s *Server) queryNotifications(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	unread, err := queryBool(ctx, "unread")
	if err != nil {
		return err
	}

	notifications, err := s.NotificationSvc.List(ctx.Request().Context(), usr.ID, unread != nil && *unread)
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	if notifications == nil {
		notifications = []notification.Notification{}
	}
	return ctx.JSON(http.StatusOK, notifications)
}

func (s *Server) markNotificationRead(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	n, err := s.NotificationSvc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	if n.RecipientID != usr.ID {
		return errHttpForbidden
	}

	n, err = s.NotificationSvc.MarkRead(ctx.Request().Context(), n)
	if err != nil {
		return errors.Wrap(err, "marking notification read")
	}
	return ctx.JSON(http.StatusOK, n)
}
