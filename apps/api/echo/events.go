package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mentori/core/events"
)

var (
	keepAliveInterval = 25 * time.Second // mockable

	errUnknownEntity = errors.New("unknown entity")
)

func (s *Server) registerEventsAPI(authed *echo.Group) {
	authed.GET("/events", s.streamEvents)
}

// userEntity reports whether the entity is scoped by owner rather than by mentee.
func userEntity(e events.Entity) bool {
	return e == events.Memos || e == events.Notifications
}

// parseEntities reads the comma separated `entity` params, all entities when absent.
func parseEntities(ctx echo.Context) (menteeScoped, userScoped []events.Entity, err error) {
	var entities []events.Entity
	for _, val := range ctx.QueryParams()["entity"] {
		for _, name := range strings.Split(val, ",") {
			if name = strings.TrimSpace(name); name == "" {
				continue
			}
			e, ok := events.ParseEntity(name)
			if !ok {
				return nil, nil, invalidParam("entity", errors.Wrap(errUnknownEntity, name))
			}
			entities = append(entities, e)
		}
	}
	if len(entities) == 0 {
		entities = events.AllEntities
	}

	for _, e := range entities {
		if userEntity(e) {
			userScoped = append(userScoped, e)
		} else {
			menteeScoped = append(menteeScoped, e)
		}
	}
	return menteeScoped, userScoped, nil
}

// Handlers

// streamEvents pushes change notifications as Server-Sent Events until the client leaves or the server shuts down.
func (s *Server) streamEvents(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	menteeID := ctx.QueryParam("mentee_id")
	switch {
	case usr.IsMentee():
		if menteeID != "" && menteeID != usr.ID {
			return errHttpForbidden
		}
		menteeID = usr.ID
	case menteeID != "":
		if _, err := s.UserSvc.GetMentee(ctx.Request().Context(), menteeID); err != nil {
			return err
		}
	}

	menteeScoped, userScoped, err := parseEntities(ctx)
	if err != nil {
		return err
	}

	// a nil channel never fires
	var menteeEvents, userEvents <-chan events.Event
	if len(menteeScoped) > 0 {
		sub := s.Broker.Subscribe(events.Filter{MenteeID: menteeID, Entities: menteeScoped})
		defer sub.Close()
		menteeEvents = sub.Events()
	}
	if len(userScoped) > 0 {
		sub := s.Broker.Subscribe(events.Filter{UserID: usr.ID, Entities: userScoped})
		defer sub.Close()
		userEvents = sub.Events()
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(res, ": connected\n\n"); err != nil {
		return nil
	}
	res.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	done := ctx.Request().Context().Done()
	for {
		var (
			evt events.Event
			ok  bool
		)
		select {
		case <-done:
			return nil
		case <-keepAlive.C:
			if _, err := fmt.Fprint(res, ": ping\n\n"); err != nil {
				return nil
			}
			res.Flush()
			continue
		case evt, ok = <-menteeEvents:
		case evt, ok = <-userEvents:
		}
		if !ok {
			// dropped by the broker or shutting down; clients reconnect
			return nil
		}

		data, err := json.Marshal(evt)
		if err != nil {
			return errors.Wrap(err, "marshalling event")
		}
		if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", evt.Entity, data); err != nil {
			return nil
		}
		res.Flush()
	}
}
