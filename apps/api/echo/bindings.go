package echoapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/mentori/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

func invalidParam(name string, err error) error {
	return core.NewValidationError(err, core.FieldError{Field: name, Error: err.Error()})
}

// dateValue parses a yyyy-MM-dd path or query value, `def` when blank.
func dateValue(name, value string, def core.Date) (core.Date, error) {
	if value == "" {
		return def, nil
	}
	d, err := core.ParseDate(value)
	if err != nil {
		return "", invalidParam(name, err)
	}
	return d, nil
}

func queryDate(ctx echo.Context, name string, def core.Date) (core.Date, error) {
	return dateValue(name, ctx.QueryParam(name), def)
}

func pathDate(ctx echo.Context, name string) (core.Date, error) {
	return dateValue(name, ctx.Param(name), "")
}

func queryBool(ctx echo.Context, name string) (*bool, error) {
	val := ctx.QueryParam(name)
	if val == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return nil, invalidParam(name, err)
	}
	return &b, nil
}

func queryInt(ctx echo.Context, name string, def int) (int, error) {
	val := ctx.QueryParam(name)
	if val == "" {
		return def, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, invalidParam(name, err)
	}
	return n, nil
}

// today is the current date in the configured time zone.
func (s *Server) today() core.Date {
	return core.Today(s.Conf.Location())
}

type (
	CompletionRequest struct {
		Completed *bool `json:"completed" validate:"required"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)
