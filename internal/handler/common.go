package handler // handler defines the HTTP surface of the allocation engine

import (
	"errors"  // errors provides sentinel comparisons for the status mapping
	"net/http"
	"strconv" // strconv parses identifiers from path params
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deskatlas/seat-allocation/internal/middleware"
	"github.com/deskatlas/seat-allocation/internal/repository"
	"github.com/deskatlas/seat-allocation/internal/service"
)

// getUserID extracts the authenticated user's id from the context.  JWTAuth
// stores it as uint64; anything else means the middleware did not run.
func getUserID(c echo.Context) (uint64, error) {
	if id, ok := c.Get(middleware.CtxUserID).(uint64); ok {
		return id, nil
	}
	return 0, errors.New("invalid user_id in context")
}

// getOrgID extracts the authenticated user's organization id.
func getOrgID(c echo.Context) (uint64, error) {
	if id, ok := c.Get(middleware.CtxOrgID).(uint64); ok {
		return id, nil
	}
	return 0, errors.New("invalid org_id in context")
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// timeRangeQuery parses optional RFC3339 "from" and "to" query parameters.
func timeRangeQuery(c echo.Context) (from, to *time.Time, err error) {
	if v := c.QueryParam("from"); v != "" {
		t, perr := time.Parse(time.RFC3339, v)
		if perr != nil {
			return nil, nil, perr
		}
		from = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, perr := time.Parse(time.RFC3339, v)
		if perr != nil {
			return nil, nil, perr
		}
		to = &t
	}
	return from, to, nil
}

// serviceError maps engine and repository errors onto HTTP responses.  The
// mapping is shared by all handlers; the export handlers special-case
// CooldownError before falling through to it.
func serviceError(c echo.Context, err error) error {
	var cd *service.CooldownError
	switch {
	case errors.Is(err, repository.ErrSeatNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
	case errors.Is(err, repository.ErrFloorNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "floor not found"})
	case errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	case errors.Is(err, service.ErrNoExport):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrSeatLocked),
		errors.Is(err, service.ErrNoActiveAssignment),
		errors.Is(err, service.ErrSeatNotOccupied):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrSeatOccupied),
		errors.Is(err, service.ErrRetentionBusy),
		errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.As(err, &cd):
		return c.JSON(http.StatusConflict, echo.Map{"error": cd.Error()})
	case errors.Is(err, service.ErrForceRequired):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrBucketNotConfigured):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
