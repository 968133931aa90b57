// Package restapi holds the HTTP handlers for the auth endpoints and the five
// site resources. Handlers never touch the database directly, all persistence
// goes through the store gateway.
package restapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/betterpage/betterpage/internal/store"
	"github.com/betterpage/betterpage/internal/webserver"
)

// Register binds every API route onto the server.
func Register(srv *webserver.WebServer) {
	registerAuthRoutes(srv)
	registerProductRoutes(srv)
	registerServiceRoutes(srv)
	registerNewsRoutes(srv)
	registerJobRoutes(srv)
	registerSaleRoutes(srv)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// failErr maps a gateway error onto exactly one status code. Backend
// failures are logged but never leak details to the client.
func failErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fail(c, http.StatusNotFound, "Not found")
	case store.IsBadInput(err):
		return fail(c, http.StatusBadRequest, err.Error())
	default:
		zap.L().Error("store error", zap.String("path", c.Path()), zap.Error(err))
		return fail(c, http.StatusServiceUnavailable, "Service temporarily unavailable")
	}
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// audit appends a user-log row. Best effort, a failed audit write never
// fails the request.
func audit(c echo.Context, action, desc string) {
	username := ""
	if u := webserver.GetCurrentUser(c); u != nil {
		username = u.Username
	}
	webserver.GetAppContext(c).RecordUserLog(username, c.RealIP(), action, desc)
}
