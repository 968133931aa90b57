package restapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/betterpage/betterpage/internal/auth"
	"github.com/betterpage/betterpage/internal/webserver"
)

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func registerAuthRoutes(srv *webserver.WebServer) {
	// login is the only route reachable without a session
	srv.PubPOST("/auth/login/", func(c echo.Context) error { return login(c, srv) })
	srv.ApiPOST("/auth/logout/", func(c echo.Context) error { return logout(c, srv) })
	srv.ApiGET("/auth/user/", currentUser)
}

func login(c echo.Context, srv *webserver.WebServer) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse credentials")
	}
	if payload.Username == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "Please provide both username and password")
	}

	appctx := webserver.GetAppContext(c)
	token, user, err := appctx.Auth().Login(c.Request().Context(), payload.Username, payload.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}
	if err != nil {
		return failErr(c, err)
	}

	if err := srv.SaveSessionToken(c, token); err != nil {
		return failErr(c, err)
	}

	appctx.RecordUserLog(user.Username, c.RealIP(), "login", "user logged in")
	return ok(c, map[string]interface{}{
		"message": "Successfully logged in",
		"user":    user,
	})
}

func logout(c echo.Context, srv *webserver.WebServer) error {
	token := webserver.GetSessionToken(c)
	if err := webserver.GetAppContext(c).Auth().Logout(c.Request().Context(), token); err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			return fail(c, http.StatusUnauthorized, "Not authenticated")
		}
		return failErr(c, err)
	}
	if err := srv.ClearSession(c); err != nil {
		return failErr(c, err)
	}
	audit(c, "logout", "user logged out")
	return ok(c, map[string]string{"message": "Successfully logged out"})
}

func currentUser(c echo.Context) error {
	user := webserver.GetCurrentUser(c)
	if user == nil {
		return fail(c, http.StatusUnauthorized, "Not authenticated")
	}
	return ok(c, user)
}

func mutationDesc(entity string, id int64) string {
	return fmt.Sprintf("%s %d", entity, id)
}
