// Package webserver owns the echo instance, the session middleware and the
// route registration helpers. Entity routes always pass the session check
// before their handler runs; a request without a valid session is rejected
// here and never reaches the store.
package webserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/betterpage/betterpage/config"
	"github.com/betterpage/betterpage/internal/auth"
	"github.com/betterpage/betterpage/internal/store"
)

const (
	// SessionName is the cookie carrying the opaque session token.
	SessionName = "betterpage_session"
	// sessionTokenKey is the key of the token inside the cookie session values.
	sessionTokenKey = "session_token"

	currentUserKey  = "current_user"
	currentTokenKey = "current_token"
)

// AppContext is what the web layer needs from the application.
type AppContext interface {
	Config() *config.AppConfig
	Store() store.Gateway
	Auth() *auth.AuthService
	SessionTTL() time.Duration
	RecordUserLog(username, ip, action, desc string)
}

// WebServer wires echo, the cookie session store and the route groups.
type WebServer struct {
	root *echo.Echo
	api  *echo.Group
	app  AppContext
}

func New(appctx AppContext) *WebServer {
	s := &WebServer{app: appctx}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = JsoniterSerializer{}
	e.HTTPErrorHandler = s.errorHandler

	e.Use(middleware.Recover())
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(appctx.Config().Web.Secret))))
	e.Use(s.requestLogger())

	e.GET("/healthz", s.healthz)

	s.root = e
	s.api = e.Group("", s.sessionCheck)
	return s
}

// Echo exposes the underlying instance for tests.
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

func (s *WebServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.root.ServeHTTP(w, r)
}

// Start blocks serving HTTP until Stop is called.
func (s *WebServer) Start() error {
	cfg := s.app.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.S().Infof("starting web server on %s", addr)
	return s.root.Start(addr)
}

func (s *WebServer) Stop(ctx context.Context) error {
	return s.root.Shutdown(ctx)
}

// Public routes skip the session check.

func (s *WebServer) PubGET(path string, h echo.HandlerFunc) {
	s.root.GET(path, h, s.bindContext)
}

func (s *WebServer) PubPOST(path string, h echo.HandlerFunc) {
	s.root.POST(path, h, s.bindContext)
}

// Api* routes require an authenticated session.

func (s *WebServer) ApiGET(path string, h echo.HandlerFunc) {
	s.api.GET(path, h)
}

func (s *WebServer) ApiPOST(path string, h echo.HandlerFunc) {
	s.api.POST(path, h)
}

func (s *WebServer) ApiPUT(path string, h echo.HandlerFunc) {
	s.api.PUT(path, h)
}

func (s *WebServer) ApiPATCH(path string, h echo.HandlerFunc) {
	s.api.PATCH(path, h)
}

func (s *WebServer) ApiDELETE(path string, h echo.HandlerFunc) {
	s.api.DELETE(path, h)
}

// bindContext stashes the application context for handlers on public routes.
func (s *WebServer) bindContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set("appctx", s.app)
		return next(c)
	}
}

// sessionCheck resolves the current user before the handler runs. It rejects
// up front so an unauthenticated request causes no store access at all.
func (s *WebServer) sessionCheck(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set("appctx", s.app)
		token := s.sessionToken(c)
		user, err := s.app.Auth().CurrentUser(c.Request().Context(), token)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
		}
		c.Set(currentUserKey, user)
		c.Set(currentTokenKey, token)
		return next(c)
	}
}

// sessionToken extracts the opaque token from the session cookie, falling
// back to an Authorization bearer header for cookie-less API clients.
func (s *WebServer) sessionToken(c echo.Context) string {
	if sess, err := session.Get(SessionName, c); err == nil {
		if v, ok := sess.Values[sessionTokenKey].(string); ok && v != "" {
			return v
		}
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// SaveSessionToken writes the token into the session cookie after login.
func (s *WebServer) SaveSessionToken(c echo.Context, token string) error {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return err
	}
	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(s.app.SessionTTL() / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	sess.Values[sessionTokenKey] = token
	return sess.Save(c.Request(), c.Response())
}

// ClearSession drops the cookie after logout.
func (s *WebServer) ClearSession(c echo.Context) error {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return err
	}
	sess.Options = &sessions.Options{Path: "/", MaxAge: -1, HttpOnly: true}
	delete(sess.Values, sessionTokenKey)
	return sess.Save(c.Request(), c.Response())
}

// GetAppContext returns the application context stashed by the middleware.
func GetAppContext(c echo.Context) AppContext {
	return c.Get("appctx").(AppContext)
}

// GetStore returns the persistence gateway.
func GetStore(c echo.Context) store.Gateway {
	return GetAppContext(c).Store()
}

// GetCurrentUser returns the authenticated user, or nil on public routes.
func GetCurrentUser(c echo.Context) *auth.UserSummary {
	if u, ok := c.Get(currentUserKey).(*auth.UserSummary); ok {
		return u
	}
	return nil
}

// GetSessionToken returns the token validated by the session check.
func GetSessionToken(c echo.Context) string {
	if t, ok := c.Get(currentTokenKey).(string); ok {
		return t
	}
	return ""
}

func (s *WebServer) healthz(c echo.Context) error {
	if err := s.app.Store().Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// errorHandler keeps every error body in the {"error": message} shape without
// leaking internals.
func (s *WebServer) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	message := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
	}
	if code >= http.StatusInternalServerError {
		zap.L().Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		message = "Internal server error"
	}
	_ = c.JSON(code, map[string]string{"error": message})
}

func (s *WebServer) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Debug("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	})
}
