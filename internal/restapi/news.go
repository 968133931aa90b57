package restapi

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/betterpage/betterpage/internal/domain"
	"github.com/betterpage/betterpage/internal/store"
	"github.com/betterpage/betterpage/internal/webserver"
)

type newsPayload struct {
	Name        *string      `json:"name"`
	Date        *domain.Date `json:"date"`
	Description *string      `json:"description"`
}

func (p *newsPayload) validate(full bool) error {
	if full && (p.Name == nil || p.Date == nil || p.Description == nil) {
		return store.Validationf("name, date and description are required")
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return store.Validationf("name must not be empty")
		}
		if utf8.RuneCountInString(name) > 200 {
			return store.Validationf("name must not exceed 200 characters")
		}
		*p.Name = name
	}
	return nil
}

func (p *newsPayload) apply(rec *domain.NewsItem) {
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Date != nil {
		rec.Date = *p.Date
	}
	if p.Description != nil {
		rec.Description = *p.Description
	}
}

// registerNewsRoutes registers news CRUD endpoints
func registerNewsRoutes(srv *webserver.WebServer) {
	srv.ApiGET("/noticias/", listNews)
	srv.ApiPOST("/noticias/", createNews)
	srv.ApiGET("/noticias/:id/", getNews)
	srv.ApiPUT("/noticias/:id/", replaceNews)
	srv.ApiPATCH("/noticias/:id/", patchNews)
	srv.ApiDELETE("/noticias/:id/", deleteNews)
}

func listNews(c echo.Context) error {
	rows, err := webserver.GetStore(c).ListNewsItems(c.Request().Context())
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, rows)
}

func getNews(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid news ID")
	}
	rec, err := webserver.GetStore(c).GetNewsItem(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, rec)
}

func createNews(c echo.Context) error {
	var payload newsPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse news item")
	}
	if err := payload.validate(true); err != nil {
		return failErr(c, err)
	}

	var rec domain.NewsItem
	payload.apply(&rec)
	if err := webserver.GetStore(c).CreateNewsItem(c.Request().Context(), &rec); err != nil {
		return failErr(c, err)
	}
	audit(c, "create_news", mutationDesc("news item", rec.ID))
	return created(c, rec)
}

func replaceNews(c echo.Context) error {
	return saveNews(c, true)
}

func patchNews(c echo.Context) error {
	return saveNews(c, false)
}

func saveNews(c echo.Context, full bool) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid news ID")
	}
	gw := webserver.GetStore(c)
	rec, err := gw.GetNewsItem(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err)
	}

	var payload newsPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse news item")
	}
	if err := payload.validate(full); err != nil {
		return failErr(c, err)
	}

	payload.apply(rec)
	if err := gw.UpdateNewsItem(c.Request().Context(), rec); err != nil {
		return failErr(c, err)
	}
	audit(c, "update_news", mutationDesc("news item", rec.ID))
	return ok(c, rec)
}

func deleteNews(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid news ID")
	}
	if err := webserver.GetStore(c).DeleteNewsItem(c.Request().Context(), id); err != nil {
		return failErr(c, err)
	}
	audit(c, "delete_news", mutationDesc("news item", id))
	return c.NoContent(http.StatusNoContent)
}
