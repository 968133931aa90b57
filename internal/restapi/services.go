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

type servicePayload struct {
	Name        *string       `json:"name"`
	Price       *domain.Money `json:"price"`
	Description *string       `json:"description"`
}

func (p *servicePayload) validate(full bool) error {
	if full && (p.Name == nil || p.Price == nil || p.Description == nil) {
		return store.Validationf("name, price and description are required")
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return store.Validationf("name must not be empty")
		}
		if utf8.RuneCountInString(name) > 100 {
			return store.Validationf("name must not exceed 100 characters")
		}
		*p.Name = name
	}
	return nil
}

func (p *servicePayload) apply(rec *domain.Service) {
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Price != nil {
		rec.Price = *p.Price
	}
	if p.Description != nil {
		rec.Description = *p.Description
	}
}

// registerServiceRoutes registers service CRUD endpoints
func registerServiceRoutes(srv *webserver.WebServer) {
	srv.ApiGET("/servicios/", listServices)
	srv.ApiPOST("/servicios/", createService)
	srv.ApiGET("/servicios/:id/", getService)
	srv.ApiPUT("/servicios/:id/", replaceService)
	srv.ApiPATCH("/servicios/:id/", patchService)
	srv.ApiDELETE("/servicios/:id/", deleteService)
}

func listServices(c echo.Context) error {
	rows, err := webserver.GetStore(c).ListServices(c.Request().Context())
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, rows)
}

func getService(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid service ID")
	}
	rec, err := webserver.GetStore(c).GetService(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, rec)
}

func createService(c echo.Context) error {
	var payload servicePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse service")
	}
	if err := payload.validate(true); err != nil {
		return failErr(c, err)
	}

	var rec domain.Service
	payload.apply(&rec)
	if err := webserver.GetStore(c).CreateService(c.Request().Context(), &rec); err != nil {
		return failErr(c, err)
	}
	audit(c, "create_service", mutationDesc("service", rec.ID))
	return created(c, rec)
}

func replaceService(c echo.Context) error {
	return saveService(c, true)
}

func patchService(c echo.Context) error {
	return saveService(c, false)
}

func saveService(c echo.Context, full bool) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid service ID")
	}
	gw := webserver.GetStore(c)
	rec, err := gw.GetService(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err)
	}

	var payload servicePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse service")
	}
	if err := payload.validate(full); err != nil {
		return failErr(c, err)
	}

	payload.apply(rec)
	if err := gw.UpdateService(c.Request().Context(), rec); err != nil {
		return failErr(c, err)
	}
	audit(c, "update_service", mutationDesc("service", rec.ID))
	return ok(c, rec)
}

func deleteService(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid service ID")
	}
	if err := webserver.GetStore(c).DeleteService(c.Request().Context(), id); err != nil {
		return failErr(c, err)
	}
	audit(c, "delete_service", mutationDesc("service", id))
	return c.NoContent(http.StatusNoContent)
}
