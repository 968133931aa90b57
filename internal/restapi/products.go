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

type productPayload struct {
	Name        *string       `json:"name"`
	Price       *domain.Money `json:"price"`
	Description *string       `json:"description"`
	Stock       *int          `json:"stock"`
}

func (p *productPayload) validate(full bool) error {
	if full && (p.Name == nil || p.Price == nil || p.Description == nil || p.Stock == nil) {
		return store.Validationf("name, price, description and stock are required")
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
	if p.Stock != nil && *p.Stock < 0 {
		return store.Validationf("stock must not be negative")
	}
	return nil
}

func (p *productPayload) apply(rec *domain.Product) {
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Price != nil {
		rec.Price = *p.Price
	}
	if p.Description != nil {
		rec.Description = *p.Description
	}
	if p.Stock != nil {
		rec.Stock = *p.Stock
	}
}

// registerProductRoutes registers product CRUD endpoints
func registerProductRoutes(srv *webserver.WebServer) {
	srv.ApiGET("/productos/", listProducts)
	srv.ApiPOST("/productos/", createProduct)
	srv.ApiGET("/productos/:id/", getProduct)
	srv.ApiPUT("/productos/:id/", replaceProduct)
	srv.ApiPATCH("/productos/:id/", patchProduct)
	srv.ApiDELETE("/productos/:id/", deleteProduct)
}

func listProducts(c echo.Context) error {
	rows, err := webserver.GetStore(c).ListProducts(c.Request().Context())
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, rows)
}

func getProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid product ID")
	}
	rec, err := webserver.GetStore(c).GetProduct(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, rec)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse product")
	}
	if err := payload.validate(true); err != nil {
		return failErr(c, err)
	}

	var rec domain.Product
	payload.apply(&rec)
	if err := webserver.GetStore(c).CreateProduct(c.Request().Context(), &rec); err != nil {
		return failErr(c, err)
	}
	audit(c, "create_product", mutationDesc("product", rec.ID))
	return created(c, rec)
}

func replaceProduct(c echo.Context) error {
	return saveProduct(c, true)
}

func patchProduct(c echo.Context) error {
	return saveProduct(c, false)
}

func saveProduct(c echo.Context, full bool) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid product ID")
	}
	gw := webserver.GetStore(c)
	rec, err := gw.GetProduct(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err)
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse product")
	}
	if err := payload.validate(full); err != nil {
		return failErr(c, err)
	}

	payload.apply(rec)
	if err := gw.UpdateProduct(c.Request().Context(), rec); err != nil {
		return failErr(c, err)
	}
	audit(c, "update_product", mutationDesc("product", rec.ID))
	return ok(c, rec)
}

func deleteProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid product ID")
	}
	if err := webserver.GetStore(c).DeleteProduct(c.Request().Context(), id); err != nil {
		return failErr(c, err)
	}
	audit(c, "delete_product", mutationDesc("product", id))
	return c.NoContent(http.StatusNoContent)
}
