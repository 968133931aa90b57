package restapi

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/betterpage/betterpage/internal/domain"
	"github.com/betterpage/betterpage/internal/store"
	"github.com/betterpage/betterpage/internal/webserver"
)

// salePayload is the write form: the product is referenced by id only, the
// nested object is never accepted on writes.
type salePayload struct {
	Name      *string      `json:"name"`
	ProductID *int64       `json:"product_id"`
	Quantity  *int         `json:"quantity"`
	Date      *domain.Date `json:"date"`
}

func (p *salePayload) validate(full bool) error {
	if full && (p.Name == nil || p.ProductID == nil || p.Quantity == nil || p.Date == nil) {
		return store.Validationf("name, product_id, quantity and date are required")
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
	if p.Quantity != nil && *p.Quantity < 0 {
		return store.Validationf("quantity must not be negative")
	}
	return nil
}

func (p *salePayload) apply(rec *domain.Sale) {
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.ProductID != nil {
		rec.ProductID = *p.ProductID
	}
	if p.Quantity != nil {
		rec.Quantity = *p.Quantity
	}
	if p.Date != nil {
		rec.Date = *p.Date
	}
}

// saleView is the read form: the full current product object rides along
// under "product".
type saleView struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Product   domain.Product `json:"product"`
	Quantity  int            `json:"quantity"`
	Date      domain.Date    `json:"date"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func saleViewOf(rec domain.Sale, product domain.Product) saleView {
	return saleView{
		ID:        rec.ID,
		Name:      rec.Name,
		Product:   product,
		Quantity:  rec.Quantity,
		Date:      rec.Date,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func expandSale(ctx context.Context, gw store.Gateway, rec domain.Sale) (saleView, error) {
	product, err := gw.GetProduct(ctx, rec.ProductID)
	if err != nil {
		return saleView{}, err
	}
	return saleViewOf(rec, *product), nil
}

// registerSaleRoutes registers sale CRUD endpoints
func registerSaleRoutes(srv *webserver.WebServer) {
	srv.ApiGET("/ventas/", listSales)
	srv.ApiPOST("/ventas/", createSale)
	srv.ApiGET("/ventas/:id/", getSale)
	srv.ApiPUT("/ventas/:id/", replaceSale)
	srv.ApiPATCH("/ventas/:id/", patchSale)
	srv.ApiDELETE("/ventas/:id/", deleteSale)
}

func listSales(c echo.Context) error {
	ctx := c.Request().Context()
	gw := webserver.GetStore(c)
	rows, err := gw.ListSales(ctx)
	if err != nil {
		return failErr(c, err)
	}

	// resolve products once instead of per sale
	products, err := gw.ListProducts(ctx)
	if err != nil {
		return failErr(c, err)
	}
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	views := make([]saleView, 0, len(rows))
	for _, sale := range rows {
		views = append(views, saleViewOf(sale, byID[sale.ProductID]))
	}
	return ok(c, views)
}

func getSale(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid sale ID")
	}
	gw := webserver.GetStore(c)
	rec, err := gw.GetSale(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err)
	}
	view, err := expandSale(c.Request().Context(), gw, *rec)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, view)
}

func createSale(c echo.Context) error {
	var payload salePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse sale")
	}
	if err := payload.validate(true); err != nil {
		return failErr(c, err)
	}

	var rec domain.Sale
	payload.apply(&rec)
	gw := webserver.GetStore(c)
	if err := gw.CreateSale(c.Request().Context(), &rec); err != nil {
		return failErr(c, err)
	}
	view, err := expandSale(c.Request().Context(), gw, rec)
	if err != nil {
		return failErr(c, err)
	}
	audit(c, "create_sale", mutationDesc("sale", rec.ID))
	return created(c, view)
}

func replaceSale(c echo.Context) error {
	return saveSale(c, true)
}

func patchSale(c echo.Context) error {
	return saveSale(c, false)
}

func saveSale(c echo.Context, full bool) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid sale ID")
	}
	gw := webserver.GetStore(c)
	rec, err := gw.GetSale(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err)
	}

	var payload salePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse sale")
	}
	if err := payload.validate(full); err != nil {
		return failErr(c, err)
	}

	payload.apply(rec)
	if err := gw.UpdateSale(c.Request().Context(), rec); err != nil {
		return failErr(c, err)
	}
	view, err := expandSale(c.Request().Context(), gw, *rec)
	if err != nil {
		return failErr(c, err)
	}
	audit(c, "update_sale", mutationDesc("sale", rec.ID))
	return ok(c, view)
}

func deleteSale(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid sale ID")
	}
	if err := webserver.GetStore(c).DeleteSale(c.Request().Context(), id); err != nil {
		return failErr(c, err)
	}
	audit(c, "delete_sale", mutationDesc("sale", id))
	return c.NoContent(http.StatusNoContent)
}
