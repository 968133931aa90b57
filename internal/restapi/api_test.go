package restapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betterpage/betterpage/config"
	"github.com/betterpage/betterpage/internal/auth"
	"github.com/betterpage/betterpage/internal/domain"
	"github.com/betterpage/betterpage/internal/restapi"
	"github.com/betterpage/betterpage/internal/store"
	"github.com/betterpage/betterpage/internal/webserver"
)

// testApp satisfies webserver.AppContext over the in-memory backends.
type testApp struct {
	cfg *config.AppConfig
	gw  store.Gateway
	svc *auth.AuthService
}

func (a *testApp) Config() *config.AppConfig { return a.cfg }

func (a *testApp) Store() store.Gateway { return a.gw }

func (a *testApp) Auth() *auth.AuthService { return a.svc }

func (a *testApp) SessionTTL() time.Duration { return time.Hour }

func (a *testApp) RecordUserLog(username, ip, action, desc string) {}

func newTestServer(t *testing.T) (*webserver.WebServer, *store.Memory, *auth.AuthService) {
	t.Helper()

	identity := auth.NewMemoryIdentity()
	hash, err := auth.HashPassword("secret")
	require.NoError(t, err)
	identity.AddUser(domain.SysUser{
		Username: "alice",
		Email:    "alice@example.com",
		Password: hash,
		IsStaff:  true,
	})

	cfg := *config.DefaultAppConfig
	memory := store.NewMemory()
	svc := auth.NewAuthService(identity, identity, time.Hour)

	srv := webserver.New(&testApp{cfg: &cfg, gw: memory, svc: svc})
	restapi.Register(srv)
	return srv, memory, svc
}

func do(srv *webserver.WebServer, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echoHeaderContentType, "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

const echoHeaderContentType = "Content-Type"

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

func contextForTest() context.Context {
	return context.Background()
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func productPath(id int64) string {
	return "/productos/" + itoa(id) + "/"
}

func login(t *testing.T, srv *webserver.WebServer, username, password string) []*http.Cookie {
	t.Helper()
	rec := do(srv, http.MethodPost, "/auth/login/",
		`{"username":"`+username+`","password":"`+password+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return rec.Result().Cookies()
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, jsonAPI.Unmarshal(rec.Body.Bytes(), dst))
}

func TestLoginLogoutFlow(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := do(srv, http.MethodPost, "/auth/login/",
		`{"username":"alice","password":"secret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var loginBody struct {
		Message string           `json:"message"`
		User    auth.UserSummary `json:"user"`
	}
	decode(t, rec, &loginBody)
	assert.Equal(t, "Successfully logged in", loginBody.Message)
	assert.Equal(t, "alice", loginBody.User.Username)
	assert.Equal(t, "alice@example.com", loginBody.User.Email)
	assert.True(t, loginBody.User.IsStaff)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	rec = do(srv, http.MethodGet, "/auth/user/", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var user auth.UserSummary
	decode(t, rec, &user)
	assert.Equal(t, "alice", user.Username)
	assert.NotZero(t, user.ID)

	rec = do(srv, http.MethodPost, "/auth/logout/", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var logoutBody map[string]string
	decode(t, rec, &logoutBody)
	assert.Equal(t, "Successfully logged out", logoutBody["message"])

	// the original token is invalid once logged out
	rec = do(srv, http.MethodGet, "/auth/user/", "", cookies)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(srv, http.MethodPost, "/auth/logout/", "", cookies)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginMissingFields(t *testing.T) {
	srv, _, _ := newTestServer(t)

	for _, body := range []string{
		`{"username":"alice"}`,
		`{"password":"secret"}`,
		`{}`,
	} {
		rec := do(srv, http.MethodPost, "/auth/login/", body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.JSONEq(t, `{"error":"Please provide both username and password"}`, rec.Body.String())
	}
}

func TestLoginFailuresShareOneBody(t *testing.T) {
	srv, _, _ := newTestServer(t)

	wrongPassword := do(srv, http.MethodPost, "/auth/login/",
		`{"username":"alice","password":"wrong"}`, nil)
	unknownUser := do(srv, http.MethodPost, "/auth/login/",
		`{"username":"nosuchuser","password":"x"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, wrongPassword.Body.String())
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestEntityRoutesRequireSession(t *testing.T) {
	srv, memory, _ := newTestServer(t)

	requests := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/productos/", ""},
		{http.MethodPost, "/productos/", `{"name":"x","price":"1.00","description":"d","stock":1}`},
		{http.MethodGet, "/servicios/", ""},
		{http.MethodPost, "/noticias/", `{"name":"n","date":"2024-01-01","description":"d"}`},
		{http.MethodPut, "/trabajos/1/", `{"name":"j","publication_date":"2024-01-01","description":"d"}`},
		{http.MethodDelete, "/ventas/1/", ""},
	}
	for _, r := range requests {
		rec := do(srv, r.method, r.path, r.body, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, r.method+" "+r.path)
		assert.JSONEq(t, `{"error":"Not authenticated"}`, rec.Body.String())
	}

	// rejected writes left no trace in the store
	ctx := contextForTest()
	products, err := memory.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
	news, err := memory.ListNewsItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, news)
}

func TestProductCRUD(t *testing.T) {
	srv, _, _ := newTestServer(t)
	cookies := login(t, srv, "alice", "secret")

	rec := do(srv, http.MethodPost, "/productos/",
		`{"name":"widget","price":"12.5","description":"a widget","stock":7}`, cookies)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created domain.Product
	decode(t, rec, &created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "widget", created.Name)
	assert.Equal(t, "12.50", created.Price.String())
	assert.Equal(t, 7, created.Stock)

	rec = do(srv, http.MethodGet, "/productos/", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.Product
	decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	// PATCH changes only the provided fields
	rec = do(srv, http.MethodPatch, productPath(created.ID), `{"name":"renamed"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var patched domain.Product
	decode(t, rec, &patched)
	assert.Equal(t, "renamed", patched.Name)
	assert.Equal(t, "12.50", patched.Price.String())
	assert.Equal(t, 7, patched.Stock)

	// PUT requires the full field set
	rec = do(srv, http.MethodPut, productPath(created.ID), `{"name":"only-name"}`, cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(srv, http.MethodPut, productPath(created.ID),
		`{"name":"replaced","price":"20.00","description":"new","stock":3}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var replaced domain.Product
	decode(t, rec, &replaced)
	assert.Equal(t, "replaced", replaced.Name)
	assert.Equal(t, "20.00", replaced.Price.String())

	rec = do(srv, http.MethodDelete, productPath(created.ID), "", cookies)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(srv, http.MethodGet, productPath(created.ID), "", cookies)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, rec.Body.String())
}

func TestProductValidation(t *testing.T) {
	srv, memory, _ := newTestServer(t)
	cookies := login(t, srv, "alice", "secret")

	// missing required fields
	rec := do(srv, http.MethodPost, "/productos/", `{"name":"widget"}`, cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// oversize name
	longName := strings.Repeat("x", 101)
	rec = do(srv, http.MethodPost, "/productos/",
		`{"name":"`+longName+`","price":"1.00","description":"d","stock":1}`, cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// price with three fraction digits
	rec = do(srv, http.MethodPost, "/productos/",
		`{"name":"widget","price":"9.999","description":"d","stock":1}`, cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	products, err := memory.ListProducts(contextForTest())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestSaleEmbedsProduct(t *testing.T) {
	srv, _, _ := newTestServer(t)
	cookies := login(t, srv, "alice", "secret")

	rec := do(srv, http.MethodPost, "/productos/",
		`{"name":"widget","price":"12.50","description":"a widget","stock":7}`, cookies)
	require.Equal(t, http.StatusCreated, rec.Code)
	var product domain.Product
	decode(t, rec, &product)

	rec = do(srv, http.MethodPost, "/ventas/",
		`{"name":"spring deal","product_id":`+itoa(product.ID)+`,"quantity":3,"date":"2024-05-17"}`, cookies)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var sale struct {
		ID       int64          `json:"id"`
		Name     string         `json:"name"`
		Product  domain.Product `json:"product"`
		Quantity int            `json:"quantity"`
		Date     string         `json:"date"`
	}
	decode(t, rec, &sale)
	assert.Equal(t, "spring deal", sale.Name)
	assert.Equal(t, product.ID, sale.Product.ID)
	assert.Equal(t, "widget", sale.Product.Name)
	assert.Equal(t, "2024-05-17", sale.Date)

	// the read form always carries the current product state
	rec = do(srv, http.MethodPatch, productPath(product.ID), `{"name":"renamed"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(srv, http.MethodGet, "/ventas/"+itoa(sale.ID)+"/", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &sale)
	assert.Equal(t, "renamed", sale.Product.Name)
}

func TestSaleRejectsUnknownProduct(t *testing.T) {
	srv, memory, _ := newTestServer(t)
	cookies := login(t, srv, "alice", "secret")

	rec := do(srv, http.MethodPost, "/ventas/",
		`{"name":"ghost deal","product_id":999,"quantity":1,"date":"2024-05-17"}`, cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	sales, err := memory.ListSales(contextForTest())
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestDeleteProductCascadesOverAPI(t *testing.T) {
	srv, _, _ := newTestServer(t)
	cookies := login(t, srv, "alice", "secret")

	rec := do(srv, http.MethodPost, "/productos/",
		`{"name":"widget","price":"12.50","description":"a widget","stock":7}`, cookies)
	require.Equal(t, http.StatusCreated, rec.Code)
	var product domain.Product
	decode(t, rec, &product)

	rec = do(srv, http.MethodPost, "/ventas/",
		`{"name":"deal","product_id":`+itoa(product.ID)+`,"quantity":1,"date":"2024-05-17"}`, cookies)
	require.Equal(t, http.StatusCreated, rec.Code)
	var sale struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &sale)

	rec = do(srv, http.MethodDelete, productPath(product.ID), "", cookies)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(srv, http.MethodGet, "/ventas/"+itoa(sale.ID)+"/", "", cookies)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBearerTokenFallback(t *testing.T) {
	srv, _, svc := newTestServer(t)

	token, _, err := svc.Login(contextForTest(), "alice", "secret")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/user/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var user auth.UserSummary
	decode(t, rec, &user)
	assert.Equal(t, "alice", user.Username)
}

func TestHealthzIsPublic(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := do(srv, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
