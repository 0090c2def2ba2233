package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

// newRequest builds a request with chi URL params already resolved.
func newRequest(method, target string, body interface{}, params map[string]string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, target, &buf)

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func asUser(req *http.Request, id int64, staff bool) *http.Request {
	return req.WithContext(withUser(req.Context(), User{ID: id, IsStaff: staff}))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func bearer(t *testing.T, userID int64, staff bool) string {
	t.Helper()
	token, err := NewToken(testSecret, userID, staff, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

type testServices struct {
	carts     *mockCartService
	checkout  *mockCheckouter
	orders    *mockOrderService
	customers *mockCustomerService
	catalog   *mockCatalogService
	health    mockHealth
}

func newTestServices() *testServices {
	return &testServices{
		carts:     &mockCartService{},
		checkout:  &mockCheckouter{},
		orders:    &mockOrderService{},
		customers: &mockCustomerService{},
		catalog:   &mockCatalogService{},
	}
}

func (s *testServices) router() http.Handler {
	timeout := 5 * time.Second
	return NewRouter(RouterConfig{
		JWTSecret:      testSecret,
		RequestTimeout: timeout,
		Carts:          NewCartHandler(s.carts, timeout),
		Orders:         NewOrderHandler(s.checkout, s.orders, s.customers, timeout),
		Catalog:        NewCatalogHandler(s.catalog, timeout),
		Customers:      NewCustomerHandler(s.customers, timeout),
		Health:         s.health,
	})
}
