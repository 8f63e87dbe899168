package supplement

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fitclub/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(svc Service, memberID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)

	router := gin.New()
	router.GET("/supplements", h.List)
	router.GET("/supplements/:supplementID", h.Get)

	as := func(c *gin.Context) { auth.SetIdentity(c, memberID, auth.RoleMember) }
	router.POST("/orders", as, h.PlaceOrder)
	router.GET("/orders/me", as, h.ListMyOrders)

	admin := router.Group("/admin/supplements")
	admin.POST("", h.Create)
	admin.PUT("/:supplementID", h.Update)
	admin.DELETE("/:supplementID", h.Delete)
	return router
}

func send(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_PlaceOrder(t *testing.T) {
	svc, _, _ := newTestService()
	router := setupRouter(svc, uuid.New())

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"empty cart", `{"cart_items":[]}`, http.StatusBadRequest, "Cart is empty."},
		{"out of stock", `{"cart_items":[{"supplement_id":"` + fishOil.ID.String() + `","quantity":1}]}`, http.StatusBadRequest, "'Omega 3' is out of stock."},
		{"unknown item", `{"cart_items":[{"supplement_id":"` + uuid.NewString() + `","name":"Ghost","quantity":1}]}`, http.StatusNotFound, "Supplement 'Ghost' not found."},
		{"zero quantity", `{"cart_items":[{"supplement_id":"` + whey.ID.String() + `","quantity":0}]}`, http.StatusBadRequest, ""},
		{"placed", `{"cart_items":[{"supplement_id":"` + whey.ID.String() + `","quantity":2}]}`, http.StatusCreated, "Order placed successfully!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := send(router, http.MethodPost, "/orders", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}

	w := send(router, http.MethodGet, "/orders/me", "")
	require.Equal(t, http.StatusOK, w.Code)
	var orders []Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "79.98", orders[0].TotalAmount.StringFixed(2))
	assert.Contains(t, w.Body.String(), `"status":"processing"`)
}

func TestHandler_AdminCatalogue(t *testing.T) {
	svc, _, _ := newTestService()
	router := setupRouter(svc, uuid.New())

	w := send(router, http.MethodPost, "/admin/supplements", `{"name":"Pump","category":"pre-workout","price":"29.90","description":"Caffeine","servings":20}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created Supplement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "N/A", created.Flavor)

	w = send(router, http.MethodGet, "/supplements/"+created.ID.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"bad category", http.MethodPost, "/admin/supplements", `{"name":"X","category":"candy","price":"1","description":"d","servings":1}`, http.StatusBadRequest},
		{"missing price", http.MethodPost, "/admin/supplements", `{"name":"X","category":"creatine","description":"d","servings":1}`, http.StatusBadRequest},
		{"update stock", http.MethodPut, "/admin/supplements/" + created.ID.String(), `{"in_stock":false}`, http.StatusOK},
		{"update missing", http.MethodPut, "/admin/supplements/" + uuid.NewString(), `{"in_stock":false}`, http.StatusNotFound},
		{"update bad id", http.MethodPut, "/admin/supplements/nope", `{}`, http.StatusBadRequest},
		{"delete", http.MethodDelete, "/admin/supplements/" + created.ID.String(), "", http.StatusOK},
		{"delete again", http.MethodDelete, "/admin/supplements/" + created.ID.String(), "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := send(router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}

	w = send(router, http.MethodGet, "/supplements", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []Supplement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 3)
}
