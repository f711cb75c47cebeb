package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"olist_back_end/internal/config"
	"olist_back_end/internal/handlers"
	"olist_back_end/internal/models"
)

type emptyRelational struct{}

func (emptyRelational) Customers(context.Context) ([]models.Customer, error)   { return nil, nil }
func (emptyRelational) Orders(context.Context) ([]models.Order, error)         { return nil, nil }
func (emptyRelational) OrderItems(context.Context) ([]models.OrderItem, error) { return nil, nil }

type emptyDocuments struct{}

func (emptyDocuments) FindAll(context.Context, string) ([]map[string]any, error) { return nil, nil }

func newRouter(variant config.Variant, origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, handlers.New(variant, emptyRelational{}, emptyDocuments{}, zerolog.Nop()), origins)
	return r
}

func get(r *gin.Engine, path string) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w.Code
}

func TestRoutesPerVariant(t *testing.T) {
	tests := []struct {
		path       string
		hybrid     int
		relational int
	}{
		{"/", http.StatusOK, http.StatusOK},
		{"/customers", http.StatusOK, http.StatusOK},
		{"/orders", http.StatusOK, http.StatusOK},
		{"/order_items", http.StatusNotFound, http.StatusOK},
		{"/products", http.StatusOK, http.StatusNotFound},
		{"/reviews", http.StatusOK, http.StatusNotFound},
		{"/user_profiles", http.StatusOK, http.StatusNotFound},
	}

	hybrid := newRouter(config.VariantHybrid, nil)
	relational := newRouter(config.VariantRelational, nil)

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.hybrid, get(hybrid, tt.path), "hybrid")
			assert.Equal(t, tt.relational, get(relational, tt.path), "relational")
		})
	}
}

func TestCORS(t *testing.T) {
	r := newRouter(config.VariantHybrid, []string{"http://front.test"})

	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	req.Header.Set("Origin", "http://front.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://front.test", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/customers", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSAllowAll(t *testing.T) {
	r := newRouter(config.VariantHybrid, []string{"*"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://anywhere.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
