package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRecoveryAnswersJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	r := gin.New()
	r.Use(Recovery(zerolog.New(&buf)))
	r.GET("/orders", func(*gin.Context) { panic("nil map") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
	assert.Contains(t, buf.String(), "nil map")
	assert.Contains(t, buf.String(), "/orders")
}

func TestRecoveryIsLoggedAsServerError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var access bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&access)), Recovery(zerolog.Nop()))
	r.GET("/products", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, access.String(), `"level":"error"`)
	assert.Contains(t, access.String(), `"status":500`)
}
