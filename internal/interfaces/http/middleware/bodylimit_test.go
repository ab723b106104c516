package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newLimitedRouter := func(limit int64) *gin.Engine {
		router := gin.New()
		router.Use(BodyLimit(limit))
		router.POST("/dues", func(c *gin.Context) {
			c.String(http.StatusOK, "recorded")
		})
		router.GET("/dues", func(c *gin.Context) {
			c.String(http.StatusOK, "listed")
		})
		return router
	}

	t.Run("small due payload passes", func(t *testing.T) {
		router := newLimitedRouter(1024)

		req := httptest.NewRequest("POST", "/dues", bytes.NewReader([]byte(`{"amount":450}`)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("oversized declared body is rejected before reading", func(t *testing.T) {
		router := newLimitedRouter(100)

		req := httptest.NewRequest("POST", "/dues", strings.NewReader(strings.Repeat("x", 200)))
		req.ContentLength = 200
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
	})

	t.Run("bodyless reads are unaffected", func(t *testing.T) {
		router := newLimitedRouter(10)

		req := httptest.NewRequest("GET", "/dues", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("chunked body hits the limited reader", func(t *testing.T) {
		router := gin.New()
		router.Use(BodyLimit(50))
		router.POST("/dues", func(c *gin.Context) {
			buf := make([]byte, 200)
			if _, err := c.Request.Body.Read(buf); err != nil {
				c.String(http.StatusBadRequest, "body too large")
				return
			}
			c.String(http.StatusOK, "recorded")
		})

		// No Content-Length, as with a chunked transfer
		req := httptest.NewRequest("POST", "/dues", strings.NewReader(strings.Repeat("x", 100)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
