package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newSwaggerRouter(cfg SwaggerConfig, jwtMiddleware gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/swagger/index.html", SwaggerProtection(cfg, jwtMiddleware), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	return router
}

func TestSwaggerProtection(t *testing.T) {
	t.Run("disabled docs answer 404", func(t *testing.T) {
		router := newSwaggerRouter(SwaggerConfig{Enabled: false}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/swagger/index.html", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "not available")
	})

	t.Run("enabled without restrictions serves docs", func(t *testing.T) {
		router := newSwaggerRouter(SwaggerConfig{Enabled: true}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/swagger/index.html", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("allowlisted IP passes", func(t *testing.T) {
		router := newSwaggerRouter(SwaggerConfig{
			Enabled:    true,
			AllowedIPs: []string{"192.0.2.10"},
		}, nil)

		req := httptest.NewRequest("GET", "/swagger/index.html", nil)
		req.RemoteAddr = "192.0.2.10:52100"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unlisted IP is forbidden", func(t *testing.T) {
		router := newSwaggerRouter(SwaggerConfig{
			Enabled:    true,
			AllowedIPs: []string{"192.0.2.10"},
		}, nil)

		req := httptest.NewRequest("GET", "/swagger/index.html", nil)
		req.RemoteAddr = "198.51.100.7:52100"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("CIDR range covers the campus subnet", func(t *testing.T) {
		router := newSwaggerRouter(SwaggerConfig{
			Enabled:    true,
			AllowedIPs: []string{"10.20.0.0/16"},
		}, nil)

		req := httptest.NewRequest("GET", "/swagger/index.html", nil)
		req.RemoteAddr = "10.20.31.5:40000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("auth guard runs when required", func(t *testing.T) {
		guard := func(c *gin.Context) {
			c.AbortWithStatus(http.StatusUnauthorized)
		}
		router := newSwaggerRouter(SwaggerConfig{Enabled: true, RequireAuth: true}, guard)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/swagger/index.html", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("auth guard passes authenticated requests", func(t *testing.T) {
		guard := func(c *gin.Context) { c.Next() }
		router := newSwaggerRouter(SwaggerConfig{Enabled: true, RequireAuth: true}, guard)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/swagger/index.html", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed allowlist entries are skipped", func(t *testing.T) {
		router := newSwaggerRouter(SwaggerConfig{
			Enabled:    true,
			AllowedIPs: []string{"not-an-ip", "300.1.1.1/8", "192.0.2.10"},
		}, nil)

		req := httptest.NewRequest("GET", "/swagger/index.html", nil)
		req.RemoteAddr = "192.0.2.10:52100"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestIsIPAllowed(t *testing.T) {
	_, campusNet, err := net.ParseCIDR("10.20.0.0/16")
	assert.NoError(t, err)

	assert.False(t, isIPAllowed(nil, nil, nil))
	assert.True(t, isIPAllowed(net.ParseIP("10.20.1.1"), nil, []*net.IPNet{campusNet}))
	assert.False(t, isIPAllowed(net.ParseIP("10.21.1.1"), nil, []*net.IPNet{campusNet}))
}
