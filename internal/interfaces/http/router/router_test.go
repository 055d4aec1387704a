package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shoporders/backend/internal/infrastructure/auth"
	"github.com/shoporders/backend/internal/infrastructure/config"
	"github.com/shoporders/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine http.Handler, method, path string, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequestWithContext(context.Background(), method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouter_Setup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.Register(group)
	r.Setup()

	w := serve(engine, http.MethodGet, "/api/v2/test/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouter_EmptyVersionKeepsDefault(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion(""))
	assert.Equal(t, "/api/v1", r.BasePath())
}

func TestDomainGroup_MiddlewareAndSubgroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	var trail []string
	mark := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			trail = append(trail, name)
			c.Next()
		}
	}

	group := NewDomainGroup("outer", "/outer").Use(mark("outer"))
	group.POST("/a", func(c *gin.Context) { c.Status(http.StatusCreated) })
	inner := group.Group("inner", "/inner").Use(mark("inner"))
	inner.DELETE("/b", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.Register(group)
	r.Setup()

	assert.Equal(t, "outer", group.Name())
	assert.Equal(t, "/inner", inner.Prefix())

	w := serve(engine, http.MethodPost, "/api/v1/outer/a", "", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"outer"}, trail)

	trail = nil
	w = serve(engine, http.MethodDelete, "/api/v1/outer/inner/b", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"outer", "inner"}, trail)
}

func newTestEngine(t *testing.T, opts Options) *gin.Engine {
	t.Helper()
	opts.JWTService = auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "test-issuer",
	})
	opts.TokenBlacklist = auth.NewInMemoryTokenBlacklist()

	// services are never reached: every request below stops in middleware or binding
	engine, stop := New(opts, Handlers{
		Auth:    handler.NewAuthHandler(nil),
		User:    handler.NewUserHandler(nil, nil),
		Catalog: handler.NewCatalogHandler(nil),
		Partner: handler.NewPartnerHandler(nil),
		Cart:    handler.NewCartHandler(nil),
		Order:   handler.NewOrderHandler(nil),
		Health:  handler.NewHealthHandler(nil, "test"),
	})
	t.Cleanup(stop)
	return engine
}

func TestNew_RouteTable(t *testing.T) {
	engine := newTestEngine(t, Options{})

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	want := []string{
		"GET /health",
		"POST /api/v1/user/register",
		"POST /api/v1/user/register/confirm",
		"POST /api/v1/user/login",
		"POST /api/v1/user/refresh",
		"POST /api/v1/user/logout",
		"GET /api/v1/user/details",
		"POST /api/v1/user/details",
		"GET /api/v1/user/contact",
		"POST /api/v1/user/contact",
		"PUT /api/v1/user/contact",
		"DELETE /api/v1/user/contact",
		"POST /api/v1/partner/update",
		"GET /api/v1/partner/state",
		"POST /api/v1/partner/state",
		"GET /api/v1/partner/orders",
		"PATCH /api/v1/partner/orders/:id/status",
		"GET /api/v1/shops",
		"GET /api/v1/categories",
		"POST /api/v1/categories",
		"GET /api/v1/products",
		"GET /api/v1/products/:id",
		"GET /api/v1/basket",
		"POST /api/v1/basket",
		"PUT /api/v1/basket",
		"DELETE /api/v1/basket",
		"GET /api/v1/order",
		"POST /api/v1/order",
		"GET /api/v1/order/:id",
		"POST /api/v1/order/:id/cancel",
	}
	for _, route := range want {
		assert.True(t, registered[route], "missing route %s", route)
	}
	assert.False(t, registered["GET /swagger/*any"], "swagger must be opt-in")
}

func TestNew_Swagger(t *testing.T) {
	engine := newTestEngine(t, Options{Swagger: true})
	found := false
	for _, route := range engine.Routes() {
		if route.Path == "/swagger/*any" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestNew_ProtectedRoutesRequireToken(t *testing.T) {
	engine := newTestEngine(t, Options{})

	for _, path := range []string{"/api/v1/basket", "/api/v1/order", "/api/v1/user/details", "/api/v1/partner/state"} {
		w := serve(engine, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := serve(engine, http.MethodPost, "/api/v1/categories", `{"name":"x"}`, map[string]string{"Content-Type": "application/json"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNew_CommonMiddleware(t *testing.T) {
	engine := newTestEngine(t, Options{HTTP: config.HTTPConfig{
		MaxBodySize:      16,
		CORSAllowOrigins: []string{"https://shop.example.com"},
	}})

	t.Run("request id and security headers", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/health", "", map[string]string{"X-Request-ID": "abc"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	t.Run("cors preflight", func(t *testing.T) {
		w := serve(engine, http.MethodOptions, "/api/v1/basket", "", map[string]string{"Origin": "https://shop.example.com"})
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("body limit", func(t *testing.T) {
		w := serve(engine, http.MethodPost, "/api/v1/user/login", `{"email":"someone@example.com","password":"x"}`,
			map[string]string{"Content-Type": "application/json"})
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestNew_RateLimits(t *testing.T) {
	t.Run("global", func(t *testing.T) {
		engine := newTestEngine(t, Options{HTTP: config.HTTPConfig{
			RateLimitEnabled:  true,
			RateLimitRequests: 2,
			RateLimitWindow:   time.Minute,
		}})
		for i := 0; i < 2; i++ {
			assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/health", "", nil).Code)
		}
		assert.Equal(t, http.StatusTooManyRequests, serve(engine, http.MethodGet, "/health", "", nil).Code)
	})

	t.Run("registration", func(t *testing.T) {
		engine := newTestEngine(t, Options{HTTP: config.HTTPConfig{
			AuthRateLimitRequests: 1,
			AuthRateLimitWindow:   time.Minute,
		}})
		// an empty body fails binding before the service is reached
		first := serve(engine, http.MethodPost, "/api/v1/user/register", "", map[string]string{"Content-Type": "application/json"})
		assert.Equal(t, http.StatusBadRequest, first.Code)

		second := serve(engine, http.MethodPost, "/api/v1/user/register", "", map[string]string{"Content-Type": "application/json"})
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.NotEmpty(t, second.Header().Get("Retry-After"))

		// other public routes are not affected
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/health", "", nil).Code)
	})
}

func TestNew_TracingDoesNotBreakRequests(t *testing.T) {
	engine := newTestEngine(t, Options{Tracing: true, ServiceName: "shop-orders-test"})
	w := serve(engine, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
