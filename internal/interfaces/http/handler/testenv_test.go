package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appcatalog "github.com/shoporders/backend/internal/application/catalog"
	appidentity "github.com/shoporders/backend/internal/application/identity"
	apptrade "github.com/shoporders/backend/internal/application/trade"
	"github.com/shoporders/backend/internal/infrastructure/auth"
	"github.com/shoporders/backend/internal/infrastructure/config"
	"github.com/shoporders/backend/internal/infrastructure/persistence"
	"github.com/shoporders/backend/internal/infrastructure/persistence/models"
	"github.com/shoporders/backend/internal/infrastructure/pricelist"
	"github.com/shoporders/backend/internal/interfaces/http/dto"
	"github.com/shoporders/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

const testPassword = "Blue-Falcon-2931"

// testEnv is the HTTP API over an in-memory database with the real services
type testEnv struct {
	engine *gin.Engine
	db     *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	log := zap.NewNop()
	users := persistence.NewGormUserRepository(db)
	tokens := persistence.NewGormConfirmTokenRepository(db)
	contacts := persistence.NewGormContactRepository(db)
	shops := persistence.NewGormShopRepository(db)
	categories := persistence.NewGormCategoryRepository(db)
	products := persistence.NewGormProductRepository(db)
	orders := persistence.NewGormOrderRepository(db)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	authCfg := appidentity.DefaultAuthServiceConfig()
	authCfg.ReturnConfirmToken = true
	authService := appidentity.NewAuthService(users, tokens, jwtService, blacklist, nil, authCfg, log)
	userService := appidentity.NewUserService(users, authCfg.PasswordMinLength, log)
	contactService := appidentity.NewContactService(contacts, log)
	catalogService := appcatalog.NewCatalogService(shops, categories, products, users, log)
	fetcher := pricelist.NewFetcher(config.PriceListConfig{
		FetchTimeout:   5 * time.Second,
		MaxSizeBytes:   1 << 20,
		AllowedSchemes: []string{"http", "https"},
	})
	partnerService := appcatalog.NewPartnerService(users, shops, products, orders, fetcher, nil, nil, log)
	cartService := apptrade.NewCartService(orders, products, shops, log)
	orderService := apptrade.NewOrderService(orders, products, contacts, log)

	authH := NewAuthHandler(authService)
	userH := NewUserHandler(userService, contactService)
	catalogH := NewCatalogHandler(catalogService)
	partnerH := NewPartnerHandler(partnerService)
	cartH := NewCartHandler(cartService)
	orderH := NewOrderHandler(orderService)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/health", NewHealthHandler(nil, "test").Health)

	api := r.Group("/api/v1")
	api.POST("/user/register", authH.Register)
	api.POST("/user/register/confirm", authH.ConfirmEmail)
	api.POST("/user/login", authH.Login)
	api.POST("/user/refresh", authH.Refresh)
	api.GET("/shops", catalogH.ListShops)
	api.GET("/categories", catalogH.ListCategories)
	api.GET("/products", catalogH.ListProducts)
	api.GET("/products/:id", catalogH.GetProduct)

	protected := api.Group("")
	protected.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
	}))
	protected.POST("/user/logout", authH.Logout)
	protected.GET("/user/details", userH.GetProfile)
	protected.POST("/user/details", userH.UpdateProfile)
	protected.GET("/user/contact", userH.ListContacts)
	protected.POST("/user/contact", userH.CreateContact)
	protected.PUT("/user/contact", userH.UpdateContact)
	protected.DELETE("/user/contact", userH.DeleteContacts)
	protected.POST("/categories", catalogH.CreateCategory)
	protected.POST("/partner/update", partnerH.UpdatePriceList)
	protected.GET("/partner/state", partnerH.GetState)
	protected.POST("/partner/state", partnerH.SetState)
	protected.GET("/partner/orders", partnerH.ListOrders)
	protected.PATCH("/partner/orders/:id/status", partnerH.ChangeOrderStatus)
	protected.GET("/basket", cartH.Get)
	protected.POST("/basket", cartH.AddItems)
	protected.PUT("/basket", cartH.UpdateItems)
	protected.DELETE("/basket", cartH.DeleteItems)
	protected.GET("/order", orderH.List)
	protected.POST("/order", orderH.Place)
	protected.GET("/order/:id", orderH.Get)
	protected.POST("/order/:id/cancel", orderH.Cancel)

	return &testEnv{engine: r, db: db}
}

// do sends a request with an optional JSON body and bearer token
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequestWithContext(context.Background(), method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// signUp registers, confirms and logs in a user, returning the access token
func (e *testEnv) signUp(t *testing.T, email, userType string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/user/register", "", map[string]string{
		"first_name": "Ivan",
		"last_name":  "Petrov",
		"email":      email,
		"password":   testPassword,
		"company":    "Acme",
		"position":   "Manager",
		"type":       userType,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var registered struct {
		Data appidentity.RegisterResult `json:"data"`
	}
	decode(t, w, &registered)
	require.NotEmpty(t, registered.Data.ConfirmToken)

	w = e.do(t, http.MethodPost, "/api/v1/user/register/confirm", "", map[string]string{
		"email": email,
		"token": registered.Data.ConfirmToken,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(t, http.MethodPost, "/api/v1/user/login", "", map[string]string{
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Data appidentity.LoginResult `json:"data"`
	}
	decode(t, w, &login)
	return login.Data.AccessToken
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// errorOf returns the error envelope of a failed response
func errorOf(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	decode(t, w, &resp)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return *resp.Error
}

// feedServer serves a YAML price list
func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const testFeed = `
shop: Connect
categories:
  - id: 224
    name: Smartphones
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: Apple iPhone XS Max 512GB (gold)
    price: 110000
    price_rrc: 116990
    quantity: 3
    parameters:
      "Colour": gold
  - id: 4216313
    category: 224
    model: apple/airpods
    name: AirPods
    price: 11490
    price_rrc: 12990
    quantity: 10
`
