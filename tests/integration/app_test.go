//go:build integration

package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appcatalog "github.com/shoporders/backend/internal/application/catalog"
	appidentity "github.com/shoporders/backend/internal/application/identity"
	apptrade "github.com/shoporders/backend/internal/application/trade"
	"github.com/shoporders/backend/internal/infrastructure/auth"
	"github.com/shoporders/backend/internal/infrastructure/config"
	"github.com/shoporders/backend/internal/infrastructure/event"
	"github.com/shoporders/backend/internal/infrastructure/persistence"
	"github.com/shoporders/backend/internal/infrastructure/pricelist"
	"github.com/shoporders/backend/internal/interfaces/http/handler"
	"github.com/shoporders/backend/internal/interfaces/http/middleware"
	"github.com/shoporders/backend/internal/interfaces/http/router"
	"github.com/shoporders/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPassword = "Blue-Falcon-2931"

// testApp is the full HTTP stack over a containerized database
type testApp struct {
	db     *TestDB
	engine http.Handler
	api    *testutil.APIClient
	events *testutil.RecordingHandler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	tdb := NewTestDB(t)
	db := tdb.DB
	log := zap.NewNop()
	middleware.SetupValidator()

	users := persistence.NewGormUserRepository(db)
	tokens := persistence.NewGormConfirmTokenRepository(db)
	contacts := persistence.NewGormContactRepository(db)
	shops := persistence.NewGormShopRepository(db)
	categories := persistence.NewGormCategoryRepository(db)
	products := persistence.NewGormProductRepository(db)
	orders := persistence.NewGormOrderRepository(db)

	bus := event.NewInMemoryEventBus(log)
	recorder := testutil.NewRecordingHandler()
	bus.Subscribe(recorder)
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-secret-key-32-chars!",
		RefreshSecret:          "integration-refresh-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "shop-orders-test",
		MaxRefreshCount:        10,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	authCfg := appidentity.DefaultAuthServiceConfig()
	authCfg.ReturnConfirmToken = true
	authService := appidentity.NewAuthService(users, tokens, jwtService, blacklist, nil, authCfg, log)
	authService.SetEventPublisher(bus)
	fetcher := pricelist.NewFetcher(config.PriceListConfig{
		FetchTimeout:   5 * time.Second,
		MaxSizeBytes:   1 << 20,
		AllowedSchemes: []string{"http", "https"},
	})
	partnerService := appcatalog.NewPartnerService(users, shops, products, orders, fetcher, nil, nil, log)
	partnerService.SetEventPublisher(bus)
	orderService := apptrade.NewOrderService(orders, products, contacts, log)
	orderService.SetEventPublisher(bus)

	engine, stop := router.New(router.Options{
		APIVersion:     "v1",
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	}, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(appidentity.NewUserService(users, authCfg.PasswordMinLength, log), appidentity.NewContactService(contacts, log)),
		Catalog: handler.NewCatalogHandler(appcatalog.NewCatalogService(shops, categories, products, users, log)),
		Partner: handler.NewPartnerHandler(partnerService),
		Cart:    handler.NewCartHandler(apptrade.NewCartService(orders, products, shops, log)),
		Order:   handler.NewOrderHandler(orderService),
		Health:  handler.NewHealthHandler(tdb.Database, "test"),
	})
	t.Cleanup(stop)

	return &testApp{
		db:     tdb,
		engine: engine,
		api:    testutil.NewAPIClient(t, engine, "/api/v1"),
		events: recorder,
	}
}

// signUp registers, confirms and logs in a user and returns a client carrying their token
func (a *testApp) signUp(t *testing.T, email, userType string) *testutil.APIClient {
	t.Helper()
	resp := a.api.Expect(http.StatusCreated, http.MethodPost, "/user/register", map[string]string{
		"first_name": "Anna",
		"last_name":  "Smirnova",
		"email":      email,
		"password":   testPassword,
		"company":    "Acme",
		"position":   "Buyer",
		"type":       userType,
	})
	registered := testutil.DecodeData[appidentity.RegisterResult](t, resp)

	a.api.Expect(http.StatusOK, http.MethodPost, "/user/register/confirm", map[string]string{
		"email": email,
		"token": registered.ConfirmToken,
	})
	resp = a.api.Expect(http.StatusOK, http.MethodPost, "/user/login", map[string]string{
		"email":    email,
		"password": testPassword,
	})
	return a.api.WithToken(testutil.DecodeData[appidentity.LoginResult](t, resp).AccessToken)
}

// addContact creates a delivery contact and returns its id
func addContact(t *testing.T, client *testutil.APIClient) string {
	t.Helper()
	resp := client.Expect(http.StatusCreated, http.MethodPost, "/user/contact", map[string]string{
		"city": "Kazan", "street": "Baumana", "phone": "+79001234567",
	})
	return testutil.DecodeData[appidentity.ContactResponse](t, resp).ID.String()
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

const shopFeed = `
shop: Connect
categories:
  - id: 224
    name: Smartphones
  - id: 15
    name: Accessories
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
      "Storage, GB": 512
  - id: 4216313
    category: 15
    model: apple/airpods
    name: AirPods
    price: 11490
    price_rrc: 12990
    quantity: 10
`

// shopFeedReduced drops AirPods and changes the iPhone's stock and price
const shopFeedReduced = `
shop: Connect
categories:
  - id: 224
    name: Smartphones
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: Apple iPhone XS Max 512GB (gold)
    price: 105000
    price_rrc: 116990
    quantity: 7
    parameters:
      "Colour": gold
`
