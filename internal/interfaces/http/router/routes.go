package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shoporders/backend/internal/infrastructure/auth"
	"github.com/shoporders/backend/internal/infrastructure/config"
	"github.com/shoporders/backend/internal/infrastructure/logger"
	"github.com/shoporders/backend/internal/interfaces/http/handler"
	"github.com/shoporders/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers served by the API
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Catalog *handler.CatalogHandler
	Partner *handler.PartnerHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
	Health  *handler.HealthHandler
}

// Options configures the engine built by New
type Options struct {
	APIVersion     string
	HTTP           config.HTTPConfig
	TrustedProxies []string
	Swagger        bool
	// Tracing enables the otelgin middleware under ServiceName
	Tracing        bool
	ServiceName    string
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	Logger         *zap.Logger
}

// New builds the gin engine with the middleware stack and the route table.
// The returned stop function releases the rate limiters' cleanup goroutines.
func New(opts Options, h Handlers) (*gin.Engine, func()) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(opts.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	var limiters []*middleware.RateLimiter
	stop := func() {
		for _, l := range limiters {
			l.Stop()
		}
	}

	engine.Use(middleware.RequestID())
	if opts.Tracing {
		engine.Use(middleware.Tracing(opts.ServiceName))
	}
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFrom(opts.HTTP)))
	engine.Use(middleware.BodyLimit(opts.HTTP.MaxBodySize))
	if opts.HTTP.RateLimitEnabled && opts.HTTP.RateLimitRequests > 0 {
		global := middleware.NewRateLimiter(opts.HTTP.RateLimitRequests, opts.HTTP.RateLimitWindow)
		limiters = append(limiters, global)
		engine.Use(middleware.RateLimit(global))
	}

	// registration and price-list imports share a stricter per-client budget
	strict := func(c *gin.Context) { c.Next() }
	if opts.HTTP.AuthRateLimitRequests > 0 {
		window := opts.HTTP.AuthRateLimitWindow
		if window <= 0 {
			window = time.Minute
		}
		authLimiter := middleware.NewRateLimiter(opts.HTTP.AuthRateLimitRequests, window)
		limiters = append(limiters, authLimiter)
		strict = middleware.RateLimitByKey(authLimiter, middleware.ClientKey)
	}

	if h.Health != nil {
		engine.GET("/health", h.Health.Health)
	}
	if opts.Swagger {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authenticated := []gin.HandlerFunc{
		middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService:     opts.JWTService,
			TokenBlacklist: opts.TokenBlacklist,
			Logger:         log,
		}),
	}
	if opts.Tracing {
		authenticated = append(authenticated, middleware.SpanEnricher())
	}

	r := NewRouter(engine, WithAPIVersion(opts.APIVersion))

	account := NewDomainGroup("account", "/user")
	account.POST("/register", strict, h.Auth.Register)
	account.POST("/register/confirm", h.Auth.ConfirmEmail)
	account.POST("/login", h.Auth.Login)
	account.POST("/refresh", h.Auth.Refresh)

	user := NewDomainGroup("user", "/user").Use(authenticated...)
	user.POST("/logout", h.Auth.Logout)
	user.GET("/details", h.User.GetProfile)
	user.POST("/details", h.User.UpdateProfile)
	user.GET("/contact", h.User.ListContacts)
	user.POST("/contact", h.User.CreateContact)
	user.PUT("/contact", h.User.UpdateContact)
	user.DELETE("/contact", h.User.DeleteContacts)

	catalog := NewDomainGroup("catalog", "")
	catalog.GET("/shops", h.Catalog.ListShops)
	catalog.GET("/categories", h.Catalog.ListCategories)
	catalog.GET("/products", h.Catalog.ListProducts)
	catalog.GET("/products/:id", h.Catalog.GetProduct)

	catalogAdmin := NewDomainGroup("catalog-admin", "").Use(authenticated...)
	catalogAdmin.POST("/categories", h.Catalog.CreateCategory)

	partner := NewDomainGroup("partner", "/partner").Use(authenticated...)
	partner.POST("/update", strict, h.Partner.UpdatePriceList)
	partner.GET("/state", h.Partner.GetState)
	partner.POST("/state", h.Partner.SetState)
	partner.GET("/orders", h.Partner.ListOrders)
	partner.PATCH("/orders/:id/status", h.Partner.ChangeOrderStatus)

	basket := NewDomainGroup("basket", "/basket").Use(authenticated...)
	basket.GET("", h.Cart.Get)
	basket.POST("", h.Cart.AddItems)
	basket.PUT("", h.Cart.UpdateItems)
	basket.DELETE("", h.Cart.DeleteItems)

	order := NewDomainGroup("order", "/order").Use(authenticated...)
	order.GET("", h.Order.List)
	order.POST("", h.Order.Place)
	order.GET("/:id", h.Order.Get)
	order.POST("/:id/cancel", h.Order.Cancel)

	r.Register(account, user, catalog, catalogAdmin, partner, basket, order)
	r.Setup()

	log.Info("Routes registered",
		zap.String("base_path", r.BasePath()),
		zap.Bool("swagger", opts.Swagger),
		zap.Bool("tracing", opts.Tracing),
		zap.Bool("rate_limit", opts.HTTP.RateLimitEnabled))
	return engine, stop
}
