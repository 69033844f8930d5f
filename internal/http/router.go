// Package httpapi wires the HTTP transport (Gin) to the design workflow
// services, middleware and route handlers. It centralizes cross-cutting
// concerns such as tracing, correlation IDs, caller identity, logging with
// redaction, panic recovery, metrics, CORS, security headers, idempotency
// and rate limiting.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/sparrow-design-service/internal/config"
	"github.com/tbourn/sparrow-design-service/internal/domain"
	"github.com/tbourn/sparrow-design-service/internal/http/handlers"
	"github.com/tbourn/sparrow-design-service/internal/http/middleware"
	"github.com/tbourn/sparrow-design-service/internal/notify"
	"github.com/tbourn/sparrow-design-service/internal/repo"
	"github.com/tbourn/sparrow-design-service/internal/services"
)

// repoShim adapts the repository free functions to the order, address and
// idempotency interfaces the services expect.
type repoShim struct{}

// CreateOrder proxies repo.CreateOrder.
func (repoShim) CreateOrder(ctx context.Context, db *gorm.DB, o *domain.Order) error {
	return repo.CreateOrder(ctx, db, o)
}

// GetOrder proxies repo.GetOrder.
func (repoShim) GetOrder(ctx context.Context, db *gorm.DB, id string) (*domain.Order, error) {
	return repo.GetOrder(ctx, db, id)
}

// GetOrderByDesign proxies repo.GetOrderByDesign.
func (repoShim) GetOrderByDesign(ctx context.Context, db *gorm.DB, designID string) (*domain.Order, error) {
	return repo.GetOrderByDesign(ctx, db, designID)
}

// UpdateOrderStatus proxies repo.UpdateOrderStatus.
func (repoShim) UpdateOrderStatus(ctx context.Context, db *gorm.DB, id string, from, to domain.OrderStatus) error {
	return repo.UpdateOrderStatus(ctx, db, id, from, to)
}

// CreateAddress proxies repo.CreateAddress.
func (repoShim) CreateAddress(ctx context.Context, db *gorm.DB, a *domain.Address) error {
	return repo.CreateAddress(ctx, db, a)
}

// ListAddresses proxies repo.ListAddresses.
func (repoShim) ListAddresses(ctx context.Context, db *gorm.DB, customerID string) ([]domain.Address, error) {
	return repo.ListAddresses(ctx, db, customerID)
}

// FindShippingAddress proxies repo.FindShippingAddress.
func (repoShim) FindShippingAddress(ctx context.Context, db *gorm.DB, customerID string) (*domain.Address, error) {
	return repo.FindShippingAddress(ctx, db, customerID)
}

// CreatePlaceholderAddress proxies repo.CreatePlaceholderAddress.
func (repoShim) CreatePlaceholderAddress(ctx context.Context, db *gorm.DB, customerID string) (*domain.Address, error) {
	return repo.CreatePlaceholderAddress(ctx, db, customerID)
}

// GetIdempotency proxies repo.GetIdempotency.
func (repoShim) GetIdempotency(ctx context.Context, db *gorm.DB, userID, designID, key string, now time.Time) (*domain.Idempotency, error) {
	return repo.GetIdempotency(ctx, db, userID, designID, key, now)
}

// CreateIdempotency proxies repo.CreateIdempotency.
func (repoShim) CreateIdempotency(ctx context.Context, db *gorm.DB, userID, designID, key, resourceID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	return repo.CreateIdempotency(ctx, db, userID, designID, key, resourceID, status, ttl)
}

// Collaborators are the dependencies chosen at startup. Designs is
// required; a nil Notifier drops events and a nil Payments skips
// verification.
type Collaborators struct {
	Designs  services.DesignStore
	Notifier notify.Notifier
	Payments services.PaymentVerifier
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Identity: resolve X-User-ID before anything logs it
//  4. AccessLog: structured logs with PII scrubbing
//  5. Recovery: capture panics after logger
//  6. Body size limiter and gzip
//  7. Metrics
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, ext Collaborators, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	sellers := services.NewSellerDirectory(cfg.SellerIDs)

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Identity(sellers))
	r.Use(middleware.AccessLog(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(1 << 20))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, userID, designID, key string, now time.Time) (bool, error) {
			_, err := repo.GetIdempotency(ctx, db, userID, designID, key, now)
			if errors.Is(err, repo.ErrNotFound) {
				return false, nil
			}
			return err == nil, err
		},
	))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	useCORS(r, cfg.CORS.AllowedOrigins)

	// API responses carry per-caller data and must not be cached by proxies.
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      true,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	designSvc := services.NewDesignService(ext.Designs, ext.Notifier)
	designSvc.Payments = ext.Payments
	fulfilSvc := &services.FulfillmentService{
		DB:             db,
		Designs:        ext.Designs,
		Orders:         repoShim{},
		Addresses:      repoShim{},
		Idempotency:    repoShim{},
		Notifier:       ext.Notifier,
		IdempotencyTTL: cfg.IdempotencyTTL,
	}
	addrSvc := &services.AddressService{DB: db, Repo: repoShim{}}
	h := handlers.New(designSvc, fulfilSvc, addrSvc)

	api := groupWithPrefix(r, cfg.APIBasePath)
	api.Use(middleware.RequireIdentity())
	{
		// Negotiation
		api.POST("/designs", h.SubmitDesign)
		api.GET("/designs", h.ListDesigns)
		api.GET("/designs/:id", h.GetDesign)
		api.POST("/designs/:id/quote", h.QuoteDesign)
		api.POST("/designs/:id/response", h.RespondToQuote)
		api.POST("/designs/:id/negotiation", h.RespondToNegotiation)
		api.POST("/designs/:id/reopen", h.ReopenDesign)
		api.POST("/designs/:id/decline", h.DeclineDesign)
		api.POST("/designs/:id/payment", h.RecordPayment)

		// Fulfillment
		api.POST("/designs/:id/order", h.ConvertToOrder)
		api.GET("/orders/:id", h.GetOrder)
		api.PUT("/orders/:id/status", h.UpdateOrderStatus)

		// Addresses
		api.POST("/addresses", h.CreateAddress)
		api.GET("/addresses", h.ListAddresses)
	}
}

// useCORS installs gin-contrib/cors. With no allowlist every origin is
// accepted without credentials; otherwise the request Origin is echoed when
// it is on the list.
func useCORS(r *gin.Engine, origins []string) {
	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderUserID, middleware.HeaderIdempotencyKey}
	exposeHeaders := []string{middleware.HeaderRequestID, handlers.HeaderIdempotencyReplayed, "Content-Length", "ETag"}
	methods := []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}

	if len(origins) == 0 {
		// ACAO on every response, including requests without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     methods,
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
		return
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
		}
		c.Next()
	})
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     methods,
		AllowHeaders:     allowHeaders,
		ExposeHeaders:    exposeHeaders,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
