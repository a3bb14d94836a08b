package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	cartapp "github.com/storefront/backend/internal/application/cart"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	paymentapp "github.com/storefront/backend/internal/application/payment"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/notification"
	"github.com/storefront/backend/internal/infrastructure/session"
	"github.com/storefront/backend/internal/infrastructure/shopapi"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Initialize the session cart store
	cartStore, err := newCartStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize cart store", zap.Error(err))
	}
	defer func() {
		if err := cartStore.Close(); err != nil {
			log.Error("Error closing cart store", zap.Error(err))
		}
	}()

	// Initialize the shop API gateway client
	gateway, err := shopapi.NewClient(&shopapi.Config{
		BaseURL: cfg.ShopAPI.BaseURL,
		Token:   cfg.ShopAPI.Token,
		Timeout: cfg.ShopAPI.Timeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize shop API client", zap.Error(err))
	}

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Session-scoped notification channel for transient UI messages
	channel := notification.NewChannel(cfg.Notification.DismissAfter, log)
	defer channel.Close()

	// Initialize application services
	cartService := cartapp.NewService(cartStore, channel, eventBus, log)
	checkoutService := checkoutapp.NewService(cartStore, gateway, feeTable(cfg.Shipping), log)

	// The redirect-home navigator is a server-side signal only; browser
	// clients navigate themselves after polling the verification state
	navigator := func(sessionID string) {
		log.Info("redirecting shopper home after verification error",
			zap.String("session_id", sessionID))
	}
	paymentService := paymentapp.NewService(gateway, eventBus, navigator, paymentapp.DefaultRedirectDelay, cfg.Session.TTL, log)
	defer paymentService.Close()

	// Register event handlers for cross-context integration
	// Payment completed -> cart cleared
	paymentCompletedHandler := cartapp.NewPaymentCompletedHandler(cartService, log)
	eventBus.Subscribe(paymentCompletedHandler)
	log.Info("Event handlers registered",
		zap.Strings("payment_completed_events", paymentCompletedHandler.EventTypes()))

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, in order: request ID, session resolution, panic
	// recovery, request logging, tracing, CORS
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Session(middleware.SessionConfig{
		CookieTTL: cfg.Session.TTL,
		Secure:    cfg.App.Env == "production",
	}))
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if tracerProvider.IsEnabled() {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.CORSWithConfig(corsConfig(cfg.HTTP)))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Register API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(
		handler.NewCartHandler(cartService),
		handler.NewCheckoutHandler(checkoutService),
		handler.NewPaymentHandler(paymentService),
		handler.NewNotificationHandler(channel),
		handler.NewSystemHandler(cfg.App.Name, cfg.App.Env),
	)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           cfg.App.Addr(),
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// cartStore is the session cart repository plus its lifecycle
type cartStore interface {
	cart.Repository
	Close() error
}

// newCartStore builds the configured session cart backend
func newCartStore(cfg *config.Config, log *zap.Logger) (cartStore, error) {
	switch cfg.Session.Backend {
	case "redis":
		store, err := session.NewRedisStore(session.RedisConfig{
			Host:     cfg.Session.Redis.Host,
			Port:     cfg.Session.Redis.Port,
			Password: cfg.Session.Redis.Password,
			DB:       cfg.Session.Redis.DB,
		}, cfg.Session.TTL)
		if err != nil {
			return nil, err
		}
		log.Info("Using Redis cart store",
			zap.String("host", cfg.Session.Redis.Host),
			zap.Int("port", cfg.Session.Redis.Port))
		return store, nil
	default:
		log.Info("Using in-memory cart store", zap.Duration("ttl", cfg.Session.TTL))
		return session.NewMemoryStore(cfg.Session.TTL), nil
	}
}

// feeTable converts the configured whole-naira rates into the domain table
func feeTable(cfg config.ShippingConfig) checkout.FeeTable {
	return checkout.FeeTable{
		checkout.ShippingStandard: valueobject.NewMoneyNGNFromInt(cfg.StandardFee),
		checkout.ShippingExpress:  valueobject.NewMoneyNGNFromInt(cfg.ExpressFee),
	}
}

// corsConfig maps HTTP config onto the CORS middleware configuration
func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.CORSAllowOrigins
	if len(cfg.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.CORSAllowHeaders
	}
	return cors
}
