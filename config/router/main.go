package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/akeren/jobtracker-api/internal/log"
	"github.com/akeren/jobtracker-api/pkg/factory"
	"github.com/akeren/jobtracker-api/pkg/ratelimit"
	"github.com/akeren/jobtracker-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const defaultRequestTimeout = 30 * time.Second

// Cache is the subset of the application cache the router needs. Caches that also
// implement factory.RedisClientProvider switch rate limiting to Redis.
type Cache interface {
	Ping(ctx context.Context) error
}

type RouterService struct {
	engine         *gin.Engine
	server         *http.Server
	logger         *log.Logger
	limiters       *factory.LimiterFactory
	rateLimiter    ratelimit.RateLimiter
	redisClient    *redis.Client
	registry       *prometheus.Registry
	adminToken     string
	requestTimeout time.Duration

	handlerToControllerMap map[string]*RESTController
	rateLimitOverrides     map[string]ratelimit.RateLimiter
}

type RouterConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration
	// AdminToken guards admin and CRUD routes; empty disables those routes.
	AdminToken string
}

func CreateRouterService(logger *log.Logger, cache Cache, routerConfig *RouterConfig) *RouterService {
	timeout := routerConfig.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	var provider factory.RedisClientProvider
	if p, ok := cache.(factory.RedisClientProvider); ok {
		provider = p
	}
	limiters := factory.NewLimiterFactory(context.Background(), provider, logger)

	rs := &RouterService{
		engine:         newEngine(logger),
		logger:         logger,
		limiters:       limiters,
		registry:       prometheus.NewRegistry(),
		adminToken:     strings.TrimSpace(routerConfig.AdminToken),
		requestTimeout: timeout,

		rateLimitOverrides:     make(map[string]ratelimit.RateLimiter),
		handlerToControllerMap: make(map[string]*RESTController),
	}
	if limiters.Distributed() {
		rs.redisClient = provider.GetClient()
	}

	rs.rateLimiter = limiters.Create("default", routerConfig.RateLimitRequests, routerConfig.RateLimitWindow)
	logger.Info("Rate limiting initialized",
		"distributed", limiters.Distributed(),
		"requests", routerConfig.RateLimitRequests,
		"window", routerConfig.RateLimitWindow)

	rs.mountMetrics()
	rs.engine.Use(
		rs.securityHeadersMiddleware(),
		rs.maxBodySizeMiddleware(),
		rs.corsMiddleware(),
		rs.correlationIDMiddleware(),
		rs.loggerInjectionMiddleware(),
		rs.requestLoggingMiddleware(),
		rs.rateLimitMiddleware(),
		rs.timeoutMiddleware(),
	)
	rs.mountFallbacks()

	// Request deadlines come from the server timeouts; gin's Context must not cross goroutines.
	rs.server = &http.Server{
		Addr:              ":8080",
		Handler:           rs.engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Router service initialized", "request_timeout", timeout.String())
	return rs
}

func newEngine(logger *log.Logger) *gin.Engine {
	if mode := utils.GetEnvTrimmed("GIN_MODE"); mode != "" {
		logger.Info("Setting Gin mode", "mode", mode)
		gin.SetMode(mode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.HandleMethodNotAllowed = true
	engine.RedirectTrailingSlash = true

	if utils.IsTracingEnabled() {
		engine.Use(otelgin.Middleware(utils.OTelServiceName()))
		logger.Info("Tracing middleware enabled")
	}

	// ClientIP() is the admission gate's source IP, so X-Forwarded-For is only honoured from TRUSTED_PROXIES.
	proxies := trustedProxies()
	if err := engine.SetTrustedProxies(proxies); err != nil {
		logger.Error("Invalid TRUSTED_PROXIES; disabling trusted proxies", "error", err)
		_ = engine.SetTrustedProxies(nil)
	} else if proxies == nil {
		logger.Info("Trusted proxies disabled (TRUSTED_PROXIES not set)")
	}

	return engine
}

// trustedProxies reads TRUSTED_PROXIES; "*" trusts every address.
func trustedProxies() []string {
	proxies := utils.GetEnvList("TRUSTED_PROXIES")
	if len(proxies) == 1 && proxies[0] == "*" {
		return []string{"0.0.0.0/0", "::/0"}
	}
	return proxies
}

func (routerService *RouterService) mountFallbacks() {
	respond := func(c *gin.Context, status int, message string) {
		GetLogger(c).Warn(message, "path", c.Request.URL.Path, "method", c.Request.Method)
		c.JSON(status, ErrorResult(status, message, nil).ToJSON())
	}

	routerService.engine.NoRoute(func(c *gin.Context) {
		respond(c, http.StatusNotFound, "Route not found")
	})
	routerService.engine.NoMethod(func(c *gin.Context) {
		respond(c, http.StatusMethodNotAllowed, "Method not allowed")
	})
}

func (routerService *RouterService) GetEngine() *gin.Engine {
	return routerService.engine
}

func (routerService *RouterService) GetLogger(c *RequestContext) *log.Logger {
	return routerService.logger.WithCorrelationID(c.Request.Context())
}

// Limiters builds per-route limiters sharing the router's Redis connection.
func (routerService *RouterService) Limiters() *factory.LimiterFactory {
	return routerService.limiters
}

// MetricsRegistry is the registry served on /metrics; domains register their collectors here.
func (routerService *RouterService) MetricsRegistry() *prometheus.Registry {
	return routerService.registry
}

// RedisClient is nil when Redis is not configured or did not answer at startup.
func (routerService *RouterService) RedisClient() *redis.Client {
	return routerService.redisClient
}

func (routerService *RouterService) Cleanup() {
	routerService.logger.Info("Router service cleanup completed")
}

func (routerService *RouterService) MountController(controller *RESTController) {
	routerService.logger.Info("Mounting controller",
		"name", controller.name,
		"path", controller.mountPoint,
		"version", controller.version,
	)

	controller.prepare(routerService, controller)

	routerService.logger.Info("Controller mounted",
		"name", controller.name,
		"handlers", controller.handlerCount,
	)
}

func (routerService *RouterService) RunHTTPServer() error {
	addr := ":" + utils.GetEnvTrimmedOrDefault("APP_PORT", "8080")
	routerService.server.Addr = addr

	routerService.logger.Info("Starting HTTP server", "addr", addr)

	if err := routerService.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		routerService.logger.Error("Failed to start HTTP server", "error", err)
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

func (routerService *RouterService) Shutdown(ctx context.Context) error {
	routerService.logger.Info("Shutting down HTTP server gracefully...")
	return routerService.server.Shutdown(ctx)
}
