package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"storefront/internal/app"
	"storefront/internal/audit"
	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/http/handler"
	"storefront/internal/http/middleware"
	"storefront/internal/rbac/presets"
	"storefront/pkg/metrics"
)

const (
	jsonKeyStatus    = "status"
	statusOK         = "ok"
	statusDegraded   = "degraded"
	requestBodyLimit = "1M"
	imagesPathSuffix = "/images"
	healthTimeout    = 2 * time.Second
)

// Pinger is a dependency the health check probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

type ServerDependencies struct {
	Config         *config.Config
	Services       *app.Services
	AuthMiddleware *auth.Middleware
	AuditLogger    *audit.Logger
	HealthChecks   map[string]Pinger
	Metrics        *metrics.Collector
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = CustomHTTPErrorHandler

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	collector := deps.Metrics
	if collector == nil {
		collector = metrics.NewCollector()
	}

	// Request ID first, so all logs have it.
	e.Use(middleware.RequestID())
	e.Use(collector.Middleware())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimitWithConfig(echomiddleware.BodyLimitConfig{
		Limit: requestBodyLimit,
		Skipper: func(c echo.Context) bool {
			return strings.HasSuffix(c.Path(), imagesPathSuffix)
		},
	}))

	globalRateLimiter := middleware.NewGlobalRateLimiter()
	e.Use(globalRateLimiter.Middleware())

	strictRateLimiter := middleware.NewStrictRateLimiter()

	authn := deps.AuthMiddleware
	svc := deps.Services

	authHandler := handler.NewAuthHandler(svc.Accounts, deps.AuditLogger)
	orderHandler := handler.NewOrderHandler(svc.Orders, deps.AuditLogger)
	staffHandler := handler.NewStaffHandler(svc.Staff, deps.AuditLogger)
	productHandler := handler.NewProductHandler(svc.Catalog, deps.AuditLogger)
	auditHandler := handler.NewAuditHandler(deps.AuditLogger)

	e.GET("/health", healthCheck(deps.HealthChecks))

	e.POST("/buyers", authHandler.Signup, strictRateLimiter.Middleware())
	e.POST("/sessions/buyer", authHandler.BuyerLogin, strictRateLimiter.Middleware())
	e.POST("/sessions/staff", authHandler.StaffLogin, strictRateLimiter.Middleware())

	e.GET("/products", productHandler.ListProducts)
	e.GET("/products/:id", productHandler.GetProduct)

	buyer := authn.RequireBuyer()
	employee := authn.RequireStaffRole(presets.RoleEmployee)
	manager := authn.RequireStaffRole(presets.RoleManager)
	owner := authn.RequireStaffRole(presets.RoleOwner)

	e.POST("/orders", orderHandler.CreateOrder, buyer)
	e.GET("/orders/mine", orderHandler.ListMyOrders, buyer)
	e.GET("/orders/mine/:id", orderHandler.GetMyOrder, buyer)

	e.GET("/orders", orderHandler.ListOrders, employee)
	e.GET("/orders/:id", orderHandler.GetOrder, employee)
	e.PUT("/orders/:id/status", orderHandler.UpdateStatus, employee)
	e.DELETE("/orders/:id", orderHandler.DeleteOrder, manager)

	e.GET("/staff", staffHandler.ListStaff, manager)
	e.POST("/staff", staffHandler.CreateStaff, manager)
	e.DELETE("/staff/:id", staffHandler.DeleteStaff, owner)

	e.POST("/products", productHandler.CreateProduct, manager)
	e.PATCH("/products/:id", productHandler.UpdateProduct, manager)
	e.DELETE("/products/:id", productHandler.DeleteProduct, manager)
	e.POST("/products/:id/images", productHandler.UploadImages, manager,
		echomiddleware.BodyLimit(imageBodyLimit(deps.Config.App)))

	e.GET("/audit", auditHandler.ListEvents, owner)

	e.GET("/metrics/requests", collector.Handler, owner)
	e.POST("/metrics/reset", collector.ResetHandler, owner)
	e.GET("/metrics/memory", metrics.MemoryHandler, owner)

	return &Server{
		echo: e,
		deps: deps,
	}
}

// imageBodyLimit allows a full batch of maximum-size images plus form overhead.
func imageBodyLimit(cfg config.AppConfig) string {
	total := cfg.MaxImageBytes*int64(cfg.MaxImagesPerUpload) + (1 << 20)
	return fmt.Sprintf("%dK", total/1024+1)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func healthCheck(checks map[string]Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
		defer cancel()

		body := map[string]string{jsonKeyStatus: statusOK}
		code := stdhttp.StatusOK
		for name, p := range checks {
			if err := p.Ping(ctx); err != nil {
				c.Logger().Errorf("health check %s failed: %v", name, err)
				body[name] = err.Error()
				body[jsonKeyStatus] = statusDegraded
				code = stdhttp.StatusServiceUnavailable
				continue
			}
			body[name] = statusOK
		}

		return c.JSON(code, body)
	}
}
