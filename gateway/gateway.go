package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/example/posbridge/pkg/backend"
	"github.com/example/posbridge/pkg/cart"
	"github.com/example/posbridge/pkg/catalog"
	"github.com/example/posbridge/pkg/config"
	"github.com/example/posbridge/pkg/plan"
	"github.com/example/posbridge/pkg/realtime"
	"github.com/example/posbridge/pkg/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultSession = "pos"

// Gateway is the HTTP and WebSocket surface the POS and dashboard screens
// talk to.
type Gateway struct {
	config  *config.Config
	logger  *zap.Logger
	router  *gin.Engine
	carts   *cart.Service
	center  *realtime.Center
	manager *realtime.Manager
	gate    *plan.Gate
	catalog *catalog.Service
	journal *repository.OrderJournal
	hub     *realtime.Hub
}

func NewGateway(
	cfg *config.Config,
	logger *zap.Logger,
	carts *cart.Service,
	center *realtime.Center,
	manager *realtime.Manager,
	gate *plan.Gate,
	cat *catalog.Service,
	journal *repository.OrderJournal,
	hub *realtime.Hub,
) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	return &Gateway{
		config:  cfg,
		logger:  logger,
		router:  router,
		carts:   carts,
		center:  center,
		manager: manager,
		gate:    gate,
		catalog: cat,
		journal: journal,
		hub:     hub,
	}
}

func (g *Gateway) SetupRoutes() {
	// Health check
	g.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "realtime": g.manager.State().String()})
	})

	// Dashboard notification stream
	g.router.GET("/ws/notifications", func(c *gin.Context) {
		g.hub.Serve(c.Writer, c.Request)
	})

	// API v1 routes
	v1 := g.router.Group("/api/v1")
	v1.Use(g.authMiddleware())
	{
		cartGroup := v1.Group("/cart")
		{
			cartGroup.GET("", g.getCart)
			cartGroup.POST("/items", g.addCartItem)
			cartGroup.POST("/items/increment", g.incrementCartItem)
			cartGroup.POST("/items/decrement", g.decrementCartItem)
			cartGroup.POST("/items/remove", g.removeCartItem)
			cartGroup.DELETE("", g.clearCart)
			cartGroup.POST("/finalize", g.finalizeOrder)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", g.listNotifications)
			notifications.POST("/ack/:id", g.ackNotification)
			notifications.DELETE("", g.clearNotifications)
			notifications.GET("/sound", g.getSoundPreference)
			notifications.PUT("/sound", g.setSoundPreference)
			notifications.POST("/sound/test", g.testSound)
		}

		planGroup := v1.Group("/plan")
		{
			planGroup.GET("/banner", g.planBanner)
			planGroup.POST("/banner/dismiss", g.dismissPlanBanner)
			planGroup.GET("/usage", g.planUsage)
			planGroup.POST("/migrations", g.requestPlanMigration)
			planGroup.GET("/migrations", g.planMigrationHistory)
		}

		catalogGroup := v1.Group("/catalog")
		{
			catalogGroup.GET("/products", g.listProducts)
			catalogGroup.GET("/categories", g.listCategories)
			catalogGroup.GET("/tables", g.listTables)
			catalogGroup.GET("/payment-methods", g.listPaymentMethods)
			catalogGroup.DELETE("/products/:id", g.deleteProduct)
		}

		v1.GET("/orders/journal", g.orderJournal)
	}
}

func (g *Gateway) Start() error {
	addr := fmt.Sprintf("%s:%d", g.config.Server.Host, g.config.Server.Port)
	g.logger.Info("Gateway starting", zap.String("address", addr))
	return g.router.Run(addr)
}

// Router exposes the handler for tests and embedding.
func (g *Gateway) Router() http.Handler {
	return g.router
}

func (g *Gateway) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == "" || token != g.config.Backend.Token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "authentication required",
			})
			return
		}
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	if id := c.GetHeader("X-Session-ID"); id != "" {
		return id
	}
	return defaultSession
}

// fail maps the backend error taxonomy onto the gateway response. Unknown
// errors become a generic message; nothing past this boundary sees them.
func (g *Gateway) fail(c *gin.Context, err error) {
	var validation *backend.ValidationError
	var conflict *backend.ConflictError
	var apiErr *backend.APIError

	switch {
	case errors.Is(err, backend.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "session expired, log in again"})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": conflict.Message})
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": validation.Message,
			"errors":  validation.Fields,
		})
	case errors.As(err, &apiErr):
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": apiErr.Message})
	case errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, cart.ErrNoPaymentMethod),
		errors.Is(err, cart.ErrNoServiceType),
		errors.Is(err, cart.ErrNoTable),
		errors.Is(err, cart.ErrNoAddress),
		errors.Is(err, cart.ErrUnknownService):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": err.Error()})
	default:
		g.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "something went wrong"})
	}
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
