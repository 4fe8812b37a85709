package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"cafe-jampot/config"
	"cafe-jampot/services"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"
)

const fetchTimeout = 10 * time.Second

// Server is the HTTP front of the café: storefront API, checkout, staff
// admin panel and the SSE availability stream.
type Server struct {
	e     *echo.Echo
	cfg   *config.Config
	carts *services.CartStore
	gate  *services.Gate
	flow  *services.OrderFlow
}

func New(cfg *config.Config, carts *services.CartStore, gate *services.Gate, flow *services.OrderFlow) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(slogecho.New(slog.Default()))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{e: e, cfg: cfg, carts: carts, gate: gate, flow: flow}

	api := e.Group("/api")
	api.GET("/status", s.handleStatus)
	api.GET("/categories", s.handleCategories)
	api.GET("/menu", s.handleMenu)
	api.GET("/ads", s.handleAds)
	api.POST("/feedback", s.handleFeedback)
	api.GET("/events", s.handleEvents)

	// Cart and checkout are mutation paths: closed delivery puts the whole
	// storefront in read-only mode.
	cart := api.Group("/cart", s.requireDeliveryOpen)
	cart.GET("", s.handleCartGet)
	cart.POST("/items", s.handleCartAdd)
	cart.PUT("/items/:id", s.handleCartUpdate)
	cart.DELETE("/items/:id", s.handleCartRemove)
	cart.DELETE("", s.handleCartClear)
	api.POST("/orders", s.handleOrderSubmit, s.requireDeliveryOpen)

	auth := api.Group("/auth")
	auth.POST("/signup", s.handleSignUp)
	auth.POST("/signin", s.handleSignIn)
	auth.POST("/signout", s.handleSignOut)
	auth.GET("/session", s.handleSession)

	admin := api.Group("/admin", s.requireStaff)
	admin.GET("/menu", s.handleAdminMenu)
	admin.PUT("/delivery", s.handleDeliveryToggle)
	admin.PUT("/stock/:id", s.handleStockToggle)
	admin.GET("/orders", s.handleAdminOrders)
	admin.GET("/stats", s.handleAdminStats)
	admin.GET("/feedback", s.handleAdminFeedback)
	admin.GET("/ads", s.handleAdminAds)
	admin.PUT("/ads/:id", s.handleAdToggle)

	users := admin.Group("/users", s.requireAdmin)
	users.GET("", s.handleUsers)
	users.GET("/pending", s.handlePendingUsers)
	users.POST("/:id/role", s.handleGrantRole)
	users.DELETE("/:id/role", s.handleRevokeRole)

	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.e.Start(s.cfg.HTTP.Addr) }()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.e.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Handler exposes the echo handler for tests.
func (s *Server) Handler() http.Handler { return s.e }

func (s *Server) requireDeliveryOpen(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.gate.DeliveryOpen() {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{
				"error":        "delivery_closed",
				"message":      "Cafe Jampot is currently closed for orders.",
				"deliveryOpen": false,
			})
		}
		return next(c)
	}
}
