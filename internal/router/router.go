package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"bitgate/internal/handler"
	"bitgate/internal/middleware"
)

// Setup configures all routes for the Echo server.
func Setup(
	e *echo.Echo,
	ipnHandler *handler.IPNHandler,
	checkoutHandler *handler.CheckoutHandler,
	opsHandler *handler.OpsHandler,
	deduper middleware.NotificationDeduper,
	apiKey string,
) {
	// Global middleware
	e.Use(echomw.Recover())
	e.Use(middleware.CORS())

	// Gateway notification endpoint. Any registers every method so the
	// handler can ignore non-POST requests instead of rejecting them.
	ipnGroup := e.Group("/ipn")
	ipnGroup.Use(middleware.IPNDedup(deduper))
	ipnGroup.Any("/bitdrive", ipnHandler.Handle)

	// Hosted checkout flow
	checkoutGroup := e.Group("/checkout")
	checkoutGroup.GET("/redirect/:increment_id", checkoutHandler.Redirect)
	checkoutGroup.GET("/success", checkoutHandler.Success)
	checkoutGroup.GET("/cancel/:increment_id", checkoutHandler.Cancel)

	// Operational API
	apiGroup := e.Group("/api")
	apiGroup.Use(middleware.APIAuth(apiKey))
	apiGroup.GET("/ipn-logs", opsHandler.IPNLogs)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
