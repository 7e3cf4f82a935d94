package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"paybridge/internal/config"
	"paybridge/internal/handler"
	"paybridge/internal/middleware"
	"paybridge/internal/payphone"
	"paybridge/internal/repository"
	"paybridge/internal/shopify"
)

// Setup configures all routes for the Echo server.
func Setup(
	e *echo.Echo,
	cfg *config.Config,
	db *gorm.DB,
	deduper middleware.Deduper,
	logger *zap.Logger,
) {
	// Global middleware
	e.Use(echomw.Recover())
	e.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Repositories
	txRepo := repository.NewTransactionRepository(db)
	webhookRepo := repository.NewWebhookEventRepository(db)

	// Remote clients
	shopifyClient := shopify.New(cfg.Shopify.Shop, cfg.Shopify.AdminToken, cfg.Shopify.APIVersion)
	payphoneClient := payphone.New(cfg.Payphone.Token)

	// Handlers
	checkoutHandler := handler.NewCheckoutHandler(shopifyClient, txRepo, cfg.Pages.PayPageURL, logger)
	confirmHandler := handler.NewConfirmHandler(shopifyClient, payphoneClient, txRepo, deduper, cfg.Pages.ResultURL, logger)
	notifyHandler := handler.NewNotifyHandler(webhookRepo, logger)

	// Payment routes
	payphoneGroup := e.Group("/payphone")
	payphoneGroup.POST("/create", checkoutHandler.Create)
	payphoneGroup.GET("/confirm", confirmHandler.Confirm)
	payphoneGroup.POST("/notify", notifyHandler.Notify)

	// Liveness probes
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
