package main

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Victor-armando18/service-checkout/internal/infrastructure"
	"github.com/Victor-armando18/service-checkout/internal/infrastructure/bus"
	yamlcfg "github.com/Victor-armando18/service-checkout/internal/infrastructure/yaml"
	"github.com/Victor-armando18/service-checkout/internal/usecase/validate"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := yamlcfg.LoadConfig(cfgPath)
	if err != nil {
		// Arranca com defaults; os segredos vêm do ambiente.
		logger.Warn("config file not loaded, using defaults", zap.Error(err))
	}

	commerce := infrastructure.NewCommerceClient(cfg.Commerce.BaseURL, cfg.Commerce.PublishableKey, logger)
	payments := infrastructure.NewStripeGateway(cfg.Stripe.SecretKey, logger)

	executor := infrastructure.NewJsonLogicExecutor()
	executor.RegisterCustomOperator("determinate", infrastructure.CustomDeterminate)
	loader := infrastructure.NewFileRuleLoader(cfg.Shipping.RulesPath)
	filter := infrastructure.NewShippingFilter(loader, executor, cfg.Shipping.RulesVersion, cfg.Shipping.AllowedCarriers, logger)
	validator := validate.New(commerce, loader, executor, cfg.Shipping.RulesVersion, logger)

	srv := newServer(commerce, payments, filter, validator, bus.New(), logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodPost, http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept},
	}))

	e.POST("/checkout/sessions", srv.handleCreateSession)
	e.GET("/checkout/sessions/:id", srv.handleGetSession)
	e.POST("/checkout/sessions/:id/address", srv.handleSubmitAddress)
	e.POST("/checkout/sessions/:id/shipping", srv.handleSelectShipping)
	e.POST("/checkout/sessions/:id/payment", srv.handleProceedToPayment)
	e.POST("/checkout/sessions/:id/payment/result", srv.handlePaymentResult)
	e.POST("/checkout/sessions/:id/retry", srv.handleRetry)
	e.POST("/checkout/sessions/:id/edit-address", srv.handleEditAddress)
	e.POST("/checkout/sessions/:id/edit-shipping", srv.handleEditShipping)
	e.POST("/checkout/sessions/:id/start-over", srv.handleStartOver)

	// Proxy de criação de intent usado pelo storefront (nunca expõe a
	// chave secreta ao browser).
	e.POST("/api/payments/create-intent", srv.handleCreateIntent)

	// Notificação interna de mutação do carrinho (outras superfícies da
	// aplicação publicam aqui).
	e.POST("/internal/cart-events", srv.handleCartEvent)

	e.Logger.Fatal(e.Start(cfg.Server.Addr))
}
