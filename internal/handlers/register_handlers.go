package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/pesabridge/pesabridge_backend/cmd/docs"
	"github.com/pesabridge/pesabridge_backend/internal/core/domain"
	portssvc "github.com/pesabridge/pesabridge_backend/internal/core/ports/services"
	"github.com/pesabridge/pesabridge_backend/internal/middleware"
	"github.com/pesabridge/pesabridge_backend/pkg/config"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	RegisterCustomValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Register public authentication routes
	registerAuthRoutes(r, cfg, services)
	registerGoogleOAuthRoutes(r, cfg, services)

	// M-Pesa result callbacks arrive from Daraja, not from a logged-in user.
	registerMpesaCallbackRoute(r, services.Payment)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// API key auth runs first; when it authenticates a merchant, the JWT
	// middleware is skipped for that request.
	v1 := r.Group("/api/v1",
		middleware.APIKeyAuth(services.Merchant),
		middleware.AuthMiddleware(cfg.JWTSecret),
	)

	registerUserRoutes(v1, services.User)
	registerWalletRoutes(v1, services.Wallet)
	RegisterPaymentRoutes(v1, services.Payment)
	registerExchangeRateRoutes(v1, services.ExchangeRate)
	registerMerchantRoutes(v1, services.Merchant)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// RegisterCustomValidators wires the domain value objects into gin's binding
// validator so request DTOs can use the `currencycode` and `msisdn` tags.
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseCurrency(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("msisdn", func(fl validator.FieldLevel) bool {
		_, err := domain.NewPhoneNumber(fl.Field().String())
		return err == nil
	})
}
