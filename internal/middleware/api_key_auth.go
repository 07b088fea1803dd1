package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/pesabridge/pesabridge_backend/internal/core/ports/services"
)

// APIKeyAuth authenticates requests carrying a merchant API key in the
// X-API-Key header. A valid key authenticates the request as the merchant's
// owner and skips JWT auth; requests without the header fall through to it.
func APIKeyAuth(merchantSvc portssvc.MerchantSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawKey := c.GetHeader("X-API-Key")
		if rawKey == "" {
			c.Next()
			return
		}

		logger := GetLoggerFromCtx(c.Request.Context())
		merchant, err := merchantSvc.ValidateAPIKey(c.Request.Context(), rawKey)
		if err != nil {
			logger.Warn("API key rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), userIDKey, merchant.OwnerUserID)
		ctx = context.WithValue(ctx, merchantIDKey, merchant.MerchantID)
		ctx = context.WithValue(ctx, loggerCtxKey, logger.With(slog.String("merchant_id", merchant.MerchantID)))
		c.Request = c.Request.WithContext(ctx)

		c.Set(string(userIDKey), merchant.OwnerUserID)
		c.Set(string(merchantIDKey), merchant.MerchantID)
		c.Set("authMethod", "api_key")
		c.Next()
	}
}
