package middleware

import "github.com/gin-gonic/gin"

// contextKey is a private type for request context keys.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey  = contextKey("logger")
	userIDKey     = contextKey("userID")
	merchantIDKey = contextKey("merchantID")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		if v := c.Request.Context().Value(userIDKey); v != nil {
			userID, ok := v.(string)
			return userID, ok
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}
	return userID, true
}

// GetMerchantIDFromContext retrieves the authenticated merchant ID set by the
// API key middleware.
func GetMerchantIDFromContext(c *gin.Context) (string, bool) {
	merchantIDVal, exists := c.Get(string(merchantIDKey))
	if !exists {
		if v := c.Request.Context().Value(merchantIDKey); v != nil {
			merchantID, ok := v.(string)
			return merchantID, ok
		}
		return "", false
	}

	merchantID, ok := merchantIDVal.(string)
	if !ok {
		return "", false
	}
	return merchantID, true
}
