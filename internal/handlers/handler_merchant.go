package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pesabridge/pesabridge_backend/internal/apperrors"
	portssvc "github.com/pesabridge/pesabridge_backend/internal/core/ports/services"
	"github.com/pesabridge/pesabridge_backend/internal/dto"
	"github.com/pesabridge/pesabridge_backend/internal/middleware"
)

// merchantHandler handles HTTP requests related to merchant accounts.
type merchantHandler struct {
	merchantService portssvc.MerchantSvcFacade
}

func newMerchantHandler(ms portssvc.MerchantSvcFacade) *merchantHandler {
	return &merchantHandler{merchantService: ms}
}

// registerMerchantRoutes registers routes related to merchants.
func registerMerchantRoutes(rg *gin.RouterGroup, merchantService portssvc.MerchantSvcFacade) {
	h := newMerchantHandler(merchantService)

	merchants := rg.Group("/merchants")
	{
		merchants.POST("", h.registerMerchant)
		merchants.GET("/me", h.getOwnMerchant)
		merchants.POST("/me/api-keys", h.createAPIKey)
		merchants.DELETE("/me/api-keys/:key_id", h.revokeAPIKey)
	}
}

// registerMerchant godoc
// @Summary Register as a merchant
// @Description Creates a merchant profile owned by the authenticated user.
// @Tags merchants
// @Accept json
// @Produce json
// @Param merchant body dto.RegisterMerchantRequest true "Merchant details"
// @Success 201 {object} dto.MerchantResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "User already owns a merchant"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /merchants [post]
func (h *merchantHandler) registerMerchant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterMerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	merchant, err := h.merchantService.RegisterMerchant(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to register merchant", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to register merchant"})
		}
		return
	}

	logger.Info("Merchant registered", slog.String("merchant_id", merchant.MerchantID))
	c.JSON(http.StatusCreated, dto.ToMerchantResponse(merchant))
}

// getOwnMerchant godoc
// @Summary Get own merchant profile
// @Description Retrieves the merchant owned by the authenticated user.
// @Tags merchants
// @Produce json
// @Success 200 {object} dto.MerchantResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /merchants/me [get]
func (h *merchantHandler) getOwnMerchant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	merchant, err := h.merchantService.GetMerchantByOwner(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Merchant not found"})
			return
		}
		logger.Error("Failed to get merchant", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve merchant"})
		return
	}

	c.JSON(http.StatusOK, dto.ToMerchantResponse(merchant))
}

// createAPIKey godoc
// @Summary Create a merchant API key
// @Description Issues a new API key for the authenticated user's merchant. The raw key is returned exactly once.
// @Tags merchants
// @Accept json
// @Produce json
// @Param key body dto.CreateAPIKeyRequest true "Key details"
// @Success 201 {object} dto.CreateAPIKeyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "User has no merchant"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /merchants/me/api-keys [post]
func (h *merchantHandler) createAPIKey(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	key, err := h.merchantService.CreateAPIKey(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Merchant not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to create API key", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create API key"})
		}
		return
	}

	logger.Info("Merchant API key created", slog.String("key_id", key.ID))
	c.JSON(http.StatusCreated, key)
}

// revokeAPIKey godoc
// @Summary Revoke a merchant API key
// @Description Revokes one of the merchant's API keys. Already revoked keys return 404.
// @Tags merchants
// @Param key_id path string true "API Key ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /merchants/me/api-keys/{key_id} [delete]
func (h *merchantHandler) revokeAPIKey(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	keyID := c.Param("key_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.merchantService.RevokeAPIKey(c.Request.Context(), userID, keyID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "API key not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "API key belongs to another merchant"})
		default:
			logger.Error("Failed to revoke API key", slog.String("error", err.Error()), slog.String("key_id", keyID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to revoke API key"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
