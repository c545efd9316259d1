package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mitrapajak/tax-ledger-backend/internal/apperrors"
	portssvc "github.com/mitrapajak/tax-ledger-backend/internal/core/ports/services"
	"github.com/mitrapajak/tax-ledger-backend/internal/dto"
	"github.com/mitrapajak/tax-ledger-backend/internal/middleware"
)

// partnerHandler handles HTTP requests for counterparty master data.
type partnerHandler struct {
	partnerService portssvc.PartnerSvcFacade
}

func newPartnerHandler(partnerService portssvc.PartnerSvcFacade) *partnerHandler {
	return &partnerHandler{
		partnerService: partnerService,
	}
}

// createPartner godoc
// @Summary Create a partner
// @Tags partners
// @Accept  json
// @Produce  json
// @Param   partner body dto.CreatePartnerRequest true "Partner details"
// @Success 201 {object} dto.PartnerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /partners [post]
func (h *partnerHandler) createPartner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	partner, err := h.partnerService.CreatePartner(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to create partner", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create partner"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToPartnerResponse(partner))
}

// getPartner godoc
// @Summary Get a partner
// @Tags partners
// @Produce  json
// @Param   partnerID path string true "Partner ID"
// @Success 200 {object} dto.PartnerResponse
// @Failure 404 {object} ErrorResponse
// @Router /partners/{partnerID} [get]
func (h *partnerHandler) getPartner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partnerID := c.Param("partnerID")

	partner, err := h.partnerService.GetPartnerByID(c.Request.Context(), partnerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Partner not found"})
			return
		}
		logger.Error("Failed to get partner", slog.String("error", err.Error()), slog.String("partner_id", partnerID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve partner"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPartnerResponse(partner))
}

// listPartners godoc
// @Summary List partners
// @Tags partners
// @Produce  json
// @Success 200 {array} dto.PartnerResponse
// @Router /partners [get]
func (h *partnerHandler) listPartners(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	partners, err := h.partnerService.ListPartners(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list partners", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list partners"})
		return
	}

	resp := make([]dto.PartnerResponse, len(partners))
	for i := range partners {
		resp[i] = dto.ToPartnerResponse(&partners[i])
	}
	c.JSON(http.StatusOK, resp)
}

// updatePartner godoc
// @Summary Update a partner
// @Tags partners
// @Accept  json
// @Produce  json
// @Param   partnerID path string true "Partner ID"
// @Param   partner body dto.UpdatePartnerRequest true "New partner details"
// @Success 200 {object} dto.PartnerResponse
// @Failure 404 {object} ErrorResponse
// @Router /partners/{partnerID} [put]
func (h *partnerHandler) updatePartner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partnerID := c.Param("partnerID")

	var req dto.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	partner, err := h.partnerService.UpdatePartner(c.Request.Context(), partnerID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Partner not found"})
			return
		}
		logger.Error("Failed to update partner", slog.String("error", err.Error()), slog.String("partner_id", partnerID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update partner"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPartnerResponse(partner))
}

// deletePartner godoc
// @Summary Delete a partner
// @Tags partners
// @Produce  json
// @Param   partnerID path string true "Partner ID"
// @Success 204 "Deleted"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Partner is referenced by transactions"
// @Router /partners/{partnerID} [delete]
func (h *partnerHandler) deletePartner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partnerID := c.Param("partnerID")

	if err := h.partnerService.DeletePartner(c.Request.Context(), partnerID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Partner not found"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to delete partner", slog.String("error", err.Error()), slog.String("partner_id", partnerID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete partner"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// registerPartnerRoutes registers partner master data routes.
func registerPartnerRoutes(group *gin.RouterGroup, partnerService portssvc.PartnerSvcFacade) {
	h := newPartnerHandler(partnerService)

	partners := group.Group("/partners")
	{
		partners.POST("", h.createPartner)
		partners.GET("", h.listPartners)
		partners.GET("/:partnerID", h.getPartner)
		partners.PUT("/:partnerID", h.updatePartner)
		partners.DELETE("/:partnerID", h.deletePartner)
	}
}
