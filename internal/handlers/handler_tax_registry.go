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

// taxRegistryHandler handles HTTP requests for VAT and withholding components.
type taxRegistryHandler struct {
	taxRegistryService portssvc.TaxRegistrySvcFacade
}

func newTaxRegistryHandler(taxRegistryService portssvc.TaxRegistrySvcFacade) *taxRegistryHandler {
	return &taxRegistryHandler{
		taxRegistryService: taxRegistryService,
	}
}

// createVatComponent godoc
// @Summary Create a VAT component
// @Description Defines a VAT-equivalent tax with its rate and posting accounts
// @Tags tax-components
// @Accept  json
// @Produce  json
// @Param   vat body dto.CreateVatComponentRequest true "VAT component details"
// @Success 201 {object} dto.VatComponentResponse
// @Failure 400 {object} ErrorResponse
// @Router /vat-components [post]
func (h *taxRegistryHandler) createVatComponent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateVatComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	vat, err := h.taxRegistryService.CreateVatComponent(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to create VAT component", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create VAT component"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToVatComponentResponse(vat))
}

// getVatComponent godoc
// @Summary Get a VAT component
// @Tags tax-components
// @Produce  json
// @Param   vatID path string true "VAT component ID"
// @Success 200 {object} dto.VatComponentResponse
// @Failure 404 {object} ErrorResponse
// @Router /vat-components/{vatID} [get]
func (h *taxRegistryHandler) getVatComponent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	vatID := c.Param("vatID")

	vat, err := h.taxRegistryService.GetVatComponentByID(c.Request.Context(), vatID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "VAT component not found"})
			return
		}
		logger.Error("Failed to get VAT component", slog.String("error", err.Error()), slog.String("vat_id", vatID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve VAT component"})
		return
	}

	c.JSON(http.StatusOK, dto.ToVatComponentResponse(vat))
}

// listVatComponents godoc
// @Summary List VAT components
// @Tags tax-components
// @Produce  json
// @Success 200 {array} dto.VatComponentResponse
// @Router /vat-components [get]
func (h *taxRegistryHandler) listVatComponents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	vats, err := h.taxRegistryService.ListVatComponents(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list VAT components", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list VAT components"})
		return
	}

	resp := make([]dto.VatComponentResponse, len(vats))
	for i := range vats {
		resp[i] = dto.ToVatComponentResponse(&vats[i])
	}
	c.JSON(http.StatusOK, resp)
}

// updateVatComponent godoc
// @Summary Update a VAT component
// @Description Changes affect future computations only; recorded transactions keep their stored amounts
// @Tags tax-components
// @Accept  json
// @Produce  json
// @Param   vatID path string true "VAT component ID"
// @Param   vat body dto.UpdateVatComponentRequest true "New VAT component details"
// @Success 200 {object} dto.VatComponentResponse
// @Failure 404 {object} ErrorResponse
// @Router /vat-components/{vatID} [put]
func (h *taxRegistryHandler) updateVatComponent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	vatID := c.Param("vatID")

	var req dto.UpdateVatComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	vat, err := h.taxRegistryService.UpdateVatComponent(c.Request.Context(), vatID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "VAT component not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to update VAT component", slog.String("error", err.Error()), slog.String("vat_id", vatID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update VAT component"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToVatComponentResponse(vat))
}

// deleteVatComponent godoc
// @Summary Delete a VAT component
// @Tags tax-components
// @Produce  json
// @Param   vatID path string true "VAT component ID"
// @Success 204 "Deleted"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Component is referenced by transactions"
// @Router /vat-components/{vatID} [delete]
func (h *taxRegistryHandler) deleteVatComponent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	vatID := c.Param("vatID")

	if err := h.taxRegistryService.DeleteVatComponent(c.Request.Context(), vatID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "VAT component not found"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to delete VAT component", slog.String("error", err.Error()), slog.String("vat_id", vatID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete VAT component"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// createWithholdingComponent godoc
// @Summary Create a withholding component
// @Tags tax-components
// @Accept  json
// @Produce  json
// @Param   withholding body dto.CreateWithholdingComponentRequest true "Withholding component details"
// @Success 201 {object} dto.WithholdingComponentResponse
// @Failure 400 {object} ErrorResponse
// @Router /withholding-components [post]
func (h *taxRegistryHandler) createWithholdingComponent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateWithholdingComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	wht, err := h.taxRegistryService.CreateWithholdingComponent(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to create withholding component", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create withholding component"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToWithholdingComponentResponse(wht))
}

// getWithholdingComponent godoc
// @Summary Get a withholding component
// @Tags tax-components
// @Produce  json
// @Param   withholdingID path string true "Withholding component ID"
// @Success 200 {object} dto.WithholdingComponentResponse
// @Failure 404 {object} ErrorResponse
// @Router /withholding-components/{withholdingID} [get]
func (h *taxRegistryHandler) getWithholdingComponent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	withholdingID := c.Param("withholdingID")

	wht, err := h.taxRegistryService.GetWithholdingComponentByID(c.Request.Context(), withholdingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Withholding component not found"})
			return
		}
		logger.Error("Failed to get withholding component", slog.String("error", err.Error()), slog.String("withholding_id", withholdingID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve withholding component"})
		return
	}

	c.JSON(http.StatusOK, dto.ToWithholdingComponentResponse(wht))
}

// listWithholdingComponents godoc
// @Summary List withholding components
// @Tags tax-components
// @Produce  json
// @Success 200 {array} dto.WithholdingComponentResponse
// @Router /withholding-components [get]
func (h *taxRegistryHandler) listWithholdingComponents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	whts, err := h.taxRegistryService.ListWithholdingComponents(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list withholding components", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list withholding components"})
		return
	}

	resp := make([]dto.WithholdingComponentResponse, len(whts))
	for i := range whts {
		resp[i] = dto.ToWithholdingComponentResponse(&whts[i])
	}
	c.JSON(http.StatusOK, resp)
}

// updateWithholdingComponent godoc
// @Summary Update a withholding component
// @Tags tax-components
// @Accept  json
// @Produce  json
// @Param   withholdingID path string true "Withholding component ID"
// @Param   withholding body dto.UpdateWithholdingComponentRequest true "New withholding component details"
// @Success 200 {object} dto.WithholdingComponentResponse
// @Failure 404 {object} ErrorResponse
// @Router /withholding-components/{withholdingID} [put]
func (h *taxRegistryHandler) updateWithholdingComponent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	withholdingID := c.Param("withholdingID")

	var req dto.UpdateWithholdingComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	wht, err := h.taxRegistryService.UpdateWithholdingComponent(c.Request.Context(), withholdingID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Withholding component not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to update withholding component", slog.String("error", err.Error()), slog.String("withholding_id", withholdingID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update withholding component"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToWithholdingComponentResponse(wht))
}

// deleteWithholdingComponent godoc
// @Summary Delete a withholding component
// @Tags tax-components
// @Produce  json
// @Param   withholdingID path string true "Withholding component ID"
// @Success 204 "Deleted"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Component is referenced by transactions"
// @Router /withholding-components/{withholdingID} [delete]
func (h *taxRegistryHandler) deleteWithholdingComponent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	withholdingID := c.Param("withholdingID")

	if err := h.taxRegistryService.DeleteWithholdingComponent(c.Request.Context(), withholdingID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Withholding component not found"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to delete withholding component", slog.String("error", err.Error()), slog.String("withholding_id", withholdingID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete withholding component"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// registerTaxRegistryRoutes registers VAT and withholding component routes.
func registerTaxRegistryRoutes(group *gin.RouterGroup, taxRegistryService portssvc.TaxRegistrySvcFacade) {
	h := newTaxRegistryHandler(taxRegistryService)

	vats := group.Group("/vat-components")
	{
		vats.POST("", h.createVatComponent)
		vats.GET("", h.listVatComponents)
		vats.GET("/:vatID", h.getVatComponent)
		vats.PUT("/:vatID", h.updateVatComponent)
		vats.DELETE("/:vatID", h.deleteVatComponent)
	}

	whts := group.Group("/withholding-components")
	{
		whts.POST("", h.createWithholdingComponent)
		whts.GET("", h.listWithholdingComponents)
		whts.GET("/:withholdingID", h.getWithholdingComponent)
		whts.PUT("/:withholdingID", h.updateWithholdingComponent)
		whts.DELETE("/:withholdingID", h.deleteWithholdingComponent)
	}
}
