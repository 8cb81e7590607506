package handler

import (
	"github.com/appzetogit/indiankart-sub000/internal/application/document"
	"github.com/gin-gonic/gin"
)

// SettingsHandler exposes the seller identity printed on invoices
type SettingsHandler struct {
	BaseHandler
	settings *document.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settings *document.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get godoc
// @ID           getSettings
// @Summary      Get seller settings
// @Tags         settings
// @Produce      json
// @Success      200 {object} APIResponse[document.SettingsResponse]
// @Router       /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settings.GetSettings(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, settings)
}

// Update godoc
// @ID           updateSettings
// @Summary      Update seller settings. Blank fields keep their stored value.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body document.UpdateSettingsRequest true "Settings"
// @Success      200 {object} APIResponse[document.SettingsResponse]
// @Router       /settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req document.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	settings, err := h.settings.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, settings)
}
