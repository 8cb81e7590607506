package handler

import (
	"github.com/appzetogit/indiankart-sub000/internal/application/document"
	returnapp "github.com/appzetogit/indiankart-sub000/internal/application/postsale"
	"github.com/appzetogit/indiankart-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ReturnHandler handles return, replacement and cancellation requests
type ReturnHandler struct {
	BaseHandler
	returns   *returnapp.ReturnService
	documents *document.DocumentService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(returns *returnapp.ReturnService, documents *document.DocumentService) *ReturnHandler {
	return &ReturnHandler{
		returns:   returns,
		documents: documents,
	}
}

// List godoc
// @ID           listReturns
// @Summary      List post-sale requests
// @Tags         returns
// @Produce      json
// @Param        type      query string false "Return, Replacement or Cancellation"
// @Param        status    query string false "Request status"
// @Param        order_id  query string false "Order id"
// @Success      200 {object} ListResponse[postsale.ReturnResponse]
// @Router       /returns [get]
func (h *ReturnHandler) List(c *gin.Context) {
	var filter returnapp.ReturnListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = dto.DefaultPageSize
	}

	requests, total, err := h.returns.ListReturns(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, requests, total, filter.Page, filter.PageSize)
}

// Raise godoc
// @ID           raiseReturn
// @Summary      Raise a return or replacement for a delivered item
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        request body postsale.RaiseReturnRequest true "Request"
// @Success      201 {object} APIResponse[postsale.ReturnResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /returns [post]
func (h *ReturnHandler) Raise(c *gin.Context) {
	var req returnapp.RaiseReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	request, err := h.returns.RaiseReturn(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, request)
}

// RaiseCancellation godoc
// @ID           raiseCancellation
// @Summary      Request cancellation of a whole order
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        request body postsale.RaiseCancellationRequest true "Request"
// @Success      201 {object} APIResponse[postsale.ReturnResponse]
// @Router       /returns/cancellations [post]
func (h *ReturnHandler) RaiseCancellation(c *gin.Context) {
	var req returnapp.RaiseCancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	request, err := h.returns.RaiseCancellation(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, request)
}

// Get godoc
// @ID           getReturn
// @Summary      Get a request by id or request number
// @Tags         returns
// @Produce      json
// @Param        id path string true "Request id or number"
// @Success      200 {object} APIResponse[postsale.ReturnResponse]
// @Router       /returns/{id} [get]
func (h *ReturnHandler) Get(c *gin.Context) {
	request, err := h.returns.GetReturn(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// UpdateStatus godoc
// @ID           updateReturnStatus
// @Summary      Move a request along its lifecycle
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        id      path string                              true "Request id or number"
// @Param        request body postsale.UpdateReturnStatusRequest  true "Status change"
// @Success      200 {object} APIResponse[postsale.ReturnResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /returns/{id} [put]
func (h *ReturnHandler) UpdateStatus(c *gin.Context) {
	var req returnapp.UpdateReturnStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	request, err := h.returns.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// Export godoc
// @ID           exportReturns
// @Summary      Export post-sale requests to XLSX
// @Tags         returns
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /returns/export [get]
func (h *ReturnHandler) Export(c *gin.Context) {
	var filter returnapp.ReturnListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	file, err := h.documents.ExportReturns(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	writeExport(c, file)
}
