package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shoporders/backend/internal/application/catalog"
)

// PartnerHandler serves the shop owner's endpoints
type PartnerHandler struct {
	BaseHandler
	partnerService *catalog.PartnerService
}

// NewPartnerHandler creates a new partner handler
func NewPartnerHandler(partnerService *catalog.PartnerService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

// UpdatePriceList godoc
// @ID           updatePartnerPriceList
// @Summary      Import the shop's price list
// @Description  Downloads the YAML feed at url and replaces the shop's assortment.
// @Description  When background jobs are enabled the import is queued and 202 is returned with the task id.
// @Tags         partner
// @Accept       json
// @Produce      json
// @Param        request body catalog.PriceListRequest true "Feed location"
// @Success      200 {object} APIResponse[catalog.ImportSummary]
// @Success      202 {object} APIResponse[catalog.ImportQueued]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/update [post]
func (h *PartnerHandler) UpdatePriceList(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req catalog.PriceListRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if h.partnerService.AsyncImportEnabled() {
		queued, err := h.partnerService.EnqueuePriceListImport(c.Request.Context(), userID, req)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Accepted(c, queued)
		return
	}

	summary, err := h.partnerService.UpdatePriceList(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// GetState godoc
// @ID           getPartnerState
// @Summary      Get the shop's order acceptance state
// @Tags         partner
// @Produce      json
// @Success      200 {object} APIResponse[catalog.ShopResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/state [get]
func (h *PartnerHandler) GetState(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	shop, err := h.partnerService.GetState(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shop)
}

// SetState godoc
// @ID           setPartnerState
// @Summary      Open or close the shop for orders
// @Description  state accepts the usual boolean spellings (on/off, yes/no, true/false, 1/0)
// @Tags         partner
// @Accept       json
// @Produce      json
// @Param        request body catalog.StateRequest true "New state"
// @Success      200 {object} APIResponse[catalog.ShopResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/state [post]
func (h *PartnerHandler) SetState(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req catalog.StateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	shop, err := h.partnerService.SetState(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shop)
}

// ListOrders godoc
// @ID           listPartnerOrders
// @Summary      List placed orders containing the shop's products
// @Description  Each order lists only the shop's own lines and their sum
// @Tags         partner
// @Produce      json
// @Param        page      query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]catalog.ShopOrderResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/orders [get]
func (h *PartnerHandler) ListOrders(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.partnerService.ListOrders(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// ChangeOrderStatus godoc
// @ID           changePartnerOrderStatus
// @Summary      Move an order along the delivery workflow
// @Tags         partner
// @Accept       json
// @Produce      json
// @Param        id      path string                      true "Order id"
// @Param        request body catalog.ChangeStatusRequest true "Target status"
// @Success      200 {object} APIResponse[catalog.ShopOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/orders/{id}/status [patch]
func (h *PartnerHandler) ChangeOrderStatus(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req catalog.ChangeStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.partnerService.ChangeOrderStatus(c.Request.Context(), userID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
