package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shoporders/backend/internal/application/trade"
)

// CartHandler serves the caller's basket
type CartHandler struct {
	BaseHandler
	cartService *trade.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *trade.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get godoc
// @ID           getBasket
// @Summary      Get the basket
// @Description  Returns the caller's cart with line totals, creating an empty one when needed
// @Tags         basket
// @Produce      json
// @Success      200 {object} APIResponse[trade.OrderResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /basket [get]
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	cart, err := h.cartService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// AddItems godoc
// @ID           addBasketItems
// @Summary      Add products to the basket
// @Description  Products are named by their feed id. Adding an existing product increases its quantity.
// @Tags         basket
// @Accept       json
// @Produce      json
// @Param        request body trade.AddItemsRequest true "Products to add"
// @Success      201 {object} APIResponse[trade.AddItemsResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /basket [post]
func (h *CartHandler) AddItems(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req trade.AddItemsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	res, err := h.cartService.AddItems(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, res)
}

// UpdateItems godoc
// @ID           updateBasketItems
// @Summary      Change basket quantities
// @Description  Lines with an unknown id or a quantity below one are skipped
// @Tags         basket
// @Accept       json
// @Produce      json
// @Param        request body trade.UpdateItemsRequest true "New quantities"
// @Success      200 {object} APIResponse[trade.UpdateItemsResult]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /basket [put]
func (h *CartHandler) UpdateItems(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req trade.UpdateItemsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	res, err := h.cartService.UpdateItems(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// DeleteItems godoc
// @ID           deleteBasketItems
// @Summary      Remove basket lines
// @Description  items is a comma separated list of line ids
// @Tags         basket
// @Accept       json
// @Produce      json
// @Param        request body ItemsRequest true "Line ids"
// @Success      200 {object} APIResponse[trade.DeleteItemsResult]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /basket [delete]
func (h *CartHandler) DeleteItems(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	res, err := h.cartService.DeleteItems(c.Request.Context(), userID, h.bindItems(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}
