package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shoporders/backend/internal/application/catalog"
	"github.com/shoporders/backend/internal/interfaces/http/middleware"
)

// CatalogHandler serves shops, categories and products
type CatalogHandler struct {
	BaseHandler
	catalogService *catalog.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListShops godoc
// @ID           listShops
// @Summary      List shops accepting orders
// @Tags         catalog
// @Produce      json
// @Param        page      query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]catalog.ShopResponse]
// @Router       /shops [get]
func (h *CatalogHandler) ListShops(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.catalogService.ListShops(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// ListCategories godoc
// @ID           listCategories
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Param        page      query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]catalog.CategoryResponse]
// @Router       /categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.catalogService.ListCategories(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// CreateCategory godoc
// @ID           createCategory
// @Summary      Create a category
// @Description  Shop users only. The caller's shop is linked to the category.
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body catalog.CreateCategoryRequest true "Category"
// @Success      201 {object} APIResponse[catalog.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req catalog.CreateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := h.catalogService.CreateCategory(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// ListProducts godoc
// @ID           listProducts
// @Summary      Search the catalog
// @Description  Products of shops accepting orders, with their parameters
// @Tags         catalog
// @Produce      json
// @Param        shop_id     query string false "Shop id"
// @Param        category_id query string false "Category id"
// @Param        search      query string false "Name or model contains"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size (max 100)" default(20)
// @Success      200 {object} APIResponse[[]catalog.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var query catalog.ProductListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	page, err := h.catalogService.ListProducts(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// GetProduct godoc
// @ID           getProduct
// @Summary      Get a product
// @Tags         catalog
// @Produce      json
// @Param        id path string true "Product id"
// @Success      200 {object} APIResponse[catalog.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}
