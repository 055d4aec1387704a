package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shoporders/backend/internal/domain/catalog"
	"github.com/shoporders/backend/internal/domain/identity"
	"github.com/shoporders/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrShopOnly is returned when a buyer calls a partner operation
var ErrShopOnly = shared.NewDomainError("SHOP_ONLY", "Only for shops")

// CatalogService serves the public catalog: shops, categories and products
type CatalogService struct {
	shopRepo     catalog.ShopRepository
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	userRepo     identity.UserRepository
	logger       *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	shopRepo catalog.ShopRepository,
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		shopRepo:     shopRepo,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// ListShops returns the shops that accept orders
func (s *CatalogService) ListShops(ctx context.Context, filter shared.Filter) (shared.Paginated[ShopResponse], error) {
	filter = normalizePage(filter)
	shops, total, err := s.shopRepo.FindActive(ctx, filter)
	if err != nil {
		return shared.Paginated[ShopResponse]{}, err
	}
	items := make([]ShopResponse, len(shops))
	for i, shop := range shops {
		items[i] = ToShopResponse(shop)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// ListCategories returns all categories with the shops that use them
func (s *CatalogService) ListCategories(ctx context.Context, filter shared.Filter) (shared.Paginated[CategoryResponse], error) {
	filter = normalizePage(filter)
	categories, total, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[CategoryResponse]{}, err
	}
	items := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		items[i] = ToCategoryResponse(c)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// CreateCategory adds a category; the caller's shop is linked to it when it exists
func (s *CatalogService) CreateCategory(ctx context.Context, userID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	if err := requireShopUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}

	category, err := catalog.NewCategory(req.Name)
	if err != nil {
		return nil, err
	}
	shop, err := s.shopRepo.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		category.AddShop(shop.ID)
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	s.logger.Info("Category created",
		zap.String("category_id", category.ID.String()),
		zap.String("name", category.Name))

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// ListProducts returns products of active shops
func (s *CatalogService) ListProducts(ctx context.Context, query ProductListQuery) (shared.Paginated[ProductResponse], error) {
	filter := catalog.ProductFilter{
		Filter: normalizePage(shared.Filter{
			Page:     query.Page,
			PageSize: query.PageSize,
			OrderBy:  query.OrderBy,
			OrderDir: query.OrderDir,
			Search:   strings.TrimSpace(query.Search),
		}),
		ActiveShopsOnly: true,
	}

	var err error
	if filter.ShopID, err = optionalID(query.ShopID, "shop_id"); err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	if filter.CategoryID, err = optionalID(query.CategoryID, "category_id"); err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}

	products, total, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	items := make([]ProductResponse, len(products))
	for i, p := range products {
		items[i] = ToProductResponse(p)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// GetProduct returns one product; products of inactive shops are not visible
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	notFound := shared.NewDomainError(shared.ErrNotFound.Code, "Product not found")

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, notFound
		}
		return nil, err
	}
	shop, err := s.shopRepo.FindByID(ctx, product.ShopID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, notFound
		}
		return nil, err
	}
	if !shop.State {
		return nil, notFound
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// requireShopUser loads the user and fails with SHOP_ONLY for buyers
func requireShopUser(ctx context.Context, users identity.UserRepository, userID uuid.UUID) error {
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrShopOnly
		}
		return err
	}
	if !user.IsShop() {
		return ErrShopOnly
	}
	return nil
}

func normalizePage(f shared.Filter) shared.Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

func optionalID(raw, field string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, field+" must be a valid id")
	}
	return &id, nil
}
