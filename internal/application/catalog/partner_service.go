package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shoporders/backend/internal/domain/catalog"
	"github.com/shoporders/backend/internal/domain/identity"
	"github.com/shoporders/backend/internal/domain/shared"
	"github.com/shoporders/backend/internal/domain/trade"
	"github.com/shoporders/backend/internal/infrastructure/pricelist"
	"github.com/shoporders/backend/internal/infrastructure/storage"
	"github.com/shoporders/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PriceListFetcher downloads a shop's feed
type PriceListFetcher interface {
	Fetch(ctx context.Context, url string) (*pricelist.Document, error)
	AllowedSchemes() []string
}

// ImportQueue schedules background price list imports
type ImportQueue interface {
	EnqueuePriceListImport(ctx context.Context, userID uuid.UUID, url string) (string, error)
}

// PartnerService implements the shop-facing operations. Every method requires a shop user.
type PartnerService struct {
	userRepo       identity.UserRepository
	shopRepo       catalog.ShopRepository
	productRepo    catalog.ProductRepository
	orderRepo      trade.OrderRepository
	fetcher        PriceListFetcher
	archive        storage.ObjectStorage
	queue          ImportQueue
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPartnerService creates a new PartnerService. archive and queue may be nil.
func NewPartnerService(
	userRepo identity.UserRepository,
	shopRepo catalog.ShopRepository,
	productRepo catalog.ProductRepository,
	orderRepo trade.OrderRepository,
	fetcher PriceListFetcher,
	archive storage.ObjectStorage,
	queue ImportQueue,
	logger *zap.Logger,
) *PartnerService {
	return &PartnerService{
		userRepo:    userRepo,
		shopRepo:    shopRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		fetcher:     fetcher,
		archive:     archive,
		queue:       queue,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher for shop and order events
func (s *PartnerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// AsyncImportEnabled reports whether imports can run in the background
func (s *PartnerService) AsyncImportEnabled() bool {
	return s.queue != nil
}

// UpdatePriceList downloads the feed at req.URL and replaces the caller's assortment
func (s *PartnerService) UpdatePriceList(ctx context.Context, userID uuid.UUID, req PriceListRequest) (*ImportSummary, error) {
	if err := requireShopUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}
	u, err := pricelist.ValidateURL(req.URL, s.fetcher.AllowedSchemes())
	if err != nil {
		return nil, err
	}
	return s.importFeed(ctx, userID, u.String())
}

// ImportPriceList runs an import scheduled by EnqueuePriceListImport
func (s *PartnerService) ImportPriceList(ctx context.Context, userID uuid.UUID, url string) (*catalog.ImportResult, error) {
	summary, err := s.UpdatePriceList(ctx, userID, PriceListRequest{URL: url})
	if err != nil {
		return nil, err
	}
	return &summary.ImportResult, nil
}

// EnqueuePriceListImport validates the URL and schedules the import
func (s *PartnerService) EnqueuePriceListImport(ctx context.Context, userID uuid.UUID, req PriceListRequest) (*ImportQueued, error) {
	if s.queue == nil {
		return nil, shared.NewDomainError(shared.ErrInvalidState.Code, "Background imports are disabled")
	}
	if err := requireShopUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}
	u, err := pricelist.ValidateURL(req.URL, s.fetcher.AllowedSchemes())
	if err != nil {
		return nil, err
	}

	taskID, err := s.queue.EnqueuePriceListImport(ctx, userID, u.String())
	if err != nil {
		s.logger.Error("Failed to enqueue price list import", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}
	return &ImportQueued{TaskID: taskID}, nil
}

func (s *PartnerService) importFeed(ctx context.Context, userID uuid.UUID, url string) (summary *ImportSummary, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "PartnerService", "ImportPriceList",
		telemetry.SpanAttrUserID, userID.String(),
		telemetry.SpanAttrURL, url,
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	doc, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	feed, err := pricelist.Parse(doc.Body)
	if err != nil {
		return nil, err
	}

	shop, err := s.shopForFeed(ctx, userID, feed.Shop, url)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrShopID, shop.ID.String())

	assortment, err := buildAssortment(shop.ID, feed)
	if err != nil {
		return nil, err
	}
	result, err := s.productRepo.ReplaceShopAssortment(ctx, shop.ID, assortment)
	if err != nil {
		s.logger.Error("Failed to replace assortment", zap.String("shop_id", shop.ID.String()), zap.Error(err))
		return nil, err
	}

	summary = &ImportSummary{Shop: ToShopResponse(shop), ImportResult: result}
	summary.ArchiveKey = s.archiveFeed(ctx, shop.ID, doc)

	shop.AddDomainEvent(catalog.NewPriceListImportedEvent(shop, result))
	s.publish(ctx, shop.GetDomainEvents()...)
	shop.ClearDomainEvents()

	s.logger.Info("Price list imported",
		zap.String("shop_id", shop.ID.String()),
		zap.Int("categories", result.Categories),
		zap.Int("products", result.Products),
		zap.Int("parameters", result.Parameters),
		zap.Int("deleted", result.Deleted))
	return summary, nil
}

// shopForFeed returns the caller's shop, creating it from the feed on first import
func (s *PartnerService) shopForFeed(ctx context.Context, userID uuid.UUID, name, url string) (*catalog.Shop, error) {
	shop, err := s.shopRepo.FindByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		shop, err = catalog.NewShop(name, url, userID)
		if err != nil {
			return nil, err
		}
		if err := s.shopRepo.Save(ctx, shop); err != nil {
			return nil, err
		}
		return shop, nil
	}

	if shop.Name != strings.TrimSpace(name) {
		return nil, shared.NewDomainError("SHOP_NAME_MISMATCH",
			fmt.Sprintf("Price list is for shop %q, but your shop is %q", name, shop.Name))
	}
	shop.UpdateURL(url)
	if err := s.shopRepo.Save(ctx, shop); err != nil {
		return nil, err
	}
	return shop, nil
}

// archiveFeed stores the raw feed; failures are logged and do not fail the import
func (s *PartnerService) archiveFeed(ctx context.Context, shopID uuid.UUID, doc *pricelist.Document) string {
	if s.archive == nil {
		return ""
	}
	key := storage.PriceListKey(shopID, time.Now())
	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/yaml"
	}
	if err := s.archive.Upload(ctx, key, doc.Body, contentType); err != nil {
		s.logger.Warn("Failed to archive price list", zap.String("shop_id", shopID.String()), zap.Error(err))
		return ""
	}
	return key
}

// buildAssortment converts the feed into domain categories and products.
// Products reference the categories built here; the repository maps them to stored rows.
func buildAssortment(shopID uuid.UUID, feed *catalog.PriceList) (catalog.Assortment, error) {
	byFeedID := make(map[int64]*catalog.Category, len(feed.Categories))
	assortment := catalog.Assortment{
		Categories: make([]*catalog.Category, 0, len(feed.Categories)),
		Products:   make([]*catalog.Product, 0, len(feed.Goods)),
	}
	for _, fc := range feed.Categories {
		category, err := catalog.NewCategory(fc.Name)
		if err != nil {
			return catalog.Assortment{}, err
		}
		category.AddShop(shopID)
		byFeedID[fc.ID] = category
		assortment.Categories = append(assortment.Categories, category)
	}

	for _, good := range feed.Goods {
		category := byFeedID[good.CategoryID]
		product, err := catalog.NewProduct(shopID, category.ID, good.ID, good.Name, good.Model,
			good.Quantity, good.Price, good.PriceRRC)
		if err != nil {
			return catalog.Assortment{}, fmt.Errorf("good %d: %w", good.ID, err)
		}
		names := make([]string, 0, len(good.Parameters))
		for name := range good.Parameters {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			if err := product.SetParameter(name, good.Parameters[name]); err != nil {
				return catalog.Assortment{}, fmt.Errorf("good %d: %w", good.ID, err)
			}
		}
		assortment.Products = append(assortment.Products, product)
	}
	return assortment, nil
}

// GetState returns the caller's shop
func (s *PartnerService) GetState(ctx context.Context, userID uuid.UUID) (*ShopResponse, error) {
	shop, err := s.ownShop(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToShopResponse(shop)
	return &resp, nil
}

// SetState switches order acceptance on or off
func (s *PartnerService) SetState(ctx context.Context, userID uuid.UUID, req StateRequest) (*ShopResponse, error) {
	if err := requireShopUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}
	raw := strings.TrimSpace(req.State)
	if raw == "" {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "state is required")
	}
	state, err := shared.ParseBool(raw)
	if err != nil {
		return nil, err
	}

	shop, err := s.ownShop(ctx, userID)
	if err != nil {
		return nil, err
	}
	shop.SetState(state)
	if err := s.shopRepo.Save(ctx, shop); err != nil {
		return nil, err
	}
	s.publish(ctx, shop.GetDomainEvents()...)
	shop.ClearDomainEvents()

	s.logger.Info("Shop state changed", zap.String("shop_id", shop.ID.String()), zap.Bool("state", state))
	resp := ToShopResponse(shop)
	return &resp, nil
}

// ListOrders returns placed orders that contain the caller's goods, showing only those lines
func (s *PartnerService) ListOrders(ctx context.Context, userID uuid.UUID, filter shared.Filter) (shared.Paginated[ShopOrderResponse], error) {
	shop, err := s.ownShop(ctx, userID)
	if err != nil {
		return shared.Paginated[ShopOrderResponse]{}, err
	}
	filter = normalizePage(filter)
	orders, total, err := s.orderRepo.ListForShop(ctx, shop.ID, filter)
	if err != nil {
		return shared.Paginated[ShopOrderResponse]{}, err
	}
	items := make([]ShopOrderResponse, len(orders))
	for i, o := range orders {
		items[i] = ToShopOrderResponse(o, shop.ID)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// ChangeOrderStatus advances an order containing the caller's goods.
// Canceling returns the order's stock.
func (s *PartnerService) ChangeOrderStatus(ctx context.Context, userID, orderID uuid.UUID, req ChangeStatusRequest) (resp *ShopOrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "PartnerService", "ChangeOrderStatus",
		telemetry.SpanAttrUserID, userID.String(),
		telemetry.SpanAttrOrderID, orderID.String(),
		telemetry.SpanAttrOrderStatus, req.Status,
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	shop, err := s.ownShop(ctx, userID)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Order not found")
		}
		return nil, err
	}
	if order.IsCart() || !order.HasItemsFromShop(shop.ID) {
		return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Order not found")
	}

	target := trade.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if err := order.ChangeStatus(target); err != nil {
		return nil, err
	}

	if target == trade.OrderStatusCanceled {
		err = s.orderRepo.SaveWithStock(ctx, order, order.StockToRelease())
	} else {
		err = s.orderRepo.Save(ctx, order)
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, order.GetDomainEvents()...)
	order.ClearDomainEvents()

	s.logger.Info("Order status changed by shop",
		zap.String("shop_id", shop.ID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("status", target.String()))

	view := ToShopOrderResponse(order, shop.ID)
	return &view, nil
}

func (s *PartnerService) ownShop(ctx context.Context, userID uuid.UUID) (*catalog.Shop, error) {
	if err := requireShopUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}
	shop, err := s.shopRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Shop not found, upload a price list first")
		}
		return nil, err
	}
	return shop, nil
}

func (s *PartnerService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish events", zap.Error(err))
	}
}
