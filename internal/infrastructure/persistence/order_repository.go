package persistence

import (
	"bytes"
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/shoporders/backend/internal/domain/shared"
	"github.com/shoporders/backend/internal/domain/trade"
	"github.com/shoporders/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements trade.OrderRepository
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	return r.findOne(ctx, r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByIDForUser finds a placed order or cart that belongs to the user
func (r *GormOrderRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*trade.Order, error) {
	return r.findOne(ctx, r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID))
}

// FindCart returns the user's cart
func (r *GormOrderRepository) FindCart(ctx context.Context, userID uuid.UUID) (*trade.Order, error) {
	return r.findOne(ctx, r.db.WithContext(ctx).Where("user_id = ? AND status = ?", userID, trade.OrderStatusCart))
}

// ListByUser lists the user's placed orders, newest first
func (r *GormOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*trade.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("orders.user_id = ? AND orders.status <> ?", userID, trade.OrderStatusCart)
	return r.list(query, filter)
}

// ListForShop lists placed orders with at least one line from the shop
func (r *GormOrderRepository) ListForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]*trade.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("orders.status <> ?", trade.OrderStatusCart).
		Where("EXISTS (SELECT 1 FROM order_items WHERE order_items.order_id = orders.id AND order_items.shop_id = ?)", shopID)
	return r.list(query, filter)
}

// Save persists the order and synchronizes its items
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	return r.SaveWithStock(ctx, order, nil)
}

// SaveWithStock applies stock changes and saves the order atomically.
// The order must still carry the version it was loaded with; on success the
// in-memory version matches the stored one again.
func (r *GormOrderRepository) SaveWithStock(ctx context.Context, order *trade.Order, changes []trade.StockChange) error {
	var created bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyStockChanges(tx, changes); err != nil {
			return err
		}
		var err error
		created, err = saveOrder(tx, order)
		return err
	})
	if err != nil {
		return err
	}
	if !created {
		order.IncrementVersion()
	}
	return nil
}

func (r *GormOrderRepository) findOne(_ context.Context, query *gorm.DB) (*trade.Order, error) {
	var m models.OrderModel
	if err := query.Preload("Items", orderItemsByAge).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

func (r *GormOrderRepository) list(query *gorm.DB, filter shared.Filter) ([]*trade.Order, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.OrderModel
	if err := paginate(query, filter).
		Preload("Items", orderItemsByAge).
		Order(orderClause("orders", filter.OrderBy, filter.OrderDir, OrderSortFields, "created_at", "DESC")).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*trade.Order, len(rows))
	for i := range rows {
		orders[i] = rows[i].ToDomain()
	}
	return orders, total, nil
}

func orderItemsByAge(db *gorm.DB) *gorm.DB {
	return db.Order("order_items.created_at ASC")
}

// saveOrder writes the order row if the stored version still equals the
// loaded one, then syncs items. An unknown id is inserted; created reports that.
func saveOrder(tx *gorm.DB, order *trade.Order) (bool, error) {
	m := models.OrderModelFromDomain(order)
	created := false

	result := tx.Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", m.ID, m.Version).
		Updates(map[string]any{
			"status":     m.Status,
			"contact_id": m.ContactID,
			"version":    m.Version + 1,
			"updated_at": m.UpdatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.OrderModel{}).Where("id = ?", m.ID).Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return false, shared.ErrConcurrencyConflict
		}
		err := tx.Omit(clause.Associations).Create(m).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// another request created the user's cart concurrently
			return false, shared.ErrConcurrencyConflict
		}
		if err != nil {
			return false, err
		}
		created = true
	}

	return created, syncItems(tx, m.ID, m.Items)
}

// syncItems deletes lines no longer on the order and upserts the rest
func syncItems(tx *gorm.DB, orderID uuid.UUID, items []models.OrderItemModel) error {
	stale := tx.Where("order_id = ?", orderID)
	if len(items) > 0 {
		keep := make([]uuid.UUID, len(items))
		for i := range items {
			keep[i] = items[i].ID
		}
		stale = stale.Where("id NOT IN ?", keep)
	}
	if err := stale.Delete(&models.OrderItemModel{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"product_id", "quantity", "price", "total_amount", "updated_at"}),
	}).Create(&items).Error
}

// applyStockChanges adjusts stock in product id order so concurrent orders lock rows
// consistently. A product that would go negative fails the whole transaction.
func applyStockChanges(tx *gorm.DB, changes []trade.StockChange) error {
	sorted := make([]trade.StockChange, 0, len(changes))
	for _, c := range changes {
		if c.Delta != 0 {
			sorted = append(sorted, c)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].ProductID[:], sorted[j].ProductID[:]) < 0
	})

	for _, c := range sorted {
		result := tx.Model(&models.ProductModel{}).
			Where("id = ? AND quantity + ? >= 0", c.ProductID, c.Delta).
			Update("quantity", gorm.Expr("quantity + ?", c.Delta))
		if result.Error != nil {
			return result.Error
		}
		// restoring stock of a product removed by an import is a no-op
		if result.RowsAffected == 0 && c.Delta < 0 {
			return shared.ErrInsufficientStock
		}
	}
	return nil
}
