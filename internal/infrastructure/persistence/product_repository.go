package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shoporders/backend/internal/domain/catalog"
	"github.com/shoporders/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const importBatchSize = 500

// GormProductRepository implements catalog.ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)

// FindByID finds a product with its parameters
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	db := r.db.WithContext(ctx)
	var m models.ProductModel
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	products, err := withParameters(db, []models.ProductModel{m})
	if err != nil {
		return nil, err
	}
	return products[0], nil
}

// FindByIDs finds the products that exist among ids
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	if len(ids) == 0 {
		return []*catalog.Product{}, nil
	}
	db := r.db.WithContext(ctx)
	var rows []models.ProductModel
	if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return withParameters(db, rows)
}

// FindByExternalID finds products by feed id, optionally within one shop
func (r *GormProductRepository) FindByExternalID(ctx context.Context, externalID int64, shopID *uuid.UUID) ([]*catalog.Product, error) {
	db := r.db.WithContext(ctx)
	query := db.Where("external_id = ?", externalID)
	if shopID != nil {
		query = query.Where("shop_id = ?", *shopID)
	}
	var rows []models.ProductModel
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return withParameters(db, rows)
}

// FindAll lists products matching the filter with their parameters
func (r *GormProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]*catalog.Product, int64, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.ProductModel{})
	if filter.ActiveShopsOnly {
		query = query.Joins("JOIN shops ON shops.id = products.shop_id AND shops.state = ?", true)
	}
	if filter.ShopID != nil {
		query = query.Where("products.shop_id = ?", *filter.ShopID)
	}
	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		query = query.Where("LOWER(products.name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProductModel
	if err := paginate(query, filter.Filter).
		Select("products.*").
		Order(orderClause("products", filter.OrderBy, filter.OrderDir, ProductSortFields, "name", "ASC")).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	products, err := withParameters(db, rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ReplaceShopAssortment makes the shop's catalog equal to the assortment. Products are
// matched by (shop, external id) so existing rows keep their ids and order lines stay linked.
func (r *GormProductRepository) ReplaceShopAssortment(ctx context.Context, shopID uuid.UUID, assortment catalog.Assortment) (catalog.ImportResult, error) {
	var result catalog.ImportResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categoryIDs, err := upsertCategories(tx, shopID, assortment.Categories)
		if err != nil {
			return err
		}
		result.Categories = len(categoryIDs)

		var existing []models.ProductModel
		if err := tx.Where("shop_id = ?", shopID).Find(&existing).Error; err != nil {
			return err
		}
		byExternal := make(map[int64]models.ProductModel, len(existing))
		for _, m := range existing {
			byExternal[m.ExternalID] = m
		}

		now := time.Now().UTC()
		seen := make(map[int64]bool, len(assortment.Products))
		productIDs := make([]uuid.UUID, 0, len(assortment.Products))
		var inserts []models.ProductModel
		for _, p := range assortment.Products {
			if mapped, ok := categoryIDs[p.CategoryID]; ok {
				p.CategoryID = mapped
			}
			p.ShopID = shopID
			seen[p.ExternalID] = true

			if old, ok := byExternal[p.ExternalID]; ok {
				p.ID = old.ID
				p.CreatedAt = old.CreatedAt
				p.UpdatedAt = now
				if err := tx.Model(&models.ProductModel{}).Where("id = ?", old.ID).Updates(map[string]any{
					"category_id": p.CategoryID,
					"name":        p.Name,
					"model":       p.Model,
					"quantity":    p.Quantity,
					"price":       p.Price,
					"price_rrc":   p.PriceRRC,
					"updated_at":  now,
				}).Error; err != nil {
					return err
				}
			} else {
				inserts = append(inserts, *models.ProductModelFromDomain(p))
			}
			productIDs = append(productIDs, p.ID)
		}
		if len(inserts) > 0 {
			if err := tx.CreateInBatches(&inserts, importBatchSize).Error; err != nil {
				return err
			}
		}
		result.Products = len(productIDs)

		var stale []uuid.UUID
		for _, m := range existing {
			if !seen[m.ExternalID] {
				stale = append(stale, m.ID)
			}
		}
		if err := deleteProducts(tx, stale); err != nil {
			return err
		}
		result.Deleted = len(stale)

		written, err := rewriteParameters(tx, productIDs, assortment.Products)
		if err != nil {
			return err
		}
		result.Parameters = written
		return nil
	})
	if err != nil {
		return catalog.ImportResult{}, err
	}
	return result, nil
}

// upsertCategories resolves each category by name, creating missing ones, links them
// to the shop and returns a map from the assortment's ids to the stored ids.
// Links to categories absent from the assortment are dropped.
func upsertCategories(tx *gorm.DB, shopID uuid.UUID, categories []*catalog.Category) (map[uuid.UUID]uuid.UUID, error) {
	ids := make(map[uuid.UUID]uuid.UUID, len(categories))
	keep := make([]uuid.UUID, 0, len(categories))
	for _, c := range categories {
		m := models.CategoryModelFromDomain(c)
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(m).Error; err != nil {
			return nil, err
		}
		var stored models.CategoryModel
		if err := tx.Where("name = ?", c.Name).First(&stored).Error; err != nil {
			return nil, err
		}
		ids[c.ID] = stored.ID
		keep = append(keep, stored.ID)
		if err := linkShops(tx, stored.ID, []uuid.UUID{shopID}); err != nil {
			return nil, err
		}
	}

	unlink := tx.Where("shop_id = ?", shopID)
	if len(keep) > 0 {
		unlink = unlink.Where("category_id NOT IN ?", keep)
	}
	if err := unlink.Delete(&models.ShopCategoryModel{}).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// deleteProducts removes products and their parameters; order lines keep a NULL product
func deleteProducts(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Model(&models.OrderItemModel{}).
		Where("product_id IN ?", ids).
		Update("product_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Where("product_id IN ?", ids).Delete(&models.ProductParameterModel{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.ProductModel{}).Error
}

// rewriteParameters replaces the parameter values of the given products
func rewriteParameters(tx *gorm.DB, productIDs []uuid.UUID, products []*catalog.Product) (int, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	if err := tx.Where("product_id IN ?", productIDs).Delete(&models.ProductParameterModel{}).Error; err != nil {
		return 0, err
	}

	names := make([]string, 0)
	known := make(map[string]bool)
	for _, p := range products {
		for _, param := range p.Parameters {
			if !known[param.Name] {
				known[param.Name] = true
				names = append(names, param.Name)
			}
		}
	}
	if len(names) == 0 {
		return 0, nil
	}

	paramIDs, err := ensureParameters(tx, names)
	if err != nil {
		return 0, err
	}

	var rows []models.ProductParameterModel
	for _, p := range products {
		for _, param := range p.Parameters {
			rows = append(rows, models.ProductParameterModel{
				ProductID:   p.ID,
				ParameterID: paramIDs[param.Name],
				Value:       param.Value,
			})
		}
	}
	if err := tx.CreateInBatches(&rows, importBatchSize).Error; err != nil {
		return 0, err
	}
	return len(rows), nil
}

// ensureParameters returns ids for the parameter names, creating the missing ones
func ensureParameters(tx *gorm.DB, names []string) (map[string]uuid.UUID, error) {
	now := time.Now().UTC()
	fresh := make([]models.ParameterModel, len(names))
	for i, name := range names {
		fresh[i] = models.ParameterModel{ID: uuid.New(), Name: name, CreatedAt: now}
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).CreateInBatches(&fresh, importBatchSize).Error; err != nil {
		return nil, err
	}

	var stored []models.ParameterModel
	if err := tx.Where("name IN ?", names).Find(&stored).Error; err != nil {
		return nil, err
	}
	ids := make(map[string]uuid.UUID, len(stored))
	for _, m := range stored {
		ids[m.Name] = m.ID
	}
	return ids, nil
}

type parameterRow struct {
	ProductID uuid.UUID
	Name      string
	Value     string
}

// withParameters converts rows to domain products and attaches their parameters
func withParameters(db *gorm.DB, rows []models.ProductModel) ([]*catalog.Product, error) {
	products := make([]*catalog.Product, len(rows))
	if len(rows) == 0 {
		return products, nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}

	var params []parameterRow
	if err := db.Table("product_parameters").
		Select("product_parameters.product_id, parameters.name, product_parameters.value").
		Joins("JOIN parameters ON parameters.id = product_parameters.parameter_id").
		Where("product_parameters.product_id IN ?", ids).
		Order("parameters.name ASC").
		Scan(&params).Error; err != nil {
		return nil, err
	}
	byProduct := make(map[uuid.UUID][]catalog.ProductParameter, len(rows))
	for _, p := range params {
		byProduct[p.ProductID] = append(byProduct[p.ProductID], catalog.ProductParameter{Name: p.Name, Value: p.Value})
	}

	for i := range rows {
		products[i] = rows[i].ToDomain(byProduct[rows[i].ID])
	}
	return products, nil
}
