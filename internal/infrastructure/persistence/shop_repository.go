package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shoporders/backend/internal/domain/catalog"
	"github.com/shoporders/backend/internal/domain/shared"
	"github.com/shoporders/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormShopRepository implements catalog.ShopRepository
type GormShopRepository struct {
	db *gorm.DB
}

// NewGormShopRepository creates a new GormShopRepository
func NewGormShopRepository(db *gorm.DB) *GormShopRepository {
	return &GormShopRepository{db: db}
}

var _ catalog.ShopRepository = (*GormShopRepository)(nil)

// Save creates or updates a shop. A duplicate name or owner yields shared.ErrAlreadyExists.
func (r *GormShopRepository) Save(ctx context.Context, shop *catalog.Shop) error {
	err := r.db.WithContext(ctx).Save(models.ShopModelFromDomain(shop)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewDomainError(shared.ErrAlreadyExists.Code, "A shop with this name already exists")
	}
	return err
}

// FindByID finds a shop
func (r *GormShopRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Shop, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByUserID finds the shop owned by the user
func (r *GormShopRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*catalog.Shop, error) {
	return r.findOne(ctx, "user_id = ?", userID)
}

// FindByName finds a shop by its exact name
func (r *GormShopRepository) FindByName(ctx context.Context, name string) (*catalog.Shop, error) {
	return r.findOne(ctx, "name = ?", strings.TrimSpace(name))
}

// FindActive lists shops that accept orders
func (r *GormShopRepository) FindActive(ctx context.Context, filter shared.Filter) ([]*catalog.Shop, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ShopModel{}).Where("state = ?", true)
	if s := strings.TrimSpace(filter.Search); s != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ShopModel
	if err := paginate(query, filter).
		Order(orderClause("shops", filter.OrderBy, filter.OrderDir, ShopSortFields, "name", "ASC")).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	shops := make([]*catalog.Shop, len(rows))
	for i := range rows {
		shops[i] = rows[i].ToDomain()
	}
	return shops, total, nil
}

func (r *GormShopRepository) findOne(ctx context.Context, cond string, arg any) (*catalog.Shop, error) {
	var m models.ShopModel
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// GormCategoryRepository implements catalog.CategoryRepository
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)

// Save upserts the category and adds its shop links
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Save(models.CategoryModelFromDomain(category)).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError(shared.ErrAlreadyExists.Code, "A category with this name already exists")
		}
		if err != nil {
			return err
		}
		return linkShops(tx, category.ID, category.ShopIDs)
	})
}

// FindByID finds a category with its shops
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByName finds a category by exact name
func (r *GormCategoryRepository) FindByName(ctx context.Context, name string) (*catalog.Category, error) {
	return r.findOne(ctx, "name = ?", strings.TrimSpace(name))
}

// FindAll lists categories ordered by name
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*catalog.Category, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CategoryModel{})
	if s := strings.TrimSpace(filter.Search); s != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CategoryModel
	if err := paginate(query, filter).
		Order(orderClause("categories", filter.OrderBy, filter.OrderDir, CategorySortFields, "name", "ASC")).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	links, err := shopLinks(r.db.WithContext(ctx), ids)
	if err != nil {
		return nil, 0, err
	}

	categories := make([]*catalog.Category, len(rows))
	for i := range rows {
		categories[i] = rows[i].ToDomain(links[rows[i].ID])
	}
	return categories, total, nil
}

func (r *GormCategoryRepository) findOne(ctx context.Context, cond string, arg any) (*catalog.Category, error) {
	db := r.db.WithContext(ctx)
	var m models.CategoryModel
	if err := db.Where(cond, arg).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	links, err := shopLinks(db, []uuid.UUID{m.ID})
	if err != nil {
		return nil, err
	}
	return m.ToDomain(links[m.ID]), nil
}

func linkShops(tx *gorm.DB, categoryID uuid.UUID, shopIDs []uuid.UUID) error {
	if len(shopIDs) == 0 {
		return nil
	}
	rows := make([]models.ShopCategoryModel, len(shopIDs))
	for i, shopID := range shopIDs {
		rows[i] = models.ShopCategoryModel{ShopID: shopID, CategoryID: categoryID}
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func shopLinks(db *gorm.DB, categoryIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	links := make(map[uuid.UUID][]uuid.UUID, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return links, nil
	}
	var rows []models.ShopCategoryModel
	if err := db.Where("category_id IN ?", categoryIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		links[row.CategoryID] = append(links[row.CategoryID], row.ShopID)
	}
	return links, nil
}

// paginate applies limit/offset; a non-positive page size disables paging
func paginate(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.PageSize <= 0 {
		return query
	}
	return query.Offset(filter.Offset()).Limit(filter.PageSize)
}
