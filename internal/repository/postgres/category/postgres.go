package category

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
	"homestash/internal/db"
	categorydomain "homestash/internal/domain/category"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(categorydomain.Repository) error) error {
	// Serializable: the reparent cycle walk reads the chain it is about
	// to modify, which only conflicts at this isolation level. 40001
	// aborts are retried by RunSerializable.
	return db.RunSerializable(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&PostgresRepository{db: tx})
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	})
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, c *categorydomain.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *PostgresRepository) GetCategoryByID(ctx context.Context, categoryID string) (*categorydomain.Category, error) {
	var c categorydomain.Category
	if err := r.db.WithContext(ctx).
		Where("id = ?", categoryID).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, categorydomain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) ListChildren(ctx context.Context, parentID string) ([]categorydomain.Category, error) {
	var children []categorydomain.Category
	if err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("name asc").
		Find(&children).Error; err != nil {
		return nil, err
	}
	return children, nil
}

func (r *PostgresRepository) UpdateCategory(ctx context.Context, c *categorydomain.Category) error {
	return r.db.WithContext(ctx).
		Model(&categorydomain.Category{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"name":      c.Name,
			"parent_id": c.ParentID,
		}).Error
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	result := r.db.WithContext(ctx).Delete(&categorydomain.Category{}, "id = ?", categoryID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return categorydomain.ErrCategoryNotFound
	}
	return nil
}

func (r *PostgresRepository) CountChildren(ctx context.Context, categoryID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&categorydomain.Category{}).
		Where("parent_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) CountReferenceItemsUsing(ctx context.Context, categoryID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("reference_items").
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) CountItemsUsing(ctx context.Context, categoryID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("items").
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}
