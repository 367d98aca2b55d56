package item

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
	"homestash/internal/db"
	itemdomain "homestash/internal/domain/item"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(itemdomain.Repository) error) error {
	return db.RunSerializable(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&PostgresRepository{db: tx})
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	})
}

func (r *PostgresRepository) CreateItem(ctx context.Context, item *itemdomain.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PostgresRepository) GetItemByID(ctx context.Context, itemID string) (*itemdomain.Item, error) {
	var item itemdomain.Item
	if err := r.db.WithContext(ctx).
		Where("id = ?", itemID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, itemdomain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) UpdateItem(ctx context.Context, item *itemdomain.Item) error {
	return r.db.WithContext(ctx).
		Model(&itemdomain.Item{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"name":              item.Name,
			"description":       item.Description,
			"condition":         item.Condition,
			"status":            item.Status,
			"reference_item_id": item.ReferenceItemID,
			"category_id":       item.CategoryID,
		}).Error
}

func (r *PostgresRepository) ListGroupItems(ctx context.Context, groupID string) ([]itemdomain.Item, error) {
	var items []itemdomain.Item
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) ReferenceItemExists(ctx context.Context, refItemID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("reference_items").
		Where("id = ?", refItemID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresRepository) CategoryExists(ctx context.Context, categoryID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("categories").
		Where("id = ?", categoryID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresRepository) AddImage(ctx context.Context, image *itemdomain.ItemImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *PostgresRepository) ListImages(ctx context.Context, itemID string) ([]itemdomain.ItemImage, error) {
	var images []itemdomain.ItemImage
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("uploaded_at asc").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// Ordered leaf-first so no statement ever leaves a dangling reference.
var itemCascadeStatements = []string{
	`DELETE FROM message_reactions WHERE message_id IN (
		SELECT m.id FROM messages m JOIN threads t ON m.thread_id = t.id WHERE t.item_id = ?
	)`,
	`DELETE FROM message_attachments WHERE message_id IN (
		SELECT m.id FROM messages m JOIN threads t ON m.thread_id = t.id WHERE t.item_id = ?
	)`,
	`DELETE FROM messages WHERE thread_id IN (SELECT id FROM threads WHERE item_id = ?)`,
	`DELETE FROM threads WHERE item_id = ?`,
	`DELETE FROM item_images WHERE item_id = ?`,
}

func (r *PostgresRepository) DeleteItemCascade(ctx context.Context, itemID string) error {
	db := r.db.WithContext(ctx)
	for _, stmt := range itemCascadeStatements {
		if err := db.Exec(stmt, itemID).Error; err != nil {
			return err
		}
	}

	result := db.Exec(`DELETE FROM items WHERE id = ?`, itemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return itemdomain.ErrItemNotFound
	}
	return nil
}
