package refcatalog

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
	"homestash/internal/db"
	refdomain "homestash/internal/domain/refcatalog"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(refdomain.Repository) error) error {
	return db.RunSerializable(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&PostgresRepository{db: tx})
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	})
}

func (r *PostgresRepository) CategoryExists(ctx context.Context, categoryID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("categories").
		Where("id = ?", categoryID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresRepository) CreateReferenceItem(ctx context.Context, item *refdomain.ReferenceItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PostgresRepository) GetReferenceItemByID(ctx context.Context, refItemID string) (*refdomain.ReferenceItem, error) {
	var item refdomain.ReferenceItem
	if err := r.db.WithContext(ctx).
		Where("id = ?", refItemID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, refdomain.ErrReferenceItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) CreateListing(ctx context.Context, listing *refdomain.MarketListing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *PostgresRepository) GetListingByID(ctx context.Context, listingID string) (*refdomain.MarketListing, error) {
	var listing refdomain.MarketListing
	if err := r.db.WithContext(ctx).
		Where("id = ?", listingID).
		First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, refdomain.ErrListingNotFound
		}
		return nil, err
	}
	return &listing, nil
}

func (r *PostgresRepository) UpdateListingStatus(ctx context.Context, listingID string, status refdomain.ListingStatus) error {
	result := r.db.WithContext(ctx).
		Model(&refdomain.MarketListing{}).
		Where("id = ?", listingID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return refdomain.ErrListingNotFound
	}
	return nil
}

func (r *PostgresRepository) ListListings(ctx context.Context, refItemID string, filter refdomain.ListingFilter) ([]refdomain.MarketListing, error) {
	query := r.db.WithContext(ctx).
		Model(&refdomain.MarketListing{}).
		Where("reference_item_id = ?", refItemID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("listed_on >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("listed_on <= ?", *filter.To)
	}

	var listings []refdomain.MarketListing
	if err := query.Order("listed_on desc").Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *PostgresRepository) CountItemsLinking(ctx context.Context, refItemID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("items").
		Where("reference_item_id = ?", refItemID).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) DeleteReferenceItemCascade(ctx context.Context, refItemID string) error {
	db := r.db.WithContext(ctx)
	if err := db.Exec(`DELETE FROM market_listings WHERE reference_item_id = ?`, refItemID).Error; err != nil {
		return err
	}

	result := db.Exec(`DELETE FROM reference_items WHERE id = ?`, refItemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return refdomain.ErrReferenceItemNotFound
	}
	return nil
}
