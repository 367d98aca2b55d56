package refcatalog

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CategoryExists(ctx context.Context, categoryID string) (bool, error)
	CreateReferenceItem(ctx context.Context, item *ReferenceItem) error
	GetReferenceItemByID(ctx context.Context, refItemID string) (*ReferenceItem, error)
	CreateListing(ctx context.Context, listing *MarketListing) error
	GetListingByID(ctx context.Context, listingID string) (*MarketListing, error)
	UpdateListingStatus(ctx context.Context, listingID string, status ListingStatus) error

	// ListListings returns listings for a reference item ordered by
	// listing date descending. Price-estimation consumers depend on
	// that ordering.
	ListListings(ctx context.Context, refItemID string, filter ListingFilter) ([]MarketListing, error)

	CountItemsLinking(ctx context.Context, refItemID string) (int64, error)
	DeleteReferenceItemCascade(ctx context.Context, refItemID string) error
}
