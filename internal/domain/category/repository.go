package category

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateCategory(ctx context.Context, c *Category) error
	GetCategoryByID(ctx context.Context, categoryID string) (*Category, error)
	ListChildren(ctx context.Context, parentID string) ([]Category, error)
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, categoryID string) error

	// Usage counts back the in-use rejection: a category referenced by a
	// child category, a reference item or an item must not be deleted.
	CountChildren(ctx context.Context, categoryID string) (int64, error)
	CountReferenceItemsUsing(ctx context.Context, categoryID string) (int64, error)
	CountItemsUsing(ctx context.Context, categoryID string) (int64, error)
}
