package item

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateItem(ctx context.Context, item *Item) error
	GetItemByID(ctx context.Context, itemID string) (*Item, error)
	UpdateItem(ctx context.Context, item *Item) error
	ListGroupItems(ctx context.Context, groupID string) ([]Item, error)

	ReferenceItemExists(ctx context.Context, refItemID string) (bool, error)
	CategoryExists(ctx context.Context, categoryID string) (bool, error)

	AddImage(ctx context.Context, image *ItemImage) error
	ListImages(ctx context.Context, itemID string) ([]ItemImage, error)

	// DeleteItemCascade removes the item, its images and its discussion
	// thread with all messages, reactions and attachments, atomically.
	DeleteItemCascade(ctx context.Context, itemID string) error
}
