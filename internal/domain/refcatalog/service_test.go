package refcatalog

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"homestash/internal/domain/fault"
	"github.com/shopspring/decimal"
)

type fakeCatalogRepo struct {
	categories map[string]bool
	refItems   map[string]*ReferenceItem
	listings   map[string]*MarketListing
	itemLinks  map[string]int64
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		categories: make(map[string]bool),
		refItems:   make(map[string]*ReferenceItem),
		listings:   make(map[string]*MarketListing),
		itemLinks:  make(map[string]int64),
	}
}

func (r *fakeCatalogRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeCatalogRepo) CategoryExists(ctx context.Context, categoryID string) (bool, error) {
	return r.categories[categoryID], nil
}

func (r *fakeCatalogRepo) CreateReferenceItem(ctx context.Context, item *ReferenceItem) error {
	item.CreatedAt = time.Now().UTC()
	copied := *item
	r.refItems[item.ID] = &copied
	return nil
}

func (r *fakeCatalogRepo) GetReferenceItemByID(ctx context.Context, refItemID string) (*ReferenceItem, error) {
	item, ok := r.refItems[refItemID]
	if !ok {
		return nil, ErrReferenceItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeCatalogRepo) CreateListing(ctx context.Context, listing *MarketListing) error {
	copied := *listing
	r.listings[listing.ID] = &copied
	return nil
}

func (r *fakeCatalogRepo) GetListingByID(ctx context.Context, listingID string) (*MarketListing, error) {
	listing, ok := r.listings[listingID]
	if !ok {
		return nil, ErrListingNotFound
	}
	copied := *listing
	return &copied, nil
}

func (r *fakeCatalogRepo) UpdateListingStatus(ctx context.Context, listingID string, status ListingStatus) error {
	listing, ok := r.listings[listingID]
	if !ok {
		return ErrListingNotFound
	}
	listing.Status = status
	return nil
}

func (r *fakeCatalogRepo) ListListings(ctx context.Context, refItemID string, filter ListingFilter) ([]MarketListing, error) {
	result := make([]MarketListing, 0)
	for _, listing := range r.listings {
		if listing.ReferenceItemID != refItemID {
			continue
		}
		if filter.Status != nil && listing.Status != *filter.Status {
			continue
		}
		if filter.From != nil && listing.ListedOn.Before(*filter.From) {
			continue
		}
		if filter.To != nil && listing.ListedOn.After(*filter.To) {
			continue
		}
		result = append(result, *listing)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ListedOn.After(result[j].ListedOn)
	})
	return result, nil
}

func (r *fakeCatalogRepo) CountItemsLinking(ctx context.Context, refItemID string) (int64, error) {
	return r.itemLinks[refItemID], nil
}

func (r *fakeCatalogRepo) DeleteReferenceItemCascade(ctx context.Context, refItemID string) error {
	delete(r.refItems, refItemID)
	for id, listing := range r.listings {
		if listing.ReferenceItemID == refItemID {
			delete(r.listings, id)
		}
	}
	return nil
}

func TestAddReferenceItemCategoryNotFound(t *testing.T) {
	service := NewService(newFakeCatalogRepo())

	_, err := service.AddReferenceItem(context.Background(), "missing-cat", "Sofa", "")
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestRecordListingValidation(t *testing.T) {
	repo := newFakeCatalogRepo()
	repo.categories["cat"] = true
	service := NewService(repo)
	ctx := context.Background()

	item, err := service.AddReferenceItem(ctx, "cat", "Sofa", "Nordhaus")
	if err != nil {
		t.Fatalf("add reference item: %v", err)
	}

	base := RecordListingInput{
		ReferenceItemID: item.ID,
		Price:           decimal.NewFromFloat(120.50),
		Condition:       ConditionB,
		ListedOn:        time.Now().UTC(),
		Status:          ListingActive,
	}

	negative := base
	negative.Price = decimal.NewFromFloat(-1)
	if _, err := service.RecordListing(ctx, negative); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("negative price: expected ErrInvalidPrice, got %v", err)
	}

	fractional := base
	fractional.Price = decimal.RequireFromString("9.999")
	if _, err := service.RecordListing(ctx, fractional); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("sub-cent price: expected ErrInvalidPrice, got %v", err)
	}

	badCondition := base
	badCondition.Condition = Condition("E")
	if _, err := service.RecordListing(ctx, badCondition); !errors.Is(err, ErrInvalidCondition) {
		t.Fatalf("bad condition: expected ErrInvalidCondition, got %v", err)
	}

	badStatus := base
	badStatus.Status = ListingStatus("pending")
	err = nil
	if _, err = service.RecordListing(ctx, badStatus); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("bad status: expected ErrInvalidStatus, got %v", err)
	}
	if fault.KindOf(err) != fault.KindInvalidValue {
		t.Fatalf("expected invalid_value classification, got %q", fault.KindOf(err))
	}

	if _, err := service.RecordListing(ctx, base); err != nil {
		t.Fatalf("valid listing: %v", err)
	}
}

func TestListingsRoundTrip(t *testing.T) {
	repo := newFakeCatalogRepo()
	repo.categories["cat"] = true
	service := NewService(repo)
	ctx := context.Background()

	item, err := service.AddReferenceItem(ctx, "cat", "Sofa", "")
	if err != nil {
		t.Fatalf("add reference item: %v", err)
	}

	listedOn := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	price := decimal.RequireFromString("249.99")
	created, err := service.RecordListing(ctx, RecordListingInput{
		ReferenceItemID: item.ID,
		Price:           price,
		Condition:       ConditionA,
		ListedOn:        listedOn,
		Status:          ListingActive,
	})
	if err != nil {
		t.Fatalf("record listing: %v", err)
	}

	listings, err := service.ListingsFor(ctx, item.ID, ListingFilter{})
	if err != nil {
		t.Fatalf("listings for: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("expected exactly 1 listing, got %d", len(listings))
	}
	got := listings[0]
	if got.ID != created.ID || !got.Price.Equal(price) || got.Condition != ConditionA || !got.ListedOn.Equal(listedOn) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestListingsOrderAndFilter(t *testing.T) {
	repo := newFakeCatalogRepo()
	repo.categories["cat"] = true
	service := NewService(repo)
	ctx := context.Background()

	item, _ := service.AddReferenceItem(ctx, "cat", "Sofa", "")

	days := []int{3, 1, 2}
	for i, d := range days {
		status := ListingActive
		if i == 2 {
			status = ListingSold
		}
		_, err := service.RecordListing(ctx, RecordListingInput{
			ReferenceItemID: item.ID,
			Price:           decimal.NewFromInt(int64(100 + i)),
			Condition:       ConditionB,
			ListedOn:        time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC),
			Status:          status,
		})
		if err != nil {
			t.Fatalf("record listing %d: %v", i, err)
		}
	}

	all, err := service.ListingsFor(ctx, item.ID, ListingFilter{})
	if err != nil {
		t.Fatalf("listings: %v", err)
	}
	for i := 1; i < len(all); i++ {
		if all[i].ListedOn.After(all[i-1].ListedOn) {
			t.Fatalf("expected listing date descending order")
		}
	}

	active := ListingActive
	filtered, err := service.ListingsFor(ctx, item.ID, ListingFilter{Status: &active})
	if err != nil {
		t.Fatalf("filtered listings: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 active listings, got %d", len(filtered))
	}
}

func TestDeleteReferenceItemInUse(t *testing.T) {
	repo := newFakeCatalogRepo()
	repo.categories["cat"] = true
	service := NewService(repo)
	ctx := context.Background()

	item, _ := service.AddReferenceItem(ctx, "cat", "Sofa", "")
	repo.itemLinks[item.ID] = 2

	if err := service.DeleteReferenceItem(ctx, item.ID); !errors.Is(err, ErrReferenceInUse) {
		t.Fatalf("expected ErrReferenceInUse, got %v", err)
	}

	repo.itemLinks[item.ID] = 0
	if err := service.DeleteReferenceItem(ctx, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
