package refcatalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"homestash/internal/domain/fault"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) AddReferenceItem(ctx context.Context, categoryID, name, brand string) (*ReferenceItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fault.InvalidValue("reference_item", "", errors.New("name is required"))
	}

	item := ReferenceItem{
		ID:         uuid.NewString(),
		CategoryID: categoryID,
		Name:       name,
	}
	if brand = strings.TrimSpace(brand); brand != "" {
		item.Brand = &brand
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		exists, err := tx.CategoryExists(ctx, categoryID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrCategoryNotFound
		}
		return tx.CreateReferenceItem(ctx, &item)
	})
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return nil, fault.NotFound("category", categoryID, ErrCategoryNotFound)
		}
		return nil, err
	}
	return &item, nil
}

func (s *Service) GetReferenceItem(ctx context.Context, refItemID string) (*ReferenceItem, error) {
	item, err := s.repo.GetReferenceItemByID(ctx, refItemID)
	if err != nil {
		if errors.Is(err, ErrReferenceItemNotFound) {
			return nil, fault.NotFound("reference_item", refItemID, ErrReferenceItemNotFound)
		}
		return nil, err
	}
	return item, nil
}

type RecordListingInput struct {
	ReferenceItemID string
	Price           decimal.Decimal
	Condition       Condition
	ListedOn        time.Time
	Status          ListingStatus
}

func (s *Service) RecordListing(ctx context.Context, input RecordListingInput) (*MarketListing, error) {
	if input.Price.IsNegative() {
		return nil, fault.InvalidValue("market_listing", input.Price.String(), ErrInvalidPrice)
	}
	// Money is fixed-point with exactly 2 fractional digits; a finer
	// price is a caller bug, not something to round away silently.
	if !input.Price.Equal(input.Price.Round(2)) {
		return nil, fault.InvalidValue("market_listing", input.Price.String(), ErrInvalidPrice)
	}
	if !input.Condition.Valid() {
		return nil, fault.InvalidValue("market_listing", string(input.Condition), ErrInvalidCondition)
	}
	if !input.Status.Valid() {
		return nil, fault.InvalidValue("market_listing", string(input.Status), ErrInvalidStatus)
	}

	listing := MarketListing{
		ID:              uuid.NewString(),
		ReferenceItemID: input.ReferenceItemID,
		Price:           input.Price,
		Condition:       input.Condition,
		ListedOn:        input.ListedOn.UTC(),
		Status:          input.Status,
	}
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetReferenceItemByID(ctx, input.ReferenceItemID); err != nil {
			return err
		}
		return tx.CreateListing(ctx, &listing)
	})
	if err != nil {
		if errors.Is(err, ErrReferenceItemNotFound) {
			return nil, fault.NotFound("reference_item", input.ReferenceItemID, ErrReferenceItemNotFound)
		}
		return nil, err
	}
	return &listing, nil
}

func (s *Service) MarkListingStatus(ctx context.Context, listingID string, status ListingStatus) error {
	if !status.Valid() {
		return fault.InvalidValue("market_listing", string(status), ErrInvalidStatus)
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetListingByID(ctx, listingID); err != nil {
			return err
		}
		return tx.UpdateListingStatus(ctx, listingID, status)
	})
	if errors.Is(err, ErrListingNotFound) {
		return fault.NotFound("market_listing", listingID, ErrListingNotFound)
	}
	return err
}

func (s *Service) ListingsFor(ctx context.Context, refItemID string, filter ListingFilter) ([]MarketListing, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fault.InvalidValue("market_listing", string(*filter.Status), ErrInvalidStatus)
	}
	if _, err := s.GetReferenceItem(ctx, refItemID); err != nil {
		return nil, err
	}
	return s.repo.ListListings(ctx, refItemID, filter)
}

func (s *Service) DeleteReferenceItem(ctx context.Context, refItemID string) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetReferenceItemByID(ctx, refItemID); err != nil {
			return err
		}
		linked, err := tx.CountItemsLinking(ctx, refItemID)
		if err != nil {
			return err
		}
		if linked > 0 {
			return ErrReferenceInUse
		}
		return tx.DeleteReferenceItemCascade(ctx, refItemID)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrReferenceItemNotFound):
			return fault.NotFound("reference_item", refItemID, ErrReferenceItemNotFound)
		case errors.Is(err, ErrReferenceInUse):
			return fault.InvalidValue("reference_item", refItemID, ErrReferenceInUse)
		}
		return fault.DeleteFailed("reference_item", refItemID, err)
	}
	return nil
}
