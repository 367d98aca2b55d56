package item

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"homestash/internal/domain/fault"
	"homestash/internal/domain/group"
	"homestash/internal/domain/refcatalog"
	"homestash/internal/media"
)

// Authorizer gates item writes by the actor's role in the owning group.
// Satisfied by the group service.
type Authorizer interface {
	Authorize(ctx context.Context, userID, groupID string, action group.Action) error
}

type Service struct {
	repo  Repository
	auth  Authorizer
	blobs media.Store
}

func NewService(repo Repository, auth Authorizer, blobs media.Store) *Service {
	return &Service{repo: repo, auth: auth, blobs: blobs}
}

type CreateItemInput struct {
	OwnerID         string
	GroupID         string
	Name            string
	Description     string
	Condition       refcatalog.Condition
	ReferenceItemID *string
	CategoryID      *string
}

// CreateItem requires the owner to hold write capability in the group,
// which also guarantees the owner is a member.
func (s *Service) CreateItem(ctx context.Context, input CreateItemInput) (*Item, error) {
	if err := s.auth.Authorize(ctx, input.OwnerID, input.GroupID, group.ActionWrite); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fault.InvalidValue("item", "", errors.New("name is required"))
	}
	if !input.Condition.Valid() {
		return nil, fault.InvalidValue("item", string(input.Condition), ErrInvalidCondition)
	}

	it := Item{
		ID:              uuid.NewString(),
		OwnerID:         input.OwnerID,
		GroupID:         input.GroupID,
		ReferenceItemID: input.ReferenceItemID,
		CategoryID:      input.CategoryID,
		Name:            name,
		Description:     strings.TrimSpace(input.Description),
		Condition:       input.Condition,
		Status:          StatusActive,
	}
	var missingRef string
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if input.ReferenceItemID != nil {
			exists, err := tx.ReferenceItemExists(ctx, *input.ReferenceItemID)
			if err != nil {
				return err
			}
			if !exists {
				missingRef = *input.ReferenceItemID
				return ErrReferenceNotFound
			}
		}
		if input.CategoryID != nil {
			exists, err := tx.CategoryExists(ctx, *input.CategoryID)
			if err != nil {
				return err
			}
			if !exists {
				missingRef = *input.CategoryID
				return ErrReferenceNotFound
			}
		}
		return tx.CreateItem(ctx, &it)
	})
	if err != nil {
		if errors.Is(err, ErrReferenceNotFound) {
			return nil, fault.NotFound("item", missingRef, ErrReferenceNotFound)
		}
		return nil, err
	}
	return &it, nil
}

func (s *Service) GetItem(ctx context.Context, actorID, itemID string) (*Item, error) {
	it, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, actorID, it.GroupID, group.ActionRead); err != nil {
		return nil, err
	}
	return it, nil
}

// ListGroupItems returns all items of a group, archived ones included.
// Archiving is a visibility state, not deletion; any member may read.
func (s *Service) ListGroupItems(ctx context.Context, actorID, groupID string) ([]Item, error) {
	if err := s.auth.Authorize(ctx, actorID, groupID, group.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.ListGroupItems(ctx, groupID)
}

type UpdateItemInput struct {
	ActorID     string
	ItemID      string
	Name        *string
	Description *string
	Condition   *refcatalog.Condition
}

func (s *Service) UpdateItem(ctx context.Context, input UpdateItemInput) (*Item, error) {
	it, err := s.getItem(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, input.ActorID, it.GroupID, group.ActionWrite); err != nil {
		return nil, err
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, fault.InvalidValue("item", input.ItemID, errors.New("name is required"))
		}
		it.Name = trimmed
	}
	if input.Description != nil {
		it.Description = strings.TrimSpace(*input.Description)
	}
	if input.Condition != nil {
		if !input.Condition.Valid() {
			return nil, fault.InvalidValue("item", string(*input.Condition), ErrInvalidCondition)
		}
		it.Condition = *input.Condition
	}

	if err := s.repo.UpdateItem(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *Service) ArchiveItem(ctx context.Context, actorID, itemID string) (*Item, error) {
	return s.setStatus(ctx, actorID, itemID, StatusArchived)
}

func (s *Service) UnarchiveItem(ctx context.Context, actorID, itemID string) (*Item, error) {
	return s.setStatus(ctx, actorID, itemID, StatusActive)
}

func (s *Service) setStatus(ctx context.Context, actorID, itemID string, status Status) (*Item, error) {
	it, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, actorID, it.GroupID, group.ActionWrite); err != nil {
		return nil, err
	}

	it.Status = status
	if err := s.repo.UpdateItem(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *Service) AttachImage(ctx context.Context, actorID, itemID string, payload []byte) (*ItemImage, error) {
	it, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, actorID, it.GroupID, group.ActionWrite); err != nil {
		return nil, err
	}

	handle, err := s.blobs.StoreBlob(ctx, payload)
	if err != nil {
		if errors.Is(err, media.ErrEmptyBlob) {
			return nil, fault.InvalidValue("item_image", itemID, media.ErrEmptyBlob)
		}
		return nil, err
	}

	image := ItemImage{
		ID:         uuid.NewString(),
		ItemID:     itemID,
		BlobHandle: handle,
		ByteSize:   int64(len(payload)),
	}
	if err := s.repo.AddImage(ctx, &image); err != nil {
		return nil, err
	}
	return &image, nil
}

func (s *Service) ListImages(ctx context.Context, actorID, itemID string) ([]ItemImage, error) {
	it, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(ctx, actorID, it.GroupID, group.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.ListImages(ctx, itemID)
}

func (s *Service) DeleteItem(ctx context.Context, actorID, itemID string) error {
	it, err := s.getItem(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.auth.Authorize(ctx, actorID, it.GroupID, group.ActionWrite); err != nil {
		return err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetItemByID(ctx, itemID); err != nil {
			return err
		}
		return tx.DeleteItemCascade(ctx, itemID)
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return fault.NotFound("item", itemID, ErrItemNotFound)
		}
		return fault.DeleteFailed("item", itemID, err)
	}
	return nil
}

func (s *Service) getItem(ctx context.Context, itemID string) (*Item, error) {
	it, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, fault.NotFound("item", itemID, ErrItemNotFound)
		}
		return nil, err
	}
	return it, nil
}
