package category

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"homestash/internal/domain/fault"
)

// maxTreeDepth bounds every ancestor walk and descendant scan so a deep
// or damaged tree surfaces an error instead of an unbounded traversal.
const maxTreeDepth = 128

const defaultCacheTTL = time.Minute

type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
}

func NewService(repo Repository, cache Cache) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{repo: repo, cache: cache, cacheTTL: defaultCacheTTL}
}

func (s *Service) CreateCategory(ctx context.Context, name string, parentID *string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fault.InvalidValue("category", "", errors.New("name is required"))
	}

	c := Category{
		ID:       uuid.NewString(),
		Name:     name,
		ParentID: parentID,
	}
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if parentID != nil {
			if _, err := tx.GetCategoryByID(ctx, *parentID); err != nil {
				if errors.Is(err, ErrCategoryNotFound) {
					return ErrParentNotFound
				}
				return err
			}
		}
		return tx.CreateCategory(ctx, &c)
	})
	if err != nil {
		if errors.Is(err, ErrParentNotFound) {
			return nil, fault.NotFound("category", *parentID, ErrParentNotFound)
		}
		return nil, err
	}
	return &c, nil
}

func (s *Service) GetCategory(ctx context.Context, categoryID string) (*Category, error) {
	if c, ok := s.cache.GetByID(categoryID); ok {
		return c, nil
	}
	c, err := s.repo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return nil, fault.NotFound("category", categoryID, ErrCategoryNotFound)
		}
		return nil, err
	}
	s.cache.SetByID(categoryID, c, s.cacheTTL)
	return c, nil
}

func (s *Service) Rename(ctx context.Context, categoryID, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fault.InvalidValue("category", categoryID, errors.New("name is required"))
	}

	c, err := s.repo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return nil, fault.NotFound("category", categoryID, ErrCategoryNotFound)
		}
		return nil, err
	}
	c.Name = name
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	s.cache.DeleteByID(categoryID)
	return c, nil
}

// Reparent moves a category under a new parent. The ancestor chain of
// the new parent is walked first: if the moved category shows up there
// (itself included) the move is a cycle and is rejected before any write.
func (s *Service) Reparent(ctx context.Context, categoryID string, newParentID *string) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		c, err := tx.GetCategoryByID(ctx, categoryID)
		if err != nil {
			return err
		}

		if newParentID != nil {
			if *newParentID == categoryID {
				return ErrCycleDetected
			}
			parent, err := tx.GetCategoryByID(ctx, *newParentID)
			if err != nil {
				if errors.Is(err, ErrCategoryNotFound) {
					return ErrParentNotFound
				}
				return err
			}

			cursor := parent
			for depth := 0; cursor.ParentID != nil; depth++ {
				if depth >= maxTreeDepth {
					return ErrDepthLimit
				}
				if *cursor.ParentID == categoryID {
					return ErrCycleDetected
				}
				cursor, err = tx.GetCategoryByID(ctx, *cursor.ParentID)
				if err != nil {
					return err
				}
			}
		}

		c.ParentID = newParentID
		return tx.UpdateCategory(ctx, c)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrCategoryNotFound):
			return fault.NotFound("category", categoryID, ErrCategoryNotFound)
		case errors.Is(err, ErrParentNotFound):
			return fault.NotFound("category", *newParentID, ErrParentNotFound)
		case errors.Is(err, ErrCycleDetected):
			return fault.InvalidValue("category", categoryID, ErrCycleDetected)
		case errors.Is(err, ErrDepthLimit):
			return fault.DepthLimit("category", categoryID, ErrDepthLimit)
		}
		return err
	}
	s.cache.Clear()
	return nil
}

// DeleteCategory is deliberately non-cascading: losing a category would
// silently reclassify reference data, so any remaining child, reference
// item or item blocks the delete.
func (s *Service) DeleteCategory(ctx context.Context, categoryID string) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetCategoryByID(ctx, categoryID); err != nil {
			return err
		}

		children, err := tx.CountChildren(ctx, categoryID)
		if err != nil {
			return err
		}
		refItems, err := tx.CountReferenceItemsUsing(ctx, categoryID)
		if err != nil {
			return err
		}
		items, err := tx.CountItemsUsing(ctx, categoryID)
		if err != nil {
			return err
		}
		if children+refItems+items > 0 {
			return ErrCategoryInUse
		}

		return tx.DeleteCategory(ctx, categoryID)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrCategoryNotFound):
			return fault.NotFound("category", categoryID, ErrCategoryNotFound)
		case errors.Is(err, ErrCategoryInUse):
			return fault.InvalidValue("category", categoryID, ErrCategoryInUse)
		}
		return err
	}
	s.cache.DeleteByID(categoryID)
	return nil
}

// Ancestors returns the chain above a category ordered root first. The
// category itself is never part of the result.
func (s *Service) Ancestors(ctx context.Context, categoryID string) ([]Category, error) {
	c, err := s.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	var chain []Category
	for depth := 0; c.ParentID != nil; depth++ {
		if depth >= maxTreeDepth {
			return nil, fault.DepthLimit("category", categoryID, ErrDepthLimit)
		}
		c, err = s.GetCategory(ctx, *c.ParentID)
		if err != nil {
			return nil, err
		}
		chain = append(chain, *c)
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Descendants returns the subtree below a category in breadth-first
// order, excluding the category itself.
func (s *Service) Descendants(ctx context.Context, categoryID string) ([]Category, error) {
	if _, err := s.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	var result []Category
	frontier := []string{categoryID}
	for depth := 0; len(frontier) > 0; depth++ {
		if depth >= maxTreeDepth {
			return nil, fault.DepthLimit("category", categoryID, ErrDepthLimit)
		}
		var next []string
		for _, id := range frontier {
			children, err := s.repo.ListChildren(ctx, id)
			if err != nil {
				return nil, err
			}
			for _, child := range children {
				result = append(result, child)
				next = append(next, child.ID)
			}
		}
		frontier = next
	}
	return result, nil
}
