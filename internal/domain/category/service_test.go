package category

import (
	"context"
	"errors"
	"sort"
	"testing"

	"homestash/internal/domain/fault"
)

type fakeCategoryRepo struct {
	categories map[string]*Category
	refItems   map[string]int64
	items      map[string]int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{
		categories: make(map[string]*Category),
		refItems:   make(map[string]int64),
		items:      make(map[string]int64),
	}
}

func (r *fakeCategoryRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeCategoryRepo) CreateCategory(ctx context.Context, c *Category) error {
	copied := *c
	r.categories[c.ID] = &copied
	return nil
}

func (r *fakeCategoryRepo) GetCategoryByID(ctx context.Context, categoryID string) (*Category, error) {
	c, ok := r.categories[categoryID]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCategoryRepo) ListChildren(ctx context.Context, parentID string) ([]Category, error) {
	result := make([]Category, 0)
	for _, c := range r.categories {
		if c.ParentID != nil && *c.ParentID == parentID {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeCategoryRepo) UpdateCategory(ctx context.Context, c *Category) error {
	if _, ok := r.categories[c.ID]; !ok {
		return ErrCategoryNotFound
	}
	copied := *c
	r.categories[c.ID] = &copied
	return nil
}

func (r *fakeCategoryRepo) DeleteCategory(ctx context.Context, categoryID string) error {
	delete(r.categories, categoryID)
	return nil
}

func (r *fakeCategoryRepo) CountChildren(ctx context.Context, categoryID string) (int64, error) {
	var count int64
	for _, c := range r.categories {
		if c.ParentID != nil && *c.ParentID == categoryID {
			count++
		}
	}
	return count, nil
}

func (r *fakeCategoryRepo) CountReferenceItemsUsing(ctx context.Context, categoryID string) (int64, error) {
	return r.refItems[categoryID], nil
}

func (r *fakeCategoryRepo) CountItemsUsing(ctx context.Context, categoryID string) (int64, error) {
	return r.items[categoryID], nil
}

func mustCreate(t *testing.T, service *Service, name string, parent *Category) *Category {
	t.Helper()
	var parentID *string
	if parent != nil {
		parentID = &parent.ID
	}
	c, err := service.CreateCategory(context.Background(), name, parentID)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return c
}

func TestCreateCategoryParentNotFound(t *testing.T) {
	service := NewService(newFakeCategoryRepo(), nil)

	missing := "00000000-0000-0000-0000-000000000000"
	_, err := service.CreateCategory(context.Background(), "Furniture", &missing)
	if !errors.Is(err, ErrParentNotFound) {
		t.Fatalf("expected ErrParentNotFound, got %v", err)
	}
}

func TestReparentRejectsCycles(t *testing.T) {
	service := NewService(newFakeCategoryRepo(), nil)
	ctx := context.Background()

	root := mustCreate(t, service, "Home", nil)
	furniture := mustCreate(t, service, "Furniture", root)
	chairs := mustCreate(t, service, "Chairs", furniture)

	// Self-reference is the degenerate cycle.
	if err := service.Reparent(ctx, root.ID, &root.ID); !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("self reparent: expected ErrCycleDetected, got %v", err)
	}

	// Moving an ancestor under its own descendant closes a loop.
	err := service.Reparent(ctx, furniture.ID, &chairs.ID)
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("descendant reparent: expected ErrCycleDetected, got %v", err)
	}
	if fault.KindOf(err) != fault.KindInvalidValue {
		t.Fatalf("expected invalid_value classification, got %q", fault.KindOf(err))
	}

	// A sibling move stays legal.
	garage := mustCreate(t, service, "Garage", root)
	if err := service.Reparent(ctx, chairs.ID, &garage.ID); err != nil {
		t.Fatalf("legal reparent: %v", err)
	}
}

func TestAncestorsOrderAndExclusion(t *testing.T) {
	service := NewService(newFakeCategoryRepo(), nil)
	ctx := context.Background()

	root := mustCreate(t, service, "Home", nil)
	furniture := mustCreate(t, service, "Furniture", root)
	chairs := mustCreate(t, service, "Chairs", furniture)

	chain, err := service.Ancestors(ctx, chairs.ID)
	if err != nil {
		t.Fatalf("ancestors: %v", err)
	}
	if len(chain) != 2 {
		t.Fatalf("expected 2 ancestors, got %d", len(chain))
	}
	if chain[0].ID != root.ID || chain[1].ID != furniture.ID {
		t.Fatalf("expected root-to-leaf order, got %s then %s", chain[0].Name, chain[1].Name)
	}
	for _, c := range chain {
		if c.ID == chairs.ID {
			t.Fatalf("ancestors must not contain the category itself")
		}
	}

	empty, err := service.Ancestors(ctx, root.ID)
	if err != nil {
		t.Fatalf("root ancestors: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no ancestors for a root, got %d", len(empty))
	}
}

func TestDescendantsBreadthFirst(t *testing.T) {
	service := NewService(newFakeCategoryRepo(), nil)
	ctx := context.Background()

	root := mustCreate(t, service, "Home", nil)
	furniture := mustCreate(t, service, "Furniture", root)
	kitchen := mustCreate(t, service, "Kitchen", root)
	chairs := mustCreate(t, service, "Chairs", furniture)

	subtree, err := service.Descendants(ctx, root.ID)
	if err != nil {
		t.Fatalf("descendants: %v", err)
	}
	if len(subtree) != 3 {
		t.Fatalf("expected 3 descendants, got %d", len(subtree))
	}

	depth := map[string]int{furniture.ID: 0, kitchen.ID: 0, chairs.ID: 1}
	lastDepth := -1
	for _, c := range subtree {
		d, ok := depth[c.ID]
		if !ok {
			t.Fatalf("unexpected category %s in subtree", c.Name)
		}
		if d < lastDepth {
			t.Fatalf("breadth-first order violated at %s", c.Name)
		}
		lastDepth = d
	}
}

func TestDeleteCategoryInUse(t *testing.T) {
	repo := newFakeCategoryRepo()
	service := NewService(repo, nil)
	ctx := context.Background()

	root := mustCreate(t, service, "Home", nil)
	furniture := mustCreate(t, service, "Furniture", root)

	// Child category blocks the parent.
	if err := service.DeleteCategory(ctx, root.ID); !errors.Is(err, ErrCategoryInUse) {
		t.Fatalf("delete with child: expected ErrCategoryInUse, got %v", err)
	}

	// An item referencing the category blocks it too.
	repo.items[furniture.ID] = 1
	if err := service.DeleteCategory(ctx, furniture.ID); !errors.Is(err, ErrCategoryInUse) {
		t.Fatalf("delete in use by item: expected ErrCategoryInUse, got %v", err)
	}

	repo.items[furniture.ID] = 0
	if err := service.DeleteCategory(ctx, furniture.ID); err != nil {
		t.Fatalf("delete free leaf: %v", err)
	}
	if err := service.DeleteCategory(ctx, root.ID); err != nil {
		t.Fatalf("delete freed root: %v", err)
	}
}

func TestTraversalDepthGuard(t *testing.T) {
	service := NewService(newFakeCategoryRepo(), nil)
	ctx := context.Background()

	parent := mustCreate(t, service, "level-0", nil)
	var leaf *Category
	for i := 0; i <= maxTreeDepth; i++ {
		leaf = mustCreate(t, service, "level", parent)
		parent = leaf
	}

	_, err := service.Ancestors(ctx, leaf.ID)
	if !errors.Is(err, ErrDepthLimit) {
		t.Fatalf("expected ErrDepthLimit, got %v", err)
	}
	if fault.KindOf(err) != fault.KindDepthLimit {
		t.Fatalf("expected depth_limit classification, got %q", fault.KindOf(err))
	}
}
