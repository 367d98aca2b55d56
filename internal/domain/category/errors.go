package category

import "errors"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrParentNotFound   = errors.New("parent category not found")
	ErrCycleDetected    = errors.New("reparent would create a cycle")
	ErrCategoryInUse    = errors.New("category still referenced")
	ErrDepthLimit       = errors.New("category tree depth limit exceeded")
)
