package refcatalog

import "errors"

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrReferenceItemNotFound = errors.New("reference item not found")
	ErrListingNotFound       = errors.New("market listing not found")
	ErrInvalidPrice          = errors.New("price must be non-negative with at most 2 decimal places")
	ErrInvalidCondition      = errors.New("invalid condition rank")
	ErrInvalidStatus         = errors.New("invalid listing status")
	ErrReferenceInUse        = errors.New("reference item still linked by items")
)
