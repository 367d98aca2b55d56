package item

import "errors"

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrReferenceNotFound = errors.New("linked reference not found")
	ErrInvalidCondition  = errors.New("invalid condition rank")
)
