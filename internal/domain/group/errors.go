package group

import "errors"

var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrDuplicateMembership = errors.New("user is already a member of the group")
	ErrNotAMember          = errors.New("user is not a member of the group")
	ErrNotAuthorized       = errors.New("role does not permit the action")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidAction       = errors.New("invalid action")
)
