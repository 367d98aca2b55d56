package discussion

import "errors"

var (
	ErrItemNotFound       = errors.New("item not found")
	ErrThreadNotFound     = errors.New("thread not found")
	ErrThreadExists       = errors.New("item already has a thread")
	ErrMessageNotFound    = errors.New("message not found")
	ErrParentNotInThread  = errors.New("parent message belongs to a different thread")
	ErrSelfReferenceCycle = errors.New("message would become its own ancestor")
	ErrNotMessageAuthor   = errors.New("only the author may modify a message")
	ErrDuplicateReaction  = errors.New("reaction already recorded for this user and type")
	ErrReactionNotFound   = errors.New("reaction not found")
	ErrInvalidReaction    = errors.New("invalid reaction type")
	ErrDepthLimit         = errors.New("reply chain depth limit exceeded")
)
