package discussion

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	// GetItemGroup resolves the owning group of an item, which is what
	// every authorization check in this engine keys on.
	GetItemGroup(ctx context.Context, itemID string) (string, error)

	CreateThread(ctx context.Context, thread *Thread) error
	GetThreadByID(ctx context.Context, threadID string) (*Thread, error)
	GetThreadByItem(ctx context.Context, itemID string) (*Thread, error)
	TouchThread(ctx context.Context, threadID string) error

	CreateMessage(ctx context.Context, message *Message) error
	GetMessageByID(ctx context.Context, messageID string) (*Message, error)
	UpdateMessage(ctx context.Context, message *Message) error
	ListThreadMessages(ctx context.Context, threadID string) ([]Message, error)
	ListLatestMessages(ctx context.Context, threadID string, limit int) ([]Message, error)
	ListReplies(ctx context.Context, parentID string) ([]Message, error)

	AddReaction(ctx context.Context, reaction *MessageReaction) error
	DeleteReaction(ctx context.Context, messageID, userID string, rtype ReactionType) (bool, error)
	ListReactions(ctx context.Context, messageID string) ([]MessageReaction, error)

	AddAttachment(ctx context.Context, attachment *MessageAttachment) error
	ListAttachments(ctx context.Context, messageID string) ([]MessageAttachment, error)

	// DeleteMessageCascade removes a message with its reactions,
	// attachments and descendant replies. DeleteThreadCascade removes a
	// thread with every message subtree under it. Both are atomic.
	DeleteMessageCascade(ctx context.Context, messageID string) error
	DeleteThreadCascade(ctx context.Context, threadID string) error
}
