package discussion

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"homestash/internal/domain/fault"
	"homestash/internal/domain/group"
	"homestash/internal/media"
)

// maxReplyDepth bounds ancestor walks over reply chains.
const maxReplyDepth = 128

// defaultLatestLimit caps LatestMessages when the caller passes no limit.
const defaultLatestLimit = 50

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

// OpenThread starts the discussion for an item. An item carries at most
// one thread; the unique index on item_id decides races between openers.
func (s *Service) OpenThread(ctx context.Context, actorID, itemID, title string) (*Thread, error) {
	if err := s.authorizeItem(ctx, actorID, itemID, group.ActionWrite); err != nil {
		return nil, err
	}

	thread := Thread{
		ID:     uuid.NewString(),
		ItemID: itemID,
		Title:  strings.TrimSpace(title),
	}
	if err := s.repo.CreateThread(ctx, &thread); err != nil {
		if errors.Is(err, ErrThreadExists) {
			return nil, fault.AlreadyExists("thread", itemID, ErrThreadExists)
		}
		return nil, err
	}
	return &thread, nil
}

func (s *Service) GetItemThread(ctx context.Context, actorID, itemID string) (*Thread, error) {
	if err := s.authorizeItem(ctx, actorID, itemID, group.ActionRead); err != nil {
		return nil, err
	}
	thread, err := s.repo.GetThreadByItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, ErrThreadNotFound) {
			return nil, fault.NotFound("thread", itemID, ErrThreadNotFound)
		}
		return nil, err
	}
	return thread, nil
}

type PostMessageInput struct {
	ThreadID string
	AuthorID string
	Content  string
	ParentID *string
}

// PostMessage appends a message to a thread, optionally as a reply. The
// parent, when given, must live in the same thread.
func (s *Service) PostMessage(ctx context.Context, input PostMessageInput) (*Message, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, fault.InvalidValue("message", "", errors.New("content is required"))
	}

	message := Message{
		ID:       uuid.NewString(),
		ThreadID: input.ThreadID,
		AuthorID: input.AuthorID,
		ParentID: input.ParentID,
		Content:  content,
	}
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		thread, err := tx.GetThreadByID(ctx, input.ThreadID)
		if err != nil {
			return err
		}
		if err := s.authorizeItemWith(ctx, tx, input.AuthorID, thread.ItemID, group.ActionWrite); err != nil {
			return err
		}
		if input.ParentID != nil {
			parent, err := tx.GetMessageByID(ctx, *input.ParentID)
			if err != nil {
				if errors.Is(err, ErrMessageNotFound) {
					return ErrParentNotInThread
				}
				return err
			}
			if parent.ThreadID != input.ThreadID {
				return ErrParentNotInThread
			}
		}
		if err := tx.CreateMessage(ctx, &message); err != nil {
			return err
		}
		return tx.TouchThread(ctx, input.ThreadID)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrThreadNotFound):
			return nil, fault.NotFound("thread", input.ThreadID, ErrThreadNotFound)
		case errors.Is(err, ErrParentNotInThread):
			return nil, fault.InvalidValue("message", *input.ParentID, ErrParentNotInThread)
		}
		return nil, err
	}
	return &message, nil
}

// PostToItem posts against an item, opening the thread on first message.
func (s *Service) PostToItem(ctx context.Context, actorID, itemID, content string) (*Message, error) {
	thread, err := s.repo.GetThreadByItem(ctx, itemID)
	if err != nil {
		if !errors.Is(err, ErrThreadNotFound) {
			return nil, err
		}
		thread, err = s.OpenThread(ctx, actorID, itemID, "")
		if err != nil {
			// Lost the open race to a concurrent poster; reuse theirs.
			if fault.KindOf(err) == fault.KindAlreadyExists {
				thread, err = s.repo.GetThreadByItem(ctx, itemID)
			}
			if err != nil {
				return nil, err
			}
		}
	}
	return s.PostMessage(ctx, PostMessageInput{
		ThreadID: thread.ID,
		AuthorID: actorID,
		Content:  content,
	})
}

func (s *Service) EditMessage(ctx context.Context, actorID, messageID, newContent string) (*Message, error) {
	newContent = strings.TrimSpace(newContent)
	if newContent == "" {
		return nil, fault.InvalidValue("message", messageID, errors.New("content is required"))
	}

	message, err := s.getMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message.AuthorID != actorID {
		return nil, fault.NotAuthorized("message", messageID, ErrNotMessageAuthor)
	}

	message.Content = newContent
	message.IsEdited = true
	if err := s.repo.UpdateMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// ReparentMessage moves a message under a new parent in the same thread.
// The new parent's ancestor chain must not contain the message itself.
func (s *Service) ReparentMessage(ctx context.Context, actorID, messageID string, newParentID *string) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		message, err := tx.GetMessageByID(ctx, messageID)
		if err != nil {
			return err
		}
		if message.AuthorID != actorID {
			return ErrNotMessageAuthor
		}

		if newParentID != nil {
			if *newParentID == messageID {
				return ErrSelfReferenceCycle
			}
			parent, err := tx.GetMessageByID(ctx, *newParentID)
			if err != nil {
				if errors.Is(err, ErrMessageNotFound) {
					return ErrParentNotInThread
				}
				return err
			}
			if parent.ThreadID != message.ThreadID {
				return ErrParentNotInThread
			}

			cursor := parent
			for depth := 0; cursor.ParentID != nil; depth++ {
				if depth >= maxReplyDepth {
					return ErrDepthLimit
				}
				if *cursor.ParentID == messageID {
					return ErrSelfReferenceCycle
				}
				cursor, err = tx.GetMessageByID(ctx, *cursor.ParentID)
				if err != nil {
					return err
				}
			}
		}

		message.ParentID = newParentID
		return tx.UpdateMessage(ctx, message)
	})
	switch {
	case errors.Is(err, ErrMessageNotFound):
		return fault.NotFound("message", messageID, ErrMessageNotFound)
	case errors.Is(err, ErrNotMessageAuthor):
		return fault.NotAuthorized("message", messageID, ErrNotMessageAuthor)
	case errors.Is(err, ErrParentNotInThread):
		return fault.InvalidValue("message", messageID, ErrParentNotInThread)
	case errors.Is(err, ErrSelfReferenceCycle):
		return fault.InvalidValue("message", messageID, ErrSelfReferenceCycle)
	case errors.Is(err, ErrDepthLimit):
		return fault.DepthLimit("message", messageID, ErrDepthLimit)
	}
	return err
}

// AddReaction records one (message, user, type) triple. Reacting is open
// to every group member; the composite key rejects duplicates.
func (s *Service) AddReaction(ctx context.Context, userID, messageID string, rtype ReactionType) error {
	if !rtype.Valid() {
		return fault.InvalidValue("message_reaction", string(rtype), ErrInvalidReaction)
	}

	message, err := s.getMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if err := s.authorizeMessage(ctx, userID, message, group.ActionRead); err != nil {
		return err
	}

	reaction := MessageReaction{
		MessageID: messageID,
		UserID:    userID,
		Type:      rtype,
	}
	if err := s.repo.AddReaction(ctx, &reaction); err != nil {
		if errors.Is(err, ErrDuplicateReaction) {
			return fault.AlreadyExists("message_reaction", messageID+":"+userID+":"+string(rtype), ErrDuplicateReaction)
		}
		return err
	}
	return nil
}

func (s *Service) RemoveReaction(ctx context.Context, userID, messageID string, rtype ReactionType) error {
	if !rtype.Valid() {
		return fault.InvalidValue("message_reaction", string(rtype), ErrInvalidReaction)
	}
	removed, err := s.repo.DeleteReaction(ctx, messageID, userID, rtype)
	if err != nil {
		return err
	}
	if !removed {
		return fault.NotFound("message_reaction", messageID+":"+userID+":"+string(rtype), ErrReactionNotFound)
	}
	return nil
}

func (s *Service) ListReactions(ctx context.Context, actorID, messageID string) ([]MessageReaction, error) {
	message, err := s.getMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMessage(ctx, actorID, message, group.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.ListReactions(ctx, messageID)
}

func (s *Service) AttachFile(ctx context.Context, actorID, messageID string, payload []byte) (*MessageAttachment, error) {
	message, err := s.getMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message.AuthorID != actorID {
		return nil, fault.NotAuthorized("message", messageID, ErrNotMessageAuthor)
	}

	handle, err := s.blobs.StoreBlob(ctx, payload)
	if err != nil {
		if errors.Is(err, media.ErrEmptyBlob) {
			return nil, fault.InvalidValue("message_attachment", messageID, media.ErrEmptyBlob)
		}
		return nil, err
	}

	attachment := MessageAttachment{
		ID:         uuid.NewString(),
		MessageID:  messageID,
		BlobHandle: handle,
		ByteSize:   int64(len(payload)),
	}
	if err := s.repo.AddAttachment(ctx, &attachment); err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (s *Service) Attachments(ctx context.Context, actorID, messageID string) ([]MessageAttachment, error) {
	message, err := s.getMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMessage(ctx, actorID, message, group.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.ListAttachments(ctx, messageID)
}

func (s *Service) ListThreadMessages(ctx context.Context, actorID, threadID string) ([]Message, error) {
	thread, err := s.getThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeItem(ctx, actorID, thread.ItemID, group.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.ListThreadMessages(ctx, threadID)
}

// LatestMessages returns the newest messages first, capped by limit.
func (s *Service) LatestMessages(ctx context.Context, actorID, threadID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = defaultLatestLimit
	}
	thread, err := s.getThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeItem(ctx, actorID, thread.ItemID, group.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.ListLatestMessages(ctx, threadID, limit)
}

func (s *Service) Replies(ctx context.Context, actorID, messageID string) ([]Message, error) {
	message, err := s.getMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMessage(ctx, actorID, message, group.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.ListReplies(ctx, messageID)
}

// DeleteMessage removes a message and everything hanging off it:
// reactions, attachments and the whole reply subtree.
func (s *Service) DeleteMessage(ctx context.Context, actorID, messageID string) error {
	message, err := s.getMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if message.AuthorID != actorID {
		return fault.NotAuthorized("message", messageID, ErrNotMessageAuthor)
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetMessageByID(ctx, messageID); err != nil {
			return err
		}
		return tx.DeleteMessageCascade(ctx, messageID)
	})
	if err != nil {
		if errors.Is(err, ErrMessageNotFound) {
			return fault.NotFound("message", messageID, ErrMessageNotFound)
		}
		return fault.DeleteFailed("message", messageID, err)
	}
	return nil
}

func (s *Service) DeleteThread(ctx context.Context, actorID, threadID string) error {
	thread, err := s.getThread(ctx, threadID)
	if err != nil {
		return err
	}
	if err := s.authorizeItem(ctx, actorID, thread.ItemID, group.ActionWrite); err != nil {
		return err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetThreadByID(ctx, threadID); err != nil {
			return err
		}
		return tx.DeleteThreadCascade(ctx, threadID)
	})
	if err != nil {
		if errors.Is(err, ErrThreadNotFound) {
			return fault.NotFound("thread", threadID, ErrThreadNotFound)
		}
		return fault.DeleteFailed("thread", threadID, err)
	}
	return nil
}

func (s *Service) getThread(ctx context.Context, threadID string) (*Thread, error) {
	thread, err := s.repo.GetThreadByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, ErrThreadNotFound) {
			return nil, fault.NotFound("thread", threadID, ErrThreadNotFound)
		}
		return nil, err
	}
	return thread, nil
}

func (s *Service) getMessage(ctx context.Context, messageID string) (*Message, error) {
	message, err := s.repo.GetMessageByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, ErrMessageNotFound) {
			return nil, fault.NotFound("message", messageID, ErrMessageNotFound)
		}
		return nil, err
	}
	return message, nil
}

func (s *Service) authorizeMessage(ctx context.Context, actorID string, message *Message, action group.Action) error {
	thread, err := s.getThread(ctx, message.ThreadID)
	if err != nil {
		return err
	}
	return s.authorizeItem(ctx, actorID, thread.ItemID, action)
}

func (s *Service) authorizeItem(ctx context.Context, actorID, itemID string, action group.Action) error {
	return s.authorizeItemWith(ctx, s.repo, actorID, itemID, action)
}

func (s *Service) authorizeItemWith(ctx context.Context, repo Repository, actorID, itemID string, action group.Action) error {
	groupID, err := repo.GetItemGroup(ctx, itemID)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return fault.NotFound("item", itemID, ErrItemNotFound)
		}
		return err
	}
	return s.auth.Authorize(ctx, actorID, groupID, action)
}
