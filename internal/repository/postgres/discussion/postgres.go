package discussion

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
	"homestash/internal/db"
	discussiondomain "homestash/internal/domain/discussion"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(discussiondomain.Repository) error) error {
	// Serializable: the reply-reparent cycle walk reads the chain it is
	// about to modify. 40001 aborts are retried by RunSerializable.
	return db.RunSerializable(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&PostgresRepository{db: tx})
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	})
}

func (r *PostgresRepository) GetItemGroup(ctx context.Context, itemID string) (string, error) {
	var groupID string
	err := r.db.WithContext(ctx).
		Table("items").
		Select("group_id").
		Where("id = ?", itemID).
		Scan(&groupID).Error
	if err != nil {
		return "", err
	}
	if groupID == "" {
		return "", discussiondomain.ErrItemNotFound
	}
	return groupID, nil
}

func (r *PostgresRepository) CreateThread(ctx context.Context, thread *discussiondomain.Thread) error {
	if err := r.db.WithContext(ctx).Create(thread).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return discussiondomain.ErrThreadExists
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) GetThreadByID(ctx context.Context, threadID string) (*discussiondomain.Thread, error) {
	var thread discussiondomain.Thread
	if err := r.db.WithContext(ctx).
		Where("id = ?", threadID).
		First(&thread).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, discussiondomain.ErrThreadNotFound
		}
		return nil, err
	}
	return &thread, nil
}

func (r *PostgresRepository) GetThreadByItem(ctx context.Context, itemID string) (*discussiondomain.Thread, error) {
	var thread discussiondomain.Thread
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		First(&thread).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, discussiondomain.ErrThreadNotFound
		}
		return nil, err
	}
	return &thread, nil
}

func (r *PostgresRepository) TouchThread(ctx context.Context, threadID string) error {
	return r.db.WithContext(ctx).
		Model(&discussiondomain.Thread{}).
		Where("id = ?", threadID).
		Update("updated_at", gorm.Expr("NOW()")).Error
}

func (r *PostgresRepository) CreateMessage(ctx context.Context, message *discussiondomain.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *PostgresRepository) GetMessageByID(ctx context.Context, messageID string) (*discussiondomain.Message, error) {
	var message discussiondomain.Message
	if err := r.db.WithContext(ctx).
		Where("id = ?", messageID).
		First(&message).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, discussiondomain.ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

func (r *PostgresRepository) UpdateMessage(ctx context.Context, message *discussiondomain.Message) error {
	return r.db.WithContext(ctx).
		Model(&discussiondomain.Message{}).
		Where("id = ?", message.ID).
		Updates(map[string]interface{}{
			"content":   message.Content,
			"parent_id": message.ParentID,
			"is_edited": message.IsEdited,
		}).Error
}

func (r *PostgresRepository) ListThreadMessages(ctx context.Context, threadID string) ([]discussiondomain.Message, error) {
	var messages []discussiondomain.Message
	if err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at asc").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *PostgresRepository) ListLatestMessages(ctx context.Context, threadID string, limit int) ([]discussiondomain.Message, error) {
	var messages []discussiondomain.Message
	if err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at desc").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *PostgresRepository) ListReplies(ctx context.Context, parentID string) ([]discussiondomain.Message, error) {
	var replies []discussiondomain.Message
	if err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at asc").
		Find(&replies).Error; err != nil {
		return nil, err
	}
	return replies, nil
}

func (r *PostgresRepository) AddReaction(ctx context.Context, reaction *discussiondomain.MessageReaction) error {
	if err := r.db.WithContext(ctx).Create(reaction).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return discussiondomain.ErrDuplicateReaction
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) DeleteReaction(ctx context.Context, messageID, userID string, rtype discussiondomain.ReactionType) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&discussiondomain.MessageReaction{}, "message_id = ? AND user_id = ? AND type = ?", messageID, userID, rtype)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListReactions(ctx context.Context, messageID string) ([]discussiondomain.MessageReaction, error) {
	var reactions []discussiondomain.MessageReaction
	if err := r.db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Find(&reactions).Error; err != nil {
		return nil, err
	}
	return reactions, nil
}

func (r *PostgresRepository) AddAttachment(ctx context.Context, attachment *discussiondomain.MessageAttachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *PostgresRepository) ListAttachments(ctx context.Context, messageID string) ([]discussiondomain.MessageAttachment, error) {
	var attachments []discussiondomain.MessageAttachment
	if err := r.db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Order("uploaded_at asc").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// The reply subtree is collected with a recursive CTE so the whole
// descendant chain goes in one statement per dependent table.
var messageCascadeStatements = []string{
	`WITH RECURSIVE doomed AS (
		SELECT id FROM messages WHERE id = ?
		UNION
		SELECT m.id FROM messages m JOIN doomed d ON m.parent_id = d.id
	)
	DELETE FROM message_reactions WHERE message_id IN (SELECT id FROM doomed)`,
	`WITH RECURSIVE doomed AS (
		SELECT id FROM messages WHERE id = ?
		UNION
		SELECT m.id FROM messages m JOIN doomed d ON m.parent_id = d.id
	)
	DELETE FROM message_attachments WHERE message_id IN (SELECT id FROM doomed)`,
}

func (r *PostgresRepository) DeleteMessageCascade(ctx context.Context, messageID string) error {
	db := r.db.WithContext(ctx)
	for _, stmt := range messageCascadeStatements {
		if err := db.Exec(stmt, messageID).Error; err != nil {
			return err
		}
	}

	result := db.Exec(`WITH RECURSIVE doomed AS (
		SELECT id FROM messages WHERE id = ?
		UNION
		SELECT m.id FROM messages m JOIN doomed d ON m.parent_id = d.id
	)
	DELETE FROM messages WHERE id IN (SELECT id FROM doomed)`, messageID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return discussiondomain.ErrMessageNotFound
	}
	return nil
}

var threadCascadeStatements = []string{
	`DELETE FROM message_reactions WHERE message_id IN (SELECT id FROM messages WHERE thread_id = ?)`,
	`DELETE FROM message_attachments WHERE message_id IN (SELECT id FROM messages WHERE thread_id = ?)`,
	`DELETE FROM messages WHERE thread_id = ?`,
}

func (r *PostgresRepository) DeleteThreadCascade(ctx context.Context, threadID string) error {
	db := r.db.WithContext(ctx)
	for _, stmt := range threadCascadeStatements {
		if err := db.Exec(stmt, threadID).Error; err != nil {
			return err
		}
	}

	result := db.Exec(`DELETE FROM threads WHERE id = ?`, threadID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return discussiondomain.ErrThreadNotFound
	}
	return nil
}
