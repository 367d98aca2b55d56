package identity

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
	"homestash/internal/db"
	identitydomain "homestash/internal/domain/identity"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(identitydomain.Repository) error) error {
	return db.RunSerializable(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&PostgresRepository{db: tx})
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	})
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *identitydomain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return identitydomain.ErrLoginIDTaken
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, userID string) (*identitydomain.User, error) {
	var user identitydomain.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetUserByLoginID(ctx context.Context, loginID string) (*identitydomain.User, error) {
	var user identitydomain.User
	if err := r.db.WithContext(ctx).
		Where("login_id = ?", loginID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, user *identitydomain.User) error {
	return r.db.WithContext(ctx).
		Model(&identitydomain.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"display_name": user.DisplayName,
			"avatar_url":   user.AvatarURL,
		}).Error
}

// Ordered leaf-first so no statement ever leaves a dangling reference,
// even on schemas restored without the ON DELETE clauses.
var userCascadeStatements = []string{
	`WITH RECURSIVE doomed AS (
		SELECT id FROM messages WHERE author_id = ?
		UNION
		SELECT m.id FROM messages m JOIN doomed d ON m.parent_id = d.id
	)
	DELETE FROM message_reactions WHERE message_id IN (SELECT id FROM doomed)`,
	`WITH RECURSIVE doomed AS (
		SELECT id FROM messages WHERE author_id = ?
		UNION
		SELECT m.id FROM messages m JOIN doomed d ON m.parent_id = d.id
	)
	DELETE FROM message_attachments WHERE message_id IN (SELECT id FROM doomed)`,
	`WITH RECURSIVE doomed AS (
		SELECT id FROM messages WHERE author_id = ?
		UNION
		SELECT m.id FROM messages m JOIN doomed d ON m.parent_id = d.id
	)
	DELETE FROM messages WHERE id IN (SELECT id FROM doomed)`,
	`DELETE FROM message_reactions WHERE user_id = ?`,
	`DELETE FROM message_reactions WHERE message_id IN (
		SELECT m.id FROM messages m
		JOIN threads t ON m.thread_id = t.id
		JOIN items i ON t.item_id = i.id
		WHERE i.owner_id = ?
	)`,
	`DELETE FROM message_attachments WHERE message_id IN (
		SELECT m.id FROM messages m
		JOIN threads t ON m.thread_id = t.id
		JOIN items i ON t.item_id = i.id
		WHERE i.owner_id = ?
	)`,
	`DELETE FROM messages WHERE thread_id IN (
		SELECT t.id FROM threads t JOIN items i ON t.item_id = i.id WHERE i.owner_id = ?
	)`,
	`DELETE FROM threads WHERE item_id IN (SELECT id FROM items WHERE owner_id = ?)`,
	`DELETE FROM item_images WHERE item_id IN (SELECT id FROM items WHERE owner_id = ?)`,
	`DELETE FROM items WHERE owner_id = ?`,
	`DELETE FROM memberships WHERE user_id = ?`,
}

func (r *PostgresRepository) DeleteUserCascade(ctx context.Context, userID string) error {
	db := r.db.WithContext(ctx)
	for _, stmt := range userCascadeStatements {
		if err := db.Exec(stmt, userID).Error; err != nil {
			return err
		}
	}

	result := db.Exec(`DELETE FROM users WHERE id = ?`, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return identitydomain.ErrUserNotFound
	}
	return nil
}
