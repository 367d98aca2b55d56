package group

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
	"homestash/internal/db"
	groupdomain "homestash/internal/domain/group"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(groupdomain.Repository) error) error {
	return db.RunSerializable(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&PostgresRepository{db: tx})
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	})
}

func (r *PostgresRepository) CreateGroup(ctx context.Context, g *groupdomain.FamilyGroup) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *PostgresRepository) GetGroupByID(ctx context.Context, groupID string) (*groupdomain.FamilyGroup, error) {
	var g groupdomain.FamilyGroup
	if err := r.db.WithContext(ctx).
		Where("id = ?", groupID).
		First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, groupdomain.ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *groupdomain.Membership) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return groupdomain.ErrDuplicateMembership
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, groupID, userID string) (*groupdomain.Membership, error) {
	var member groupdomain.Membership
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, groupdomain.ErrNotAMember
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, groupID string) ([]groupdomain.Membership, error) {
	var members []groupdomain.Membership
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("joined_at asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) UpdateMemberRole(ctx context.Context, groupID, userID string, role groupdomain.Role) error {
	result := r.db.WithContext(ctx).
		Model(&groupdomain.Membership{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return groupdomain.ErrNotAMember
	}
	return nil
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, groupID, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&groupdomain.Membership{}, "group_id = ? AND user_id = ?", groupID, userID)
	return result.RowsAffected > 0, result.Error
}

// Ordered leaf-first so no statement ever leaves a dangling reference.
var groupCascadeStatements = []string{
	`DELETE FROM message_reactions WHERE message_id IN (
		SELECT m.id FROM messages m
		JOIN threads t ON m.thread_id = t.id
		JOIN items i ON t.item_id = i.id
		WHERE i.group_id = ?
	)`,
	`DELETE FROM message_attachments WHERE message_id IN (
		SELECT m.id FROM messages m
		JOIN threads t ON m.thread_id = t.id
		JOIN items i ON t.item_id = i.id
		WHERE i.group_id = ?
	)`,
	`DELETE FROM messages WHERE thread_id IN (
		SELECT t.id FROM threads t JOIN items i ON t.item_id = i.id WHERE i.group_id = ?
	)`,
	`DELETE FROM threads WHERE item_id IN (SELECT id FROM items WHERE group_id = ?)`,
	`DELETE FROM item_images WHERE item_id IN (SELECT id FROM items WHERE group_id = ?)`,
	`DELETE FROM items WHERE group_id = ?`,
	`DELETE FROM memberships WHERE group_id = ?`,
}

func (r *PostgresRepository) DeleteGroupCascade(ctx context.Context, groupID string) error {
	db := r.db.WithContext(ctx)
	for _, stmt := range groupCascadeStatements {
		if err := db.Exec(stmt, groupID).Error; err != nil {
			return err
		}
	}

	result := db.Exec(`DELETE FROM family_groups WHERE id = ?`, groupID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return groupdomain.ErrGroupNotFound
	}
	return nil
}
