package group

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateGroup(ctx context.Context, g *FamilyGroup) error
	GetGroupByID(ctx context.Context, groupID string) (*FamilyGroup, error)
	AddMember(ctx context.Context, member *Membership) error
	GetMember(ctx context.Context, groupID, userID string) (*Membership, error)
	ListMembers(ctx context.Context, groupID string) ([]Membership, error)
	UpdateMemberRole(ctx context.Context, groupID, userID string, role Role) error
	DeleteMember(ctx context.Context, groupID, userID string) (bool, error)

	// DeleteGroupCascade removes the group and every row transitively
	// owned by it: memberships, items, item images, threads, messages,
	// reactions and attachments. One atomic unit, no orphans.
	DeleteGroupCascade(ctx context.Context, groupID string) error
}
