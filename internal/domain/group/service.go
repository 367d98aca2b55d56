package group

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"homestash/internal/domain/fault"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateGroup(ctx context.Context, name string) (*FamilyGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fault.InvalidValue("group", "", errors.New("name is required"))
	}

	g := FamilyGroup{
		ID:   uuid.NewString(),
		Name: name,
	}
	if err := s.repo.CreateGroup(ctx, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Service) GetGroup(ctx context.Context, groupID string) (*FamilyGroup, error) {
	g, err := s.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			return nil, fault.NotFound("group", groupID, ErrGroupNotFound)
		}
		return nil, err
	}
	return g, nil
}

// AddMember links a user to a group under a role. The membership pair is
// unique; a second insert for the same pair loses on the composite key.
func (s *Service) AddMember(ctx context.Context, groupID, userID string, role Role) (*Membership, error) {
	if !role.Valid() {
		return nil, fault.InvalidValue("membership", string(role), ErrInvalidRole)
	}

	member := Membership{
		GroupID: groupID,
		UserID:  userID,
		Role:    role,
	}
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetGroupByID(ctx, groupID); err != nil {
			return err
		}
		return tx.AddMember(ctx, &member)
	})
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			return nil, fault.NotFound("group", groupID, ErrGroupNotFound)
		}
		if errors.Is(err, ErrDuplicateMembership) {
			return nil, fault.AlreadyExists("membership", membershipRef(groupID, userID), ErrDuplicateMembership)
		}
		return nil, err
	}
	return &member, nil
}

func (s *Service) ChangeRole(ctx context.Context, groupID, userID string, role Role) error {
	if !role.Valid() {
		return fault.InvalidValue("membership", string(role), ErrInvalidRole)
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetMember(ctx, groupID, userID); err != nil {
			return err
		}
		return tx.UpdateMemberRole(ctx, groupID, userID, role)
	})
	if errors.Is(err, ErrNotAMember) {
		return fault.NotFound("membership", membershipRef(groupID, userID), ErrNotAMember)
	}
	return err
}

func (s *Service) RemoveMember(ctx context.Context, groupID, userID string) error {
	removed, err := s.repo.DeleteMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return fault.NotFound("membership", membershipRef(groupID, userID), ErrNotAMember)
	}
	return nil
}

// Authorize gates an action by the caller's role in the group. Absent
// membership denies rather than reporting existence.
func (s *Service) Authorize(ctx context.Context, userID, groupID string, action Action) error {
	if !action.Valid() {
		return fault.InvalidValue("membership", string(action), ErrInvalidAction)
	}

	member, err := s.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, ErrNotAMember) {
			return fault.NotAuthorized("membership", membershipRef(groupID, userID), ErrNotAMember)
		}
		return err
	}
	if !Can(member.Role, action) {
		return fault.NotAuthorized("membership", membershipRef(groupID, userID), ErrNotAuthorized)
	}
	return nil
}

func (s *Service) ListMembers(ctx context.Context, groupID string) ([]Membership, error) {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, groupID)
}

func (s *Service) DeleteGroup(ctx context.Context, groupID string) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetGroupByID(ctx, groupID); err != nil {
			return err
		}
		return tx.DeleteGroupCascade(ctx, groupID)
	})
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			return fault.NotFound("group", groupID, ErrGroupNotFound)
		}
		return fault.DeleteFailed("group", groupID, err)
	}
	return nil
}

func membershipRef(groupID, userID string) string {
	return groupID + ":" + userID
}
