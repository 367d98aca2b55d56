package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"homestash/internal/domain/fault"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateUserInput struct {
	LoginID        string
	CredentialHash string
	DisplayName    string
	AvatarURL      string
}

// CreateUser registers a user under a globally unique login identifier.
// The credential arrives pre-hashed; this layer never sees cleartext.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	loginID := strings.TrimSpace(input.LoginID)
	if loginID == "" {
		return nil, fault.InvalidValue("user", "", errors.New("login id is required"))
	}
	if input.CredentialHash == "" {
		return nil, fault.InvalidValue("user", loginID, errors.New("credential hash is required"))
	}
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		return nil, fault.InvalidValue("user", loginID, errors.New("display name is required"))
	}

	user := User{
		ID:             uuid.NewString(),
		LoginID:        loginID,
		CredentialHash: input.CredentialHash,
		DisplayName:    displayName,
	}
	if avatar := strings.TrimSpace(input.AvatarURL); avatar != "" {
		user.AvatarURL = &avatar
	}

	// Uniqueness rides on the login_id unique index, not a lookup first;
	// concurrent registrations race down to a single winner.
	if err := s.repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, ErrLoginIDTaken) {
			return nil, fault.AlreadyExists("user", loginID, ErrLoginIDTaken)
		}
		return nil, err
	}

	return &user, nil
}

func (s *Service) FindByLoginID(ctx context.Context, loginID string) (*User, error) {
	user, err := s.repo.GetUserByLoginID(ctx, strings.TrimSpace(loginID))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, fault.NotFound("user", loginID, ErrUserNotFound)
		}
		return nil, err
	}
	return user, nil
}

// VerifyCredential compares a candidate secret against the stored hash.
// Hashing policy lives with the caller; only the compare happens here.
func (s *Service) VerifyCredential(ctx context.Context, loginID, secret string) (*User, error) {
	user, err := s.FindByLoginID(ctx, loginID)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.CredentialHash), []byte(secret)); err != nil {
		return nil, fault.NotAuthorized("user", loginID, ErrCredentialMismatch)
	}
	return user, nil
}

func (s *Service) UpdateDisplayName(ctx context.Context, userID, displayName string) (*User, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, fault.InvalidValue("user", userID, errors.New("display name is required"))
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, fault.NotFound("user", userID, ErrUserNotFound)
		}
		return nil, err
	}

	user.DisplayName = displayName
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetUserByID(ctx, userID); err != nil {
			return err
		}
		return tx.DeleteUserCascade(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return fault.NotFound("user", userID, ErrUserNotFound)
		}
		return fault.DeleteFailed("user", userID, err)
	}
	return nil
}
