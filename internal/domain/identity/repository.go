package identity

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByLoginID(ctx context.Context, loginID string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error

	// DeleteUserCascade removes the user together with everything the user
	// owns: memberships, items (with images and discussion subtrees),
	// authored messages (with their reply subtrees) and reactions. The
	// whole unit is atomic.
	DeleteUserCascade(ctx context.Context, userID string) error
}
