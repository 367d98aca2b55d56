package identity

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrLoginIDTaken       = errors.New("login id already taken")
	ErrCredentialMismatch = errors.New("credential mismatch")
)
