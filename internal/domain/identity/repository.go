package identity

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context, sharedOnly bool, limit, offset int) ([]User, int64, error)
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	DeleteUser(ctx context.Context, id string) error
	// ClearAssignedIssues nulls assignee references held by the user; the
	// issues themselves are retained.
	ClearAssignedIssues(ctx context.Context, userID string) error
	DeleteMemberships(ctx context.Context, userID string) error
}
