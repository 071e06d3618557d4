package comment

import (
	"context"

	"softdesk-go/internal/domain/access"
)

type Repository interface {
	// GetIssue resolves the issue within the project and its parent status;
	// an issue outside the project is reported as not found.
	GetIssue(ctx context.Context, projectID, issueID string) (*IssueSnapshot, error)
	ListRoles(ctx context.Context, projectID, userID string) ([]access.Role, error)
	ListComments(ctx context.Context, issueID string, limit, offset int) ([]Comment, int64, error)
	GetComment(ctx context.Context, issueID, commentID string) (*Comment, error)
	CreateComment(ctx context.Context, comment *Comment) error
	UpdateComment(ctx context.Context, comment *Comment) error
	DeleteComment(ctx context.Context, commentID string) (bool, error)
}
