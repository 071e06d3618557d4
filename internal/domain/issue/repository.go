package issue

import (
	"context"

	"softdesk-go/internal/domain/access"
)

type Repository interface {
	GetProject(ctx context.Context, projectID string) (*ProjectSnapshot, error)
	ListRoles(ctx context.Context, projectID, userID string) ([]access.Role, error)
	// HasContributor reports whether the user currently holds a CONTRIBUTOR
	// row on the project; the AUTHOR row alone does not qualify an assignee.
	HasContributor(ctx context.Context, projectID, userID string) (bool, error)
	ListIssues(ctx context.Context, projectID string, limit, offset int) ([]Issue, int64, error)
	GetIssue(ctx context.Context, projectID, issueID string) (*Issue, error)
	CreateIssue(ctx context.Context, issue *Issue) error
	UpdateIssue(ctx context.Context, issue *Issue) error
}
