package project

import (
	"context"

	"softdesk-go/internal/domain/access"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetProjectByID(ctx context.Context, projectID string) (*Project, error)
	ListProjects(ctx context.Context, limit, offset int) ([]Project, int64, error)
	ListProjectsByUser(ctx context.Context, userID string, limit, offset int) ([]Project, int64, error)
	CreateProject(ctx context.Context, project *Project) error
	UpdateProject(ctx context.Context, project *Project) error
	ListRoles(ctx context.Context, projectID, userID string) ([]access.Role, error)
	ListContributors(ctx context.Context, projectID string, limit, offset int) ([]Contributor, int64, error)
	ListContributorRows(ctx context.Context, projectID, userID string) ([]Contributor, error)
	CreateContributor(ctx context.Context, contributor *Contributor) error
	DeleteContributorRole(ctx context.Context, projectID, userID string, role access.Role) (bool, error)
	GetCandidate(ctx context.Context, userID string) (*Candidate, error)
	CountIssues(ctx context.Context, projectID string) (int64, error)
	// FinishIssues force-transitions every issue of the project to Finished.
	FinishIssues(ctx context.Context, projectID string) error
	// ClearIssueAssignee nulls the assignee reference on the project's issues
	// where the given user is assigned.
	ClearIssueAssignee(ctx context.Context, projectID, userID string) error
}
