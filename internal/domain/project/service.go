package project

import (
	"context"
	"fmt"
	"strings"

	"softdesk-go/internal/domain/access"
	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateProject opens a new project and records its creator as both AUTHOR
// and CONTRIBUTOR in one transaction.
func (s *Service) CreateProject(ctx context.Context, actor access.Identity, input CreateProjectInput) (*Project, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if !TypeValid(input.Type) {
		return nil, ErrInvalidType
	}

	proj := Project{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Type:        input.Type,
		Status:      access.ProjectOpen,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateProject(ctx, &proj); err != nil {
			return err
		}
		for _, role := range []access.Role{access.RoleAuthor, access.RoleContributor} {
			row := Contributor{
				ID:        uuid.NewString(),
				UserID:    actor.UserID,
				ProjectID: proj.ID,
				Role:      role,
			}
			if err := tx.CreateContributor(ctx, &row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &proj, nil
}

// ListProjects returns every project for superusers and only the caller's
// contributions otherwise. Non-members get a filtered list, never a denial.
func (s *Service) ListProjects(ctx context.Context, actor access.Identity, limit, offset int) ([]Project, int64, error) {
	if actor.Superuser {
		return s.repo.ListProjects(ctx, limit, offset)
	}
	return s.repo.ListProjectsByUser(ctx, actor.UserID, limit, offset)
}

func (s *Service) GetProject(ctx context.Context, actor access.Identity, projectID string) (*Project, error) {
	proj, err := s.repo.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	membership, err := s.membership(ctx, projectID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !access.Allow(actor, access.IsProjectContributor(membership)) {
		return nil, ErrForbidden
	}

	return proj, nil
}

// UpdateProject applies field updates, author-or-superuser only. Setting the
// status away from Open force-finishes every issue of the project in the same
// transaction.
func (s *Service) UpdateProject(ctx context.Context, actor access.Identity, input UpdateProjectInput) (*Project, error) {
	proj, err := s.repo.GetProjectByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	membership, err := s.membership(ctx, proj.ID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !access.Allow(actor, access.IsProjectAuthor(membership)) {
		return nil, ErrForbidden
	}
	if !actor.Superuser && !access.ProjectIsOpen(proj.Status) {
		return nil, ErrProjectClosed
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("title is required")
		}
		proj.Title = title
	}
	if input.Description != nil {
		proj.Description = strings.TrimSpace(*input.Description)
	}
	if input.Type != nil {
		if !TypeValid(*input.Type) {
			return nil, ErrInvalidType
		}
		proj.Type = *input.Type
	}

	leavingOpen := false
	if input.Status != nil {
		if !access.ProjectStatusValid(*input.Status) {
			return nil, ErrInvalidStatus
		}
		leavingOpen = *input.Status != access.ProjectOpen && proj.Status == access.ProjectOpen
		proj.Status = *input.Status
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.UpdateProject(ctx, proj); err != nil {
			return err
		}
		if leavingOpen {
			return tx.FinishIssues(ctx, proj.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return proj, nil
}

// ArchiveOrCancel is the delete-shaped lifecycle transition: a project with
// no issues is Canceled, one with issues is Archived and its issues are all
// force-finished. A project that already left Open is no longer actionable.
func (s *Service) ArchiveOrCancel(ctx context.Context, actor access.Identity, projectID string) error {
	proj, err := s.repo.GetProjectByID(ctx, projectID)
	if err != nil {
		return err
	}
	if !access.ProjectIsOpen(proj.Status) {
		return ErrProjectNotFound
	}

	membership, err := s.membership(ctx, proj.ID, actor.UserID)
	if err != nil {
		return err
	}
	if !access.Allow(actor, access.IsProjectAuthor(membership)) {
		return ErrForbidden
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		count, err := tx.CountIssues(ctx, proj.ID)
		if err != nil {
			return err
		}
		if count == 0 {
			proj.Status = access.ProjectCanceled
		} else {
			proj.Status = access.ProjectArchived
			if err := tx.FinishIssues(ctx, proj.ID); err != nil {
				return err
			}
		}
		return tx.UpdateProject(ctx, proj)
	})
}

func (s *Service) ListContributors(ctx context.Context, actor access.Identity, projectID string, limit, offset int) ([]Contributor, int64, error) {
	proj, err := s.repo.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, 0, err
	}

	membership, err := s.membership(ctx, proj.ID, actor.UserID)
	if err != nil {
		return nil, 0, err
	}
	if !access.Allow(actor, access.IsProjectContributor(membership)) {
		return nil, 0, ErrForbidden
	}

	return s.repo.ListContributors(ctx, proj.ID, limit, offset)
}

func (s *Service) GetContributor(ctx context.Context, actor access.Identity, projectID, userID string) ([]Contributor, error) {
	proj, err := s.repo.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	membership, err := s.membership(ctx, proj.ID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !access.Allow(actor, access.IsProjectContributor(membership)) {
		return nil, ErrForbidden
	}

	rows, err := s.repo.ListContributorRows(ctx, proj.ID, userID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrContributorNotFound
	}
	return rows, nil
}

// AddContributor records a CONTRIBUTOR row for an eligible candidate,
// author-or-superuser only, while the project is Open.
func (s *Service) AddContributor(ctx context.Context, actor access.Identity, projectID, candidateID string) (*Contributor, error) {
	proj, err := s.repo.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	membership, err := s.membership(ctx, proj.ID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !access.Allow(actor, access.IsProjectAuthor(membership)) {
		return nil, ErrForbidden
	}
	if !access.ProjectIsOpen(proj.Status) {
		return nil, ErrProjectClosed
	}

	candidate, err := s.repo.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	existing, err := s.membership(ctx, proj.ID, candidate.ID)
	if err != nil {
		return nil, err
	}
	if existing.HasRole(access.RoleContributor) {
		return nil, ErrAlreadyContributor
	}
	if !access.CanContribute(candidate.CanContribute) {
		return nil, ErrNotEligible
	}

	row := Contributor{
		ID:        uuid.NewString(),
		UserID:    candidate.ID,
		ProjectID: proj.ID,
		Role:      access.RoleContributor,
	}
	if err := s.repo.CreateContributor(ctx, &row); err != nil {
		return nil, err
	}

	return &row, nil
}

// RemoveContributor drops the user's CONTRIBUTOR row and nulls the assignee
// reference on every issue of the project assigned to that user, in one
// transaction. AUTHOR rows are never removed through this path.
func (s *Service) RemoveContributor(ctx context.Context, actor access.Identity, projectID, userID string) error {
	proj, err := s.repo.GetProjectByID(ctx, projectID)
	if err != nil {
		return err
	}

	membership, err := s.membership(ctx, proj.ID, actor.UserID)
	if err != nil {
		return err
	}
	if !access.Allow(actor, access.IsProjectAuthor(membership)) {
		return ErrForbidden
	}
	if !access.ProjectIsOpen(proj.Status) {
		return ErrProjectClosed
	}

	target, err := s.membership(ctx, proj.ID, userID)
	if err != nil {
		return err
	}
	if !target.HasRole(access.RoleContributor) {
		if target.HasRole(access.RoleAuthor) {
			return ErrAuthorImmutable
		}
		return ErrContributorNotFound
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		removed, err := tx.DeleteContributorRole(ctx, proj.ID, userID, access.RoleContributor)
		if err != nil {
			return err
		}
		if !removed {
			return ErrContributorNotFound
		}
		return tx.ClearIssueAssignee(ctx, proj.ID, userID)
	})
}

func (s *Service) membership(ctx context.Context, projectID, userID string) (access.Membership, error) {
	roles, err := s.repo.ListRoles(ctx, projectID, userID)
	if err != nil {
		return access.Membership{}, err
	}
	return access.Membership{Roles: roles}, nil
}
