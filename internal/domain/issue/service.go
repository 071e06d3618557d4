package issue

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

// CreateIssue files an issue. The actor must currently hold a membership on
// the project (or be superuser); the assignee, when given, must hold a
// CONTRIBUTOR row at assignment time.
func (s *Service) CreateIssue(ctx context.Context, actor access.Identity, input CreateIssueInput) (*Issue, error) {
	proj, err := s.repo.GetProject(ctx, input.ProjectID)
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
	if !access.ProjectIsOpen(proj.Status) {
		return nil, ErrProjectClosed
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if !TagValid(input.Tag) {
		return nil, ErrInvalidTag
	}
	if !PriorityValid(input.Priority) {
		return nil, ErrInvalidPriority
	}
	status := input.Status
	if status == "" {
		status = access.IssueToDo
	}
	if !access.IssueStatusValid(status) {
		return nil, ErrInvalidStatus
	}

	if input.AssigneeUserID != nil {
		if err := s.checkAssignee(ctx, proj.ID, *input.AssigneeUserID); err != nil {
			return nil, err
		}
	}

	author := actor.UserID
	record := Issue{
		ID:             uuid.NewString(),
		Title:          title,
		Description:    strings.TrimSpace(input.Description),
		Tag:            input.Tag,
		Priority:       input.Priority,
		Status:         status,
		ProjectID:      proj.ID,
		AuthorUserID:   &author,
		AssigneeUserID: input.AssigneeUserID,
	}

	if err := s.repo.CreateIssue(ctx, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

func (s *Service) ListIssues(ctx context.Context, actor access.Identity, projectID string, limit, offset int) ([]Issue, int64, error) {
	proj, err := s.repo.GetProject(ctx, projectID)
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

	return s.repo.ListIssues(ctx, proj.ID, limit, offset)
}

func (s *Service) GetIssue(ctx context.Context, actor access.Identity, projectID, issueID string) (*Issue, error) {
	proj, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	record, err := s.repo.GetIssue(ctx, proj.ID, issueID)
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

	return record, nil
}

// UpdateIssue applies field updates, issue-author-or-superuser only, while
// the project is Open and the issue has not reached its terminal status.
func (s *Service) UpdateIssue(ctx context.Context, actor access.Identity, input UpdateIssueInput) (*Issue, error) {
	proj, err := s.repo.GetProject(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	record, err := s.repo.GetIssue(ctx, proj.ID, input.IssueID)
	if err != nil {
		return nil, err
	}

	if !access.Allow(actor, access.IsIssueAuthor(actor, record.AuthorUserID)) {
		return nil, ErrForbidden
	}
	if !access.ProjectIsOpen(proj.Status) {
		return nil, ErrProjectClosed
	}
	if !access.IssueIsMutable(record.Status) {
		return nil, ErrIssueNotMutable
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("title is required")
		}
		record.Title = title
	}
	if input.Description != nil {
		record.Description = strings.TrimSpace(*input.Description)
	}
	if input.Tag != nil {
		if !TagValid(*input.Tag) {
			return nil, ErrInvalidTag
		}
		record.Tag = *input.Tag
	}
	if input.Priority != nil {
		if !PriorityValid(*input.Priority) {
			return nil, ErrInvalidPriority
		}
		record.Priority = *input.Priority
	}
	if input.ClearAssignee {
		record.AssigneeUserID = nil
	} else if input.AssigneeUserID != nil {
		if err := s.checkAssignee(ctx, proj.ID, *input.AssigneeUserID); err != nil {
			return nil, err
		}
		record.AssigneeUserID = input.AssigneeUserID
	}

	if err := s.repo.UpdateIssue(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// UpdateStatus is the dedicated status-transition operation: issue author,
// assignee or superuser, free movement among the three states while the
// project stays Open.
func (s *Service) UpdateStatus(ctx context.Context, actor access.Identity, projectID, issueID string, status access.IssueStatus) (*Issue, error) {
	proj, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	record, err := s.repo.GetIssue(ctx, proj.ID, issueID)
	if err != nil {
		return nil, err
	}

	allowed := access.IsIssueAuthor(actor, record.AuthorUserID) ||
		access.IsIssueAssignee(actor, record.AssigneeUserID)
	if !access.Allow(actor, allowed) {
		return nil, ErrForbidden
	}
	if !access.ProjectIsOpen(proj.Status) {
		return nil, ErrProjectClosed
	}
	if !access.IssueStatusValid(status) {
		return nil, ErrInvalidStatus
	}

	record.Status = status
	if err := s.repo.UpdateIssue(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// Finish is the delete-shaped transition: only the project author (or a
// superuser) may force an issue to Finished. An already-Finished issue is no
// longer actionable.
func (s *Service) Finish(ctx context.Context, actor access.Identity, projectID, issueID string) error {
	proj, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	record, err := s.repo.GetIssue(ctx, proj.ID, issueID)
	if err != nil {
		return err
	}
	if record.Status == access.IssueFinished {
		return ErrIssueNotFound
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

	record.Status = access.IssueFinished
	return s.repo.UpdateIssue(ctx, record)
}

func (s *Service) checkAssignee(ctx context.Context, projectID, assigneeID string) error {
	ok, err := s.repo.HasContributor(ctx, projectID, assigneeID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAssigneeNotContributor
	}
	return nil
}

func (s *Service) membership(ctx context.Context, projectID, userID string) (access.Membership, error) {
	roles, err := s.repo.ListRoles(ctx, projectID, userID)
	if err != nil {
		return access.Membership{}, err
	}
	return access.Membership{Roles: roles}, nil
}
