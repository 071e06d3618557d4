package comment

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

// CreateComment files a comment under an issue. Any contributor of the owning
// project may comment while the project is Open; the uuid token is generated
// server-side.
func (s *Service) CreateComment(ctx context.Context, actor access.Identity, input CreateCommentInput) (*Comment, error) {
	snapshot, err := s.repo.GetIssue(ctx, input.ProjectID, input.IssueID)
	if err != nil {
		return nil, err
	}

	membership, err := s.membership(ctx, snapshot.ProjectID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !access.Allow(actor, access.IsProjectContributor(membership)) {
		return nil, ErrForbidden
	}
	if !access.ProjectIsOpen(snapshot.ProjectStatus) {
		return nil, ErrProjectClosed
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	record := Comment{
		ID:           uuid.NewString(),
		UUID:         uuid.NewString(),
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		AuthorUserID: actor.UserID,
		IssueID:      snapshot.ID,
	}

	if err := s.repo.CreateComment(ctx, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

func (s *Service) ListComments(ctx context.Context, actor access.Identity, projectID, issueID string, limit, offset int) ([]Comment, int64, error) {
	snapshot, err := s.repo.GetIssue(ctx, projectID, issueID)
	if err != nil {
		return nil, 0, err
	}

	membership, err := s.membership(ctx, snapshot.ProjectID, actor.UserID)
	if err != nil {
		return nil, 0, err
	}
	if !access.Allow(actor, access.IsProjectContributor(membership)) {
		return nil, 0, ErrForbidden
	}

	return s.repo.ListComments(ctx, snapshot.ID, limit, offset)
}

func (s *Service) GetComment(ctx context.Context, actor access.Identity, projectID, issueID, commentID string) (*Comment, error) {
	snapshot, err := s.repo.GetIssue(ctx, projectID, issueID)
	if err != nil {
		return nil, err
	}
	record, err := s.repo.GetComment(ctx, snapshot.ID, commentID)
	if err != nil {
		return nil, err
	}

	membership, err := s.membership(ctx, snapshot.ProjectID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !access.Allow(actor, access.IsProjectContributor(membership)) {
		return nil, ErrForbidden
	}

	return record, nil
}

func (s *Service) UpdateComment(ctx context.Context, actor access.Identity, input UpdateCommentInput) (*Comment, error) {
	snapshot, err := s.repo.GetIssue(ctx, input.ProjectID, input.IssueID)
	if err != nil {
		return nil, err
	}
	record, err := s.repo.GetComment(ctx, snapshot.ID, input.CommentID)
	if err != nil {
		return nil, err
	}

	if !access.Allow(actor, access.IsCommentAuthor(actor, record.AuthorUserID)) {
		return nil, ErrForbidden
	}
	if !access.ProjectIsOpen(snapshot.ProjectStatus) {
		return nil, ErrProjectClosed
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

	if err := s.repo.UpdateComment(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

func (s *Service) DeleteComment(ctx context.Context, actor access.Identity, projectID, issueID, commentID string) error {
	snapshot, err := s.repo.GetIssue(ctx, projectID, issueID)
	if err != nil {
		return err
	}
	record, err := s.repo.GetComment(ctx, snapshot.ID, commentID)
	if err != nil {
		return err
	}

	if !access.Allow(actor, access.IsCommentAuthor(actor, record.AuthorUserID)) {
		return ErrForbidden
	}
	if !access.ProjectIsOpen(snapshot.ProjectStatus) {
		return ErrProjectClosed
	}

	deleted, err := s.repo.DeleteComment(ctx, record.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCommentNotFound
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
