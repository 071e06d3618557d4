package comment

import (
	"context"
	"errors"
	"testing"

	"softdesk-go/internal/domain/access"
)

type fakeMembership struct {
	projectID string
	userID    string
	role      access.Role
}

type fakeCommentRepo struct {
	issues      map[string]*IssueSnapshot
	memberships []fakeMembership
	comments    map[string]*Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{
		issues:   make(map[string]*IssueSnapshot),
		comments: make(map[string]*Comment),
	}
}

func (r *fakeCommentRepo) addMembership(projectID, userID string, roles ...access.Role) {
	for _, role := range roles {
		r.memberships = append(r.memberships, fakeMembership{projectID: projectID, userID: userID, role: role})
	}
}

func (r *fakeCommentRepo) GetIssue(ctx context.Context, projectID, issueID string) (*IssueSnapshot, error) {
	snapshot, ok := r.issues[issueID]
	if !ok {
		return nil, ErrIssueNotFound
	}
	if snapshot.ProjectID != projectID {
		return nil, ErrIssueNotFound
	}
	return snapshot, nil
}

func (r *fakeCommentRepo) ListRoles(ctx context.Context, projectID, userID string) ([]access.Role, error) {
	roles := make([]access.Role, 0)
	for _, row := range r.memberships {
		if row.projectID == projectID && row.userID == userID {
			roles = append(roles, row.role)
		}
	}
	return roles, nil
}

func (r *fakeCommentRepo) ListComments(ctx context.Context, issueID string, limit, offset int) ([]Comment, int64, error) {
	result := make([]Comment, 0)
	for _, record := range r.comments {
		if record.IssueID == issueID {
			result = append(result, *record)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeCommentRepo) GetComment(ctx context.Context, issueID, commentID string) (*Comment, error) {
	record, ok := r.comments[commentID]
	if !ok || record.IssueID != issueID {
		return nil, ErrCommentNotFound
	}
	return record, nil
}

func (r *fakeCommentRepo) CreateComment(ctx context.Context, record *Comment) error {
	r.comments[record.ID] = record
	return nil
}

func (r *fakeCommentRepo) UpdateComment(ctx context.Context, record *Comment) error {
	if _, ok := r.comments[record.ID]; !ok {
		return ErrCommentNotFound
	}
	r.comments[record.ID] = record
	return nil
}

func (r *fakeCommentRepo) DeleteComment(ctx context.Context, commentID string) (bool, error) {
	if _, ok := r.comments[commentID]; !ok {
		return false, nil
	}
	delete(r.comments, commentID)
	return true, nil
}

func seededRepo() *fakeCommentRepo {
	repo := newFakeCommentRepo()
	repo.issues["i1"] = &IssueSnapshot{ID: "i1", ProjectID: "p1", ProjectStatus: access.ProjectOpen}
	repo.addMembership("p1", "author", access.RoleAuthor, access.RoleContributor)
	repo.addMembership("p1", "member", access.RoleContributor)
	return repo
}

func TestCreateCommentSuccess(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo)

	record, err := svc.CreateComment(context.Background(), access.Identity{UserID: "member"}, CreateCommentInput{
		ProjectID: "p1",
		IssueID:   "i1",
		Title:     "Repro steps",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if record.UUID == "" {
		t.Fatalf("expected generated uuid token")
	}
	if record.AuthorUserID != "member" {
		t.Fatalf("expected author set to actor, got %q", record.AuthorUserID)
	}
	if record.IssueID != "i1" {
		t.Fatalf("expected comment attached to issue, got %q", record.IssueID)
	}
}

func TestCreateCommentNonMemberForbidden(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo)

	_, err := svc.CreateComment(context.Background(), access.Identity{UserID: "outsider"}, CreateCommentInput{
		ProjectID: "p1",
		IssueID:   "i1",
		Title:     "Hi",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCreateCommentClosedProject(t *testing.T) {
	repo := seededRepo()
	repo.issues["i1"].ProjectStatus = access.ProjectArchived
	svc := NewService(repo)

	_, err := svc.CreateComment(context.Background(), access.Identity{UserID: "member"}, CreateCommentInput{
		ProjectID: "p1",
		IssueID:   "i1",
		Title:     "Hi",
	})
	if !errors.Is(err, ErrProjectClosed) {
		t.Fatalf("expected ErrProjectClosed, got %v", err)
	}
}

func TestCreateCommentWrongProjectNotFound(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo)

	_, err := svc.CreateComment(context.Background(), access.Identity{UserID: "member"}, CreateCommentInput{
		ProjectID: "p2",
		IssueID:   "i1",
		Title:     "Hi",
	})
	if !errors.Is(err, ErrIssueNotFound) {
		t.Fatalf("expected ErrIssueNotFound, got %v", err)
	}
}

func TestUpdateCommentOnlyAuthor(t *testing.T) {
	repo := seededRepo()
	repo.comments["c1"] = &Comment{ID: "c1", IssueID: "i1", Title: "Original", AuthorUserID: "member"}
	svc := NewService(repo)

	title := "Edited"
	_, err := svc.UpdateComment(context.Background(), access.Identity{UserID: "author"}, UpdateCommentInput{
		ProjectID: "p1",
		IssueID:   "i1",
		CommentID: "c1",
		Title:     &title,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-author, got %v", err)
	}

	record, err := svc.UpdateComment(context.Background(), access.Identity{UserID: "member"}, UpdateCommentInput{
		ProjectID: "p1",
		IssueID:   "i1",
		CommentID: "c1",
		Title:     &title,
	})
	if err != nil {
		t.Fatalf("expected author edit, got %v", err)
	}
	if record.Title != "Edited" {
		t.Fatalf("expected edited title, got %q", record.Title)
	}
}

func TestUpdateCommentSuperuserOverride(t *testing.T) {
	repo := seededRepo()
	repo.comments["c1"] = &Comment{ID: "c1", IssueID: "i1", Title: "Original", AuthorUserID: "member"}
	svc := NewService(repo)

	title := "Moderated"
	record, err := svc.UpdateComment(context.Background(), access.Identity{UserID: "admin", Superuser: true}, UpdateCommentInput{
		ProjectID: "p1",
		IssueID:   "i1",
		CommentID: "c1",
		Title:     &title,
	})
	if err != nil {
		t.Fatalf("expected superuser edit, got %v", err)
	}
	if record.Title != "Moderated" {
		t.Fatalf("expected moderated title, got %q", record.Title)
	}
}

func TestDeleteCommentOnlyAuthor(t *testing.T) {
	repo := seededRepo()
	repo.comments["c1"] = &Comment{ID: "c1", IssueID: "i1", Title: "Original", AuthorUserID: "member"}
	svc := NewService(repo)

	err := svc.DeleteComment(context.Background(), access.Identity{UserID: "author"}, "p1", "i1", "c1")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-author, got %v", err)
	}

	if err := svc.DeleteComment(context.Background(), access.Identity{UserID: "member"}, "p1", "i1", "c1"); err != nil {
		t.Fatalf("expected author delete, got %v", err)
	}
	if _, ok := repo.comments["c1"]; ok {
		t.Fatalf("expected comment removed")
	}
}

func TestDeleteCommentClosedProject(t *testing.T) {
	repo := seededRepo()
	repo.issues["i1"].ProjectStatus = access.ProjectCanceled
	repo.comments["c1"] = &Comment{ID: "c1", IssueID: "i1", Title: "Original", AuthorUserID: "member"}
	svc := NewService(repo)

	err := svc.DeleteComment(context.Background(), access.Identity{UserID: "member"}, "p1", "i1", "c1")
	if !errors.Is(err, ErrProjectClosed) {
		t.Fatalf("expected ErrProjectClosed, got %v", err)
	}
}

func TestListCommentsNonMemberForbidden(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo)

	_, _, err := svc.ListComments(context.Background(), access.Identity{UserID: "outsider"}, "p1", "i1", 50, 0)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
