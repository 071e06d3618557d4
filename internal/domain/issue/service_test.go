package issue

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

type fakeIssueRepo struct {
	projects    map[string]*ProjectSnapshot
	memberships []fakeMembership
	issues      map[string]*Issue
}

func newFakeIssueRepo() *fakeIssueRepo {
	return &fakeIssueRepo{
		projects: make(map[string]*ProjectSnapshot),
		issues:   make(map[string]*Issue),
	}
}

func (r *fakeIssueRepo) addMembership(projectID, userID string, roles ...access.Role) {
	for _, role := range roles {
		r.memberships = append(r.memberships, fakeMembership{projectID: projectID, userID: userID, role: role})
	}
}

func (r *fakeIssueRepo) GetProject(ctx context.Context, projectID string) (*ProjectSnapshot, error) {
	proj, ok := r.projects[projectID]
	if !ok {
		return nil, ErrProjectNotFound
	}
	return proj, nil
}

func (r *fakeIssueRepo) ListRoles(ctx context.Context, projectID, userID string) ([]access.Role, error) {
	roles := make([]access.Role, 0)
	for _, row := range r.memberships {
		if row.projectID == projectID && row.userID == userID {
			roles = append(roles, row.role)
		}
	}
	return roles, nil
}

func (r *fakeIssueRepo) HasContributor(ctx context.Context, projectID, userID string) (bool, error) {
	for _, row := range r.memberships {
		if row.projectID == projectID && row.userID == userID && row.role == access.RoleContributor {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeIssueRepo) ListIssues(ctx context.Context, projectID string, limit, offset int) ([]Issue, int64, error) {
	result := make([]Issue, 0)
	for _, record := range r.issues {
		if record.ProjectID == projectID {
			result = append(result, *record)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeIssueRepo) GetIssue(ctx context.Context, projectID, issueID string) (*Issue, error) {
	record, ok := r.issues[issueID]
	if !ok || record.ProjectID != projectID {
		return nil, ErrIssueNotFound
	}
	return record, nil
}

func (r *fakeIssueRepo) CreateIssue(ctx context.Context, record *Issue) error {
	r.issues[record.ID] = record
	return nil
}

func (r *fakeIssueRepo) UpdateIssue(ctx context.Context, record *Issue) error {
	if _, ok := r.issues[record.ID]; !ok {
		return ErrIssueNotFound
	}
	r.issues[record.ID] = record
	return nil
}

func openProjectRepo() *fakeIssueRepo {
	repo := newFakeIssueRepo()
	repo.projects["p1"] = &ProjectSnapshot{ID: "p1", Status: access.ProjectOpen}
	repo.addMembership("p1", "author", access.RoleAuthor, access.RoleContributor)
	repo.addMembership("p1", "member", access.RoleContributor)
	return repo
}

func seedIssue(repo *fakeIssueRepo, id, authorID string, status access.IssueStatus) *Issue {
	author := authorID
	record := &Issue{
		ID:           id,
		Title:        "Crash on login",
		Tag:          TagBug,
		Priority:     PriorityHigh,
		Status:       status,
		ProjectID:    "p1",
		AuthorUserID: &author,
	}
	repo.issues[id] = record
	return record
}

func TestCreateIssueSuccess(t *testing.T) {
	repo := openProjectRepo()
	svc := NewService(repo)

	record, err := svc.CreateIssue(context.Background(), access.Identity{UserID: "member"}, CreateIssueInput{
		ProjectID: "p1",
		Title:     "Crash on login",
		Tag:       TagBug,
		Priority:  PriorityHigh,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if record.Status != access.IssueToDo {
		t.Fatalf("expected default To Do status, got %q", record.Status)
	}
	if record.AuthorUserID == nil || *record.AuthorUserID != "member" {
		t.Fatalf("expected author set to actor, got %v", record.AuthorUserID)
	}
}

func TestCreateIssueNonMemberForbidden(t *testing.T) {
	repo := openProjectRepo()
	svc := NewService(repo)

	_, err := svc.CreateIssue(context.Background(), access.Identity{UserID: "outsider"}, CreateIssueInput{
		ProjectID: "p1",
		Title:     "Crash",
		Tag:       TagBug,
		Priority:  PriorityLow,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCreateIssueClosedProject(t *testing.T) {
	repo := openProjectRepo()
	repo.projects["p1"].Status = access.ProjectArchived
	svc := NewService(repo)

	_, err := svc.CreateIssue(context.Background(), access.Identity{UserID: "member"}, CreateIssueInput{
		ProjectID: "p1",
		Title:     "Crash",
		Tag:       TagBug,
		Priority:  PriorityLow,
	})
	if !errors.Is(err, ErrProjectClosed) {
		t.Fatalf("expected ErrProjectClosed, got %v", err)
	}
}

func TestCreateIssueAssigneeMustBeContributor(t *testing.T) {
	repo := openProjectRepo()
	svc := NewService(repo)

	outsider := "outsider"
	_, err := svc.CreateIssue(context.Background(), access.Identity{UserID: "member"}, CreateIssueInput{
		ProjectID:      "p1",
		Title:          "Crash",
		Tag:            TagBug,
		Priority:       PriorityLow,
		AssigneeUserID: &outsider,
	})
	if !errors.Is(err, ErrAssigneeNotContributor) {
		t.Fatalf("expected ErrAssigneeNotContributor, got %v", err)
	}
}

func TestCreateIssueInvalidTag(t *testing.T) {
	repo := openProjectRepo()
	svc := NewService(repo)

	_, err := svc.CreateIssue(context.Background(), access.Identity{UserID: "member"}, CreateIssueInput{
		ProjectID: "p1",
		Title:     "Crash",
		Tag:       "INCIDENT",
		Priority:  PriorityLow,
	})
	if !errors.Is(err, ErrInvalidTag) {
		t.Fatalf("expected ErrInvalidTag, got %v", err)
	}
}

func TestUpdateIssueOnlyAuthor(t *testing.T) {
	repo := openProjectRepo()
	seedIssue(repo, "i1", "author", access.IssueToDo)
	svc := NewService(repo)

	title := "Updated"
	_, err := svc.UpdateIssue(context.Background(), access.Identity{UserID: "member"}, UpdateIssueInput{
		ProjectID: "p1",
		IssueID:   "i1",
		Title:     &title,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	record, err := svc.UpdateIssue(context.Background(), access.Identity{UserID: "author"}, UpdateIssueInput{
		ProjectID: "p1",
		IssueID:   "i1",
		Title:     &title,
	})
	if err != nil {
		t.Fatalf("expected author update, got %v", err)
	}
	if record.Title != "Updated" {
		t.Fatalf("expected updated title, got %q", record.Title)
	}
}

func TestUpdateIssueFinishedNotMutable(t *testing.T) {
	repo := openProjectRepo()
	seedIssue(repo, "i1", "author", access.IssueFinished)
	svc := NewService(repo)

	title := "Updated"
	_, err := svc.UpdateIssue(context.Background(), access.Identity{UserID: "author"}, UpdateIssueInput{
		ProjectID: "p1",
		IssueID:   "i1",
		Title:     &title,
	})
	if !errors.Is(err, ErrIssueNotMutable) {
		t.Fatalf("expected ErrIssueNotMutable, got %v", err)
	}
}

func TestUpdateIssueClearAssignee(t *testing.T) {
	repo := openProjectRepo()
	record := seedIssue(repo, "i1", "author", access.IssueToDo)
	member := "member"
	record.AssigneeUserID = &member
	svc := NewService(repo)

	updated, err := svc.UpdateIssue(context.Background(), access.Identity{UserID: "author"}, UpdateIssueInput{
		ProjectID:     "p1",
		IssueID:       "i1",
		ClearAssignee: true,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.AssigneeUserID != nil {
		t.Fatalf("expected assignee cleared, got %v", *updated.AssigneeUserID)
	}
}

func TestUpdateStatusByAssignee(t *testing.T) {
	repo := openProjectRepo()
	record := seedIssue(repo, "i1", "author", access.IssueToDo)
	member := "member"
	record.AssigneeUserID = &member
	svc := NewService(repo)

	updated, err := svc.UpdateStatus(context.Background(), access.Identity{UserID: "member"}, "p1", "i1", access.IssueInProgress)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Status != access.IssueInProgress {
		t.Fatalf("expected In Progress, got %q", updated.Status)
	}

	// Moving backwards is allowed.
	updated, err = svc.UpdateStatus(context.Background(), access.Identity{UserID: "member"}, "p1", "i1", access.IssueToDo)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Status != access.IssueToDo {
		t.Fatalf("expected To Do, got %q", updated.Status)
	}
}

func TestUpdateStatusByUninvolvedContributor(t *testing.T) {
	repo := openProjectRepo()
	repo.addMembership("p1", "bystander", access.RoleContributor)
	seedIssue(repo, "i1", "author", access.IssueToDo)
	svc := NewService(repo)

	_, err := svc.UpdateStatus(context.Background(), access.Identity{UserID: "bystander"}, "p1", "i1", access.IssueInProgress)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	repo := openProjectRepo()
	seedIssue(repo, "i1", "author", access.IssueToDo)
	svc := NewService(repo)

	_, err := svc.UpdateStatus(context.Background(), access.Identity{UserID: "author"}, "p1", "i1", "Done")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestFinishByProjectAuthor(t *testing.T) {
	repo := openProjectRepo()
	seedIssue(repo, "i1", "member", access.IssueInProgress)
	svc := NewService(repo)

	if err := svc.Finish(context.Background(), access.Identity{UserID: "author"}, "p1", "i1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.issues["i1"].Status != access.IssueFinished {
		t.Fatalf("expected Finished, got %q", repo.issues["i1"].Status)
	}
}

func TestFinishByIssueAuthorForbidden(t *testing.T) {
	repo := openProjectRepo()
	seedIssue(repo, "i1", "member", access.IssueToDo)
	svc := NewService(repo)

	err := svc.Finish(context.Background(), access.Identity{UserID: "member"}, "p1", "i1")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestFinishAlreadyFinishedNotFound(t *testing.T) {
	repo := openProjectRepo()
	seedIssue(repo, "i1", "member", access.IssueFinished)
	svc := NewService(repo)

	err := svc.Finish(context.Background(), access.Identity{UserID: "author"}, "p1", "i1")
	if !errors.Is(err, ErrIssueNotFound) {
		t.Fatalf("expected ErrIssueNotFound, got %v", err)
	}
}

func TestGetIssueWrongProjectNotFound(t *testing.T) {
	repo := openProjectRepo()
	repo.projects["p2"] = &ProjectSnapshot{ID: "p2", Status: access.ProjectOpen}
	repo.addMembership("p2", "author", access.RoleAuthor, access.RoleContributor)
	seedIssue(repo, "i1", "author", access.IssueToDo)
	svc := NewService(repo)

	_, err := svc.GetIssue(context.Background(), access.Identity{UserID: "author"}, "p2", "i1")
	if !errors.Is(err, ErrIssueNotFound) {
		t.Fatalf("expected ErrIssueNotFound, got %v", err)
	}
}
