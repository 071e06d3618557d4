package access

import "testing"

func strptr(s string) *string { return &s }

func TestAllowSuperuserOverride(t *testing.T) {
	super := Identity{UserID: "admin", Superuser: true}
	plain := Identity{UserID: "user-1"}

	if !Allow(super, false) {
		t.Fatalf("expected superuser to pass a false predicate")
	}
	if Allow(plain, false) {
		t.Fatalf("expected plain user to fail a false predicate")
	}
	if !Allow(plain, true) {
		t.Fatalf("expected plain user to pass a true predicate")
	}
}

func TestMembershipPredicates(t *testing.T) {
	none := Membership{}
	contributor := Membership{Roles: []Role{RoleContributor}}
	both := Membership{Roles: []Role{RoleAuthor, RoleContributor}}

	if IsProjectContributor(none) {
		t.Fatalf("empty membership should not be contributor")
	}
	if !IsProjectContributor(contributor) {
		t.Fatalf("contributor row should count as contributor")
	}
	if IsProjectAuthor(contributor) {
		t.Fatalf("contributor-only membership should not be author")
	}
	if !IsProjectAuthor(both) || !IsProjectContributor(both) {
		t.Fatalf("dual membership should be author and contributor")
	}
}

func TestIssueFieldPredicates(t *testing.T) {
	id := Identity{UserID: "user-1"}

	if IsIssueAuthor(id, nil) {
		t.Fatalf("nil author should never match")
	}
	if !IsIssueAuthor(id, strptr("user-1")) {
		t.Fatalf("expected author match")
	}
	if IsIssueAssignee(id, strptr("user-2")) {
		t.Fatalf("expected assignee mismatch")
	}
	if !IsCommentAuthor(id, "user-1") {
		t.Fatalf("expected comment author match")
	}
}

func TestLifecycleGates(t *testing.T) {
	if !ProjectIsOpen(ProjectOpen) {
		t.Fatalf("Open project should pass the gate")
	}
	if ProjectIsOpen(ProjectArchived) || ProjectIsOpen(ProjectCanceled) {
		t.Fatalf("terminal project statuses should close the gate")
	}
	if !IssueIsMutable(IssueToDo) || !IssueIsMutable(IssueInProgress) {
		t.Fatalf("To Do and In Progress issues should be mutable")
	}
	if IssueIsMutable(IssueFinished) {
		t.Fatalf("Finished issues should not be mutable")
	}
}

func TestVocabularies(t *testing.T) {
	if !RoleValid(RoleAuthor) || !RoleValid(RoleContributor) {
		t.Fatalf("canonical roles should validate")
	}
	if RoleValid("ADMIN") {
		t.Fatalf("unknown role should not validate")
	}
	if !ProjectStatusValid(ProjectCanceled) {
		t.Fatalf("Canceled should validate")
	}
	if ProjectStatusValid("Closed") {
		t.Fatalf("unknown project status should not validate")
	}
	if !IssueStatusValid(IssueFinished) {
		t.Fatalf("Finished should validate")
	}
	if IssueStatusValid("Done") {
		t.Fatalf("unknown issue status should not validate")
	}
}
