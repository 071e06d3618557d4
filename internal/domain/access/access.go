// Package access is the authorization rule engine: the shared role and
// lifecycle vocabulary plus the named predicates every endpoint composes.
// Predicates are pure functions over snapshots loaded for the current
// request; results are never cached across requests.
package access

type Role string

const (
	RoleAuthor      Role = "AUTHOR"
	RoleContributor Role = "CONTRIBUTOR"
)

func RoleValid(role Role) bool {
	return role == RoleAuthor || role == RoleContributor
}

type ProjectStatus string

const (
	ProjectOpen     ProjectStatus = "Open"
	ProjectArchived ProjectStatus = "Archived"
	ProjectCanceled ProjectStatus = "Canceled"
)

func ProjectStatusValid(status ProjectStatus) bool {
	switch status {
	case ProjectOpen, ProjectArchived, ProjectCanceled:
		return true
	}
	return false
}

type IssueStatus string

const (
	IssueToDo       IssueStatus = "To Do"
	IssueInProgress IssueStatus = "In Progress"
	IssueFinished   IssueStatus = "Finished"
)

func IssueStatusValid(status IssueStatus) bool {
	switch status {
	case IssueToDo, IssueInProgress, IssueFinished:
		return true
	}
	return false
}

// Identity is the resolved authenticated caller, trusted as delivered by the
// credential layer.
type Identity struct {
	UserID    string
	Superuser bool
}

// Membership is the actor's ledger rows for a single project. A user may hold
// AUTHOR and CONTRIBUTOR simultaneously.
type Membership struct {
	Roles []Role
}

func (m Membership) HasRole(role Role) bool {
	for _, held := range m.Roles {
		if held == role {
			return true
		}
	}
	return false
}

// Allow is the single superuser-override combinator. Every endpoint predicate
// is wrapped in it instead of repeating the superuser branch inline.
func Allow(id Identity, allowed bool) bool {
	return id.Superuser || allowed
}

func IsProjectAuthor(m Membership) bool {
	return m.HasRole(RoleAuthor)
}

func IsProjectContributor(m Membership) bool {
	return len(m.Roles) > 0
}

func IsIssueAuthor(id Identity, authorUserID *string) bool {
	return authorUserID != nil && *authorUserID == id.UserID
}

func IsIssueAssignee(id Identity, assigneeUserID *string) bool {
	return assigneeUserID != nil && *assigneeUserID == id.UserID
}

func IsCommentAuthor(id Identity, authorUserID string) bool {
	return authorUserID == id.UserID
}

func IsSelf(id Identity, userID string) bool {
	return id.UserID == userID
}

// CanContribute reports whether a candidate may currently be added to a
// project.
func CanContribute(eligible bool) bool {
	return eligible
}

// ProjectIsOpen is the project lifecycle gate: while false, every mutating
// action on the project or its sub-resources is denied regardless of role.
func ProjectIsOpen(status ProjectStatus) bool {
	return status == ProjectOpen
}

// IssueIsMutable gates issue field updates. Status transitions stay free
// among the three states and are gated separately.
func IssueIsMutable(status IssueStatus) bool {
	return status == IssueToDo || status == IssueInProgress
}
