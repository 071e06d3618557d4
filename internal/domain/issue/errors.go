package issue

import "errors"

var (
	ErrProjectNotFound        = errors.New("project not found")
	ErrIssueNotFound          = errors.New("issue not found")
	ErrProjectClosed          = errors.New("project is not open")
	ErrIssueNotMutable        = errors.New("issue is finished")
	ErrAssigneeNotContributor = errors.New("assignee is not a contributor of the project")
	ErrInvalidTag             = errors.New("unknown issue tag")
	ErrInvalidPriority        = errors.New("unknown issue priority")
	ErrInvalidStatus          = errors.New("unknown issue status")
	ErrForbidden              = errors.New("forbidden")
)
