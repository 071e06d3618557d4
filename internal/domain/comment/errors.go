package comment

import "errors"

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrIssueNotFound   = errors.New("issue not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrProjectClosed   = errors.New("project is not open")
	ErrForbidden       = errors.New("forbidden")
)
