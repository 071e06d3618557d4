package project

import "errors"

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrCandidateNotFound   = errors.New("candidate user not found")
	ErrContributorNotFound = errors.New("contributor not found")
	ErrAlreadyContributor  = errors.New("user is already a contributor")
	ErrNotEligible         = errors.New("user cannot be added to a project")
	ErrAuthorImmutable     = errors.New("author membership cannot be removed")
	ErrProjectClosed       = errors.New("project is not open")
	ErrInvalidType         = errors.New("unknown project type")
	ErrInvalidStatus       = errors.New("unknown project status")
	ErrForbidden           = errors.New("forbidden")
)
