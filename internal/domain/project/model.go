package project

import (
	"time"

	"softdesk-go/internal/domain/access"
)

const (
	TypeBackEnd  = "back-end"
	TypeFrontEnd = "front-end"
	TypeIOS      = "iOS"
	TypeAndroid  = "Android"
)

func TypeValid(projectType string) bool {
	switch projectType {
	case TypeBackEnd, TypeFrontEnd, TypeIOS, TypeAndroid:
		return true
	}
	return false
}

type Project struct {
	ID          string               `gorm:"type:uuid;primaryKey"`
	Title       string               `gorm:"size:200;not null"`
	Description string               `gorm:"size:1850;not null"`
	Type        string               `gorm:"size:35;not null"`
	Status      access.ProjectStatus `gorm:"size:30;not null;default:Open"`
	CreatedAt   time.Time            `gorm:"autoCreateTime;column:created_time"`
}

// Contributor is one membership ledger row. Project creation inserts both an
// AUTHOR and a CONTRIBUTOR row for the creator; a user cannot hold the same
// role twice for one project.
type Contributor struct {
	ID        string      `gorm:"type:uuid;primaryKey"`
	UserID    string      `gorm:"type:uuid;not null;uniqueIndex:idx_contributors_user_project_role"`
	ProjectID string      `gorm:"type:uuid;not null;uniqueIndex:idx_contributors_user_project_role"`
	Role      access.Role `gorm:"size:20;not null;uniqueIndex:idx_contributors_user_project_role"`
	CreatedAt time.Time   `gorm:"autoCreateTime;column:created_time"`
}

// Candidate is the slice of a user record the membership rules consume.
type Candidate struct {
	ID             string
	CanContribute  bool
	CanBeContacted bool
}

type CreateProjectInput struct {
	Title       string
	Description string
	Type        string
}

type UpdateProjectInput struct {
	ID          string
	Title       *string
	Description *string
	Type        *string
	Status      *access.ProjectStatus
}
