package issue

import (
	"time"

	"softdesk-go/internal/domain/access"
)

const (
	TagBug     = "BUG"
	TagTask    = "TASK"
	TagFeature = "FEATURE"
)

func TagValid(tag string) bool {
	switch tag {
	case TagBug, TagTask, TagFeature:
		return true
	}
	return false
}

const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

func PriorityValid(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Issue belongs to a project. Author and assignee are nullable: both survive
// user deletion and contributor removal as cleared references, the issue row
// itself is never deleted by those cascades.
type Issue struct {
	ID             string             `gorm:"type:uuid;primaryKey"`
	Title          string             `gorm:"size:200;not null"`
	Description    string             `gorm:"size:1850;not null"`
	Tag            string             `gorm:"size:25;not null"`
	Priority       string             `gorm:"size:25;not null"`
	Status         access.IssueStatus `gorm:"size:30;not null;default:To Do"`
	ProjectID      string             `gorm:"type:uuid;not null;index"`
	AuthorUserID   *string            `gorm:"type:uuid"`
	AssigneeUserID *string            `gorm:"type:uuid"`
	CreatedAt      time.Time          `gorm:"autoCreateTime;column:created_time"`
}

// ProjectSnapshot is the slice of the parent project the issue rules consume.
type ProjectSnapshot struct {
	ID     string
	Status access.ProjectStatus
}

type CreateIssueInput struct {
	ProjectID      string
	Title          string
	Description    string
	Tag            string
	Priority       string
	Status         access.IssueStatus
	AssigneeUserID *string
}

type UpdateIssueInput struct {
	ProjectID      string
	IssueID        string
	Title          *string
	Description    *string
	Tag            *string
	Priority       *string
	AssigneeUserID *string
	ClearAssignee  bool
}
