package comment

import (
	"time"

	"softdesk-go/internal/domain/access"
)

type Comment struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	UUID         string    `gorm:"type:uuid;not null;uniqueIndex"`
	Title        string    `gorm:"size:200;not null"`
	Description  string    `gorm:"size:1850;not null"`
	AuthorUserID string    `gorm:"type:uuid;not null"`
	IssueID      string    `gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime;column:created_time"`
}

// IssueSnapshot carries the parent chain state the comment rules consume.
type IssueSnapshot struct {
	ID            string
	ProjectID     string
	ProjectStatus access.ProjectStatus
}

type CreateCommentInput struct {
	ProjectID   string
	IssueID     string
	Title       string
	Description string
}

type UpdateCommentInput struct {
	ProjectID   string
	IssueID     string
	CommentID   string
	Title       *string
	Description *string
}
