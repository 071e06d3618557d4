package comment

import (
	"context"
	"errors"

	"softdesk-go/internal/domain/access"
	commentdomain "softdesk-go/internal/domain/comment"
	issuedomain "softdesk-go/internal/domain/issue"
	projectdomain "softdesk-go/internal/domain/project"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetIssue(ctx context.Context, projectID, issueID string) (*commentdomain.IssueSnapshot, error) {
	var proj projectdomain.Project
	if err := r.db.WithContext(ctx).Where("id = ?", projectID).First(&proj).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commentdomain.ErrProjectNotFound
		}
		return nil, err
	}

	var record issuedomain.Issue
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND id = ?", proj.ID, issueID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commentdomain.ErrIssueNotFound
		}
		return nil, err
	}

	return &commentdomain.IssueSnapshot{
		ID:            record.ID,
		ProjectID:     proj.ID,
		ProjectStatus: proj.Status,
	}, nil
}

func (r *PostgresRepository) ListRoles(ctx context.Context, projectID, userID string) ([]access.Role, error) {
	var roles []access.Role
	err := r.db.WithContext(ctx).
		Model(&projectdomain.Contributor{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Pluck("role", &roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *PostgresRepository) ListComments(ctx context.Context, issueID string, limit, offset int) ([]commentdomain.Comment, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&commentdomain.Comment{}).
		Where("issue_id = ?", issueID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_time asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var comments []commentdomain.Comment
	if err := query.Find(&comments).Error; err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

func (r *PostgresRepository) GetComment(ctx context.Context, issueID, commentID string) (*commentdomain.Comment, error) {
	var record commentdomain.Comment
	if err := r.db.WithContext(ctx).
		Where("issue_id = ? AND id = ?", issueID, commentID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commentdomain.ErrCommentNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) CreateComment(ctx context.Context, record *commentdomain.Comment) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *PostgresRepository) UpdateComment(ctx context.Context, record *commentdomain.Comment) error {
	return r.db.WithContext(ctx).
		Model(&commentdomain.Comment{}).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{
			"title":       record.Title,
			"description": record.Description,
		}).Error
}

func (r *PostgresRepository) DeleteComment(ctx context.Context, commentID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&commentdomain.Comment{}, "id = ?", commentID)
	return result.RowsAffected > 0, result.Error
}
