package issue

import (
	"context"
	"errors"

	"softdesk-go/internal/domain/access"
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

func (r *PostgresRepository) GetProject(ctx context.Context, projectID string) (*issuedomain.ProjectSnapshot, error) {
	var proj projectdomain.Project
	if err := r.db.WithContext(ctx).Where("id = ?", projectID).First(&proj).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, issuedomain.ErrProjectNotFound
		}
		return nil, err
	}
	return &issuedomain.ProjectSnapshot{ID: proj.ID, Status: proj.Status}, nil
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

func (r *PostgresRepository) HasContributor(ctx context.Context, projectID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&projectdomain.Contributor{}).
		Where("project_id = ? AND user_id = ? AND role = ?", projectID, userID, access.RoleContributor).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresRepository) ListIssues(ctx context.Context, projectID string, limit, offset int) ([]issuedomain.Issue, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&issuedomain.Issue{}).
		Where("project_id = ?", projectID)

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

	var issues []issuedomain.Issue
	if err := query.Find(&issues).Error; err != nil {
		return nil, 0, err
	}

	return issues, total, nil
}

func (r *PostgresRepository) GetIssue(ctx context.Context, projectID, issueID string) (*issuedomain.Issue, error) {
	var record issuedomain.Issue
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND id = ?", projectID, issueID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, issuedomain.ErrIssueNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) CreateIssue(ctx context.Context, record *issuedomain.Issue) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *PostgresRepository) UpdateIssue(ctx context.Context, record *issuedomain.Issue) error {
	return r.db.WithContext(ctx).
		Model(&issuedomain.Issue{}).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{
			"title":            record.Title,
			"description":      record.Description,
			"tag":              record.Tag,
			"priority":         record.Priority,
			"status":           record.Status,
			"assignee_user_id": record.AssigneeUserID,
		}).Error
}
