package project

import (
	"context"
	"errors"

	"softdesk-go/internal/domain/access"
	identitydomain "softdesk-go/internal/domain/identity"
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

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(projectdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetProjectByID(ctx context.Context, projectID string) (*projectdomain.Project, error) {
	var proj projectdomain.Project
	if err := r.db.WithContext(ctx).Where("id = ?", projectID).First(&proj).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, projectdomain.ErrProjectNotFound
		}
		return nil, err
	}
	return &proj, nil
}

func (r *PostgresRepository) ListProjects(ctx context.Context, limit, offset int) ([]projectdomain.Project, int64, error) {
	return r.listProjects(ctx, r.db.WithContext(ctx).Model(&projectdomain.Project{}), limit, offset)
}

func (r *PostgresRepository) ListProjectsByUser(ctx context.Context, userID string, limit, offset int) ([]projectdomain.Project, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&projectdomain.Project{}).
		Where("id IN (?)", r.db.
			Model(&projectdomain.Contributor{}).
			Select("project_id").
			Where("user_id = ?", userID))
	return r.listProjects(ctx, query, limit, offset)
}

func (r *PostgresRepository) listProjects(ctx context.Context, query *gorm.DB, limit, offset int) ([]projectdomain.Project, int64, error) {
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

	var projects []projectdomain.Project
	if err := query.Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (r *PostgresRepository) CreateProject(ctx context.Context, proj *projectdomain.Project) error {
	return r.db.WithContext(ctx).Create(proj).Error
}

func (r *PostgresRepository) UpdateProject(ctx context.Context, proj *projectdomain.Project) error {
	return r.db.WithContext(ctx).
		Model(&projectdomain.Project{}).
		Where("id = ?", proj.ID).
		Updates(map[string]interface{}{
			"title":       proj.Title,
			"description": proj.Description,
			"type":        proj.Type,
			"status":      proj.Status,
		}).Error
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

func (r *PostgresRepository) ListContributors(ctx context.Context, projectID string, limit, offset int) ([]projectdomain.Contributor, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&projectdomain.Contributor{}).
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

	var rows []projectdomain.Contributor
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *PostgresRepository) ListContributorRows(ctx context.Context, projectID, userID string) ([]projectdomain.Contributor, error) {
	var rows []projectdomain.Contributor
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Order("role asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) CreateContributor(ctx context.Context, contributor *projectdomain.Contributor) error {
	return r.db.WithContext(ctx).Create(contributor).Error
}

func (r *PostgresRepository) DeleteContributorRole(ctx context.Context, projectID, userID string, role access.Role) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&projectdomain.Contributor{}, "project_id = ? AND user_id = ? AND role = ?", projectID, userID, role)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) GetCandidate(ctx context.Context, userID string) (*projectdomain.Candidate, error) {
	var user identitydomain.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, projectdomain.ErrCandidateNotFound
		}
		return nil, err
	}
	return &projectdomain.Candidate{
		ID:             user.ID,
		CanContribute:  user.CanContributeToProject,
		CanBeContacted: user.CanBeContacted,
	}, nil
}

func (r *PostgresRepository) CountIssues(ctx context.Context, projectID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&issuedomain.Issue{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) FinishIssues(ctx context.Context, projectID string) error {
	return r.db.WithContext(ctx).
		Model(&issuedomain.Issue{}).
		Where("project_id = ? AND status <> ?", projectID, access.IssueFinished).
		Update("status", access.IssueFinished).Error
}

func (r *PostgresRepository) ClearIssueAssignee(ctx context.Context, projectID, userID string) error {
	return r.db.WithContext(ctx).
		Model(&issuedomain.Issue{}).
		Where("project_id = ? AND assignee_user_id = ?", projectID, userID).
		Update("assignee_user_id", nil).Error
}
