package identity

import (
	"context"
	"errors"

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

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(identitydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*identitydomain.User, error) {
	return r.getUser(ctx, "id = ?", id)
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*identitydomain.User, error) {
	return r.getUser(ctx, "username = ?", username)
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*identitydomain.User, error) {
	return r.getUser(ctx, "email = ?", email)
}

func (r *PostgresRepository) getUser(ctx context.Context, query string, arg string) (*identitydomain.User, error) {
	var user identitydomain.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identitydomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) ListUsers(ctx context.Context, sharedOnly bool, limit, offset int) ([]identitydomain.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&identitydomain.User{})
	if sharedOnly {
		query = query.Where("can_data_be_shared = ?", true)
	}

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

	var users []identitydomain.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *identitydomain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, user *identitydomain.User) error {
	return r.db.WithContext(ctx).
		Model(&identitydomain.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"email":                       user.Email,
			"first_name":                  user.FirstName,
			"last_name":                   user.LastName,
			"can_be_contacted":            user.CanBeContacted,
			"can_data_be_shared":          user.CanDataBeShared,
			"can_profile_viewable":        user.CanProfileViewable,
			"can_contribute_to_a_project": user.CanContributeToProject,
		}).Error
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&identitydomain.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (r *PostgresRepository) DeleteUser(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&identitydomain.User{}, "id = ?", id).Error
}

func (r *PostgresRepository) ClearAssignedIssues(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&issuedomain.Issue{}).
		Where("assignee_user_id = ?", userID).
		Update("assignee_user_id", nil).Error
}

func (r *PostgresRepository) DeleteMemberships(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Delete(&projectdomain.Contributor{}, "user_id = ?", userID).Error
}
