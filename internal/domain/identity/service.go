package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"softdesk-go/internal/domain/access"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo   Repository
	minAge int
	now    func() time.Time
}

// NewService builds the identity service. minAge is the configured minimum
// signup age below which explicit parental approval is required.
func NewService(repo Repository, minAge int) *Service {
	return &Service{repo: repo, minAge: minAge, now: time.Now}
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if input.Password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if input.Password != input.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}
	if input.Birthdate.IsZero() {
		return nil, fmt.Errorf("birthdate is required")
	}

	if ageAt(input.Birthdate, s.now()) < s.minAge && !input.HasParentalApprovement {
		return nil, ErrParentalApprovalRequired
	}

	if _, err := s.repo.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:                     uuid.NewString(),
		Username:               username,
		Email:                  email,
		FirstName:              strings.TrimSpace(input.FirstName),
		LastName:               strings.TrimSpace(input.LastName),
		PasswordHash:           string(hash),
		Birthdate:              input.Birthdate,
		CanBeContacted:         input.CanBeContacted,
		CanDataBeShared:        input.CanDataBeShared,
		CanProfileViewable:     input.CanProfileViewable,
		CanContributeToProject: input.CanContributeToProject,
		HasParentalApprovement: input.HasParentalApprovement,
	}

	if err := s.repo.CreateUser(ctx, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// Authenticate verifies username/password for the credential layer. The same
// error covers an unknown user and a bad password.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *Service) GetUserByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// ListUsers filters to data-sharing profiles for non-superusers instead of
// denying; the caller always gets a list.
func (s *Service) ListUsers(ctx context.Context, actor access.Identity, limit, offset int) ([]User, int64, error) {
	return s.repo.ListUsers(ctx, !actor.Superuser, limit, offset)
}

func (s *Service) GetUser(ctx context.Context, actor access.Identity, userID string) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !access.Allow(actor, access.IsSelf(actor, user.ID) || user.CanProfileViewable) {
		return nil, ErrForbidden
	}

	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, actor access.Identity, input UpdateUserInput) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if !access.Allow(actor, access.IsSelf(actor, user.ID)) {
		return nil, ErrForbidden
	}
	if input.Birthdate != nil && !input.Birthdate.Equal(user.Birthdate) {
		return nil, ErrBirthdateImmutable
	}

	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, fmt.Errorf("email is required")
		}
		if email != user.Email {
			if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
				return nil, ErrEmailTaken
			} else if !errors.Is(err, ErrUserNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.CanBeContacted != nil {
		user.CanBeContacted = *input.CanBeContacted
	}
	if input.CanDataBeShared != nil {
		user.CanDataBeShared = *input.CanDataBeShared
	}
	if input.CanProfileViewable != nil {
		user.CanProfileViewable = *input.CanProfileViewable
	}
	if input.CanContributeToProject != nil {
		user.CanContributeToProject = *input.CanContributeToProject
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) ChangePassword(ctx context.Context, actor access.Identity, userID, password, passwordConfirm string) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !access.Allow(actor, access.IsSelf(actor, user.ID)) {
		return ErrForbidden
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if password != passwordConfirm {
		return ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, user.ID, string(hash))
}

// DeleteUser removes the account. Issues the user authored or was assigned to
// are kept; assignee references are nulled and memberships dropped in the
// same transaction.
func (s *Service) DeleteUser(ctx context.Context, actor access.Identity, userID string) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !access.Allow(actor, access.IsSelf(actor, user.ID)) {
		return ErrForbidden
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.ClearAssignedIssues(ctx, user.ID); err != nil {
			return err
		}
		if err := tx.DeleteMemberships(ctx, user.ID); err != nil {
			return err
		}
		return tx.DeleteUser(ctx, user.ID)
	})
}

func ageAt(birthdate, today time.Time) int {
	age := today.Year() - birthdate.Year()
	if today.Month() < birthdate.Month() ||
		(today.Month() == birthdate.Month() && today.Day() < birthdate.Day()) {
		age--
	}
	return age
}
