package identity

import "time"

// User carries the consent and eligibility flags every authorization rule
// consumes. Birthdate is immutable once set at signup.
type User struct {
	ID                     string    `gorm:"type:uuid;primaryKey"`
	Username               string    `gorm:"size:150;not null;uniqueIndex"`
	Email                  string    `gorm:"size:254;not null;uniqueIndex"`
	FirstName              string    `gorm:"size:150"`
	LastName               string    `gorm:"size:150"`
	PasswordHash           string    `gorm:"not null"`
	Birthdate              time.Time `gorm:"type:date;not null"`
	CanBeContacted         bool      `gorm:"not null;default:true"`
	CanDataBeShared        bool      `gorm:"not null;default:true"`
	CanProfileViewable     bool      `gorm:"not null;default:true"`
	CanContributeToProject bool      `gorm:"not null;default:true;column:can_contribute_to_a_project"`
	HasParentalApprovement bool      `gorm:"not null;default:false"`
	IsSuperuser            bool      `gorm:"not null;default:false"`
	CreatedAt              time.Time `gorm:"autoCreateTime;column:created_time"`
}

func (User) TableName() string { return "users" }

type RegisterInput struct {
	Username               string
	Email                  string
	FirstName              string
	LastName               string
	Birthdate              time.Time
	Password               string
	PasswordConfirm        string
	CanBeContacted         bool
	CanDataBeShared        bool
	CanProfileViewable     bool
	CanContributeToProject bool
	HasParentalApprovement bool
}

type UpdateUserInput struct {
	ID                     string
	Email                  *string
	FirstName              *string
	LastName               *string
	Birthdate              *time.Time
	CanBeContacted         *bool
	CanDataBeShared        *bool
	CanProfileViewable     *bool
	CanContributeToProject *bool
}
