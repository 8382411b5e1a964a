package models

import "time"

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'user'"`

	FullName           string
	Department         string
	ProfileImage       string
	Phone              string
	Address            string
	DateOfBirth        *time.Time
	StudentID          string `gorm:"column:student_id"`
	RegistrationNumber string
	JoinDate           *time.Time
	IsActive           bool `gorm:"default:true"`
	LastLogin          *time.Time
	ACMMember          bool   `gorm:"column:acm_member;default:false"`
	ACMRole            string `gorm:"column:acm_role"`
	Year               string
	Section            string
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
