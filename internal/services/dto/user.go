package dto

import (
	"time"

	"smartattend_backend/internal/models"
)

const dateLayout = "2006-01-02"

// UserResponse is the user projection returned by the API.
type UserResponse struct {
	ID                 string  `json:"id"`
	FullName           string  `json:"fullName"`
	Email              string  `json:"email"`
	Role               string  `json:"role"`
	Department         string  `json:"department"`
	ProfileImage       string  `json:"profileImage"`
	Phone              string  `json:"phone"`
	Address            string  `json:"address"`
	DateOfBirth        *string `json:"dateOfBirth"`
	StudentID          string  `json:"studentId"`
	RegistrationNumber string  `json:"registrationNumber"`
	JoinDate           *string `json:"joinDate"`
	IsActive           bool    `json:"isActive"`
	LastLogin          *string `json:"lastLogin"`
	ACMMember          bool    `json:"acmMember"`
	ACMRole            string  `json:"acmRole"`
	Year               string  `json:"year"`
	Section            string  `json:"section"`
}

func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:                 u.ID,
		FullName:           u.FullName,
		Email:              u.Email,
		Role:               string(u.Role),
		Department:         u.Department,
		ProfileImage:       u.ProfileImage,
		Phone:              u.Phone,
		Address:            u.Address,
		DateOfBirth:        formatDate(u.DateOfBirth),
		StudentID:          u.StudentID,
		RegistrationNumber: u.RegistrationNumber,
		JoinDate:           formatDate(u.JoinDate),
		IsActive:           u.IsActive,
		LastLogin:          formatTime(u.LastLogin),
		ACMMember:          u.ACMMember,
		ACMRole:            u.ACMRole,
		Year:               u.Year,
		Section:            u.Section,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// UpdateUserRequest is a partial update; nil means "leave unchanged".
// It binds from both JSON and multipart form data.
type UpdateUserRequest struct {
	FullName           *string `json:"fullName" form:"fullName"`
	Email              *string `json:"email" form:"email" validate:"omitempty,email"`
	Phone              *string `json:"phone" form:"phone"`
	Address            *string `json:"address" form:"address"`
	DateOfBirth        *string `json:"dateOfBirth" form:"dateOfBirth"`
	Department         *string `json:"department" form:"department"`
	ProfileImage       *string `json:"profileImage" form:"-"`
	StudentID          *string `json:"studentId" form:"studentId"`
	RegistrationNumber *string `json:"registrationNumber" form:"registrationNumber"`
	ACMMember          *bool   `json:"acmMember" form:"acmMember"`
	ACMRole            *string `json:"acmRole" form:"acmRole"`
	Year               *string `json:"year" form:"year"`
	Section            *string `json:"section" form:"section"`
	IsActive           *bool   `json:"isActive" form:"isActive"`
	Role               *string `json:"role" form:"role" validate:"omitempty,is-user-role"`
}

// AvatarFile is a raw avatar image received as a multipart upload.
type AvatarFile struct {
	Data     []byte
	Filename string
}

type UserListResponse struct {
	Success bool           `json:"success"`
	Users   []UserResponse `json:"users"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	Pages   int64          `json:"pages"`
}
