package models

import "time"

// Subject is one attendance event; the total events count is the number
// of subject rows.
type Subject struct {
	BaseModel
	Name string `gorm:"not null"`
	Code string `gorm:"index"`
	Date *time.Time
}

type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
)

type AttendanceRecord struct {
	BaseModel
	UserID    string           `gorm:"not null;index"`
	SubjectID string           `gorm:"index"`
	Status    AttendanceStatus `gorm:"type:varchar(20);not null"`
	MarkedAt  time.Time        `gorm:"not null"`
}
