package repositories

import (
	"smartattend_backend/internal/models"

	"gorm.io/gorm"
)

type AttendanceRepository interface {
	// CountEvents returns the total number of attendance events
	// (one subject row per event).
	CountEvents() (int64, error)
	CountRecordsByUser(userID string) (int64, error)
	// ResetSubjects empties the subjects table. TRUNCATE can fail on
	// foreign-key constraints, in which case it falls back to DELETE.
	ResetSubjects() error
}

type AttendanceRepositoryImpl struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &AttendanceRepositoryImpl{db: db}
}

func (r *AttendanceRepositoryImpl) CountEvents() (int64, error) {
	var count int64
	err := r.db.Model(&models.Subject{}).Count(&count).Error
	return count, err
}

func (r *AttendanceRepositoryImpl) CountRecordsByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.AttendanceRecord{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *AttendanceRepositoryImpl) ResetSubjects() error {
	if err := r.db.Exec("TRUNCATE TABLE subjects").Error; err != nil {
		// Past attendance records keep their subject IDs; the rows just
		// no longer resolve to a subject name.
		return r.db.Exec("DELETE FROM subjects").Error
	}
	return nil
}
