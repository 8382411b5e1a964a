package services

import (
	"smartattend_backend/internal/appErrors"
	"smartattend_backend/internal/repositories"
)

type AttendanceService interface {
	// GetTotalEventsCount returns the number of attendance events held so
	// far, one per subject session row.
	GetTotalEventsCount() (int64, error)
}

type AttendanceServiceImpl struct {
	attendanceRepo repositories.AttendanceRepository
}

func NewAttendanceService(attendanceRepo repositories.AttendanceRepository) AttendanceService {
	return &AttendanceServiceImpl{attendanceRepo: attendanceRepo}
}

func (s *AttendanceServiceImpl) GetTotalEventsCount() (int64, error) {
	count, err := s.attendanceRepo.CountEvents()
	if err != nil {
		return 0, appErrors.DatabaseError(err)
	}
	return count, nil
}
