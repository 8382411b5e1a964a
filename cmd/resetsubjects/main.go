// Command resetsubjects empties the subjects table, for wiping the
// attendance event history between semesters.
package main

import (
	"smartattend_backend/internal/config"
	"smartattend_backend/internal/database"
	"smartattend_backend/internal/logger"
	"smartattend_backend/internal/repositories"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)

	db, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	attendanceRepo := repositories.NewAttendanceRepository(db)

	before, err := attendanceRepo.CountEvents()
	if err != nil {
		logger.Fatal("Failed to count subjects", "error", err)
	}

	if err := attendanceRepo.ResetSubjects(); err != nil {
		logger.Fatal("Failed to reset subjects", "error", err)
	}

	logger.Info("Subjects table cleared", "removed", before)
}
