package users_services

import (
	"log/slog"

	users_repositories "taskdeck-backend/internal/features/users/repositories"

	"github.com/robfig/cron/v3"
)

// SessionBackgroundService periodically removes expired session rows so
// the sessions table does not grow without bound.
type SessionBackgroundService struct {
	sessionRepository *users_repositories.SessionRepository
	logger            *slog.Logger
}

func (s *SessionBackgroundService) Run() {
	scheduler := cron.New()

	_, err := scheduler.AddFunc("@hourly", s.sweepExpiredSessions)
	if err != nil {
		s.logger.Error("Failed to schedule session sweeper", "error", err)
		return
	}

	s.sweepExpiredSessions()
	scheduler.Run()
}

func (s *SessionBackgroundService) sweepExpiredSessions() {
	removed, err := s.sessionRepository.DeleteExpiredSessions()
	if err != nil {
		s.logger.Error("Failed to sweep expired sessions", "error", err)
		return
	}

	if removed > 0 {
		s.logger.Info("Swept expired sessions", "count", removed)
	}
}
