package notes

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// TrashBackgroundService purges notes whose trash retention window has
// expired.
type TrashBackgroundService struct {
	noteService *NoteService
	logger      *slog.Logger
}

func (s *TrashBackgroundService) Run() {
	scheduler := cron.New()

	_, err := scheduler.AddFunc("@daily", s.purgeExpiredTrash)
	if err != nil {
		s.logger.Error("Failed to schedule trash sweeper", "error", err)
		return
	}

	s.purgeExpiredTrash()
	scheduler.Run()
}

func (s *TrashBackgroundService) purgeExpiredTrash() {
	purged, err := s.noteService.PurgeExpiredTrash()
	if err != nil {
		s.logger.Error("Failed to purge expired trash", "error", err)
		return
	}

	if purged > 0 {
		s.logger.Info("Purged expired trash", "count", purged)
	}
}
