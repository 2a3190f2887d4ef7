package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/suntrail/agency-server/internal/repository"
)

// CleanupJob periodically deletes expired session rows. Expired sessions are
// already invisible to lookups, so this is purely table hygiene.
type CleanupJob struct {
	sessionRepo repository.SessionRepository
	interval    time.Duration
	done        chan struct{}
}

func NewCleanupJob(sessionRepo repository.SessionRepository, interval time.Duration) *CleanupJob {
	return &CleanupJob{
		sessionRepo: sessionRepo,
		interval:    interval,
		done:        make(chan struct{}),
	}
}

func (j *CleanupJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("session cleanup job started")
}

func (j *CleanupJob) Stop() {
	close(j.done)
	log.Info().Msg("session cleanup job stopped")
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.cleanup()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.cleanup()
		}
	}
}

func (j *CleanupJob) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := j.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to cleanup expired sessions")
	} else if count > 0 {
		log.Info().Int64("count", count).Msg("cleaned up expired sessions")
	}
}
