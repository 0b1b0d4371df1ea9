// Package job contains scheduled maintenance jobs run by the server's cron.
package job

import (
	"github.com/sidac/sidac-ui/database"
	"github.com/sidac/sidac-ui/logger"
)

// CheckpointJob flushes the sqlite WAL into the main database file so the
// WAL does not grow unbounded between restarts.
type CheckpointJob struct{}

func NewCheckpointJob() *CheckpointJob {
	return new(CheckpointJob)
}

func (j *CheckpointJob) Run() {
	if err := database.Checkpoint(); err != nil {
		logger.Warning("wal checkpoint failed:", err)
		return
	}
	logger.Debug("wal checkpoint done")
}
