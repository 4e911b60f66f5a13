package jobs

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/teambuildf/oraville-backend/config"
	"github.com/teambuildf/oraville-backend/services"
	"github.com/teambuildf/oraville-backend/utils"
)

// StartDailyReset schedules the pending-task materialization at UTC midnight.
// The job is idempotent (conflict-skipping inserts keyed by the natural key),
// so redundant or overlapping runs are harmless. Returns the running cron so
// the caller can stop it on shutdown.
func StartDailyReset(tasks *services.TaskService) (*cron.Cron, error) {
	cfg := config.Get()

	c := cron.New(cron.WithLocation(time.UTC))
	_, err := c.AddFunc(cfg.DailyResetCron, func() {
		runDailyReset(tasks)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	utils.Sugar.Infof("daily reset job scheduled (%s UTC)", cfg.DailyResetCron)
	return c, nil
}

func runDailyReset(tasks *services.TaskService) {
	start := time.Now()
	created, err := tasks.MaterializeDailyTasks(utils.TodayUTC())
	if err != nil {
		utils.Sugar.Errorf("daily reset failed: %v", err)
		return
	}
	utils.Sugar.Infof("daily reset created %d user tasks in %s", created, time.Since(start).Round(time.Millisecond))
}
