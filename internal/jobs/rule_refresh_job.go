package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RuleRefreshJobName is the name of the cost rule refresh job
const RuleRefreshJobName = "cost-rule-refresh"

// RuleReloader reloads the in-memory cost rule table from the database
type RuleReloader interface {
	Reload(ctx context.Context) error
}

// RuleRefreshJob keeps the cost rule table of this replica in step with
// edits made through other replicas.
type RuleRefreshJob struct {
	reloader RuleReloader
	logger   *zap.Logger
	timeout  time.Duration
}

// NewRuleRefreshJob creates a refresh job. timeout bounds each reload.
func NewRuleRefreshJob(reloader RuleReloader, logger *zap.Logger, timeout time.Duration) *RuleRefreshJob {
	return &RuleRefreshJob{
		reloader: reloader,
		logger:   logger,
		timeout:  timeout,
	}
}

// Run reloads the rules once. A failed reload keeps the previous table.
func (j *RuleRefreshJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	if err := j.reloader.Reload(ctx); err != nil {
		j.logger.Error("cost rule refresh failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Debug("cost rule refresh completed", zap.Duration("duration", time.Since(start)))
}

// RegisterRuleRefreshJob adds the refresh job to scheduler. An empty cronExpr
// leaves the job disabled.
func RegisterRuleRefreshJob(scheduler *Scheduler, reloader RuleReloader, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	if cronExpr == "" {
		logger.Info("cost rule refresh disabled")
		return nil
	}

	job := NewRuleRefreshJob(reloader, logger, timeout)
	return scheduler.AddJob(RuleRefreshJobName, cronExpr, job.Run)
}
