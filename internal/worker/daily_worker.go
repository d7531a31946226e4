package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/warung_api/internal/models"
)

// DailyWorker runs a store job once per day at the configured local time.
// A run missed at hour:minute is still taken later within the same hour.
type DailyWorker struct {
	name    string
	stores  StoreLister
	job     storeJob
	hour    int
	minute  int
	tick    time.Duration
	loc     *time.Location
	now     func() time.Time
	lastRun string
}

func newDailyWorker(name string, stores StoreLister, job storeJob, hour, minute int, tick time.Duration, loc *time.Location) *DailyWorker {
	if loc == nil {
		loc = time.UTC
	}
	if tick <= 0 {
		tick = time.Minute
	}
	return &DailyWorker{
		name:   name,
		stores: stores,
		job:    job,
		hour:   hour,
		minute: minute,
		tick:   tick,
		loc:    loc,
		now:    time.Now,
	}
}

// NewDailyReportWorker sends each owner the daily sales summary.
func NewDailyReportWorker(stores StoreLister, reporter Reporter, hour, minute int, tick time.Duration, loc *time.Location) *DailyWorker {
	return newDailyWorker("daily_report", stores, func(ctx context.Context, store *models.Store) error {
		_, err := reporter.DailyReport(ctx, store)
		return err
	}, hour, minute, tick, loc)
}

// NewCreditReminderWorker sends each owner the outstanding credit reminder.
// Schedule it after the daily report.
func NewCreditReminderWorker(stores StoreLister, reporter Reporter, hour, minute int, tick time.Duration, loc *time.Location) *DailyWorker {
	return newDailyWorker("credit_reminder", stores, func(ctx context.Context, store *models.Store) error {
		_, err := reporter.CreditReminder(ctx, store)
		return err
	}, hour, minute, tick, loc)
}

// Start checks the schedule every tick until ctx is cancelled.
func (w *DailyWorker) Start(ctx context.Context) {
	log.Info().Str("job", w.name).Int("hour", w.hour).Int("minute", w.minute).Str("timezone", w.loc.String()).Msg("Starting daily worker")

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.runIfDue(ctx)
		case <-ctx.Done():
			log.Info().Str("job", w.name).Msg("Daily worker stopped")
			return
		}
	}
}

// runIfDue runs the job once the local clock has reached hour:minute within
// the configured hour, if it has not run today.
func (w *DailyWorker) runIfDue(ctx context.Context) bool {
	local := w.now().In(w.loc)
	if local.Hour() != w.hour || local.Minute() < w.minute {
		return false
	}
	day := local.Format("2006-01-02")
	if w.lastRun == day {
		return false
	}
	w.lastRun = day
	forEachStore(ctx, w.stores, w.name, w.job)
	return true
}
