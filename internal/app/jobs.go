package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/betterpage/betterpage/internal/domain"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	if loc == nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 10m", func() {
		if err := a.PurgeSessionsNow(context.Background()); err != nil {
			zap.S().Errorf("session purge failed: %v", err)
		}
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.purgeUserLogs()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// purgeUserLogs drops audit rows older than the retention window.
func (a *Application) purgeUserLogs() {
	if a.gormDB == nil {
		return
	}
	days := a.configManager.GetInt64("system", "user_log_retention_days")
	if days <= 0 {
		days = 365
	}
	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	res := a.gormDB.Where("opt_time < ?", cutoff).Delete(&domain.SysUserLog{})
	if res.Error != nil {
		zap.S().Errorf("user log purge failed: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		zap.S().Infof("purged %d user log rows", res.RowsAffected)
	}
}
