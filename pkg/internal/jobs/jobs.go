// Package jobs 注册后台定时任务.
package jobs

import (
	"context"
	"strings"

	"github.com/yeisme/docvault/pkg/configs"
	"github.com/yeisme/docvault/pkg/internal/service"
	dlog "github.com/yeisme/docvault/pkg/log"
	"github.com/yeisme/docvault/pkg/scheduler"
)

// JobAIOrganizer AI 整理扫描任务名.
const JobAIOrganizer = "ai-organizer"

// Register 按配置注册定时任务. ctx 需携带存储管理器，任务执行时从中取客户端.
func Register(ctx context.Context, s *scheduler.Scheduler) error {
	cfg := configs.GetConfig().AI

	if !cfg.Enabled || strings.TrimSpace(cfg.Cron) == "" {
		dlog.Logger().Info().Msg("organizer cron not scheduled")
		return nil
	}

	return s.AddCron(JobAIOrganizer, cfg.Cron, runOrganizer, ctx)
}

// runOrganizer 执行一轮整理扫描. 失败只记日志，下一轮照常触发.
func runOrganizer(ctx context.Context) {
	l := dlog.Logger()

	svc, err := service.NewOrganizerService(ctx)
	if err != nil {
		l.Error().Err(err).Msg("organizer init failed")
		return
	}

	summary, err := svc.Run(ctx)
	if err != nil {
		l.Error().Err(err).Msg("organizer run failed")
		return
	}

	l.Info().
		Int("analyzed", summary.Analyzed).
		Int("updated", summary.Updated).
		Int("duplicates_removed", summary.DuplicatesRemoved).
		Int("failed", summary.Failed).
		Msg("organizer run finished")
}
