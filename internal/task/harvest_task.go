package task

import (
	"context"
	"errors"
	"time"

	"MenuSync/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// HarvestTask 定时采集任务：按Cron表达式周期性执行完整采集。
// 并发保护在HarvestService内部（上一轮未结束时本轮直接放弃）。
type HarvestTask struct {
	harvestService *service.HarvestService
	cron           *cron.Cron
	spec           string
	logger         *logrus.Logger
}

// NewHarvestTask 创建定时采集任务。spec为空表示不启用。
func NewHarvestTask(harvestService *service.HarvestService, spec string, logger *logrus.Logger) *HarvestTask {
	return &HarvestTask{
		harvestService: harvestService,
		cron:           cron.New(cron.WithSeconds()),
		spec:           spec,
		logger:         logger,
	}
}

// Start 注册并启动定时任务
func (t *HarvestTask) Start() error {
	if t.spec == "" {
		t.logger.Info("未配置采集Cron表达式，定时采集不启用")
		return nil
	}

	_, err := t.cron.AddFunc(t.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
		defer cancel()

		if err := t.harvestService.Run(ctx); err != nil {
			if errors.Is(err, service.ErrHarvestRunning) {
				t.logger.Warn("上一轮采集尚未结束，本轮跳过")
				return
			}
			t.logger.WithError(err).Error("定时采集失败")
		}
	})
	if err != nil {
		return err
	}

	t.cron.Start()
	t.logger.WithField("cron", t.spec).Info("定时采集已启动")
	return nil
}

// Stop 停止定时任务
func (t *HarvestTask) Stop() {
	t.cron.Stop()
}
