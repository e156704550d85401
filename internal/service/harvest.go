package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"MenuSync/internal/config"
	"MenuSync/internal/harvest"
	"MenuSync/internal/model"
	"MenuSync/internal/repository"
	"MenuSync/internal/source"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// ErrHarvestRunning 已有采集在进行中（同一时刻只允许一个采集运行）
var ErrHarvestRunning = errors.New("采集任务正在运行中")

// PageFetcher 上游分页抓取接口（source.Client实现）
type PageFetcher interface {
	FetchPage(ctx context.Context, pageURL string) (*source.Page, error)
}

// HarvestService 套餐采集服务：沿links.next游标逐页抓取，
// 逐条规范化后写入，按固定批量提交，失败时回滚当前未提交批次并终止。
type HarvestService struct {
	store   repository.HarvestStore
	fetcher PageFetcher
	cfg     *config.HarvestConfig
	logger  *logrus.Logger
	mu      sync.Mutex // 单运行守卫：拒绝并发采集
}

// NewHarvestService 创建采集服务
func NewHarvestService(store repository.HarvestStore, fetcher PageFetcher, cfg *config.HarvestConfig, logger *logrus.Logger) *HarvestService {
	return &HarvestService{
		store:   store,
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
	}
}

// Run 执行一次完整采集。已有运行时立即返回ErrHarvestRunning。
// 每次都从配置的起始地址重新开始（不保存游标）；已提交的批次不受后续失败影响。
func (s *HarvestService) Run(ctx context.Context) error {
	if !s.mu.TryLock() {
		return ErrHarvestRunning
	}
	defer s.mu.Unlock()

	run := &model.HarvestRun{
		RunUUID:   uuid.NewString(),
		SourceURL: s.cfg.InitialURL,
		Status:    model.RunStatusRunning,
		StartedAt: time.Now(),
	}
	if err := s.store.CreateRun(ctx, run); err != nil {
		return err
	}

	err := s.harvest(ctx, run)
	if err != nil {
		run.Status = model.RunStatusFailed
		run.LastError = err.Error()
	} else {
		run.Status = model.RunStatusSucceeded
	}
	if ferr := s.store.FinishRun(ctx, run); ferr != nil {
		s.logger.WithError(ferr).WithField("run_uuid", run.RunUUID).Warn("收尾更新运行记录失败")
	}

	if err != nil {
		s.logger.WithError(err).WithField("run_uuid", run.RunUUID).Error("采集运行失败")
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"run_uuid": run.RunUUID,
		"pages":    run.PagesFetched,
		"ingested": run.RecordsIngested,
		"skipped":  run.RecordsSkipped,
	}).Info("采集运行完成")
	return nil
}

// harvest 游标循环主体。返回错误前保证当前未提交批次已回滚。
func (s *HarvestService) harvest(ctx context.Context, run *model.HarvestRun) error {
	batchSize := s.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	pageDelay := s.cfg.PageDelay
	if pageDelay <= 0 {
		pageDelay = 2 * time.Second
	}

	batch, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}

	cursor := s.cfg.InitialURL
	sinceCommit := 0
	for cursor != "" {
		s.logger.WithField("url", cursor).Info("抓取套餐数据")
		page, err := s.fetcher.FetchPage(ctx, cursor)
		if err != nil {
			s.rollback(batch)
			return fmt.Errorf("抓取失败，终止本次采集: %w", err)
		}
		run.PagesFetched++
		if len(page.Meta) > 0 {
			run.Meta = datatypes.JSON(page.Meta)
		}

		for i := range page.Data {
			raw := &page.Data[i]
			menu, cuisines, err := harvest.Normalize(raw)
			if err != nil {
				// 单条格式错误只跳过该条，不拖垮整批
				s.logger.WithError(err).WithField("set_menu_id", raw.ID).Warn("记录规范化失败，已跳过")
				run.RecordsSkipped++
				continue
			}

			if err := batch.InsertSetMenu(ctx, menu); err != nil {
				s.rollback(batch)
				return err
			}
			for j := range cuisines {
				c := &cuisines[j]
				if err := batch.UpsertCuisine(ctx, c); err != nil {
					s.rollback(batch)
					return err
				}
				if err := batch.LinkSetMenuCuisine(ctx, menu.ID, c.ID); err != nil {
					s.rollback(batch)
					return err
				}
			}

			run.RecordsIngested++
			sinceCommit++
			if sinceCommit >= batchSize {
				if err := batch.Commit(); err != nil {
					return err
				}
				s.logger.WithField("batch_size", sinceCommit).Info("批次已提交")
				sinceCommit = 0
				if batch, err = s.store.Begin(ctx); err != nil {
					return err
				}
			}
		}

		// 页尾无条件提交余量
		if err := batch.Commit(); err != nil {
			return err
		}
		sinceCommit = 0

		cursor = page.NextURL()
		if cursor == "" {
			break
		}
		s.logger.WithField("delay", pageDelay.String()).Info("等待后抓取下一页")
		select {
		case <-time.After(pageDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if batch, err = s.store.Begin(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (s *HarvestService) rollback(batch repository.HarvestBatch) {
	if err := batch.Rollback(); err != nil {
		s.logger.WithError(err).Warn("批次回滚失败")
	}
}
