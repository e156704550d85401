package repository

import (
	"context"
	"fmt"
	"time"

	"MenuSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HarvestBatch 一个未提交的采集批次（对应一个数据库事务）。
// 写入立即在事务内可见（套餐插入后其ID即可用于建关联），
// 只有Commit才落盘；Commit/Rollback之后批次不可复用。
type HarvestBatch interface {
	// InsertSetMenu 无条件插入套餐；ID重复时直接透传唯一约束错误
	InsertSetMenu(ctx context.Context, menu *model.SetMenu) error
	// UpsertCuisine 按ID条件插入菜系：已存在则原样保留（不更新任何字段）
	UpsertCuisine(ctx context.Context, cuisine *model.Cuisine) error
	// LinkSetMenuCuisine 插入一条套餐-菜系关联；重复配对或引用缺失时报错
	LinkSetMenuCuisine(ctx context.Context, setMenuID, cuisineID int64) error
	Commit() error
	Rollback() error
}

// HarvestStore 采集写路径的存储句柄：批次边界显式开启/提交，
// 并负责HarvestRun运行记录（运行记录独立于批次事务）。
type HarvestStore interface {
	Begin(ctx context.Context) (HarvestBatch, error)
	CreateRun(ctx context.Context, run *model.HarvestRun) error
	FinishRun(ctx context.Context, run *model.HarvestRun) error
}

type harvestStore struct {
	db *gorm.DB
}

// NewHarvestStore 创建 HarvestStore 实例
func NewHarvestStore(db *gorm.DB) HarvestStore {
	return &harvestStore{db: db}
}

func (s *harvestStore) Begin(ctx context.Context) (HarvestBatch, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("开启批次事务失败: %w", tx.Error)
	}
	return &harvestBatch{tx: tx}, nil
}

func (s *harvestStore) CreateRun(ctx context.Context, run *model.HarvestRun) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("创建采集运行记录失败: %w", err)
	}
	return nil
}

func (s *harvestStore) FinishRun(ctx context.Context, run *model.HarvestRun) error {
	now := time.Now()
	run.FinishedAt = &now
	if err := s.db.WithContext(ctx).Model(&model.HarvestRun{}).
		Where("run_uuid = ?", run.RunUUID).
		Updates(map[string]interface{}{
			"status":           run.Status,
			"pages_fetched":    run.PagesFetched,
			"records_ingested": run.RecordsIngested,
			"records_skipped":  run.RecordsSkipped,
			"last_error":       run.LastError,
			"meta":             run.Meta,
			"finished_at":      run.FinishedAt,
		}).Error; err != nil {
		return fmt.Errorf("更新采集运行记录失败: %w", err)
	}
	return nil
}

type harvestBatch struct {
	tx *gorm.DB
}

func (b *harvestBatch) InsertSetMenu(ctx context.Context, menu *model.SetMenu) error {
	if err := b.tx.WithContext(ctx).Create(menu).Error; err != nil {
		return fmt.Errorf("插入套餐失败: %w, id: %d", err, menu.ID)
	}
	return nil
}

func (b *harvestBatch) UpsertCuisine(ctx context.Context, cuisine *model.Cuisine) error {
	// 原子条件插入：ID冲突时不更新（菜系首次出现的版本为准）
	if err := b.tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(cuisine).Error; err != nil {
		return fmt.Errorf("写入菜系失败: %w, id: %d", err, cuisine.ID)
	}
	return nil
}

func (b *harvestBatch) LinkSetMenuCuisine(ctx context.Context, setMenuID, cuisineID int64) error {
	link := &model.SetMenuCuisineLink{
		SetMenuID: setMenuID,
		CuisineID: cuisineID,
	}
	if err := b.tx.WithContext(ctx).Create(link).Error; err != nil {
		return fmt.Errorf("写入套餐-菜系关联失败: %w, set_menu_id: %d, cuisine_id: %d", err, setMenuID, cuisineID)
	}
	return nil
}

func (b *harvestBatch) Commit() error {
	if err := b.tx.Commit().Error; err != nil {
		return fmt.Errorf("提交批次失败: %w", err)
	}
	return nil
}

func (b *harvestBatch) Rollback() error {
	if err := b.tx.Rollback().Error; err != nil {
		return fmt.Errorf("回滚批次失败: %w", err)
	}
	return nil
}
