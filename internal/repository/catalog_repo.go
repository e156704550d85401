package repository

import (
	"context"

	"MenuSync/internal/model"

	"gorm.io/gorm"
)

// CuisineStat 菜系聚合行：关联的已上架套餐数与订单总量
type CuisineStat struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	SetMenuCount int64  `json:"set_menu_count"`
	TotalOrders  int64  `json:"total_orders"`
}

// CatalogRepository 目录读路径仓储接口
type CatalogRepository interface {
	// ListPublished 分页查询已上架套餐，按热度降序；cuisineSlug非空时
	// 仅返回关联到该菜系（slug精确匹配）的套餐，total为分页前的总数
	ListPublished(ctx context.Context, cuisineSlug string, page, pageSize int) ([]*model.SetMenu, int64, error)
	// CuisineStats 对全部已上架套餐（不受菜系过滤影响）按菜系聚合，
	// 按订单总量降序；没有关联上架套餐的菜系不出现
	CuisineStats(ctx context.Context) ([]*CuisineStat, error)
}

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository 创建 CatalogRepository 实例
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListPublished(ctx context.Context, cuisineSlug string, page, pageSize int) ([]*model.SetMenu, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.SetMenu{}).
		Where("set_menu.status = ?", model.StatusLive)

	if cuisineSlug != "" {
		db = db.Joins("JOIN set_menu_cuisine_link ON set_menu_cuisine_link.set_menu_id = set_menu.id").
			Joins("JOIN cuisine ON cuisine.id = set_menu_cuisine_link.cuisine_id").
			Where("cuisine.slug = ?", cuisineSlug)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var menus []*model.SetMenu
	// 热度降序，同热度按ID升序保证分页稳定
	if err := db.
		Order("set_menu.number_of_orders DESC, set_menu.id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&menus).Error; err != nil {
		return nil, 0, err
	}

	return menus, total, nil
}

func (r *catalogRepository) CuisineStats(ctx context.Context) ([]*CuisineStat, error) {
	var stats []*CuisineStat
	if err := r.db.WithContext(ctx).
		Table("cuisine").
		Select("cuisine.id AS id, cuisine.name AS name, cuisine.slug AS slug, "+
			"COUNT(DISTINCT set_menu.id) AS set_menu_count, "+
			"COALESCE(SUM(set_menu.number_of_orders), 0) AS total_orders").
		Joins("JOIN set_menu_cuisine_link ON set_menu_cuisine_link.cuisine_id = cuisine.id").
		Joins("JOIN set_menu ON set_menu.id = set_menu_cuisine_link.set_menu_id").
		Where("set_menu.status = ?", model.StatusLive).
		Group("cuisine.id, cuisine.name, cuisine.slug").
		Order("total_orders DESC").
		Scan(&stats).Error; err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []*CuisineStat{}
	}
	return stats, nil
}
