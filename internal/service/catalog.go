package service

import (
	"context"
	"errors"

	"MenuSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// 分页参数非法属于客户端输入错误，由handler映射为400
var (
	ErrInvalidPage     = errors.New("page必须大于等于1")
	ErrInvalidPageSize = errors.New("page_size必须在1到100之间")
)

// SetMenuSummary 列表页单个套餐摘要
type SetMenuSummary struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	PricePerPerson float64 `json:"price_per_person"`
	NumberOfOrders int     `json:"number_of_orders"`
	IsVegan        bool    `json:"is_vegan"`
	IsVegetarian   bool    `json:"is_vegetarian"`
	IsHalal        bool    `json:"is_halal"`
}

// Pagination 分页元信息
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// ListResult 目录查询返回：套餐分页列表 + 菜系聚合 + 分页元信息
type ListResult struct {
	SetMenus   []SetMenuSummary          `json:"set_menus"`
	Cuisines   []*repository.CuisineStat `json:"cuisines"`
	Pagination Pagination                `json:"pagination"`
}

// CatalogService 目录查询服务：只读，结果完全由入参和当下库内数据决定，
// 可安全放在外层响应缓存之后
type CatalogService struct {
	repo   repository.CatalogRepository
	logger *logrus.Logger
}

// NewCatalogService 创建 CatalogService
func NewCatalogService(repo repository.CatalogRepository, logger *logrus.Logger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		logger: logger,
	}
}

// ListSetMenus 分页查询已上架套餐并附带菜系聚合。
// 调用方即使已做参数校验，这里也再校验一次，不依赖外层。
// cuisineSlug为空表示不过滤菜系；slug无命中时返回空列表而非错误。
func (s *CatalogService) ListSetMenus(ctx context.Context, cuisineSlug string, page, pageSize int) (*ListResult, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, ErrInvalidPageSize
	}

	menus, total, err := s.repo.ListPublished(ctx, cuisineSlug, page, pageSize)
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.CuisineStats(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]SetMenuSummary, 0, len(menus))
	for _, m := range menus {
		summaries = append(summaries, SetMenuSummary{
			ID:             m.ID,
			Name:           m.Name,
			PricePerPerson: m.PricePerPerson,
			NumberOfOrders: m.NumberOfOrders,
			IsVegan:        m.IsVegan,
			IsVegetarian:   m.IsVegetarian,
			IsHalal:        m.IsHalal,
		})
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &ListResult{
		SetMenus: summaries,
		Cuisines: stats,
		Pagination: Pagination{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		},
	}, nil
}
