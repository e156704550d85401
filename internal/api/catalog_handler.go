package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"MenuSync/internal/cache"
	"MenuSync/internal/repository"
	"MenuSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CatalogHandler 提供给前端的套餐目录查询接口
type CatalogHandler struct {
	catalogService *service.CatalogService
	respCache      *cache.ResponseCache
	logger         *logrus.Logger
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(db *gorm.DB, respCache *cache.ResponseCache, logger *logrus.Logger) *CatalogHandler {
	repo := repository.NewCatalogRepository(db)
	svc := service.NewCatalogService(repo, logger)
	return &CatalogHandler{
		catalogService: svc,
		respCache:      respCache,
		logger:         logger,
	}
}

// ListSetMenus 套餐目录接口（带旁路缓存）
// GET /api/set-menus?cuisine_slug=italian&page=1&page_size=20
func (h *CatalogHandler) ListSetMenus(c *gin.Context) {
	cuisineSlug := c.Query("cuisine_slug")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	ctx := c.Request.Context()
	key := cache.Key(cuisineSlug, page, pageSize)
	if body, ok := h.respCache.Get(ctx, key); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
		return
	}

	result, err := h.catalogService.ListSetMenus(ctx, cuisineSlug, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPage) || errors.Is(err, service.ErrInvalidPageSize) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// 内部错误只记日志，不把细节透给客户端
		h.logger.WithError(err).WithFields(logrus.Fields{
			"cuisine_slug": cuisineSlug,
			"page":         page,
			"page_size":    pageSize,
		}).Error("ListSetMenus failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		h.logger.WithError(err).Error("序列化目录响应失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	h.respCache.Set(ctx, key, body)
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
