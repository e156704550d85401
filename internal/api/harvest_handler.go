package api

import (
	"errors"
	"net/http"

	"MenuSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HarvestHandler 手动触发采集的接口
type HarvestHandler struct {
	harvestService *service.HarvestService
	logger         *logrus.Logger
}

// NewHarvestHandler 创建 HarvestHandler
func NewHarvestHandler(harvestService *service.HarvestService, logger *logrus.Logger) *HarvestHandler {
	return &HarvestHandler{
		harvestService: harvestService,
		logger:         logger,
	}
}

// TriggerHarvest 同步执行一次完整采集
// POST /sync/harvest
func (h *HarvestHandler) TriggerHarvest(c *gin.Context) {
	if err := h.harvestService.Run(c.Request.Context()); err != nil {
		if errors.Is(err, service.ErrHarvestRunning) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("手动触发采集失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "采集完成"})
}
