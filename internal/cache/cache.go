package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MenuSync/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ResponseCache 目录响应的旁路缓存：key由完整参数元组构成，
// 未配置Redis时所有读取都视为未命中、写入为空操作，
// 缓存自身出错只降级为未命中，绝不影响请求本身。
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewResponseCache 创建响应缓存。cfg.Addr为空时返回禁用态实例。
func NewResponseCache(cfg *config.RedisConfig, logger *logrus.Logger) *ResponseCache {
	rc := &ResponseCache{
		ttl:    cfg.TTL,
		logger: logger,
	}
	if rc.ttl <= 0 {
		rc.ttl = 5 * time.Minute
	}
	if cfg.Addr == "" {
		logger.Info("未配置Redis，响应缓存已禁用")
		return rc
	}
	rc.client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	logger.WithField("addr", cfg.Addr).Info("响应缓存已启用")
	return rc
}

// Key 由查询参数元组生成缓存键
func Key(cuisineSlug string, page, pageSize int) string {
	return fmt.Sprintf("menusync:set-menus:%s:%d:%d", cuisineSlug, page, pageSize)
}

// Get 读取缓存，命中时返回缓存的响应体
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if rc.client == nil {
		return nil, false
	}
	val, err := rc.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			rc.logger.WithError(err).WithField("key", key).Warn("读取响应缓存失败")
		}
		return nil, false
	}
	return val, true
}

// Set 按配置TTL写入缓存
func (rc *ResponseCache) Set(ctx context.Context, key string, val []byte) {
	if rc.client == nil {
		return
	}
	if err := rc.client.Set(ctx, key, val, rc.ttl).Err(); err != nil {
		rc.logger.WithError(err).WithField("key", key).Warn("写入响应缓存失败")
	}
}
