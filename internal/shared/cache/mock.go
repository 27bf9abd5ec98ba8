package cache

import (
	"context"
	"time"

	"sge-admin/internal/shared/model"
)

// ============================================================================
// NoOpCache - 空操作的 Cache 实现（未配置 Redis 时使用）
// ============================================================================

// NoOpCache 是一个不做任何操作的 Cache 实现，读取总是未命中
type NoOpCache struct{}

// NewNoOpCache 创建 NoOpCache 实例
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Close 关闭缓存
func (c *NoOpCache) Close() error {
	return nil
}

func (c *NoOpCache) GetDashboard(ctx context.Context) (*model.DashboardMetrics, error) {
	return nil, nil
}
func (c *NoOpCache) SetDashboard(ctx context.Context, metrics *model.DashboardMetrics, ttl time.Duration) error {
	return nil
}
func (c *NoOpCache) InvalidateDashboard(ctx context.Context) error {
	return nil
}

var _ Cache = (*NoOpCache)(nil)
