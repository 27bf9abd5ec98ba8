// Package cache 缓存层抽象接口
//
// 提供派生数据的短期缓存，当前由 Redis 实现。缓存是可选的，
// 调用方在缓存读写失败时应回退到直接查询。
package cache

import (
	"context"
	"time"

	"sge-admin/internal/shared/model"
)

// KeyDashboardMetrics 仪表盘快照的缓存键
const KeyDashboardMetrics = "sge:dashboard:metrics"

// DashboardCache 仪表盘快照缓存接口
type DashboardCache interface {
	// GetDashboard 未命中时返回 (nil, nil)
	GetDashboard(ctx context.Context) (*model.DashboardMetrics, error)
	SetDashboard(ctx context.Context, metrics *model.DashboardMetrics, ttl time.Duration) error
	InvalidateDashboard(ctx context.Context) error
}

// Cache 缓存组合接口
type Cache interface {
	DashboardCache
	Close() error
}
