package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sge-admin/internal/shared/cache"
	"sge-admin/internal/shared/model"
)

// GetDashboard 读取仪表盘快照
func (s *Store) GetDashboard(ctx context.Context) (*model.DashboardMetrics, error) {
	data, err := s.client.Get(ctx, cache.KeyDashboardMetrics).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var metrics model.DashboardMetrics
	if err := json.Unmarshal(data, &metrics); err != nil {
		return nil, fmt.Errorf("decode dashboard snapshot: %w", err)
	}
	return &metrics, nil
}

// SetDashboard 写入仪表盘快照，ttl <= 0 时不写入
func (s *Store) SetDashboard(ctx context.Context, metrics *model.DashboardMetrics, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("encode dashboard snapshot: %w", err)
	}
	return s.client.Set(ctx, cache.KeyDashboardMetrics, data, ttl).Err()
}

// InvalidateDashboard 删除仪表盘快照
func (s *Store) InvalidateDashboard(ctx context.Context) error {
	return s.client.Del(ctx, cache.KeyDashboardMetrics).Err()
}

var _ cache.Cache = (*Store)(nil)
