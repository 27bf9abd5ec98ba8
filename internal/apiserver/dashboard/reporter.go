// Package dashboard 仪表盘聚合统计
//
// 只读取存储，不做任何写入。配置了缓存 TTL 时结果以快照形式缓存，
// 否则每次调用都反映调用时刻的数据。
package dashboard

import (
	"context"
	"fmt"
	"time"

	"sge-admin/internal/shared/cache"
	"sge-admin/internal/shared/model"
	"sge-admin/internal/shared/storage"
	"sge-admin/pkg/logging"
)

const (
	// RecentStudentsLimit 最近入学学生数量
	RecentStudentsLimit = 5
	// maxCourseGroups 按课程分组的最大条目数
	maxCourseGroups = 100
)

// Reporter 仪表盘统计
type Reporter struct {
	store  storage.DashboardStore
	cache  cache.DashboardCache
	ttl    time.Duration
	logger *logging.Logger
}

// NewReporter 创建统计器；c 为 nil 或 ttl <= 0 时不使用缓存
func NewReporter(store storage.DashboardStore, c cache.DashboardCache, ttl time.Duration, logger *logging.Logger) *Reporter {
	if c == nil || ttl <= 0 {
		c, ttl = cache.NewNoOpCache(), 0
	}
	return &Reporter{store: store, cache: c, ttl: ttl, logger: logger}
}

// Metrics 返回聚合指标
//
// 缓存读写失败只记录日志，不影响结果。
func (r *Reporter) Metrics(ctx context.Context) (*model.DashboardMetrics, error) {
	if r.ttl > 0 {
		cached, err := r.cache.GetDashboard(ctx)
		if err != nil {
			r.logger.WithContext(ctx).WithError(err).Warn("dashboard cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	start := time.Now()
	metrics, err := r.compute(ctx)
	if err != nil {
		return nil, err
	}
	r.logger.WithContext(ctx).WithDuration(time.Since(start)).Debug("dashboard metrics computed")

	if r.ttl > 0 {
		if err := r.cache.SetDashboard(ctx, metrics, r.ttl); err != nil {
			r.logger.WithContext(ctx).WithError(err).Warn("dashboard cache write failed")
		}
	}
	return metrics, nil
}

func (r *Reporter) compute(ctx context.Context) (*model.DashboardMetrics, error) {
	var (
		m   model.DashboardMetrics
		err error
	)
	if m.TotalStudents, err = r.store.CountStudents(ctx, model.StudentFilter{}); err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	active := model.StudentFilter{Status: model.StudentStatusActive}
	if m.ActiveStudents, err = r.store.CountStudents(ctx, active); err != nil {
		return nil, fmt.Errorf("count active students: %w", err)
	}
	if m.TotalTurmas, err = r.store.CountActiveTurmas(ctx); err != nil {
		return nil, fmt.Errorf("count turmas: %w", err)
	}
	if m.TotalCourses, err = r.store.CountActiveCourses(ctx); err != nil {
		return nil, fmt.Errorf("count courses: %w", err)
	}
	if m.StudentsByCourse, err = r.store.CountStudentsByCourse(ctx); err != nil {
		return nil, fmt.Errorf("group students by course: %w", err)
	}
	if len(m.StudentsByCourse) > maxCourseGroups {
		m.StudentsByCourse = m.StudentsByCourse[:maxCourseGroups]
	}
	if m.RecentStudents, err = r.store.ListRecentStudents(ctx, RecentStudentsLimit); err != nil {
		return nil, fmt.Errorf("list recent students: %w", err)
	}

	if m.StudentsByCourse == nil {
		m.StudentsByCourse = []model.CourseCount{}
	}
	if m.RecentStudents == nil {
		m.RecentStudents = []*model.Student{}
	}
	return &m, nil
}

// Invalidate 丢弃缓存的快照，失败只记录日志
func (r *Reporter) Invalidate(ctx context.Context) {
	if r.ttl <= 0 {
		return
	}
	if err := r.cache.InvalidateDashboard(ctx); err != nil {
		r.logger.WithContext(ctx).WithError(err).Warn("dashboard cache invalidate failed")
	}
}
