package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sge-admin/internal/shared/model"
	"sge-admin/internal/shared/storage/repository"
	"sge-admin/internal/shared/storage/storagetest"
	"sge-admin/pkg/logging"
)

// memoryCache 记录调用次数的内存缓存
type memoryCache struct {
	snapshot *model.DashboardMetrics
	gets     int
	sets     int
	failGet  bool
	failSet  bool
}

func (c *memoryCache) GetDashboard(ctx context.Context) (*model.DashboardMetrics, error) {
	c.gets++
	if c.failGet {
		return nil, errors.New("cache down")
	}
	return c.snapshot, nil
}

func (c *memoryCache) SetDashboard(ctx context.Context, m *model.DashboardMetrics, ttl time.Duration) error {
	c.sets++
	if c.failSet {
		return errors.New("cache down")
	}
	c.snapshot = m
	return nil
}

func (c *memoryCache) InvalidateDashboard(ctx context.Context) error {
	c.snapshot = nil
	return nil
}

func seed(t *testing.T, store *repository.Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	courses := []struct {
		name   string
		active bool
	}{{"Math", true}, {"Art", true}, {"Old", false}}
	for i, c := range courses {
		require.NoError(t, store.CreateCourse(ctx, &model.Course{
			ID: uuid.NewString(), Name: c.name, Workload: 40, Active: c.active, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, store.CreateTurma(ctx, &model.Turma{
		ID: "t1", Name: "T1", CourseID: "c", CourseName: "Math", Period: "manhã", Year: 2024, Active: true, CreatedAt: base,
	}))
	require.NoError(t, store.CreateTurma(ctx, &model.Turma{
		ID: "t2", Name: "T2", CourseID: "c", CourseName: "Art", Period: "tarde", Year: 2024, Active: false, CreatedAt: base,
	}))

	for i := 0; i < 7; i++ {
		course, status := "Math", model.StudentStatusActive
		if i%2 == 1 {
			course = "Art"
		}
		if i == 6 {
			status = model.StudentStatusGraduated
		}
		require.NoError(t, store.CreateStudent(ctx, &model.Student{
			ID: fmt.Sprintf("s%d", i), Name: fmt.Sprintf("Student %d", i), TurmaID: "t1",
			TurmaName: "T1", CourseName: course, Status: status,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
}

func TestMetrics(t *testing.T) {
	store := storagetest.NewSQLite(t)
	seed(t, store)

	r := NewReporter(store, nil, 0, logging.Discard())
	m, err := r.Metrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, m.TotalStudents)
	assert.Equal(t, 6, m.ActiveStudents)
	assert.Equal(t, 1, m.TotalTurmas)
	assert.Equal(t, 2, m.TotalCourses)
	assert.Equal(t, []model.CourseCount{{Course: "Math", Count: 4}, {Course: "Art", Count: 3}}, m.StudentsByCourse)

	require.Len(t, m.RecentStudents, RecentStudentsLimit)
	assert.Equal(t, "s6", m.RecentStudents[0].ID)
	assert.Equal(t, "s2", m.RecentStudents[4].ID)
}

func TestMetricsEmpty(t *testing.T) {
	store := storagetest.NewSQLite(t)
	m, err := NewReporter(store, nil, 0, logging.Discard()).Metrics(context.Background())
	require.NoError(t, err)
	assert.Zero(t, m.TotalStudents)
	assert.NotNil(t, m.StudentsByCourse)
	assert.NotNil(t, m.RecentStudents)
}

func TestMetricsWithCache(t *testing.T) {
	store := storagetest.NewSQLite(t)
	seed(t, store)
	ctx := context.Background()

	c := &memoryCache{}
	r := NewReporter(store, c, time.Minute, logging.Discard())

	first, err := r.Metrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, c.sets)

	// 新增学生后在 TTL 内仍返回快照
	require.NoError(t, store.CreateStudent(ctx, &model.Student{
		ID: "late", Name: "Late", TurmaID: "t1", CourseName: "Math", Status: model.StudentStatusActive, CreatedAt: time.Now().UTC(),
	}))
	second, err := r.Metrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.TotalStudents, second.TotalStudents)
	assert.Equal(t, 1, c.sets)

	r.Invalidate(ctx)
	third, err := r.Metrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.TotalStudents+1, third.TotalStudents)
	assert.Equal(t, 2, c.sets)
}

func TestMetricsCacheFailureIgnored(t *testing.T) {
	store := storagetest.NewSQLite(t)
	seed(t, store)

	c := &memoryCache{failGet: true, failSet: true}
	m, err := NewReporter(store, c, time.Minute, logging.Discard()).Metrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, m.TotalStudents)
	assert.Equal(t, 1, c.gets)
	assert.Equal(t, 1, c.sets)
}

func TestMetricsZeroTTLBypassesCache(t *testing.T) {
	store := storagetest.NewSQLite(t)
	c := &memoryCache{snapshot: &model.DashboardMetrics{TotalStudents: 99}}

	m, err := NewReporter(store, c, 0, logging.Discard()).Metrics(context.Background())
	require.NoError(t, err)
	assert.Zero(t, m.TotalStudents)
	assert.Zero(t, c.gets)
}
