package redis

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sge-admin/internal/shared/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	store, err := NewStoreFromURL(url)
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() {
		store.InvalidateDashboard(context.Background())
		store.Close()
	})
	return store
}

func TestDashboardSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.InvalidateDashboard(ctx))

	got, err := store.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	in := &model.DashboardMetrics{
		TotalStudents:    3,
		ActiveStudents:   2,
		TotalTurmas:      1,
		TotalCourses:     1,
		StudentsByCourse: []model.CourseCount{{Course: "Math", Count: 3}},
		RecentStudents:   []*model.Student{{ID: "s1", Name: "Ana", Status: model.StudentStatusActive}},
	}
	require.NoError(t, store.SetDashboard(ctx, in, time.Minute))

	got, err = store.GetDashboard(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.TotalStudents)
	assert.Equal(t, in.StudentsByCourse, got.StudentsByCourse)
	require.Len(t, got.RecentStudents, 1)
	assert.Equal(t, "Ana", got.RecentStudents[0].Name)

	ttl, err := store.Client().TTL(ctx, "sge:dashboard:metrics").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestSetDashboardZeroTTLSkipsWrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.InvalidateDashboard(ctx))

	require.NoError(t, store.SetDashboard(ctx, &model.DashboardMetrics{TotalStudents: 1}, 0))
	got, err := store.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNewStoreFromURLRejectsBadURL(t *testing.T) {
	_, err := NewStoreFromURL("not-a-redis-url")
	assert.Error(t, err)
}

// 连接失败必须作为错误返回，不能伪装成缓存未命中
func TestGetDashboardUnreachable(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	store := NewStoreFromClient(client)
	t.Cleanup(func() { store.Close() })

	got, err := store.GetDashboard(context.Background())
	assert.Error(t, err)
	assert.Nil(t, got)
}
