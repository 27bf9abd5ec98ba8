// Package repository SQLite 集成测试
//
// 使用 SQLite 内存数据库验证 repository 层所有存储接口的正确性。
// 无需外部数据库依赖，可在任何环境下运行。
package repository

import (
	"context"
	"testing"
	"time"

	"sge-admin/internal/shared/model"
	"sge-admin/internal/shared/storage"
	sqlitedriver "sge-admin/internal/shared/storage/driver/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore 创建用于测试的 SQLite 内存数据库 Store
func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqlitedriver.Open(":memory:")
	require.NoError(t, err)
	dialect := sqlitedriver.NewDialect()
	require.NoError(t, dialect.AutoMigrate(context.Background(), db))
	store := NewStore(db, dialect)
	t.Cleanup(func() { store.Close() })
	return store
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

// ============================================================================
// User 测试
// ============================================================================

func TestUserCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	user := &model.User{
		ID: "u1", Email: "prof@escola.br", Name: "Prof", Role: model.UserRoleProfessor,
		Active: true, PasswordHash: "$2a$hash", CreatedAt: now,
	}
	require.NoError(t, s.CreateUser(ctx, user))

	// 邮箱唯一
	dup := *user
	dup.ID = "u2"
	assert.ErrorIs(t, s.CreateUser(ctx, &dup), storage.ErrDuplicate)

	got, err := s.GetUserByEmail(ctx, "prof@escola.br")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, model.UserRoleProfessor, got.Role)
	assert.True(t, got.Active)
	assert.Equal(t, "$2a$hash", got.PasswordHash)
	assert.True(t, now.Equal(got.CreatedAt))

	// 邮箱区分大小写
	got, err = s.GetUserByEmail(ctx, "PROF@escola.br")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = s.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	role := model.UserRoleAdmin
	updated, err := s.UpdateUser(ctx, "u1", &model.UserPatch{Role: &role, Active: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, model.UserRoleAdmin, updated.Role)
	assert.False(t, updated.Active)
	assert.Equal(t, "Prof", updated.Name)

	_, err = s.UpdateUser(ctx, "missing", &model.UserPatch{Name: strPtr("x")})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.UpdateUserPassword(ctx, "u1", "$2a$new"))
	got, err = s.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "$2a$new", got.PasswordHash)
	assert.ErrorIs(t, s.UpdateUserPassword(ctx, "missing", "x"), storage.ErrNotFound)

	require.NoError(t, s.DeleteUser(ctx, "u1"))
	assert.ErrorIs(t, s.DeleteUser(ctx, "u1"), storage.ErrNotFound)
}

func TestListUsersNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	for i, email := range []string{"a@x", "b@x", "c@x"} {
		require.NoError(t, s.CreateUser(ctx, &model.User{
			ID: email, Email: email, Name: email, Role: model.UserRoleProfessor,
			Active: true, PasswordHash: "h", CreatedAt: now.Add(time.Duration(i) * time.Second),
		}))
	}

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "c@x", users[0].Email)
	assert.Equal(t, "a@x", users[2].Email)
}

// ============================================================================
// Course / Turma 测试
// ============================================================================

func TestCoursePartialUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	course := &model.Course{
		ID: "c1", Name: "CS101", Workload: 60, Description: strPtr("intro"),
		Active: true, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateCourse(ctx, course))

	got, err := s.UpdateCourse(ctx, "c1", &model.CoursePatch{Workload: intPtr(80)})
	require.NoError(t, err)
	assert.Equal(t, "CS101", got.Name)
	assert.Equal(t, 80, got.Workload)
	require.NotNil(t, got.Description)
	assert.Equal(t, "intro", *got.Description)
	assert.True(t, got.Active)

	// 空 patch 等价于读取
	got, err = s.UpdateCourse(ctx, "c1", &model.CoursePatch{})
	require.NoError(t, err)
	assert.Equal(t, 80, got.Workload)

	_, err = s.UpdateCourse(ctx, "missing", &model.CoursePatch{})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err = s.UpdateCourse(ctx, "c1", &model.CoursePatch{Description: model.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, got.Description)

	list, err := s.ListCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.DeleteCourse(ctx, "c1"))
	_, err = s.GetCourse(ctx, "c1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCourseWithoutDescription(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateCourse(ctx, &model.Course{ID: "c1", Name: "Art", Active: true, CreatedAt: time.Now().UTC()}))
	got, err := s.GetCourse(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, got.Description)
}

func TestTurmaDeleteDoesNotCascade(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.CreateTurma(ctx, &model.Turma{
		ID: "t1", Name: "T1", CourseID: "c1", CourseName: "CS101", Period: "morning", Year: 2024, Active: true, CreatedAt: now,
	}))
	require.NoError(t, s.CreateStudent(ctx, &model.Student{
		ID: "s1", Name: "Ana", TurmaID: "t1", TurmaName: "T1", CourseName: "CS101",
		Status: model.StudentStatusActive, CreatedAt: now,
	}))

	require.NoError(t, s.DeleteTurma(ctx, "t1"))

	st, err := s.GetStudent(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "t1", st.TurmaID)
	assert.Equal(t, "T1", st.TurmaName)
}

// ============================================================================
// Student 测试
// ============================================================================

func TestStudentFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	students := []*model.Student{
		{ID: "s1", Name: "A", TurmaID: "t1", Status: model.StudentStatusActive, CreatedAt: now},
		{ID: "s2", Name: "B", TurmaID: "t1", Status: model.StudentStatusGraduated, CreatedAt: now.Add(time.Second)},
		{ID: "s3", Name: "C", TurmaID: "t2", Status: model.StudentStatusActive, CreatedAt: now.Add(2 * time.Second)},
	}
	for _, st := range students {
		require.NoError(t, s.CreateStudent(ctx, st))
	}

	tests := []struct {
		name   string
		filter model.StudentFilter
		want   []string
	}{
		{"no filter", model.StudentFilter{}, []string{"s1", "s2", "s3"}},
		{"by turma", model.StudentFilter{TurmaID: "t1"}, []string{"s1", "s2"}},
		{"by status", model.StudentFilter{Status: model.StudentStatusActive}, []string{"s1", "s3"}},
		{"both", model.StudentFilter{TurmaID: "t1", Status: model.StudentStatusGraduated}, []string{"s2"}},
		{"no match", model.StudentFilter{TurmaID: "t9"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := s.ListStudents(ctx, tt.filter)
			require.NoError(t, err)
			ids := []string{}
			for _, st := range list {
				ids = append(ids, st.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestStudentOptionalFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateStudent(ctx, &model.Student{
		ID: "s1", Name: "Ana", Email: strPtr("ana@x.br"), TurmaID: "t1",
		Status: model.StudentStatusActive, CreatedAt: time.Now().UTC(),
	}))

	got, err := s.GetStudent(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got.Email)
	assert.Equal(t, "ana@x.br", *got.Email)
	assert.Nil(t, got.Phone)
	assert.Nil(t, got.Photo)

	status := model.StudentStatusInactive
	got, err = s.UpdateStudent(ctx, "s1", &model.StudentPatch{
		Phone: model.Some("555"), Status: &status, TurmaID: strPtr("t2"),
		TurmaName: strPtr("T2"), CourseName: strPtr("Math"),
	})
	require.NoError(t, err)
	assert.Equal(t, "555", *got.Phone)
	assert.Equal(t, model.StudentStatusInactive, got.Status)
	assert.Equal(t, "t2", got.TurmaID)
	assert.Equal(t, "T2", got.TurmaName)
	assert.Equal(t, "Math", got.CourseName)
	assert.Equal(t, "ana@x.br", *got.Email)

	// 显式 null 清空字段，未出现的字段保持不变
	got, err = s.UpdateStudent(ctx, "s1", &model.StudentPatch{Email: model.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, got.Email)
	require.NotNil(t, got.Phone)
	assert.Equal(t, "555", *got.Phone)
}

// ============================================================================
// Institution 测试
// ============================================================================

func TestInstitutionSingleton(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.EnsureInstitution(ctx, &model.Institution{Name: model.DefaultInstitutionName})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultInstitutionName, first.Name)
	assert.NotEmpty(t, first.ID)
	assert.Empty(t, first.Address)

	// 再次 Ensure 不覆盖已有记录
	again, err := s.EnsureInstitution(ctx, &model.Institution{Name: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, model.DefaultInstitutionName, again.Name)

	saved, err := s.SaveInstitution(ctx, &model.Institution{Name: "Escola", Phone: "123"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, saved.ID)
	assert.Equal(t, "Escola", saved.Name)
	assert.Equal(t, "123", saved.Phone)

	var n int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM institution`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSaveInstitutionCreatesWhenAbsent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveInstitution(ctx, &model.Institution{Name: "Nova"})
	require.NoError(t, err)
	assert.Equal(t, "Nova", saved.Name)
	assert.NotEmpty(t, saved.ID)
}

// ============================================================================
// Dashboard 测试
// ============================================================================

func TestDashboardQueries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, s.CreateCourse(ctx, &model.Course{ID: "c1", Name: "Math", Active: true, CreatedAt: now}))
	require.NoError(t, s.CreateCourse(ctx, &model.Course{ID: "c2", Name: "Art", Active: false, CreatedAt: now}))
	require.NoError(t, s.CreateTurma(ctx, &model.Turma{ID: "t1", Name: "T1", CourseID: "c1", Period: "p", Year: 2024, Active: true, CreatedAt: now}))
	require.NoError(t, s.CreateTurma(ctx, &model.Turma{ID: "t2", Name: "T2", CourseID: "c2", Period: "p", Year: 2024, Active: false, CreatedAt: now}))

	for i := 0; i < 7; i++ {
		course, status := "Math", model.StudentStatusActive
		if i%3 == 0 {
			course, status = "Art", model.StudentStatusInactive
		}
		require.NoError(t, s.CreateStudent(ctx, &model.Student{
			ID: "s" + string(rune('0'+i)), Name: "N", TurmaID: "t1", CourseName: course,
			Status: status, CreatedAt: now.Add(time.Duration(i) * time.Second),
		}))
	}

	total, err := s.CountStudents(ctx, model.StudentFilter{})
	require.NoError(t, err)
	assert.Equal(t, 7, total)

	active, err := s.CountStudents(ctx, model.StudentFilter{Status: model.StudentStatusActive})
	require.NoError(t, err)
	assert.Equal(t, 4, active)

	turmas, err := s.CountActiveTurmas(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, turmas)

	courses, err := s.CountActiveCourses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, courses)

	byCourse, err := s.CountStudentsByCourse(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.CourseCount{{Course: "Math", Count: 4}, {Course: "Art", Count: 3}}, byCourse)

	recent, err := s.ListRecentStudents(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, "s6", recent[0].ID)
	assert.Equal(t, "s2", recent[4].ID)
}

func TestDashboardEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	byCourse, err := s.CountStudentsByCourse(ctx)
	require.NoError(t, err)
	assert.NotNil(t, byCourse)
	assert.Empty(t, byCourse)

	recent, err := s.ListRecentStudents(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
