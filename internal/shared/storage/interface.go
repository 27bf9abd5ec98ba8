// Package storage 定义持久化存储层抽象接口
//
// 设计原则：依赖倒置 (DIP)
//   - 调用方只依赖接口，不知道具体实现
//   - 具体实现在子包中：mongostore/（MongoDB）、repository/（PostgreSQL / SQLite）
//   - 初始化时通过 Open 按配置选择实现并注入
//
// 约定：
//   - Get*/Update*/Delete* 在实体不存在时返回 ErrNotFound
//   - Create* 违反唯一约束时返回 ErrDuplicate
//   - 每个操作都是单文档（单行）原子的，不提供跨实体事务
package storage

import (
	"context"

	"sge-admin/internal/shared/model"
)

// ListLimit 列表查询的上限，结果集整体加载
const ListLimit = 1000

// UserStore 用户存储接口
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	// GetUserByEmail 不存在时返回 (nil, nil)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, id string, patch *model.UserPatch) (*model.User, error)
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
	DeleteUser(ctx context.Context, id string) error
}

// CourseStore 课程存储接口
type CourseStore interface {
	CreateCourse(ctx context.Context, course *model.Course) error
	GetCourse(ctx context.Context, id string) (*model.Course, error)
	ListCourses(ctx context.Context) ([]*model.Course, error)
	UpdateCourse(ctx context.Context, id string, patch *model.CoursePatch) (*model.Course, error)
	DeleteCourse(ctx context.Context, id string) error
}

// TurmaStore 班级存储接口
type TurmaStore interface {
	CreateTurma(ctx context.Context, turma *model.Turma) error
	GetTurma(ctx context.Context, id string) (*model.Turma, error)
	ListTurmas(ctx context.Context) ([]*model.Turma, error)
	UpdateTurma(ctx context.Context, id string, patch *model.TurmaPatch) (*model.Turma, error)
	DeleteTurma(ctx context.Context, id string) error
}

// StudentStore 学生存储接口
type StudentStore interface {
	CreateStudent(ctx context.Context, student *model.Student) error
	GetStudent(ctx context.Context, id string) (*model.Student, error)
	ListStudents(ctx context.Context, filter model.StudentFilter) ([]*model.Student, error)
	UpdateStudent(ctx context.Context, id string, patch *model.StudentPatch) (*model.Student, error)
	DeleteStudent(ctx context.Context, id string) error
}

// InstitutionStore 机构信息存储接口（单例）
type InstitutionStore interface {
	// EnsureInstitution 不存在时以 defaults 创建，返回当前记录；并发调用只会创建一条
	EnsureInstitution(ctx context.Context, defaults *model.Institution) (*model.Institution, error)
	// SaveInstitution 覆盖写入机构信息（不存在则创建），保留已有 ID
	SaveInstitution(ctx context.Context, inst *model.Institution) (*model.Institution, error)
}

// DashboardStore 仪表盘聚合查询接口（只读）
type DashboardStore interface {
	CountStudents(ctx context.Context, filter model.StudentFilter) (int, error)
	CountActiveTurmas(ctx context.Context) (int, error)
	CountActiveCourses(ctx context.Context) (int, error)
	// CountStudentsByCourse 按冗余字段 course_name 分组，按数量降序
	CountStudentsByCourse(ctx context.Context) ([]model.CourseCount, error)
	ListRecentStudents(ctx context.Context, limit int) ([]*model.Student, error)
}

// PersistentStore 持久化存储组合接口
type PersistentStore interface {
	UserStore
	CourseStore
	TurmaStore
	StudentStore
	InstitutionStore
	DashboardStore
	Ping(ctx context.Context) error
	Close() error
}
