// Package integrity 写入前解析跨实体引用并复制冗余的显示名称
//
// Turma.CourseName 复制自 Course.Name；Student.TurmaName / Student.CourseName
// 复制自 Turma。复制只发生在写入时，源实体之后改名不会回写，
// 也不做后台对账。解析与写入之间父实体被删除的竞争是可接受的。
package integrity

import (
	"context"
	"errors"
	"fmt"

	"sge-admin/internal/shared/apperr"
	"sge-admin/internal/shared/model"
	"sge-admin/internal/shared/storage"
)

// ParentReader 引用解析所需的只读查询
type ParentReader interface {
	GetCourse(ctx context.Context, id string) (*model.Course, error)
	GetTurma(ctx context.Context, id string) (*model.Turma, error)
}

// Manager 引用完整性管理
type Manager struct {
	parents ParentReader
}

// NewManager 创建引用完整性管理器
func NewManager(parents ParentReader) *Manager {
	return &Manager{parents: parents}
}

// LinkTurma 解析 course_id 并填充 course_name
func (m *Manager) LinkTurma(ctx context.Context, turma *model.Turma) error {
	course, err := m.course(ctx, turma.CourseID)
	if err != nil {
		return err
	}
	turma.CourseName = course.Name
	return nil
}

// PrepareTurmaPatch 仅当补丁携带 course_id 时重新解析
func (m *Manager) PrepareTurmaPatch(ctx context.Context, patch *model.TurmaPatch) error {
	patch.CourseName = nil
	if patch.CourseID == nil {
		return nil
	}
	course, err := m.course(ctx, *patch.CourseID)
	if err != nil {
		return err
	}
	name := course.Name
	patch.CourseName = &name
	return nil
}

// LinkStudent 解析 turma_id 并填充 turma_name / course_name
//
// course_name 取自 Turma 上的冗余副本，可能已经过时。
func (m *Manager) LinkStudent(ctx context.Context, student *model.Student) error {
	turma, err := m.turma(ctx, student.TurmaID)
	if err != nil {
		return err
	}
	student.TurmaName = turma.Name
	student.CourseName = turma.CourseName
	return nil
}

// PrepareStudentPatch 仅当补丁携带 turma_id 时重新解析
func (m *Manager) PrepareStudentPatch(ctx context.Context, patch *model.StudentPatch) error {
	patch.TurmaName, patch.CourseName = nil, nil
	if patch.TurmaID == nil {
		return nil
	}
	turma, err := m.turma(ctx, *patch.TurmaID)
	if err != nil {
		return err
	}
	turmaName, courseName := turma.Name, turma.CourseName
	patch.TurmaName = &turmaName
	patch.CourseName = &courseName
	return nil
}

func (m *Manager) course(ctx context.Context, id string) (*model.Course, error) {
	course, err := m.parents.GetCourse(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.ParentNotFound("course")
		}
		return nil, fmt.Errorf("resolve course %s: %w", id, err)
	}
	return course, nil
}

func (m *Manager) turma(ctx context.Context, id string) (*model.Turma, error) {
	turma, err := m.parents.GetTurma(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.ParentNotFound("turma")
		}
		return nil, fmt.Errorf("resolve turma %s: %w", id, err)
	}
	return turma, nil
}
