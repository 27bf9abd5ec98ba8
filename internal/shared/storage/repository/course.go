package repository

import (
	"context"
	"fmt"

	"sge-admin/internal/shared/model"
	"sge-admin/internal/shared/storage"
	"sge-admin/internal/shared/storage/dbutil"
)

const courseColumns = `id, name, workload, description, active, created_at`

// === Course 操作 ===

// CreateCourse 创建课程
func (s *Store) CreateCourse(ctx context.Context, c *model.Course) error {
	query := s.rebind(`
		INSERT INTO courses (` + courseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	_, err := s.db.ExecContext(ctx, query, c.ID, c.Name, c.Workload, c.Description, c.Active, c.CreatedAt)
	return s.wrapError(err)
}

// GetCourse 获取课程
func (s *Store) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+courseColumns+` FROM courses WHERE id = $1`), id)
	return scanCourse(row)
}

// ListCourses 列出课程（按创建顺序）
func (s *Store) ListCourses(ctx context.Context) ([]*model.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses ORDER BY created_at ASC LIMIT %d`, courseColumns, storage.ListLimit)
	return queryList(ctx, s, scanCourse, query)
}

// UpdateCourse 部分更新课程
func (s *Store) UpdateCourse(ctx context.Context, id string, patch *model.CoursePatch) (*model.Course, error) {
	var b dbutil.SetBuilder
	dbutil.SetIf(&b, "name", patch.Name)
	dbutil.SetIf(&b, "workload", patch.Workload)
	dbutil.SetNullable(&b, "description", patch.Description.Set, patch.Description.Value)
	dbutil.SetIf(&b, "active", patch.Active)
	if err := s.applyPatch(ctx, "courses", id, &b); err != nil {
		return nil, err
	}
	return s.GetCourse(ctx, id)
}

// DeleteCourse 删除课程（不级联班级）
func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	return s.execAffectingOne(ctx, `DELETE FROM courses WHERE id = $1`, id)
}

func scanCourse(row scanner) (*model.Course, error) {
	c := &model.Course{}
	err := row.Scan(&c.ID, &c.Name, &c.Workload, &c.Description, &c.Active, &c.CreatedAt)
	if err != nil {
		return nil, wrapNoRows(err)
	}
	return c, nil
}
