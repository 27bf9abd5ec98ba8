package repository

import (
	"context"
	"fmt"

	"sge-admin/internal/shared/model"
	"sge-admin/internal/shared/storage"
	"sge-admin/internal/shared/storage/dbutil"
)

const studentColumns = `id, name, email, phone, birth_date, photo, turma_id, turma_name, course_name, status, created_at`

// === Student 操作 ===

// CreateStudent 创建学生
func (s *Store) CreateStudent(ctx context.Context, st *model.Student) error {
	query := s.rebind(`
		INSERT INTO students (` + studentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`)
	_, err := s.db.ExecContext(ctx, query,
		st.ID, st.Name, st.Email, st.Phone, st.BirthDate, st.Photo,
		st.TurmaID, st.TurmaName, st.CourseName, st.Status, st.CreatedAt)
	return s.wrapError(err)
}

// GetStudent 获取学生
func (s *Store) GetStudent(ctx context.Context, id string) (*model.Student, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+studentColumns+` FROM students WHERE id = $1`), id)
	return scanStudent(row)
}

// ListStudents 按班级 / 状态过滤列出学生
func (s *Store) ListStudents(ctx context.Context, filter model.StudentFilter) ([]*model.Student, error) {
	query, args := studentWhere(filter).Apply(`SELECT ` + studentColumns + ` FROM students`)
	query += fmt.Sprintf(` ORDER BY created_at ASC LIMIT %d`, storage.ListLimit)
	return queryList(ctx, s, scanStudent, query, args...)
}

// UpdateStudent 部分更新学生
func (s *Store) UpdateStudent(ctx context.Context, id string, patch *model.StudentPatch) (*model.Student, error) {
	var b dbutil.SetBuilder
	dbutil.SetIf(&b, "name", patch.Name)
	dbutil.SetNullable(&b, "email", patch.Email.Set, patch.Email.Value)
	dbutil.SetNullable(&b, "phone", patch.Phone.Set, patch.Phone.Value)
	dbutil.SetNullable(&b, "birth_date", patch.BirthDate.Set, patch.BirthDate.Value)
	dbutil.SetNullable(&b, "photo", patch.Photo.Set, patch.Photo.Value)
	dbutil.SetIf(&b, "turma_id", patch.TurmaID)
	dbutil.SetIf(&b, "turma_name", patch.TurmaName)
	dbutil.SetIf(&b, "course_name", patch.CourseName)
	dbutil.SetIf(&b, "status", patch.Status)
	if err := s.applyPatch(ctx, "students", id, &b); err != nil {
		return nil, err
	}
	return s.GetStudent(ctx, id)
}

// DeleteStudent 删除学生
func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	return s.execAffectingOne(ctx, `DELETE FROM students WHERE id = $1`, id)
}

// studentWhere 构建学生过滤条件，空字段不参与过滤
func studentWhere(f model.StudentFilter) *dbutil.Where {
	w := &dbutil.Where{}
	if f.TurmaID != "" {
		w.Eq("turma_id", f.TurmaID)
	}
	if f.Status != "" {
		w.Eq("status", f.Status)
	}
	return w
}

func scanStudent(row scanner) (*model.Student, error) {
	st := &model.Student{}
	err := row.Scan(&st.ID, &st.Name, &st.Email, &st.Phone, &st.BirthDate, &st.Photo,
		&st.TurmaID, &st.TurmaName, &st.CourseName, &st.Status, &st.CreatedAt)
	if err != nil {
		return nil, wrapNoRows(err)
	}
	return st, nil
}
