package repository

import (
	"context"
	"fmt"

	"sge-admin/internal/shared/model"
	"sge-admin/internal/shared/storage"
	"sge-admin/internal/shared/storage/dbutil"
)

const turmaColumns = `id, name, course_id, course_name, period, year, active, created_at`

// === Turma 操作 ===

// CreateTurma 创建班级
func (s *Store) CreateTurma(ctx context.Context, t *model.Turma) error {
	query := s.rebind(`
		INSERT INTO turmas (` + turmaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	_, err := s.db.ExecContext(ctx, query,
		t.ID, t.Name, t.CourseID, t.CourseName, t.Period, t.Year, t.Active, t.CreatedAt)
	return s.wrapError(err)
}

// GetTurma 获取班级
func (s *Store) GetTurma(ctx context.Context, id string) (*model.Turma, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+turmaColumns+` FROM turmas WHERE id = $1`), id)
	return scanTurma(row)
}

// ListTurmas 列出班级（按创建顺序）
func (s *Store) ListTurmas(ctx context.Context) ([]*model.Turma, error) {
	query := fmt.Sprintf(`SELECT %s FROM turmas ORDER BY created_at ASC LIMIT %d`, turmaColumns, storage.ListLimit)
	return queryList(ctx, s, scanTurma, query)
}

// UpdateTurma 部分更新班级
func (s *Store) UpdateTurma(ctx context.Context, id string, patch *model.TurmaPatch) (*model.Turma, error) {
	var b dbutil.SetBuilder
	dbutil.SetIf(&b, "name", patch.Name)
	dbutil.SetIf(&b, "course_id", patch.CourseID)
	dbutil.SetIf(&b, "course_name", patch.CourseName)
	dbutil.SetIf(&b, "period", patch.Period)
	dbutil.SetIf(&b, "year", patch.Year)
	dbutil.SetIf(&b, "active", patch.Active)
	if err := s.applyPatch(ctx, "turmas", id, &b); err != nil {
		return nil, err
	}
	return s.GetTurma(ctx, id)
}

// DeleteTurma 删除班级（不级联学生）
func (s *Store) DeleteTurma(ctx context.Context, id string) error {
	return s.execAffectingOne(ctx, `DELETE FROM turmas WHERE id = $1`, id)
}

func scanTurma(row scanner) (*model.Turma, error) {
	t := &model.Turma{}
	err := row.Scan(&t.ID, &t.Name, &t.CourseID, &t.CourseName, &t.Period, &t.Year, &t.Active, &t.CreatedAt)
	if err != nil {
		return nil, wrapNoRows(err)
	}
	return t, nil
}
