package repository

import (
	"context"

	"sge-admin/internal/shared/model"
)

// === Dashboard 聚合查询 ===

// CountStudents 统计满足过滤条件的学生数
func (s *Store) CountStudents(ctx context.Context, filter model.StudentFilter) (int, error) {
	query, args := studentWhere(filter).Apply(`SELECT COUNT(*) FROM students`)
	return s.count(ctx, query, args...)
}

// CountActiveTurmas 统计 active 班级数
func (s *Store) CountActiveTurmas(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM turmas WHERE active = $1`, true)
}

// CountActiveCourses 统计 active 课程数
func (s *Store) CountActiveCourses(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM courses WHERE active = $1`, true)
}

// CountStudentsByCourse 按冗余课程名分组计数，数量降序
func (s *Store) CountStudentsByCourse(ctx context.Context) ([]model.CourseCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT course_name, COUNT(*) AS n
		FROM students
		GROUP BY course_name
		ORDER BY n DESC, course_name ASC
	`)
	if err != nil {
		return nil, s.wrapError(err)
	}
	defer rows.Close()

	results := []model.CourseCount{}
	for rows.Next() {
		var cc model.CourseCount
		if err := rows.Scan(&cc.Course, &cc.Count); err != nil {
			return nil, err
		}
		results = append(results, cc)
	}
	return results, rows.Err()
}

// ListRecentStudents 最近创建的学生
func (s *Store) ListRecentStudents(ctx context.Context, limit int) ([]*model.Student, error) {
	return queryList(ctx, s, scanStudent,
		`SELECT `+studentColumns+` FROM students ORDER BY created_at DESC LIMIT $1`, limit)
}

func (s *Store) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, s.rebind(query), args...).Scan(&n); err != nil {
		return 0, s.wrapError(err)
	}
	return n, nil
}
