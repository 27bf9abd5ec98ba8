package model

import "time"

// Turma 班级（某课程在某学期/学年的开班）
type Turma struct {
	ID         string    `json:"id" bson:"_id" db:"id"`
	Name       string    `json:"name" bson:"name" db:"name"`
	CourseID   string    `json:"course_id" bson:"course_id" db:"course_id"`
	CourseName string    `json:"course_name" bson:"course_name" db:"course_name"` // 冗余：写入时的 Course.Name
	Period     string    `json:"period" bson:"period" db:"period"`
	Year       int       `json:"year" bson:"year" db:"year"`
	Active     bool      `json:"active" bson:"active" db:"active"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

// TurmaPatch 班级部分更新
//
// CourseName 不接受客户端输入，仅在 CourseID 变更时由引用解析填充。
type TurmaPatch struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,notblank"`
	CourseID   *string `json:"course_id,omitempty" validate:"omitempty,notblank"`
	CourseName *string `json:"-"`
	Period     *string `json:"period,omitempty" validate:"omitempty,notblank"`
	Year       *int    `json:"year,omitempty"`
	Active     *bool   `json:"active,omitempty"`
}
