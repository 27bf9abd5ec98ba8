package model

import "time"

// StudentStatus 学生状态
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "active"
	StudentStatusInactive  StudentStatus = "inactive"
	StudentStatusGraduated StudentStatus = "graduated"
)

// Valid 是否为已知状态
func (s StudentStatus) Valid() bool {
	switch s {
	case StudentStatusActive, StudentStatusInactive, StudentStatusGraduated:
		return true
	}
	return false
}

// Student 学生
type Student struct {
	ID         string        `json:"id" bson:"_id" db:"id"`
	Name       string        `json:"name" bson:"name" db:"name"`
	Email      *string       `json:"email" bson:"email,omitempty" db:"email"`
	Phone      *string       `json:"phone" bson:"phone,omitempty" db:"phone"`
	BirthDate  *string       `json:"birth_date" bson:"birth_date,omitempty" db:"birth_date"`
	Photo      *string       `json:"photo" bson:"photo,omitempty" db:"photo"`
	TurmaID    string        `json:"turma_id" bson:"turma_id" db:"turma_id"`
	TurmaName  string        `json:"turma_name" bson:"turma_name" db:"turma_name"`    // 冗余：写入时的 Turma.Name
	CourseName string        `json:"course_name" bson:"course_name" db:"course_name"` // 冗余：写入时的 Turma.CourseName
	Status     StudentStatus `json:"status" bson:"status" db:"status"`
	CreatedAt  time.Time     `json:"created_at" bson:"created_at" db:"created_at"`
}

// StudentPatch 学生部分更新
//
// TurmaName / CourseName 仅在 TurmaID 变更时由引用解析填充。
// 可选字段使用 Nullable，显式 null 会清空已有值。
type StudentPatch struct {
	Name       *string          `json:"name,omitempty" validate:"omitempty,notblank"`
	Email      Nullable[string] `json:"email" validate:"omitempty,email"`
	Phone      Nullable[string] `json:"phone"`
	BirthDate  Nullable[string] `json:"birth_date"`
	Photo      Nullable[string] `json:"photo"`
	TurmaID    *string          `json:"turma_id,omitempty" validate:"omitempty,notblank"`
	TurmaName  *string          `json:"-"`
	CourseName *string          `json:"-"`
	Status     *StudentStatus   `json:"status,omitempty" validate:"omitempty,oneof=active inactive graduated"`
}

// StudentFilter 学生列表过滤条件，空值表示不过滤
type StudentFilter struct {
	TurmaID string
	Status  StudentStatus
}
