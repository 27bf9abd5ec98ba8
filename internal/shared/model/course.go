// Package model 定义核心数据模型
//
// 实体之间通过 ID 引用，同时冗余保存被引用实体的显示名称：
//   - Turma.CourseName 复制自 Course.Name
//   - Student.TurmaName / Student.CourseName 复制自 Turma
//
// 冗余字段只在写入时复制，之后源实体改名不会回写（快照语义）。
package model

import "time"

// Course 课程
type Course struct {
	ID          string    `json:"id" bson:"_id" db:"id"`
	Name        string    `json:"name" bson:"name" db:"name"`
	Workload    int       `json:"workload" bson:"workload" db:"workload"` // 学时
	Description *string   `json:"description" bson:"description,omitempty" db:"description"`
	Active      bool      `json:"active" bson:"active" db:"active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

// CoursePatch 课程部分更新
type CoursePatch struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,notblank"`
	Workload    *int             `json:"workload,omitempty"`
	Description Nullable[string] `json:"description"`
	Active      *bool            `json:"active,omitempty"`
}
