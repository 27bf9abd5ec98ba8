package model

import "time"

// UserRole 用户角色（封闭集合）
type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleProfessor UserRole = "professor"
)

// Valid 是否为已知角色
func (r UserRole) Valid() bool {
	return r == UserRoleAdmin || r == UserRoleProfessor
}

// User 系统用户（管理员 / 教师）
type User struct {
	ID           string    `json:"id" bson:"_id" db:"id"`
	Email        string    `json:"email" bson:"email" db:"email"`
	Name         string    `json:"name" bson:"name" db:"name"`
	Role         UserRole  `json:"role" bson:"role" db:"role"`
	Active       bool      `json:"active" bson:"active" db:"active"`
	PasswordHash string    `json:"-" bson:"password_hash" db:"password_hash"` // never expose in JSON
	CreatedAt    time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

// UserPatch 用户部分更新，nil 字段保持不变
type UserPatch struct {
	Name   *string   `json:"name,omitempty" validate:"omitempty,notblank"`
	Role   *UserRole `json:"role,omitempty" validate:"omitempty,oneof=admin professor"`
	Active *bool     `json:"active,omitempty"`
}

// Empty 是否没有任何待更新字段
func (p *UserPatch) Empty() bool {
	return p.Name == nil && p.Role == nil && p.Active == nil
}
