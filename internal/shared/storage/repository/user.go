package repository

import (
	"context"
	"errors"
	"fmt"

	"sge-admin/internal/shared/model"
	"sge-admin/internal/shared/storage"
	"sge-admin/internal/shared/storage/dbutil"
)

const userColumns = `id, email, name, role, active, password_hash, created_at`

// === User 操作 ===

// CreateUser 创建用户，邮箱重复返回 ErrDuplicate
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	query := s.rebind(`
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.Role, user.Active, user.PasswordHash, user.CreatedAt)
	return s.wrapError(err)
}

// GetUserByEmail 按邮箱查询，不存在返回 (nil, nil)
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+userColumns+` FROM users WHERE email = $1`), email)
	user, err := scanUser(row)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return user, err
}

// GetUserByID 按 ID 查询
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+userColumns+` FROM users WHERE id = $1`), id)
	return scanUser(row)
}

// ListUsers 列出用户（最新在前）
func (s *Store) ListUsers(ctx context.Context) ([]*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at DESC LIMIT %d`, userColumns, storage.ListLimit)
	return queryList(ctx, s, scanUser, query)
}

// UpdateUser 部分更新用户
func (s *Store) UpdateUser(ctx context.Context, id string, patch *model.UserPatch) (*model.User, error) {
	var b dbutil.SetBuilder
	dbutil.SetIf(&b, "name", patch.Name)
	dbutil.SetIf(&b, "role", patch.Role)
	dbutil.SetIf(&b, "active", patch.Active)
	if err := s.applyPatch(ctx, "users", id, &b); err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, id)
}

// UpdateUserPassword 更新密码哈希
func (s *Store) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	return s.execAffectingOne(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
}

// DeleteUser 删除用户
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.execAffectingOne(ctx, `DELETE FROM users WHERE id = $1`, id)
}

func scanUser(row scanner) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Active, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, wrapNoRows(err)
	}
	return u, nil
}
