package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sge-admin/internal/apiserver/httpx"
	"sge-admin/internal/shared/apperr"
	"sge-admin/internal/shared/model"
	"sge-admin/internal/shared/storage"
	"sge-admin/pkg/logging"
)

// DefaultBcryptCost 生产环境使用的 bcrypt 代价
const DefaultBcryptCost = 12

// Credentials 用户凭据管理：注册、登录校验、改密
type Credentials struct {
	store  storage.UserStore
	cost   int
	logger *logging.Logger

	// dummyHash 邮箱不存在时也执行一次 bcrypt 比较，使响应时间一致
	dummyHash []byte
}

// NewCredentials 创建凭据管理器，cost <= 0 时使用 DefaultBcryptCost
func NewCredentials(store storage.UserStore, cost int, logger *logging.Logger) (*Credentials, error) {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("sge-timing-equalizer"), cost)
	if err != nil {
		return nil, fmt.Errorf("init dummy hash: %w", err)
	}
	return &Credentials{store: store, cost: cost, logger: logger, dummyHash: dummy}, nil
}

// ============================================================================
// 密码哈希
// ============================================================================

// HashPassword 使用 bcrypt 哈希密码
func (c *Credentials) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	return string(bytes), err
}

// VerifyPassword 验证密码
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ============================================================================
// 注册 / 登录
// ============================================================================

// RegisterInput 注册参数
type RegisterInput struct {
	Email    string         `json:"email" validate:"notblank"`
	Name     string         `json:"name" validate:"notblank"`
	Password string         `json:"password" validate:"required"`
	Role     model.UserRole `json:"role" validate:"omitempty,oneof=admin professor"`
}

// Validate 必填字段与角色校验
//
// 邮箱只要求非空：初始管理员账号可以是 "admin" 这类非邮箱格式的登录名。
func (in *RegisterInput) Validate() error {
	return httpx.Validate(in)
}

// Register 创建新用户
//
// 先查重给出友好错误；并发注册同一邮箱时以存储层唯一索引为准。
func (c *Credentials) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = model.UserRoleProfessor
	}

	existing, err := c.store.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, apperr.ErrDuplicateEmail
	}

	hash, err := c.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Name:         in.Name,
		Role:         in.Role,
		Active:       true,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := c.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	c.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Authenticate 校验邮箱与密码
//
// 邮箱不存在与密码错误返回同一个错误；凭据正确但账号停用返回 AccountDisabled。
func (c *Credentials) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := c.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		bcrypt.CompareHashAndPassword(c.dummyHash, []byte(password))
		return nil, apperr.ErrInvalidCredentials
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return nil, apperr.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, apperr.ErrAccountDisabled
	}
	return user, nil
}

// ChangePassword 校验旧密码后写入新密码哈希
func (c *Credentials) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return apperr.Validation("new_password is required")
	}
	user, err := c.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("user")
		}
		return fmt.Errorf("get user: %w", err)
	}
	if !VerifyPassword(oldPassword, user.PasswordHash) {
		return apperr.ErrInvalidCredentials
	}

	hash, err := c.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := c.store.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("user")
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ============================================================================
// Admin Bootstrap
// ============================================================================

// EnsureAdmin 确保管理员账号存在（启动时调用，幂等）
//
// 账号已存在时不修改密码；角色不是 admin 或已停用时恢复为可用的管理员。
func (c *Credentials) EnsureAdmin(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, nil
	}

	existing, err := c.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check admin user: %w", err)
	}
	if existing != nil {
		if existing.Role == model.UserRoleAdmin && existing.Active {
			return existing, nil
		}
		role, active := model.UserRoleAdmin, true
		c.logger.Warn("restoring admin role for bootstrap account", "user_id", existing.ID)
		return c.store.UpdateUser(ctx, existing.ID, &model.UserPatch{Role: &role, Active: &active})
	}

	user, err := c.Register(ctx, RegisterInput{
		Email:    email,
		Name:     "Administrador",
		Password: password,
		Role:     model.UserRoleAdmin,
	})
	if errors.Is(err, apperr.ErrDuplicateEmail) {
		// 另一个实例同时完成了创建
		return c.store.GetUserByEmail(ctx, email)
	}
	return user, err
}
