package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sge-admin/internal/shared/model"
)

// 令牌校验失败原因
var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// Claims JWT 声明：sub / email / role / iat / exp
type Claims struct {
	jwt.RegisteredClaims
	Email string         `json:"email"`
	Role  model.UserRole `json:"role"`
}

// TokenCodec HS256 访问令牌编解码
//
// 密钥在进程启动时加载一次；更换密钥会使所有已签发的令牌失效。
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec 创建令牌编解码器
func NewTokenCodec(secret []byte, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: secret, ttl: ttl, now: time.Now}
}

// WithClock 替换时钟（测试用）
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	cp := *c
	cp.now = now
	return &cp
}

// TTL 令牌有效期
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue 签发访问令牌
func (c *TokenCodec) Issue(subjectID, email string, role model.UserRole) (string, error) {
	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Email: email,
		Role:  role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify 先校验签名与算法，再校验过期时间
//
// 过期返回 ErrTokenExpired，其余任何格式或签名问题返回 ErrTokenInvalid。
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid || claims.Subject == "" || !claims.Role.Valid() {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
