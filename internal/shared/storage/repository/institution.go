package repository

import (
	"context"
	"time"

	"sge-admin/internal/shared/model"

	"github.com/google/uuid"
)

const institutionColumns = `id, name, address, phone, email, logo, updated_at`

// === Institution 操作（单例行 singleton = 1） ===

// EnsureInstitution 不存在时插入默认记录；已存在则原样返回
func (s *Store) EnsureInstitution(ctx context.Context, defaults *model.Institution) (*model.Institution, error) {
	id := defaults.ID
	if id == "" {
		id = uuid.NewString()
	}
	query := s.rebind(`
		INSERT INTO institution (singleton, ` + institutionColumns + `)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (singleton) DO NOTHING
	`)
	_, err := s.db.ExecContext(ctx, query,
		id, defaults.Name, defaults.Address, defaults.Phone, defaults.Email, defaults.Logo, time.Now().UTC())
	if err != nil {
		return nil, s.wrapError(err)
	}
	return s.getInstitution(ctx)
}

// SaveInstitution 覆盖写入机构信息，保留已有 ID
func (s *Store) SaveInstitution(ctx context.Context, inst *model.Institution) (*model.Institution, error) {
	id := inst.ID
	if id == "" {
		id = uuid.NewString()
	}
	query := s.rebind(`
		INSERT INTO institution (singleton, ` + institutionColumns + `)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (singleton) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			logo = EXCLUDED.logo,
			updated_at = EXCLUDED.updated_at
	`)
	_, err := s.db.ExecContext(ctx, query,
		id, inst.Name, inst.Address, inst.Phone, inst.Email, inst.Logo, time.Now().UTC())
	if err != nil {
		return nil, s.wrapError(err)
	}
	return s.getInstitution(ctx)
}

func (s *Store) getInstitution(ctx context.Context) (*model.Institution, error) {
	inst := &model.Institution{}
	err := s.db.QueryRowContext(ctx, `SELECT `+institutionColumns+` FROM institution WHERE singleton = 1`).Scan(
		&inst.ID, &inst.Name, &inst.Address, &inst.Phone, &inst.Email, &inst.Logo, &inst.UpdatedAt)
	if err != nil {
		return nil, s.wrapError(err)
	}
	return inst, nil
}
