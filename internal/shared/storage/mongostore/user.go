package mongostore

import (
	"context"

	"sge-admin/internal/shared/model"
	"sge-admin/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// UserStore
// ============================================================================

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return insertOne(ctx, s.col(ColUsers), user)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "email", Value: email}})
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return getByID[model.User](ctx, s.col(ColUsers), id)
}

func (s *Store) ListUsers(ctx context.Context) ([]*model.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(storage.ListLimit)
	return findMany[model.User](ctx, s.col(ColUsers), bson.D{}, opts)
}

func (s *Store) UpdateUser(ctx context.Context, id string, patch *model.UserPatch) (*model.User, error) {
	var update bson.D
	update = setIf(update, "name", patch.Name)
	update = setIf(update, "role", patch.Role)
	update = setIf(update, "active", patch.Active)
	return patchByID[model.User](ctx, s.col(ColUsers), id, update)
}

func (s *Store) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	return updateFields(ctx, s.col(ColUsers), id, bson.D{
		{Key: "password_hash", Value: passwordHash},
	})
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColUsers), id)
}
