package mongostore

import (
	"context"
	"errors"
	"time"

	"sge-admin/internal/shared/model"
	"sge-admin/internal/shared/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// institutionKey 单例文档的固定键，配合 key 唯一索引保证至多一条
const institutionKey = "default"

// ============================================================================
// InstitutionStore
// ============================================================================

func (s *Store) EnsureInstitution(ctx context.Context, defaults *model.Institution) (*model.Institution, error) {
	id := defaults.ID
	if id == "" {
		id = uuid.NewString()
	}
	onInsert := bson.D{
		{Key: "_id", Value: id},
		{Key: "key", Value: institutionKey},
		{Key: "name", Value: defaults.Name},
		{Key: "address", Value: defaults.Address},
		{Key: "phone", Value: defaults.Phone},
		{Key: "email", Value: defaults.Email},
		{Key: "logo", Value: defaults.Logo},
		{Key: "updated_at", Value: time.Now().UTC()},
	}
	return s.upsertInstitution(ctx, bson.D{{Key: "$setOnInsert", Value: onInsert}})
}

func (s *Store) SaveInstitution(ctx context.Context, inst *model.Institution) (*model.Institution, error) {
	id := inst.ID
	if id == "" {
		id = uuid.NewString()
	}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "name", Value: inst.Name},
			{Key: "address", Value: inst.Address},
			{Key: "phone", Value: inst.Phone},
			{Key: "email", Value: inst.Email},
			{Key: "logo", Value: inst.Logo},
			{Key: "updated_at", Value: time.Now().UTC()},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "key", Value: institutionKey},
		}},
	}
	return s.upsertInstitution(ctx, update)
}

// upsertInstitution 对单例文档执行 upsert 并返回写入后的文档
//
// 两个并发 upsert 可能同时走插入分支，失败方收到唯一键冲突，
// 此时文档已存在，重试一次即命中更新分支。
func (s *Store) upsertInstitution(ctx context.Context, update bson.D) (*model.Institution, error) {
	filter := bson.D{{Key: "key", Value: institutionKey}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var inst model.Institution
	err := wrapError(s.col(ColInstitution).FindOneAndUpdate(ctx, filter, update, opts).Decode(&inst))
	if errors.Is(err, storage.ErrDuplicate) {
		err = wrapError(s.col(ColInstitution).FindOneAndUpdate(ctx, filter, update, opts).Decode(&inst))
	}
	if err != nil {
		return nil, err
	}
	return &inst, nil
}
