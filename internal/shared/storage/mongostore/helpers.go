package mongostore

import (
	"context"
	"errors"

	"sge-admin/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// wrapError 将 MongoDB 错误转换为领域错误
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrDuplicate
	}
	return err
}

// findOne 查找单个文档并解码到 result
// 文档不存在时返回 (nil, nil)
func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.D) (*T, error) {
	var result T
	err := col.FindOne(ctx, filter).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, wrapError(err)
	}
	return &result, nil
}

// getByID 按 _id 查找，不存在时返回 ErrNotFound
func getByID[T any](ctx context.Context, col *mongo.Collection, id string) (*T, error) {
	result, err := findOne[T](ctx, col, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, storage.ErrNotFound
	}
	return result, nil
}

// findMany 查找多个文档
func findMany[T any](ctx context.Context, col *mongo.Collection, filter bson.D, opts ...options.Lister[options.FindOptions]) ([]*T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, wrapError(err)
	}
	defer cursor.Close(ctx)

	var results []*T
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		results = append(results, &item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	if results == nil {
		results = []*T{}
	}
	return results, nil
}

// insertOne 插入单个文档
func insertOne(ctx context.Context, col *mongo.Collection, doc interface{}) error {
	_, err := col.InsertOne(ctx, doc)
	return wrapError(err)
}

// deleteByID 按 _id 删除
func deleteByID(ctx context.Context, col *mongo.Collection, id string) error {
	res, err := col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return wrapError(err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// updateFields 按 _id 更新指定字段
func updateFields(ctx context.Context, col *mongo.Collection, id string, update bson.D) error {
	res, err := col.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: update}})
	if err != nil {
		return wrapError(err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// patchByID 以单次 findOneAndUpdate 应用部分更新并返回更新后的文档
// update 为空时退化为按 ID 读取
func patchByID[T any](ctx context.Context, col *mongo.Collection, id string, update bson.D) (*T, error) {
	if len(update) == 0 {
		return getByID[T](ctx, col, id)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var result T
	err := col.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: update}},
		opts,
	).Decode(&result)
	if err != nil {
		return nil, wrapError(err)
	}
	return &result, nil
}

// setIf 仅在 v 非 nil 时追加 $set 字段
func setIf[V any](update bson.D, key string, v *V) bson.D {
	if v == nil {
		return update
	}
	return append(update, bson.E{Key: key, Value: *v})
}

// setNullable set 为 true 时追加 $set 字段，v 为 nil 写入 null
func setNullable[V any](update bson.D, key string, set bool, v *V) bson.D {
	if !set {
		return update
	}
	if v == nil {
		return append(update, bson.E{Key: key, Value: nil})
	}
	return append(update, bson.E{Key: key, Value: *v})
}

// countDocuments 统计文档数
func countDocuments(ctx context.Context, col *mongo.Collection, filter bson.D) (int, error) {
	n, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, wrapError(err)
	}
	return int(n), nil
}
