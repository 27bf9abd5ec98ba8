// Package mongostore 实现基于 MongoDB 的 PersistentStore
//
// 使用 mongo-go-driver v2，通过 bson tag 实现 model 结构体的序列化/反序列化。
// 所有 Collection 名称和索引在 ensureIndexes 中统一管理。
//
// 每个写操作都是单文档原子操作；唯一性（用户邮箱、机构单例）由唯一索引保证，
// 不依赖应用层的"先查后写"。
package mongostore

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"sge-admin/internal/shared/storage"
)

// Collection 名称常量（与历史数据保持一致）
const (
	ColUsers       = "users"
	ColCourses     = "courses"
	ColTurmas      = "turmas"
	ColStudents    = "students"
	ColInstitution = "institution"
)

// Store 实现 storage.PersistentStore 接口的 MongoDB 驱动
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ storage.PersistentStore = (*Store)(nil)

// NewStore 创建 MongoDB 存储实例
//
// uri: MongoDB 连接 URI，如 "mongodb://localhost:27017"
// dbName: 数据库名称，如 "sge"
func NewStore(uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect failed: %w", err)
	}

	// 验证连接
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping failed: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}

	// 唯一索引缺失会破坏邮箱唯一性，必须成功
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ensure indexes failed: %w", err)
	}

	log.Printf("[mongostore] Connected to database %s", dbName)
	return s, nil
}

// Ping 检查连接
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close 关闭 MongoDB 连接
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// col 获取指定 Collection
func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// ensureIndexes 创建所有必要的索引
func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		// users
		{ColUsers, bson.D{{Key: "email", Value: 1}}, true},

		// courses / turmas
		{ColCourses, bson.D{{Key: "name", Value: 1}}, false},
		{ColTurmas, bson.D{{Key: "name", Value: 1}}, false},

		// students
		{ColStudents, bson.D{{Key: "name", Value: 1}}, false},
		{ColStudents, bson.D{{Key: "turma_id", Value: 1}}, false},
		{ColStudents, bson.D{{Key: "created_at", Value: -1}}, false},

		// institution 单例
		{ColInstitution, bson.D{{Key: "key", Value: 1}}, true},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}

	return nil
}
