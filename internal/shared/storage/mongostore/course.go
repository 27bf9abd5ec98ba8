package mongostore

import (
	"context"

	"sge-admin/internal/shared/model"
	"sge-admin/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// CourseStore
// ============================================================================

func (s *Store) CreateCourse(ctx context.Context, course *model.Course) error {
	return insertOne(ctx, s.col(ColCourses), course)
}

func (s *Store) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	return getByID[model.Course](ctx, s.col(ColCourses), id)
}

func (s *Store) ListCourses(ctx context.Context) ([]*model.Course, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(storage.ListLimit)
	return findMany[model.Course](ctx, s.col(ColCourses), bson.D{}, opts)
}

func (s *Store) UpdateCourse(ctx context.Context, id string, patch *model.CoursePatch) (*model.Course, error) {
	var update bson.D
	update = setIf(update, "name", patch.Name)
	update = setIf(update, "workload", patch.Workload)
	update = setNullable(update, "description", patch.Description.Set, patch.Description.Value)
	update = setIf(update, "active", patch.Active)
	return patchByID[model.Course](ctx, s.col(ColCourses), id, update)
}

func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColCourses), id)
}
