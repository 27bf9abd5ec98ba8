package mongostore

import (
	"context"

	"sge-admin/internal/shared/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// DashboardStore
// ============================================================================

func (s *Store) CountStudents(ctx context.Context, filter model.StudentFilter) (int, error) {
	return countDocuments(ctx, s.col(ColStudents), studentFilter(filter))
}

func (s *Store) CountActiveTurmas(ctx context.Context) (int, error) {
	return countDocuments(ctx, s.col(ColTurmas), bson.D{{Key: "active", Value: true}})
}

func (s *Store) CountActiveCourses(ctx context.Context) (int, error) {
	return countDocuments(ctx, s.col(ColCourses), bson.D{{Key: "active", Value: true}})
}

func (s *Store) CountStudentsByCourse(ctx context.Context) ([]model.CourseCount, error) {
	pipeline := bson.A{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$course_name"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "course", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$_id", ""}}}},
			{Key: "count", Value: 1},
		}}},
	}

	cursor, err := s.col(ColStudents).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapError(err)
	}
	defer cursor.Close(ctx)

	results := []model.CourseCount{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Store) ListRecentStudents(ctx context.Context, limit int) ([]*model.Student, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	return findMany[model.Student](ctx, s.col(ColStudents), bson.D{}, opts)
}
