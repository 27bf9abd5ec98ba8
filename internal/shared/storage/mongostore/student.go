package mongostore

import (
	"context"

	"sge-admin/internal/shared/model"
	"sge-admin/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// StudentStore
// ============================================================================

func (s *Store) CreateStudent(ctx context.Context, student *model.Student) error {
	return insertOne(ctx, s.col(ColStudents), student)
}

func (s *Store) GetStudent(ctx context.Context, id string) (*model.Student, error) {
	return getByID[model.Student](ctx, s.col(ColStudents), id)
}

func (s *Store) ListStudents(ctx context.Context, filter model.StudentFilter) ([]*model.Student, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(storage.ListLimit)
	return findMany[model.Student](ctx, s.col(ColStudents), studentFilter(filter), opts)
}

func (s *Store) UpdateStudent(ctx context.Context, id string, patch *model.StudentPatch) (*model.Student, error) {
	var update bson.D
	update = setIf(update, "name", patch.Name)
	update = setNullable(update, "email", patch.Email.Set, patch.Email.Value)
	update = setNullable(update, "phone", patch.Phone.Set, patch.Phone.Value)
	update = setNullable(update, "birth_date", patch.BirthDate.Set, patch.BirthDate.Value)
	update = setNullable(update, "photo", patch.Photo.Set, patch.Photo.Value)
	update = setIf(update, "turma_id", patch.TurmaID)
	update = setIf(update, "turma_name", patch.TurmaName)
	update = setIf(update, "course_name", patch.CourseName)
	update = setIf(update, "status", patch.Status)
	return patchByID[model.Student](ctx, s.col(ColStudents), id, update)
}

func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColStudents), id)
}

// studentFilter 构建学生查询条件，空字段不参与过滤
func studentFilter(f model.StudentFilter) bson.D {
	filter := bson.D{}
	if f.TurmaID != "" {
		filter = append(filter, bson.E{Key: "turma_id", Value: f.TurmaID})
	}
	if f.Status != "" {
		filter = append(filter, bson.E{Key: "status", Value: f.Status})
	}
	return filter
}
