package mongostore

import (
	"context"

	"sge-admin/internal/shared/model"
	"sge-admin/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// TurmaStore
// ============================================================================

func (s *Store) CreateTurma(ctx context.Context, turma *model.Turma) error {
	return insertOne(ctx, s.col(ColTurmas), turma)
}

func (s *Store) GetTurma(ctx context.Context, id string) (*model.Turma, error) {
	return getByID[model.Turma](ctx, s.col(ColTurmas), id)
}

func (s *Store) ListTurmas(ctx context.Context) ([]*model.Turma, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(storage.ListLimit)
	return findMany[model.Turma](ctx, s.col(ColTurmas), bson.D{}, opts)
}

func (s *Store) UpdateTurma(ctx context.Context, id string, patch *model.TurmaPatch) (*model.Turma, error) {
	var update bson.D
	update = setIf(update, "name", patch.Name)
	update = setIf(update, "course_id", patch.CourseID)
	update = setIf(update, "course_name", patch.CourseName)
	update = setIf(update, "period", patch.Period)
	update = setIf(update, "year", patch.Year)
	update = setIf(update, "active", patch.Active)
	return patchByID[model.Turma](ctx, s.col(ColTurmas), id, update)
}

func (s *Store) DeleteTurma(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColTurmas), id)
}
