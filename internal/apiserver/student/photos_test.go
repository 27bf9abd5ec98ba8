package student

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sge-admin/internal/apiserver/integrity"
	"sge-admin/internal/shared/apperr"
	objstore "sge-admin/internal/shared/minio"
	"sge-admin/internal/shared/model"
	"sge-admin/internal/shared/storage"
	"sge-admin/internal/shared/storage/repository"
	"sge-admin/internal/shared/storage/storagetest"
	"sge-admin/pkg/logging"
)

const pngPhoto = "data:image/png;base64,aGVsbG8="

// memoryObjects 内存对象存储
type memoryObjects struct {
	data       map[string][]byte
	types      map[string]string
	uploads    int
	failUpload bool
}

func newMemoryObjects() *memoryObjects {
	return &memoryObjects{data: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryObjects) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	m.uploads++
	if m.failUpload {
		return errors.New("minio down")
	}
	b, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.data[key] = b
	m.types[key] = contentType
	return nil
}

func (m *memoryObjects) Open(ctx context.Context, key string) (*objstore.Object, error) {
	b, ok := m.data[key]
	if !ok {
		return nil, objstore.ErrObjectNotFound
	}
	return &objstore.Object{Body: io.NopCloser(bytes.NewReader(b)), ContentType: m.types[key], Size: int64(len(b))}, nil
}

func (m *memoryObjects) Latest(ctx context.Context, prefix string) (string, error) {
	latest := ""
	for key := range m.data {
		if strings.HasPrefix(key, prefix) && key > latest {
			latest = key
		}
	}
	if latest == "" {
		return "", objstore.ErrObjectNotFound
	}
	return latest, nil
}

// failingCreates 插入总是失败的学生存储
type failingCreates struct {
	storage.StudentStore
}

func (f failingCreates) CreateStudent(ctx context.Context, student *model.Student) error {
	return errors.New("insert failed")
}

func seedTurma(t *testing.T, store *repository.Store) *model.Turma {
	t.Helper()
	turma := &model.Turma{
		ID: uuid.NewString(), Name: "T1", CourseID: "c1", CourseName: "Math",
		Period: "manhã", Year: 2024, Active: true, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.CreateTurma(context.Background(), turma))
	return turma
}

func seedStudent(t *testing.T, store *repository.Store, turma *model.Turma, photo string) *model.Student {
	t.Helper()
	st := &model.Student{
		ID: uuid.NewString(), Name: "Ana", Photo: &photo, TurmaID: turma.ID,
		TurmaName: turma.Name, CourseName: turma.CourseName,
		Status: model.StudentStatusActive, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.CreateStudent(context.Background(), st))
	return st
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		photo   *string
		wantErr bool
	}{
		{"absent", nil, false},
		{"png data url", strPtr(pngPhoto), false},
		{"external link", strPtr("https://cdn.example/ana.png"), false},
		{"html data url", strPtr("data:text/html;base64,PHNjcmlwdD4="), true},
		{"no mime", strPtr("data:;base64,aGk="), true},
		{"bad payload", strPtr("data:image/png;base64,!!!"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.photo)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.As(err).Kind)
		})
	}
}

func TestServeInlineHeaders(t *testing.T) {
	var photos *Photos

	rec := httptest.NewRecorder()
	require.NoError(t, photos.Serve(rec, httptest.NewRequest(http.MethodGet, "/", nil), &model.Student{ID: "s1", Photo: strPtr(pngPhoto)}))
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "hello", rec.Body.String())

	// 旧数据中的非图片内容不按原类型输出
	rec = httptest.NewRecorder()
	legacy := "data:text/html;base64,PHNjcmlwdD4="
	require.NoError(t, photos.Serve(rec, httptest.NewRequest(http.MethodGet, "/", nil), &model.Student{ID: "s1", Photo: &legacy}))
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	err := photos.Serve(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), &model.Student{ID: "s1"})
	assert.ErrorIs(t, err, apperr.NotFound("photo"))
}

func TestOffloadAfterWrite(t *testing.T) {
	store := storagetest.NewSQLite(t)
	objects := newMemoryObjects()
	photos := NewPhotos(objects, "/api", logging.Discard())
	h := NewHandler(store, integrity.NewManager(store), photos, nil, logging.Discard())
	ctx := context.Background()

	st := seedStudent(t, store, seedTurma(t, store), pngPhoto)

	got := h.offloadPhoto(ctx, st)
	require.NotNil(t, got.Photo)
	assert.Equal(t, "/api/students/"+st.ID+"/photo", *got.Photo)
	assert.Equal(t, 1, objects.uploads)

	stored, err := store.GetStudent(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, *got.Photo, *stored.Photo)

	rec := httptest.NewRecorder()
	require.NoError(t, photos.Serve(rec, httptest.NewRequest(http.MethodGet, "/", nil), stored))
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "hello", rec.Body.String())
}

func TestOffloadFailureKeepsInlinePhoto(t *testing.T) {
	store := storagetest.NewSQLite(t)
	objects := newMemoryObjects()
	objects.failUpload = true
	h := NewHandler(store, integrity.NewManager(store), NewPhotos(objects, "/api", logging.Discard()), nil, logging.Discard())
	ctx := context.Background()

	st := seedStudent(t, store, seedTurma(t, store), pngPhoto)

	got := h.offloadPhoto(ctx, st)
	assert.Equal(t, pngPhoto, *got.Photo)

	stored, err := store.GetStudent(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, pngPhoto, *stored.Photo)
}

func TestCreateDoesNotUploadWhenInsertFails(t *testing.T) {
	store := storagetest.NewSQLite(t)
	objects := newMemoryObjects()
	h := NewHandler(failingCreates{store}, integrity.NewManager(store), NewPhotos(objects, "/api", logging.Discard()), nil, logging.Discard())
	turma := seedTurma(t, store)

	body := `{"name":"Ana","turma_id":"` + turma.ID + `","photo":"` + pngPhoto + `"}`
	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/students", strings.NewReader(body)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, objects.uploads)
}

func strPtr(s string) *string { return &s }
