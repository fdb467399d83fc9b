package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memorial-backend/internal/domains/memorial/model"
)

// fakeRepo is an in-memory MemorialRepository.
type fakeRepo struct {
	mu      sync.Mutex
	records map[string]model.Memorial
	failOps map[string]error // op name -> forced error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		records: make(map[string]model.Memorial),
		failOps: make(map[string]error),
	}
}

func (r *fakeRepo) Create(_ context.Context, m *model.Memorial) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failOps["create"]; err != nil {
		return err
	}
	if _, exists := r.records[m.Slug]; exists {
		return model.ErrSlugTaken
	}
	r.records[m.Slug] = *m
	return nil
}

func (r *fakeRepo) GetBySlug(_ context.Context, slug string) (*model.Memorial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failOps["get"]; err != nil {
		return nil, err
	}
	m, exists := r.records[slug]
	if !exists {
		return nil, model.ErrMemorialNotFound
	}
	copied := m
	return &copied, nil
}

func (r *fakeRepo) Update(_ context.Context, m *model.Memorial) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failOps["update"]; err != nil {
		return err
	}
	r.records[m.Slug] = *m
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failOps["delete"]; err != nil {
		return err
	}
	delete(r.records, slug)
	return nil
}

// fakeStorage is an in-memory ObjectStorage tracking live keys.
type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string]bool
	removed   []string
	removeErr error
}

func newFakeStorage(keys ...string) *fakeStorage {
	s := &fakeStorage{objects: make(map[string]bool)}
	for _, k := range keys {
		s.objects[k] = true
	}
	return s
}

func (s *fakeStorage) PresignedPut(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://store.example/presigned/" + key, nil
}

func (s *fakeStorage) RemoveObjects(_ context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeErr != nil {
		return s.removeErr
	}
	for _, k := range keys {
		delete(s.objects, k)
		s.removed = append(s.removed, k)
	}
	return nil
}

func (s *fakeStorage) PublicURL(key string) string {
	return "https://cdn.example/" + key
}

func (s *fakeStorage) KeyFromURL(rawURL string) (string, error) {
	const base = "https://cdn.example/"
	if !strings.HasPrefix(rawURL, base) {
		return "", errors.New("unparseable url")
	}
	return strings.TrimPrefix(rawURL, base), nil
}

func (s *fakeStorage) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects[key]
}

func strPtr(s string) *string { return &s }

func imagesPtr(urls ...string) *[]string {
	out := append([]string{}, urls...)
	return &out
}

func url(key string) string { return "https://cdn.example/" + key }

func createMemorial(t *testing.T, svc MemorialService, slug string, images ...string) *model.CreateMemorialResponse {
	t.Helper()
	resp, err := svc.Create(context.Background(), &model.CreateMemorialRequest{
		Slug:    slug,
		PetName: "Milo",
		Images:  images,
	})
	require.NoError(t, err)
	return resp
}

func TestCreate_Validation(t *testing.T) {
	svc := NewMemorialService(newFakeRepo(), newFakeStorage())

	tests := []struct {
		name string
		req  model.CreateMemorialRequest
	}{
		{"missing slug", model.CreateMemorialRequest{PetName: "Milo"}},
		{"missing pet name", model.CreateMemorialRequest{Slug: "milo-1"}},
		{"uppercase slug", model.CreateMemorialRequest{Slug: "Milo", PetName: "Milo"}},
		{"slug with spaces", model.CreateMemorialRequest{Slug: "milo 1", PetName: "Milo"}},
		{"trailing hyphen", model.CreateMemorialRequest{Slug: "milo-", PetName: "Milo"}},
		{"slug too long", model.CreateMemorialRequest{Slug: strings.Repeat("a", 65), PetName: "Milo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &tt.req)
			require.Error(t, err)
			assert.True(t, model.IsValidationError(err))
		})
	}
}

func TestCreate_SlugUniqueness(t *testing.T) {
	svc := NewMemorialService(newFakeRepo(), newFakeStorage())

	createMemorial(t, svc, "milo-1")

	_, err := svc.Create(context.Background(), &model.CreateMemorialRequest{
		Slug:    "milo-1",
		PetName: "Other Milo",
	})
	require.Error(t, err)
	assert.True(t, model.IsSlugTaken(err))

	// After delete the slug is free again.
	resp := createMemorial(t, svc, "milo-2")
	require.NoError(t, svc.Delete(context.Background(), "milo-2", resp.EditKey))
	createMemorial(t, svc, "milo-2")
}

func TestCreate_MintsUnguessableEditKey(t *testing.T) {
	svc := NewMemorialService(newFakeRepo(), newFakeStorage())

	a := createMemorial(t, svc, "milo-1")
	b := createMemorial(t, svc, "milo-2")

	assert.NotEmpty(t, a.EditKey)
	assert.NotEqual(t, a.EditKey, b.EditKey)
}

func TestGet_RoundTripWithoutEditKey(t *testing.T) {
	svc := NewMemorialService(newFakeRepo(), newFakeStorage())

	created := createMemorial(t, svc, "milo-1")

	got, err := svc.Get(context.Background(), "milo-1")
	require.NoError(t, err)

	assert.Equal(t, "milo-1", got.Slug)
	assert.Equal(t, "Milo", got.PetName)
	assert.Equal(t, "", got.ShortMessage)
	assert.Equal(t, "", got.MemorialContent)
	assert.Equal(t, []string{}, got.Images)
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Second)
}

func TestGet_NotFound(t *testing.T) {
	svc := NewMemorialService(newFakeRepo(), newFakeStorage())

	_, err := svc.Get(context.Background(), "ghost-99")
	require.Error(t, err)
	assert.True(t, model.IsNotFound(err))
}

func TestSummarize_DropsMissingSlugs(t *testing.T) {
	svc := NewMemorialService(newFakeRepo(), newFakeStorage())

	createMemorial(t, svc, "milo-1")

	summaries, err := svc.Summarize(context.Background(), &model.LookupRequest{
		Slugs: []string{"milo-1", "ghost-99"},
	})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "milo-1", summaries[0].Slug)
	assert.Equal(t, "Milo", summaries[0].PetName)
}

func TestSummarize_Validation(t *testing.T) {
	svc := NewMemorialService(newFakeRepo(), newFakeStorage())

	_, err := svc.Summarize(context.Background(), &model.LookupRequest{Slugs: nil})
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))

	slugs := make([]string, model.MaxBatchSlugs+1)
	_, err = svc.Summarize(context.Background(), &model.LookupRequest{Slugs: slugs})
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
}

func TestUpdate_Authorization(t *testing.T) {
	repo := newFakeRepo()
	svc := NewMemorialService(repo, newFakeStorage())

	createMemorial(t, svc, "milo-1")
	before, err := repo.GetBySlug(context.Background(), "milo-1")
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "milo-1", "", &model.UpdateMemorialRequest{
		PetName: strPtr("Hacked"),
	})
	assert.True(t, model.IsEditKeyMissing(err))

	_, err = svc.Update(context.Background(), "milo-1", "wrong-key", &model.UpdateMemorialRequest{
		PetName: strPtr("Hacked"),
	})
	assert.True(t, model.IsEditKeyMismatch(err))

	_, err = svc.Update(context.Background(), "ghost-99", "any-key", &model.UpdateMemorialRequest{})
	assert.True(t, model.IsNotFound(err))

	// Rejected calls must not mutate the stored record.
	after, err := repo.GetBySlug(context.Background(), "milo-1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdate_PatchSemantics(t *testing.T) {
	repo := newFakeRepo()
	svc := NewMemorialService(repo, newFakeStorage())

	resp := createMemorial(t, svc, "milo-1")

	got, err := svc.Update(context.Background(), "milo-1", resp.EditKey, &model.UpdateMemorialRequest{
		ShortMessage: strPtr("Forever in our hearts"),
	})
	require.NoError(t, err)

	// Omitted fields keep their stored values.
	assert.Equal(t, "Milo", got.PetName)
	assert.Equal(t, "Forever in our hearts", got.ShortMessage)

	// Slug, createdAt and editKey are immutable.
	stored, err := repo.GetBySlug(context.Background(), "milo-1")
	require.NoError(t, err)
	assert.Equal(t, resp.EditKey, stored.EditKey)
	assert.Equal(t, resp.CreatedAt, stored.CreatedAt)
}

func TestUpdate_ImageReconciliation_RemovesDropped(t *testing.T) {
	st := newFakeStorage("a.jpg", "b.jpg", "c.jpg")
	repo := newFakeRepo()
	svc := NewMemorialService(repo, st)

	resp := createMemorial(t, svc, "milo-1", url("a.jpg"), url("b.jpg"), url("c.jpg"))

	got, err := svc.Update(context.Background(), "milo-1", resp.EditKey, &model.UpdateMemorialRequest{
		Images: imagesPtr(url("a.jpg"), url("c.jpg")),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{url("a.jpg"), url("c.jpg")}, got.Images)
	assert.False(t, st.has("b.jpg"), "dropped blob must be deleted")
	assert.True(t, st.has("a.jpg"))
	assert.True(t, st.has("c.jpg"))
	assert.Equal(t, []string{"b.jpg"}, st.removed)
}

func TestUpdate_ImageReconciliation_AdoptsNewURLs(t *testing.T) {
	st := newFakeStorage("a.jpg", "b.jpg", "c.jpg", "d.jpg")
	repo := newFakeRepo()
	svc := NewMemorialService(repo, st)

	resp := createMemorial(t, svc, "milo-1", url("a.jpg"), url("b.jpg"), url("c.jpg"))

	got, err := svc.Update(context.Background(), "milo-1", resp.EditKey, &model.UpdateMemorialRequest{
		Images: imagesPtr(url("a.jpg"), url("b.jpg"), url("c.jpg"), url("d.jpg")),
	})
	require.NoError(t, err)

	assert.Len(t, got.Images, 4)
	assert.Empty(t, st.removed, "adopting a new URL must not trigger deletions")
}

func TestUpdate_AvatarTriState(t *testing.T) {
	st := newFakeStorage("old-avatar.jpg", "new-avatar.jpg")
	repo := newFakeRepo()
	svc := NewMemorialService(repo, st)

	resp, err := svc.Create(context.Background(), &model.CreateMemorialRequest{
		Slug:    "milo-1",
		PetName: "Milo",
		Avatar:  url("old-avatar.jpg"),
	})
	require.NoError(t, err)

	// Field not sent: avatar untouched.
	got, err := svc.Update(context.Background(), "milo-1", resp.EditKey, &model.UpdateMemorialRequest{
		PetName: strPtr("Milo II"),
	})
	require.NoError(t, err)
	assert.Equal(t, url("old-avatar.jpg"), got.Avatar)
	assert.True(t, st.has("old-avatar.jpg"))

	// Replacement: old blob removed.
	got, err = svc.Update(context.Background(), "milo-1", resp.EditKey, &model.UpdateMemorialRequest{
		Avatar: model.OptionalString{Set: true, Valid: true, Value: url("new-avatar.jpg")},
	})
	require.NoError(t, err)
	assert.Equal(t, url("new-avatar.jpg"), got.Avatar)
	assert.False(t, st.has("old-avatar.jpg"))

	// Explicit null: avatar cleared and its blob removed.
	got, err = svc.Update(context.Background(), "milo-1", resp.EditKey, &model.UpdateMemorialRequest{
		Avatar: model.OptionalString{Set: true, Valid: false},
	})
	require.NoError(t, err)
	assert.Equal(t, "", got.Avatar)
	assert.False(t, st.has("new-avatar.jpg"))
}

func TestUpdate_StorageFailureAbortsCommit(t *testing.T) {
	st := newFakeStorage("a.jpg", "b.jpg")
	repo := newFakeRepo()
	svc := NewMemorialService(repo, st)

	resp := createMemorial(t, svc, "milo-1", url("a.jpg"), url("b.jpg"))

	st.removeErr = errors.New("storage outage")

	_, err := svc.Update(context.Background(), "milo-1", resp.EditKey, &model.UpdateMemorialRequest{
		Images: imagesPtr(url("a.jpg")),
	})
	require.Error(t, err)
	assert.Equal(t, "STORAGE_ERROR", errCode(t, err))

	// The record must still reference both images.
	stored, err := repo.GetBySlug(context.Background(), "milo-1")
	require.NoError(t, err)
	assert.Equal(t, []string{url("a.jpg"), url("b.jpg")}, stored.Images)
}

func TestUpdate_UnparseableURLSkipped(t *testing.T) {
	st := newFakeStorage("a.jpg")
	repo := newFakeRepo()
	svc := NewMemorialService(repo, st)

	// Seed a record with a legacy URL the key extractor cannot handle.
	resp := createMemorial(t, svc, "milo-1", url("a.jpg"))
	stored, err := repo.GetBySlug(context.Background(), "milo-1")
	require.NoError(t, err)
	stored.Images = append(stored.Images, "http://legacy.example/not-ours.jpg")
	require.NoError(t, repo.Update(context.Background(), stored))

	got, err := svc.Update(context.Background(), "milo-1", resp.EditKey, &model.UpdateMemorialRequest{
		Images: imagesPtr(),
	})
	require.NoError(t, err, "a data-quality issue must not block the update")
	assert.Empty(t, got.Images)
	assert.False(t, st.has("a.jpg"))
}

func TestDelete_RemovesBlobsThenRecord(t *testing.T) {
	st := newFakeStorage("a.jpg", "b.jpg", "portrait.jpg")
	repo := newFakeRepo()
	svc := NewMemorialService(repo, st)

	resp, err := svc.Create(context.Background(), &model.CreateMemorialRequest{
		Slug:    "milo-1",
		PetName: "Milo",
		Images:  []string{url("a.jpg"), url("b.jpg")},
		Avatar:  url("portrait.jpg"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "milo-1", resp.EditKey))

	assert.False(t, st.has("a.jpg"))
	assert.False(t, st.has("b.jpg"))
	assert.False(t, st.has("portrait.jpg"))

	_, err = svc.Get(context.Background(), "milo-1")
	assert.True(t, model.IsNotFound(err))
}

func TestDelete_StorageFailureKeepsRecord(t *testing.T) {
	st := newFakeStorage("a.jpg", "b.jpg")
	repo := newFakeRepo()
	svc := NewMemorialService(repo, st)

	resp := createMemorial(t, svc, "milo-1", url("a.jpg"), url("b.jpg"))

	st.removeErr = errors.New("storage outage")

	err := svc.Delete(context.Background(), "milo-1", resp.EditKey)
	require.Error(t, err)
	assert.Equal(t, "STORAGE_ERROR", errCode(t, err))

	// The record survives, still referencing every image, so the delete can
	// be retried.
	stored, err := repo.GetBySlug(context.Background(), "milo-1")
	require.NoError(t, err)
	assert.Equal(t, []string{url("a.jpg"), url("b.jpg")}, stored.Images)
}

func TestDelete_Idempotent(t *testing.T) {
	svc := NewMemorialService(newFakeRepo(), newFakeStorage())

	assert.NoError(t, svc.Delete(context.Background(), "ghost-99", "any-key"))
}

func TestDelete_Authorization(t *testing.T) {
	repo := newFakeRepo()
	svc := NewMemorialService(repo, newFakeStorage())

	createMemorial(t, svc, "milo-1")

	err := svc.Delete(context.Background(), "milo-1", "")
	assert.True(t, model.IsEditKeyMissing(err))

	err = svc.Delete(context.Background(), "milo-1", "wrong-key")
	assert.True(t, model.IsEditKeyMismatch(err))

	_, err = repo.GetBySlug(context.Background(), "milo-1")
	assert.NoError(t, err, "record must survive rejected delete attempts")
}

func TestDiffURLs(t *testing.T) {
	tests := []struct {
		name     string
		old, new []string
		want     []string
	}{
		{"drop middle", []string{"a", "b", "c"}, []string{"a", "c"}, []string{"b"}},
		{"no change", []string{"a", "b"}, []string{"a", "b"}, nil},
		{"reorder only", []string{"a", "b"}, []string{"b", "a"}, nil},
		{"drop all", []string{"a", "b"}, nil, []string{"a", "b"}},
		{"adopt new", []string{"a"}, []string{"a", "d"}, nil},
		{"empty old", nil, []string{"a"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, diffURLs(tt.old, tt.new))
		})
	}
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	var memErr *model.MemorialError
	require.ErrorAs(t, err, &memErr)
	return memErr.Code
}
