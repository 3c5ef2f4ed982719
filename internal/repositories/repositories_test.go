package repositories

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"hairline/internal/models/db_models"
	"hairline/internal/session"
	"hairline/pkg/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&db_models.FlowState{}, &db_models.Session{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestFlowStateRepository_SetGetOverwrite(t *testing.T) {
	ctx := context.Background()
	repo := NewFlowStateRepository(newTestDB(t), 0)

	_, ok, err := repo.Get(ctx, "s1", "checkout.plan_id")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, "s1", "checkout.plan_id", "hair"))
	require.NoError(t, repo.Set(ctx, "s1", "checkout.plan_id", "hair-plus"))
	require.NoError(t, repo.Set(ctx, "s2", "checkout.plan_id", "other"))

	v, ok, err := repo.Get(ctx, "s1", "checkout.plan_id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hair-plus", v)
}

func TestFlowStateRepository_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	repo := NewFlowStateRepository(newTestDB(t), 0)

	require.NoError(t, repo.Set(ctx, "s1", "checkout.stage", "payment"))
	require.NoError(t, repo.Set(ctx, "s1", "checkout.address", "{}"))
	require.NoError(t, repo.Set(ctx, "s1", "questionnaire", "{}"))
	require.NoError(t, repo.Set(ctx, "s2", "checkout.stage", "plan"))

	require.NoError(t, repo.DeletePrefix(ctx, "s1", "checkout."))

	_, ok, _ := repo.Get(ctx, "s1", "checkout.stage")
	assert.False(t, ok)
	_, ok, _ = repo.Get(ctx, "s1", "questionnaire")
	assert.True(t, ok)
	_, ok, _ = repo.Get(ctx, "s2", "checkout.stage")
	assert.True(t, ok)

	require.NoError(t, repo.Delete(ctx, "s1", "questionnaire"))
	_, ok, _ = repo.Get(ctx, "s1", "questionnaire")
	assert.False(t, ok)
}

func TestFlowStateRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	repo := NewFlowStateRepository(newTestDB(t), time.Hour).(*flowStateRepository)
	now := time.Unix(1_800_000_000, 0)
	repo.now = func() time.Time { return now }

	require.NoError(t, repo.Set(ctx, "s1", "booking", "{}"))
	_, ok, _ := repo.Get(ctx, "s1", "booking")
	assert.True(t, ok)

	now = now.Add(2 * time.Hour)
	_, ok, _ = repo.Get(ctx, "s1", "booking")
	assert.False(t, ok)

	n, err := repo.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func newSessionRepo(t *testing.T) session.Store {
	t.Helper()
	sealer, err := utils.NewSealer("0123456789abcdef-test-secret")
	require.NoError(t, err)
	return NewSessionRepository(newTestDB(t), sealer, time.Hour)
}

func TestSessionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newSessionRepo(t)

	s := session.New()
	s.AccessToken = "access-token"
	s.RefreshToken = "refresh-token"
	s.Profile = &session.Profile{ID: 42, Name: "Ana", Email: "ana@example.com", Role: "patient"}
	s.ExpiresAt = time.Unix(1_900_000_000, 0)
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Load(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "access-token", got.AccessToken)
	assert.Equal(t, "refresh-token", got.RefreshToken)
	assert.Equal(t, s.Profile, got.Profile)
	assert.True(t, s.ExpiresAt.Equal(got.ExpiresAt))

	s.AccessToken = "rotated"
	require.NoError(t, store.Save(ctx, s))
	got, err = store.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "rotated", got.AccessToken)
}

func TestSessionRepository_TokensSealedAtRest(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	sealer, err := utils.NewSealer("0123456789abcdef-test-secret")
	require.NoError(t, err)
	store := NewSessionRepository(db, sealer, 0)

	s := session.New()
	s.AccessToken = "plain-access-token"
	require.NoError(t, store.Save(ctx, s))

	var row db_models.Session
	require.NoError(t, db.First(&row).Error)
	assert.NotEmpty(t, row.AccessToken)
	assert.NotContains(t, row.AccessToken, "plain-access-token")
}

func TestSessionRepository_ClearKeepsSession(t *testing.T) {
	ctx := context.Background()
	store := newSessionRepo(t)

	s := session.New()
	s.AccessToken = "access-token"
	s.Profile = &session.Profile{ID: 1}
	require.NoError(t, store.Save(ctx, s))

	require.NoError(t, store.Clear(ctx, s.ID))
	got, err := store.Load(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Authenticated())
	assert.Nil(t, got.Profile)
}

func TestSessionRepository_UnknownSession(t *testing.T) {
	ctx := context.Background()
	store := newSessionRepo(t)

	got, err := store.Load(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = store.Load(ctx, session.New().ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
