package infra

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"hairline/internal/models/db_models"
)

func TestOpenDatabase_MemoryMigrates(t *testing.T) {
	db, err := OpenDatabase(MemoryDSN, zap.NewNop())
	require.NoError(t, err)
	defer CloseDatabase(db, zap.NewNop())

	assert.True(t, db.Migrator().HasTable(&db_models.FlowState{}))
	assert.True(t, db.Migrator().HasTable(&db_models.Session{}))
}

func TestRunEvery_TicksUntilStopped(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	var calls atomic.Int64
	RunEvery(lc, 5*time.Millisecond, "test", zap.NewNop(), func(context.Context) (int64, error) {
		if calls.Add(1)%2 == 0 {
			return 0, errors.New("transient")
		}
		return 1, nil
	})

	lc.RequireStart()
	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	lc.RequireStop()

	stopped := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load())
}

func TestRunEvery_DisabledInterval(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	RunEvery(lc, 0, "off", zap.NewNop(), func(context.Context) (int64, error) {
		t.Fatal("sweeper must not run")
		return 0, nil
	})
	lc.RequireStart()
	lc.RequireStop()
}
