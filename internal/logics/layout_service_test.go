package logics

import (
	"context"
	"errors"
	"testing"

	"gallery-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newLayoutTestService(t *testing.T) *LayoutService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.HomeLayout{}))
	return NewLayoutService(db)
}

func TestLayoutServiceActivation(t *testing.T) {
	ctx := context.Background()
	svc := newLayoutTestService(t)

	first, err := svc.Create(ctx, "user-a", "grid", datatypes.JSON(`{"columns":3}`))
	require.NoError(t, err)
	second, err := svc.Create(ctx, "user-a", "masonry", datatypes.JSON(`{"columns":4}`))
	require.NoError(t, err)

	// No layout is active until one is chosen.
	_, err = svc.GetActive(ctx, "user-a")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = svc.Activate(ctx, "user-a", first.ID)
	require.NoError(t, err)
	active, err := svc.GetActive(ctx, "user-a")
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	// Activating another layout deactivates the first.
	_, err = svc.Activate(ctx, "user-a", second.ID)
	require.NoError(t, err)
	active, err = svc.GetActive(ctx, "user-a")
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	layouts, err := svc.List(ctx, "user-a")
	require.NoError(t, err)
	activeCount := 0
	for _, l := range layouts {
		if l.IsActive {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestLayoutServiceScopedByUser(t *testing.T) {
	ctx := context.Background()
	svc := newLayoutTestService(t)

	mine, err := svc.Create(ctx, "user-a", "grid", datatypes.JSON(`{}`))
	require.NoError(t, err)

	// Another user cannot see, activate, or delete it.
	_, err = svc.Activate(ctx, "user-b", mine.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	err = svc.Delete(ctx, "user-b", mine.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	layouts, err := svc.List(ctx, "user-b")
	require.NoError(t, err)
	assert.Empty(t, layouts)
}

func TestLayoutServiceUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newLayoutTestService(t)

	layout, err := svc.Create(ctx, "user-a", "grid", datatypes.JSON(`{"columns":3}`))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "user-a", layout.ID, "wide grid", datatypes.JSON(`{"columns":6}`))
	require.NoError(t, err)
	assert.Equal(t, "wide grid", updated.Name)
	assert.JSONEq(t, `{"columns":6}`, string(updated.Config))

	require.NoError(t, svc.Delete(ctx, "user-a", layout.ID))
	layouts, err := svc.List(ctx, "user-a")
	require.NoError(t, err)
	assert.Empty(t, layouts)
}
