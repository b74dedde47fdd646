package logics

import (
	"context"
	"errors"
	"testing"

	"gallery-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newGroupTestService(t *testing.T) *GroupService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Group{}, &models.Image{}))
	return NewGroupService(db)
}

func TestGroupServiceCRUD(t *testing.T) {
	ctx := context.Background()
	svc := newGroupTestService(t)

	created, err := svc.Create(ctx, "vacation", "summer trips")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "vacation", got.Name)

	updated, err := svc.Update(ctx, created.ID, "holidays", "all trips")
	require.NoError(t, err)
	assert.Equal(t, "holidays", updated.Name)
	assert.Equal(t, "all trips", updated.Description)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestGroupServiceListOrdersByName(t *testing.T) {
	ctx := context.Background()
	svc := newGroupTestService(t)

	for _, name := range []string{"zoo", "alps", "city"} {
		_, err := svc.Create(ctx, name, "")
		require.NoError(t, err)
	}

	groups, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "alps", groups[0].Name)
	assert.Equal(t, "city", groups[1].Name)
	assert.Equal(t, "zoo", groups[2].Name)
}

func TestGroupServiceNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newGroupTestService(t)

	_, err := svc.Get(ctx, 999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	_, err = svc.Update(ctx, 999, "x", "")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	err = svc.Delete(ctx, 999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
