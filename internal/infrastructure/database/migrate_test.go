package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/levanhoang792/manage-building-sub000/internal/domain/models"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/config"
	"github.com/levanhoang792/manage-building-sub000/internal/infrastructure/database"
	"github.com/levanhoang792/manage-building-sub000/internal/test/testdb"
)

func TestEnsureAdminExists_CreatesOnce(t *testing.T) {
	db := testdb.New(t)

	require.NoError(t, database.EnsureAdminExists(db, "s3cret"))
	require.NoError(t, database.EnsureAdminExists(db, "other"))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, models.RoleAdmin, users[0].Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].Password), []byte("s3cret")))
}

func TestMigrate_DropRecreates(t *testing.T) {
	db := testdb.New(t)
	require.NoError(t, db.Create(&models.Building{Name: "HQ"}).Error)

	require.NoError(t, database.Migrate(db, "drop"))

	var count int64
	require.NoError(t, db.Model(&models.Building{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDialector(t *testing.T) {
	_, err := database.Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)

	d, err := database.Dialector(&config.Config{DBDriver: "sqlite", DBName: "file::memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())
}
