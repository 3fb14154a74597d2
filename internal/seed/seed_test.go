package seed

import (
	"context"
	"testing"

	"fandomapp/internal/database"
	"fandomapp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestRun(t *testing.T) {
	db := setupTestDB(t)

	res, err := Run(context.Background(), db, Options{Users: 3, PerUser: 2, Seed: 42, PasswordCost: bcrypt.MinCost}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Users)
	assert.Equal(t, 6, res.Posts)
	assert.Equal(t, 6, res.Discussions)
	assert.Equal(t, 6, res.Fanfics)

	assert.EqualValues(t, 3, count(t, db, &models.User{}))
	assert.EqualValues(t, 3, count(t, db, &models.Profile{}))
	assert.EqualValues(t, 6, count(t, db, &models.Post{}))
	assert.EqualValues(t, res.Comments, count(t, db, &models.Comment{}))
	assert.EqualValues(t, res.Likes, count(t, db, &models.PostLike{})+count(t, db, &models.FanficLike{}))

	var fanfics []models.Fanfic
	require.NoError(t, db.Find(&fanfics).Error)
	for _, f := range fanfics {
		assert.True(t, f.Rating.Valid(), "rating %q", f.Rating)
		assert.True(t, f.Genre.Valid(), "genre %q", f.Genre)
		assert.NotEmpty(t, f.Title)
	}
}

func TestSeededUsersCanSignIn(t *testing.T) {
	db := setupTestDB(t)
	_, err := Run(context.Background(), db, Options{Users: 1, PerUser: 0, Seed: 7, PasswordCost: bcrypt.MinCost}, zap.NewNop())
	require.NoError(t, err)

	var user models.User
	require.NoError(t, db.First(&user).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(DefaultPassword)))
}
