package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"fandomapp/internal/access"
	"fandomapp/internal/database"
	"fandomapp/internal/media"
	"fandomapp/internal/models"
	"fandomapp/internal/validation"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var tinyPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func pngUpload() *media.Upload {
	return &media.Upload{Filename: "pic.png", Size: int64(len(tinyPNG)), Body: bytes.NewReader(tinyPNG)}
}

func textUpload() *media.Upload {
	body := []byte("definitely not an image")
	return &media.Upload{Filename: "pic.png", Size: int64(len(body)), Body: bytes.NewReader(body)}
}

// memStorage is an in-memory media.Storage.
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	next    int
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (m *memStorage) Save(_ context.Context, folder string, upload *media.Upload) (string, error) {
	data, err := io.ReadAll(upload.Body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	ref := fmt.Sprintf("%s/%d.png", folder, m.next)
	m.objects[ref] = data
	return ref, nil
}

func (m *memStorage) Delete(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, ref)
	m.deleted = append(m.deleted, ref)
	return nil
}

func (m *memStorage) URL(ref string) string { return "/media/" + ref }

func (m *memStorage) has(ref string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[ref]
	return ok
}

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

func newTestServices(t *testing.T) (*Services, *gorm.DB, *memStorage) {
	t.Helper()
	db := setupTestDB(t)
	store := newMemStorage()
	svc := New(db, store, zap.NewNop())
	svc.Accounts.cost = bcrypt.MinCost
	return svc, db, store
}

func register(t *testing.T, svc *Services, username string) access.Caller {
	t.Helper()
	user, err := svc.Accounts.Register(context.Background(), validation.RegisterForm{
		Username:  username,
		Email:     username + "@example.com",
		Password1: "s3cret-pass",
		Password2: "s3cret-pass",
	})
	require.NoError(t, err)
	return access.Caller{UserID: user.ID, Username: user.Username}
}

func requireCode(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code, appErr.Message)
	return appErr
}
