package repository

import (
	"context"
	"regexp"
	"testing"

	"fandomapp/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDiscussionRepository_IncrementViewsSQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewDiscussionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "discussions" SET "views"=views + $1 WHERE id = $2`)).
		WithArgs(1, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.IncrementViews(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscussionRepository_IncrementViewsMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewDiscussionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "discussions" SET "views"=views + $1 WHERE id = $2`)).
		WithArgs(1, 404).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.IncrementViews(context.Background(), 404)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscussionRepository_IncrementViewsTouchesOnlyViews(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDiscussionRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")

	d := &models.Discussion{AuthorID: alice.ID, Title: "t", Content: "c"}
	require.NoError(t, repo.Create(ctx, d))
	before, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Zero(t, before.Views)

	require.NoError(t, repo.IncrementViews(ctx, d.ID))
	require.NoError(t, repo.IncrementViews(ctx, d.ID))

	after, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.Views)
	assert.True(t, after.UpdatedAt.Equal(before.UpdatedAt))
	assert.Equal(t, before.Title, after.Title)
	assert.Equal(t, before.Content, after.Content)
}

func TestDiscussionRepository_DeleteCascadesComments(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDiscussionRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	keep := &models.Discussion{AuthorID: alice.ID, Title: "keep", Content: "c"}
	drop := &models.Discussion{AuthorID: alice.ID, Title: "drop", Content: "c"}
	require.NoError(t, repo.Create(ctx, keep))
	require.NoError(t, repo.Create(ctx, drop))
	require.NoError(t, comments.Create(ctx, &models.Comment{DiscussionID: drop.ID, AuthorID: bob.ID, Content: "first"}))
	require.NoError(t, comments.Create(ctx, &models.Comment{DiscussionID: drop.ID, AuthorID: alice.ID, Content: "second"}))
	require.NoError(t, comments.Create(ctx, &models.Comment{DiscussionID: keep.ID, AuthorID: bob.ID, Content: "stays"}))

	listed, err := comments.ListByDiscussion(ctx, drop.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "first", listed[0].Content)
	assert.Equal(t, "bob", listed[0].Author.Username)

	require.NoError(t, repo.Delete(ctx, drop.ID))

	listed, err = comments.ListByDiscussion(ctx, drop.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)

	listed, err = comments.ListByDiscussion(ctx, keep.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}
