package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fandomapp/internal/access"
	"fandomapp/internal/models"
	"fandomapp/internal/repository"
	"fandomapp/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	getByIDFn func(context.Context, uint) (*models.Post, error)
	updateFn  func(context.Context, *models.Post) error
	deleteFn  func(context.Context, uint) error
	toggleFn  func(context.Context, uint, uint) (bool, error)
}

func (s *postRepoStub) Create(context.Context, *models.Post) error { return nil }
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(context.Context, int) (*repository.Page[models.Post], error) {
	return &repository.Page[models.Post]{}, nil
}
func (s *postRepoStub) Latest(context.Context, int) ([]models.Post, error)       { return nil, nil }
func (s *postRepoStub) ListByAuthor(context.Context, uint) ([]models.Post, error) { return nil, nil }
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }
func (s *postRepoStub) ToggleLike(ctx context.Context, postID, userID uint) (bool, error) {
	return s.toggleFn(ctx, postID, userID)
}
func (s *postRepoStub) IsLiked(context.Context, uint, uint) (bool, error) { return false, nil }
func (s *postRepoStub) CountLikes(context.Context, uint) (int64, error)   { return 0, nil }

func TestPostCreateValidates(t *testing.T) {
	svc, _, store := newTestServices(t)
	alice := register(t, svc, "alice")
	ctx := context.Background()

	_, err := svc.Posts.Create(ctx, alice, PostInput{Form: validation.PostForm{Content: "c"}, Image: textUpload()})
	appErr := requireCode(t, err, models.CodeValidation)
	assert.Contains(t, appErr.Fields, "title")
	assert.Contains(t, appErr.Fields, "image")
	assert.Empty(t, store.objects)

	_, err = svc.Posts.Create(ctx, access.Anonymous, PostInput{Form: validation.PostForm{Title: "t", Content: "c"}})
	requireCode(t, err, models.CodeUnauthenticated)

	post, err := svc.Posts.Create(ctx, alice, PostInput{Form: validation.PostForm{Title: "  Hello  ", Content: "World"}, Image: pngUpload()})
	require.NoError(t, err)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, alice.UserID, post.AuthorID)
	assert.Equal(t, "alice", post.Author.Username)
	assert.True(t, store.has(post.Image))
	assert.Equal(t, "/media/"+post.Image, post.ImageURL)
}

func TestPostEditByOtherUserIsDenied(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")

	post, err := svc.Posts.Create(ctx, alice, PostInput{Form: validation.PostForm{Title: "original", Content: "text"}})
	require.NoError(t, err)

	_, err = svc.Posts.Edit(ctx, bob, post.ID, PostInput{Form: validation.PostForm{Title: "hacked", Content: "hacked"}})
	appErr := requireCode(t, err, models.CodeForbidden)
	assert.Equal(t, "You cannot edit this post!", appErr.Message)

	err = svc.Posts.Delete(ctx, bob, post.ID)
	appErr = requireCode(t, err, models.CodeForbidden)
	assert.Equal(t, "You cannot delete this post!", appErr.Message)

	_, err = svc.Posts.EditForm(ctx, bob, post.ID)
	requireCode(t, err, models.CodeForbidden)

	got, err := svc.Posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Title)
	assert.Equal(t, "text", got.Content)
	assert.True(t, got.UpdatedAt.Equal(post.UpdatedAt))
}

func TestPostEditByAuthor(t *testing.T) {
	svc, _, store := newTestServices(t)
	ctx := context.Background()
	alice := register(t, svc, "alice")

	post, err := svc.Posts.Create(ctx, alice, PostInput{Form: validation.PostForm{Title: "v1", Content: "c"}, Image: pngUpload()})
	require.NoError(t, err)
	firstImage := post.Image

	time.Sleep(5 * time.Millisecond)
	edited, err := svc.Posts.Edit(ctx, alice, post.ID, PostInput{Form: validation.PostForm{Title: "v2", Content: "c2"}, Image: pngUpload()})
	require.NoError(t, err)
	assert.Equal(t, "v2", edited.Title)
	assert.NotEqual(t, firstImage, edited.Image)
	assert.False(t, store.has(firstImage), "replaced image is removed")
	assert.True(t, edited.CreatedAt.Equal(post.CreatedAt))
	assert.True(t, edited.UpdatedAt.After(post.UpdatedAt))

	_, err = svc.Posts.Edit(ctx, alice, post.ID, PostInput{Form: validation.PostForm{Title: "", Content: "c"}})
	requireCode(t, err, models.CodeValidation)

	cleared, err := svc.Posts.Edit(ctx, alice, post.ID, PostInput{Form: validation.PostForm{Title: "v3", Content: "c"}, ClearImage: true})
	require.NoError(t, err)
	assert.Empty(t, cleared.Image)
	assert.False(t, store.has(edited.Image))

	require.NoError(t, svc.Posts.Delete(ctx, alice, post.ID))
	_, err = svc.Posts.Get(ctx, post.ID)
	requireCode(t, err, models.CodeNotFound)
}

func TestPostToggleLike(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")

	post, err := svc.Posts.Create(ctx, alice, PostInput{Form: validation.PostForm{Title: "t", Content: "c"}})
	require.NoError(t, err)

	liked, err := svc.Posts.ToggleLike(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	detail, err := svc.Posts.Detail(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.True(t, detail.IsLiked)
	assert.Equal(t, int64(1), detail.TotalLikes)

	detail, err = svc.Posts.Detail(ctx, access.Anonymous, post.ID)
	require.NoError(t, err)
	assert.False(t, detail.IsLiked)

	liked, err = svc.Posts.ToggleLike(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	_, err = svc.Posts.ToggleLike(ctx, bob, 9999)
	requireCode(t, err, models.CodeNotFound)
	_, err = svc.Posts.ToggleLike(ctx, access.Anonymous, post.ID)
	requireCode(t, err, models.CodeUnauthenticated)
}

func TestPostEditDiscardsUploadWhenUpdateFails(t *testing.T) {
	store := newMemStorage()
	repo := &postRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 1, Title: "t", Content: "c", Image: "posts/old.png"}, nil
		},
		updateFn: func(context.Context, *models.Post) error { return errors.New("disk full") },
	}
	svc := NewPostService(repo, store, zap.NewNop())
	store.objects["posts/old.png"] = tinyPNG

	_, err := svc.Edit(context.Background(), access.Caller{UserID: 1}, 3, PostInput{
		Form:  validation.PostForm{Title: "t", Content: "c"},
		Image: pngUpload(),
	})
	requireCode(t, err, models.CodeInternal)

	assert.True(t, store.has("posts/old.png"), "old image survives a failed update")
	assert.Len(t, store.objects, 1, "new upload is discarded")
}

func TestPostDeleteMissing(t *testing.T) {
	repo := &postRepoStub{
		getByIDFn: func(context.Context, uint) (*models.Post, error) { return nil, gorm.ErrRecordNotFound },
	}
	svc := NewPostService(repo, newMemStorage(), zap.NewNop())

	err := svc.Delete(context.Background(), access.Caller{UserID: 1}, 42)
	appErr := requireCode(t, err, models.CodeNotFound)
	assert.Equal(t, "Post with ID 42 not found", appErr.Message)
}
