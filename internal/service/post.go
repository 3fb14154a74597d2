package service

import (
	"context"

	"fandomapp/internal/access"
	"fandomapp/internal/media"
	"fandomapp/internal/models"
	"fandomapp/internal/repository"
	"fandomapp/internal/validation"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
)

type PostService struct {
	posts  repository.PostRepository
	images images
	log    *zap.Logger
}

// PostInput is a submitted post form with its optional image.
type PostInput struct {
	Form       validation.PostForm
	Image      *media.Upload
	ClearImage bool
}

// PostDetail is a post together with the caller's like state.
type PostDetail struct {
	Post       *models.Post `json:"post"`
	IsLiked    bool         `json:"is_liked"`
	TotalLikes int64        `json:"total_likes"`
}

func NewPostService(posts repository.PostRepository, store media.Storage, log *zap.Logger) *PostService {
	return &PostService{
		posts:  posts,
		images: images{store: store, log: log},
		log:    log,
	}
}

func (s *PostService) List(ctx context.Context, page int) (*repository.Page[models.Post], error) {
	result, err := s.posts.List(ctx, page)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range result.Items {
		s.decorate(&result.Items[i])
	}
	return result, nil
}

func (s *PostService) Latest(ctx context.Context, limit int) ([]models.Post, error) {
	posts, err := s.posts.Latest(ctx, limit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range posts {
		s.decorate(&posts[i])
	}
	return posts, nil
}

func (s *PostService) ByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	posts, err := s.posts.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range posts {
		s.decorate(&posts[i])
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Post", id)
	}
	s.decorate(post)
	return post, nil
}

func (s *PostService) Detail(ctx context.Context, caller access.Caller, id uint) (*PostDetail, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	liked, err := s.posts.IsLiked(ctx, id, caller.UserID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	total, err := s.posts.CountLikes(ctx, id)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &PostDetail{Post: post, IsLiked: liked, TotalLikes: total}, nil
}

func (s *PostService) Create(ctx context.Context, caller access.Caller, in PostInput) (*models.Post, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	fields := validation.Merge(validation.Check(&in.Form), s.images.check("image", in.Image))
	if fields != nil {
		return nil, models.NewValidationError(fields)
	}

	post := &models.Post{AuthorID: caller.UserID}
	if err := copier.Copy(post, &in.Form); err != nil {
		return nil, models.NewInternalError(err)
	}
	ref, err := s.images.save(ctx, media.FolderPosts, in.Image)
	if err != nil {
		return nil, err
	}
	post.Image = ref

	if err := s.posts.Create(ctx, post); err != nil {
		s.images.discard(ctx, ref)
		return nil, models.NewInternalError(err)
	}
	s.log.Info("post created", zap.Uint("post_id", post.ID), zap.Uint("author_id", caller.UserID))
	countEvent("post", "created")
	return s.Get(ctx, post.ID)
}

// EditForm loads a post for its edit form, refusing callers other than the author.
func (s *PostService) EditForm(ctx context.Context, caller access.Caller, id uint) (*models.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, post, "You cannot edit this post!"); err != nil {
		return nil, err
	}
	return post, nil
}

// DeleteConfirm loads a post for its delete confirmation, refusing callers other than
// the author.
func (s *PostService) DeleteConfirm(ctx context.Context, caller access.Caller, id uint) (*models.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, post, "You cannot delete this post!"); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Edit(ctx context.Context, caller access.Caller, id uint, in PostInput) (*models.Post, error) {
	post, err := s.EditForm(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	fields := validation.Merge(validation.Check(&in.Form), s.images.check("image", in.Image))
	if fields != nil {
		return nil, models.NewValidationError(fields)
	}

	if err := copier.Copy(post, &in.Form); err != nil {
		return nil, models.NewInternalError(err)
	}
	uploaded, err := s.images.save(ctx, media.FolderPosts, in.Image)
	if err != nil {
		return nil, err
	}
	previous := post.Image
	post.Image = replace(previous, uploaded, in.ClearImage)

	if err := s.posts.Update(ctx, post); err != nil {
		s.images.discard(ctx, uploaded)
		return nil, models.NewInternalError(err)
	}
	if post.Image != previous {
		s.images.discard(ctx, previous)
	}
	s.log.Info("post updated", zap.Uint("post_id", id))
	countEvent("post", "updated")
	return s.Get(ctx, id)
}

func (s *PostService) Delete(ctx context.Context, caller access.Caller, id uint) error {
	post, err := s.DeleteConfirm(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return lookupErr(err, "Post", id)
	}
	s.images.discard(ctx, post.Image)
	s.log.Info("post deleted", zap.Uint("post_id", id))
	countEvent("post", "deleted")
	return nil
}

// ToggleLike flips the caller's like on a post. Authors may like their own posts.
func (s *PostService) ToggleLike(ctx context.Context, caller access.Caller, id uint) (bool, error) {
	if err := requireCaller(caller); err != nil {
		return false, err
	}
	if _, err := s.posts.GetByID(ctx, id); err != nil {
		return false, lookupErr(err, "Post", id)
	}
	liked, err := s.posts.ToggleLike(ctx, id, caller.UserID)
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if liked {
		countEvent("post", "liked")
	} else {
		countEvent("post", "unliked")
	}
	return liked, nil
}

func (s *PostService) decorate(post *models.Post) {
	post.ImageURL = s.images.url(post.Image)
}
