package repository

import (
	"context"
	"time"

	"fandomapp/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, page int) (*Page[models.Post], error)
	Latest(ctx context.Context, limit int) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, postID, userID uint) (bool, error)
	IsLiked(ctx context.Context, postID, userID uint) (bool, error)
	CountLikes(ctx context.Context, postID uint) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Omit("Author").Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, page int) (*Page[models.Post], error) {
	return paginate[models.Post](r.db.WithContext(ctx).Model(&models.Post{}), page)
}

func (r *postRepository) Latest(ctx context.Context, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order(defaultOrder).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order(defaultOrder).
		Find(&posts).Error
	return posts, err
}

// Update writes the mutable fields and refreshes updated_at. Author, likes and
// created_at are never touched.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Model(post).
		Select("title", "content", "image", "updated_at").
		Updates(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *postRepository) ToggleLike(ctx context.Context, postID, userID uint) (bool, error) {
	return toggleMembership(ctx, r.db, &models.PostLike{},
		&models.PostLike{PostID: postID, UserID: userID},
		map[string]interface{}{"post_id": postID, "user_id": userID})
}

func (r *postRepository) IsLiked(ctx context.Context, postID, userID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	n, err := countRows(ctx, r.db, &models.PostLike{}, map[string]interface{}{"post_id": postID, "user_id": userID})
	return n > 0, err
}

func (r *postRepository) CountLikes(ctx context.Context, postID uint) (int64, error) {
	return countRows(ctx, r.db, &models.PostLike{}, map[string]interface{}{"post_id": postID})
}
