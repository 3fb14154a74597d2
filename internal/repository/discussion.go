package repository

import (
	"context"
	"time"

	"fandomapp/internal/models"

	"gorm.io/gorm"
)

// DiscussionRepository defines the interface for discussion data operations
type DiscussionRepository interface {
	Create(ctx context.Context, discussion *models.Discussion) error
	GetByID(ctx context.Context, id uint) (*models.Discussion, error)
	List(ctx context.Context, page int) (*Page[models.Discussion], error)
	Latest(ctx context.Context, limit int) ([]models.Discussion, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]models.Discussion, error)
	Update(ctx context.Context, discussion *models.Discussion) error
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
}

type discussionRepository struct {
	db *gorm.DB
}

func NewDiscussionRepository(db *gorm.DB) DiscussionRepository {
	return &discussionRepository{db: db}
}

func (r *discussionRepository) Create(ctx context.Context, discussion *models.Discussion) error {
	return r.db.WithContext(ctx).Omit("Author", "Comments").Create(discussion).Error
}

func (r *discussionRepository) GetByID(ctx context.Context, id uint) (*models.Discussion, error) {
	var discussion models.Discussion
	if err := r.db.WithContext(ctx).Preload("Author").First(&discussion, id).Error; err != nil {
		return nil, err
	}
	return &discussion, nil
}

func (r *discussionRepository) List(ctx context.Context, page int) (*Page[models.Discussion], error) {
	return paginate[models.Discussion](r.db.WithContext(ctx).Model(&models.Discussion{}), page)
}

func (r *discussionRepository) Latest(ctx context.Context, limit int) ([]models.Discussion, error) {
	var discussions []models.Discussion
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order(defaultOrder).
		Limit(limit).
		Find(&discussions).Error
	return discussions, err
}

func (r *discussionRepository) ListByAuthor(ctx context.Context, authorID uint) ([]models.Discussion, error) {
	var discussions []models.Discussion
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order(defaultOrder).
		Find(&discussions).Error
	return discussions, err
}

func (r *discussionRepository) Update(ctx context.Context, discussion *models.Discussion) error {
	discussion.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Model(discussion).
		Select("title", "content", "updated_at").
		Updates(discussion).Error
}

// Delete removes the discussion and all of its comments.
func (r *discussionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("discussion_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Discussion{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *discussionRepository) IncrementViews(ctx context.Context, id uint) error {
	return incrementViews(ctx, r.db, &models.Discussion{}, id)
}
