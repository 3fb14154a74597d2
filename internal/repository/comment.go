package repository

import (
	"context"

	"fandomapp/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations. Comments are
// append-only.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByDiscussion(ctx context.Context, discussionID uint) ([]models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit("Author").Create(comment).Error
}

// ListByDiscussion returns the comments oldest-first.
func (r *commentRepository) ListByDiscussion(ctx context.Context, discussionID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("discussion_id = ?", discussionID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}
