package repository

import (
	"context"
	"strings"
	"time"

	"fandomapp/internal/models"

	"gorm.io/gorm"
)

// FanficFilter narrows a fanfic listing. Empty fields do not filter; the rest combine
// with AND.
type FanficFilter struct {
	Genre  string `form:"genre" json:"genre"`
	Rating string `form:"rating" json:"rating"`
	Search string `form:"search" json:"search"`
}

// FanficRepository defines the interface for fanfic data operations
type FanficRepository interface {
	Create(ctx context.Context, fanfic *models.Fanfic) error
	GetByID(ctx context.Context, id uint) (*models.Fanfic, error)
	List(ctx context.Context, filter FanficFilter, page int) (*Page[models.Fanfic], error)
	Latest(ctx context.Context, limit int) ([]models.Fanfic, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]models.Fanfic, error)
	Update(ctx context.Context, fanfic *models.Fanfic) error
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, fanficID, userID uint) (bool, error)
	IsLiked(ctx context.Context, fanficID, userID uint) (bool, error)
	CountLikes(ctx context.Context, fanficID uint) (int64, error)
}

type fanficRepository struct {
	db *gorm.DB
}

func NewFanficRepository(db *gorm.DB) FanficRepository {
	return &fanficRepository{db: db}
}

func (r *fanficRepository) Create(ctx context.Context, fanfic *models.Fanfic) error {
	return r.db.WithContext(ctx).Omit("Author").Create(fanfic).Error
}

func (r *fanficRepository) GetByID(ctx context.Context, id uint) (*models.Fanfic, error) {
	var fanfic models.Fanfic
	if err := r.db.WithContext(ctx).Preload("Author").First(&fanfic, id).Error; err != nil {
		return nil, err
	}
	return &fanfic, nil
}

func (r *fanficRepository) List(ctx context.Context, filter FanficFilter, page int) (*Page[models.Fanfic], error) {
	query := r.db.WithContext(ctx).Model(&models.Fanfic{})
	if filter.Genre != "" {
		query = query.Where("genre = ?", filter.Genre)
	}
	if filter.Rating != "" {
		query = query.Where("rating = ?", filter.Rating)
	}
	if filter.Search != "" {
		// sqlite's LOWER folds ASCII letters only.
		pattern := containsPattern(filter.Search)
		query = query.Where("(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!')", pattern, pattern)
	}
	return paginate[models.Fanfic](query, page)
}

func (r *fanficRepository) Latest(ctx context.Context, limit int) ([]models.Fanfic, error) {
	var fanfics []models.Fanfic
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order(defaultOrder).
		Limit(limit).
		Find(&fanfics).Error
	return fanfics, err
}

func (r *fanficRepository) ListByAuthor(ctx context.Context, authorID uint) ([]models.Fanfic, error) {
	var fanfics []models.Fanfic
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order(defaultOrder).
		Find(&fanfics).Error
	return fanfics, err
}

func (r *fanficRepository) Update(ctx context.Context, fanfic *models.Fanfic) error {
	fanfic.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Model(fanfic).
		Select("title", "description", "content", "rating", "genre", "cover", "updated_at").
		Updates(fanfic).Error
}

func (r *fanficRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("fanfic_id = ?", id).Delete(&models.FanficLike{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Fanfic{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *fanficRepository) IncrementViews(ctx context.Context, id uint) error {
	return incrementViews(ctx, r.db, &models.Fanfic{}, id)
}

func (r *fanficRepository) ToggleLike(ctx context.Context, fanficID, userID uint) (bool, error) {
	return toggleMembership(ctx, r.db, &models.FanficLike{},
		&models.FanficLike{FanficID: fanficID, UserID: userID},
		map[string]interface{}{"fanfic_id": fanficID, "user_id": userID})
}

func (r *fanficRepository) IsLiked(ctx context.Context, fanficID, userID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	n, err := countRows(ctx, r.db, &models.FanficLike{}, map[string]interface{}{"fanfic_id": fanficID, "user_id": userID})
	return n > 0, err
}

func (r *fanficRepository) CountLikes(ctx context.Context, fanficID uint) (int64, error) {
	return countRows(ctx, r.db, &models.FanficLike{}, map[string]interface{}{"fanfic_id": fanficID})
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a lower-cased LIKE pattern matching s anywhere, with wildcards in
// s taken literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
