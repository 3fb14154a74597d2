package repository

import (
	"context"

	"fandomapp/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for account data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	MediaRefs(ctx context.Context, id uint) ([]string, error)
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	n, err := countRows(ctx, r.db, &models.User{}, map[string]interface{}{"username": username})
	return n > 0, err
}

// MediaRefs lists the stored files attached to the user's profile and content.
func (r *userRepository) MediaRefs(ctx context.Context, id uint) ([]string, error) {
	db := r.db.WithContext(ctx)
	var refs []string
	queries := []struct {
		model  interface{}
		column string
		owner  string
	}{
		{&models.Profile{}, "avatar", "user_id"},
		{&models.Post{}, "image", "author_id"},
		{&models.Fanfic{}, "cover", "author_id"},
	}
	for _, q := range queries {
		var found []string
		err := db.Model(q.model).
			Where(q.owner+" = ? AND "+q.column+" <> ''", id).
			Pluck(q.column, &found).Error
		if err != nil {
			return nil, err
		}
		refs = append(refs, found...)
	}
	return refs, nil
}

// Delete removes the user together with everything that hangs off the account: authored
// content, the comments and likes attached to it, likes the user gave, and the profile.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownDiscussions := tx.Model(&models.Discussion{}).Select("id").Where("author_id = ?", id)
		ownPosts := tx.Model(&models.Post{}).Select("id").Where("author_id = ?", id)
		ownFanfics := tx.Model(&models.Fanfic{}).Select("id").Where("author_id = ?", id)

		steps := []func() error{
			func() error {
				return tx.Where("author_id = ? OR discussion_id IN (?)", id, ownDiscussions).Delete(&models.Comment{}).Error
			},
			func() error { return tx.Where("author_id = ?", id).Delete(&models.Discussion{}).Error },
			func() error {
				return tx.Where("user_id = ? OR post_id IN (?)", id, ownPosts).Delete(&models.PostLike{}).Error
			},
			func() error { return tx.Where("author_id = ?", id).Delete(&models.Post{}).Error },
			func() error {
				return tx.Where("user_id = ? OR fanfic_id IN (?)", id, ownFanfics).Delete(&models.FanficLike{}).Error
			},
			func() error { return tx.Where("author_id = ?", id).Delete(&models.Fanfic{}).Error },
			func() error { return tx.Where("user_id = ?", id).Delete(&models.Profile{}).Error },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}

		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
