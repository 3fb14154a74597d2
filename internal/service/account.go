package service

import (
	"context"
	"errors"
	"fmt"

	"fandomapp/internal/access"
	"fandomapp/internal/media"
	"fandomapp/internal/models"
	"fandomapp/internal/repository"
	"fandomapp/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	msgUsernameTaken    = "A user with that username already exists."
	msgInvalidLogin     = "Please enter a correct username and password. Note that both fields may be case-sensitive."
	defaultPasswordCost = bcrypt.DefaultCost
)

// AccountService registers, authenticates and removes users.
type AccountService struct {
	db     *gorm.DB
	users  repository.UserRepository
	images images
	log    *zap.Logger
	cost   int
}

func NewAccountService(db *gorm.DB, store media.Storage, log *zap.Logger) *AccountService {
	return &AccountService{
		db:     db,
		users:  repository.NewUserRepository(db),
		images: images{store: store, log: log},
		log:    log,
		cost:   defaultPasswordCost,
	}
}

// HashPassword hashes a plain text password with bcrypt.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Register creates the user and its empty profile in one transaction.
func (s *AccountService) Register(ctx context.Context, form validation.RegisterForm) (*models.User, error) {
	fields := validation.Check(&form)
	if _, bad := fields["username"]; !bad && form.Username != "" {
		taken, err := s.users.UsernameTaken(ctx, form.Username)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		if taken {
			fields = validation.Merge(fields, models.FieldErrors{"username": msgUsernameTaken})
		}
	}
	if fields != nil {
		return nil, models.NewValidationError(fields)
	}

	hash, err := HashPassword(form.Password1, s.cost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	user := &models.User{
		Username:     form.Username,
		Email:        form.Email,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		PasswordHash: hash,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewUserRepository(tx).Create(ctx, user); err != nil {
			return err
		}
		_, err := repository.NewProfileRepository(tx).GetOrCreate(ctx, user.ID)
		return err
	})
	if err != nil {
		// A concurrent sign-up may have claimed the name between the check and the insert.
		if taken, checkErr := s.users.UsernameTaken(ctx, form.Username); checkErr == nil && taken {
			return nil, models.NewValidationError(models.FieldErrors{"username": msgUsernameTaken})
		}
		return nil, models.NewInternalError(err)
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	countEvent("user", "registered")
	return user, nil
}

// Authenticate checks a username and password. Unknown users and wrong passwords get the
// same form-level error.
func (s *AccountService) Authenticate(ctx context.Context, form validation.LoginForm) (*models.User, error) {
	if fields := validation.Check(&form); fields != nil {
		return nil, models.NewValidationError(fields)
	}

	invalid := models.NewValidationError(models.FieldErrors{"": msgInvalidLogin})
	user, err := s.users.GetByUsername(ctx, form.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
		return nil, invalid
	}
	return user, nil
}

// Caller resolves a session's user id to a request identity. Users deleted since the
// session was issued resolve to the anonymous caller.
func (s *AccountService) Caller(ctx context.Context, userID uint) (access.Caller, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return access.Anonymous, nil
	}
	if err != nil {
		return access.Anonymous, err
	}
	return access.Caller{UserID: user.ID, Username: user.Username}, nil
}

// DeleteUser removes the caller's account with all of its content and stored media.
func (s *AccountService) DeleteUser(ctx context.Context, caller access.Caller) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	refs, err := s.users.MediaRefs(ctx, caller.UserID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if err := s.users.Delete(ctx, caller.UserID); err != nil {
		return lookupErr(err, "User", caller.UserID)
	}
	for _, ref := range refs {
		s.images.discard(ctx, ref)
	}
	s.log.Info("user deleted", zap.Uint("user_id", caller.UserID))
	countEvent("user", "deleted")
	return nil
}
