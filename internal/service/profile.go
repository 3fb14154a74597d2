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

type ProfileService struct {
	users       repository.UserRepository
	profiles    repository.ProfileRepository
	posts       *PostService
	discussions *DiscussionService
	fanfics     *FanficService
	images      images
	log         *zap.Logger
}

type ProfileInput struct {
	Form        validation.ProfileForm
	Avatar      *media.Upload
	ClearAvatar bool
}

// ProfilePage is a member's profile with everything they have written.
type ProfilePage struct {
	Owner       *models.User        `json:"owner"`
	Profile     *models.Profile     `json:"profile"`
	IsOwner     bool                `json:"is_owner"`
	Posts       []models.Post       `json:"posts"`
	Discussions []models.Discussion `json:"discussions"`
	Fanfics     []models.Fanfic     `json:"fanfics"`
}

func NewProfileService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	posts *PostService,
	discussions *DiscussionService,
	fanfics *FanficService,
	store media.Storage,
	log *zap.Logger,
) *ProfileService {
	return &ProfileService{
		users:       users,
		profiles:    profiles,
		posts:       posts,
		discussions: discussions,
		fanfics:     fanfics,
		images:      images{store: store, log: log},
		log:         log,
	}
}

// View shows a member's profile to a signed-in caller, creating the profile if the member
// never got one.
func (s *ProfileService) View(ctx context.Context, caller access.Caller, username string) (*ProfilePage, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	owner, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, lookupErr(err, "User", username)
	}
	profile, err := s.profile(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	page := &ProfilePage{Owner: owner, Profile: profile, IsOwner: caller.UserID == owner.ID}
	if page.Posts, err = s.posts.ByAuthor(ctx, owner.ID); err != nil {
		return nil, err
	}
	if page.Discussions, err = s.discussions.ByAuthor(ctx, owner.ID); err != nil {
		return nil, err
	}
	if page.Fanfics, err = s.fanfics.ByAuthor(ctx, owner.ID); err != nil {
		return nil, err
	}
	return page, nil
}

// EditForm returns the caller's own profile.
func (s *ProfileService) EditForm(ctx context.Context, caller access.Caller) (*models.Profile, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return s.profile(ctx, caller.UserID)
}

func (s *ProfileService) Edit(ctx context.Context, caller access.Caller, in ProfileInput) (*models.Profile, error) {
	profile, err := s.EditForm(ctx, caller)
	if err != nil {
		return nil, err
	}
	fields := validation.Merge(validation.Check(&in.Form), s.images.check("avatar", in.Avatar))
	if fields != nil {
		return nil, models.NewValidationError(fields)
	}

	if err := copier.Copy(profile, &in.Form); err != nil {
		return nil, models.NewInternalError(err)
	}
	uploaded, err := s.images.save(ctx, media.FolderAvatars, in.Avatar)
	if err != nil {
		return nil, err
	}
	previous := profile.Avatar
	profile.Avatar = replace(previous, uploaded, in.ClearAvatar)

	if err := s.profiles.Update(ctx, profile); err != nil {
		s.images.discard(ctx, uploaded)
		return nil, models.NewInternalError(err)
	}
	if profile.Avatar != previous {
		s.images.discard(ctx, previous)
	}
	profile.AvatarURL = s.images.url(profile.Avatar)
	s.log.Info("profile updated", zap.Uint("user_id", caller.UserID))
	return profile, nil
}

func (s *ProfileService) profile(ctx context.Context, userID uint) (*models.Profile, error) {
	profile, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	profile.AvatarURL = s.images.url(profile.Avatar)
	return profile, nil
}
