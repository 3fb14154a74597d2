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

type FanficService struct {
	fanfics repository.FanficRepository
	images  images
	log     *zap.Logger
}

// FanficInput is a submitted fanfic form with its optional cover.
type FanficInput struct {
	Form       validation.FanficForm
	Cover      *media.Upload
	ClearCover bool
}

type FanficDetail struct {
	Fanfic     *models.Fanfic `json:"fanfic"`
	IsLiked    bool           `json:"is_liked"`
	TotalLikes int64          `json:"total_likes"`
}

func NewFanficService(fanfics repository.FanficRepository, store media.Storage, log *zap.Logger) *FanficService {
	return &FanficService{
		fanfics: fanfics,
		images:  images{store: store, log: log},
		log:     log,
	}
}

// List returns one page of fanfics matching every non-empty filter field.
func (s *FanficService) List(ctx context.Context, filter repository.FanficFilter, page int) (*repository.Page[models.Fanfic], error) {
	result, err := s.fanfics.List(ctx, filter, page)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range result.Items {
		s.decorate(&result.Items[i])
	}
	return result, nil
}

func (s *FanficService) Latest(ctx context.Context, limit int) ([]models.Fanfic, error) {
	fanfics, err := s.fanfics.Latest(ctx, limit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range fanfics {
		s.decorate(&fanfics[i])
	}
	return fanfics, nil
}

func (s *FanficService) ByAuthor(ctx context.Context, authorID uint) ([]models.Fanfic, error) {
	fanfics, err := s.fanfics.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range fanfics {
		s.decorate(&fanfics[i])
	}
	return fanfics, nil
}

func (s *FanficService) Get(ctx context.Context, id uint) (*models.Fanfic, error) {
	fanfic, err := s.fanfics.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Fanfic", id)
	}
	s.decorate(fanfic)
	return fanfic, nil
}

// Detail records one view and returns the fanfic with the caller's like state.
func (s *FanficService) Detail(ctx context.Context, caller access.Caller, id uint) (*FanficDetail, error) {
	if err := s.fanfics.IncrementViews(ctx, id); err != nil {
		return nil, lookupErr(err, "Fanfic", id)
	}
	countEvent("fanfic", "viewed")

	fanfic, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	liked, err := s.fanfics.IsLiked(ctx, id, caller.UserID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	total, err := s.fanfics.CountLikes(ctx, id)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &FanficDetail{Fanfic: fanfic, IsLiked: liked, TotalLikes: total}, nil
}

func (s *FanficService) Create(ctx context.Context, caller access.Caller, in FanficInput) (*models.Fanfic, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	fields := validation.Merge(validation.Check(&in.Form), s.images.check("cover", in.Cover))
	if fields != nil {
		return nil, models.NewValidationError(fields)
	}

	fanfic := &models.Fanfic{AuthorID: caller.UserID}
	if err := copier.Copy(fanfic, &in.Form); err != nil {
		return nil, models.NewInternalError(err)
	}
	ref, err := s.images.save(ctx, media.FolderFanfics, in.Cover)
	if err != nil {
		return nil, err
	}
	fanfic.Cover = ref

	if err := s.fanfics.Create(ctx, fanfic); err != nil {
		s.images.discard(ctx, ref)
		return nil, models.NewInternalError(err)
	}
	s.log.Info("fanfic created", zap.Uint("fanfic_id", fanfic.ID), zap.Uint("author_id", caller.UserID))
	countEvent("fanfic", "created")
	return s.Get(ctx, fanfic.ID)
}

func (s *FanficService) EditForm(ctx context.Context, caller access.Caller, id uint) (*models.Fanfic, error) {
	fanfic, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, fanfic, "You cannot edit this fanfic!"); err != nil {
		return nil, err
	}
	return fanfic, nil
}

func (s *FanficService) DeleteConfirm(ctx context.Context, caller access.Caller, id uint) (*models.Fanfic, error) {
	fanfic, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, fanfic, "You cannot delete this fanfic!"); err != nil {
		return nil, err
	}
	return fanfic, nil
}

// Edit rewrites the fanfic's text, rating, genre and cover. Views and likes are kept.
func (s *FanficService) Edit(ctx context.Context, caller access.Caller, id uint, in FanficInput) (*models.Fanfic, error) {
	fanfic, err := s.EditForm(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	fields := validation.Merge(validation.Check(&in.Form), s.images.check("cover", in.Cover))
	if fields != nil {
		return nil, models.NewValidationError(fields)
	}

	if err := copier.Copy(fanfic, &in.Form); err != nil {
		return nil, models.NewInternalError(err)
	}
	uploaded, err := s.images.save(ctx, media.FolderFanfics, in.Cover)
	if err != nil {
		return nil, err
	}
	previous := fanfic.Cover
	fanfic.Cover = replace(previous, uploaded, in.ClearCover)

	if err := s.fanfics.Update(ctx, fanfic); err != nil {
		s.images.discard(ctx, uploaded)
		return nil, models.NewInternalError(err)
	}
	if fanfic.Cover != previous {
		s.images.discard(ctx, previous)
	}
	s.log.Info("fanfic updated", zap.Uint("fanfic_id", id))
	countEvent("fanfic", "updated")
	return s.Get(ctx, id)
}

func (s *FanficService) Delete(ctx context.Context, caller access.Caller, id uint) error {
	fanfic, err := s.DeleteConfirm(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.fanfics.Delete(ctx, id); err != nil {
		return lookupErr(err, "Fanfic", id)
	}
	s.images.discard(ctx, fanfic.Cover)
	s.log.Info("fanfic deleted", zap.Uint("fanfic_id", id))
	countEvent("fanfic", "deleted")
	return nil
}

func (s *FanficService) ToggleLike(ctx context.Context, caller access.Caller, id uint) (bool, error) {
	if err := requireCaller(caller); err != nil {
		return false, err
	}
	if _, err := s.fanfics.GetByID(ctx, id); err != nil {
		return false, lookupErr(err, "Fanfic", id)
	}
	liked, err := s.fanfics.ToggleLike(ctx, id, caller.UserID)
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if liked {
		countEvent("fanfic", "liked")
	} else {
		countEvent("fanfic", "unliked")
	}
	return liked, nil
}

func (s *FanficService) decorate(fanfic *models.Fanfic) {
	fanfic.CoverURL = s.images.url(fanfic.Cover)
}
