package service

import (
	"context"

	"fandomapp/internal/access"
	"fandomapp/internal/models"
	"fandomapp/internal/repository"
	"fandomapp/internal/validation"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
)

type DiscussionService struct {
	discussions repository.DiscussionRepository
	comments    repository.CommentRepository
	log         *zap.Logger
}

// DiscussionDetail is a discussion with its comments, oldest first.
type DiscussionDetail struct {
	Discussion *models.Discussion `json:"discussion"`
	Comments   []models.Comment   `json:"comments"`
}

func NewDiscussionService(discussions repository.DiscussionRepository, comments repository.CommentRepository, log *zap.Logger) *DiscussionService {
	return &DiscussionService{discussions: discussions, comments: comments, log: log}
}

func (s *DiscussionService) List(ctx context.Context, page int) (*repository.Page[models.Discussion], error) {
	result, err := s.discussions.List(ctx, page)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return result, nil
}

func (s *DiscussionService) Latest(ctx context.Context, limit int) ([]models.Discussion, error) {
	discussions, err := s.discussions.Latest(ctx, limit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return discussions, nil
}

func (s *DiscussionService) ByAuthor(ctx context.Context, authorID uint) ([]models.Discussion, error) {
	discussions, err := s.discussions.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return discussions, nil
}

func (s *DiscussionService) Get(ctx context.Context, id uint) (*models.Discussion, error) {
	discussion, err := s.discussions.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Discussion", id)
	}
	return discussion, nil
}

// Detail records one view and returns the discussion with its comments.
func (s *DiscussionService) Detail(ctx context.Context, id uint) (*DiscussionDetail, error) {
	if err := s.discussions.IncrementViews(ctx, id); err != nil {
		return nil, lookupErr(err, "Discussion", id)
	}
	countEvent("discussion", "viewed")
	return s.Thread(ctx, id)
}

// Thread returns the discussion with its comments without counting a view.
func (s *DiscussionService) Thread(ctx context.Context, id uint) (*DiscussionDetail, error) {
	discussion, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByDiscussion(ctx, id)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &DiscussionDetail{Discussion: discussion, Comments: comments}, nil
}

func (s *DiscussionService) Create(ctx context.Context, caller access.Caller, form validation.DiscussionForm) (*models.Discussion, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if fields := validation.Check(&form); fields != nil {
		return nil, models.NewValidationError(fields)
	}

	discussion := &models.Discussion{AuthorID: caller.UserID}
	if err := copier.Copy(discussion, &form); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.discussions.Create(ctx, discussion); err != nil {
		return nil, models.NewInternalError(err)
	}
	s.log.Info("discussion created", zap.Uint("discussion_id", discussion.ID), zap.Uint("author_id", caller.UserID))
	countEvent("discussion", "created")
	return s.Get(ctx, discussion.ID)
}

func (s *DiscussionService) EditForm(ctx context.Context, caller access.Caller, id uint) (*models.Discussion, error) {
	discussion, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, discussion, "You cannot edit this discussion!"); err != nil {
		return nil, err
	}
	return discussion, nil
}

func (s *DiscussionService) DeleteConfirm(ctx context.Context, caller access.Caller, id uint) (*models.Discussion, error) {
	discussion, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, discussion, "You cannot delete this discussion!"); err != nil {
		return nil, err
	}
	return discussion, nil
}

func (s *DiscussionService) Edit(ctx context.Context, caller access.Caller, id uint, form validation.DiscussionForm) (*models.Discussion, error) {
	discussion, err := s.EditForm(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if fields := validation.Check(&form); fields != nil {
		return nil, models.NewValidationError(fields)
	}
	if err := copier.Copy(discussion, &form); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.discussions.Update(ctx, discussion); err != nil {
		return nil, models.NewInternalError(err)
	}
	s.log.Info("discussion updated", zap.Uint("discussion_id", id))
	countEvent("discussion", "updated")
	return s.Get(ctx, id)
}

// Delete removes the discussion and its comments.
func (s *DiscussionService) Delete(ctx context.Context, caller access.Caller, id uint) error {
	if _, err := s.DeleteConfirm(ctx, caller, id); err != nil {
		return err
	}
	if err := s.discussions.Delete(ctx, id); err != nil {
		return lookupErr(err, "Discussion", id)
	}
	s.log.Info("discussion deleted", zap.Uint("discussion_id", id))
	countEvent("discussion", "deleted")
	return nil
}

// AddComment appends a comment from any signed-in caller.
func (s *DiscussionService) AddComment(ctx context.Context, caller access.Caller, id uint, form validation.CommentForm) (*models.Comment, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if fields := validation.Check(&form); fields != nil {
		return nil, models.NewValidationError(fields)
	}

	comment := &models.Comment{DiscussionID: id, AuthorID: caller.UserID, Content: form.Content}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}
	s.log.Info("comment added", zap.Uint("discussion_id", id), zap.Uint("comment_id", comment.ID))
	countEvent("comment", "created")
	return comment, nil
}
