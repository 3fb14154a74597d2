package service

import (
	"context"

	"fandomapp/internal/models"
)

// HomePage previews the newest content of each kind.
type HomePage struct {
	Posts       []models.Post       `json:"posts"`
	Discussions []models.Discussion `json:"discussions"`
	Fanfics     []models.Fanfic     `json:"fanfics"`
}

type HomeService struct {
	posts       *PostService
	discussions *DiscussionService
	fanfics     *FanficService
}

func NewHomeService(posts *PostService, discussions *DiscussionService, fanfics *FanficService) *HomeService {
	return &HomeService{posts: posts, discussions: discussions, fanfics: fanfics}
}

func (s *HomeService) Home(ctx context.Context) (*HomePage, error) {
	var (
		page HomePage
		err  error
	)
	if page.Posts, err = s.posts.Latest(ctx, HomePreviewSize); err != nil {
		return nil, err
	}
	if page.Discussions, err = s.discussions.Latest(ctx, HomePreviewSize); err != nil {
		return nil, err
	}
	if page.Fanfics, err = s.fanfics.Latest(ctx, HomePreviewSize); err != nil {
		return nil, err
	}
	return &page, nil
}
