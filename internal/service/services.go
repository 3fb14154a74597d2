package service

import (
	"fandomapp/internal/media"
	"fandomapp/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services bundles every use case the HTTP layer needs.
type Services struct {
	Accounts    *AccountService
	Profiles    *ProfileService
	Posts       *PostService
	Discussions *DiscussionService
	Fanfics     *FanficService
	Home        *HomeService
}

func New(db *gorm.DB, store media.Storage, log *zap.Logger) *Services {
	users := repository.NewUserRepository(db)
	posts := NewPostService(repository.NewPostRepository(db), store, log.Named("posts"))
	discussions := NewDiscussionService(
		repository.NewDiscussionRepository(db),
		repository.NewCommentRepository(db),
		log.Named("discussions"),
	)
	fanfics := NewFanficService(repository.NewFanficRepository(db), store, log.Named("fanfics"))

	return &Services{
		Accounts: NewAccountService(db, store, log.Named("accounts")),
		Profiles: NewProfileService(
			users,
			repository.NewProfileRepository(db),
			posts, discussions, fanfics,
			store,
			log.Named("profiles"),
		),
		Posts:       posts,
		Discussions: discussions,
		Fanfics:     fanfics,
		Home:        NewHomeService(posts, discussions, fanfics),
	}
}
