// Package seed fills a database with demo members and content. It is meant for
// development and manual testing only.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fandomapp/internal/models"
	"fandomapp/internal/repository"
	"fandomapp/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "fandom-demo-password"

// Options controls how much data Run creates.
type Options struct {
	Users   int
	PerUser int
	// Seed makes the generated data reproducible when non-zero.
	Seed int64
	// PasswordCost is the bcrypt cost; zero means bcrypt.DefaultCost.
	PasswordCost int
}

// Result counts what Run created.
type Result struct {
	Users       int
	Posts       int
	Discussions int
	Comments    int
	Fanfics     int
	Likes       int
}

// Factory builds unsaved domain entities filled with fake content.
type Factory struct {
	fake  *gofakeit.Faker
	hash  string
	stamp int64
}

// NewFactory hashes the shared demo password once and prepares a faker.
func NewFactory(opts Options) (*Factory, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cost := opts.PasswordCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := service.HashPassword(DefaultPassword, cost)
	if err != nil {
		return nil, err
	}
	return &Factory{fake: gofakeit.New(seed), hash: hash, stamp: seed % 100000}, nil
}

// Run creates opts.Users members, each with opts.PerUser posts, discussions and fanfics,
// then has members comment on and like each other's content. Everything is written in
// one transaction.
func Run(ctx context.Context, db *gorm.DB, opts Options, log *zap.Logger) (*Result, error) {
	f, err := NewFactory(opts)
	if err != nil {
		return nil, err
	}

	var res Result
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		profiles := repository.NewProfileRepository(tx)
		posts := repository.NewPostRepository(tx)
		discussions := repository.NewDiscussionRepository(tx)
		comments := repository.NewCommentRepository(tx)
		fanfics := repository.NewFanficRepository(tx)

		var (
			members        []*models.User
			allPosts       []*models.Post
			allDiscussions []*models.Discussion
			allFanfics     []*models.Fanfic
		)

		for i := 0; i < opts.Users; i++ {
			user := f.User(i)
			if err := users.Create(ctx, user); err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			profile, err := profiles.GetOrCreate(ctx, user.ID)
			if err != nil {
				return fmt.Errorf("create profile: %w", err)
			}
			profile.Bio = f.fake.Sentence(12)
			profile.FavoriteCharacter = f.fake.FirstName() + " " + f.fake.LastName()
			if err := profiles.Update(ctx, profile); err != nil {
				return fmt.Errorf("update profile: %w", err)
			}
			members = append(members, user)
			res.Users++

			for j := 0; j < opts.PerUser; j++ {
				post := f.Post(user)
				if err := posts.Create(ctx, post); err != nil {
					return fmt.Errorf("create post: %w", err)
				}
				allPosts = append(allPosts, post)

				discussion := f.Discussion(user)
				if err := discussions.Create(ctx, discussion); err != nil {
					return fmt.Errorf("create discussion: %w", err)
				}
				allDiscussions = append(allDiscussions, discussion)

				fanfic := f.Fanfic(user)
				if err := fanfics.Create(ctx, fanfic); err != nil {
					return fmt.Errorf("create fanfic: %w", err)
				}
				allFanfics = append(allFanfics, fanfic)
			}
		}
		res.Posts, res.Discussions, res.Fanfics = len(allPosts), len(allDiscussions), len(allFanfics)

		for _, member := range members {
			for _, d := range allDiscussions {
				if !f.fake.Bool() {
					continue
				}
				comment := &models.Comment{DiscussionID: d.ID, AuthorID: member.ID, Content: f.fake.Sentence(15)}
				if err := comments.Create(ctx, comment); err != nil {
					return fmt.Errorf("create comment: %w", err)
				}
				res.Comments++
			}
			for _, p := range allPosts {
				if f.fake.Bool() {
					if _, err := posts.ToggleLike(ctx, p.ID, member.ID); err != nil {
						return fmt.Errorf("like post: %w", err)
					}
					res.Likes++
				}
			}
			for _, fic := range allFanfics {
				if f.fake.Bool() {
					if _, err := fanfics.ToggleLike(ctx, fic.ID, member.ID); err != nil {
						return fmt.Errorf("like fanfic: %w", err)
					}
					res.Likes++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("seed complete",
		zap.Int("users", res.Users),
		zap.Int("posts", res.Posts),
		zap.Int("discussions", res.Discussions),
		zap.Int("comments", res.Comments),
		zap.Int("fanfics", res.Fanfics),
		zap.Int("likes", res.Likes),
	)
	return &res, nil
}

// User builds an unsaved member. The index keeps usernames unique within one run.
func (f *Factory) User(i int) *models.User {
	return &models.User{
		Username:     fmt.Sprintf("%s%d_%d", f.fake.Username(), f.stamp, i),
		Email:        f.fake.Email(),
		FirstName:    truncate(f.fake.FirstName(), 30),
		LastName:     truncate(f.fake.LastName(), 30),
		PasswordHash: f.hash,
	}
}

func (f *Factory) Post(author *models.User) *models.Post {
	return &models.Post{
		AuthorID: author.ID,
		Title:    truncate(f.fake.Sentence(5), 200),
		Content:  f.fake.Paragraph(2, 4, 12, "\n\n"),
	}
}

func (f *Factory) Discussion(author *models.User) *models.Discussion {
	return &models.Discussion{
		AuthorID: author.ID,
		Title:    truncate(strings.TrimSuffix(f.fake.Sentence(7), ".")+"?", 200),
		Content:  f.fake.Paragraph(1, 3, 12, "\n\n"),
	}
}

func (f *Factory) Fanfic(author *models.User) *models.Fanfic {
	return &models.Fanfic{
		AuthorID:    author.ID,
		Title:       truncate(strings.TrimSuffix(f.fake.Sentence(4), "."), 200),
		Description: f.fake.Sentence(20),
		Content:     f.fake.Paragraph(4, 6, 15, "\n\n"),
		Rating:      models.Rating(f.pick(models.RatingChoices)),
		Genre:       models.Genre(f.pick(models.GenreChoices)),
	}
}

func (f *Factory) pick(choices []models.Choice) string {
	return choices[f.fake.Number(0, len(choices)-1)].Value
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
