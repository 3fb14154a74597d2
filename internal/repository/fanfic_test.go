package repository

import (
	"context"
	"testing"

	"fandomapp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFanfics(t *testing.T, repo FanficRepository, authorID uint) {
	t.Helper()
	fanfics := []models.Fanfic{
		{Title: "The Cat Detective", Description: "a mystery", Genre: models.GenreComedy, Rating: models.RatingG},
		{Title: "Dog days", Description: "A CATastrophic summer", Genre: models.GenreComedy, Rating: models.RatingPG13},
		{Title: "Dog days II", Description: "no felines", Genre: models.GenreComedy, Rating: models.RatingPG13},
		{Title: "Catharsis", Description: "sad", Genre: models.GenreAngst, Rating: models.RatingR},
		{Title: "100% love", Description: "plain", Genre: models.GenreRomance, Rating: models.RatingPG13},
	}
	for i := range fanfics {
		fanfics[i].AuthorID = authorID
		fanfics[i].Content = "story"
		require.NoError(t, repo.Create(context.Background(), &fanfics[i]))
	}
}

func titles(page *Page[models.Fanfic]) []string {
	out := make([]string, 0, len(page.Items))
	for _, f := range page.Items {
		out = append(out, f.Title)
	}
	return out
}

func TestFanficRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFanficRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	seedFanfics(t, repo, alice.ID)

	tests := []struct {
		name   string
		filter FanficFilter
		want   []string
	}{
		{name: "no filter", filter: FanficFilter{}, want: []string{"100% love", "Catharsis", "Dog days II", "Dog days", "The Cat Detective"}},
		{name: "genre", filter: FanficFilter{Genre: "comedy"}, want: []string{"Dog days II", "Dog days", "The Cat Detective"}},
		{name: "rating", filter: FanficFilter{Rating: "PG-13"}, want: []string{"100% love", "Dog days II", "Dog days"}},
		{name: "search title or description", filter: FanficFilter{Search: "CAT"}, want: []string{"Catharsis", "Dog days", "The Cat Detective"}},
		{name: "genre and search", filter: FanficFilter{Genre: "comedy", Search: "cat"}, want: []string{"Dog days", "The Cat Detective"}},
		{name: "wildcards are literal", filter: FanficFilter{Search: "0%"}, want: []string{"100% love"}},
		{name: "unknown genre", filter: FanficFilter{Genre: "horror"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.List(ctx, tt.filter, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(page))
		})
	}
}

func TestFanficRepository_FiltersCompose(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFanficRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	seedFanfics(t, repo, alice.ID)

	both, err := repo.List(ctx, FanficFilter{Genre: "comedy", Rating: "PG-13"}, 1)
	require.NoError(t, err)
	byGenre, err := repo.List(ctx, FanficFilter{Genre: "comedy"}, 1)
	require.NoError(t, err)
	byRating, err := repo.List(ctx, FanficFilter{Rating: "PG-13"}, 1)
	require.NoError(t, err)

	inRating := map[uint]bool{}
	for _, f := range byRating.Items {
		inRating[f.ID] = true
	}
	var intersection []uint
	for _, f := range byGenre.Items {
		if inRating[f.ID] {
			intersection = append(intersection, f.ID)
		}
	}
	var got []uint
	for _, f := range both.Items {
		got = append(got, f.ID)
	}
	assert.Equal(t, intersection, got)
}

func TestFanficRepository_LikesAndViews(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFanficRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")

	f := &models.Fanfic{AuthorID: alice.ID, Title: "t", Description: "d", Content: "c", Genre: models.GenreDrama}
	require.NoError(t, repo.Create(ctx, f))

	got, err := repo.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRating, got.Rating)

	liked, err := repo.ToggleLike(ctx, f.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	liked, err = repo.ToggleLike(ctx, f.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	total, err := repo.CountLikes(ctx, f.ID)
	require.NoError(t, err)
	assert.Zero(t, total)

	require.NoError(t, repo.IncrementViews(ctx, f.ID))
	got, err = repo.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Views)
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%cat%", containsPattern("Cat"))
	assert.Equal(t, "%50!%!_off!!%", containsPattern("50%_off!"))
}
