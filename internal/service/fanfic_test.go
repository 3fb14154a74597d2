package service

import (
	"context"
	"testing"

	"fandomapp/internal/access"
	"fandomapp/internal/models"
	"fandomapp/internal/repository"
	"fandomapp/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fanficForm(title, description, genre string) validation.FanficForm {
	return validation.FanficForm{Title: title, Description: description, Content: "story", Genre: genre}
}

func TestFanficViewsCountEveryDetail(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()
	alice := register(t, svc, "alice")

	f, err := svc.Fanfics.Create(ctx, alice, FanficInput{Form: fanficForm("t", "d", "drama")})
	require.NoError(t, err)
	assert.Equal(t, models.RatingPG13, f.Rating)
	assert.Equal(t, models.GenreDrama, f.Genre)
	assert.Zero(t, f.Views)

	detail, err := svc.Fanfics.Detail(ctx, access.Anonymous, f.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Fanfic.Views)

	detail, err = svc.Fanfics.Detail(ctx, alice, f.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.Fanfic.Views)
}

func TestFanficLikeThenUnlikeOwnStory(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()
	alice := register(t, svc, "alice")

	f, err := svc.Fanfics.Create(ctx, alice, FanficInput{Form: fanficForm("t", "d", "fluff")})
	require.NoError(t, err)

	liked, err := svc.Fanfics.ToggleLike(ctx, alice, f.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	liked, err = svc.Fanfics.ToggleLike(ctx, alice, f.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	detail, err := svc.Fanfics.Detail(ctx, alice, f.ID)
	require.NoError(t, err)
	assert.False(t, detail.IsLiked)
	assert.Zero(t, detail.TotalLikes)
}

func TestFanficListFilters(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()
	alice := register(t, svc, "alice")

	for _, in := range []validation.FanficForm{
		fanficForm("Cat burglar", "heist", "comedy"),
		fanficForm("Dog show", "a CAT appears", "comedy"),
		fanficForm("Dog show II", "no cats here?", "drama"),
		fanficForm("Bird watch", "quiet", "comedy"),
	} {
		_, err := svc.Fanfics.Create(ctx, alice, FanficInput{Form: in})
		require.NoError(t, err)
	}

	page, err := svc.Fanfics.List(ctx, repository.FanficFilter{Genre: "comedy", Search: "cat"}, 1)
	require.NoError(t, err)
	var got []string
	for _, f := range page.Items {
		assert.Equal(t, models.GenreComedy, f.Genre)
		got = append(got, f.Title)
	}
	assert.Equal(t, []string{"Dog show", "Cat burglar"}, got)
}

func TestFanficEditAndDelete(t *testing.T) {
	svc, _, store := newTestServices(t)
	ctx := context.Background()
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")

	f, err := svc.Fanfics.Create(ctx, alice, FanficInput{Form: fanficForm("t", "d", "angst"), Cover: pngUpload()})
	require.NoError(t, err)
	require.True(t, store.has(f.Cover))

	_, err = svc.Fanfics.Create(ctx, alice, FanficInput{Form: validation.FanficForm{Title: "t", Description: "d", Content: "c", Rating: "XXX"}})
	appErr := requireCode(t, err, models.CodeValidation)
	assert.Contains(t, appErr.Fields, "rating")
	assert.Contains(t, appErr.Fields, "genre")

	_, err = svc.Fanfics.Edit(ctx, bob, f.ID, FanficInput{Form: fanficForm("x", "x", "angst")})
	appErr = requireCode(t, err, models.CodeForbidden)
	assert.Equal(t, "You cannot edit this fanfic!", appErr.Message)

	form := fanficForm("t2", "d2", "romance")
	form.Rating = "R"
	edited, err := svc.Fanfics.Edit(ctx, alice, f.ID, FanficInput{Form: form})
	require.NoError(t, err)
	assert.Equal(t, models.RatingR, edited.Rating)
	assert.Equal(t, models.GenreRomance, edited.Genre)
	assert.Equal(t, f.Cover, edited.Cover, "cover kept without a new upload")

	err = svc.Fanfics.Delete(ctx, bob, f.ID)
	appErr = requireCode(t, err, models.CodeForbidden)
	assert.Equal(t, "You cannot delete this fanfic!", appErr.Message)

	require.NoError(t, svc.Fanfics.Delete(ctx, alice, f.ID))
	assert.False(t, store.has(f.Cover))
}
