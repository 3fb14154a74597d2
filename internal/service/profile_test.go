package service

import (
	"context"
	"strings"
	"testing"

	"fandomapp/internal/access"
	"fandomapp/internal/models"
	"fandomapp/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileViewCreatesMissingProfile(t *testing.T) {
	svc, db, _ := newTestServices(t)
	ctx := context.Background()
	alice := register(t, svc, "alice")

	legacy := &models.User{Username: "legacy", Email: "l@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(legacy).Error)
	_, err := svc.Posts.Create(ctx, access.Caller{UserID: legacy.ID, Username: "legacy"},
		PostInput{Form: validation.PostForm{Title: "old", Content: "c"}})
	require.NoError(t, err)

	page, err := svc.Profiles.View(ctx, alice, "legacy")
	require.NoError(t, err)
	assert.Equal(t, legacy.ID, page.Profile.UserID)
	assert.False(t, page.IsOwner)
	assert.Len(t, page.Posts, 1)
	assert.Empty(t, page.Fanfics)

	_, err = svc.Profiles.View(ctx, alice, "ghost")
	requireCode(t, err, models.CodeNotFound)

	_, err = svc.Profiles.View(ctx, access.Anonymous, "alice")
	requireCode(t, err, models.CodeUnauthenticated)
}

func TestProfileEdit(t *testing.T) {
	svc, _, store := newTestServices(t)
	ctx := context.Background()
	alice := register(t, svc, "alice")

	before, err := svc.Profiles.EditForm(ctx, alice)
	require.NoError(t, err)

	_, err = svc.Profiles.Edit(ctx, alice, ProfileInput{Form: validation.ProfileForm{Bio: strings.Repeat("b", 501)}})
	appErr := requireCode(t, err, models.CodeValidation)
	assert.Contains(t, appErr.Fields, "bio")

	_, err = svc.Profiles.Edit(ctx, alice, ProfileInput{Avatar: textUpload()})
	appErr = requireCode(t, err, models.CodeValidation)
	assert.Contains(t, appErr.Fields, "avatar")

	profile, err := svc.Profiles.Edit(ctx, alice, ProfileInput{
		Form:   validation.ProfileForm{Bio: "hi", FavoriteCharacter: "Zuko"},
		Avatar: pngUpload(),
	})
	require.NoError(t, err)
	assert.Equal(t, "hi", profile.Bio)
	assert.Equal(t, "Zuko", profile.FavoriteCharacter)
	assert.True(t, store.has(profile.Avatar))
	assert.Equal(t, "/media/"+profile.Avatar, profile.AvatarURL)
	assert.True(t, profile.CreatedAt.Equal(before.CreatedAt))

	page, err := svc.Profiles.View(ctx, alice, "alice")
	require.NoError(t, err)
	assert.True(t, page.IsOwner)
	assert.Equal(t, "hi", page.Profile.Bio)
}
