package validation

import (
	"strings"

	"fandomapp/internal/models"
)

// PostForm carries the editable fields of a post.
type PostForm struct {
	Title   string `form:"title" json:"title" validate:"required,max=200"`
	Content string `form:"content" json:"content" validate:"required"`
}

func (f *PostForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Content = strings.TrimSpace(f.Content)
}

type DiscussionForm struct {
	Title   string `form:"title" json:"title" validate:"required,max=200"`
	Content string `form:"content" json:"content" validate:"required"`
}

func (f *DiscussionForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Content = strings.TrimSpace(f.Content)
}

type CommentForm struct {
	Content string `form:"content" json:"content" validate:"required"`
}

func (f *CommentForm) Normalize() {
	f.Content = strings.TrimSpace(f.Content)
}

// FanficForm carries the editable fields of a fanfic. An empty rating falls back to
// models.DefaultRating during normalization; genre has no default.
type FanficForm struct {
	Title       string `form:"title" json:"title" validate:"required,max=200"`
	Description string `form:"description" json:"description" validate:"required"`
	Content     string `form:"content" json:"content" validate:"required"`
	Rating      string `form:"rating" json:"rating" validate:"required,rating"`
	Genre       string `form:"genre" json:"genre" validate:"required,genre"`
}

func (f *FanficForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Content = strings.TrimSpace(f.Content)
	f.Rating = strings.TrimSpace(f.Rating)
	f.Genre = strings.TrimSpace(f.Genre)
	if f.Rating == "" {
		f.Rating = string(models.DefaultRating)
	}
}

type ProfileForm struct {
	Bio               string `form:"bio" json:"bio" validate:"max=500"`
	FavoriteCharacter string `form:"favorite_character" json:"favorite_character" validate:"max=100"`
}

func (f *ProfileForm) Normalize() {
	f.Bio = strings.TrimSpace(f.Bio)
	f.FavoriteCharacter = strings.TrimSpace(f.FavoriteCharacter)
}

// RegisterForm is the sign-up form. Passwords are never trimmed.
type RegisterForm struct {
	Username  string `form:"username" json:"username" validate:"required,max=150,username"`
	Email     string `form:"email" json:"email" validate:"required,max=254,email"`
	FirstName string `form:"first_name" json:"first_name" validate:"max=30"`
	LastName  string `form:"last_name" json:"last_name" validate:"max=30"`
	Password1 string `form:"password1" json:"password1" validate:"required,min=8"`
	Password2 string `form:"password2" json:"password2" validate:"required,eqfield=Password1"`
}

func (f *RegisterForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
}

type LoginForm struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

func (f *LoginForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
}
