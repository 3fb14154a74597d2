package models

import "time"

// Rating is the audience rating of a fanfic.
type Rating string

const (
	RatingG    Rating = "G"
	RatingPG   Rating = "PG"
	RatingPG13 Rating = "PG-13"
	RatingR    Rating = "R"
	RatingNC17 Rating = "NC-17"

	DefaultRating = RatingPG13
)

// Genre is the primary genre of a fanfic. There is no default.
type Genre string

const (
	GenreRomance   Genre = "romance"
	GenreAdventure Genre = "adventure"
	GenreDrama     Genre = "drama"
	GenreAction    Genre = "action"
	GenreFantasy   Genre = "fantasy"
	GenreMystery   Genre = "mystery"
	GenreComedy    Genre = "comedy"
	GenreAngst     Genre = "angst"
	GenreFluff     Genre = "fluff"
)

// Choice pairs a stored value with its display label.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var RatingChoices = []Choice{
	{Value: string(RatingG), Label: "G - General audiences"},
	{Value: string(RatingPG), Label: "PG - Parental guidance suggested"},
	{Value: string(RatingPG13), Label: "PG-13 - Parents strongly cautioned"},
	{Value: string(RatingR), Label: "R - Restricted"},
	{Value: string(RatingNC17), Label: "NC-17 - Adults only"},
}

var GenreChoices = []Choice{
	{Value: string(GenreRomance), Label: "Romance"},
	{Value: string(GenreAdventure), Label: "Adventure"},
	{Value: string(GenreDrama), Label: "Drama"},
	{Value: string(GenreAction), Label: "Action"},
	{Value: string(GenreFantasy), Label: "Fantasy"},
	{Value: string(GenreMystery), Label: "Mystery"},
	{Value: string(GenreComedy), Label: "Comedy"},
	{Value: string(GenreAngst), Label: "Angst"},
	{Value: string(GenreFluff), Label: "Fluff"},
}

func labelOf(choices []Choice, value string) (string, bool) {
	for _, c := range choices {
		if c.Value == value {
			return c.Label, true
		}
	}
	return "", false
}

func (r Rating) Valid() bool {
	_, ok := labelOf(RatingChoices, string(r))
	return ok
}

// Label falls back to the raw value for out-of-set ratings.
func (r Rating) Label() string {
	if l, ok := labelOf(RatingChoices, string(r)); ok {
		return l
	}
	return string(r)
}

func (g Genre) Valid() bool {
	_, ok := labelOf(GenreChoices, string(g))
	return ok
}

func (g Genre) Label() string {
	if l, ok := labelOf(GenreChoices, string(g)); ok {
		return l
	}
	return string(g)
}

// Fanfic is a long-form story submission.
type Fanfic struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;" json:"author"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Rating      Rating    `gorm:"size:10;not null;default:'PG-13';index" json:"rating"`
	Genre       Genre     `gorm:"size:20;not null;index" json:"genre"`
	Cover       string    `gorm:"size:255" json:"cover,omitempty"`
	CoverURL    string    `gorm:"-" json:"cover_url,omitempty"`
	Views       int       `gorm:"not null;default:0" json:"views"`
	CreatedAt   time.Time `gorm:"<-:create;index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (f *Fanfic) OwnerID() uint { return f.AuthorID }

// FanficLike is one member of a fanfic's like-set.
type FanficLike struct {
	FanficID  uint      `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false;index"`
	Fanfic    Fanfic    `gorm:"foreignKey:FanficID;constraint:OnDelete:CASCADE;"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time
}
