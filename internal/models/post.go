package models

import "time"

// Post is a blog-style entry with an optional image and a like-set.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;" json:"author"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Image     string    `gorm:"size:255" json:"image,omitempty"`
	ImageURL  string    `gorm:"-" json:"image_url,omitempty"`
	CreatedAt time.Time `gorm:"<-:create;index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Post) OwnerID() uint { return p.AuthorID }

// PostLike is one member of a post's like-set. The composite key allows a single row
// per (post, user).
type PostLike struct {
	PostID    uint      `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false;index"`
	Post      Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time
}

// Discussion is a thread that collects comments and counts its detail views.
type Discussion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;" json:"author"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Views     int       `gorm:"not null;default:0" json:"views"`
	Comments  []Comment `gorm:"foreignKey:DiscussionID;constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `gorm:"<-:create;index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Discussion) OwnerID() uint { return d.AuthorID }

// Comment belongs to one discussion and one author and is never edited.
type Comment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DiscussionID uint      `gorm:"not null;index" json:"discussion_id"`
	AuthorID     uint      `gorm:"not null;index" json:"author_id"`
	Author       User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;" json:"author"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	CreatedAt    time.Time `gorm:"<-:create" json:"created_at"`
}
