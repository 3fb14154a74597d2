package models

import "time"

// User is the account record owned by the identity side of the site. Credentials never
// leave the server.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:254;not null" json:"-"`
	FirstName    string    `gorm:"size:30" json:"first_name,omitempty"`
	LastName     string    `gorm:"size:30" json:"last_name,omitempty"`
	PasswordHash string    `gorm:"not null" json:"-"`
	DateJoined   time.Time `gorm:"autoCreateTime;<-:create" json:"date_joined"`
}

// Profile extends a User one-to-one. It is created together with the user and lazily
// for older accounts that never got one.
type Profile struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User              User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	Avatar            string    `gorm:"size:255" json:"avatar,omitempty"`
	AvatarURL         string    `gorm:"-" json:"avatar_url,omitempty"`
	Bio               string    `gorm:"size:500" json:"bio"`
	FavoriteCharacter string    `gorm:"size:100" json:"favorite_character"`
	CreatedAt         time.Time `gorm:"<-:create" json:"created_at"`
}
