package domain

import (
	"context"
	"time"
)

// User represents a registered account. The password hash never leaves the
// server, the plain Password field is only populated on the way in and is
// cleared as soon as it has been hashed.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username" gorm:"uniqueIndex;size:32;notNull"`
	Email        string `json:"email" gorm:"uniqueIndex;notNull"`
	Password     string `json:"-" gorm:"-"`
	PasswordHash string `json:"-"`
	FullName     string `json:"fullName"`
	Bio          string `json:"bio"`
	Link         string `json:"link"`
	ProfileImg   string `json:"profileImg"`
	CoverImg     string `json:"coverImg"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Derived from the follows table on profile reads, not columns.
	Followers []int `json:"followers" gorm:"-"`
	Following []int `json:"following" gorm:"-"`
}

// ProfileUpdate carries the optional fields of a profile update request.
// A nil field was not part of the request. ProfileImg and CoverImg hold
// image payloads (base64 data URLs), not URLs - uploading them and storing
// the resulting URL is the service's job.
type ProfileUpdate struct {
	FullName        *string `json:"fullName"`
	Username        *string `json:"username"`
	Email           *string `json:"email"`
	Bio             *string `json:"bio"`
	Link            *string `json:"link"`
	CurrentPassword *string `json:"currentPassword"`
	NewPassword     *string `json:"newPassword"`
	ProfileImg      *string `json:"profileImg"`
	CoverImg        *string `json:"coverImg"`
}

// UserService is a set of methods to manipulate and work with the User model.
type UserService interface {
	ByID(ctx context.Context, id int) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	ByUsername(ctx context.Context, username string) (*User, error)
	Suggested(ctx context.Context, userID int) ([]User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, userID int, upd *ProfileUpdate) (*User, error)
	Authenticate(ctx context.Context, username, password string) (*User, error)
}
