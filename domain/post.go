package domain

import (
	"context"
	"time"
)

// Post represents a post in the feed. Img holds the image payload (a base64
// data URL) on the way in and the stored asset's URL once created.
type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"-" gorm:"notNull;index"`
	User   User   `json:"user"`
	Text   string `json:"text"`
	Img    string `json:"img"`

	Likes    []Like    `json:"likes"`
	Comments []Comment `json:"comments"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Comment represents a comment on a Post.
type Comment struct {
	ID        int       `json:"id"`
	UserID    int       `json:"-" gorm:"notNull;index"`
	User      User      `json:"user"`
	PostID    int       `json:"-" gorm:"notNull;index"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostService is a set of methods to manipulate and work with the Post model.
type PostService interface {
	Create(ctx context.Context, post *Post) error
	Delete(ctx context.Context, userID, postID int) error
	Comment(ctx context.Context, comment *Comment) error
	ByID(ctx context.Context, id int) (*Post, error)
	All(ctx context.Context) ([]Post, error)
	FollowingFeed(ctx context.Context, userID int) ([]Post, error)
	ByUsername(ctx context.Context, username string) ([]Post, error)
	Liked(ctx context.Context, userID int) ([]Post, error)
}
