package domain

import (
	"context"
	"time"
)

// Like marks that a user likes a post. A user can like a post at most once.
type Like struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId" gorm:"notNull;uniqueIndex:idx_likes_user_post"`
	PostID    int       `json:"postId" gorm:"notNull;uniqueIndex:idx_likes_user_post;index"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikeService is a set of methods to manipulate and work with the Like model.
type LikeService interface {
	// Toggle likes the post if the user hasn't liked it yet, and removes the
	// like otherwise. It reports whether the like exists after the call.
	Toggle(ctx context.Context, userID, postID int) (bool, error)
}
