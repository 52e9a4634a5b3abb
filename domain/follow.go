package domain

import (
	"context"
	"time"
)

// Follow is a directed edge in the follow graph. The FollowerID is the ID of
// the user that follows, the FollowedID is the ID of the user being followed.
// A row either exists (the edge exists) or it doesn't - both views of the
// relationship ("A follows B" and "B is followed by A") are answered from the
// same row, so they can never disagree. The composite unique index keeps a
// pair from being inserted twice.
type Follow struct {
	ID         int       `json:"id"`
	FollowerID int       `json:"followerId" gorm:"notNull;uniqueIndex:idx_follows_edge"`
	FollowedID int       `json:"followedId" gorm:"notNull;uniqueIndex:idx_follows_edge;index"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FollowService is a set of methods to manipulate and work with the follow graph.
type FollowService interface {
	// Toggle follows the followed user if no edge exists yet, and unfollows
	// otherwise. It reports whether the edge exists after the call.
	Toggle(ctx context.Context, followerID, followedID int) (bool, error)
	Following(ctx context.Context, userID int) ([]int, error)
	Followers(ctx context.Context, userID int) ([]int, error)
	IsFollowing(ctx context.Context, followerID, followedID int) (bool, error)
}
