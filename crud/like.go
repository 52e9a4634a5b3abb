package crud

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"chirper/domain"
	"chirper/errs"
)

// LikeService manages Likes.
// It implements the domain.LikeService interface.
type LikeService struct {
	likeValidator
}

// likeValidator runs validations on incoming Like data.
// On success, it passes the data on to likeGorm.
// Otherwise, it returns the error of the validation that has failed.
type likeValidator struct {
	likeGorm
}

// likeGorm runs CRUD operations on the database using incoming Like data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type likeGorm struct {
	db *gorm.DB
}

// NewLikeService returns an instance of LikeService.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		likeValidator{
			likeGorm{
				db: db,
			},
		},
	}
}

// Ensure the LikeService struct properly implements the domain.LikeService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.LikeService = &LikeService{}

// Toggle likes the post if the user hasn't liked it yet, and removes the like
// otherwise. Liking somebody else's post also creates the like notification,
// in the same transaction. Liking one's own post stays silent.
func (lv *likeValidator) Toggle(ctx context.Context, userID, postID int) (bool, error) {
	var post domain.Post
	err := lv.db.WithContext(ctx).First(&post, "id = ?", postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, errs.Errorf(errs.ENOTFOUND, "Post not found.")
		}
		return false, err
	}
	return lv.likeGorm.Toggle(ctx, userID, &post)
}

// Toggle flips the like inside a single transaction.
func (lg *likeGorm) Toggle(ctx context.Context, userID int, post *domain.Post) (bool, error) {
	var liked bool
	err := lg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Like
		err := tx.
			Where("user_id = ? AND post_id = ?", userID, post.ID).
			First(&existing).Error
		if err == nil {
			liked = false
			return tx.Delete(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(&domain.Like{UserID: userID, PostID: post.ID}).Error; err != nil {
			return err
		}
		liked = true
		if post.UserID == userID {
			return nil
		}
		return tx.Create(&domain.Notification{
			Type:   domain.NotificationLike,
			FromID: userID,
			ToID:   post.UserID,
		}).Error
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}
