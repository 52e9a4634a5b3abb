package crud

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"chirper/domain"
	"chirper/errs"
)

// FollowService manages the follow graph.
// It implements the domain.FollowService interface.
type FollowService struct {
	followValidator
}

// followValidator runs validations on incoming Follow data.
// On success, it passes the data on to followGorm.
// Otherwise, it returns the error of the validation that has failed.
type followValidator struct {
	followGorm
}

// followGorm runs CRUD operations on the database using incoming Follow data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type followGorm struct {
	db *gorm.DB
}

// NewFollowService returns an instance of FollowService.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{
		followValidator{
			followGorm{
				db: db,
			},
		},
	}
}

// Ensure the FollowService struct properly implements the domain.FollowService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.FollowService = &FollowService{}

// Toggle creates the follow edge between the two users if it doesn't exist
// yet, and removes it otherwise. Creating the edge also creates the follow
// notification for the followed user, in the same transaction - either both
// rows exist afterwards or neither does. Removing the edge creates nothing.
func (fv *followValidator) Toggle(ctx context.Context, followerID, followedID int) (bool, error) {
	follow := domain.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
	}
	err := runFollowValFns(ctx, &follow,
		fv.followedIsNotFollower,
		fv.usersExist)
	if err != nil {
		return false, err
	}
	return fv.followGorm.Toggle(ctx, &follow)
}

// runFollowValFns runs any number of functions of type followValFn on the passed in Follow object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runFollowValFns(ctx context.Context, follow *domain.Follow, fns ...followValFn) error {
	for _, fn := range fns {
		if err := fn(ctx, follow); err != nil {
			return err
		}
	}
	return nil
}

// A followValFn is any function that takes in a pointer to a domain.Follow object and returns an error.
type followValFn func(ctx context.Context, follow *domain.Follow) error

// followedIsNotFollower makes sure that a user is not trying to follow themselves.
// It runs before anything is read from the database.
func (fv *followValidator) followedIsNotFollower(ctx context.Context, follow *domain.Follow) error {
	if follow.FollowerID == follow.FollowedID {
		return errs.Errorf(errs.EINVALID, "You can't follow/unfollow yourself.")
	}
	return nil
}

// usersExist makes sure that both ends of the edge are existing users.
func (fv *followValidator) usersExist(ctx context.Context, follow *domain.Follow) error {
	for _, id := range []int{follow.FollowerID, follow.FollowedID} {
		err := fv.db.WithContext(ctx).First(&domain.User{}, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.Errorf(errs.ENOTFOUND, "User not found.")
			}
			return err
		}
	}
	return nil
}

// Toggle flips the edge inside a single transaction.
func (fg *followGorm) Toggle(ctx context.Context, follow *domain.Follow) (bool, error) {
	var following bool
	err := fg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Follow
		err := tx.
			Where("follower_id = ? AND followed_id = ?", follow.FollowerID, follow.FollowedID).
			First(&existing).Error
		if err == nil {
			following = false
			return tx.Delete(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(follow).Error; err != nil {
			return err
		}
		following = true
		return tx.Create(&domain.Notification{
			Type:   domain.NotificationFollow,
			FromID: follow.FollowerID,
			ToID:   follow.FollowedID,
		}).Error
	})
	if err != nil {
		return false, err
	}
	return following, nil
}

// Following returns the IDs of all users the given user follows.
func (fg *followGorm) Following(ctx context.Context, userID int) ([]int, error) {
	var ids []int
	err := fg.db.WithContext(ctx).
		Model(&domain.Follow{}).
		Where("follower_id = ?", userID).
		Order("id asc").
		Pluck("followed_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Followers returns the IDs of all users following the given user.
func (fg *followGorm) Followers(ctx context.Context, userID int) ([]int, error) {
	var ids []int
	err := fg.db.WithContext(ctx).
		Model(&domain.Follow{}).
		Where("followed_id = ?", userID).
		Order("id asc").
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// IsFollowing reports whether the follower currently follows the followed user.
func (fg *followGorm) IsFollowing(ctx context.Context, followerID, followedID int) (bool, error) {
	var count int64
	err := fg.db.WithContext(ctx).
		Model(&domain.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
