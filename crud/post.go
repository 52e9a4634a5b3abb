package crud

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"chirper/domain"
	"chirper/errs"
)

// PostService manages Posts and their Comments.
// It implements the domain.PostService interface.
type PostService struct {
	postValidator
}

// postValidator runs validations on incoming Post data.
// On success, it passes the data on to postGorm.
// Otherwise, it returns the error of the validation that has failed.
type postValidator struct {
	assets domain.AssetService
	postGorm
}

// postGorm runs CRUD operations on the database using incoming Post data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type postGorm struct {
	db *gorm.DB
}

// NewPostService returns an instance of PostService.
func NewPostService(db *gorm.DB, assets domain.AssetService) *PostService {
	return &PostService{
		postValidator{
			assets: assets,
			postGorm: postGorm{
				db: db,
			},
		},
	}
}

// Ensure the PostService struct properly implements the domain.PostService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.PostService = &PostService{}

// Create runs validations needed for creating new Post database records.
// If the post carries an image payload, the payload is uploaded to object
// storage first and replaced with the stored asset's URL.
func (pv *postValidator) Create(ctx context.Context, post *domain.Post) error {
	err := runPostValFns(ctx, post,
		pv.userIdValid,
		pv.contentRequired,
		pv.textMaxLength)
	if err != nil {
		return err
	}
	if post.Img != "" {
		url, err := pv.assets.Upload(ctx, post.Img)
		if err != nil {
			return errs.Errorf(errs.EINTERNAL, "Image upload failed.")
		}
		post.Img = url
	}
	return pv.postGorm.Create(ctx, post)
}

// Delete removes a post, its likes and its comments. Only the post's owner
// may delete it. The stored image asset, if any, is destroyed first.
func (pv *postValidator) Delete(ctx context.Context, userID, postID int) error {
	post, err := pv.postGorm.ByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return errs.Errorf(errs.EUNAUTHORIZED, "You are not authorized to delete this post.")
	}
	if post.Img != "" {
		if err := pv.assets.Destroy(ctx, domain.AssetKey(post.Img)); err != nil {
			return errs.Errorf(errs.EINTERNAL, "Image deletion failed.")
		}
	}
	return pv.postGorm.Delete(ctx, post)
}

// Comment runs validations needed for creating a new Comment on a post.
func (pv *postValidator) Comment(ctx context.Context, comment *domain.Comment) error {
	if strings.TrimSpace(comment.Text) == "" {
		return errs.Errorf(errs.EINVALID, "Text field is required.")
	}
	if _, err := pv.postGorm.ByID(ctx, comment.PostID); err != nil {
		return err
	}
	return pv.postGorm.Comment(ctx, comment)
}

// runPostValFns runs any number of functions of type postValFn on the passed in Post object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runPostValFns(ctx context.Context, post *domain.Post, fns ...postValFn) error {
	for _, fn := range fns {
		if err := fn(ctx, post); err != nil {
			return err
		}
	}
	return nil
}

// A postValFn is any function that takes in a pointer to a domain.Post object and returns an error.
type postValFn func(ctx context.Context, post *domain.Post) error

// userIdValid ensures that the userId is not empty.
func (pv *postValidator) userIdValid(ctx context.Context, post *domain.Post) error {
	if post.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "A user ID is required.")
	}
	return nil
}

// contentRequired makes sure a post has either text or an image.
func (pv *postValidator) contentRequired(ctx context.Context, post *domain.Post) error {
	if strings.TrimSpace(post.Text) == "" && post.Img == "" {
		return errs.Errorf(errs.EINVALID, "Post must have text or image.")
	}
	return nil
}

// textMaxLength makes sure that the post's text does not exceed the maximum length.
func (pv *postValidator) textMaxLength(ctx context.Context, post *domain.Post) error {
	if utf8.RuneCountInString(post.Text) > 280 {
		return errs.Errorf(errs.EINVALID, "Post text max length is 280 characters.")
	}
	return nil
}

// ByID retrieves a single Post by ID, along with its associations.
func (pg *postGorm) ByID(ctx context.Context, id int) (*domain.Post, error) {
	var post domain.Post
	err := pg.db.WithContext(ctx).
		Preload("User").
		Preload("Likes").
		Preload("Comments.User").
		First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "Post not found.")
		}
		return nil, err
	}
	return &post, nil
}

// All returns every post, newest first.
func (pg *postGorm) All(ctx context.Context) ([]domain.Post, error) {
	return pg.feed(ctx, pg.db.WithContext(ctx))
}

// FollowingFeed returns the posts of all users the given user follows, newest first.
func (pg *postGorm) FollowingFeed(ctx context.Context, userID int) ([]domain.Post, error) {
	followed := pg.db.
		Model(&domain.Follow{}).
		Select("followed_id").
		Where("follower_id = ?", userID)
	return pg.feed(ctx, pg.db.WithContext(ctx).Where("user_id IN (?)", followed))
}

// ByUsername returns the posts of the user with the given username, newest first.
func (pg *postGorm) ByUsername(ctx context.Context, username string) ([]domain.Post, error) {
	var user domain.User
	err := pg.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "User not found.")
		}
		return nil, err
	}
	return pg.feed(ctx, pg.db.WithContext(ctx).Where("user_id = ?", user.ID))
}

// Liked returns the posts the given user has liked, newest first.
func (pg *postGorm) Liked(ctx context.Context, userID int) ([]domain.Post, error) {
	liked := pg.db.
		Model(&domain.Like{}).
		Select("post_id").
		Where("user_id = ?", userID)
	return pg.feed(ctx, pg.db.WithContext(ctx).Where("id IN (?)", liked))
}

// feed runs a post query with the preloads and ordering every feed shares.
func (pg *postGorm) feed(ctx context.Context, db *gorm.DB) ([]domain.Post, error) {
	posts := []domain.Post{}
	err := db.
		Preload("User").
		Preload("Likes").
		Preload("Comments.User").
		Order("created_at desc").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Create stores the data from the Post object in a new database record.
func (pg *postGorm) Create(ctx context.Context, post *domain.Post) error {
	return pg.db.WithContext(ctx).Create(post).Error
}

// Delete removes a post together with its likes and comments, in one transaction.
func (pg *postGorm) Delete(ctx context.Context, post *domain.Post) error {
	return pg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Post{}, post.ID).Error
	})
}

// Comment stores the data from the Comment object in a new database record.
func (pg *postGorm) Comment(ctx context.Context, comment *domain.Comment) error {
	return pg.db.WithContext(ctx).Create(comment).Error
}
