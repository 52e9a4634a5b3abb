package crud

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"chirper/domain"
	"chirper/errs"
)

// UserService manages Users. It owns registration, authentication, profile
// reads and profile updates, including swapping avatar / cover assets in
// object storage. It implements the domain.UserService interface.
type UserService struct {
	userValidator
}

// userValidator runs validations on incoming User data.
// On success, it passes the data on to userGorm.
// Otherwise, it returns the error of the validation that has failed.
type userValidator struct {
	pepper     string
	emailRegex *regexp.Regexp
	assets     domain.AssetService
	userGorm
}

// userGorm runs CRUD operations on the database using incoming User data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type userGorm struct {
	db *gorm.DB
}

// NewUserService returns an instance of UserService.
func NewUserService(db *gorm.DB, assets domain.AssetService, pepper string) *UserService {
	return &UserService{
		userValidator{
			pepper:     pepper,
			emailRegex: regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`),
			assets:     assets,
			userGorm: userGorm{
				db: db,
			},
		},
	}
}

// Ensure the UserService struct properly implements the domain.UserService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.UserService = &UserService{}

// Create runs validations needed for creating new User database records.
func (uv *userValidator) Create(ctx context.Context, user *domain.User) error {
	err := runUserValFns(ctx, user,
		uv.usernameNormalize,
		uv.usernameRequired,
		uv.usernameIsAvail,
		uv.emailNormalize,
		uv.emailRequired,
		uv.emailFormat,
		uv.emailIsAvail,
		uv.passwordRequired,
		uv.passwordMinLength,
		uv.passwordBcrypt,
		uv.passwordHashRequired)
	if err != nil {
		return err
	}
	return uv.userGorm.Create(ctx, user)
}

// Authenticate checks a submitted username and password for existence and
// correctness. Unknown usernames and wrong passwords yield the same error,
// so login attempts can't be used to probe which usernames exist.
func (uv *userValidator) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	found, err := uv.userGorm.ByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			return nil, errs.Errorf(errs.EINVALID, "Invalid username or password.")
		}
		return nil, err
	}
	err = bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password+uv.pepper))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, errs.Errorf(errs.EINVALID, "Invalid username or password.")
		}
		return nil, err
	}
	return found, nil
}

// Update applies a profile update to the given user. Empty strings are
// treated like absent fields, a field keeps its stored value unless the
// request carries a non-empty replacement. A password change requires the
// current and the new password together. New image payloads replace the
// stored assets: the old object is destroyed by its derived key before the
// new payload is uploaded. That two-step swap is not retried - an upload
// failure aborts the whole update.
func (uv *userValidator) Update(ctx context.Context, userID int, upd *domain.ProfileUpdate) (*domain.User, error) {
	user, err := uv.userGorm.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if email := strVal(upd.Email); email != "" {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != user.Email {
			if !uv.emailRegex.MatchString(email) {
				return nil, errs.Errorf(errs.EINVALID, "Invalid email format.")
			}
			if err := uv.emailIsAvail(ctx, &domain.User{ID: user.ID, Email: email}); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}

	if username := strVal(upd.Username); username != "" {
		username = strings.TrimSpace(username)
		if username != user.Username {
			if err := uv.usernameIsAvail(ctx, &domain.User{ID: user.ID, Username: username}); err != nil {
				return nil, err
			}
			user.Username = username
		}
	}

	currentPassword, newPassword := strVal(upd.CurrentPassword), strVal(upd.NewPassword)
	if (currentPassword == "") != (newPassword == "") {
		return nil, errs.Errorf(errs.EINVALID, "Please provide both current password and new password.")
	}
	if currentPassword != "" {
		err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword+uv.pepper))
		if err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return nil, errs.Errorf(errs.EINVALID, "Current password is incorrect.")
			}
			return nil, err
		}
		if utf8.RuneCountInString(newPassword) < 6 {
			return nil, errs.Errorf(errs.EINVALID, "Password must be at least 6 characters long.")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword+uv.pepper), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hashed)
	}

	if payload := strVal(upd.ProfileImg); payload != "" {
		url, err := uv.swapAsset(ctx, user.ProfileImg, payload)
		if err != nil {
			return nil, errs.Errorf(errs.EINTERNAL, "Profile image upload failed.")
		}
		user.ProfileImg = url
	}
	if payload := strVal(upd.CoverImg); payload != "" {
		url, err := uv.swapAsset(ctx, user.CoverImg, payload)
		if err != nil {
			return nil, errs.Errorf(errs.EINTERNAL, "Cover image upload failed.")
		}
		user.CoverImg = url
	}

	if fullName := strVal(upd.FullName); fullName != "" {
		user.FullName = fullName
	}
	if bio := strVal(upd.Bio); bio != "" {
		user.Bio = bio
	}
	if link := strVal(upd.Link); link != "" {
		user.Link = link
	}

	if err := uv.userGorm.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := uv.userGorm.attachFollowLists(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// swapAsset destroys the old stored asset, if any, and uploads the new payload.
func (uv *userValidator) swapAsset(ctx context.Context, oldURL, payload string) (string, error) {
	if oldURL != "" {
		if err := uv.assets.Destroy(ctx, domain.AssetKey(oldURL)); err != nil {
			return "", err
		}
	}
	return uv.assets.Upload(ctx, payload)
}

// runUserValFns runs any number of functions of type userValFn on the passed in User object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runUserValFns(ctx context.Context, user *domain.User, fns ...userValFn) error {
	for _, fn := range fns {
		if err := fn(ctx, user); err != nil {
			return err
		}
	}
	return nil
}

// A userValFn is any function that takes in a pointer to a domain.User object and returns an error.
type userValFn func(ctx context.Context, user *domain.User) error

// usernameNormalize trims whitespace around the username.
func (uv *userValidator) usernameNormalize(ctx context.Context, user *domain.User) error {
	user.Username = strings.TrimSpace(user.Username)
	return nil
}

// usernameRequired makes sure that the username is not the empty string.
func (uv *userValidator) usernameRequired(ctx context.Context, user *domain.User) error {
	if user.Username == "" {
		return errs.Errorf(errs.EINVALID, "A username is required.")
	}
	return nil
}

// usernameIsAvail makes sure that a provided username is not yet taken.
func (uv *userValidator) usernameIsAvail(ctx context.Context, user *domain.User) error {
	existing, err := uv.userGorm.ByUsername(ctx, user.Username)
	if err != nil {
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			return nil
		}
		return err
	}
	if user.ID != existing.ID {
		return errs.Errorf(errs.ECONFLICT, "Username is already taken.")
	}
	return nil
}

// emailNormalize converts the email to all lowercase and trims its whitespaces.
func (uv *userValidator) emailNormalize(ctx context.Context, user *domain.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return nil
}

// emailRequired makes sure that the email is not the empty string.
func (uv *userValidator) emailRequired(ctx context.Context, user *domain.User) error {
	if user.Email == "" {
		return errs.Errorf(errs.EINVALID, "An email address is required.")
	}
	return nil
}

// emailFormat makes sure that a provided email address matches a predefined regex pattern.
func (uv *userValidator) emailFormat(ctx context.Context, user *domain.User) error {
	if !uv.emailRegex.MatchString(user.Email) {
		return errs.Errorf(errs.EINVALID, "Invalid email format.")
	}
	return nil
}

// emailIsAvail makes sure that a provided email address is not yet taken.
func (uv *userValidator) emailIsAvail(ctx context.Context, user *domain.User) error {
	var existing domain.User
	err := uv.db.WithContext(ctx).Where("email = ?", user.Email).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if user.ID != existing.ID {
		return errs.Errorf(errs.ECONFLICT, "Email is already in use.")
	}
	return nil
}

// passwordRequired makes sure that the user's password is not the empty string.
func (uv *userValidator) passwordRequired(ctx context.Context, user *domain.User) error {
	if user.Password == "" {
		return errs.Errorf(errs.EINVALID, "A password is required.")
	}
	return nil
}

// passwordMinLength makes sure that the user's password is at least 6 characters long.
func (uv *userValidator) passwordMinLength(ctx context.Context, user *domain.User) error {
	if user.Password == "" {
		return nil
	}
	if utf8.RuneCountInString(user.Password) < 6 {
		return errs.Errorf(errs.EINVALID, "Password must be at least 6 characters long.")
	}
	return nil
}

// passwordBcrypt hashes a user's password with a predefined pepper.
// It then clears the password on the user object in memory.
func (uv *userValidator) passwordBcrypt(ctx context.Context, user *domain.User) error {
	if user.Password == "" {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password+uv.pepper), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashed)
	user.Password = ""
	return nil
}

// passwordHashRequired makes sure that the user's password hash is not the empty string.
func (uv *userValidator) passwordHashRequired(ctx context.Context, user *domain.User) error {
	if user.PasswordHash == "" {
		return errs.Errorf(errs.EINVALID, "A password is required.")
	}
	return nil
}

// ByID retrieves a User database record by ID.
func (ug *userGorm) ByID(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	err := ug.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "User not found.")
		}
		return nil, err
	}
	return &user, nil
}

// ByEmail retrieves a User database record by email address.
func (ug *userGorm) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := ug.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "User not found.")
		}
		return nil, err
	}
	return &user, nil
}

// ByUsername retrieves a User database record by username, with the IDs of
// its followers and followed users attached.
func (ug *userGorm) ByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := ug.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "User not found.")
		}
		return nil, err
	}
	if err := ug.attachFollowLists(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Suggested returns up to 4 users that the given user doesn't follow yet,
// excluding the user themselves, in natural storage order.
func (ug *userGorm) Suggested(ctx context.Context, userID int) ([]domain.User, error) {
	followed := ug.db.
		Model(&domain.Follow{}).
		Select("followed_id").
		Where("follower_id = ?", userID)
	var users []domain.User
	err := ug.db.WithContext(ctx).
		Where("id <> ?", userID).
		Where("id NOT IN (?)", followed).
		Order("id asc").
		Limit(4).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Create stores the data from the User object in a new database record.
func (ug *userGorm) Create(ctx context.Context, user *domain.User) error {
	return ug.db.WithContext(ctx).Create(user).Error
}

// Update saves changes to an existing user record in the database.
func (ug *userGorm) Update(ctx context.Context, user *domain.User) error {
	return ug.db.WithContext(ctx).Save(user).Error
}

// attachFollowLists fills the derived Followers and Following ID lists.
// They are always non-nil so they serialize as [] instead of null.
func (ug *userGorm) attachFollowLists(ctx context.Context, user *domain.User) error {
	followers := []int{}
	err := ug.db.WithContext(ctx).
		Model(&domain.Follow{}).
		Where("followed_id = ?", user.ID).
		Order("id asc").
		Pluck("follower_id", &followers).Error
	if err != nil {
		return err
	}
	following := []int{}
	err = ug.db.WithContext(ctx).
		Model(&domain.Follow{}).
		Where("follower_id = ?", user.ID).
		Order("id asc").
		Pluck("followed_id", &following).Error
	if err != nil {
		return err
	}
	user.Followers, user.Following = followers, following
	return nil
}

// strVal dereferences an optional string field, treating nil as empty.
func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
