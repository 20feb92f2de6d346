package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lectoria/lectoria/internal/auth"
	"github.com/lectoria/lectoria/internal/config"
	"github.com/lectoria/lectoria/internal/domain"
	"github.com/lectoria/lectoria/internal/mail"
	"github.com/lectoria/lectoria/internal/media"
)

const avatarFolder = "lms/avatars"

// Service orchestrates registration, authentication and credential
// recovery. It is the only component composing the hasher, token codec,
// reset generator and repository.
type Service struct {
	repo   Repository
	media  media.Storage
	mailer mail.Mailer
	cfg    config.Config
	logger *slog.Logger
}

// NewService builds the identity service.
func NewService(repo Repository, store media.Storage, mailer mail.Mailer, cfg config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, media: store, mailer: mailer, cfg: cfg, logger: logger}
}

// RegisterInput carries the registration form. AvatarPath is the local copy
// of an uploaded file; empty means no upload was attempted.
type RegisterInput struct {
	FullName   string
	Email      string
	Password   string
	AvatarPath string
}

// Register creates an identity record and optionally attaches uploaded
// avatar media. The record is created before the upload; an upload failure
// surfaces after creation and leaves the placeholder avatar in place.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := NormalizeEmail(input.Email)

	if fullName == "" || email == "" || input.Password == "" {
		return User{}, domain.E(domain.KindValidation, "all fields are required")
	}
	if !ValidFullName(fullName) {
		return User{}, domain.E(domain.KindValidation, "name must be between 5 and 50 characters")
	}
	if !ValidEmail(email) {
		return User{}, domain.E(domain.KindValidation, "please provide a valid email address")
	}
	if !ValidPassword(input.Password) {
		return User{}, domain.E(domain.KindValidation, "password must be at least 6 characters")
	}

	hash, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return User{}, domain.Wrap(domain.KindStoreUnavailable, "registration failed", err)
	}

	now := time.Now().UTC()
	u := User{
		ID:           uuid.New().String(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Avatar:       PlaceholderAvatar(email),
		Role:         RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return User{}, domain.E(domain.KindDuplicateEmail, "email already exists")
		}
		return User{}, domain.Wrap(domain.KindStoreUnavailable, "registration failed", err)
	}

	if input.AvatarPath != "" {
		asset, err := s.media.Upload(ctx, input.AvatarPath, media.UploadOptions{Folder: avatarFolder})
		if err != nil {
			return User{}, domain.Wrap(domain.KindUploadFailed, "file upload failed", err)
		}
		avatar := Avatar{PublicID: asset.PublicID, URL: asset.URL}
		updated, err := s.repo.UpdateProfile(ctx, u.ID, ProfilePatch{Avatar: &avatar})
		if err != nil {
			return User{}, domain.Wrap(domain.KindStoreUnavailable, "registration failed", err)
		}
		u = updated
	}

	return u, nil
}

// Login verifies credentials. A missing account and a wrong password return
// the same error so accounts cannot be enumerated.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return User{}, domain.E(domain.KindValidation, "email and password are required")
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, domain.E(domain.KindInvalidCredentials, "invalid email or password")
		}
		return User{}, domain.Wrap(domain.KindStoreUnavailable, "login failed", err)
	}

	if !auth.CheckPassword(password, u.PasswordHash) {
		return User{}, domain.E(domain.KindInvalidCredentials, "invalid email or password")
	}

	return u, nil
}

// IssueSession signs a session token snapshotting the record's claims.
func (s *Service) IssueSession(u User) (string, error) {
	claims := auth.Claims{
		RegisteredClaims:   jwt.RegisteredClaims{Subject: u.ID},
		UserID:             u.ID,
		Email:              u.Email,
		Role:               string(u.Role),
		SubscriptionStatus: u.Subscription.Status,
	}
	return auth.IssueToken(claims, []byte(s.cfg.JWTSecret), s.cfg.SessionTTL)
}

// GetProfile returns the current store record for the subject.
func (s *Service) GetProfile(ctx context.Context, id string) (User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, domain.E(domain.KindNotFound, "user not found")
		}
		return User{}, domain.Wrap(domain.KindStoreUnavailable, "profile lookup failed", err)
	}
	return u, nil
}

// ForgotPassword persists a reset fingerprint and emails the raw token. A
// delivery failure rolls the fingerprint back so no undeliverable reset
// capability dangles.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return domain.E(domain.KindValidation, "email is required")
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.E(domain.KindNotFound, "user not found")
		}
		return domain.Wrap(domain.KindStoreUnavailable, "password reset failed", err)
	}

	token, fingerprint, err := auth.NewResetToken()
	if err != nil {
		return domain.Wrap(domain.KindStoreUnavailable, "password reset failed", err)
	}

	expiry := time.Now().Add(auth.ResetTokenTTL)
	if err := s.repo.SetResetToken(ctx, u.ID, fingerprint, expiry); err != nil {
		return domain.Wrap(domain.KindStoreUnavailable, "password reset failed", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(s.cfg.FrontendURL, "/"), token)
	body := mail.ResetPasswordEmail(resetURL)

	if err := s.mailer.Send(ctx, u.Email, mail.ResetPasswordSubject, body); err != nil {
		if clearErr := s.repo.ClearResetToken(ctx, u.ID); clearErr != nil {
			s.logger.Error("clear reset token after send failure", "user_id", u.ID, "error", clearErr)
		}
		return domain.Wrap(domain.KindEmailDelivery, "could not send reset email, try again later", err)
	}

	return nil
}

// ResetPassword consumes a presented reset token. Lookup and clear happen
// in one repository call so the token is single-use under concurrency.
func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if resetToken == "" {
		return domain.E(domain.KindResetTokenInvalid, "token is invalid or expired, please try again")
	}
	if !ValidPassword(newPassword) {
		return domain.E(domain.KindValidation, "password must be at least 6 characters")
	}

	hash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return domain.Wrap(domain.KindStoreUnavailable, "password reset failed", err)
	}

	fingerprint := auth.ResetFingerprint(resetToken)
	if _, err := s.repo.ConsumeResetToken(ctx, fingerprint, time.Now(), hash); err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.E(domain.KindResetTokenInvalid, "token is invalid or expired, please try again")
		}
		return domain.Wrap(domain.KindStoreUnavailable, "password reset failed", err)
	}

	return nil
}

// ChangePassword replaces the credential after verifying the old one. The
// stored hash is untouched when verification fails.
func (s *Service) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return domain.E(domain.KindValidation, "all fields are required")
	}
	if !ValidPassword(newPassword) {
		return domain.E(domain.KindValidation, "password must be at least 6 characters")
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.E(domain.KindNotFound, "user not found")
		}
		return domain.Wrap(domain.KindStoreUnavailable, "password change failed", err)
	}

	if !auth.CheckPassword(oldPassword, u.PasswordHash) {
		return domain.E(domain.KindInvalidOldPassword, "invalid old password")
	}

	hash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return domain.Wrap(domain.KindStoreUnavailable, "password change failed", err)
	}

	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return domain.Wrap(domain.KindStoreUnavailable, "password change failed", err)
	}

	return nil
}

// UpdateInput carries a partial profile update.
type UpdateInput struct {
	FullName   string
	AvatarPath string
}

// UpdateProfile applies a partial update. A new avatar replaces the old
// asset delete-then-upload; the two steps are not transactional, so an
// upload failure after a successful delete surfaces without restoring the
// previous asset.
func (s *Service) UpdateProfile(ctx context.Context, id string, input UpdateInput) (User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, domain.E(domain.KindNotFound, "user not found")
		}
		return User{}, domain.Wrap(domain.KindStoreUnavailable, "profile update failed", err)
	}

	patch := ProfilePatch{}

	if name := strings.TrimSpace(input.FullName); name != "" {
		if !ValidFullName(name) {
			return User{}, domain.E(domain.KindValidation, "name must be between 5 and 50 characters")
		}
		patch.FullName = &name
	}

	if input.AvatarPath != "" {
		if u.Avatar.PublicID != "" {
			if err := s.media.Delete(ctx, u.Avatar.PublicID); err != nil {
				s.logger.Warn("delete previous avatar", "user_id", u.ID, "public_id", u.Avatar.PublicID, "error", err)
			}
		}
		asset, err := s.media.Upload(ctx, input.AvatarPath, media.UploadOptions{Folder: avatarFolder})
		if err != nil {
			return User{}, domain.Wrap(domain.KindUploadFailed, "file upload failed", err)
		}
		patch.Avatar = &Avatar{PublicID: asset.PublicID, URL: asset.URL}
	}

	updated, err := s.repo.UpdateProfile(ctx, id, patch)
	if err != nil {
		return User{}, domain.Wrap(domain.KindStoreUnavailable, "profile update failed", err)
	}

	return updated, nil
}
