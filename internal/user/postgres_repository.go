package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, full_name, email, password_hash, avatar_public_id, avatar_url,
        role, reset_token_hash, reset_token_expiry, subscription_id, subscription_status,
        created_at, updated_at`

// Create inserts a new user. A duplicate email surfaces as
// ErrDuplicateEmail without mutating state.
func (r *PostgresRepository) Create(ctx context.Context, u User) error {
	userID, err := uuid.Parse(u.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO users
        (id, full_name, email, password_hash, avatar_public_id, avatar_url, role,
         subscription_id, subscription_status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
		userID, u.FullName, u.Email, u.PasswordHash, u.Avatar.PublicID, u.Avatar.URL,
		string(u.Role), u.Subscription.ID, u.Subscription.Status, u.CreatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}

// FindByEmail fetches a user by normalized email address.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, NormalizeEmail(email))
	return scanUser(row)
}

// FindByID fetches a user by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

// UpdatePassword replaces the credential hash.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`,
		passwordHash, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetResetToken stores an outstanding reset fingerprint and its expiry.
func (r *PostgresRepository) SetResetToken(ctx context.Context, id, fingerprint string, expiry time.Time) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE users SET reset_token_hash = $1, reset_token_expiry = $2, updated_at = now() WHERE id = $3`,
		fingerprint, expiry.UTC(), userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearResetToken removes any outstanding reset fingerprint.
func (r *PostgresRepository) ClearResetToken(ctx context.Context, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.db.Exec(ctx, `UPDATE users SET reset_token_hash = NULL, reset_token_expiry = NULL, updated_at = now() WHERE id = $1`, userID)
	return err
}

// ConsumeResetToken is a single conditional update: match, replace, clear.
// The fingerprint cannot be consumed twice.
func (r *PostgresRepository) ConsumeResetToken(ctx context.Context, fingerprint string, now time.Time, newPasswordHash string) (User, error) {
	row := r.db.QueryRow(ctx, `UPDATE users
        SET password_hash = $1, reset_token_hash = NULL, reset_token_expiry = NULL, updated_at = now()
        WHERE reset_token_hash = $2 AND reset_token_expiry > $3
        RETURNING `+userColumns, newPasswordHash, fingerprint, now.UTC())
	return scanUser(row)
}

// UpdateProfile applies a partial update of the mutable profile fields.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `UPDATE users SET
        full_name = COALESCE($2, full_name),
        avatar_public_id = COALESCE($3, avatar_public_id),
        avatar_url = COALESCE($4, avatar_url),
        updated_at = now()
        WHERE id = $1
        RETURNING `+userColumns,
		userID, patch.FullName, avatarField(patch.Avatar, func(a Avatar) string { return a.PublicID }),
		avatarField(patch.Avatar, func(a Avatar) string { return a.URL }))
	return scanUser(row)
}

// UpdateSubscription stores the provider-reported subscription state.
func (r *PostgresRepository) UpdateSubscription(ctx context.Context, id string, sub Subscription) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE users SET subscription_id = $1, subscription_status = $2, updated_at = now() WHERE id = $3`,
		sub.ID, sub.Status, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountUsers returns total and actively subscribed account counts.
func (r *PostgresRepository) CountUsers(ctx context.Context) (int64, int64, error) {
	var total, subscribed int64
	row := r.db.QueryRow(ctx, `SELECT count(*),
        count(*) FILTER (WHERE subscription_status = $1) FROM users`, SubscriptionActive)
	if err := row.Scan(&total, &subscribed); err != nil {
		return 0, 0, err
	}
	return total, subscribed, nil
}

func avatarField(a *Avatar, pick func(Avatar) string) *string {
	if a == nil {
		return nil
	}
	v := pick(*a)
	return &v
}

func scanUser(row pgx.Row) (User, error) {
	var (
		u         User
		id        uuid.UUID
		role      string
		resetHash *string
		resetExp  *time.Time
		subID     *string
		subStatus *string
	)
	err := row.Scan(&id, &u.FullName, &u.Email, &u.PasswordHash, &u.Avatar.PublicID, &u.Avatar.URL,
		&role, &resetHash, &resetExp, &subID, &subStatus, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	u.ID = id.String()
	u.Role = ParseRole(role)
	if resetHash != nil {
		u.ResetTokenHash = *resetHash
	}
	if resetExp != nil {
		u.ResetTokenExpiry = resetExp.UTC()
	}
	if subID != nil {
		u.Subscription.ID = *subID
	}
	if subStatus != nil {
		u.Subscription.Status = *subStatus
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}
