package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// ---------- helpers ----------

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const userColumns = `
u.id, u.username, u.email, u.password_hash, u.provider, u.external_id,
u.first_name, u.last_name, u.email_verified, u.enabled,
u.last_login_at, u.created_at, u.updated_at,
(SELECT string_agg(r.name, ',' ORDER BY r.name)
   FROM user_roles ur JOIN roles r ON r.id = ur.role_id
  WHERE ur.user_id = u.id) AS roles`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserRow(row rowScanner) (userRow, error) {
	var ur userRow
	err := row.Scan(
		&ur.ID,
		&ur.Username,
		&ur.Email,
		&ur.PasswordHash,
		&ur.Provider,
		&ur.ExternalID,
		&ur.FirstName,
		&ur.LastName,
		&ur.EmailVerified,
		&ur.Enabled,
		&ur.LastLoginAt,
		&ur.CreatedAt,
		&ur.UpdatedAt,
		&ur.Roles,
	)
	return ur, err
}

// mapUniqueViolation translates SQLSTATE 23505 into the matching
// conflict error by constraint name. The username generator depends on
// username conflicts being distinguishable from email conflicts.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "username"):
		return domain.ErrUsernameAlreadyExists()
	case strings.Contains(pgErr.ConstraintName, "email"):
		return domain.ErrEmailAlreadyExists()
	default:
		return domain.ErrEmailAlreadyExists()
	}
}

// ---------- auth.UserStore ----------

func (s *UserStore) GetByUsernameOrEmail(ctx context.Context, login string) (domain.User, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return domain.User{}, domain.ErrMissingField("login")
	}

	const q = `
SELECT ` + userColumns + `
FROM users u
WHERE u.username = $1 OR u.email = $2
LIMIT 1;
`
	ur, err := scanUserRow(s.db.QueryRowContext(ctx, q, login, normalizeEmail(login)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	const q = `
SELECT ` + userColumns + `
FROM users u
WHERE u.email = $1
LIMIT 1;
`
	ur, err := scanUserRow(s.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}

	const q = `
SELECT ` + userColumns + `
FROM users u
WHERE u.id = $1
LIMIT 1;
`
	ur, err := scanUserRow(s.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (s *UserStore) GetByProvider(ctx context.Context, provider domain.Provider, externalID string) (domain.User, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return domain.User{}, domain.ErrMissingField("external_id")
	}

	const q = `
SELECT ` + userColumns + `
FROM users u
WHERE u.provider = $1 AND u.external_id = $2
LIMIT 1;
`
	ur, err := scanUserRow(s.db.QueryRowContext(ctx, q, string(provider), externalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (s *UserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1);`

	var exists bool
	if err := s.db.QueryRowContext(ctx, q, username).Scan(&exists); err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	return exists, nil
}

func (s *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1);`

	var exists bool
	if err := s.db.QueryRowContext(ctx, q, normalizeEmail(email)).Scan(&exists); err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	return exists, nil
}

// Create inserts the user and its role links in one transaction.
// Local accounts must carry a hash; provider accounts must not.
func (s *UserStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = normalizeEmail(u.Email)
	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	if u.Username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.Provider == domain.ProviderLocal && u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertUser = `
INSERT INTO users (id, username, email, password_hash, provider, external_id,
                   first_name, last_name, email_verified, enabled)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10);
`
	_, err = tx.ExecContext(ctx, insertUser,
		u.ID, u.Username, u.Email,
		nullIfEmpty(u.PasswordHash), string(u.Provider), nullIfEmpty(u.ExternalID),
		nullIfEmpty(u.FirstName), nullIfEmpty(u.LastName),
		u.EmailVerified, u.Enabled,
	)
	if err != nil {
		if conflict := mapUniqueViolation(err); conflict != nil {
			return domain.User{}, conflict
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}

	const linkRole = `
INSERT INTO user_roles (user_id, role_id)
SELECT $1, id FROM roles WHERE name = $2;
`
	for _, role := range u.Roles {
		if _, err := tx.ExecContext(ctx, linkRole, u.ID, role); err != nil {
			return domain.User{}, domain.ErrDBUnavailable(err)
		}
	}

	if err := tx.Commit(); err != nil {
		if conflict := mapUniqueViolation(err); conflict != nil {
			return domain.User{}, conflict
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}

	return s.GetByID(ctx, u.ID)
}

func (s *UserStore) UpdateNames(ctx context.Context, userID, firstName, lastName string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}

	const q = `
UPDATE users
SET first_name = $2,
    last_name = $3,
    updated_at = NOW()
WHERE id = $1;
`
	res, err := s.db.ExecContext(ctx, q, userID, nullIfEmpty(firstName), nullIfEmpty(lastName))
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (s *UserStore) RecordLogin(ctx context.Context, userID string, at time.Time) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}

	const q = `
UPDATE users
SET last_login_at = $2,
    updated_at = NOW()
WHERE id = $1;
`
	res, err := s.db.ExecContext(ctx, q, userID, at)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
