package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/gistgate/internal/domain"
)

const userColumns = "id, username, email, password_hash, github_id, github_token, created_at, updated_at"

// GetUserByID looks up a user record by its identifier
func (db *DB) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	row := db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

// GetUserByUsername looks up a user record by username
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	return scanUser(row)
}

// GetUserByGithubID looks up a user record by its linked GitHub identity
func (db *DB) GetUserByGithubID(ctx context.Context, githubID string) (*domain.User, error) {
	row := db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE github_id = ?", githubID)
	return scanUser(row)
}

// IsUsernameInUse reports whether a username is already registered
func (db *DB) IsUsernameInUse(ctx context.Context, username string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE username = ?", username).Scan(&count)
	if err != nil {
		return false, domain.WrapStoreOperation("username lookup", err)
	}
	return count > 0, nil
}

// IsEmailInUse reports whether an email address is already registered
func (db *DB) IsEmailInUse(ctx context.Context, email string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE email = ?", email).Scan(&count)
	if err != nil {
		return false, domain.WrapStoreOperation("email lookup", err)
	}
	return count > 0, nil
}

// CreateUser inserts a new user record. The UNIQUE constraints decide
// duplicate username/email/github id races atomically; violations map to the
// corresponding domain error.
func (db *DB) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, github_id, github_token, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.GithubID, user.GithubToken, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if dupErr := classifyUniqueViolation(err); dupErr != nil {
			return dupErr
		}
		return domain.WrapStoreOperation("user insert", err)
	}
	return nil
}

// UpdateGithubToken stores the latest provider access token for a user.
// The single token slot overwrites on every login.
func (db *DB) UpdateGithubToken(ctx context.Context, userID, token string) error {
	res, err := db.ExecContext(ctx,
		"UPDATE users SET github_token = ?, updated_at = ? WHERE id = ?",
		token, time.Now().UTC(), userID,
	)
	if err != nil {
		return domain.WrapStoreOperation("token update", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ClearGithubToken removes a stored provider token, e.g. after the provider
// reports it revoked.
func (db *DB) ClearGithubToken(ctx context.Context, userID string) error {
	_, err := db.ExecContext(ctx,
		"UPDATE users SET github_token = NULL, updated_at = ? WHERE id = ?",
		time.Now().UTC(), userID,
	)
	if err != nil {
		return domain.WrapStoreOperation("token clear", err)
	}
	return nil
}

// ListGithubLinkedUsers returns all users holding a GitHub token
func (db *DB) ListGithubLinkedUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE github_id IS NOT NULL AND github_token IS NOT NULL")
	if err != nil {
		return nil, domain.WrapStoreOperation("linked users query", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, domain.WrapStoreOperation("linked users scan", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapStoreOperation("linked users iteration", err)
	}
	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserRow(row rowScanner) (*domain.User, error) {
	var user domain.User
	var username, email, passwordHash, githubID, githubToken sql.NullString
	err := row.Scan(&user.ID, &username, &email, &passwordHash,
		&githubID, &githubToken, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	user.Username = nullableString(username)
	user.Email = nullableString(email)
	user.PasswordHash = nullableString(passwordHash)
	user.GithubID = nullableString(githubID)
	user.GithubToken = nullableString(githubToken)
	return &user, nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	user, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.WrapStoreOperation("user lookup", err)
	}
	return user, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

// classifyUniqueViolation maps a sqlite UNIQUE constraint failure to the
// domain error for the violated column. Returns nil for unrelated errors.
func classifyUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	errStr := strings.ToLower(err.Error())
	if !strings.Contains(errStr, "unique constraint failed") {
		return nil
	}
	switch {
	case strings.Contains(errStr, "users.username"):
		return domain.ErrUsernameTaken
	case strings.Contains(errStr, "users.email"):
		return domain.ErrEmailTaken
	case strings.Contains(errStr, "users.github_id"):
		return domain.ErrGithubAlreadyLinked
	default:
		return domain.WrapStoreOperation("unique constraint", err)
	}
}
