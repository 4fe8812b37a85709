package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"cafe-jampot/db"
	"cafe-jampot/models"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// ErrInvalidCredentials is deliberately generic: sign-in never reveals
// whether the email exists.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoSession          = errors.New("no active session")
)

const sessionTokenBytes = 32

// NewSessionToken returns a 64-char hex token from crypto/rand.
// Do not log the returned string.
func NewSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// SignUp creates a role-less account. The account stays in the "pending
// approval" state until an admin grants a role.
func SignUp(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", &ValidationError{Field: "email", Msg: "a valid email is required"}
	}
	if len(password) < 6 {
		return "", &ValidationError{Field: "password", Msg: "password must be at least 6 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	var userID string
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash) VALUES ($1, $2)
		RETURNING id`,
		email, string(hash),
	).Scan(&userID)
	if err != nil {
		// Unique violation included: stay generic, no account enumeration.
		return "", fmt.Errorf("create account: %w", err)
	}
	return userID, nil
}

// SignIn verifies the credentials and opens a session with the given TTL.
func SignIn(ctx context.Context, email, password string, ttl time.Duration) (*models.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if wait, err := LoginThrottleWaitSeconds(ctx, email); err == nil && wait > 0 {
		return nil, fmt.Errorf("too many attempts, retry in %d seconds", wait)
	}

	var userID, hash string
	err := db.Pool.QueryRow(ctx, `
		SELECT id, password_hash FROM users WHERE email = $1`, email,
	).Scan(&userID, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = RecordLoginFailed(ctx, email)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		_ = RecordLoginFailed(ctx, email)
		return nil, ErrInvalidCredentials
	}
	_ = RecordLoginSuccess(ctx, email)

	token, err := NewSessionToken()
	if err != nil {
		return nil, err
	}
	expires := time.Now().Add(ttl)
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		token, userID, expires,
	)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	return &models.Session{Token: token, UserID: userID, Email: email, ExpiresAt: expires}, nil
}

// SignOut closes the session; unknown tokens are a no-op.
func SignOut(ctx context.Context, token string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// GetSession resolves a token to its user. Expired sessions are deleted on
// sight and reported as ErrNoSession.
func GetSession(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	var s models.Session
	s.Token = token
	err := db.Pool.QueryRow(ctx, `
		SELECT s.user_id, u.email, s.expires_at
		FROM sessions s JOIN users u ON u.id = s.user_id
		WHERE s.token = $1`, token,
	).Scan(&s.UserID, &s.Email, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	if time.Now().After(s.ExpiresAt) {
		_, _ = db.Pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
		return nil, ErrNoSession
	}
	return &s, nil
}

// HasRole reports whether the user holds the role.
func HasRole(ctx context.Context, userID, role string) (bool, error) {
	var ok int
	err := db.Pool.QueryRow(ctx, `
		SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2`,
		userID, role,
	).Scan(&ok)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsStaff reports whether the user holds the staff or admin role.
func IsStaff(ctx context.Context, userID string) (bool, error) {
	if admin, err := HasRole(ctx, userID, RoleAdmin); err != nil || admin {
		return admin, err
	}
	return HasRole(ctx, userID, RoleStaff)
}

// GrantRole approves a pending account with the given role.
func GrantRole(ctx context.Context, userID, role string) error {
	if role != RoleAdmin && role != RoleStaff {
		return &ValidationError{Field: "role", Msg: "unknown role"}
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
		ON CONFLICT (user_id, role) DO NOTHING`,
		userID, role,
	)
	return err
}

// RevokeRoles removes every role from the user, returning the account to
// the pending state. Their open sessions stay valid but lose staff access.
func RevokeRoles(ctx context.Context, userID string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID)
	return err
}

// ListUsersWithRoles returns all accounts with their role (nil = pending).
func ListUsersWithRoles(ctx context.Context) ([]models.User, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT u.id, u.email, r.role, u.created_at
		FROM users u LEFT JOIN user_roles r ON r.user_id = u.id
		ORDER BY u.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListPendingUsers returns accounts that have no role yet.
func ListPendingUsers(ctx context.Context) ([]models.User, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT u.id, u.email, u.created_at
		FROM users u
		WHERE NOT EXISTS (SELECT 1 FROM user_roles r WHERE r.user_id = u.id)
		ORDER BY u.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CleanupExpiredSessions removes sessions past their expiry (call periodically).
func CleanupExpiredSessions(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	return err
}
