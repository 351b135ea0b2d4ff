package store

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/Staninbui/wood/internal/models"
)

// ErrInvalidSession is returned when a session token is unknown or expired.
var ErrInvalidSession = errors.New("invalid session token")

// CreateSession stores the eBay token material server-side and returns an
// opaque session token for the cookie.
func (s *Store) CreateSession(accessToken, refreshToken, tokenType string, expiresIn int, debug bool) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	if tokenType == "" {
		tokenType = "Bearer"
	}
	// Cap the session at the OAuth token lifetime when the provider reports
	// one, otherwise fall back to two hours.
	lifetime := 2 * time.Hour
	if expiresIn > 0 {
		lifetime = time.Duration(expiresIn) * time.Second
	}
	expiry := time.Now().Add(lifetime)

	_, err := s.db.Exec(
		"INSERT INTO sessions (token, access_token, refresh_token, token_type, debug_mode, expiry) VALUES (?, ?, ?, ?, ?, ?)",
		token, accessToken, refreshToken, tokenType, debug, expiry,
	)
	return token, err
}

// GetSession retrieves a session by its token. Expired sessions are
// deleted on read and reported as invalid.
func (s *Store) GetSession(token string) (*models.Session, error) {
	var session models.Session
	query := "SELECT token, access_token, refresh_token, token_type, debug_mode, expiry FROM sessions WHERE token = ?"
	err := s.db.QueryRow(query, token).Scan(
		&session.Token, &session.AccessToken, &session.RefreshToken,
		&session.TokenType, &session.DebugMode, &session.Expiry,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	if time.Now().After(session.Expiry) {
		s.DeleteSession(token) // Clean up expired session
		return nil, ErrInvalidSession
	}

	return &session, nil
}

// DeleteSession removes a session from the database (used for logout).
func (s *Store) DeleteSession(token string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE token = ?", token)
	return err
}

// DeleteExpiredSessions removes all sessions past their expiry. It returns
// the number of rows deleted so the cleanup job can log it.
func (s *Store) DeleteExpiredSessions() (int64, error) {
	res, err := s.db.Exec("DELETE FROM sessions WHERE expiry < ?", time.Now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
