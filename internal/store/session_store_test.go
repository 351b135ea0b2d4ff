package store_test

import (
	"testing"
	"time"

	"github.com/Staninbui/wood/internal/store"
	"github.com/Staninbui/wood/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.New(db)

	token, err := st.CreateSession("access", "refresh", "User Access Token", 3600, false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, err := st.GetSession(token)
	require.NoError(t, err)
	assert.Equal(t, "access", session.AccessToken)
	assert.Equal(t, "refresh", session.RefreshToken)
	assert.Equal(t, "User Access Token", session.TokenType)
	assert.False(t, session.DebugMode)
	assert.True(t, session.Expiry.After(time.Now()))

	require.NoError(t, st.DeleteSession(token))
	_, err = st.GetSession(token)
	assert.ErrorIs(t, err, store.ErrInvalidSession)
}

func TestGetSessionUnknownToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.New(db)

	_, err := st.GetSession("no-such-token")
	assert.ErrorIs(t, err, store.ErrInvalidSession)
}

func TestGetSessionExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.New(db)

	token, err := st.CreateSession("access", "", "", 1, false)
	require.NoError(t, err)

	// Push the expiry into the past instead of sleeping.
	_, err = db.Exec("UPDATE sessions SET expiry = ? WHERE token = ?", time.Now().Add(-time.Minute), token)
	require.NoError(t, err)

	_, err = st.GetSession(token)
	assert.ErrorIs(t, err, store.ErrInvalidSession)

	// The expired row is removed on read.
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count))
	assert.Zero(t, count)
}

func TestCreateSessionDefaultsTokenType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.New(db)

	token, err := st.CreateSession("access", "", "", 0, true)
	require.NoError(t, err)

	session, err := st.GetSession(token)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", session.TokenType)
	assert.True(t, session.DebugMode)
}

func TestDeleteExpiredSessions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.New(db)

	live, err := st.CreateSession("live", "", "", 3600, false)
	require.NoError(t, err)
	stale, err := st.CreateSession("stale", "", "", 3600, false)
	require.NoError(t, err)

	_, err = db.Exec("UPDATE sessions SET expiry = ? WHERE token = ?", time.Now().Add(-time.Hour), stale)
	require.NoError(t, err)

	removed, err := st.DeleteExpiredSessions()
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, err = st.GetSession(live)
	assert.NoError(t, err)
}
