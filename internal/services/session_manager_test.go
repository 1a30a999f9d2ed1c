package services

import (
	"testing"
	"time"

	"athlete-connect-backend/internal/models"
	"athlete-connect-backend/internal/seed"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, ttl time.Duration) (*SessionManager, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return NewSessionManager(env.users, env.conversations, env.opts, "test-secret", ttl), env
}

func TestSessionManager_Login(t *testing.T) {
	t.Run("should issue a token bound to the session", func(t *testing.T) {
		req := require.New(t)
		m, _ := newTestManager(t, time.Hour)

		session, token, err := m.Login("john@example.com", "pw")

		req.NoError(err)
		req.NotEmpty(token)
		req.Equal(1, m.Count())

		resolved, err := m.Authenticate(token)
		req.NoError(err)
		req.Same(session, resolved)
		user, ok := resolved.CurrentUser()
		req.True(ok)
		req.Equal(seed.AthleteID, user.ID)
	})

	t.Run("should not keep a session when login fails", func(t *testing.T) {
		req := require.New(t)
		env := newTestEnv(t)
		env.opts.AutoRegister = false
		m := NewSessionManager(env.users, env.conversations, env.opts, "test-secret", time.Hour)

		_, _, err := m.Login("new@x.com", "pw")

		req.ErrorIs(err, models.ErrInvalidCredentials)
		req.Equal(0, m.Count())
	})
}

func TestSessionManager_Authenticate(t *testing.T) {
	t.Run("should reject a token after logout", func(t *testing.T) {
		req := require.New(t)
		m, _ := newTestManager(t, time.Hour)
		session, token, err := m.Login("john@example.com", "pw")
		req.NoError(err)

		m.Logout(session)

		_, err = m.Authenticate(token)
		req.ErrorIs(err, models.ErrUnauthenticated)
		req.False(session.IsAuthenticated())
		req.Equal(0, m.Count())
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		m, _ := newTestManager(t, time.Hour)
		session, _, err := m.Login("john@example.com", "pw")
		require.NoError(t, err)

		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"session_id": session.ID(),
			"exp":        time.Now().Add(-time.Minute).Unix(),
		})
		tokenString, err := expired.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = m.Authenticate(tokenString)
		require.ErrorIs(t, err, models.ErrUnauthenticated)
	})

	t.Run("should reject a token signed with another secret", func(t *testing.T) {
		m, env := newTestManager(t, time.Hour)
		other := NewSessionManager(env.users, env.conversations, env.opts, "other-secret", time.Hour)
		_, token, err := other.Login("john@example.com", "pw")
		require.NoError(t, err)

		_, err = m.ValidateToken(token)
		require.ErrorIs(t, err, models.ErrUnauthenticated)
	})

	t.Run("should reject garbage", func(t *testing.T) {
		m, _ := newTestManager(t, time.Hour)

		_, err := m.Authenticate("not-a-token")

		require.ErrorIs(t, err, models.ErrUnauthenticated)
	})
}

func TestSessionManager_ForgetsExpiredSessions(t *testing.T) {
	req := require.New(t)
	m, _ := newTestManager(t, time.Millisecond)

	tokens := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		_, token, err := m.Login("john@example.com", "pw")
		req.NoError(err)
		tokens = append(tokens, token)
	}

	req.Eventually(func() bool { return m.Count() == 0 }, time.Second, 5*time.Millisecond)

	_, err := m.Authenticate(tokens[0])
	req.ErrorIs(err, models.ErrUnauthenticated)
}

func TestSessionManager_LoginEvictsExpiredSessions(t *testing.T) {
	req := require.New(t)
	m, _ := newTestManager(t, 200*time.Millisecond)

	stale, _, err := m.Login("john@example.com", "pw")
	req.NoError(err)
	time.Sleep(250 * time.Millisecond)

	fresh, _, err := m.Login("coach@example.com", "pw")
	req.NoError(err)

	m.mu.Lock()
	_, staleKept := m.sessions[stale.ID()]
	_, freshKept := m.sessions[fresh.ID()]
	m.mu.Unlock()
	req.False(staleKept)
	req.True(freshKept)
}

func TestSessionManager_IssueTokenRequiresUser(t *testing.T) {
	m, _ := newTestManager(t, 0)

	_, err := m.IssueToken(m.Create())

	require.ErrorIs(t, err, models.ErrUnauthenticated)
}
