package services

import (
	"testing"
	"time"

	"athlete-connect-backend/internal/models"
	"athlete-connect-backend/internal/repository"
	"athlete-connect-backend/internal/search"
	"athlete-connect-backend/internal/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	users         *repository.UserRepository
	conversations *ConversationService
	opts          SessionOptions
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := repository.NewUserRepository()
	conversationRepo := repository.NewConversationRepository()
	suggested, err := seed.Load(users, conversationRepo, testNow)
	require.NoError(t, err)

	return &testEnv{
		users:         users,
		conversations: NewConversationService(conversationRepo, users),
		opts: SessionOptions{
			AutoRegister: true,
			Suggestions:  search.NewStaticSuggestions(users, suggested),
			Clock:        func() time.Time { return testNow },
		},
	}
}

func (e *testEnv) session() *Session {
	return NewSession("s1", e.users, e.conversations, e.opts)
}

func TestSession_Login(t *testing.T) {
	t.Run("should authenticate as an existing user", func(t *testing.T) {
		req := require.New(t)
		env := newTestEnv(t)
		s := env.session()
		req.Equal(StateAnonymous, s.State())

		user, err := s.Login("john@example.com", "anything")

		req.NoError(err)
		req.Equal(seed.AthleteID, user.ID)
		req.True(s.IsAuthenticated())
		req.Equal(StateAuthenticated, s.State())
		current, ok := s.CurrentUser()
		req.True(ok)
		req.Equal(seed.AthleteID, current.ID)
		req.Equal(2, env.users.Count())
	})

	t.Run("should register exactly one user for an unknown email", func(t *testing.T) {
		req := require.New(t)
		env := newTestEnv(t)
		s := env.session()

		user, err := s.Login("new@x.com", "pw")

		req.NoError(err)
		req.Equal(3, env.users.Count())
		req.Equal("new@x.com", user.Email)
		req.Equal(PlaceholderName, user.Name)
		req.Empty(user.Teams)
		req.Empty(user.Videos)
		current, ok := s.CurrentUser()
		req.True(ok)
		req.Equal("new@x.com", current.Email)

		again := env.session()
		_, err = again.Login("new@x.com", "pw")
		req.NoError(err)
		req.Equal(3, env.users.Count())
	})

	t.Run("should fail for an unknown email when auto-registration is off", func(t *testing.T) {
		req := require.New(t)
		env := newTestEnv(t)
		env.opts.AutoRegister = false
		s := env.session()

		_, err := s.Login("new@x.com", "pw")

		req.ErrorIs(err, models.ErrInvalidCredentials)
		req.False(s.IsAuthenticated())
		req.Equal(2, env.users.Count())
	})

	t.Run("should reject an empty email", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.session().Login("", "pw")

		require.ErrorIs(t, err, models.ErrValidationFailed)
		require.Equal(t, 2, env.users.Count())
	})
}

func TestSession_Logout(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	s := env.session()
	_, err := s.Login("john@example.com", "pw")
	req.NoError(err)

	s.Logout()

	req.False(s.IsAuthenticated())
	req.Equal(StateAnonymous, s.State())
	_, ok := s.CurrentUser()
	req.False(ok)
	req.Equal(2, env.users.Count())
	req.Len(env.conversations.List("", ""), 1)
}

func TestSession_Register(t *testing.T) {
	tests := []struct {
		name    string
		form    RegisterRequest
		reason  string
		wantErr error
	}{
		{
			name: "valid form",
			form: RegisterRequest{Name: "Maria", Email: "maria@example.com", Password: "secret1", ConfirmPassword: "secret1"},
		},
		{
			name:    "missing name",
			form:    RegisterRequest{Email: "maria@example.com", Password: "secret1", ConfirmPassword: "secret1"},
			reason:  "name is required",
			wantErr: models.ErrValidationFailed,
		},
		{
			name:    "email without at sign",
			form:    RegisterRequest{Name: "Maria", Email: "maria.example.com", Password: "secret1", ConfirmPassword: "secret1"},
			reason:  "invalid email address",
			wantErr: models.ErrValidationFailed,
		},
		{
			name:    "weak password",
			form:    RegisterRequest{Name: "Maria", Email: "maria@example.com", Password: "12345", ConfirmPassword: "12345"},
			reason:  "password must be at least 6 characters",
			wantErr: models.ErrValidationFailed,
		},
		{
			name:    "mismatched confirmation",
			form:    RegisterRequest{Name: "Maria", Email: "maria@example.com", Password: "secret1", ConfirmPassword: "secret2"},
			reason:  "passwords do not match",
			wantErr: models.ErrValidationFailed,
		},
		{
			name:    "email already registered",
			form:    RegisterRequest{Name: "John", Email: "john@example.com", Password: "secret1", ConfirmPassword: "secret1"},
			wantErr: models.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			env := newTestEnv(t)
			s := env.session()

			user, err := s.Register(tt.form.Name, tt.form.Email, tt.form.Password, tt.form.ConfirmPassword)

			if tt.wantErr != nil {
				req.ErrorIs(err, tt.wantErr)
				req.Contains(err.Error(), tt.reason)
				req.Equal(2, env.users.Count())
				return
			}
			req.NoError(err)
			req.Equal(tt.form.Name, user.Name)
			req.Equal(3, env.users.Count())
			req.False(s.IsAuthenticated(), "register must not log in")
		})
	}
}

func TestSession_UpdateProfile(t *testing.T) {
	t.Run("should round-trip the full record and refresh the current user", func(t *testing.T) {
		req := require.New(t)
		env := newTestEnv(t)
		s := env.session()
		_, err := s.Login("john@example.com", "pw")
		req.NoError(err)

		updated := models.User{
			ID:             seed.AthleteID,
			Name:           "John A. Smith",
			Email:          "john@example.com",
			BackgroundInfo: "Shooting guard",
			Teams:          []string{"Lincoln High School", "AAU Elite"},
			Videos:         []models.Video{},
		}
		req.NoError(s.UpdateProfile(updated))

		stored, err := env.users.FindByID(seed.AthleteID)
		req.NoError(err)
		req.Equal(updated, *stored)

		current, ok := s.CurrentUser()
		req.True(ok)
		req.Equal("John A. Smith", current.Name)
	})

	t.Run("should report an unknown user and leave the directory unchanged", func(t *testing.T) {
		req := require.New(t)
		env := newTestEnv(t)
		before := env.users.List()

		err := env.session().UpdateProfile(models.User{ID: "ghost", Email: "ghost@example.com"})

		req.ErrorIs(err, models.ErrNotFound)
		req.Equal(before, env.users.List())
	})

	t.Run("should be visible in conversation views", func(t *testing.T) {
		req := require.New(t)
		env := newTestEnv(t)
		s := env.session()
		_, err := s.Login("john@example.com", "pw")
		req.NoError(err)

		coach, err := env.users.FindByID(seed.CoachID)
		req.NoError(err)
		coach.Name = "Head Coach Johnson"
		req.NoError(s.UpdateProfile(*coach))

		views, err := s.ListConversations("head coach")
		req.NoError(err)
		req.Len(views, 1)
		req.Equal("Head Coach Johnson", views[0].Participants[1].Name)
	})
}

func TestSession_SendMessage(t *testing.T) {
	t.Run("should append one message from the current user", func(t *testing.T) {
		req := require.New(t)
		env := newTestEnv(t)
		s := env.session()
		_, err := s.Login("coach@example.com", "pw")
		req.NoError(err)

		message, err := s.SendMessage(seed.ConversationID, "hello")

		req.NoError(err)
		req.Equal(seed.CoachID, message.SenderID)
		req.Equal("hello", message.Content)
		req.Equal(testNow, message.Timestamp)

		view, err := env.conversations.Get(seed.ConversationID)
		req.NoError(err)
		req.Len(view.Messages, 3)
		req.Equal(message.ID, view.Messages[2].ID)
		req.Equal("hello", view.LastMessage.Content)
	})

	t.Run("should require an authenticated user", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.session().SendMessage(seed.ConversationID, "hello")

		require.ErrorIs(t, err, models.ErrUnauthenticated)
	})

	t.Run("should reject an unknown conversation", func(t *testing.T) {
		env := newTestEnv(t)
		s := env.session()
		_, err := s.Login("john@example.com", "pw")
		require.NoError(t, err)

		_, err = s.SendMessage("missing", "hello")

		require.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("should reject blank content", func(t *testing.T) {
		env := newTestEnv(t)
		s := env.session()
		_, err := s.Login("john@example.com", "pw")
		require.NoError(t, err)

		_, err = s.SendMessage(seed.ConversationID, "   ")

		require.ErrorIs(t, err, models.ErrValidationFailed)
	})

	t.Run("should not require participation", func(t *testing.T) {
		env := newTestEnv(t)
		s := env.session()
		_, err := s.Login("outsider@example.com", "pw")
		require.NoError(t, err)

		_, err = s.SendMessage(seed.ConversationID, "hello")

		require.NoError(t, err)
	})
}

func TestSession_UploadVideo(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	s := env.session()

	_, err := s.UploadVideo(models.Video{Title: "Game winner"})
	req.ErrorIs(err, models.ErrUnauthenticated)

	_, err = s.Login("coach@example.com", "pw")
	req.NoError(err)

	_, err = s.UploadVideo(models.Video{Title: " "})
	req.ErrorIs(err, models.ErrValidationFailed)

	video, err := s.UploadVideo(models.Video{Title: "Practice drills", URL: "https://example.com/drills.mp4"})
	req.NoError(err)
	req.NotEmpty(video.ID)
	req.Equal(testNow, video.UploadDate)

	coach, err := env.users.FindByID(seed.CoachID)
	req.NoError(err)
	req.Len(coach.Videos, 1)
	req.Equal(video.ID, coach.Videos[0].ID)
}

func TestSession_Search(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	s := env.session()
	other := env.session()

	results := s.Search("coach")

	req.Len(results, 1)
	req.Equal(seed.CoachID, results[0].ID)
	req.Equal([]string{"coach"}, s.SearchHistory())
	req.Empty(other.SearchHistory(), "history is per session")

	req.Len(s.SuggestedUsers(), 1)

	s.ClearSearchHistory()
	req.Empty(s.SearchHistory())
}

func TestSession_Events(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	s := env.session()

	var got []EventType
	unsubscribe := s.Subscribe(func(e Event) {
		req.Equal("s1", e.SessionID)
		got = append(got, e.Type)
	})

	_, err := s.Login("john@example.com", "pw")
	req.NoError(err)
	_, err = s.SendMessage(seed.ConversationID, "hello")
	req.NoError(err)
	current, _ := s.CurrentUser()
	req.NoError(s.UpdateProfile(*current))
	_, err = s.UploadVideo(models.Video{Title: "Highlights"})
	req.NoError(err)
	s.Logout()

	unsubscribe()
	_, err = s.Login("john@example.com", "pw")
	req.NoError(err)

	assert.Equal(t, []EventType{
		EventLogin,
		EventMessageSent,
		EventProfileUpdated,
		EventVideoUploaded,
		EventLogout,
	}, got)
}

func TestSession_Conversation(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	s := env.session()

	_, err := s.Conversation(seed.ConversationID)
	req.ErrorIs(err, models.ErrUnauthenticated)

	_, err = s.Login("john@example.com", "pw")
	req.NoError(err)
	view, err := s.Conversation(seed.ConversationID)
	req.NoError(err)
	req.Equal(seed.ConversationID, view.ID)

	_, err = s.Login("maria@example.com", "pw")
	req.NoError(err)
	_, err = s.Conversation(seed.ConversationID)
	req.ErrorIs(err, models.ErrNotFound)
}
