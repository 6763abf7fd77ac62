package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ctfe/ctfe/internal/dependencies/mocks"
	"github.com/ctfe/ctfe/internal/dependencies/random"
	"github.com/ctfe/ctfe/internal/model"
	"github.com/ctfe/ctfe/internal/session"
	"github.com/ctfe/ctfe/internal/storage/memory"
	"github.com/ctfe/ctfe/internal/testutil"
	"github.com/ctfe/ctfe/internal/token"
)

type ServiceSuite struct {
	suite.Suite
	storage  *memory.Storage
	sessions *session.MemoryStore
	clock    *mocks.MockClock
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.sessions = session.NewMemoryStore(s.clock)
	codec := token.New([]byte("test-secret"), token.DefaultTTL, s.clock)
	s.service = New(s.storage, s.sessions, codec, s.clock, random.New(), DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	user, tok, err := s.service.Register(s.ctx, "alice", "secret1")
	s.Require().NoError(err)

	s.NotEmpty(tok)
	s.Equal("alice", user.Username)
	s.Equal(model.RolePlayer, user.Role)
	s.Nil(user.TeamID)
}

func (s *ServiceSuite) TestRegisterPersistsUser() {
	_, _, _ = s.service.Register(s.ctx, "alice", "secret1")

	user, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.NotEmpty(user.PasswordHash)
	s.NotEqual("secret1", user.PasswordHash) // Should be hashed
}

func (s *ServiceSuite) TestRegisterTokenResolvesImmediately() {
	registered, tok, _ := s.service.Register(s.ctx, "alice", "secret1")

	current, err := s.service.CurrentUser(s.ctx, tok)
	s.Require().NoError(err)
	s.Equal(registered.ID, current.ID)
}

func (s *ServiceSuite) TestRegisterFailsIfUsernameTaken() {
	_, _, _ = s.service.Register(s.ctx, "alice", "secret1")

	_, _, err := s.service.Register(s.ctx, "alice", "different")
	s.ErrorIs(err, model.ErrUsernameTaken)
}

func (s *ServiceSuite) TestConcurrentRegistrationOfSameUsername() {
	const attempts = 4

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = s.service.Register(s.ctx, "alice", "secret1")
		}(i)
	}
	wg.Wait()

	var succeeded, taken int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, model.ErrUsernameTaken):
			taken++
		default:
			s.Require().NoError(err)
		}
	}
	s.Equal(1, succeeded)
	s.Equal(attempts-1, taken)

	// Exactly one record made it into storage
	users, err := s.storage.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 1)
}

func (s *ServiceSuite) TestRegisterFailsWithEmptyPassword() {
	_, _, err := s.service.Register(s.ctx, "alice", "")
	s.ErrorIs(err, model.ErrInvalidArgument)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	_, _, _ = s.service.Register(s.ctx, "alice", "secret1")

	user, tok, err := s.service.Login(s.ctx, "alice", "secret1")
	s.Require().NoError(err)
	s.NotEmpty(tok)
	s.Equal("alice", user.Username)
}

func (s *ServiceSuite) TestLoginFailsWithWrongPassword() {
	_, _, _ = s.service.Register(s.ctx, "alice", "secret1")

	_, _, err := s.service.Login(s.ctx, "alice", "secret2")
	s.ErrorIs(err, model.ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginFailsWithUnknownUser() {
	_, _, err := s.service.Login(s.ctx, "nobody", "secret1")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *ServiceSuite) TestSecondLoginKeepsBothTokensLive() {
	// Sessions are keyed by user ID, so a second login overwrites the
	// first entry; both tokens still decode to the same subject and
	// resolve against the live session.
	_, tok1, _ := s.service.Register(s.ctx, "alice", "secret1")

	s.clock.Advance(time.Minute)
	_, tok2, err := s.service.Login(s.ctx, "alice", "secret1")
	s.Require().NoError(err)

	_, err = s.service.CurrentUser(s.ctx, tok1)
	s.NoError(err)
	_, err = s.service.CurrentUser(s.ctx, tok2)
	s.NoError(err)
}

// CurrentUser tests

func (s *ServiceSuite) TestCurrentUserSucceeds() {
	registered, tok, _ := s.service.Register(s.ctx, "alice", "secret1")

	current, err := s.service.CurrentUser(s.ctx, tok)
	s.Require().NoError(err)
	s.Equal(registered.ID, current.ID)
	s.Equal("alice", current.Username)
	s.Equal(model.RolePlayer, current.Role)
}

func (s *ServiceSuite) TestCurrentUserFailsWithEmptyToken() {
	_, err := s.service.CurrentUser(s.ctx, "")
	s.ErrorIs(err, model.ErrNotAuthenticated)
}

func (s *ServiceSuite) TestCurrentUserFailsWithGarbageToken() {
	_, err := s.service.CurrentUser(s.ctx, "not.a.token")
	s.ErrorIs(err, model.ErrTokenMalformed)
}

func (s *ServiceSuite) TestCurrentUserFailsAfterTokenExpiry() {
	_, tok, _ := s.service.Register(s.ctx, "alice", "secret1")

	s.clock.Advance(token.DefaultTTL + time.Second)

	_, err := s.service.CurrentUser(s.ctx, tok)
	s.ErrorIs(err, model.ErrTokenExpired)
}

func (s *ServiceSuite) TestCurrentUserFailsAfterSessionExpiry() {
	// Long-lived token, short-lived session: the session entry lapses
	// while the token itself is still structurally valid
	codec := token.New([]byte("test-secret"), 24*time.Hour, s.clock)
	service := New(s.storage, s.sessions, codec, s.clock, random.New(), Config{SessionTTL: time.Hour}, testutil.NopLogger())

	_, tok, _ := service.Register(s.ctx, "alice", "secret1")

	s.clock.Advance(2 * time.Hour)

	_, err := service.CurrentUser(s.ctx, tok)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Logout tests

func (s *ServiceSuite) TestLogoutInvalidatesSession() {
	_, tok, _ := s.service.Register(s.ctx, "alice", "secret1")

	err := s.service.Logout(s.ctx, tok)
	s.Require().NoError(err)

	_, err = s.service.CurrentUser(s.ctx, tok)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ServiceSuite) TestLogoutFailsWithEmptyToken() {
	err := s.service.Logout(s.ctx, "")
	s.ErrorIs(err, model.ErrNotAuthenticated)
}

func (s *ServiceSuite) TestStatelessLookupSurvivesLogout() {
	registered, tok, _ := s.service.Register(s.ctx, "alice", "secret1")
	_ = s.service.Logout(s.ctx, tok)

	user, err := s.service.CurrentUserStateless(s.ctx, tok)
	s.Require().NoError(err)
	s.Equal(registered.ID, user.ID)
}

// InvalidateSession tests

func (s *ServiceSuite) TestInvalidateSessionDropsEntry() {
	registered, tok, _ := s.service.Register(s.ctx, "alice", "secret1")

	err := s.service.InvalidateSession(s.ctx, registered.ID)
	s.Require().NoError(err)

	_, err = s.service.CurrentUser(s.ctx, tok)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// RequireRole tests

func (s *ServiceSuite) TestRequireRoleExactMatch() {
	user := &model.User{ID: "u_1", Role: model.RolePlayer}
	s.NoError(s.service.RequireRole(user, model.RolePlayer))
}

func (s *ServiceSuite) TestRequireRoleAdminPassesEveryGate() {
	admin := &model.User{ID: "u_1", Role: model.RoleAdmin}
	s.NoError(s.service.RequireRole(admin, model.RolePlayer))
	s.NoError(s.service.RequireRole(admin, model.RoleContributor))
	s.NoError(s.service.RequireRole(admin, model.RoleAdmin))
}

func (s *ServiceSuite) TestRequireRoleRejectsMismatch() {
	player := &model.User{ID: "u_1", Role: model.RolePlayer}
	s.ErrorIs(s.service.RequireRole(player, model.RoleAdmin), model.ErrForbidden)
	s.ErrorIs(s.service.RequireRole(player, model.RoleContributor), model.ErrForbidden)
}
