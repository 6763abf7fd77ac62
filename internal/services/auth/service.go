package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ctfe/ctfe/internal/dependencies/clock"
	"github.com/ctfe/ctfe/internal/dependencies/random"
	"github.com/ctfe/ctfe/internal/model"
	"github.com/ctfe/ctfe/internal/password"
	"github.com/ctfe/ctfe/internal/session"
	"github.com/ctfe/ctfe/internal/storage"
	"github.com/ctfe/ctfe/internal/token"
)

// Identity is the session payload: a serialized snapshot of who the
// user was at login time, keyed in the cache by user ID.
type Identity struct {
	ID       model.UserID  `json:"id"`
	Username string        `json:"username"`
	Role     model.Role    `json:"role"`
	TeamID   *model.TeamID `json:"team_id,omitempty"`
}

// Service orchestrates authentication: credentials against the user
// store, a signed token for the client, and a server-side session entry
// that makes logout real (the token alone cannot be revoked).
type Service struct {
	storage  storage.Storage
	sessions session.Store
	codec    *token.Codec
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger

	sessionTTL time.Duration

	usernameLocks keyedLocks
}

// keyedLocks serializes operations per key
type keyedLocks struct {
	locks sync.Map
}

// lock acquires the mutex for key and returns its unlock func
func (k *keyedLocks) lock(key string) func() {
	v, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Config holds configuration for the auth service
type Config struct {
	SessionTTL time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionTTL: session.DefaultTTL,
	}
}

// New creates a new auth Service
func New(store storage.Storage, sessions session.Store, codec *token.Codec, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = DefaultConfig().SessionTTL
	}
	return &Service{
		storage:    store,
		sessions:   sessions,
		codec:      codec,
		clock:      clk,
		random:     rnd,
		logger:     logger,
		sessionTTL: cfg.SessionTTL,
	}
}

// Register creates a new player account, establishes a session, and
// returns a fresh token
func (s *Service) Register(ctx context.Context, username, pass string) (*model.User, string, error) {
	// The username lock makes the uniqueness check and the insert atomic
	// against a concurrent registration of the same name
	unlock := s.usernameLocks.lock(username)
	defer unlock()

	_, err := s.storage.GetUserByUsername(ctx, username)
	if err == nil {
		return nil, "", model.ErrUsernameTaken
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := password.Hash(pass)
	if err != nil {
		return nil, "", err
	}

	now := s.clock.Now()
	user := &model.User{
		ID:           model.UserID(s.generateID("u_")),
		Username:     username,
		PasswordHash: hash,
		Role:         model.RolePlayer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, "", err
	}

	tok, err := s.establishSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered", slog.String("user_id", string(user.ID)))
	return user, tok, nil
}

// Login authenticates stored credentials and establishes a session,
// overwriting any prior session for the same user
func (s *Service) Login(ctx context.Context, username, pass string) (*model.User, string, error) {
	user, err := s.storage.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}

	if !password.Verify(pass, user.PasswordHash) {
		return nil, "", model.ErrInvalidCredentials
	}

	tok, err := s.establishSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	return user, tok, nil
}

// CurrentUser resolves a token into an authenticated identity via the
// session cache. A structurally valid token whose session entry is gone
// (logout, TTL, or overwrite) fails with model.ErrSessionNotFound.
func (s *Service) CurrentUser(ctx context.Context, tokenString string) (*model.User, error) {
	if tokenString == "" {
		return nil, model.ErrNotAuthenticated
	}

	userID, err := s.codec.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	payload, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	var ident Identity
	if err := json.Unmarshal(payload, &ident); err != nil {
		return nil, model.ErrSessionNotFound
	}

	return &model.User{
		ID:       ident.ID,
		Username: ident.Username,
		Role:     ident.Role,
		TeamID:   ident.TeamID,
	}, nil
}

// CurrentUserStateless resolves a token directly against the user
// store, bypassing the session cache. Logout has no effect on this
// variant until the token's own expiry, so callers trade revocation
// for one less cache dependency.
func (s *Service) CurrentUserStateless(ctx context.Context, tokenString string) (*model.User, error) {
	if tokenString == "" {
		return nil, model.ErrNotAuthenticated
	}

	userID, err := s.codec.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	return s.storage.GetUser(ctx, userID)
}

// Logout removes the session entry for the token's subject. The token
// itself stays structurally valid until natural expiry but will no
// longer resolve via CurrentUser.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return model.ErrNotAuthenticated
	}

	userID, err := s.codec.Decode(tokenString)
	if err != nil {
		return err
	}

	return s.sessions.Delete(ctx, userID)
}

// InvalidateSession drops a user's session entry without a token.
// Used when an admin changes a user's role or deletes the account.
func (s *Service) InvalidateSession(ctx context.Context, id model.UserID) error {
	return s.sessions.Delete(ctx, id)
}

// RequireRole gates an operation on the user's role. Admins pass every
// gate.
func (s *Service) RequireRole(user *model.User, role model.Role) error {
	switch user.Role {
	case model.RoleAdmin:
		return nil
	case role:
		return nil
	default:
		return model.ErrForbidden
	}
}

// establishSession stores the identity snapshot and mints the token
func (s *Service) establishSession(ctx context.Context, user *model.User) (string, error) {
	ident := Identity{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		TeamID:   user.TeamID,
	}

	payload, err := json.Marshal(ident)
	if err != nil {
		return "", err
	}

	if err := s.sessions.Put(ctx, user.ID, payload, s.sessionTTL); err != nil {
		return "", err
	}

	return s.codec.Encode(user.ID)
}

// idAlphabet is the character set for generated IDs
const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// generateID generates a random ID with a prefix
func (s *Service) generateID(prefix string) string {
	return prefix + s.random.String(16, idAlphabet)
}
