package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/ctfe/ctfe/internal/dependencies/clock"
	"github.com/ctfe/ctfe/internal/dependencies/random"
	"github.com/ctfe/ctfe/internal/model"
	"github.com/ctfe/ctfe/internal/services/auth"
	"github.com/ctfe/ctfe/internal/services/challenge"
	"github.com/ctfe/ctfe/internal/services/team"
	"github.com/ctfe/ctfe/internal/services/user"
	"github.com/ctfe/ctfe/internal/session"
	"github.com/ctfe/ctfe/internal/storage"
	"github.com/ctfe/ctfe/internal/storage/memory"
	redisstorage "github.com/ctfe/ctfe/internal/storage/redis"
	"github.com/ctfe/ctfe/internal/token"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage  storage.Storage
	Sessions session.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService      *auth.Service
	TeamController   *team.Controller
	ChallengeService *challenge.Service
	UserService      *user.Service
}

// Config holds configuration for the application factory
type Config struct {
	// TokenSecret signs session tokens (required)
	TokenSecret []byte
	// TokenTTL is how long a signed token stays valid (optional)
	// If zero, defaults to token.DefaultTTL
	TokenTTL time.Duration
	// SessionTTL is how long a server-side session stays live (optional)
	// If zero, defaults to session.DefaultTTL
	SessionTTL time.Duration
	// MaxTeamMembers caps team size (optional)
	// If zero, defaults to model.DefaultMaxTeamMembers
	MaxTeamMembers int
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	if len(cfg.TokenSecret) == 0 {
		return nil, errors.New("TokenSecret is required")
	}

	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()
	rnd := random.New()

	// Create storage based on type. The session cache shares the Redis
	// connection pool with the storage layer.
	var store storage.Storage
	var sessions session.Store

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
		sessions = session.NewMemoryStore(clk)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		sessions = session.NewRedisStore(redisStore.Client())
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	tokenTTL := cfg.TokenTTL
	if tokenTTL == 0 {
		tokenTTL = token.DefaultTTL
	}
	codec := token.New(cfg.TokenSecret, tokenTTL, clk)

	authCfg := auth.DefaultConfig()
	if cfg.SessionTTL != 0 {
		authCfg.SessionTTL = cfg.SessionTTL
	}

	maxMembers := cfg.MaxTeamMembers
	if maxMembers == 0 {
		maxMembers = model.DefaultMaxTeamMembers
	}

	return newWithDependencies(store, sessions, codec, clk, rnd, authCfg, maxMembers, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	sessions session.Store,
	codec *token.Codec,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	maxMembers int,
	logger *slog.Logger,
) *App {
	authService := auth.New(store, sessions, codec, clk, rnd, authCfg, logger)
	teamController := team.NewController(store, clk, rnd, maxMembers, logger)
	challengeService := challenge.New(store, clk, rnd, logger)
	userService := user.New(store, teamController, authService, clk, logger)

	return &App{
		Storage:          store,
		Sessions:         sessions,
		Clock:            clk,
		Random:           rnd,
		AuthService:      authService,
		TeamController:   teamController,
		ChallengeService: challengeService,
		UserService:      userService,
	}
}
