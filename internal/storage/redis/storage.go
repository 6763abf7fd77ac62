package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ctfe/ctfe/internal/model"
	"github.com/ctfe/ctfe/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrBackendUnavailable, err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Client exposes the underlying connection so other components (the
// session cache) can share the pool.
func (s *Storage) Client() *redis.Client {
	return s.client
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// backendErr tags infrastructure failures so callers can tell "store
// down" apart from "record absent"
func backendErr(err error) error {
	return fmt.Errorf("%w: %v", model.ErrBackendUnavailable, err)
}

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// A user's username never changes after registration, so the index
	// write is idempotent
	pipe := s.client.Pipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	pipe.Set(ctx, usernameIndexKey(user.Username), string(user.ID), 0)
	pipe.SAdd(ctx, usersIndexKey(), string(user.ID))
	if _, err := pipe.Exec(ctx); err != nil {
		return backendErr(err)
	}
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, backendErr(err)
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	idStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, backendErr(err)
	}

	return s.GetUser(ctx, model.UserID(idStr))
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	ids, err := s.client.SMembers(ctx, usersIndexKey()).Result()
	if err != nil {
		return nil, backendErr(err)
	}
	if len(ids) == 0 {
		return []*model.User{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userKey(model.UserID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, backendErr(err)
	}

	users := make([]*model.User, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var user model.User
		if err := json.Unmarshal([]byte(val.(string)), &user); err != nil {
			continue // Skip invalid data
		}
		users = append(users, &user)
	}
	return users, nil
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, userKey(id))
	pipe.Del(ctx, usernameIndexKey(user.Username))
	pipe.SRem(ctx, usersIndexKey(), string(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return backendErr(err)
	}
	return nil
}

// Team operations

func (s *Storage) SaveTeam(ctx context.Context, team *model.Team) error {
	data, err := json.Marshal(team)
	if err != nil {
		return err
	}

	// Diff the invite set against the stored copy to keep the
	// per-user invite index in sync
	var oldInvites []model.UserID
	if old, err := s.GetTeam(ctx, team.ID); err == nil {
		oldInvites = old.Invites
	} else if !errors.Is(err, model.ErrTeamNotFound) {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, teamKey(team.ID), data, 0)
	pipe.Set(ctx, teamNameIndexKey(team.Name), string(team.ID), 0)
	for _, uid := range team.Invites {
		pipe.SAdd(ctx, invitesForUserIndexKey(uid), string(team.ID))
	}
	for _, uid := range oldInvites {
		if !team.HasInvite(uid) {
			pipe.SRem(ctx, invitesForUserIndexKey(uid), string(team.ID))
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return backendErr(err)
	}
	return nil
}

func (s *Storage) GetTeam(ctx context.Context, id model.TeamID) (*model.Team, error) {
	data, err := s.client.Get(ctx, teamKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrTeamNotFound
		}
		return nil, backendErr(err)
	}

	var team model.Team
	if err := json.Unmarshal(data, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *Storage) GetTeamByName(ctx context.Context, name string) (*model.Team, error) {
	idStr, err := s.client.Get(ctx, teamNameIndexKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrTeamNotFound
		}
		return nil, backendErr(err)
	}

	return s.GetTeam(ctx, model.TeamID(idStr))
}

func (s *Storage) ListTeamsInviting(ctx context.Context, userID model.UserID) ([]*model.Team, error) {
	ids, err := s.client.SMembers(ctx, invitesForUserIndexKey(userID)).Result()
	if err != nil {
		return nil, backendErr(err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = teamKey(model.TeamID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, backendErr(err)
	}

	teams := make([]*model.Team, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Team may have dissolved
		}
		var team model.Team
		if err := json.Unmarshal([]byte(val.(string)), &team); err != nil {
			continue
		}
		teams = append(teams, &team)
	}
	return teams, nil
}

func (s *Storage) DeleteTeam(ctx context.Context, id model.TeamID) error {
	team, err := s.GetTeam(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrTeamNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, teamKey(id))
	pipe.Del(ctx, teamNameIndexKey(team.Name))
	for _, uid := range team.Invites {
		pipe.SRem(ctx, invitesForUserIndexKey(uid), string(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return backendErr(err)
	}
	return nil
}

// Challenge operations

func (s *Storage) SaveChallenge(ctx context.Context, challenge *model.Challenge) error {
	data, err := json.Marshal(challenge)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, challengeKey(challenge.ID), data, 0)
	pipe.Set(ctx, challengeNameIndexKey(challenge.Name), string(challenge.ID), 0)
	pipe.SAdd(ctx, challengesIndexKey(), string(challenge.ID))
	if _, err := pipe.Exec(ctx); err != nil {
		return backendErr(err)
	}
	return nil
}

func (s *Storage) GetChallenge(ctx context.Context, id model.ChallengeID) (*model.Challenge, error) {
	data, err := s.client.Get(ctx, challengeKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrChallengeNotFound
		}
		return nil, backendErr(err)
	}

	var challenge model.Challenge
	if err := json.Unmarshal(data, &challenge); err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (s *Storage) GetChallengeByName(ctx context.Context, name string) (*model.Challenge, error) {
	idStr, err := s.client.Get(ctx, challengeNameIndexKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrChallengeNotFound
		}
		return nil, backendErr(err)
	}

	return s.GetChallenge(ctx, model.ChallengeID(idStr))
}

func (s *Storage) ListChallenges(ctx context.Context) ([]*model.Challenge, error) {
	ids, err := s.client.SMembers(ctx, challengesIndexKey()).Result()
	if err != nil {
		return nil, backendErr(err)
	}
	if len(ids) == 0 {
		return []*model.Challenge{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = challengeKey(model.ChallengeID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, backendErr(err)
	}

	challenges := make([]*model.Challenge, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var challenge model.Challenge
		if err := json.Unmarshal([]byte(val.(string)), &challenge); err != nil {
			continue
		}
		challenges = append(challenges, &challenge)
	}
	return challenges, nil
}

func (s *Storage) DeleteChallenge(ctx context.Context, id model.ChallengeID) error {
	challenge, err := s.GetChallenge(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrChallengeNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, challengeKey(id))
	pipe.Del(ctx, challengeNameIndexKey(challenge.Name))
	pipe.SRem(ctx, challengesIndexKey(), string(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return backendErr(err)
	}
	return nil
}

// Attempt operations

func (s *Storage) SaveAttempt(ctx context.Context, attempt *model.Attempt) error {
	data, err := json.Marshal(attempt)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, attemptKey(attempt.ID), data, 0)
	pipe.SAdd(ctx, attemptsForTeamIndexKey(attempt.TeamID), string(attempt.ID))
	if _, err := pipe.Exec(ctx); err != nil {
		return backendErr(err)
	}
	return nil
}

func (s *Storage) GetAttempt(ctx context.Context, id model.AttemptID) (*model.Attempt, error) {
	data, err := s.client.Get(ctx, attemptKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAttemptNotFound
		}
		return nil, backendErr(err)
	}

	var attempt model.Attempt
	if err := json.Unmarshal(data, &attempt); err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (s *Storage) ListAttemptsForTeam(ctx context.Context, teamID model.TeamID) ([]*model.Attempt, error) {
	ids, err := s.client.SMembers(ctx, attemptsForTeamIndexKey(teamID)).Result()
	if err != nil {
		return nil, backendErr(err)
	}
	if len(ids) == 0 {
		return []*model.Attempt{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = attemptKey(model.AttemptID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, backendErr(err)
	}

	attempts := make([]*model.Attempt, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var attempt model.Attempt
		if err := json.Unmarshal([]byte(val.(string)), &attempt); err != nil {
			continue
		}
		attempts = append(attempts, &attempt)
	}
	return attempts, nil
}
