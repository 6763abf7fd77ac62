package challenge

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/ctfe/ctfe/internal/dependencies/clock"
	"github.com/ctfe/ctfe/internal/dependencies/random"
	"github.com/ctfe/ctfe/internal/model"
	"github.com/ctfe/ctfe/internal/storage"
)

// Service handles challenge publishing and flag attempt grading
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new challenge Service
func New(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		random:  rnd,
		logger:  logger,
	}
}

// Create publishes a new challenge owned by the given contributor
func (s *Service) Create(ctx context.Context, ownerID model.UserID, name, description, flag string) (*model.Challenge, error) {
	_, err := s.storage.GetChallengeByName(ctx, name)
	if err == nil {
		return nil, model.ErrChallengeNameTaken
	}
	if !errors.Is(err, model.ErrChallengeNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	challenge := &model.Challenge{
		ID:          model.ChallengeID(s.generateID("c_")),
		Name:        name,
		Description: description,
		Flag:        flag,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.SaveChallenge(ctx, challenge); err != nil {
		return nil, err
	}

	s.logger.Info("challenge published",
		slog.String("challenge_id", string(challenge.ID)),
		slog.String("owner_id", string(ownerID)),
	)
	return challenge, nil
}

// Get retrieves a challenge by ID
func (s *Service) Get(ctx context.Context, id model.ChallengeID) (*model.Challenge, error) {
	return s.storage.GetChallenge(ctx, id)
}

// List retrieves all published challenges
func (s *Service) List(ctx context.Context) ([]*model.Challenge, error) {
	return s.storage.ListChallenges(ctx)
}

// Delete removes a challenge. Only the owner or an admin may delete.
func (s *Service) Delete(ctx context.Context, actor *model.User, id model.ChallengeID) error {
	challenge, err := s.storage.GetChallenge(ctx, id)
	if err != nil {
		return err
	}
	if challenge.OwnerID != actor.ID && actor.Role != model.RoleAdmin {
		return model.ErrForbidden
	}
	return s.storage.DeleteChallenge(ctx, id)
}

// SubmitAttempt records a flag submission for the player's team and
// grades it against the stored secret
func (s *Service) SubmitAttempt(ctx context.Context, playerID model.UserID, challengeID model.ChallengeID, value string) (*model.Attempt, error) {
	player, err := s.storage.GetUser(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if !player.OnTeam() {
		return nil, model.ErrNotOnTeam
	}

	challenge, err := s.storage.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	attempt := &model.Attempt{
		ID:          model.AttemptID(s.generateID("a_")),
		ChallengeID: challenge.ID,
		TeamID:      *player.TeamID,
		UserID:      player.ID,
		Value:       value,
		Correct:     subtle.ConstantTimeCompare([]byte(value), []byte(challenge.Flag)) == 1,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.storage.SaveAttempt(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// ListAttemptsForTeam retrieves a team's submission history
func (s *Service) ListAttemptsForTeam(ctx context.Context, teamID model.TeamID) ([]*model.Attempt, error) {
	return s.storage.ListAttemptsForTeam(ctx, teamID)
}

// idAlphabet is the character set for generated IDs
const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// generateID generates a random ID with a prefix
func (s *Service) generateID(prefix string) string {
	return prefix + s.random.String(16, idAlphabet)
}
