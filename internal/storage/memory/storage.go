package memory

import (
	"context"
	"sync"

	"github.com/ctfe/ctfe/internal/model"
	"github.com/ctfe/ctfe/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users              map[model.UserID]*model.User
	usernameIndex      map[string]model.UserID
	teams              map[model.TeamID]*model.Team
	teamNameIndex      map[string]model.TeamID
	challenges         map[model.ChallengeID]*model.Challenge
	challengeNameIndex map[string]model.ChallengeID
	attempts           map[model.AttemptID]*model.Attempt
	attemptsByTeam     map[model.TeamID][]model.AttemptID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:              make(map[model.UserID]*model.User),
		usernameIndex:      make(map[string]model.UserID),
		teams:              make(map[model.TeamID]*model.Team),
		teamNameIndex:      make(map[string]model.TeamID),
		challenges:         make(map[model.ChallengeID]*model.Challenge),
		challengeNameIndex: make(map[string]model.ChallengeID),
		attempts:           make(map[model.AttemptID]*model.Attempt),
		attemptsByTeam:     make(map[model.TeamID][]model.AttemptID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.users[user.ID]; ok && existing.Username != user.Username {
		delete(s.usernameIndex, existing.Username)
	}
	s.users[user.ID] = user
	s.usernameIndex[user.Username] = user.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	return users, nil
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[id]; ok {
		delete(s.usernameIndex, user.Username)
	}
	delete(s.users, id)
	return nil
}

// Team operations

func (s *Storage) SaveTeam(ctx context.Context, team *model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.teams[team.ID]; ok && existing.Name != team.Name {
		delete(s.teamNameIndex, existing.Name)
	}
	s.teams[team.ID] = team
	s.teamNameIndex[team.Name] = team.ID
	return nil
}

func (s *Storage) GetTeam(ctx context.Context, id model.TeamID) (*model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	team, ok := s.teams[id]
	if !ok {
		return nil, model.ErrTeamNotFound
	}
	return team, nil
}

func (s *Storage) GetTeamByName(ctx context.Context, name string) (*model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.teamNameIndex[name]
	if !ok {
		return nil, model.ErrTeamNotFound
	}
	team, ok := s.teams[id]
	if !ok {
		return nil, model.ErrTeamNotFound
	}
	return team, nil
}

func (s *Storage) ListTeamsInviting(ctx context.Context, userID model.UserID) ([]*model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var teams []*model.Team
	for _, t := range s.teams {
		if t.HasInvite(userID) {
			teams = append(teams, t)
		}
	}
	return teams, nil
}

func (s *Storage) DeleteTeam(ctx context.Context, id model.TeamID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if team, ok := s.teams[id]; ok {
		delete(s.teamNameIndex, team.Name)
	}
	delete(s.teams, id)
	return nil
}

// Challenge operations

func (s *Storage) SaveChallenge(ctx context.Context, challenge *model.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.challenges[challenge.ID]; ok && existing.Name != challenge.Name {
		delete(s.challengeNameIndex, existing.Name)
	}
	s.challenges[challenge.ID] = challenge
	s.challengeNameIndex[challenge.Name] = challenge.ID
	return nil
}

func (s *Storage) GetChallenge(ctx context.Context, id model.ChallengeID) (*model.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	challenge, ok := s.challenges[id]
	if !ok {
		return nil, model.ErrChallengeNotFound
	}
	return challenge, nil
}

func (s *Storage) GetChallengeByName(ctx context.Context, name string) (*model.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.challengeNameIndex[name]
	if !ok {
		return nil, model.ErrChallengeNotFound
	}
	challenge, ok := s.challenges[id]
	if !ok {
		return nil, model.ErrChallengeNotFound
	}
	return challenge, nil
}

func (s *Storage) ListChallenges(ctx context.Context) ([]*model.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	challenges := make([]*model.Challenge, 0, len(s.challenges))
	for _, c := range s.challenges {
		challenges = append(challenges, c)
	}
	return challenges, nil
}

func (s *Storage) DeleteChallenge(ctx context.Context, id model.ChallengeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if challenge, ok := s.challenges[id]; ok {
		delete(s.challengeNameIndex, challenge.Name)
	}
	delete(s.challenges, id)
	return nil
}

// Attempt operations

func (s *Storage) SaveAttempt(ctx context.Context, attempt *model.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attempts[attempt.ID]; !ok {
		s.attemptsByTeam[attempt.TeamID] = append(s.attemptsByTeam[attempt.TeamID], attempt.ID)
	}
	s.attempts[attempt.ID] = attempt
	return nil
}

func (s *Storage) GetAttempt(ctx context.Context, id model.AttemptID) (*model.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attempt, ok := s.attempts[id]
	if !ok {
		return nil, model.ErrAttemptNotFound
	}
	return attempt, nil
}

func (s *Storage) ListAttemptsForTeam(ctx context.Context, teamID model.TeamID) ([]*model.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.attemptsByTeam[teamID]
	attempts := make([]*model.Attempt, 0, len(ids))
	for _, id := range ids {
		if a, ok := s.attempts[id]; ok {
			attempts = append(attempts, a)
		}
	}
	return attempts, nil
}
