package storage

import (
	"context"

	"github.com/ctfe/ctfe/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	DeleteUser(ctx context.Context, id model.UserID) error

	// Team operations
	SaveTeam(ctx context.Context, team *model.Team) error
	GetTeam(ctx context.Context, id model.TeamID) (*model.Team, error)
	GetTeamByName(ctx context.Context, name string) (*model.Team, error)
	ListTeamsInviting(ctx context.Context, userID model.UserID) ([]*model.Team, error)
	DeleteTeam(ctx context.Context, id model.TeamID) error

	// Challenge operations
	SaveChallenge(ctx context.Context, challenge *model.Challenge) error
	GetChallenge(ctx context.Context, id model.ChallengeID) (*model.Challenge, error)
	GetChallengeByName(ctx context.Context, name string) (*model.Challenge, error)
	ListChallenges(ctx context.Context) ([]*model.Challenge, error)
	DeleteChallenge(ctx context.Context, id model.ChallengeID) error

	// Attempt operations
	SaveAttempt(ctx context.Context, attempt *model.Attempt) error
	GetAttempt(ctx context.Context, id model.AttemptID) (*model.Attempt, error)
	ListAttemptsForTeam(ctx context.Context, teamID model.TeamID) ([]*model.Attempt, error)
}
