package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ctfe/ctfe/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// User tests

func (s *StorageSuite) TestSaveAndGetUser() {
	user := &model.User{
		ID:       "u_1",
		Username: "alice",
		Role:     model.RolePlayer,
	}

	err := s.storage.SaveUser(s.ctx, user)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetUser(s.ctx, "u_1")
	s.Require().NoError(err)
	s.Equal("alice", retrieved.Username)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, "u_nope")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestGetUserByUsername() {
	user := &model.User{ID: "u_1", Username: "alice", Role: model.RolePlayer}
	_ = s.storage.SaveUser(s.ctx, user)

	retrieved, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.UserID("u_1"), retrieved.ID)
}

func (s *StorageSuite) TestGetUserByUsernameNotFound() {
	_, err := s.storage.GetUserByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestRenameUserUpdatesIndex() {
	user := &model.User{ID: "u_1", Username: "alice", Role: model.RolePlayer}
	_ = s.storage.SaveUser(s.ctx, user)

	renamed := &model.User{ID: "u_1", Username: "alicia", Role: model.RolePlayer}
	_ = s.storage.SaveUser(s.ctx, renamed)

	_, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.ErrorIs(err, model.ErrUserNotFound)

	retrieved, err := s.storage.GetUserByUsername(s.ctx, "alicia")
	s.Require().NoError(err)
	s.Equal(model.UserID("u_1"), retrieved.ID)
}

func (s *StorageSuite) TestListUsers() {
	_ = s.storage.SaveUser(s.ctx, &model.User{ID: "u_1", Username: "alice"})
	_ = s.storage.SaveUser(s.ctx, &model.User{ID: "u_2", Username: "bob"})

	users, err := s.storage.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 2)
}

func (s *StorageSuite) TestDeleteUser() {
	_ = s.storage.SaveUser(s.ctx, &model.User{ID: "u_1", Username: "alice"})

	err := s.storage.DeleteUser(s.ctx, "u_1")
	s.Require().NoError(err)

	_, err = s.storage.GetUser(s.ctx, "u_1")
	s.ErrorIs(err, model.ErrUserNotFound)
	_, err = s.storage.GetUserByUsername(s.ctx, "alice")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Team tests

func (s *StorageSuite) TestSaveAndGetTeam() {
	team := &model.Team{
		ID:        "t_1",
		Name:      "hackers",
		CaptainID: "u_1",
		Members: []model.TeamMember{
			{UserID: "u_1", Username: "alice", JoinedAt: time.Now()},
		},
	}

	err := s.storage.SaveTeam(s.ctx, team)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetTeam(s.ctx, "t_1")
	s.Require().NoError(err)
	s.Equal("hackers", retrieved.Name)
	s.Len(retrieved.Members, 1)
}

func (s *StorageSuite) TestGetTeamNotFound() {
	_, err := s.storage.GetTeam(s.ctx, "t_nope")
	s.ErrorIs(err, model.ErrTeamNotFound)
}

func (s *StorageSuite) TestGetTeamByName() {
	_ = s.storage.SaveTeam(s.ctx, &model.Team{ID: "t_1", Name: "hackers"})

	retrieved, err := s.storage.GetTeamByName(s.ctx, "hackers")
	s.Require().NoError(err)
	s.Equal(model.TeamID("t_1"), retrieved.ID)
}

func (s *StorageSuite) TestListTeamsInviting() {
	_ = s.storage.SaveTeam(s.ctx, &model.Team{ID: "t_1", Name: "hackers", Invites: []model.UserID{"u_9"}})
	_ = s.storage.SaveTeam(s.ctx, &model.Team{ID: "t_2", Name: "crackers", Invites: []model.UserID{"u_9", "u_8"}})
	_ = s.storage.SaveTeam(s.ctx, &model.Team{ID: "t_3", Name: "slackers"})

	teams, err := s.storage.ListTeamsInviting(s.ctx, "u_9")
	s.Require().NoError(err)
	s.Len(teams, 2)

	teams, err = s.storage.ListTeamsInviting(s.ctx, "u_8")
	s.Require().NoError(err)
	s.Len(teams, 1)

	teams, err = s.storage.ListTeamsInviting(s.ctx, "u_7")
	s.Require().NoError(err)
	s.Empty(teams)
}

func (s *StorageSuite) TestDeleteTeam() {
	_ = s.storage.SaveTeam(s.ctx, &model.Team{ID: "t_1", Name: "hackers"})

	err := s.storage.DeleteTeam(s.ctx, "t_1")
	s.Require().NoError(err)

	_, err = s.storage.GetTeam(s.ctx, "t_1")
	s.ErrorIs(err, model.ErrTeamNotFound)
	_, err = s.storage.GetTeamByName(s.ctx, "hackers")
	s.ErrorIs(err, model.ErrTeamNotFound)
}

// Challenge tests

func (s *StorageSuite) TestSaveAndGetChallenge() {
	challenge := &model.Challenge{
		ID:      "c_1",
		Name:    "warmup",
		Flag:    "flag{hello}",
		OwnerID: "u_1",
	}

	err := s.storage.SaveChallenge(s.ctx, challenge)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetChallenge(s.ctx, "c_1")
	s.Require().NoError(err)
	s.Equal("warmup", retrieved.Name)
	s.Equal("flag{hello}", retrieved.Flag)
}

func (s *StorageSuite) TestGetChallengeByName() {
	_ = s.storage.SaveChallenge(s.ctx, &model.Challenge{ID: "c_1", Name: "warmup"})

	retrieved, err := s.storage.GetChallengeByName(s.ctx, "warmup")
	s.Require().NoError(err)
	s.Equal(model.ChallengeID("c_1"), retrieved.ID)
}

func (s *StorageSuite) TestListChallenges() {
	_ = s.storage.SaveChallenge(s.ctx, &model.Challenge{ID: "c_1", Name: "warmup"})
	_ = s.storage.SaveChallenge(s.ctx, &model.Challenge{ID: "c_2", Name: "pwn"})

	challenges, err := s.storage.ListChallenges(s.ctx)
	s.Require().NoError(err)
	s.Len(challenges, 2)
}

func (s *StorageSuite) TestDeleteChallenge() {
	_ = s.storage.SaveChallenge(s.ctx, &model.Challenge{ID: "c_1", Name: "warmup"})

	err := s.storage.DeleteChallenge(s.ctx, "c_1")
	s.Require().NoError(err)

	_, err = s.storage.GetChallenge(s.ctx, "c_1")
	s.ErrorIs(err, model.ErrChallengeNotFound)
	_, err = s.storage.GetChallengeByName(s.ctx, "warmup")
	s.ErrorIs(err, model.ErrChallengeNotFound)
}

// Attempt tests

func (s *StorageSuite) TestSaveAndGetAttempt() {
	attempt := &model.Attempt{
		ID:          "a_1",
		ChallengeID: "c_1",
		TeamID:      "t_1",
		UserID:      "u_1",
		Value:       "flag{wrong}",
		Correct:     false,
	}

	err := s.storage.SaveAttempt(s.ctx, attempt)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetAttempt(s.ctx, "a_1")
	s.Require().NoError(err)
	s.Equal(model.TeamID("t_1"), retrieved.TeamID)
}

func (s *StorageSuite) TestGetAttemptNotFound() {
	_, err := s.storage.GetAttempt(s.ctx, "a_nope")
	s.ErrorIs(err, model.ErrAttemptNotFound)
}

func (s *StorageSuite) TestListAttemptsForTeam() {
	_ = s.storage.SaveAttempt(s.ctx, &model.Attempt{ID: "a_1", TeamID: "t_1"})
	_ = s.storage.SaveAttempt(s.ctx, &model.Attempt{ID: "a_2", TeamID: "t_1"})
	_ = s.storage.SaveAttempt(s.ctx, &model.Attempt{ID: "a_3", TeamID: "t_2"})

	attempts, err := s.storage.ListAttemptsForTeam(s.ctx, "t_1")
	s.Require().NoError(err)
	s.Len(attempts, 2)

	attempts, err = s.storage.ListAttemptsForTeam(s.ctx, "t_9")
	s.Require().NoError(err)
	s.Empty(attempts)
}
