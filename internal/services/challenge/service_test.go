package challenge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ctfe/ctfe/internal/dependencies/mocks"
	"github.com/ctfe/ctfe/internal/dependencies/random"
	"github.com/ctfe/ctfe/internal/model"
	"github.com/ctfe/ctfe/internal/storage/memory"
	"github.com/ctfe/ctfe/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, random.New(), testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) createContributor(id string) *model.User {
	user := &model.User{ID: model.UserID(id), Username: id, Role: model.RoleContributor}
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))
	return user
}

func (s *ServiceSuite) createRosteredPlayer(id string, teamID model.TeamID) *model.User {
	tid := teamID
	user := &model.User{ID: model.UserID(id), Username: id, Role: model.RolePlayer, TeamID: &tid}
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))
	return user
}

// Create tests

func (s *ServiceSuite) TestCreateSucceeds() {
	owner := s.createContributor("u_owner")

	challenge, err := s.service.Create(s.ctx, owner.ID, "warmup", "an easy one", "flag{hello}")
	s.Require().NoError(err)

	s.Equal("warmup", challenge.Name)
	s.Equal("flag{hello}", challenge.Flag)
	s.Equal(owner.ID, challenge.OwnerID)
	s.NotEmpty(challenge.ID)
}

func (s *ServiceSuite) TestCreateFailsIfNameTaken() {
	owner := s.createContributor("u_owner")
	_, _ = s.service.Create(s.ctx, owner.ID, "warmup", "", "flag{a}")

	_, err := s.service.Create(s.ctx, owner.ID, "warmup", "", "flag{b}")
	s.ErrorIs(err, model.ErrChallengeNameTaken)
}

// Get/List tests

func (s *ServiceSuite) TestGetNotFound() {
	_, err := s.service.Get(s.ctx, "c_nope")
	s.ErrorIs(err, model.ErrChallengeNotFound)
}

func (s *ServiceSuite) TestList() {
	owner := s.createContributor("u_owner")
	_, _ = s.service.Create(s.ctx, owner.ID, "warmup", "", "flag{a}")
	_, _ = s.service.Create(s.ctx, owner.ID, "pwn", "", "flag{b}")

	challenges, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Len(challenges, 2)
}

// Delete tests

func (s *ServiceSuite) TestDeleteByOwner() {
	owner := s.createContributor("u_owner")
	challenge, _ := s.service.Create(s.ctx, owner.ID, "warmup", "", "flag{a}")

	err := s.service.Delete(s.ctx, owner, challenge.ID)
	s.Require().NoError(err)

	_, err = s.service.Get(s.ctx, challenge.ID)
	s.ErrorIs(err, model.ErrChallengeNotFound)
}

func (s *ServiceSuite) TestDeleteByAdmin() {
	owner := s.createContributor("u_owner")
	challenge, _ := s.service.Create(s.ctx, owner.ID, "warmup", "", "flag{a}")

	admin := &model.User{ID: "u_admin", Role: model.RoleAdmin}
	err := s.service.Delete(s.ctx, admin, challenge.ID)
	s.NoError(err)
}

func (s *ServiceSuite) TestDeleteByOtherContributorForbidden() {
	owner := s.createContributor("u_owner")
	other := s.createContributor("u_other")
	challenge, _ := s.service.Create(s.ctx, owner.ID, "warmup", "", "flag{a}")

	err := s.service.Delete(s.ctx, other, challenge.ID)
	s.ErrorIs(err, model.ErrForbidden)
}

// SubmitAttempt tests

func (s *ServiceSuite) TestSubmitCorrectFlag() {
	owner := s.createContributor("u_owner")
	challenge, _ := s.service.Create(s.ctx, owner.ID, "warmup", "", "flag{hello}")
	player := s.createRosteredPlayer("u_alice", "t_1")

	attempt, err := s.service.SubmitAttempt(s.ctx, player.ID, challenge.ID, "flag{hello}")
	s.Require().NoError(err)

	s.True(attempt.Correct)
	s.Equal(model.TeamID("t_1"), attempt.TeamID)
	s.Equal(player.ID, attempt.UserID)
}

func (s *ServiceSuite) TestSubmitWrongFlag() {
	owner := s.createContributor("u_owner")
	challenge, _ := s.service.Create(s.ctx, owner.ID, "warmup", "", "flag{hello}")
	player := s.createRosteredPlayer("u_alice", "t_1")

	attempt, err := s.service.SubmitAttempt(s.ctx, player.ID, challenge.ID, "flag{goodbye}")
	s.Require().NoError(err)
	s.False(attempt.Correct)
}

func (s *ServiceSuite) TestSubmitRecordsAttempt() {
	owner := s.createContributor("u_owner")
	challenge, _ := s.service.Create(s.ctx, owner.ID, "warmup", "", "flag{hello}")
	player := s.createRosteredPlayer("u_alice", "t_1")

	_, _ = s.service.SubmitAttempt(s.ctx, player.ID, challenge.ID, "flag{nope}")
	_, _ = s.service.SubmitAttempt(s.ctx, player.ID, challenge.ID, "flag{hello}")

	attempts, err := s.service.ListAttemptsForTeam(s.ctx, "t_1")
	s.Require().NoError(err)
	s.Len(attempts, 2)
}

func (s *ServiceSuite) TestSubmitFailsWhenNotOnTeam() {
	owner := s.createContributor("u_owner")
	challenge, _ := s.service.Create(s.ctx, owner.ID, "warmup", "", "flag{hello}")

	lone := &model.User{ID: "u_lone", Username: "lone", Role: model.RolePlayer}
	s.Require().NoError(s.storage.SaveUser(s.ctx, lone))

	_, err := s.service.SubmitAttempt(s.ctx, lone.ID, challenge.ID, "flag{hello}")
	s.ErrorIs(err, model.ErrNotOnTeam)
}

func (s *ServiceSuite) TestSubmitFailsForUnknownChallenge() {
	player := s.createRosteredPlayer("u_alice", "t_1")

	_, err := s.service.SubmitAttempt(s.ctx, player.ID, "c_nope", "flag{hello}")
	s.ErrorIs(err, model.ErrChallengeNotFound)
}
