package team

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ctfe/ctfe/internal/dependencies/clock"
	"github.com/ctfe/ctfe/internal/dependencies/random"
	"github.com/ctfe/ctfe/internal/model"
	"github.com/ctfe/ctfe/internal/storage"
)

// Controller manages the team membership state machine: creation,
// invitations, joins, quits, captaincy, and dissolution. All mutations
// for a given player or team are serialized through keyed locks so
// capacity checks and writes are atomic; lock order is always player
// before team.
type Controller struct {
	storage    storage.Storage
	clock      clock.Clock
	random     random.Random
	logger     *slog.Logger
	maxMembers int

	playerLocks keyedLocks
	teamLocks   keyedLocks
}

// NewController creates a new team Controller. maxMembers <= 0 selects
// the default capacity.
func NewController(store storage.Storage, clk clock.Clock, rnd random.Random, maxMembers int, logger *slog.Logger) *Controller {
	if maxMembers <= 0 {
		maxMembers = model.DefaultMaxTeamMembers
	}
	return &Controller{
		storage:    store,
		clock:      clk,
		random:     rnd,
		logger:     logger,
		maxMembers: maxMembers,
	}
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

// Create makes a new team with the player as sole member and captain
func (c *Controller) Create(ctx context.Context, playerID model.UserID, name string) (*model.Team, error) {
	unlockPlayer := c.playerLocks.lock(string(playerID))
	defer unlockPlayer()

	// The name lock makes the uniqueness check and the insert atomic
	// against a concurrent create with the same name
	unlockName := c.teamLocks.lock("name:" + name)
	defer unlockName()

	player, err := c.storage.GetUser(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player.Role != model.RolePlayer {
		return nil, model.ErrNotPlayer
	}
	if player.OnTeam() {
		return nil, model.ErrAlreadyOnTeam
	}

	_, err = c.storage.GetTeamByName(ctx, name)
	if err == nil {
		return nil, model.ErrTeamNameTaken
	}
	if !errors.Is(err, model.ErrTeamNotFound) {
		return nil, err
	}

	now := c.clock.Now()
	team := &model.Team{
		ID:        model.TeamID(c.generateID("t_")),
		Name:      name,
		CaptainID: player.ID,
		Members: []model.TeamMember{
			{
				UserID:   player.ID,
				Username: player.Username,
				JoinedAt: now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The user write lands first and the team write last: a failed team
	// write leaves a dangling team reference (recoverable via Quit),
	// never a roster slot held by a player who is not on the team.
	player.TeamID = &team.ID
	player.UpdatedAt = now
	if err := c.storage.SaveUser(ctx, player); err != nil {
		return nil, err
	}

	if err := c.storage.SaveTeam(ctx, team); err != nil {
		c.unlinkPlayer(ctx, player)
		return nil, err
	}

	c.logger.Info("team created",
		slog.String("team_id", string(team.ID)),
		slog.String("captain_id", string(player.ID)),
	)
	return team, nil
}

// Get retrieves a team by ID
func (c *Controller) Get(ctx context.Context, id model.TeamID) (*model.Team, error) {
	return c.storage.GetTeam(ctx, id)
}

// GetByName retrieves a team by its unique name
func (c *Controller) GetByName(ctx context.Context, name string) (*model.Team, error) {
	return c.storage.GetTeamByName(ctx, name)
}

// Invite offers team membership to another player. Any current member
// may invite; the target's own team reference is untouched until accept.
func (c *Controller) Invite(ctx context.Context, memberID model.UserID, teamID model.TeamID, targetID model.UserID) error {
	unlock := c.teamLocks.lock(string(teamID))
	defer unlock()

	team, err := c.storage.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if team.GetMember(memberID) == nil {
		return model.ErrNotTeamMember
	}
	if len(team.Members) >= c.maxMembers {
		return model.ErrTeamFull
	}
	if team.HasInvite(targetID) {
		return model.ErrAlreadyInvited
	}

	target, err := c.storage.GetUser(ctx, targetID)
	if err != nil {
		return err
	}
	if target.Role != model.RolePlayer {
		return model.ErrNotPlayer
	}
	if target.OnTeam() {
		return model.ErrTargetOnTeam
	}

	team.Invites = append(team.Invites, targetID)
	team.UpdatedAt = c.clock.Now()
	return c.storage.SaveTeam(ctx, team)
}

// AcceptInvite joins the player to a team that invited them. Capacity
// is rechecked at acceptance time: the slot may have been taken between
// invite and accept. Accepting clears the player's pending invitations
// from every team.
func (c *Controller) AcceptInvite(ctx context.Context, playerID model.UserID, teamID model.TeamID) (*model.Team, error) {
	unlockPlayer := c.playerLocks.lock(string(playerID))
	defer unlockPlayer()

	player, err := c.storage.GetUser(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player.Role != model.RolePlayer {
		return nil, model.ErrNotPlayer
	}
	if player.OnTeam() {
		return nil, model.ErrAlreadyOnTeam
	}

	team, err := func() (*model.Team, error) {
		unlockTeam := c.teamLocks.lock(string(teamID))
		defer unlockTeam()

		team, err := c.storage.GetTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		if !team.HasInvite(playerID) {
			return nil, model.ErrNoSuchInvite
		}
		if len(team.Members) >= c.maxMembers {
			return nil, model.ErrTeamFull
		}

		// Same write order as Create: user first, team last, so a failed
		// team write never leaves the roster holding a slot for a player
		// whose own record was not updated
		now := c.clock.Now()
		player.TeamID = &team.ID
		player.UpdatedAt = now
		if err := c.storage.SaveUser(ctx, player); err != nil {
			player.TeamID = nil
			return nil, err
		}

		team.Members = append(team.Members, model.TeamMember{
			UserID:   player.ID,
			Username: player.Username,
			JoinedAt: now,
		})
		team.RemoveInvite(playerID)
		team.UpdatedAt = now
		if err := c.storage.SaveTeam(ctx, team); err != nil {
			c.unlinkPlayer(ctx, player)
			return nil, err
		}
		return team, nil
	}()
	if err != nil {
		return nil, err
	}

	// A rostered player can no longer act on offers from other teams
	if err := c.clearInvitesElsewhere(ctx, playerID, teamID); err != nil {
		c.logger.Warn("could not clear stale invitations",
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()),
		)
	}

	return team, nil
}

// unlinkPlayer is the best-effort rollback after a failed team write:
// clear the player's dangling team reference so the slot stays open
func (c *Controller) unlinkPlayer(ctx context.Context, player *model.User) {
	player.TeamID = nil
	if err := c.storage.SaveUser(ctx, player); err != nil {
		c.logger.Error("could not unlink player after failed team write",
			slog.String("player_id", string(player.ID)),
			slog.String("error", err.Error()),
		)
	}
}

// clearInvitesElsewhere removes the player's pending invitations from
// every team except the one just joined
func (c *Controller) clearInvitesElsewhere(ctx context.Context, playerID model.UserID, joined model.TeamID) error {
	inviting, err := c.storage.ListTeamsInviting(ctx, playerID)
	if err != nil {
		return err
	}

	for _, t := range inviting {
		if t.ID == joined {
			continue
		}
		unlock := c.teamLocks.lock(string(t.ID))
		current, err := c.storage.GetTeam(ctx, t.ID)
		if err == nil && current.HasInvite(playerID) {
			current.RemoveInvite(playerID)
			current.UpdatedAt = c.clock.Now()
			err = c.storage.SaveTeam(ctx, current)
		}
		unlock()
		if err != nil && !errors.Is(err, model.ErrTeamNotFound) {
			return err
		}
	}
	return nil
}

// RescindInvite withdraws a pending invitation
func (c *Controller) RescindInvite(ctx context.Context, memberID model.UserID, teamID model.TeamID, targetID model.UserID) error {
	unlock := c.teamLocks.lock(string(teamID))
	defer unlock()

	team, err := c.storage.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if team.GetMember(memberID) == nil {
		return model.ErrNotTeamMember
	}
	if !team.HasInvite(targetID) {
		return model.ErrNoSuchInvite
	}

	team.RemoveInvite(targetID)
	team.UpdatedAt = c.clock.Now()
	return c.storage.SaveTeam(ctx, team)
}

// ListInvitesFor returns the teams holding a pending invitation for the
// player
func (c *Controller) ListInvitesFor(ctx context.Context, playerID model.UserID) ([]*model.Team, error) {
	return c.storage.ListTeamsInviting(ctx, playerID)
}

// Quit removes the player from their current team. The last member
// leaving dissolves the team; a departing captain hands captaincy to
// the longest-tenured remaining member.
func (c *Controller) Quit(ctx context.Context, playerID model.UserID) error {
	unlockPlayer := c.playerLocks.lock(string(playerID))
	defer unlockPlayer()

	player, err := c.storage.GetUser(ctx, playerID)
	if err != nil {
		return err
	}
	if !player.OnTeam() {
		return model.ErrNotOnTeam
	}
	teamID := *player.TeamID

	unlockTeam := c.teamLocks.lock(string(teamID))
	defer unlockTeam()

	team, err := c.storage.GetTeam(ctx, teamID)
	if err != nil && !errors.Is(err, model.ErrTeamNotFound) {
		return err
	}

	if team != nil {
		team.RemoveMember(playerID)

		if len(team.Members) == 0 {
			// No orphan teams: zero members means the record goes away
			if err := c.storage.DeleteTeam(ctx, teamID); err != nil {
				return err
			}
			c.logger.Info("team dissolved", slog.String("team_id", string(teamID)))
		} else {
			if team.CaptainID == playerID {
				team.CaptainID = team.LongestTenured().UserID
			}
			team.UpdatedAt = c.clock.Now()
			if err := c.storage.SaveTeam(ctx, team); err != nil {
				return err
			}
		}
	}

	player.TeamID = nil
	player.UpdatedAt = c.clock.Now()
	return c.storage.SaveUser(ctx, player)
}

// idAlphabet is the character set for generated IDs
const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// generateID generates a random ID with a prefix
func (c *Controller) generateID(prefix string) string {
	return prefix + c.random.String(16, idAlphabet)
}

// Interface for dependency injection
type ControllerInterface interface {
	Create(ctx context.Context, playerID model.UserID, name string) (*model.Team, error)
	Get(ctx context.Context, id model.TeamID) (*model.Team, error)
	GetByName(ctx context.Context, name string) (*model.Team, error)
	Invite(ctx context.Context, memberID model.UserID, teamID model.TeamID, targetID model.UserID) error
	AcceptInvite(ctx context.Context, playerID model.UserID, teamID model.TeamID) (*model.Team, error)
	RescindInvite(ctx context.Context, memberID model.UserID, teamID model.TeamID, targetID model.UserID) error
	ListInvitesFor(ctx context.Context, playerID model.UserID) ([]*model.Team, error)
	Quit(ctx context.Context, playerID model.UserID) error
}

var _ ControllerInterface = (*Controller)(nil)
