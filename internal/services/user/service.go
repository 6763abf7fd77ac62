package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ctfe/ctfe/internal/dependencies/clock"
	"github.com/ctfe/ctfe/internal/model"
	"github.com/ctfe/ctfe/internal/services/auth"
	"github.com/ctfe/ctfe/internal/services/team"
	"github.com/ctfe/ctfe/internal/storage"
)

// Service handles admin-facing user management. Mutations keep the
// team invariants intact: only players hold team references, so a role
// change or deletion first walks the user off their team.
type Service struct {
	storage storage.Storage
	teams   team.ControllerInterface
	auth    *auth.Service
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new user Service
func New(store storage.Storage, teams team.ControllerInterface, authService *auth.Service, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		teams:   teams,
		auth:    authService,
		clock:   clk,
		logger:  logger,
	}
}

// Get retrieves a user by ID
func (s *Service) Get(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.storage.GetUser(ctx, id)
}

// GetByUsername retrieves a user by their unique username
func (s *Service) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.storage.GetUserByUsername(ctx, username)
}

// List retrieves all users
func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	return s.storage.ListUsers(ctx)
}

// UpdateRole changes a user's role. Demoting a rostered player to a
// non-player role removes them from their team first. The user's live
// session is invalidated so the new role takes effect on next login.
func (s *Service) UpdateRole(ctx context.Context, id model.UserID, role model.Role) (*model.User, error) {
	if !model.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", model.ErrInvalidArgument, role)
	}

	user, err := s.storage.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}

	if role != model.RolePlayer && user.OnTeam() {
		if err := s.teams.Quit(ctx, id); err != nil && !errors.Is(err, model.ErrNotOnTeam) {
			return nil, err
		}
		// Quit persisted the cleared team reference
		user, err = s.storage.GetUser(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	user.Role = role
	user.UpdatedAt = s.clock.Now()
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	if err := s.auth.InvalidateSession(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("role changed",
		slog.String("user_id", string(id)),
		slog.String("role", string(role)),
	)
	return user, nil
}

// Delete removes a user account, cascading team removal per quit
// semantics and dropping any live session
func (s *Service) Delete(ctx context.Context, id model.UserID) error {
	if _, err := s.storage.GetUser(ctx, id); err != nil {
		return err
	}

	if err := s.teams.Quit(ctx, id); err != nil && !errors.Is(err, model.ErrNotOnTeam) {
		return err
	}

	if err := s.auth.InvalidateSession(ctx, id); err != nil {
		return err
	}

	if err := s.storage.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted", slog.String("user_id", string(id)))
	return nil
}
