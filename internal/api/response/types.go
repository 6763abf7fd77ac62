package response

import (
	"time"

	"github.com/ctfe/ctfe/internal/model"
)

// User represents a user in API responses. The password hash never
// leaves the server.
type User struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Role     string  `json:"role"`
	TeamID   *string `json:"team_id,omitempty"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	var teamID *string
	if u.TeamID != nil {
		t := string(*u.TeamID)
		teamID = &t
	}
	return User{
		ID:       string(u.ID),
		Username: u.Username,
		Role:     string(u.Role),
		TeamID:   teamID,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// TeamMember represents a team member
type TeamMember struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at"`
}

// Team represents a team in API responses
type Team struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	CaptainID string       `json:"captain_id"`
	Members   []TeamMember `json:"members"`
	Invites   []string     `json:"invites,omitempty"`
}

// TeamFromModel converts model.Team
func TeamFromModel(t *model.Team) Team {
	members := make([]TeamMember, len(t.Members))
	for i, m := range t.Members {
		members[i] = TeamMember{
			UserID:   string(m.UserID),
			Username: m.Username,
			JoinedAt: m.JoinedAt,
		}
	}

	invites := make([]string, len(t.Invites))
	for i, inv := range t.Invites {
		invites[i] = string(inv)
	}

	return Team{
		ID:        string(t.ID),
		Name:      t.Name,
		CaptainID: string(t.CaptainID),
		Members:   members,
		Invites:   invites,
	}
}

// Challenge represents a challenge in API responses. The flag secret
// is deliberately absent.
type Challenge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChallengeFromModel converts model.Challenge
func ChallengeFromModel(c *model.Challenge) Challenge {
	return Challenge{
		ID:          string(c.ID),
		Name:        c.Name,
		Description: c.Description,
		OwnerID:     string(c.OwnerID),
		CreatedAt:   c.CreatedAt,
	}
}

// Attempt represents a graded flag submission
type Attempt struct {
	ID          string    `json:"id"`
	ChallengeID string    `json:"challenge_id"`
	TeamID      string    `json:"team_id"`
	UserID      string    `json:"user_id"`
	Correct     bool      `json:"correct"`
	CreatedAt   time.Time `json:"created_at"`
}

// AttemptFromModel converts model.Attempt
func AttemptFromModel(a *model.Attempt) Attempt {
	return Attempt{
		ID:          string(a.ID),
		ChallengeID: string(a.ChallengeID),
		TeamID:      string(a.TeamID),
		UserID:      string(a.UserID),
		Correct:     a.Correct,
		CreatedAt:   a.CreatedAt,
	}
}
