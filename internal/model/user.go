package model

import "time"

// UserID uniquely identifies a user account
type UserID string

// Role determines what a user is allowed to do
type Role string

const (
	RoleAdmin       Role = "admin"
	RolePlayer      Role = "player"
	RoleContributor Role = "contributor"
)

// ValidRole reports whether r is one of the known roles
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RolePlayer, RoleContributor:
		return true
	}
	return false
}

// User is a registered account. TeamID is only ever set for players.
type User struct {
	ID           UserID
	Username     string
	PasswordHash string
	Role         Role
	TeamID       *TeamID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OnTeam reports whether the user currently belongs to a team
func (u *User) OnTeam() bool {
	return u.TeamID != nil
}
