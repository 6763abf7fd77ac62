package model

import "time"

// TeamID uniquely identifies a team
type TeamID string

// DefaultMaxTeamMembers is the member capacity applied when a team
// service is constructed without an explicit limit
const DefaultMaxTeamMembers = 5

// TeamMember records a player's membership in a team
type TeamMember struct {
	UserID   UserID
	Username string
	JoinedAt time.Time
}

// Team is a group of players. CaptainID always references a current
// member; a team with zero members is deleted rather than persisted.
type Team struct {
	ID        TeamID
	Name      string
	CaptainID UserID
	Members   []TeamMember
	Invites   []UserID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetMember returns the member with the given user ID, or nil if not found
func (t *Team) GetMember(id UserID) *TeamMember {
	for i := range t.Members {
		if t.Members[i].UserID == id {
			return &t.Members[i]
		}
	}
	return nil
}

// HasInvite reports whether the team has a pending invitation for the user
func (t *Team) HasInvite(id UserID) bool {
	for _, inv := range t.Invites {
		if inv == id {
			return true
		}
	}
	return false
}

// RemoveInvite drops the pending invitation for the user, if present
func (t *Team) RemoveInvite(id UserID) {
	for i, inv := range t.Invites {
		if inv == id {
			t.Invites = append(t.Invites[:i], t.Invites[i+1:]...)
			return
		}
	}
}

// RemoveMember drops the member with the given user ID, if present
func (t *Team) RemoveMember(id UserID) {
	for i := range t.Members {
		if t.Members[i].UserID == id {
			t.Members = append(t.Members[:i], t.Members[i+1:]...)
			return
		}
	}
}

// LongestTenured returns the member with the earliest join time,
// breaking ties by user ID. Returns nil for an empty team.
func (t *Team) LongestTenured() *TeamMember {
	var oldest *TeamMember
	for i := range t.Members {
		m := &t.Members[i]
		if oldest == nil ||
			m.JoinedAt.Before(oldest.JoinedAt) ||
			(m.JoinedAt.Equal(oldest.JoinedAt) && m.UserID < oldest.UserID) {
			oldest = m
		}
	}
	return oldest
}
