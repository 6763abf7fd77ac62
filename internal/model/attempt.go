package model

import "time"

// AttemptID uniquely identifies a flag submission
type AttemptID string

// Attempt is a single flag submission by a team member against a challenge
type Attempt struct {
	ID          AttemptID
	ChallengeID ChallengeID
	TeamID      TeamID
	UserID      UserID
	Value       string
	Correct     bool
	CreatedAt   time.Time
}
