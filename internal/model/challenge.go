package model

import "time"

// ChallengeID uniquely identifies a challenge
type ChallengeID string

// Challenge is a puzzle published by a contributor. Flag is the stored
// secret and must never appear in API responses.
type Challenge struct {
	ID          ChallengeID
	Name        string
	Description string
	Flag        string
	OwnerID     UserID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
