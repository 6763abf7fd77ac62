package redis

import (
	"fmt"

	"github.com/ctfe/ctfe/internal/model"
)

// Key prefix for all platform data
const keyPrefix = "ctfe"

// Key generation functions for each entity type

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// usersIndexKey returns the Redis key for the SET of all user IDs
func usersIndexKey() string {
	return fmt.Sprintf("%s:idx:users", keyPrefix)
}

// teamKey returns the Redis key for a Team
func teamKey(id model.TeamID) string {
	return fmt.Sprintf("%s:team:%s", keyPrefix, id)
}

// teamNameIndexKey returns the Redis key for the team name -> team_id index
func teamNameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:team_name:%s", keyPrefix, name)
}

// invitesForUserIndexKey returns the Redis key for the SET of teams
// holding a pending invitation for a user
func invitesForUserIndexKey(userID model.UserID) string {
	return fmt.Sprintf("%s:idx:invites_for_user:%s", keyPrefix, userID)
}

// challengeKey returns the Redis key for a Challenge
func challengeKey(id model.ChallengeID) string {
	return fmt.Sprintf("%s:challenge:%s", keyPrefix, id)
}

// challengeNameIndexKey returns the Redis key for the challenge name index
func challengeNameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:challenge_name:%s", keyPrefix, name)
}

// challengesIndexKey returns the Redis key for the SET of all challenge IDs
func challengesIndexKey() string {
	return fmt.Sprintf("%s:idx:challenges", keyPrefix)
}

// attemptKey returns the Redis key for an Attempt
func attemptKey(id model.AttemptID) string {
	return fmt.Sprintf("%s:attempt:%s", keyPrefix, id)
}

// attemptsForTeamIndexKey returns the Redis key for the SET of attempts
// submitted by a team
func attemptsForTeamIndexKey(teamID model.TeamID) string {
	return fmt.Sprintf("%s:idx:attempts_for_team:%s", keyPrefix, teamID)
}
