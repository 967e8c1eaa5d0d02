package redis

import (
	"fmt"

	"promptparty/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "promptparty"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player, indexed by username
// (usernames are the unique handle players are addressed by)
func playerKey(username string) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, username)
}

// promptKey returns the Redis key for a Prompt
func promptKey(id model.PromptID) string {
	return fmt.Sprintf("%s:prompt:%s", keyPrefix, id)
}

// promptsByOwnerIndexKey returns the Redis key for the LIST of prompt
// ids owned by a player, in creation order
func promptsByOwnerIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:prompts_by_owner:%s", keyPrefix, username)
}

// playerFeedKey returns the Redis key for the player-creation stream
func playerFeedKey() string {
	return fmt.Sprintf("%s:feed:players", keyPrefix)
}
