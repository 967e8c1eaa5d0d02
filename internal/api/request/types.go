package request

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateRequest is the request body for recording a game result
type UpdateRequest struct {
	Username         string `json:"username"`
	AddToGamesPlayed int    `json:"add_to_games_played"`
	AddToScore       int    `json:"add_to_score"`
}

// CreatePromptRequest is the request body for submitting a prompt
type CreatePromptRequest struct {
	Text     string   `json:"text"`
	Username string   `json:"username"`
	Tags     []string `json:"tags"`
}

// ModerateRequest is the request body for batch moderation
type ModerateRequest struct {
	PromptIDs []string `json:"prompt-ids"`
}

// DeleteRequest is the request body for deleting a player's prompts
type DeleteRequest struct {
	Player string `json:"player"`
}

// GetRequest is the request body for tag-filtered prompt retrieval
type GetRequest struct {
	Players []string `json:"players"`
	TagList []string `json:"tag_list"`
}
