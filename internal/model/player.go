package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a registered game account with cumulative stats
type Player struct {
	ID           PlayerID  `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	GamesPlayed  int       `json:"games_played"`
	TotalScore   int       `json:"total_score"`
	CreatedAt    time.Time `json:"created_at"`
}

// Username and password length bounds enforced at registration
const (
	UsernameMinLen = 5
	UsernameMaxLen = 12
	PasswordMinLen = 8
	PasswordMaxLen = 12
)
