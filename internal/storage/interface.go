package storage

import (
	"context"
	"time"

	"promptparty/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Player operations
	CreatePlayer(ctx context.Context, player *model.Player) error
	UpdatePlayer(ctx context.Context, player *model.Player) error
	GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error)

	// Prompt operations
	SavePrompt(ctx context.Context, prompt *model.Prompt) error
	GetPromptsByIDs(ctx context.Context, ids []model.PromptID) ([]*model.Prompt, error)
	GetPromptsByOwner(ctx context.Context, username string) ([]*model.Prompt, error)
	DeletePromptsByOwner(ctx context.Context, username string) (int, error)
}

// PlayerCreation is one delivery from the player-creation feed.
// The delivery ID acknowledges the entry; unacknowledged deliveries
// are handed out again on a later read (at-least-once).
type PlayerCreation struct {
	DeliveryID string
	Player     model.Player
}

// PlayerFeed is the change feed of newly created players. CreatePlayer
// appends to it; the welcome worker consumes it.
type PlayerFeed interface {
	// ReadPlayerCreations returns up to count deliveries, blocking for up
	// to block when the feed is empty. A drained feed returns an empty
	// slice, not an error.
	ReadPlayerCreations(ctx context.Context, count int64, block time.Duration) ([]PlayerCreation, error)

	// AckPlayerCreations marks deliveries as processed so they are not
	// delivered again.
	AckPlayerCreations(ctx context.Context, deliveryIDs ...string) error
}
