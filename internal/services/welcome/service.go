package welcome

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"promptparty/internal/model"
	"promptparty/internal/services/prompt"
	"promptparty/internal/storage"
)

// WelcomePhrase marks generated welcome prompts. The duplicate check
// scans for it case-insensitively, so every welcome prompt must embed
// it verbatim.
const WelcomePhrase = "Welcome to Prompt Party"

// Defaults for the consume loop
const (
	defaultBatchSize  = 16
	defaultBlock      = 5 * time.Second
	defaultRetryDelay = time.Second
)

// Service reacts to player-creation events by generating a localized
// welcome prompt for each new player, exactly once per player.
type Service struct {
	feed    storage.PlayerFeed
	prompts *prompt.Service
	logger  *slog.Logger

	batchSize  int64
	block      time.Duration
	retryDelay time.Duration
}

// New creates a new welcome service
func New(feed storage.PlayerFeed, prompts *prompt.Service, logger *slog.Logger) *Service {
	return &Service{
		feed:       feed,
		prompts:    prompts,
		logger:     logger,
		batchSize:  defaultBatchSize,
		block:      defaultBlock,
		retryDelay: defaultRetryDelay,
	}
}

// Run consumes the player-creation feed until ctx is cancelled.
// Deliveries that fail are not acknowledged and come back on a later
// read; ProcessPlayer's duplicate check makes the redelivery safe.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("welcome worker started")
	for {
		creations, err := s.feed.ReadPlayerCreations(ctx, s.batchSize, s.block)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				s.logger.Info("welcome worker stopped")
				return nil
			}
			s.logger.Error("reading player feed", slog.String("error", err.Error()))
			continue
		}

		if failed := s.processBatch(ctx, creations); failed > 0 {
			// Failed deliveries stay pending; wait before re-reading so
			// the retry loop does not spin on a poisoned entry
			select {
			case <-ctx.Done():
				s.logger.Info("welcome worker stopped")
				return nil
			case <-time.After(s.retryDelay):
			}
		}
	}
}

// processBatch handles one feed delivery batch and returns the number
// of failed deliveries. A failure for one player is logged and does not
// stop the rest of the batch.
func (s *Service) processBatch(ctx context.Context, creations []storage.PlayerCreation) int {
	var done []string
	failed := 0
	for _, c := range creations {
		if err := s.ProcessPlayer(ctx, &c.Player); err != nil {
			s.logger.Error("welcome prompt failed",
				slog.String("username", c.Player.Username),
				slog.String("error", err.Error()),
			)
			failed++
			continue
		}
		done = append(done, c.DeliveryID)
	}

	if len(done) > 0 {
		if err := s.feed.AckPlayerCreations(ctx, done...); err != nil {
			s.logger.Error("acking player feed", slog.String("error", err.Error()))
		}
	}
	return failed
}

// ProcessPlayer creates a welcome prompt for one player unless one
// already exists. The existence check is what makes at-least-once
// delivery idempotent.
func (s *Service) ProcessPlayer(ctx context.Context, player *model.Player) error {
	existing, err := s.prompts.FindByOwner(ctx, player.Username)
	if err != nil {
		return err
	}

	for _, p := range existing {
		if len(p.Tags) == 0 && len(p.Texts) > 0 && prompt.ContainsPhrase(p, WelcomePhrase) {
			s.logger.Info("welcome prompt already exists, skipping",
				slog.String("username", player.Username))
			return nil
		}
	}

	message := Message(player.Username)
	if _, err := s.prompts.CreateWithSource(ctx, player.Username, message, model.LanguageEnglish, nil); err != nil {
		return err
	}

	s.logger.Info("welcome prompt created", slog.String("username", player.Username))
	return nil
}

// Message builds the English welcome text for a player. Usernames are
// 5-12 characters, which keeps the message inside prompt length bounds.
func Message(username string) string {
	return fmt.Sprintf("%s, %s! Submit your first prompt to get the game going.", WelcomePhrase, username)
}
