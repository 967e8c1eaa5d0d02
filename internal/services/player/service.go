package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"promptparty/internal/dependencies/clock"
	"promptparty/internal/model"
	"promptparty/internal/storage"
)

// Service is the player directory: registration, authentication and
// stat updates.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new player service
func New(storage storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clk,
		logger:  logger,
	}
}

// Register creates a player with counters at zero. The uniqueness
// check is read-then-write; two concurrent registrations for the same
// username can both pass it.
func (s *Service) Register(ctx context.Context, username, password string) (*model.Player, error) {
	// Bounds are in characters, not bytes
	if n := utf8.RuneCountInString(username); n < model.UsernameMinLen || n > model.UsernameMaxLen {
		return nil, fmt.Errorf("%w: username must be %d-%d characters",
			model.ErrValidation, model.UsernameMinLen, model.UsernameMaxLen)
	}
	if n := utf8.RuneCountInString(password); n < model.PasswordMinLen || n > model.PasswordMaxLen {
		return nil, fmt.Errorf("%w: password must be %d-%d characters",
			model.ErrValidation, model.PasswordMinLen, model.PasswordMaxLen)
	}

	_, err := s.storage.GetPlayerByUsername(ctx, username)
	if err == nil {
		return nil, model.ErrUsernameExists
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	player := &model.Player{
		ID:           model.PlayerID("p_" + uuid.NewString()),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}

	if err := s.storage.CreatePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player registered", slog.String("username", username))
	return player, nil
}

// Authenticate reports whether a player with the given username exists
// and the password matches. An unknown username is false, not an error.
func (s *Service) Authenticate(ctx context.Context, username, password string) (bool, error) {
	player, err := s.storage.GetPlayerByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

// RecordResult adds both deltas to the player's counters. The
// read-modify-write is not atomic against concurrent updates to the
// same player.
func (s *Service) RecordResult(ctx context.Context, username string, gamesDelta, scoreDelta int) (*model.Player, error) {
	player, err := s.storage.GetPlayerByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	player.GamesPlayed += gamesDelta
	player.TotalScore += scoreDelta

	if err := s.storage.UpdatePlayer(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}
