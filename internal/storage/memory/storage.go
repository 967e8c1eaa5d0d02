package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"promptparty/internal/model"
	"promptparty/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// The player-creation feed mirrors the redis stream semantics: entries
// stay pending until acknowledged and are redelivered on later reads.
type Storage struct {
	mu sync.RWMutex

	playersByUsername map[string]*model.Player
	prompts           map[model.PromptID]*model.Prompt
	promptOrder       []model.PromptID

	feed     []storage.PlayerCreation
	feedSeq  int
	acked    map[string]bool
	notEmpty chan struct{}
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		playersByUsername: make(map[string]*model.Player),
		prompts:           make(map[model.PromptID]*model.Prompt),
		acked:             make(map[string]bool),
		notEmpty:          make(chan struct{}, 1),
	}
}

// Ensure Storage implements the interfaces
var (
	_ storage.Storage    = (*Storage)(nil)
	_ storage.PlayerFeed = (*Storage)(nil)
)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := *player
	s.playersByUsername[p.Username] = &p

	s.feedSeq++
	s.feed = append(s.feed, storage.PlayerCreation{
		DeliveryID: strconv.Itoa(s.feedSeq),
		Player:     p,
	})
	select {
	case s.notEmpty <- struct{}{}:
	default:
	}
	return nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *player
	s.playersByUsername[p.Username] = &p
	return nil
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.playersByUsername[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *player
	return &p, nil
}

// Prompt operations

func (s *Storage) SavePrompt(ctx context.Context, prompt *model.Prompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *prompt
	if _, ok := s.prompts[p.ID]; !ok {
		s.promptOrder = append(s.promptOrder, p.ID)
	}
	s.prompts[p.ID] = &p
	return nil
}

func (s *Storage) GetPromptsByIDs(ctx context.Context, ids []model.PromptID) ([]*model.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prompts := make([]*model.Prompt, 0, len(ids))
	for _, id := range ids {
		if prompt, ok := s.prompts[id]; ok {
			p := *prompt
			prompts = append(prompts, &p)
		}
	}
	return prompts, nil
}

func (s *Storage) GetPromptsByOwner(ctx context.Context, username string) ([]*model.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var prompts []*model.Prompt
	for _, id := range s.promptOrder {
		if prompt, ok := s.prompts[id]; ok && prompt.Username == username {
			p := *prompt
			prompts = append(prompts, &p)
		}
	}
	return prompts, nil
}

func (s *Storage) DeletePromptsByOwner(ctx context.Context, username string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	remaining := s.promptOrder[:0]
	for _, id := range s.promptOrder {
		if prompt, ok := s.prompts[id]; ok && prompt.Username == username {
			delete(s.prompts, id)
			deleted++
			continue
		}
		remaining = append(remaining, id)
	}
	s.promptOrder = remaining
	return deleted, nil
}

// Player-creation feed

func (s *Storage) ReadPlayerCreations(ctx context.Context, count int64, block time.Duration) ([]storage.PlayerCreation, error) {
	deadline := time.NewTimer(block)
	defer deadline.Stop()

	for {
		if creations := s.pendingCreations(count); len(creations) > 0 {
			return creations, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, nil
		case <-s.notEmpty:
		}
	}
}

func (s *Storage) pendingCreations(count int64) []storage.PlayerCreation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var creations []storage.PlayerCreation
	for _, entry := range s.feed {
		if s.acked[entry.DeliveryID] {
			continue
		}
		creations = append(creations, entry)
		if int64(len(creations)) >= count {
			break
		}
	}
	return creations
}

func (s *Storage) AckPlayerCreations(ctx context.Context, deliveryIDs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range deliveryIDs {
		s.acked[id] = true
	}
	return nil
}
