package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"promptparty/internal/model"
	"promptparty/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// The player-creation feed is a Redis stream read through a consumer
// group, giving at-least-once delivery to the welcome worker.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	s := &Storage{client: client, cfg: cfg}
	if err := s.ensureFeedGroup(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) (*Storage, error) {
	s := &Storage{client: client, cfg: cfg}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.ensureFeedGroup(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interfaces
var (
	_ storage.Storage    = (*Storage)(nil)
	_ storage.PlayerFeed = (*Storage)(nil)
)

// ensureFeedGroup creates the consumer group for the player-creation
// stream if it does not exist yet.
func (s *Storage) ensureFeedGroup(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, playerFeedKey(), s.cfg.FeedGroup, "0").Err()
	if err != nil && !isBusyGroup(err) {
		return err
	}
	return nil
}

func isBusyGroup(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP")
}

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	// Write the document and append the creation event in one pipeline
	pipe := s.client.Pipeline()
	pipe.Set(ctx, playerKey(player.Username), data, 0)
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: playerFeedKey(),
		MaxLen: s.cfg.FeedMaxLen,
		Approx: true,
		Values: map[string]any{"player": string(data)},
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) UpdatePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, playerKey(player.Username), data, 0).Err()
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

// Prompt operations

func (s *Storage) SavePrompt(ctx context.Context, prompt *model.Prompt) error {
	data, err := json.Marshal(prompt)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + owner index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, promptKey(prompt.ID), data, 0)
	pipe.RPush(ctx, promptsByOwnerIndexKey(prompt.Username), string(prompt.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPromptsByIDs(ctx context.Context, ids []model.PromptID) ([]*model.Prompt, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = promptKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	// Missing ids come back as nil and are skipped
	prompts := make([]*model.Prompt, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var prompt model.Prompt
		if err := json.Unmarshal([]byte(raw), &prompt); err != nil {
			return nil, err
		}
		prompts = append(prompts, &prompt)
	}
	return prompts, nil
}

func (s *Storage) GetPromptsByOwner(ctx context.Context, username string) ([]*model.Prompt, error) {
	ids, err := s.client.LRange(ctx, promptsByOwnerIndexKey(username), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	promptIDs := make([]model.PromptID, len(ids))
	for i, id := range ids {
		promptIDs[i] = model.PromptID(id)
	}
	return s.GetPromptsByIDs(ctx, promptIDs)
}

func (s *Storage) DeletePromptsByOwner(ctx context.Context, username string) (int, error) {
	indexKey := promptsByOwnerIndexKey(username)
	ids, err := s.client.LRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, promptKey(model.PromptID(id)))
	}
	keys = append(keys, indexKey)

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Player-creation feed

func (s *Storage) ReadPlayerCreations(ctx context.Context, count int64, block time.Duration) ([]storage.PlayerCreation, error) {
	// Reclaim unacknowledged deliveries and read new entries in the same
	// pass, so a delivery that keeps failing cannot starve the feed
	pending, err := s.readFeed(ctx, "0", count, -1)
	if err != nil {
		return nil, err
	}
	if int64(len(pending)) >= count {
		return pending, nil
	}

	freshBlock := block
	if len(pending) > 0 {
		freshBlock = -1
	}
	fresh, err := s.readFeed(ctx, ">", count-int64(len(pending)), freshBlock)
	if err != nil {
		return nil, err
	}
	return append(pending, fresh...), nil
}

func (s *Storage) readFeed(ctx context.Context, id string, count int64, block time.Duration) ([]storage.PlayerCreation, error) {
	// go-redis treats a zero Block as "block forever"; use a negative
	// value to skip the BLOCK option entirely
	if block <= 0 {
		block = -1
	}
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.cfg.FeedGroup,
		Consumer: s.cfg.FeedConsumer,
		Streams:  []string{playerFeedKey(), id},
		Count:    count,
		Block:    block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var creations []storage.PlayerCreation
	for _, stream := range streams {
		for _, msg := range stream.Messages {
			raw, ok := msg.Values["player"].(string)
			if !ok {
				// Malformed entry; ack it away so it is not redelivered forever
				_ = s.client.XAck(ctx, playerFeedKey(), s.cfg.FeedGroup, msg.ID).Err()
				continue
			}
			var player model.Player
			if err := json.Unmarshal([]byte(raw), &player); err != nil {
				_ = s.client.XAck(ctx, playerFeedKey(), s.cfg.FeedGroup, msg.ID).Err()
				continue
			}
			creations = append(creations, storage.PlayerCreation{
				DeliveryID: msg.ID,
				Player:     player,
			})
		}
	}
	return creations, nil
}

func (s *Storage) AckPlayerCreations(ctx context.Context, deliveryIDs ...string) error {
	if len(deliveryIDs) == 0 {
		return nil
	}
	return s.client.XAck(ctx, playerFeedKey(), s.cfg.FeedGroup, deliveryIDs...).Err()
}
