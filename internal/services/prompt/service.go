package prompt

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"promptparty/internal/model"
	"promptparty/internal/services/translation"
	"promptparty/internal/storage"
)

// Service orchestrates the prompt lifecycle: creation with fan-out
// translation, tag-filtered retrieval and bulk deletion.
type Service struct {
	storage    storage.Storage
	translator translation.Localizer
	logger     *slog.Logger
}

// New creates a new prompt service
func New(storage storage.Storage, translator translation.Localizer, logger *slog.Logger) *Service {
	return &Service{
		storage:    storage,
		translator: translator,
		logger:     logger,
	}
}

// Create validates the text, resolves the owner, deduplicates tags and
// persists a prompt with a full translation bundle. The source
// language is auto-detected.
func (s *Service) Create(ctx context.Context, username, text string, tags []string) (*model.Prompt, error) {
	return s.create(ctx, username, text, "", tags)
}

// CreateWithSource is Create with a fixed source language, skipping
// detection. Used for generated prompts whose language is known.
func (s *Service) CreateWithSource(ctx context.Context, username, text, source string, tags []string) (*model.Prompt, error) {
	return s.create(ctx, username, text, source, tags)
}

func (s *Service) create(ctx context.Context, username, text, source string, tags []string) (*model.Prompt, error) {
	// Bounds are in characters, not bytes
	if n := utf8.RuneCountInString(text); n < model.PromptTextMinLen || n > model.PromptTextMaxLen {
		return nil, fmt.Errorf("%w: prompt text must be %d-%d characters",
			model.ErrValidation, model.PromptTextMinLen, model.PromptTextMaxLen)
	}

	if _, err := s.storage.GetPlayerByUsername(ctx, username); err != nil {
		return nil, err
	}

	texts, err := s.translator.Localize(ctx, text, source)
	if err != nil {
		return nil, err
	}

	prompt := &model.Prompt{
		ID:       model.PromptID("pr_" + uuid.NewString()),
		Username: username,
		Texts:    texts,
		Tags:     dedupeTags(tags),
	}

	if err := s.storage.SavePrompt(ctx, prompt); err != nil {
		return nil, err
	}

	s.logger.Info("prompt created",
		slog.String("prompt_id", string(prompt.ID)),
		slog.String("username", username),
	)
	return prompt, nil
}

// FindByIDs returns the prompts with the given ids; ids with no match
// are silently skipped.
func (s *Service) FindByIDs(ctx context.Context, ids []model.PromptID) ([]*model.Prompt, error) {
	return s.storage.GetPromptsByIDs(ctx, ids)
}

// FindByOwner returns all prompts owned by username
func (s *Service) FindByOwner(ctx context.Context, username string) ([]*model.Prompt, error) {
	return s.storage.GetPromptsByOwner(ctx, username)
}

// FindByOwnersAndTags returns, grouped by owner in input order, every
// prompt owned by one of the usernames that carries at least one of
// the given tags (case-insensitive).
func (s *Service) FindByOwnersAndTags(ctx context.Context, usernames, tags []string) ([]*model.Prompt, error) {
	var matched []*model.Prompt
	for _, username := range usernames {
		prompts, err := s.storage.GetPromptsByOwner(ctx, username)
		if err != nil {
			return nil, err
		}
		for _, p := range prompts {
			if hasAnyTag(p, tags) {
				matched = append(matched, p)
			}
		}
	}
	return matched, nil
}

// DeleteByOwner deletes every prompt owned by username and returns the
// number deleted.
func (s *Service) DeleteByOwner(ctx context.Context, username string) (int, error) {
	deleted, err := s.storage.DeletePromptsByOwner(ctx, username)
	if err != nil {
		return 0, err
	}
	s.logger.Info("prompts deleted",
		slog.String("username", username),
		slog.Int("count", deleted),
	)
	return deleted, nil
}

// dedupeTags removes duplicate tags, preserving case and first
// occurrence order. Duplicates are compared exactly, as stored.
func dedupeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	deduped := make([]string, 0, len(tags))
	for _, tag := range tags {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		deduped = append(deduped, tag)
	}
	return deduped
}

func hasAnyTag(p *model.Prompt, tags []string) bool {
	for _, tag := range tags {
		if p.HasTag(tag) {
			return true
		}
	}
	return false
}

// ContainsPhrase reports whether any text entry of the prompt contains
// phrase, case-insensitively.
func ContainsPhrase(p *model.Prompt, phrase string) bool {
	needle := strings.ToLower(phrase)
	for _, t := range p.Texts {
		if strings.Contains(strings.ToLower(t.Text), needle) {
			return true
		}
	}
	return false
}
