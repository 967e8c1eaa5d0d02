package model

import "strings"

// PromptID uniquely identifies a prompt
type PromptID string

// LocalizedText is one translation of a prompt's text
type LocalizedText struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Prompt is a player-submitted short text translated into every
// supported language. Tags are case-preserving; matching against them
// is case-insensitive.
type Prompt struct {
	ID       PromptID        `json:"id"`
	Username string          `json:"username"`
	Texts    []LocalizedText `json:"texts"`
	Tags     []string        `json:"tags"`
}

// Prompt text length bounds enforced at creation
const (
	PromptTextMinLen = 20
	PromptTextMaxLen = 120
)

// TextIn returns the text entry for the given language code, if present.
func (p *Prompt) TextIn(language string) (string, bool) {
	for _, t := range p.Texts {
		if t.Language == language {
			return t.Text, true
		}
	}
	return "", false
}

// HasTag reports whether the prompt carries the given tag,
// compared case-insensitively.
func (p *Prompt) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
