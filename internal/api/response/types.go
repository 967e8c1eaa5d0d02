package response

import (
	"promptparty/internal/model"
	"promptparty/internal/services/moderation"
)

// LocalizedText is one translation in API responses
type LocalizedText struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Prompt represents a prompt in API responses
type Prompt struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Texts    []LocalizedText `json:"texts"`
	Tags     []string        `json:"tags"`
}

// PromptFromModel converts a model.Prompt to a response Prompt
func PromptFromModel(p *model.Prompt) Prompt {
	texts := make([]LocalizedText, len(p.Texts))
	for i, t := range p.Texts {
		texts[i] = LocalizedText{Text: t.Text, Language: t.Language}
	}
	return Prompt{
		ID:       string(p.ID),
		Username: p.Username,
		Texts:    texts,
		Tags:     p.Tags,
	}
}

// PromptsFromModels converts a slice of prompts
func PromptsFromModels(prompts []*model.Prompt) []Prompt {
	out := make([]Prompt, len(prompts))
	for i, p := range prompts {
		out[i] = PromptFromModel(p)
	}
	return out
}

// Verdict is one moderation result in API responses
type Verdict struct {
	PromptID        string  `json:"prompt-id"`
	Outcome         bool    `json:"outcome"`
	AverageSeverity float64 `json:"average_severity"`
}

// VerdictsFromModeration converts moderation verdicts
func VerdictsFromModeration(verdicts []moderation.Verdict) []Verdict {
	out := make([]Verdict, len(verdicts))
	for i, v := range verdicts {
		out[i] = Verdict{
			PromptID:        string(v.PromptID),
			Outcome:         v.Outcome,
			AverageSeverity: v.AverageSeverity,
		}
	}
	return out
}
