package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"error": err.Error()})
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case StatusResult:
		o.printStatus(v)
	case []Verdict:
		o.printVerdicts(v)
	case []Prompt:
		o.printPrompts(v)
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printStatus(s StatusResult) {
	if s.Result {
		fmt.Println(s.Msg)
	} else {
		fmt.Printf("Failed: %s\n", s.Msg)
	}
}

func (o *Output) printVerdicts(verdicts []Verdict) {
	for _, v := range verdicts {
		flag := "pass"
		if v.Outcome {
			flag = "FLAGGED"
		}
		fmt.Printf("%s  severity=%.2f  %s\n", v.PromptID, v.AverageSeverity, flag)
	}
}

func (o *Output) printPrompts(prompts []Prompt) {
	for _, p := range prompts {
		fmt.Printf("%s (%s) tags=[%s]\n", p.ID, p.Username, strings.Join(p.Tags, ", "))
		for _, t := range p.Texts {
			fmt.Printf("  %-8s %s\n", t.Language, t.Text)
		}
	}
}

// Verdict is one moderation result
type Verdict struct {
	PromptID        string  `json:"prompt-id"`
	Outcome         bool    `json:"outcome"`
	AverageSeverity float64 `json:"average_severity"`
}

// LocalizedText is one translation of a prompt
type LocalizedText struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Prompt is a prompt as returned by the API
type Prompt struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Texts    []LocalizedText `json:"texts"`
	Tags     []string        `json:"tags"`
}

// HealthResult is the health endpoint response
type HealthResult struct {
	Status string `json:"status"`
}
