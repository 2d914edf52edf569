package analysis

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"gitalyzer/internal/models"
)

type Client struct {
	client *openai.Client
	model  string
}

func NewClient(baseURL, apiKey, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Explain sends the repository context to the model and parses the reply
// into an Analysis. The reply is validated against the analysis shape right
// here, so a syntactically valid but misshapen reply surfaces as an error
// and the caller can decide to fall back.
func (c *Client) Explain(ctx context.Context, repoContext string) (models.Analysis, string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(repoContext)},
		},
		// No ResponseFormat — not all models support json_object mode.
		// The prompt instructs the model to return pure JSON.
		Temperature: 0.3,
	})
	if err != nil {
		return models.Analysis{}, "", fmt.Errorf("LLM call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.Analysis{}, "", fmt.Errorf("no choices returned")
	}

	raw := resp.Choices[0].Message.Content
	parsed, err := models.ParseAnalysis([]byte(stripCodeFences(raw)))
	if err != nil {
		return models.Analysis{}, "", fmt.Errorf("parsing LLM response: %w\nraw: %s", err, raw)
	}
	return parsed, raw, nil
}

// buildUserPrompt renders the instruction block that asks the model for
// structured JSON, followed by the repository context.
func buildUserPrompt(repoContext string) string {
	var b strings.Builder
	b.WriteString("You will receive a description of a GitHub repository. ")
	b.WriteString("Explain the project to a complete beginner and respond with valid JSON.\n\n")
	b.WriteString("Required JSON fields:\n")
	for _, f := range analysisFields {
		fmt.Fprintf(&b, "- %s: %s\n", f.name, f.description)
	}
	b.WriteString("\nImportant rules:\n")
	b.WriteString("- Keep language friendly and free of jargon.\n")
	b.WriteString("- Every list should contain at least three helpful items when possible.\n")
	b.WriteString("- Definitions in the glossary must be short and clear.\n")
	b.WriteString("- Return only valid JSON. Do not wrap it in code fences.\n\n")
	b.WriteString("Repository information:\n")
	b.WriteString(repoContext)
	return b.String()
}

// stripCodeFences removes markdown code fences that some models wrap around JSON.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		// Remove opening fence (```json or ```)
		if i := strings.Index(s, "\n"); i != -1 {
			s = s[i+1:]
		}
		// Remove closing fence
		if i := strings.LastIndex(s, "```"); i != -1 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
