package gateway

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
)

// Gemini implements Gateway on top of the Google generative-language SDK.
// The underlying client is read-only after construction and safe to share
// across concurrent calls.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini wraps an initialized genai client. An empty model falls back
// to DefaultModel.
func NewGemini(client *genai.Client, model string) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{
		client: client,
		model:  model,
	}
}

// GenerateJSON runs a one-shot structured generation. The schema switches
// the model into JSON output mode so generation is constrained to the
// schema's required fields.
func (g *Gemini) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	model := g.client.GenerativeModel(g.model)
	if schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = schema
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := collectText(resp)
	if text == "" {
		return "", fmt.Errorf("model returned no text candidates")
	}

	return text, nil
}

// StreamChat opens a chat session seeded with the prior history and
// streams the reply to message chunk by chunk.
func (g *Gemini) StreamChat(ctx context.Context, systemInstruction string, history []Turn, message string) iter.Seq2[Delta, error] {
	return func(yield func(Delta, error) bool) {
		model := g.client.GenerativeModel(g.model)
		if systemInstruction != "" {
			model.SystemInstruction = &genai.Content{
				Parts: []genai.Part{genai.Text(systemInstruction)},
			}
		}

		cs := model.StartChat()
		cs.History = make([]*genai.Content, 0, len(history))
		for _, turn := range history {
			cs.History = append(cs.History, &genai.Content{
				Role:  string(turn.Role),
				Parts: []genai.Part{genai.Text(turn.Text)},
			})
		}

		it := cs.SendMessageStream(ctx, genai.Text(message))
		for {
			resp, err := it.Next()
			if err == iterator.Done {
				return
			}
			if err != nil {
				yield(Delta{}, fmt.Errorf("chat stream: %w", err))
				return
			}

			chunk := collectText(resp)
			if chunk == "" {
				continue
			}
			if !yield(Delta{Text: chunk}, nil) {
				return
			}
		}
	}
}

// collectText concatenates the text parts of every candidate in order.
func collectText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}
