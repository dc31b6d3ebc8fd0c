package gateway

import (
	"context"
	"iter"

	"github.com/google/generative-ai-go/genai"
)

// DefaultModel is the single model identifier shared by every operation:
// structured analysis, bias detection, and chat.
const DefaultModel = "gemini-2.5-flash"

// Role identifies the author of a conversation turn in the shape the
// generative-language API expects.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one prior entry of a conversation history.
type Turn struct {
	Role Role
	Text string
}

// Delta is one incremental fragment of a streamed model reply. The caller
// reconstructs the full reply by concatenating delta texts in order.
type Delta struct {
	Text string
}

// Gateway abstracts the generative-language service so services can be
// tested against a fake. The real implementation is Gemini.
type Gateway interface {
	// GenerateJSON issues a one-shot generation constrained to the given
	// output schema and returns the raw response text. When the call
	// succeeds the text is expected to be JSON matching the schema, but
	// callers must still validate it.
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error)

	// StreamChat opens a chat configured with systemInstruction and the
	// prior history, sends message, and yields response deltas in arrival
	// order. The sequence is finite and non-restartable; a failure to open
	// the stream is yielded as an error before any delta. A mid-stream
	// failure terminates the sequence with an error; deltas already
	// yielded stand.
	StreamChat(ctx context.Context, systemInstruction string, history []Turn, message string) iter.Seq2[Delta, error]
}
