package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"aijustice-backend/gateway"
	"aijustice-backend/models"
)

// chatSystemInstruction is the fixed system instruction for every chat
// turn. One instruction, one model, no runtime negotiation.
const chatSystemInstruction = `You are an AI legal assistant for the Indian judicial system named "AI Justice". Provide concise and accurate answers based on Indian laws, acts, and past judgments. Be formal and respectful in all your responses.`

// ChatService drives one streaming chat turn against the gateway. It is
// stateless: the caller owns the transcript, appends the user's new turn
// before calling, and accumulates the streamed model turn as deltas
// arrive.
type ChatService struct {
	gateway gateway.Gateway
}

// ChatServiceOption is a functional option for ChatService
type ChatServiceOption func(*ChatService)

// ChatWithGateway sets the generative-language gateway
func ChatWithGateway(gw gateway.Gateway) ChatServiceOption {
	return func(s *ChatService) {
		s.gateway = gw
	}
}

// NewChatService creates a new chat service
func NewChatService(opts ...ChatServiceOption) *ChatService {
	s := &ChatService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendMessage converts history into the gateway's per-turn shape, opens a
// streaming chat turn, and yields text deltas in arrival order. history is
// the ordered prior turns excluding newMessage and may be empty for the
// first turn.
//
// The returned sequence is lazy, finite, and non-restartable. A failure to
// open the stream is yielded as an error before any delta; a mid-stream
// failure terminates the sequence with an error and deltas already yielded
// stand. The client does no accumulation and no retry.
func (s *ChatService) SendMessage(ctx context.Context, history []models.ChatMessage, newMessage string) iter.Seq2[gateway.Delta, error] {
	return func(yield func(gateway.Delta, error) bool) {
		if s.gateway == nil {
			yield(gateway.Delta{}, errors.New("gateway not set"))
			return
		}
		if strings.TrimSpace(newMessage) == "" {
			yield(gateway.Delta{}, ErrEmptyInput)
			return
		}

		turns := make([]gateway.Turn, len(history))
		for i, msg := range history {
			turns[i] = gateway.Turn{
				Role: gateway.Role(msg.Role),
				Text: msg.Text,
			}
		}

		for delta, err := range s.gateway.StreamChat(ctx, chatSystemInstruction, turns, newMessage) {
			if err != nil {
				yield(gateway.Delta{}, fmt.Errorf("%w: %v", ErrGateway, err))
				return
			}
			if !yield(delta, nil) {
				return
			}
		}
	}
}
