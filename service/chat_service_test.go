package service

import (
	"context"
	"errors"
	"iter"
	"strings"
	"testing"

	"aijustice-backend/gateway"
	"aijustice-backend/models"

	"github.com/google/uuid"
)

func streamOf(deltas ...string) iter.Seq2[gateway.Delta, error] {
	return func(yield func(gateway.Delta, error) bool) {
		for _, d := range deltas {
			if !yield(gateway.Delta{Text: d}, nil) {
				return
			}
		}
	}
}

func collect(t *testing.T, seq iter.Seq2[gateway.Delta, error]) ([]string, error) {
	t.Helper()
	var deltas []string
	for delta, err := range seq {
		if err != nil {
			return deltas, err
		}
		deltas = append(deltas, delta.Text)
	}
	return deltas, nil
}

func TestSendMessage_DeltasInOrder(t *testing.T) {
	gw := &fakeGateway{
		streamChatFunc: func(_ context.Context, _ string, _ []gateway.Turn, _ string) iter.Seq2[gateway.Delta, error] {
			return streamOf("The ", "law ", "states...")
		},
	}
	service := NewChatService(ChatWithGateway(gw))

	deltas, err := collect(t, service.SendMessage(context.Background(), nil, "What does the law say?"))
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	want := []string{"The ", "law ", "states..."}
	if len(deltas) != len(want) {
		t.Fatalf("expected %d deltas, got %d", len(want), len(deltas))
	}
	for i := range want {
		if deltas[i] != want[i] {
			t.Errorf("delta %d: expected %q, got %q", i, want[i], deltas[i])
		}
	}
	if got := strings.Join(deltas, ""); got != "The law states..." {
		t.Errorf("concatenated reply mismatch: %q", got)
	}
}

func TestSendMessage_HistoryMapping(t *testing.T) {
	history := []models.ChatMessage{
		{ID: uuid.New(), Role: models.RoleUser, Text: "What is IPC 302?"},
		{ID: uuid.New(), Role: models.RoleModel, Text: "IPC Section 302 concerns punishment for murder."},
		{ID: uuid.New(), Role: models.RoleUser, Text: "And the punishment?"},
		{ID: uuid.New(), Role: models.RoleModel, Text: "Death or imprisonment for life, and a fine."},
	}

	var gotSystem string
	var gotHistory []gateway.Turn
	var gotMessage string
	gw := &fakeGateway{
		streamChatFunc: func(_ context.Context, system string, turns []gateway.Turn, message string) iter.Seq2[gateway.Delta, error] {
			gotSystem = system
			gotHistory = turns
			gotMessage = message
			return streamOf("reply")
		},
	}
	service := NewChatService(ChatWithGateway(gw))

	if _, err := collect(t, service.SendMessage(context.Background(), history, "Cite a precedent.")); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	if len(gotHistory) != len(history) {
		t.Fatalf("expected %d history turns, got %d", len(history), len(gotHistory))
	}
	for i, turn := range gotHistory {
		if string(turn.Role) != string(history[i].Role) {
			t.Errorf("turn %d: expected role %q, got %q", i, history[i].Role, turn.Role)
		}
		if turn.Text != history[i].Text {
			t.Errorf("turn %d: expected text %q, got %q", i, history[i].Text, turn.Text)
		}
	}
	if gotMessage != "Cite a precedent." {
		t.Errorf("unexpected message: %q", gotMessage)
	}
	if !strings.Contains(gotSystem, "Indian judicial system") {
		t.Errorf("expected fixed system instruction, got: %q", gotSystem)
	}
}

func TestSendMessage_EmptyMessage(t *testing.T) {
	gw := &fakeGateway{}
	service := NewChatService(ChatWithGateway(gw))

	deltas, err := collect(t, service.SendMessage(context.Background(), nil, "   "))
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got: %v", err)
	}
	if len(deltas) != 0 {
		t.Errorf("expected no deltas, got %v", deltas)
	}
	if gw.streamCalls != 0 {
		t.Errorf("expected no gateway calls, got %d", gw.streamCalls)
	}
}

func TestSendMessage_OpenFailure(t *testing.T) {
	gw := &fakeGateway{
		streamChatFunc: func(context.Context, string, []gateway.Turn, string) iter.Seq2[gateway.Delta, error] {
			return func(yield func(gateway.Delta, error) bool) {
				yield(gateway.Delta{}, errors.New("connection refused"))
			}
		},
	}
	service := NewChatService(ChatWithGateway(gw))

	deltas, err := collect(t, service.SendMessage(context.Background(), nil, "hello"))
	if !errors.Is(err, ErrGateway) {
		t.Fatalf("expected ErrGateway, got: %v", err)
	}
	if len(deltas) != 0 {
		t.Errorf("expected failure before any delta, got %v", deltas)
	}
}

func TestSendMessage_MidStreamFailure(t *testing.T) {
	gw := &fakeGateway{
		streamChatFunc: func(context.Context, string, []gateway.Turn, string) iter.Seq2[gateway.Delta, error] {
			return func(yield func(gateway.Delta, error) bool) {
				if !yield(gateway.Delta{Text: "Partial "}, nil) {
					return
				}
				if !yield(gateway.Delta{Text: "answer"}, nil) {
					return
				}
				yield(gateway.Delta{}, errors.New("stream reset"))
			}
		},
	}
	service := NewChatService(ChatWithGateway(gw))

	deltas, err := collect(t, service.SendMessage(context.Background(), nil, "hello"))
	if !errors.Is(err, ErrGateway) {
		t.Fatalf("expected terminal ErrGateway, got: %v", err)
	}
	// Deltas already delivered stand.
	if got := strings.Join(deltas, ""); got != "Partial answer" {
		t.Errorf("expected partial text %q, got %q", "Partial answer", got)
	}
}

func TestSendMessage_EarlyTermination(t *testing.T) {
	yielded := 0
	gw := &fakeGateway{
		streamChatFunc: func(context.Context, string, []gateway.Turn, string) iter.Seq2[gateway.Delta, error] {
			return func(yield func(gateway.Delta, error) bool) {
				for _, d := range []string{"a", "b", "c", "d"} {
					if !yield(gateway.Delta{Text: d}, nil) {
						return
					}
					yielded++
				}
			}
		},
	}
	service := NewChatService(ChatWithGateway(gw))

	var got []string
	for delta, err := range service.SendMessage(context.Background(), nil, "hello") {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, delta.Text)
		if len(got) == 2 {
			break
		}
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 deltas after early break, got %d", len(got))
	}
	if yielded > 2 {
		t.Errorf("expected the upstream to stop after the break, yielded %d", yielded)
	}
}
