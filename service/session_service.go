package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"aijustice-backend/models"
	"aijustice-backend/repository"

	"github.com/google/uuid"
)

// SessionService is the single owner of chat transcripts. It appends the
// user's new turn before a stream is opened, updates the model turn in
// place as deltas arrive, and serializes sends per session so two streams
// never append to the same transcript position.
type SessionService struct {
	sessionRepo *repository.SessionRepository
}

// SessionServiceOption is a functional option for SessionService
type SessionServiceOption func(*SessionService)

// SessionWithRepository sets the session repository
func SessionWithRepository(repo *repository.SessionRepository) SessionServiceOption {
	return func(s *SessionService) {
		s.sessionRepo = repo
	}
}

// NewSessionService creates a new session service
func NewSessionService(opts ...SessionServiceOption) *SessionService {
	s := &SessionService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a new empty chat session.
func (s *SessionService) Create(ctx context.Context) (*models.ChatSession, error) {
	if s.sessionRepo == nil {
		return nil, errors.New("session repository not set")
	}
	return s.sessionRepo.Create(ctx)
}

// Get retrieves a session by ID.
func (s *SessionService) Get(ctx context.Context, id uuid.UUID) (*models.ChatSession, error) {
	if s.sessionRepo == nil {
		return nil, errors.New("session repository not set")
	}

	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Messages returns the session transcript in insertion order.
func (s *SessionService) Messages(ctx context.Context, id uuid.UUID) ([]models.ChatMessage, error) {
	if s.sessionRepo == nil {
		return nil, errors.New("session repository not set")
	}

	messages, err := s.sessionRepo.Messages(ctx, id)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return messages, nil
}

// Delete performs a full session reset, the only way a transcript ever
// loses turns.
func (s *SessionService) Delete(ctx context.Context, id uuid.UUID) error {
	if s.sessionRepo == nil {
		return errors.New("session repository not set")
	}

	if err := s.sessionRepo.Delete(ctx, id); err != nil {
		return ErrSessionNotFound
	}
	return nil
}

// BeginTurnRequest represents a request to open a streaming turn
type BeginTurnRequest struct {
	SessionID uuid.UUID
	Text      string
}

// BeginTurnResult carries the transcript state needed to drive the turn.
// History excludes the new user turn, matching what ChatService.SendMessage
// expects.
type BeginTurnResult struct {
	History      []models.ChatMessage
	UserMessage  models.ChatMessage
	ModelMessage models.ChatMessage
}

// BeginTurn appends the user's turn and an empty model turn placeholder,
// and marks the session busy. It fails with ErrTurnInFlight while a prior
// stream for the same session is still open; the caller must close the
// turn with CompleteTurn or FailTurn.
func (s *SessionService) BeginTurn(ctx context.Context, req BeginTurnRequest) (*BeginTurnResult, error) {
	if s.sessionRepo == nil {
		return nil, errors.New("session repository not set")
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	if err := s.sessionRepo.BeginTurn(ctx, req.SessionID); err != nil {
		if errors.Is(err, repository.ErrTurnOpen) {
			return nil, ErrTurnInFlight
		}
		return nil, ErrSessionNotFound
	}

	history, err := s.sessionRepo.Messages(ctx, req.SessionID)
	if err != nil {
		s.endTurn(ctx, req.SessionID)
		return nil, ErrSessionNotFound
	}

	now := time.Now()
	userMsg := models.ChatMessage{
		ID:        uuid.New(),
		Role:      models.RoleUser,
		Text:      text,
		CreatedAt: now,
	}
	modelMsg := models.ChatMessage{
		ID:        uuid.New(),
		Role:      models.RoleModel,
		CreatedAt: now,
	}

	if err := s.sessionRepo.AppendMessage(ctx, req.SessionID, userMsg); err != nil {
		s.endTurn(ctx, req.SessionID)
		return nil, err
	}
	if err := s.sessionRepo.AppendMessage(ctx, req.SessionID, modelMsg); err != nil {
		s.endTurn(ctx, req.SessionID)
		return nil, err
	}

	return &BeginTurnResult{
		History:      history,
		UserMessage:  userMsg,
		ModelMessage: modelMsg,
	}, nil
}

// AppendDelta accumulates one streamed fragment onto the model turn,
// updating the transcript in place.
func (s *SessionService) AppendDelta(ctx context.Context, sessionID, messageID uuid.UUID, fragment string) error {
	msg, err := s.message(ctx, sessionID, messageID)
	if err != nil {
		return err
	}

	msg.Text += fragment
	return s.sessionRepo.UpdateMessage(ctx, sessionID, *msg)
}

// CompleteTurn closes a successfully streamed turn.
func (s *SessionService) CompleteTurn(ctx context.Context, sessionID uuid.UUID) error {
	if s.sessionRepo == nil {
		return errors.New("session repository not set")
	}
	return s.sessionRepo.EndTurn(ctx, sessionID)
}

// FailTurn closes a turn whose stream failed. Whatever text was already
// delivered stands; the model turn is marked interrupted so callers can
// tell a truncated reply from a complete one.
func (s *SessionService) FailTurn(ctx context.Context, sessionID, messageID uuid.UUID) error {
	msg, err := s.message(ctx, sessionID, messageID)
	if err != nil {
		s.endTurn(ctx, sessionID)
		return err
	}

	msg.Interrupted = true
	if err := s.sessionRepo.UpdateMessage(ctx, sessionID, *msg); err != nil {
		s.endTurn(ctx, sessionID)
		return err
	}

	return s.sessionRepo.EndTurn(ctx, sessionID)
}

func (s *SessionService) message(ctx context.Context, sessionID, messageID uuid.UUID) (*models.ChatMessage, error) {
	if s.sessionRepo == nil {
		return nil, errors.New("session repository not set")
	}

	messages, err := s.sessionRepo.Messages(ctx, sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	for i := range messages {
		if messages[i].ID == messageID {
			return &messages[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *SessionService) endTurn(ctx context.Context, sessionID uuid.UUID) {
	// Already in error handling; nothing useful to do with a failure here.
	_ = s.sessionRepo.EndTurn(ctx, sessionID)
}
