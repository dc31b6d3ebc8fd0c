package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"aijustice-backend/models"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrTurnOpen is returned when a streaming turn is already in flight
	// for the session.
	ErrTurnOpen = errors.New("a turn is already in flight for this session")
	// ErrDuplicateMessage is returned when a message id already exists in
	// the transcript.
	ErrDuplicateMessage = errors.New("duplicate message id in transcript")
)

type sessionRecord struct {
	session  models.ChatSession
	messages []models.ChatMessage
	turnOpen bool
}

// SessionRepository stores chat sessions and their transcripts in memory.
// Sessions are never persisted; a process restart resets every transcript.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionRecord
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[uuid.UUID]*sessionRecord),
	}
}

// Create creates a new empty session.
func (r *SessionRepository) Create(_ context.Context) (*models.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	session := models.ChatSession{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.sessions[session.ID] = &sessionRecord{session: session}

	return &session, nil
}

// GetByID retrieves a session by ID.
func (r *SessionRepository) GetByID(_ context.Context, id uuid.UUID) (*models.ChatSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	session := rec.session
	return &session, nil
}

// Messages returns a copy of the session transcript in insertion order.
func (r *SessionRepository) Messages(_ context.Context, id uuid.UUID) ([]models.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	messages := make([]models.ChatMessage, len(rec.messages))
	copy(messages, rec.messages)
	return messages, nil
}

// AppendMessage appends a message to the session transcript. Message ids
// must be unique within a transcript; consecutive same-role turns are
// tolerated.
func (r *SessionRepository) AppendMessage(_ context.Context, id uuid.UUID, msg models.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.sessions[id]
	if !ok {
		return ErrNotFound
	}

	for i := range rec.messages {
		if rec.messages[i].ID == msg.ID {
			return ErrDuplicateMessage
		}
	}

	rec.messages = append(rec.messages, msg)
	rec.session.UpdatedAt = time.Now()
	return nil
}

// UpdateMessage updates an existing transcript message in place, matched
// by message ID. The transcript is never reordered.
func (r *SessionRepository) UpdateMessage(_ context.Context, id uuid.UUID, msg models.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.sessions[id]
	if !ok {
		return ErrNotFound
	}

	for i := range rec.messages {
		if rec.messages[i].ID == msg.ID {
			rec.messages[i] = msg
			rec.session.UpdatedAt = time.Now()
			return nil
		}
	}

	return ErrNotFound
}

// Delete removes a session and its transcript entirely.
func (r *SessionRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

// BeginTurn marks the session as having a streaming turn in flight. A
// second call before EndTurn fails with ErrTurnOpen, serializing sends
// against the same transcript.
func (r *SessionRepository) BeginTurn(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.sessions[id]
	if !ok {
		return ErrNotFound
	}
	if rec.turnOpen {
		return ErrTurnOpen
	}
	rec.turnOpen = true
	return nil
}

// EndTurn clears the in-flight marker for the session.
func (r *SessionRepository) EndTurn(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.sessions[id]
	if !ok {
		return ErrNotFound
	}
	rec.turnOpen = false
	return nil
}
