package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"aijustice-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tmaxmax/go-sse"
)

// SSE event types emitted while a model reply streams.
var (
	deltaSSEType = sse.Type("delta")
	doneSSEType  = sse.Type("done")
	errorSSEType = sse.Type("error")
)

// ChatHandler handles HTTP requests for chat sessions. Model replies are
// streamed to the client as Server-Sent Events, one delta per gateway
// chunk.
type ChatHandler struct {
	sessionService *service.SessionService
	chatService    *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(sessionService *service.SessionService, chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		sessionService: sessionService,
		chatService:    chatService,
	}
}

// CreateSession handles POST /api/sessions
func (h *ChatHandler) CreateSession(c *gin.Context) {
	session, err := h.sessionService.Create(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    session,
	})
}

// GetSession handles GET /api/sessions/:id
func (h *ChatHandler) GetSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Chat session not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    session,
	})
}

// GetMessages handles GET /api/sessions/:id/messages
func (h *ChatHandler) GetMessages(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	messages, err := h.sessionService.Messages(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Chat session not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    messages,
	})
}

// DeleteSession handles DELETE /api/sessions/:id
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	if err := h.sessionService.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Chat session not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": id},
	})
}

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// SendMessage handles POST /api/sessions/:id/messages. The user turn is
// appended to the transcript before the stream opens; the response is an
// SSE stream of delta events followed by a terminal done or error event.
// Deltas already sent are never retracted.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	turn, err := h.sessionService.BeginTurn(c.Request.Context(), service.BeginTurnRequest{
		SessionID: id,
		Text:      req.Message,
	})
	if err != nil {
		h.writeBeginTurnError(c, err)
		return
	}

	ctx := c.Request.Context()
	sess, err := sse.Upgrade(c.Writer, c.Request)
	if err != nil {
		_ = h.sessionService.FailTurn(ctx, id, turn.ModelMessage.ID)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STREAM_UNSUPPORTED",
				"message": err.Error(),
			},
		})
		return
	}

	for delta, err := range h.chatService.SendMessage(ctx, turn.History, req.Message) {
		if err != nil {
			log.Printf("Chat stream for session %s failed: %v", id, err)
			if failErr := h.sessionService.FailTurn(ctx, id, turn.ModelMessage.ID); failErr != nil {
				log.Printf("Failed to mark turn interrupted: %v", failErr)
			}
			h.sendEvent(sess, errorSSEType, gin.H{
				"code":    "GATEWAY_ERROR",
				"message": err.Error(),
			})
			return
		}

		if err := h.sessionService.AppendDelta(ctx, id, turn.ModelMessage.ID, delta.Text); err != nil {
			log.Printf("Failed to append delta to session %s: %v", id, err)
		}
		h.sendEvent(sess, deltaSSEType, gin.H{"text": delta.Text})
	}

	if err := h.sessionService.CompleteTurn(ctx, id); err != nil {
		log.Printf("Failed to complete turn for session %s: %v", id, err)
	}

	final, err := h.sessionService.Messages(ctx, id)
	if err == nil && len(final) > 0 {
		h.sendEvent(sess, doneSSEType, final[len(final)-1])
		return
	}
	h.sendEvent(sess, doneSSEType, gin.H{"id": turn.ModelMessage.ID})
}

func (h *ChatHandler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid session ID format",
			},
		})
		return uuid.UUID{}, false
	}
	return id, true
}

// sendEvent marshals payload as one SSE event. Delta text travels as JSON
// so fragments survive the wire byte for byte.
func (h *ChatHandler) sendEvent(sess *sse.Session, eventType sse.EventType, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal SSE payload: %v", err)
		return
	}

	msg := &sse.Message{Type: eventType}
	msg.AppendData(string(data))
	if err := sess.Send(msg); err != nil {
		log.Printf("Failed to send SSE event: %v", err)
		return
	}
	if err := sess.Flush(); err != nil {
		log.Printf("Failed to flush SSE event: %v", err)
	}
}

func (h *ChatHandler) writeBeginTurnError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyInput):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EMPTY_MESSAGE",
				"message": "Message must not be blank",
			},
		})
	case errors.Is(err, service.ErrTurnInFlight):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TURN_IN_FLIGHT",
				"message": "A reply is already streaming for this session",
			},
		})
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Chat session not found",
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SEND_FAILED",
				"message": err.Error(),
			},
		})
	}
}
