package http

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"quizmaster-service/internal/app"
)

// Hub routes engine dispatches to connected websocket clients. It is the
// question-delivery sink: Dispatch returns an opaque handle that the client
// echoes back with its answer.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]chan<- outboundMessage[any]
}

var _ app.QuestionSink = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{clients: make(map[string]chan<- outboundMessage[any])}
}

type questionPayload struct {
	Handle  string   `json:"handle"`
	Number  int      `json:"number"` // 1-based
	Total   int      `json:"total"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	// CorrectPos tags which presented option is correct so the client can
	// render platform-native quiz semantics (e.g. highlight after answering).
	CorrectPos int `json:"correctPos"`
}

// Dispatch hands one question to the user's connection. A missing or
// saturated connection is a delivery failure the engine handles.
func (h *Hub) Dispatch(_ context.Context, userID string, d app.Dispatch) (string, error) {
	h.mu.RLock()
	send, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("no connection for user %s", userID)
	}

	handle := uuid.NewString()
	msg := outboundMessage[any]{Type: "question", Payload: questionPayload{
		Handle:     handle,
		Number:     d.Index + 1,
		Total:      d.Total,
		Prompt:     d.Prompt,
		Options:    d.Options,
		CorrectPos: d.CorrectPos,
	}}
	select {
	case send <- msg:
		return handle, nil
	default:
		return "", fmt.Errorf("connection for user %s is not draining", userID)
	}
}

func (h *Hub) register(userID string, send chan<- outboundMessage[any]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[userID] = send
}

func (h *Hub) unregister(userID string, send chan<- outboundMessage[any]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	// Only remove if this connection is still the registered one; a
	// reconnect may already have replaced it.
	if current, ok := h.clients[userID]; ok && current == send {
		delete(h.clients, userID)
	}
}
