package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/domain"
	"quizmaster-service/internal/ingest"
)

// WSHandler wires websocket connections into the ingestion pipeline and the
// session engine. Each connection serves one user; inbound messages carry
// planning commands and answer events, outbound messages carry questions and
// results.
type WSHandler struct {
	hub      *Hub
	engine   *app.Engine
	pipeline *ingest.Pipeline
	tests    app.TestStore
	log      *zap.SugaredLogger
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *Hub, engine *app.Engine, pipeline *ingest.Pipeline, tests app.TestStore, log *zap.SugaredLogger) *WSHandler {
	return &WSHandler{
		hub:      hub,
		engine:   engine,
		pipeline: pipeline,
		tests:    tests,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type uploadPayload struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Format  string `json:"format"` // "document" or "text"
}

type parsedPayload struct {
	Name      string `json:"name"`
	Questions int    `json:"questions"`
	HadErrors bool   `json:"hadErrors"`
}

type startPayload struct {
	Name string `json:"name"`
}

type planningPayload struct {
	Name      string `json:"name"`
	Questions int    `json:"questions"`
}

type rangePayload struct {
	Range string `json:"range"`
}

type shufflePayload struct {
	Shuffle bool `json:"shuffle"`
}

type answerPayload struct {
	Handle string `json:"handle"`
	Option int    `json:"option"`
}

type namePayload struct {
	Name string `json:"name"`
}

type testsPayload struct {
	Names []string `json:"names"`
}

type deletedPayload struct {
	Name    string `json:"name"`
	Deleted bool   `json:"deleted"`
}

// ServeWS upgrades the request and runs the per-user message loop.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debugw("ws write error", "user", userID, "error", err)
				return
			}
		}
	}()

	h.hub.register(userID, send)
	defer func() {
		h.hub.unregister(userID, send)
		close(send)
		<-writerDone
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		h.handle(r.Context(), userID, inbound, send)
	}
}

func (h *WSHandler) handle(ctx context.Context, userID string, inbound inboundMessage, send chan<- outboundMessage[any]) {
	fail := func(msg string) {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
	}

	switch inbound.Type {
	case "upload":
		var payload uploadPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Name == "" {
			fail("invalid upload payload")
			return
		}
		format := ingest.FormatPlain
		if payload.Format == "document" {
			format = ingest.FormatDocument
		}
		result, err := h.pipeline.Parse(ctx, ingest.Document{Content: payload.Content, Format: format})
		if err != nil {
			fail(err.Error())
			return
		}
		if err := h.tests.Put(ctx, userID, payload.Name, result.Questions); err != nil {
			h.log.Errorw("failed to save test", "user", userID, "test", payload.Name, "error", err)
			fail("could not save test")
			return
		}
		send <- outboundMessage[any]{Type: "parsed", Payload: parsedPayload{
			Name:      payload.Name,
			Questions: len(result.Questions),
			HadErrors: result.HadErrors,
		}}

	case "tests":
		names, err := h.tests.List(ctx, userID)
		if err != nil {
			h.log.Errorw("failed to list tests", "user", userID, "error", err)
			fail("could not list tests")
			return
		}
		send <- outboundMessage[any]{Type: "tests", Payload: testsPayload{Names: names}}

	case "delete":
		var payload namePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			fail("invalid delete payload")
			return
		}
		deleted, err := h.tests.Delete(ctx, userID, payload.Name)
		if err != nil {
			h.log.Errorw("failed to delete test", "user", userID, "test", payload.Name, "error", err)
			fail("could not delete test")
			return
		}
		send <- outboundMessage[any]{Type: "deleted", Payload: deletedPayload{Name: payload.Name, Deleted: deleted}}

	case "start":
		var payload startPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			fail("invalid start payload")
			return
		}
		test, err := h.tests.Get(ctx, userID, payload.Name)
		if err != nil {
			fail(err.Error())
			return
		}
		h.engine.Begin(ctx, userID, test.Name, test.Questions)
		send <- outboundMessage[any]{Type: "planning", Payload: planningPayload{
			Name:      test.Name,
			Questions: len(test.Questions),
		}}

	case "range":
		var payload rangePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			fail("invalid range payload")
			return
		}
		if err := h.engine.ChooseRange(ctx, userID, payload.Range); err != nil {
			fail(err.Error())
			return
		}
		send <- outboundMessage[any]{Type: "rangeAccepted", Payload: rangePayload{Range: payload.Range}}

	case "questionOrder":
		var payload shufflePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			fail("invalid questionOrder payload")
			return
		}
		if err := h.engine.ChooseQuestionOrder(ctx, userID, payload.Shuffle); err != nil {
			fail(err.Error())
			return
		}
		send <- outboundMessage[any]{Type: "questionOrderAccepted", Payload: payload}

	case "answerOrder":
		var payload shufflePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			fail("invalid answerOrder payload")
			return
		}
		// Activates the session; the first question arrives through the hub.
		if err := h.engine.ChooseAnswerOrder(ctx, userID, payload.Shuffle); err != nil {
			fail(err.Error())
			return
		}

	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			fail("invalid answer payload")
			return
		}
		result, err := h.engine.Answer(ctx, userID, payload.Handle, payload.Option)
		if err != nil && !errors.Is(err, domain.ErrDispatchFailed) {
			fail(err.Error())
			return
		}
		if result != nil {
			send <- outboundMessage[any]{Type: "result", Payload: *result}
		}

	case "stop":
		result, err := h.engine.Cancel(ctx, userID)
		if err != nil {
			fail(err.Error())
			return
		}
		if result != nil {
			send <- outboundMessage[any]{Type: "result", Payload: *result}
		}

	default:
		fail("unsupported message type")
	}
}
