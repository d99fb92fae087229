package http

import (
	"encoding/json"
	"log"
	"net/http"

	"quiz-scoreboard/internal/app"
	"quiz-scoreboard/internal/domain"

	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
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

// eventPayload carries the seat for right and miss. Through ignores it.
type eventPayload struct {
	Index *int `json:"index"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}

// ServeWS upgrades HTTP requests to websockets and wires them into the scoreboard use cases.
// Every viewer of a game may send events; all viewers receive the resulting scoreboard.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	rosterID := r.URL.Query().Get("rosterId")
	if gameID == "" && rosterID == "" {
		http.Error(w, "missing gameId or rosterId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	joined, err := h.service.Open(r.Context(), gameID, rosterID)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err.Error()))
		return
	}
	gameID = joined.GameID
	defer h.service.Leave(r.Context(), gameID)

	updates, cancel, err := h.service.Subscribe(r.Context(), gameID)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err.Error()))
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// joined is queued before any update so clients always see it first.
	send <- outboundMessage[any]{Type: "joined", Payload: joined}

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "scoreboard", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if msg, ok := h.handle(r, gameID, inbound); ok {
			send <- msg
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// handle runs one inbound message. Successful changes reach the client
// through its subscription, so only errors are answered directly.
func (h *WSHandler) handle(r *http.Request, gameID string, inbound inboundMessage) (outboundMessage[any], bool) {
	switch inbound.Type {
	case "undo":
		_, moved, err := h.service.Undo(r.Context(), gameID)
		if err != nil {
			return errorMessage(err.Error()), true
		}
		if !moved {
			return errorMessage("nothing to undo"), true
		}
		return outboundMessage[any]{}, false
	case "redo":
		_, moved, err := h.service.Redo(r.Context(), gameID)
		if err != nil {
			return errorMessage(err.Error()), true
		}
		if !moved {
			return errorMessage("nothing to redo"), true
		}
		return outboundMessage[any]{}, false
	}

	typ, err := domain.ParsePayloadType(inbound.Type)
	if err != nil {
		return errorMessage("unsupported message type"), true
	}
	var body eventPayload
	if len(inbound.Payload) > 0 {
		if err := json.Unmarshal(inbound.Payload, &body); err != nil {
			return errorMessage("invalid event payload"), true
		}
	}
	payload, err := domain.NewPayload(typ, body.Index)
	if err != nil {
		return errorMessage(err.Error()), true
	}
	if _, err := h.service.Apply(r.Context(), gameID, payload); err != nil {
		return errorMessage(err.Error()), true
	}
	return outboundMessage[any]{}, false
}
