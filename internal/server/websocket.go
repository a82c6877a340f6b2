// File: websocket.go
// Title: WebSocket Handler
// Description: Interactive compile over a WebSocket connection.
// Created: 2026-10-17

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	mserror "github.com/msto63/microscheme/pkg/core/error"
	"github.com/msto63/microscheme/pkg/core/logging"
)

const (
	wsReadTimeout  = 120 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// WebSocket upgrader with permissive settings for local development
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage is a client message
type WSMessage struct {
	Type    string          `json:"type"` // "compile", "ping"
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WSResponse is a server message
type WSResponse struct {
	Type    string      `json:"type"` // "result", "error", "pong"
	ID      string      `json:"id,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// WSErrorPayload describes a failed message
type WSErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WebSocketHandler compiles each "compile" message on the connection
type WebSocketHandler struct {
	service *Service
	logger  *logging.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(service *Service, logger *logging.Logger) *WebSocketHandler {
	return &WebSocketHandler{service: service, logger: logger}
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	h.handleConnection(r.Context(), conn)
}

func (h *WebSocketHandler) handleConnection(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	h.logger.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read error", "error", err)
			} else {
				h.logger.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		switch msg.Type {
		case "ping":
			h.send(conn, WSResponse{Type: "pong", ID: msg.ID})

		case "compile":
			var req CompileRequest
			if err := json.Unmarshal(msg.Payload, &req); err != nil {
				h.sendError(conn, msg.ID, "invalid_payload", "Invalid compile payload")
				continue
			}
			resp, err := h.service.Compile(ctx, &req)
			if err != nil {
				code := "internal_error"
				if mserror.HasCode(err, mserror.CodeInvalidInput) {
					code = "too_large"
				}
				h.sendError(conn, msg.ID, code, err.Error())
				continue
			}
			h.send(conn, WSResponse{Type: "result", ID: msg.ID, Payload: resp})

		default:
			h.sendError(conn, msg.ID, "unknown_type", "Unknown message type: "+msg.Type)
		}
	}
}

func (h *WebSocketHandler) send(conn *websocket.Conn, resp WSResponse) {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(resp); err != nil {
		h.logger.Warn("WebSocket send error", "error", err)
	}
}

func (h *WebSocketHandler) sendError(conn *websocket.Conn, id, code, message string) {
	h.send(conn, WSResponse{
		Type: "error",
		ID:   id,
		Payload: WSErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}
