package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/CryoKynase/wheel-lacing-app/internal/method"
	"github.com/CryoKynase/wheel-lacing-app/internal/storage"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// WebSocket message types for the live compute protocol
const (
	// Client -> Server messages
	MsgTypeCompute = "compute"
	MsgTypePing    = "ping"

	// Server -> Client messages
	MsgTypeConnected  = "connected"
	MsgTypeResult     = "result"
	MsgTypeSuperseded = "superseded"
	MsgTypeError      = "error"
	MsgTypePong       = "pong"
)

// WebSocket message structure
type WSMessage struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// ComputePayload is a live compute request. Generation must grow with every
// request the client sends on a connection.
type ComputePayload struct {
	Generation uint64         `json:"generation"`
	Request    patternRequest `json:"request"`
}

// WSResultResponse carries a finished computation
type WSResultResponse struct {
	Generation uint64          `json:"generation"`
	Result     *layoutResponse `json:"result"`
}

// WSSupersededResponse tells the client a newer generation replaced this one
type WSSupersededResponse struct {
	Generation uint64 `json:"generation"`
}

// WebSocket error response
type WSErrorResponse struct {
	Generation uint64 `json:"generation,omitempty"`
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
}

// WebSocketHandler serves live compute connections. Each compute request runs
// in its own goroutine; only the newest generation's result is delivered.
type WebSocketHandler struct {
	svc      *patternService
	sessions SessionManager
	upgrader websocket.Upgrader
	maxSize  int64
	logger   *zap.Logger
}

// NewWebSocketHandler creates a new live compute handler. maxMessageSize
// bounds incoming frames in bytes; zero keeps the 64KB default.
func NewWebSocketHandler(registry *method.Registry, store storage.Store, defaults Defaults, sessions SessionManager, maxMessageSize int64, logger *zap.Logger) *WebSocketHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxMessageSize <= 0 {
		maxMessageSize = 64 * 1024
	}
	return &WebSocketHandler{
		svc:      newPatternService(registry, store, defaults),
		sessions: sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
		},
		maxSize: maxMessageSize,
		logger:  logger,
	}
}

// liveConn serializes writes to one connection
type liveConn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (lc *liveConn) send(msg WSMessage) error {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.ws.WriteJSON(msg)
}

// HandleLive upgrades HTTP connection to WebSocket and runs the live compute protocol
func (wsh *WebSocketHandler) HandleLive(c echo.Context) error {
	ws, err := wsh.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()
	ws.SetReadLimit(wsh.maxSize)

	conn := &liveConn{ws: ws}
	sess := wsh.sessions.StartSession()
	defer wsh.sessions.EndSession(sess.ID)

	ctx, cancel := context.WithCancel(c.Request().Context())
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	log := wsh.logger.With(zap.String("session", sess.ID))
	log.Debug("live client connected")

	wsh.sendMessage(conn, log, WSMessage{
		Type:    MsgTypeConnected,
		ID:      sess.ID,
		Payload: mustJSON(map[string]string{"sessionId": sess.ID}),
	})

	// Main message loop
	for {
		var msg WSMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("live connection error", zap.Error(err))
			}
			break
		}

		switch msg.Type {
		case MsgTypePing:
			wsh.sessions.TouchSession(sess.ID)
			wsh.sendMessage(conn, log, WSMessage{Type: MsgTypePong})
		case MsgTypeCompute:
			var payload ComputePayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				wsh.sendError(conn, log, 0, "Invalid compute payload: "+err.Error(), "INVALID_PAYLOAD")
				continue
			}
			if !wsh.sessions.Begin(sess.ID, payload.Generation) {
				wsh.sendSuperseded(conn, log, payload.Generation)
				continue
			}
			wg.Add(1)
			go func(p ComputePayload) {
				defer wg.Done()
				wsh.runCompute(ctx, conn, log, sess.ID, p)
			}(payload)
		default:
			wsh.sendError(conn, log, 0, "Unknown message type: "+msg.Type, "INVALID_TYPE")
		}
	}

	if final, ok := wsh.sessions.GetSession(sess.ID); ok {
		log.Debug("live client disconnected",
			zap.Int("requests", final.Requests),
			zap.Int("superseded", final.Superseded))
	}
	return nil
}

func (wsh *WebSocketHandler) runCompute(ctx context.Context, conn *liveConn, log *zap.Logger, sessionID string, p ComputePayload) {
	if !wsh.sessions.IsCurrent(sessionID, p.Generation) {
		wsh.sessions.Finish(sessionID, p.Generation)
		wsh.sendSuperseded(conn, log, p.Generation)
		return
	}
	resp, err := wsh.svc.layout(ctx, p.Request)
	if ctx.Err() != nil {
		return
	}
	if !wsh.sessions.Finish(sessionID, p.Generation) {
		wsh.sendSuperseded(conn, log, p.Generation)
		return
	}
	if err != nil {
		apiErr := fromDomainError(err, 0, "", "")
		wsh.sendError(conn, log, p.Generation, apiErr.Message, apiErr.Code)
		return
	}
	wsh.sendMessage(conn, log, WSMessage{
		Type:    MsgTypeResult,
		Payload: mustJSON(WSResultResponse{Generation: p.Generation, Result: resp}),
	})
}

// Helper methods

func (wsh *WebSocketHandler) sendMessage(conn *liveConn, log *zap.Logger, msg WSMessage) {
	msg.Timestamp = time.Now().UnixMilli()
	if err := conn.send(msg); err != nil {
		log.Debug("failed to send live message", zap.String("type", msg.Type), zap.Error(err))
	}
}

func (wsh *WebSocketHandler) sendSuperseded(conn *liveConn, log *zap.Logger, gen uint64) {
	wsh.sendMessage(conn, log, WSMessage{
		Type:    MsgTypeSuperseded,
		Payload: mustJSON(WSSupersededResponse{Generation: gen}),
	})
}

func (wsh *WebSocketHandler) sendError(conn *liveConn, log *zap.Logger, gen uint64, message, code string) {
	wsh.sendMessage(conn, log, WSMessage{
		Type: MsgTypeError,
		Payload: mustJSON(WSErrorResponse{
			Generation: gen,
			Message:    message,
			Code:       code,
		}),
	})
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}
