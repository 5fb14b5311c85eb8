package handler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sqlpractice-service/internal/application/command"
	"sqlpractice-service/internal/domain"
)

const (
	wsMaxMessageSize = 64 << 10
	wsWriteTimeout   = 10 * time.Second
)

// wsRequest is one tutor question sent over the socket. Id is echoed on
// every frame of the reply; one is assigned when the client omits it.
type wsRequest struct {
	Id       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type wsFrame struct {
	Id      string `json:"id"`
	Content string `json:"content,omitempty"`
	Done    bool   `json:"done,omitempty"`
	Error   string `json:"error,omitempty"`
}

// wsHub keeps the open tutor sockets so shutdown can close them; the
// HTTP server forgets hijacked connections.
type wsHub struct {
	upgrader websocket.Upgrader
	conns    map[*websocket.Conn]struct{}
	connsMu  sync.Mutex
}

func newWSHub() *wsHub {
	return &wsHub{
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 4096},
		conns:    make(map[*websocket.Conn]struct{}),
	}
}

func (hub *wsHub) add(conn *websocket.Conn) {
	hub.connsMu.Lock()
	hub.conns[conn] = struct{}{}
	hub.connsMu.Unlock()
}

func (hub *wsHub) remove(conn *websocket.Conn) {
	hub.connsMu.Lock()
	delete(hub.conns, conn)
	hub.connsMu.Unlock()
}

func (hub *wsHub) closeAll() {
	hub.connsMu.Lock()
	defer hub.connsMu.Unlock()

	for conn := range hub.conns {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
	}
}

// TutorSocket answers tutor questions over a websocket. Each text message
// is a JSON {id, question, answer}; replies stream back as {id, content}
// frames closed by {id, done} or {id, error}.
func (h *Handler) TutorSocket(c echo.Context) error {
	conn, err := h.ws.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return nil
	}
	h.ws.add(conn)
	defer func() {
		h.ws.remove(conn)
		conn.Close()
	}()
	conn.SetReadLimit(wsMaxMessageSize)

	ctx := c.Request().Context()
	limitKey := "ai:" + c.RealIP()
	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", zap.Error(err))
			}
			return nil
		}
		if req.Id == "" {
			req.Id = uuid.NewString()
		}

		if h.aiLimiter != nil && !h.aiLimiter.Allow(limitKey) {
			err = writeFrame(conn, wsFrame{Id: req.Id, Error: "Too many AI requests, please try again later"})
		} else {
			err = h.streamTutor(ctx, conn, req)
		}
		if err != nil {
			h.logger.Debug("websocket write failed", zap.Error(err))
			return nil
		}
	}
}

func (h *Handler) streamTutor(ctx context.Context, conn *websocket.Conn, req wsRequest) error {
	content, errs, err := h.tutor.ExplainStream(ctx, &command.ExplainCommand{
		Question: req.Question,
		Answer:   req.Answer,
	})
	if err != nil {
		return writeFrame(conn, wsFrame{Id: req.Id, Error: domain.Message(err, "Failed to get AI response")})
	}

	for chunk := range content {
		if err := writeFrame(conn, wsFrame{Id: req.Id, Content: chunk}); err != nil {
			return err
		}
	}
	if err := <-errs; err != nil {
		h.logger.Error("ai stream failed", zap.String("id", req.Id), zap.Error(err))
		return writeFrame(conn, wsFrame{Id: req.Id, Error: domain.Message(err, "Failed to get AI response")})
	}
	return writeFrame(conn, wsFrame{Id: req.Id, Done: true})
}

func writeFrame(conn *websocket.Conn, frame wsFrame) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(frame)
}
