package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	sessionrepo "github.com/aasedek/Analytica-AI-Product-1/internal/adapters/repository/session"
	"github.com/aasedek/Analytica-AI-Product-1/internal/app/editor"
	"github.com/aasedek/Analytica-AI-Product-1/pkg/validation"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Pointer events are small
	maxMessageSize = 64 * 1024

	sendBuffer = 32
)

// streamError is sent back for events that could not be applied
type streamError struct {
	Error string `json:"error"`
}

// gestureStream carries pointer events for one session over a websocket.
// Each event is answered with the outcome and the resulting view.
type gestureStream struct {
	server    *Server
	conn      *websocket.Conn
	sessionID string
	send      chan interface{}
	done      chan struct{}
	logger    *zap.Logger
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.sessions.Do(r.Context(), id, func(*editor.Session) error { return nil }); err != nil {
		writeErr(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.String("session", id), zap.Error(err))
		return
	}

	c := &gestureStream{
		server:    s,
		conn:      conn,
		sessionID: id,
		send:      make(chan interface{}, sendBuffer),
		done:      make(chan struct{}),
		logger:    s.logger.With(zap.String("session", id)),
	}
	go c.writePump()
	c.readPump()
}

// readPump applies incoming events until the peer goes away. Closing send
// lets writePump flush and close the connection.
func (c *gestureStream) readPump() {
	defer close(c.send)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	c.logger.Debug("gesture stream opened")
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNoStatusReceived,
			) {
				c.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}

		reply, closed := c.apply(data)
		select {
		case c.send <- reply:
		case <-c.done:
			return
		}
		if closed {
			return
		}
	}
}

// apply runs one event against the session. closed reports that the
// session no longer exists.
func (c *gestureStream) apply(data []byte) (reply interface{}, closed bool) {
	var ev editor.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		c.logger.Warn("JSON unmarshal error", zap.Error(err))
		return streamError{Error: "invalid JSON: " + err.Error()}, false
	}
	if err := validation.ValidateWithPlayground(&ev); err != nil {
		return streamError{Error: err.Error()}, false
	}

	var out outcomeResponse
	err := c.server.sessions.Do(context.Background(), c.sessionID, func(sess *editor.Session) error {
		o, err := sess.Dispatch(ev)
		if err != nil {
			return err
		}
		out = outcomeOf(sess, o)
		return nil
	})
	if err != nil {
		return streamError{Error: err.Error()}, errors.Is(err, sessionrepo.ErrSessionNotFound)
	}
	return out, false
}

// writePump delivers replies and keeps the connection alive with pings
func (c *gestureStream) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Warn("websocket write error", zap.Error(err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
