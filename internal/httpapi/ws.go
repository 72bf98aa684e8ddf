package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/gorilla/websocket"

	"github.com/abhisek/quizzy/internal/validator"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
	pingEvery = pongWait * 9 / 10
)

// Event names sent to stream clients.
const (
	EventSnapshot = "snapshot"
	EventError    = "error"
	EventPong     = "pong"
)

// StreamRequest is a command sent by a stream client. Action is a command
// name or "ping".
type StreamRequest struct {
	Action string `json:"action" binding:"required"`
	Option string `json:"option,omitempty"`
	Index  *int   `json:"index,omitempty"`
}

// StreamEvent is one message to a stream client.
type StreamEvent struct {
	Event string       `json:"event"`
	Data  *SessionView `json:"data,omitempty"`
	Error string       `json:"error,omitempty"`
}

// buildUpgrader checks the Origin header against allowedOrigins. An empty
// list permits every origin.
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// stream upgrades to a WebSocket that pushes a snapshot now and after
// every session change, and accepts commands from the client.
func (s *Server) stream(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log := s.log.With().Str("request_id", c.GetString(contextKeyRequestID)).Logger()
	log.Debug().Msg("stream connected")

	changes, unsubscribe := s.session.Subscribe()
	defer unsubscribe()

	// Only the writer goroutine writes to conn.
	replies := make(chan StreamEvent, 8)
	done := make(chan struct{})
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		// A failed write closes conn so the read loop below returns.
		defer conn.Close()
		s.writeLoop(conn, changes, replies, done)
	}()

	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var req StreamRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("unexpected close")
			} else {
				log.Debug().Msg("stream closed")
			}
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		reply, ok := s.handleStreamRequest(req)
		if !ok {
			continue
		}
		select {
		case replies <- reply:
		case <-writerDone:
		}
	}

	close(done)
	<-writerDone
}

// handleStreamRequest runs one client command. It returns a reply only
// for pings and errors; state changes reach the client as snapshots.
func (s *Server) handleStreamRequest(req StreamRequest) (StreamEvent, bool) {
	if req.Action == "ping" {
		return StreamEvent{Event: EventPong}, true
	}
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		return StreamEvent{Event: EventError, Error: joinFields(validator.TranslateErrors(err))}, true
	}

	var (
		answer *AnswerRequest
		goTo   *GoToRequest
	)
	switch req.Action {
	case CmdAnswer:
		answer = &AnswerRequest{Option: req.Option, Index: req.Index}
		if err := binding.Validator.ValidateStruct(answer); err != nil {
			return StreamEvent{Event: EventError, Error: joinFields(validator.TranslateErrors(err))}, true
		}
	case CmdGoTo:
		goTo = &GoToRequest{Index: req.Index}
		if err := binding.Validator.ValidateStruct(goTo); err != nil {
			return StreamEvent{Event: EventError, Error: joinFields(validator.TranslateErrors(err))}, true
		}
	}

	if err := apply(s.session, req.Action, answer, goTo); err != nil {
		return StreamEvent{Event: EventError, Error: err.Error()}, true
	}
	return StreamEvent{}, false
}

func (s *Server) writeLoop(conn *websocket.Conn, changes <-chan struct{}, replies <-chan StreamEvent, done <-chan struct{}) {
	ping := time.NewTicker(pingEvery)
	defer ping.Stop()

	write := func(ev StreamEvent) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(ev); err != nil {
			s.log.Debug().Err(err).Msg("stream write failed")
			return false
		}
		return true
	}
	snapshot := func() StreamEvent {
		v := newSessionView(s.session.Snapshot())
		return StreamEvent{Event: EventSnapshot, Data: &v}
	}

	if !write(snapshot()) {
		return
	}
	for {
		select {
		case <-done:
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			if !write(snapshot()) {
				return
			}
		case ev := <-replies:
			if !write(ev) {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func joinFields(fields map[string]string) string {
	parts := make([]string, 0, len(fields))
	for _, msg := range fields {
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}
