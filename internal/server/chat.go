package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/MrWong99/paraiso/internal/dialog"
	"github.com/MrWong99/paraiso/internal/observe"
	"github.com/MrWong99/paraiso/internal/session"
)

// ClientFrame is one guest message.
type ClientFrame struct {
	Text string `json:"text"`
}

// ServerFrame is the bot's answer to one guest message. The first frame of a
// connection carries the welcome line.
type ServerFrame struct {
	SessionID string       `json:"session_id"`
	Lines     []string     `json:"lines"`
	State     dialog.State `json:"state"`
}

// handleChat upgrades the request and runs one conversation until either side
// closes the connection.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.cfg.OriginPatterns,
	})
	if err != nil {
		// Accept has already written an HTTP error.
		observe.Logger(r.Context()).Debug("websocket accept failed", "err", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(s.cfg.ReadLimit)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	reg := s.cfg.Registry
	id, sess := reg.Open(ctx)
	defer reg.Close(context.WithoutCancel(ctx), id)

	log := observe.Logger(ctx).With("session_id", id)
	log.Debug("chat opened")

	// Close the socket as soon as the session is reaped, even while the
	// guest is idle. The watcher must finish before the deferred reg.Close
	// so a normal hang-up is not reported as an expiry.
	expired, err := reg.Done(id)
	if err != nil {
		conn.Close(websocket.StatusGoingAway, "session expired")
		return
	}
	watching := make(chan struct{})
	go func() {
		defer close(watching)
		select {
		case <-expired:
			log.Debug("chat session expired")
			conn.Close(websocket.StatusGoingAway, "session expired")
		case <-ctx.Done():
		}
	}()
	defer func() {
		cancel()
		<-watching
	}()

	welcome := ServerFrame{SessionID: id, Lines: []string{s.cfg.Welcome}, State: sess.State()}
	if err := wsjson.Write(ctx, conn, welcome); err != nil {
		log.Debug("chat write failed", "err", err)
		return
	}

	for {
		var in ClientFrame
		if err := wsjson.Read(ctx, conn, &in); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				log.Debug("chat closed by client")
			default:
				log.Debug("chat read failed", "err", err)
			}
			return
		}
		if strings.TrimSpace(in.Text) == "" {
			continue
		}

		lines, err := reg.Respond(ctx, id, in.Text)
		if errors.Is(err, session.ErrNotFound) {
			conn.Close(websocket.StatusGoingAway, "session expired")
			return
		}
		out := ServerFrame{SessionID: id, Lines: lines, State: sess.State()}
		if err := wsjson.Write(ctx, conn, out); err != nil {
			log.Debug("chat write failed", "err", err)
			return
		}
	}
}
