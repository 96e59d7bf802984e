package web

import (
    "context"
    "encoding/json"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/gorilla/websocket"
    "github.com/jaminalder/jump61/internal/app"
)

type wsMessage struct {
    Type    string          `json:"type"`
    Payload json.RawMessage `json:"payload,omitempty"`
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// ws streams the game state as JSON: once on connect, then after every
// change, with a ping when the stream has been idle for a heartbeat.
func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    if _, ok := h.svc.Get(id); !ok {
        http.NotFound(w, r)
        return
    }
    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        h.log.Warn("ws upgrade failed", "id", id, "err", err)
        return
    }
    defer conn.Close()

    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()
    updates, unsub, err := h.svc.Subscribe(ctx, id)
    if err != nil {
        return
    }
    defer unsub()

    // Reads only detect the peer going away.
    go func() {
        defer cancel()
        for {
            if _, _, err := conn.ReadMessage(); err != nil {
                return
            }
        }
    }()

    if err := h.writeState(conn, id); err != nil {
        return
    }
    ticker := time.NewTicker(h.heartbeat)
    defer ticker.Stop()
    lastWrite := time.Now()
    ping, _ := json.Marshal(wsMessage{Type: "ping"})
    for {
        select {
        case <-ctx.Done():
            return
        case _, ok := <-updates:
            if !ok {
                return
            }
            if err := h.writeState(conn, id); err != nil {
                return
            }
            lastWrite = time.Now()
        case <-ticker.C:
            if time.Since(lastWrite) < h.heartbeat {
                continue
            }
            if err := conn.WriteMessage(websocket.TextMessage, ping); err != nil {
                return
            }
            lastWrite = time.Now()
        }
    }
}

func (h *handlers) writeState(conn *websocket.Conn, id string) error {
    gs, ok := h.svc.Get(id)
    if !ok {
        return app.ErrNotFound
    }
    payload, err := json.Marshal(gs)
    if err != nil {
        return err
    }
    msg, err := json.Marshal(wsMessage{Type: "state", Payload: payload})
    if err != nil {
        return err
    }
    return conn.WriteMessage(websocket.TextMessage, msg)
}
