package web

import (
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "log/slog"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/jaminalder/jump61/internal/app"
    "github.com/jaminalder/jump61/internal/domain"
)

type handlers struct {
    svc         *app.Service
    tpl         *templates
    log         *slog.Logger
    defaultSize int
    heartbeat   time.Duration
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
    return renderTemplate(h.tpl.board, "", newBoardData(gs, errMsg))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    data := struct{ MinSize, MaxSize, Size int }{app.MinSize, app.MaxSize, h.defaultSize}
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.index, "", data))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    _ = r.ParseForm()
    size := h.defaultSize
    if v := r.Form.Get("size"); v != "" {
        n, err := strconv.Atoi(v)
        if err != nil {
            http.Error(w, "invalid size", http.StatusBadRequest)
            return
        }
        size = n
    }
    side := domain.Red
    if v := r.Form.Get("side"); v != "" {
        s, err := domain.ParseSide(strings.ToLower(v))
        if err != nil {
            http.Error(w, "invalid side", http.StatusBadRequest)
            return
        }
        side = s
    }
    gs, err := h.svc.CreateGame(size, side)
    if err != nil {
        if errors.Is(err, app.ErrBadSize) || errors.Is(err, app.ErrBadSide) {
            http.Error(w, err.Error(), http.StatusBadRequest)
            return
        }
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    data := newBoardData(*gs, "")

    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    // Render page with embedded board container
    _, _ = w.Write(renderTemplate(h.tpl.game, "", data))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    _ = r.ParseForm()
    ri, _ := strconv.Atoi(r.Form.Get("r"))
    ci, _ := strconv.Atoi(r.Form.Get("c"))
    gs, err := h.svc.Play(id, ri, ci)
    h.respondBoard(w, r, id, gs, err)
}

func (h *handlers) undo(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, err := h.svc.Undo(id)
    h.respondBoard(w, r, id, gs, err)
}

func (h *handlers) restart(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    _ = r.ParseForm()
    size, err := strconv.Atoi(r.Form.Get("size"))
    if err != nil {
        if cur, ok := h.svc.Get(id); ok {
            size = cur.Board.Size
        }
    }
    gs, err := h.svc.Restart(id, size)
    h.respondBoard(w, r, id, gs, err)
}

// respondBoard writes the board fragment, with a message when err is set.
func (h *handlers) respondBoard(w http.ResponseWriter, r *http.Request, id string, gs *app.GameState, err error) {
    var errMsg string
    if err != nil {
        if errors.Is(err, app.ErrNotFound) {
            http.NotFound(w, r)
            return
        }
        if g, ok := h.svc.Get(id); ok {
            gs = g
        }
        errMsg = errorMessage(err)
        h.log.Debug("rejected", "id", id, "err", err)
    }
    if gs == nil {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(*gs, errMsg))
}

func errorMessage(err error) string {
    switch {
    case errors.Is(err, app.ErrNotYourTurn):
        return "Not your turn"
    case errors.Is(err, app.ErrIllegalMove):
        return "That square belongs to the computer"
    case errors.Is(err, app.ErrOutOfBounds):
        return "Out of bounds"
    case errors.Is(err, app.ErrGameOver):
        return "Game is over"
    case errors.Is(err, app.ErrNothingToUndo):
        return "Nothing to undo"
    case errors.Is(err, app.ErrBadSize):
        return fmt.Sprintf("Size must be between %d and %d", app.MinSize, app.MaxSize)
    }
    return "Invalid move"
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
    gs, ok := h.svc.Get(chi.URLParam(r, "id"))
    if !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "application/json")
    _ = json.NewEncoder(w).Encode(gs)
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    if _, ok := h.svc.Get(id); !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // In tests or non-EventSource requests, just acknowledge headers and return
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    ctx := r.Context()
    ch, _, err := h.svc.Subscribe(ctx, id)
    if err != nil {
        http.NotFound(w, r)
        return
    }
    ticker := time.NewTicker(h.heartbeat)
    defer ticker.Stop()
    // Initial flush of headers
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case b, ok := <-ch:
            if !ok {
                return
            }
            _, _ = io.WriteString(w, "event: board\n")
            for _, line := range strings.Split(string(b), "\n") {
                _, _ = fmt.Fprintf(w, "data: %s\n", line)
            }
            _, _ = io.WriteString(w, "\n")
            flusher.Flush()
        }
    }
}
