package web

import (
    "io"
    "log/slog"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/jaminalder/jump61/internal/app"
)

// Option configures the HTTP surface.
type Option func(*handlers)

// WithLogger sets the request and handler logger.
func WithLogger(l *slog.Logger) Option { return func(h *handlers) { h.log = l } }

// WithDefaultSize sets the board size offered on the index page.
func WithDefaultSize(n int) Option { return func(h *handlers) { h.defaultSize = n } }

// WithHeartbeat sets the idle keep-alive interval of the event streams.
func WithHeartbeat(d time.Duration) Option { return func(h *handlers) { h.heartbeat = d } }

// NewServer wires routes and returns an http.Handler. It installs the board
// fragment renderer on s so subscribers receive rendered HTML.
func NewServer(s *app.Service, opts ...Option) http.Handler {
    h := &handlers{svc: s, tpl: loadTemplates(), defaultSize: 6, heartbeat: 15 * time.Second}
    for _, o := range opts {
        o(h)
    }
    if h.log == nil {
        h.log = slog.New(slog.NewTextHandler(io.Discard, nil))
    }
    s.SetRenderer(func(gs app.GameState) []byte { return h.renderBoard(gs, "") })

    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(middleware.RealIP)
    r.Use(requestLogger(h.log))
    r.Use(middleware.Recoverer)
    r.Get("/", h.index)
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Get("/state", h.state)
        r.Post("/play", h.play)
        r.Post("/undo", h.undo)
        r.Post("/restart", h.restart)
        r.Get("/events", h.events)
        r.Get("/ws", h.ws)
    })
    return r
}

// requestLogger logs method, path, status, bytes, and duration.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            start := time.Now()
            ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
            next.ServeHTTP(ww, r)
            logger.Info("http",
                "method", r.Method,
                "path", r.URL.Path,
                "status", ww.Status(),
                "bytes", ww.BytesWritten(),
                "dur", time.Since(start).Round(time.Millisecond),
                "req", middleware.GetReqID(r.Context()),
            )
        })
    }
}
