package app

import (
    "context"
    "errors"
    "io"
    "log/slog"
    "sort"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/jaminalder/jump61/internal/ai"
    "github.com/jaminalder/jump61/internal/domain"
)

// Board sizes accepted by CreateGame.
const (
    MinSize = 2
    MaxSize = 12
)

// Errors exposed by the service layer.
var (
    ErrNotFound      = errors.New("game not found")
    ErrBadSize       = errors.New("board size out of range")
    ErrBadSide       = errors.New("side must be red or blue")
    ErrGameOver      = errors.New("game over")
    ErrNotYourTurn   = errors.New("not your turn")
    ErrOutOfBounds   = errors.New("out of bounds")
    ErrIllegalMove   = errors.New("square owned by opponent")
    ErrNothingToUndo = errors.New("nothing to undo")
)

// GameState is a detached copy of one human-vs-AI game.
type GameState struct {
    ID      string          `json:"id"`
    Human   domain.Side     `json:"human"`
    AI      domain.Side     `json:"ai"`
    Board   domain.Snapshot `json:"board"`
    LastAI  *domain.Move    `json:"last_ai,omitempty"`
    Version int             `json:"version"`
    Created time.Time       `json:"created"`
    Updated time.Time       `json:"updated"`
}

// Over reports whether someone owns the whole board.
func (gs GameState) Over() bool { return gs.Board.Winner != domain.None }

type game struct {
    id      string
    human   domain.Side
    board   *domain.Board
    player  *ai.Player
    lastAI  *domain.Move
    version int
    // Board move count at the start of each human turn, for Undo.
    turns   []int
    created time.Time
    updated time.Time
}

type subscriber struct {
    mu     sync.Mutex
    ch     chan []byte
    closed bool
}

// send delivers payload without blocking. A full buffer closes the channel
// and reports false; a closed subscriber is skipped.
func (s *subscriber) send(payload []byte) bool {
    s.mu.Lock()
    defer s.mu.Unlock()
    if s.closed {
        return true
    }
    select {
    case s.ch <- payload:
        return true
    default:
        s.closed = true
        close(s.ch)
        return false
    }
}

func (s *subscriber) close() {
    s.mu.Lock()
    defer s.mu.Unlock()
    if !s.closed {
        s.closed = true
        close(s.ch)
    }
}

// Service manages games and subscribers.
type Service struct {
    mu     sync.Mutex
    games  map[string]*game
    subs   map[string]map[*subscriber]struct{}
    render func(GameState) []byte
    aiOpts []ai.Option
    log    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger; it is also handed to every AI player.
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.log = l } }

// WithAI sets the options used to build each game's AI player.
func WithAI(opts ...ai.Option) Option {
    return func(s *Service) { s.aiOpts = append(s.aiOpts, opts...) }
}

// NewService creates a service with a default renderer (encodes nothing useful).
func NewService(opts ...Option) *Service {
    return NewServiceWithRenderer(func(gs GameState) []byte { return nil }, opts...)
}

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(renderer func(GameState) []byte, opts ...Option) *Service {
    if renderer == nil {
        renderer = func(gs GameState) []byte { return nil }
    }
    s := &Service{
        games:  make(map[string]*game),
        subs:   make(map[string]map[*subscriber]struct{}),
        render: renderer,
    }
    for _, o := range opts {
        o(s)
    }
    if s.log == nil {
        s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
    }
    return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if renderer == nil {
        s.render = func(gs GameState) []byte { return nil }
        return
    }
    s.render = renderer
}

// CreateGame starts a size x size game with the human playing side. If the
// AI plays Red it moves at once.
func (s *Service) CreateGame(size int, human domain.Side) (*GameState, error) {
    if size < MinSize || size > MaxSize {
        return nil, ErrBadSize
    }
    if human != domain.Red && human != domain.Blue {
        return nil, ErrBadSide
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    now := time.Now()
    g := &game{
        id:      uuid.NewString(),
        human:   human,
        board:   domain.New(size),
        created: now,
        updated: now,
    }
    opts := append([]ai.Option{ai.WithLogger(s.log)}, s.aiOpts...)
    g.player = ai.NewPlayer(human.Opponent(), opts...)
    g.board.SetObserver(domain.ObserverFunc(func(domain.View) { g.version++ }))
    if g.board.WhoseMove() == g.player.Side() {
        s.aiMoveLocked(g)
    }
    s.games[g.id] = g
    s.log.Info("game created", "id", g.id, "size", size, "human", human)
    cp := g.state()
    return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    g, ok := s.games[id]
    if !ok {
        return nil, false
    }
    cp := g.state()
    return &cp, true
}

// List returns every game, oldest first.
func (s *Service) List() []GameState {
    s.mu.Lock()
    out := make([]GameState, 0, len(s.games))
    for _, g := range s.games {
        out = append(out, g.state())
    }
    s.mu.Unlock()
    sort.Slice(out, func(i, j int) bool { return out[i].Created.Before(out[j].Created) })
    return out
}

// Play applies the human's move at (r, c), lets the AI answer unless the game
// is over, and broadcasts the result.
func (s *Service) Play(id string, r, c int) (*GameState, error) {
    return s.update(id, func(g *game) error {
        b := g.board
        switch {
        case b.Winner() != domain.None:
            return ErrGameOver
        case b.WhoseMove() != g.human:
            return ErrNotYourTurn
        case !b.Exists(r, c):
            return ErrOutOfBounds
        case !b.IsLegalAt(g.human, r, c):
            return ErrIllegalMove
        }
        g.turns = append(g.turns, b.Moves())
        b.AddSpotAt(g.human, r, c)
        s.log.Debug("human move", "id", g.id, "move", domain.Move{Row: r, Col: c}.String())
        if b.Winner() == domain.None {
            s.aiMoveLocked(g)
        } else {
            g.lastAI = nil
        }
        if w := b.Winner(); w != domain.None {
            s.log.Info("game over", "id", g.id, "winner", w, "moves", b.Moves())
        }
        return nil
    })
}

// Undo takes back the human's last move and the AI's answer to it.
func (s *Service) Undo(id string) (*GameState, error) {
    return s.update(id, func(g *game) error {
        if len(g.turns) == 0 {
            return ErrNothingToUndo
        }
        mark := g.turns[len(g.turns)-1]
        g.turns = g.turns[:len(g.turns)-1]
        for g.board.Moves() > mark {
            g.board.Undo()
        }
        g.lastAI = nil
        return nil
    })
}

// Restart clears the game to a fresh board of the given size. The AI opens
// if it plays Red.
func (s *Service) Restart(id string, size int) (*GameState, error) {
    if size < MinSize || size > MaxSize {
        return nil, ErrBadSize
    }
    return s.update(id, func(g *game) error {
        g.board.Clear(size)
        g.turns = nil
        g.lastAI = nil
        if g.board.WhoseMove() == g.player.Side() {
            s.aiMoveLocked(g)
        }
        return nil
    })
}

// update runs fn on the game under the lock, then fans the new state out.
func (s *Service) update(id string, fn func(*game) error) (*GameState, error) {
    var toDrop []*subscriber

    s.mu.Lock()
    g, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    if err := fn(g); err != nil {
        s.mu.Unlock()
        return nil, err
    }
    g.updated = time.Now()

    // Snapshot state and subscribers
    cp := g.state()
    subs := s.copySubsLocked(id)
    payload := s.render(cp)
    s.mu.Unlock()

    // Fan-out; drop slow subscribers by closing and marking for deletion
    for sub := range subs {
        if !sub.send(payload) {
            toDrop = append(toDrop, sub)
        }
    }
    if len(toDrop) > 0 {
        s.mu.Lock()
        for _, sub := range toDrop {
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
        }
        s.mu.Unlock()
    }
    return &cp, nil
}

func (s *Service) aiMoveLocked(g *game) {
    res := g.player.Search(g.board)
    g.board.AddSpot(g.player.Side(), res.Index)
    m := res.Move
    g.lastAI = &m
    s.log.Debug("ai move", "id", g.id, "move", m.String(), "score", res.Score, "nodes", res.Nodes)
}

func (g *game) state() GameState {
    return GameState{
        ID:      g.id,
        Human:   g.human,
        AI:      g.player.Side(),
        Board:   g.board.Snapshot(),
        LastAI:  g.lastAI,
        Version: g.version,
        Created: g.created,
        Updated: g.updated,
    }
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.games[id]; !ok {
        return nil, nil, ErrNotFound
    }
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan []byte, 1)}
    set[sub] = struct{}{}

    done := make(chan struct{})
    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            close(done)
            s.mu.Lock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
            s.mu.Unlock()
            sub.close()
        })
    }
    go func() {
        select {
        case <-ctx.Done():
            unsub()
        case <-done:
        }
    }()
    return sub.ch, unsub, nil
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
    out := make(map[*subscriber]struct{})
    if set, ok := s.subs[id]; ok {
        for k := range set {
            out[k] = struct{}{}
        }
    }
    return out
}
