package ai

import (
    "fmt"
    "io"
    "log/slog"
    "time"

    "github.com/jaminalder/jump61/internal/domain"
)

// DefaultDepth is the number of plies searched when no depth is given.
const DefaultDepth = 4

// Mode selects the minimax variant.
type Mode int

const (
    // Classic alternates the maximizing side every ply and narrows alpha
    // from alpha itself.
    Classic Mode = iota
    // Legacy scores every reply below the root as if Blue were to move and
    // raises alpha from beta, matching the move choices of the first Jump61 AI.
    Legacy
)

func (m Mode) String() string {
    if m == Legacy {
        return "legacy"
    }
    return "classic"
}

// ParseMode accepts "classic" and "legacy".
func ParseMode(v string) (Mode, error) {
    switch v {
    case "", "classic":
        return Classic, nil
    case "legacy":
        return Legacy, nil
    }
    return Classic, fmt.Errorf("unknown search mode %q", v)
}

// Position is what the player needs from a board: something it can copy
// and ask whose turn it is. Both *domain.Board and domain.View qualify.
type Position interface {
    Copy() *domain.Board
    WhoseMove() domain.Side
    Winner() domain.Side
}

// Result is the outcome of one search.
type Result struct {
    Index int
    Move  domain.Move
    Score int
    Nodes int64
}

// Player picks moves for one side.
type Player struct {
    side     domain.Side
    depth    int
    mode     Mode
    parallel bool
    log      *slog.Logger
}

// Option configures a Player.
type Option func(*Player)

// WithDepth sets the search depth in plies (at least 1).
func WithDepth(d int) Option { return func(p *Player) { p.depth = d } }

// WithMode selects Classic or Legacy search.
func WithMode(m Mode) Option { return func(p *Player) { p.mode = m } }

// WithParallel searches root moves concurrently. Only Classic honors it.
func WithParallel(on bool) Option { return func(p *Player) { p.parallel = on } }

// WithLogger sets the logger used for per-search debug records.
func WithLogger(l *slog.Logger) Option { return func(p *Player) { p.log = l } }

// NewPlayer returns a player for side.
func NewPlayer(side domain.Side, opts ...Option) *Player {
    p := &Player{side: side, depth: DefaultDepth}
    for _, o := range opts {
        o(p)
    }
    if side != domain.Red && side != domain.Blue {
        panic(fmt.Sprintf("ai: player for side %v", side))
    }
    if p.depth < 1 {
        panic(fmt.Sprintf("ai: search depth %d", p.depth))
    }
    if p.log == nil {
        p.log = slog.New(slog.NewTextHandler(io.Discard, nil))
    }
    return p
}

// Side returns the side this player moves for.
func (p *Player) Side() domain.Side { return p.side }

// Depth returns the search depth in plies.
func (p *Player) Depth() int { return p.depth }

// Move returns the chosen (row, col) for the position.
func (p *Player) Move(pos Position) domain.Move { return p.Search(pos).Move }

// Search chooses a move for the side to play. pos is only copied; the game
// must not be over and it must be this player's turn.
func (p *Player) Search(pos Position) Result {
    if w := pos.Winner(); w != domain.None {
        panic(fmt.Sprintf("ai: search on a finished game (%v won)", w))
    }
    if pos.WhoseMove() != p.side {
        panic(fmt.Sprintf("ai: %v asked to move on %v's turn", p.side, pos.WhoseMove()))
    }
    start := time.Now()
    work := pos.Copy()
    if len(work.LegalMoves(p.side)) == 0 {
        panic("ai: no legal move in a live position")
    }

    var res Result
    switch {
    case p.mode == Legacy:
        s := &searcher{}
        res.Score = s.legacy(work, p.depth, true, senseOf(p.side), minScore, maxScore)
        res.Index, res.Nodes = s.found, s.nodes
    case p.parallel:
        res = parallelRoot(work, p.depth, senseOf(p.side))
    default:
        s := &searcher{}
        res.Score, res.Index = s.minMax(work, p.depth, senseOf(p.side), minScore, maxScore)
        res.Nodes = s.nodes
    }
    res.Move = work.MoveAt(res.Index)

    p.log.Debug("search",
        "side", p.side,
        "depth", p.depth,
        "mode", p.mode,
        "parallel", p.parallel,
        "move", res.Move.String(),
        "score", res.Score,
        "nodes", res.Nodes,
        "dur", time.Since(start).Round(time.Microsecond),
    )
    return res
}

// senseOf is +1 for Red, who maximizes, and -1 for Blue.
func senseOf(s domain.Side) int {
    if s == domain.Red {
        return 1
    }
    return -1
}
