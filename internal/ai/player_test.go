package ai

import (
    "math"
    "testing"

    "github.com/jaminalder/jump61/internal/domain"
)

// fullMinMax is minimax without pruning, with the same evaluation and
// tie-break as minMax.
func fullMinMax(b *domain.Board, depth, sense int) (int, int) {
    if depth == 0 || b.Winner() != domain.None {
        return staticEval(b, depth), -1
    }
    side := b.WhoseMove()
    best, move := -sense*maxScore, -1
    for _, m := range b.LegalMoves(side) {
        b.AddSpot(side, m)
        response, _ := fullMinMax(b, depth-1, -sense)
        b.Undo()
        if sense*response >= sense*best {
            best, move = response, m
        }
    }
    return best, move
}

// legacyReference is the older search written out step by step: every reply
// below the root is scored with sense -1, a maximizing node raises alpha to
// max(beta, best), and a won board is worth a flat MaxInt32.
func legacyReference(b *domain.Board, depth, sense, alpha, beta int) (int, int) {
    if depth == 0 || b.Winner() != domain.None {
        switch b.Winner() {
        case domain.Red:
            return math.MaxInt32, -1
        case domain.Blue:
            return -math.MaxInt32, -1
        }
        return b.NumOfSide(domain.Red) - b.NumOfSide(domain.Blue), -1
    }
    side := b.WhoseMove()
    best, move := -sense*math.MaxInt32, 0
    for _, m := range b.LegalMoves(side) {
        b.AddSpot(side, m)
        response, _ := legacyReference(b, depth-1, -1, alpha, beta)
        b.Undo()
        if sense*response >= sense*best {
            best, move = response, m
        }
        if sense == 1 {
            alpha = max(beta, best)
        } else {
            beta = min(beta, best)
        }
        if alpha > beta {
            break
        }
    }
    return best, move
}

// fill sets every square of b to one spot of side.
func fill(b *domain.Board, side domain.Side) {
    for r := 1; r <= b.Size(); r++ {
        for c := 1; c <= b.Size(); c++ {
            b.Set(r, c, 1, side)
        }
    }
}

// oneMoveFromWin returns a 3x3 board on which side wins only by playing
// (3,2), whose explosion captures the last enemy square at (3,3).
func oneMoveFromWin(side domain.Side) *domain.Board {
    b := domain.New(3)
    fill(b, side)
    b.Set(3, 2, 3, side)
    b.Set(3, 3, 1, side.Opponent())
    if side == domain.Blue {
        b.Set(1, 1, 2, side)
    }
    return b
}

func midgame(t *testing.T, size int, moves []int) *domain.Board {
    t.Helper()
    b := domain.New(size)
    for i, n := range moves {
        side := b.WhoseMove()
        if !b.IsLegal(side, n) {
            t.Fatalf("setup move %d (square %d) illegal for %v", i, n, side)
        }
        b.AddSpot(side, n)
    }
    return b
}

func TestForcedWinIsFound(t *testing.T) {
    for _, side := range []domain.Side{domain.Red, domain.Blue} {
        for depth := 1; depth <= 4; depth++ {
            b := oneMoveFromWin(side)
            if b.WhoseMove() != side {
                t.Fatalf("setup: expected %v to move, got %v", side, b.WhoseMove())
            }
            res := NewPlayer(side, WithDepth(depth)).Search(b)
            if res.Move != (domain.Move{Row: 3, Col: 2}) {
                t.Fatalf("%v depth %d: expected winning move 3 2, got %v (score %d)", side, depth, res.Move, res.Score)
            }
            if senseOf(side)*res.Score < winValue {
                t.Fatalf("%v depth %d: expected a winning score, got %d", side, depth, res.Score)
            }
            b.AddSpotAt(side, res.Move.Row, res.Move.Col)
            if b.Winner() != side {
                t.Fatalf("%v depth %d: chosen move did not win\n%s", side, depth, b)
            }
        }
    }
}

func TestLegacyFindsImmediateWin(t *testing.T) {
    for _, side := range []domain.Side{domain.Red, domain.Blue} {
        b := oneMoveFromWin(side)
        res := NewPlayer(side, WithDepth(1), WithMode(Legacy)).Search(b)
        if res.Index != 7 {
            t.Fatalf("%v: expected square 7, got %d (score %d)", side, res.Index, res.Score)
        }
    }
}

func TestLegacyWinScoreIsFlat(t *testing.T) {
    for _, side := range []domain.Side{domain.Red, domain.Blue} {
        b := oneMoveFromWin(side)
        res := NewPlayer(side, WithDepth(4), WithMode(Legacy)).Search(b)
        if res.Index != 7 || res.Score != senseOf(side)*math.MaxInt32 {
            t.Fatalf("%v: expected square 7 scored %d, got %d scored %d",
                side, senseOf(side)*math.MaxInt32, res.Index, res.Score)
        }
    }
}

func TestLegacyMatchesReferenceAndDiffersFromClassic(t *testing.T) {
    cases := []struct {
        size  int
        moves []int
    }{
        {3, nil},
        {3, []int{0, 8}},
        {3, []int{4, 0, 4, 8, 2}},
        {3, []int{0, 8, 0, 8, 1}},
        {4, []int{5, 10, 6}},
        {4, []int{0, 15, 0, 15, 5, 10}},
    }
    diverged := 0
    for _, tc := range cases {
        for depth := 1; depth <= 4; depth++ {
            b := midgame(t, tc.size, tc.moves)
            side := b.WhoseMove()
            wantScore, wantMove := legacyReference(b.Copy(), depth, senseOf(side), minScore, maxScore)

            res := NewPlayer(side, WithDepth(depth), WithMode(Legacy)).Search(b)
            if res.Index != wantMove || res.Score != wantScore {
                t.Fatalf("size %d moves %v depth %d: legacy (%d, %d), reference (%d, %d)",
                    tc.size, tc.moves, depth, res.Index, res.Score, wantMove, wantScore)
            }
            if _, classic := fullMinMax(b.Copy(), depth, senseOf(side)); classic != res.Index {
                diverged++
            }
        }
    }
    if diverged == 0 {
        t.Fatalf("legacy chose the classic move in every position")
    }
}

func TestPruningMatchesFullMinimax(t *testing.T) {
    cases := []struct {
        size  int
        moves []int
        depth int
    }{
        {2, nil, 4},
        {3, nil, 3},
        {3, []int{0, 8}, 4},
        {3, []int{4, 0, 4, 8, 2}, 4},
        {3, []int{0, 8, 0, 8, 1}, 4},
        {4, []int{5, 10, 6}, 3},
        {4, []int{0, 15, 0, 15, 5, 10}, 3},
    }
    for _, tc := range cases {
        for depth := 1; depth <= tc.depth; depth++ {
            b := midgame(t, tc.size, tc.moves)
            side := b.WhoseMove()
            wantScore, wantMove := fullMinMax(b.Copy(), depth, senseOf(side))

            res := NewPlayer(side, WithDepth(depth)).Search(b)
            if res.Index != wantMove || res.Score != wantScore {
                t.Fatalf("size %d moves %v depth %d: pruned (%d, %d), full (%d, %d)",
                    tc.size, tc.moves, depth, res.Index, res.Score, wantMove, wantScore)
            }
            par := NewPlayer(side, WithDepth(depth), WithParallel(true)).Search(b)
            if par.Index != wantMove || par.Score != wantScore {
                t.Fatalf("size %d moves %v depth %d: parallel (%d, %d), full (%d, %d)",
                    tc.size, tc.moves, depth, par.Index, par.Score, wantMove, wantScore)
            }
        }
    }
}

func TestSearchPrefersLaterSquareOnTies(t *testing.T) {
    // Every opening move on an empty 3x3 board scores 1 at depth 1.
    b := domain.New(3)
    res := NewPlayer(domain.Red, WithDepth(1)).Search(b)
    if res.Index != 8 || res.Score != 1 {
        t.Fatalf("expected square 8 with score 1, got %d with %d", res.Index, res.Score)
    }
}

func TestSearchLeavesBoardUntouched(t *testing.T) {
    for _, mode := range []Mode{Classic, Legacy} {
        b := midgame(t, 4, []int{0, 15, 0, 15, 5})
        notified := 0
        b.SetObserver(domain.ObserverFunc(func(domain.View) { notified++ }))
        notified = 0
        before := b.Copy()
        moves := b.Moves()

        p := NewPlayer(b.WhoseMove(), WithMode(mode))
        m := p.Move(b.ReadOnly())
        if !b.Equal(before) || b.Moves() != moves || !b.CanUndo() {
            t.Fatalf("%v search modified the board", mode)
        }
        if notified != 0 {
            t.Fatalf("%v search notified the board's observer %d times", mode, notified)
        }
        if !b.IsLegalAt(p.Side(), m.Row, m.Col) {
            t.Fatalf("%v search returned illegal move %v", mode, m)
        }
    }
}

func TestSelfPlayAlwaysLegal(t *testing.T) {
    for _, mode := range []Mode{Classic, Legacy} {
        b := domain.New(3)
        players := map[domain.Side]*Player{
            domain.Red:  NewPlayer(domain.Red, WithDepth(2), WithMode(mode)),
            domain.Blue: NewPlayer(domain.Blue, WithDepth(2), WithMode(mode)),
        }
        for i := 0; i < 200 && b.Winner() == domain.None; i++ {
            side := b.WhoseMove()
            m := players[side].Move(b)
            if !b.IsLegalAt(side, m.Row, m.Col) {
                t.Fatalf("%v: %v chose illegal %v\n%s", mode, side, m, b)
            }
            b.AddSpotAt(side, m.Row, m.Col)
        }
    }
}

func TestSearchPreconditions(t *testing.T) {
    mustPanic := func(name string, f func()) {
        t.Helper()
        defer func() {
            if recover() == nil {
                t.Fatalf("%s: expected panic", name)
            }
        }()
        f()
    }
    b := domain.New(3)
    mustPanic("wrong side", func() { NewPlayer(domain.Blue).Search(b) })
    mustPanic("bad depth", func() { NewPlayer(domain.Red, WithDepth(0)) })
    mustPanic("no side", func() { NewPlayer(domain.None) })

    won := oneMoveFromWin(domain.Red)
    won.AddSpotAt(domain.Red, 3, 2)
    mustPanic("finished game", func() { NewPlayer(domain.Blue).Search(won) })
}

func TestParseMode(t *testing.T) {
    for in, want := range map[string]Mode{"": Classic, "classic": Classic, "legacy": Legacy} {
        got, err := ParseMode(in)
        if err != nil || got != want {
            t.Fatalf("ParseMode(%q) = %v, %v", in, got, err)
        }
    }
    if _, err := ParseMode("negamax"); err == nil {
        t.Fatalf("expected error for unknown mode")
    }
}
