package ai

import (
    "math"
    "runtime"
    "sync/atomic"

    "github.com/jaminalder/jump61/internal/domain"
    "golang.org/x/sync/errgroup"
)

const (
    minScore = math.MinInt32
    maxScore = math.MaxInt32

    // winValue plus the remaining depth scores a captured board, so a
    // quicker win outranks a slower one.
    winValue = 1 << 30
)

type searcher struct {
    nodes int64
    found int
}

// staticEval scores b from Red's point of view. depth is the number of
// plies left unsearched.
func staticEval(b *domain.Board, depth int) int {
    switch b.Winner() {
    case domain.Red:
        return winValue + depth
    case domain.Blue:
        return -(winValue + depth)
    }
    return b.NumOfSide(domain.Red) - b.NumOfSide(domain.Blue)
}

// minMax returns the value of b searched depth plies and the square that
// achieves it. sense is +1 when the side to move maximizes. Among equal
// scores the highest-numbered square wins.
func (s *searcher) minMax(b *domain.Board, depth, sense, alpha, beta int) (int, int) {
    s.nodes++
    if depth == 0 || b.Winner() != domain.None {
        return staticEval(b, depth), -1
    }
    side := b.WhoseMove()
    best, move := -sense*maxScore, -1
    for m := 0; m < b.Size()*b.Size(); m++ {
        if !b.IsLegal(side, m) {
            continue
        }
        b.AddSpot(side, m)
        response, _ := s.minMax(b, depth-1, -sense, alpha, beta)
        b.Undo()
        if sense*response >= sense*best {
            best, move = response, m
        }
        if sense > 0 {
            alpha = max(alpha, best)
        } else {
            beta = min(beta, best)
        }
        if alpha > beta {
            break
        }
    }
    if move < 0 {
        panic("ai: no legal move in a live position")
    }
    return best, move
}

// legacy is the older Jump61 search. Every call below the root is made
// with sense -1, a maximizing node sets alpha from beta, and a won board is
// worth maxScore regardless of depth.
func (s *searcher) legacy(b *domain.Board, depth int, saveMove bool, sense, alpha, beta int) int {
    s.nodes++
    if depth == 0 || b.Winner() != domain.None {
        return legacyEval(b)
    }
    side := b.WhoseMove()
    finalMove, score := 0, -sense*maxScore
    for m := 0; m < b.Size()*b.Size(); m++ {
        if !b.IsLegal(side, m) {
            continue
        }
        b.AddSpot(side, m)
        response := s.legacy(b, depth-1, false, -1, alpha, beta)
        if sense*response >= sense*score {
            finalMove, score = m, response
        }
        b.Undo()
        if sense > 0 {
            alpha = max(beta, score)
        } else {
            beta = min(beta, score)
        }
        if alpha > beta {
            break
        }
    }
    if saveMove {
        s.found = finalMove
    }
    return score
}

func legacyEval(b *domain.Board) int {
    switch b.Winner() {
    case domain.Red:
        return maxScore
    case domain.Blue:
        return -maxScore
    }
    return b.NumOfSide(domain.Red) - b.NumOfSide(domain.Blue)
}

// parallelRoot searches each root move on its own copy of b with a full
// window and reduces in square order, which picks the same move and score
// as a sequential minMax.
func parallelRoot(b *domain.Board, depth, sense int) Result {
    side := b.WhoseMove()
    moves := b.LegalMoves(side)
    scores := make([]int, len(moves))
    var nodes atomic.Int64
    nodes.Add(1)

    var g errgroup.Group
    g.SetLimit(runtime.GOMAXPROCS(0))
    for i, m := range moves {
        i, m := i, m
        g.Go(func() error {
            work := b.Copy()
            work.AddSpot(side, m)
            s := &searcher{}
            scores[i], _ = s.minMax(work, depth-1, -sense, minScore, maxScore)
            nodes.Add(s.nodes)
            return nil
        })
    }
    _ = g.Wait()

    res := Result{Index: -1, Score: -sense * maxScore}
    for i, m := range moves {
        if sense*scores[i] >= sense*res.Score {
            res.Index, res.Score = m, scores[i]
        }
    }
    res.Nodes = nodes.Load()
    return res
}
