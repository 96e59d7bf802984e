package domain

import (
    "fmt"
    "strings"
)

// Board is an N x N Jump61 position. Squares are numbered row-major from 0;
// rows and columns are 1-based.
//
// A Board is not safe for concurrent use. Searchers work on a Copy.
type Board struct {
    size  int
    cells []Square

    // Derived from cells, kept in step by setCell.
    owned  [3]int
    pieces int

    moves    int
    history  []frame
    record   bool
    observer Observer
}

// undoCell is the prior contents of one square changed by a move.
type undoCell struct {
    index int
    prev  Square
}

// frame is everything one top-level AddSpot changed.
type frame struct {
    moves   int
    changed []undoCell
}

// New returns an n x n board with every square neutral.
func New(n int) *Board {
    b := &Board{observer: nop}
    b.reset(n)
    return b
}

// Copy returns a board with the same squares and move count, an empty undo
// history and no observer.
func (b *Board) Copy() *Board {
    nb := &Board{
        size:     b.size,
        cells:    make([]Square, len(b.cells)),
        owned:    b.owned,
        pieces:   b.pieces,
        moves:    b.moves,
        observer: nop,
    }
    copy(nb.cells, b.cells)
    return nb
}

func (b *Board) reset(n int) {
    if n < 1 {
        panic(fmt.Sprintf("domain: invalid board size %d", n))
    }
    b.size = n
    b.cells = make([]Square, n*n)
    for i := range b.cells {
        b.cells[i] = Neutral
    }
    b.owned = [3]int{None: n * n}
    b.pieces = n * n
    b.moves = 0
    b.history = nil
    b.record = false
}

// Clear reinitializes the board to n x n neutral squares and drops the undo
// history.
func (b *Board) Clear(n int) {
    b.reset(n)
    b.announce()
}

// Size returns the number of rows (and of columns).
func (b *Board) Size() int { return b.size }

// Moves returns the number of AddSpot calls since construction or Clear,
// less any undone.
func (b *Board) Moves() int { return b.moves }

// Exists reports whether (r, c) is on the board.
func (b *Board) Exists(r, c int) bool {
    return 1 <= r && r <= b.size && 1 <= c && c <= b.size
}

// ExistsIndex reports whether n is a valid square number.
func (b *Board) ExistsIndex(n int) bool { return 0 <= n && n < len(b.cells) }

// Row returns the row of square n.
func (b *Board) Row(n int) int { return n/b.size + 1 }

// Col returns the column of square n.
func (b *Board) Col(n int) int { return n%b.size + 1 }

// Index returns the square number of (r, c).
func (b *Board) Index(r, c int) int { return (c - 1) + (r-1)*b.size }

// MoveAt converts a square number into a Move.
func (b *Board) MoveAt(n int) Move { return Move{Row: b.Row(n), Col: b.Col(n)} }

// At returns the square at (r, c).
func (b *Board) At(r, c int) Square {
    if !b.Exists(r, c) {
        panic(fmt.Sprintf("domain: square (%d, %d) off a %dx%d board", r, c, b.size, b.size))
    }
    return b.cells[b.Index(r, c)]
}

// Get returns square n.
func (b *Board) Get(n int) Square {
    b.mustExist(n)
    return b.cells[n]
}

func (b *Board) mustExist(n int) {
    if !b.ExistsIndex(n) {
        panic(fmt.Sprintf("domain: square %d off a %dx%d board", n, b.size, b.size))
    }
}

// NumPieces returns the total number of spots, neutral squares included.
func (b *Board) NumPieces() int { return b.pieces }

// NumOfSide returns the number of squares owned by s.
func (b *Board) NumOfSide(s Side) int { return b.owned[s] }

// WhoseMove returns the side to play, derived from the parity of the spot
// total. pieces is that total, kept in step by setCell on every square
// write; the turn itself is never stored. Once the game is won this is the
// loser.
func (b *Board) WhoseMove() Side {
    if (b.pieces+b.size)&1 == 0 {
        return Red
    }
    return Blue
}

// Winner returns the side owning every square, or None.
func (b *Board) Winner() Side {
    switch len(b.cells) {
    case b.owned[Red]:
        return Red
    case b.owned[Blue]:
        return Blue
    }
    return None
}

// Neighbors returns how many squares border square n.
func (b *Board) Neighbors(n int) int {
    r, c := b.Row(n), b.Col(n)
    k := 0
    if r > 1 {
        k++
    }
    if c > 1 {
        k++
    }
    if r < b.size {
        k++
    }
    if c < b.size {
        k++
    }
    return k
}

// IsLegal reports whether player may add a spot to square n now.
func (b *Board) IsLegal(player Side, n int) bool {
    if b.Winner() != None || !b.ExistsIndex(n) || b.WhoseMove() != player {
        return false
    }
    owner := b.cells[n].Side
    return owner == player || owner == None
}

// IsLegalAt is IsLegal for (r, c).
func (b *Board) IsLegalAt(player Side, r, c int) bool {
    return b.Exists(r, c) && b.IsLegal(player, b.Index(r, c))
}

// LegalMoves returns the squares player may play, in increasing order.
func (b *Board) LegalMoves(player Side) []int {
    var out []int
    for n := range b.cells {
        if b.IsLegal(player, n) {
            out = append(out, n)
        }
    }
    return out
}

// AddSpot plays one spot for player on square n and resolves every resulting
// explosion. The move must be legal.
func (b *Board) AddSpot(player Side, n int) {
    if !b.IsLegal(player, n) {
        panic(fmt.Sprintf("domain: illegal move %d by %s", n, player))
    }
    b.history = append(b.history, frame{moves: b.moves})
    b.record = true
    b.add(player, n, 1)
    b.moves++
    b.jump(player, n)
    b.record = false
    b.announce()
}

// AddSpotAt is AddSpot for (r, c).
func (b *Board) AddSpotAt(player Side, r, c int) {
    if !b.Exists(r, c) {
        panic(fmt.Sprintf("domain: square (%d, %d) off a %dx%d board", r, c, b.size, b.size))
    }
    b.AddSpot(player, b.Index(r, c))
}

// jump explodes square s if it holds more spots than it has neighbors, then
// checks each neighbor it fed: right, left, up, down. Nothing explodes once
// the board is won, but spots already taken from s are still handed out.
func (b *Board) jump(player Side, s int) {
    if b.Winner() != None {
        return
    }
    k := b.Neighbors(s)
    if b.cells[s].Spots <= k {
        return
    }
    b.add(player, s, -k)
    r, c := b.Row(s), b.Col(s)
    if c < b.size {
        b.add(player, s+1, 1)
        b.jump(player, s+1)
    }
    if c > 1 {
        b.add(player, s-1, 1)
        b.jump(player, s-1)
    }
    if r > 1 {
        b.add(player, s-b.size, 1)
        b.jump(player, s-b.size)
    }
    if r < b.size {
        b.add(player, s+b.size, 1)
        b.jump(player, s+b.size)
    }
}

func (b *Board) add(player Side, n, delta int) {
    b.setCell(n, NewSquare(player, b.cells[n].Spots+delta))
}

func (b *Board) setCell(n int, q Square) {
    old := b.cells[n]
    if old == q {
        return
    }
    if b.record {
        f := &b.history[len(b.history)-1]
        f.changed = append(f.changed, undoCell{index: n, prev: old})
    }
    b.owned[old.Side]--
    b.owned[q.Side]++
    b.pieces += q.Spots - old.Spots
    b.cells[n] = q
}

// Set puts num spots of player on (r, c); num <= 0 makes the square neutral.
// Set bypasses legality. An edit made after a move is folded into that
// move's undo frame, so the next Undo reverts both.
func (b *Board) Set(r, c, num int, player Side) {
    if !b.Exists(r, c) {
        panic(fmt.Sprintf("domain: square (%d, %d) off a %dx%d board", r, c, b.size, b.size))
    }
    b.record = len(b.history) > 0
    b.setCell(b.Index(r, c), NewSquare(player, num))
    b.record = false
    b.announce()
}

// CanUndo reports whether there is a move to take back.
func (b *Board) CanUndo() bool { return len(b.history) > 0 }

// Undo takes back the last AddSpot.
func (b *Board) Undo() {
    if len(b.history) == 0 {
        panic("domain: undo with empty history")
    }
    f := b.history[len(b.history)-1]
    b.history = b.history[:len(b.history)-1]
    for i := len(f.changed) - 1; i >= 0; i-- {
        u := f.changed[i]
        b.setCell(u.index, u.prev)
    }
    b.moves = f.moves
    b.announce()
}

// Equal reports whether o has the same size and squares.
func (b *Board) Equal(o *Board) bool {
    if o == nil || b.size != o.size {
        return false
    }
    for i := range b.cells {
        if b.cells[i] != o.cells[i] {
            return false
        }
    }
    return true
}

// String returns the dump form:
//
//  ===
//      1- 2r
//      1- 3b
//  ===
func (b *Board) String() string {
    var sb strings.Builder
    sb.WriteString("===\n")
    for r := 0; r < b.size; r++ {
        sb.WriteString("   ")
        for _, q := range b.cells[r*b.size : (r+1)*b.size] {
            sb.WriteByte(' ')
            sb.WriteString(q.Token())
        }
        sb.WriteByte('\n')
    }
    sb.WriteString("===")
    switch b.Winner() {
    case Red:
        sb.WriteString("\n* Red wins.")
    case Blue:
        sb.WriteString("\n* Blue wins.")
    }
    return sb.String()
}

// Snapshot returns a detached copy of the visible state.
func (b *Board) Snapshot() Snapshot {
    s := Snapshot{
        Size:   b.size,
        Cells:  make([]Square, len(b.cells)),
        ToMove: b.WhoseMove(),
        Winner: b.Winner(),
        Moves:  b.moves,
        Red:    b.owned[Red],
        Blue:   b.owned[Blue],
    }
    copy(s.Cells, b.cells)
    return s
}

// Snapshot is a value copy of a board for outer layers.
type Snapshot struct {
    Size   int      `json:"size"`
    Cells  []Square `json:"cells"`
    ToMove Side     `json:"to_move"`
    Winner Side     `json:"winner"`
    Moves  int      `json:"moves"`
    Red    int      `json:"red"`
    Blue   int      `json:"blue"`
}

// At returns the square at (r, c).
func (s Snapshot) At(r, c int) Square { return s.Cells[(c-1)+(r-1)*s.Size] }
