package domain

// Observer is told about every visible change to a board: once per AddSpot
// (after all explosions settle), Undo, Set and Clear.
type Observer interface {
    BoardChanged(View)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(View)

func (f ObserverFunc) BoardChanged(v View) { f(v) }

var nop = ObserverFunc(func(View) {})

// SetObserver installs o (nil removes it) and announces the current state.
func (b *Board) SetObserver(o Observer) {
    if o == nil {
        o = nop
    }
    b.observer = o
    b.announce()
}

func (b *Board) announce() { b.observer.BoardChanged(b.ReadOnly()) }

// ReadOnly returns a query-only view of b. The view follows later changes.
func (b *Board) ReadOnly() View { return View{b: b} }

// View exposes the queries of a Board without its mutators.
type View struct {
    b *Board
}

func (v View) Size() int                            { return v.b.Size() }
func (v View) Moves() int                           { return v.b.Moves() }
func (v View) At(r, c int) Square                   { return v.b.At(r, c) }
func (v View) Get(n int) Square                     { return v.b.Get(n) }
func (v View) Row(n int) int                        { return v.b.Row(n) }
func (v View) Col(n int) int                        { return v.b.Col(n) }
func (v View) Index(r, c int) int                   { return v.b.Index(r, c) }
func (v View) WhoseMove() Side                      { return v.b.WhoseMove() }
func (v View) Winner() Side                         { return v.b.Winner() }
func (v View) NumOfSide(s Side) int                 { return v.b.NumOfSide(s) }
func (v View) NumPieces() int                       { return v.b.NumPieces() }
func (v View) IsLegal(player Side, n int) bool      { return v.b.IsLegal(player, n) }
func (v View) IsLegalAt(player Side, r, c int) bool { return v.b.IsLegalAt(player, r, c) }
func (v View) Snapshot() Snapshot                   { return v.b.Snapshot() }
func (v View) String() string                       { return v.b.String() }

// Copy returns a private mutable copy of the viewed board.
func (v View) Copy() *Board { return v.b.Copy() }
