package domain

import "fmt"

// Side identifies the owner of a square.
type Side uint8

const (
    None Side = iota
    Red
    Blue
)

// Opponent returns the other player. None has no opponent.
func (s Side) Opponent() Side {
    switch s {
    case Red:
        return Blue
    case Blue:
        return Red
    }
    return None
}

func (s Side) String() string {
    switch s {
    case Red:
        return "red"
    case Blue:
        return "blue"
    }
    return "none"
}

// MarshalText encodes the side by name.
func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText accepts the names produced by MarshalText.
func (s *Side) UnmarshalText(text []byte) error {
    if string(text) == "none" {
        *s = None
        return nil
    }
    v, err := ParseSide(string(text))
    if err != nil {
        return err
    }
    *s = v
    return nil
}

// ParseSide accepts "red"/"r" and "blue"/"b".
func ParseSide(v string) (Side, error) {
    switch v {
    case "red", "r", "Red", "RED":
        return Red, nil
    case "blue", "b", "Blue", "BLUE":
        return Blue, nil
    }
    return None, fmt.Errorf("unknown side %q", v)
}

// Square is the immutable contents of one cell.
type Square struct {
    Side  Side `json:"side"`
    Spots int  `json:"spots"`
}

// Neutral is the initial square: one spot, no owner.
var Neutral = Square{Side: None, Spots: 1}

// NewSquare returns a square of n spots owned by side. A non-positive count or
// a None side yields Neutral.
func NewSquare(side Side, n int) Square {
    if n <= 0 || side == None {
        return Neutral
    }
    return Square{Side: side, Spots: n}
}

// IsNeutral reports whether nobody owns the square.
func (q Square) IsNeutral() bool { return q.Side == None }

// Token is the two-character dump form of a square, e.g. "3r" or "1-".
func (q Square) Token() string {
    switch q.Side {
    case Red:
        return fmt.Sprintf("%dr", q.Spots)
    case Blue:
        return fmt.Sprintf("%db", q.Spots)
    }
    return fmt.Sprintf("%d-", q.Spots)
}

// Move is a 1-based (row, column) placement.
type Move struct {
    Row int
    Col int
}

func (m Move) String() string { return fmt.Sprintf("%d %d", m.Row, m.Col) }
