package model

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

type Color int

const (
	White Color = 1
	Black Color = -1
)

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return ""
}

func (c Color) Opponent() Color {
	return -c
}

// MarshalText encodes the zero Color as an empty string, used for seats
// nobody has taken yet.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "white":
		*c = White
	case "black":
		*c = Black
	case "":
		*c = 0
	default:
		return fmt.Errorf("invalid color %q", text)
	}
	return nil
}

// Square is a (file, rank) pair. Y = 0 is the first rank of the layout string,
// which is where White pawns promote.
type Square struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s Square) getSquareNotation() string {
	return fmt.Sprintf("%c%d", s.X+97, 8-s.Y)
}

func (s Square) String() string {
	return s.getSquareNotation()
}

func (s Square) add(dx, dy int) Square {
	return Square{X: s.X + dx, Y: s.Y + dy}
}

func boundaryCheck(s Square) bool {
	return s.X >= 0 && s.X < 8 && s.Y >= 0 && s.Y < 8
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// adjacent reports whether two distinct squares touch, diagonals included.
func adjacent(a, b Square) bool {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	return dx <= 1 && dy <= 1 && dx+dy > 0
}

var (
	rookDirs   = []Square{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	bishopDirs = []Square{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	knightDirs = []Square{{X: 2, Y: 1}, {X: 2, Y: -1}, {X: -2, Y: 1}, {X: -2, Y: -1}, {X: 1, Y: 2}, {X: 1, Y: -2}, {X: -1, Y: 2}, {X: -1, Y: -2}}
	kingDirs   = []Square{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
)
