package model

// MoveRecord is one entry of a Position's history. Piece, Captured and
// Promoted are the live handles, not copies.
type MoveRecord struct {
	Start    Square
	End      Square
	Piece    *Piece
	Captured *Piece
	Promoted *Piece
}

// Move is a candidate (start, end) pair before it is applied.
type Move struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// Ply is one entry of a game's move list as sent to clients.
type Ply struct {
	Color    Color  `json:"color"`
	From     Square `json:"from"`
	To       Square `json:"to"`
	Notation string `json:"notation"`
}

type MatchFoundEvent struct {
	GameID string `json:"gameId"`
	Color  Color  `json:"color"`
}
