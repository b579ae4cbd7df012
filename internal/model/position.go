package model

// Position holds the live pieces, indexed by square, and the stack of
// committed moves. It is not safe for concurrent use; hosts search on a
// Clone or serialize access.
type Position struct {
	grid    [8][8]*Piece
	history []*MoveRecord
}

func NewPosition() *Position {
	pos, err := NewPositionFromLayout(StartingLayout)
	if err != nil {
		panic(err)
	}
	return pos
}

// NewPositionFromLayout places the pieces described by a rank-by-rank layout
// string.
func NewPositionFromLayout(layout string) (*Position, error) {
	placement, err := ParseLayout(layout)
	if err != nil {
		return nil, err
	}
	pos := &Position{}
	for letter, squares := range placement {
		t, c := pieceFromLetter(letter)
		for _, sq := range squares {
			pos.place(newPiece(t, c, sq))
		}
	}
	return pos, nil
}

func (pos *Position) PieceAt(sq Square) *Piece {
	if !boundaryCheck(sq) {
		return nil
	}
	return pos.grid[sq.Y][sq.X]
}

// Pieces returns the live pieces in rank-major scan order.
func (pos *Position) Pieces() []*Piece {
	pieces := make([]*Piece, 0, 32)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if p := pos.grid[y][x]; p != nil {
				pieces = append(pieces, p)
			}
		}
	}
	return pieces
}

func (pos *Position) PiecesOf(color Color) []*Piece {
	pieces := make([]*Piece, 0, 16)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if p := pos.grid[y][x]; p != nil && p.Color == color {
				pieces = append(pieces, p)
			}
		}
	}
	return pieces
}

// King returns the king of the given colour, or nil if the position has none.
func (pos *Position) King(color Color) *Piece {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if p := pos.grid[y][x]; p != nil && p.Type == King && p.Color == color {
				return p
			}
		}
	}
	return nil
}

func (pos *Position) History() []*MoveRecord {
	return pos.history
}

// Ply is the number of committed moves.
func (pos *Position) Ply() int {
	return len(pos.history)
}

func (pos *Position) LastMove() *MoveRecord {
	if len(pos.history) == 0 {
		return nil
	}
	return pos.history[len(pos.history)-1]
}

// ApplyMove commits a legal move. It returns nil and leaves the position
// untouched when there is no piece on start or end is not one of its legal
// destinations.
func (pos *Position) ApplyMove(start, end Square) *MoveRecord {
	piece := pos.PieceAt(start)
	if piece == nil {
		return nil
	}
	isLegal := false
	for _, legal := range pos.LegalMoves(piece) {
		if legal == end {
			isLegal = true
			break
		}
	}
	if !isLegal {
		return nil
	}
	return pos.Push(start, end)
}

// Push applies a move without checking legality. Callers must already know
// the move is legal, or undo it straight away as the legality simulation does.
func (pos *Position) Push(start, end Square) *MoveRecord {
	piece := pos.PieceAt(start)
	if piece == nil || !boundaryCheck(end) {
		return nil
	}

	captured := pos.PieceAt(end)
	if captured != nil {
		pos.remove(captured)
	}

	record := &MoveRecord{Start: start, End: end, Piece: piece, Captured: captured}
	pos.history = append(pos.history, record)
	pos.relocate(piece, end)

	if piece.Type == Pawn && end.Y == promotionRank(piece.Color) {
		pos.remove(piece)
		queen := newPiece(Queen, piece.Color, end)
		pos.place(queen)
		record.Promoted = queen
	}

	if piece.Type == King && abs(start.X-end.X) == 2 {
		pos.handleCastle(start, end)
	}
	return record
}

// UndoMove reverts the last committed move. It is a no-op on an empty history.
func (pos *Position) UndoMove() {
	if len(pos.history) == 0 {
		return
	}
	record := pos.history[len(pos.history)-1]
	pos.history = pos.history[:len(pos.history)-1]

	if record.Promoted != nil {
		pos.remove(record.Promoted)
		record.Piece.Square = record.End
		pos.place(record.Piece)
	}

	if record.Piece.Type == King && abs(record.Start.X-record.End.X) == 2 {
		pos.revertCastle(record.Start, record.End)
	}

	pos.relocate(record.Piece, record.Start)

	if record.Captured != nil {
		record.Captured.Square = record.End
		pos.place(record.Captured)
	}
}

func (pos *Position) handleCastle(start, end Square) {
	from, to := 0, 3
	if end.X > start.X {
		from, to = 7, 5
	}
	if rook := pos.PieceAt(Square{X: from, Y: start.Y}); rook != nil {
		pos.relocate(rook, Square{X: to, Y: start.Y})
	}
}

func (pos *Position) revertCastle(start, end Square) {
	from, to := 3, 0
	if end.X > start.X {
		from, to = 5, 7
	}
	if rook := pos.PieceAt(Square{X: from, Y: start.Y}); rook != nil {
		pos.relocate(rook, Square{X: to, Y: start.Y})
	}
}

// Clone returns a deep copy. Handle relationships inside the history are
// preserved, so the clone can be undone as far back as the original.
func (pos *Position) Clone() *Position {
	copies := make(map[*Piece]*Piece)
	dup := func(p *Piece) *Piece {
		if p == nil {
			return nil
		}
		if c, ok := copies[p]; ok {
			return c
		}
		c := *p
		copies[p] = &c
		return &c
	}

	clone := &Position{history: make([]*MoveRecord, 0, len(pos.history))}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			clone.grid[y][x] = dup(pos.grid[y][x])
		}
	}
	for _, r := range pos.history {
		clone.history = append(clone.history, &MoveRecord{
			Start:    r.Start,
			End:      r.End,
			Piece:    dup(r.Piece),
			Captured: dup(r.Captured),
			Promoted: dup(r.Promoted),
		})
	}
	return clone
}

func promotionRank(c Color) int {
	if c == White {
		return 0
	}
	return 7
}

func (pos *Position) place(p *Piece) {
	pos.grid[p.Square.Y][p.Square.X] = p
}

func (pos *Position) remove(p *Piece) {
	if pos.grid[p.Square.Y][p.Square.X] == p {
		pos.grid[p.Square.Y][p.Square.X] = nil
	}
}

func (pos *Position) relocate(p *Piece, to Square) {
	pos.remove(p)
	p.Square = to
	pos.place(p)
}
