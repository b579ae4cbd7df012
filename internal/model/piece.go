package model

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// KingValue is the sentinel material value of a king. It never enters a
// material sum since kings are never captured.
const KingValue = 100

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return ""
	}
	return ""
}

func (p PieceType) Value() int {
	switch p {
	case Pawn:
		return 1
	case Knight, Bishop:
		return 3
	case Rook:
		return 5
	case Queen:
		return 9
	case King:
		return KingValue
	}
	return 0
}

// Piece is owned by a Position. Its address is its identity: history records
// hold the same pointers so that undo can tell a promoted queen from the pawn
// it replaced.
type Piece struct {
	Type        PieceType `json:"type"`
	Color       Color     `json:"color"`
	Square      Square    `json:"position"`
	StartSquare Square    `json:"-"`
}

func newPiece(t PieceType, c Color, sq Square) *Piece {
	return &Piece{Type: t, Color: c, Square: sq, StartSquare: sq}
}

func (p *Piece) HasMoved() bool {
	return p.Square != p.StartSquare
}

func (p *Piece) Value() int {
	return p.Type.Value()
}

// PseudoMoves returns the destinations allowed by the piece's geometry and
// basic occupancy, without checking whether the mover's own king is left
// attacked.
func (pos *Position) PseudoMoves(piece *Piece) []Square {
	switch piece.Type {
	case Pawn:
		return pos.getPsuedoPawnMoves(piece)
	case Knight:
		return pos.getStepMoves(piece, knightDirs)
	case Bishop:
		return pos.getRayMoves(piece, bishopDirs)
	case Rook:
		return pos.getRayMoves(piece, rookDirs)
	case Queen:
		return append(pos.getRayMoves(piece, rookDirs), pos.getRayMoves(piece, bishopDirs)...)
	case King:
		return append(pos.getStepMoves(piece, kingDirs), pos.getCastleMoves(piece)...)
	default:
		return nil
	}
}

func (pos *Position) getPsuedoPawnMoves(piece *Piece) []Square {
	pawnMoves := []Square{}
	dir := -int(piece.Color)

	one := piece.Square.add(0, dir)
	if boundaryCheck(one) && pos.PieceAt(one) == nil {
		pawnMoves = append(pawnMoves, one)
		two := piece.Square.add(0, 2*dir)
		if !piece.HasMoved() && boundaryCheck(two) && pos.PieceAt(two) == nil {
			pawnMoves = append(pawnMoves, two)
		}
	}

	for _, dx := range []int{-1, 1} {
		target := piece.Square.add(dx, dir)
		if !boundaryCheck(target) {
			continue
		}
		if occupant := pos.PieceAt(target); occupant != nil && occupant.Color != piece.Color {
			pawnMoves = append(pawnMoves, target)
		}
	}
	return pawnMoves
}

func (pos *Position) getStepMoves(piece *Piece, dirs []Square) []Square {
	moves := []Square{}
	for _, dir := range dirs {
		target := piece.Square.add(dir.X, dir.Y)
		if !boundaryCheck(target) {
			continue
		}
		if occupant := pos.PieceAt(target); occupant == nil || occupant.Color != piece.Color {
			moves = append(moves, target)
		}
	}
	return moves
}

func (pos *Position) getRayMoves(piece *Piece, dirs []Square) []Square {
	moves := []Square{}
	for _, dir := range dirs {
		target := piece.Square.add(dir.X, dir.Y)
		for boundaryCheck(target) {
			occupant := pos.PieceAt(target)
			if occupant == nil {
				moves = append(moves, target)
			} else {
				if occupant.Color != piece.Color {
					moves = append(moves, target)
				}
				break
			}
			target = target.add(dir.X, dir.Y)
		}
	}
	return moves
}

// getCastleMoves only checks that the king is not currently attacked; the
// squares it passes over are not tested.
func (pos *Position) getCastleMoves(piece *Piece) []Square {
	if piece.HasMoved() {
		return nil
	}
	moves := []Square{}
	rank := piece.Square.Y
	inCheck := false
	checked := false

	for _, rookFile := range []int{7, 0} {
		rook := pos.PieceAt(Square{X: rookFile, Y: rank})
		if rook == nil || rook.Type != Rook || rook.Color != piece.Color || rook.HasMoved() {
			continue
		}
		if !pos.pathClear(rank, piece.Square.X, rookFile) {
			continue
		}
		if !checked {
			inCheck = pos.IsAttacked(piece.Square, piece.Color.Opponent())
			checked = true
		}
		if inCheck {
			return moves
		}
		step := 2
		if rookFile < piece.Square.X {
			step = -2
		}
		target := piece.Square.add(step, 0)
		if boundaryCheck(target) {
			moves = append(moves, target)
		}
	}
	return moves
}

// pathClear reports whether every square strictly between files a and b on
// the given rank is empty.
func (pos *Position) pathClear(rank, a, b int) bool {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	for x := lo + 1; x < hi; x++ {
		if pos.PieceAt(Square{X: x, Y: rank}) != nil {
			return false
		}
	}
	return true
}
