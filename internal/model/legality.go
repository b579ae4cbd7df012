package model

import "github.com/gofiber/fiber/v2/log"

// IsAttacked reports whether any piece of the given colour could move to sq.
// A king is never asked for its own moves here, since those include castling
// which asks this question again; kings are tested by adjacency instead.
//
// Pawn forward steps count as well, so the answer is only meaningful for an
// occupied square such as a king's.
func (pos *Position) IsAttacked(sq Square, by Color) bool {
	for _, attacker := range pos.PiecesOf(by) {
		if attacker.Type == King {
			if adjacent(attacker.Square, sq) {
				return true
			}
			continue
		}
		for _, target := range pos.PseudoMoves(attacker) {
			if target == sq {
				return true
			}
		}
	}
	return false
}

// InCheck reports whether the king of the given colour is attacked. A
// position without that king is broken; it is logged and reported as not in
// check.
func (pos *Position) InCheck(color Color) bool {
	king := pos.King(color)
	if king == nil {
		log.Warnf("no %s king on the board", color)
		return false
	}
	return pos.IsAttacked(king.Square, color.Opponent())
}

// LegalMoves filters a piece's pseudo-moves down to those that do not leave
// its own king in check. Each candidate is played with Push, tested and
// undone, so one call costs roughly ownMoves × opponentMoves generator runs.
func (pos *Position) LegalMoves(piece *Piece) []Square {
	legalMoves := []Square{}
	start := piece.Square
	for _, end := range pos.PseudoMoves(piece) {
		if pos.Push(start, end) == nil {
			continue
		}
		if !pos.InCheck(piece.Color) {
			legalMoves = append(legalMoves, end)
		}
		pos.UndoMove()
	}
	return legalMoves
}

// AllLegalMoves lists every legal move for the colour in scan order.
func (pos *Position) AllLegalMoves(color Color) []Move {
	moves := []Move{}
	for _, piece := range pos.PiecesOf(color) {
		for _, end := range pos.LegalMoves(piece) {
			moves = append(moves, Move{From: piece.Square, To: end})
		}
	}
	return moves
}

// HasLegalMove stops at the first piece with a legal move.
func (pos *Position) HasLegalMove(color Color) bool {
	for _, piece := range pos.PiecesOf(color) {
		if len(pos.LegalMoves(piece)) > 0 {
			return true
		}
	}
	return false
}

func (pos *Position) IsCheckmate(color Color) bool {
	return pos.InCheck(color) && !pos.HasLegalMove(color)
}

func (pos *Position) IsStalemate(color Color) bool {
	return !pos.InCheck(color) && !pos.HasLegalMove(color)
}
