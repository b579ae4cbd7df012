package engine

import (
	"math"

	"github.com/benbeisheim/chessbot-backend/internal/model"
)

// Evaluate scores the position from the point of view of color: +Inf if the
// opponent is mated, -Inf if color is, 0 on stalemate for either side, and
// otherwise material plus piece-square bonuses.
//
// The bonus is added for both colours, so Black's bonuses count in White's
// favour before the final sign flip.
func Evaluate(pos *model.Position, color model.Color) float64 {
	ownCheck, ownMoves := pos.InCheck(color), pos.HasLegalMove(color)
	if ownCheck && !ownMoves {
		return math.Inf(-1)
	}
	oppCheck, oppMoves := pos.InCheck(color.Opponent()), pos.HasLegalMove(color.Opponent())
	if oppCheck && !oppMoves {
		return math.Inf(1)
	}
	if !ownMoves || !oppMoves {
		return 0
	}
	return material(pos) * float64(color)
}

// material is the signed material and positional sum, positive for White.
func material(pos *model.Position) float64 {
	score := 0.0
	for _, piece := range pos.Pieces() {
		value := 0.0
		if piece.Type != model.King {
			value = float64(piece.Value())
		}
		if piece.Color == model.White {
			score += value + tableBonus(piece)
		} else {
			score += -value + tableBonus(piece)
		}
	}
	return score
}
