package engine

import "github.com/benbeisheim/chessbot-backend/internal/model"

// Piece-square bonuses in pawn units. Rows are Y (row 0 is the rank White
// pawns promote on), columns are X.
var pawnTable = [8][8]float64{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{0.50, 0.50, 0.50, 0.50, 0.50, 0.50, 0.50, 0.50},
	{0.10, 0.10, 0.20, 0.30, 0.30, 0.20, 0.10, 0.10},
	{0.05, 0.05, 0.10, 0.25, 0.25, 0.10, 0.05, 0.05},
	{0, 0, 0, 0.20, 0.20, 0, 0, 0},
	{0.05, -0.05, -0.10, 0, 0, -0.10, -0.05, 0.05},
	{0.05, 0.10, 0.10, -0.20, -0.20, 0.10, 0.10, 0.05},
	{0, 0, 0, 0, 0, 0, 0, 0},
}

var knightTable = [8][8]float64{
	{-0.50, -0.40, -0.30, -0.30, -0.30, -0.30, -0.40, -0.50},
	{-0.40, -0.20, 0, 0, 0, 0, -0.20, -0.40},
	{-0.30, 0, 0.10, 0.15, 0.15, 0.10, 0, -0.30},
	{-0.30, 0.05, 0.15, 0.20, 0.20, 0.15, 0.05, -0.30},
	{-0.30, 0, 0.15, 0.20, 0.20, 0.15, 0, -0.30},
	{-0.30, 0.05, 0.10, 0.15, 0.15, 0.10, 0.05, -0.30},
	{-0.40, -0.20, 0, 0.05, 0.05, 0, -0.20, -0.40},
	{-0.50, -0.40, -0.30, -0.30, -0.30, -0.30, -0.40, -0.50},
}

var bishopTable = [8][8]float64{
	{-0.20, -0.10, -0.10, -0.10, -0.10, -0.10, -0.10, -0.20},
	{-0.10, 0, 0, 0, 0, 0, 0, -0.10},
	{-0.10, 0, 0.05, 0.10, 0.10, 0.05, 0, -0.10},
	{-0.10, 0.05, 0.05, 0.10, 0.10, 0.05, 0.05, -0.10},
	{-0.10, 0, 0.10, 0.10, 0.10, 0.10, 0, -0.10},
	{-0.10, 0.10, 0.10, 0.10, 0.10, 0.10, 0.10, -0.10},
	{-0.10, 0.05, 0, 0, 0, 0, 0.05, -0.10},
	{-0.20, -0.10, -0.10, -0.10, -0.10, -0.10, -0.10, -0.20},
}

var rookTable = [8][8]float64{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{0.05, 0.10, 0.10, 0.10, 0.10, 0.10, 0.10, 0.05},
	{-0.05, 0, 0, 0, 0, 0, 0, -0.05},
	{-0.05, 0, 0, 0, 0, 0, 0, -0.05},
	{-0.05, 0, 0, 0, 0, 0, 0, -0.05},
	{-0.05, 0, 0, 0, 0, 0, 0, -0.05},
	{-0.05, 0, 0, 0, 0, 0, 0, -0.05},
	{0, 0, 0, 0.05, 0.05, 0, 0, 0},
}

var queenTable = [8][8]float64{
	{-0.20, -0.10, -0.10, -0.05, -0.05, -0.10, -0.10, -0.20},
	{-0.10, 0, 0, 0, 0, 0, 0, -0.10},
	{-0.10, 0, 0.05, 0.05, 0.05, 0.05, 0, -0.10},
	{-0.05, 0, 0.05, 0.05, 0.05, 0.05, 0, -0.05},
	{0, 0, 0.05, 0.05, 0.05, 0.05, 0, -0.05},
	{-0.10, 0.05, 0.05, 0.05, 0.05, 0.05, 0, -0.10},
	{-0.10, 0, 0.05, 0, 0, 0, 0, -0.10},
	{-0.20, -0.10, -0.10, -0.05, -0.05, -0.10, -0.10, -0.20},
}

var kingTable = [8][8]float64{
	{-0.30, -0.40, -0.40, -0.50, -0.50, -0.40, -0.40, -0.30},
	{-0.30, -0.40, -0.40, -0.50, -0.50, -0.40, -0.40, -0.30},
	{-0.30, -0.40, -0.40, -0.50, -0.50, -0.40, -0.40, -0.30},
	{-0.30, -0.40, -0.40, -0.50, -0.50, -0.40, -0.40, -0.30},
	{-0.20, -0.30, -0.30, -0.40, -0.40, -0.30, -0.30, -0.20},
	{-0.10, -0.20, -0.20, -0.20, -0.20, -0.20, -0.20, -0.10},
	{0.20, 0.20, 0, 0, 0, 0, 0.20, 0.20},
	{0.20, 0.30, 0.10, 0, 0, 0.10, 0.30, 0.20},
}

var pieceTables = map[model.PieceType]*[8][8]float64{
	model.Pawn:   &pawnTable,
	model.Knight: &knightTable,
	model.Bishop: &bishopTable,
	model.Rook:   &rookTable,
	model.Queen:  &queenTable,
	model.King:   &kingTable,
}

// tableBonus mirrors only the file for Black.
func tableBonus(p *model.Piece) float64 {
	table, ok := pieceTables[p.Type]
	if !ok {
		return 0
	}
	x, y := p.Square.X, p.Square.Y
	if p.Color == model.Black {
		x = 7 - x
	}
	return table[y][x]
}
