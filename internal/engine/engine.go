// Package engine picks moves for the automated opponent with a fixed-depth
// negamax search and alpha-beta pruning.
package engine

import (
	"fmt"
	"math"

	"github.com/benbeisheim/chessbot-backend/internal/model"
)

const (
	MinDepth = 1
	MaxDepth = 5
)

// Engine holds no state between searches other than its depth.
type Engine struct {
	depth int
}

func New(depth int) (*Engine, error) {
	if depth < MinDepth || depth > MaxDepth {
		return nil, fmt.Errorf("search depth %d out of range [%d, %d]", depth, MinDepth, MaxDepth)
	}
	return &Engine{depth: depth}, nil
}

func (e *Engine) Depth() int {
	return e.depth
}

// GenerateMove searches pos for color and returns the best move. ok is false
// when color has no legal move, i.e. it is mated or stalemated.
//
// pos is mutated during the search and restored before returning; nothing
// else may touch it meanwhile.
func (e *Engine) GenerateMove(pos *model.Position, color model.Color) (model.Move, bool) {
	_, best := Negamax(pos, e.depth, math.Inf(-1), math.Inf(1), color)
	if best == nil {
		return model.Move{}, false
	}
	return *best, true
}

// Negamax returns the score of pos for color and the move achieving it. The
// remaining moves of a node are skipped once alpha >= beta; this never
// changes the returned move or score.
func Negamax(pos *model.Position, depth int, alpha, beta float64, color model.Color) (float64, *model.Move) {
	if depth == 0 {
		return Evaluate(pos, color), nil
	}
	moves := SortedMoves(pos, color)
	if len(moves) == 0 && pos.InCheck(color) {
		return Evaluate(pos, color), nil
	}

	// A stalemated node above the horizon runs no iterations and scores -Inf.
	best := math.Inf(-1)
	var bestMove *model.Move
	for i := range moves {
		pos.Push(moves[i].From, moves[i].To)
		score, _ := Negamax(pos, depth-1, -beta, -alpha, color.Opponent())
		score = -score
		pos.UndoMove()

		// The first move is kept even if every line loses to mate.
		if score > best || bestMove == nil {
			best = score
			bestMove = &moves[i]
		}
		alpha = math.Max(alpha, score)
		if alpha >= beta {
			break
		}
	}
	return best, bestMove
}

// SortedMoves lists color's legal moves with checking moves first, then
// captures, then the rest, keeping generation order inside each group.
func SortedMoves(pos *model.Position, color model.Color) []model.Move {
	var checks, captures, quiet []model.Move
	for _, move := range pos.AllLegalMoves(color) {
		isCapture := pos.PieceAt(move.To) != nil
		pos.Push(move.From, move.To)
		givesCheck := pos.InCheck(color.Opponent())
		pos.UndoMove()

		switch {
		case givesCheck:
			checks = append(checks, move)
		case isCapture:
			captures = append(captures, move)
		default:
			quiet = append(quiet, move)
		}
	}
	sorted := make([]model.Move, 0, len(checks)+len(captures)+len(quiet))
	sorted = append(sorted, checks...)
	sorted = append(sorted, captures...)
	return append(sorted, quiet...)
}
