package engine

import (
	"math"
	"testing"

	"github.com/benbeisheim/chessbot-backend/internal/model"
)

func mustLayout(t *testing.T, layout string) *model.Position {
	t.Helper()
	pos, err := model.NewPositionFromLayout(layout)
	if err != nil {
		t.Fatalf("NewPositionFromLayout(%q): %v", layout, err)
	}
	return pos
}

func sq(name string) model.Square {
	return model.Square{X: int(name[0] - 'a'), Y: 8 - int(name[1]-'0')}
}

// fullWidth is negamax without pruning, visiting moves in the same order.
func fullWidth(pos *model.Position, depth int, color model.Color) (float64, *model.Move) {
	if depth == 0 {
		return Evaluate(pos, color), nil
	}
	if pos.IsCheckmate(color) {
		return Evaluate(pos, color), nil
	}
	moves := SortedMoves(pos, color)
	best := math.Inf(-1)
	var bestMove *model.Move
	for i := range moves {
		pos.Push(moves[i].From, moves[i].To)
		score, _ := fullWidth(pos, depth-1, color.Opponent())
		score = -score
		pos.UndoMove()
		if score > best || bestMove == nil {
			best = score
			bestMove = &moves[i]
		}
	}
	return best, bestMove
}

func TestNewRejectsDepthOutOfRange(t *testing.T) {
	for _, depth := range []int{-1, 0, 6} {
		if _, err := New(depth); err == nil {
			t.Errorf("New(%d): expected error", depth)
		}
	}
	e, err := New(3)
	if err != nil {
		t.Fatal(err)
	}
	if e.Depth() != 3 {
		t.Fatalf("depth: got %d", e.Depth())
	}
}

func TestEvaluateTerminalPositions(t *testing.T) {
	mate := mustLayout(t, "r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR")
	if got := Evaluate(mate, model.Black); !math.IsInf(got, -1) {
		t.Errorf("mated side: got %v want -Inf", got)
	}
	if got := Evaluate(mate, model.White); !math.IsInf(got, 1) {
		t.Errorf("mating side: got %v want +Inf", got)
	}

	stalemate := mustLayout(t, "7k/5Q2/6K1/8/8/8/8/8")
	for _, color := range []model.Color{model.White, model.Black} {
		if got := Evaluate(stalemate, color); got != 0 {
			t.Errorf("stalemate for %s: got %v want 0", color, got)
		}
	}
}

func TestEvaluateIsRelativeToColor(t *testing.T) {
	pos := mustLayout(t, "4k3/8/8/8/8/8/8/3QK3")
	white := Evaluate(pos, model.White)
	black := Evaluate(pos, model.Black)
	if white < 8 {
		t.Fatalf("extra queen should be worth about 9, got %v", white)
	}
	if black != -white {
		t.Fatalf("expected %v for Black, got %v", -white, black)
	}
}

func TestTableBonusMirrorsFileForBlack(t *testing.T) {
	pos := mustLayout(t, "4k3/8/8/8/8/8/1N6/4K3")
	white := pos.PieceAt(sq("b2"))
	if got, want := tableBonus(white), knightTable[6][1]; got != want {
		t.Fatalf("white knight bonus: got %v want %v", got, want)
	}
	pos = mustLayout(t, "4k3/8/8/8/8/8/1n6/4K3")
	black := pos.PieceAt(sq("b2"))
	if got, want := tableBonus(black), knightTable[6][6]; got != want {
		t.Fatalf("black knight bonus: got %v want %v", got, want)
	}
}

func TestSortedMovesPutsChecksThenCaptures(t *testing.T) {
	pos := mustLayout(t, "4k3/8/8/3p4/8/8/8/R3K3")
	moves := SortedMoves(pos, model.White)
	if got, want := len(moves), len(pos.AllLegalMoves(model.White)); got != want {
		t.Fatalf("sorted %d moves, expected %d", got, want)
	}

	class := func(m model.Move) int {
		isCapture := pos.PieceAt(m.To) != nil
		pos.Push(m.From, m.To)
		defer pos.UndoMove()
		switch {
		case pos.InCheck(model.Black):
			return 0
		case isCapture:
			return 1
		default:
			return 2
		}
	}
	last := 0
	for _, m := range moves {
		c := class(m)
		if c < last {
			t.Fatalf("move %v-%v of class %d after class %d", m.From, m.To, c, last)
		}
		last = c
	}
	if first := moves[0]; first.From != sq("a1") || first.To != sq("a8") {
		t.Fatalf("expected Ra8+ first, got %v-%v", first.From, first.To)
	}
}

func TestGenerateMoveFindsMateInOne(t *testing.T) {
	pos := mustLayout(t, "6k1/5ppp/8/8/8/8/8/R5K1")
	e, _ := New(1)
	move, ok := e.GenerateMove(pos, model.White)
	if !ok {
		t.Fatal("expected a move")
	}
	if move.From != sq("a1") || move.To != sq("a8") {
		t.Fatalf("expected Ra8#, got %v-%v", move.From, move.To)
	}
}

func TestGenerateMoveWinsHangingQueen(t *testing.T) {
	pos := mustLayout(t, "4k3/8/8/3q4/8/8/8/3RK3")
	e, _ := New(2)
	move, ok := e.GenerateMove(pos, model.White)
	if !ok {
		t.Fatal("expected a move")
	}
	if move.From != sq("d1") || move.To != sq("d5") {
		t.Fatalf("expected Rxd5, got %v-%v", move.From, move.To)
	}
}

func TestGenerateMoveLeavesPositionUntouched(t *testing.T) {
	pos := model.NewPosition()
	pos.ApplyMove(sq("e2"), sq("e4"))
	before := pos.Pieces()
	e, _ := New(2)
	if _, ok := e.GenerateMove(pos, model.Black); !ok {
		t.Fatal("expected a move")
	}
	after := pos.Pieces()
	if len(before) != len(after) || pos.Ply() != 1 {
		t.Fatalf("search changed the position")
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("piece %d changed", i)
		}
	}
}

func TestGenerateMoveWithNoLegalMoves(t *testing.T) {
	tests := []struct {
		name   string
		layout string
	}{
		{"checkmate", "R5k1/5ppp/8/8/8/8/8/6K1"},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8"},
	}
	e, _ := New(2)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustLayout(t, tt.layout)
			if move, ok := e.GenerateMove(pos, model.Black); ok {
				t.Fatalf("expected no move, got %v-%v", move.From, move.To)
			}
		})
	}
}

func TestStalemateAboveHorizonScoresAsLoss(t *testing.T) {
	pos := mustLayout(t, "7k/5Q2/6K1/8/8/8/8/8")

	if score, _ := Negamax(pos, 0, math.Inf(-1), math.Inf(1), model.Black); score != 0 {
		t.Fatalf("depth 0: got %v want 0", score)
	}
	score, move := Negamax(pos, 1, math.Inf(-1), math.Inf(1), model.Black)
	if !math.IsInf(score, -1) || move != nil {
		t.Fatalf("depth 1: got (%v, %v) want (-Inf, nil)", score, move)
	}
	if score, _ := fullWidth(pos, 1, model.Black); !math.IsInf(score, -1) {
		t.Fatalf("full width depth 1: got %v want -Inf", score)
	}
}

func TestPruningMatchesFullWidthSearch(t *testing.T) {
	tests := []struct {
		layout string
		color  model.Color
		depth  int
	}{
		{"4k3/8/8/3q4/8/8/8/3RK3", model.White, 3},
		{"r3k3/8/8/3q4/8/2N5/3P4/R3K3", model.Black, 2},
		{"6k1/5ppp/8/8/8/8/5PPP/R5K1", model.White, 3},
		{"4k3/1P6/8/8/8/8/6p1/4K3", model.White, 3},
		{"7k/8/6K1/8/8/8/8/5Q2", model.White, 2},
	}
	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			pos := mustLayout(t, tt.layout)
			wantScore, wantMove := fullWidth(pos, tt.depth, tt.color)
			gotScore, gotMove := Negamax(pos, tt.depth, math.Inf(-1), math.Inf(1), tt.color)
			if gotScore != wantScore {
				t.Fatalf("score: pruned %v, full width %v", gotScore, wantScore)
			}
			if gotMove == nil || wantMove == nil {
				t.Fatalf("missing move: pruned %v, full width %v", gotMove, wantMove)
			}
			if *gotMove != *wantMove {
				t.Fatalf("move: pruned %v-%v, full width %v-%v", gotMove.From, gotMove.To, wantMove.From, wantMove.To)
			}
		})
	}
}
