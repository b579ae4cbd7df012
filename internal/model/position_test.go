package model

import (
	"testing"
)

type placed struct {
	piece *Piece
	sq    Square
}

type snapshot struct {
	pieces []placed
	ply    int
}

func takeSnapshot(pos *Position) snapshot {
	s := snapshot{ply: pos.Ply()}
	for _, p := range pos.Pieces() {
		s.pieces = append(s.pieces, placed{piece: p, sq: p.Square})
	}
	return s
}

func assertSameSnapshot(t *testing.T, got, want snapshot) {
	t.Helper()
	if got.ply != want.ply {
		t.Fatalf("history length: got %d want %d", got.ply, want.ply)
	}
	if len(got.pieces) != len(want.pieces) {
		t.Fatalf("piece count: got %d want %d", len(got.pieces), len(want.pieces))
	}
	for i := range want.pieces {
		if got.pieces[i].piece != want.pieces[i].piece {
			t.Fatalf("piece %d identity changed (%v on %v)", i, want.pieces[i].piece.Type, want.pieces[i].sq)
		}
		if got.pieces[i].sq != want.pieces[i].sq {
			t.Fatalf("piece %d square: got %v want %v", i, got.pieces[i].sq, want.pieces[i].sq)
		}
	}
}

func mustLayout(t *testing.T, layout string) *Position {
	t.Helper()
	pos, err := NewPositionFromLayout(layout)
	if err != nil {
		t.Fatalf("NewPositionFromLayout(%q): %v", layout, err)
	}
	return pos
}

func sq(name string) Square {
	return Square{X: int(name[0] - 'a'), Y: 8 - int(name[1]-'0')}
}

func containsSquare(squares []Square, target Square) bool {
	for _, s := range squares {
		if s == target {
			return true
		}
	}
	return false
}

func TestStartingPositionHasTwentyMovesForEachSide(t *testing.T) {
	pos := NewPosition()
	if got := len(pos.Pieces()); got != 32 {
		t.Fatalf("expected 32 pieces, got %d", got)
	}
	for _, color := range []Color{White, Black} {
		if got := len(pos.AllLegalMoves(color)); got != 20 {
			t.Errorf("%s: expected 20 legal moves, got %d", color, got)
		}
	}
}

func TestApplyUndoRoundTripForEveryLegalMove(t *testing.T) {
	layouts := []string{
		StartingLayout,
		"r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R",
		"4k3/P7/8/8/8/8/7p/4K3",
		"r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR",
		"1r2k3/P7/8/3pP3/8/8/6p1/4K2R",
	}
	for _, layout := range layouts {
		pos := mustLayout(t, layout)
		for _, color := range []Color{White, Black} {
			for _, m := range pos.AllLegalMoves(color) {
				before := takeSnapshot(pos)
				if pos.ApplyMove(m.From, m.To) == nil {
					t.Fatalf("%s: legal move %v-%v rejected", layout, m.From, m.To)
				}
				pos.UndoMove()
				assertSameSnapshot(t, takeSnapshot(pos), before)
			}
		}
	}
}

func TestRoundTripAfterSeveralMoves(t *testing.T) {
	pos := NewPosition()
	start := takeSnapshot(pos)
	line := [][2]string{{"e2", "e4"}, {"d7", "d5"}, {"e4", "d5"}, {"d8", "d5"}, {"b1", "c3"}, {"d5", "a2"}}
	for _, mv := range line {
		if pos.ApplyMove(sq(mv[0]), sq(mv[1])) == nil {
			t.Fatalf("move %s-%s rejected", mv[0], mv[1])
		}
	}
	if pos.Ply() != len(line) {
		t.Fatalf("expected %d plies, got %d", len(line), pos.Ply())
	}
	if got := len(pos.Pieces()); got != 29 {
		t.Fatalf("expected 29 pieces after three captures, got %d", got)
	}
	for range line {
		pos.UndoMove()
	}
	assertSameSnapshot(t, takeSnapshot(pos), start)
}

func TestIllegalMoveIsNoOp(t *testing.T) {
	pos := mustLayout(t, "4k3/4r3/8/8/8/8/4B3/4K3")
	before := takeSnapshot(pos)

	tests := []struct {
		name  string
		start Square
		end   Square
	}{
		{"empty start square", sq("a1"), sq("a2")},
		{"pinned bishop", sq("e2"), sq("d3")},
		{"off geometry", sq("e1"), sq("e3")},
		{"onto own piece", sq("e1"), sq("e2")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if record := pos.ApplyMove(tt.start, tt.end); record != nil {
				t.Fatalf("expected rejection, got %+v", record)
			}
			assertSameSnapshot(t, takeSnapshot(pos), before)
		})
	}
}

func TestUndoOnEmptyHistory(t *testing.T) {
	pos := NewPosition()
	before := takeSnapshot(pos)
	pos.UndoMove()
	assertSameSnapshot(t, takeSnapshot(pos), before)
}

func TestCastling(t *testing.T) {
	pos := mustLayout(t, "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R")
	king := pos.PieceAt(sq("e1"))
	legal := pos.LegalMoves(king)
	for _, dest := range []string{"g1", "c1"} {
		if !containsSquare(legal, sq(dest)) {
			t.Fatalf("expected castling to %s in %v", dest, legal)
		}
	}

	before := takeSnapshot(pos)
	kingsideRook := pos.PieceAt(sq("h1"))
	if pos.ApplyMove(sq("e1"), sq("g1")) == nil {
		t.Fatal("kingside castling rejected")
	}
	if pos.PieceAt(sq("f1")) != kingsideRook {
		t.Fatalf("expected h1 rook on f1")
	}
	if pos.PieceAt(sq("h1")) != nil {
		t.Fatalf("expected h1 empty after castling")
	}
	pos.UndoMove()
	assertSameSnapshot(t, takeSnapshot(pos), before)

	queensideRook := pos.PieceAt(sq("a8"))
	if pos.ApplyMove(sq("e8"), sq("c8")) == nil {
		t.Fatal("queenside castling rejected")
	}
	if pos.PieceAt(sq("d8")) != queensideRook || pos.PieceAt(sq("c8")).Type != King {
		t.Fatalf("unexpected placement after queenside castling")
	}
	pos.UndoMove()
	assertSameSnapshot(t, takeSnapshot(pos), before)
}

func TestCastlingRequirements(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		moves  [][2]string
		dest   string
		want   bool
	}{
		{"blocked path", "4k3/8/8/8/8/8/8/RN2K2R", nil, "c1", false},
		{"king in check", "4k3/4r3/8/8/8/8/8/R3K2R", nil, "g1", false},
		{"rook moved and returned", "4k3/8/8/8/8/8/8/R3K2R", [][2]string{{"h1", "h2"}, {"e8", "d8"}, {"h2", "h1"}}, "g1", true},
		{"king moved away", "4k3/8/8/8/8/8/8/R3K2R", [][2]string{{"e1", "d1"}}, "b1", false},
		{"transit square attacked", "4kr2/8/8/8/8/8/8/4K2R", nil, "g1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustLayout(t, tt.layout)
			for _, mv := range tt.moves {
				if pos.ApplyMove(sq(mv[0]), sq(mv[1])) == nil {
					t.Fatalf("setup move %s-%s rejected", mv[0], mv[1])
				}
			}
			king := pos.King(White)
			got := containsSquare(pos.LegalMoves(king), sq(tt.dest))
			if got != tt.want {
				t.Fatalf("castling to %s: got %v want %v", tt.dest, got, tt.want)
			}
		})
	}
}

func TestPromotion(t *testing.T) {
	pos := mustLayout(t, "1n2k3/8/P7/8/8/8/8/4K3")
	pawn := pos.PieceAt(sq("a6"))
	if pos.ApplyMove(sq("a6"), sq("a7")) == nil {
		t.Fatal("a6-a7 rejected")
	}
	before := takeSnapshot(pos)

	record := pos.ApplyMove(sq("a7"), sq("b8"))
	if record == nil {
		t.Fatal("a7xb8 rejected")
	}
	queen := pos.PieceAt(sq("b8"))
	if queen == nil || queen.Type != Queen || queen.Color != White {
		t.Fatalf("expected white queen on b8, got %+v", queen)
	}
	if record.Promoted != queen || record.Piece != pawn || record.Captured == nil {
		t.Fatalf("record not amended for promotion: %+v", record)
	}
	if got := Notation(record); got != "xb8=Q" {
		t.Fatalf("notation: got %q", got)
	}

	pos.UndoMove()
	assertSameSnapshot(t, takeSnapshot(pos), before)
	if pos.PieceAt(sq("a7")) != pawn || pawn.Type != Pawn {
		t.Fatalf("expected original pawn back on a7")
	}
	if !pawn.HasMoved() {
		t.Fatalf("pawn on a7 should still count as moved")
	}

	pos.UndoMove()
	if pawn.HasMoved() {
		t.Fatalf("pawn back on a6 should not count as moved")
	}
}

func TestBlackPromotesOnLastRank(t *testing.T) {
	pos := mustLayout(t, "4k3/8/8/8/8/8/7p/K7")
	if pos.ApplyMove(sq("h2"), sq("h1")) == nil {
		t.Fatal("h2-h1 rejected")
	}
	if q := pos.PieceAt(sq("h1")); q == nil || q.Type != Queen || q.Color != Black {
		t.Fatalf("expected black queen on h1, got %+v", q)
	}
}

func TestPawnMoves(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		from   string
		want   []string
	}{
		{"unmoved pawn", StartingLayout, "e2", []string{"e3", "e4"}},
		{"double step blocked", "4k3/8/8/8/4n3/8/4P3/4K3", "e2", []string{"e3"}},
		{"single step blocked", "4k3/8/8/8/8/4n3/4P3/4K3", "e2", []string{}},
		{"captures", "4k3/8/8/8/8/3p1p2/4P3/4K3", "e2", []string{"e3", "e4", "d3", "f3"}},
		{"black moves down", "4k3/3p4/8/8/8/8/8/4K3", "d7", []string{"d6", "d5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustLayout(t, tt.layout)
			got := pos.PseudoMoves(pos.PieceAt(sq(tt.from)))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
			for _, w := range tt.want {
				if !containsSquare(got, sq(w)) {
					t.Fatalf("missing %s in %v", w, got)
				}
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	pos := NewPosition()
	pos.ApplyMove(sq("e2"), sq("e4"))
	pos.ApplyMove(sq("d7"), sq("d5"))
	pos.ApplyMove(sq("e4"), sq("d5"))

	clone := pos.Clone()
	before := takeSnapshot(pos)

	clone.UndoMove()
	clone.UndoMove()
	clone.ApplyMove(sq("g8"), sq("f6"))
	assertSameSnapshot(t, takeSnapshot(pos), before)

	if clone.Ply() != 2 || clone.PieceAt(sq("e4")) == nil || clone.PieceAt(sq("d7")) == nil {
		t.Fatalf("clone history not replayed correctly")
	}
}
