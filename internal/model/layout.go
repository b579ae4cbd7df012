package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// StartingLayout is the standard initial placement. Its first rank is Black's
// back rank, so White (uppercase) pawns move towards Y = 0.
const StartingLayout = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

var ErrInvalidLayout = errors.New("invalid layout")

var pieceLetters = map[rune]PieceType{
	'p': Pawn,
	'n': Knight,
	'b': Bishop,
	'r': Rook,
	'q': Queen,
	'k': King,
}

// ParseLayout turns a rank-by-rank layout string into piece letter ->
// squares. Only the placement field is read; anything after the first space
// is ignored.
func ParseLayout(layout string) (map[rune][]Square, error) {
	fields := strings.Fields(layout)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidLayout)
	}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidLayout, len(ranks))
	}

	placement := make(map[rune][]Square)
	for y, rank := range ranks {
		x := 0
		for _, char := range rank {
			if unicode.IsDigit(char) {
				x += int(char - '0')
				continue
			}
			if _, ok := pieceLetters[unicode.ToLower(char)]; !ok {
				return nil, fmt.Errorf("%w: unknown piece %q", ErrInvalidLayout, char)
			}
			if x > 7 {
				return nil, fmt.Errorf("%w: rank %d overflows", ErrInvalidLayout, y+1)
			}
			placement[char] = append(placement[char], Square{X: x, Y: y})
			x++
		}
		if x != 8 {
			return nil, fmt.Errorf("%w: rank %d has %d squares", ErrInvalidLayout, y+1, x)
		}
	}
	return placement, nil
}

func pieceFromLetter(letter rune) (PieceType, Color) {
	color := Black
	if unicode.IsUpper(letter) {
		color = White
	}
	return pieceLetters[unicode.ToLower(letter)], color
}
