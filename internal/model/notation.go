package model

import "fmt"

// Notation renders a committed move in short algebraic style: piece letter
// (none for pawns), x on capture, destination square, =Q on promotion.
func Notation(record *MoveRecord) string {
	if record == nil {
		return ""
	}
	pieceNotationPrefix := record.Piece.Type.getPieceNotation()
	pieceNotationCapture := ""
	if record.Captured != nil {
		pieceNotationCapture = "x"
	}
	pieceNotationSuffix := record.End.getSquareNotation()
	if record.Promoted != nil {
		pieceNotationSuffix += "=" + record.Promoted.Type.getPieceNotation()
	}
	return fmt.Sprintf("%s%s%s", pieceNotationPrefix, pieceNotationCapture, pieceNotationSuffix)
}
