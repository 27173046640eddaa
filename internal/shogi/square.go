package shogi

import "fmt"

// Square indexes one of the 81 board cells as rank*9+file, both
// 0-indexed, matching the teacher's NewSquare(file, rank) row-major
// convention generalized from 8x8 to 9x9. In move-codec text (spec.md
// 4.6/6: "files are letters a..i, ranks digits 1..9") file 0 renders
// as 'a' and rank 0 renders as '1'.
type Square uint8

// NoSquare marks an absent square (e.g. unset king square during setup).
const NoSquare Square = 81

const (
	BoardSize = 9
	NumSquares = 81
)

// NewSquare builds a Square from 0-indexed file and rank.
func NewSquare(file, rank int) Square {
	return Square(rank*BoardSize + file)
}

// File returns the 0-indexed file (0 renders as move-codec file 'a').
func (s Square) File() int {
	return int(s) % BoardSize
}

// Rank returns the 0-indexed rank (0 renders as move-codec rank '1').
func (s Square) Rank() int {
	return int(s) / BoardSize
}

// IsValid reports whether s addresses a real board square.
func (s Square) IsValid() bool {
	return s < NumSquares
}

// String renders move-codec notation, letter-file then digit-rank
// (spec.md 4.6/6), e.g. "e5" for the center square.
func (s Square) String() string {
	if !s.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+byte(s.File()), s.Rank()+1)
}

// ParseSquare parses move-codec square notation ("e5": letter file,
// digit rank) into a Square.
func ParseSquare(str string) (Square, error) {
	if len(str) != 2 {
		return NoSquare, fmt.Errorf("invalid square %q", str)
	}
	fileLetter := str[0]
	rankDigit := str[1]
	if fileLetter < 'a' || fileLetter > 'i' {
		return NoSquare, fmt.Errorf("invalid file in square %q", str)
	}
	if rankDigit < '1' || rankDigit > '9' {
		return NoSquare, fmt.Errorf("invalid rank in square %q", str)
	}
	file := int(fileLetter - 'a')
	rank := int(rankDigit - '1')
	return NewSquare(file, rank), nil
}

// RelativeRank returns the rank as seen by color c: for Black the
// board is flipped so that advancing always increases RelativeRank,
// mirroring the teacher's Square.RelativeRank used for pawn-advance logic.
func (s Square) RelativeRank(c Color) int {
	if c == Black {
		return BoardSize - 1 - s.Rank()
	}
	return s.Rank()
}
