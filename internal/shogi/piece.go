package shogi

// Color identifies the side owning a piece or hand.
type Color int8

const (
	Black Color = iota
	White
	NoColor Color = 2
)

// Other returns the opposing color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	switch c {
	case Black:
		return "Black"
	case White:
		return "White"
	default:
		return "NoColor"
	}
}

// PieceType enumerates the 14 distinct Shogi piece kinds (promoted
// variants included). Unlike chess, a piece keeps its identity across
// promotion, so the type itself encodes whether it is promoted.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Lance
	Knight
	Silver
	Gold
	Bishop
	Rook
	King
	ProPawn   // Tokin
	ProLance
	ProKnight
	ProSilver
	Horse // promoted bishop
	Dragon // promoted rook
	pieceTypeCount
)

// PieceTypeCount is the number of PieceType values, including
// NoPieceType at index 0.
const PieceTypeCount = int(pieceTypeCount)

// promoted maps an unpromoted type to its promoted form, NoPieceType if
// the type cannot promote (Gold, King) or is already promoted.
var promoted = [pieceTypeCount]PieceType{
	Pawn:   ProPawn,
	Lance:  ProLance,
	Knight: ProKnight,
	Silver: ProSilver,
	Bishop: Horse,
	Rook:   Dragon,
}

// demoted is the inverse of promoted: promoted type -> base type.
var demoted = [pieceTypeCount]PieceType{
	ProPawn:   Pawn,
	ProLance:  Lance,
	ProKnight: Knight,
	ProSilver: Silver,
	Horse:     Bishop,
	Dragon:    Rook,
}

// CanPromote reports whether pt has a promoted form.
func (pt PieceType) CanPromote() bool {
	return promoted[pt] != NoPieceType
}

// IsPromoted reports whether pt is itself a promoted form.
func (pt PieceType) IsPromoted() bool {
	return demoted[pt] != NoPieceType
}

// Promote returns the promoted form of pt, or pt unchanged if it cannot promote.
func (pt PieceType) Promote() PieceType {
	if p := promoted[pt]; p != NoPieceType {
		return p
	}
	return pt
}

// Demote returns the unpromoted form of pt, or pt unchanged if it is not promoted.
func (pt PieceType) Demote() PieceType {
	if p := demoted[pt]; p != NoPieceType {
		return p
	}
	return pt
}

// BaseValue is the material value in centipawns, grounded on the
// relative piece values used throughout engine.c-derived Shogi
// evaluators (pawn=1 unit, major pieces scaled up).
var BaseValue = [pieceTypeCount]int{
	Pawn:      90,
	Lance:     315,
	Knight:    405,
	Silver:    495,
	Gold:      540,
	Bishop:    855,
	Rook:      990,
	King:      0,
	ProPawn:   540,
	ProLance:  540,
	ProKnight: 540,
	ProSilver: 540,
	Horse:     945,
	Dragon:    1155,
}

var pieceLetters = [pieceTypeCount]byte{
	Pawn: 'P', Lance: 'L', Knight: 'N', Silver: 'S', Gold: 'G',
	Bishop: 'B', Rook: 'R', King: 'K',
	ProPawn: 'P', ProLance: 'L', ProKnight: 'N', ProSilver: 'S',
	Horse: 'B', Dragon: 'R',
}

// SFENChar returns the SFEN character for pt (uppercase base letter,
// with a "+" prefix for promoted types handled by the caller).
func (pt PieceType) SFENChar() byte {
	return pieceLetters[pt]
}

// Piece packs a PieceType and Color into a single signed value: the
// magnitude is the piece type, the sign is the owning color. Shogi
// pieces never change identity except by promotion/demotion in place,
// so a signed-magnitude encoding is the natural fit here (unlike the
// teacher's chess Piece, which multiplexes type and color additively
// because chess pieces are never "owned" by both sides across a game).
type Piece int8

// NoPiece denotes an empty square.
const NoPiece Piece = 0

// NewPiece builds a Piece from type and color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt == NoPieceType {
		return NoPiece
	}
	if c == White {
		return -Piece(pt)
	}
	return Piece(pt)
}

// Type returns the piece type, ignoring color.
func (p Piece) Type() PieceType {
	if p < 0 {
		return PieceType(-p)
	}
	return PieceType(p)
}

// Color returns the owning color. Result is meaningless for NoPiece.
func (p Piece) Color() Color {
	if p < 0 {
		return White
	}
	return Black
}

// Promote returns the promoted form of p, same color.
func (p Piece) Promote() Piece {
	return NewPiece(p.Type().Promote(), p.Color())
}

// Demote returns the unpromoted form of p, same color.
func (p Piece) Demote() Piece {
	return NewPiece(p.Type().Demote(), p.Color())
}

func (p Piece) String() string {
	if p == NoPiece {
		return " * "
	}
	pt := p.Type()
	s := ""
	if pt.IsPromoted() {
		s += "+"
	}
	c := pieceLetters[pt]
	if p.Color() == White {
		c += 'a' - 'A'
	}
	return s + string(c)
}
