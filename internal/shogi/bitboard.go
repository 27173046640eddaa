package shogi

import "math/bits"

// Bitboard represents a set of the 81 Shogi squares as two 64-bit
// words, generalizing the teacher's single-uint64 Bitboard (sufficient
// for chess's 64 squares) to Shogi's 81. Squares 0-63 live in Lo,
// squares 64-80 live in the low 17 bits of Hi.
type Bitboard struct {
	Lo, Hi uint64
}

// Empty is the zero bitboard.
var Empty = Bitboard{}

// SquareBB returns a bitboard with only sq set.
func SquareBB(sq Square) Bitboard {
	if sq < 64 {
		return Bitboard{Lo: 1 << uint(sq)}
	}
	return Bitboard{Hi: 1 << uint(sq-64)}
}

func (b Bitboard) Set(sq Square) Bitboard {
	return b.Or(SquareBB(sq))
}

func (b Bitboard) Clear(sq Square) Bitboard {
	s := SquareBB(sq)
	return Bitboard{Lo: b.Lo &^ s.Lo, Hi: b.Hi &^ s.Hi}
}

func (b Bitboard) IsSet(sq Square) bool {
	s := SquareBB(sq)
	return (b.Lo&s.Lo)|(b.Hi&s.Hi) != 0
}

func (b Bitboard) Or(o Bitboard) Bitboard  { return Bitboard{b.Lo | o.Lo, b.Hi | o.Hi} }
func (b Bitboard) And(o Bitboard) Bitboard { return Bitboard{b.Lo & o.Lo, b.Hi & o.Hi} }
func (b Bitboard) Xor(o Bitboard) Bitboard { return Bitboard{b.Lo ^ o.Lo, b.Hi ^ o.Hi} }
func (b Bitboard) Not() Bitboard           { return Bitboard{^b.Lo, ^b.Hi & 0x1FFFF} }
func (b Bitboard) AndNot(o Bitboard) Bitboard {
	return Bitboard{b.Lo &^ o.Lo, b.Hi &^ o.Hi}
}

func (b Bitboard) Empty() bool { return b.Lo == 0 && b.Hi == 0 }

func (b Bitboard) PopCount() int {
	return bits.OnesCount64(b.Lo) + bits.OnesCount64(b.Hi)
}

// LSB returns the lowest-indexed set square, or NoSquare if empty.
func (b Bitboard) LSB() Square {
	if b.Lo != 0 {
		return Square(bits.TrailingZeros64(b.Lo))
	}
	if b.Hi != 0 {
		return Square(64 + bits.TrailingZeros64(b.Hi))
	}
	return NoSquare
}

// PopLSB returns the lowest-indexed square and removes it from the receiver.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	if sq != NoSquare {
		*b = b.Clear(sq)
	}
	return sq
}

func (b Bitboard) More() bool {
	return b.Lo != 0 || b.Hi != 0
}

// ForEach calls fn for every set square.
func (b Bitboard) ForEach(fn func(Square)) {
	for b.More() {
		fn(b.PopLSB())
	}
}

// Squares returns all set squares as a slice.
func (b Bitboard) Squares() []Square {
	out := make([]Square, 0, b.PopCount())
	b.ForEach(func(sq Square) { out = append(out, sq) })
	return out
}

func (b Bitboard) String() string {
	s := make([]byte, 0, 9*10)
	for rank := 0; rank < BoardSize; rank++ {
		for file := 0; file < BoardSize; file++ {
			if b.IsSet(NewSquare(file, rank)) {
				s = append(s, '1')
			} else {
				s = append(s, '.')
			}
		}
		s = append(s, '\n')
	}
	return string(s)
}
