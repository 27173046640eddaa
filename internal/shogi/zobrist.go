package shogi

// Zobrist hash keys, generalizing the teacher's board/zobrist.go xorshift64*
// PRNG scheme from 64 squares/6 piece types/2 colors to 81 squares/14 piece
// types/2 colors, and replacing castling/en-passant keys (which Shogi has no
// analogue for) with per-(color,pieceType,count) hand keys, grounded on
// original_source/usi.c's hash_calc_func which XORs a random word per
// occupied square and per held-piece count in each hand.
var (
	zobristPiece [2][pieceTypeCount][NumSquares]uint64
	zobristHand  [2][pieceTypeCount][19]uint64 // index by running count 1..cap
	zobristTurn  uint64
)

func init() {
	initZobrist()
}

type prng struct{ state uint64 }

func newPRNG(seed uint64) *prng { return &prng{state: seed} }

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for c := Black; c <= White; c++ {
		for pt := PieceType(1); pt < pieceTypeCount; pt++ {
			for sq := Square(0); sq < NumSquares; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}

	for c := Black; c <= White; c++ {
		for pt := PieceType(1); pt < pieceTypeCount; pt++ {
			for n := 1; n <= 18; n++ {
				zobristHand[c][pt][n] = rng.next()
			}
		}
	}

	zobristTurn = rng.next()
}

// ZobristPiece returns the key for a piece of type pt and color c on sq.
func ZobristPiece(c Color, pt PieceType, sq Square) uint64 {
	return zobristPiece[c][pt][sq]
}

// ZobristHandStep returns the key XORed when a hand's count of pt
// transitions across n (i.e. going from n-1 to n pieces held, or back).
func ZobristHandStep(c Color, pt PieceType, n int) uint64 {
	if n <= 0 {
		return 0
	}
	return zobristHand[c][pt][n]
}

// ZobristTurn is XORed whenever side to move changes.
func ZobristTurn() uint64 {
	return zobristTurn
}
