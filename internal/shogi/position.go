package shogi

import "fmt"

// Position represents a complete Shogi position: board, both hands,
// side to move, and the cached derived state (occupancy, king
// squares, checkers, hash) the teacher's board.Position also caches
// for chess. A mailbox array is kept alongside the per-(color,type)
// bitboards, since Shogi's 14 piece types make "scan every bitboard"
// PieceAt lookups (the teacher's approach) noticeably pricier than a
// direct array read.
type Position struct {
	Board [NumSquares]Piece

	Pieces   [2][pieceTypeCount]Bitboard
	Occupied [2]Bitboard
	All      Bitboard

	Hands [2]Hand

	SideToMove Color
	Ply        int

	Hash uint64

	KingSquare [2]Square
	Checkers   Bitboard
}

// NewPosition returns the standard Shogi starting position.
func NewPosition() *Position {
	pos, err := ParseSFEN(StartSFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

func (p *Position) Clear() {
	*p = Position{}
	p.KingSquare[Black] = NoSquare
	p.KingSquare[White] = NoSquare
}

func (p *Position) PieceAt(sq Square) Piece {
	return p.Board[sq]
}

func (p *Position) IsEmpty(sq Square) bool {
	return p.Board[sq] == NoPiece
}

func (p *Position) setPiece(piece Piece, sq Square) {
	if piece == NoPiece {
		return
	}
	p.Board[sq] = piece
	c, pt := piece.Color(), piece.Type()
	bb := SquareBB(sq)
	p.Pieces[c][pt] = p.Pieces[c][pt].Or(bb)
	p.Occupied[c] = p.Occupied[c].Or(bb)
	p.All = p.All.Or(bb)
	if pt == King {
		p.KingSquare[c] = sq
	}
}

func (p *Position) removePiece(sq Square) Piece {
	piece := p.Board[sq]
	if piece == NoPiece {
		return NoPiece
	}
	c, pt := piece.Color(), piece.Type()
	bb := SquareBB(sq)
	p.Pieces[c][pt] = p.Pieces[c][pt].AndNot(bb)
	p.Occupied[c] = p.Occupied[c].AndNot(bb)
	p.All = p.All.AndNot(bb)
	p.Board[sq] = NoPiece
	return piece
}

// updateOccupied recomputes cached occupancy bitboards from Pieces.
func (p *Position) updateOccupied() {
	p.Occupied[Black] = Empty
	p.Occupied[White] = Empty
	for pt := PieceType(1); pt < pieceTypeCount; pt++ {
		p.Occupied[Black] = p.Occupied[Black].Or(p.Pieces[Black][pt])
		p.Occupied[White] = p.Occupied[White].Or(p.Pieces[White][pt])
	}
	p.All = p.Occupied[Black].Or(p.Occupied[White])
}

// ComputeHash computes the Zobrist hash from scratch: board pieces,
// both hands, and side to move, mirroring original_source/usi.c's
// hash_calc_func.
func (p *Position) ComputeHash() uint64 {
	var h uint64
	for sq := Square(0); sq < NumSquares; sq++ {
		if piece := p.Board[sq]; piece != NoPiece {
			h ^= ZobristPiece(piece.Color(), piece.Type(), sq)
		}
	}
	for _, c := range [2]Color{Black, White} {
		for _, pt := range HandPieceTypes {
			n := p.Hands[c].Count(pt)
			for i := 1; i <= n; i++ {
				h ^= ZobristHandStep(c, pt, i)
			}
		}
	}
	if p.SideToMove == White {
		h ^= ZobristTurn()
	}
	return h
}

// UpdateCheckers recomputes the Checkers bitboard for the side to move.
func (p *Position) UpdateCheckers() {
	us := p.SideToMove
	them := us.Other()
	ksq := p.KingSquare[us]
	if ksq == NoSquare {
		p.Checkers = Empty
		return
	}
	p.Checkers = p.attackersTo(ksq, them)
}

// attackersTo returns all pieces of color by attacking sq.
func (p *Position) attackersTo(sq Square, by Color) Bitboard {
	var attackers Bitboard
	occ := p.All
	// Non-sliders and pawns: check from sq's perspective using the
	// opposite color's step table (a Black pawn attacks forward; a
	// square is attacked by a Black pawn if stepping backward from sq
	// along Black's forward direction lands on a Black pawn).
	if pawnAttacks[by.Other()][sq].And(p.Pieces[by][Pawn]).More() {
		attackers = attackers.Or(pawnAttacks[by.Other()][sq].And(p.Pieces[by][Pawn]))
	}
	if knightAttacks[by.Other()][sq].And(p.Pieces[by][Knight]).More() {
		attackers = attackers.Or(knightAttacks[by.Other()][sq].And(p.Pieces[by][Knight]))
	}
	if silverAttacks[by.Other()][sq].And(p.Pieces[by][Silver]).More() {
		attackers = attackers.Or(silverAttacks[by.Other()][sq].And(p.Pieces[by][Silver]))
	}
	goldLike := p.Pieces[by][Gold].Or(p.Pieces[by][ProPawn]).Or(p.Pieces[by][ProLance]).
		Or(p.Pieces[by][ProKnight]).Or(p.Pieces[by][ProSilver])
	if goldAttacks[by.Other()][sq].And(goldLike).More() {
		attackers = attackers.Or(goldAttacks[by.Other()][sq].And(goldLike))
	}
	if kingAttacks[sq].And(p.Pieces[by][King]).More() {
		attackers = attackers.Or(kingAttacks[sq].And(p.Pieces[by][King]))
	}
	bishopLike := p.Pieces[by][Bishop].Or(p.Pieces[by][Horse])
	if ba := BishopAttacks(sq, occ).And(bishopLike); ba.More() {
		attackers = attackers.Or(ba)
	}
	rookLike := p.Pieces[by][Rook].Or(p.Pieces[by][Dragon])
	if ra := RookAttacks(sq, occ).And(rookLike); ra.More() {
		attackers = attackers.Or(ra)
	}
	if ha := kingAttacks[sq].And(p.Pieces[by][Horse]); ha.More() {
		attackers = attackers.Or(ha)
	}
	if da := kingAttacks[sq].And(p.Pieces[by][Dragon]); da.More() {
		attackers = attackers.Or(da)
	}
	if la := LanceAttacks(by.Other(), sq, occ).And(p.Pieces[by][Lance]); la.More() {
		attackers = attackers.Or(la)
	}
	return attackers
}

// IsAttackedBy reports whether sq is attacked by any piece of color by.
func (p *Position) IsAttackedBy(sq Square, by Color) bool {
	return p.attackersTo(sq, by).More()
}

func (p *Position) InCheck() bool {
	return p.Checkers.More()
}

func (p *Position) String() string {
	s := "\n"
	for rank := 0; rank < BoardSize; rank++ {
		for file := BoardSize - 1; file >= 0; file-- {
			piece := p.PieceAt(NewSquare(file, rank))
			s += piece.String()
		}
		s += "\n"
	}
	s += fmt.Sprintf("side=%s hash=%016x ply=%d\n", p.SideToMove, p.Hash, p.Ply)
	return s
}
