package shogi

// MakeMove applies m to the position in place and returns the undo
// record needed to reverse it, generalizing the teacher's
// Position.MakeMove XOR-delta idiom to drops and hand-count hashing.
func (p *Position) MakeMove(m Move) Undo {
	undo := Undo{
		HandBefore: p.Hands,
		Hash:       p.Hash,
		Checkers:   p.Checkers,
		KingSquare: p.KingSquare,
	}

	us := p.SideToMove
	to := m.To()

	if m.IsDrop() {
		pt := m.DropType()
		p.Hands[us] = p.Hands[us].Remove(pt)
		p.Hash ^= ZobristHandStep(us, pt, p.Hands[us].Count(pt)+1)
		p.setPiece(NewPiece(pt, us), to)
		p.Hash ^= ZobristPiece(us, pt, to)
	} else {
		from := m.From()
		moving := p.removePiece(from)
		p.Hash ^= ZobristPiece(us, moving.Type(), from)

		if captured := p.Board[to]; captured != NoPiece {
			capType := captured.Type()
			undo.Captured = capType
			them := us.Other()
			p.removePiece(to)
			p.Hash ^= ZobristPiece(them, capType, to)
			handType := capType.Demote()
			p.Hands[us] = p.Hands[us].Add(handType)
			p.Hash ^= ZobristHandStep(us, handType, p.Hands[us].Count(handType))
		}

		newType := moving.Type()
		if m.IsPromotion() {
			newType = newType.Promote()
		}
		newPiece := NewPiece(newType, us)
		p.setPiece(newPiece, to)
		p.Hash ^= ZobristPiece(us, newType, to)
	}

	p.SideToMove = us.Other()
	p.Hash ^= ZobristTurn()
	p.Ply++
	p.UpdateCheckers()

	return undo
}

// UnmakeMove reverses a prior MakeMove(m) call given its undo record.
func (p *Position) UnmakeMove(m Move, undo Undo) {
	them := p.SideToMove // side that just moved is the other of this
	us := them.Other()

	to := m.To()

	if m.IsDrop() {
		p.removePiece(to)
	} else {
		from := m.From()
		moving := p.removePiece(to)
		origType := moving.Type().Demote()
		if !m.IsPromotion() {
			origType = moving.Type()
		}
		p.setPiece(NewPiece(origType, us), from)

		if undo.Captured != NoPieceType {
			p.setPiece(NewPiece(undo.Captured, them), to)
		}
	}

	p.Hands = undo.HandBefore
	p.Hash = undo.Hash
	p.Checkers = undo.Checkers
	p.KingSquare = undo.KingSquare
	p.SideToMove = us
	p.Ply--
}
