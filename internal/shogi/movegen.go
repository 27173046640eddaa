package shogi

// Move generation: pseudo-legal per-piece moves plus drops, filtered
// to legal moves by a make/check/unmake probe of the moving side's own
// king safety. A 9x9 board is small enough that this probe-based
// filter (rather than the teacher's precomputed-pin fast path in
// board.Position.ComputePinned) is fast enough in practice and far
// simpler to get right against Shogi's drop rules; see DESIGN.md.

// forcedPromotionRank returns the relative-rank threshold at or beyond
// which pt must promote when moving to a square of that relative rank
// (i.e. it would otherwise have no legal moves from there).
func forcedPromotionRank(pt PieceType) (minRelRank int, forced bool) {
	switch pt {
	case Pawn, Lance:
		return BoardSize - 1, true
	case Knight:
		return BoardSize - 2, true
	default:
		return 0, false
	}
}

func inPromotionZone(sq Square, c Color) bool {
	return sq.RelativeRank(c) >= BoardSize-3
}

// GenerateLegalMoves returns every legal move (board moves and drops)
// for the side to move.
func (p *Position) GenerateLegalMoves() *MoveList {
	pseudo := p.generatePseudoLegal()
	legal := &MoveList{}
	us := p.SideToMove
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		undo := p.MakeMove(m)
		if !p.IsAttackedBy(p.KingSquare[us], p.SideToMove) {
			legal.Add(m)
		}
		p.UnmakeMove(m, undo)
	}
	return legal
}

// IsMateInOne returns a mating move if one exists, NoMove otherwise.
func (p *Position) IsMateInOne() Move {
	moves := p.GenerateLegalMoves()
	us := p.SideToMove
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := p.MakeMove(m)
		them := p.SideToMove
		mate := p.InCheck() && p.GenerateLegalMoves().Len() == 0
		p.UnmakeMove(m, undo)
		if mate {
			_ = us
			_ = them
			return m
		}
	}
	return NoMove
}

func (p *Position) generatePseudoLegal() *MoveList {
	ml := &MoveList{}
	us := p.SideToMove
	them := us.Other()

	for sq := Square(0); sq < NumSquares; sq++ {
		piece := p.Board[sq]
		if piece == NoPiece || piece.Color() != us {
			continue
		}
		pt := piece.Type()
		targets := AttacksFrom(pt, us, sq, p.All).AndNot(p.Occupied[us])
		minRel, forced := forcedPromotionRank(pt)
		targets.ForEach(func(to Square) {
			captured := NoPieceType
			if target := p.Board[to]; target != NoPiece {
				captured = target.Type()
			}
			canPromote := pt.CanPromote() && (inPromotionZone(sq, us) || inPromotionZone(to, us))
			mustPromote := forced && to.RelativeRank(us) >= minRel
			if mustPromote {
				ml.Add(NewMove(sq, to, pt.Promote(), captured, true))
				return
			}
			if canPromote {
				ml.Add(NewMove(sq, to, pt.Promote(), captured, true))
			}
			ml.Add(NewMove(sq, to, pt, captured, false))
		})
	}

	p.generateDrops(ml, us, them)
	return ml
}

func (p *Position) generateDrops(ml *MoveList, us, them Color) {
	hand := p.Hands[us]
	for _, pt := range HandPieceTypes {
		if hand.Count(pt) == 0 {
			continue
		}
		minRel, forced := forcedPromotionRank(pt)
		hasPawnOnFile := [BoardSize]bool{}
		if pt == Pawn {
			for f := 0; f < BoardSize; f++ {
				for r := 0; r < BoardSize; r++ {
					sq := NewSquare(f, r)
					if piece := p.Board[sq]; piece != NoPiece && piece.Color() == us && piece.Type() == Pawn {
						hasPawnOnFile[f] = true
					}
				}
			}
		}
		for sq := Square(0); sq < NumSquares; sq++ {
			if p.Board[sq] != NoPiece {
				continue
			}
			if forced && sq.RelativeRank(us) >= minRel {
				continue
			}
			if pt == Pawn {
				if hasPawnOnFile[sq.File()] {
					continue
				}
				if p.dropPawnIsMateByUchifuzume(sq, us, them) {
					continue
				}
			}
			ml.Add(NewDrop(pt, sq))
		}
	}
}

// dropPawnIsMateByUchifuzume reports whether dropping a pawn for us on
// sq would deliver checkmate, which is illegal (uchifuzume).
func (p *Position) dropPawnIsMateByUchifuzume(sq Square, us, them Color) bool {
	// Only relevant if the drop gives check at all.
	if !pawnAttacks[us][sq].IsSet(p.KingSquare[them]) {
		return false
	}
	m := NewDrop(Pawn, sq)
	undo := p.MakeMove(m)
	mate := p.InCheck() && p.GenerateLegalMoves().Len() == 0
	p.UnmakeMove(m, undo)
	return mate
}
