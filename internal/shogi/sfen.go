package shogi

import (
	"fmt"
	"strconv"
	"strings"
)

// StartSFEN is the SFEN for the standard Shogi starting position.
const StartSFEN = "lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b - 1"

var sfenPieceType = map[byte]PieceType{
	'P': Pawn, 'L': Lance, 'N': Knight, 'S': Silver, 'G': Gold,
	'B': Bishop, 'R': Rook, 'K': King,
}

// ParseSFEN parses a position SFEN string (board, side, hands, move
// number — the protocol-level "moves ..." suffix is handled by the USI
// adapter, not here), grounded on original_source/usi.c's
// usi_parse_sfen.
func ParseSFEN(sfen string) (*Position, error) {
	fields := strings.Fields(sfen)
	if len(fields) < 3 {
		return nil, &ParseError{Msg: fmt.Sprintf("sfen needs at least 3 fields, got %d", len(fields))}
	}
	pos := &Position{}
	pos.KingSquare[Black] = NoSquare
	pos.KingSquare[White] = NoSquare

	if err := parseBoard(pos, fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "b":
		pos.SideToMove = Black
	case "w":
		pos.SideToMove = White
	default:
		return nil, &ParseError{Msg: fmt.Sprintf("invalid side to move %q", fields[1])}
	}

	if err := parseHands(pos, fields[2]); err != nil {
		return nil, err
	}

	if len(fields) > 3 {
		if n, err := strconv.Atoi(fields[3]); err == nil {
			pos.Ply = n - 1
		}
	}

	pos.updateOccupied()
	pos.Hash = pos.ComputeHash()
	pos.UpdateCheckers()
	return pos, nil
}

func parseBoard(pos *Position, field string) error {
	ranks := strings.Split(field, "/")
	if len(ranks) != BoardSize {
		return &ParseError{Msg: fmt.Sprintf("sfen board needs %d ranks, got %d", BoardSize, len(ranks))}
	}
	for r, rankStr := range ranks {
		file := 0
		promote := false
		for i := 0; i < len(rankStr); i++ {
			c := rankStr[i]
			switch {
			case c == '+':
				promote = true
			case c >= '1' && c <= '9':
				file += int(c - '0')
			default:
				if file >= BoardSize {
					return &ParseError{Msg: fmt.Sprintf("too many squares in rank %d", r+1)}
				}
				pt, ok := sfenPieceType[upper(c)]
				if !ok {
					return &ParseError{Msg: fmt.Sprintf("invalid piece char %q", c)}
				}
				if promote {
					pt = pt.Promote()
					promote = false
				}
				color := Black
				if c >= 'a' && c <= 'z' {
					color = White
				}
				pos.setPiece(NewPiece(pt, color), NewSquare(file, r))
				file++
			}
		}
		if file != BoardSize {
			return &ParseError{Msg: fmt.Sprintf("rank %d has %d squares, want %d", r+1, file, BoardSize)}
		}
	}
	return nil
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

func parseHands(pos *Position, field string) error {
	if field == "-" {
		return nil
	}
	count := 0
	for i := 0; i < len(field); i++ {
		c := field[i]
		if c >= '1' && c <= '9' {
			count = count*10 + int(c-'0')
			continue
		}
		pt, ok := sfenPieceType[upper(c)]
		if !ok || pt == King {
			return &ParseError{Msg: fmt.Sprintf("invalid hand piece char %q", c)}
		}
		if count == 0 {
			count = 1
		}
		color := Black
		if c >= 'a' && c <= 'z' {
			color = White
		}
		if count > MaxHandCount(pt) {
			return &ParseError{Msg: fmt.Sprintf("hand count %d exceeds max for %c", count, c)}
		}
		for n := 0; n < count; n++ {
			pos.Hands[color] = pos.Hands[color].Add(pt)
		}
		count = 0
	}
	return nil
}

// RenderSFEN serializes the position back to SFEN, the inverse of
// ParseSFEN, mirroring usi_position_to_sfen.
func (p *Position) RenderSFEN() string {
	var sb strings.Builder
	for r := 0; r < BoardSize; r++ {
		empty := 0
		for f := 0; f < BoardSize; f++ {
			piece := p.PieceAt(NewSquare(f, r))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			pt := piece.Type()
			if pt.IsPromoted() {
				sb.WriteByte('+')
			}
			ch := pt.SFENChar()
			if piece.Color() == White {
				ch += 'a' - 'A'
			}
			sb.WriteByte(ch)
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if r != BoardSize-1 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == Black {
		sb.WriteByte('b')
	} else {
		sb.WriteByte('w')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.handString())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.Ply + 1))
	return sb.String()
}

func (p *Position) handString() string {
	var sb strings.Builder
	any := false
	for _, c := range [2]Color{Black, White} {
		for _, pt := range HandPieceTypes {
			n := p.Hands[c].Count(pt)
			if n == 0 {
				continue
			}
			any = true
			if n > 1 {
				sb.WriteString(strconv.Itoa(n))
			}
			ch := pt.SFENChar()
			if c == White {
				ch += 'a' - 'A'
			}
			sb.WriteByte(ch)
		}
	}
	if !any {
		return "-"
	}
	return sb.String()
}
