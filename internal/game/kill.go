// internal/game/kill.go
package game

import "github.com/ludoworld/ludo-service/internal/board"

// capture identifies one opposing token sent back to base by a move.
type capture struct {
	seatIdx  int
	tokenIdx int
	// position is the victim token's relative position before the capture;
	// the victim seat loses this many points, floored at zero.
	position int
}

// resolveKills determines which opposing tokens a move to dest captures.
// Base and home-stretch tokens never capture and are never captured, and a
// safe ring cell confers immunity in both directions. Lock held.
func (r *Room) resolveKills(moverIdx, dest int) []capture {
	// Geometry is fixed at room creation: entry offsets key off the room's
	// seat limit and each seat's original SeatID, so departures mid-game
	// never shift anyone's entry cell.
	seatCount := r.Doc.SeatLimit
	destUniversal, onRing := board.ToUniversal(seatCount, r.Doc.Seats[moverIdx].SeatID, dest)
	if !onRing || board.IsSafe(destUniversal) {
		return nil
	}

	var kills []capture
	for i := range r.Doc.Seats {
		if i == moverIdx {
			continue
		}
		for t, pos := range r.Doc.Seats[i].Tokens {
			u, ok := board.ToUniversal(seatCount, r.Doc.Seats[i].SeatID, pos)
			if ok && u == destUniversal {
				kills = append(kills, capture{seatIdx: i, tokenIdx: t, position: pos})
			}
		}
	}
	return kills
}
