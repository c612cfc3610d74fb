// internal/board/board.go
package board

// The outer track is a ring of 52 cells shared by every seat. Each token also
/// walks a per-seat relative track: 0 is the base, 1..50 are ring cells counted
// from the seat's own entry cell, and 51..56 are the private home stretch with
// 56 being home. Only relative positions 1..50 ever map onto the ring.
const (
	RingSize      = 52
	TrackEnd      = 50 // last relative position that is still on the shared ring
	StretchBase   = 51 // first home-stretch position
	Home          = 56 // finished
	TokensPerSeat = 4
	EntryRoll     = 6 // dice value required to bring a token out of base
)

// entryOffsets holds each seat's entry cell on the ring, indexed by seat count.
// Entries are evenly spaced so no two seats share an entry cell.
var entryOffsets = map[int][]int{
	2: {0, 26},
	4: {0, 13, 26, 39},
}

// safeCells are ring coordinates where tokens can neither capture nor be
// captured: the four entry cells plus the star cell eight ahead of each.
var safeCells = map[int]bool{
	0: true, 8: true, 13: true, 21: true, 26: true, 34: true, 39: true, 47: true,
}

// EntryOffset returns the ring cell where the given seat's tokens enter.
func EntryOffset(seatCount, seatIndex int) int {
	offsets, ok := entryOffsets[seatCount]
	if !ok || seatIndex < 0 || seatIndex >= len(offsets) {
		return 0
	}
	return offsets[seatIndex]
}

// OnRing reports whether a relative position occupies a shared ring cell.
// Base tokens and home-stretch tokens are off the ring.
func OnRing(rel int) bool {
	return rel >= 1 && rel <= TrackEnd
}

// ToUniversal maps a seat's relative track position to its ring coordinate.
// The boolean is false for positions that are not on the ring.
func ToUniversal(seatCount, seatIndex, rel int) (int, bool) {
	if !OnRing(rel) {
		return 0, false
	}
	return (EntryOffset(seatCount, seatIndex) + rel - 1) % RingSize, true
}

// IsSafe reports whether a ring coordinate is a safe cell.
func IsSafe(universal int) bool {
	return safeCells[universal]
}

// Entries returns the entry offsets for a seat count, for validation and
// broadcast payloads.
func Entries(seatCount int) []int {
	offsets := entryOffsets[seatCount]
	out := make([]int, len(offsets))
	copy(out, offsets)
	return out
}
