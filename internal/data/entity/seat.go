package entity

type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatOccupied  SeatStatus = "occupied"
	SeatDisabled  SeatStatus = "disabled"
)

// Seat is one seat in the availability snapshot for a screening. The snapshot
// is read-only; the session records selected seat ids, never seat mutations.
type Seat struct {
	ID         string     `json:"id"`
	RowName    string     `json:"row_name"`    // A, B, C, ...
	SeatNumber int        `json:"seat_number"` // 1, 2, 3, ...
	Status     SeatStatus `json:"status"`
}

// SeatSnapshot is the availability map for the active screening, keyed by
// seat id. Replaced wholesale on every fetch; stale snapshots are discarded,
// not merged.
type SeatSnapshot map[string]Seat

// Selectable reports whether the seat exists and can be newly selected.
func (m SeatSnapshot) Selectable(seatID string) bool {
	seat, ok := m[seatID]
	return ok && seat.Status == SeatAvailable
}
