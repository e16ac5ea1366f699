package request

// Reservation history is the only listing this service exposes, and a single
// user rarely accumulates more than a few dozen completed bookings. Pages are
// capped accordingly.
const (
	DefaultPerPage = 10
	MaxPerPage     = 50
)

type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=50"`
}

// Limit clamps per_page into [1, MaxPerPage]; unset or invalid values fall
// back to DefaultPerPage.
func (p PaginatedRequest) Limit() int {
	switch {
	case p.PerPage < 1:
		return DefaultPerPage
	case p.PerPage > MaxPerPage:
		return MaxPerPage
	default:
		return p.PerPage
	}
}

// Offset is the number of records to skip for the requested page.
func (p PaginatedRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}
