package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ticket-desk/internal/data/entity"

	"go.uber.org/zap"
)

// SeatFetcher fetches the seat layout and occupancy for a screening.
type SeatFetcher interface {
	Fetch(ctx context.Context, screeningID string) (entity.SeatSnapshot, error)
}

// wire shape of GET /screenings/{id}/seats
type seatDTO struct {
	ID         string `json:"id"`
	RowName    string `json:"rowName"`
	SeatNumber int    `json:"seatNumber"`
	Disabled   bool   `json:"disabled,omitempty"`
}

type seatListDTO struct {
	AvailableSeats []seatDTO `json:"availableSeats"`
	OccupiedSeats  []seatDTO `json:"occupiedSeats"`
}

type SeatClient struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewSeatClient(baseURL string, timeout time.Duration, log *zap.Logger) *SeatClient {
	return &SeatClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log.With(zap.String("gateway", "seats")),
	}
}

// Fetch returns a fresh availability snapshot for the screening. 404 maps to
// ErrNotFound, every transport or server failure to ErrNetwork.
func (c *SeatClient) Fetch(ctx context.Context, screeningID string) (entity.SeatSnapshot, error) {
	endpoint := fmt.Sprintf("%s/screenings/%s/seats", c.baseURL, url.PathEscape(screeningID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build seats request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("Seat fetch failed", zap.Error(err), zap.String("screening_id", screeningID))
		return nil, fmt.Errorf("fetch seats for screening %s: %w", screeningID, entity.ErrNetwork)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("screening %s: %w", screeningID, entity.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.log.Warn("Seat fetch unexpected status",
			zap.Int("status", resp.StatusCode),
			zap.String("screening_id", screeningID),
		)
		return nil, fmt.Errorf("fetch seats status %d: %w", resp.StatusCode, entity.ErrNetwork)
	}

	var body seatListDTO
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode seats response: %w", entity.ErrNetwork)
	}

	snapshot := make(entity.SeatSnapshot, len(body.AvailableSeats)+len(body.OccupiedSeats))
	for _, s := range body.AvailableSeats {
		status := entity.SeatAvailable
		if s.Disabled {
			status = entity.SeatDisabled
		}
		snapshot[s.ID] = entity.Seat{ID: s.ID, RowName: s.RowName, SeatNumber: s.SeatNumber, Status: status}
	}
	for _, s := range body.OccupiedSeats {
		snapshot[s.ID] = entity.Seat{ID: s.ID, RowName: s.RowName, SeatNumber: s.SeatNumber, Status: entity.SeatOccupied}
	}

	c.log.Debug("Seat snapshot fetched",
		zap.String("screening_id", screeningID),
		zap.Int("seats", len(snapshot)),
	)

	return snapshot, nil
}
