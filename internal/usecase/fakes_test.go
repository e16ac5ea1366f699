package usecase_test

import (
	"context"
	"sync"

	"ticket-desk/internal/data/entity"
	"ticket-desk/internal/data/gateway"
)

// fakeSeatFetcher serves canned snapshots per screening id. A gate channel,
// when set, blocks the fetch until closed so tests can control when an
// in-flight response lands.
type fakeSeatFetcher struct {
	mu    sync.Mutex
	snaps map[string]entity.SeatSnapshot
	errs  map[string]error
	gates map[string]chan struct{}
	calls map[string]int
}

func newFakeSeatFetcher() *fakeSeatFetcher {
	return &fakeSeatFetcher{
		snaps: make(map[string]entity.SeatSnapshot),
		errs:  make(map[string]error),
		gates: make(map[string]chan struct{}),
		calls: make(map[string]int),
	}
}

func (f *fakeSeatFetcher) set(screeningID string, snap entity.SeatSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snaps[screeningID] = snap
}

func (f *fakeSeatFetcher) gate(screeningID string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := make(chan struct{})
	f.gates[screeningID] = g
	return g
}

func (f *fakeSeatFetcher) fetches(screeningID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[screeningID]
}

func (f *fakeSeatFetcher) Fetch(ctx context.Context, screeningID string) (entity.SeatSnapshot, error) {
	f.mu.Lock()
	f.calls[screeningID]++
	gate := f.gates[screeningID]
	snap := f.snaps[screeningID]
	err := f.errs[screeningID]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// fakeDraftStore is an in-memory draft.Store.
type fakeDraftStore struct {
	mu     sync.Mutex
	drafts map[string][]string
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{drafts: make(map[string][]string)}
}

func (f *fakeDraftStore) SaveSelectedSeats(ctx context.Context, sessionID string, seatIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts[sessionID] = append([]string{}, seatIDs...)
	return nil
}

func (f *fakeDraftStore) LoadSelectedSeats(ctx context.Context, sessionID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	draft, ok := f.drafts[sessionID]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), draft...), nil
}

func (f *fakeDraftStore) Clear(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.drafts, sessionID)
	return nil
}

func (f *fakeDraftStore) get(sessionID string) ([]string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	draft, ok := f.drafts[sessionID]
	return draft, ok
}

// fakeBookingAPI records requests and answers from canned responses.
type fakeBookingAPI struct {
	mu         sync.Mutex
	reserveErr error
	payErr     error

	reservations []*gateway.ReservationRequest
	payments     []*gateway.PaymentRequest
}

func (f *fakeBookingAPI) CreateReservation(ctx context.Context, req *gateway.ReservationRequest) (*gateway.ReservationResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reservations = append(f.reservations, req)
	if f.reserveErr != nil {
		return nil, f.reserveErr
	}
	return &gateway.ReservationResponse{ID: "res-1", ReservationCode: "RSV-001", Status: "reserved"}, nil
}

func (f *fakeBookingAPI) Pay(ctx context.Context, req *gateway.PaymentRequest) (*gateway.PaymentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments = append(f.payments, req)
	if f.payErr != nil {
		return nil, f.payErr
	}
	return &gateway.PaymentResponse{ApprovalCode: "APV-42", Amount: req.Amount}, nil
}

// fakeRecordRepo is an in-memory reservation archive.
type fakeRecordRepo struct {
	mu        sync.Mutex
	createErr error
	records   []*entity.ReservationRecord
}

func (f *fakeRecordRepo) Create(ctx context.Context, record *entity.ReservationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeRecordRepo) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.ReservationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.ReservationRecord
	for _, rec := range f.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRecordRepo) CountByUserID(ctx context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	for _, rec := range f.records {
		if rec.UserID == userID {
			total++
		}
	}
	return total, nil
}
