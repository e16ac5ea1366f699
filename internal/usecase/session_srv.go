package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ticket-desk/internal/data/draft"
	"ticket-desk/internal/data/entity"
	"ticket-desk/internal/data/gateway"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SessionService interface {
	// Create starts a booking attempt for a screening. A client may resend
	// its previous session id after a page reload; if that session is still
	// live it is returned as-is, otherwise a new session is created under
	// the same id and any surviving draft seat list is returned so the UI
	// can offer to re-apply it.
	Create(ctx context.Context, userID string, sessionID uuid.UUID, screening entity.Screening) (view *entity.ReservationSession, recoveredSeats []string, err error)
	Get(ctx context.Context, id uuid.UUID) (*entity.ReservationSession, error)
	SelectScreening(ctx context.Context, id uuid.UUID, screening entity.Screening) (*entity.ReservationSession, error)
	SetAudienceCount(ctx context.Context, id uuid.UUID, category entity.AudienceCategory, count int) (*entity.ReservationSession, error)
	ToggleSeat(ctx context.Context, id uuid.UUID, seatID string) (*entity.ReservationSession, error)
	RefreshSeats(ctx context.Context, id uuid.UUID) (*entity.ReservationSession, error)
	ResetTimer(ctx context.Context, id uuid.UUID) (*entity.ReservationSession, error)
	ApplyCoupon(ctx context.Context, id uuid.UUID, coupon entity.Coupon) (applied bool, view *entity.ReservationSession, err error)
	RemoveCoupon(ctx context.Context, id uuid.UUID) (*entity.ReservationSession, error)
	Advance(ctx context.Context, id uuid.UUID) (*entity.ReservationSession, error)
	Retreat(ctx context.Context, id uuid.UUID) (*entity.ReservationSession, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

// liveSession pairs a session with its lock and countdown. The per-session
// mutex is the serialized event queue: user mutations, timer ticks and the
// async seat-fetch callback all run under it, so no two mutations interleave.
type liveSession struct {
	mu      sync.Mutex
	session *entity.ReservationSession
	timer   *HoldTimer

	// timerGen identifies the countdown that currently owns the session.
	// Bumped under mu on every re-arm; a tick carrying an older generation
	// was already dequeued when its countdown got replaced and must not run.
	timerGen uint64

	// touchedAt is the last user interaction, read by Sweep.
	touchedAt time.Time
}

// SessionManager owns all live reservation sessions in memory.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*liveSession

	seats       gateway.SeatFetcher
	drafts      draft.Store
	holdSeconds int
	log         *zap.Logger
}

var _ SessionService = (*SessionManager)(nil)

func NewSessionManager(seats gateway.SeatFetcher, drafts draft.Store, holdSeconds int, log *zap.Logger) *SessionManager {
	return &SessionManager{
		sessions:    make(map[uuid.UUID]*liveSession),
		seats:       seats,
		drafts:      drafts,
		holdSeconds: holdSeconds,
		log:         log.With(zap.String("service", "session")),
	}
}

func (s *SessionManager) Create(ctx context.Context, userID string, sessionID uuid.UUID, screening entity.Screening) (*entity.ReservationSession, []string, error) {
	if sessionID != uuid.Nil {
		if view, err := s.Get(ctx, sessionID); err == nil {
			return view, nil, nil
		}
	}

	id := sessionID
	if id == uuid.Nil {
		id = uuid.New()
	}

	recovered, err := s.drafts.LoadSelectedSeats(ctx, id.String())
	if err != nil {
		s.log.Warn("Failed to load draft on session create", zap.Error(err), zap.String("session_id", id.String()))
		recovered = nil
	}

	ls := &liveSession{
		session:   entity.NewReservationSession(id, userID),
		timer:     NewHoldTimer(),
		touchedAt: time.Now(),
	}

	// Check-and-insert under one lock: two racing creates with the same id
	// must not replace a live entry whose countdown is still running.
	s.mu.Lock()
	if existing, ok := s.sessions[id]; ok {
		s.mu.Unlock()
		existing.mu.Lock()
		view := existing.session.Clone()
		existing.mu.Unlock()
		return view, nil, nil
	}
	s.sessions[id] = ls
	s.mu.Unlock()

	ls.mu.Lock()
	defer ls.mu.Unlock()
	if err := ls.session.SelectScreening(screening, s.holdSeconds); err != nil {
		return nil, nil, fmt.Errorf("select screening %s: %w", screening.ID, err)
	}
	s.startTimer(ls)
	s.fetchSeatsAsync(ls, screening.ID)

	s.log.Info("Session created",
		zap.String("session_id", id.String()),
		zap.String("user_id", userID),
		zap.String("screening_id", screening.ID),
		zap.Int("hold_seconds", s.holdSeconds),
	)

	return ls.session.Clone(), recovered, nil
}

func (s *SessionManager) Get(ctx context.Context, id uuid.UUID) (*entity.ReservationSession, error) {
	ls, err := s.live(id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.touchedAt = time.Now()
	return ls.session.Clone(), nil
}

func (s *SessionManager) SelectScreening(ctx context.Context, id uuid.UUID, screening entity.Screening) (*entity.ReservationSession, error) {
	return s.mutate(id, func(ls *liveSession) error {
		if err := ls.session.SelectScreening(screening, s.holdSeconds); err != nil {
			return fmt.Errorf("select screening %s: %w", screening.ID, err)
		}
		s.persistDraft(ls.session)
		s.startTimer(ls)
		// The screening-id guard in the fetch callback makes any in-flight
		// fetch for the previous screening a no-op.
		s.fetchSeatsAsync(ls, screening.ID)
		s.log.Info("Screening selected",
			zap.String("session_id", id.String()),
			zap.String("screening_id", screening.ID),
		)
		return nil
	})
}

func (s *SessionManager) SetAudienceCount(ctx context.Context, id uuid.UUID, category entity.AudienceCategory, count int) (*entity.ReservationSession, error) {
	return s.mutate(id, func(ls *liveSession) error {
		purged, err := ls.session.SetAudienceCount(category, count)
		if err != nil {
			return fmt.Errorf("set audience %s=%d: %w", category, count, err)
		}
		if purged {
			s.persistDraft(ls.session)
			s.log.Info("Seat selection purged by audience change",
				zap.String("session_id", id.String()),
				zap.String("category", string(category)),
				zap.Int("count", count),
			)
		}
		return nil
	})
}

func (s *SessionManager) ToggleSeat(ctx context.Context, id uuid.UUID, seatID string) (*entity.ReservationSession, error) {
	return s.mutate(id, func(ls *liveSession) error {
		selected, err := ls.session.ToggleSeat(seatID)
		if err != nil {
			return fmt.Errorf("toggle seat %s: %w", seatID, err)
		}
		s.persistDraft(ls.session)
		s.log.Debug("Seat toggled",
			zap.String("session_id", id.String()),
			zap.String("seat_id", seatID),
			zap.Bool("selected", selected),
			zap.Int("selection_size", len(ls.session.SelectedSeats)),
		)
		return nil
	})
}

func (s *SessionManager) RefreshSeats(ctx context.Context, id uuid.UUID) (*entity.ReservationSession, error) {
	ls, err := s.live(id)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	if ls.session.Screening == nil {
		ls.mu.Unlock()
		return nil, fmt.Errorf("refresh seats: %w", entity.ErrInvalidStep)
	}
	screeningID := ls.session.Screening.ID
	ls.mu.Unlock()

	// Fetch outside the lock; the screening-id guard below covers a
	// concurrent SelectScreening.
	snapshot, err := s.seats.Fetch(ctx, screeningID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.session.Screening == nil || ls.session.Screening.ID != screeningID {
		return ls.session.Clone(), nil
	}
	ls.session.SetSeatSnapshot(snapshot)
	return ls.session.Clone(), nil
}

func (s *SessionManager) ResetTimer(ctx context.Context, id uuid.UUID) (*entity.ReservationSession, error) {
	return s.mutate(id, func(ls *liveSession) error {
		if err := ls.session.ResetTimer(s.holdSeconds); err != nil {
			return fmt.Errorf("reset timer: %w", err)
		}
		s.startTimer(ls)
		return nil
	})
}

func (s *SessionManager) ApplyCoupon(ctx context.Context, id uuid.UUID, coupon entity.Coupon) (bool, *entity.ReservationSession, error) {
	var applied bool
	view, err := s.mutate(id, func(ls *liveSession) error {
		applied = ls.session.ApplyCoupon(&coupon, time.Now())
		if !applied {
			s.log.Info("Coupon not applicable",
				zap.String("session_id", id.String()),
				zap.String("coupon_id", coupon.ID),
				zap.Float64("total", ls.session.Price.Total),
			)
		}
		return nil
	})
	return applied, view, err
}

func (s *SessionManager) RemoveCoupon(ctx context.Context, id uuid.UUID) (*entity.ReservationSession, error) {
	return s.mutate(id, func(ls *liveSession) error {
		ls.session.RemoveCoupon()
		return nil
	})
}

func (s *SessionManager) Advance(ctx context.Context, id uuid.UUID) (*entity.ReservationSession, error) {
	return s.mutate(id, func(ls *liveSession) error {
		if err := ls.session.Advance(); err != nil {
			return fmt.Errorf("advance: %w", err)
		}
		s.log.Info("Session advanced to payment", zap.String("session_id", id.String()))
		return nil
	})
}

func (s *SessionManager) Retreat(ctx context.Context, id uuid.UUID) (*entity.ReservationSession, error) {
	return s.mutate(id, func(ls *liveSession) error {
		if err := ls.session.Retreat(); err != nil {
			return fmt.Errorf("retreat: %w", err)
		}
		return nil
	})
}

// Cancel clears the session from any state: timer stopped, draft cleared,
// session removed from the registry.
func (s *SessionManager) Cancel(ctx context.Context, id uuid.UUID) error {
	ls, err := s.live(id)
	if err != nil {
		return err
	}

	ls.mu.Lock()
	ls.timer.Stop()
	ls.session.Reset()
	ls.mu.Unlock()

	if err := s.drafts.Clear(ctx, id.String()); err != nil {
		s.log.Warn("Failed to clear draft on cancel", zap.Error(err), zap.String("session_id", id.String()))
	}

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	s.log.Info("Session cancelled", zap.String("session_id", id.String()))
	return nil
}

// Sweep removes finished sessions from the registry: completed sessions and
// sessions whose hold already expired, once untouched for at least maxIdle.
// Sessions with a running countdown are never swept. Returns the number of
// sessions removed.
func (s *SessionManager) Sweep(maxIdle time.Duration) int {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, ls := range s.sessions {
		ls.mu.Lock()
		finished := ls.session.Step == entity.StepComplete || !ls.session.TimerActive
		idle := now.Sub(ls.touchedAt) >= maxIdle
		ls.mu.Unlock()
		if finished && idle {
			ls.timer.Stop()
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps idle sessions at the given interval until ctx is
// cancelled. Without it, completed and abandoned sessions accumulate for the
// lifetime of the process.
func (s *SessionManager) RunJanitor(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(maxIdle); removed > 0 {
				s.log.Info("Idle sessions swept", zap.Int("removed", removed))
			}
		}
	}
}

// ==================== INTERNAL ====================

func (s *SessionManager) live(id uuid.UUID) (*liveSession, error) {
	s.mu.RLock()
	ls, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id.String(), entity.ErrSessionNotFound)
	}
	return ls, nil
}

// mutate runs fn with the session lock held and returns a snapshot of the
// resulting state.
func (s *SessionManager) mutate(id uuid.UUID, fn func(ls *liveSession) error) (*entity.ReservationSession, error) {
	ls, err := s.live(id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.touchedAt = time.Now()
	if err := fn(ls); err != nil {
		return nil, err
	}
	return ls.session.Clone(), nil
}

// startTimer (re)arms the hold countdown. Caller holds ls.mu. On expiry the
// tick callback soft-expires the selection and persists the empty draft; the
// workflow step is left untouched.
//
// The generation check closes a race with countdown replacement: a tick that
// already left the old countdown's select can be parked on ls.mu while the
// user re-arms the hold, and would otherwise expire the fresh hold the moment
// the lock is released. Closing the stop channel cannot reach that tick.
func (s *SessionManager) startTimer(ls *liveSession) {
	sessionID := ls.session.ID
	ls.timerGen++
	gen := ls.timerGen
	ls.timer.Start(s.holdSeconds, func(remaining int) bool {
		ls.mu.Lock()
		defer ls.mu.Unlock()
		if ls.timerGen != gen || !ls.session.TimerActive {
			return true
		}
		expired := ls.session.Tick(remaining)
		if expired {
			s.persistDraft(ls.session)
			s.log.Info("Seat hold expired",
				zap.String("session_id", sessionID.String()),
				zap.String("step", string(ls.session.Step)),
			)
		}
		return expired
	})
}

// fetchSeatsAsync fetches the availability snapshot without blocking the
// caller. A response that arrives after the screening changed is discarded.
// Caller holds ls.mu.
func (s *SessionManager) fetchSeatsAsync(ls *liveSession, screeningID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		snapshot, err := s.seats.Fetch(ctx, screeningID)

		ls.mu.Lock()
		defer ls.mu.Unlock()
		if ls.session.Screening == nil || ls.session.Screening.ID != screeningID {
			s.log.Debug("Discarding stale seat snapshot", zap.String("screening_id", screeningID))
			return
		}
		if err != nil {
			s.log.Warn("Seat fetch failed", zap.Error(err), zap.String("screening_id", screeningID))
			return
		}
		ls.session.SetSeatSnapshot(snapshot)
	}()
}

// persistDraft writes the current seat list to the draft store. Draft state
// is a reload convenience, not a system of record, so failures are logged
// and the mutation still succeeds. Caller holds ls.mu.
func (s *SessionManager) persistDraft(session *entity.ReservationSession) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.drafts.SaveSelectedSeats(ctx, session.ID.String(), session.SelectedSeats); err != nil {
		s.log.Warn("Failed to persist draft",
			zap.Error(err),
			zap.String("session_id", session.ID.String()),
		)
	}
}
