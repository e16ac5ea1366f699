package adaptor_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ticket-desk/internal/adaptor"
	"ticket-desk/internal/data/entity"
	"ticket-desk/internal/dto/request"
	"ticket-desk/internal/dto/response"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubSessionService answers from function fields; unset methods report the
// session as unknown.
type stubSessionService struct {
	getFn    func(ctx context.Context, id uuid.UUID) (*entity.ReservationSession, error)
	toggleFn func(ctx context.Context, id uuid.UUID, seatID string) (*entity.ReservationSession, error)
}

func (s *stubSessionService) Create(ctx context.Context, userID string, sessionID uuid.UUID, screening entity.Screening) (*entity.ReservationSession, []string, error) {
	view := entity.NewReservationSession(uuid.New(), userID)
	_ = view.SelectScreening(screening, 600)
	return view, nil, nil
}

func (s *stubSessionService) Get(ctx context.Context, id uuid.UUID) (*entity.ReservationSession, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, entity.ErrSessionNotFound
}

func (s *stubSessionService) SelectScreening(ctx context.Context, id uuid.UUID, screening entity.Screening) (*entity.ReservationSession, error) {
	return nil, entity.ErrSessionNotFound
}

func (s *stubSessionService) SetAudienceCount(ctx context.Context, id uuid.UUID, category entity.AudienceCategory, count int) (*entity.ReservationSession, error) {
	return nil, entity.ErrSessionNotFound
}

func (s *stubSessionService) ToggleSeat(ctx context.Context, id uuid.UUID, seatID string) (*entity.ReservationSession, error) {
	if s.toggleFn != nil {
		return s.toggleFn(ctx, id, seatID)
	}
	return nil, entity.ErrSessionNotFound
}

func (s *stubSessionService) RefreshSeats(ctx context.Context, id uuid.UUID) (*entity.ReservationSession, error) {
	return nil, entity.ErrSessionNotFound
}

func (s *stubSessionService) ResetTimer(ctx context.Context, id uuid.UUID) (*entity.ReservationSession, error) {
	return nil, entity.ErrSessionNotFound
}

func (s *stubSessionService) ApplyCoupon(ctx context.Context, id uuid.UUID, coupon entity.Coupon) (bool, *entity.ReservationSession, error) {
	return false, nil, entity.ErrSessionNotFound
}

func (s *stubSessionService) RemoveCoupon(ctx context.Context, id uuid.UUID) (*entity.ReservationSession, error) {
	return nil, entity.ErrSessionNotFound
}

func (s *stubSessionService) Advance(ctx context.Context, id uuid.UUID) (*entity.ReservationSession, error) {
	return nil, entity.ErrSessionNotFound
}

func (s *stubSessionService) Retreat(ctx context.Context, id uuid.UUID) (*entity.ReservationSession, error) {
	return nil, entity.ErrSessionNotFound
}

func (s *stubSessionService) Cancel(ctx context.Context, id uuid.UUID) error {
	return entity.ErrSessionNotFound
}

type stubSubmitService struct {
	submitErr error
}

func (s *stubSubmitService) Submit(ctx context.Context, sessionID uuid.UUID, req *request.SubmitPaymentRequest) (*response.ReservationRecordResponse, error) {
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return &response.ReservationRecordResponse{OrderCode: "TKT-20260829-120000-0001"}, nil
}

func (s *stubSubmitService) GetUserReservations(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationRecordResponse], error) {
	return response.NewPaginatedResponse([]response.ReservationRecordResponse{}, req.Page, req.PerPage, 0), nil
}

func newRouter(sessions *stubSessionService, submit *stubSubmitService) *chi.Mux {
	h := adaptor.NewSessionHandler(sessions, submit, zap.NewNop())
	r := chi.NewRouter()
	r.Post("/api/sessions", h.CreateSession)
	r.Route("/api/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Post("/seats/toggle", h.ToggleSeat)
		r.Post("/submit", h.Submit)
	})
	return r
}

func doRequest(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestCreateSession(t *testing.T) {
	router := newRouter(&stubSessionService{}, &stubSubmitService{})

	body := `{
		"user_id": "user-1",
		"screening": {
			"id": "scr-1",
			"movie_title": "The Long Goodbye",
			"theater_name": "Downtown 5",
			"grade": "normal",
			"starts_at": "2026-08-30T19:00:00Z"
		}
	}`

	rec := doRequest(router, http.MethodPost, "/api/sessions", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope["status"])
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "seats", data["step"])
	assert.Equal(t, true, data["timer_active"])
}

func TestCreateSession_ValidationFailure(t *testing.T) {
	router := newRouter(&stubSessionService{}, &stubSubmitService{})

	// missing user_id and an unknown grade
	body := `{
		"screening": {
			"id": "scr-1",
			"movie_title": "The Long Goodbye",
			"theater_name": "Downtown 5",
			"grade": "imax",
			"starts_at": "2026-08-30T19:00:00Z"
		}
	}`

	rec := doRequest(router, http.MethodPost, "/api/sessions", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, false, envelope["status"])
	assert.NotEmpty(t, envelope["errors"])
}

func TestGetSession_BadID(t *testing.T) {
	router := newRouter(&stubSessionService{}, &stubSubmitService{})

	rec := doRequest(router, http.MethodGet, "/api/sessions/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSession_NotFound(t *testing.T) {
	router := newRouter(&stubSessionService{}, &stubSubmitService{})

	rec := doRequest(router, http.MethodGet, "/api/sessions/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSession_RendersSessionView(t *testing.T) {
	view := entity.NewReservationSession(uuid.New(), "user-1")
	require.NoError(t, view.SelectScreening(entity.Screening{
		ID:         "scr-1",
		MovieTitle: "The Long Goodbye",
		Grade:      entity.GradeNormal,
		StartsAt:   time.Now().Add(time.Hour),
	}, 600))
	view.SetSeatSnapshot(entity.SeatSnapshot{
		"A1": {ID: "A1", RowName: "A", SeatNumber: 1, Status: entity.SeatAvailable},
		"A2": {ID: "A2", RowName: "A", SeatNumber: 2, Status: entity.SeatOccupied},
	})
	_, err := view.SetAudienceCount(entity.CategoryAdult, 1)
	require.NoError(t, err)
	_, err = view.ToggleSeat("A1")
	require.NoError(t, err)

	sessions := &stubSessionService{
		getFn: func(ctx context.Context, id uuid.UUID) (*entity.ReservationSession, error) {
			return view, nil
		},
	}
	router := newRouter(sessions, &stubSubmitService{})

	rec := doRequest(router, http.MethodGet, "/api/sessions/"+view.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "seats", data["step"])
	assert.Equal(t, []any{"A1"}, data["selected_seats"])

	seats := data["seats"].([]any)
	require.Len(t, seats, 2)
	first := seats[0].(map[string]any)
	assert.Equal(t, "A1", first["id"])
	assert.Equal(t, true, first["selected"])

	price := data["price"].(map[string]any)
	assert.Equal(t, 14000.0, price["total"])
}

func TestToggleSeat_UnavailableSeatReason(t *testing.T) {
	sessions := &stubSessionService{
		toggleFn: func(ctx context.Context, id uuid.UUID, seatID string) (*entity.ReservationSession, error) {
			return nil, entity.ErrSeatUnavailable
		},
	}
	router := newRouter(sessions, &stubSubmitService{})

	rec := doRequest(router, http.MethodPost, "/api/sessions/"+uuid.NewString()+"/seats/toggle", `{"seat_id": "B1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	envelope := decodeEnvelope(t, rec)
	errs := envelope["errors"].(map[string]any)
	assert.Equal(t, "SEAT_UNAVAILABLE", errs["reason"])
}

func TestSubmit_StatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"conflict", entity.ErrConflict, http.StatusConflict},
		{"payment rejected", entity.ErrPayment, http.StatusPaymentRequired},
		{"backend down", entity.ErrNetwork, http.StatusBadGateway},
		{"wrong step", entity.ErrInvalidStep, http.StatusBadRequest},
		{"unknown failure", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newRouter(&stubSessionService{}, &stubSubmitService{submitErr: tc.err})

			rec := doRequest(router, http.MethodPost, "/api/sessions/"+uuid.NewString()+"/submit",
				`{"payment_method": "card", "card_info": {"number": "4111111111111111", "expiry": "12/27", "holder_name": "Jane Roe"}}`)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestSubmit_Success(t *testing.T) {
	router := newRouter(&stubSessionService{}, &stubSubmitService{})

	rec := doRequest(router, http.MethodPost, "/api/sessions/"+uuid.NewString()+"/submit",
		`{"payment_method": "card", "card_info": {"number": "4111111111111111", "expiry": "12/27", "holder_name": "Jane Roe"}}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "TKT-20260829-120000-0001", data["order_code"])
}
