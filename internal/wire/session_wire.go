package wire

import (
	"ticket-desk/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireSession(r chi.Router, sessionHandler *adaptor.SessionHandler) {
	// POST /api/sessions - start a booking attempt for a screening
	r.Post("/api/sessions", sessionHandler.CreateSession)

	r.Route("/api/sessions/{id}", func(r chi.Router) {
		// GET / - full session state (step, selection, price, countdown)
		r.Get("/", sessionHandler.GetSession)

		// DELETE / - cancel the attempt from any step
		r.Delete("/", sessionHandler.CancelSession)

		// PUT /screening - reselect screening, resets selection and timer
		r.Put("/screening", sessionHandler.SelectScreening)

		// PUT /audience - set ticket count for one category
		r.Put("/audience", sessionHandler.SetAudience)

		// POST /seats/toggle - select or deselect one seat
		r.Post("/seats/toggle", sessionHandler.ToggleSeat)

		// POST /seats/refresh - re-fetch the availability snapshot
		r.Post("/seats/refresh", sessionHandler.RefreshSeats)

		// POST /timer/reset - re-arm the hold countdown
		r.Post("/timer/reset", sessionHandler.ResetTimer)

		// POST /coupon, DELETE /coupon - apply or remove a discount coupon
		r.Post("/coupon", sessionHandler.ApplyCoupon)
		r.Delete("/coupon", sessionHandler.RemoveCoupon)

		// POST /advance, /retreat - step transitions seats <-> payment
		r.Post("/advance", sessionHandler.Advance)
		r.Post("/retreat", sessionHandler.Retreat)

		// POST /submit - reservation + payment handoff, payment -> complete
		r.Post("/submit", sessionHandler.Submit)
	})
}

func wireHistory(r chi.Router, historyHandler *adaptor.HistoryHandler) {
	// GET /api/reservations - completed-reservation history for a user
	r.Get("/api/reservations", historyHandler.GetUserReservations)
}
