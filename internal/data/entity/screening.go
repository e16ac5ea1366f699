package entity

import "time"

type ScreenGrade string

const (
	GradeNormal  ScreenGrade = "normal"
	GradePremium ScreenGrade = "premium"
	GradeVIP     ScreenGrade = "vip"
)

// Screening identifies a scheduled showing. It is foreign catalog data:
// copied into a session when selected, never mutated.
type Screening struct {
	ID          string
	MovieTitle  string
	TheaterName string
	ScreenName  string
	Grade       ScreenGrade
	StartsAt    time.Time
}
