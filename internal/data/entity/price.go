package entity

// PriceDetails is the derived price breakdown for the current audience
// composition. Never set directly; recomputed on every relevant mutation.
type PriceDetails struct {
	Subtotals map[AudienceCategory]float64 `json:"subtotals"`
	Total     float64                      `json:"total"`
}

// rateTable holds the unit ticket price per (screen grade, audience category).
var rateTable = map[ScreenGrade]map[AudienceCategory]float64{
	GradeNormal: {
		CategoryAdult:  14000,
		CategoryTeen:   11000,
		CategoryChild:  8000,
		CategorySenior: 7000,
	},
	GradePremium: {
		CategoryAdult:  18000,
		CategoryTeen:   15000,
		CategoryChild:  11000,
		CategorySenior: 9000,
	},
	GradeVIP: {
		CategoryAdult:  25000,
		CategoryTeen:   21000,
		CategoryChild:  16000,
		CategorySenior: 13000,
	},
}

// UnitPrice returns the ticket price for one audience member of the given
// category at the given screen grade. Unknown grades fall back to normal.
func UnitPrice(category AudienceCategory, grade ScreenGrade) float64 {
	rates, ok := rateTable[grade]
	if !ok {
		rates = rateTable[GradeNormal]
	}
	return rates[category]
}

// CalculatePrice derives the price breakdown for an audience composition at a
// screen grade. Pure and deterministic; absent categories contribute zero.
func CalculatePrice(audience AudienceCount, grade ScreenGrade) PriceDetails {
	details := PriceDetails{Subtotals: make(map[AudienceCategory]float64)}
	for _, category := range Categories {
		count := audience[category]
		if count <= 0 {
			continue
		}
		subtotal := UnitPrice(category, grade) * float64(count)
		details.Subtotals[category] = subtotal
		details.Total += subtotal
	}
	return details
}
