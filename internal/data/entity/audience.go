package entity

type AudienceCategory string

const (
	CategoryAdult  AudienceCategory = "adult"
	CategoryTeen   AudienceCategory = "teen"
	CategoryChild  AudienceCategory = "child"
	CategorySenior AudienceCategory = "senior"
)

// Categories lists all audience categories in display order.
var Categories = []AudienceCategory{CategoryAdult, CategoryTeen, CategoryChild, CategorySenior}

// ValidCategory reports whether c is a known audience category.
func ValidCategory(c AudienceCategory) bool {
	switch c {
	case CategoryAdult, CategoryTeen, CategoryChild, CategorySenior:
		return true
	}
	return false
}

// AudienceCount maps audience category to a non-negative ticket count.
// The sum of counts caps how many seats may be selected.
type AudienceCount map[AudienceCategory]int

// Total returns the number of tickets across all categories.
func (a AudienceCount) Total() int {
	total := 0
	for _, n := range a {
		total += n
	}
	return total
}

// Clone returns an independent copy.
func (a AudienceCount) Clone() AudienceCount {
	out := make(AudienceCount, len(a))
	for c, n := range a {
		out[c] = n
	}
	return out
}
